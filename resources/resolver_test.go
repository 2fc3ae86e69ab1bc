package resources

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeArtifacts(t *testing.T, dir string) {
	for _, file := range TokenizerFiles() {
		assert.NoError(t, os.WriteFile(path.Join(dir, file),
			[]byte(`{"`+file+`": true}`), 0644))
	}
}

func TestResolveTokenizerLocalDir(t *testing.T) {
	hfDir := t.TempDir()
	writeArtifacts(t, hfDir)

	resolved, err := ResolveTokenizer(hfDir, t.TempDir(), "")
	assert.NoError(t, err)
	assert.Equal(t, hfDir, resolved,
		"a directory already holding both documents is used in place")
}

func TestHasTokenizerFiles(t *testing.T) {
	hfDir := t.TempDir()
	assert.False(t, hasTokenizerFiles(hfDir))

	assert.NoError(t, os.WriteFile(
		path.Join(hfDir, TOKENIZER_CONFIG_JSON), []byte(`{}`), 0644))
	assert.False(t, hasTokenizerFiles(hfDir),
		"one document is not enough")

	assert.NoError(t, os.WriteFile(
		path.Join(hfDir, TOKENIZER_JSON), []byte(`{}`), 0644))
	assert.True(t, hasTokenizerFiles(hfDir))

	assert.False(t, hasTokenizerFiles(path.Join(hfDir, "absent")))
}

func TestLoadTokenizerDir(t *testing.T) {
	hfDir := t.TempDir()
	writeArtifacts(t, hfDir)

	rsrcs, err := LoadTokenizerDir(hfDir)
	assert.NoError(t, err)
	defer rsrcs.Cleanup()

	for _, file := range TokenizerFiles() {
		entry, ok := (*rsrcs)[file]
		assert.True(t, ok)
		assert.Equal(t, `{"`+file+`": true}`, string(*entry.Data))
	}
}

func TestLoadTokenizerDirMissingFile(t *testing.T) {
	_, err := LoadTokenizerDir(t.TempDir())
	assert.Error(t, err)
	assert.ErrorContains(t, err, TOKENIZER_CONFIG_JSON)
}

func TestLoadTokenizerDirEmptyFile(t *testing.T) {
	hfDir := t.TempDir()
	for _, file := range TokenizerFiles() {
		assert.NoError(t, os.WriteFile(path.Join(hfDir, file), nil, 0644))
	}
	rsrcs, err := LoadTokenizerDir(hfDir)
	assert.NoError(t, err)
	defer rsrcs.Cleanup()
	assert.Empty(t, *(*rsrcs)[TOKENIZER_JSON].Data)
}
