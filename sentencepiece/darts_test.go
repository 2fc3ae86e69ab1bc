package sentencepiece

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildTestTrie(t *testing.T, entries map[string]int32) *trie {
	keys, values := sortedEntries(entries)
	units, err := buildDoubleArray(keys, values)
	assert.NoError(t, err)
	return &trie{units: units}
}

func sortedEntries(entries map[string]int32) ([][]byte, []int32) {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	byteKeys := make([][]byte, len(keys))
	values := make([]int32, len(keys))
	for i, key := range keys {
		byteKeys[i] = []byte(key)
		values[i] = entries[key]
	}
	return byteKeys, values
}

func TestDoubleArrayPrefixMatches(t *testing.T) {
	tr := buildTestTrie(t, map[string]int32{
		"a":   10,
		"ab":  20,
		"abc": 30,
		"b":   40,
		"cd":  50,
	})

	values, lengths := tr.prefixMatches([]byte("abcde"))
	assert.Equal(t, []int32{10, 20, 30}, values)
	assert.Equal(t, []int{1, 2, 3}, lengths)

	values, lengths = tr.prefixMatches([]byte("b"))
	assert.Equal(t, []int32{40}, values)
	assert.Equal(t, []int{1}, lengths)

	values, _ = tr.prefixMatches([]byte("c"))
	assert.Empty(t, values, "interior node must not report a value")

	values, lengths = tr.prefixMatches([]byte("cd"))
	assert.Equal(t, []int32{50}, values)
	assert.Equal(t, []int{2}, lengths)

	values, _ = tr.prefixMatches([]byte("zzz"))
	assert.Empty(t, values)
}

func TestDoubleArrayMultibyteKeys(t *testing.T) {
	tr := buildTestTrie(t, map[string]int32{
		"\u00a0": 1,
		"\u00ad": 2,
		"ā":      3,
	})

	values, lengths := tr.prefixMatches([]byte("\u00adx"))
	assert.Equal(t, []int32{2}, values)
	assert.Equal(t, []int{2}, lengths, "match spans the whole UTF-8 sequence")

	// 0xC2 alone is a strict prefix of two keys but is not a key itself.
	values, _ = tr.prefixMatches([]byte{0xC2})
	assert.Empty(t, values)

	values, _ = tr.prefixMatches([]byte("ā"))
	assert.Equal(t, []int32{3}, values)
}

func TestDoubleArrayWalkOrder(t *testing.T) {
	entries := map[string]int32{
		"a":      7,
		"ab":     8,
		"b":      9,
		"\u00a0": 10,
	}
	tr := buildTestTrie(t, entries)

	walked := make(map[string]int32)
	order := make([]string, 0, len(entries))
	err := tr.walk(func(key []byte, value int32) error {
		walked[string(key)] = value
		order = append(order, string(key))
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, entries, walked)
	assert.Equal(t, []string{"a", "ab", "b", "\u00a0"}, order)
}

func TestDoubleArrayDeterministic(t *testing.T) {
	entries := map[string]int32{
		"one":   1,
		"two":   2,
		"three": 3,
		"四":     4,
	}
	keys, values := sortedEntries(entries)
	first, err := buildDoubleArray(keys, values)
	assert.NoError(t, err)
	second, err := buildDoubleArray(keys, values)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDoubleArrayBlockPadding(t *testing.T) {
	keys, values := sortedEntries(map[string]int32{"a": 1, "b": 2})
	units, err := buildDoubleArray(keys, values)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(units)%blockSize)

	// Unused slots carry the leaf bit, whose label can never equal an
	// input byte, so a probe into them fails instead of matching.
	filler := 0
	for _, unit := range units {
		if unit == leafBit {
			filler++
		}
	}
	assert.Greater(t, filler, 0)
}

func TestDoubleArrayRejects(t *testing.T) {
	rejects := []struct {
		name   string
		keys   [][]byte
		values []int32
	}{
		{"no keys", [][]byte{}, []int32{}},
		{"empty key", [][]byte{{}}, []int32{1}},
		{"zero byte", [][]byte{{'a', 0, 'b'}}, []int32{1}},
		{"unsorted", [][]byte{[]byte("b"), []byte("a")}, []int32{1, 2}},
		{"duplicate", [][]byte{[]byte("a"), []byte("a")}, []int32{1, 2}},
		{"negative value", [][]byte{[]byte("a")}, []int32{-1}},
		{"arity mismatch", [][]byte{[]byte("a")}, []int32{1, 2}},
	}
	for _, test := range rejects {
		_, err := buildDoubleArray(test.keys, test.values)
		assert.Error(t, err, test.name)
	}
}
