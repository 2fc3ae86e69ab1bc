package hf2spm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustDoc(t *testing.T, name string, data string) *Document {
	doc, err := ParseDocument(name, []byte(data))
	assert.NoError(t, err)
	return doc
}

func TestParseDocument(t *testing.T) {
	doc := mustDoc(t, "tokenizer.json", `{"a": 1}`)
	assert.Equal(t, "tokenizer.json", doc.name)

	_, err := ParseDocument("bad.json", []byte(`{"a":`))
	assert.ErrorIs(t, err, ErrParse)

	_, err = ParseDocument("trailing.json", []byte(`{"a": 1} {"b": 2}`))
	assert.ErrorIs(t, err, ErrParse)

	_, err = ParseDocument("array.json", []byte(`[1, 2]`))
	assert.ErrorIs(t, err, ErrSchema)
	assert.NotErrorIs(t, err, ErrParse)

	_, err = ParseDocument("empty.json", nil)
	assert.ErrorIs(t, err, ErrParse)
}

func TestFieldAbsentVersusWrongType(t *testing.T) {
	doc := mustDoc(t, "doc.json",
		`{"s": "x", "n": 5, "o": {}, "arr": [], "b": true, "nul": null}`)

	s, err := field[string](doc, doc.root, "", "s")
	assert.NoError(t, err)
	assert.Equal(t, "x", s)

	_, err = field[string](doc, doc.root, "", "missing")
	assert.ErrorIs(t, err, ErrFieldAbsent)
	assert.ErrorIs(t, err, ErrSchema)
	assert.NotErrorIs(t, err, ErrFieldType)

	_, err = field[string](doc, doc.root, "", "n")
	assert.ErrorIs(t, err, ErrFieldType)
	assert.ErrorIs(t, err, ErrSchema)
	assert.NotErrorIs(t, err, ErrFieldAbsent)

	_, err = field[bool](doc, doc.root, "", "nul")
	assert.ErrorIs(t, err, ErrFieldType)

	object, err := field[map[string]interface{}](doc, doc.root, "", "o")
	assert.NoError(t, err)
	assert.Empty(t, object)

	b, err := field[bool](doc, doc.root, "", "b")
	assert.NoError(t, err)
	assert.True(t, b)
}

func TestFieldErrorNamesDocumentAndPath(t *testing.T) {
	doc := mustDoc(t, "tokenizer.json", `{"model": {}}`)
	model, err := field[map[string]interface{}](doc, doc.root, "", "model")
	assert.NoError(t, err)
	_, err = field[map[string]interface{}](doc, model, "model", "vocab")
	assert.ErrorContains(t, err, "tokenizer.json")
	assert.ErrorContains(t, err, "model.vocab")
}

func TestOptionalArray(t *testing.T) {
	doc := mustDoc(t, "doc.json", `{"arr": [1], "s": "x"}`)

	arr, err := optionalArray(doc, "arr")
	assert.NoError(t, err)
	assert.Len(t, arr, 1)

	arr, err = optionalArray(doc, "missing")
	assert.NoError(t, err)
	assert.Nil(t, arr)

	_, err = optionalArray(doc, "s")
	assert.ErrorIs(t, err, ErrFieldType)
}

func TestAsInt(t *testing.T) {
	doc := mustDoc(t, "doc.json",
		`{"n": 5, "f": 1.5, "s": "7", "big": 9007199254740993}`)

	n, err := asInt(doc, "n", doc.root["n"])
	assert.NoError(t, err)
	assert.Equal(t, int64(5), n)

	// Exact beyond float64 precision; UseNumber keeps it intact.
	big, err := asInt(doc, "big", doc.root["big"])
	assert.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), big)

	_, err = asInt(doc, "f", doc.root["f"])
	assert.ErrorIs(t, err, ErrFieldType)

	_, err = asInt(doc, "s", doc.root["s"])
	assert.ErrorIs(t, err, ErrFieldType)
}

func TestErrorKindsDistinct(t *testing.T) {
	kinds := []error{ErrIO, ErrParse, ErrSchema, ErrCompile}
	for i, kind := range kinds {
		for j, other := range kinds {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(kind, other),
				"%v should not match %v", kind, other)
		}
	}
	assert.True(t, errors.Is(ErrFieldAbsent, ErrSchema))
	assert.True(t, errors.Is(ErrFieldType, ErrSchema))
	assert.False(t, errors.Is(ErrFieldAbsent, ErrFieldType))
}

func TestUseNumberPreservesIds(t *testing.T) {
	doc := mustDoc(t, "doc.json", `{"id": 3}`)
	_, isNumber := doc.root["id"].(json.Number)
	assert.True(t, isNumber)
}
