package sentencepiece

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

// CharsMap maps source codepoint sequences to their replacements. Keys
// and values are the UTF-8 encodings of the codepoint sequences.
type CharsMap map[string]string

// CompileCharsMap
// Serializes a charsmap into the precompiled normalizer blob: a uint32
// little-endian byte count for the trie, the double-array units, then
// the NUL-terminated replacement strings. Trie values are byte offsets
// into the replacement section, and identical replacements share one
// entry. Entries are processed in key order, so equal maps always
// compile to equal blobs.
func CompileCharsMap(charsMap CharsMap) ([]byte, error) {
	if len(charsMap) == 0 {
		return nil, fmt.Errorf("charsmap is empty")
	}
	keys := make([]string, 0, len(charsMap))
	for key := range charsMap {
		if key == "" {
			return nil, fmt.Errorf("charsmap contains an empty key")
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	normalized := make([]byte, 0, len(charsMap)*4)
	offsets := make(map[string]int, len(charsMap))
	trieKeys := make([][]byte, len(keys))
	trieValues := make([]int32, len(keys))
	for i, key := range keys {
		value := charsMap[key]
		offset, seen := offsets[value]
		if !seen {
			offset = len(normalized)
			offsets[value] = offset
			normalized = append(normalized, value...)
			normalized = append(normalized, 0)
		}
		trieKeys[i] = []byte(key)
		trieValues[i] = int32(offset)
	}

	units, err := buildDoubleArray(trieKeys, trieValues)
	if err != nil {
		return nil, fmt.Errorf("charsmap trie: %w", err)
	}
	blob := make([]byte, 4, 4+len(units)*4+len(normalized))
	binary.LittleEndian.PutUint32(blob, uint32(len(units)*4))
	var scratch [4]byte
	for _, unit := range units {
		binary.LittleEndian.PutUint32(scratch[:], unit)
		blob = append(blob, scratch[:]...)
	}
	blob = append(blob, normalized...)
	return blob, nil
}

// DecodeCharsMap
// Rebuilds the mapping held in a precompiled charsmap blob.
func DecodeCharsMap(blob []byte) (CharsMap, error) {
	units, normalized, err := splitCharsMap(blob)
	if err != nil {
		return nil, err
	}
	charsMap := make(CharsMap)
	t := &trie{units: units}
	walkErr := t.walk(func(key []byte, value int32) error {
		replacement, err := replacementAt(normalized, value)
		if err != nil {
			return err
		}
		charsMap[string(key)] = string(replacement)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return charsMap, nil
}

// splitCharsMap validates the blob header and separates the trie units
// from the replacement section.
func splitCharsMap(blob []byte) ([]uint32, []byte, error) {
	if len(blob) < 4 {
		return nil, nil, fmt.Errorf("charsmap blob of %d bytes has no header",
			len(blob))
	}
	trieSize := int(binary.LittleEndian.Uint32(blob))
	if trieSize%4 != 0 || trieSize > len(blob)-4 {
		return nil, nil, fmt.Errorf(
			"charsmap trie of %d bytes does not fit a %d byte blob",
			trieSize, len(blob))
	}
	units := make([]uint32, trieSize/4)
	for i := range units {
		units[i] = binary.LittleEndian.Uint32(blob[4+i*4:])
	}
	return units, blob[4+trieSize:], nil
}

func replacementAt(normalized []byte, value int32) ([]byte, error) {
	offset := int(value)
	if offset < 0 || offset >= len(normalized) {
		return nil, fmt.Errorf("replacement offset %d outside %d bytes",
			offset, len(normalized))
	}
	end := bytes.IndexByte(normalized[offset:], 0)
	if end < 0 {
		return nil, fmt.Errorf("unterminated replacement at offset %d",
			offset)
	}
	return normalized[offset : offset+end], nil
}

// Normalizer applies a compiled charsmap to text.
type Normalizer struct {
	trie       trie
	normalized []byte
}

// NewNormalizer
// Wraps a precompiled charsmap blob for lookups.
func NewNormalizer(blob []byte) (*Normalizer, error) {
	units, normalized, err := splitCharsMap(blob)
	if err != nil {
		return nil, err
	}
	return &Normalizer{trie: trie{units: units}, normalized: normalized}, nil
}

// Normalize
// Rewrites the longest charsmap prefix at each position and copies bytes
// with no match through untouched.
func (normalizer *Normalizer) Normalize(text string) string {
	src := []byte(text)
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); {
		values, lengths := normalizer.trie.prefixMatches(src[i:])
		if len(values) == 0 {
			out = append(out, src[i])
			i++
			continue
		}
		replacement, err := replacementAt(normalizer.normalized,
			values[len(values)-1])
		if err != nil {
			out = append(out, src[i])
			i++
			continue
		}
		out = append(out, replacement...)
		i += lengths[len(lengths)-1]
	}
	return string(out)
}
