package hf2spm

import (
	"fmt"

	"github.com/wbrown/hf2spm/sentencepiece"
)

// A converted model carries two normalization passes built from the
// byte remap table: the forward pass rewrites each non-printable byte,
// as a codepoint, into its substitute, and the inverse pass rewrites
// each substitute back.

// ForwardCharsMap
// Maps each remapped byte's codepoint to its substitute codepoint.
func ForwardCharsMap() sentencepiece.CharsMap {
	charsMap := make(sentencepiece.CharsMap, 67)
	for _, entry := range ByteRemapTable() {
		charsMap[string(rune(entry.Byte))] = string(entry.Codepoint)
	}
	return charsMap
}

// InverseCharsMap
// Maps each substitute codepoint back to the byte's codepoint.
func InverseCharsMap() sentencepiece.CharsMap {
	charsMap := make(sentencepiece.CharsMap, 67)
	for _, entry := range ByteRemapTable() {
		charsMap[string(entry.Codepoint)] = string(rune(entry.Byte))
	}
	return charsMap
}

// normalizerSpecs compiles both charsmaps. Dummy prefixes, whitespace
// collapsing and whitespace escaping are all switched off; byte level
// vocabularies carry whitespace as remapped bytes instead.
func normalizerSpecs() (forward sentencepiece.NormalizerSpec,
	inverse sentencepiece.NormalizerSpec, err error) {
	forwardBlob, err := sentencepiece.CompileCharsMap(ForwardCharsMap())
	if err != nil {
		return forward, inverse, fmt.Errorf("%w: forward charsmap: %v",
			ErrCompile, err)
	}
	inverseBlob, err := sentencepiece.CompileCharsMap(InverseCharsMap())
	if err != nil {
		return forward, inverse, fmt.Errorf("%w: inverse charsmap: %v",
			ErrCompile, err)
	}
	forward = sentencepiece.NormalizerSpec{
		PrecompiledCharsMap:    forwardBlob,
		AddDummyPrefix:         false,
		RemoveExtraWhitespaces: false,
		EscapeWhitespaces:      false,
	}
	inverse = sentencepiece.NormalizerSpec{
		PrecompiledCharsMap:    inverseBlob,
		AddDummyPrefix:         false,
		RemoveExtraWhitespaces: false,
		EscapeWhitespaces:      false,
	}
	return forward, inverse, nil
}
