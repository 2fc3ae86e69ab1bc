package hf2spm

import (
	"errors"
	"fmt"
)

// Conversion failures carry one of four kinds so callers can react to
// the stage that failed rather than the message text. Match with
// errors.Is; the message holds the file, field, or id involved.
var (
	// ErrIO wraps filesystem failures on either side of a conversion.
	ErrIO = errors.New("hf2spm: i/o failure")

	// ErrParse marks tokenizer documents that are not valid JSON.
	ErrParse = errors.New("hf2spm: malformed json")

	// ErrSchema marks documents that parse but lack the fields a
	// conversion needs, or hold them in the wrong shape.
	ErrSchema = errors.New("hf2spm: schema violation")

	// ErrCompile marks charsmap material the compiler rejected.
	ErrCompile = errors.New("hf2spm: charsmap compilation failed")
)

// Field lookups split ErrSchema further: a field can be absent outright
// or present with an unexpected type. Both satisfy errors.Is(err,
// ErrSchema).
var (
	ErrFieldAbsent = fmt.Errorf("%w: required field absent", ErrSchema)
	ErrFieldType   = fmt.Errorf("%w: wrong field type", ErrSchema)
)
