package hf2spm

// ByteRange is an inclusive span of byte values.
type ByteRange struct {
	Lo byte
	Hi byte
}

// RemapEntry pairs a non-printable byte with its substitute codepoint.
type RemapEntry struct {
	Byte      byte
	Codepoint rune
}

// PrintableRanges holds the byte spans a converted vocabulary keeps as
// themselves: the ASCII printables and the Latin-1 printables minus the
// soft hyphen.
var PrintableRanges = []ByteRange{
	{Lo: '!', Hi: '~'},
	{Lo: '¡', Hi: '¬'},
	{Lo: '®', Hi: 'ÿ'},
}

// IsPrintableByte
// Reports whether b maps to itself in the converted vocabulary.
func IsPrintableByte(b byte) bool {
	for _, span := range PrintableRanges {
		if b >= span.Lo && b <= span.Hi {
			return true
		}
	}
	return false
}

// ByteRemapTable
// Returns the substitute codepoints for every non-printable byte from 1
// through 255, in byte order. Substitutes count up from 257, one per
// remapped byte. Byte zero terminates keys in the compiled tables and
// never appears in tokenizer text, so it gets no entry.
func ByteRemapTable() []RemapEntry {
	table := make([]RemapEntry, 0, 67)
	n := 0
	for b := 1; b < 256; b++ {
		if IsPrintableByte(byte(b)) {
			continue
		}
		n++
		table = append(table, RemapEntry{
			Byte:      byte(b),
			Codepoint: rune(256 + n),
		})
	}
	return table
}
