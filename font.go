package st7735

// Font produces the bitmap for a character: five byte columns, where bit n of
// a column is row n of the glyph (7 rows used).
//
// The driver ships no glyph data; callers supply their own tables.
type Font interface {
	Glyph(r rune) [5]byte
}

// FontFunc adapts a plain function to the Font interface.
type FontFunc func(r rune) [5]byte

// Glyph implements Font.
func (f FontFunc) Glyph(r rune) [5]byte {
	return f(r)
}
