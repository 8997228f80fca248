package ui

import "github.com/mattn/go-runewidth"

// CellMetrics measures glyphs on a fixed cell grid, the way terminal hosts
// lay text out. Wide (East Asian) runes take two cells, combining marks none.
type CellMetrics struct {
	CellWidth  float32
	CellHeight float32
	// BaseSize is the font size the cell dimensions correspond to. When
	// both it and the requested size are positive, cells scale by
	// size/BaseSize.
	BaseSize float32
}

// Glyph implements GlyphMetrics.
func (m CellMetrics) Glyph(_ FontHandle, size float32, r rune) GlyphMetric {
	scale := float32(1)
	if m.BaseSize > 0 && size > 0 {
		scale = size / m.BaseSize
	}
	return GlyphMetric{
		Advance:    float32(runewidth.RuneWidth(r)) * m.CellWidth * scale,
		LineHeight: m.CellHeight * scale,
	}
}
