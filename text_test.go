package ui_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/go-theft-auto/ui"
)

// fixedMetrics gives A-D an advance of 30, spaces 10, combining marks 0 and
// everything else 20. Every line is 20 tall.
var fixedMetrics = ui.GlyphMetricsFunc(func(_ ui.FontHandle, _ float32, r rune) ui.GlyphMetric {
	m := ui.GlyphMetric{LineHeight: 20}
	switch {
	case r >= 'A' && r <= 'D', r == 'e':
		m.Advance = 30
	case r == ' ', r == '\u00a0':
		m.Advance = 10
	case r == '\u0301':
		m.Advance = 0
	default:
		m.Advance = 20
	}
	return m
})

func sections(texts ...string) []ui.TextSection {
	out := make([]ui.TextSection, len(texts))
	for i, t := range texts {
		out[i] = ui.TextSection{Text: t, Color: ui.ColorWhite, Size: 16}
	}
	return out
}

// lineText returns the runes of line i, including hanging whitespace.
func lineText(l *ui.TextLayout, i int) string {
	var rs []rune
	for _, g := range l.Glyphs[l.Lines[i].Start:l.Lines[i].End] {
		rs = append(rs, g.Rune)
	}
	return string(rs)
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func TestLayoutWrapBreaksAtSpace(t *testing.T) {
	box := ui.Rect{W: 100, H: 200}
	l := ui.LayoutSections(sections("AB", " CD"), ui.Wrap, ui.TopLeft, box, fixedMetrics)

	if len(l.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(l.Lines))
	}
	if got := lineText(l, 0); got != "AB " {
		t.Errorf("line 0 = %q, want %q", got, "AB ")
	}
	if got := lineText(l, 1); got != "CD" {
		t.Errorf("line 1 = %q, want %q", got, "CD")
	}
	for i, want := range []float32{60, 60} {
		if l.Lines[i].Width != want {
			t.Errorf("line %d width = %v, want %v", i, l.Lines[i].Width, want)
		}
	}
	if l.Lines[1].Y != 20 {
		t.Errorf("line 1 y = %v, want 20", l.Lines[1].Y)
	}

	c := l.Glyphs[l.Lines[1].Start]
	if c.Rune != 'C' || c.X != 0 || c.Section != 1 {
		t.Errorf("first glyph of line 1 = %+v, want C at x=0 in section 1", c)
	}
	if l.Bounds != (ui.Rect{W: 60, H: 40}) {
		t.Errorf("bounds = %+v, want 60x40", l.Bounds)
	}
}

func TestLayoutRunsFollowSections(t *testing.T) {
	l := ui.LayoutSections(sections("AB", " CD"), ui.Wrap, ui.TopLeft, ui.Rect{W: 100}, fixedMetrics)

	want := []struct {
		section, line, start, end int
	}{
		{0, 0, 0, 2},
		{1, 0, 2, 3},
		{1, 1, 3, 5},
	}
	if len(l.Runs) != len(want) {
		t.Fatalf("expected %d runs, got %d: %+v", len(want), len(l.Runs), l.Runs)
	}
	for i, w := range want {
		r := l.Runs[i]
		if r.Section != w.section || r.Line != w.line || r.Start != w.start || r.End != w.end {
			t.Errorf("run %d = %+v, want %+v", i, r, w)
		}
	}
}

func TestLayoutNoWrapOverflows(t *testing.T) {
	box := ui.Rect{W: 100, H: 20}
	l := ui.LayoutSections(sections("AB", " CD"), ui.NoWrap, ui.TopLeft, box, fixedMetrics)

	if len(l.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(l.Lines))
	}
	if len(l.Glyphs) != 5 {
		t.Errorf("expected every glyph to be kept, got %d", len(l.Glyphs))
	}
	if l.Lines[0].Width != 130 || l.Bounds.W != 130 {
		t.Errorf("width = %v, bounds = %v, want 130", l.Lines[0].Width, l.Bounds.W)
	}
}

func TestLayoutBreaksUnbrokenToken(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float32
		lines int
	}{
		{"token wider than box", "ABCDABCD", 100, 3},
		{"glyph wider than box", "AB", 20, 2},
		{"no-break space is not a break", "AB\u00a0CD", 100, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ui.LayoutSections(sections(tt.text), ui.Wrap, ui.TopLeft, ui.Rect{W: tt.width}, fixedMetrics)
			if len(l.Lines) != tt.lines {
				t.Fatalf("expected %d lines, got %d", tt.lines, len(l.Lines))
			}
			for i, line := range l.Lines {
				if line.End <= line.Start {
					t.Errorf("line %d is empty", i)
				}
			}
		})
	}
}

func TestLayoutNoBreakSpaceStaysInToken(t *testing.T) {
	l := ui.LayoutSections(sections("AB\u00a0CD"), ui.Wrap, ui.TopLeft, ui.Rect{W: 100}, fixedMetrics)
	if got := lineText(l, 0); got != "AB\u00a0C" {
		t.Errorf("line 0 = %q, want a character break after C", got)
	}
}

func TestLayoutKeepsGraphemeClusters(t *testing.T) {
	// Each cluster is a base letter plus a combining accent.
	text := "e\u0301e\u0301e\u0301"
	l := ui.LayoutSections(sections(text), ui.Wrap, ui.TopLeft, ui.Rect{W: 50}, fixedMetrics)

	if len(l.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(l.Lines))
	}
	for i := range l.Lines {
		if got := lineText(l, i); got != "e\u0301" {
			t.Errorf("line %d = %q, want a whole cluster", i, got)
		}
	}
}

func TestLayoutJustify(t *testing.T) {
	box := ui.Rect{W: 100, H: 100}
	l := ui.LayoutSections(sections("A B C D"), ui.WrapWithJustify, ui.TopLeft, box, fixedMetrics)

	if len(l.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(l.Lines))
	}
	first, last := l.Lines[0], l.Lines[1]
	if !first.Justified || !approx(first.Width, box.W) {
		t.Errorf("non-final line: justified=%v width=%v, want width %v", first.Justified, first.Width, box.W)
	}
	if b := l.Glyphs[2]; b.Rune != 'B' || !approx(b.X+b.Advance, box.W) {
		t.Errorf("last glyph of justified line ends at %v, want %v", b.X+b.Advance, box.W)
	}
	if last.Justified || last.Width != 70 {
		t.Errorf("final line: justified=%v width=%v, want natural width 70", last.Justified, last.Width)
	}
}

func TestLayoutJustifyWithoutSpaces(t *testing.T) {
	box := ui.Rect{W: 100}
	l := ui.LayoutSections(sections("ABCDAB"), ui.WrapWithJustify, ui.TopLeft, box, fixedMetrics)

	if len(l.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(l.Lines))
	}
	if !approx(l.Lines[0].Width, box.W) {
		t.Errorf("non-final line width = %v, want %v", l.Lines[0].Width, box.W)
	}
}

func TestLayoutJustifySingleCluster(t *testing.T) {
	box := ui.Rect{W: 100}
	l := ui.LayoutSections(sections("A WWWW"), ui.WrapWithJustify, ui.TopLeft, box, fixedMetrics)

	if len(l.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(l.Lines))
	}
	first := l.Lines[0]
	if got := lineText(l, 0); got != "A " {
		t.Errorf("line 0 = %q, want %q", got, "A ")
	}
	if !first.Justified || !approx(first.Width, box.W) {
		t.Errorf("single cluster line: justified=%v width=%v, want width %v", first.Justified, first.Width, box.W)
	}
	if a := l.Glyphs[0]; a.X != 0 {
		t.Errorf("expected the cluster to stay at the line start, got x=%v", a.X)
	}
	if last := l.Lines[1]; last.Justified || last.Width != 80 {
		t.Errorf("final line: justified=%v width=%v, want natural width 80", last.Justified, last.Width)
	}
}

func TestLayoutHardBreakEndsParagraph(t *testing.T) {
	box := ui.Rect{W: 200}
	l := ui.LayoutSections(sections("A B\nC D"), ui.WrapWithJustify, ui.TopLeft, box, fixedMetrics)

	if len(l.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(l.Lines))
	}
	for i, line := range l.Lines {
		if line.Justified {
			t.Errorf("line %d ends a paragraph and must not be justified", i)
		}
		if line.Width != 70 {
			t.Errorf("line %d width = %v, want 70", i, line.Width)
		}
	}
	if l.Lines[1].Y != 20 {
		t.Errorf("line 1 y = %v, want 20", l.Lines[1].Y)
	}
}

func TestLayoutAlignment(t *testing.T) {
	box := ui.Rect{X: 10, W: 100, H: 20}
	tests := []struct {
		align ui.Anchor
		x     float32
	}{
		{ui.TopLeft, 10},
		{ui.TopMiddle, 30},
		{ui.MiddleRight, 50},
		{0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.align.String(), func(t *testing.T) {
			l := ui.LayoutSections(sections("AB"), ui.Wrap, tt.align, box, fixedMetrics)
			if l.Lines[0].X != tt.x || l.Glyphs[0].X != tt.x {
				t.Errorf("line x = %v, glyph x = %v, want %v", l.Lines[0].X, l.Glyphs[0].X, tt.x)
			}
		})
	}
}

func TestLayoutZeroBox(t *testing.T) {
	box := ui.Rect{X: 10, Y: 10}
	l := ui.LayoutSections(sections("AB CD"), ui.Wrap, ui.TopLeft, box, fixedMetrics)

	if len(l.Lines) != 1 {
		t.Fatalf("expected wrapping to be disabled, got %d lines", len(l.Lines))
	}
	if l.Glyphs[0].X != 10 || l.Glyphs[0].Y != 10 {
		t.Errorf("first glyph at (%v, %v), want box origin", l.Glyphs[0].X, l.Glyphs[0].Y)
	}
	if l.Bounds.W != 130 || l.Bounds.H != 20 {
		t.Errorf("bounds = %+v, want natural size 130x20", l.Bounds)
	}
}

func TestLayoutEmpty(t *testing.T) {
	l := ui.LayoutSections(nil, ui.Wrap, ui.TopLeft, ui.Rect{X: 5, Y: 5, W: 100}, fixedMetrics)
	if len(l.Glyphs) != 0 || len(l.Lines) != 0 {
		t.Errorf("expected empty layout, got %d glyphs %d lines", len(l.Glyphs), len(l.Lines))
	}
	if l.Bounds != (ui.Rect{X: 5, Y: 5}) {
		t.Errorf("bounds = %+v, want zero size at box origin", l.Bounds)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	text := ui.MultiSectionText{
		Sections: sections("The quick ", "brown fox ", "jumps over the lazy dog"),
		Wrap:     ui.WrapWithJustify,
		Align:    ui.TopMiddle,
	}
	box := ui.Rect{X: 3, Y: 7, W: 150, H: 100}

	a := ui.Layout(text, box, fixedMetrics)
	b := ui.Layout(text, box, fixedMetrics)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different layouts")
	}
}
