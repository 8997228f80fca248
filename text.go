package ui

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// PlacedGlyph is one glyph positioned in screen space. X, Y is the top-left
// of the glyph cell on its line.
type PlacedGlyph struct {
	Rune    rune
	Section int // Index into the source sections
	Line    int
	X, Y    float32
	Advance float32
	Height  float32
}

// GlyphRun is a maximal sequence of glyphs on one line from one section.
// Start and End index TextLayout.Glyphs.
type GlyphRun struct {
	Section    int
	Line       int
	Start, End int
	X, Y       float32
	Width      float32
}

// TextLine describes one laid-out line. Start and End index
// TextLayout.Glyphs. Width excludes trailing whitespace.
type TextLine struct {
	Start, End    int
	X, Y          float32
	Width, Height float32
	Justified     bool
}

// TextLayout is the result of laying out a multi-section text.
// Bounds is the measured extent of the content, independent of the box, so
// callers can auto-size.
type TextLayout struct {
	Glyphs []PlacedGlyph
	Runs   []GlyphRun
	Lines  []TextLine
	Bounds Rect
}

// Layout lays out t inside box. See LayoutSections.
func Layout(t MultiSectionText, box Rect, metrics GlyphMetrics) *TextLayout {
	return LayoutSections(t.Sections, t.Wrap, t.Align, box, metrics)
}

// LayoutSections concatenates sections into one stream and breaks it into
// lines inside box.
//
// Lines stack downwards from box.Y; each line is as tall as its tallest
// glyph. A '\n' always ends a line and a paragraph. With a box of zero width
// wrapping is disabled and every line starts from the box origin.
//
// The result depends only on the arguments: identical inputs produce
// identical glyph positions.
func LayoutSections(sections []TextSection, wrap WrapMode, align Anchor, box Rect, metrics GlyphMetrics) *TextLayout {
	out := &TextLayout{Bounds: Rect{X: box.X, Y: box.Y}}
	stream := buildStream(sections, metrics)
	if len(stream) == 0 {
		return out
	}

	wrapping := wrap != NoWrap && box.W > 0
	lines := breakLines(stream, wrapping, box.W)
	placeLines(out, stream, lines, wrap == WrapWithJustify && wrapping, align, box)
	return out
}

// streamGlyph is one codepoint of the concatenated section stream.
type streamGlyph struct {
	r            rune
	section      int
	advance      float32
	lineHeight   float32
	space        bool // Breakable whitespace
	newline      bool
	clusterStart bool // First codepoint of a grapheme cluster
}

func buildStream(sections []TextSection, metrics GlyphMetrics) []streamGlyph {
	n := 0
	for _, s := range sections {
		n += len(s.Text)
	}
	stream := make([]streamGlyph, 0, n)

	for si, s := range sections {
		rest := s.Text
		state := -1
		for len(rest) > 0 {
			var cluster string
			cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
			first := true
			for _, r := range cluster {
				m := metrics.Glyph(s.Font, s.Size, r)
				g := streamGlyph{
					r:            r,
					section:      si,
					advance:      m.Advance,
					lineHeight:   m.LineHeight,
					space:        isBreakingSpace(r),
					newline:      r == '\n',
					clusterStart: first,
				}
				if g.newline || r == '\r' {
					g.advance = 0
				}
				stream = append(stream, g)
				first = false
			}
		}
	}
	return stream
}

// isBreakingSpace reports whitespace that allows a line break.
// No-break spaces do not.
func isBreakingSpace(r rune) bool {
	switch r {
	case '\n', '\u00a0', '\u2007', '\u202f':
		return false
	}
	return unicode.IsSpace(r)
}

// lineSpan is a line in stream coordinates. Glyphs [start, end) belong to the
// line; [start, content) is what counts for width (trailing whitespace is
// excluded). hard is set for lines ending a paragraph.
type lineSpan struct {
	start, end, content int
	newline             int // Stream index of the terminating '\n', or -1
	hard                bool
}

// breakLines splits the stream into lines. Whitespace never causes a break by
// itself; it hangs at the end of the line it follows.
func breakLines(gs []streamGlyph, wrapping bool, maxWidth float32) []lineSpan {
	var (
		lines     []lineSpan
		start     int
		width     float32
		lastBreak = -1 // First glyph of the latest whitespace run in the line
	)

	for i := 0; i < len(gs); i++ {
		g := &gs[i]

		if g.newline {
			lines = append(lines, lineSpan{start: start, end: i, content: trimSpaces(gs, start, i), newline: i, hard: true})
			start, width, lastBreak = i+1, 0, -1
			continue
		}

		if g.space {
			if i > start && !gs[i-1].space {
				lastBreak = i
			}
			width += g.advance
			continue
		}

		if wrapping && i > start && width+g.advance > maxWidth {
			if lastBreak > start {
				next := lastBreak
				for next < i && gs[next].space {
					next++
				}
				lines = append(lines, lineSpan{start: start, end: next, content: lastBreak, newline: -1})
				start = next
			} else if k := clusterBoundary(gs, start, i); k > start {
				// Token wider than the box: break between characters.
				lines = append(lines, lineSpan{start: start, end: k, content: k, newline: -1})
				start = k
			} else {
				// A single cluster wider than the box stays whole.
				width += g.advance
				continue
			}
			lastBreak = -1
			width = advanceSum(gs, start, i)
			i-- // Re-check g against the new line.
			continue
		}

		width += g.advance
	}

	lines = append(lines, lineSpan{start: start, end: len(gs), content: trimSpaces(gs, start, len(gs)), newline: -1, hard: true})
	return lines
}

// clusterBoundary returns the last grapheme cluster start in (start, i].
// It returns start when there is none.
func clusterBoundary(gs []streamGlyph, start, i int) int {
	k := i
	for k > start && !gs[k].clusterStart {
		k--
	}
	return k
}

func trimSpaces(gs []streamGlyph, start, end int) int {
	for end > start && (gs[end-1].space || gs[end-1].r == '\r') {
		end--
	}
	return end
}

func advanceSum(gs []streamGlyph, start, end int) float32 {
	var w float32
	for i := start; i < end; i++ {
		w += gs[i].advance
	}
	return w
}

func spanHeight(gs []streamGlyph, s lineSpan) float32 {
	var h float32
	for i := s.start; i < s.end; i++ {
		h = maxf(h, gs[i].lineHeight)
	}
	if s.newline >= 0 {
		h = maxf(h, gs[s.newline].lineHeight)
	}
	if h == 0 && s.start > 0 {
		// Empty trailing line after a '\n' takes the height of the text before it.
		h = gs[s.start-1].lineHeight
	}
	return h
}

// placeLines positions every glyph line by line. With justify set, each
// line that does not end a paragraph is stretched to box.W, first by
// widening whitespace, then by spacing clusters apart. A line holding a
// single cluster is padded after it.
func placeLines(out *TextLayout, gs []streamGlyph, lines []lineSpan, justify bool, align Anchor, box Rect) {
	out.Glyphs = make([]PlacedGlyph, 0, len(gs))
	out.Lines = make([]TextLine, 0, len(lines))

	y := box.Y
	minX, maxX := box.X, box.X
	for li, s := range lines {
		natural := advanceSum(gs, s.start, s.content)
		height := spanHeight(gs, s)

		var perSpace, perCluster, tail float32
		justified := false
		if justify && !s.hard {
			if extra := box.W - natural; extra > 0 {
				if n := countSpaces(gs, s.start, s.content); n > 0 {
					perSpace = extra / float32(n)
					justified = true
				} else if n := countClusterGaps(gs, s.start, s.content); n > 0 {
					perCluster = extra / float32(n)
					justified = true
				} else if s.content > s.start {
					tail = extra
					justified = true
				}
			}
		}

		x := box.X
		if !justified {
			x = box.X + (box.W-natural)*align.Horizontal()
		}

		lineStart := len(out.Glyphs)
		pen := x
		width := float32(0)
		for i := s.start; i < s.end; i++ {
			g := gs[i]
			if perCluster > 0 && i > s.start && i < s.content && g.clusterStart {
				pen += perCluster
			}
			out.Glyphs = append(out.Glyphs, PlacedGlyph{
				Rune:    g.r,
				Section: g.section,
				Line:    li,
				X:       pen,
				Y:       y,
				Advance: g.advance,
				Height:  g.lineHeight,
			})
			pen += g.advance
			if perSpace > 0 && g.space && i < s.content {
				pen += perSpace
			}
			if i == s.content-1 {
				pen += tail
				width = pen - x
			}
		}

		out.Lines = append(out.Lines, TextLine{
			Start:     lineStart,
			End:       len(out.Glyphs),
			X:         x,
			Y:         y,
			Width:     width,
			Height:    height,
			Justified: justified,
		})
		out.Runs = appendRuns(out.Runs, out.Glyphs, lineStart, li)

		if li == 0 || x < minX {
			minX = x
		}
		if li == 0 || x+width > maxX {
			maxX = x + width
		}
		y += height
	}

	out.Bounds = RectFromMinMax(minX, box.Y, maxX, y)
}

func countSpaces(gs []streamGlyph, start, end int) int {
	n := 0
	for i := start; i < end; i++ {
		if gs[i].space {
			n++
		}
	}
	return n
}

func countClusterGaps(gs []streamGlyph, start, end int) int {
	n := 0
	for i := start + 1; i < end; i++ {
		if gs[i].clusterStart {
			n++
		}
	}
	return n
}

// appendRuns groups the glyphs of one line, starting at lineStart, into
// per-section runs.
func appendRuns(runs []GlyphRun, glyphs []PlacedGlyph, lineStart, line int) []GlyphRun {
	for i := lineStart; i < len(glyphs); {
		j := i + 1
		for j < len(glyphs) && glyphs[j].Section == glyphs[i].Section {
			j++
		}
		last := glyphs[j-1]
		runs = append(runs, GlyphRun{
			Section: glyphs[i].Section,
			Line:    line,
			Start:   i,
			End:     j,
			X:       glyphs[i].X,
			Y:       glyphs[i].Y,
			Width:   last.X + last.Advance - glyphs[i].X,
		})
		i = j
	}
	return runs
}
