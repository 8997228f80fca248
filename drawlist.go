package ui

import "sync"

// drawListPool reuses DrawList buffers across frames.
var drawListPool = sync.Pool{
	New: func() any {
		return &DrawList{
			VtxBuffer: make([]Vertex, 0, 1024),
			IdxBuffer: make([]uint16, 0, 2048),
			CmdBuffer: make([]DrawCmd, 0, 16),
			clipStack: make([][4]float32, 0, 8),
		}
	},
}

// AcquireDrawList gets a DrawList from the pool.
// Call ReleaseDrawList when done to return it.
func AcquireDrawList() *DrawList {
	dl := drawListPool.Get().(*DrawList)
	dl.Clear()
	return dl
}

// ReleaseDrawList returns a DrawList to the pool for reuse.
func ReleaseDrawList(dl *DrawList) {
	if dl != nil {
		drawListPool.Put(dl)
	}
}

// maxCmdVertices is the most vertices one command can address with
// 16-bit indices.
const maxCmdVertices = 1 << 16

// DrawList accumulates draw commands for a frame.
// A new command starts whenever the clip rectangle changes.
type DrawList struct {
	CmdBuffer []DrawCmd // Draw commands
	VtxBuffer []Vertex  // Vertex data
	IdxBuffer []uint16  // Index data, relative to the command's VertexOffset

	clipStack    [][4]float32 // Clip rectangle stack
	currentClip  [4]float32   // Current clip rectangle
	cmdOffset    uint32       // Vertex offset for current command
	idxCmdOffset uint32       // Index offset for current command
	finalized    bool
}

// Clear resets the DrawList for a new frame.
// Retains allocated capacity to avoid reallocations.
func (dl *DrawList) Clear() {
	dl.CmdBuffer = dl.CmdBuffer[:0]
	dl.VtxBuffer = dl.VtxBuffer[:0]
	dl.IdxBuffer = dl.IdxBuffer[:0]
	dl.clipStack = dl.clipStack[:0]
	dl.currentClip = [4]float32{-1e9, -1e9, 1e9, 1e9} // Very large default clip
	dl.cmdOffset = 0
	dl.idxCmdOffset = 0
	dl.finalized = false
}

// PushClipRect pushes a new clip rectangle onto the stack.
// All subsequent primitives will be clipped to this rectangle.
func (dl *DrawList) PushClipRect(x1, y1, x2, y2 float32) {
	dl.clipStack = append(dl.clipStack, dl.currentClip)
	dl.currentClip = [4]float32{x1, y1, x2, y2}
	dl.splitDraw()
}

// PushClip pushes r as the clip rectangle.
func (dl *DrawList) PushClip(r Rect) {
	dl.PushClipRect(r.X, r.Y, r.MaxX(), r.MaxY())
}

// PopClipRect pops the clip rectangle stack.
func (dl *DrawList) PopClipRect() {
	n := len(dl.clipStack)
	if n > 0 {
		dl.currentClip = dl.clipStack[n-1]
		dl.clipStack = dl.clipStack[:n-1]
		dl.splitDraw()
	}
}

// splitDraw finalizes the current command and starts a new one.
func (dl *DrawList) splitDraw() {
	if len(dl.CmdBuffer) > 0 {
		lastCmd := &dl.CmdBuffer[len(dl.CmdBuffer)-1]
		lastCmd.ElemCount = uint32(len(dl.IdxBuffer)) - dl.idxCmdOffset
	}

	dl.CmdBuffer = append(dl.CmdBuffer, DrawCmd{
		ClipRect:     dl.currentClip,
		VertexOffset: uint32(len(dl.VtxBuffer)),
		IndexOffset:  uint32(len(dl.IdxBuffer)),
	})
	dl.cmdOffset = uint32(len(dl.VtxBuffer))
	dl.idxCmdOffset = uint32(len(dl.IdxBuffer))
}

// addVertices adds vertices and returns the starting index relative to the
// current command. A command that would overflow 16-bit indices is split.
func (dl *DrawList) addVertices(verts ...Vertex) uint16 {
	if len(dl.CmdBuffer) == 0 || len(dl.VtxBuffer)-int(dl.cmdOffset)+len(verts) > maxCmdVertices {
		dl.splitDraw()
	}
	startIdx := uint16(len(dl.VtxBuffer) - int(dl.cmdOffset))
	dl.VtxBuffer = append(dl.VtxBuffer, verts...)
	return startIdx
}

func (dl *DrawList) addIndices(indices ...uint16) {
	dl.IdxBuffer = append(dl.IdxBuffer, indices...)
}

// AddRect draws a filled rectangle.
func (dl *DrawList) AddRect(x, y, w, h float32, color uint32) {
	if color&0xFF000000 == 0 || w <= 0 || h <= 0 {
		return
	}

	idx := dl.addVertices(
		Vertex{Pos: [2]float32{x, y}, Color: color},
		Vertex{Pos: [2]float32{x + w, y}, Color: color},
		Vertex{Pos: [2]float32{x + w, y + h}, Color: color},
		Vertex{Pos: [2]float32{x, y + h}, Color: color},
	)

	dl.addIndices(idx, idx+1, idx+2, idx, idx+2, idx+3)
}

// AddRectOutline draws a rectangle outline.
func (dl *DrawList) AddRectOutline(x, y, w, h float32, color uint32, thickness float32) {
	if color&0xFF000000 == 0 {
		return
	}
	thickness = minf(thickness, minf(w, h)*0.5)

	dl.AddRect(x, y, w, thickness, color)
	dl.AddRect(x, y+h-thickness, w, thickness, color)
	dl.AddRect(x, y+thickness, thickness, h-2*thickness, color)
	dl.AddRect(x+w-thickness, y+thickness, thickness, h-2*thickness, color)
}

// Finalize prepares the DrawList for rendering.
// Must be called after all primitives are added; later calls are no-ops
// until Clear.
func (dl *DrawList) Finalize() {
	if dl.finalized {
		return
	}
	dl.finalized = true
	if len(dl.CmdBuffer) > 0 {
		lastCmd := &dl.CmdBuffer[len(dl.CmdBuffer)-1]
		lastCmd.ElemCount = uint32(len(dl.IdxBuffer)) - dl.idxCmdOffset
	}

	filtered := dl.CmdBuffer[:0]
	for _, cmd := range dl.CmdBuffer {
		if cmd.ElemCount > 0 {
			filtered = append(filtered, cmd)
		}
	}
	dl.CmdBuffer = filtered
}

// DrawStyle selects the colors BuildDrawList uses.
type DrawStyle struct {
	Fill        uint32 // Opaque elements
	Outline     uint32
	Hovered     uint32 // Outline of the hovered element
	OutlineSize float32
	// GlyphAlpha scales the alpha of section colors for glyph boxes.
	GlyphAlpha float32
}

// DefaultDrawStyle returns the debug colors used by the example.
func DefaultDrawStyle() DrawStyle {
	return DrawStyle{
		Fill:        RGBA(40, 44, 52, 220),
		Outline:     RGBA(120, 130, 150, 255),
		Hovered:     RGBA(255, 200, 60, 255),
		OutlineSize: 1,
		GlyphAlpha:  0.8,
	}
}

// BuildDrawList appends this frame's elements to dl back to front: each
// element's rectangle, then one box per placed glyph, all under a clip
// command equal to the element's effective clip. Fully clipped elements are
// skipped.
func BuildDrawList(u *UI, dl *DrawList, style DrawStyle) {
	hovered, _ := u.Hovered()

	for _, e := range u.PaintOrder() {
		c, ok := u.Clip(e)
		if !ok || c.Visibility == FullyClipped {
			continue
		}
		r, _ := u.Rect(e)
		t, _ := u.Transform(e)

		dl.PushClip(c.Clip)
		if t.Opaque {
			dl.AddRect(r.X, r.Y, r.W, r.H, style.Fill)
		}
		outline := style.Outline
		if e == hovered {
			outline = style.Hovered
		}
		dl.AddRectOutline(r.X, r.Y, r.W, r.H, outline, style.OutlineSize)

		if layout, ok := u.TextLayout(e); ok {
			text, _ := u.Text(e)
			addGlyphBoxes(dl, layout, text.Sections, style.GlyphAlpha)
		}
		dl.PopClipRect()
	}
	dl.Finalize()
}

func addGlyphBoxes(dl *DrawList, layout *TextLayout, sections []TextSection, alpha float32) {
	for _, g := range layout.Glyphs {
		if g.Advance <= 0 || isBreakingSpace(g.Rune) || g.Section >= len(sections) {
			continue
		}
		r, gg, b, a := UnpackRGBA(sections[g.Section].Color)
		color := RGBA(r, gg, b, uint8(float32(a)*clampf(alpha, 0, 1)))
		// Inset so neighbouring glyphs stay distinguishable.
		dl.AddRect(g.X+1, g.Y+1, g.Advance-2, g.Height-2, color)
	}
}
