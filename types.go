package ui

// Vec2 represents a 2D vector for positions and sizes.
type Vec2 struct {
	X, Y float32
}

// Rect represents a rectangle with position and size.
// Screen space has its origin at the top-left with Y growing downwards.
type Rect struct {
	X, Y float32 // Top-left position
	W, H float32 // Width and height
}

// RectFromMinMax builds a rectangle from its corner coordinates.
func RectFromMinMax(minX, minY, maxX, maxY float32) Rect {
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float32 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float32 { return r.Y + r.H }

// Empty returns true if the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// ContainsRect returns true if other lies entirely within r (edges inclusive).
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.MaxX() <= r.MaxX() && other.MaxY() <= r.MaxY()
}

// Intersect returns the overlap of two rectangles. The boolean is false when
// the rectangles are disjoint; touching edges yield a zero-area overlap.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	x0 := maxf(r.X, other.X)
	y0 := maxf(r.Y, other.Y)
	x1 := minf(r.MaxX(), other.MaxX())
	y1 := minf(r.MaxY(), other.MaxY())
	if x1 < x0 || y1 < y0 {
		return Rect{}, false
	}
	return RectFromMinMax(x0, y0, x1, y1), true
}

// Vertex is one corner of a solid-color quad. The layout is uploaded to
// the GPU as-is: two floats of position, then four normalized bytes.
type Vertex struct {
	Pos   [2]float32
	Color uint32 // Packed RGBA
}

// DrawCmd is a run of indices drawn under one clip rectangle.
type DrawCmd struct {
	ElemCount    uint32     // Number of indices to draw
	ClipRect     [4]float32 // x1, y1, x2, y2 in screen space
	VertexOffset uint32     // Base vertex for the command's indices
	IndexOffset  uint32     // First index in DrawList.IdxBuffer
}

// Color constants (RGBA packed as 0xAABBGGRR for OpenGL compatibility)
const (
	ColorWhite       uint32 = 0xFFFFFFFF
	ColorBlack       uint32 = 0xFF000000
	ColorRed         uint32 = 0xFF0000FF
	ColorTransparent uint32 = 0x00000000
)

// RGBA creates a packed color from individual components (0-255).
func RGBA(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// UnpackRGBA extracts RGBA components from a packed color.
func UnpackRGBA(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

// clampf clamps a float32 value to a range.
func clampf(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// maxf returns the maximum of two float32 values.
// NaN in a collapses to b.
func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// minf returns the minimum of two float32 values.
func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
