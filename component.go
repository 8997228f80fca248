package ui

// Stretch describes how an element grows to fill its parent. The core stores
// it for the renderer and does not interpret it.
type Stretch uint8

const (
	StretchNone Stretch = iota
	StretchX
	StretchY
	StretchXY
)

// Transform places an element relative to its parent, or to the viewport for
// roots. An entity without a Transform is not an element.
type Transform struct {
	Name string

	Anchor Anchor // Point on the parent rectangle
	Pivot  Anchor // Point on this rectangle; unset means same as Anchor

	X, Y float32 // Offset from the parent anchor point
	Z    float32 // Local depth, added to the parent's resolved depth

	Width, Height float32 // Declared size; negative values resolve to 0

	// Passed through to renderers untouched.
	Opaque  bool
	Stretch Stretch
}

// NewTransform mirrors the positional constructor hosts usually expose.
func NewTransform(name string, anchor, pivot Anchor, x, y, z, width, height float32) Transform {
	return Transform{
		Name:   name,
		Anchor: anchor,
		Pivot:  pivot,
		X:      x,
		Y:      y,
		Z:      z,
		Width:  width,
		Height: height,
		Opaque: true,
	}
}

// EffectivePivot returns the pivot, defaulting to the anchor.
func (t Transform) EffectivePivot() Anchor {
	if t.Pivot == 0 {
		return t.Anchor
	}
	return t.Pivot
}

// Mask clips an element to the resolved rectangle of Target.
// The reference is weak: if Target is dead or has no resolved rectangle this
// frame, the mask does nothing.
type Mask struct {
	Target Entity
}

// FontHandle identifies a font owned by the asset system.
type FontHandle uint32

// TextSection is one styled run of a multi-section text.
type TextSection struct {
	Text  string
	Color uint32 // Packed RGBA, see RGBA
	Font  FontHandle
	Size  float32
}

// WrapMode governs whether and how text breaks into lines.
type WrapMode uint8

const (
	// NoWrap lays each paragraph out on one line; overflow is kept, not truncated.
	NoWrap WrapMode = iota
	// Wrap breaks at the last whitespace before overflow, or between
	// characters when a single token is wider than the box.
	Wrap
	// WrapWithJustify wraps like Wrap and stretches every line except the last
	// of each paragraph to the box width.
	WrapWithJustify
)

func (m WrapMode) String() string {
	switch m {
	case NoWrap:
		return "no_wrap"
	case Wrap:
		return "wrap"
	case WrapWithJustify:
		return "wrap_justify"
	default:
		return "unknown"
	}
}

// MultiSectionText is an ordered list of styled sections laid out as one
// stream inside the owning element's resolved rectangle.
type MultiSectionText struct {
	Sections []TextSection
	Wrap     WrapMode
	Align    Anchor // Only the horizontal component is used
}

// String concatenates the section contents in reading order.
func (t MultiSectionText) String() string {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range t.Sections {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}
