package ui

import (
	"fmt"
	"strings"
)

// Anchor names one of the nine canonical points of a rectangle.
// The zero value means "unset": as an anchor it behaves like TopLeft, as a
// pivot it falls back to the element's anchor.
type Anchor uint8

const (
	TopLeft Anchor = iota + 1
	TopMiddle
	TopRight
	MiddleLeft
	Middle
	MiddleRight
	BottomLeft
	BottomMiddle
	BottomRight
)

var anchorNames = [...]string{
	TopLeft:      "top_left",
	TopMiddle:    "top_middle",
	TopRight:     "top_right",
	MiddleLeft:   "middle_left",
	Middle:       "middle",
	MiddleRight:  "middle_right",
	BottomLeft:   "bottom_left",
	BottomMiddle: "bottom_middle",
	BottomRight:  "bottom_right",
}

// Fractions returns the anchor position as a fraction of width and height:
// Left/Top = 0, Middle = 0.5, Right/Bottom = 1.
func (a Anchor) Fractions() (fx, fy float32) {
	if a < TopLeft || a > BottomRight {
		return 0, 0
	}
	i := int(a - TopLeft)
	return float32(i%3) * 0.5, float32(i/3) * 0.5
}

// Horizontal returns only the horizontal fraction. Text alignment uses it.
func (a Anchor) Horizontal() float32 {
	fx, _ := a.Fractions()
	return fx
}

// Point returns the absolute position of the anchor on r.
func (a Anchor) Point(r Rect) Vec2 {
	fx, fy := a.Fractions()
	return Vec2{X: r.X + r.W*fx, Y: r.Y + r.H*fy}
}

// String returns the snake_case name used in scene files.
func (a Anchor) String() string {
	if a < TopLeft || a > BottomRight {
		return "unset"
	}
	return anchorNames[a]
}

// ParseAnchor parses a snake_case anchor name. "center" is accepted as an
// alias for "middle", and "" yields the unset anchor.
func ParseAnchor(s string) (Anchor, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "":
		return 0, nil
	case "center", "middle_middle":
		return Middle, nil
	}
	for a := TopLeft; a <= BottomRight; a++ {
		if anchorNames[a] == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown anchor %q", s)
}
