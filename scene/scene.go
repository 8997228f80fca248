// Package scene loads element trees from TOML files.
//
// A scene is a list of elements in declaration order. Parents and mask
// targets are referenced by name and may be declared later in the file:
//
//	[[element]]
//	name   = "panel"
//	anchor = "middle"
//	width  = 300
//	height = 200
//
//	[[element]]
//	name   = "title"
//	parent = "panel"
//	anchor = "top_middle"
//	mask   = "panel"
//	wrap   = "wrap"
//	width  = 280
//	height = 40
//
//	[[element.section]]
//	text  = "Hello "
//	color = "#ffffffff"
//	size  = 16
package scene

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/go-theft-auto/ui"
)

var (
	// ErrDuplicateName reports two elements with the same name.
	ErrDuplicateName = errors.New("duplicate element name")
	// ErrUnknownElement reports a parent or mask naming no element.
	ErrUnknownElement = errors.New("unknown element")
)

// Scene is the decoded form of a scene file.
type Scene struct {
	Viewport Viewport  `toml:"viewport"`
	Elements []Element `toml:"element"`
}

// Viewport is the size the scene was designed for. Hosts may ignore it.
type Viewport struct {
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

// Element describes one element.
type Element struct {
	Name   string `toml:"name"`
	Parent string `toml:"parent"`

	Anchor string  `toml:"anchor"`
	Pivot  string  `toml:"pivot"`
	X      float32 `toml:"x"`
	Y      float32 `toml:"y"`
	Z      float32 `toml:"z"`
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`

	Opaque  *bool  `toml:"opaque"` // Defaults to true
	Stretch string `toml:"stretch"`

	Mask string `toml:"mask"`

	Wrap     string    `toml:"wrap"`
	Align    string    `toml:"align"`
	Sections []Section `toml:"section"`
}

// Section is one styled text section.
type Section struct {
	Text  string  `toml:"text"`
	Color string  `toml:"color"` // "#rrggbb" or "#rrggbbaa"
	Font  uint32  `toml:"font"`
	Size  float32 `toml:"size"`
}

// Load reads and decodes the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scene document.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	return &s, nil
}

// Build creates the scene's entities in tree and attaches their components
// to u. It returns the created entities by name; unnamed elements are
// created but not listed.
func Build(s *Scene, tree *ui.Tree, u *ui.UI) (map[string]ui.Entity, error) {
	byName := make(map[string]ui.Entity, len(s.Elements))
	entities := make([]ui.Entity, len(s.Elements))

	for i, el := range s.Elements {
		if el.Name != "" {
			if _, dup := byName[el.Name]; dup {
				return nil, fmt.Errorf("element %d: %q: %w", i, el.Name, ErrDuplicateName)
			}
		}
		e := tree.Create()
		entities[i] = e
		if el.Name != "" {
			byName[el.Name] = e
		}
	}

	for i, el := range s.Elements {
		e := entities[i]
		if el.Parent != "" {
			p, ok := byName[el.Parent]
			if !ok {
				return nil, fmt.Errorf("element %s: parent %q: %w", label(i, el), el.Parent, ErrUnknownElement)
			}
			tree.SetParent(e, p)
		}

		t, err := el.transform()
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", label(i, el), err)
		}
		if err := u.SetTransform(e, t); err != nil {
			return nil, fmt.Errorf("element %s: %w", label(i, el), err)
		}

		if el.Mask != "" {
			target, ok := byName[el.Mask]
			if !ok {
				return nil, fmt.Errorf("element %s: mask %q: %w", label(i, el), el.Mask, ErrUnknownElement)
			}
			if err := u.SetMask(e, ui.Mask{Target: target}); err != nil {
				return nil, fmt.Errorf("element %s: %w", label(i, el), err)
			}
		}

		if len(el.Sections) > 0 {
			text, err := el.text()
			if err != nil {
				return nil, fmt.Errorf("element %s: %w", label(i, el), err)
			}
			if err := u.SetText(e, text); err != nil {
				return nil, fmt.Errorf("element %s: %w", label(i, el), err)
			}
		}
	}
	return byName, nil
}

func label(i int, el Element) string {
	if el.Name != "" {
		return strconv.Quote(el.Name)
	}
	return "#" + strconv.Itoa(i)
}

func (el Element) transform() (ui.Transform, error) {
	anchor, err := ui.ParseAnchor(el.Anchor)
	if err != nil {
		return ui.Transform{}, fmt.Errorf("anchor: %w", err)
	}
	pivot, err := ui.ParseAnchor(el.Pivot)
	if err != nil {
		return ui.Transform{}, fmt.Errorf("pivot: %w", err)
	}
	stretch, err := parseStretch(el.Stretch)
	if err != nil {
		return ui.Transform{}, err
	}

	t := ui.NewTransform(el.Name, anchor, pivot, el.X, el.Y, el.Z, el.Width, el.Height)
	if el.Opaque != nil {
		t.Opaque = *el.Opaque
	}
	t.Stretch = stretch
	return t, nil
}

func (el Element) text() (ui.MultiSectionText, error) {
	wrap, err := parseWrap(el.Wrap)
	if err != nil {
		return ui.MultiSectionText{}, err
	}
	align, err := ui.ParseAnchor(el.Align)
	if err != nil {
		return ui.MultiSectionText{}, fmt.Errorf("align: %w", err)
	}

	t := ui.MultiSectionText{Wrap: wrap, Align: align}
	for i, s := range el.Sections {
		color := ui.ColorWhite
		if s.Color != "" {
			if color, err = ParseColor(s.Color); err != nil {
				return ui.MultiSectionText{}, fmt.Errorf("section %d: %w", i, err)
			}
		}
		t.Sections = append(t.Sections, ui.TextSection{
			Text:  s.Text,
			Color: color,
			Font:  ui.FontHandle(s.Font),
			Size:  s.Size,
		})
	}
	return t, nil
}

func parseWrap(s string) (ui.WrapMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no_wrap", "none":
		return ui.NoWrap, nil
	case "wrap":
		return ui.Wrap, nil
	case "wrap_justify", "justify":
		return ui.WrapWithJustify, nil
	}
	return 0, fmt.Errorf("unknown wrap mode %q", s)
}

func parseStretch(s string) (ui.Stretch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ui.StretchNone, nil
	case "x":
		return ui.StretchX, nil
	case "y":
		return ui.StretchY, nil
	case "xy", "both":
		return ui.StretchXY, nil
	}
	return 0, fmt.Errorf("unknown stretch %q", s)
}

// ParseColor parses "#rrggbb" or "#rrggbbaa" into a packed color.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return 0, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return ui.RGBA(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
