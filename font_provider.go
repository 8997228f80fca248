package ui

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// GlyphMetric is the size information text layout needs for one glyph.
type GlyphMetric struct {
	Advance    float32
	LineHeight float32
}

// GlyphMetrics supplies glyph sizes to text layout. The UI never rasterizes
// glyphs; an asset system owns fonts and answers these queries.
//
// Implementations must be safe for concurrent use when the UI runs with
// more than one worker.
type GlyphMetrics interface {
	Glyph(font FontHandle, size float32, r rune) GlyphMetric
}

// GlyphMetricsFunc adapts a function to GlyphMetrics.
type GlyphMetricsFunc func(font FontHandle, size float32, r rune) GlyphMetric

func (f GlyphMetricsFunc) Glyph(font FontHandle, size float32, r rune) GlyphMetric {
	return f(font, size, r)
}

// MetricsEpoch is implemented by providers whose answers can change, for
// example when a font handle is rebound. Epoch must increase on every such
// change; cached text layouts from an older epoch are recomputed.
type MetricsEpoch interface {
	Epoch() uint64
}

func metricsEpoch(m GlyphMetrics) uint64 {
	if e, ok := m.(MetricsEpoch); ok {
		return e.Epoch()
	}
	return 0
}

// FaceMetrics measures glyphs with golang.org/x/image font faces.
// Fonts are registered per handle; faces are created lazily per size.
// Unknown handles and glyphs missing from a font fall back to
// basicfont.Face7x13, scaled to the requested size.
type FaceMetrics struct {
	mu    sync.Mutex
	fonts map[FontHandle]*opentype.Font
	faces map[faceKey]font.Face
	epoch atomic.Uint64
}

type faceKey struct {
	font FontHandle
	size float32
}

// fallbackSize is the pixel height of basicfont.Face7x13.
const fallbackSize = 13

// NewFaceMetrics creates an empty provider.
func NewFaceMetrics() *FaceMetrics {
	return &FaceMetrics{
		fonts: make(map[FontHandle]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Register parses an OpenType/TrueType font and binds it to h.
func (m *FaceMetrics) Register(h FontHandle, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %d: %w", h, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.fonts[h] = f
	for k, face := range m.faces {
		if k.font == h {
			_ = face.Close()
			delete(m.faces, k)
		}
	}
	m.epoch.Add(1)
	return nil
}

// Epoch implements MetricsEpoch. It changes whenever Register succeeds.
func (m *FaceMetrics) Epoch() uint64 {
	return m.epoch.Load()
}

// RegisterGoRegular binds the Go Regular font to h.
func (m *FaceMetrics) RegisterGoRegular(h FontHandle) error {
	return m.Register(h, goregular.TTF)
}

// Glyph implements GlyphMetrics.
func (m *FaceMetrics) Glyph(h FontHandle, size float32, r rune) GlyphMetric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if face := m.face(h, size); face != nil {
		if adv, ok := face.GlyphAdvance(r); ok {
			return GlyphMetric{
				Advance:    fixedToFloat(adv),
				LineHeight: fixedToFloat(face.Metrics().Height),
			}
		}
	}
	return fallbackGlyph(size, r)
}

// face returns the cached face for (h, size), or nil if h is unknown.
// The caller holds m.mu.
func (m *FaceMetrics) face(h FontHandle, size float32) font.Face {
	f, ok := m.fonts[h]
	if !ok || size <= 0 {
		return nil
	}
	key := faceKey{font: h, size: size}
	if face, ok := m.faces[key]; ok {
		return face
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}
	m.faces[key] = face
	return face
}

// Close releases every cached face.
func (m *FaceMetrics) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, face := range m.faces {
		_ = face.Close()
		delete(m.faces, k)
	}
	return nil
}

func fallbackGlyph(size float32, r rune) GlyphMetric {
	face := basicfont.Face7x13
	scale := float32(1)
	if size > 0 {
		scale = size / fallbackSize
	}
	adv, _ := face.GlyphAdvance(r)
	return GlyphMetric{
		Advance:    fixedToFloat(adv) * scale,
		LineHeight: fixedToFloat(face.Metrics().Height) * scale,
	}
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
