package ui

import "time"

// Visibility classifies an element against its effective clip bound.
type Visibility uint8

const (
	FullyVisible Visibility = iota
	PartiallyClipped
	FullyClipped
)

func (v Visibility) String() string {
	switch v {
	case FullyVisible:
		return "fully_visible"
	case PartiallyClipped:
		return "partially_clipped"
	case FullyClipped:
		return "fully_clipped"
	default:
		return "unknown"
	}
}

// ClipState is the per-frame clip result of one element.
type ClipState struct {
	// Clip is the effective clip bound: the viewport intersected with the
	// element's own mask and every ancestor mask that applies this frame.
	Clip Rect
	// Empty is set when the applicable masks do not overlap at all.
	Empty bool
	// Masks counts the masks that contributed to Clip.
	Masks      int
	Visibility Visibility
}

// Classify compares rect with an effective clip bound.
func Classify(rect, clip Rect, clipEmpty bool) Visibility {
	if clipEmpty {
		return FullyClipped
	}
	if clip.ContainsRect(rect) {
		return FullyVisible
	}
	inter, ok := rect.Intersect(clip)
	if !ok || inter.Empty() {
		return FullyClipped
	}
	return PartiallyClipped
}

// ResolveClip computes e's effective clip bound and visibility from the
// rectangles resolved this frame. It walks from e up to the root; a mask
// whose target is dead or unresolved is skipped, never treated as "clip
// everything". The boolean is false if e itself has no resolved rectangle.
func (u *UI) ResolveClip(e Entity) (ClipState, bool) {
	r, ok := u.rects.Get(e, u.frame)
	if !ok {
		return ClipState{}, false
	}

	state := ClipState{Clip: u.viewport}
	cur := e
	for depth := 0; depth <= u.maxDepth; depth++ {
		if el := u.slot(cur); el != nil && el.hasMask {
			if bound, ok := u.maskBound(el.mask); ok {
				state.Masks++
				if !state.Empty {
					state.Clip, ok = state.Clip.Intersect(bound)
					state.Empty = !ok
				}
			} else {
				u.logger.Debug("mask target unresolved, ignoring",
					"entity", cur, "target", el.mask.Target, "frame", u.frame)
			}
		}
		p, ok := u.hierarchy.Parent(cur)
		if !ok {
			break
		}
		cur = p
	}

	state.Visibility = Classify(r.Rect, state.Clip, state.Empty)
	return state, true
}

// maskBound returns the clip rectangle a mask contributes this frame.
func (u *UI) maskBound(m Mask) (Rect, bool) {
	if !u.hierarchy.Alive(m.Target) {
		return Rect{}, false
	}
	r, ok := u.rects.Get(m.Target, u.frame)
	if !ok {
		return Rect{}, false
	}
	return r.Rect, true
}

// ResolveClips classifies every element resolved this frame. It must run
// after ResolveTransforms; elements are independent and may be processed in
// parallel.
func (u *UI) ResolveClips() {
	started := time.Now()
	u.clips.Reserve(len(u.elements))

	_ = u.parallelChunks(len(u.resolved), func(lo, hi int) error {
		for _, e := range u.resolved[lo:hi] {
			if state, ok := u.ResolveClip(e); ok {
				u.clips.Set(e, state, u.frame)
			}
		}
		return nil
	})

	u.logger.Debug("clips resolved",
		"frame", u.frame,
		"elements", len(u.resolved),
		"elapsed", time.Since(started))
}

// Clip returns e's clip state for the current frame.
func (u *UI) Clip(e Entity) (ClipState, bool) {
	return u.clips.Get(e, u.frame)
}

// Visibility returns e's classification for the current frame. Elements
// without a resolved rectangle are reported as FullyClipped.
func (u *UI) Visibility(e Entity) Visibility {
	if c, ok := u.clips.Get(e, u.frame); ok {
		return c.Visibility
	}
	return FullyClipped
}

// HitTest returns the front-most element under p. Points outside an
// element's effective clip bound miss it even when they fall inside its own
// rectangle. Depth ties go to the later-declared element.
func (u *UI) HitTest(p Vec2) (Entity, bool) {
	var (
		best    Entity
		bestKey ResolvedRect
		found   bool
	)
	for _, e := range u.resolved {
		c, ok := u.clips.Get(e, u.frame)
		if !ok || c.Visibility == FullyClipped {
			continue
		}
		r, ok := u.rects.Get(e, u.frame)
		if !ok || !r.Contains(p) || !c.Clip.Contains(p) {
			continue
		}
		if !found || r.Z > bestKey.Z || (r.Z == bestKey.Z && r.Order > bestKey.Order) {
			best, bestKey, found = e, r, true
		}
	}
	return best, found
}
