package ui

import (
	"sync/atomic"
	"time"
)

// layoutEntry is a cached text layout together with the inputs it was
// computed from.
type layoutEntry struct {
	key    layoutKey
	layout *TextLayout
}

type layoutKey struct {
	version uint64
	box     Rect
	epoch   uint64 // Metrics epoch, see MetricsEpoch
}

// LayoutText lays out the text of every element resolved this frame inside
// its resolved rectangle. Layouts whose text, rectangle and metrics epoch
// did not change are carried over from the previous computation.
func (u *UI) LayoutText() {
	started := time.Now()
	u.layouts.Reserve(len(u.elements))
	epoch := metricsEpoch(u.metrics)

	var computed, reused atomic.Int64
	_ = u.parallelChunks(len(u.resolved), func(lo, hi int) error {
		for _, e := range u.resolved[lo:hi] {
			el := u.slot(e)
			if el == nil || !el.hasText {
				continue
			}
			r, ok := u.rects.Get(e, u.frame)
			if !ok {
				continue
			}

			key := layoutKey{version: el.textVersion, box: r.Rect, epoch: epoch}
			if last, _, ok := u.layouts.Last(e); ok && last.key == key {
				u.layouts.Set(e, last, u.frame)
				reused.Add(1)
				continue
			}
			u.layouts.Set(e, layoutEntry{key: key, layout: Layout(el.text, r.Rect, u.metrics)}, u.frame)
			computed.Add(1)
		}
		return nil
	})

	u.logger.Debug("text laid out",
		"frame", u.frame,
		"computed", computed.Load(),
		"reused", reused.Load(),
		"texts", u.layouts.Len(u.frame),
		"elapsed", time.Since(started))
}

// TextLayout returns e's text layout for the current frame. The layout is
// shared with the cache and must not be modified.
func (u *UI) TextLayout(e Entity) (*TextLayout, bool) {
	entry, ok := u.layouts.Get(e, u.frame)
	if !ok {
		return nil, false
	}
	return entry.layout, true
}
