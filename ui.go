package ui

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultMaxDepth = 1024

// UI owns the element components of one world and runs the per-frame
// stages: transforms, then text layout and clipping, then event dispatch.
type UI struct {
	hierarchy Hierarchy
	metrics   GlyphMetrics
	logger    *slog.Logger
	workers   int
	maxDepth  int

	elements []element // Indexed by Entity.Index
	versions uint64    // Source of text versions

	frame    uint64
	viewport Rect

	rects   FrameStore[ResolvedRect]
	clips   FrameStore[ClipState]
	layouts FrameStore[layoutEntry]
	visited FrameStore[int32]

	resolved []Entity // Elements resolved this frame, in traversal order

	bridge      bridge
	events      *EventChannel
	frameEvents []Event
}

// element holds the components attached to one entity.
type element struct {
	entity Entity

	transform    Transform
	hasTransform bool

	text        MultiSectionText
	textVersion uint64
	hasText     bool

	mask    Mask
	hasMask bool
}

func (el *element) empty() bool {
	return !el.hasTransform && !el.hasText && !el.hasMask
}

// Option configures a UI instance.
type Option func(*UI)

// WithLogger routes UI logs to logger instead of the package default.
func WithLogger(logger *slog.Logger) Option {
	return func(u *UI) { u.logger = logger }
}

// WithWorkers sets how many goroutines a stage may use. 1 runs every stage
// on the calling goroutine.
func WithWorkers(n int) Option {
	return func(u *UI) {
		if n > 0 {
			u.workers = n
		}
	}
}

// WithMaxDepth bounds ancestor walks. Deeper chains are reported as cycles.
func WithMaxDepth(n int) Option {
	return func(u *UI) {
		if n > 0 {
			u.maxDepth = n
		}
	}
}

// New creates a UI reading structure from h and glyph sizes from metrics.
func New(h Hierarchy, metrics GlyphMetrics, opts ...Option) *UI {
	u := &UI{
		hierarchy: h,
		metrics:   metrics,
		logger:    defaultLogger,
		workers:   1,
		maxDepth:  defaultMaxDepth,
		events:    NewEventChannel(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// slot returns the element stored for e, or nil.
func (u *UI) slot(e Entity) *element {
	if e.IsZero() || int(e.Index) >= len(u.elements) {
		return nil
	}
	el := &u.elements[e.Index]
	if el.entity != e {
		return nil
	}
	return el
}

// ensureSlot returns the element for e, creating it if necessary. A slot
// left over from an earlier generation is reset.
func (u *UI) ensureSlot(e Entity) (*element, error) {
	if !u.hierarchy.Alive(e) {
		return nil, fmt.Errorf("entity %s: %w", e, ErrStaleEntity)
	}
	if n := int(e.Index) + 1; n > len(u.elements) {
		u.elements = append(u.elements, make([]element, n-len(u.elements))...)
	}
	el := &u.elements[e.Index]
	if el.entity != e {
		*el = element{entity: e}
	}
	return el, nil
}

// SetTransform attaches or replaces e's Transform, making e an element.
func (u *UI) SetTransform(e Entity, t Transform) error {
	el, err := u.ensureSlot(e)
	if err != nil {
		return fmt.Errorf("set transform: %w", err)
	}
	el.transform = t
	el.hasTransform = true
	return nil
}

// Transform returns e's Transform.
func (u *UI) Transform(e Entity) (Transform, bool) {
	if el := u.slot(e); el != nil && el.hasTransform {
		return el.transform, true
	}
	return Transform{}, false
}

// RemoveTransform detaches e's Transform. Its descendants then resolve
// against the nearest ancestor that still has one.
func (u *UI) RemoveTransform(e Entity) {
	if el := u.slot(e); el != nil {
		el.hasTransform = false
		u.release(el)
	}
}

// SetText attaches or replaces the text of element e.
func (u *UI) SetText(e Entity, t MultiSectionText) error {
	el := u.slot(e)
	if el == nil || !el.hasTransform {
		if !u.hierarchy.Alive(e) {
			return fmt.Errorf("set text: entity %s: %w", e, ErrStaleEntity)
		}
		return fmt.Errorf("set text: entity %s: %w", e, ErrNoTransform)
	}
	u.versions++
	el.text = t
	el.textVersion = u.versions
	el.hasText = true
	return nil
}

// Text returns the text attached to e.
func (u *UI) Text(e Entity) (MultiSectionText, bool) {
	if el := u.slot(e); el != nil && el.hasText {
		return el.text, true
	}
	return MultiSectionText{}, false
}

// RemoveText detaches e's text.
func (u *UI) RemoveText(e Entity) {
	if el := u.slot(e); el != nil {
		el.hasText = false
		el.text = MultiSectionText{}
		u.layouts.Delete(e)
		u.release(el)
	}
}

// SetMask clips element e to the rectangle of m.Target. The target does not
// need to exist yet.
func (u *UI) SetMask(e Entity, m Mask) error {
	el := u.slot(e)
	if el == nil || !el.hasTransform {
		if !u.hierarchy.Alive(e) {
			return fmt.Errorf("set mask: entity %s: %w", e, ErrStaleEntity)
		}
		return fmt.Errorf("set mask: entity %s: %w", e, ErrNoTransform)
	}
	el.mask = m
	el.hasMask = true
	return nil
}

// MaskOf returns the mask attached to e.
func (u *UI) MaskOf(e Entity) (Mask, bool) {
	if el := u.slot(e); el != nil && el.hasMask {
		return el.mask, true
	}
	return Mask{}, false
}

// RemoveMask detaches e's mask.
func (u *UI) RemoveMask(e Entity) {
	if el := u.slot(e); el != nil {
		el.hasMask = false
		el.mask = Mask{}
		u.release(el)
	}
}

// release frees the slot once no component is left.
func (u *UI) release(el *element) {
	if el.empty() {
		e := el.entity
		*el = element{}
		u.forget(e)
	}
}

func (u *UI) forget(e Entity) {
	u.rects.Delete(e)
	u.clips.Delete(e)
	u.layouts.Delete(e)
	u.visited.Delete(e)
}

// HandleLifecycle drops every component of a destroyed entity.
func (u *UI) HandleLifecycle(ev LifecycleEvent) {
	if ev.Kind != EntityDestroyed {
		return
	}
	if el := u.slot(ev.Entity); el != nil {
		*el = element{}
	}
	u.forget(ev.Entity)
}

// LifecycleSource is a hierarchy that queues lifecycle notifications.
type LifecycleSource interface {
	DrainEvents() []LifecycleEvent
}

// Sync applies every pending lifecycle notification of src.
func (u *UI) Sync(src LifecycleSource) {
	for _, ev := range src.DrainEvents() {
		u.HandleLifecycle(ev)
	}
}

// Find returns the first element named name. Once a frame has run, "first"
// follows traversal order; before that, arena order.
func (u *UI) Find(name string) (Entity, bool) {
	for _, e := range u.resolved {
		if el := u.slot(e); el != nil && el.hasTransform && el.transform.Name == name {
			return e, true
		}
	}
	for i := range u.elements {
		el := &u.elements[i]
		if el.hasTransform && el.transform.Name == name && u.hierarchy.Alive(el.entity) {
			return el.entity, true
		}
	}
	return Entity{}, false
}

// BeginFrame starts a new frame against viewport. Values cached in earlier
// frames stop counting as current.
func (u *UI) BeginFrame(viewport Rect) {
	u.frame++
	u.viewport = viewport
}

// Frame runs every stage for one frame and dispatches pointer events.
// Structural hierarchy errors are returned after the frame completed; the
// affected subtrees are simply absent from this frame's results.
func (u *UI) Frame(viewport Rect, pointer []PointerEvent) error {
	started := time.Now()
	u.BeginFrame(viewport)

	err := u.ResolveTransforms()
	if err != nil {
		u.logger.Warn("hierarchy errors, subtrees skipped", "frame", u.frame, "err", err)
	}
	u.LayoutText()
	u.ResolveClips()
	u.Dispatch(pointer)

	u.logger.Debug("frame done",
		"frame", u.frame,
		"elements", len(u.resolved),
		"events", len(u.frameEvents),
		"elapsed", time.Since(started))

	if err != nil {
		return fmt.Errorf("ui frame %d: %w", u.frame, err)
	}
	return nil
}

// parallel calls fn for 0..n-1, on up to u.workers goroutines.
func (u *UI) parallel(n int, fn func(i int) error) error {
	if u.workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(u.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}

// parallelChunks splits [0, n) into one contiguous chunk per worker.
func (u *UI) parallelChunks(n int, fn func(lo, hi int) error) error {
	if n == 0 {
		return nil
	}
	chunks := min(u.workers, n)
	size := (n + chunks - 1) / chunks
	return u.parallel(chunks, func(i int) error {
		lo := i * size
		hi := min(lo+size, n)
		if lo >= hi {
			return nil
		}
		return fn(lo, hi)
	})
}

// FrameCount returns the number of frames begun so far.
func (u *UI) FrameCount() uint64 {
	return u.frame
}

// Resolved returns the elements resolved this frame, parents before
// children. The slice is reused by the next frame.
func (u *UI) Resolved() []Entity {
	return u.resolved
}

// PaintOrder returns this frame's resolved elements back to front.
func (u *UI) PaintOrder() []Entity {
	type keyed struct {
		e Entity
		r ResolvedRect
	}
	items := make([]keyed, 0, len(u.resolved))
	for _, e := range u.resolved {
		if r, ok := u.rects.Get(e, u.frame); ok {
			items = append(items, keyed{e, r})
		}
	}
	slices.SortFunc(items, func(a, b keyed) int {
		if c := cmp.Compare(a.r.Z, b.r.Z); c != 0 {
			return c
		}
		return cmp.Compare(a.r.Order, b.r.Order)
	})

	out := make([]Entity, len(items))
	for i, it := range items {
		out[i] = it.e
	}
	return out
}

// Events returns the channel every dispatched event is written to.
func (u *UI) Events() *EventChannel {
	return u.events
}

// Drain returns the events dispatched during the current frame and forgets
// them. Hosts with a single consumer can use it instead of a reader.
func (u *UI) Drain() []Event {
	out := u.frameEvents
	u.frameEvents = nil
	return out
}
