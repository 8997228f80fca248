package ui

import (
	"errors"
	"time"
)

// ResolvedRect is an element's absolute screen rectangle for one frame.
// Z is the accumulated depth (parent Z + local Z). Order is the element's
// position in the parent-before-child traversal; later-declared elements
// have larger Order and win depth ties.
type ResolvedRect struct {
	Rect
	Z     float32
	Order uint32
}

// Resolve places t inside parent: t's pivot lands on parent's anchor point
// plus the (X, Y) offset. Width and height are clamped to >= 0.
// It is a pure function of its inputs.
func Resolve(t Transform, parent Rect) Rect {
	w := maxf(t.Width, 0)
	h := maxf(t.Height, 0)

	anchor := t.Anchor.Point(parent)
	px, py := t.EffectivePivot().Fractions()

	return Rect{
		X: anchor.X + t.X - w*px,
		Y: anchor.Y + t.Y - h*py,
		W: w,
		H: h,
	}
}

// visit is one entity reached by the traversal. anchor is the index of the
// nearest visited ancestor that carries a Transform, or -1 for the viewport.
type visit struct {
	entity Entity
	anchor int32
}

// span is the contiguous range of visits covering one root's subtree.
type span struct {
	start, end int
}

// refused marks an entity the traversal reached but would not resolve.
const refused = -1

type walkItem struct {
	entity Entity
	parent Entity
	anchor int32
	depth  int
}

// ResolveTransforms recomputes the resolved rectangle of every element
// reachable from the hierarchy roots, parents strictly before children.
//
// Subtrees that cannot be resolved (a cycle, or a child whose parent link
// disagrees with the traversal) are skipped and reported as *HierarchyError
// values joined into the returned error. Everything else is still resolved.
func (u *UI) ResolveTransforms() error {
	started := time.Now()
	u.resolved = u.resolved[:0]

	visits, spans, errs := u.walk()

	u.rects.Reserve(len(u.elements))
	out := make([]ResolvedRect, len(visits))
	done := make([]bool, len(visits))
	spanErrs := make([]error, len(spans))

	_ = u.parallel(len(spans), func(i int) error {
		spanErrs[i] = u.resolveSpan(visits, spans[i], out, done)
		return nil
	})
	errs = append(errs, spanErrs...)

	for i, v := range visits {
		if done[i] {
			u.resolved = append(u.resolved, v.entity)
		}
	}
	errs = append(errs, u.unreachable()...)

	err := errors.Join(errs...)
	u.logger.Debug("transforms resolved",
		"frame", u.frame,
		"elements", len(u.resolved),
		"subtrees", len(spans),
		"elapsed", time.Since(started))
	return err
}

// walk performs an iterative pre-order traversal from the roots. Each root's
// subtree occupies a contiguous span of the returned visits, so spans can be
// resolved independently.
func (u *UI) walk() ([]visit, []span, []error) {
	var (
		visits []visit
		spans  []span
		errs   []error
		stack  []walkItem
	)
	u.visited.Reserve(len(u.elements))

	for _, root := range u.hierarchy.Roots() {
		if !u.hierarchy.Alive(root) {
			continue
		}
		if _, seen := u.visited.Get(root, u.frame); seen {
			continue
		}
		if p, ok := u.hierarchy.Parent(root); ok {
			errs = append(errs, &HierarchyError{Entity: root, Parent: p, Err: ErrParentUnresolved})
			continue
		}

		start := len(visits)
		stack = append(stack[:0], walkItem{entity: root, anchor: -1})
		for len(stack) > 0 {
			item := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if _, seen := u.visited.Get(item.entity, u.frame); seen {
				errs = append(errs, &HierarchyError{Entity: item.entity, Parent: item.parent, Err: ErrCycle})
				continue
			}
			if item.depth > u.maxDepth {
				errs = append(errs, &HierarchyError{Entity: item.entity, Parent: item.parent, Err: ErrCycle})
				u.visited.Set(item.entity, refused, u.frame)
				continue
			}
			if !item.parent.IsZero() {
				if p, ok := u.hierarchy.Parent(item.entity); !ok || p != item.parent {
					errs = append(errs, &HierarchyError{Entity: item.entity, Parent: item.parent, Err: ErrParentUnresolved})
					u.visited.Set(item.entity, refused, u.frame)
					continue
				}
			}

			idx := int32(len(visits))
			u.visited.Set(item.entity, idx, u.frame)
			visits = append(visits, visit{entity: item.entity, anchor: item.anchor})

			childAnchor := item.anchor
			if el := u.slot(item.entity); el != nil && el.hasTransform {
				childAnchor = idx
			}

			children := u.hierarchy.Children(item.entity)
			for i := len(children) - 1; i >= 0; i-- {
				c := children[i]
				if !u.hierarchy.Alive(c) {
					continue
				}
				stack = append(stack, walkItem{entity: c, parent: item.entity, anchor: childAnchor, depth: item.depth + 1})
			}
		}
		spans = append(spans, span{start: start, end: len(visits)})
	}
	return visits, spans, errs
}

// resolveSpan resolves one root subtree in traversal order. Only the span's
// own slots of out and done are written.
func (u *UI) resolveSpan(visits []visit, s span, out []ResolvedRect, done []bool) error {
	var errs []error
	for i := s.start; i < s.end; i++ {
		v := visits[i]
		el := u.slot(v.entity)
		if el == nil || !el.hasTransform {
			continue
		}

		parent := u.viewport
		var z float32
		if v.anchor >= 0 {
			if !done[v.anchor] {
				errs = append(errs, &HierarchyError{Entity: v.entity, Parent: visits[v.anchor].entity, Err: ErrParentUnresolved})
				continue
			}
			parent = out[v.anchor].Rect
			z = out[v.anchor].Z
		}

		r := ResolvedRect{
			Rect:  Resolve(el.transform, parent),
			Z:     z + el.transform.Z,
			Order: uint32(i),
		}
		out[i] = r
		done[i] = true
		u.rects.Set(v.entity, r, u.frame)
	}
	return errors.Join(errs...)
}

// unreachable reports elements the traversal never reached, which happens
// when their parent chain loops or ends at a dead entity. Elements skipped
// because an ancestor subtree was refused are not reported again.
func (u *UI) unreachable() []error {
	var errs []error
	reported := make(map[Entity]bool)
	chain := make(map[Entity]bool)

	for i := range u.elements {
		el := &u.elements[i]
		if !el.hasTransform || !u.hierarchy.Alive(el.entity) || reported[el.entity] {
			continue
		}
		if _, seen := u.visited.Get(el.entity, u.frame); seen {
			continue
		}

		clear(chain)
		cur := el.entity
		chain[cur] = true
		for depth := 0; ; depth++ {
			p, ok := u.hierarchy.Parent(cur)
			if !ok || !u.hierarchy.Alive(p) {
				errs = append(errs, &HierarchyError{Entity: el.entity, Parent: p, Err: ErrParentUnresolved})
				for e := range chain {
					reported[e] = true
				}
				break
			}
			if idx, seen := u.visited.Get(p, u.frame); seen {
				if idx != refused && cur == el.entity {
					// Parent was walked but does not list el as a child.
					errs = append(errs, &HierarchyError{Entity: el.entity, Parent: p, Err: ErrParentUnresolved})
				}
				// Otherwise below a refused subtree; already reported.
				break
			}
			if chain[p] || depth >= u.maxDepth {
				errs = append(errs, &HierarchyError{Entity: el.entity, Parent: p, Err: ErrCycle})
				for e := range chain {
					reported[e] = true
				}
				break
			}
			chain[p] = true
			cur = p
		}
	}
	return errs
}

// Rect returns e's resolved rectangle for the current frame.
func (u *UI) Rect(e Entity) (ResolvedRect, bool) {
	return u.rects.Get(e, u.frame)
}
