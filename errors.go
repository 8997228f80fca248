package ui

import (
	"errors"
	"fmt"
)

var (
	// ErrCycle reports a parent/child cycle in the hierarchy.
	ErrCycle = errors.New("hierarchy cycle")
	// ErrParentUnresolved reports a child reached before its parent was
	// resolved in the current frame.
	ErrParentUnresolved = errors.New("parent not resolved before child")
	// ErrStaleEntity reports a handle to an entity that is no longer alive.
	ErrStaleEntity = errors.New("stale entity")
	// ErrNoTransform reports an operation that needs an element on an entity
	// without a Transform.
	ErrNoTransform = errors.New("entity has no transform")
)

// HierarchyError is a structural failure that stopped layout for the subtree
// rooted at Entity. It wraps ErrCycle or ErrParentUnresolved.
type HierarchyError struct {
	Entity Entity
	Parent Entity
	Err    error
}

func (e *HierarchyError) Error() string {
	if e.Parent.IsZero() {
		return fmt.Sprintf("ui: entity %s: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("ui: entity %s (parent %s): %v", e.Entity, e.Parent, e.Err)
}

func (e *HierarchyError) Unwrap() error {
	return e.Err
}
