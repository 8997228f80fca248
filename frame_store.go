package ui

// FrameStore holds one value per entity, stamped with the frame in which it
// was written. A value only counts as current when its stamp matches the
// frame being asked about, so stale reads of last frame's layout are caught
// without clearing the store every frame.
//
// Slots are addressed by Entity.Index. Concurrent Set calls are safe as long
// as they touch different entities and the store was grown with Reserve
// beforehand; the UI stages rely on this to write without locking.
type FrameStore[T any] struct {
	slots []frameSlot[T]
}

type frameSlot[T any] struct {
	entity Entity
	value  T
	frame  uint64 // 0 = never written
}

// Reserve grows the store so that indices below n can be written without
// reallocating.
func (s *FrameStore[T]) Reserve(n int) {
	if n > len(s.slots) {
		s.slots = append(s.slots, make([]frameSlot[T], n-len(s.slots))...)
	}
}

// Set stores value for e and stamps it with frame.
func (s *FrameStore[T]) Set(e Entity, value T, frame uint64) {
	s.Reserve(int(e.Index) + 1)
	s.slots[e.Index] = frameSlot[T]{entity: e, value: value, frame: frame}
}

// Get returns the value for e only if it was written in frame.
func (s *FrameStore[T]) Get(e Entity, frame uint64) (T, bool) {
	var zero T
	if int(e.Index) >= len(s.slots) {
		return zero, false
	}
	slot := &s.slots[e.Index]
	if slot.entity != e || slot.frame != frame || frame == 0 {
		return zero, false
	}
	return slot.value, true
}

// Last returns the most recent value for e regardless of its frame.
func (s *FrameStore[T]) Last(e Entity) (T, uint64, bool) {
	var zero T
	if int(e.Index) >= len(s.slots) {
		return zero, 0, false
	}
	slot := &s.slots[e.Index]
	if slot.entity != e || slot.frame == 0 {
		return zero, 0, false
	}
	return slot.value, slot.frame, true
}

// Delete forgets the value for e.
func (s *FrameStore[T]) Delete(e Entity) {
	if int(e.Index) >= len(s.slots) {
		return
	}
	if s.slots[e.Index].entity == e {
		s.slots[e.Index] = frameSlot[T]{}
	}
}

// Len returns the number of values stamped with frame.
func (s *FrameStore[T]) Len(frame uint64) int {
	n := 0
	for i := range s.slots {
		if s.slots[i].frame == frame && frame != 0 {
			n++
		}
	}
	return n
}
