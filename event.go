package ui

import "sync"

// EventKind is the kind of a UI event.
type EventKind uint8

const (
	HoverStart EventKind = iota + 1
	HoverEnd
	Pressed
	Released
	Dragging
)

func (k EventKind) String() string {
	switch k {
	case HoverStart:
		return "hover_start"
	case HoverEnd:
		return "hover_end"
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Event is a semantic UI event targeted at one element.
// Pos is the pointer position that caused it. Button is set for Pressed,
// Released and Dragging, and is MouseButtonNone for hover events.
type Event struct {
	Kind   EventKind
	Target Entity
	Pos    Vec2
	Button MouseButton
}

// EventChannel is an ordered event log with independent readers. Each
// registered reader sees every event written after it registered exactly
// once; events are dropped when all readers have read them.
type EventChannel struct {
	mu      sync.Mutex
	events  []Event
	base    uint64 // Sequence number of events[0]
	readers []*ReaderID
}

// ReaderID is the read cursor of one consumer.
type ReaderID struct {
	next uint64
}

// NewEventChannel creates an empty channel.
func NewEventChannel() *EventChannel {
	return &EventChannel{}
}

// Register adds a reader positioned after the last written event.
func (c *EventChannel) Register() *ReaderID {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := &ReaderID{next: c.base + uint64(len(c.events))}
	c.readers = append(c.readers, r)
	return r
}

// Unregister removes r. Its unread events no longer hold back compaction.
func (c *EventChannel) Unregister(r *ReaderID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, rr := range c.readers {
		if rr == r {
			c.readers = append(c.readers[:i], c.readers[i+1:]...)
			break
		}
	}
	c.compact()
}

// Write appends events in order. Without registered readers they are
// discarded.
func (c *EventChannel) Write(events ...Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.readers) == 0 {
		c.base += uint64(len(events))
		return
	}
	c.events = append(c.events, events...)
}

// Read returns the events r has not seen yet and advances r.
func (c *EventChannel) Read(r *ReaderID) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	end := c.base + uint64(len(c.events))
	if r.next < c.base {
		r.next = c.base
	}
	if r.next >= end {
		return nil
	}
	out := make([]Event, end-r.next)
	copy(out, c.events[r.next-c.base:])
	r.next = end
	c.compact()
	return out
}

// Len returns the number of retained events.
func (c *EventChannel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// compact drops events every reader has consumed. The caller holds c.mu.
func (c *EventChannel) compact() {
	low := c.base + uint64(len(c.events))
	for _, r := range c.readers {
		low = min(low, max(r.next, c.base))
	}
	drop := int(low - c.base)
	if drop == 0 {
		return
	}
	n := copy(c.events, c.events[drop:])
	clear(c.events[n:])
	c.events = c.events[:n]
	c.base = low
}
