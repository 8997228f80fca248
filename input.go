package ui

import "sync"

// MouseButton represents a mouse button. The zero value means no button.
type MouseButton int

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonCount
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonNone:
		return "none"
	case MouseButtonLeft:
		return "left"
	case MouseButtonRight:
		return "right"
	case MouseButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// PointerKind is the kind of a raw pointer event.
type PointerKind uint8

const (
	PointerMove PointerKind = iota
	PointerDown
	PointerUp
)

func (k PointerKind) String() string {
	switch k {
	case PointerMove:
		return "move"
	case PointerDown:
		return "down"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// PointerEvent is one raw pointer sample in screen coordinates.
// Button is only meaningful for PointerDown and PointerUp.
type PointerEvent struct {
	Kind   PointerKind
	Pos    Vec2
	Button MouseButton
}

// PointerQueue accumulates pointer events between frames. Input callbacks
// may push from any goroutine; the frame loop drains once per frame.
type PointerQueue struct {
	mu     sync.Mutex
	events []PointerEvent
	pos    Vec2
	down   [MouseButtonCount]bool
}

// NewPointerQueue creates an empty queue.
func NewPointerQueue() *PointerQueue {
	return &PointerQueue{events: make([]PointerEvent, 0, 16)}
}

// Push appends ev in arrival order.
func (q *PointerQueue) Push(ev PointerEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.push(ev)
}

// push appends ev. q.mu must be held.
func (q *PointerQueue) push(ev PointerEvent) {
	q.events = append(q.events, ev)
	q.pos = ev.Pos
	if ev.Button > MouseButtonNone && ev.Button < MouseButtonCount {
		switch ev.Kind {
		case PointerDown:
			q.down[ev.Button] = true
		case PointerUp:
			q.down[ev.Button] = false
		}
	}
}

// MoveTo queues a move to (x, y).
func (q *PointerQueue) MoveTo(x, y float32) {
	q.Push(PointerEvent{Kind: PointerMove, Pos: Vec2{X: x, Y: y}})
}

// SetButton queues a press or release of button at the last known position.
// Repeated presses of a held button are dropped.
func (q *PointerQueue) SetButton(button MouseButton, down bool) {
	if button <= MouseButtonNone || button >= MouseButtonCount {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.down[button] == down {
		return
	}
	kind := PointerUp
	if down {
		kind = PointerDown
	}
	q.push(PointerEvent{Kind: kind, Pos: q.pos, Button: button})
}

// Pos returns the last known pointer position.
func (q *PointerQueue) Pos() Vec2 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pos
}

// Drain returns the queued events and empties the queue.
func (q *PointerQueue) Drain() []PointerEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	out := make([]PointerEvent, len(q.events))
	copy(out, q.events)
	q.events = q.events[:0]
	return out
}
