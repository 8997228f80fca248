package ui

// bridge is the pointer state carried between frames.
type bridge struct {
	hovered Entity
	pressed Entity
	button  MouseButton
}

// Dispatch turns raw pointer events into UI events using this frame's
// resolved rectangles and clip bounds. Events are appended to the frame's
// output and written to the event channel in arrival order.
//
// Each pointer event hits at most one element: the front-most one under the
// pointer whose effective clip contains the point.
func (u *UI) Dispatch(pointer []PointerEvent) {
	var out []Event
	b := &u.bridge

	// Elements that vanished or were clipped away since the last frame.
	if !b.hovered.IsZero() && !u.interactive(b.hovered) {
		out = append(out, Event{Kind: HoverEnd, Target: b.hovered})
		b.hovered = Entity{}
	}
	if !b.pressed.IsZero() && !u.interactive(b.pressed) {
		u.logger.Debug("pressed element gone or clipped, press cancelled", "entity", b.pressed)
		b.pressed = Entity{}
	}

	for _, ev := range pointer {
		hit, ok := u.HitTest(ev.Pos)
		if !ok {
			u.logger.Debug("pointer miss", "kind", ev.Kind, "x", ev.Pos.X, "y", ev.Pos.Y)
		}

		if hit != b.hovered {
			if !b.hovered.IsZero() {
				out = append(out, Event{Kind: HoverEnd, Target: b.hovered, Pos: ev.Pos})
			}
			if ok {
				out = append(out, Event{Kind: HoverStart, Target: hit, Pos: ev.Pos})
			}
			b.hovered = hit
		}

		switch ev.Kind {
		case PointerMove:
			if !b.pressed.IsZero() {
				out = append(out, Event{Kind: Dragging, Target: b.pressed, Pos: ev.Pos, Button: b.button})
			}
		case PointerDown:
			if ok && b.pressed.IsZero() {
				b.pressed, b.button = hit, ev.Button
				out = append(out, Event{Kind: Pressed, Target: hit, Pos: ev.Pos, Button: ev.Button})
			}
		case PointerUp:
			if !b.pressed.IsZero() && ev.Button == b.button {
				out = append(out, Event{Kind: Released, Target: b.pressed, Pos: ev.Pos, Button: ev.Button})
				b.pressed = Entity{}
			}
		}
	}

	u.frameEvents = append(u.frameEvents[:0], out...)
	if len(out) > 0 {
		u.events.Write(out...)
	}
}

// interactive reports whether e can still receive pointer events this frame.
func (u *UI) interactive(e Entity) bool {
	return u.hierarchy.Alive(e) && u.Visibility(e) != FullyClipped
}

// Hovered returns the element currently under the pointer.
func (u *UI) Hovered() (Entity, bool) {
	return u.bridge.hovered, !u.bridge.hovered.IsZero()
}

// Active returns the element holding the current press.
func (u *UI) Active() (Entity, bool) {
	return u.bridge.pressed, !u.bridge.pressed.IsZero()
}
