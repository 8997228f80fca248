package ui_test

import (
	"testing"

	"github.com/go-theft-auto/ui"
)

func move(x, y float32) ui.PointerEvent {
	return ui.PointerEvent{Kind: ui.PointerMove, Pos: ui.Vec2{X: x, Y: y}}
}

func down(x, y float32, b ui.MouseButton) ui.PointerEvent {
	return ui.PointerEvent{Kind: ui.PointerDown, Pos: ui.Vec2{X: x, Y: y}, Button: b}
}

func up(x, y float32, b ui.MouseButton) ui.PointerEvent {
	return ui.PointerEvent{Kind: ui.PointerUp, Pos: ui.Vec2{X: x, Y: y}, Button: b}
}

type wantEvent struct {
	kind   ui.EventKind
	target ui.Entity
}

func checkEvents(t *testing.T, got []ui.Event, want ...wantEvent) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d events, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i].Kind != want[i].kind || got[i].Target != want[i].target {
			t.Errorf("event %d = %s on %s, want %s on %s",
				i, got[i].Kind, got[i].Target, want[i].kind, want[i].target)
		}
	}
}

// overlapScene has a small high-Z badge declared first, then two
// overlapping cards at the same depth.
func overlapScene(t *testing.T) (tree *ui.Tree, u *ui.UI, badge, back, front ui.Entity) {
	t.Helper()
	tree, u = newTestUI()
	badge = addElement(t, tree, u, ui.Entity{}, box("badge", ui.TopLeft, 0, 0, 5, 20, 20))
	back = addElement(t, tree, u, ui.Entity{}, box("back", ui.TopLeft, 0, 0, 0, 100, 100))
	front = addElement(t, tree, u, ui.Entity{}, box("front", ui.TopLeft, 50, 50, 0, 100, 100))
	return tree, u, badge, back, front
}

func TestUI_HitTest_Topmost(t *testing.T) {
	_, u, badge, back, front := overlapScene(t)
	mustFrame(t, u)

	tests := []struct {
		name string
		p    ui.Vec2
		want ui.Entity
	}{
		{"higher depth wins over declaration order", ui.Vec2{X: 10, Y: 10}, badge},
		{"later declaration wins a depth tie", ui.Vec2{X: 75, Y: 75}, front},
		{"only back", ui.Vec2{X: 30, Y: 60}, back},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := u.HitTest(tt.p); !ok || got != tt.want {
				t.Errorf("HitTest(%v) = %s %v, want %s", tt.p, got, ok, tt.want)
			}
		})
	}
}

func TestUI_Dispatch_PressDragRelease(t *testing.T) {
	_, u, _, _, front := overlapScene(t)

	mustFrame(t, u, move(75, 75))
	checkEvents(t, u.Drain(), wantEvent{ui.HoverStart, front})

	mustFrame(t, u, down(75, 75, ui.MouseButtonLeft))
	checkEvents(t, u.Drain(), wantEvent{ui.Pressed, front})
	if e, ok := u.Active(); !ok || e != front {
		t.Errorf("Expected front to hold the press, got %s %v", e, ok)
	}

	// Dragging off the element ends the hover but keeps the drag target.
	mustFrame(t, u, move(300, 250))
	checkEvents(t, u.Drain(), wantEvent{ui.HoverEnd, front}, wantEvent{ui.Dragging, front})

	// Released goes to the pressed element wherever the pointer is.
	mustFrame(t, u, up(300, 250, ui.MouseButtonLeft))
	evs := u.Drain()
	checkEvents(t, evs, wantEvent{ui.Released, front})
	if evs[0].Button != ui.MouseButtonLeft || evs[0].Pos != (ui.Vec2{X: 300, Y: 250}) {
		t.Errorf("Expected release at (300, 250) with left button, got %+v", evs[0])
	}

	mustFrame(t, u, move(310, 250))
	checkEvents(t, u.Drain())
	if _, ok := u.Active(); ok {
		t.Error("Expected no active press after release")
	}
}

func TestUI_Dispatch_HoverMovesBetweenElements(t *testing.T) {
	_, u, _, back, front := overlapScene(t)

	mustFrame(t, u, move(30, 60), move(75, 75))
	checkEvents(t, u.Drain(),
		wantEvent{ui.HoverStart, back},
		wantEvent{ui.HoverEnd, back},
		wantEvent{ui.HoverStart, front},
	)

	mustFrame(t, u, move(76, 76))
	checkEvents(t, u.Drain())
	if e, ok := u.Hovered(); !ok || e != front {
		t.Errorf("Expected front to stay hovered, got %s %v", e, ok)
	}
}

func TestUI_Dispatch_Miss(t *testing.T) {
	_, u, _, _, _ := overlapScene(t)

	mustFrame(t, u, move(350, 250), down(350, 250, ui.MouseButtonLeft), up(350, 250, ui.MouseButtonLeft))
	checkEvents(t, u.Drain())
}

func TestUI_Dispatch_ReleaseNeedsSameButton(t *testing.T) {
	_, u, _, back, _ := overlapScene(t)

	mustFrame(t, u, down(30, 60, ui.MouseButtonLeft), up(30, 60, ui.MouseButtonRight))
	checkEvents(t, u.Drain(), wantEvent{ui.HoverStart, back}, wantEvent{ui.Pressed, back})
	if _, ok := u.Active(); !ok {
		t.Error("Expected the left press to survive a right release")
	}
}

func TestUI_Dispatch_HoveredDestroyed(t *testing.T) {
	tree, u, _, _, front := overlapScene(t)

	mustFrame(t, u, move(75, 75), down(75, 75, ui.MouseButtonLeft))
	u.Drain()

	tree.Destroy(front)
	u.Sync(tree)

	mustFrame(t, u)
	checkEvents(t, u.Drain(), wantEvent{ui.HoverEnd, front})
	if _, ok := u.Active(); ok {
		t.Error("Expected the press on a destroyed element to be cancelled")
	}
	if _, ok := u.Hovered(); ok {
		t.Error("Expected nothing hovered")
	}
}

func TestUI_Dispatch_PressedElementClipped(t *testing.T) {
	tree, u := newTestUI()
	panel := addElement(t, tree, u, ui.Entity{}, box("panel", ui.TopLeft, 0, 0, 0, 100, 100))
	el := addElement(t, tree, u, ui.Entity{}, box("el", ui.TopLeft, 10, 10, 0, 40, 40))
	if err := u.SetMask(el, ui.Mask{Target: panel}); err != nil {
		t.Fatalf("SetMask: %v", err)
	}

	mustFrame(t, u, move(20, 20), down(20, 20, ui.MouseButtonLeft))
	checkEvents(t, u.Drain(), wantEvent{ui.HoverStart, el}, wantEvent{ui.Pressed, el})

	// Moving the mask target away leaves el outside its clip.
	if err := u.SetTransform(panel, box("panel", ui.TopLeft, 200, 200, 0, 100, 100)); err != nil {
		t.Fatalf("SetTransform: %v", err)
	}
	mustFrame(t, u, move(25, 25), up(25, 25, ui.MouseButtonLeft))

	if v := u.Visibility(el); v != ui.FullyClipped {
		t.Fatalf("Expected el to be fully_clipped, got %s", v)
	}
	evs := u.Drain()
	checkEvents(t, evs, wantEvent{ui.HoverEnd, el})
	if evs[0].Button != ui.MouseButtonNone {
		t.Errorf("Expected a hover event to carry no button, got %s", evs[0].Button)
	}
	if _, ok := u.Active(); ok {
		t.Error("Expected the press on a clipped element to be cancelled")
	}
}

func TestUI_Events_Reader(t *testing.T) {
	_, u, _, back, _ := overlapScene(t)
	r := u.Events().Register()
	defer u.Events().Unregister(r)

	mustFrame(t, u, move(30, 60))
	mustFrame(t, u, down(30, 60, ui.MouseButtonLeft))

	checkEvents(t, u.Events().Read(r), wantEvent{ui.HoverStart, back}, wantEvent{ui.Pressed, back})
	if evs := u.Events().Read(r); len(evs) != 0 {
		t.Errorf("Expected a reader to see each event once, got %d again", len(evs))
	}
}
