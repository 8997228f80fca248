package ui_test

import (
	"sync"
	"testing"

	"github.com/go-theft-auto/ui"
)

func TestPointerQueue_Drain(t *testing.T) {
	q := ui.NewPointerQueue()
	q.MoveTo(1, 2)
	q.SetButton(ui.MouseButtonLeft, true)
	q.SetButton(ui.MouseButtonLeft, true)   // Held: dropped
	q.SetButton(ui.MouseButtonRight, false) // Not held: dropped
	q.SetButton(ui.MouseButtonLeft, false)

	got := q.Drain()
	want := []ui.PointerEvent{
		{Kind: ui.PointerMove, Pos: ui.Vec2{X: 1, Y: 2}},
		{Kind: ui.PointerDown, Pos: ui.Vec2{X: 1, Y: 2}, Button: ui.MouseButtonLeft},
		{Kind: ui.PointerUp, Pos: ui.Vec2{X: 1, Y: 2}, Button: ui.MouseButtonLeft},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d events, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if again := q.Drain(); again != nil {
		t.Errorf("Expected an empty queue after Drain, got %+v", again)
	}
	if q.Pos() != (ui.Vec2{X: 1, Y: 2}) {
		t.Errorf("Pos() = %v, want last move", q.Pos())
	}
}

func TestPointerQueue_ConcurrentPresses(t *testing.T) {
	q := ui.NewPointerQueue()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.SetButton(ui.MouseButtonLeft, true)
		}()
	}
	wg.Wait()

	if got := q.Drain(); len(got) != 1 || got[0].Kind != ui.PointerDown {
		t.Errorf("Expected one press from concurrent callers, got %+v", got)
	}
}

func TestPointerQueue_IgnoresNoButton(t *testing.T) {
	q := ui.NewPointerQueue()
	q.SetButton(ui.MouseButtonNone, true)
	q.SetButton(ui.MouseButtonCount, true)

	if got := q.Drain(); got != nil {
		t.Errorf("Expected no events for invalid buttons, got %+v", got)
	}
}

func TestPointerQueue_FeedsDispatch(t *testing.T) {
	_, u, _, back, _ := overlapScene(t)
	q := ui.NewPointerQueue()

	q.MoveTo(30, 60)
	q.SetButton(ui.MouseButtonLeft, true)
	mustFrame(t, u, q.Drain()...)

	checkEvents(t, u.Drain(), wantEvent{ui.HoverStart, back}, wantEvent{ui.Pressed, back})
}
