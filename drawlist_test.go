package ui_test

import (
	"testing"

	"github.com/go-theft-auto/ui"
)

func indexCount(dl *ui.DrawList) uint32 {
	var n uint32
	for _, cmd := range dl.CmdBuffer {
		n += cmd.ElemCount
	}
	return n
}

func TestBuildDrawList(t *testing.T) {
	tree, u := newTestUI()
	panel := addElement(t, tree, u, ui.Entity{}, box("panel", ui.TopLeft, 0, 0, 0, 100, 100))
	addElement(t, tree, u, ui.Entity{}, box("offscreen", ui.TopLeft, 1000, 0, 0, 100, 100))
	mustFrame(t, u)

	dl := ui.AcquireDrawList()
	defer ui.ReleaseDrawList(dl)
	ui.BuildDrawList(u, dl, ui.DefaultDrawStyle())

	// Fill plus four outline edges, six indices each. The offscreen
	// element is skipped.
	if n := indexCount(dl); n != 30 {
		t.Errorf("Expected 30 indices, got %d", n)
	}
	if len(dl.VtxBuffer) != 20 {
		t.Errorf("Expected 20 vertices, got %d", len(dl.VtxBuffer))
	}
	if len(dl.CmdBuffer) != 1 {
		t.Fatalf("Expected 1 command, got %d", len(dl.CmdBuffer))
	}

	c, _ := u.Clip(panel)
	want := [4]float32{c.Clip.X, c.Clip.Y, c.Clip.MaxX(), c.Clip.MaxY()}
	if dl.CmdBuffer[0].ClipRect != want {
		t.Errorf("clip rect = %v, want %v", dl.CmdBuffer[0].ClipRect, want)
	}
}

func TestBuildDrawList_GlyphBoxes(t *testing.T) {
	tree, u := newTestUI()
	label := addElement(t, tree, u, ui.Entity{}, box("label", ui.TopLeft, 0, 0, 0, 100, 40))
	if err := u.SetText(label, ui.MultiSectionText{Sections: sections("A B")}); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	mustFrame(t, u)

	dl := ui.AcquireDrawList()
	defer ui.ReleaseDrawList(dl)
	ui.BuildDrawList(u, dl, ui.DefaultDrawStyle())

	// Five quads for the element, one per visible glyph; the space has none.
	if n := indexCount(dl); n != 7*6 {
		t.Errorf("Expected %d indices, got %d", 7*6, n)
	}
}

func TestDrawList_FinalizeIdempotent(t *testing.T) {
	dl := ui.AcquireDrawList()
	defer ui.ReleaseDrawList(dl)

	dl.PushClip(ui.Rect{W: 50, H: 50})
	dl.AddRect(0, 0, 10, 10, ui.ColorWhite)
	dl.PopClipRect()
	dl.AddRect(20, 20, 10, 10, ui.ColorRed)
	dl.AddRect(0, 0, 0, 10, ui.ColorRed) // Degenerate: skipped

	dl.Finalize()
	first := append([]ui.DrawCmd(nil), dl.CmdBuffer...)
	dl.Finalize()

	if len(first) != 2 || len(dl.CmdBuffer) != 2 {
		t.Fatalf("Expected 2 commands, got %d then %d", len(first), len(dl.CmdBuffer))
	}
	for i := range first {
		if first[i] != dl.CmdBuffer[i] {
			t.Errorf("command %d changed on second Finalize: %+v -> %+v", i, first[i], dl.CmdBuffer[i])
		}
	}
	if indexCount(dl) != uint32(len(dl.IdxBuffer)) {
		t.Errorf("Expected commands to cover all %d indices, got %d", len(dl.IdxBuffer), indexCount(dl))
	}
}
