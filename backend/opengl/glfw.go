package opengl

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/ui"
)

// PointerAdapter turns GLFW cursor and mouse button callbacks into
// ui.PointerEvents. Events queue up between frames; call Drain once per
// frame and pass the result to ui.UI.Frame.
type PointerAdapter struct {
	window *glfw.Window
	queue  *ui.PointerQueue
	scale  float32 // Framebuffer pixels per window coordinate
}

// NewPointerAdapter installs callbacks on window.
func NewPointerAdapter(window *glfw.Window) *PointerAdapter {
	a := &PointerAdapter{
		window: window,
		queue:  ui.NewPointerQueue(),
		scale:  1,
	}
	a.updateScale()

	window.SetCursorPosCallback(a.cursorPosCallback)
	window.SetMouseButtonCallback(a.mouseButtonCallback)
	window.SetCursorEnterCallback(a.cursorEnterCallback)
	return a
}

// Drain returns the pointer events received since the last call.
func (a *PointerAdapter) Drain() []ui.PointerEvent {
	a.updateScale()
	return a.queue.Drain()
}

// updateScale tracks HiDPI displays, where cursor coordinates are in window
// units but layout runs in framebuffer pixels.
func (a *PointerAdapter) updateScale() {
	ww, _ := a.window.GetSize()
	fw, _ := a.window.GetFramebufferSize()
	if ww > 0 && fw > 0 {
		a.scale = float32(fw) / float32(ww)
	}
}

func (a *PointerAdapter) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	a.queue.MoveTo(float32(xpos)*a.scale, float32(ypos)*a.scale)
}

func (a *PointerAdapter) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b := glfwMouseButtonToUI(button)
	if b == ui.MouseButtonNone {
		return
	}

	switch action {
	case glfw.Press:
		a.queue.SetButton(b, true)
	case glfw.Release:
		a.queue.SetButton(b, false)
	}
}

// cursorEnterCallback moves the pointer far outside the viewport when it
// leaves the window, so hovering ends.
func (a *PointerAdapter) cursorEnterCallback(w *glfw.Window, entered bool) {
	if !entered {
		a.queue.MoveTo(-1e9, -1e9)
	}
}

// glfwMouseButtonToUI maps GLFW mouse buttons to ui mouse buttons.
func glfwMouseButtonToUI(button glfw.MouseButton) ui.MouseButton {
	switch button {
	case glfw.MouseButtonLeft:
		return ui.MouseButtonLeft
	case glfw.MouseButtonRight:
		return ui.MouseButtonRight
	case glfw.MouseButtonMiddle:
		return ui.MouseButtonMiddle
	default:
		return ui.MouseButtonNone
	}
}
