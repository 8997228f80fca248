// Example loads a TOML scene, lays it out every frame and draws the
// resolved rectangles, glyph boxes and clip regions.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/         # run this example
//
// Pointer events are logged; pass -v for per-stage debug logs.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/ui"
	"github.com/go-theft-auto/ui/backend/opengl"
	"github.com/go-theft-auto/ui/scene"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "ui example"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	scenePath := flag.String("scene", "example/scene.toml", "scene file to load")
	verbose := flag.Bool("v", false, "enable debug logging")
	workers := flag.Int("workers", runtime.NumCPU(), "goroutines per layout stage")
	flag.Parse()

	ui.SetVerbose(*verbose)

	if err := run(*scenePath, *workers, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(scenePath string, workers int, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sc, err := scene.Load(scenePath)
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	width, height := windowWidth, windowHeight
	if sc.Viewport.Width > 0 && sc.Viewport.Height > 0 {
		width, height = int(sc.Viewport.Width), int(sc.Viewport.Height)
	}
	window, err := glfw.CreateWindow(width, height, windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1) // vsync

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	fw, fh := window.GetFramebufferSize()
	renderer, err := opengl.NewRenderer(fw, fh)
	if err != nil {
		return fmt.Errorf("ui renderer: %w", err)
	}
	defer renderer.Delete()

	pointer := opengl.NewPointerAdapter(window)

	metrics := ui.NewFaceMetrics()
	defer metrics.Close()
	if err := metrics.RegisterGoRegular(0); err != nil {
		return err
	}

	tree := ui.NewTree()
	layout := ui.New(tree, metrics,
		ui.WithWorkers(workers),
	)
	names, err := scene.Build(sc, tree, layout)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	layout.Sync(tree)

	events := layout.Events().Register()
	style := ui.DefaultDrawStyle()

	for !window.ShouldClose() {
		glfw.PollEvents()

		w, h := window.GetFramebufferSize()
		renderer.Resize(w, h)
		gl.Viewport(0, 0, int32(w), int32(h))
		gl.ClearColor(0.12, 0.12, 0.14, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		viewport := ui.Rect{W: float32(w), H: float32(h)}
		if err := layout.Frame(viewport, pointer.Drain()); err != nil {
			// Broken subtrees are skipped; keep running.
			logger.Warn("frame", "err", err)
		}

		for _, ev := range layout.Events().Read(events) {
			t, _ := layout.Transform(ev.Target)
			logger.Info("ui event",
				"kind", ev.Kind,
				"target", t.Name,
				"x", ev.Pos.X,
				"y", ev.Pos.Y)
			if status, ok := names["status"]; ok && ev.Kind == ui.Pressed {
				setStatus(layout, status, fmt.Sprintf("pressed %s", t.Name))
			}
		}

		if err := renderer.RenderFrame(layout, style); err != nil {
			return fmt.Errorf("ui render: %w", err)
		}
		if st := renderer.Stats(); st.Culled > 0 {
			logger.Debug("draw commands off screen", "culled", st.Culled, "drawn", st.Commands)
		}

		window.SwapBuffers()
	}

	return nil
}

// setStatus replaces the text of the status line, keeping its style.
func setStatus(u *ui.UI, e ui.Entity, msg string) {
	text, ok := u.Text(e)
	if !ok || len(text.Sections) == 0 {
		return
	}
	text.Sections = []ui.TextSection{{
		Text:  msg,
		Color: text.Sections[0].Color,
		Font:  text.Sections[0].Font,
		Size:  text.Sections[0].Size,
	}}
	_ = u.SetText(e, text)
}
