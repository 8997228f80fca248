// Command gen lays out every scene in doc/scenes/, draws the debug view,
// captures framebuffer pixels, and saves JPEG screenshots to doc/imgs/.
//
// Usage:
//
//	devbox shell
//	go run ./doc/gen/
package main

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/ui"
	"github.com/go-theft-auto/ui/backend/opengl"
	"github.com/go-theft-auto/ui/scene"
)

const maxSize = 800 // Hidden window size; larger than every screenshot

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	paths, err := filepath.Glob(filepath.Join("doc", "scenes", "*.toml"))
	if err != nil {
		return fmt.Errorf("glob scenes: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no scenes in doc/scenes")
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(maxSize, maxSize, "screenshot-gen", nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	renderer, err := opengl.NewRenderer(maxSize, maxSize)
	if err != nil {
		return fmt.Errorf("ui renderer: %w", err)
	}
	defer renderer.Delete()

	metrics := ui.NewFaceMetrics()
	defer metrics.Close()
	if err := metrics.RegisterGoRegular(0); err != nil {
		return err
	}

	outDir := filepath.Join("doc", "imgs")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		w, h, err := capture(renderer, metrics, path, filepath.Join(outDir, name+".jpg"))
		if err != nil {
			return fmt.Errorf("capture %s: %w", name, err)
		}
		fmt.Printf("  %s.jpg (%dx%d)\n", name, w, h)
	}

	fmt.Printf("\nGenerated %d screenshots in %s/\n", len(paths), outDir)
	return nil
}

func capture(renderer *opengl.Renderer, metrics ui.GlyphMetrics, scenePath, outPath string) (int, int, error) {
	sc, err := scene.Load(scenePath)
	if err != nil {
		return 0, 0, err
	}
	width, height := int(sc.Viewport.Width), int(sc.Viewport.Height)
	if width <= 0 || height <= 0 || width > maxSize || height > maxSize {
		return 0, 0, fmt.Errorf("viewport %dx%d out of range", width, height)
	}

	// Fresh tree per screenshot so no state leaks between captures.
	tree := ui.NewTree()
	u := ui.New(tree, metrics)
	if _, err := scene.Build(sc, tree, u); err != nil {
		return 0, 0, err
	}

	// Only update the renderer projection; resizing the hidden window is
	// asynchronous and would desync framebuffer and scissor.
	renderer.Resize(width, height)
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0.12, 0.12, 0.14, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	viewport := ui.Rect{W: float32(width), H: float32(height)}
	if err := u.Frame(viewport, nil); err != nil {
		return 0, 0, err
	}
	if err := renderer.RenderFrame(u, ui.DefaultDrawStyle()); err != nil {
		return 0, 0, err
	}

	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	// Flip vertically (OpenGL origin is bottom-left)
	rowLen := width * 4
	tmp := make([]byte, rowLen)
	for y := 0; y < height/2; y++ {
		top := y * rowLen
		bot := (height - 1 - y) * rowLen
		copy(tmp, pixels[top:top+rowLen])
		copy(pixels[top:top+rowLen], pixels[bot:bot+rowLen])
		copy(pixels[bot:bot+rowLen], tmp)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)

	f, err := os.Create(outPath)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	return width, height, jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
}
