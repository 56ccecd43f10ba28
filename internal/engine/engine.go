// Package engine owns the window, the GL context and the frame loop. Apps
// plug in through App and are driven once per display refresh.
package engine

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"Poolside/internal/capture"
	"Poolside/internal/config"
	"Poolside/internal/logger"
	"Poolside/internal/panel"
	"Poolside/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// App is a scene driven by Run.
type App interface {
	// Init runs once with a current GL context, before the first frame.
	Init(env *Env) error
	// UpdateScene advances and renders one frame. dt and elapsed are in
	// seconds.
	UpdateScene(dt, elapsed float64)
	// Resize is called before the first frame and whenever the window or
	// its framebuffer changes size. ratio is framebuffer pixels per window
	// unit.
	Resize(width, height int, ratio float64)
	Dispose()
}

// PresetApplier is implemented by apps that accept live preset reloads.
type PresetApplier interface {
	ApplyPreset(p config.Preset) error
}

// PanelProvider is implemented by apps that expose a control panel.
type PanelProvider interface {
	Panel() *panel.Panel
}

// Env is what an App gets to build its scene with.
type Env struct {
	Renderer *renderer.OpenGLRenderer
	Camera   *renderer.Camera
	Window   *glfw.Window
	// Width and Height are the initial window size.
	Width, Height int
	Ratio         float64
}

type Options struct {
	Title  string
	Width  int
	Height int
	VSync  bool

	// Presets, when set, is drained on the render thread before every
	// UpdateScene.
	Presets <-chan config.Preset

	// Record, when Output is set, renders offscreen with a fixed-step
	// clock and encodes every frame.
	Record   capture.Options
	Duration time.Duration
}

func (o Options) recording() bool { return o.Record.Output != "" }

type rendererInit interface {
	Init(width, height int32, window *glfw.Window) error
}

func initRenderer(r rendererInit, fbw, fbh int, window *glfw.Window) error {
	if err := r.Init(int32(fbw), int32(fbh), window); err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}
	return nil
}

// Run creates the window and drives app until the window closes, the
// recording duration is reached, or a frame fails to encode. A renderer
// that fails to initialise ends Run before the loop starts.
func Run(app App, opts Options) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("engine: window size %dx%d must be positive", opts.Width, opts.Height)
	}
	if opts.recording() && opts.Duration <= 0 {
		return errors.New("engine: recording needs a positive duration")
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("could not initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := createWindow(opts)
	if err != nil {
		return err
	}
	defer window.Destroy()

	fbw, fbh := window.GetFramebufferSize()
	rend := &renderer.OpenGLRenderer{}
	if err := initRenderer(rend, fbw, fbh, window); err != nil {
		return err
	}
	defer rend.Cleanup()

	camera := renderer.NewDefaultCamera(int32(fbw), int32(fbh))
	env := &Env{
		Renderer: rend,
		Camera:   camera,
		Window:   window,
		Width:    opts.Width,
		Height:   opts.Height,
		Ratio:    float64(fbw) / float64(opts.Width),
	}
	if err := app.Init(env); err != nil {
		return fmt.Errorf("init scene: %w", err)
	}
	defer app.Dispose()

	l := &loop{
		surface: glfwSurface{window},
		app:     app,
		presets: opts.Presets,
		resized: func(fw, fh int) {
			rend.UpdateViewport(int32(fw), int32(fh))
			env.Camera.SetViewport(int32(fw), int32(fh))
		},
	}

	if opts.recording() {
		return runRecording(l, rend, opts)
	}

	l.clock = NewWallClock()
	input := newCameraInput(window, env.Camera)
	defer input.dispose()
	l.input = input.update

	if provider, ok := app.(PanelProvider); ok && provider.Panel() != nil {
		overlay, err := panel.NewOverlay(window, provider.Panel())
		if err != nil {
			logger.Log.Warn("Control panel unavailable", zap.Error(err))
		} else {
			defer overlay.Dispose()
			input.blocked = overlay.WantsInput
			l.afterUpdate = func(int64) error {
				overlay.Frame()
				return nil
			}
		}
	}

	logger.Log.Info("Render loop started", zap.String("title", opts.Title))
	return l.run()
}

func runRecording(l *loop, rend *renderer.OpenGLRenderer, opts Options) error {
	clock := NewFixedClock(opts.Record.FPS)
	l.clock = clock
	l.maxFrames = int64(opts.Duration.Seconds() * float64(opts.Record.FPS))

	// Encoded frames use the framebuffer size.
	fw, fh := l.surface.FramebufferSize()
	rec := opts.Record
	rec.Width, rec.Height = fw, fh
	recorder, err := capture.Start(rec)
	if err != nil {
		return err
	}

	var buf []byte
	l.afterUpdate = func(frame int64) error {
		buf = rend.ReadPixels(buf)
		if err := recorder.WriteFrame(buf); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		return nil
	}

	runErr := l.run()
	closeErr := recorder.Close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}
