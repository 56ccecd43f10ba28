package engine

import (
	"Poolside/internal/config"
	"Poolside/internal/logger"

	"go.uber.org/zap"
)

// Surface is the window the loop drives.
type Surface interface {
	ShouldClose() bool
	SwapBuffers()
	PollEvents()
	// Size is the window size in screen coordinates.
	Size() (width, height int)
	// FramebufferSize is the drawable size in device pixels.
	FramebufferSize() (width, height int)
}

// loop runs the per-frame sequence shared by the windowed and record modes.
type loop struct {
	surface Surface
	app     App
	clock   Clock
	presets <-chan config.Preset

	// input runs before the update, with the previous frame's dt.
	input func(dt float64)
	// resized runs before App.Resize with the new framebuffer size.
	resized func(fbWidth, fbHeight int)
	// afterUpdate runs after the scene rendered and before the swap. A
	// non-nil error ends the loop.
	afterUpdate func(frame int64) error
	// maxFrames ends the loop after that many frames when > 0.
	maxFrames int64

	width, height     int
	fbWidth, fbHeight int
	frames            int64
}

// checkResize forwards window or framebuffer size changes to the app.
func (l *loop) checkResize() {
	w, h := l.surface.Size()
	fw, fh := l.surface.FramebufferSize()
	if w == l.width && h == l.height && fw == l.fbWidth && fh == l.fbHeight {
		return
	}
	l.width, l.height, l.fbWidth, l.fbHeight = w, h, fw, fh
	if w <= 0 || h <= 0 {
		// Minimised.
		return
	}
	ratio := float64(fw) / float64(w)
	if l.resized != nil {
		l.resized(fw, fh)
	}
	l.app.Resize(w, h, ratio)
	logger.Log.Debug("Viewport resized",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Float64("ratio", ratio))
}

// drainPresets applies every queued preset on the render thread.
func (l *loop) drainPresets() {
	applier, ok := l.app.(PresetApplier)
	if !ok || l.presets == nil {
		return
	}
	for {
		select {
		case p, open := <-l.presets:
			if !open {
				l.presets = nil
				return
			}
			if err := applier.ApplyPreset(p); err != nil {
				logger.Log.Warn("Preset rejected", zap.Error(err))
			}
		default:
			return
		}
	}
}

func (l *loop) run() error {
	var dt float64
	for !l.surface.ShouldClose() {
		if l.maxFrames > 0 && l.frames >= l.maxFrames {
			break
		}
		l.checkResize()
		if l.input != nil {
			l.input(dt)
		}
		l.drainPresets()

		var elapsed float64
		dt, elapsed = l.clock.Tick()
		l.app.UpdateScene(dt, elapsed)
		l.frames++

		if l.afterUpdate != nil {
			if err := l.afterUpdate(l.frames); err != nil {
				return err
			}
		}
		l.surface.SwapBuffers()
		l.surface.PollEvents()
	}
	return nil
}
