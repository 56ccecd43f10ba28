package renderer

import (
	"errors"
	"fmt"
	"math"

	"Poolside/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// ErrDepthUnsupported is returned when the driver cannot attach a sampled
// depth texture to a framebuffer.
var ErrDepthUnsupported = errors.New("renderer: depth render target unsupported")

// DepthTarget is an offscreen framebuffer with a single sampled depth
// attachment, sized in device pixels.
type DepthTarget struct {
	Width        int32
	Height       int32
	fbo          uint32
	depthTexture uint32
}

// DeviceSize converts a logical window size to device pixels.
func DeviceSize(width, height int, ratio float64) (int32, int32) {
	if ratio <= 0 {
		ratio = 1
	}
	return int32(math.Round(float64(width) * ratio)), int32(math.Round(float64(height) * ratio))
}

func NewDepthTarget(width, height int32) (*DepthTarget, error) {
	t := &DepthTarget{}
	if err := t.allocate(width, height); err != nil {
		return nil, err
	}
	logger.Log.Info("Depth target created", zap.Int32("width", width), zap.Int32("height", height))
	return t, nil
}

func (t *DepthTarget) allocate(width, height int32) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("depth target: invalid size %dx%d", width, height)
	}

	var undo Unwind
	gl.GenFramebuffers(1, &t.fbo)
	undo.Add(func() {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	})
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	gl.GenTextures(1, &t.depthTexture)
	undo.Add(func() {
		gl.DeleteTextures(1, &t.depthTexture)
		t.depthTexture = 0
	})
	gl.BindTexture(gl.TEXTURE_2D, t.depthTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, width, height, 0, gl.DEPTH_COMPONENT, gl.UNSIGNED_INT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.depthTexture, 0)

	// No color attachment.
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	InvalidateTextureCache()

	if status != gl.FRAMEBUFFER_COMPLETE {
		undo.Unwind()
		return fmt.Errorf("%w: framebuffer status 0x%x", ErrDepthUnsupported, status)
	}
	undo.Discard()
	t.Width, t.Height = width, height
	return nil
}

// Resize reallocates the attachment. The depth texture handle changes, so
// callers must rebind it.
func (t *DepthTarget) Resize(width, height int32) error {
	if width == t.Width && height == t.Height && t.fbo != 0 {
		return nil
	}
	t.release()
	if err := t.allocate(width, height); err != nil {
		return err
	}
	logger.Log.Debug("Depth target resized", zap.Int32("width", width), zap.Int32("height", height))
	return nil
}

// Bind directs rendering into the target and matches the viewport to it.
func (t *DepthTarget) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, t.Width, t.Height)
}

func (t *DepthTarget) Texture() uint32 { return t.depthTexture }

func (t *DepthTarget) release() {
	if t.depthTexture != 0 {
		gl.DeleteTextures(1, &t.depthTexture)
		t.depthTexture = 0
	}
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	t.Width, t.Height = 0, 0
}

func (t *DepthTarget) Destroy() {
	t.release()
}
