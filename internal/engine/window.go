package engine

import (
	"fmt"

	"Poolside/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func createWindow(opts Options) (*glfw.Window, error) {
	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if opts.recording() {
		// Frames are read back from the default framebuffer of a hidden
		// window; a fixed size keeps the encoded resolution stable.
		glfw.WindowHint(glfw.Visible, glfw.False)
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	title := opts.Title
	if title == "" {
		title = "Poolside"
	}
	window, err := glfw.CreateWindow(opts.Width, opts.Height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create glfw window: %w", err)
	}
	window.MakeContextCurrent()
	if opts.VSync && !opts.recording() {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	setTitleBarStyle(window)
	return window, nil
}

type glfwSurface struct {
	window *glfw.Window
}

func (s glfwSurface) ShouldClose() bool { return s.window.ShouldClose() }
func (s glfwSurface) SwapBuffers()      { s.window.SwapBuffers() }
func (s glfwSurface) PollEvents()       { glfw.PollEvents() }

func (s glfwSurface) Size() (int, int) {
	return s.window.GetSize()
}

func (s glfwSurface) FramebufferSize() (int, int) {
	return s.window.GetFramebufferSize()
}

// cameraInput moves the camera with WASD and right-drag look, unless
// blocked reports that another consumer (the control panel) owns input.
type cameraInput struct {
	window  *glfw.Window
	camera  *renderer.Camera
	blocked func() bool

	lastX, lastY float64
	firstMouse   bool
}

func newCameraInput(window *glfw.Window, camera *renderer.Camera) *cameraInput {
	in := &cameraInput{window: window, camera: camera, firstMouse: true}
	window.SetCursorPosCallback(in.mouseCallback)
	return in
}

func (in *cameraInput) enabled() bool {
	return in.blocked == nil || !in.blocked()
}

func (in *cameraInput) update(dt float64) {
	if !in.enabled() {
		return
	}
	held := func(keys ...glfw.Key) bool {
		for _, k := range keys {
			if in.window.GetKey(k) == glfw.Press {
				return true
			}
		}
		return false
	}
	in.camera.Move(renderer.Movement{
		Forward: held(glfw.KeyW, glfw.KeyUp),
		Back:    held(glfw.KeyS, glfw.KeyDown),
		Left:    held(glfw.KeyA, glfw.KeyLeft),
		Right:   held(glfw.KeyD, glfw.KeyRight),
		Fast:    held(glfw.KeyLeftShift, glfw.KeyRightShift),
	}, float32(dt))
}

func (in *cameraInput) mouseCallback(w *glfw.Window, xpos, ypos float64) {
	if !in.enabled() || w.GetAttrib(glfw.Focused) != glfw.True || w.GetMouseButton(glfw.MouseButtonRight) != glfw.Press {
		in.firstMouse = true
		return
	}
	if in.firstMouse {
		in.lastX, in.lastY = xpos, ypos
		in.firstMouse = false
		return
	}

	xoffset := xpos - in.lastX
	yoffset := in.lastY - ypos // Reversed since y-coordinates go from bottom to top
	in.lastX, in.lastY = xpos, ypos
	in.camera.Look(float32(xoffset), float32(yoffset))
}

func (in *cameraInput) dispose() {
	in.window.SetCursorPosCallback(nil)
}
