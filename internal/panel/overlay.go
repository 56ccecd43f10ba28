package panel

import (
	"Poolside/internal/logger"
	"Poolside/internal/params"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/inkyblackness/imgui-go/v4"
	"go.uber.org/zap"
)

// Overlay draws a Panel as an imgui window on top of the scene. All calls
// must happen on the render thread with the window's context current.
type Overlay struct {
	panel    *Panel
	context  *imgui.Context
	platform *glfwPlatform
	renderer *gl3Renderer
}

func NewOverlay(window *glfw.Window, panel *Panel) (*Overlay, error) {
	context := imgui.CreateContext(nil)
	io := imgui.CurrentIO()
	io.SetIniFilename("")

	r, err := newGL3Renderer(io)
	if err != nil {
		context.Destroy()
		return nil, err
	}
	imgui.StyleColorsDark()

	return &Overlay{
		panel:    panel,
		context:  context,
		platform: newGLFWPlatform(window, io),
		renderer: r,
	}, nil
}

// WantsInput reports whether imgui consumed keyboard or mouse input in the
// last frame. Camera input should be skipped while it is true.
func (o *Overlay) WantsInput() bool {
	io := imgui.CurrentIO()
	return io.WantCaptureMouse() || io.WantCaptureKeyboard() || imgui.IsAnyItemActive()
}

// Frame builds and draws one imgui frame. Edits made through the widgets
// go through Control.Edit before this returns.
func (o *Overlay) Frame() {
	o.platform.newFrame()
	imgui.NewFrame()

	imgui.SetNextWindowPosV(imgui.Vec2{X: 10, Y: 10}, imgui.ConditionFirstUseEver, imgui.Vec2{})
	if imgui.Begin(o.panel.Title) {
		for _, c := range o.panel.Controls() {
			o.drawControl(c)
		}
	}
	imgui.End()

	imgui.Render()
	o.renderer.render(o.platform.displaySize(), o.platform.framebufferSize(), imgui.RenderedDrawData())
}

func (o *Overlay) drawControl(c *Control) {
	var err error
	switch c.Kind {
	case params.Float:
		v := c.set.Float(c.Name)
		if imgui.SliderFloat(c.Label, &v, c.Min, c.Max) {
			err = c.Edit(v)
		}
	case params.Color:
		col := [3]float32(c.set.Color(c.Name))
		if imgui.ColorEdit3(c.Label, &col) {
			err = c.Edit(mgl32.Vec3(col))
		}
	case params.Bool:
		v := c.set.Bool(c.Name)
		if imgui.Checkbox(c.Label, &v) {
			err = c.Edit(v)
		}
	}
	if err != nil {
		logger.Log.Warn("Panel edit rejected", zap.String("control", c.Name), zap.Error(err))
	}
}

func (o *Overlay) Dispose() {
	o.platform.dispose()
	o.renderer.dispose()
	o.context.Destroy()
}
