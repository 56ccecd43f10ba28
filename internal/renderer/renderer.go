package renderer

import (
	"image"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	FrustumCullingEnabled = false
	FaceCullingEnabled    = false
	Debug                 = false
	DepthTestEnabled      = true

	ClearColorR, ClearColorG, ClearColorB float32
)

// Light is the single scene light fed to the default shader. Direction is
// used when Directional is set, Position otherwise.
type Light struct {
	Position        mgl32.Vec3
	Direction       mgl32.Vec3
	Color           mgl32.Vec3
	Intensity       float32
	AmbientStrength float32
	AmbientColor    mgl32.Vec3
	Directional     bool
}

// Pass describes one submission of the scene. A zero Pass is the visible
// beauty pass.
type Pass struct {
	Target   *DepthTarget // nil renders to the default framebuffer
	Override *Shader      // replaces every model's shader and material
	Hidden   []*Model     // skipped for this pass only
}

type Render interface {
	Init(width, height int32, window *glfw.Window) error
	Render(camera Camera, light *Light)
	RenderPass(pass Pass, camera Camera, light *Light)
	AddModel(model *Model)
	LoadTexture(path string) (uint32, error)
	CreateTextureFromImage(img image.Image) (uint32, error)
	UpdateViewport(width, height int32)
	Cleanup()
}

var _ Render = (*OpenGLRenderer)(nil)

// SetClearColor sets the background used by the beauty pass.
func SetClearColor(c mgl32.Vec3) {
	ClearColorR, ClearColorG, ClearColorB = c[0], c[1], c[2]
}
