package renderer

import (
	"fmt"
	"image"

	"Poolside/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var frustum Frustum
var frustumDirty = true

type OpenGLRenderer struct {
	defaultShader        Shader
	depthShader          Shader
	Models               []*Model
	Textures             *TextureManager
	currentShaderProgram uint32 // Track currently bound shader to avoid unnecessary switches
	width, height        int32  // default framebuffer size in device pixels
}

func (rend *OpenGLRenderer) Init(width, height int32, _ *glfw.Window) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("opengl init: %w", err)
	}

	if Debug {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	if rend.Textures == nil {
		rend.Textures = NewTextureManager()
	}
	SetDefaultTexture(rend)
	rend.UpdateViewport(width, height)
	if err := rend.InitShader(); err != nil {
		return fmt.Errorf("default shaders: %w", err)
	}
	logger.Log.Info("OpenGL render initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return nil
}

func (rend *OpenGLRenderer) InitShader() error {
	rend.defaultShader = InitShader()
	if err := rend.defaultShader.Compile(); err != nil {
		return err
	}
	rend.depthShader = InitDepthShader()
	return rend.depthShader.Compile()
}

// vertexAttribs is the interleaved layout every model uses: position at
// location 0, uv at 1, normal at 2.
var vertexAttribs = [...]struct {
	location, size, offset int32
}{
	{0, 3, 0},
	{1, 2, 3},
	{2, 3, 5},
}

const vertexStride = 8 * 4

// uploadMesh creates the model's vertex array with its vertex and index
// buffers.
func uploadMesh(model *Model) {
	gl.GenVertexArrays(1, &model.VAO)
	gl.BindVertexArray(model.VAO)

	gl.GenBuffers(1, &model.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, model.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(model.InterleavedData)*4, gl.Ptr(model.InterleavedData), gl.STATIC_DRAW)

	gl.GenBuffers(1, &model.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, model.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(model.Faces)*4, gl.Ptr(model.Faces), gl.STATIC_DRAW)

	for _, a := range vertexAttribs {
		gl.VertexAttribPointer(uint32(a.location), a.size, gl.FLOAT, false, vertexStride, gl.PtrOffset(int(a.offset)*4))
		gl.EnableVertexAttribArray(uint32(a.location))
	}
	gl.BindVertexArray(0)
}

func (rend *OpenGLRenderer) AddModel(model *Model) {
	uploadMesh(model)
	rend.loadMaterialTextures(model)

	if model.Shader.IsValid() && !model.Shader.IsCompiled() {
		if err := model.Shader.Compile(); err != nil {
			logger.Log.Error("Custom shader failed, using default", zap.String("model", model.Name), zap.Error(err))
			model.Shader = Shader{}
		}
	}

	model.updateModelMatrix()
	model.IsDirty = false

	rend.Models = append(rend.Models, model)
	logger.Log.Debug("Model added", zap.String("name", model.Name), zap.Int("indices", len(model.Faces)))
}

func (rend *OpenGLRenderer) loadMaterialTextures(model *Model) {
	load := func(mat *Material) {
		if mat == nil || mat.TexturePath == "" || mat.TextureID != 0 {
			return
		}
		id, err := rend.Textures.LoadTexture(mat.TexturePath)
		if err != nil {
			logger.Log.Warn("Material texture failed", zap.String("path", mat.TexturePath), zap.Error(err))
			return
		}
		mat.TextureID = id
	}
	load(model.Material)
	for _, group := range model.MaterialGroups {
		load(group.Material)
	}
}

// Render draws the visible frame.
func (rend *OpenGLRenderer) Render(camera Camera, light *Light) {
	rend.RenderPass(Pass{}, camera, light)
}

// RenderDepth fills target with scene depth, skipping hidden, using the
// depth override for every other model.
func (rend *OpenGLRenderer) RenderDepth(target *DepthTarget, camera Camera, hidden ...*Model) {
	rend.RenderPass(Pass{Target: target, Override: &rend.depthShader, Hidden: hidden}, camera, nil)
}

// RenderPass draws every visible model into pass.Target, or the default
// framebuffer when it is nil. Cached program and texture bindings are
// dropped first: the overlay and depth target allocation change both
// between passes.
func (rend *OpenGLRenderer) RenderPass(pass Pass, camera Camera, light *Light) {
	rend.resetBindings()
	if pass.Target != nil {
		pass.Target.Bind()
		gl.Clear(gl.DEPTH_BUFFER_BIT)
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, rend.width, rend.height)
		gl.ClearColor(ClearColorR, ClearColorG, ClearColorB, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	}

	if DepthTestEnabled || pass.Target != nil {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthMask(true)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	viewProjection := camera.GetViewProjection()

	// Culling : https://learnopengl.com/Advanced-OpenGL/Face-culling
	if FaceCullingEnabled {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.FrontFace(gl.CCW)
	}

	if FrustumCullingEnabled && frustumDirty {
		frustum = camera.CalculateFrustum()
		frustumDirty = false
	}

	for _, model := range rend.Models {
		if isHidden(model, pass.Hidden) {
			continue
		}

		if model.IsDirty {
			model.updateModelMatrix()
			model.IsDirty = false
		}

		if FrustumCullingEnabled && !frustum.IntersectsSphere(model.BoundingSphereCenter, model.BoundingSphereRadius) {
			continue
		}

		shader := rend.shaderFor(model, pass)
		if shader.uniforms == nil {
			continue
		}

		if rend.currentShaderProgram != shader.program {
			shader.Use()
			rend.currentShaderProgram = shader.program
		}

		rend.setCommonUniforms(shader, viewProjection, model, light, camera)

		if pass.Override == nil {
			rend.setMaterialUniforms(shader, model)
			if model.Uniforms != nil && shader == &model.Shader {
				ApplyUniforms(shader, model.Uniforms)
			}
			rend.bindMaterialTexture(shader, model)
		}

		gl.BindVertexArray(model.VAO)
		gl.DrawElements(gl.TRIANGLES, int32(len(model.Faces)), gl.UNSIGNED_INT, nil)
		gl.BindVertexArray(0)
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	if pass.Target != nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, rend.width, rend.height)
	}
}

func (rend *OpenGLRenderer) resetBindings() {
	rend.currentShaderProgram = 0
	boundTexture.invalidate()
}

func isHidden(model *Model, hidden []*Model) bool {
	for _, h := range hidden {
		if h == model {
			return true
		}
	}
	return false
}

func (rend *OpenGLRenderer) shaderFor(model *Model, pass Pass) *Shader {
	if pass.Override != nil {
		return pass.Override
	}
	if model.Shader.IsValid() && model.Shader.IsCompiled() {
		return &model.Shader
	}
	return &rend.defaultShader
}

// setCommonUniforms sets uniforms that are common to most shaders
func (rend *OpenGLRenderer) setCommonUniforms(shader *Shader, viewProjection mgl32.Mat4, model *Model, light *Light, camera Camera) {
	u := shader.uniforms
	u.SetMat4("viewProjection", viewProjection)
	u.SetMat4("model", model.ModelMatrix)
	u.SetVec3("viewPos", camera.Position[0], camera.Position[1], camera.Position[2])

	if light == nil {
		return
	}
	u.SetVec3("light.position", light.Position[0], light.Position[1], light.Position[2])
	u.SetVec3("light.direction", light.Direction[0], light.Direction[1], light.Direction[2])
	u.SetVec3("light.color", light.Color[0], light.Color[1], light.Color[2])
	u.SetFloat("light.intensity", light.Intensity)
	u.SetFloat("light.ambientStrength", light.AmbientStrength)
	u.SetVec3("light.ambientColor", light.AmbientColor[0], light.AmbientColor[1], light.AmbientColor[2])
	var directional int32
	if light.Directional {
		directional = 1
	}
	u.SetInt("light.isDirectional", directional)
}

// setMaterialUniforms sets material-specific uniforms
func (rend *OpenGLRenderer) setMaterialUniforms(shader *Shader, model *Model) {
	mat := model.Material
	if mat == nil {
		mat = DefaultMaterial
	}
	u := shader.uniforms
	u.SetVec3("diffuseColor", mat.DiffuseColor[0], mat.DiffuseColor[1], mat.DiffuseColor[2])
	u.SetVec3("specularColor", mat.SpecularColor[0], mat.SpecularColor[1], mat.SpecularColor[2])
	u.SetFloat("shininess", mat.Shininess)
	u.SetFloat("alpha", mat.Alpha)
}

func (rend *OpenGLRenderer) bindMaterialTexture(shader *Shader, model *Model) {
	textureID := DefaultMaterial.TextureID
	if model.Material != nil && model.Material.TextureID != 0 {
		textureID = model.Material.TextureID
	}
	gl.ActiveTexture(gl.TEXTURE0)
	boundTexture.use(textureID)
	shader.uniforms.SetInt("textureSampler", 0)
}

func (rend *OpenGLRenderer) Cleanup() {
	for _, model := range rend.Models {
		gl.DeleteVertexArrays(1, &model.VAO)
		gl.DeleteBuffers(1, &model.VBO)
		gl.DeleteBuffers(1, &model.EBO)
		model.Shader.Delete()
	}
	rend.Models = nil
	rend.defaultShader.Delete()
	rend.depthShader.Delete()
	if rend.Textures != nil {
		rend.Textures.Clear()
	}
}

// LoadTexture goes through the texture cache so repeated paths share a
// handle.
func (rend *OpenGLRenderer) LoadTexture(filePath string) (uint32, error) {
	if rend.Textures == nil {
		rend.Textures = NewTextureManager()
	}
	return rend.Textures.LoadTexture(filePath)
}

// CreateTextureFromImage uploads a generated image. The handle is owned by
// the caller and bypasses the path cache.
func (rend *OpenGLRenderer) CreateTextureFromImage(img image.Image) (uint32, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, fmt.Errorf("create texture: empty image")
	}
	return uploadTexture(toRGBA(img)), nil
}

// ReadPixels reads the default framebuffer as tightly packed RGBA rows,
// bottom row first.
func (rend *OpenGLRenderer) ReadPixels(buf []byte) []byte {
	size := int(rend.width) * int(rend.height) * 4
	if cap(buf) < size {
		buf = make([]byte, size)
	}
	buf = buf[:size]
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, rend.width, rend.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(buf))
	return buf
}

// CreateDirectionalLight returns a sun-style light shining along direction.
func CreateDirectionalLight(direction, color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Position:        direction.Mul(-500),
		Direction:       direction.Normalize(),
		Color:           color,
		Intensity:       intensity,
		AmbientStrength: 0.15,
		AmbientColor:    color,
		Directional:     true,
	}
}

// UpdateViewport updates the OpenGL viewport to match the framebuffer size
func (rend *OpenGLRenderer) UpdateViewport(width, height int32) {
	rend.width, rend.height = width, height
	gl.Viewport(0, 0, width, height)
}

func (rend *OpenGLRenderer) Size() (int32, int32) {
	return rend.width, rend.height
}
