package renderer

import (
	"image"
	"image/color"
	"math"

	"Poolside/internal/logger"
	"Poolside/internal/uniforms"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// DefaultMaterial is the plain white material models fall back on.
var DefaultMaterial = &Material{
	Name:          "default",
	DiffuseColor:  [3]float32{1, 1, 1},
	SpecularColor: [3]float32{1, 1, 1},
	Shininess:     32,
	Alpha:         1,
}

// MaterialGroup is a run of indices drawn with one material.
type MaterialGroup struct {
	Material   *Material
	IndexStart int32
	IndexCount int32
}

// Model is a mesh uploaded once and drawn every frame with either the
// default shader or its own program.
type Model struct {
	ModelMatrix mgl32.Mat4
	Position    mgl32.Vec3
	Scale       mgl32.Vec3
	Rotation    mgl32.Quat
	Material    *Material
	VAO         uint32
	VBO         uint32
	EBO         uint32
	IsDirty     bool

	BoundingSphereCenter mgl32.Vec3
	BoundingSphereRadius float32
	Shader               Shader
	Uniforms             *uniforms.Set // uploaded after the common uniforms when Shader is set

	Name            string
	SourcePath      string
	Vertices        []float32 // xyz triples in model space
	Normals         []float32
	Faces           []int32
	TextureCoords   []float32
	InterleavedData []float32
	MaterialGroups  []MaterialGroup
}

type Material struct {
	Name          string
	DiffuseColor  [3]float32
	SpecularColor [3]float32
	Shininess     float32
	Alpha         float32
	TexturePath   string // resolved when the model is added to a renderer
	TextureID     uint32
}

func (m *Model) SetPosition(x, y, z float32) { m.SetPositionVec(mgl32.Vec3{x, y, z}) }

func (m *Model) SetUniformScale(s float32) { m.SetScaleVec(mgl32.Vec3{s, s, s}) }

func (m *Model) GetPosition() mgl32.Vec3 { return m.Position }
func (m *Model) GetRotation() mgl32.Quat { return m.Rotation }
func (m *Model) GetScale() mgl32.Vec3    { return m.Scale }

func (m *Model) SetPositionVec(p mgl32.Vec3) {
	m.Position = p
	m.IsDirty = true
}

func (m *Model) SetRotationQuat(q mgl32.Quat) {
	m.Rotation = q
	m.IsDirty = true
}

func (m *Model) SetScaleVec(s mgl32.Vec3) {
	m.Scale = s
	m.IsDirty = true
}

// SetCustomShader gives the model its own program and uniform slots.
func (m *Model) SetCustomShader(shader Shader, set *uniforms.Set) {
	m.Shader = shader
	m.Uniforms = set
}

func (m *Model) rotation() mgl32.Quat {
	if m.Rotation == (mgl32.Quat{}) {
		return mgl32.QuatIdent()
	}
	return m.Rotation
}

// toWorld maps a model-space point through scale, rotation and translation.
func (m *Model) toWorld(v mgl32.Vec3) mgl32.Vec3 {
	scaled := mgl32.Vec3{v[0] * m.Scale[0], v[1] * m.Scale[1], v[2] * m.Scale[2]}
	return m.rotation().Rotate(scaled).Add(m.Position)
}

// CalculateBoundingSphere fits a world-space sphere around the vertices,
// centred on their mean.
func (m *Model) CalculateBoundingSphere() {
	n := len(m.Vertices) / 3
	if n == 0 {
		return
	}
	world := make([]mgl32.Vec3, n)
	var center mgl32.Vec3
	for i := range world {
		world[i] = m.toWorld(mgl32.Vec3{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]})
		center = center.Add(world[i])
	}
	center = center.Mul(1 / float32(n))

	var radiusSq float32
	for _, p := range world {
		radiusSq = max(radiusSq, p.Sub(center).LenSqr())
	}
	m.BoundingSphereCenter = center
	m.BoundingSphereRadius = float32(math.Sqrt(float64(radiusSq)))
}

// updateModelMatrix rebuilds ModelMatrix as T * R * S.
func (m *Model) updateModelMatrix() {
	t := mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	s := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	m.ModelMatrix = t.Mul4(m.rotation().Mat4()).Mul4(s)
	if FrustumCullingEnabled {
		m.CalculateBoundingSphere()
	}
}

// SetDefaultTexture uploads a 1x1 white texel so untextured materials
// sample their diffuse color unchanged.
func SetDefaultTexture(r Render) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	id, err := r.CreateTextureFromImage(img)
	if err != nil {
		logger.Log.Error("Failed to create default texture", zap.Error(err))
		return
	}
	DefaultMaterial.TextureID = id
}
