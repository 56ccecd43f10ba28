package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a yaw/pitch perspective camera. Angles are in degrees.
type Camera struct {
	Position   mgl32.Vec3
	Front      mgl32.Vec3
	Up         mgl32.Vec3
	Right      mgl32.Vec3
	WorldUp    mgl32.Vec3
	Projection mgl32.Mat4
	Yaw        float32
	Pitch      float32

	Fov         float32
	Near        float32
	Far         float32
	AspectRatio float32

	Speed       float32 // world units per second
	Sensitivity float32 // degrees per cursor pixel
	InvertMouse bool
}

type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

type Frustum struct {
	Planes [6]Plane
}

// Movement is the set of navigation keys held during a frame.
type Movement struct {
	Forward, Back, Left, Right bool
	Fast                       bool
}

func (m Movement) any() bool { return m.Forward || m.Back || m.Left || m.Right }

const fastMultiplier = 2.5

func NewDefaultCamera(width, height int32) *Camera {
	c := &Camera{
		Position:    mgl32.Vec3{0, 0, 100},
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Yaw:         -90,
		Speed:       20,
		Sensitivity: 0.1,
		Fov:         45,
		Near:        0.1,
		Far:         10000,
		AspectRatio: aspect(width, height),
	}
	c.updateCameraVectors()
	c.UpdateProjection()
	return c
}

// NewPerspectiveCamera places a camera at position looking at target.
func NewPerspectiveCamera(width, height int32, fov, near, far float32, position, target mgl32.Vec3) *Camera {
	c := NewDefaultCamera(width, height)
	c.Position = position
	c.Fov = fov
	c.Near = near
	c.Far = far
	c.LookAt(target)
	c.UpdateProjection()
	return c
}

func aspect(width, height int32) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
	MarkFrustumDirty()
}

// SetClip changes the near and far planes. The water shaders read the same
// values to linearize depth, so callers refresh those uniforms too.
func (c *Camera) SetClip(near, far float32) {
	c.Near, c.Far = near, far
	c.UpdateProjection()
}

func (c *Camera) SetFov(fov float32) {
	c.Fov = fov
	c.UpdateProjection()
}

// SetViewport keeps the aspect ratio in step with the framebuffer. Zero
// sizes (a minimised window) are ignored.
func (c *Camera) SetViewport(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = aspect(width, height)
	c.UpdateProjection()
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

// Move flies the camera along its front and right vectors.
func (c *Camera) Move(m Movement, dt float32) {
	if !m.any() {
		return
	}
	velocity := c.Speed * dt
	if m.Fast {
		velocity *= fastMultiplier
	}
	var dir mgl32.Vec3
	if m.Forward {
		dir = dir.Add(c.Front)
	}
	if m.Back {
		dir = dir.Sub(c.Front)
	}
	if m.Right {
		dir = dir.Add(c.Right)
	}
	if m.Left {
		dir = dir.Sub(c.Right)
	}
	if dir.Len() == 0 {
		return
	}
	c.Position = c.Position.Add(dir.Normalize().Mul(velocity))
	MarkFrustumDirty()
}

// Look turns the camera by a cursor delta in pixels. Pitch stays within
// ±89 degrees.
func (c *Camera) Look(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	if c.InvertMouse {
		c.Pitch -= dy * c.Sensitivity
	} else {
		c.Pitch += dy * c.Sensitivity
	}
	c.Pitch = mgl32.Clamp(c.Pitch, -89, 89)
	c.updateCameraVectors()
	MarkFrustumDirty()
}

func (c *Camera) LookAt(target mgl32.Vec3) {
	direction := target.Sub(c.Position)
	if direction.Len() == 0 {
		return
	}
	direction = direction.Normalize()
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(direction.Z()), float64(direction.X()))))
	c.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(direction.Y()))))
	c.updateCameraVectors()
	MarkFrustumDirty()
}

func (c *Camera) updateCameraVectors() {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))

	c.Front = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

// CalculateFrustum extracts the six clip planes (left, right, bottom, top,
// near, far) from the view-projection matrix, normalized.
func (c *Camera) CalculateFrustum() Frustum {
	vp := c.GetViewProjection()
	row := func(i int) mgl32.Vec4 { return vp.Row(i) }
	w := row(3)

	var f Frustum
	for i := 0; i < 3; i++ {
		r := row(i)
		f.Planes[2*i] = planeFrom(w.Add(r))
		f.Planes[2*i+1] = planeFrom(w.Sub(r))
	}
	return f
}

func planeFrom(v mgl32.Vec4) Plane {
	n := v.Vec3()
	length := n.Len()
	if length == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / length), Distance: v.W() / length}
}

func (p *Plane) DistanceToPoint(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

func (f *Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}

// MarkFrustumDirty forces the next culled render to rebuild the frustum.
func MarkFrustumDirty() {
	frustumDirty = true
}
