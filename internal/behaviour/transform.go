package behaviour

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func (t *Transform) SetPosition(p mgl32.Vec3) { t.Position = p }
func (t *Transform) SetRotation(q mgl32.Quat) { t.Rotation = q }
func (t *Transform) SetScale(s mgl32.Vec3)    { t.Scale = s }

func (t *Transform) Translate(delta mgl32.Vec3) {
	t.Position = t.Position.Add(delta)
}

// Rotate applies angle radians about axis after the current rotation.
func (t *Transform) Rotate(axis mgl32.Vec3, angle float32) {
	t.Rotation = t.Rotation.Mul(mgl32.QuatRotate(angle, axis))
}

type placement struct {
	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3
}

func placementOf(m Model) placement {
	return placement{m.GetPosition(), m.GetRotation(), m.GetScale()}
}

func (t *Transform) placement() placement {
	return placement{t.Position, t.Rotation, t.Scale}
}

func (t *Transform) set(p placement) {
	t.Position, t.Rotation, t.Scale = p.position, p.rotation, p.scale
}

func (p placement) approx(o placement) bool {
	return p.position.ApproxEqual(o.position) &&
		p.rotation.ApproxEqual(o.rotation) &&
		p.scale.ApproxEqual(o.scale)
}

// AngleDriver sets its owner's rotation every frame to Base followed by
// the Angles() x rotation, then the y rotation (radians, Euler XYZ order).
type AngleDriver struct {
	BaseComponent
	Base   mgl32.Quat
	Angles func() (x, y float32)
}

func NewAngleDriver(angles func() (x, y float32)) *AngleDriver {
	return &AngleDriver{Base: mgl32.QuatIdent(), Angles: angles}
}

// Awake takes the owner's rotation at attach time as the base pose.
func (d *AngleDriver) Awake() {
	if obj := d.Owner(); obj != nil {
		d.Base = obj.Transform.Rotation
	}
}

func (d *AngleDriver) Update(Time) {
	obj := d.Owner()
	if obj == nil || d.Angles == nil {
		return
	}
	x, y := d.Angles()
	pose := mgl32.QuatRotate(x, mgl32.Vec3{1, 0, 0}).Mul(mgl32.QuatRotate(y, mgl32.Vec3{0, 1, 0}))
	obj.Transform.SetRotation(d.Base.Mul(pose))
}
