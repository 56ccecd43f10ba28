package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func meshModel(vertices ...float32) *Model {
	return &Model{Scale: mgl32.Vec3{1, 1, 1}, Vertices: vertices}
}

func TestModelMatrixIsTRS(t *testing.T) {
	m := meshModel(0, 0, 0, 1, 0, 0, 0, 1, 0)
	m.SetPosition(3, 0.3, 0)
	m.SetUniformScale(10)
	m.SetRotationQuat(mgl32.QuatRotate(0.1, mgl32.Vec3{1, 0, 0}))

	m.updateModelMatrix()

	got := m.ModelMatrix.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	want := mgl32.Vec3{13, 0.3, 0}
	if !got.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("x axis should only be scaled and translated, got %v want %v", got, want)
	}

	got = m.ModelMatrix.Mul4x1(mgl32.Vec4{0, 1, 0, 1}).Vec3()
	want = m.toWorld(mgl32.Vec3{0, 1, 0})
	if !got.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("matrix and toWorld disagree: %v vs %v", got, want)
	}
}

func TestZeroRotationIsIdentity(t *testing.T) {
	m := meshModel()
	m.Position = mgl32.Vec3{1, 2, 3}

	m.updateModelMatrix()

	if m.ModelMatrix != mgl32.Translate3D(1, 2, 3) {
		t.Errorf("unset rotation should act as identity, got %v", m.ModelMatrix)
	}
}

func TestSettersMarkDirty(t *testing.T) {
	m := &Model{}
	m.SetPosition(1, 2, 3)
	if !m.IsDirty {
		t.Error("SetPosition should mark the model dirty")
	}

	m.IsDirty = false
	m.SetRotationQuat(mgl32.QuatIdent())
	if !m.IsDirty {
		t.Error("SetRotationQuat should mark the model dirty")
	}

	m.IsDirty = false
	m.SetUniformScale(2)
	if !m.IsDirty || m.Scale != (mgl32.Vec3{2, 2, 2}) {
		t.Errorf("SetUniformScale: dirty=%v scale=%v", m.IsDirty, m.Scale)
	}
}

func TestBoundingSphere(t *testing.T) {
	m := meshModel(-1, 0, 0, 1, 0, 0)
	m.CalculateBoundingSphere()

	if !m.BoundingSphereCenter.ApproxEqual(mgl32.Vec3{}) {
		t.Errorf("center should be origin, got %v", m.BoundingSphereCenter)
	}
	if m.BoundingSphereRadius < 0.999 || m.BoundingSphereRadius > 1.001 {
		t.Errorf("radius should be 1, got %f", m.BoundingSphereRadius)
	}
}

func TestBoundingSphereFollowsTransform(t *testing.T) {
	m := meshModel(-1, 0, 0, 1, 0, 0)
	m.SetPosition(0, 5, 0)
	m.SetUniformScale(3)

	m.CalculateBoundingSphere()

	if !m.BoundingSphereCenter.ApproxEqual(mgl32.Vec3{0, 5, 0}) {
		t.Errorf("center = %v", m.BoundingSphereCenter)
	}
	if m.BoundingSphereRadius < 2.999 || m.BoundingSphereRadius > 3.001 {
		t.Errorf("radius = %f, want 3", m.BoundingSphereRadius)
	}
}
