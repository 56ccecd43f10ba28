package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewDefaultCamera(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	if !cam.Front.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("default camera should look down -Z, front = %v", cam.Front)
	}
	if !cam.Right.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("right = %v, want +X", cam.Right)
	}
	if !cam.Up.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Errorf("up = %v, want +Y", cam.Up)
	}
	if cam.Speed <= 0 || cam.Sensitivity <= 0 {
		t.Error("speed and sensitivity should be positive")
	}
}

func TestCameraViewMatrix(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{0, 0, 5}

	p := cam.GetViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if math.Abs(float64(p.Z()+5)) > 1e-5 {
		t.Errorf("origin should be 5 units in front of the camera, got z=%f", p.Z())
	}
}

func TestCameraProjectionIsPerspective(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	if cam.Projection.At(3, 3) != 0 {
		t.Error("perspective projection should have 0 at (3,3)")
	}
	if cam.GetViewProjection() == (mgl32.Mat4{}) {
		t.Error("view-projection should not be zero")
	}
}

func TestCameraAspectFollowsViewport(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	if math.Abs(float64(cam.AspectRatio)-800.0/600.0) > 1e-5 {
		t.Errorf("aspect ratio should be width/height, got %f", cam.AspectRatio)
	}

	cam.SetViewport(1920, 1080)
	if math.Abs(float64(cam.AspectRatio)-1920.0/1080.0) > 1e-5 {
		t.Errorf("SetViewport should update aspect, got %f", cam.AspectRatio)
	}

	cam.SetViewport(0, 100)
	if math.Abs(float64(cam.AspectRatio)-1920.0/1080.0) > 1e-5 {
		t.Error("zero-sized viewport must be ignored")
	}
}

func TestCameraSetClip(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	before := cam.Projection

	cam.SetClip(1, 1000)

	if cam.Near != 1 || cam.Far != 1000 {
		t.Errorf("near/far = %f/%f", cam.Near, cam.Far)
	}
	if cam.Projection == before {
		t.Error("projection should be rebuilt")
	}
}

func TestPerspectiveCameraLooksAtTarget(t *testing.T) {
	cam := NewPerspectiveCamera(800, 600, 70, 1, 1000, mgl32.Vec3{0, 10, -34}, mgl32.Vec3{})

	want := mgl32.Vec3{0, -10, 34}.Normalize()
	if !cam.Front.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("front = %v, want %v", cam.Front, want)
	}
	if cam.Near != 1 || cam.Far != 1000 {
		t.Errorf("near/far not applied: %f %f", cam.Near, cam.Far)
	}
}

func TestLookAtOwnPositionIsIgnored(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	front := cam.Front

	cam.LookAt(cam.Position)

	if cam.Front != front {
		t.Errorf("front changed to %v", cam.Front)
	}
}

func TestCameraMove(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{}
	cam.Speed = 10

	cam.Move(Movement{Forward: true}, 0.5)
	if !cam.Position.ApproxEqualThreshold(mgl32.Vec3{0, 0, -5}, 1e-5) {
		t.Errorf("forward: %v", cam.Position)
	}

	cam.Move(Movement{Right: true, Fast: true}, 0.5)
	if !cam.Position.ApproxEqualThreshold(mgl32.Vec3{12.5, 0, -5}, 1e-4) {
		t.Errorf("fast right: %v", cam.Position)
	}

	// Opposing keys cancel out.
	cam.Move(Movement{Forward: true, Back: true}, 1)
	if !cam.Position.ApproxEqualThreshold(mgl32.Vec3{12.5, 0, -5}, 1e-4) {
		t.Errorf("cancelled move changed position: %v", cam.Position)
	}
}

func TestCameraLookClampsPitch(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.InvertMouse = false

	cam.Look(0, 10000)
	if cam.Pitch != 89 {
		t.Errorf("pitch = %f, want 89", cam.Pitch)
	}

	cam.InvertMouse = true
	cam.Look(0, 10000)
	if cam.Pitch != -89 {
		t.Errorf("inverted pitch = %f, want -89", cam.Pitch)
	}

	if l := cam.Front.Len(); math.Abs(float64(l)-1) > 1e-4 {
		t.Errorf("front should stay normalized, len=%f", l)
	}
}

func TestFrustumContainsWhatTheCameraSees(t *testing.T) {
	cam := NewPerspectiveCamera(800, 600, 70, 1, 100, mgl32.Vec3{0, 0, 10}, mgl32.Vec3{})
	f := cam.CalculateFrustum()

	if !f.IntersectsSphere(mgl32.Vec3{0, 0, 0}, 1) {
		t.Error("origin should be visible")
	}
	if f.IntersectsSphere(mgl32.Vec3{0, 0, 20}, 1) {
		t.Error("point behind the camera should be culled")
	}
	if f.IntersectsSphere(mgl32.Vec3{0, 0, -200}, 1) {
		t.Error("point past the far plane should be culled")
	}
	if !f.IntersectsSphere(mgl32.Vec3{0, 0, 20}, 15) {
		t.Error("large sphere reaching into view should intersect")
	}
}
