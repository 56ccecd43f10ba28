package behaviour

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRegisterStartsComponents(t *testing.T) {
	cm := NewComponentManager()
	obj := NewGameObject("buoy")
	r := &recorder{}
	obj.AddComponent(r)

	cm.RegisterGameObject(obj)

	if len(cm.Objects()) != 1 {
		t.Fatalf("objects = %d", len(cm.Objects()))
	}
	if len(r.calls) != 2 || r.calls[1] != "start" {
		t.Errorf("calls = %v", r.calls)
	}
}

func TestUnregisterDestroys(t *testing.T) {
	cm := NewComponentManager()
	obj := NewGameObject("buoy")
	cm.RegisterGameObject(obj)

	cm.UnregisterGameObject(obj)

	if len(cm.Objects()) != 0 || obj.Active {
		t.Error("object should be removed and inactive")
	}
}

func TestUpdateAllPassesTime(t *testing.T) {
	cm := NewComponentManager()
	obj := NewGameObject("buoy")
	r := &recorder{}
	obj.AddComponent(r)
	cm.RegisterGameObject(obj)

	cm.UpdateAll(Time{Delta: 0.5, Elapsed: 2})

	if r.last != (Time{Delta: 0.5, Elapsed: 2}) {
		t.Errorf("time = %+v", r.last)
	}
}

func TestUpdateAllSkipsInactive(t *testing.T) {
	cm := NewComponentManager()
	obj := NewGameObject("buoy")
	obj.Active = false
	r := &recorder{}
	obj.AddComponent(r)
	cm.RegisterGameObject(obj)

	cm.UpdateAll(Time{Delta: 1})

	if r.last != (Time{}) {
		t.Error("inactive object was updated")
	}
}

func TestFind(t *testing.T) {
	cm := NewComponentManager()
	obj := NewGameObject("boia2")
	cm.RegisterGameObject(obj)

	if cm.Find("boia2") != obj {
		t.Error("registered object not found")
	}
	if cm.Find("boia9") != nil {
		t.Error("unknown name should give nil")
	}
}

func TestDestroyTakesEffectNextFrame(t *testing.T) {
	cm := NewComponentManager()
	obj := NewGameObject("doomed")
	cm.RegisterGameObject(obj)

	cm.DestroyGameObject(obj)
	if len(cm.Objects()) != 1 {
		t.Fatal("object should stay registered until the next update")
	}
	cm.UpdateAll(Time{})
	if len(cm.Objects()) != 0 || obj.Active {
		t.Error("object should be gone and inactive after the update")
	}
}

func TestClear(t *testing.T) {
	cm := NewComponentManager()
	a := NewGameObject("a")
	cm.RegisterGameObject(a)
	cm.RegisterGameObject(NewGameObject("b"))

	cm.Clear()

	if len(cm.Objects()) != 0 || a.Active {
		t.Error("Clear should destroy and drop every object")
	}
}

func TestUpdateAllSyncsModel(t *testing.T) {
	cm := NewComponentManager()
	model := &fakeModel{position: mgl32.Vec3{3, 0.3, 0}, rotation: mgl32.QuatIdent(), scale: mgl32.Vec3{10, 10, 10}}
	obj := NewModelObject("boia", model)
	if obj.Transform.Position != model.position {
		t.Fatalf("transform should start at the model position, got %v", obj.Transform.Position)
	}

	angle := float32(0.05)
	obj.AddComponent(NewAngleDriver(func() (float32, float32) { return angle, 0 }))
	cm.RegisterGameObject(obj)

	cm.UpdateAll(Time{})

	want := mgl32.QuatRotate(angle, mgl32.Vec3{1, 0, 0})
	if !model.rotation.ApproxEqual(want) {
		t.Errorf("model rotation = %v, want %v", model.rotation, want)
	}
	if model.position != (mgl32.Vec3{3, 0.3, 0}) || model.scale != (mgl32.Vec3{10, 10, 10}) {
		t.Errorf("position or scale changed: %v %v", model.position, model.scale)
	}

	// A model moved outside the component system is adopted next frame.
	model.position = mgl32.Vec3{1, 2, 3}
	cm.UpdateAll(Time{})
	if obj.Transform.Position != model.position {
		t.Errorf("transform position = %v, want %v", obj.Transform.Position, model.position)
	}
}
