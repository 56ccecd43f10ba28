package behaviour

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Time is the frame clock handed to every component, in seconds.
type Time struct {
	Delta   float64
	Elapsed float64
}

// Component is attached to a GameObject and driven once per frame. Embed
// BaseComponent to implement it.
type Component interface {
	Awake()        // on AddComponent
	Start()        // when the owner is registered with a manager
	Update(t Time) // every frame while enabled
	OnDestroy()

	Enabled() bool
	SetEnabled(bool)
	Owner() *GameObject
	attach(*GameObject)
}

type BaseComponent struct {
	enabled bool
	owner   *GameObject
}

func (c *BaseComponent) Awake()      {}
func (c *BaseComponent) Start()      {}
func (c *BaseComponent) Update(Time) {}
func (c *BaseComponent) OnDestroy()  {}

func (c *BaseComponent) Enabled() bool          { return c.enabled }
func (c *BaseComponent) SetEnabled(e bool)      { c.enabled = e }
func (c *BaseComponent) Owner() *GameObject     { return c.owner }
func (c *BaseComponent) attach(obj *GameObject) { c.owner = obj }

// Model is the placement of a renderable that a GameObject mirrors.
// *renderer.Model satisfies it.
type Model interface {
	GetPosition() mgl32.Vec3
	GetRotation() mgl32.Quat
	GetScale() mgl32.Vec3
	SetPositionVec(mgl32.Vec3)
	SetRotationQuat(mgl32.Quat)
	SetScaleVec(mgl32.Vec3)
}

type GameObject struct {
	Name      string
	Active    bool
	Transform *Transform

	components []Component
	model      Model
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		Name:      name,
		Active:    true,
		Transform: &Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
	}
}

// NewModelObject wraps model, starting the transform at its placement.
func NewModelObject(name string, model Model) *GameObject {
	obj := NewGameObject(name)
	obj.SetModel(model)
	return obj
}

// AddComponent enables c, attaches it and calls its Awake.
func (obj *GameObject) AddComponent(c Component) {
	c.attach(obj)
	c.SetEnabled(true)
	obj.components = append(obj.components, c)
	c.Awake()
}

func (obj *GameObject) RemoveComponent(c Component) {
	for i, have := range obj.components {
		if have == c {
			c.OnDestroy()
			obj.components = append(obj.components[:i], obj.components[i+1:]...)
			return
		}
	}
}

func (obj *GameObject) Components() []Component { return obj.components }

// GetComponent returns the first component of type T on obj.
func GetComponent[T Component](obj *GameObject) (T, bool) {
	for _, c := range obj.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

func (obj *GameObject) SetModel(model Model) {
	obj.model = model
	if model != nil {
		obj.Transform.set(placementOf(model))
	}
}

func (obj *GameObject) Model() Model { return obj.model }

// update runs one frame. Changes made to the model since the last frame are
// adopted first; the transform the components leave behind is written back.
func (obj *GameObject) update(t Time) {
	if !obj.Active {
		return
	}
	if obj.model != nil {
		if p := placementOf(obj.model); !p.approx(obj.Transform.placement()) {
			obj.Transform.set(p)
		}
	}
	obj.each(func(c Component) { c.Update(t) })
	if obj.model != nil && !obj.Transform.placement().approx(placementOf(obj.model)) {
		obj.model.SetPositionVec(obj.Transform.Position)
		obj.model.SetRotationQuat(obj.Transform.Rotation)
		obj.model.SetScaleVec(obj.Transform.Scale)
	}
}

func (obj *GameObject) start() {
	if obj.Active {
		obj.each(Component.Start)
	}
}

func (obj *GameObject) each(fn func(Component)) {
	for _, c := range obj.components {
		if c.Enabled() {
			fn(c)
		}
	}
}

// Destroy calls OnDestroy on every component and deactivates obj.
func (obj *GameObject) Destroy() {
	for _, c := range obj.components {
		c.OnDestroy()
	}
	obj.Active = false
}
