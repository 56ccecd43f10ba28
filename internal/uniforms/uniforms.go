// Package uniforms describes the named, typed inputs a water shader expects
// and keeps one stable value slot per name.
package uniforms

import (
	"errors"
	"fmt"

	"Poolside/internal/params"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrUnknownSlot = errors.New("uniforms: unknown slot")
	ErrType        = errors.New("uniforms: type mismatch")
)

type Type int

const (
	Float Type = iota
	Vec2
	Color3
	Texture
)

func (t Type) String() string {
	switch t {
	case Float:
		return "float"
	case Vec2:
		return "vec2"
	case Color3:
		return "vec3"
	case Texture:
		return "sampler2D"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

type Slot struct {
	Name string
	Type Type
}

// Contract is the ordered list of slots a shader declares.
type Contract []Slot

func (c Contract) Names() []string {
	out := make([]string, len(c))
	for i, s := range c {
		out[i] = s.Name
	}
	return out
}

func (c Contract) Has(name string) bool {
	for _, s := range c {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Extend returns a new contract with extra slots appended.
func (c Contract) Extend(extra ...Slot) Contract {
	out := make(Contract, 0, len(c)+len(extra))
	out = append(out, c...)
	return append(out, extra...)
}

// Value is the storage behind one slot. Writers update it in place.
type Value struct {
	Type    Type
	float   float32
	vec     mgl32.Vec3
	unit    int32
	texture uint32
}

func (v *Value) Float() float32    { return v.float }
func (v *Value) Vec2() mgl32.Vec2  { return mgl32.Vec2{v.vec[0], v.vec[1]} }
func (v *Value) Color() mgl32.Vec3 { return v.vec }

// Texture returns the texture unit and GL texture handle.
func (v *Value) Texture() (unit int32, handle uint32) { return v.unit, v.texture }

// Set owns one Value per contract slot for the life of a scene.
type Set struct {
	contract Contract
	values   map[string]*Value
}

func New(c Contract) *Set {
	s := &Set{contract: c, values: make(map[string]*Value, len(c))}
	for _, slot := range c {
		s.values[slot.Name] = &Value{Type: slot.Type}
	}
	return s
}

func (s *Set) Contract() Contract { return s.contract }

func (s *Set) Value(name string) (*Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *Set) slot(name string, t Type) (*Value, error) {
	v, ok := s.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, name)
	}
	if v.Type != t {
		return nil, fmt.Errorf("%w: %q is %s, not %s", ErrType, name, v.Type, t)
	}
	return v, nil
}

func (s *Set) SetFloat(name string, f float32) error {
	v, err := s.slot(name, Float)
	if err != nil {
		return err
	}
	v.float = f
	return nil
}

func (s *Set) SetVec2(name string, x, y float32) error {
	v, err := s.slot(name, Vec2)
	if err != nil {
		return err
	}
	v.vec[0], v.vec[1] = x, y
	return nil
}

// SetColor copies the components into the existing slot.
func (s *Set) SetColor(name string, c mgl32.Vec3) error {
	v, err := s.slot(name, Color3)
	if err != nil {
		return err
	}
	v.vec[0], v.vec[1], v.vec[2] = c[0], c[1], c[2]
	return nil
}

func (s *Set) SetTexture(name string, unit int32, handle uint32) error {
	v, err := s.slot(name, Texture)
	if err != nil {
		return err
	}
	v.unit, v.texture = unit, handle
	return nil
}

// Each visits the slots in contract order.
func (s *Set) Each(fn func(Slot, *Value)) {
	for _, slot := range s.contract {
		fn(slot, s.values[slot.Name])
	}
}

// Binding routes a scene parameter into a uniform slot. When ParamY is set
// the binding packs two float parameters into a Vec2 slot.
type Binding struct {
	Param   string
	ParamY  string
	Uniform string
}

// Bind maps each name to the uniform of the same name.
func Bind(names ...string) []Binding {
	out := make([]Binding, len(names))
	for i, n := range names {
		out[i] = Binding{Param: n, Uniform: n}
	}
	return out
}

// BindVec2 feeds the float parameters x and y into a Vec2 uniform.
func BindVec2(uniform, x, y string) Binding {
	return Binding{Param: x, ParamY: y, Uniform: uniform}
}

// ParamNames lists the parameters a binding table reads.
func ParamNames(bindings []Binding) []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, b.Param)
		if b.ParamY != "" {
			out = append(out, b.ParamY)
		}
	}
	return out
}

// Push copies the current parameter values into their slots. Float params
// feed Float slots, Color params feed Color3 slots and Bool params feed
// Float slots as 0 or 1. Pushing an unchanged parameter set leaves every
// slot unchanged. Vec2 bindings read both of their float parameters.
func (s *Set) Push(p *params.Set, bindings []Binding) error {
	for _, b := range bindings {
		param, ok := p.Get(b.Param)
		if !ok {
			return fmt.Errorf("%w: %q", params.ErrMissing, b.Param)
		}
		var err error
		if b.ParamY != "" {
			err = s.SetVec2(b.Uniform, param.Float(), p.Float(b.ParamY))
			if err != nil {
				return fmt.Errorf("push %s,%s -> %s: %w", b.Param, b.ParamY, b.Uniform, err)
			}
			continue
		}
		switch param.Kind {
		case params.Float:
			err = s.SetFloat(b.Uniform, param.Float())
		case params.Color:
			err = s.SetColor(b.Uniform, param.Color())
		case params.Bool:
			var f float32
			if param.Bool() {
				f = 1
			}
			err = s.SetFloat(b.Uniform, f)
		}
		if err != nil {
			return fmt.Errorf("push %s -> %s: %w", b.Param, b.Uniform, err)
		}
	}
	return nil
}

// Validate checks that every binding targets a slot of a compatible type.
func (s *Set) Validate(p *params.Set, bindings []Binding) error {
	if err := p.Require(ParamNames(bindings)...); err != nil {
		return err
	}
	var errs []error
	for _, b := range bindings {
		v, ok := s.values[b.Uniform]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownSlot, b.Uniform))
			continue
		}
		param, _ := p.Get(b.Param)
		if b.ParamY != "" {
			y, _ := p.Get(b.ParamY)
			if v.Type != Vec2 || param.Kind != params.Float || y.Kind != params.Float {
				errs = append(errs, fmt.Errorf("%w: %s,%s (%s,%s) -> %s (%s)", ErrType, b.Param, b.ParamY, param.Kind, y.Kind, b.Uniform, v.Type))
			}
			continue
		}
		want := Float
		if param.Kind == params.Color {
			want = Color3
		}
		if v.Type != want {
			errs = append(errs, fmt.Errorf("%w: %s (%s) -> %s (%s)", ErrType, b.Param, param.Kind, b.Uniform, v.Type))
		}
	}
	return errors.Join(errs...)
}
