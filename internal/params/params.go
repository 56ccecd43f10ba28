// Package params holds the live scene parameters shared by the control
// panel, preset reloads and the per-frame update.
package params

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrUnknown = errors.New("params: unknown parameter")
	ErrKind    = errors.New("params: kind mismatch")
	ErrMissing = errors.New("params: missing parameter")
)

type Kind int

const (
	Float Kind = iota
	Color
	Bool
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Color:
		return "color"
	case Bool:
		return "bool"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Param is one named value. Min and Max bound Float values when Max > Min.
type Param struct {
	Name  string
	Kind  Kind
	Min   float32
	Max   float32
	float float32
	color mgl32.Vec3
	flag  bool
}

func (p *Param) Float() float32    { return p.float }
func (p *Param) Color() mgl32.Vec3 { return p.color }
func (p *Param) Bool() bool        { return p.flag }

// Ranged reports whether the slider bounds are meaningful.
func (p *Param) Ranged() bool { return p.Max > p.Min }

func (p *Param) clamp(v float32) float32 {
	if !p.Ranged() {
		return v
	}
	return mgl32.Clamp(v, p.Min, p.Max)
}

// Set is not safe for concurrent use; it is owned by the render thread.
type Set struct {
	params  map[string]*Param
	order   []string
	version uint64
}

func NewSet() *Set {
	return &Set{params: make(map[string]*Param)}
}

func (s *Set) define(p *Param) {
	if _, exists := s.params[p.Name]; !exists {
		s.order = append(s.order, p.Name)
	}
	s.params[p.Name] = p
	s.version++
}

// DefineFloat adds or replaces a float parameter. Pass min == max for an
// unbounded value.
func (s *Set) DefineFloat(name string, value, min, max float32) {
	p := &Param{Name: name, Kind: Float, Min: min, Max: max}
	p.float = p.clamp(value)
	s.define(p)
}

func (s *Set) DefineColor(name string, value mgl32.Vec3) {
	s.define(&Param{Name: name, Kind: Color, color: value})
}

func (s *Set) DefineBool(name string, value bool) {
	s.define(&Param{Name: name, Kind: Bool, flag: value})
}

func (s *Set) lookup(name string, kind Kind) (*Param, error) {
	p, ok := s.params[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	if p.Kind != kind {
		return nil, fmt.Errorf("%w: %q is %s, not %s", ErrKind, name, p.Kind, kind)
	}
	return p, nil
}

// SetFloat stores v clamped into the parameter range.
func (s *Set) SetFloat(name string, v float32) error {
	p, err := s.lookup(name, Float)
	if err != nil {
		return err
	}
	p.float = p.clamp(v)
	s.version++
	return nil
}

func (s *Set) SetColor(name string, v mgl32.Vec3) error {
	p, err := s.lookup(name, Color)
	if err != nil {
		return err
	}
	for i := range v {
		v[i] = mgl32.Clamp(v[i], 0, 1)
	}
	p.color = v
	s.version++
	return nil
}

func (s *Set) SetBool(name string, v bool) error {
	p, err := s.lookup(name, Bool)
	if err != nil {
		return err
	}
	p.flag = v
	s.version++
	return nil
}

// SetAny converts a loosely typed value (as decoded from TOML or emitted by
// a panel widget) to the parameter's kind and stores it.
func (s *Set) SetAny(name string, v any) error {
	converted, err := s.convert(name, v)
	if err != nil {
		return err
	}
	switch c := converted.(type) {
	case float32:
		return s.SetFloat(name, c)
	case mgl32.Vec3:
		return s.SetColor(name, c)
	default:
		return s.SetBool(name, c.(bool))
	}
}

// convert returns v as the named parameter's Go type.
func (s *Set) convert(name string, v any) (any, error) {
	p, ok := s.params[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	switch p.Kind {
	case Float:
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: %q wants a number, got %T", ErrKind, name, v)
		}
		return f, nil
	case Color:
		c, err := toColor(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrKind, name, err)
		}
		return c, nil
	case Bool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %q wants a bool, got %T", ErrKind, name, v)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrKind, name)
}

// Check reports what Apply would reject without changing the set.
func (s *Set) Check(values map[string]any) error {
	var errs []error
	for _, name := range sortedKeys(values) {
		if _, err := s.convert(name, values[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Apply sets every entry of values, collecting the failures.
func (s *Set) Apply(values map[string]any) error {
	var errs []error
	for _, name := range sortedKeys(values) {
		if err := s.SetAny(name, values[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Set) Get(name string) (*Param, bool) {
	p, ok := s.params[name]
	return p, ok
}

// Float returns the named float, or 0 when absent. Callers validate with
// Require before reading per frame.
func (s *Set) Float(name string) float32 {
	if p, ok := s.params[name]; ok && p.Kind == Float {
		return p.float
	}
	return 0
}

func (s *Set) Color(name string) mgl32.Vec3 {
	if p, ok := s.params[name]; ok && p.Kind == Color {
		return p.color
	}
	return mgl32.Vec3{}
}

func (s *Set) Bool(name string) bool {
	if p, ok := s.params[name]; ok && p.Kind == Bool {
		return p.flag
	}
	return false
}

// Require fails with ErrMissing listing every absent name.
func (s *Set) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := s.params[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	return nil
}

// Names returns the parameter names in definition order.
func (s *Set) Names() []string {
	return append([]string(nil), s.order...)
}

func (s *Set) Len() int { return len(s.order) }

// Version increases on every successful write.
func (s *Set) Version() uint64 { return s.version }
