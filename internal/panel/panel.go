// Package panel binds scene parameters to interactive controls. Controls
// write through the parameter setter and then notify their OnChange
// handlers synchronously, in registration order.
package panel

import (
	"fmt"

	"Poolside/internal/logger"
	"Poolside/internal/params"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Control is one widget bound to a parameter.
type Control struct {
	Name     string
	Label    string
	Kind     params.Kind
	Min, Max float32

	set      *params.Set
	handlers []func(value any)
}

// OnChange registers fn to run after every successful edit. It returns the
// control so calls can be chained.
func (c *Control) OnChange(fn func(value any)) *Control {
	c.handlers = append(c.handlers, fn)
	return c
}

// Edit writes value through the parameter set and, on success, calls the
// OnChange handlers with the stored value (after clamping and conversion).
func (c *Control) Edit(value any) error {
	if err := c.set.SetAny(c.Name, value); err != nil {
		return err
	}
	stored := c.Value()
	for _, fn := range c.handlers {
		fn(stored)
	}
	return nil
}

// Value reads the current parameter value as float32, mgl32.Vec3 or bool.
func (c *Control) Value() any {
	switch c.Kind {
	case params.Color:
		return c.set.Color(c.Name)
	case params.Bool:
		return c.set.Bool(c.Name)
	default:
		return c.set.Float(c.Name)
	}
}

// Panel is an ordered list of controls.
type Panel struct {
	Title    string
	controls []*Control
}

func New(title string) *Panel {
	return &Panel{Title: title}
}

// Float binds a slider to a float parameter. When min == max the range of
// the parameter definition is used.
func (p *Panel) Float(set *params.Set, name string, min, max float32) *Control {
	if min == max {
		if def, ok := set.Get(name); ok && def.Ranged() {
			min, max = def.Min, def.Max
		} else {
			min, max = 0, 1
		}
	}
	return p.add(set, name, params.Float, min, max)
}

func (p *Panel) Color(set *params.Set, name string) *Control {
	return p.add(set, name, params.Color, 0, 1)
}

func (p *Panel) Bool(set *params.Set, name string) *Control {
	return p.add(set, name, params.Bool, 0, 1)
}

func (p *Panel) add(set *params.Set, name string, kind params.Kind, min, max float32) *Control {
	if def, ok := set.Get(name); !ok {
		logger.Log.Warn("Panel control bound to unknown parameter", zap.String("name", name))
	} else if def.Kind != kind {
		logger.Log.Warn("Panel control kind mismatch",
			zap.String("name", name),
			zap.Stringer("param", def.Kind),
			zap.Stringer("control", kind))
	}
	c := &Control{Name: name, Label: name, Kind: kind, Min: min, Max: max, set: set}
	p.controls = append(p.controls, c)
	return c
}

func (p *Panel) Controls() []*Control {
	return p.controls
}

// Find returns the control bound to name.
func (p *Panel) Find(name string) (*Control, bool) {
	for _, c := range p.controls {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Describe renders the control state as text lines, used by the overlay
// tooltip and by debug logging.
func (p *Panel) Describe() []string {
	lines := make([]string, 0, len(p.controls))
	for _, c := range p.controls {
		switch v := c.Value().(type) {
		case mgl32.Vec3:
			lines = append(lines, fmt.Sprintf("%s = %s", c.Label, params.HexColor(v)))
		case float32:
			lines = append(lines, fmt.Sprintf("%s = %.3f", c.Label, v))
		default:
			lines = append(lines, fmt.Sprintf("%s = %v", c.Label, v))
		}
	}
	return lines
}
