// Package config reads scene presets from TOML and watches them for edits.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"Poolside/internal/anim"

	"github.com/pelletier/go-toml/v2"
)

var ErrInvalid = errors.New("config: invalid preset")

type Preset struct {
	Variant     string         `toml:"variant"`
	Window      Window         `toml:"window"`
	Camera      Camera         `toml:"camera"`
	Params      map[string]any `toml:"params"`
	Oscillation Oscillation    `toml:"oscillation"`
	Assets      Assets         `toml:"assets"`
	Models      []Model        `toml:"models"`
}

type Window struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Title      string `toml:"title"`
	ClearColor string `toml:"clear_color"`
	VSync      bool   `toml:"vsync"`
}

type Camera struct {
	FOV      float32    `toml:"fov"`
	Near     float32    `toml:"near"`
	Far      float32    `toml:"far"`
	Position [3]float32 `toml:"position"`
	Target   [3]float32 `toml:"target"`
}

// Oscillation tunes the buoy rig. Step rocks the primary about x; Yaw is
// its y change per rising and per falling frame.
type Oscillation struct {
	Step      float32    `toml:"step"`
	Yaw       [2]float32 `toml:"yaw"`
	Threshold float32    `toml:"threshold"`
	Followers []Follower `toml:"followers"`
}

// Follower replays the primary's direction DelayMS later, adding Rise
// (x, y) per rising frame and Fall per falling frame. Signs are free, so a
// follower can counter-rotate.
type Follower struct {
	DelayMS int        `toml:"delay_ms"`
	Rise    [2]float32 `toml:"rise"`
	Fall    [2]float32 `toml:"fall"`
}

type Assets struct {
	ModelDir string `toml:"model_dir"`
	Dudv     string `toml:"dudv"`
	DudvSeed int64  `toml:"dudv_seed"`
}

// Model places one extra model in the scene. Role selects how the scene
// treats it: "pool", "buoy" (driven by the oscillation rig) or "prop".
type Model struct {
	Name     string     `toml:"name"`
	Path     string     `toml:"path"`
	Role     string     `toml:"role"`
	Position [3]float32 `toml:"position"`
	Scale    float32    `toml:"scale"`
}

// Default returns the preset used when no file is given.
func Default() Preset {
	p := Preset{
		Variant: "foam",
		Window: Window{
			Width:      1280,
			Height:     720,
			Title:      "Poolside",
			ClearColor: "#1a1a26",
			VSync:      true,
		},
		Camera: Camera{
			FOV:      70,
			Near:     1,
			Far:      1000,
			Position: [3]float32{0, 10, -34},
			Target:   [3]float32{0, 0, 0},
		},
		Oscillation: Oscillation{
			Step:      anim.PrimaryStep,
			Yaw:       anim.PrimaryYaw,
			Threshold: anim.DefaultThreshold,
		},
		Assets: Assets{
			ModelDir: "assets/models",
			DudvSeed: 1,
		},
	}
	for _, f := range anim.DefaultFollowers() {
		p.Oscillation.Followers = append(p.Oscillation.Followers, Follower{
			DelayMS: int(f.Delay / time.Millisecond),
			Rise:    f.Swing.Rise,
			Fall:    f.Swing.Fall,
		})
	}
	return p
}

// Parse decodes a preset on top of Default. Unknown keys are rejected. A
// preset without a follower table keeps the default followers.
func Parse(data []byte) (Preset, error) {
	p := Default()
	followers := p.Oscillation.Followers
	p.Oscillation.Followers = nil
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Preset{}, fmt.Errorf("%w: line %d column %d: %v", ErrInvalid, row, col, derr)
		}
		return Preset{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if p.Oscillation.Followers == nil {
		p.Oscillation.Followers = followers
	}
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func Load(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, err
	}
	p, err := Parse(data)
	if err != nil {
		return Preset{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Marshal encodes the preset back to TOML.
func Marshal(p Preset) ([]byte, error) {
	return toml.Marshal(p)
}

func (p Preset) Validate() error {
	var errs []error
	if p.Variant == "" {
		errs = append(errs, errors.New("variant is empty"))
	}
	if p.Window.Width <= 0 || p.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", p.Window.Width, p.Window.Height))
	}
	if p.Camera.Near <= 0 || p.Camera.Far <= p.Camera.Near {
		errs = append(errs, fmt.Errorf("camera near/far %v/%v out of order", p.Camera.Near, p.Camera.Far))
	}
	if p.Oscillation.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("oscillation threshold %v must be positive", p.Oscillation.Threshold))
	}
	for i, f := range p.Oscillation.Followers {
		if f.DelayMS < 0 {
			errs = append(errs, fmt.Errorf("follower %d has negative delay", i))
		}
	}
	for i, m := range p.Models {
		if m.Path == "" {
			errs = append(errs, fmt.Errorf("model %d has no path", i))
		}
		switch m.Role {
		case "", "pool", "buoy", "prop":
		default:
			errs = append(errs, fmt.Errorf("model %d has unknown role %q", i, m.Role))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// FollowerSpecs converts the follower table for anim.NewRig.
func (o Oscillation) FollowerSpecs() []anim.FollowerSpec {
	specs := make([]anim.FollowerSpec, 0, len(o.Followers))
	for _, f := range o.Followers {
		specs = append(specs, anim.FollowerSpec{
			Swing: anim.Swing{Rise: f.Rise, Fall: f.Fall},
			Delay: time.Duration(f.DelayMS) * time.Millisecond,
		})
	}
	return specs
}
