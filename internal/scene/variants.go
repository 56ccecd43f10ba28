package scene

import (
	_ "embed"

	"Poolside/internal/params"
	"Poolside/internal/uniforms"

	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/water.vert
var waterVertexSource string

//go:embed shaders/wave.vert
var waveVertexSource string

//go:embed shaders/foam.frag
var foamFragmentSource string

//go:embed shaders/shore.frag
var shoreFragmentSource string

//go:embed shaders/caustics.frag
var causticsFragmentSource string

//go:embed shaders/ripple.frag
var rippleFragmentSource string

// Texture units used by the water shaders. Unit 0 belongs to the material
// sampler of the default shader.
const (
	DepthUnit int32 = 1
	DudvUnit  int32 = 2
)

// Variant describes one water effect: its shader, the uniforms it declares,
// the parameters the panel exposes and which of those feed a uniform.
type Variant struct {
	Name string
	// DepthPrepass renders scene depth with the water hidden before the
	// beauty pass.
	DepthPrepass bool
	// Buoys attaches the oscillation rig to the buoy models.
	Buoys bool

	Contract uniforms.Contract
	Bindings []uniforms.Binding

	VertexSource   string
	FragmentSource string

	define func(*params.Set)
}

// Params returns a fresh parameter set holding the variant's defaults and
// the scene light controls.
func (v Variant) Params() *params.Set {
	s := params.NewSet()
	if v.define != nil {
		v.define(s)
	}
	defineLight(s)
	return s
}

// defineLight adds the controls read by Pool.applyLight. hemisColor tints
// the ambient term.
func defineLight(s *params.Set) {
	s.DefineBool("lightOn", true)
	s.DefineColor("lightColor", hex("#ffffff"))
	s.DefineFloat("lightIntensity", 1, 0, 4)
	s.DefineColor("hemisColor", hex("#ff0096"))
}

var foamContract = uniforms.Contract{
	{Name: "time", Type: uniforms.Float},
	{Name: "threshold", Type: uniforms.Float},
	{Name: "foamColor", Type: uniforms.Color3},
	{Name: "waterColor", Type: uniforms.Color3},
	{Name: "tDepth", Type: uniforms.Texture},
	{Name: "tDudv", Type: uniforms.Texture},
	{Name: "cameraNear", Type: uniforms.Float},
	{Name: "cameraFar", Type: uniforms.Float},
	{Name: "resolution", Type: uniforms.Vec2},
}

func hex(s string) mgl32.Vec3 {
	c, err := params.ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Foam draws a foam line wherever the water meets scene geometry.
var Foam = Variant{
	Name:           "foam",
	DepthPrepass:   true,
	Buoys:          true,
	Contract:       foamContract,
	Bindings:       uniforms.Bind("threshold", "foamColor", "waterColor"),
	VertexSource:   waterVertexSource,
	FragmentSource: foamFragmentSource,
	define: func(s *params.Set) {
		s.DefineColor("foamColor", hex("#ffffff"))
		s.DefineColor("waterColor", hex("#39afcf"))
		s.DefineFloat("threshold", 0.58, 0.1, 1)
		s.DefineBool("animate", true)
	},
}

// Shore is stylised water over the depth pre-pass: a shallow-to-deep
// gradient, a foam edge where the water meets geometry and a scrolling
// band of foam near the walls.
var Shore = Variant{
	Name:         "shore",
	DepthPrepass: true,
	Contract: uniforms.Contract{
		{Name: "time", Type: uniforms.Float},
		{Name: "tDepth", Type: uniforms.Texture},
		{Name: "tDudv", Type: uniforms.Texture},
		{Name: "cameraNear", Type: uniforms.Float},
		{Name: "cameraFar", Type: uniforms.Float},
		{Name: "resolution", Type: uniforms.Vec2},
		{Name: "foamColor", Type: uniforms.Color3},
		{Name: "color1", Type: uniforms.Color3},
		{Name: "color2", Type: uniforms.Color3},
		{Name: "depth", Type: uniforms.Float},
		{Name: "depthFallOf", Type: uniforms.Float},
		{Name: "foamWidth", Type: uniforms.Float},
		{Name: "waveDepth", Type: uniforms.Float},
		{Name: "waveFallOf", Type: uniforms.Float},
		{Name: "waveTiling", Type: uniforms.Float},
		{Name: "waveAmount", Type: uniforms.Float},
		{Name: "waveCutout", Type: uniforms.Float},
		{Name: "waveSpeed", Type: uniforms.Vec2},
	},
	Bindings: append(uniforms.Bind(
		"foamColor", "color1", "color2",
		"depth", "depthFallOf", "foamWidth",
		"waveDepth", "waveFallOf", "waveTiling", "waveAmount", "waveCutout",
	), uniforms.BindVec2("waveSpeed", "waveSpeedX", "waveSpeedY")),
	VertexSource:   waterVertexSource,
	FragmentSource: shoreFragmentSource,
	define: func(s *params.Set) {
		s.DefineFloat("depthFallOf", 10, 0, 10)
		s.DefineFloat("depth", 10, 0, 10)
		s.DefineFloat("foamWidth", 1, 0, 1)
		s.DefineColor("foamColor", hex("#ffffff"))
		s.DefineColor("color1", hex("#bebeff"))
		s.DefineColor("color2", hex("#02bbf2"))
		s.DefineFloat("waveDepth", 1, 0, 1)
		s.DefineFloat("waveFallOf", 0.06, 0, 1)
		s.DefineFloat("waveTiling", 1.4, 0, 6)
		s.DefineFloat("waveAmount", 1.2, 0, 6)
		s.DefineFloat("waveCutout", 0.5, 0, 6)
		s.DefineFloat("waveSpeedX", 0, -2, 4)
		s.DefineFloat("waveSpeedY", -0.19, -2, 4)
	},
}

// Caustics paints two counter-scrolling layers of light ridges over flat
// water and keeps only the ridges above the cutout.
var Caustics = Variant{
	Name:  "caustics",
	Buoys: true,
	Contract: uniforms.Contract{
		{Name: "time", Type: uniforms.Float},
		{Name: "waterColor", Type: uniforms.Color3},
		{Name: "causticColor", Type: uniforms.Color3},
		{Name: "causticCutout", Type: uniforms.Float},
		{Name: "causticTiling", Type: uniforms.Float},
		{Name: "causticSpeed", Type: uniforms.Float},
	},
	Bindings:       uniforms.Bind("waterColor", "causticColor", "causticCutout", "causticTiling", "causticSpeed"),
	VertexSource:   waterVertexSource,
	FragmentSource: causticsFragmentSource,
	define: func(s *params.Set) {
		s.DefineColor("waterColor", hex("#14c6a5"))
		s.DefineColor("causticColor", hex("#1313ed"))
		s.DefineFloat("causticCutout", 0.7, 0, 6)
		s.DefineFloat("causticTiling", 1.4, 0, 6)
		s.DefineFloat("causticSpeed", 0.05, -2, 4)
		s.DefineBool("animate", true)
	},
}

// Ripple runs concentric rings across a displaced surface.
var Ripple = Variant{
	Name: "ripple",
	Contract: uniforms.Contract{
		{Name: "time", Type: uniforms.Float},
		{Name: "waterColor", Type: uniforms.Color3},
		{Name: "waveSpeed", Type: uniforms.Float},
		{Name: "waveHeight", Type: uniforms.Float},
		{Name: "resolution", Type: uniforms.Vec2},
	},
	Bindings:       uniforms.Bind("waterColor", "waveSpeed", "waveHeight"),
	VertexSource:   waveVertexSource,
	FragmentSource: rippleFragmentSource,
	define: func(s *params.Set) {
		s.DefineColor("waterColor", hex("#7dffd8"))
		s.DefineFloat("waveSpeed", 1.5, 0, 5)
		s.DefineFloat("waveHeight", 0.3, 0, 1)
	},
}

// Variants lists the built-in variants in registration order.
func Variants() []Variant {
	return []Variant{Foam, Shore, Caustics, Ripple}
}
