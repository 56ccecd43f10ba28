// Package scene builds the pool demos: a pool model, buoys rocked by the
// oscillation rig and a water plane drawn by one of the water variants.
package scene

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"slices"

	"Poolside/internal/anim"
	"Poolside/internal/behaviour"
	"Poolside/internal/config"
	"Poolside/internal/engine"
	"Poolside/internal/loader"
	"Poolside/internal/logger"
	"Poolside/internal/panel"
	"Poolside/internal/params"
	"Poolside/internal/procedural"
	"Poolside/internal/renderer"
	"Poolside/internal/uniforms"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Water plane footprint in world units, matching the pool basin.
const (
	WaterWidth    float32 = 17.5
	WaterDepth    float32 = 45
	WaterSegments         = 128
)

// DepthBuffer is the offscreen target of the depth pre-pass.
type DepthBuffer interface {
	Resize(width, height int32) error
	Texture() uint32
	Destroy()
}

// Backend is the part of the renderer a Pool draws through.
type Backend interface {
	AddModel(model *renderer.Model)
	Render(camera renderer.Camera, light *renderer.Light)
	RenderDepth(target DepthBuffer, camera renderer.Camera, hidden ...*renderer.Model)
	LoadTexture(path string) (uint32, error)
	CreateTextureFromImage(img image.Image) (uint32, error)
	NewDepthBuffer(width, height int32) (DepthBuffer, error)
}

type glBackend struct {
	*renderer.OpenGLRenderer
}

func (b glBackend) RenderDepth(target DepthBuffer, camera renderer.Camera, hidden ...*renderer.Model) {
	b.OpenGLRenderer.RenderDepth(target.(*renderer.DepthTarget), camera, hidden...)
}

func (glBackend) NewDepthBuffer(width, height int32) (DepthBuffer, error) {
	t, err := renderer.NewDepthTarget(width, height)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Pool is one running variant. All methods run on the render thread.
type Pool struct {
	variant  Variant
	preset   config.Preset
	params   *params.Set
	uniforms *uniforms.Set
	panel    *panel.Panel
	rig      *anim.Rig
	objects  *behaviour.ComponentManager

	backend Backend
	camera  *renderer.Camera
	light   *renderer.Light
	water   *renderer.Model
	models  []*renderer.Model
	buoys   []*renderer.Model
	depth   DepthBuffer
}

// NewPool prepares a variant with the preset's parameter overrides. GL
// resources are created later by Init.
func NewPool(v Variant, preset config.Preset) (*Pool, error) {
	p := &Pool{
		variant:  v,
		preset:   preset,
		params:   v.Params(),
		uniforms: uniforms.New(v.Contract),
		objects:  behaviour.NewComponentManager(),
	}
	if err := p.params.Apply(preset.Params); err != nil {
		return nil, fmt.Errorf("%s params: %w", v.Name, err)
	}
	p.rig = newRig(preset.Oscillation)
	p.panel = p.buildPanel()
	return p, nil
}

func sameOscillation(a, b config.Oscillation) bool {
	return a.Step == b.Step && a.Yaw == b.Yaw && a.Threshold == b.Threshold &&
		slices.Equal(a.Followers, b.Followers)
}

func newRig(o config.Oscillation) *anim.Rig {
	return anim.NewRig(o.Step, o.Yaw, o.Threshold, o.FollowerSpecs())
}

func (p *Pool) Variant() Variant        { return p.variant }
func (p *Pool) Params() *params.Set     { return p.params }
func (p *Pool) Uniforms() *uniforms.Set { return p.uniforms }
func (p *Pool) Panel() *panel.Panel     { return p.panel }
func (p *Pool) Rig() *anim.Rig          { return p.rig }
func (p *Pool) Water() *renderer.Model  { return p.water }

// DepthEnabled reports whether frames include the depth pre-pass.
func (p *Pool) DepthEnabled() bool { return p.depth != nil }

func (p *Pool) buildPanel() *panel.Panel {
	pn := panel.New(p.preset.Window.Title + " / " + p.variant.Name)
	for _, name := range p.params.Names() {
		def, _ := p.params.Get(name)
		var c *panel.Control
		switch def.Kind {
		case params.Float:
			c = pn.Float(p.params, name, 0, 0)
		case params.Color:
			c = pn.Color(p.params, name)
		case params.Bool:
			c = pn.Bool(p.params, name)
		}
		name := name
		c.OnChange(func(value any) {
			logger.Log.Debug("Parameter changed", zap.String("name", name), zap.Any("value", value))
		})
	}
	return pn
}

func (p *Pool) Init(env *engine.Env) error {
	if c, err := params.ParseHexColor(p.preset.Window.ClearColor); err == nil {
		renderer.SetClearColor(c)
	}
	w, h := renderer.DeviceSize(env.Width, env.Height, env.Ratio)
	return p.setup(context.Background(), glBackend{env.Renderer}, env.Camera, w, h)
}

// setup builds the scene against backend. width and height are the initial
// framebuffer size in device pixels.
func (p *Pool) setup(ctx context.Context, backend Backend, camera *renderer.Camera, width, height int32) error {
	if err := p.uniforms.Validate(p.params, p.variant.Bindings); err != nil {
		return fmt.Errorf("%s: %w", p.variant.Name, err)
	}
	p.backend = backend
	p.camera = camera
	p.placeCamera()
	p.light = renderer.CreateDirectionalLight(mgl32.Vec3{-0.3, -1, -0.4}.Normalize(), mgl32.Vec3{1, 1, 1}, 1)

	if err := p.loadModels(ctx); err != nil {
		return err
	}
	if err := p.buildWater(); err != nil {
		return err
	}
	if p.uniforms.Contract().Has("tDudv") {
		if err := p.loadDudv(); err != nil {
			return err
		}
	}
	if p.uniforms.Contract().Has("cameraNear") {
		p.set(p.uniforms.SetFloat("cameraNear", p.camera.Near))
		p.set(p.uniforms.SetFloat("cameraFar", p.camera.Far))
	}
	if p.variant.DepthPrepass {
		if err := p.createDepth(width, height); err != nil {
			return err
		}
	}

	for _, m := range p.models {
		p.backend.AddModel(m)
	}
	p.backend.AddModel(p.water)

	if p.variant.Buoys {
		p.attachRig()
	}
	p.setResolution(width, height)
	p.set(p.uniforms.Push(p.params, p.variant.Bindings))

	logger.Log.Info("Scene ready",
		zap.String("variant", p.variant.Name),
		zap.Int("models", len(p.models)),
		zap.Int("buoys", len(p.buoys)),
		zap.Bool("depthPrepass", p.depth != nil))
	return nil
}

func (p *Pool) placeCamera() {
	c := p.preset.Camera
	p.camera.Position = mgl32.Vec3(c.Position)
	p.camera.Fov = c.FOV
	p.camera.Near = c.Near
	p.camera.Far = c.Far
	p.camera.LookAt(mgl32.Vec3(c.Target))
	p.camera.UpdateProjection()
}

// DefaultModels is the pool and three buoys used when a preset lists none.
func DefaultModels(dir string) []config.Model {
	return []config.Model{
		{Name: "pool", Path: filepath.Join(dir, "pool.obj"), Role: "pool", Position: [3]float32{0, -4.5, 3}, Scale: 20},
		{Name: "boia", Path: filepath.Join(dir, "buoy.obj"), Role: "buoy", Position: [3]float32{3, 0.3, 0}, Scale: 10},
		{Name: "boia2", Path: filepath.Join(dir, "buoy.obj"), Role: "buoy", Position: [3]float32{-5, 0.2, -13}, Scale: 10},
		{Name: "boia5", Path: filepath.Join(dir, "buoy.obj"), Role: "buoy", Position: [3]float32{-2, 0, 15}, Scale: 10},
	}
}

// sceneModels filters out buoys for variants that do not animate them.
func (p *Pool) sceneModels() []config.Model {
	placements := p.preset.Models
	if len(placements) == 0 {
		placements = DefaultModels(p.preset.Assets.ModelDir)
	}
	out := make([]config.Model, 0, len(placements))
	for _, m := range placements {
		if m.Role == "buoy" && !p.variant.Buoys {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (p *Pool) loadModels(ctx context.Context) error {
	placements := p.sceneModels()
	reqs := make([]loader.Request, len(placements))
	for i, m := range placements {
		reqs[i] = loader.Request{
			Name:     m.Name,
			Path:     m.Path,
			Position: mgl32.Vec3(m.Position),
			Scale:    m.Scale,
		}
	}
	models, err := loader.LoadAll(ctx, reqs)
	if err != nil {
		return fmt.Errorf("%s models: %w", p.variant.Name, err)
	}
	p.models = models
	for i, m := range placements {
		if m.Role == "buoy" {
			p.buoys = append(p.buoys, models[i])
		}
	}
	return nil
}

func (p *Pool) buildWater() error {
	water, err := loader.LoadWaterPlane(WaterWidth, WaterDepth, WaterSegments)
	if err != nil {
		return err
	}
	shader := renderer.NewShader(p.variant.Name, p.variant.VertexSource, p.variant.FragmentSource)
	water.SetCustomShader(shader, p.uniforms)
	p.water = water
	return nil
}

// loadDudv reads the distortion map from the preset path, or generates one
// from Perlin noise when no path is set.
func (p *Pool) loadDudv() error {
	var (
		handle uint32
		err    error
	)
	if path := p.preset.Assets.Dudv; path != "" {
		handle, err = p.backend.LoadTexture(path)
		if err != nil {
			return fmt.Errorf("dudv texture: %w", err)
		}
	} else {
		img, genErr := procedural.GenerateDudv(procedural.DudvOptions{Seed: p.preset.Assets.DudvSeed})
		if genErr != nil {
			return fmt.Errorf("dudv texture: %w", genErr)
		}
		handle, err = p.backend.CreateTextureFromImage(img)
		if err != nil {
			return fmt.Errorf("dudv texture: %w", err)
		}
		logger.Log.Debug("Generated dudv texture", zap.Int64("seed", p.preset.Assets.DudvSeed))
	}
	p.set(p.uniforms.SetTexture("tDudv", DudvUnit, handle))
	return nil
}

// createDepth allocates the pre-pass target. An unsupported depth
// attachment only disables the pre-pass.
func (p *Pool) createDepth(width, height int32) error {
	depth, err := p.backend.NewDepthBuffer(width, height)
	if errors.Is(err, renderer.ErrDepthUnsupported) {
		logger.Log.Warn("Depth pre-pass disabled", zap.String("variant", p.variant.Name), zap.Error(err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s depth target: %w", p.variant.Name, err)
	}
	p.depth = depth
	p.set(p.uniforms.SetTexture("tDepth", DepthUnit, depth.Texture()))
	return nil
}

// attachRig gives each buoy an AngleDriver reading one rig pose: the first
// buoy follows the primary, the others the followers in order.
func (p *Pool) attachRig() {
	for i, m := range p.buoys {
		obj := behaviour.NewModelObject(m.Name, m)
		obj.AddComponent(behaviour.NewAngleDriver(func() (float32, float32) {
			return p.rig.Pose(i)
		}))
		p.objects.RegisterGameObject(obj)
	}
}

// UpdateScene advances the rig, pushes parameters and the light controls,
// then submits the frame.
func (p *Pool) UpdateScene(dt, elapsed float64) {
	if p.variant.Buoys && p.params.Bool("animate") {
		p.rig.Update(elapsed)
	}
	p.objects.UpdateAll(behaviour.Time{Delta: dt, Elapsed: elapsed})

	p.set(p.uniforms.SetFloat("time", float32(elapsed)))
	p.set(p.uniforms.Push(p.params, p.variant.Bindings))
	p.applyLight()

	if p.depth != nil {
		p.backend.RenderDepth(p.depth, *p.camera, p.water)
	}
	p.backend.Render(*p.camera, p.light)
}

// applyLight copies the light controls onto the scene light. Switching the
// light off leaves only the ambient term.
func (p *Pool) applyLight() {
	p.light.Color = p.params.Color("lightColor")
	p.light.AmbientColor = p.params.Color("hemisColor")
	p.light.Intensity = 0
	if p.params.Bool("lightOn") {
		p.light.Intensity = p.params.Float("lightIntensity")
	}
}

// Resize matches the depth target and the resolution uniform to the
// framebuffer in device pixels.
func (p *Pool) Resize(width, height int, ratio float64) {
	w, h := renderer.DeviceSize(width, height, ratio)
	if p.depth != nil {
		if err := p.depth.Resize(w, h); err != nil {
			logger.Log.Warn("Depth pre-pass disabled", zap.Error(err))
			p.depth.Destroy()
			p.depth = nil
		} else {
			p.set(p.uniforms.SetTexture("tDepth", DepthUnit, p.depth.Texture()))
		}
	}
	p.setResolution(w, h)
}

func (p *Pool) setResolution(w, h int32) {
	if p.uniforms.Contract().Has("resolution") {
		p.set(p.uniforms.SetVec2("resolution", float32(w), float32(h)))
	}
}

// ApplyPreset takes parameter and oscillation changes from a reloaded
// preset. Models and the variant are fixed for the life of the scene. A
// preset with any bad parameter is rejected whole and changes nothing.
func (p *Pool) ApplyPreset(preset config.Preset) error {
	if preset.Variant != p.variant.Name {
		logger.Log.Warn("Preset variant ignored until restart",
			zap.String("running", p.variant.Name), zap.String("preset", preset.Variant))
	}
	if err := p.params.Check(preset.Params); err != nil {
		return err
	}
	p.set(p.params.Apply(preset.Params))
	if !sameOscillation(preset.Oscillation, p.preset.Oscillation) {
		p.rig = newRig(preset.Oscillation)
	}
	p.preset.Params = preset.Params
	p.preset.Oscillation = preset.Oscillation
	return nil
}

func (p *Pool) Dispose() {
	if p.depth != nil {
		p.depth.Destroy()
		p.depth = nil
	}
	p.objects.Clear()
}

// set logs slot writes that fail. Slots and bindings are checked in setup,
// so a failure here is a programming error.
func (p *Pool) set(err error) {
	if err != nil {
		logger.Log.Error("Uniform write failed", zap.String("variant", p.variant.Name), zap.Error(err))
	}
}
