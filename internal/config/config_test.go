package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"Poolside/internal/anim"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shorePreset = `
variant = "shore"

[window]
width = 800
height = 600

[camera]
fov = 60.0
position = [1.0, 2.0, 3.0]

[params]
threshold = 0.58
waterColor = "#39afcf"
waveSpeed = 2

[oscillation]
step = 0.01

[[oscillation.followers]]
delay_ms = 250
rise = [-0.002, 0.0]
fall = [0.002, 0.001]

[assets]
dudv = "textures/dudv.png"

[[models]]
name = "duck"
path = "duck.obj"
role = "buoy"
position = [1.0, 0.5, -2.0]
scale = 4.0
`

func TestDefaultIsValid(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())
	assert.Equal(t, "foam", p.Variant)
	assert.Equal(t, float32(anim.PrimaryStep), p.Oscillation.Step)
	require.Len(t, p.Oscillation.Followers, 2)
	assert.Equal(t, 400, p.Oscillation.Followers[0].DelayMS)
	assert.Equal(t, 500, p.Oscillation.Followers[1].DelayMS)
}

func TestParseOverridesDefaults(t *testing.T) {
	p, err := Parse([]byte(shorePreset))
	require.NoError(t, err)

	assert.Equal(t, "shore", p.Variant)
	assert.Equal(t, 800, p.Window.Width)
	assert.Equal(t, "Poolside", p.Window.Title, "unset keys keep their defaults")
	assert.Equal(t, float32(60), p.Camera.FOV)
	assert.Equal(t, [3]float32{1, 2, 3}, p.Camera.Position)
	assert.Equal(t, float32(1000), p.Camera.Far)

	assert.Equal(t, 0.58, p.Params["threshold"])
	assert.Equal(t, "#39afcf", p.Params["waterColor"])
	assert.EqualValues(t, 2, p.Params["waveSpeed"])

	assert.Equal(t, float32(0.01), p.Oscillation.Step)
	assert.Equal(t, float32(anim.DefaultThreshold), p.Oscillation.Threshold)
	require.Len(t, p.Oscillation.Followers, 1)
	assert.Equal(t, 250, p.Oscillation.Followers[0].DelayMS)
	assert.Equal(t, [2]float32{-0.002, 0}, p.Oscillation.Followers[0].Rise)
	assert.Equal(t, [2]float32{0.002, 0.001}, p.Oscillation.Followers[0].Fall)
	assert.Equal(t, anim.PrimaryYaw, p.Oscillation.Yaw, "unset yaw keeps the default drift")

	assert.Equal(t, "textures/dudv.png", p.Assets.Dudv)
	require.Len(t, p.Models, 1)
	assert.Equal(t, "buoy", p.Models[0].Role)
	assert.Equal(t, float32(4), p.Models[0].Scale)
}

func TestParseKeepsDefaultFollowers(t *testing.T) {
	p, err := Parse([]byte(`variant = "ripple"`))
	require.NoError(t, err)
	assert.Equal(t, Default().Oscillation.Followers, p.Oscillation.Followers)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[window]\nwidht = 3\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseRejectsBadSyntax(t *testing.T) {
	_, err := Parse([]byte("variant = \n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	p := Default()
	p.Window.Width = 0
	p.Camera.Far = 0.5
	p.Models = []Model{{Name: "x", Role: "boat"}}

	err := p.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "near/far")
	assert.Contains(t, err.Error(), "no path")
	assert.Contains(t, err.Error(), "unknown role")
}

func TestFollowerSpecs(t *testing.T) {
	specs := Default().Oscillation.FollowerSpecs()
	assert.Equal(t, anim.DefaultFollowers(), specs)
}

func TestMarshalRoundTrip(t *testing.T) {
	p := Default()
	data, err := Marshal(p)
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, p.Window, back.Window)
	assert.Equal(t, p.Oscillation, back.Oscillation)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWatchDeliversReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preset.toml")
	require.NoError(t, os.WriteFile(path, []byte(`variant = "foam"`), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := watch(ctx, path, 10*time.Millisecond)
	require.NoError(t, err)

	// A broken save is skipped.
	require.NoError(t, os.WriteFile(path, []byte(`variant = `), 0o644))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`variant = "caustics"`), 0o644))

	select {
	case p := <-ch:
		assert.Equal(t, "caustics", p.Variant)
	case <-time.After(5 * time.Second):
		t.Fatal("no preset delivered")
	}

	cancel()
	for range ch {
	}
}

func TestDeliverReplacesPending(t *testing.T) {
	out := make(chan Preset, 1)
	deliver(out, Preset{Variant: "old"})
	deliver(out, Preset{Variant: "new"})
	assert.Equal(t, "new", (<-out).Variant)
}

func TestShippedPresetsLoad(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "assets", "presets", "*.toml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		p, err := Load(path)
		require.NoError(t, err, path)
		assert.NotEmpty(t, p.Params, path)
	}
}
