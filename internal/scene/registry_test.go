package scene

import (
	"testing"

	"Poolside/internal/config"
	"Poolside/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinVariantsRegistered(t *testing.T) {
	assert.Equal(t, []string{"caustics", "foam", "ripple", "shore"}, Names())
}

func TestNewBuildsPool(t *testing.T) {
	app, err := New("shore", config.Default())
	require.NoError(t, err)

	pool, ok := app.(*Pool)
	require.True(t, ok)
	assert.Equal(t, "shore", pool.Variant().Name)

	var _ engine.PresetApplier = pool
	var _ engine.PanelProvider = pool
}

func TestNewUnknownVariant(t *testing.T) {
	_, err := New("lava", config.Default())
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestNewReportsParamErrors(t *testing.T) {
	preset := config.Default()
	preset.Params = map[string]any{"nope": 1}

	app, err := New("foam", preset)
	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestRegisterTwicePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register("foam", func(config.Preset) (engine.App, error) { return nil, nil })
	})
}
