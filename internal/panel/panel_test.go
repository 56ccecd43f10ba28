package panel

import (
	"testing"

	"Poolside/internal/params"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func foamParams() *params.Set {
	s := params.NewSet()
	s.DefineFloat("threshold", 0.58, 0.1, 1)
	s.DefineColor("waterColor", mgl32.Vec3{0.22, 0.69, 0.81})
	s.DefineBool("showBuoys", true)
	s.DefineFloat("waveSpeed", 1, 0, 0)
	return s
}

func TestOnChangeRunsSynchronouslyAfterSet(t *testing.T) {
	set := foamParams()
	p := New("Water")

	var seen []any
	var storedAtCall float32
	p.Float(set, "threshold", 0, 0).OnChange(func(v any) {
		storedAtCall = set.Float("threshold")
		seen = append(seen, v)
	})

	c, ok := p.Find("threshold")
	require.True(t, ok)
	require.NoError(t, c.Edit(0.75))

	require.Len(t, seen, 1)
	assert.Equal(t, float32(0.75), seen[0])
	assert.Equal(t, float32(0.75), storedAtCall, "the set is updated before handlers run")
}

func TestOnChangeReceivesClampedValue(t *testing.T) {
	set := foamParams()
	p := New("Water")

	var got any
	c := p.Float(set, "threshold", 0, 0).OnChange(func(v any) { got = v })
	require.NoError(t, c.Edit(5.0))
	assert.Equal(t, float32(1), got)
}

func TestHandlersRunInOrderOnEveryEdit(t *testing.T) {
	set := foamParams()
	p := New("Water")

	var order []string
	c := p.Bool(set, "showBuoys").
		OnChange(func(any) { order = append(order, "a") }).
		OnChange(func(any) { order = append(order, "b") })

	require.NoError(t, c.Edit(false))
	require.NoError(t, c.Edit(false))
	assert.Equal(t, []string{"a", "b", "a", "b"}, order)
	assert.False(t, set.Bool("showBuoys"))
}

func TestFailedEditSkipsHandlers(t *testing.T) {
	set := foamParams()
	p := New("Water")

	called := false
	c := p.Color(set, "waterColor").OnChange(func(any) { called = true })

	err := c.Edit(true)
	assert.ErrorIs(t, err, params.ErrKind)
	assert.False(t, called)

	unknown := p.Float(set, "nope", 0, 1).OnChange(func(any) { called = true })
	assert.ErrorIs(t, unknown.Edit(1.0), params.ErrUnknown)
	assert.False(t, called)
}

func TestColorEditAcceptsHex(t *testing.T) {
	set := foamParams()
	p := New("Water")

	var got any
	c := p.Color(set, "waterColor").OnChange(func(v any) { got = v })
	require.NoError(t, c.Edit("#ffffff"))
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, got)
}

func TestFloatRange(t *testing.T) {
	set := foamParams()
	p := New("Water")

	ranged := p.Float(set, "threshold", 0, 0)
	assert.Equal(t, float32(0.1), ranged.Min)
	assert.Equal(t, float32(1), ranged.Max)

	explicit := p.Float(set, "waveSpeed", 0, 5)
	assert.Equal(t, float32(5), explicit.Max)

	fallback := p.Float(set, "waveSpeed", 0, 0)
	assert.Equal(t, float32(0), fallback.Min)
	assert.Equal(t, float32(1), fallback.Max)
}

func TestControlsKeepOrderAndDescribe(t *testing.T) {
	set := foamParams()
	p := New("Water")
	p.Float(set, "threshold", 0, 0)
	p.Color(set, "waterColor")
	p.Bool(set, "showBuoys")

	names := []string{}
	for _, c := range p.Controls() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"threshold", "waterColor", "showBuoys"}, names)

	lines := p.Describe()
	require.Len(t, lines, 3)
	assert.Equal(t, "threshold = 0.580", lines[0])
	assert.Equal(t, "showBuoys = true", lines[2])
}
