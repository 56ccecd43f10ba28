package anim

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOscillatorStartsFalling(t *testing.T) {
	o := NewOscillator(PrimaryStep, DefaultThreshold)
	assert.Equal(t, Falling, o.State)
	assert.Zero(t, o.Angle)

	o.Advance()
	assert.InDelta(t, -PrimaryStep, o.Angle, 1e-7)
}

func TestOscillatorFlipsOnThresholdCrossing(t *testing.T) {
	o := NewOscillator(PrimaryStep, DefaultThreshold)

	var flips []int
	prev := o.State
	for step := 1; step <= 200; step++ {
		s := o.Advance()
		if s != prev {
			flips = append(flips, step)
			prev = s
		}
		switch step {
		case 39:
			assert.Equal(t, Falling, s, "still inside the band at step 39")
			assert.Greater(t, o.Angle, -DefaultThreshold)
		case 40:
			assert.Equal(t, Rising, s)
			assert.Less(t, o.Angle, -DefaultThreshold)
		case 120:
			assert.Equal(t, Falling, s)
			assert.Greater(t, o.Angle, DefaultThreshold)
		}
	}
	assert.Equal(t, []int{40, 120, 200}, flips)
}

func TestOscillatorIsReproducible(t *testing.T) {
	run := func() []State {
		o := NewOscillator(PrimaryStep, DefaultThreshold)
		out := make([]State, 500)
		for i := range out {
			out[i] = o.Advance()
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestOscillatorStaysNearBand(t *testing.T) {
	o := NewOscillator(PrimaryStep, DefaultThreshold)
	for i := 0; i < 10000; i++ {
		o.Advance()
		require.LessOrEqual(t, o.Angle, o.Amplitude()+1e-5)
		require.GreaterOrEqual(t, o.Angle, -o.Amplitude()-1e-5)
	}
}

func TestFollowerConsumesWhenDue(t *testing.T) {
	r := NewRig(PrimaryStep, PrimaryYaw, DefaultThreshold, []FollowerSpec{
		{Swing: FirstFollowerSwing, Delay: 250 * time.Millisecond},
	})
	f := r.Followers[0]

	r.Update(0.125)
	r.Update(0.25)
	assert.Zero(t, f.Angle)
	assert.Equal(t, 2, f.Pending())

	// The first sample (0.125) is due at 0.375.
	r.Update(0.375)
	assert.InDelta(t, FirstFollowerSwing.Fall[0], f.Angle, 1e-7)
	assert.InDelta(t, FirstFollowerSwing.Fall[1], f.Yaw, 1e-7)
	assert.Equal(t, 2, f.Pending())
}

func TestFollowerReplaysPrimaryWithLag(t *testing.T) {
	const lag = 2
	mirror := Swing{
		Rise: [2]float32{PrimaryStep, PrimaryYaw[0]},
		Fall: [2]float32{-PrimaryStep, PrimaryYaw[1]},
	}
	r := NewRig(PrimaryStep, PrimaryYaw, DefaultThreshold, []FollowerSpec{
		{Swing: mirror, Delay: 250 * time.Millisecond},
	})

	primary := [][2]float32{{0, 0}}
	for i := 1; i <= 400; i++ {
		r.Update(float64(i) * 0.125)
		primary = append(primary, [2]float32{r.Primary.Angle, r.Primary.Yaw})
		if i >= lag {
			f := r.Followers[0]
			require.Equal(t, primary[i-lag], [2]float32{f.Angle, f.Yaw}, "frame %d", i)
		}
	}
}

func TestDefaultRigFollowersTrail(t *testing.T) {
	r := NewDefaultRig()
	require.Len(t, r.Followers, 2)
	assert.Equal(t, 400*time.Millisecond, r.Followers[0].Delay)
	assert.Equal(t, 500*time.Millisecond, r.Followers[1].Delay)

	// 60 Hz for 0.3 s: nothing due yet.
	for i := 1; i <= 18; i++ {
		r.Update(float64(i) / 60)
	}
	angles := r.Angles()
	assert.Less(t, angles[0], float32(0))
	assert.Zero(t, angles[1])
	assert.Zero(t, angles[2])

	// By 1 s both have started moving: boia2 with the primary, boia5
	// against it.
	for i := 19; i <= 60; i++ {
		r.Update(float64(i) / 60)
	}
	angles = r.Angles()
	assert.Less(t, angles[0], float32(0))
	assert.Less(t, angles[1], float32(0))
	assert.Greater(t, angles[2], float32(0))
}

func TestDefaultRigStepSizes(t *testing.T) {
	r := NewDefaultRig()
	// A 17 ms clock keeps every due time clear of a frame boundary.
	for i := 1; i <= 60; i++ {
		r.Update(float64(i) * 0.017)
	}

	// The primary falls for 40 frames, then rises for 20.
	x, y := r.Pose(0)
	assert.InDelta(t, -20*PrimaryStep, x, 1e-5)
	assert.InDelta(t, 40*PrimaryYaw[1]+20*PrimaryYaw[0], y, 1e-5)

	// boia2 has applied 36 falling frames, boia5 30.
	x, y = r.Pose(1)
	assert.InDelta(t, -36*math32.Pi*0.0008, x, 1e-5)
	assert.InDelta(t, -36*math32.Pi*0.0008, y, 1e-5)

	x, y = r.Pose(2)
	assert.InDelta(t, 30*math32.Pi*0.0006, x, 1e-5)
	assert.Zero(t, y, "boia5 does not turn about y while the primary falls")
}

func TestSecondFollowerCounterRotates(t *testing.T) {
	r := NewRig(PrimaryStep, PrimaryYaw, DefaultThreshold, []FollowerSpec{
		{Swing: SecondFollowerSwing, Delay: 0},
	})
	r.Primary.State = Rising

	r.Update(0)

	assert.InDelta(t, PrimaryStep, r.Primary.Angle, 1e-7)
	x, y := r.Pose(1)
	assert.InDelta(t, -math32.Pi*0.0006, x, 1e-7)
	assert.InDelta(t, -math32.Pi*0.0006, y, 1e-7)
}

func TestPoseClampsIndex(t *testing.T) {
	r := NewDefaultRig()
	r.Primary.Angle, r.Primary.Yaw = 1, 10
	r.Followers[0].Angle = 2
	r.Followers[1].Angle, r.Followers[1].Yaw = 3, 30

	x, y := r.Pose(0)
	assert.Equal(t, [2]float32{1, 10}, [2]float32{x, y})
	x, _ = r.Pose(1)
	assert.Equal(t, float32(2), x)
	x, y = r.Pose(5)
	assert.Equal(t, [2]float32{3, 30}, [2]float32{x, y})
}

func TestRigReset(t *testing.T) {
	r := NewDefaultRig()
	for i := 1; i <= 100; i++ {
		r.Update(float64(i) / 60)
	}
	r.Reset()
	assert.Equal(t, []float32{0, 0, 0}, r.Angles())
	assert.Zero(t, r.Primary.Yaw)
	assert.Zero(t, r.Followers[1].Yaw)
	assert.Equal(t, Falling, r.Primary.State)
	assert.Zero(t, r.Followers[0].Pending())
}
