package anim

import "time"

// FollowerSpec configures one delayed follower.
type FollowerSpec struct {
	Swing Swing
	Delay time.Duration
}

// Rig couples one primary oscillator with its followers.
type Rig struct {
	Primary   *Oscillator
	Followers []*Follower
}

// DefaultFollowers is the tuned buoy setup: boia2 trailing the primary by
// 400 ms and boia5 counter-rotating 500 ms behind it.
func DefaultFollowers() []FollowerSpec {
	return []FollowerSpec{
		{Swing: FirstFollowerSwing, Delay: FirstFollowerDelay},
		{Swing: SecondFollowerSwing, Delay: SecondFollowerDelay},
	}
}

// NewRig builds a primary with the given x step, y drift and band, plus
// one follower per spec.
func NewRig(step float32, yaw [2]float32, threshold float32, followers []FollowerSpec) *Rig {
	r := &Rig{Primary: NewOscillator(step, threshold)}
	r.Primary.YawStep = yaw
	for _, fs := range followers {
		r.Followers = append(r.Followers, NewFollower(fs.Swing, fs.Delay))
	}
	return r
}

func NewDefaultRig() *Rig {
	return NewRig(PrimaryStep, PrimaryYaw, DefaultThreshold, DefaultFollowers())
}

// Update runs one frame at the given elapsed time (seconds). The direction
// used for the primary step is recorded for the followers before any of
// them consume their due samples.
func (r *Rig) Update(elapsed float64) {
	dir := r.Primary.State
	r.Primary.Advance()
	for _, f := range r.Followers {
		f.record(elapsed, dir)
		f.consume(elapsed)
	}
}

// Angles returns the primary x angle followed by each follower's.
func (r *Rig) Angles() []float32 {
	out := make([]float32, 0, 1+len(r.Followers))
	out = append(out, r.Primary.Angle)
	for _, f := range r.Followers {
		out = append(out, f.Angle)
	}
	return out
}

// Pose returns the x and y angles of buoy i: 0 is the primary, i>0 the
// follower i-1. Indices past the last follower reuse it.
func (r *Rig) Pose(i int) (x, y float32) {
	if i <= 0 || len(r.Followers) == 0 {
		return r.Primary.Angle, r.Primary.Yaw
	}
	f := r.Followers[min(i, len(r.Followers))-1]
	return f.Angle, f.Yaw
}

func (r *Rig) Reset() {
	r.Primary.Reset()
	for _, f := range r.Followers {
		f.Reset()
	}
}
