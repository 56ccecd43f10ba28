// Package anim drives the buoy rocking: a primary two-state oscillator and
// followers that replay its direction history after a fixed delay.
package anim

import (
	"time"

	"github.com/chewxy/math32"
)

type State int

const (
	Falling State = iota
	Rising
)

func (s State) String() string {
	if s == Rising {
		return "rising"
	}
	return "falling"
}

// Swing is the per-frame change of a buoy's x and y angles (radians) for
// each direction of the primary. The deltas are signed: a buoy that
// counter-rotates has a negative Rise[0].
type Swing struct {
	Rise [2]float32
	Fall [2]float32
}

func (s Swing) delta(st State) [2]float32 {
	if st == Rising {
		return s.Rise
	}
	return s.Fall
}

// Tuned buoy constants. The primary rocks about x by PrimaryStep and drifts
// about y; boia2 trails it by 400 ms in step, boia5 by 500 ms against it.
const (
	DefaultThreshold float32 = 0.1
	PrimaryStep      float32 = math32.Pi * 0.0008

	FirstFollowerDelay  = 400 * time.Millisecond
	SecondFollowerDelay = 500 * time.Millisecond
)

var (
	PrimaryYaw = [2]float32{math32.Pi * 0.0004, -math32.Pi * 0.0008}

	FirstFollowerSwing = Swing{
		Rise: [2]float32{math32.Pi * 0.0008, math32.Pi * 0.0003},
		Fall: [2]float32{-math32.Pi * 0.0008, -math32.Pi * 0.0008},
	}
	SecondFollowerSwing = Swing{
		Rise: [2]float32{-math32.Pi * 0.0006, -math32.Pi * 0.0006},
		Fall: [2]float32{math32.Pi * 0.0006, 0},
	}
)

// Oscillator rocks an angle between -Threshold and +Threshold by Step per
// frame. It starts at 0 heading down. Yaw accumulates YawStep[0] per rising
// frame and YawStep[1] per falling frame and never flips the state.
type Oscillator struct {
	Angle     float32
	Yaw       float32
	State     State
	Step      float32
	YawStep   [2]float32
	Threshold float32
}

func NewOscillator(step, threshold float32) *Oscillator {
	return &Oscillator{Step: step, Threshold: threshold, State: Falling}
}

// Advance moves the angle one step in the current direction, then flips the
// direction once the angle has left the band.
func (o *Oscillator) Advance() State {
	if o.State == Rising {
		o.Angle += o.Step
		o.Yaw += o.YawStep[0]
	} else {
		o.Angle -= o.Step
		o.Yaw += o.YawStep[1]
	}
	switch {
	case o.Angle > o.Threshold:
		o.State = Falling
	case o.Angle < -o.Threshold:
		o.State = Rising
	}
	return o.State
}

func (o *Oscillator) Reset() {
	o.Angle = 0
	o.Yaw = 0
	o.State = Falling
}

// Amplitude is the peak angle the oscillator reaches, useful for sanity
// checks on tuned constants.
func (o *Oscillator) Amplitude() float32 {
	return math32.Abs(o.Threshold) + o.Step
}
