package anim

import "time"

type sample struct {
	at    float64
	state State
}

// Follower applies the primary's per-frame direction, Delay later, through
// its own Swing. Pending samples are consumed from the elapsed-time clock.
type Follower struct {
	Angle   float32
	Yaw     float32
	Swing   Swing
	Delay   time.Duration
	pending []sample
}

func NewFollower(swing Swing, delay time.Duration) *Follower {
	return &Follower{Swing: swing, Delay: delay}
}

func (f *Follower) record(elapsed float64, s State) {
	f.pending = append(f.pending, sample{at: elapsed, state: s})
}

// consume applies every sample whose due time has passed and returns how
// many were applied.
func (f *Follower) consume(elapsed float64) int {
	delay := f.Delay.Seconds()
	n := 0
	for n < len(f.pending) && f.pending[n].at+delay <= elapsed {
		d := f.Swing.delta(f.pending[n].state)
		f.Angle += d[0]
		f.Yaw += d[1]
		n++
	}
	if n == len(f.pending) {
		f.pending = f.pending[:0]
	} else if n > 0 {
		f.pending = append(f.pending[:0], f.pending[n:]...)
	}
	return n
}

// Pending is the number of recorded directions not yet applied.
func (f *Follower) Pending() int { return len(f.pending) }

func (f *Follower) Reset() {
	f.Angle = 0
	f.Yaw = 0
	f.pending = f.pending[:0]
}
