package engine

import "time"

// Clock supplies the frame timing passed to App.UpdateScene.
type Clock interface {
	// Tick advances one frame and returns the seconds since the previous
	// tick and since the first one.
	Tick() (dt, elapsed float64)
}

// WallClock measures real time. The first tick reports zero for both.
type WallClock struct {
	now     func() time.Time
	start   time.Time
	last    time.Time
	started bool
}

func NewWallClock() *WallClock {
	return &WallClock{now: time.Now}
}

func (c *WallClock) Tick() (float64, float64) {
	t := c.now()
	if !c.started {
		c.start, c.last, c.started = t, t, true
		return 0, 0
	}
	dt := t.Sub(c.last).Seconds()
	c.last = t
	return dt, t.Sub(c.start).Seconds()
}

// FixedClock advances by Step on every tick regardless of real time. Frame
// n (counting from 1) reports elapsed n*Step, so recordings are
// reproducible.
type FixedClock struct {
	Step   float64
	frames int64
}

func NewFixedClock(fps int) *FixedClock {
	return &FixedClock{Step: 1 / float64(fps)}
}

func (c *FixedClock) Tick() (float64, float64) {
	c.frames++
	return c.Step, float64(c.frames) * c.Step
}

func (c *FixedClock) Frames() int64 { return c.frames }
