package orion

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidFrameRate = errors.New("frame rate must be positive with an interval of at least one nanosecond")

// FrameClock limits how often frames are produced. It only ever sleeps, a
// frame that took longer than the interval is not compensated for.
type FrameClock struct {
	interval time.Duration

	last    time.Time
	hasLast bool

	now   func() time.Time
	sleep func(time.Duration)
}

// NewFrameClock creates a clock that paces frames to at most rate frames per second.
func NewFrameClock(rate float64) (*FrameClock, error) {
	interval, err := frameInterval(rate)
	if err != nil {
		return nil, err
	}

	return &FrameClock{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}, nil
}

func frameInterval(rate float64) (time.Duration, error) {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, ErrInvalidFrameRate
	}

	// rates above one frame per nanosecond round down to zero
	interval := time.Duration(float64(time.Second) / rate)
	if interval <= 0 {
		return 0, ErrInvalidFrameRate
	}

	return interval, nil
}

// Interval is the minimum time between two frames.
func (c *FrameClock) Interval() time.Duration {
	return c.interval
}

// WaitNextFrame blocks until at least one interval has passed since the
// previous call returned. It returns the time that elapsed between the
// previous call and this one, before sleeping. The first call returns
// immediately with zero.
func (c *FrameClock) WaitNextFrame() time.Duration {
	var elapsed time.Duration

	if c.hasLast {
		elapsed = c.now().Sub(c.last)

		if remaining := c.interval - elapsed; remaining > 0 {
			c.sleep(remaining)
		}
	}

	c.last = c.now()
	c.hasLast = true

	return elapsed
}
