package orion

import (
	"log/slog"
	"time"

	"golang.org/x/exp/constraints"
)

type number interface {
	constraints.Integer | constraints.Float
}

// FrameTimes keeps a moving average and the maximum of a duration
// that is measured once per frame.
type FrameTimes struct {
	FrameCount      uint64
	AverageDuration time.Duration
	MaxDuration     time.Duration

	// most recent sample
	Last time.Duration
}

// Add records the duration of one frame.
func (t *FrameTimes) Add(d time.Duration) {
	const window = 64

	t.Last = d
	t.MaxDuration = max(t.MaxDuration, d)

	if t.FrameCount < window/2 {
		t.AverageDuration = d
	} else {
		t.AverageDuration = movingAverage(t.AverageDuration, d, window)
	}

	t.FrameCount += 1
}

// Rate is the number of frames per second at the average duration.
func (t *FrameTimes) Rate() float64 {
	if t.AverageDuration <= 0 {
		return 0
	}

	return 1.0 / t.AverageDuration.Seconds()
}

func (t *FrameTimes) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("rate", t.Rate()),
		slog.Duration("avg", t.AverageDuration),
		slog.Duration("max", t.MaxDuration),
	)
}

func movingAverage[T number](average, value T, window T) T {
	return ((window-1)*average + value) / window
}

func clamp[T constraints.Ordered](value, lo, hi T) T {
	return min(max(value, lo), hi)
}
