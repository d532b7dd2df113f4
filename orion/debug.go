package orion

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/oliverbestmann/cubic/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// number of frames shown in the history graph
const debugHistoryLength = 60 * 5

// log statistics every this many frames
const debugLogInterval = 60

var (
	colorRenderTime = pulse.ColorLinearRGBA(0.25, 1.0, 0.25, 0.85)
	colorWaitTime   = pulse.ColorLinearRGBA(0.25, 0.25, 0.25, 0.5)
	colorTarget     = pulse.ColorLinearRGBA(1.0, 0.25, 0.25, 0.85)
)

// DebugOverlay draws a graph of the most recent frame times at the bottom
// of the frame: the render time of each frame, the remaining frame time on
// top of it, and a line at the target interval.
type DebugOverlay struct {
	mesh     *pulse.Mesh2d
	interval time.Duration

	history    [debugHistoryLength]FrameMetrics
	frameCount int

	frameTimes  FrameTimes
	renderTimes FrameTimes
}

// NewDebugOverlay creates an overlay for frames paced to interval.
func NewDebugOverlay(ctx *pulse.Context, interval time.Duration) (*DebugOverlay, error) {
	mesh, err := pulse.NewMesh2d(ctx)
	if err != nil {
		return nil, fmt.Errorf("create mesh: %w", err)
	}

	return &DebugOverlay{mesh: mesh, interval: interval}, nil
}

func (d *DebugOverlay) Render(frame *pulse.Frame, metrics FrameMetrics) ([]*wgpu.CommandBuffer, error) {
	d.record(metrics)

	width, height := frame.Size()
	d.layout(float32(width), float32(height), d.mesh.AddRect)

	if err := d.mesh.Draw(frame); err != nil {
		return nil, fmt.Errorf("draw debug overlay: %w", err)
	}

	// vertices are uploaded using the queue, no extra commands needed
	return nil, nil
}

func (d *DebugOverlay) record(metrics FrameMetrics) {
	// the very first frame has no previous frame to report on
	if metrics.DeltaTime <= 0 {
		return
	}

	d.history[d.frameCount%len(d.history)] = metrics
	d.frameCount += 1

	d.frameTimes.Add(secondsToDuration(metrics.DeltaTime))
	d.renderTimes.Add(secondsToDuration(metrics.RenderTime))

	if d.frameCount%debugLogInterval == 0 {
		slog.Info("Frame statistics",
			slog.Float64("fps", d.frameTimes.Rate()),
			slog.Float64("renderRate", d.renderTimes.Rate()),
			slog.Any("frameTime", &d.frameTimes),
			slog.Any("renderTime", &d.renderTimes),
		)
	}
}

// layout emits the rectangles of the graph in pixel coordinates.
func (d *DebugOverlay) layout(width, height float32, rect func(x, y, w, h float32, color pulse.Color)) {
	binWidth := width / float32(len(d.history))

	// the target interval is drawn at a quarter of the height
	graphHeight := height / 4
	timeScale := graphHeight / float32(d.interval.Seconds())

	bar := func(x, y float32, seconds float32, color pulse.Color) float32 {
		barHeight := clamp(seconds*timeScale, 0, height)
		if barHeight > 0 {
			rect(x, y-barHeight, binWidth, barHeight, color)
		}

		return y - barHeight
	}

	// oldest sample on the left
	count := min(d.frameCount, len(d.history))
	first := d.frameCount - count

	for idx := range count {
		metrics := d.history[(first+idx)%len(d.history)]

		x := float32(idx) * binWidth
		y := bar(x, height, metrics.RenderTime, colorRenderTime)
		bar(x, y, max(0, metrics.DeltaTime-metrics.RenderTime), colorWaitTime)
	}

	rect(0, height-graphHeight, width, 1, colorTarget)
}

func (d *DebugOverlay) Release() {
	d.mesh.Release()
}

func secondsToDuration(seconds float32) time.Duration {
	return time.Duration(float64(seconds) * float64(time.Second))
}
