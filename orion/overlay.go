package orion

import (
	"github.com/oliverbestmann/cubic/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// FrameMetrics describes the previous frame, in seconds.
type FrameMetrics struct {
	// time from the start of the frame until the next frame may start,
	// including the wait of the frame clock
	DeltaTime float32

	// time from the start of the frame until its commands were submitted
	RenderTime float32
}

// Overlay draws on top of the stages of a frame. It may record at most one
// render pass into the frame, and that pass must load the color target and
// bind the depth attachment read only, see pulse.Frame.LoadPassDescriptor.
//
// Command buffers returned by Render are submitted after the frame, in order.
// The overlay must not finish the frame.
type Overlay interface {
	Render(frame *pulse.Frame, metrics FrameMetrics) ([]*wgpu.CommandBuffer, error)
	Release()
}
