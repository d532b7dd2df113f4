package stage

import (
	"fmt"

	"github.com/oliverbestmann/cubic/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
)

type ClearParams struct {
	// color the target is cleared to
	Color pulse.Color

	// value the depth attachment is cleared to, usually 1.0
	Depth float32
}

// Clear resets the color target and the depth attachment of a frame.
type Clear struct {
	params ClearParams
}

// NewClear is a SetupFunc for the Clear stage.
func NewClear(_ *pulse.Context, params ClearParams) (Stage, error) {
	if params.Depth < 0 || params.Depth > 1 {
		return nil, fmt.Errorf("clear depth %f out of range [0, 1]", params.Depth)
	}

	return &Clear{params: params}, nil
}

func (c *Clear) Render(frame *pulse.Frame) error {
	pass := frame.Recorder().BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "ClearStage",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       frame.Target(),
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: c.params.Color.ToWGPU(),
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            frame.Depth(),
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: c.params.Depth,
		},
	})

	defer pass.Release()

	if err := pass.End(); err != nil {
		return fmt.Errorf("end clear pass: %w", err)
	}

	return nil
}

func (c *Clear) Release() {
	// nothing allocated
}
