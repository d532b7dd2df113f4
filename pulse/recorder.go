package pulse

import (
	"github.com/oliverbestmann/webgpu/wgpu"
)

// Recorder accumulates the commands of a frame. Passes are recorded
// in the order BeginRenderPass is called.
type Recorder interface {
	BeginRenderPass(desc *wgpu.RenderPassDescriptor) RenderPass
	Finish() (*wgpu.CommandBuffer, error)
	Release()
}

// RenderPass is the subset of a render pass encoder used by stages and the overlay.
// A pass must be ended and released before the next pass begins.
type RenderPass interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset, size uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	End() error
	Release()
}

type encoderRecorder struct {
	encoder *wgpu.CommandEncoder
}

func newEncoderRecorder(ctx *Context, label string) (*encoderRecorder, error) {
	encoder, err := ctx.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, err
	}

	return &encoderRecorder{encoder: encoder}, nil
}

func (r *encoderRecorder) BeginRenderPass(desc *wgpu.RenderPassDescriptor) RenderPass {
	return &renderPass{pass: r.encoder.BeginRenderPass(desc)}
}

func (r *encoderRecorder) Finish() (*wgpu.CommandBuffer, error) {
	return r.encoder.Finish(nil)
}

func (r *encoderRecorder) Release() {
	r.encoder.Release()
}

type renderPass struct {
	pass *wgpu.RenderPassEncoder
}

func (p *renderPass) SetPipeline(pipeline *wgpu.RenderPipeline) {
	p.pass.SetPipeline(pipeline)
}

func (p *renderPass) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset, size uint64) {
	p.pass.SetVertexBuffer(slot, buffer, offset, size)
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *renderPass) End() error {
	return p.pass.End()
}

func (p *renderPass) Release() {
	if p.pass != nil {
		p.pass.Release()
		p.pass = nil
	}
}
