// Package pulsetest provides in-memory implementations of the pulse
// recording interfaces, to test stages and overlays without a graphics device.
package pulsetest

import (
	"github.com/oliverbestmann/cubic/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// Pass is a render pass captured by a Recorder.
type Pass struct {
	Desc     *wgpu.RenderPassDescriptor
	Pipeline *wgpu.RenderPipeline
	Draws    int
	Ended    bool
	Released bool
}

// Recorder records the render passes that are begun on it.
type Recorder struct {
	Passes   []*Pass
	Finished int
	Released int

	// FinishErr is returned by Finish if set.
	FinishErr error
}

func (r *Recorder) BeginRenderPass(desc *wgpu.RenderPassDescriptor) pulse.RenderPass {
	pass := &Pass{Desc: desc}
	r.Passes = append(r.Passes, pass)
	return &renderPass{pass: pass}
}

func (r *Recorder) Finish() (*wgpu.CommandBuffer, error) {
	r.Finished++

	if r.FinishErr != nil {
		return nil, r.FinishErr
	}

	return &wgpu.CommandBuffer{}, nil
}

func (r *Recorder) Release() {
	r.Released++
}

// Labels returns the labels of all recorded passes in recording order.
func (r *Recorder) Labels() []string {
	labels := make([]string, 0, len(r.Passes))
	for _, pass := range r.Passes {
		labels = append(labels, pass.Desc.Label)
	}

	return labels
}

type renderPass struct {
	pass *Pass
}

func (p *renderPass) SetPipeline(pipeline *wgpu.RenderPipeline) {
	p.pass.Pipeline = pipeline
}

func (p *renderPass) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset, size uint64) {
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.Draws++
}

func (p *renderPass) End() error {
	p.pass.Ended = true
	return nil
}

func (p *renderPass) Release() {
	p.pass.Released = true
}

// Resources stands in for a pulse.View. Bump simulates a resize.
type Resources struct {
	Surface    pulse.SurfaceConfig
	Depth      *wgpu.TextureView
	generation uint64
}

func NewResources(width, height uint32) *Resources {
	return &Resources{
		Surface: pulse.SurfaceConfig{
			Format:      wgpu.TextureFormatBGRA8UnormSrgb,
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   wgpu.CompositeAlphaModeOpaque,
			Usage:       wgpu.TextureUsageRenderAttachment,
			Width:       width,
			Height:      height,
		},
		Depth: &wgpu.TextureView{},
	}
}

func (r *Resources) DepthView() *wgpu.TextureView {
	return r.Depth
}

func (r *Resources) Generation() uint64 {
	return r.generation
}

func (r *Resources) Config() pulse.SurfaceConfig {
	return r.Surface
}

// Bump replaces the depth view, like an effective resize would.
func (r *Resources) Bump() {
	r.Depth = &wgpu.TextureView{}
	r.generation++
}

// NewFrame returns an open frame that records into a new Recorder.
func NewFrame(resources *Resources) (*pulse.Frame, *Recorder) {
	recorder := &Recorder{}
	return pulse.NewFrame(recorder, nil, resources), recorder
}
