package pulse

import (
	"fmt"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// FrameResources is the part of a View a Frame depends on.
type FrameResources interface {
	DepthView() *wgpu.TextureView
	Generation() uint64
	Config() SurfaceConfig
}

// Frame collects all commands recorded during a single frame. Stages and the
// overlay append render passes through Recorder, one after another, on the
// frame thread. A Frame must be finished exactly once.
//
// The depth view is borrowed from the View. The View must not be resized
// while a frame is open, Finish reports ErrStaleFrame if it was.
type Frame struct {
	recorder Recorder

	// view of the destination texture, owned by the frame
	target *wgpu.TextureView

	resources  FrameResources
	depth      *wgpu.TextureView
	generation uint64
	config     SurfaceConfig

	finished bool
}

// BeginFrame opens a new command encoder that renders into destination,
// a texture acquired from the view.
func BeginFrame(view *View, destination *wgpu.Texture) (*Frame, error) {
	recorder, err := newEncoderRecorder(view.Context, "Frame")
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}

	target, err := destination.CreateView(nil)
	if err != nil {
		recorder.Release()
		return nil, fmt.Errorf("create view of destination: %w", err)
	}

	return NewFrame(recorder, target, view), nil
}

// NewFrame creates a frame that records into recorder and renders to target.
// The frame takes ownership of recorder and target.
func NewFrame(recorder Recorder, target *wgpu.TextureView, resources FrameResources) *Frame {
	return &Frame{
		recorder:   recorder,
		target:     target,
		resources:  resources,
		depth:      resources.DepthView(),
		generation: resources.Generation(),
		config:     resources.Config(),
	}
}

// Recorder gives access to the command recorder of this frame.
func (f *Frame) Recorder() Recorder {
	f.mustBeOpen()
	return f.recorder
}

// Target is the view of the destination texture.
func (f *Frame) Target() *wgpu.TextureView {
	f.mustBeOpen()
	return f.target
}

// Depth is the view of the depth attachment, valid for the lifetime of this frame.
func (f *Frame) Depth() *wgpu.TextureView {
	f.mustBeOpen()
	return f.depth
}

// TargetFormat is the texture format of Target.
func (f *Frame) TargetFormat() wgpu.TextureFormat {
	return f.config.Format
}

// Size is the size of the destination and of the depth attachment.
func (f *Frame) Size() (uint32, uint32) {
	return f.config.Width, f.config.Height
}

// LoadPassDescriptor describes a pass that draws on top of the current content
// of the target. The depth attachment is bound read only.
func (f *Frame) LoadPassDescriptor(label string) *wgpu.RenderPassDescriptor {
	return &wgpu.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    f.Target(),
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:          f.Depth(),
			DepthReadOnly: true,
		},
	}
}

// Finish closes the recorder and returns the recorded commands, ready to be submitted.
// Calling Finish a second time panics.
func (f *Frame) Finish() (*wgpu.CommandBuffer, error) {
	f.mustBeOpen()

	f.finished = true
	defer f.release()

	if f.resources.Generation() != f.generation {
		return nil, ErrStaleFrame
	}

	buf, err := f.recorder.Finish()
	if err != nil {
		return nil, fmt.Errorf("finish frame: %w", err)
	}

	return buf, nil
}

// Discard drops the frame without producing a command buffer. This does
// nothing if the frame is already finished.
func (f *Frame) Discard() {
	if f.finished {
		return
	}

	f.finished = true
	f.release()
}

func (f *Frame) Finished() bool {
	return f.finished
}

func (f *Frame) release() {
	f.recorder.Release()

	if f.target != nil {
		f.target.Release()
		f.target = nil
	}
}

func (f *Frame) mustBeOpen() {
	if f.finished {
		panic("frame already finished")
	}
}
