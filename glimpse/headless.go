package glimpse

import (
	"github.com/oliverbestmann/webgpu/wgpu"
)

// HeadlessWindow is a Window without anything on screen. It activates the
// handler, renders a fixed number of frames and deactivates it again.
type HeadlessWindow struct {
	width, height uint32
	frames        int

	dispatcher dispatcher
}

func NewHeadlessWindow(width, height uint32, frames int) *HeadlessWindow {
	return &HeadlessWindow{
		width:  width,
		height: height,
		frames: frames,
	}
}

func (h *HeadlessWindow) GetSize() (uint32, uint32) {
	return h.width, h.height
}

// SurfaceDescriptor is always nil, render into an offscreen texture instead.
func (h *HeadlessWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return nil
}

// Resize changes the size of the window. The handler is
// notified before the next frame.
func (h *HeadlessWindow) Resize(width, height uint32) {
	h.width, h.height = width, height
	h.dispatcher.push(event{kind: eventResize, width: width, height: height})
}

func (h *HeadlessWindow) Run(handler Handler) error {
	h.dispatcher.handler = handler
	defer h.dispatcher.deactivate()

	h.dispatcher.push(event{kind: eventActivate, width: h.width, height: h.height})

	for range h.frames {
		if err := h.dispatcher.flush(); err != nil {
			return stopped(err)
		}

		if err := h.dispatcher.render(InputState{}); err != nil {
			return stopped(err)
		}
	}

	return nil
}

func (h *HeadlessWindow) Terminate() {
}
