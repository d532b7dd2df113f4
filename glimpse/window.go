package glimpse

import (
	"errors"
	"log/slog"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// ErrStop can be returned by Handler.Render to end Run without an error.
var ErrStop = errors.New("stop")

// Handler reacts to the lifecycle of a window. All methods are called
// on the thread that called Window.Run.
type Handler interface {
	// Activated is called once the window can be rendered to, with its
	// current framebuffer size.
	Activated(width, height uint32) error

	// Deactivated is called when the window can no longer be rendered to,
	// e.g. because it was minimized or is about to close.
	Deactivated()

	// Resized is called when the framebuffer size changes while active.
	Resized(width, height uint32) error

	// Render is called once per loop iteration while active.
	Render(input InputState) error
}

type Window interface {
	GetSize() (uint32, uint32)

	// SurfaceDescriptor describes the surface to render into. It is nil
	// for windows without a presentable surface.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Run drives handler until the window is closed or handler fails.
	Run(handler Handler) error

	Terminate()
}

type eventKind int

const (
	eventActivate eventKind = iota
	eventDeactivate
	eventResize
)

type event struct {
	kind          eventKind
	width, height uint32
}

// dispatcher forwards queued window events to a Handler and makes sure
// the handler only ever sees legal activation transitions.
type dispatcher struct {
	handler Handler
	active  bool
	queue   []event
}

func (d *dispatcher) push(ev event) {
	d.queue = append(d.queue, ev)
}

// flush delivers all queued events in order.
func (d *dispatcher) flush() error {
	queue := d.queue
	d.queue = nil

	for _, ev := range queue {
		if err := d.deliver(ev); err != nil {
			return err
		}
	}

	return nil
}

func (d *dispatcher) deliver(ev event) error {
	switch ev.kind {
	case eventActivate:
		if d.active {
			return nil
		}

		slog.Debug("Window activated", slog.Int("width", int(ev.width)), slog.Int("height", int(ev.height)))

		if err := d.handler.Activated(ev.width, ev.height); err != nil {
			return err
		}

		d.active = true

	case eventDeactivate:
		d.deactivate()

	case eventResize:
		if !d.active {
			return nil
		}

		return d.handler.Resized(ev.width, ev.height)
	}

	return nil
}

func (d *dispatcher) render(input InputState) error {
	if !d.active {
		return nil
	}

	return d.handler.Render(input)
}

func (d *dispatcher) deactivate() {
	if !d.active {
		return
	}

	slog.Debug("Window deactivated")

	d.active = false
	d.handler.Deactivated()
}

// stopped maps ErrStop to a regular end of the loop.
func stopped(err error) error {
	if errors.Is(err, ErrStop) {
		return nil
	}

	return err
}

// runEachFrame calls runOnce every time a frame is signalled on next, until
// runOnce fails. requestFrame asks for the next signal and must not block.
// Frames run on the calling goroutine, never inside the callback that signals.
func runEachFrame(next <-chan struct{}, requestFrame func(), runOnce func() error) error {
	for {
		requestFrame()
		<-next

		if err := runOnce(); err != nil {
			return stopped(err)
		}
	}
}
