//go:build js

package glimpse

import (
	"syscall/js"

	"github.com/oliverbestmann/webgpu/wgpu"
)

type jsWindow struct {
	canvas     js.Value
	dispatcher dispatcher

	width, height uint32
}

func NewWindow(width, height int, title string) (Window, error) {
	document := js.Global().Get("document")
	canvas := document.Call("createElement", "canvas")
	document.Get("body").Call("appendChild", canvas)

	document.Set("title", title)

	canvas.Set("style", "width:100vw; height:100vh")

	win := &jsWindow{
		canvas: canvas,
	}

	return win, nil
}

func (g *jsWindow) GetSize() (uint32, uint32) {
	ratio := js.Global().Get("devicePixelRatio").Float()

	vv := js.Global().Get("visualViewport")
	width := vv.Get("width").Int()
	height := vv.Get("height").Int()
	return uint32(float64(width) * ratio), uint32(float64(height) * ratio)
}

func (g *jsWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return &wgpu.SurfaceDescriptor{Canvas: g.canvas}
}

func (g *jsWindow) Terminate() {
	// do nothing
}

func (g *jsWindow) Run(handler Handler) error {
	g.dispatcher.handler = handler
	defer g.dispatcher.deactivate()

	g.width, g.height = g.GetSize()
	resizeCanvas(g.canvas, g.width, g.height)

	g.dispatcher.push(event{kind: eventActivate, width: g.width, height: g.height})

	animationFrame := make(chan struct{}, 1)

	onAnimationFrame := js.FuncOf(func(this js.Value, args []js.Value) any {
		select {
		case animationFrame <- struct{}{}:
		default:
		}

		return nil
	})

	defer onAnimationFrame.Release()

	// frames are rendered outside the js callback. A frame may block
	// while waiting for the frame clock, which would stall the event loop.
	requestFrame := func() {
		js.Global().Call("requestAnimationFrame", onAnimationFrame)
	}

	return runEachFrame(animationFrame, requestFrame, g.runOnce)
}

func (g *jsWindow) runOnce() error {
	width, height := g.GetSize()
	if width != g.width || height != g.height {
		g.width, g.height = width, height
		resizeCanvas(g.canvas, width, height)

		g.dispatcher.push(event{kind: eventResize, width: width, height: height})
	}

	if err := g.dispatcher.flush(); err != nil {
		return err
	}

	return g.dispatcher.render(InputState{})
}

func resizeCanvas(canvas js.Value, width, height uint32) {
	canvas.Set("width", width)
	canvas.Set("height", height)
}
