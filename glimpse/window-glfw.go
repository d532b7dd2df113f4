//go:build !js

package glimpse

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/oliverbestmann/webgpu/wgpuglfw"
)

type glfwWindow struct {
	win        *glfw.Window
	input      InputState
	dispatcher dispatcher
}

func NewWindow(width, height int, title string) (Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &glfwWindow{win: window}

	configureInput(window, &w.input)
	configureLifecycle(window, &w.dispatcher)

	return w, nil
}

// GetSize returns the size of the framebuffer in pixels.
func (g *glfwWindow) GetSize() (uint32, uint32) {
	width, height := g.win.GetFramebufferSize()
	return uint32(width), uint32(height)
}

func (g *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.win)
}

func (g *glfwWindow) Terminate() {
	g.win.Destroy()
	glfw.Terminate()
}

func (g *glfwWindow) Run(handler Handler) error {
	g.dispatcher.handler = handler
	defer g.dispatcher.deactivate()

	if g.win.GetAttrib(glfw.Iconified) == glfw.False {
		width, height := g.GetSize()
		g.dispatcher.push(event{kind: eventActivate, width: width, height: height})
	}

	if err := g.dispatcher.flush(); err != nil {
		return stopped(err)
	}

	for !g.win.ShouldClose() {
		g.input.nextTick()

		if g.dispatcher.active {
			glfw.PollEvents()
		} else {
			// nothing to render, sleep until something happens
			glfw.WaitEvents()
		}

		if err := g.dispatcher.flush(); err != nil {
			return stopped(err)
		}

		if err := g.dispatcher.render(g.input); err != nil {
			return stopped(err)
		}
	}

	return nil
}

func configureLifecycle(window *glfw.Window, dispatcher *dispatcher) {
	window.SetIconifyCallback(func(win *glfw.Window, iconified bool) {
		if iconified {
			dispatcher.push(event{kind: eventDeactivate})
			return
		}

		width, height := win.GetFramebufferSize()
		dispatcher.push(event{kind: eventActivate, width: uint32(width), height: uint32(height)})
	})

	window.SetFramebufferSizeCallback(func(_win *glfw.Window, width int, height int) {
		dispatcher.push(event{kind: eventResize, width: uint32(width), height: uint32(height)})
	})
}

func configureInput(window *glfw.Window, input *InputState) {
	window.SetKeyCallback(func(_win *glfw.Window, glfwKey glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}

		key, ok := keyOf(glfwKey)
		if !ok {
			return
		}

		switch action {
		case glfw.Press:
			input.Keys.press(key)

		case glfw.Release:
			input.Keys.release(key)
		}
	})

	window.SetMouseButtonCallback(func(_win *glfw.Window, btn glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		button := MouseButton(btn)

		switch action {
		case glfw.Press:
			input.Mouse.press(button)
		case glfw.Release:
			input.Mouse.release(button)
		}
	})

	window.SetCursorPosCallback(func(_win *glfw.Window, xpos float64, ypos float64) {
		input.Mouse.position(float32(xpos), float32(ypos))
	})
}

func keyOf(glfwKey glfw.Key) (key Key, ok bool) {
	key, ok = glfwToKey[glfwKey]
	if !ok {
		slog.Debug(
			"Unknown key code",
			slog.String("key", glfw.GetKeyName(glfwKey, 0)),
		)
	}

	return
}
