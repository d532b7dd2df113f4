package glimpse

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	calls []string

	failRenderAt int
	renderErr    error
	renders      int

	onRender func(frame int)
}

func (r *recordingHandler) Activated(width, height uint32) error {
	r.calls = append(r.calls, fmt.Sprintf("activated %dx%d", width, height))
	return nil
}

func (r *recordingHandler) Deactivated() {
	r.calls = append(r.calls, "deactivated")
}

func (r *recordingHandler) Resized(width, height uint32) error {
	r.calls = append(r.calls, fmt.Sprintf("resized %dx%d", width, height))
	return nil
}

func (r *recordingHandler) Render(input InputState) error {
	r.renders++
	r.calls = append(r.calls, "render")

	if r.onRender != nil {
		r.onRender(r.renders)
	}

	if r.renderErr != nil && r.renders == r.failRenderAt {
		return r.renderErr
	}

	return nil
}

func TestHeadlessWindow_Lifecycle(t *testing.T) {
	handler := &recordingHandler{}

	win := NewHeadlessWindow(800, 600, 3)
	require.NoError(t, win.Run(handler))

	assert.Equal(t, []string{
		"activated 800x600",
		"render",
		"render",
		"render",
		"deactivated",
	}, handler.calls)

	assert.Nil(t, win.SurfaceDescriptor())
}

func TestHeadlessWindow_ResizeBeforeNextFrame(t *testing.T) {
	win := NewHeadlessWindow(800, 600, 2)

	handler := &recordingHandler{}
	handler.onRender = func(frame int) {
		if frame == 1 {
			win.Resize(1024, 768)
		}
	}

	require.NoError(t, win.Run(handler))

	assert.Equal(t, []string{
		"activated 800x600",
		"render",
		"resized 1024x768",
		"render",
		"deactivated",
	}, handler.calls)

	width, height := win.GetSize()
	assert.EqualValues(t, 1024, width)
	assert.EqualValues(t, 768, height)
}

func TestHeadlessWindow_RenderErrorEndsRun(t *testing.T) {
	errBroken := errors.New("broken")
	handler := &recordingHandler{failRenderAt: 2, renderErr: errBroken}

	err := NewHeadlessWindow(800, 600, 10).Run(handler)
	require.ErrorIs(t, err, errBroken)

	assert.Equal(t, 2, handler.renders)
	assert.Equal(t, "deactivated", handler.calls[len(handler.calls)-1])
}

func TestHeadlessWindow_StopIsNoError(t *testing.T) {
	handler := &recordingHandler{failRenderAt: 1, renderErr: ErrStop}

	require.NoError(t, NewHeadlessWindow(800, 600, 10).Run(handler))
	assert.Equal(t, 1, handler.renders)
}

func TestDispatcher_IgnoresIllegalTransitions(t *testing.T) {
	handler := &recordingHandler{}
	d := dispatcher{handler: handler}

	// resize and render while inactive are dropped
	d.push(event{kind: eventResize, width: 10, height: 10})
	d.push(event{kind: eventDeactivate})
	require.NoError(t, d.flush())
	require.NoError(t, d.render(InputState{}))

	d.push(event{kind: eventActivate, width: 800, height: 600})
	d.push(event{kind: eventActivate, width: 800, height: 600})
	d.push(event{kind: eventResize, width: 0, height: 0})
	d.push(event{kind: eventDeactivate})
	d.push(event{kind: eventDeactivate})
	require.NoError(t, d.flush())

	assert.Equal(t, []string{
		"activated 800x600",
		"resized 0x0",
		"deactivated",
	}, handler.calls)
}

func TestMouseState_Delta(t *testing.T) {
	var mouse MouseState

	mouse.position(10, 10)
	assert.Zero(t, mouse.DeltaX)

	mouse.position(15, 7)
	assert.Equal(t, float32(5), mouse.DeltaX)
	assert.Equal(t, float32(-3), mouse.DeltaY)

	mouse.nextTick()
	assert.Zero(t, mouse.DeltaX)
	assert.Equal(t, float32(15), mouse.CursorX)
}

func TestKeysState(t *testing.T) {
	var input InputState

	input.Keys.press(KeyF3)
	assert.True(t, input.KeyJustPressed(KeyF3))

	input.nextTick()
	assert.False(t, input.KeyJustPressed(KeyF3))
	assert.True(t, input.Keys.Pressed[KeyF3])

	input.Keys.release(KeyF3)
	assert.False(t, input.Keys.Pressed[KeyF3])
	assert.True(t, input.Keys.JustReleased[KeyF3])

	assert.Equal(t, "F3", KeyF3.String())
	assert.Equal(t, "Escape", KeyEscape.String())
}

func TestRunEachFrame_RunsOutsideOfRequest(t *testing.T) {
	next := make(chan struct{}, 1)

	var requests, frames int
	inRequest := false

	requestFrame := func() {
		inRequest = true
		defer func() { inRequest = false }()

		requests++
		next <- struct{}{}
	}

	runOnce := func() error {
		assert.False(t, inRequest, "frame must not run inside the request")

		frames++
		if frames == 3 {
			return ErrStop
		}

		return nil
	}

	require.NoError(t, runEachFrame(next, requestFrame, runOnce))
	assert.Equal(t, 3, frames)
	assert.Equal(t, 3, requests)
}

func TestRunEachFrame_ReturnsError(t *testing.T) {
	next := make(chan struct{}, 1)
	errFrame := errors.New("frame failed")

	err := runEachFrame(next, func() { next <- struct{}{} }, func() error { return errFrame })
	require.ErrorIs(t, err, errFrame)
}
