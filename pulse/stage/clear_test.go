package stage

import (
	"testing"

	"github.com/oliverbestmann/cubic/pulse"
	"github.com/oliverbestmann/cubic/pulse/pulsetest"
	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClear_RecordsSinglePass(t *testing.T) {
	st, err := NewClear(nil, ClearParams{Color: pulse.ColorWhite, Depth: 1.0})
	require.NoError(t, err)

	resources := pulsetest.NewResources(800, 600)
	frame, recorder := pulsetest.NewFrame(resources)
	defer frame.Discard()

	require.NoError(t, st.Render(frame))

	require.Len(t, recorder.Passes, 1)
	pass := recorder.Passes[0]

	assert.True(t, pass.Ended)
	assert.True(t, pass.Released)
	assert.Zero(t, pass.Draws)
	assert.Nil(t, pass.Pipeline)

	require.Len(t, pass.Desc.ColorAttachments, 1)
	color := pass.Desc.ColorAttachments[0]
	assert.Equal(t, wgpu.LoadOpClear, color.LoadOp)
	assert.Equal(t, wgpu.StoreOpStore, color.StoreOp)
	assert.Equal(t, wgpu.Color{R: 1, G: 1, B: 1, A: 1}, color.ClearValue)

	depth := pass.Desc.DepthStencilAttachment
	require.NotNil(t, depth)
	assert.Same(t, resources.DepthView(), depth.View)
	assert.Equal(t, wgpu.LoadOpClear, depth.DepthLoadOp)
	assert.Equal(t, wgpu.StoreOpStore, depth.DepthStoreOp)
	assert.Equal(t, float32(1.0), depth.DepthClearValue)
	assert.False(t, depth.DepthReadOnly)
}

func TestClear_RejectsDepthOutOfRange(t *testing.T) {
	_, err := NewClear(nil, ClearParams{Color: pulse.ColorWhite, Depth: 1.5})
	require.Error(t, err)

	_, err = NewClear(nil, ClearParams{Color: pulse.ColorWhite, Depth: -0.1})
	require.Error(t, err)
}

func TestClear_BeforeOverlayPass(t *testing.T) {
	var released int
	var trace []int

	b := NewBuilder(nil)
	Add(b, "clear", NewClear, ClearParams{Color: pulse.ColorBlack, Depth: 1.0})
	Add(b, "marker", newMarker(&released), markerParams{marker: 1, trace: &trace})

	pipeline, err := b.Build()
	require.NoError(t, err)

	frame, recorder := pulsetest.NewFrame(pulsetest.NewResources(800, 600))
	require.NoError(t, pipeline.Render(frame))

	pass := frame.Recorder().BeginRenderPass(frame.LoadPassDescriptor("Overlay"))
	require.NoError(t, pass.End())
	pass.Release()

	_, err = frame.Finish()
	require.NoError(t, err)

	assert.Equal(t, []string{"ClearStage", "Overlay"}, recorder.Labels())
	assert.Equal(t, wgpu.LoadOpLoad, recorder.Passes[1].Desc.ColorAttachments[0].LoadOp)
	assert.True(t, recorder.Passes[1].Desc.DepthStencilAttachment.DepthReadOnly)
}
