package pulse

import (
	"testing"

	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/stretchr/testify/require"
)

func newHeadlessContext(t *testing.T) *Context {
	t.Helper()

	ctx, err := NewHeadless()
	if err != nil {
		t.Skipf("no graphics adapter available: %s", err)
	}

	t.Cleanup(ctx.Release)

	return ctx
}

func clearDepth(t *testing.T, ctx *Context, depth *Texture, value float32) {
	t.Helper()

	encoder, err := ctx.CreateCommandEncoder(nil)
	require.NoError(t, err)

	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "ClearDepth",
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            depth.ToWGPUTextureView(),
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: value,
		},
	})

	require.NoError(t, pass.End())
	pass.Release()

	buf, err := encoder.Finish(nil)
	require.NoError(t, err)

	defer buf.Release()

	ctx.Submit(buf)
}

func TestReadDepth_ResolvesEveryTexel(t *testing.T) {
	ctx := newHeadlessContext(t)

	// width is not a multiple of the row alignment
	depth, err := NewDepthTexture(ctx, 70, 30)
	require.NoError(t, err)

	defer depth.Release()

	clearDepth(t, ctx, depth, 0.25)

	values, err := ReadDepth(ctx, depth)
	require.NoError(t, err)
	require.Len(t, values, 70*30)

	for idx, value := range values {
		if value != 0.25 {
			require.Failf(t, "depth not uniformly 0.25", "value %d is %f", idx, value)
		}
	}
}
