package pulse

import (
	_ "embed"
	"fmt"

	"github.com/oliverbestmann/webgpu/wgpu"
)

//go:embed depth-resolve.wgsl
var depthResolveShaderCode string

// depth values are resolved into a color texture of this format
const depthResolveFormat = wgpu.TextureFormatR32Float

// resolveDepth renders the content of a depth texture into a new R32Float
// color texture of the same size. Copying a depth texture into a buffer
// requires a downlevel flag that not every adapter supports, sampling
// it works everywhere.
func resolveDepth(ctx *Context, depth *Texture) (target *Texture, err error) {
	target, err = NewTexture(ctx, NewTextureOptions{
		Label:  "DepthResolve",
		Format: depthResolveFormat,
		Width:  depth.Width(),
		Height: depth.Height(),
		Usage:  wgpu.TextureUsageCopySrc,
	})

	if err != nil {
		return nil, fmt.Errorf("create resolve target: %w", err)
	}

	defer func() {
		if err != nil {
			target.Release()
			target = nil
		}
	}()

	bindGroupLayout, err := ctx.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "DepthResolve",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeDepth,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}

	defer bindGroupLayout.Release()

	pipelineLayout, err := ctx.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "DepthResolve",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})

	if err != nil {
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	defer pipelineLayout.Release()

	shader, err := ctx.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      "DepthResolve.ShaderSource",
		WGSLSource: &wgpu.ShaderSourceWGSL{Code: depthResolveShaderCode},
	})

	if err != nil {
		return nil, fmt.Errorf("compile depth resolve shader: %w", err)
	}

	defer shader.Release()

	pipeline, err := ctx.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "DepthResolve",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    depthResolveFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("build depth resolve pipeline: %w", err)
	}

	defer pipeline.Release()

	bindGroup, err := ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "DepthResolve",
		Layout: bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: depth.ToWGPUTextureView()},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}

	defer bindGroup.Release()

	encoder, err := ctx.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "DepthResolve"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}

	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "DepthResolve",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    target.ToWGPUTextureView(),
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
			},
		},
	})

	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Draw(3, 1, 0, 0)

	err = pass.End()
	pass.Release()

	if err != nil {
		return nil, fmt.Errorf("end depth resolve pass: %w", err)
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("finish depth resolve: %w", err)
	}

	defer cmdBuffer.Release()

	ctx.Submit(cmdBuffer)

	return target, nil
}
