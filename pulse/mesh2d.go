package pulse

import (
	_ "embed"
	"fmt"
	"log/slog"
	"structs"
	"unsafe"

	"github.com/oliverbestmann/webgpu/wgpu"
)

//go:embed mesh2d.wgsl
var mesh2dShaderCode string

// maximum number of vertices drawn per frame
const maxMeshVertices = 16 * 1024 * 3

var blendStateAlpha = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

type MeshVertex struct {
	_ structs.HostLayout

	// position in normalized device coordinates
	Position [2]float32
	Color    Color
}

// Mesh2d collects colored triangles in pixel coordinates and draws them
// on top of a frame in a single render pass. The depth attachment
// is bound read only.
type Mesh2d struct {
	ctx *Context

	pipelineCache *PipelineCache[mesh2dPipeline]

	// vertices in pixel coordinates
	vertices    []MeshVertex
	bufVertices *wgpu.Buffer
}

func NewMesh2d(ctx *Context) (*Mesh2d, error) {
	bufVertices, err := ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Mesh2d.Vertices",
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		Size:  uint64(unsafe.Sizeof(MeshVertex{})) * maxMeshVertices,
	})

	if err != nil {
		return nil, fmt.Errorf("create vertex buffer: %w", err)
	}

	m := &Mesh2d{
		ctx:           ctx,
		bufVertices:   bufVertices,
		pipelineCache: NewPipelineCache[mesh2dPipeline](ctx),
	}

	return m, nil
}

// AddRect queues an axis aligned rectangle. x and y denote the top left corner in pixels.
func (m *Mesh2d) AddRect(x, y, width, height float32, color Color) {
	if len(m.vertices)+6 > maxMeshVertices {
		slog.Warn("Mesh2d vertex buffer full, dropping rectangle")
		return
	}

	x0, y0 := x, y
	x1, y1 := x+width, y+height

	m.vertices = append(m.vertices,
		MeshVertex{Position: [2]float32{x0, y0}, Color: color},
		MeshVertex{Position: [2]float32{x0, y1}, Color: color},
		MeshVertex{Position: [2]float32{x1, y0}, Color: color},

		MeshVertex{Position: [2]float32{x1, y0}, Color: color},
		MeshVertex{Position: [2]float32{x0, y1}, Color: color},
		MeshVertex{Position: [2]float32{x1, y1}, Color: color},
	)
}

// Len returns the number of queued vertices.
func (m *Mesh2d) Len() int {
	return len(m.vertices)
}

// Draw records one render pass into the frame that draws all queued triangles.
// The existing content of the frame is loaded, not cleared.
func (m *Mesh2d) Draw(frame *Frame) error {
	defer m.reset()

	if len(m.vertices) == 0 {
		return nil
	}

	width, height := frame.Size()
	vertices := toDeviceCoordinates(m.vertices, float32(width), float32(height))

	pipeline, err := m.pipelineCache.Get(mesh2dPipeline{
		TargetFormat: frame.TargetFormat(),
		DepthFormat:  DepthFormat,
		BlendState:   blendStateAlpha,
		ShaderSource: mesh2dShaderCode,
	})

	if err != nil {
		return fmt.Errorf("get mesh2d pipeline: %w", err)
	}

	err = m.ctx.WriteBuffer(m.bufVertices, 0, wgpu.ToBytes(vertices))
	if err != nil {
		return fmt.Errorf("update vertex buffer: %w", err)
	}

	pass := frame.Recorder().BeginRenderPass(frame.LoadPassDescriptor("RenderPassMesh2d"))
	defer pass.Release()

	pass.SetPipeline(pipeline)
	pass.SetVertexBuffer(0, m.bufVertices, 0, wgpu.WholeSize)
	pass.Draw(uint32(len(vertices)), 1, 0, 0)

	return pass.End()
}

func (m *Mesh2d) Release() {
	m.pipelineCache.Purge()

	if m.bufVertices != nil {
		m.bufVertices.Release()
		m.bufVertices = nil
	}
}

func (m *Mesh2d) reset() {
	m.vertices = m.vertices[:0]
}

func toDeviceCoordinates(vertices []MeshVertex, width, height float32) []MeshVertex {
	result := make([]MeshVertex, len(vertices))

	for idx, v := range vertices {
		result[idx] = MeshVertex{
			Position: [2]float32{
				v.Position[0]/width*2 - 1,
				1 - v.Position[1]/height*2,
			},
			Color: v.Color,
		}
	}

	return result
}

type mesh2dPipeline struct {
	TargetFormat wgpu.TextureFormat
	DepthFormat  wgpu.TextureFormat
	BlendState   wgpu.BlendState
	ShaderSource string
}

func (conf mesh2dPipeline) Specialize(dev *wgpu.Device) (*wgpu.RenderPipeline, error) {
	slog.Info(
		"Create RenderPipeline for mesh2d",
		slog.Any("format", conf.TargetFormat),
		slog.Any("depthFormat", conf.DepthFormat),
	)

	shader, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      "Mesh2D.ShaderSource",
		WGSLSource: &wgpu.ShaderSourceWGSL{Code: conf.ShaderSource},
	})
	if err != nil {
		return nil, fmt.Errorf("compile mesh2d shader: %w", err)
	}

	defer shader.Release()

	keep := wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label: fmt.Sprintf("Mesh2D.%s", conf.TargetFormat),
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(MeshVertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{
							// position
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         uint64(unsafe.Offsetof(MeshVertex{}.Position)),
							ShaderLocation: 0,
						},
						{
							// color
							Format:         wgpu.VertexFormatFloat32x4,
							Offset:         uint64(unsafe.Offsetof(MeshVertex{}.Color)),
							ShaderLocation: 1,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    conf.TargetFormat,
					Blend:     &conf.BlendState,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		// depth is attached read only, never tested and never written
		DepthStencil: &wgpu.DepthStencilState{
			Format:       conf.DepthFormat,
			DepthCompare: wgpu.CompareFunctionAlways,
			StencilFront: keep,
			StencilBack:  keep,
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	}

	pipeline, err := dev.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("build mesh2d pipeline: %w", err)
	}

	return pipeline, nil
}
