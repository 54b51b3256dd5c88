package pipeline

import (
	"errors"
	"sort"

	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the shaders and fixed-function state a render pipeline is created from, and the created pipeline.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used as the GPU debug label
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is nil until the renderer has created the GPU object
	renderPipeline *wgpu.RenderPipeline

	// vertexCount is the number of vertices issued per draw; procedural passes generate them from vertex_index
	vertexCount uint32

	blendEnabled bool
	cullMode     wgpu.CullMode
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	writeMask    wgpu.ColorWriteMask
	blendState   *wgpu.BlendState
}

// Pipeline describes a render pipeline: a vertex and a fragment shader plus the primitive, blend
// and write-mask state. Passes that draw without vertex buffers set the vertex count directly.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader for a stage, nil if not set.
	//
	// Parameters:
	//   - shaderType: the stage of the shader to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader for the stage, or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// Validate reports whether the pipeline has everything needed for creation.
	//
	// Returns:
	//   - error: an error naming the missing piece
	Validate() error

	// BindGroupLayoutDescriptors merges the bind group layouts declared by both stages.
	// A binding declared by both stages gets the union of their visibilities.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// RenderPipeline returns the created GPU pipeline, or nil before creation.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the created GPU pipeline.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// VertexCount returns the number of vertices drawn per frame.
	//
	// Returns:
	//   - uint32: the vertex count
	VertexCount() uint32

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this pipeline.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state, or nil if blending is not enabled
	BlendState() *wgpu.BlendState

	// Release frees the GPU pipeline if it was created.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render Pipeline description. The defaults draw one fullscreen triangle
// with no culling and no blending.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey: pipelineKey,
		vertexCount: 3,
		cullMode:    wgpu.CullModeNone,
		topology:    wgpu.PrimitiveTopologyTriangleList,
		frontFace:   wgpu.FrontFaceCCW,
		writeMask:   wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
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
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) Validate() error {
	if p.vertexShader == nil || p.fragmentShader == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}
	if p.vertexCount == 0 {
		return errors.New("render pipeline draws no vertices")
	}
	return nil
}

func (p *pipeline) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)
	for _, s := range []shader.Shader{p.vertexShader, p.fragmentShader} {
		if s == nil {
			continue
		}
		for group, desc := range s.BindGroupLayoutDescriptors() {
			if merged[group] == nil {
				merged[group] = make(map[uint32]wgpu.BindGroupLayoutEntry)
			}
			for _, entry := range desc.Entries {
				if existing, ok := merged[group][entry.Binding]; ok {
					existing.Visibility |= entry.Visibility
					merged[group][entry.Binding] = existing
					continue
				}
				merged[group][entry.Binding] = entry
			}
		}
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(merged))
	for group, byBinding := range merged {
		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(byBinding))
		for _, entry := range byBinding {
			entries = append(entries, entry)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		result[group] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return result
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) VertexCount() uint32 {
	return p.vertexCount
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	if !p.blendEnabled {
		return nil
	}
	return p.blendState
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
