package pipeline

import (
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithVertexShader sets the vertex shader for this pipeline.
//
// Parameters:
//   - s: the vertex shader to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex shader for this pipeline
func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
	}
}

// WithFragmentShader sets the fragment shader for this pipeline.
//
// Parameters:
//   - s: the fragment shader to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fragment shader for this pipeline
func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentShader = s
	}
}

// WithBlendEnabled sets whether blending is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether blending should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend enabled state for this pipeline
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode to use for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeFront, wgpu.CullModeBack)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology to use for this pipeline (e.g., wgpu.PrimitiveTopologyPointList, wgpu.PrimitiveTopologyLineList, wgpu.PrimitiveTopologyTriangleList)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the primitive topology for this pipeline
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithFrontFace sets the front face winding order for this pipeline.
//
// Parameters:
//   - frontFace: the front face to use for this pipeline (e.g., wgpu.FrontFaceCCW, wgpu.FrontFaceCW)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the front face for this pipeline
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithWriteMask sets the color write mask for this pipeline.
//
// Parameters:
//   - writeMask: the channels the pass writes
//
// Returns:
//   - PipelineBuilderOption: a function that sets the color write mask for this pipeline
func WithWriteMask(writeMask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = writeMask
	}
}

// WithBlendState replaces the default alpha blend state. It only applies with WithBlendEnabled(true).
//
// Parameters:
//   - blendState: the blend state used when blending is enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state for this pipeline
func WithBlendState(blendState *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = blendState
	}
}

// WithVertexCount sets how many vertices are drawn per frame. Zero fails validation.
//
// Parameters:
//   - count: the number of vertices to draw
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex count for this pipeline
func WithVertexCount(count uint32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexCount = count
	}
}
