package renderer

import (
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ClearColor is the RGBA color the frame is cleared to before the sphere is drawn.
type ClearColor struct {
	R, G, B, A float64
}

// RendererBackend is the top-level backend interface for the Renderer.
type RendererBackend interface {
	// ConfigureSurface is a wrapper for boilerplate logic required when configuring the surface.
	//
	// Parameters:
	//   - width: the width of the surface in pixels
	//   - height: the height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode. Takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the frame is cleared to.
	//
	// Parameters:
	//   - color: the clear color
	SetClearColor(color ClearColor)

	// InitCameraBuffer creates the uniform buffer holding the camera uniform.
	//
	// Parameters:
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitCameraBuffer(size uint64) error

	// WriteCameraBuffer uploads camera uniform bytes to the camera buffer.
	//
	// Parameters:
	//   - data: the marshaled camera uniform
	WriteCameraBuffer(data []byte)

	// RegisterRenderPipeline creates the GPU render pipeline for p and stores it on p.
	// The surface must be configured first so the color target format is known.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: an error if the description is incomplete or GPU creation fails
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitBindGroup creates the layout, any buffers the provider lacks and the bind group.
	//
	// Parameters:
	//   - provider: the provider receiving the GPU objects
	//   - descriptor: the layout of the group
	//
	// Returns:
	//   - error: an error for non-buffer entries or failed GPU creation
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// Draw records one draw of p into the current frame, binding groups in order from index 0.
	//
	// Parameters:
	//   - p: a registered pipeline
	//   - groups: the bind groups of the pipeline
	//
	// Returns:
	//   - error: an error outside a frame or for uninitialized resources
	Draw(p pipeline.Pipeline, groups ...bind_group_provider.BindGroupProvider) error

	// BeginFrame acquires the next surface texture and begins the frame's render pass.
	//
	// Returns:
	//   - error: an error if the surface texture cannot be acquired
	BeginFrame() error

	// EndFrame ends the render pass and submits the frame's commands.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// Release frees all GPU resources held by the backend.
	Release()
}
