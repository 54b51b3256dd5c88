package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pano/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

type rendererImpl struct {
	backend              RendererBackend
	backendType          RendererBackendType
	forceFallbackAdapter bool
	presentMode          PresentMode
	clearColor           ClearColor

	width  int
	height int

	sphere      pipeline.Pipeline
	cameraGroup bind_group_provider.BindGroupProvider
}

// Renderer owns the GPU device and presentation surface and draws one frame of the panorama view per call.
type Renderer interface {
	// Resize reconfigures the surface to the new dimensions.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	Resize(width, height int)

	// Size returns the current surface dimensions.
	//
	// Returns:
	//   - int: the surface width in pixels
	//   - int: the surface height in pixels
	Size() (int, int)

	// SetPresentMode changes the surface present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// PresentMode returns the active present mode.
	//
	// Returns:
	//   - PresentMode: the active present mode
	PresentMode() PresentMode

	// SetClearColor changes the color each frame is cleared to.
	//
	// Parameters:
	//   - color: the new clear color
	SetClearColor(color ClearColor)

	// WriteCamera uploads the camera uniform for the next frame.
	//
	// Parameters:
	//   - uniform: the camera uniform to upload
	WriteCamera(uniform camera.GPUCameraUniform)

	// CameraBuffer returns the GPU buffer holding the camera uniform.
	//
	// Returns:
	//   - *wgpu.Buffer: the camera uniform buffer
	CameraBuffer() *wgpu.Buffer

	// RenderFrame clears the surface, draws the view sphere, then submits and presents the frame.
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	RenderFrame() error

	// Release frees all GPU resources.
	Release()
}

var _ Renderer = &rendererImpl{}

// NewRenderer creates a new Renderer bound to the given window's surface.
//
// Parameters:
//   - backendType: the GPU backend to create
//   - win: the window whose surface the renderer presents to
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the newly created renderer
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := &rendererImpl{
		backendType: backendType,
		presentMode: PresentModeVSync,
		clearColor:  ClearColor{A: 1},
		width:       win.Width(),
		height:      win.Height(),
	}
	for _, option := range options {
		option(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter)
	default:
		panic(fmt.Sprintf("unsupported renderer backend type: %d", backendType))
	}

	if err := r.init(); err != nil {
		r.backend.Release()
		panic(err)
	}
	return r
}

// init configures the surface and creates the camera buffer and the sphere pass on the backend.
func (r *rendererImpl) init() error {
	r.backend.SetPresentMode(r.presentMode)
	r.backend.SetClearColor(r.clearColor)
	r.backend.ConfigureSurface(r.width, r.height)

	var uniform camera.GPUCameraUniform
	if err := r.backend.InitCameraBuffer(uint64(uniform.Size())); err != nil {
		return err
	}

	sphere, err := newSpherePipeline()
	if err != nil {
		return err
	}
	if err := r.backend.RegisterRenderPipeline(sphere); err != nil {
		return fmt.Errorf("register %s: %w", sphere.PipelineKey(), err)
	}
	r.sphere = sphere

	r.cameraGroup = bind_group_provider.NewBindGroupProvider("Camera", bind_group_provider.WithBuffer(0, r.CameraBuffer()))
	if err := r.backend.InitBindGroup(r.cameraGroup, sphere.BindGroupLayoutDescriptors()[0]); err != nil {
		return fmt.Errorf("camera bind group: %w", err)
	}
	return nil
}

func (r *rendererImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width = width
	r.height = height
	r.backend.ConfigureSurface(width, height)
}

func (r *rendererImpl) Size() (int, int) {
	return r.width, r.height
}

func (r *rendererImpl) SetPresentMode(mode PresentMode) {
	r.presentMode = mode
	r.backend.SetPresentMode(mode)
	r.backend.ConfigureSurface(r.width, r.height)
}

func (r *rendererImpl) PresentMode() PresentMode {
	return r.presentMode
}

func (r *rendererImpl) SetClearColor(color ClearColor) {
	r.clearColor = color
	r.backend.SetClearColor(color)
}

func (r *rendererImpl) WriteCamera(uniform camera.GPUCameraUniform) {
	r.backend.WriteCameraBuffer(uniform.Marshal())
}

func (r *rendererImpl) CameraBuffer() *wgpu.Buffer {
	if wb, ok := r.backend.(wgpuRendererBackend); ok {
		return wb.CameraBuffer()
	}
	return nil
}

func (r *rendererImpl) RenderFrame() error {
	if err := r.backend.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	drawErr := r.backend.Draw(r.sphere, r.cameraGroup)
	r.backend.EndFrame()
	if drawErr != nil {
		// The cleared frame is still presented so the surface texture is returned.
		r.backend.Present()
		return fmt.Errorf("draw %s: %w", SpherePipelineKey, drawErr)
	}
	r.backend.Present()
	return nil
}

func (r *rendererImpl) Release() {
	if r.cameraGroup != nil {
		r.cameraGroup.Release()
	}
	if r.sphere != nil {
		r.sphere.Release()
	}
	r.backend.Release()
}
