package renderer

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackendImpl struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode // defaults to PresentModeFifo (VSync)
	clearColor  wgpu.Color

	cameraBuffer *wgpu.Buffer

	// Frame state between BeginFrame and Present
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	RendererBackend
	Device() *wgpu.Device
	Queue() *wgpu.Queue
	Surface() *wgpu.Surface
	CameraBuffer() *wgpu.Buffer
}

var _ wgpuRendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		clearColor:  wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Panorama Device",
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	if width <= 0 || height <= 0 {
		// Minimized window; keep the previous configuration.
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	// The swapchain view is set per-frame in BeginFrame.
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       nil,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: b.clearColor,
			},
		},
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) SetClearColor(color ClearColor) {
	b.clearColor = wgpu.Color{R: color.R, G: color.G, B: color.B, A: color.A}
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = b.clearColor
	}
}

func (b *wgpuRendererBackendImpl) InitCameraBuffer(size uint64) error {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "Camera Uniform Buffer",
		Size:             size,
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return fmt.Errorf("failed to create camera uniform buffer: %w", err)
	}
	if b.cameraBuffer != nil {
		b.cameraBuffer.Release()
	}
	b.cameraBuffer = buf
	return nil
}

func (b *wgpuRendererBackendImpl) WriteCameraBuffer(data []byte) {
	if b.cameraBuffer == nil || len(data) == 0 {
		return
	}
	b.queue.WriteBuffer(b.cameraBuffer, 0, data)
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if b.surfaceFormat == nil {
		return errors.New("surface must be configured before creating a render pipeline")
	}

	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return fmt.Errorf("failed to create shader module %s: %w", vertexShader.Key(), err)
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return fmt.Errorf("failed to create shader module %s: %w", fragmentShader.Key(), err)
	}
	defer fs.Release()

	merged := p.BindGroupLayoutDescriptors()
	maxGroup := -1
	for g := range merged {
		maxGroup = max(maxGroup, g)
	}
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	defer func() {
		for _, layout := range bindGroupLayouts {
			if layout != nil {
				layout.Release()
			}
		}
	}()
	for g := range bindGroupLayouts {
		desc, ok := merged[g]
		if !ok {
			return fmt.Errorf("pipeline %s skips bind group %d", p.PipelineKey(), g)
		}
		desc.Label = fmt.Sprintf("%s Group %d", p.PipelineKey(), g)
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					Blend:     p.BlendState(),
					WriteMask: p.WriteMask(),
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}
	p.Release()
	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	if len(descriptor.Entries) == 0 {
		return errors.New("bind group has no entries")
	}

	layout := provider.BindGroupLayout()
	if layout == nil {
		descriptor.Label = provider.Label() + " Bind Group Layout"
		var err error
		layout, err = b.device.CreateBindGroupLayout(&descriptor)
		if err != nil {
			return err
		}
		provider.SetBindGroupLayout(layout)
	}

	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		var usage wgpu.BufferUsage
		switch entry.Buffer.Type {
		case wgpu.BufferBindingTypeUniform:
			usage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
		case wgpu.BufferBindingTypeStorage, wgpu.BufferBindingTypeReadOnlyStorage:
			usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
		default:
			return fmt.Errorf("binding %d of %s is not a buffer", binding, provider.Label())
		}

		buf := provider.Buffer(binding)
		if buf == nil {
			var err error
			buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: fmt.Sprintf("%s Buffer %d", provider.Label(), binding),
				Size:  entry.Buffer.MinBindingSize,
				Usage: usage,
			})
			if err != nil {
				return err
			}
			provider.SetBuffer(binding, buf)
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: entry.Binding,
			Buffer:  buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	if old := provider.BindGroup(); old != nil {
		old.Release()
	}
	provider.SetBindGroup(bindGroup)
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(p pipeline.Pipeline, groups ...bind_group_provider.BindGroupProvider) error {
	if b.framePass == nil {
		return errors.New("draw outside of a frame")
	}
	renderPipeline := p.RenderPipeline()
	if renderPipeline == nil {
		return fmt.Errorf("pipeline %s is not registered", p.PipelineKey())
	}

	b.framePass.SetPipeline(renderPipeline)
	for i, g := range groups {
		if g.BindGroup() == nil {
			return fmt.Errorf("bind group %s is not initialized", g.Label())
		}
		b.framePass.SetBindGroup(uint32(i), g.BindGroup(), nil)
	}
	b.framePass.Draw(p.VertexCount(), 1, 0, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	if b.renderPassDescriptor == nil {
		return errors.New("surface is not configured")
	}
	// If a previous frame's surface texture is still held, do not acquire another one.
	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	b.renderPassDescriptor.ColorAttachments[0].View = view
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	if b.framePass == nil {
		return
	}
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	if b.cameraBuffer != nil {
		b.cameraBuffer.Release()
		b.cameraBuffer = nil
	}
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) Surface() *wgpu.Surface {
	return b.surface
}

func (b *wgpuRendererBackendImpl) CameraBuffer() *wgpu.Buffer {
	return b.cameraBuffer
}
