package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records the calls the renderer makes.
type fakeBackend struct {
	calls []string

	width, height int
	presentMode   PresentMode
	clearColor    ClearColor
	cameraSize    uint64
	cameraWrites  [][]byte

	registered  pipeline.Pipeline
	groupLayout wgpu.BindGroupLayoutDescriptor
	drawn       []bind_group_provider.BindGroupProvider

	registerErr error
	beginErr    error
	drawErr     error
}

var _ RendererBackend = &fakeBackend{}

func (f *fakeBackend) ConfigureSurface(w, h int) {
	f.calls = append(f.calls, "configure")
	f.width, f.height = w, h
}
func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = mode }
func (f *fakeBackend) SetClearColor(color ClearColor) { f.clearColor = color }
func (f *fakeBackend) InitCameraBuffer(size uint64) error {
	f.cameraSize = size
	return nil
}
func (f *fakeBackend) WriteCameraBuffer(data []byte) { f.cameraWrites = append(f.cameraWrites, data) }
func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.calls = append(f.calls, "register")
	f.registered = p
	return f.registerErr
}
func (f *fakeBackend) InitBindGroup(_ bind_group_provider.BindGroupProvider, d wgpu.BindGroupLayoutDescriptor) error {
	f.calls = append(f.calls, "bind group")
	f.groupLayout = d
	return nil
}
func (f *fakeBackend) Draw(p pipeline.Pipeline, groups ...bind_group_provider.BindGroupProvider) error {
	f.calls = append(f.calls, "draw")
	f.drawn = groups
	return f.drawErr
}
func (f *fakeBackend) BeginFrame() error {
	f.calls = append(f.calls, "begin")
	return f.beginErr
}
func (f *fakeBackend) EndFrame() { f.calls = append(f.calls, "end") }
func (f *fakeBackend) Present() { f.calls = append(f.calls, "present") }
func (f *fakeBackend) Release() { f.calls = append(f.calls, "release") }

func newTestRenderer(t *testing.T, fb *fakeBackend, options ...RendererBuilderOption) *rendererImpl {
	t.Helper()
	r := &rendererImpl{
		backend:     fb,
		backendType: BackendTypeWGPU,
		presentMode: PresentModeVSync,
		clearColor:  ClearColor{A: 1},
		width:       1280,
		height:      720,
	}
	for _, option := range options {
		option(r)
	}
	require.NoError(t, r.init())
	fb.calls = nil
	return r
}

func TestRenderer_Init(t *testing.T) {
	fb := &fakeBackend{}
	bg := ClearColor{R: 0.05, G: 0.05, B: 0.08, A: 1}
	r := newTestRenderer(t, fb, WithPresentMode(PresentModeUncapped), WithClearColor(bg))

	var uniform camera.GPUCameraUniform
	assert.Equal(t, uint64(uniform.Size()), fb.cameraSize)
	assert.Equal(t, PresentModeUncapped, fb.presentMode)
	assert.Equal(t, bg, fb.clearColor)
	assert.Equal(t, 1280, fb.width)
	assert.Equal(t, 720, fb.height)

	require.NotNil(t, fb.registered)
	assert.Equal(t, SpherePipelineKey, fb.registered.PipelineKey())
	require.Len(t, fb.groupLayout.Entries, 1)
	assert.Equal(t, uint64(uniform.Size()), fb.groupLayout.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, "Camera", r.cameraGroup.Label())
}

func TestRenderer_InitRegisterError(t *testing.T) {
	fb := &fakeBackend{registerErr: errors.New("no adapter")}
	r := &rendererImpl{backend: fb, width: 640, height: 480}
	err := r.init()
	require.Error(t, err)
	assert.ErrorIs(t, err, fb.registerErr)
	assert.Contains(t, err.Error(), SpherePipelineKey)
}

func TestRenderer_RenderFrame(t *testing.T) {
	fb := &fakeBackend{}
	r := newTestRenderer(t, fb)

	require.NoError(t, r.RenderFrame())
	assert.Equal(t, []string{"begin", "draw", "end", "present"}, fb.calls)
	require.Len(t, fb.drawn, 1)
	assert.Same(t, r.cameraGroup, fb.drawn[0])
}

func TestRenderer_RenderFrameErrors(t *testing.T) {
	t.Run("begin", func(t *testing.T) {
		fb := &fakeBackend{}
		r := newTestRenderer(t, fb)
		fb.beginErr = errors.New("surface lost")

		err := r.RenderFrame()
		assert.ErrorIs(t, err, fb.beginErr)
		assert.Equal(t, []string{"begin"}, fb.calls)
	})
	t.Run("draw", func(t *testing.T) {
		fb := &fakeBackend{}
		r := newTestRenderer(t, fb)
		fb.drawErr = errors.New("not registered")

		err := r.RenderFrame()
		assert.ErrorIs(t, err, fb.drawErr)
		assert.Equal(t, []string{"begin", "draw", "end", "present"}, fb.calls)
	})
}

func TestRenderer_WriteCamera(t *testing.T) {
	fb := &fakeBackend{}
	r := newTestRenderer(t, fb)

	c := camera.NewCamera()
	r.WriteCamera(c.Uniform())
	require.Len(t, fb.cameraWrites, 1)
	assert.Len(t, fb.cameraWrites[0], 144)
	assert.Nil(t, r.CameraBuffer())
}

func TestRenderer_ResizeAndModes(t *testing.T) {
	fb := &fakeBackend{}
	r := newTestRenderer(t, fb)

	r.Resize(0, 300)
	w, h := r.Size()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
	assert.Empty(t, fb.calls)

	r.Resize(800, 600)
	w, h = r.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, 800, fb.width)

	r.SetPresentMode(PresentModeUncapped)
	assert.Equal(t, PresentModeUncapped, r.PresentMode())
	assert.Equal(t, PresentModeUncapped, fb.presentMode)

	color := ClearColor{R: 1, A: 1}
	r.SetClearColor(color)
	assert.Equal(t, color, fb.clearColor)
}

func TestSpherePipeline(t *testing.T) {
	p, err := newSpherePipeline()
	require.NoError(t, err)
	require.NoError(t, p.Validate())
	assert.Equal(t, uint32(3), p.VertexCount())

	layouts := p.BindGroupLayoutDescriptors()
	require.Len(t, layouts, 1)
	entry := layouts[0].Entries[0]
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, entry.Visibility)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entry.Buffer.Type)

	var uniform camera.GPUCameraUniform
	assert.Equal(t, uint64(uniform.Size()), entry.Buffer.MinBindingSize)
	assert.Contains(t, sphereShaderSource(), "struct CameraUniform")
}
