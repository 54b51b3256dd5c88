package engine

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/navigation"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

type fakeWindow struct {
	width, height int
	title         string
	fullscreen    bool
	closeRequests int

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(delta float64)
	onKeyDown     func(keyCode uint32)
	onKeyUp       func(keyCode uint32)
	onPointerDown func(x, y float64)
	onPointerUp   func(x, y float64)
	onPointerMove func(x, y float64)
	onPick        func(x, y float64)
}

func (w *fakeWindow) SetUpdateCallback(cb func()) { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetScrollCallback(cb func(delta float64)) { w.onScroll = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32)) { w.onKeyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(cb func(keyCode uint32)) { w.onKeyUp = cb }
func (w *fakeWindow) SetPointerDownCallback(cb func(x, y float64)) { w.onPointerDown = cb }
func (w *fakeWindow) SetPointerUpCallback(cb func(x, y float64)) { w.onPointerUp = cb }
func (w *fakeWindow) SetPointerMoveCallback(cb func(x, y float64)) { w.onPointerMove = cb }
func (w *fakeWindow) SetPickCallback(cb func(x, y float64)) { w.onPick = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) SetTitle(title string) { w.title = title }
func (w *fakeWindow) Title() string { return w.title }
func (w *fakeWindow) ToggleFullscreen() { w.fullscreen = !w.fullscreen }
func (w *fakeWindow) Fullscreen() bool { return w.fullscreen }
func (w *fakeWindow) IsRunning() bool { return w.closeRequests == 0 }
func (w *fakeWindow) RequestClose() { w.closeRequests++ }
func (w *fakeWindow) Close() error { return nil }
func (w *fakeWindow) ProcessMessages()                             {}
func (w *fakeWindow) Width() int { return w.width }
func (w *fakeWindow) Height() int { return w.height }

type fakeRenderer struct {
	width, height int
	frames        int
	uploads       []camera.GPUCameraUniform
	failNext      error
	released      bool
}

func (r *fakeRenderer) Resize(width, height int) { r.width, r.height = width, height }
func (r *fakeRenderer) Size() (int, int) { return r.width, r.height }
func (r *fakeRenderer) SetPresentMode(renderer.PresentMode) {}
func (r *fakeRenderer) PresentMode() renderer.PresentMode { return renderer.PresentModeVSync }
func (r *fakeRenderer) SetClearColor(renderer.ClearColor) {}
func (r *fakeRenderer) CameraBuffer() *wgpu.Buffer { return nil }
func (r *fakeRenderer) Release() { r.released = true }
func (r *fakeRenderer) WriteCamera(u camera.GPUCameraUniform) { r.uploads = append(r.uploads, u) }
func (r *fakeRenderer) RenderFrame() error {
	if err := r.failNext; err != nil {
		r.failNext = nil
		return err
	}
	r.frames++
	return nil
}

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

func newTestEngine(t *testing.T, options ...EngineBuilderOption) (*engine, *fakeWindow, *fakeRenderer, *testClock) {
	t.Helper()
	win := &fakeWindow{width: 800, height: 600}
	r := &fakeRenderer{width: 800, height: 600}
	clock := &testClock{t: time.Unix(1700000000, 0)}

	opts := append([]EngineBuilderOption{
		WithWindow(win),
		WithRenderer(r),
		WithClock(clock.now),
		WithIdleDelay(0),
		WithTitle("Test"),
	}, options...)
	e, ok := NewEngine(opts...).(*engine)
	require.True(t, ok)
	return e, win, r, clock
}

func TestEngine_Wiring(t *testing.T) {
	e, win, r, _ := newTestEngine(t)

	w, h := e.Navigator().Calculator().Resolution()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Same(t, r, e.Renderer())
	assert.Same(t, win, e.Window())
	assert.NotNil(t, e.Camera().Source())
	assert.NotNil(t, e.Controller())

	require.NotNil(t, win.onUpdate)
	require.NotNil(t, win.onPointerDown)
	require.NotNil(t, win.onPick)
}

func TestEngine_RedrawOnDemand(t *testing.T) {
	e, win, r, clock := newTestEngine(t)

	assert.True(t, e.Update(clock.now()), "first frame")
	assert.Equal(t, 1, r.frames)
	require.Len(t, r.uploads, 1)
	assert.Equal(t, e.Camera().Uniform(), r.uploads[0])
	assert.True(t, strings.HasPrefix(win.title, "Test | az 0.0° polar 0.0° | fov 60°"), win.title)

	assert.False(t, e.Update(clock.advance(16*time.Millisecond)), "nothing changed")
	assert.Equal(t, 1, r.frames)

	win.onScroll(1)
	win.onUpdate()
	assert.Equal(t, 2, r.frames)
	assert.Equal(t, navigation.DefaultZoomLevel+1, e.Navigator().ZoomLevel())
}

func TestEngine_DragAndFling(t *testing.T) {
	e, win, r, clock := newTestEngine(t)
	e.Update(clock.now())

	win.onPointerDown(400, 300)
	assert.True(t, e.Navigator().Panning())

	clock.advance(10 * time.Millisecond)
	win.onPointerMove(440, 300)
	clock.advance(10 * time.Millisecond)
	win.onPointerMove(480, 300)
	clock.advance(5 * time.Millisecond)
	win.onPointerUp(480, 300)

	assert.False(t, e.Navigator().Panning())
	_, flinging := e.Navigator().Motion()
	assert.True(t, flinging)

	center, err := e.Navigator().CenterOrientation()
	require.NoError(t, err)
	assert.Greater(t, center.Azimuth, 0.0, "dragging right turns the view towards positive azimuth")

	frames := r.frames
	for range 10 {
		clock.advance(100 * time.Millisecond)
		win.onUpdate()
	}
	assert.Equal(t, frames+10, r.frames)

	clock.advance(5 * time.Second)
	win.onUpdate()
	win.onUpdate()
	_, flinging = e.Navigator().Motion()
	assert.False(t, flinging)
}

func TestEngine_Keys(t *testing.T) {
	e, win, _, clock := newTestEngine(t)

	win.onKeyDown(common.KeyEqual)
	win.onKeyDown(common.KeyKPAdd)
	assert.Equal(t, navigation.DefaultZoomLevel+2, e.Navigator().ZoomLevel())
	win.onKeyDown(common.KeyMinus)
	win.onKeyDown(common.KeyKPSubtract)
	win.onKeyDown(common.KeyMinus)
	assert.Equal(t, navigation.DefaultZoomLevel-1, e.Navigator().ZoomLevel())

	e.Navigator().SetViewDirection(2, 0.4)
	win.onKeyDown(common.KeyR)
	center, err := e.Navigator().CenterOrientation()
	require.NoError(t, err)
	assert.Equal(t, navigation.NewSpherePoint(0, 0), center)

	win.onKeyDown(common.KeyF)
	assert.True(t, win.Fullscreen())
	win.onKeyDown(common.KeyEsc)
	assert.False(t, win.Fullscreen())
	assert.Zero(t, win.closeRequests)

	win.onKeyDown(common.KeyEsc)
	assert.Equal(t, 1, win.closeRequests)
	e.Quit()
	assert.Equal(t, 1, win.closeRequests, "quit only once")

	assert.True(t, e.Update(clock.now()))
}

func TestEngine_ArrowKeysAndScroll(t *testing.T) {
	e, win, _, clock := newTestEngine(t)
	e.Update(clock.now())
	step := e.Controller().StepAngle()

	win.onKeyDown(common.KeyLeft)
	win.onKeyDown(common.KeyUp)
	center, err := e.Navigator().CenterOrientation()
	require.NoError(t, err)
	assert.InDelta(t, step, center.Azimuth, 1e-9)
	assert.InDelta(t, step, center.Polar, 1e-9)
	assert.True(t, e.Update(clock.now()), "a key step redraws")

	win.onKeyDown(common.KeyRight)
	win.onKeyDown(common.KeyDown)
	center, err = e.Navigator().CenterOrientation()
	require.NoError(t, err)
	assert.InDelta(t, 0, center.Azimuth, 1e-9)
	assert.InDelta(t, 0, center.Polar, 1e-9)

	win.onScroll(0.3)
	assert.Equal(t, navigation.DefaultZoomLevel+1, e.Navigator().ZoomLevel())
	win.onScroll(-2)
	assert.Equal(t, navigation.DefaultZoomLevel-1, e.Navigator().ZoomLevel())
}

func TestEngine_ResizeAndPick(t *testing.T) {
	e, win, r, clock := newTestEngine(t)
	e.Update(clock.now())

	win.width, win.height = 1024, 768
	win.onResize(1024, 768)
	assert.Equal(t, 1024, r.width)
	w, h := e.Navigator().Calculator().Resolution()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
	assert.True(t, e.Update(clock.now()))

	f := e.Camera().Frustum()
	sx, sy := e.Navigator().Calculator().ViewParameters().ScreenFactors()
	assert.InDelta(t, sx/sy, f.Aspect(), 1e-9)

	win.onResize(0, 0)
	assert.Equal(t, 1024, r.width, "minimized window keeps the surface")

	// Picking logs only and leaves the view untouched.
	win.onPick(768, 384)
	assert.False(t, e.Update(clock.now()))
}

func TestEngine_DroppedFrames(t *testing.T) {
	e, _, r, clock := newTestEngine(t)

	r.failNext = errors.New("surface lost")
	assert.False(t, e.Update(clock.now()))
	assert.True(t, e.Update(clock.now()), "failed frames are retried")
	assert.Equal(t, 1, r.frames)

	// A view that cannot be computed is dropped and the camera keeps its matrices.
	before := e.Camera().ViewProjectionMatrix()
	calc := e.Navigator().Calculator()
	calc.SetFixedPoint(r2.Vec{X: 0.5}, navigation.NewSpherePoint(0.2, 0))
	calc.SetEyeDistance(1.5)
	e.Navigator().RequestRedraw()
	assert.False(t, e.Update(clock.now()))
	assert.Equal(t, before, e.Camera().ViewProjectionMatrix())
}

func TestEngine_Headless(t *testing.T) {
	e := NewEngine(WithNavigator(navigation.NewNavigator(navigation.WithZoomLevel(0))))
	assert.Nil(t, e.Window())
	assert.True(t, e.Update(time.Now()))
	assert.InDelta(t, 2*math.Pi/3, e.Navigator().Calculator().ViewAngle(), 1e-12)
	e.Run()
	e.Quit()
}

func TestEngine_FrameLimit(t *testing.T) {
	e, _, _, _ := newTestEngine(t, WithRenderFrameLimit(50))
	assert.Equal(t, 20*time.Millisecond, e.renderFrameLimit)
	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
}
