package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/navigation"
	"github.com/Carmen-Shannon/oxy-pano/engine/profiler"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/window"
	"github.com/golang/geo/s1"
	"gonum.org/v1/gonum/spatial/r2"
)

// engine implements the Engine interface.
// Everything runs on the thread that owns the window: input callbacks mutate the navigator and
// the update callback draws a frame only when the navigator reports a change.
type engine struct {
	window     window.Window
	navigator  navigation.Navigator
	camera     camera.Camera
	controller camera.CameraController
	renderer   renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	title string
	home  navigation.SphericalPoint
	now   func() time.Time

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	idleDelay        time.Duration // sleep when nothing was drawn

	quitOnce sync.Once
}

// Engine is the main entry point for the panorama viewer.
// It wires window input into the navigator and pushes the resulting view through the camera to the renderer.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, or nil when running headless
	Window() window.Window

	// Navigator returns the navigator driving the view.
	//
	// Returns:
	//   - navigation.Navigator: the navigator
	Navigator() navigation.Navigator

	// Camera returns the camera fed by the navigator.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Controller returns the controller that maps keys and scroll steps to view changes.
	//
	// Returns:
	//   - camera.CameraController: the controller
	Controller() camera.CameraController

	// Renderer returns the renderer, or nil when none was attached.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Update runs one loop iteration: advances any fling and redraws if the view changed.
	//
	// Parameters:
	//   - now: the frame time
	//
	// Returns:
	//   - bool: true if a frame was drawn
	Update(now time.Time) bool

	// ResetView points the camera back at the direction it started with.
	ResetView()

	// Run starts the window message loop (blocks until the window closes) and releases resources afterwards.
	Run()

	// Quit asks the message loop to stop. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options.
// A navigator and a camera following it are created when none are supplied; the navigator is sized to the window.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		profiler:  profiler.NewProfiler(),
		title:     "Panorama",
		now:       time.Now,
		idleDelay: 2 * time.Millisecond,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.navigator == nil {
		e.navigator = navigation.NewNavigator()
	}
	if e.window != nil {
		e.navigator.Resize(e.window.Width(), e.window.Height())
	}
	if e.camera == nil {
		e.camera = camera.NewCamera(camera.WithSource(e.navigator))
	} else if e.camera.Source() == nil {
		e.camera.SetSource(e.navigator)
	}
	if e.controller == nil {
		e.controller = camera.NewCameraController(e.navigator)
	}
	if home, err := e.navigator.CenterOrientation(); err == nil {
		e.home = home
	} else {
		log.Printf("[Engine] initial view unavailable: %v", err)
	}

	if e.window != nil {
		e.bindWindow()
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Navigator() navigation.Navigator {
	return e.navigator
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Controller() camera.CameraController {
	return e.controller
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) ResetView() {
	e.navigator.SetViewDirection(e.home.Azimuth, e.home.Polar)
}

func (e *engine) Run() {
	if e.window == nil {
		return
	}
	e.window.ProcessMessages()

	if e.renderer != nil {
		e.renderer.Release()
	}
	if err := e.window.Close(); err != nil {
		log.Printf("[Engine] close window: %v", err)
	}
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

func (e *engine) Update(now time.Time) bool {
	redrawn := false
	if e.navigator.Tick(now) {
		redrawn = e.drawFrame()
	}
	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(redrawn)
	}
	return redrawn
}

// drawFrame pushes the navigator's view through the camera and presents it.
// A frame whose view cannot be computed is dropped; the camera keeps its last matrices.
func (e *engine) drawFrame() bool {
	if err := e.camera.Update(); err != nil {
		log.Printf("[Engine] dropped frame: %v", err)
		return false
	}

	if e.renderer != nil {
		e.renderer.WriteCamera(e.camera.Uniform())
		if err := e.renderer.RenderFrame(); err != nil {
			log.Printf("[Engine] render frame: %v", err)
			// Try again next iteration, e.g. after a surface reconfigure.
			e.navigator.RequestRedraw()
			return false
		}
	}

	if e.window != nil {
		e.window.SetTitle(e.hudTitle())
	}
	return true
}

// hudTitle formats the window title with the current view direction and field of view.
func (e *engine) hudTitle() string {
	center, err := e.navigator.CenterOrientation()
	if err != nil {
		return e.title
	}
	az, polar := center.Degrees()
	fov := s1.Angle(e.navigator.Calculator().ViewAngle()).Degrees()
	return fmt.Sprintf("%s | az %.1f° polar %.1f° | fov %.0f° (zoom %d)", e.title, az, polar, fov, e.navigator.ZoomLevel())
}

// bindWindow registers the engine's input and frame handlers on the window.
func (e *engine) bindWindow() {
	e.window.SetResizeCallback(e.handleResize)
	e.window.SetPointerDownCallback(e.handlePointerDown)
	e.window.SetPointerMoveCallback(e.handlePointerMove)
	e.window.SetPointerUpCallback(e.handlePointerUp)
	e.window.SetPickCallback(e.handlePick)
	e.window.SetScrollCallback(e.handleScroll)
	e.window.SetKeyDownCallback(e.handleKeyDown)
	e.window.SetUpdateCallback(e.handleUpdate)
}

// pointer converts a window pixel position into a normalized screen position stamped with the event time.
func (e *engine) pointer(x, y float64) (r2.Vec, time.Time) {
	return navigation.NormalizePointer(x, y, e.window.Width(), e.window.Height()), e.now()
}

func (e *engine) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.navigator.Resize(width, height)
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
}

func (e *engine) handlePointerDown(x, y float64) {
	pos, now := e.pointer(x, y)
	if err := e.navigator.PointerDown(pos, now); err != nil {
		log.Printf("[Navigator] drag start dropped: %v", err)
	}
}

func (e *engine) handlePointerMove(x, y float64) {
	pos, now := e.pointer(x, y)
	if err := e.navigator.PointerMove(pos, now); err != nil {
		log.Printf("[Navigator] drag move dropped: %v", err)
	}
}

func (e *engine) handlePointerUp(x, y float64) {
	pos, now := e.pointer(x, y)
	if err := e.navigator.PointerMove(pos, now); err != nil {
		log.Printf("[Navigator] drag move dropped: %v", err)
	}
	if _, err := e.navigator.PointerUp(now); err != nil {
		log.Printf("[Navigator] drag end dropped: %v", err)
	}
}

func (e *engine) handlePick(x, y float64) {
	pos, _ := e.pointer(x, y)
	picked, err := e.navigator.Pick(pos)
	if err != nil {
		log.Printf("[Navigator] pick dropped: %v", err)
		return
	}
	center, err := e.navigator.CenterOrientation()
	if err != nil {
		log.Printf("[Navigator] pick %v", picked)
		return
	}
	log.Printf("[Navigator] pick %v, center %v", picked, center)
}

func (e *engine) handleScroll(delta float64) {
	e.controller.Zoom(delta)
}

func (e *engine) handleKeyDown(keyCode uint32) {
	switch keyCode {
	case common.KeyEqual, common.KeyKPAdd:
		e.navigator.ZoomIn()
	case common.KeyMinus, common.KeyKPSubtract:
		e.navigator.ZoomOut()
	case common.KeyLeft, common.KeyRight, common.KeyUp, common.KeyDown:
		e.orbit(keyCode)
	case common.KeyR:
		e.ResetView()
	case common.KeyF:
		e.window.ToggleFullscreen()
	case common.KeyEsc:
		if e.window.Fullscreen() {
			e.window.ToggleFullscreen()
			return
		}
		e.Quit()
	}
}

func (e *engine) orbit(keyCode uint32) {
	var err error
	switch keyCode {
	case common.KeyLeft:
		err = e.controller.OrbitLeft()
	case common.KeyRight:
		err = e.controller.OrbitRight()
	case common.KeyUp:
		err = e.controller.OrbitUp()
	case common.KeyDown:
		err = e.controller.OrbitDown()
	}
	if err != nil {
		log.Printf("[Navigator] key step dropped: %v", err)
	}
}

func (e *engine) handleUpdate() {
	start := e.now()
	if !e.Update(start) {
		if e.idleDelay > 0 {
			time.Sleep(e.idleDelay)
		}
		return
	}

	// Frame rate limiting
	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}
