package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/navigation"
	"github.com/Carmen-Shannon/oxy-pano/engine/profiler"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: a configured profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithWindow sets the window the engine takes input from and whose message loop drives it.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithNavigator sets the navigator driving the view.
//
// Parameters:
//   - n: a configured Navigator
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithNavigator(n navigation.Navigator) EngineBuilderOption {
	return func(e *engine) {
		e.navigator = n
	}
}

// WithCamera sets the camera. A camera without a view source is attached to the engine's navigator.
//
// Parameters:
//   - c: a Camera instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithCameraController sets the controller used for key and scroll steps.
// It must drive the engine's navigator.
//
// Parameters:
//   - cc: a CameraController
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCameraController(cc camera.CameraController) EngineBuilderOption {
	return func(e *engine) {
		e.controller = cc
	}
}

// WithRenderer sets the renderer frames are presented with.
//
// Parameters:
//   - r: a Renderer bound to the engine's window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithTitle sets the base window title the view readout is appended to. An empty title keeps the default.
//
// Parameters:
//   - title: the base title
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTitle(title string) EngineBuilderOption {
	return func(e *engine) {
		e.title = common.Coalesce(title, e.title)
	}
}

// WithClock replaces the time source used to stamp input events and frames.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}

// WithIdleDelay sets how long the loop sleeps after an iteration that drew nothing.
//
// Parameters:
//   - d: the idle sleep (0 disables it)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithIdleDelay(d time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.idleDelay = max(d, 0)
	}
}
