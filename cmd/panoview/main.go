// panoview opens a window onto a panorama sphere that can be dragged, flung and zoomed.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-pano/engine"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/navigation"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/window"
	"github.com/charmbracelet/fang"
	"github.com/golang/geo/s1"
	"github.com/spf13/cobra"
)

var version = "dev"

type options struct {
	azimuth     float64
	polar       float64
	zoom        int
	eyeDistance float64
	width       int
	height      int
	title       string
	vsync       bool
	software    bool
	profile     bool
	frameLimit  float64
	orbitStep   float64
}

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "panoview",
		Short: "Look around inside a panorama sphere",
		Long: `panoview opens a window looking out from inside the unit sphere.

Drag with the left mouse button to turn the view; the grabbed point stays
under the pointer and a quick release keeps the view turning for a moment.
Arrow keys turn the view in steps. Scroll or press +/- to zoom, R to reset
the view, F for fullscreen and right-click to log the sphere coordinates
under the pointer.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.azimuth, "azimuth", 0, "Initial view azimuth in degrees")
	flags.Float64Var(&opts.polar, "polar", 0, "Initial view elevation in degrees, clamped to [-90, 90]")
	flags.IntVarP(&opts.zoom, "zoom", "z", navigation.DefaultZoomLevel,
		fmt.Sprintf("Initial zoom level (%d = widest, %d = narrowest)", navigation.MinZoomLevel, navigation.MaxZoomLevel))
	flags.Float64Var(&opts.eyeDistance, "eye-distance", 0.5, "Eye distance behind the sphere center, in (0, 1)")
	flags.IntVar(&opts.width, "width", 1280, "Window width in pixels")
	flags.IntVar(&opts.height, "height", 720, "Window height in pixels")
	flags.StringVar(&opts.title, "title", "Panorama", "Window title")
	flags.BoolVar(&opts.vsync, "vsync", true, "Wait for vertical blank when presenting")
	flags.BoolVar(&opts.software, "software", false, "Force the software fallback adapter")
	flags.BoolVarP(&opts.profile, "profile", "p", false, "Log frame and memory statistics every second")
	flags.Float64Var(&opts.frameLimit, "frame-limit", 0, "Maximum frames per second (0 = uncapped)")
	flags.Float64Var(&opts.orbitStep, "orbit-step", 0.1, "Share of the field of view turned per arrow key press")

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", opts.width, opts.height)
	}

	calc := navigation.NewSpherePosCalculator(
		navigation.WithResolution(opts.width, opts.height),
		navigation.WithEyeDistance(opts.eyeDistance),
		navigation.WithCenter((s1.Angle(opts.azimuth) * s1.Degree).Radians(), (s1.Angle(opts.polar) * s1.Degree).Radians()),
	)
	if err := calc.ViewParameters().Validate("panoview"); err != nil {
		return err
	}
	nav := navigation.NewNavigator(
		navigation.WithCalculator(calc),
		navigation.WithZoomLevel(opts.zoom),
	)

	win := window.NewWindow(
		window.WithTitle(opts.title),
		window.WithWidth(opts.width),
		window.WithHeight(opts.height),
	)

	presentMode := renderer.PresentModeVSync
	if !opts.vsync {
		presentMode = renderer.PresentModeUncapped
	}
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(opts.software),
		renderer.WithClearColor(renderer.ClearColor{R: 0.05, G: 0.05, B: 0.08, A: 1}),
	)

	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithNavigator(nav),
		engine.WithCameraController(camera.NewCameraController(nav, camera.WithOrbitSpeed(opts.orbitStep))),
		engine.WithRenderer(r),
		engine.WithTitle(opts.title),
		engine.WithProfiling(opts.profile),
		engine.WithRenderFrameLimit(opts.frameLimit),
	)
	e.Run()
	return nil
}
