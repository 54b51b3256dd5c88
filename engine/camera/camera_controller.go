package camera

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-pano/engine/navigation"
)

// CameraController turns discrete input (arrow keys, scroll steps) into view changes on a navigator.
// Orbit steps are a fraction of the current field of view, so a step moves the panorama by the same
// share of the screen at every zoom level.
type CameraController interface {
	// OrbitLeft turns the view left by one orbit step.
	//
	// Returns:
	//   - error: the navigator's error if the view direction is unavailable
	OrbitLeft() error

	// OrbitRight turns the view right by one orbit step.
	//
	// Returns:
	//   - error: the navigator's error if the view direction is unavailable
	OrbitRight() error

	// OrbitUp tilts the view up by one orbit step, stopping at the pole.
	//
	// Returns:
	//   - error: the navigator's error if the view direction is unavailable
	OrbitUp() error

	// OrbitDown tilts the view down by one orbit step, stopping at the pole.
	//
	// Returns:
	//   - error: the navigator's error if the view direction is unavailable
	OrbitDown() error

	// Orbit turns the view by a number of orbit steps in each direction.
	// Positive x turns left and positive y tilts up.
	//
	// Parameters:
	//   - x: horizontal steps
	//   - y: vertical steps
	//
	// Returns:
	//   - error: the navigator's error if the view direction is unavailable
	Orbit(x, y float64) error

	// StepAngle returns the angle of one orbit step at the current zoom level.
	//
	// Returns:
	//   - float64: the step in radians
	StepAngle() float64

	// Zoom changes the zoom level. Positive delta zooms in; any non-zero delta moves at least one level.
	//
	// Parameters:
	//   - delta: scroll amount scaled by the zoom speed
	Zoom(delta float64)
}

type cameraControllerImpl struct {
	navigator navigation.Navigator

	// orbitSpeed is the share of the field of view turned per step
	orbitSpeed float64
	// zoomSpeed is the number of zoom levels per unit of Zoom delta
	zoomSpeed float64
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller driving the given navigator.
//
// Parameters:
//   - nav: the navigator whose view is changed
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(nav navigation.Navigator, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		navigator:  nav,
		orbitSpeed: 0.1,
		zoomSpeed:  1,
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) OrbitLeft() error {
	return cc.Orbit(1, 0)
}

func (cc *cameraControllerImpl) OrbitRight() error {
	return cc.Orbit(-1, 0)
}

func (cc *cameraControllerImpl) OrbitUp() error {
	return cc.Orbit(0, 1)
}

func (cc *cameraControllerImpl) OrbitDown() error {
	return cc.Orbit(0, -1)
}

func (cc *cameraControllerImpl) Orbit(x, y float64) error {
	if x == 0 && y == 0 {
		return nil
	}
	center, err := cc.navigator.CenterOrientation()
	if err != nil {
		return fmt.Errorf("orbit: %w", err)
	}
	step := cc.StepAngle()
	// Screen +x runs toward decreasing azimuth, so turning left increases it.
	cc.navigator.SetViewDirection(center.Azimuth+x*step, center.Polar+y*step)
	return nil
}

func (cc *cameraControllerImpl) StepAngle() float64 {
	return cc.orbitSpeed * cc.navigator.Calculator().ViewAngle()
}

func (cc *cameraControllerImpl) Zoom(delta float64) {
	if delta == 0 {
		return
	}
	steps := math.Round(delta * cc.zoomSpeed)
	if steps == 0 {
		steps = math.Copysign(1, delta)
	}
	cc.navigator.SetZoomLevel(cc.navigator.ZoomLevel() + int(steps))
}
