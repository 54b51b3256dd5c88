package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithOrbitSpeed sets the share of the field of view turned per orbit step.
// Values <= 0 are ignored.
//
// Parameters:
//   - speed: the fraction of the view angle per step
//
// Returns:
//   - CameraControllerOption: functional option to set the orbit speed
func WithOrbitSpeed(speed float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if speed > 0 {
			cc.orbitSpeed = speed
		}
	}
}

// WithZoomSpeed sets how many zoom levels one unit of Zoom delta moves.
// Values <= 0 are ignored.
//
// Parameters:
//   - speed: zoom levels per unit delta
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom speed
func WithZoomSpeed(speed float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if speed > 0 {
			cc.zoomSpeed = speed
		}
	}
}
