package navigation

import "gonum.org/v1/gonum/spatial/r2"

// SpherePosCalculatorOption is a functional option for configuring a SpherePosCalculator.
type SpherePosCalculatorOption func(*spherePosCalculatorImpl)

// WithResolution sets the initial screen resolution.
//
// Parameters:
//   - width, height: resolution in pixels
//
// Returns:
//   - SpherePosCalculatorOption: functional option to set the resolution
func WithResolution(width, height int) SpherePosCalculatorOption {
	return func(c *spherePosCalculatorImpl) {
		c.view.Width = width
		c.view.Height = height
	}
}

// WithViewAngle sets the initial field of view along the larger screen dimension.
//
// Parameters:
//   - angle: view angle in radians
//
// Returns:
//   - SpherePosCalculatorOption: functional option to set the view angle
func WithViewAngle(angle float64) SpherePosCalculatorOption {
	return func(c *spherePosCalculatorImpl) {
		c.view.ViewAngle = angle
	}
}

// WithEyeDistance sets the initial distance from the sphere center to the eye.
//
// Parameters:
//   - d: eye distance in (0, 1)
//
// Returns:
//   - SpherePosCalculatorOption: functional option to set the eye distance
func WithEyeDistance(d float64) SpherePosCalculatorOption {
	return func(c *spherePosCalculatorImpl) {
		c.view.EyeDistance = d
	}
}

// WithCenter sets the initial view direction.
//
// Parameters:
//   - azimuth, polar: the center orientation in radians
//
// Returns:
//   - SpherePosCalculatorOption: functional option to set the view direction
func WithCenter(azimuth, polar float64) SpherePosCalculatorOption {
	return func(c *spherePosCalculatorImpl) {
		c.fixedScreenPos = r2.Vec{}
		c.fixedSpherePos = NewSpherePoint(azimuth, polar)
	}
}
