package navigation

// NavigatorOption is a functional option for configuring a Navigator.
type NavigatorOption func(*navigatorImpl)

// WithCalculator sets the SpherePosCalculator the navigator drives.
//
// Parameters:
//   - calc: a configured calculator
//
// Returns:
//   - NavigatorOption: functional option to set the calculator
func WithCalculator(calc SpherePosCalculator) NavigatorOption {
	return func(n *navigatorImpl) {
		n.calc = calc
	}
}

// WithZoomLevel sets the initial zoom level. The level is clamped to the zoom table.
//
// Parameters:
//   - level: zoom level, MinZoomLevel being the widest view
//
// Returns:
//   - NavigatorOption: functional option to set the zoom level
func WithZoomLevel(level int) NavigatorOption {
	return func(n *navigatorImpl) {
		n.zoomLevel = ClampZoomLevel(level)
	}
}
