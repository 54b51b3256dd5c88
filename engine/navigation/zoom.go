package navigation

import "github.com/golang/geo/s1"

// zoomAngles maps zoom levels to view angles, widest first. The steps shrink towards telephoto so that each level
// changes the apparent magnification by roughly the same factor.
var zoomAngles = [...]s1.Angle{
	120 * s1.Degree,
	110 * s1.Degree,
	100 * s1.Degree,
	90 * s1.Degree,
	80 * s1.Degree,
	70 * s1.Degree,
	60 * s1.Degree,
	52 * s1.Degree,
	45 * s1.Degree,
	38 * s1.Degree,
	32 * s1.Degree,
	26 * s1.Degree,
	21 * s1.Degree,
	17 * s1.Degree,
	13 * s1.Degree,
	10 * s1.Degree,
	8 * s1.Degree,
	6 * s1.Degree,
	4 * s1.Degree,
}

const (
	// MinZoomLevel is the widest zoom level.
	MinZoomLevel = 0
	// MaxZoomLevel is the narrowest zoom level.
	MaxZoomLevel = len(zoomAngles) - 1
	// DefaultZoomLevel shows a 60° view.
	DefaultZoomLevel = 6
)

// ClampZoomLevel limits level to [MinZoomLevel, MaxZoomLevel].
func ClampZoomLevel(level int) int {
	return max(MinZoomLevel, min(MaxZoomLevel, level))
}

// ZoomViewAngle returns the view angle in radians for a zoom level. Out of range levels are clamped.
func ZoomViewAngle(level int) float64 {
	return zoomAngles[ClampZoomLevel(level)].Radians()
}
