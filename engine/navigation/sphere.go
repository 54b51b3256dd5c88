// Package navigation implements the sphere-navigation engine of the panorama viewer: the mapping between
// normalized screen positions and points on the unit sphere, the drag anchor that keeps the grabbed point under
// the pointer, and the inertial fling that follows a release.
package navigation

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// SphericalPoint is a point in spherical coordinates.
// Azimuth is the longitude-like angle around the +z axis and wraps at ±π.
// Polar is the latitude-like elevation from the equator and is clamped to [-π/2, π/2].
// Points on the viewing sphere have Radius 1.
type SphericalPoint struct {
	Radius  float64
	Azimuth float64
	Polar   float64
}

// NewSpherePoint returns the point on the unit sphere with the given angles.
// The azimuth is wrapped into (-π, π] and the polar angle clamped to [-π/2, π/2].
//
// Parameters:
//   - azimuth: angle around the polar axis in radians
//   - polar: elevation from the equator in radians
//
// Returns:
//   - SphericalPoint: the normalized point with radius 1
func NewSpherePoint(azimuth, polar float64) SphericalPoint {
	return SphericalPoint{
		Radius:  1,
		Azimuth: WrapAzimuth(azimuth),
		Polar:   ClampPolar(polar),
	}
}

// Cartesian converts the point to Cartesian coordinates with the polar axis along +z.
//
// Returns:
//   - r3.Vec: the Cartesian position
func (p SphericalPoint) Cartesian() r3.Vec {
	cosPolar := math.Cos(p.Polar)
	return r3.Vec{
		X: p.Radius * cosPolar * math.Cos(p.Azimuth),
		Y: p.Radius * cosPolar * math.Sin(p.Azimuth),
		Z: p.Radius * math.Sin(p.Polar),
	}
}

// Degrees returns the azimuth and polar angle in degrees.
func (p SphericalPoint) Degrees() (azimuth, polar float64) {
	return s1.Angle(p.Azimuth).Degrees(), s1.Angle(p.Polar).Degrees()
}

func (p SphericalPoint) String() string {
	az, po := p.Degrees()
	return fmt.Sprintf("(az %.3f°, polar %.3f°)", az, po)
}

// SphericalFromCartesian converts a Cartesian vector to spherical coordinates.
// The zero vector maps to the zero SphericalPoint.
//
// Parameters:
//   - v: the Cartesian vector
//
// Returns:
//   - SphericalPoint: the spherical representation of v
func SphericalFromCartesian(v r3.Vec) SphericalPoint {
	radius := r3.Norm(v)
	if radius == 0 {
		return SphericalPoint{}
	}
	return SphericalPoint{
		Radius:  radius,
		Azimuth: WrapAzimuth(math.Atan2(v.Y, v.X)),
		Polar:   math.Asin(clamp(v.Z/radius, -1, 1)),
	}
}

// WrapAzimuth wraps an angle into (-π, π].
func WrapAzimuth(angle float64) float64 {
	return float64(s1.Angle(angle).Normalized())
}

// ClampPolar clamps an elevation into [-π/2, π/2].
func ClampPolar(angle float64) float64 {
	return clamp(angle, -math.Pi/2, math.Pi/2)
}

// NormalizePointer converts window pixel coordinates (origin top-left, y down) into a screen position in
// normalized device coordinates (origin at the center, y up, both axes in [-1, 1]).
//
// Parameters:
//   - x, y: pointer position in pixels
//   - width, height: window size in pixels
//
// Returns:
//   - r2.Vec: the normalized screen position, or the zero vector for an empty window
func NormalizePointer(x, y float64, width, height int) r2.Vec {
	if width <= 0 || height <= 0 {
		return r2.Vec{}
	}
	w, h := float64(width), float64(height)
	return r2.Vec{
		X: 2*x/w - 1,
		Y: 2*(h-y)/h - 1,
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
