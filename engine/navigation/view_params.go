package navigation

import (
	"math"

	"github.com/Carmen-Shannon/oxy-pano/common"
)

// ViewParameters describes the virtual camera inside the unit sphere.
type ViewParameters struct {
	// Width and Height are the screen resolution in pixels.
	Width, Height int
	// ViewAngle is the field of view in radians along the larger screen dimension.
	ViewAngle float64
	// EyeDistance is the distance from the sphere center to the eye. The eye sits on the far side of the
	// origin from the point being looked at, so valid values lie in (0, 1).
	EyeDistance float64
}

// frustumFarMargin keeps the far side of the sphere strictly inside the far plane.
const frustumFarMargin = 0.01

// Validate reports whether the parameters describe a usable camera.
//
// Parameters:
//   - op: the operation name recorded in the returned error
//
// Returns:
//   - error: a *GeometryError describing the first problem found, or nil
func (vp ViewParameters) Validate(op string) error {
	if vp.Width <= 0 || vp.Height <= 0 {
		return newGeometryError(op, DegenerateViewport, "resolution %dx%d", vp.Width, vp.Height)
	}
	if !(vp.ViewAngle > 0 && vp.ViewAngle <= math.Pi) {
		return newGeometryError(op, DegenerateViewport, "view angle %g", vp.ViewAngle)
	}
	if !(vp.EyeDistance > 0 && vp.EyeDistance < 1) {
		return newGeometryError(op, DegenerateEye, "eye distance %g", vp.EyeDistance)
	}
	return nil
}

// FieldOfView splits ViewAngle into the horizontal and vertical angles. The larger screen dimension gets the full
// view angle and the other one a share proportional to the aspect ratio.
//
// Returns:
//   - horizontal, vertical: the per-axis field of view in radians
func (vp ViewParameters) FieldOfView() (horizontal, vertical float64) {
	w, h := float64(vp.Width), float64(vp.Height)
	if w >= h {
		return vp.ViewAngle, vp.ViewAngle * h / w
	}
	return vp.ViewAngle * w / h, vp.ViewAngle
}

// ScreenFactors returns the half extents of the virtual screen, which lies in the plane through the sphere
// center perpendicular to the view direction.
//
// Returns:
//   - horizontal, vertical: half width and half height of the screen in world units
func (vp ViewParameters) ScreenFactors() (horizontal, vertical float64) {
	hor, ver := vp.FieldOfView()
	return vp.screenScale(hor), vp.screenScale(ver)
}

// screenScale is the distance from the screen center to where the ray towards a sphere point at angle/2 from the
// view direction crosses the screen plane.
func (vp ViewParameters) screenScale(angle float64) float64 {
	return math.Sin(angle/2) * vp.EyeDistance / (vp.EyeDistance + math.Cos(angle/2))
}

// Frustum returns the perspective frustum matching ScreenFactors. The screen plane lies EyeDistance in front of
// the eye; the bounds are rescaled to a near plane halfway to the closest point of the sphere.
//
// Returns:
//   - common.FrustumBounds: the frustum bounds in eye space
//   - error: a *GeometryError if the parameters are invalid
func (vp ViewParameters) Frustum() (common.FrustumBounds, error) {
	if err := vp.Validate("frustum"); err != nil {
		return common.FrustumBounds{}, err
	}
	sx, sy := vp.ScreenFactors()
	near := (1 - vp.EyeDistance) / 2
	k := near / vp.EyeDistance
	return common.FrustumBounds{
		Left:   -sx * k,
		Right:  sx * k,
		Bottom: -sy * k,
		Top:    sy * k,
		Near:   near,
		Far:    1 + vp.EyeDistance + frustumFarMargin,
	}, nil
}
