package navigation

import (
	"math"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// minRayLength2 is the squared length below which a view ray or a projected radius is treated as degenerate.
const minRayLength2 = 1e-24

// spherePosCalculatorImpl is the single implementation of SpherePosCalculator.
// The center orientation is cached as a value plus a valid flag; every mutation that can move the view clears
// the flag and the next read recomputes it.
type spherePosCalculatorImpl struct {
	view ViewParameters

	// anchor: the screen position at which fixedSpherePos must be displayed
	fixedScreenPos r2.Vec
	fixedSpherePos SphericalPoint

	center      SphericalPoint
	centerValid bool

	// solveCount counts inverse solves, for cache tests.
	solveCount int
}

// SpherePosCalculator maps between normalized screen positions and points on the unit sphere for a camera
// placed inside the sphere, and derives the camera vectors from a single anchor correspondence.
type SpherePosCalculator interface {
	// Resolution returns the screen resolution in pixels.
	//
	// Returns:
	//   - width, height: the resolution in pixels
	Resolution() (width, height int)

	// SetResolution sets the screen resolution. The cached center orientation is invalidated only if the
	// resolution changed.
	//
	// Parameters:
	//   - width, height: the resolution in pixels
	SetResolution(width, height int)

	// ViewAngle returns the field of view along the larger screen dimension.
	//
	// Returns:
	//   - float64: the view angle in radians
	ViewAngle() float64

	// SetViewAngle sets the field of view along the larger screen dimension.
	//
	// Parameters:
	//   - angle: the view angle in radians
	SetViewAngle(angle float64)

	// EyeDistance returns the distance from the sphere center to the eye.
	//
	// Returns:
	//   - float64: the eye distance
	EyeDistance() float64

	// SetEyeDistance sets the distance from the sphere center to the eye.
	//
	// Parameters:
	//   - d: the eye distance, in (0, 1)
	SetEyeDistance(d float64)

	// ViewParameters returns a snapshot of the resolution, view angle and eye distance.
	//
	// Returns:
	//   - ViewParameters: the current parameters
	ViewParameters() ViewParameters

	// FixedPoint returns the current anchor.
	//
	// Returns:
	//   - r2.Vec: the anchor's screen position
	//   - SphericalPoint: the sphere point held at that screen position
	FixedPoint() (r2.Vec, SphericalPoint)

	// SetFixedPoint installs a new anchor. An anchor at the screen center sets the center orientation directly;
	// any other anchor is resolved lazily by CenterOrientation.
	//
	// Parameters:
	//   - screenPos: normalized screen position
	//   - spherePos: the sphere point to display at screenPos
	SetFixedPoint(screenPos r2.Vec, spherePos SphericalPoint)

	// ClearFixedPoint collapses the anchor to the screen center holding the current center orientation.
	// The view does not change.
	//
	// Returns:
	//   - error: a *GeometryError if the current center cannot be resolved
	ClearFixedPoint() error

	// CenterOrientation returns the sphere point the camera looks straight at.
	//
	// Returns:
	//   - SphericalPoint: the center orientation
	//   - error: a *GeometryError if the anchor cannot be resolved
	CenterOrientation() (SphericalPoint, error)

	// CenterPosition returns the center orientation as a Cartesian point on the sphere (the look-at target).
	//
	// Returns:
	//   - r3.Vec: the look-at target
	//   - error: a *GeometryError if the anchor cannot be resolved
	CenterPosition() (r3.Vec, error)

	// EyePosition returns the eye position in world space.
	//
	// Returns:
	//   - r3.Vec: the eye position
	//   - error: a *GeometryError if the anchor cannot be resolved
	EyePosition() (r3.Vec, error)

	// UpVector returns the camera's up vector in world space.
	//
	// Returns:
	//   - r3.Vec: the unit up vector
	//   - error: a *GeometryError if the anchor cannot be resolved
	UpVector() (r3.Vec, error)

	// Unproject returns the sphere point displayed at a screen position with the current center orientation.
	//
	// Parameters:
	//   - screenPos: normalized screen position
	//
	// Returns:
	//   - SphericalPoint: the sphere point under screenPos
	//   - error: a *GeometryError if no point can be found
	Unproject(screenPos r2.Vec) (SphericalPoint, error)

	// Project returns the screen position at which a sphere point is displayed with the current center orientation.
	//
	// Parameters:
	//   - spherePos: a point on the sphere
	//
	// Returns:
	//   - r2.Vec: the normalized screen position, which may lie outside [-1, 1]
	//   - error: a *GeometryError if the point lies behind the screen plane
	Project(spherePos SphericalPoint) (r2.Vec, error)

	// Frustum returns the perspective frustum bounds for the renderer.
	//
	// Returns:
	//   - common.FrustumBounds: the frustum bounds
	//   - error: a *GeometryError if the view parameters are invalid
	Frustum() (common.FrustumBounds, error)
}

var _ SpherePosCalculator = &spherePosCalculatorImpl{}

// NewSpherePosCalculator creates a calculator looking at azimuth 0, polar 0 with a 60° view angle and the eye
// halfway between the center and the sphere.
//
// Parameters:
//   - options: functional options to configure the calculator
//
// Returns:
//   - SpherePosCalculator: the newly created calculator
func NewSpherePosCalculator(options ...SpherePosCalculatorOption) SpherePosCalculator {
	c := &spherePosCalculatorImpl{
		view: ViewParameters{
			Width:       1280,
			Height:      720,
			ViewAngle:   math.Pi / 3,
			EyeDistance: 0.5,
		},
		fixedSpherePos: NewSpherePoint(0, 0),
	}
	for _, option := range options {
		option(c)
	}
	c.invalidate()
	return c
}

func (c *spherePosCalculatorImpl) Resolution() (width, height int) {
	return c.view.Width, c.view.Height
}

func (c *spherePosCalculatorImpl) SetResolution(width, height int) {
	if c.view.Width == width && c.view.Height == height {
		return
	}
	c.view.Width = width
	c.view.Height = height
	c.invalidate()
}

func (c *spherePosCalculatorImpl) ViewAngle() float64 {
	return c.view.ViewAngle
}

func (c *spherePosCalculatorImpl) SetViewAngle(angle float64) {
	if c.view.ViewAngle == angle {
		return
	}
	c.view.ViewAngle = angle
	c.invalidate()
}

func (c *spherePosCalculatorImpl) EyeDistance() float64 {
	return c.view.EyeDistance
}

func (c *spherePosCalculatorImpl) SetEyeDistance(d float64) {
	if c.view.EyeDistance == d {
		return
	}
	c.view.EyeDistance = d
	c.invalidate()
}

func (c *spherePosCalculatorImpl) ViewParameters() ViewParameters {
	return c.view
}

func (c *spherePosCalculatorImpl) FixedPoint() (r2.Vec, SphericalPoint) {
	return c.fixedScreenPos, c.fixedSpherePos
}

func (c *spherePosCalculatorImpl) SetFixedPoint(screenPos r2.Vec, spherePos SphericalPoint) {
	c.fixedScreenPos = screenPos
	c.fixedSpherePos = NewSpherePoint(spherePos.Azimuth, spherePos.Polar)
	c.invalidate()
}

func (c *spherePosCalculatorImpl) ClearFixedPoint() error {
	center, err := c.CenterOrientation()
	if err != nil {
		return err
	}
	c.fixedScreenPos = r2.Vec{}
	c.fixedSpherePos = center
	return nil
}

func (c *spherePosCalculatorImpl) CenterOrientation() (SphericalPoint, error) {
	if c.centerValid {
		return c.center, nil
	}
	center, err := solveCenter(c.view, c.fixedScreenPos, c.fixedSpherePos)
	c.solveCount++
	if err != nil {
		return SphericalPoint{}, err
	}
	c.center = center
	c.centerValid = true
	return center, nil
}

func (c *spherePosCalculatorImpl) CenterPosition() (r3.Vec, error) {
	center, err := c.CenterOrientation()
	if err != nil {
		return r3.Vec{}, err
	}
	return center.Cartesian(), nil
}

func (c *spherePosCalculatorImpl) EyePosition() (r3.Vec, error) {
	center, err := c.CenterPosition()
	if err != nil {
		return r3.Vec{}, err
	}
	return r3.Scale(-c.view.EyeDistance, center), nil
}

func (c *spherePosCalculatorImpl) UpVector() (r3.Vec, error) {
	center, err := c.CenterOrientation()
	if err != nil {
		return r3.Vec{}, err
	}
	return upVector(center), nil
}

func (c *spherePosCalculatorImpl) Unproject(screenPos r2.Vec) (SphericalPoint, error) {
	center, err := c.CenterOrientation()
	if err != nil {
		return SphericalPoint{}, err
	}
	if screenPos == (r2.Vec{}) {
		return center, nil
	}
	p, err := pointOnSphere(c.view, center, screenPos)
	if err != nil {
		return SphericalPoint{}, err
	}
	return SphericalFromCartesian(p), nil
}

func (c *spherePosCalculatorImpl) Project(spherePos SphericalPoint) (r2.Vec, error) {
	center, err := c.CenterOrientation()
	if err != nil {
		return r2.Vec{}, err
	}
	return projectPoint(c.view, center, spherePos)
}

func (c *spherePosCalculatorImpl) Frustum() (common.FrustumBounds, error) {
	return c.view.Frustum()
}

// invalidate marks the cached center orientation stale, except for a centered anchor whose sphere point is the
// center orientation by definition.
func (c *spherePosCalculatorImpl) invalidate() {
	if c.fixedScreenPos == (r2.Vec{}) {
		c.center = c.fixedSpherePos
		c.centerValid = true
		return
	}
	c.centerValid = false
}

// --- geometry ---

// upVector is the direction a quarter turn above the center orientation on the same meridian.
func upVector(center SphericalPoint) r3.Vec {
	return SphericalPoint{Radius: 1, Azimuth: center.Azimuth, Polar: center.Polar + math.Pi/2}.Cartesian()
}

// screenVectors returns the world-space vectors spanning the virtual screen: screen x runs along right and
// screen y along up, each scaled to the screen half extents.
func screenVectors(vp ViewParameters, center SphericalPoint) (forward, right, up r3.Vec) {
	forward = SphericalPoint{Radius: 1, Azimuth: center.Azimuth, Polar: center.Polar}.Cartesian()
	up = upVector(center)
	right = r3.Cross(forward, up)
	sx, sy := vp.ScreenFactors()
	return forward, r3.Scale(sx, right), r3.Scale(sy, up)
}

// pointOnSphere intersects the ray from the eye through screenPos with the unit sphere. The eye is inside the
// sphere, so the larger root of the quadratic is the hit in front of the eye.
func pointOnSphere(vp ViewParameters, center SphericalPoint, screenPos r2.Vec) (r3.Vec, error) {
	const op = "unproject"
	if err := vp.Validate(op); err != nil {
		return r3.Vec{}, err
	}
	forward, right, up := screenVectors(vp, center)
	scr := r3.Add(r3.Scale(screenPos.X, right), r3.Scale(screenPos.Y, up))
	eye := r3.Scale(-vp.EyeDistance, forward)
	delta := r3.Sub(scr, eye)

	a := r3.Norm2(delta)
	if a < minRayLength2 {
		return r3.Vec{}, newGeometryError(op, DegenerateRay, "screen position %v", screenPos)
	}
	b := 2 * r3.Dot(eye, delta)
	c := r3.Norm2(eye) - 1
	disc := b*b - 4*a*c
	if disc < 0 || math.IsNaN(disc) {
		return r3.Vec{}, newGeometryError(op, NoIntersection, "screen position %v", screenPos)
	}
	t := (-b + math.Sqrt(disc)) / (2 * a)
	return r3.Add(eye, r3.Scale(t, delta)), nil
}

// projectPoint is the inverse of pointOnSphere: it intersects the ray from the eye towards spherePos with the
// screen plane and expresses the hit in screen coordinates.
func projectPoint(vp ViewParameters, center, spherePos SphericalPoint) (r2.Vec, error) {
	const op = "project"
	if err := vp.Validate(op); err != nil {
		return r2.Vec{}, err
	}
	forward, right, up := screenVectors(vp, center)
	q := SphericalPoint{Radius: 1, Azimuth: spherePos.Azimuth, Polar: spherePos.Polar}.Cartesian()
	eye := r3.Scale(-vp.EyeDistance, forward)

	// The screen plane passes through the origin, EyeDistance in front of the eye.
	depth := r3.Dot(q, forward) + vp.EyeDistance
	if depth <= 0 {
		return r2.Vec{}, newGeometryError(op, BehindCamera, "sphere position %v", spherePos)
	}
	hit := r3.Add(eye, r3.Scale(vp.EyeDistance/depth, r3.Sub(q, eye)))
	return r2.Vec{
		X: r3.Dot(hit, right) / r3.Norm2(right),
		Y: r3.Dot(hit, up) / r3.Norm2(up),
	}, nil
}

// solveCenter finds the center orientation for which screenPos displays spherePos.
//
// The screen point is first evaluated with the camera aimed at azimuth 0, polar 0. Tilting that camera by polar
// angle phi rotates the point about the y axis, which fixes its z coordinate at radius*sin(phi+phi0); matching it
// with the target's z gives phi. The remaining azimuth is the signed angle between the tilted point and the
// target in the xy plane.
func solveCenter(vp ViewParameters, screenPos r2.Vec, spherePos SphericalPoint) (SphericalPoint, error) {
	if screenPos == (r2.Vec{}) {
		return NewSpherePoint(spherePos.Azimuth, spherePos.Polar), nil
	}
	p, err := pointOnSphere(vp, NewSpherePoint(0, 0), screenPos)
	if err != nil {
		return SphericalPoint{}, err
	}

	radius := math.Hypot(p.X, p.Z)
	if radius*radius < minRayLength2 {
		return SphericalPoint{}, newGeometryError("solve", DegenerateRay, "screen position %v", screenPos)
	}
	phi0 := math.Atan2(p.Z, p.X)
	phi := math.Asin(clamp(math.Sin(spherePos.Polar)/radius, -1, 1)) - phi0

	target := spherePos.Cartesian()
	tilted := r2.Vec{X: radius * math.Cos(phi+phi0), Y: p.Y}
	theta := math.Atan2(r2.Cross(tilted, r2.Vec{X: target.X, Y: target.Y}), r2.Dot(tilted, r2.Vec{X: target.X, Y: target.Y}))

	return NewSpherePoint(theta, phi), nil
}
