package navigation

import (
	"time"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// navigatorImpl is the single implementation of Navigator.
// All state is owned by the thread delivering input and frame events; there is no locking.
type navigatorImpl struct {
	calc    SpherePosCalculator
	history *RingBuffer[Sample]

	motion    ScreenMotion
	hasMotion bool

	panning bool
	pointer r2.Vec

	zoomLevel int

	// redraw is set by every change to the view and consumed by Tick.
	redraw bool
}

// Navigator turns pointer gestures, zoom requests and frame ticks into camera state.
// A drag keeps the grabbed sphere point under the pointer; releasing it may start an inertial fling that Tick
// advances until it expires. A new pointer press cancels any fling in flight.
type Navigator interface {
	// Calculator returns the underlying SpherePosCalculator.
	//
	// Returns:
	//   - SpherePosCalculator: the calculator holding the view parameters and anchor
	Calculator() SpherePosCalculator

	// PointerDown starts a drag at pos. The sphere point under pos becomes the anchor.
	//
	// Parameters:
	//   - pos: normalized screen position of the pointer
	//   - now: monotonic event time
	//
	// Returns:
	//   - error: a *GeometryError if the point under pos cannot be found; the state is left unchanged
	PointerDown(pos r2.Vec, now time.Time) error

	// PointerMove moves the anchor to pos while dragging and records the resulting center orientation.
	// Outside a drag it only records the pointer position.
	//
	// Parameters:
	//   - pos: normalized screen position of the pointer
	//   - now: monotonic event time
	//
	// Returns:
	//   - error: a *GeometryError if the view cannot follow pos; the previous anchor is kept
	PointerMove(pos r2.Vec, now time.Time) error

	// PointerUp ends a drag and starts a fling when the recent history shows enough movement.
	//
	// Parameters:
	//   - now: monotonic event time
	//
	// Returns:
	//   - bool: true if a fling was started
	//   - error: a *GeometryError if the anchor could not be collapsed to the center
	PointerUp(now time.Time) (bool, error)

	// Tick advances an active fling and reports whether the view changed since the previous Tick.
	//
	// Parameters:
	//   - now: monotonic frame time
	//
	// Returns:
	//   - bool: true if a redraw is needed
	Tick(now time.Time) bool

	// Resize updates the screen resolution.
	//
	// Parameters:
	//   - width, height: the new resolution in pixels
	Resize(width, height int)

	// ZoomLevel returns the current zoom level.
	//
	// Returns:
	//   - int: a level in [MinZoomLevel, MaxZoomLevel]
	ZoomLevel() int

	// SetZoomLevel sets the zoom level, clamped to the zoom table, and updates the view angle.
	//
	// Parameters:
	//   - level: the requested zoom level
	SetZoomLevel(level int)

	// ZoomIn narrows the view by one zoom level.
	ZoomIn()

	// ZoomOut widens the view by one zoom level.
	ZoomOut()

	// SetViewDirection points the camera at a sphere point, ending any drag or fling.
	//
	// Parameters:
	//   - azimuth, polar: the new center orientation in radians
	SetViewDirection(azimuth, polar float64)

	// Pick returns the sphere point currently displayed at pos.
	//
	// Parameters:
	//   - pos: normalized screen position
	//
	// Returns:
	//   - SphericalPoint: the sphere point under pos
	//   - error: a *GeometryError if no point can be found
	Pick(pos r2.Vec) (SphericalPoint, error)

	// Pointer returns the last pointer position seen.
	//
	// Returns:
	//   - r2.Vec: normalized screen position
	Pointer() r2.Vec

	// Panning reports whether a drag is in progress.
	//
	// Returns:
	//   - bool: true while the pointer is held down
	Panning() bool

	// Motion returns the fling in flight.
	//
	// Returns:
	//   - ScreenMotion: the active fling
	//   - bool: false if no fling is active
	Motion() (ScreenMotion, bool)

	// RequestRedraw makes the next Tick report a change.
	RequestRedraw()

	// CenterOrientation returns the sphere point at the screen center.
	//
	// Returns:
	//   - SphericalPoint: the center orientation
	//   - error: a *GeometryError if the anchor cannot be resolved
	CenterOrientation() (SphericalPoint, error)

	// EyePosition returns the eye position in world space.
	//
	// Returns:
	//   - r3.Vec: the eye position
	//   - error: a *GeometryError if the anchor cannot be resolved
	EyePosition() (r3.Vec, error)

	// CenterPosition returns the look-at target in world space.
	//
	// Returns:
	//   - r3.Vec: the look-at target on the sphere
	//   - error: a *GeometryError if the anchor cannot be resolved
	CenterPosition() (r3.Vec, error)

	// UpVector returns the camera up vector in world space.
	//
	// Returns:
	//   - r3.Vec: the up vector
	//   - error: a *GeometryError if the anchor cannot be resolved
	UpVector() (r3.Vec, error)

	// Frustum returns the perspective frustum bounds.
	//
	// Returns:
	//   - common.FrustumBounds: the frustum bounds
	//   - error: a *GeometryError if the view parameters are invalid
	Frustum() (common.FrustumBounds, error)
}

var _ Navigator = &navigatorImpl{}

// NewNavigator creates a Navigator at the default zoom level looking at azimuth 0, polar 0.
//
// Parameters:
//   - options: functional options to configure the navigator
//
// Returns:
//   - Navigator: the newly created navigator
func NewNavigator(options ...NavigatorOption) Navigator {
	n := &navigatorImpl{
		history:   NewRingBuffer[Sample](HistorySize),
		zoomLevel: DefaultZoomLevel,
		redraw:    true,
	}
	for _, option := range options {
		option(n)
	}
	if n.calc == nil {
		n.calc = NewSpherePosCalculator()
	}
	n.calc.SetViewAngle(ZoomViewAngle(n.zoomLevel))
	return n
}

func (n *navigatorImpl) Calculator() SpherePosCalculator {
	return n.calc
}

func (n *navigatorImpl) PointerDown(pos r2.Vec, now time.Time) error {
	n.hasMotion = false
	n.pointer = pos

	center, err := n.calc.CenterOrientation()
	if err != nil {
		return err
	}
	grabbed, err := n.calc.Unproject(pos)
	if err != nil {
		return err
	}

	n.history.Clear()
	n.history.Push(Sample{Time: now, Position: center})
	n.calc.SetFixedPoint(pos, grabbed)
	n.panning = true
	return nil
}

func (n *navigatorImpl) PointerMove(pos r2.Vec, now time.Time) error {
	n.pointer = pos
	if !n.panning {
		return nil
	}

	prevScreen, grabbed := n.calc.FixedPoint()
	n.calc.SetFixedPoint(pos, grabbed)
	center, err := n.calc.CenterOrientation()
	if err != nil {
		n.calc.SetFixedPoint(prevScreen, grabbed)
		return err
	}

	n.history.Push(Sample{Time: now, Position: center})
	n.redraw = true
	return nil
}

func (n *navigatorImpl) PointerUp(now time.Time) (bool, error) {
	if !n.panning {
		return false, nil
	}
	n.panning = false

	motion, ok := EstimateMotion(n.history, now)
	if err := n.calc.ClearFixedPoint(); err != nil {
		return false, err
	}
	n.motion, n.hasMotion = motion, ok
	if ok {
		n.redraw = true
	}
	return ok, nil
}

func (n *navigatorImpl) Tick(now time.Time) bool {
	if n.hasMotion {
		if pos, ok := n.motion.PositionAt(now); ok {
			n.calc.SetFixedPoint(r2.Vec{}, pos)
			n.redraw = true
		} else {
			n.hasMotion = false
		}
	}
	redraw := n.redraw
	n.redraw = false
	return redraw
}

func (n *navigatorImpl) Resize(width, height int) {
	if w, h := n.calc.Resolution(); w == width && h == height {
		return
	}
	n.calc.SetResolution(width, height)
	n.redraw = true
}

func (n *navigatorImpl) ZoomLevel() int {
	return n.zoomLevel
}

func (n *navigatorImpl) SetZoomLevel(level int) {
	level = ClampZoomLevel(level)
	if level == n.zoomLevel {
		return
	}
	n.zoomLevel = level
	n.calc.SetViewAngle(ZoomViewAngle(level))
	n.redraw = true
}

func (n *navigatorImpl) ZoomIn() {
	n.SetZoomLevel(n.zoomLevel + 1)
}

func (n *navigatorImpl) ZoomOut() {
	n.SetZoomLevel(n.zoomLevel - 1)
}

func (n *navigatorImpl) SetViewDirection(azimuth, polar float64) {
	n.hasMotion = false
	n.panning = false
	n.calc.SetFixedPoint(r2.Vec{}, NewSpherePoint(azimuth, polar))
	n.redraw = true
}

func (n *navigatorImpl) Pick(pos r2.Vec) (SphericalPoint, error) {
	return n.calc.Unproject(pos)
}

func (n *navigatorImpl) Pointer() r2.Vec {
	return n.pointer
}

func (n *navigatorImpl) Panning() bool {
	return n.panning
}

func (n *navigatorImpl) Motion() (ScreenMotion, bool) {
	return n.motion, n.hasMotion
}

func (n *navigatorImpl) RequestRedraw() {
	n.redraw = true
}

func (n *navigatorImpl) CenterOrientation() (SphericalPoint, error) {
	return n.calc.CenterOrientation()
}

func (n *navigatorImpl) EyePosition() (r3.Vec, error) {
	return n.calc.EyePosition()
}

func (n *navigatorImpl) CenterPosition() (r3.Vec, error) {
	return n.calc.CenterPosition()
}

func (n *navigatorImpl) UpVector() (r3.Vec, error) {
	return n.calc.UpVector()
}

func (n *navigatorImpl) Frustum() (common.FrustumBounds, error) {
	return n.calc.Frustum()
}
