package navigation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestNavigator_Defaults(t *testing.T) {
	n := NewNavigator()
	assert.Equal(t, DefaultZoomLevel, n.ZoomLevel())
	assert.InDelta(t, math.Pi/3, n.Calculator().ViewAngle(), geomTolerance)
	assert.False(t, n.Panning())
	_, ok := n.Motion()
	assert.False(t, ok)

	now := time.Now()
	assert.True(t, n.Tick(now), "first frame is always drawn")
	assert.False(t, n.Tick(now))
}

func TestNavigator_DragKeepsPointUnderPointer(t *testing.T) {
	n := NewNavigator()
	now := time.Unix(1700000000, 0)

	require.NoError(t, n.PointerDown(r2.Vec{X: 0.3, Y: 0.2}, now))
	assert.True(t, n.Panning())
	_, grabbed := n.Calculator().FixedPoint()

	require.NoError(t, n.PointerMove(r2.Vec{X: -0.1, Y: 0.05}, now.Add(10*time.Millisecond)))
	center, err := n.CenterOrientation()
	require.NoError(t, err)
	assert.InDelta(t, -0.21903683813446317, center.Azimuth, geomTolerance)
	assert.InDelta(t, 0.04434256823067341, center.Polar, geomTolerance)

	picked, err := n.Pick(r2.Vec{X: -0.1, Y: 0.05})
	require.NoError(t, err)
	assertAngle(t, grabbed.Azimuth, picked.Azimuth, roundTripTolerance)
	assert.InDelta(t, grabbed.Polar, picked.Polar, roundTripTolerance)

	assert.True(t, n.Tick(now.Add(12*time.Millisecond)))
	assert.Equal(t, r2.Vec{X: -0.1, Y: 0.05}, n.Pointer())
}

func TestNavigator_Fling(t *testing.T) {
	n := NewNavigator()
	t0 := time.Unix(1700000000, 0)

	require.NoError(t, n.PointerDown(r2.Vec{}, t0))
	require.NoError(t, n.PointerMove(r2.Vec{X: 0.1}, t0.Add(10*time.Millisecond)))
	require.NoError(t, n.PointerMove(r2.Vec{X: 0.2}, t0.Add(20*time.Millisecond)))

	release, err := n.CenterOrientation()
	require.NoError(t, err)
	assert.InDelta(t, 0.10958770057209737, release.Azimuth, geomTolerance)

	up := t0.Add(25 * time.Millisecond)
	flung, err := n.PointerUp(up)
	require.NoError(t, err)
	require.True(t, flung)
	assert.False(t, n.Panning())

	m, ok := n.Motion()
	require.True(t, ok)
	assert.Equal(t, MaxSpeed, m.AzimuthSpeed, "5.48 rad/s is clamped")
	assert.Zero(t, m.PolarSpeed)
	assert.Equal(t, 2*time.Second, m.Duration())
	assert.Equal(t, release, m.Origin)

	screen, sphere := n.Calculator().FixedPoint()
	assert.Equal(t, r2.Vec{}, screen)
	assert.Equal(t, release, sphere)

	assert.True(t, n.Tick(up.Add(time.Second)))
	mid, err := n.CenterOrientation()
	require.NoError(t, err)
	assert.InDelta(t, release.Azimuth+MaxSpeed*0.25*math.Sqrt(3), mid.Azimuth, geomTolerance)

	assert.False(t, n.Tick(up.Add(3*time.Second)), "expired fling draws nothing")
	_, ok = n.Motion()
	assert.False(t, ok)
	after, err := n.CenterOrientation()
	require.NoError(t, err)
	assert.Equal(t, mid, after)
}

func TestNavigator_SlowReleaseStops(t *testing.T) {
	n := NewNavigator()
	t0 := time.Unix(1700000000, 0)

	require.NoError(t, n.PointerDown(r2.Vec{}, t0))
	require.NoError(t, n.PointerMove(r2.Vec{X: 0.2}, t0.Add(10*time.Millisecond)))

	flung, err := n.PointerUp(t0.Add(500 * time.Millisecond))
	require.NoError(t, err)
	assert.False(t, flung)
	_, ok := n.Motion()
	assert.False(t, ok)
}

func TestNavigator_PointerDownCancelsFling(t *testing.T) {
	n := NewNavigator()
	t0 := time.Unix(1700000000, 0)

	require.NoError(t, n.PointerDown(r2.Vec{}, t0))
	require.NoError(t, n.PointerMove(r2.Vec{X: 0.3}, t0.Add(10*time.Millisecond)))
	flung, err := n.PointerUp(t0.Add(12 * time.Millisecond))
	require.NoError(t, err)
	require.True(t, flung)

	n.Tick(t0.Add(500 * time.Millisecond))
	require.NoError(t, n.PointerDown(r2.Vec{X: -0.4}, t0.Add(600*time.Millisecond)))
	_, ok := n.Motion()
	assert.False(t, ok)

	held, err := n.CenterOrientation()
	require.NoError(t, err)
	n.Tick(t0.Add(900 * time.Millisecond))
	still, err := n.CenterOrientation()
	require.NoError(t, err)
	assert.Equal(t, held, still)
}

func TestNavigator_MoveWithoutDrag(t *testing.T) {
	n := NewNavigator()
	now := time.Now()
	n.Tick(now)

	require.NoError(t, n.PointerMove(r2.Vec{X: 0.5, Y: 0.5}, now))
	assert.Equal(t, r2.Vec{X: 0.5, Y: 0.5}, n.Pointer())
	assert.False(t, n.Tick(now))

	flung, err := n.PointerUp(now)
	require.NoError(t, err)
	assert.False(t, flung)
}

func TestNavigator_FailedMoveKeepsAnchor(t *testing.T) {
	n := NewNavigator()
	now := time.Unix(1700000000, 0)

	require.NoError(t, n.PointerDown(r2.Vec{X: 0.3, Y: 0.2}, now))
	require.NoError(t, n.PointerMove(r2.Vec{X: 0.1}, now.Add(5*time.Millisecond)))
	prevScreen, prevSphere := n.Calculator().FixedPoint()

	n.Calculator().SetEyeDistance(1.5)
	err := n.PointerMove(r2.Vec{X: -0.6}, now.Add(10*time.Millisecond))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerateEye)

	screen, sphere := n.Calculator().FixedPoint()
	assert.Equal(t, prevScreen, screen)
	assert.Equal(t, prevSphere, sphere)
	assert.True(t, n.Panning())
}

func TestNavigator_FailedPointerDown(t *testing.T) {
	calc := NewSpherePosCalculator(WithResolution(0, 0))
	n := NewNavigator(WithCalculator(calc))

	err := n.PointerDown(r2.Vec{X: 0.5}, time.Now())
	assert.ErrorIs(t, err, ErrDegenerateViewport)
	assert.False(t, n.Panning())
}

func TestNavigator_Zoom(t *testing.T) {
	n := NewNavigator(WithZoomLevel(MaxZoomLevel - 1))
	now := time.Now()
	n.Tick(now)

	n.ZoomIn()
	assert.Equal(t, MaxZoomLevel, n.ZoomLevel())
	assert.InDelta(t, ZoomViewAngle(MaxZoomLevel), n.Calculator().ViewAngle(), geomTolerance)
	assert.True(t, n.Tick(now))

	n.ZoomIn()
	assert.Equal(t, MaxZoomLevel, n.ZoomLevel())
	assert.False(t, n.Tick(now), "zooming past the limit changes nothing")

	n.SetZoomLevel(-10)
	assert.Equal(t, MinZoomLevel, n.ZoomLevel())
	n.ZoomOut()
	assert.Equal(t, MinZoomLevel, n.ZoomLevel())
}

func TestNavigator_ZoomKeepsCenter(t *testing.T) {
	n := NewNavigator()
	now := time.Unix(1700000000, 0)
	require.NoError(t, n.PointerDown(r2.Vec{X: 0.4}, now))
	require.NoError(t, n.PointerMove(r2.Vec{X: -0.2, Y: 0.3}, now.Add(100*time.Millisecond)))
	_, err := n.PointerUp(now.Add(time.Second))
	require.NoError(t, err)

	before, err := n.CenterOrientation()
	require.NoError(t, err)
	n.ZoomIn()
	n.ZoomIn()
	after, err := n.CenterOrientation()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestNavigator_Resize(t *testing.T) {
	n := NewNavigator()
	now := time.Now()
	n.Tick(now)

	n.Resize(1280, 720)
	assert.False(t, n.Tick(now))

	n.Resize(800, 600)
	w, h := n.Calculator().Resolution()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.True(t, n.Tick(now))

	f, err := n.Frustum()
	require.NoError(t, err)
	assert.InDelta(t, 800.0/600.0, f.Aspect(), 0.05)
}

func TestNavigator_SetViewDirection(t *testing.T) {
	n := NewNavigator()
	now := time.Now()
	require.NoError(t, n.PointerDown(r2.Vec{X: 0.2}, now))

	n.SetViewDirection(1, 0.5)
	assert.False(t, n.Panning())
	center, err := n.CenterOrientation()
	require.NoError(t, err)
	assert.Equal(t, NewSpherePoint(1, 0.5), center)

	eye, err := n.EyePosition()
	require.NoError(t, err)
	target, err := n.CenterPosition()
	require.NoError(t, err)
	up, err := n.UpVector()
	require.NoError(t, err)
	assert.InDelta(t, -0.5*target.X, eye.X, geomTolerance)
	assert.Greater(t, up.Z, 0.0)

	n.Tick(now)
	n.RequestRedraw()
	assert.True(t, n.Tick(now))
}
