package navigation

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// geomTolerance bounds closed-form round trips.
	geomTolerance = 1e-9
	// roundTripTolerance bounds screen -> sphere -> screen round trips.
	roundTripTolerance = 1e-6
)

func referenceCalculator(t *testing.T) *spherePosCalculatorImpl {
	t.Helper()
	calc := NewSpherePosCalculator(
		WithResolution(1024, 768),
		WithViewAngle(math.Pi/3),
		WithEyeDistance(0.5),
	)
	impl, ok := calc.(*spherePosCalculatorImpl)
	require.True(t, ok)
	return impl
}

func assertAngle(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, 0, WrapAzimuth(actual-expected), tolerance, msgAndArgs...)
}

func TestSpherePosCalculator_Defaults(t *testing.T) {
	calc := NewSpherePosCalculator()

	w, h := calc.Resolution()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
	assert.InDelta(t, math.Pi/3, calc.ViewAngle(), geomTolerance)
	assert.InDelta(t, 0.5, calc.EyeDistance(), geomTolerance)

	center, err := calc.CenterOrientation()
	require.NoError(t, err)
	assert.Equal(t, NewSpherePoint(0, 0), center)

	screen, sphere := calc.FixedPoint()
	assert.Equal(t, r2.Vec{}, screen)
	assert.Equal(t, center, sphere)
}

func TestSpherePosCalculator_ReferenceDrag(t *testing.T) {
	calc := referenceCalculator(t)

	grabbed, err := calc.Unproject(r2.Vec{X: 0.5})
	require.NoError(t, err)
	assert.InDelta(t, -0.2711429045135283, grabbed.Azimuth, geomTolerance)
	assert.InDelta(t, 0, grabbed.Polar, geomTolerance)
	assert.InDelta(t, 1, grabbed.Radius, geomTolerance)

	t.Run("anchor at the grab position keeps the view", func(t *testing.T) {
		calc.SetFixedPoint(r2.Vec{X: 0.5}, grabbed)
		center, err := calc.CenterOrientation()
		require.NoError(t, err)
		assertAngle(t, 0, center.Azimuth, geomTolerance)
		assert.InDelta(t, 0, center.Polar, geomTolerance)
	})

	t.Run("dragging left turns the view right of the sphere", func(t *testing.T) {
		calc.SetFixedPoint(r2.Vec{X: -0.5}, grabbed)
		center, err := calc.CenterOrientation()
		require.NoError(t, err)
		assert.InDelta(t, -0.5422858090270566, center.Azimuth, geomTolerance)
		assert.InDelta(t, 0, center.Polar, geomTolerance)
	})
}

func TestSpherePosCalculator_OffAxisDrag(t *testing.T) {
	calc := referenceCalculator(t)

	grabbed, err := calc.Unproject(r2.Vec{X: 0.3, Y: 0.4})
	require.NoError(t, err)
	assert.InDelta(t, -0.16467178399547094, grabbed.Azimuth, geomTolerance)
	assert.InDelta(t, 0.15913320317328505, grabbed.Polar, geomTolerance)

	calc.SetFixedPoint(r2.Vec{X: -0.2, Y: -0.1}, grabbed)
	center, err := calc.CenterOrientation()
	require.NoError(t, err)
	assert.InDelta(t, -0.2756076165369384, center.Azimuth, geomTolerance)
	assert.InDelta(t, 0.20048501167057875, center.Polar, geomTolerance)

	screen, err := calc.Project(grabbed)
	require.NoError(t, err)
	assert.InDelta(t, -0.2, screen.X, roundTripTolerance)
	assert.InDelta(t, -0.1, screen.Y, roundTripTolerance)
}

func TestSpherePosCalculator_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		angle   float64
		eye     float64
		azimuth float64
		polar   float64
	}{
		{"landscape level", 1024, 768, math.Pi / 3, 0.5, 0, 0},
		{"portrait tilted", 768, 1024, math.Pi / 2, 0.3, 1.2, 0.6},
		{"wide near seam", 1920, 1080, 2 * math.Pi / 3, 0.8, math.Pi - 0.05, -0.4},
		{"telephoto", 800, 600, 4 * math.Pi / 180, 0.5, -2.5, 0.9},
	}
	points := []r2.Vec{
		{X: 0.5}, {Y: 0.5}, {X: -0.9, Y: 0.9}, {X: 0.25, Y: -0.75}, {X: 1, Y: 1}, {X: -1, Y: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewSpherePosCalculator(
				WithResolution(tt.width, tt.height),
				WithViewAngle(tt.angle),
				WithEyeDistance(tt.eye),
				WithCenter(tt.azimuth, tt.polar),
			)
			for _, p := range points {
				s, err := calc.Unproject(p)
				require.NoError(t, err)
				got, err := calc.Project(s)
				require.NoError(t, err)
				assert.InDelta(t, p.X, got.X, roundTripTolerance, "x of %v", p)
				assert.InDelta(t, p.Y, got.Y, roundTripTolerance, "y of %v", p)
			}
		})
	}
}

func TestSpherePosCalculator_AnchorInvariant(t *testing.T) {
	tests := []struct {
		screen r2.Vec
		sphere SphericalPoint
	}{
		{r2.Vec{X: 0.4, Y: 0.1}, NewSpherePoint(0.3, 0.2)},
		{r2.Vec{X: -0.7, Y: 0.6}, NewSpherePoint(-2.9, 0.5)},
		{r2.Vec{X: 0.2, Y: -0.9}, NewSpherePoint(3.0, -0.3)},
		{r2.Vec{X: -0.1, Y: -0.1}, NewSpherePoint(1.0, 0)},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.screen), func(t *testing.T) {
			calc := referenceCalculator(t)
			calc.SetFixedPoint(tt.screen, tt.sphere)

			got, err := calc.Unproject(tt.screen)
			require.NoError(t, err)
			assertAngle(t, tt.sphere.Azimuth, got.Azimuth, roundTripTolerance)
			assert.InDelta(t, tt.sphere.Polar, got.Polar, roundTripTolerance)
		})
	}
}

func TestSpherePosCalculator_CacheIdempotence(t *testing.T) {
	calc := referenceCalculator(t)
	calc.SetFixedPoint(r2.Vec{X: 0.3, Y: -0.2}, NewSpherePoint(0.4, 0.1))

	first, err := calc.CenterOrientation()
	require.NoError(t, err)
	solves := calc.solveCount

	for range 3 {
		again, err := calc.CenterOrientation()
		require.NoError(t, err)
		assert.Equal(t, first, again)
		_, err = calc.EyePosition()
		require.NoError(t, err)
		_, err = calc.UpVector()
		require.NoError(t, err)
	}
	assert.Equal(t, solves, calc.solveCount)

	t.Run("unchanged setters keep the cache", func(t *testing.T) {
		calc.SetResolution(1024, 768)
		calc.SetViewAngle(math.Pi / 3)
		calc.SetEyeDistance(0.5)
		_, err := calc.CenterOrientation()
		require.NoError(t, err)
		assert.Equal(t, solves, calc.solveCount)
	})

	t.Run("changed setters invalidate the cache", func(t *testing.T) {
		calc.SetViewAngle(math.Pi / 4)
		_, err := calc.CenterOrientation()
		require.NoError(t, err)
		assert.Equal(t, solves+1, calc.solveCount)
	})

	t.Run("centered anchor needs no solve", func(t *testing.T) {
		before := calc.solveCount
		calc.SetFixedPoint(r2.Vec{}, NewSpherePoint(1, 0.5))
		center, err := calc.CenterOrientation()
		require.NoError(t, err)
		assert.Equal(t, NewSpherePoint(1, 0.5), center)
		assert.Equal(t, before, calc.solveCount)
	})
}

func TestSpherePosCalculator_ClearFixedPoint(t *testing.T) {
	calc := referenceCalculator(t)
	grabbed, err := calc.Unproject(r2.Vec{X: 0.5})
	require.NoError(t, err)
	calc.SetFixedPoint(r2.Vec{X: -0.5}, grabbed)

	center, err := calc.CenterOrientation()
	require.NoError(t, err)
	require.NoError(t, calc.ClearFixedPoint())

	screen, sphere := calc.FixedPoint()
	assert.Equal(t, r2.Vec{}, screen)
	assert.Equal(t, center, sphere)

	// Zooming now keeps the center instead of the released point.
	calc.SetViewAngle(math.Pi / 6)
	after, err := calc.CenterOrientation()
	require.NoError(t, err)
	assert.Equal(t, center, after)
}

func TestSpherePosCalculator_CameraVectors(t *testing.T) {
	calc := NewSpherePosCalculator(WithCenter(0.7, 0.3), WithEyeDistance(0.4))

	center, err := calc.CenterPosition()
	require.NoError(t, err)
	eye, err := calc.EyePosition()
	require.NoError(t, err)
	up, err := calc.UpVector()
	require.NoError(t, err)

	assert.InDelta(t, 1, r3.Norm(center), geomTolerance)
	assert.InDelta(t, 0.4, r3.Norm(eye), geomTolerance)
	assert.InDelta(t, -0.4, r3.Dot(eye, center), geomTolerance, "eye sits opposite the center")
	assert.InDelta(t, 0, r3.Dot(up, center), geomTolerance, "up is perpendicular to the view")
	assert.InDelta(t, 1, r3.Norm(up), geomTolerance)
	assert.Greater(t, up.Z, 0.0, "up points towards the pole")
}

func TestSpherePosCalculator_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(SpherePosCalculator)
		want   error
	}{
		{"zero width", func(c SpherePosCalculator) { c.SetResolution(0, 768) }, ErrDegenerateViewport},
		{"negative height", func(c SpherePosCalculator) { c.SetResolution(1024, -1) }, ErrDegenerateViewport},
		{"zero view angle", func(c SpherePosCalculator) { c.SetViewAngle(0) }, ErrDegenerateViewport},
		{"view angle above pi", func(c SpherePosCalculator) { c.SetViewAngle(4) }, ErrDegenerateViewport},
		{"eye on the sphere", func(c SpherePosCalculator) { c.SetEyeDistance(1) }, ErrDegenerateEye},
		{"eye at the center", func(c SpherePosCalculator) { c.SetEyeDistance(0) }, ErrDegenerateEye},
		{"eye outside", func(c SpherePosCalculator) { c.SetEyeDistance(2) }, ErrDegenerateEye},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := referenceCalculator(t)
			calc.SetFixedPoint(r2.Vec{X: 0.2, Y: 0.1}, NewSpherePoint(0.1, 0))
			tt.mutate(calc)

			_, err := calc.CenterOrientation()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var geomErr *GeometryError
			require.True(t, errors.As(err, &geomErr))
			assert.NotEmpty(t, geomErr.Op)

			_, err = calc.EyePosition()
			assert.ErrorIs(t, err, tt.want)
			_, err = calc.Frustum()
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("point behind the camera", func(t *testing.T) {
		calc := referenceCalculator(t)
		_, err := calc.Project(NewSpherePoint(math.Pi, 0))
		assert.ErrorIs(t, err, ErrBehindCamera)
	})

	t.Run("centered anchor with bad parameters still resolves its center", func(t *testing.T) {
		calc := referenceCalculator(t)
		calc.SetEyeDistance(3)
		center, err := calc.CenterOrientation()
		require.NoError(t, err)
		assert.Equal(t, NewSpherePoint(0, 0), center)

		_, err = calc.Unproject(r2.Vec{X: 0.5})
		assert.ErrorIs(t, err, ErrDegenerateEye)
	})
}
