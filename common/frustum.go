package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FrustumBounds describes an asymmetric perspective frustum in eye space.
// Left/Right/Bottom/Top are measured on the near plane; Near and Far are positive distances along the view direction.
type FrustumBounds struct {
	Left, Right float64
	Bottom, Top float64
	Near, Far   float64
}

// Aspect returns the width to height ratio of the frustum.
//
// Returns:
//   - float64: the aspect ratio, or 0 for an empty frustum
func (f FrustumBounds) Aspect() float64 {
	h := f.Top - f.Bottom
	if h == 0 {
		return 0
	}
	return (f.Right - f.Left) / h
}

// ProjectionMatrix builds the perspective projection matrix for the frustum in WebGPU clip space (depth in [0, 1]).
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major)
func (f FrustumBounds) ProjectionMatrix() mgl32.Mat4 {
	return DepthRemap(mgl32.Frustum(
		float32(f.Left), float32(f.Right),
		float32(f.Bottom), float32(f.Top),
		float32(f.Near), float32(f.Far),
	))
}
