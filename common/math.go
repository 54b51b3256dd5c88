package common

import (
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"
)

// webGPUDepthRemap converts OpenGL clip-space depth [-1, 1] into the WebGPU convention [0, 1].
// Column-major: z' = 0.5*z + 0.5*w.
var webGPUDepthRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// ToVec3 narrows a float64 vector to the float32 vector type used for GPU data.
//
// Parameters:
//   - v: the float64 vector
//
// Returns:
//   - mgl32.Vec3: the float32 vector
func ToVec3(v r3.Vec) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// LookAt creates a view matrix that positions and orients the camera.
// The resulting matrix transforms world coordinates to view/camera space.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation
//
// Returns:
//   - mgl32.Mat4: the view matrix (column-major)
func LookAt(eye, center, up r3.Vec) mgl32.Mat4 {
	return mgl32.LookAtV(ToVec3(eye), ToVec3(center), ToVec3(up))
}

// DepthRemap converts an OpenGL style projection matrix to WebGPU clip space.
//
// Parameters:
//   - projection: a projection matrix producing depth in [-1, 1]
//
// Returns:
//   - mgl32.Mat4: the same projection producing depth in [0, 1]
func DepthRemap(projection mgl32.Mat4) mgl32.Mat4 {
	return webGPUDepthRemap.Mul4(projection)
}
