package camera

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"
)

// ViewSource supplies the camera vectors and frustum each frame.
// navigation.Navigator satisfies it.
type ViewSource interface {
	EyePosition() (r3.Vec, error)
	CenterPosition() (r3.Vec, error)
	UpVector() (r3.Vec, error)
	Frustum() (common.FrustumBounds, error)
}

type cameraImpl struct {
	eye    r3.Vec
	target r3.Vec
	up     r3.Vec

	frustum common.FrustumBounds

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4
	inverseViewProj      mgl32.Mat4

	source ViewSource
}

// Camera turns the vectors of a ViewSource into view and projection matrices.
// The matrices keep their last good values when the source cannot produce a view.
type Camera interface {
	// Eye returns the eye position used for the current matrices.
	//
	// Returns:
	//   - r3.Vec: the eye position in world space
	Eye() r3.Vec

	// Target returns the look-at point used for the current matrices.
	//
	// Returns:
	//   - r3.Vec: the look-at point in world space
	Target() r3.Vec

	// Up returns the up vector used for the current matrices.
	//
	// Returns:
	//   - r3.Vec: the up vector
	Up() r3.Vec

	// Frustum returns the frustum bounds used for the current projection matrix.
	//
	// Returns:
	//   - common.FrustumBounds: the frustum bounds
	Frustum() common.FrustumBounds

	// ViewMatrix returns the current 4x4 view matrix (column-major).
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current 4x4 projection matrix (column-major, WebGPU depth range).
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns the combined projection * view matrix (column-major).
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Uniform returns the GPU camera uniform for the current matrices.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform ready for Marshal
	Uniform() GPUCameraUniform

	// Source returns the attached ViewSource, or nil.
	//
	// Returns:
	//   - ViewSource: the attached source
	Source() ViewSource

	// SetSource attaches a ViewSource.
	//
	// Parameters:
	//   - src: the view source
	SetSource(src ViewSource)

	// Update reads the view source and recomputes the matrices.
	// Should be called once per redrawn frame. Without a source this does nothing.
	//
	// Returns:
	//   - error: the source's error; the previous matrices are kept
	Update() error
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with identity matrices.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		up:                   r3.Vec{Z: 1},
		viewMatrix:           mgl32.Ident4(),
		projectionMatrix:     mgl32.Ident4(),
		viewProjectionMatrix: mgl32.Ident4(),
		inverseViewProj:      mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Eye() r3.Vec {
	return c.eye
}

func (c *cameraImpl) Target() r3.Vec {
	return c.target
}

func (c *cameraImpl) Up() r3.Vec {
	return c.up
}

func (c *cameraImpl) Frustum() common.FrustumBounds {
	return c.frustum
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	return GPUCameraUniform{
		ViewProj:       c.viewProjectionMatrix,
		InvViewProj:    c.inverseViewProj,
		CameraPosition: common.ToVec3(c.eye),
	}
}

func (c *cameraImpl) Source() ViewSource {
	return c.source
}

func (c *cameraImpl) SetSource(src ViewSource) {
	c.source = src
}

func (c *cameraImpl) Update() error {
	if c.source == nil {
		return nil
	}

	eye, err := c.source.EyePosition()
	if err != nil {
		return fmt.Errorf("camera eye: %w", err)
	}
	target, err := c.source.CenterPosition()
	if err != nil {
		return fmt.Errorf("camera target: %w", err)
	}
	up, err := c.source.UpVector()
	if err != nil {
		return fmt.Errorf("camera up: %w", err)
	}
	frustum, err := c.source.Frustum()
	if err != nil {
		return fmt.Errorf("camera frustum: %w", err)
	}

	c.eye, c.target, c.up, c.frustum = eye, target, up, frustum
	c.updateMatrices()
	return nil
}

// updateMatrices recalculates the view, projection and view-projection matrices from the stored vectors.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = common.LookAt(c.eye, c.target, c.up)
	c.projectionMatrix = c.frustum.ProjectionMatrix()
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	c.inverseViewProj = c.viewProjectionMatrix.Inv()
}
