package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestToVec3(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{1, -2, 0.5}, ToVec3(r3.Vec{X: 1, Y: -2, Z: 0.5}))
}

func TestLookAt(t *testing.T) {
	eye := r3.Vec{X: -0.5}
	center := r3.Vec{X: 1}
	up := r3.Vec{Z: 1}
	view := LookAt(eye, center, up)

	toView := func(v r3.Vec) mgl32.Vec3 {
		return view.Mul4x1(ToVec3(v).Vec4(1)).Vec3()
	}

	gotEye := toView(eye)
	gotCenter := toView(center)
	gotUp := toView(r3.Add(eye, up))
	for i := range 3 {
		assert.InDelta(t, 0, gotEye[i], matTolerance)
	}
	// The view looks down -z with +y up.
	assert.InDelta(t, 0, gotCenter.X(), matTolerance)
	assert.InDelta(t, 0, gotCenter.Y(), matTolerance)
	assert.InDelta(t, -1.5, gotCenter.Z(), matTolerance)
	assert.InDelta(t, 1, gotUp.Y(), matTolerance)
}

func TestDepthRemap(t *testing.T) {
	remapped := DepthRemap(mgl32.Ident4())
	p := remapped.Mul4x1(mgl32.Vec4{0.3, -0.2, -1, 1})
	assert.InDelta(t, 0.3, p.X(), matTolerance)
	assert.InDelta(t, -0.2, p.Y(), matTolerance)
	assert.InDelta(t, 0, p.Z(), matTolerance)

	p = remapped.Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	assert.InDelta(t, 1, p.Z(), matTolerance)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
	assert.Equal(t, 3, Coalesce(3))
}
