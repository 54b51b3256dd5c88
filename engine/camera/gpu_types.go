package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct consumed by the sphere
// pipeline. Matches GPUCameraUniform layout exactly (144 bytes).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Size: 144 bytes (WGSL aligned).
type GPUCameraUniform struct {
	ViewProj       mgl32.Mat4 // offset   0: combined view-projection matrix (mat4x4<f32>)
	InvViewProj    mgl32.Mat4 // offset  64: inverse of ViewProj, clip space back to world (mat4x4<f32>)
	CameraPosition mgl32.Vec3 // offset 128: world-space eye position (vec3<f32>)
	_pad           float32    // offset 140: padding to 144 bytes
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a little-endian byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.InvViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	binary.LittleEndian.PutUint32(buf[140:], 0)
	return buf
}
