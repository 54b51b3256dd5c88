package renderer

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/shader"
)

//go:embed assets/sphere_grid.wgsl
var sphereGridSource string

// SpherePipelineKey labels the GPU objects of the sphere grid pass.
const SpherePipelineKey = "Sphere Grid"

// sphereShaderSource returns the WGSL of the sphere grid pass with the camera uniform struct prepended.
func sphereShaderSource() string {
	return camera.GPUCameraUniformSource + "\n" + sphereGridSource
}

// newSpherePipeline describes the pass that draws the view sphere as one fullscreen triangle.
//
// Returns:
//   - pipeline.Pipeline: the pipeline description, not yet registered with a backend
//   - error: an error if the embedded shader cannot be parsed
func newSpherePipeline() (pipeline.Pipeline, error) {
	source := sphereShaderSource()
	vs, err := shader.NewShader(SpherePipelineKey+" VS", shader.ShaderTypeVertex, source)
	if err != nil {
		return nil, fmt.Errorf("sphere vertex shader: %w", err)
	}
	fs, err := shader.NewShader(SpherePipelineKey+" FS", shader.ShaderTypeFragment, source)
	if err != nil {
		return nil, fmt.Errorf("sphere fragment shader: %w", err)
	}
	return pipeline.NewPipeline(SpherePipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithVertexCount(3),
	), nil
}
