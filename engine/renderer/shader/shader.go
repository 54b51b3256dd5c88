package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader entry point runs in.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// String returns the WGSL attribute name of the stage.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// shader is the implementation of the Shader interface.
// It holds the WGSL source and the metadata parsed from it that pipeline creation needs.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader is a WGSL shader stage. It exposes the source, the entry point and the bind group layouts
// declared by the source, so a pipeline can be created without hand-written layout descriptors.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used as the GPU debug label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for one group index.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all bind group layout descriptors declared by the source.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not declared
	BindGroupVarName(group, binding int) string

	// Module returns the shader module descriptor built from the source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader creates a Shader from WGSL source. The entry point and the buffer bind group layouts
// are parsed from the source.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage whose entry point is used
//   - source: the WGSL source code
//   - options: functional options applied after parsing
//
// Returns:
//   - Shader: the new shader
//   - error: an error if the source has no entry point for the stage or declares an unsupported binding
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:        key,
		shaderType: shaderType,
		source:     source,
	}

	s.entryPoint = parseEntryPoint(source, shaderType)

	var visibility wgpu.ShaderStage
	switch shaderType {
	case ShaderTypeVertex:
		visibility = wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		visibility = wgpu.ShaderStageFragment
	default:
		return nil, fmt.Errorf("shader %s: unsupported shader type %v", key, shaderType)
	}

	var err error
	s.bindGroupLayoutDescriptors, s.bindingVarNames, err = parseBindGroupLayouts(source, visibility)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	for _, option := range options {
		option(s)
	}
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no @%s entry point", key, shaderType)
	}

	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
