package shader

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithEntryPoint overrides the parsed entry point, for sources that declare more than one function for the stage.
//
// Parameters:
//   - name: the entry point function name
//
// Returns:
//   - ShaderBuilderOption: a function that sets the entry point
func WithEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		if name != "" {
			s.entryPoint = name
		}
	}
}
