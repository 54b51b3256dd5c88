package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBuffer binds an existing buffer the provider does not own. Release leaves it alone.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		if buf == nil {
			return
		}
		p.buffers[binding] = buf
		p.borrowed[binding] = true
	}
}
