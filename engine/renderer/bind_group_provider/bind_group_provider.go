package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is the debug label prefix of every GPU object created for this provider.
	label string

	// bindGroup is nil until the renderer has created it.
	bindGroup *wgpu.BindGroup
	// bindGroupLayout is nil until the renderer has created it.
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds the GPU buffers bound by this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// borrowed marks buffers owned by someone else, e.g. the camera uniform buffer; Release leaves them alone.
	borrowed map[int]bool
}

// BindGroupProvider holds the GPU resources of one bind group.
//
// Usage pattern:
//  1. Create a provider, passing in buffers that already exist with WithBuffer
//  2. The renderer creates the layout, any missing buffers and the bind group, and stores them here
//  3. Draw calls bind BindGroup()
//  4. Release frees what the provider owns
type BindGroupProvider interface {
	// Release frees the bind group, the layout and every buffer the provider owns.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group, or nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the created bind group layout, or nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer at a binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// Buffers returns all buffers keyed by binding index.
	//
	// Returns:
	//   - map[int]*wgpu.Buffer: the buffers
	Buffers() map[int]*wgpu.Buffer

	// Borrowed reports whether the buffer at a binding is owned elsewhere.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - bool: true if Release will not free the buffer
	Borrowed(binding int) bool

	// SetBindGroup sets the bind group after GPU initialization.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout sets the bind group layout after GPU initialization.
	//
	// Parameters:
	//   - bgl: the created bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores a buffer the provider owns.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider.
//
// Parameters:
//   - label: the debug label for GPU objects created for this provider
//   - options: functional options to configure the provider
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:    label,
		buffers:  make(map[int]*wgpu.Buffer),
		borrowed: make(map[int]bool),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Buffers() map[int]*wgpu.Buffer {
	return p.buffers
}

func (p *bindGroupProvider) Borrowed(binding int) bool {
	return p.borrowed[binding]
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
	delete(p.borrowed, binding)
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	for binding, buf := range p.buffers {
		if buf != nil && !p.borrowed[binding] {
			buf.Release()
		}
		delete(p.buffers, binding)
		delete(p.borrowed, binding)
	}
}
