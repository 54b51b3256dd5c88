package renderer

// RendererBuilderOption is a functional option for configuring a Renderer.
type RendererBuilderOption func(*rendererImpl)

// WithPresentMode sets the surface present mode.
//
// Parameters:
//   - mode: the PresentMode to use (PresentModeVSync or PresentModeUncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.presentMode = mode
	}
}

// WithClearColor sets the color each frame is cleared to.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option
func WithClearColor(color ClearColor) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.clearColor = color
	}
}

// WithForceSoftwareRenderer requests the software fallback adapter instead of a hardware GPU.
//
// Parameters:
//   - force: whether to force the fallback adapter
//
// Returns:
//   - RendererBuilderOption: a function that applies the fallback adapter option
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.forceFallbackAdapter = force
	}
}
