package camera

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithSource attaches the ViewSource the camera reads each frame and computes the initial matrices from it.
// If the source cannot produce a view yet the camera keeps identity matrices until the next Update.
//
// Parameters:
//   - src: the view source, usually a navigation.Navigator
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's view source
func WithSource(src ViewSource) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.source = src
		_ = c.Update()
	}
}
