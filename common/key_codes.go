package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyF     = 70  // F key (ASCII), toggles fullscreen
	KeyR     = 82  // R key (ASCII), resets the view direction
	KeyMinus = 45  // - key (ASCII), zooms out
	KeyEqual = 61  // = key (ASCII), zooms in
	KeyEsc   = 256 // Escape key (GLFW)

	KeyRight = 262 // Right arrow (GLFW), turns the view right
	KeyLeft  = 263 // Left arrow (GLFW), turns the view left
	KeyDown  = 264 // Down arrow (GLFW), tilts the view down
	KeyUp    = 265 // Up arrow (GLFW), tilts the view up

	KeyKPSubtract = 333 // Keypad - (GLFW), zooms out
	KeyKPAdd      = 334 // Keypad + (GLFW), zooms in
)
