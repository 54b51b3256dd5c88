package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in, negative = down/zoom out)
	SetScrollCallback(callback func(delta float64))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetPointerDownCallback sets the callback for primary (left) button press.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in framebuffer pixels
	SetPointerDownCallback(callback func(x, y float64))

	// SetPointerUpCallback sets the callback for primary (left) button release.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in framebuffer pixels
	SetPointerUpCallback(callback func(x, y float64))

	// SetPointerMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in framebuffer pixels
	SetPointerMoveCallback(callback func(x, y float64))

	// SetPickCallback sets the callback for secondary (right) button press.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in framebuffer pixels
	SetPickCallback(callback func(x, y float64))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// SetTitle replaces the title bar text.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// Title returns the current title bar text.
	//
	// Returns:
	//   - string: the title
	Title() string

	// ToggleFullscreen switches between windowed mode and fullscreen on the primary monitor.
	ToggleFullscreen()

	// Fullscreen reports whether the window is currently fullscreen.
	//
	// Returns:
	//   - bool: true when fullscreen
	Fullscreen() bool

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	title string

	// Size limits applied while the window is resized by the user.
	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// Framebuffer size in pixels.
	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(delta float64)
	onKeyDown     func(keyCode uint32)
	onKeyUp       func(keyCode uint32)
	onPointerDown func(x, y float64)
	onPointerUp   func(x, y float64)
	onPointerMove func(x, y float64)
	onPick        func(x, y float64)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:     "Panorama",
		maxWidth:  7680,
		maxHeight: 4320,
		minWidth:  320,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float64)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetPointerDownCallback(callback func(x, y float64)) {
	w.onPointerDown = callback
}

func (w *engineWindow) SetPointerUpCallback(callback func(x, y float64)) {
	w.onPointerUp = callback
}

func (w *engineWindow) SetPointerMoveCallback(callback func(x, y float64)) {
	w.onPointerMove = callback
}

func (w *engineWindow) SetPickCallback(callback func(x, y float64)) {
	w.onPick = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) SetTitle(title string) {
	if title == w.title {
		return
	}
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) ToggleFullscreen() {
	platformToggleFullscreen(w)
}

func (w *engineWindow) Fullscreen() bool {
	return platformIsFullscreen(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
