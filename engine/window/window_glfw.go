package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool

	// Windowed placement restored when leaving fullscreen.
	windowedX, windowedY          int
	windowedWidth, windowedHeight int
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		switch action {
		case glfw.Press, glfw.Repeat:
			if w.onKeyDown != nil {
				w.onKeyDown(uint32(key))
			}
		case glfw.Release:
			if w.onKeyUp != nil {
				w.onKeyUp(uint32(key))
			}
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetScrollCallback
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(yoff)
		}
	})

	// Cursor positions are reported in screen coordinates; scale them to framebuffer pixels
	// so they match the Width/Height the navigation layer normalizes against.
	toFramebuffer := func(xpos, ypos float64) (float64, float64) {
		winWidth, winHeight := win.GetSize()
		if winWidth <= 0 || winHeight <= 0 {
			return xpos, ypos
		}
		return xpos * float64(w.width) / float64(winWidth), ypos * float64(w.height) / float64(winHeight)
	}

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetMouseButtonCallback
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		x, y := toFramebuffer(win.GetCursorPos())
		switch button {
		case glfw.MouseButtonLeft:
			switch action {
			case glfw.Press:
				if w.onPointerDown != nil {
					w.onPointerDown(x, y)
				}
			case glfw.Release:
				if w.onPointerUp != nil {
					w.onPointerUp(x, y)
				}
			}
		case glfw.MouseButtonRight:
			if action == glfw.Press && w.onPick != nil {
				w.onPick(x, y)
			}
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetCursorPosCallback
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if w.onPointerMove != nil {
			w.onPointerMove(toFramebuffer(xpos, ypos))
		}
	})

	// Use framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays (e.g., macOS Retina), framebuffer size differs from window size.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	return nil
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	gw := w.internalWindow.(*glfwWindow)
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func platformSetTitle(w *engineWindow, title string) {
	if w.internalWindow == nil {
		return
	}
	w.internalWindow.(*glfwWindow).window.SetTitle(title)
}

// platformToggleFullscreen moves the window onto the primary monitor at its current video mode,
// or back to the remembered windowed placement.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetMonitor
func platformToggleFullscreen(w *engineWindow) {
	if w.internalWindow == nil {
		return
	}
	gw := w.internalWindow.(*glfwWindow)

	if gw.window.GetMonitor() != nil {
		gw.window.SetMonitor(nil, gw.windowedX, gw.windowedY, gw.windowedWidth, gw.windowedHeight, 0)
		return
	}

	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return
	}
	mode := monitor.GetVideoMode()
	gw.windowedX, gw.windowedY = gw.window.GetPos()
	gw.windowedWidth, gw.windowedHeight = gw.window.GetSize()
	gw.window.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
}

func platformIsFullscreen(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	return w.internalWindow.(*glfwWindow).window.GetMonitor() != nil
}

// platformIsRunningCheck returns whether the GLFW window is still active.
// Returns false if the internal window is nil, the running flag is cleared, or GLFW reports ShouldClose.
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && !gw.window.ShouldClose()
}

func platformRequestClose(w *engineWindow) {
	if w.internalWindow == nil {
		return
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	gw.window.SetShouldClose(true)
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
