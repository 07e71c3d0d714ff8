package desktop

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/gaps/engine/core"
	"github.com/spaghettifunk/gaps/engine/platform"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// GLFWWindow is a Window backed by GLFW with an OpenGL 3.3 core context.
type GLFWWindow struct {
	handle *glfw.Window
	sink   core.EventSink
}

func NewGLFWWindow() *GLFWWindow {
	return &GLFWWindow{}
}

func (w *GLFWWindow) Create(config platform.WindowConfig) error {
	if w.handle != nil {
		return core.ErrWindowAlreadyCreated
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, boolHint(config.Resizable))
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(config.Width), int(config.Height), config.Title, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		return err
	}
	window.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	w.handle = window

	w.handle.SetKeyCallback(w.keyCallback)
	w.handle.SetMouseButtonCallback(w.mouseButtonCallback)
	w.handle.SetCursorPosCallback(w.cursorPosCallback)
	w.handle.SetScrollCallback(w.scrollCallback)
	w.handle.SetFramebufferSizeCallback(w.framebufferSizeCallback)
	w.handle.SetPos(int(config.PosX), int(config.PosY))
	w.handle.Show()

	core.LogDebug("window `%s` created (%dx%d)", config.Title, config.Width, config.Height)
	return nil
}

func (w *GLFWWindow) ShouldClose() bool {
	if w.handle == nil {
		return true
	}
	return w.handle.ShouldClose()
}

func (w *GLFWWindow) SetShouldClose(value bool) {
	if w.handle != nil {
		w.handle.SetShouldClose(value)
	}
}

func (w *GLFWWindow) Update() {
	glfw.PollEvents()
}

func (w *GLFWWindow) SwapBuffers() {
	if w.handle != nil {
		w.handle.SwapBuffers()
	}
}

func (w *GLFWWindow) Destroy() {
	if w.handle == nil {
		return
	}
	w.handle.Destroy()
	w.handle = nil
}

func (w *GLFWWindow) BindEvents(sink core.EventSink) {
	w.sink = sink
}

func (w *GLFWWindow) FramebufferSize() (uint32, uint32) {
	if w.handle == nil {
		return 0, 0
	}
	width, height := w.handle.GetFramebufferSize()
	return uint32(width), uint32(height)
}

func (w *GLFWWindow) emit(code core.EventCode, data interface{}) {
	if w.sink == nil {
		return
	}
	w.sink.Enqueue(core.EventContext{
		Type:   code,
		Sender: w,
		Data:   data,
	})
}

func (w *GLFWWindow) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action == glfw.Repeat {
		return
	}
	keyCode, ok := TranslateKey(key)
	if !ok {
		return
	}
	code := core.EVENT_CODE_KEY_PRESSED
	if action == glfw.Release {
		code = core.EVENT_CODE_KEY_RELEASED
	}
	w.emit(code, &core.KeyEvent{KeyCode: keyCode})
}

func (w *GLFWWindow) mouseButtonCallback(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	btn, ok := TranslateButton(button)
	if !ok {
		return
	}
	code := core.EVENT_CODE_BUTTON_PRESSED
	if action == glfw.Release {
		code = core.EVENT_CODE_BUTTON_RELEASED
	}
	w.emit(code, &core.MouseEvent{Button: btn})
}

func (w *GLFWWindow) cursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	w.emit(core.EVENT_CODE_MOUSE_MOVED, &core.MouseEvent{
		PosX: int32(xpos),
		PosY: int32(ypos),
	})
}

func (w *GLFWWindow) scrollCallback(_ *glfw.Window, _, yoff float64) {
	var delta int8
	switch {
	case yoff > 0:
		delta = 1
	case yoff < 0:
		delta = -1
	default:
		return
	}
	w.emit(core.EVENT_CODE_MOUSE_WHEEL, &core.MouseEvent{ZDelta: delta})
}

func (w *GLFWWindow) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	w.emit(core.EVENT_CODE_RESIZED, &core.SystemEvent{
		WindowWidth:  uint32(width),
		WindowHeight: uint32(height),
	})
}

func boolHint(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}
