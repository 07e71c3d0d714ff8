package platform

import (
	"github.com/spaghettifunk/gaps/engine/core"
)

type WindowConfig struct {
	// Window starting position x axis, if applicable.
	PosX uint32
	// Window starting position y axis, if applicable.
	PosY uint32
	// Window starting width.
	Width uint32
	// Window starting height.
	Height uint32
	// Title shown by the OS, if applicable.
	Title     string
	VSync     bool
	Resizable bool
}

// Window owns the OS window and the graphics surface attached to it.
type Window interface {
	// Create opens the window. Calling it again before Destroy fails with
	// core.ErrWindowAlreadyCreated.
	Create(config WindowConfig) error
	// ShouldClose reflects the state observed by the latest Update.
	ShouldClose() bool
	SetShouldClose(value bool)
	// Update pumps the OS messages. Input is forwarded to the bound sink,
	// never delivered directly.
	Update()
	// SwapBuffers presents the current frame.
	SwapBuffers()
	// Destroy releases the OS resources. Safe to call more than once.
	Destroy()
	// BindEvents sets where the window forwards its input. The window does
	// not own the sink.
	BindEvents(sink core.EventSink)
	FramebufferSize() (uint32, uint32)
}

// Native wraps the process-wide windowing and graphics libraries.
type Native interface {
	// Init initializes the windowing library.
	Init() error
	// LoadFunctions resolves the graphics API entry points. Requires a
	// current context, hence a created window.
	LoadFunctions() error
	Terminate()
}
