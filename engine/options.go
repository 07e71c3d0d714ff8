package engine

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/gaps/engine/core"
	"github.com/spaghettifunk/gaps/engine/math"
	"github.com/spaghettifunk/gaps/engine/platform"
	"github.com/spaghettifunk/gaps/engine/renderer"
)

// Dispatcher is the event queue and listener registry the engine drives.
// core.EventDispatcher is the implementation used outside tests.
type Dispatcher interface {
	core.EventSink
	Register(code core.EventCode, onEvent core.FnOnEvent) uuid.UUID
	Unregister(code core.EventCode, id uuid.UUID) bool
	DispatchEvents() int
	Shutdown() error
}

// Renderer is the frame clear and setup control object.
// *renderer.Renderer is the implementation used outside tests.
type Renderer interface {
	Setup() error
	ClearScreen()
	Resize(width, height uint32)
	NewTexture(desc renderer.TextureDescriptor) *renderer.Texture
	Shutdown() error
}

type (
	DispatcherConstructor func() Dispatcher
	WindowConstructor     func() platform.Window
	RendererConstructor   func(config ApplicationConfig) Renderer
)

type options struct {
	config        ApplicationConfig
	native        platform.Native
	newDispatcher DispatcherConstructor
	newWindow     WindowConstructor
	newRenderer   RendererConstructor
}

func defaultOptions() *options {
	return &options{
		config: DefaultApplicationConfig(),
		newDispatcher: func() Dispatcher {
			return core.NewEventDispatcher()
		},
	}
}

type Option func(*options)

func WithConfig(config ApplicationConfig) Option {
	return func(o *options) {
		o.config = config
	}
}

// WithNative sets the windowing and graphics library services.
func WithNative(native platform.Native) Option {
	return func(o *options) {
		o.native = native
	}
}

func WithDispatcher(fn DispatcherConstructor) Option {
	return func(o *options) {
		o.newDispatcher = fn
	}
}

func WithWindow(fn WindowConstructor) Option {
	return func(o *options) {
		o.newWindow = fn
	}
}

func WithRenderer(fn RendererConstructor) Option {
	return func(o *options) {
		o.newRenderer = fn
	}
}

// WithRendererBackend builds a *renderer.Renderer over the backend returned
// by fn, configured from the application config.
func WithRendererBackend(fn func() renderer.RendererBackend) Option {
	return WithRenderer(func(config ApplicationConfig) Renderer {
		backend := fn()
		if backend == nil {
			return nil
		}
		return renderer.New(backend, rendererConfig(config))
	})
}

func rendererConfig(config ApplicationConfig) renderer.BackendConfig {
	return renderer.BackendConfig{
		ClearColour: math.NewVec4FromArray(config.ClearColour),
		DepthTest:   config.DepthTest,
		Blend:       config.Blend,
	}
}
