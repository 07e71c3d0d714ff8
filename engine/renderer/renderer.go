package renderer

import (
	"github.com/spaghettifunk/gaps/engine/core"
)

// Renderer owns frame clearing and the one-time graphics setup. It keeps no
// per-frame state; textures created through it are owned by the caller.
type Renderer struct {
	backend    RendererBackend
	config     BackendConfig
	isSetup    bool
	isShutdown bool
	warnedOnce bool
	width      uint32
	height     uint32
}

func New(backend RendererBackend, config BackendConfig) *Renderer {
	return &Renderer{
		backend: backend,
		config:  config,
	}
}

// Setup initializes the backend. Must run once, after the graphics context
// is current and before any clear or draw call.
func (r *Renderer) Setup() error {
	if r.isShutdown {
		return core.ErrRendererShutdown
	}
	if r.isSetup {
		return core.ErrRendererAlreadySetup
	}
	if err := r.backend.Initialize(r.config); err != nil {
		return err
	}
	r.isSetup = true
	core.LogInfo("renderer backend `%s` initialized", r.backend.Type())
	return nil
}

// ClearScreen clears the active frame buffer.
func (r *Renderer) ClearScreen() {
	if !r.isSetup || r.isShutdown {
		if !r.warnedOnce {
			core.LogWarn("ClearScreen called on a renderer that is not set up, skipping")
			r.warnedOnce = true
		}
		return
	}
	r.backend.Clear()
}

// Resize updates the viewport. Zero sizes (minimized window) are ignored.
func (r *Renderer) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	r.width = width
	r.height = height
	if r.isSetup && !r.isShutdown {
		r.backend.Resized(width, height)
	}
}

func (r *Renderer) Size() (uint32, uint32) {
	return r.width, r.height
}

func (r *Renderer) IsSetup() bool {
	return r.isSetup
}

// NewTexture returns an unloaded texture that uploads through this renderer.
func (r *Renderer) NewTexture(desc TextureDescriptor) *Texture {
	return NewTexture(r.backend, desc)
}

// Shutdown releases the backend. Safe to call more than once.
func (r *Renderer) Shutdown() error {
	if r.isShutdown {
		return nil
	}
	r.isShutdown = true
	if !r.isSetup {
		return nil
	}
	return r.backend.Shutdown()
}

func (t RendererType) String() string {
	switch t {
	case OpenGL:
		return "opengl"
	case Vulkan:
		return "vulkan"
	case DirectX:
		return "directx"
	case Metal:
		return "metal"
	default:
		return "unknown"
	}
}
