package renderer

import (
	"image"

	"github.com/spaghettifunk/gaps/engine/math"
)

type RendererType uint8

const (
	OpenGL RendererType = iota
	Vulkan
	DirectX
	Metal
)

type BackendConfig struct {
	ClearColour math.Vec4
	DepthTest   bool
	Blend       bool
}

// TextureBackend uploads, binds and frees GPU textures.
type TextureBackend interface {
	TextureCreate(desc TextureDescriptor, img *image.RGBA) (uint32, error)
	TextureBind(id uint32, slot uint32)
	TextureDestroy(id uint32)
}

// RendererBackend is the graphics API behind the Renderer. Every call
// expects a valid, current graphics context.
type RendererBackend interface {
	TextureBackend

	Type() RendererType
	Initialize(config BackendConfig) error
	Shutdown() error
	Resized(width, height uint32)
	Clear()
}
