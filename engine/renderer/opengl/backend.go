package opengl

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/spaghettifunk/gaps/engine/core"
	"github.com/spaghettifunk/gaps/engine/renderer"
	"github.com/spaghettifunk/gaps/engine/resources"
)

// Backend renders through an OpenGL 3.3 core context. The context must be
// current on the calling thread and its functions loaded before Initialize.
type Backend struct {
	config   renderer.BackendConfig
	textures map[uint32]struct{}
}

func New() *Backend {
	return &Backend{
		textures: make(map[uint32]struct{}),
	}
}

func (b *Backend) Type() renderer.RendererType {
	return renderer.OpenGL
}

func (b *Backend) Initialize(config renderer.BackendConfig) error {
	b.config = config

	core.LogInfo("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))
	core.LogDebug("OpenGL renderer %s", gl.GoStr(gl.GetString(gl.RENDERER)))

	if config.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
	}
	if config.Blend {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}

	c := config.ClearColour
	gl.ClearColor(c.X, c.Y, c.Z, c.W)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("opengl setup failed with error 0x%x", code)
	}
	return nil
}

// Shutdown deletes every texture still alive.
func (b *Backend) Shutdown() error {
	for id := range b.textures {
		b.TextureDestroy(id)
	}
	return nil
}

func (b *Backend) Resized(width, height uint32) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (b *Backend) Clear() {
	mask := uint32(gl.COLOR_BUFFER_BIT)
	if b.config.DepthTest {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(mask)
}

func (b *Backend) TextureCreate(desc renderer.TextureDescriptor, img *image.RGBA) (uint32, error) {
	if img == nil {
		return 0, fmt.Errorf("cannot upload a nil image")
	}
	size := img.Rect.Size()

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	wrap := int32(convertRepeat(desc.Repeat))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, int32(convertMinFilter(desc.Filter, desc.GenerateMipmap)))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, int32(convertMagFilter(desc.Filter)))

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(size.X),
		int32(size.Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix),
	)
	if desc.GenerateMipmap {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &id)
		return 0, fmt.Errorf("texture upload failed with error 0x%x", code)
	}
	b.textures[id] = struct{}{}
	return id, nil
}

func (b *Backend) TextureBind(id uint32, slot uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + slot)
	gl.BindTexture(gl.TEXTURE_2D, id)
}

func (b *Backend) TextureDestroy(id uint32) {
	if _, ok := b.textures[id]; !ok {
		return
	}
	gl.DeleteTextures(1, &id)
	delete(b.textures, id)
}

func convertRepeat(repeat resources.TextureRepeat) uint32 {
	switch repeat {
	case resources.TextureRepeatMirroredRepeat:
		return gl.MIRRORED_REPEAT
	case resources.TextureRepeatClampToEdge:
		return gl.CLAMP_TO_EDGE
	case resources.TextureRepeatClampToBorder:
		return gl.CLAMP_TO_BORDER
	default:
		return gl.REPEAT
	}
}

func convertMinFilter(filter resources.TextureFilter, mipmaps bool) uint32 {
	if filter == resources.TextureFilterModeNearest {
		if mipmaps {
			return gl.NEAREST_MIPMAP_NEAREST
		}
		return gl.NEAREST
	}
	if mipmaps {
		return gl.LINEAR_MIPMAP_LINEAR
	}
	return gl.LINEAR
}

func convertMagFilter(filter resources.TextureFilter) uint32 {
	if filter == resources.TextureFilterModeNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}
