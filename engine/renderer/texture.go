package renderer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/gaps/engine/assets/loaders"
	"github.com/spaghettifunk/gaps/engine/core"
	"github.com/spaghettifunk/gaps/engine/resources"
)

// DefaultTexturePath is where relative texture paths are looked up when
// they do not exist as given.
const DefaultTexturePath = "Assets/Textures/"

type TextureDescriptor struct {
	GenerateMipmap bool
	// FlipY stores the first image row at the bottom, as OpenGL samples it.
	FlipY  bool
	Filter resources.TextureFilter
	Repeat resources.TextureRepeat
	// MaxSize caps width and height, scaling bigger images down. 0 keeps
	// the image size.
	MaxSize int
}

func DefaultTextureDescriptor() TextureDescriptor {
	return TextureDescriptor{
		GenerateMipmap: true,
		FlipY:          true,
		Filter:         resources.TextureFilterModeLinear,
		Repeat:         resources.TextureRepeatRepeat,
	}
}

// Texture is a 2D image uploaded to the GPU. Its lifecycle is independent of
// the frame loop.
type Texture struct {
	backend    TextureBackend
	loader     loaders.TextureLoader
	desc       TextureDescriptor
	loaded     bool
	internalID uint32
	width      uint32
	height     uint32
	path       string
}

func NewTexture(backend TextureBackend, desc TextureDescriptor) *Texture {
	return &Texture{
		backend: backend,
		desc:    desc,
	}
}

// Load decodes the image at filePath and uploads it. Loading over an already
// loaded texture replaces its GPU storage.
func (t *Texture) Load(filePath string) error {
	path := resolveTexturePath(filePath)

	res, err := t.loader.Load(path, &resources.ImageResourceParams{
		FlipY:   t.desc.FlipY,
		MaxSize: t.desc.MaxSize,
	})
	if err != nil {
		return fmt.Errorf("failed to load texture %q: %w", filePath, err)
	}
	defer func() {
		if err := t.loader.Unload(res); err != nil {
			core.LogWarn("failed to unload texture data %q: %s", path, err)
		}
	}()

	data, ok := res.Data.(*resources.ImageResourceData)
	if !ok {
		return fmt.Errorf("texture %q: %w", filePath, core.ErrUnknown)
	}

	id, err := t.backend.TextureCreate(t.desc, data.Image)
	if err != nil {
		return fmt.Errorf("failed to upload texture %q: %w", filePath, err)
	}

	if t.loaded {
		t.backend.TextureDestroy(t.internalID)
	}
	t.internalID = id
	t.width = data.Width
	t.height = data.Height
	t.path = path
	t.loaded = true

	core.LogDebug("texture `%s` loaded (%dx%d, id %d)", path, t.width, t.height, id)
	return nil
}

// Reload loads again the file the texture was last loaded from.
func (t *Texture) Reload() error {
	if t.path == "" {
		return core.ErrTextureNotLoaded
	}
	return t.Load(t.path)
}

// Bind makes the texture active on the given slot.
func (t *Texture) Bind(location uint32) {
	if !t.loaded {
		core.LogWarn("binding texture that is not loaded, skipping")
		return
	}
	t.backend.TextureBind(t.internalID, location)
}

func (t *Texture) Descriptor() TextureDescriptor {
	return t.desc
}

func (t *Texture) IsLoaded() bool {
	return t.loaded
}

func (t *Texture) InternalID() uint32 {
	return t.internalID
}

func (t *Texture) Path() string {
	return t.path
}

func (t *Texture) Size() (uint32, uint32) {
	return t.width, t.height
}

// Release frees the GPU storage. Safe to call more than once.
func (t *Texture) Release() {
	if !t.loaded {
		return
	}
	t.backend.TextureDestroy(t.internalID)
	t.loaded = false
	t.internalID = 0
}

func resolveTexturePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	if _, err := os.Stat(filePath); !errors.Is(err, os.ErrNotExist) {
		return filePath
	}
	return filepath.Join(DefaultTexturePath, filePath)
}
