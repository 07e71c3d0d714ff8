package renderer

import (
	"errors"
	"image"
)

type fakeBackend struct {
	calls        []string
	initErr      error
	createErr    error
	nextID       uint32
	live         map[uint32]bool
	lastBind     [2]uint32
	lastResize   [2]uint32
	lastConfig   BackendConfig
	lastDesc     TextureDescriptor
	lastUploaded *image.RGBA
}

var errFakeUpload = errors.New("upload failed")

func newFakeBackend() *fakeBackend {
	return &fakeBackend{live: make(map[uint32]bool)}
}

func (f *fakeBackend) Type() RendererType { return OpenGL }

func (f *fakeBackend) Initialize(config BackendConfig) error {
	f.calls = append(f.calls, "initialize")
	f.lastConfig = config
	return f.initErr
}

func (f *fakeBackend) Shutdown() error {
	f.calls = append(f.calls, "shutdown")
	return nil
}

func (f *fakeBackend) Resized(width, height uint32) {
	f.calls = append(f.calls, "resized")
	f.lastResize = [2]uint32{width, height}
}

func (f *fakeBackend) Clear() {
	f.calls = append(f.calls, "clear")
}

func (f *fakeBackend) TextureCreate(desc TextureDescriptor, img *image.RGBA) (uint32, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	f.live[f.nextID] = true
	f.lastDesc = desc
	f.lastUploaded = img
	return f.nextID, nil
}

func (f *fakeBackend) TextureBind(id uint32, slot uint32) {
	f.lastBind = [2]uint32{id, slot}
}

func (f *fakeBackend) TextureDestroy(id uint32) {
	delete(f.live, id)
}
