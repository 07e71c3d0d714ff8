package loaders

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spaghettifunk/gaps/engine/resources"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type TextureLoader struct{}

func (tl *TextureLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	flipY := false
	maxSize := 0
	if p, ok := params.(*resources.ImageResourceParams); ok && p != nil {
		flipY = p.FlipY
		maxSize = p.MaxSize
	}

	// Open and decode the texture image file
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	if b := img.Bounds(); maxSize > 0 && (b.Dx() > maxSize || b.Dy() > maxSize) {
		img = imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
	}

	rgba := ToRGBA(img, flipY)
	bounds := rgba.Bounds()

	return &resources.Resource{
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		FullPath: path,
		Type:     resources.ResourceTypeImage,
		DataSize: uint64(len(rgba.Pix)),
		Data: &resources.ImageResourceData{
			ChannelCount: 4,
			Width:        uint32(bounds.Dx()),
			Height:       uint32(bounds.Dy()),
			Image:        rgba,
		},
	}, nil
}

func (tl *TextureLoader) Unload(resource *resources.Resource) error {
	if resource == nil {
		return nil
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

// ToRGBA converts any image into a tightly packed RGBA image with its origin
// at (0, 0), optionally flipping the rows so the first row is the bottom one
// as OpenGL expects.
func ToRGBA(img image.Image, flipY bool) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)

	if flipY {
		stride := rgba.Stride
		row := make([]byte, stride)
		for top, bottom := 0, b.Dy()-1; top < bottom; top, bottom = top+1, bottom-1 {
			t := rgba.Pix[top*stride : (top+1)*stride]
			bt := rgba.Pix[bottom*stride : (bottom+1)*stride]
			copy(row, t)
			copy(t, bt)
			copy(bt, row)
		}
	}
	return rgba
}
