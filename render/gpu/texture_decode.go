package gpu

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeTexture2D decodes png, jpeg, bmp, tiff or webp data into an RGBA texture.
func DecodeTexture2D(r io.Reader, name string) (*Texture2D, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", name, err)
	}

	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || len(rgba.Pix) != bounds.Dx()*bounds.Dy()*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	return NewTexture2D(name, bounds.Dx(), bounds.Dy(), rgba.Pix), nil
}

// SolidTexture2D returns a 1x1 texture of the given color.
func SolidTexture2D(name string, r, g, b, a uint8) *Texture2D {
	return NewTexture2D(name, 1, 1, []byte{r, g, b, a})
}
