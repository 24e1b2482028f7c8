package core

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gekko3d/lumen/render/gpu"
)

type GlyphInfo struct {
	UVMin [2]float32
	UVMax [2]float32
	Size  [2]float32
	Off   [2]float32
	Adv   float32
}

// Font is a rasterized glyph atlas for printable ASCII.
type Font struct {
	Atlas  *gpu.Texture2D
	Glyphs map[rune]GlyphInfo
	Face   font.Face
}

const atlasSize = 512

// DefaultFont rasterizes the Go Regular face.
func DefaultFont(size float64) (*Font, error) {
	return NewFont(goregular.TTF, size)
}

func NewFont(ttf []byte, size float64) (*Font, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}

	atlas := image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize))
	glyphs := make(map[rune]GlyphInfo)

	x, y := 2, 2
	rowHeight := 0

	for r := rune(32); r < 127; r++ {
		bounds, mask, _, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}

		w := mask.Bounds().Dx()
		h := mask.Bounds().Dy()

		if x+w >= atlasSize {
			x = 2
			y += rowHeight + 4
			rowHeight = 0
		}
		if y+h >= atlasSize {
			break
		}

		draw.Draw(atlas, image.Rect(x, y, x+w, y+h), mask, mask.Bounds().Min, draw.Src)

		glyphs[r] = GlyphInfo{
			UVMin: [2]float32{float32(x) / atlasSize, float32(y) / atlasSize},
			UVMax: [2]float32{float32(x+w) / atlasSize, float32(y+h) / atlasSize},
			Size:  [2]float32{float32(w), float32(h)},
			Off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			Adv:   float32(adv) / 64.0,
		}

		x += w + 4
		if h > rowHeight {
			rowHeight = h
		}
	}

	// Coverage goes to alpha over white so the text shader can tint it.
	pixels := make([]byte, atlasSize*atlasSize*4)
	for i, a := range atlas.Pix {
		pixels[i*4+0] = 255
		pixels[i*4+1] = 255
		pixels[i*4+2] = 255
		pixels[i*4+3] = a
	}

	return &Font{
		Atlas:  gpu.NewTexture2D("font atlas", atlasSize, atlasSize, pixels),
		Glyphs: glyphs,
		Face:   face,
	}, nil
}

// LineHeight returns the line advance in pixels.
func (f *Font) LineHeight() float32 {
	return float32(f.Face.Metrics().Height.Ceil())
}

// Measure returns the pixel width and height of text.
func (f *Font) Measure(text string) (float32, float32) {
	maxW, currentW := float32(0), float32(0)
	lines := 1
	for _, r := range text {
		if r == '\n' {
			maxW = max(maxW, currentW)
			currentW = 0
			lines++
			continue
		}
		if g, ok := f.Glyphs[r]; ok {
			currentW += g.Adv
		}
	}
	return max(maxW, currentW), f.LineHeight() * float32(lines)
}
