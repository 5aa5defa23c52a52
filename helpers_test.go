package asciivid

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/submersibletoaster/asciivid/glyph"
)

// blockFont fills the whole cell of every glyph, which makes the expected
// canvas easy to reason about
type blockFont struct {
	w, h int
}

func (f blockFont) Metrics() (int, int) { return f.w, f.h }
func (f blockFont) NewFace() glyph.Face { return f }

func (f blockFont) DrawRune(dst draw.Image, x, y int, r rune, c color.Color) {
	draw.Draw(dst, image.Rect(x, y, x+f.w, y+f.h), image.NewUniform(c), image.ZP, draw.Src)
}

func solidFrame(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.ZP, draw.Src)
	return img
}

func noiseFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 0xff
			continue
		}
		img.Pix[i] = uint8((i * 31) ^ (i >> 3))
	}
	return img
}
