package asciivid

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/submersibletoaster/asciivid/glyph"
)

// DrawSheet renders each ramp as one row of glyph cells, white on black.
// Useful to eyeball that a font orders the ramps from dense to sparse.
func DrawSheet(font glyph.Font, ramps ...glyph.Ramp) *image.RGBA {
	sX, sY := font.Metrics()
	cols := 0
	for _, r := range ramps {
		if r.Len() > cols {
			cols = r.Len()
		}
	}
	i := image.NewRGBA(image.Rect(0, 0, sX*cols, sY*len(ramps)))
	draw.Draw(i, i.Bounds(), image.NewUniform(color.Black), image.ZP, draw.Src)

	face := font.NewFace()
	for row, r := range ramps {
		for n, g := range []rune(string(r)) {
			face.DrawRune(i, n*sX, row*sY, g, color.White)
		}
	}
	return i
}

// RampDensities - ink coverage of every glyph of a ramp in a font, and how
// many neighbours are out of dense to sparse order
func RampDensities(font glyph.Font, ramp glyph.Ramp) (densities []float64, inversions int) {
	table := ramp.Table()
	densities = make([]float64, len(table))
	for i, g := range table {
		densities[i] = glyph.Density(font, g)
		if i > 0 && densities[i] > densities[i-1] {
			inversions++
		}
	}
	return densities, inversions
}
