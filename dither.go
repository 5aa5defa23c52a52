package asciivid

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/Nykakin/quantize"
	mediancut "github.com/ericpauley/go-quantize/quantize"
	"github.com/esimov/colorquant"
	log "github.com/sirupsen/logrus"

	"github.com/submersibletoaster/asciivid/examine"
)

var sierra3 = colorquant.Dither{
	[][]float32{
		[]float32{0.0, 0.0, 0.0, 5.0 / 32.0, 3.0 / 32.0},
		[]float32{2.0 / 32.0, 4.0 / 32.0, 5.0 / 32.0, 4.0 / 32.0, 2.0 / 32.0},
		[]float32{0.0, 2.0 / 32.0, 3.0 / 32.0, 2.0 / 32.0, 0.0},
	},
}

// Quantizer - how the palette of a frame is picked
type Quantizer int

const (
	Hierarchical Quantizer = iota
	MedianCut
)

func (q Quantizer) String() string {
	if q == MedianCut {
		return "mediancut"
	}
	return "hierarchical"
}

func ParseQuantizer(s string) (Quantizer, error) {
	switch strings.ToLower(s) {
	case "hierarchical", "h", "":
		return Hierarchical, nil
	case "mediancut", "median", "m":
		return MedianCut, nil
	}
	return Hierarchical, fmt.Errorf("unknown quantizer %q", s)
}

// PickPalette - the num most representative colors of an image
func PickPalette(img image.Image, num int, q Quantizer) (color.Palette, error) {
	if q == MedianCut {
		mq := mediancut.MedianCutQuantizer{}
		return mq.Quantize(make(color.Palette, 0, num), img), nil
	}

	hq := quantize.NewHierarhicalQuantizer()
	colors, err := hq.Quantize(img, num)
	if err != nil {
		return nil, err
	}

	palette := make(color.Palette, len(colors))
	for index, clr := range colors {
		palette[index] = clr
	}
	return palette, nil
}

// QuantizeGrid reduces the cell colors of a grid to a palette of n colors
// picked from the grid itself, optionally with Sierra-3 error diffusion.
// Glyphs are left as sampled.
func QuantizeGrid(grid *examine.Grid, n int, q Quantizer, dither bool) error {
	if n <= 0 {
		return nil
	}
	src := grid.Image()
	pal, err := PickPalette(src, n, q)
	if err != nil {
		return fmt.Errorf("pick palette: %w", err)
	}
	if len(pal) == 0 {
		return fmt.Errorf("pick palette: no colors")
	}
	log.Debugf("quantizing %dx%d cells to %d %s colors", grid.Cols, grid.Rows, len(pal), q)

	dst := image.NewPaletted(src.Bounds(), pal)
	var out image.Image
	if dither {
		out = sierra3.Quantize(src, dst, len(pal), true, false)
	} else {
		out = colorquant.NoDither.Quantize(src, dst, len(pal), false, false)
	}

	b := out.Bounds()
	for i := range grid.Cells {
		r, g, bl, _ := out.At(b.Min.X+i%grid.Cols, b.Min.Y+i/grid.Cols).RGBA()
		grid.Cells[i].Color = color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: 0xff}
	}
	return nil
}
