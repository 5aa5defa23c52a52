package asciivid

import (
	"fmt"
	"image/color"
	"io"

	ansi "github.com/gookit/color"

	"github.com/submersibletoaster/asciivid/examine"
)

// WriteANSI prints a grid with 24 bit terminal colors, one line per row
func WriteANSI(w io.Writer, grid *examine.Grid, cfg *RenderConfig) error {
	bg := cfg.Background
	if bg == nil {
		bg = color.Black
	}
	fg := cfg.Foreground
	if fg == nil {
		fg = color.White
	}
	for y := 0; y < grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			cel := grid.At(x, y)
			var clr color.Color = fg
			if cfg.Mode == Color {
				clr = cel.Color
			}
			cSeq := ansi.NewRGBStyle(toANSI(clr), toANSI(bg))
			if _, err := fmt.Fprint(w, cSeq.Sprint(string(cel.Glyph))); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, "\033[0m\n"); err != nil {
			return err
		}
	}
	return nil
}

func toANSI(in color.Color) (out ansi.RGBColor) {
	r, g, b, _ := in.RGBA()
	out = ansi.RGBColor{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0}
	return
}
