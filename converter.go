package asciivid

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"
	log "github.com/sirupsen/logrus"

	"github.com/submersibletoaster/asciivid/examine"
	"github.com/submersibletoaster/asciivid/glyph"
)

// Converter turns one frame into its glyph rendition at the frame's own size.
// It holds only the shared RenderConfig and is safe for concurrent use.
type Converter struct {
	cfg *RenderConfig
}

func NewConverter(cfg *RenderConfig) (*Converter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: no render config", ErrConfigurationInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Converter{cfg: cfg}, nil
}

func (c *Converter) Config() *RenderConfig {
	return c.cfg
}

// Grid samples a frame into glyph cells
func (c *Converter) Grid(frame image.Image) (*examine.Grid, error) {
	b := frame.Bounds()
	cols, rows, err := GridSize(c.cfg, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	frame = c.cfg.Adjust.Apply(frame)

	grid, err := examine.Sample(frame, examine.Options{
		Cols:       cols,
		Rows:       rows,
		Gray:       c.cfg.Mode == Grayscale,
		Ramp:       c.cfg.Ramp(),
		Brightness: c.cfg.Brightness,
		Channel:    c.cfg.Channel,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailure, err)
	}
	if c.cfg.Mode == Color && c.cfg.Palette > 0 {
		if err := QuantizeGrid(grid, c.cfg.Palette, c.cfg.Quantizer, c.cfg.Dither); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConversionFailure, err)
		}
	}
	return grid, nil
}

// Rasterize draws the grid with the face, one glyph cell per grid cell
func (c *Converter) Rasterize(grid *examine.Grid, face glyph.Face) *image.RGBA {
	canvas := image.NewRGBA(CanvasRect(c.cfg, grid.Cols, grid.Rows))
	if c.cfg.Background != nil {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(c.cfg.Background), image.ZP, draw.Src)
	}

	fg := c.cfg.Foreground
	if fg == nil {
		fg = color.White
	}
	for y := 0; y < grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			cell := grid.At(x, y)
			if cell.Glyph == ' ' {
				continue
			}
			var clr color.Color = fg
			if c.cfg.Mode == Color {
				clr = cell.Color
			}
			face.DrawRune(canvas, x*c.cfg.GlyphWidth, y*c.cfg.GlyphHeight, cell.Glyph, clr)
		}
	}
	return canvas
}

// Convert - sample, rasterize and scale back to the frame's exact size
func (c *Converter) Convert(frame image.Image) (image.Image, error) {
	grid, err := c.Grid(frame)
	if err != nil {
		return nil, err
	}
	canvas := c.Rasterize(grid, c.cfg.Font.NewFace())

	b := frame.Bounds()
	out := resize.Resize(uint(b.Dx()), uint(b.Dy()), canvas, resize.Bilinear)
	log.Debugf("converted %v via %dx%d glyphs", b, grid.Cols, grid.Rows)
	return out, nil
}
