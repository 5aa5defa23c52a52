package glyph

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	log "github.com/sirupsen/logrus"
	"github.com/submersibletoaster/pixfont"
)

// ThresholdPalette is a black/white color palette
var ThresholdPalette = color.Palette{color.Black, color.White}

// Font - source of fixed glyph metrics and of faces that draw glyphs.
// A Font is shared read-only between goroutines.
type Font interface {
	// Metrics - advance width and line height of one glyph cell in pixels
	Metrics() (width, height int)
	// NewFace returns a Face owned by the calling goroutine
	NewFace() Face
}

// Face draws single glyphs with the top-left corner of the cell at x,y
type Face interface {
	DrawRune(dst draw.Image, x, y int, r rune, c color.Color)
}

// RasterFont - fixed width bitmap font backed by pixfont
type RasterFont struct {
	Font   *pixfont.PixFont
	Width  int
	Height int
}

// NewRasterFont measures the cell of a pixfont. A nil font selects
// pixfont.DefaultFont.
func NewRasterFont(f *pixfont.PixFont) (*RasterFont, error) {
	if f == nil {
		f = pixfont.DefaultFont
	}
	n := RasterFont{Font: f}
	n.Width = f.MeasureString(" ") // adds one pixel of spacing
	n.Width--
	n.Height = f.GetHeight()
	if n.Width <= 0 || n.Height <= 0 {
		return nil, fmt.Errorf("glyph: raster font cell %dx%d", n.Width, n.Height)
	}
	log.Debugf("raster font cell %dx%d", n.Width, n.Height)
	return &n, nil
}

func (s *RasterFont) Metrics() (int, int) {
	return s.Width, s.Height
}

// NewFace - pixfont drawing keeps no state, so the font is its own face
func (s *RasterFont) NewFace() Face {
	return s
}

func (s *RasterFont) DrawRune(dst draw.Image, x, y int, r rune, c color.Color) {
	s.Font.DrawRune(dst, x, y, r, c)
}

// ImageForRune renders one glyph white on black into a cell sized image
func ImageForRune(f Font, r rune) *image.Paletted {
	w, h := f.Metrics()
	img := image.NewPaletted(image.Rect(0, 0, w, h), ThresholdPalette)
	f.NewFace().DrawRune(img, 0, 0, r, color.White)
	return img
}

// Density - fraction of set pixels in a rendered glyph
func Density(f Font, r rune) float64 {
	img := ImageForRune(f, r)
	fg := 0
	for _, v := range img.Pix {
		fg += int(v)
	}
	if len(img.Pix) == 0 {
		return 0
	}
	return float64(fg) / float64(len(img.Pix))
}
