package glyph

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io/ioutil"

	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/math/fixed"
)

// PixelFont selects the built-in bitmap font in Open
const PixelFont = "pixel"

// TrueType - scalable font rendered at a fixed pixel size
type TrueType struct {
	font   *truetype.Font
	opts   truetype.Options
	width  int
	height int
	ascent int
}

// ParseTrueType parses TTF data and measures the glyph cell at size pixels.
// The cell is the advance of 'A' by ascent+descent.
func ParseTrueType(data []byte, size float64) (*TrueType, error) {
	if size <= 0 {
		return nil, fmt.Errorf("glyph: font size %v", size)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glyph: parse font: %w", err)
	}
	t := &TrueType{
		font: f,
		opts: truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull},
	}
	face := truetype.NewFace(f, &t.opts)
	defer face.Close()

	adv, ok := face.GlyphAdvance('A')
	if !ok {
		return nil, fmt.Errorf("glyph: font has no 'A'")
	}
	m := face.Metrics()
	t.width = adv.Ceil()
	t.ascent = m.Ascent.Ceil()
	t.height = t.ascent + m.Descent.Ceil()
	if t.width <= 0 || t.height <= 0 {
		return nil, fmt.Errorf("glyph: font cell %dx%d at size %v", t.width, t.height, size)
	}
	log.WithFields(log.Fields{"size": size, "width": t.width, "height": t.height}).Debug("truetype font measured")
	return t, nil
}

// LoadTrueType reads a TTF file
func LoadTrueType(path string, size float64) (*TrueType, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("glyph: %w", err)
	}
	return ParseTrueType(data, size)
}

// DefaultTrueType - bundled Go Mono Bold
func DefaultTrueType(size float64) (*TrueType, error) {
	return ParseTrueType(gomonobold.TTF, size)
}

// Open resolves a font spec: "" for the bundled monospace font, "pixel"
// for the built-in bitmap font, anything else is a TTF path.
func Open(spec string, size float64) (Font, error) {
	switch spec {
	case "":
		return DefaultTrueType(size)
	case PixelFont:
		return NewRasterFont(nil)
	default:
		return LoadTrueType(spec, size)
	}
}

func (t *TrueType) Metrics() (int, int) {
	return t.width, t.height
}

// NewFace - truetype faces cache rasterized glyphs and are not safe for
// concurrent use, so each caller gets its own
func (t *TrueType) NewFace() Face {
	return &trueTypeFace{
		face:   truetype.NewFace(t.font, &t.opts),
		ascent: t.ascent,
	}
}

type trueTypeFace struct {
	face   font.Face
	ascent int
	src    *image.Uniform
}

func (f *trueTypeFace) DrawRune(dst draw.Image, x, y int, r rune, c color.Color) {
	if f.src == nil {
		f.src = image.NewUniform(c)
	} else {
		f.src.C = c
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  f.src,
		Face: f.face,
		Dot:  fixed.P(x, y+f.ascent),
	}
	d.DrawString(string(r))
}
