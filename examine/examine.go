package examine

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/transform"
	"github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"

	"github.com/submersibletoaster/asciivid/glyph"
)

// Brightness - how a color cell picks its glyph
type Brightness int

const (
	// BrightnessChannel uses one raw channel of the resampled pixel
	BrightnessChannel Brightness = iota
	// BrightnessLuminance uses the perceptual lightness (CIE L*)
	BrightnessLuminance
)

// Channel - color channel index used by BrightnessChannel
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// ParseChannel accepts r, g, b or the full channel name
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(s) {
	case "r", "red":
		return Red, nil
	case "g", "green":
		return Green, nil
	case "b", "blue", "":
		return Blue, nil
	}
	return Blue, fmt.Errorf("unknown channel %q", s)
}

// Cell - one glyph of the grid and the color it is drawn with
type Cell struct {
	Glyph  rune
	Color  color.RGBA
	Sample uint8 // value that selected the glyph
}

// Grid - rows of cells, row major
type Grid struct {
	Cols  int
	Rows  int
	Cells []Cell
}

func (g *Grid) At(x, y int) Cell {
	return g.Cells[y*g.Cols+x]
}

// Lines - the glyphs of each row as text
func (g *Grid) Lines() []string {
	out := make([]string, g.Rows)
	var b strings.Builder
	for y := 0; y < g.Rows; y++ {
		b.Reset()
		for x := 0; x < g.Cols; x++ {
			b.WriteRune(g.At(x, y).Glyph)
		}
		out[y] = b.String()
	}
	return out
}

// Image - cols x rows image of the cell colors
func (g *Grid) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Cols, g.Rows))
	for i, c := range g.Cells {
		img.SetRGBA(i%g.Cols, i/g.Cols, c.Color)
	}
	return img
}

// Options - sampling parameters shared by every frame of a run
type Options struct {
	Cols       int
	Rows       int
	Gray       bool
	Ramp       glyph.Ramp
	Brightness Brightness
	Channel    Channel
}

// Resample box filters the frame down to exactly cols x rows. Gray frames
// are reduced to luminance first and carry it in every channel.
func Resample(frame image.Image, cols, rows int, gray bool) *image.RGBA {
	var src image.Image = frame
	if gray {
		src = effect.Grayscale(frame)
	}
	return transform.Resize(src, cols, rows, transform.Box)
}

// Sample - resample a frame and map every cell to a glyph of the ramp
func Sample(frame image.Image, opts Options) (*Grid, error) {
	if opts.Cols <= 0 || opts.Rows <= 0 {
		return nil, fmt.Errorf("examine: grid %dx%d", opts.Cols, opts.Rows)
	}
	if opts.Ramp.Len() == 0 {
		return nil, fmt.Errorf("examine: empty ramp")
	}
	b := frame.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("examine: empty frame %v", b)
	}

	small := Resample(frame, opts.Cols, opts.Rows, opts.Gray)
	glyphs := opts.Ramp.Table()
	grid := &Grid{Cols: opts.Cols, Rows: opts.Rows, Cells: make([]Cell, opts.Cols*opts.Rows)}
	for y := 0; y < opts.Rows; y++ {
		for x := 0; x < opts.Cols; x++ {
			px := small.RGBAAt(x, y)
			px.A = 0xff
			s := brightness(px, opts)
			grid.Cells[y*opts.Cols+x] = Cell{Glyph: glyphs.For(s), Color: px, Sample: s}
		}
	}
	log.Debugf("sampled %v into %dx%d cells", b, opts.Cols, opts.Rows)
	return grid, nil
}

func brightness(px color.RGBA, opts Options) uint8 {
	if opts.Gray {
		return px.R
	}
	if opts.Brightness == BrightnessLuminance {
		lab, _ := colorful.MakeColor(px)
		l, _, _ := lab.Lab()
		return clamp(l * 255)
	}
	switch opts.Channel {
	case Red:
		return px.R
	case Green:
		return px.G
	default:
		return px.B
	}
}

func clamp(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
