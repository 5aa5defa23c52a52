package asciivid

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/submersibletoaster/asciivid/examine"
	"github.com/submersibletoaster/asciivid/glyph"
)

// Mode - grayscale glyphs in one color, or glyphs in their sampled colors
type Mode int

const (
	Grayscale Mode = iota
	Color
)

func (m Mode) String() string {
	if m == Color {
		return "color"
	}
	return "gray"
}

// ParseMode accepts gray/grayscale/g and color/colour/c
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "gray", "grey", "grayscale", "g", "":
		return Grayscale, nil
	case "color", "colour", "c":
		return Color, nil
	}
	return Grayscale, fmt.Errorf("unknown mode %q", s)
}

// Tone - background brightness
type Tone int

const (
	Dark Tone = iota
	Light
)

func (t Tone) String() string {
	if t == Light {
		return "light"
	}
	return "dark"
}

// ParseTone accepts dark/black/b and light/white/w
func ParseTone(s string) (Tone, error) {
	switch strings.ToLower(s) {
	case "dark", "black", "b", "":
		return Dark, nil
	case "light", "white", "w":
		return Light, nil
	}
	return Dark, fmt.Errorf("unknown tone %q", s)
}

// Colors - background and glyph color of a tone
func (t Tone) Colors() (bg, fg color.Color) {
	if t == Light {
		return color.White, color.Black
	}
	return color.Black, color.White
}

// RunConfig - the resolved choices of the user for one run
type RunConfig struct {
	Mode    Mode
	Tone    Tone
	Workers int
}

// RenderConfig is fixed before the first frame and never modified after;
// workers share it by pointer.
type RenderConfig struct {
	Mode Mode
	// Background fills the canvas; nil leaves it transparent
	Background color.Color
	// Foreground draws grayscale glyphs; color glyphs use their cell color
	Foreground color.Color

	Font        glyph.Font
	GlyphWidth  int
	GlyphHeight int
	Columns     int

	Brightness examine.Brightness
	Channel    examine.Channel

	// Palette > 0 reduces color cells to that many colors per frame
	Palette   int
	Quantizer Quantizer
	Dither    bool

	Adjust Adjustments
}

// NewRenderConfig derives the render configuration of a run from the run
// choices, the font and the source frame width.
func NewRenderConfig(run RunConfig, font glyph.Font, frameWidth int) (*RenderConfig, error) {
	if font == nil {
		return nil, fmt.Errorf("%w: no font", ErrConfigurationInvalid)
	}
	cfg := baseRenderConfig(run, font)
	if cfg.GlyphWidth > 0 {
		cfg.Columns = frameWidth / cfg.GlyphWidth
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func baseRenderConfig(run RunConfig, font glyph.Font) *RenderConfig {
	w, h := font.Metrics()
	bg, fg := run.Tone.Colors()
	return &RenderConfig{
		Mode:        run.Mode,
		Background:  bg,
		Foreground:  fg,
		Font:        font,
		GlyphWidth:  w,
		GlyphHeight: h,
		Channel:     examine.Blue,
	}
}

// Ramp - the glyph ramp of the mode
func (c *RenderConfig) Ramp() glyph.Ramp {
	if c.Mode == Color {
		return glyph.LongRamp
	}
	return glyph.ShortRamp
}

// Validate rejects metrics and grids that cannot produce an image
func (c *RenderConfig) Validate() error {
	if c.Font == nil {
		return fmt.Errorf("%w: no font", ErrConfigurationInvalid)
	}
	if c.GlyphWidth <= 0 || c.GlyphHeight <= 0 {
		return fmt.Errorf("%w: glyph cell %dx%d", ErrConfigurationInvalid, c.GlyphWidth, c.GlyphHeight)
	}
	if c.Columns <= 0 {
		return fmt.Errorf("%w: %d columns", ErrConfigurationInvalid, c.Columns)
	}
	if c.Palette < 0 {
		return fmt.Errorf("%w: palette of %d colors", ErrConfigurationInvalid, c.Palette)
	}
	return nil
}

// ParseColor reads #rrggbb (or rrggbb)
func ParseColor(s string) (color.Color, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("%w: color %q", ErrConfigurationInvalid, s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
