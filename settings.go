package asciivid

import (
	"fmt"
	"io/ioutil"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/submersibletoaster/asciivid/examine"
	"github.com/submersibletoaster/asciivid/glyph"
)

// Settings - every knob of a run as read from a YAML file or flags
type Settings struct {
	Mode    string `yaml:"mode"`
	Tone    string `yaml:"tone"`
	Workers int    `yaml:"workers"`

	Font     string  `yaml:"font"`
	FontSize float64 `yaml:"font_size"`
	Columns  int     `yaml:"columns"`

	Channel   string `yaml:"channel"`
	Luminance bool   `yaml:"luminance"`
	Palette   int    `yaml:"palette"`
	Quantizer string `yaml:"quantizer"`
	Dither    bool   `yaml:"dither"`

	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`

	Gamma      float64 `yaml:"gamma"`
	Brightness float64 `yaml:"brightness"`
	Contrast   float64 `yaml:"contrast"`

	Window  int           `yaml:"window"`
	Timeout time.Duration `yaml:"timeout"`
	Output  string        `yaml:"output"`
}

func DefaultSettings() Settings {
	return Settings{
		Mode:     Grayscale.String(),
		Tone:     Dark.String(),
		FontSize: 10,
		Channel:  examine.Blue.String(),
	}
}

// LoadSettings reads a YAML file over the defaults
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrConfigurationInvalid, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("%w: %s: %v", ErrConfigurationInvalid, path, err)
	}
	return s, nil
}

func (s Settings) RunConfig() (RunConfig, error) {
	mode, err := ParseMode(s.Mode)
	if err != nil {
		return RunConfig{}, fmt.Errorf("%w: %v", ErrConfigurationInvalid, err)
	}
	tone, err := ParseTone(s.Tone)
	if err != nil {
		return RunConfig{}, fmt.Errorf("%w: %v", ErrConfigurationInvalid, err)
	}
	if s.Workers < 0 {
		return RunConfig{}, fmt.Errorf("%w: %d workers", ErrConfigurationInvalid, s.Workers)
	}
	return RunConfig{Mode: mode, Tone: tone, Workers: s.Workers}, nil
}

// OpenFont loads the configured font
func (s Settings) OpenFont() (glyph.Font, error) {
	f, err := glyph.Open(s.Font, s.FontSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigurationInvalid, err)
	}
	return f, nil
}

// RenderConfig builds the immutable render configuration for frames
// frameWidth pixels wide
func (s Settings) RenderConfig(font glyph.Font, frameWidth int) (*RenderConfig, error) {
	run, err := s.RunConfig()
	if err != nil {
		return nil, err
	}
	if font == nil {
		return nil, fmt.Errorf("%w: no font", ErrConfigurationInvalid)
	}
	cfg := baseRenderConfig(run, font)
	if s.Columns > 0 {
		cfg.Columns = s.Columns
	} else if cfg.GlyphWidth > 0 {
		cfg.Columns = frameWidth / cfg.GlyphWidth
	}

	cfg.Channel, err = examine.ParseChannel(s.Channel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigurationInvalid, err)
	}
	if s.Luminance {
		cfg.Brightness = examine.BrightnessLuminance
	}
	cfg.Palette = s.Palette
	if cfg.Quantizer, err = ParseQuantizer(s.Quantizer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigurationInvalid, err)
	}
	cfg.Dither = s.Dither
	cfg.Adjust = Adjustments{Gamma: s.Gamma, Brightness: s.Brightness, Contrast: s.Contrast}

	if s.Background != "" {
		if cfg.Background, err = ParseColor(s.Background); err != nil {
			return nil, err
		}
	}
	if s.Foreground != "" {
		if cfg.Foreground, err = ParseColor(s.Foreground); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
