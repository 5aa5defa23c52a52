package main

import (
	"context"
	"errors"
	"image"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/submersibletoaster/asciivid"
	"github.com/submersibletoaster/asciivid/pipeline"
	"github.com/submersibletoaster/asciivid/pool"
	"github.com/submersibletoaster/asciivid/video"
)

var (
	settings   = asciivid.DefaultSettings()
	configFile string
	preview    bool
	quiet      bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "asciivid [flags] <input>",
	Short:         "Redraw every frame of a video as ASCII art",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case verbose:
			log.SetLevel(log.DebugLevel)
		case quiet:
			log.SetLevel(log.WarnLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return convert(ctx, s, args[0])
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&settings.Mode, "mode", "m", settings.Mode, "gray or color")
	f.StringVarP(&settings.Tone, "tone", "t", settings.Tone, "dark (light glyphs on black) or light")
	f.IntVarP(&settings.Workers, "workers", "w", settings.Workers, "conversion workers, 0 for CPUs less two")
	f.StringVar(&settings.Font, "font", settings.Font, "TrueType font file, or \"pixel\" for the built in bitmap font")
	f.Float64Var(&settings.FontSize, "font-size", settings.FontSize, "font size in points")
	f.IntVar(&settings.Columns, "columns", settings.Columns, "glyph columns, 0 for frame width / glyph width")
	f.StringVar(&settings.Channel, "channel", settings.Channel, "color mode brightness channel: r, g or b")
	f.BoolVar(&settings.Luminance, "luminance", settings.Luminance, "color mode brightness from perceived lightness")
	f.IntVar(&settings.Palette, "palette", settings.Palette, "reduce color mode glyphs to this many colors")
	f.StringVar(&settings.Quantizer, "quantizer", settings.Quantizer, "palette picker: hierarchical or mediancut")
	f.BoolVar(&settings.Dither, "dither", settings.Dither, "dither the reduced palette")
	f.StringVar(&settings.Background, "background", settings.Background, "background color as #rrggbb")
	f.StringVar(&settings.Foreground, "foreground", settings.Foreground, "gray mode glyph color as #rrggbb")
	f.Float64Var(&settings.Gamma, "gamma", settings.Gamma, "gamma applied before sampling")
	f.Float64Var(&settings.Brightness, "brightness", settings.Brightness, "brightness change in percent")
	f.Float64Var(&settings.Contrast, "contrast", settings.Contrast, "contrast change in percent")
	f.IntVar(&settings.Window, "window", settings.Window, "frames in flight, 0 for twice the workers")
	f.DurationVar(&settings.Timeout, "timeout", settings.Timeout, "give up when one frame takes longer, 0 waits forever")
	f.StringVarP(&settings.Output, "output", "o", settings.Output, "output file, default <input>_ascii[_color]_<tone>.mp4")
	f.StringVarP(&configFile, "config", "c", "", "YAML settings file; flags given on the command line win")
	f.BoolVar(&preview, "preview", false, "print the first frame to the terminal")
	f.BoolVarP(&quiet, "quiet", "q", false, "no progress bars")
	f.BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

// resolveSettings layers explicit flags over the config file
func resolveSettings(cmd *cobra.Command) (asciivid.Settings, error) {
	if configFile == "" {
		return settings, nil
	}
	s, err := asciivid.LoadSettings(configFile)
	if err != nil {
		return s, err
	}
	f := cmd.Flags()
	overlay := []struct {
		flag  string
		apply func()
	}{
		{"mode", func() { s.Mode = settings.Mode }},
		{"tone", func() { s.Tone = settings.Tone }},
		{"workers", func() { s.Workers = settings.Workers }},
		{"font", func() { s.Font = settings.Font }},
		{"font-size", func() { s.FontSize = settings.FontSize }},
		{"columns", func() { s.Columns = settings.Columns }},
		{"channel", func() { s.Channel = settings.Channel }},
		{"luminance", func() { s.Luminance = settings.Luminance }},
		{"palette", func() { s.Palette = settings.Palette }},
		{"quantizer", func() { s.Quantizer = settings.Quantizer }},
		{"dither", func() { s.Dither = settings.Dither }},
		{"background", func() { s.Background = settings.Background }},
		{"foreground", func() { s.Foreground = settings.Foreground }},
		{"gamma", func() { s.Gamma = settings.Gamma }},
		{"brightness", func() { s.Brightness = settings.Brightness }},
		{"contrast", func() { s.Contrast = settings.Contrast }},
		{"window", func() { s.Window = settings.Window }},
		{"timeout", func() { s.Timeout = settings.Timeout }},
		{"output", func() { s.Output = settings.Output }},
	}
	for _, o := range overlay {
		if f.Changed(o.flag) {
			o.apply()
		}
	}
	log.Debugf("settings from %s: %+v", configFile, s)
	return s, nil
}

func convert(ctx context.Context, s asciivid.Settings, input string) error {
	run, err := s.RunConfig()
	if err != nil {
		return err
	}
	font, err := s.OpenFont()
	if err != nil {
		return err
	}

	src, err := video.Open(input)
	if err != nil {
		return err
	}
	defer src.Close()
	info := src.Info()

	cfg, err := s.RenderConfig(font, info.Width)
	if err != nil {
		return err
	}
	conv, err := asciivid.NewConverter(cfg)
	if err != nil {
		return err
	}

	output := s.Output
	if output == "" {
		output = asciivid.OutputPath(input, run.Mode, run.Tone)
	}
	sink, err := video.Create(output, info.Width, info.Height, info.FPS)
	if err != nil {
		return err
	}

	workers := run.Workers
	if workers < 1 {
		workers = pool.DefaultWorkers()
	}
	var d pool.Dispatcher
	if workers == 1 {
		d = pool.NewSerial(conv)
	} else {
		p := pool.New(conv, workers, workers)
		defer func() {
			// a conversion wedged past --timeout is left behind
			wctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := p.Wait(wctx); err != nil {
				log.Warn("workers still converting at exit")
			}
		}()
		d = p
	}
	defer d.Close()

	window := s.Window
	if window < 1 {
		window = 2 * workers
	}
	var progress pipeline.Progress = &pipeline.BarProgress{}
	if quiet {
		progress = pipeline.NopProgress{}
	}

	var source pipeline.Source = src
	if preview {
		source = &previewSource{Source: src, conv: conv}
	}

	log.WithFields(log.Fields{
		"input":   input,
		"output":  output,
		"mode":    run.Mode,
		"tone":    run.Tone,
		"workers": workers,
		"columns": cfg.Columns,
	}).Info("converting")

	stats, err := pipeline.Run(ctx, source, sink, d, pipeline.Options{
		Window:         window,
		CollectTimeout: s.Timeout,
		Progress:       progress,
	})
	if err != nil {
		return err
	}
	log.Infof("wrote %d frames to %s", stats.Written, output)
	return nil
}

// previewSource prints the first frame it reads as ANSI art
type previewSource struct {
	pipeline.Source
	conv *asciivid.Converter
	done bool
}

func (p *previewSource) Read() (image.Image, error) {
	frame, err := p.Source.Read()
	if err != nil || p.done {
		return frame, err
	}
	p.done = true
	grid, gerr := p.conv.Grid(frame)
	if gerr != nil {
		log.WithError(gerr).Warn("no preview")
		return frame, nil
	}
	if werr := asciivid.WriteANSI(os.Stdout, grid, p.conv.Config()); werr != nil {
		log.WithError(werr).Warn("no preview")
	}
	return frame, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		entry := log.WithError(err)
		var fe *pipeline.FrameError
		if errors.As(err, &fe) {
			entry = entry.WithFields(log.Fields{"stage": fe.Stage, "frame": fe.Index})
		}
		for _, kind := range []error{
			asciivid.ErrSourceUnavailable,
			asciivid.ErrConfigurationInvalid,
			asciivid.ErrConversionFailure,
			asciivid.ErrSinkWriteFailure,
			asciivid.ErrAborted,
		} {
			if errors.Is(err, kind) {
				entry = entry.WithField("kind", kind.Error())
				break
			}
		}
		entry.Fatal("asciivid failed")
	}
}
