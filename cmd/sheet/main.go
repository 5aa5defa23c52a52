package main

import (
	"flag"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshdk/preview"
	log "github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp"

	"github.com/submersibletoaster/asciivid"
	"github.com/submersibletoaster/asciivid/glyph"
)

var fontFile = flag.String("font", "", "TrueType font file, or \"pixel\" for the built in bitmap font")
var fontSize = flag.Float64("size", 10, "Font size in points")
var mode = flag.String("mode", "gray", "gray or color")
var tone = flag.String("tone", "dark", "dark or light")
var showPreview = flag.Bool("preview", false, "Show the converted image in the terminal")
var verbose = flag.Bool("v", false, "Verbose logging")

func init() {
	flag.Parse()
	if *verbose {
		log.Info("Setting verbose logging")
		log.SetLevel(log.DebugLevel)
	}
}

func main() {
	s := asciivid.DefaultSettings()
	s.Font = *fontFile
	s.FontSize = *fontSize
	s.Mode = *mode
	s.Tone = *tone

	font, err := s.OpenFont()
	if err != nil {
		log.Fatal(err)
	}
	gw, gh := font.Metrics()
	log.Debugf("glyph cell %dx%d", gw, gh)

	if err := writePNG("ramp.png", asciivid.DrawSheet(font, glyph.ShortRamp, glyph.LongRamp)); err != nil {
		log.Fatal(err)
	}
	for _, ramp := range []glyph.Ramp{glyph.ShortRamp, glyph.LongRamp} {
		densities, inversions := asciivid.RampDensities(font, ramp)
		for i, g := range ramp.Table() {
			log.Debugf("'%s'\t%.3f", string(g), densities[i])
		}
		if inversions > 0 {
			log.Warnf("%d of %d glyphs are denser than the glyph before them in this font", inversions, ramp.Len())
		}
	}

	srcFile := flag.Arg(0)
	if srcFile == "" {
		return
	}
	srcIo, err := os.Open(srcFile)
	if err != nil {
		log.Fatal(err)
	}
	srcImg, format, err := image.Decode(srcIo)
	srcIo.Close()
	if err != nil {
		log.Fatalf("%s: %v", srcFile, err)
	}
	log.Debugf("%s is a %s %v", srcFile, format, srcImg.Bounds())

	cfg, err := s.RenderConfig(font, srcImg.Bounds().Dx())
	if err != nil {
		log.Fatal(err)
	}
	conv, err := asciivid.NewConverter(cfg)
	if err != nil {
		log.Fatal(err)
	}
	out, err := conv.Convert(srcImg)
	if err != nil {
		log.Fatal(err)
	}

	outFile := strings.TrimSuffix(srcFile, filepath.Ext(srcFile)) + "_ascii.png"
	if err := writePNG(outFile, out); err != nil {
		log.Fatal(err)
	}
	log.Infof("wrote %s", outFile)

	if *showPreview {
		preview.Image(out)
	}
}

func writePNG(path string, img image.Image) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
