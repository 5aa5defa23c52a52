package asciivid

import (
	"image"

	"github.com/disintegration/imaging"
)

// Adjustments - tone corrections applied to a frame before it is sampled.
// The zero value changes nothing.
type Adjustments struct {
	// Gamma 1.0 (or 0) keeps the frame, < 1 darkens, > 1 lightens
	Gamma float64
	// Brightness in percent, -100..100
	Brightness float64
	// Contrast in percent, -100..100
	Contrast float64
}

func (a Adjustments) Identity() bool {
	return (a.Gamma == 0 || a.Gamma == 1) && a.Brightness == 0 && a.Contrast == 0
}

func (a Adjustments) Apply(img image.Image) image.Image {
	if a.Identity() {
		return img
	}
	if a.Gamma != 0 && a.Gamma != 1 {
		img = imaging.AdjustGamma(img, a.Gamma)
	}
	if a.Brightness != 0 {
		img = imaging.AdjustBrightness(img, a.Brightness)
	}
	if a.Contrast != 0 {
		img = imaging.AdjustContrast(img, a.Contrast)
	}
	return img
}
