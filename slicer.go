package asciivid

import (
	"fmt"
	"image"
)

// GridSize - columns and rows of the glyph grid for a frame of w x h.
// Columns come from the configuration; rows keep the frame's aspect once
// the glyph cell's own aspect is accounted for:
//
//	rows = floor(cols * (h/w) * (glyphHeight/glyphWidth))
func GridSize(cfg *RenderConfig, w, h int) (cols, rows int, err error) {
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: frame %dx%d", ErrConfigurationInvalid, w, h)
	}
	if cfg.GlyphWidth <= 0 || cfg.GlyphHeight <= 0 {
		return 0, 0, fmt.Errorf("%w: glyph cell %dx%d", ErrConfigurationInvalid, cfg.GlyphWidth, cfg.GlyphHeight)
	}
	cols = cfg.Columns
	aspect := float64(h) / float64(w)
	rows = int(float64(cols) * aspect * (float64(cfg.GlyphHeight) / float64(cfg.GlyphWidth)))
	if cols <= 0 || rows <= 0 {
		return cols, rows, fmt.Errorf("%w: %dx%d grid for a %dx%d frame", ErrConfigurationInvalid, cols, rows, w, h)
	}
	return cols, rows, nil
}

// CanvasRect - pixel area covered by a cols x rows grid before the final resize
func CanvasRect(cfg *RenderConfig, cols, rows int) image.Rectangle {
	return image.Rect(0, 0, cols*cfg.GlyphWidth, rows*cfg.GlyphHeight)
}
