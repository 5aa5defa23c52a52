package asciivid

import (
	"path/filepath"
	"strings"
)

// OutputPath - <source without extension>_ascii[_color]_<tone>.mp4
func OutputPath(src string, mode Mode, tone Tone) string {
	base := strings.TrimSuffix(src, filepath.Ext(src))
	suffix := "_ascii"
	if mode == Color {
		suffix += "_color"
	}
	return base + suffix + "_" + tone.String() + ".mp4"
}
