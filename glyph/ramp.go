package glyph

// Ramp - ordered glyphs from densest (darkest) to sparsest (lightest)
type Ramp string

const (
	// ShortRamp is used when only luminance drives the output
	ShortRamp Ramp = "@%#*+=-:. "
	// LongRamp gives finer steps for color output, where the cell color
	// already carries most of the information
	LongRamp Ramp = "@%#S&8BWM#oahkbdpqwmZO0QLCJUYXzcvunxrjft/|()1{}[]?-_+~<>i!lI;:,\"^`'. "
)

// Len - number of glyphs in the ramp
func (r Ramp) Len() int {
	return len([]rune(string(r)))
}

// For returns the glyph for an 8 bit sample, ramp[sample/256*len].
// Every sample in [0,255] lands inside the ramp. For decodes the ramp on
// each call; per-cell lookups go through a Table.
func (r Ramp) For(sample uint8) rune {
	return r.Table().For(sample)
}

// Table - a ramp decoded to runes once
type Table []rune

func (r Ramp) Table() Table {
	return Table(r)
}

func (t Table) For(sample uint8) rune {
	if len(t) == 0 {
		return ' '
	}
	return t[int(sample)*len(t)/256]
}

// Index is the position For picks inside a ramp of n glyphs
func Index(sample uint8, n int) int {
	return int(sample) * n / 256
}
