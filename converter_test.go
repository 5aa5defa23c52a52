package asciivid

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/submersibletoaster/asciivid/examine"
	"github.com/submersibletoaster/asciivid/glyph"
)

func grayConfig(t *testing.T, font glyph.Font, frameWidth int) *RenderConfig {
	cfg, err := NewRenderConfig(RunConfig{Mode: Grayscale, Tone: Dark}, font, frameWidth)
	require.NoError(t, err)
	return cfg
}

func TestConvertKeepsFrameSize(t *testing.T) {
	raster, err := glyph.NewRasterFont(nil)
	require.NoError(t, err)
	tt, err := glyph.DefaultTrueType(10)
	require.NoError(t, err)

	testData := []struct {
		font    glyph.Font
		w, h    int
		columns int
	}{
		{blockFont{4, 6}, 64, 48, 1},
		{blockFont{4, 6}, 64, 48, 16},
		{blockFont{3, 7}, 101, 67, 33},
		{raster, 320, 240, 40},
		{tt, 320, 180, 53},
		{tt, 97, 61, 9},
	}

	for _, mode := range []Mode{Grayscale, Color} {
		for _, d := range testData {
			t.Run(fmt.Sprintf("%s/%dx%d/%d", mode, d.w, d.h, d.columns), func(t *testing.T) {
				cfg, err := NewRenderConfig(RunConfig{Mode: mode, Tone: Light}, d.font, d.w)
				require.NoError(t, err)
				cfg.Columns = d.columns
				conv, err := NewConverter(cfg)
				require.NoError(t, err)

				out, err := conv.Convert(noiseFrame(d.w, d.h))
				require.NoError(t, err)
				assert.Equal(t, image.Rect(0, 0, d.w, d.h), out.Bounds())
			})
		}
	}
}

func TestConvertGrayLevels(t *testing.T) {
	ramp := []rune(string(glyph.ShortRamp))
	levels := []uint8{0, 85, 170, 255}
	want := []rune{ramp[0], ramp[3], ramp[6], ramp[9]}

	// 1 column of 4x6 glyphs over a 64x48 frame: floor(1 * 0.75 * 1.5) = 1 row
	cfg := grayConfig(t, blockFont{4, 6}, 64)
	cfg.Columns = 1
	conv, err := NewConverter(cfg)
	require.NoError(t, err)

	for i, level := range levels {
		grid, err := conv.Grid(solidFrame(64, 48, color.Gray{Y: level}))
		require.NoError(t, err)
		require.Equal(t, 1, grid.Cols)
		require.Equal(t, 1, grid.Rows)
		assert.Equal(t, string(want[i]), string(grid.At(0, 0).Glyph), "frame %d gray %d", i, level)
	}
}

func TestConvertDeterministic(t *testing.T) {
	tt, err := glyph.DefaultTrueType(10)
	require.NoError(t, err)

	for _, mode := range []Mode{Grayscale, Color} {
		cfg, err := NewRenderConfig(RunConfig{Mode: mode, Tone: Dark}, tt, 160)
		require.NoError(t, err)
		conv, err := NewConverter(cfg)
		require.NoError(t, err)

		frame := noiseFrame(160, 90)
		g1, err := conv.Grid(frame)
		require.NoError(t, err)
		g2, err := conv.Grid(frame)
		require.NoError(t, err)
		assert.Equal(t, g1, g2, "grids differ in %s mode", mode)

		o1, err := conv.Convert(frame)
		require.NoError(t, err)
		o2, err := conv.Convert(frame)
		require.NoError(t, err)
		assert.Equal(t, o1, o2, "pixels differ in %s mode", mode)
	}
}

func TestRasterizeColors(t *testing.T) {
	near := func(t *testing.T, want color.RGBA, got color.Color) {
		r, g, b, _ := got.RGBA()
		for i, pair := range [][2]uint32{{uint32(want.R), r >> 8}, {uint32(want.G), g >> 8}, {uint32(want.B), b >> 8}} {
			diff := int(pair[0]) - int(pair[1])
			assert.True(t, diff > -6 && diff < 6, "channel %d: want %d got %d", i, pair[0], pair[1])
		}
	}

	t.Run("gray black frame draws dense glyphs in the foreground", func(t *testing.T) {
		cfg := grayConfig(t, blockFont{4, 6}, 64)
		conv, err := NewConverter(cfg)
		require.NoError(t, err)
		out, err := conv.Convert(solidFrame(64, 48, color.Black))
		require.NoError(t, err)
		near(t, color.RGBA{255, 255, 255, 255}, out.At(10, 10))
		near(t, color.RGBA{255, 255, 255, 255}, out.At(63, 47))
	})

	t.Run("gray white frame leaves the background", func(t *testing.T) {
		cfg := grayConfig(t, blockFont{4, 6}, 64)
		conv, err := NewConverter(cfg)
		require.NoError(t, err)
		out, err := conv.Convert(solidFrame(64, 48, color.White))
		require.NoError(t, err)
		near(t, color.RGBA{0, 0, 0, 255}, out.At(30, 20))
	})

	t.Run("color glyphs take the cell color", func(t *testing.T) {
		cfg, err := NewRenderConfig(RunConfig{Mode: Color, Tone: Light}, blockFont{4, 6}, 64)
		require.NoError(t, err)
		conv, err := NewConverter(cfg)
		require.NoError(t, err)
		red := color.RGBA{200, 30, 0, 255}
		out, err := conv.Convert(solidFrame(64, 48, red))
		require.NoError(t, err)
		near(t, red, out.At(20, 20))
	})

	t.Run("canvas covers the whole grid", func(t *testing.T) {
		cfg := grayConfig(t, blockFont{4, 6}, 64)
		conv, err := NewConverter(cfg)
		require.NoError(t, err)
		grid, err := conv.Grid(solidFrame(64, 48, color.Black))
		require.NoError(t, err)
		canvas := conv.Rasterize(grid, cfg.Font.NewFace())
		assert.Equal(t, image.Rect(0, 0, grid.Cols*4, grid.Rows*6), canvas.Bounds())
		assert.Equal(t, 16, grid.Cols)
		assert.Equal(t, 18, grid.Rows)
	})
}

func TestConfigurationInvalid(t *testing.T) {
	t.Run("zero sized font", func(t *testing.T) {
		_, err := NewRenderConfig(RunConfig{}, blockFont{0, 6}, 64)
		assert.True(t, errors.Is(err, ErrConfigurationInvalid), "%v", err)
		_, err = NewRenderConfig(RunConfig{}, blockFont{4, 0}, 64)
		assert.True(t, errors.Is(err, ErrConfigurationInvalid), "%v", err)
	})

	t.Run("frame narrower than a glyph", func(t *testing.T) {
		_, err := NewRenderConfig(RunConfig{}, blockFont{8, 8}, 7)
		assert.True(t, errors.Is(err, ErrConfigurationInvalid), "%v", err)
	})

	t.Run("degenerate aspect gives zero rows", func(t *testing.T) {
		cfg := grayConfig(t, blockFont{4, 6}, 64)
		cfg.Columns = 1
		conv, err := NewConverter(cfg)
		require.NoError(t, err)
		_, err = conv.Convert(solidFrame(64, 2, color.Black))
		assert.True(t, errors.Is(err, ErrConfigurationInvalid), "%v", err)
	})

	t.Run("zero columns", func(t *testing.T) {
		cfg := grayConfig(t, blockFont{4, 6}, 64)
		cfg.Columns = 0
		_, err := NewConverter(cfg)
		assert.True(t, errors.Is(err, ErrConfigurationInvalid), "%v", err)
		_, _, err = GridSize(cfg, 64, 48)
		assert.True(t, errors.Is(err, ErrConfigurationInvalid), "%v", err)
	})

	t.Run("no font", func(t *testing.T) {
		_, err := NewRenderConfig(RunConfig{}, nil, 64)
		assert.True(t, errors.Is(err, ErrConfigurationInvalid), "%v", err)
		_, err = NewConverter(nil)
		assert.True(t, errors.Is(err, ErrConfigurationInvalid), "%v", err)
	})
}

func TestGridSize(t *testing.T) {
	testData := []struct {
		message    string
		gw, gh     int
		cols       int
		w, h       int
		wantRows   int
		wantErrors bool
	}{
		{"square glyphs keep the frame aspect", 8, 8, 40, 320, 240, 30, false},
		{"tall glyphs need more rows", 6, 12, 40, 320, 240, 60, false},
		{"rows are floored", 4, 6, 1, 64, 48, 1, false},
		{"wide frames can floor to zero", 4, 6, 1, 64, 2, 0, true},
	}

	for _, d := range testData {
		cfg := &RenderConfig{GlyphWidth: d.gw, GlyphHeight: d.gh, Columns: d.cols}
		cols, rows, err := GridSize(cfg, d.w, d.h)
		assert.Equal(t, d.cols, cols, d.message)
		assert.Equal(t, d.wantRows, rows, d.message)
		assert.Equal(t, d.wantErrors, err != nil, d.message)
	}
}

func TestQuantizeGrid(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			frame.SetRGBA(x, y, color.RGBA{uint8(x * 16), uint8(y * 16), uint8((x + y) * 8), 255})
		}
	}
	cfg, err := NewRenderConfig(RunConfig{Mode: Color}, blockFont{1, 1}, 16)
	require.NoError(t, err)
	conv, err := NewConverter(cfg)
	require.NoError(t, err)

	grid, err := conv.Grid(frame)
	require.NoError(t, err)
	glyphs := grid.Lines()

	for _, q := range []Quantizer{Hierarchical, MedianCut} {
		for _, dither := range []bool{false, true} {
			g := &examine.Grid{Cols: grid.Cols, Rows: grid.Rows, Cells: append([]examine.Cell(nil), grid.Cells...)}
			require.NoError(t, QuantizeGrid(g, 4, q, dither))
			distinct := make(map[color.RGBA]bool)
			for _, c := range g.Cells {
				distinct[c.Color] = true
			}
			assert.True(t, len(distinct) <= 4, "%s: %d colors left", q, len(distinct))
			assert.Equal(t, glyphs, g.Lines(), "%s: glyphs are not touched", q)
		}
	}

	assert.NoError(t, QuantizeGrid(grid, 0, Hierarchical, false))

	q, err := ParseQuantizer("median")
	require.NoError(t, err)
	assert.Equal(t, MedianCut, q)
	_, err = ParseQuantizer("octree")
	assert.Error(t, err)
}

func TestAdjustments(t *testing.T) {
	frame := solidFrame(8, 8, color.Gray{Y: 128})
	assert.True(t, Adjustments{}.Identity())
	assert.True(t, Adjustments{Gamma: 1}.Identity())
	assert.Same(t, frame, Adjustments{}.Apply(frame))

	dark := Adjustments{Brightness: -100}.Apply(frame)
	r, _, _, _ := dark.At(3, 3).RGBA()
	assert.Equal(t, uint32(0), r>>8)

	light := Adjustments{Gamma: 2}.Apply(frame)
	r, _, _, _ = light.At(3, 3).RGBA()
	assert.True(t, r>>8 > 128)
}
