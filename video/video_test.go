package video

import (
	"errors"
	"image"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/submersibletoaster/asciivid"
)

func TestOpenMissing(t *testing.T) {
	_, err := Open("/nonexistent/clip.mp4")
	assert.True(t, errors.Is(err, asciivid.ErrSourceUnavailable), "%v", err)
}

func TestCreateInvalid(t *testing.T) {
	testData := []struct {
		message string
		w, h    int
		fps     float64
	}{
		{"zero width", 0, 10, 25},
		{"zero height", 10, 0, 25},
		{"zero fps", 10, 10, 0},
	}
	for _, d := range testData {
		_, err := Create("out.mp4", d.w, d.h, d.fps)
		assert.True(t, errors.Is(err, asciivid.ErrConfigurationInvalid), d.message)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed", bin)
		}
	}
	dir, err := ioutil.TempDir("", "asciivid-video")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "clip.mp4")

	sink, err := Create(path, 64, 48, 10)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		frame := image.NewGray(image.Rect(0, 0, 64, 48))
		for p := range frame.Pix {
			frame.Pix[p] = uint8(i * 50)
		}
		require.NoError(t, sink.Write(frame))
	}
	require.NoError(t, sink.Close())

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()
	info := src.Info()
	assert.Equal(t, 64, info.Width)
	assert.Equal(t, 48, info.Height)
	assert.InDelta(t, 10, info.FPS, 0.01)

	var frames []image.Image
	for {
		img, err := src.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		frames = append(frames, img)
	}
	require.Len(t, frames, 5)
	assert.NotSame(t, frames[0], frames[1], "frames do not share the decode buffer")

	r, _, _, _ := frames[4].At(32, 24).RGBA()
	assert.InDelta(t, 200, float64(r>>8), 12)
}
