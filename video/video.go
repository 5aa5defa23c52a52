// Package video reads and writes frames through ffmpeg using Vidio.
package video

import (
	"fmt"
	"image"
	"image/draw"
	"io"

	vidio "github.com/AlexEidt/Vidio"
	log "github.com/sirupsen/logrus"

	"github.com/submersibletoaster/asciivid"
	"github.com/submersibletoaster/asciivid/pipeline"
)

// DefaultCodec - mp4v keeps output playable without an h264 encoder
const DefaultCodec = "mpeg4"

// Source - decoded frames of a video file
type Source struct {
	video *vidio.Video
	frame *image.RGBA
	info  pipeline.Info
}

// Open probes path and prepares it for decoding
func Open(path string) (*Source, error) {
	v, err := vidio.NewVideo(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", asciivid.ErrSourceUnavailable, path, err)
	}
	if v.Width() <= 0 || v.Height() <= 0 {
		v.Close()
		return nil, fmt.Errorf("%w: %s: no video stream", asciivid.ErrSourceUnavailable, path)
	}

	frame := image.NewRGBA(image.Rect(0, 0, v.Width(), v.Height()))
	if err := v.SetFrameBuffer(frame.Pix); err != nil {
		v.Close()
		return nil, fmt.Errorf("%w: %s: %v", asciivid.ErrSourceUnavailable, path, err)
	}

	s := &Source{
		video: v,
		frame: frame,
		info: pipeline.Info{
			FPS:    v.FPS(),
			Width:  v.Width(),
			Height: v.Height(),
			Frames: v.Frames(),
		},
	}
	log.WithFields(log.Fields{
		"path":   path,
		"codec":  v.Codec(),
		"fps":    s.info.FPS,
		"frames": s.info.Frames,
	}).Debugf("opened %dx%d video", s.info.Width, s.info.Height)
	return s, nil
}

func (s *Source) Info() pipeline.Info {
	return s.info
}

// Read returns a copy of the next frame; the decode buffer is reused
func (s *Source) Read() (image.Image, error) {
	if !s.video.Read() {
		return nil, io.EOF
	}
	out := image.NewRGBA(s.frame.Rect)
	copy(out.Pix, s.frame.Pix)
	return out, nil
}

func (s *Source) Close() {
	s.video.Close()
}

// Sink - encodes frames of a fixed size into a video file
type Sink struct {
	writer *vidio.VideoWriter
	path   string
	rect   image.Rectangle
	buf    *image.RGBA
}

// Create starts an encoder for width x height frames at fps
func Create(path string, width, height int, fps float64) (*Sink, error) {
	if width <= 0 || height <= 0 || fps <= 0 {
		return nil, fmt.Errorf("%w: %dx%d at %v fps", asciivid.ErrConfigurationInvalid, width, height, fps)
	}
	w, err := vidio.NewVideoWriter(path, width, height, &vidio.Options{
		FPS:   fps,
		Codec: DefaultCodec,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", asciivid.ErrSinkWriteFailure, path, err)
	}
	rect := image.Rect(0, 0, width, height)
	return &Sink{
		writer: w,
		path:   path,
		rect:   rect,
		buf:    image.NewRGBA(rect),
	}, nil
}

// Write encodes img, drawing it onto an RGBA frame of the sink's size
// first when it is not one already
func (s *Sink) Write(img image.Image) error {
	pix := s.buf.Pix
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect == s.rect && rgba.Stride == 4*s.rect.Dx() {
		pix = rgba.Pix
	} else {
		draw.Draw(s.buf, s.rect, img, img.Bounds().Min, draw.Src)
	}
	return s.writer.Write(pix)
}

func (s *Sink) Close() error {
	s.writer.Close()
	log.Debugf("finalized %s", s.path)
	return nil
}
