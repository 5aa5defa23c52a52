// Package pipeline moves frames from a Source through a Dispatcher into a
// Sink, keeping output in source order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/submersibletoaster/asciivid"
	"github.com/submersibletoaster/asciivid/pool"
)

// Info - stream properties known before the first frame
type Info struct {
	FPS    float64
	Width  int
	Height int
	// Frames is the declared total, 0 when unknown
	Frames int
}

// Source yields frames in order and io.EOF after the last one
type Source interface {
	Info() Info
	Read() (image.Image, error)
}

// Sink accepts frames in order. Close finalizes the output.
type Sink interface {
	Write(image.Image) error
	Close() error
}

type Options struct {
	// Window caps frames submitted but not yet written
	Window int
	// CollectTimeout bounds the wait for one result, 0 waits forever
	CollectTimeout time.Duration
	Progress       Progress
}

type Stats struct {
	Read    int
	Written int
}

// FrameError - a run stopped at frame Index during Stage
type FrameError struct {
	Index int
	Stage string
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s frame %d: %v", e.Stage, e.Index, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// Run converts every frame of src and writes the results to sink in
// sequence order. The first failure stops the run: no frame after the
// failing one is written. The sink is closed in every case.
func Run(ctx context.Context, src Source, sink Sink, d pool.Dispatcher, opts Options) (stats Stats, err error) {
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: finalize: %v", asciivid.ErrSinkWriteFailure, cerr)
		}
	}()

	window := opts.Window
	if window < 1 {
		window = 1
	}
	progress := opts.Progress
	if progress == nil {
		progress = NopProgress{}
	}
	info := src.Info()
	progress.Start(info.Frames)
	defer progress.Finish()

	log.WithFields(log.Fields{
		"frames": info.Frames,
		"fps":    info.FPS,
		"width":  info.Width,
		"height": info.Height,
		"window": window,
	}).Debug("pipeline start")

	var inflight []pool.Handle
	collect := func() error {
		h := inflight[0]
		inflight = inflight[1:]

		cctx := ctx
		if opts.CollectTimeout > 0 {
			var cancel context.CancelFunc
			cctx, cancel = context.WithTimeout(ctx, opts.CollectTimeout)
			defer cancel()
		}
		res, err := d.Collect(cctx, h)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return &FrameError{h.Index, "convert", fmt.Errorf("%w: %v", asciivid.ErrAborted, ctx.Err())}
		case errors.Is(err, context.DeadlineExceeded):
			return &FrameError{h.Index, "convert", fmt.Errorf("%w: no result after %v", asciivid.ErrAborted, opts.CollectTimeout)}
		case errors.Is(err, asciivid.ErrConfigurationInvalid):
			return &FrameError{h.Index, "convert", err}
		default:
			return &FrameError{h.Index, "convert", fmt.Errorf("%w: %v", asciivid.ErrConversionFailure, err)}
		}

		if err := sink.Write(res.Frame); err != nil {
			return &FrameError{h.Index, "write", fmt.Errorf("%w: %v", asciivid.ErrSinkWriteFailure, err)}
		}
		stats.Written++
		progress.Written()
		return nil
	}

	for i := 0; info.Frames <= 0 || i < info.Frames; i++ {
		if len(inflight) >= window {
			if err := collect(); err != nil {
				return stats, err
			}
		}

		frame, err := src.Read()
		if err == io.EOF {
			if info.Frames > 0 {
				log.Warnf("source ended after %d of %d frames", i, info.Frames)
			}
			break
		}
		if err != nil {
			log.WithError(err).Warnf("read failed at frame %d, finishing early", i)
			break
		}
		stats.Read++

		h, err := d.Submit(ctx, pool.Task{Index: i, Frame: frame})
		if err != nil {
			return stats, &FrameError{i, "submit", fmt.Errorf("%w: %v", asciivid.ErrAborted, err)}
		}
		inflight = append(inflight, h)
		progress.Submitted()
	}

	for len(inflight) > 0 {
		if err := collect(); err != nil {
			return stats, err
		}
	}
	log.Debugf("pipeline done: %d read, %d written", stats.Read, stats.Written)
	return stats, nil
}
