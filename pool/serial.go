package pool

import (
	"context"
	"fmt"
	"image"
)

// Serial converts on the collecting goroutine. It keeps the Dispatcher
// contract without any goroutines, for single worker runs.
type Serial struct {
	conv    Converter
	pending map[int]image.Image
	closed  bool
}

func NewSerial(conv Converter) *Serial {
	return &Serial{conv: conv, pending: make(map[int]image.Image)}
}

func (s *Serial) Submit(ctx context.Context, t Task) (Handle, error) {
	if s.closed {
		return Handle{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}
	if _, ok := s.pending[t.Index]; ok {
		return Handle{}, fmt.Errorf("%w: %d", ErrDuplicate, t.Index)
	}
	s.pending[t.Index] = t.Frame
	return Handle{Index: t.Index}, nil
}

func (s *Serial) Collect(ctx context.Context, h Handle) (Result, error) {
	frame, ok := s.pending[h.Index]
	if !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownHandle, h.Index)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	delete(s.pending, h.Index)
	out, err := convert(s.conv, frame)
	return Result{Index: h.Index, Frame: out}, err
}

func (s *Serial) Close() error {
	s.closed = true
	s.pending = nil
	return nil
}
