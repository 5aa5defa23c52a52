// Package pool runs frame conversions on a bounded set of workers.
//
// Submit hands a frame over and returns at once with a Handle; Collect
// blocks until that frame, and only that frame, has been converted. Callers
// that collect handles in submission order get results in submission order
// no matter which worker finishes first.
package pool

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	ErrClosed        = errors.New("pool: closed")
	ErrUnknownHandle = errors.New("pool: unknown handle")
	ErrDuplicate     = errors.New("pool: sequence index already pending")
)

// Task - one frame and its position in the source
type Task struct {
	Index int
	Frame image.Image
}

// Result - the converted frame of a Task
type Result struct {
	Index int
	Frame image.Image
}

// Handle identifies a submitted task
type Handle struct {
	Index int
}

// Converter does the work for one frame. It is called from several
// goroutines at once.
type Converter interface {
	Convert(image.Image) (image.Image, error)
}

// ConverterFunc adapts a function to Converter
type ConverterFunc func(image.Image) (image.Image, error)

func (f ConverterFunc) Convert(img image.Image) (image.Image, error) {
	return f(img)
}

// Dispatcher - submit/collect execution of conversions
type Dispatcher interface {
	// Submit queues a task; it blocks only while the queue is full
	Submit(ctx context.Context, t Task) (Handle, error)
	// Collect waits for the result of one task and forgets it
	Collect(ctx context.Context, h Handle) (Result, error)
	Close() error
}

// DefaultWorkers - available CPUs less two, at least one
func DefaultWorkers() int {
	n := runtime.NumCPU() - 2
	if n < 1 {
		n = 1
	}
	return n
}

type slot struct {
	done chan struct{}
	res  Result
	err  error
}

// Pool - fixed set of worker goroutines fed through a bounded queue.
// Finished results wait in a map keyed by sequence index until collected.
type Pool struct {
	conv    Converter
	workers int
	tasks   chan Task
	quit    chan struct{}
	wait    sync.WaitGroup
	once    sync.Once

	mu    sync.Mutex
	slots map[int]*slot
}

// New starts n workers (DefaultWorkers when n < 1) behind a queue of
// queue tasks (n when queue < 1)
func New(conv Converter, n, queue int) *Pool {
	if n < 1 {
		n = DefaultWorkers()
	}
	if queue < 1 {
		queue = n
	}
	p := &Pool{
		conv:    conv,
		workers: n,
		tasks:   make(chan Task, queue),
		quit:    make(chan struct{}),
		slots:   make(map[int]*slot),
	}
	for i := uint(0); i < uint(n); i++ {
		p.wait.Add(1)
		go func(id uint) {
			defer p.wait.Done()
			log.Debugf("worker %d started", id)
			for {
				select {
				case <-p.quit:
					log.Debugf("worker %d stopped", id)
					return
				case t := <-p.tasks:
					p.run(t)
				}
			}
		}(i)
	}
	return p
}

// Workers - number of worker goroutines
func (p *Pool) Workers() int {
	return p.workers
}

func (p *Pool) Submit(ctx context.Context, t Task) (Handle, error) {
	select {
	case <-p.quit:
		return Handle{}, ErrClosed
	default:
	}

	p.mu.Lock()
	if _, ok := p.slots[t.Index]; ok {
		p.mu.Unlock()
		return Handle{}, fmt.Errorf("%w: %d", ErrDuplicate, t.Index)
	}
	p.slots[t.Index] = &slot{done: make(chan struct{})}
	p.mu.Unlock()

	select {
	case p.tasks <- t:
		log.Debugf("frame %d queued", t.Index)
		return Handle{Index: t.Index}, nil
	case <-ctx.Done():
		p.forget(t.Index)
		return Handle{}, ctx.Err()
	case <-p.quit:
		p.forget(t.Index)
		return Handle{}, ErrClosed
	}
}

func (p *Pool) Collect(ctx context.Context, h Handle) (Result, error) {
	p.mu.Lock()
	s, ok := p.slots[h.Index]
	p.mu.Unlock()
	if !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownHandle, h.Index)
	}

	select {
	case <-s.done:
		p.forget(h.Index)
		return s.res, s.err
	default:
	}
	select {
	case <-s.done:
		p.forget(h.Index)
		return s.res, s.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-p.quit:
		return Result{}, ErrClosed
	}
}

// Close stops the workers and returns at once. A conversion in progress
// runs to its end in the background; queued tasks that no worker picked
// up are dropped and their Collect fails with ErrClosed.
func (p *Pool) Close() error {
	p.once.Do(func() {
		close(p.quit)
	})
	return nil
}

// Wait blocks until every worker has exited after Close, or ctx is done
func (p *Pool) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wait.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) forget(index int) {
	p.mu.Lock()
	delete(p.slots, index)
	p.mu.Unlock()
}

func (p *Pool) run(t Task) {
	p.mu.Lock()
	s, ok := p.slots[t.Index]
	p.mu.Unlock()
	if !ok {
		// submit gave up on it
		return
	}
	out, err := convert(p.conv, t.Frame)
	s.res = Result{Index: t.Index, Frame: out}
	s.err = err
	close(s.done)
}

func convert(conv Converter, frame image.Image) (out image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return conv.Convert(frame)
}
