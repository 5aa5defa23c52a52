package pipeline

import (
	"github.com/cheggaaa/pb/v3"
	log "github.com/sirupsen/logrus"
)

// Progress is told about each frame as it is submitted and written
type Progress interface {
	Start(total int)
	Submitted()
	Written()
	Finish()
}

type NopProgress struct{}

func (NopProgress) Start(int)  {}
func (NopProgress) Submitted() {}
func (NopProgress) Written()   {}
func (NopProgress) Finish()    {}

// BarProgress - two pb bars, one for submitted and one for written frames
type BarProgress struct {
	submit *pb.ProgressBar
	write  *pb.ProgressBar
	pool   *pb.Pool
}

func (b *BarProgress) Start(total int) {
	b.submit = pb.New(total).Set("prefix", "Processing ")
	b.write = pb.New(total).Set("prefix", "Writing    ")
	pool, err := pb.StartPool(b.submit, b.write)
	if err != nil {
		log.WithError(err).Debug("progress bars unavailable")
		b.submit, b.write = nil, nil
		return
	}
	b.pool = pool
}

func (b *BarProgress) Submitted() {
	if b.submit != nil {
		b.submit.Increment()
	}
}

func (b *BarProgress) Written() {
	if b.write != nil {
		b.write.Increment()
	}
}

func (b *BarProgress) Finish() {
	if b.pool == nil {
		return
	}
	b.submit.Finish()
	b.write.Finish()
	b.pool.Stop()
	b.pool = nil
}
