package audit

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Dispatcher writes audit rows off the request path. A full queue drops
// the event; auditing never fails a request.
type Dispatcher struct {
	logger *Logger
	log    logrus.FieldLogger
	queue  chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDispatcher(logger *Logger, log logrus.FieldLogger, size int) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, size),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.logger.Record(context.Background(), ev); err != nil {
			d.log.WithError(err).WithField("action", ev.Action).Warn("audit write failed")
		}
	}
}

func (d *Dispatcher) Record(_ context.Context, ev Event) error {
	select {
	case d.queue <- ev:
	default:
		d.log.WithField("action", ev.Action).Warn("audit queue full, dropping event")
	}
	return nil
}

// Close drains pending events. Record must not be called afterwards.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.queue) })
	d.wg.Wait()
}

var _ Recorder = (*Dispatcher)(nil)
