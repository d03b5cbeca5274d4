package scheduler

import (
	"context"
	"time"

	"github.com/Aravinnthram/AINow/internal/ports"
)

// Daily fires a job once per day at a fixed local wall-clock time. It
// polls on a coarse ticker and compares against the next trigger
// instant, so a tick landing past the target still fires.
type Daily struct {
	hour     int
	minute   int
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
	done     chan struct{}
}

var _ ports.Scheduler = (*Daily)(nil)

// NewDaily builds a scheduler for the given local time of day.
func NewDaily(hour, minute int) *Daily {
	return &Daily{
		hour:     hour,
		minute:   minute,
		interval: time.Minute,
		now:      time.Now,
	}
}

// Start launches the polling goroutine. A nil job or an already
// started scheduler is a no-op.
func (d *Daily) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if d.stop != nil {
		return nil
	}

	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go func() {
		defer close(d.done)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		next := d.nextTrigger(d.now())
		for {
			select {
			case <-ticker.C:
				current := d.now()
				if current.Before(next) {
					continue
				}
				job(current)
				next = d.nextTrigger(current)
			case <-ctx.Done():
				return
			case <-d.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the polling goroutine and waits for it to exit, which
// also waits out a job already in flight. The context bounds the wait.
func (d *Daily) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	d.stop = nil

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// nextTrigger returns the first instant strictly after now that lands
// on the configured wall-clock time. time.Date normalizes the day
// rollover, which keeps the trigger on HH:MM across DST shifts.
func (d *Daily) nextTrigger(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), d.hour, d.minute, 0, 0, now.Location())
	for !next.After(now) {
		next = time.Date(next.Year(), next.Month(), next.Day()+1, d.hour, d.minute, 0, 0, next.Location())
	}
	return next
}
