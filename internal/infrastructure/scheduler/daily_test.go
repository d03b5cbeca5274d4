package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func TestNextTrigger(t *testing.T) {
	t.Parallel()

	d := NewDaily(9, 5)

	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before trigger", time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC), time.Date(2025, time.March, 10, 9, 5, 0, 0, time.UTC)},
		{"after trigger", time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC), time.Date(2025, time.March, 11, 9, 5, 0, 0, time.UTC)},
		{"exactly at trigger", time.Date(2025, time.March, 10, 9, 5, 0, 0, time.UTC), time.Date(2025, time.March, 11, 9, 5, 0, 0, time.UTC)},
		{"month rollover", time.Date(2025, time.March, 31, 23, 0, 0, 0, time.UTC), time.Date(2025, time.April, 1, 9, 5, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := d.nextTrigger(tc.now); !got.Equal(tc.want) {
				t.Fatalf("nextTrigger(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestDailyFiresOncePerDay(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2025, time.March, 10, 9, 4, 30, 0, time.UTC)}

	d := NewDaily(9, 5)
	d.interval = time.Millisecond
	d.now = clock.Now

	fired := make(chan time.Time, 16)
	if err := d.Start(context.Background(), func(ts time.Time) { fired <- ts }); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer func() { _ = d.Stop(context.Background()) }()

	select {
	case ts := <-fired:
		t.Fatalf("fired before trigger time: %v", ts)
	case <-time.After(30 * time.Millisecond):
	}

	clock.Set(time.Date(2025, time.March, 10, 9, 5, 30, 0, time.UTC))
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("job did not fire at trigger time")
	}

	select {
	case ts := <-fired:
		t.Fatalf("fired twice for the same day: %v", ts)
	case <-time.After(30 * time.Millisecond):
	}

	clock.Set(time.Date(2025, time.March, 11, 9, 5, 30, 0, time.UTC))
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("job did not fire the next day")
	}
}

func TestDailyStopHaltsLoop(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)}

	d := NewDaily(9, 5)
	d.interval = time.Millisecond
	d.now = clock.Now

	fired := make(chan time.Time, 16)
	if err := d.Start(context.Background(), func(ts time.Time) { fired <- ts }); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := d.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}

	clock.Set(time.Date(2025, time.March, 10, 9, 6, 0, 0, time.UTC))
	select {
	case ts := <-fired:
		t.Fatalf("fired after stop: %v", ts)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDailyStartTwiceKeepsFirstJob(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)}

	d := NewDaily(9, 5)
	d.interval = time.Millisecond
	d.now = clock.Now

	first := make(chan time.Time, 16)
	second := make(chan time.Time, 16)
	if err := d.Start(context.Background(), func(ts time.Time) { first <- ts }); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := d.Start(context.Background(), func(ts time.Time) { second <- ts }); err != nil {
		t.Fatalf("second Start error: %v", err)
	}
	defer func() { _ = d.Stop(context.Background()) }()

	clock.Set(time.Date(2025, time.March, 10, 9, 5, 30, 0, time.UTC))
	select {
	case <-first:
	case <-time.After(2 * time.Second):
		t.Fatalf("first job did not fire")
	}
	select {
	case ts := <-second:
		t.Fatalf("second job should never run: %v", ts)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestDailyNilJob(t *testing.T) {
	t.Parallel()

	d := NewDaily(9, 5)
	if err := d.Start(context.Background(), nil); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if d.stop != nil {
		t.Fatalf("nil job should not start the loop")
	}
}

func TestDailyContextCancelStopsLoop(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)}

	d := NewDaily(9, 5)
	d.interval = time.Millisecond
	d.now = clock.Now

	ctx, cancel := context.WithCancel(context.Background())
	fired := make(chan time.Time, 16)
	if err := d.Start(ctx, func(ts time.Time) { fired <- ts }); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	cancel()

	// Let the loop observe the cancellation before the clock reaches
	// the trigger.
	select {
	case <-d.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not exit after context cancel")
	}

	clock.Set(time.Date(2025, time.March, 10, 9, 6, 0, 0, time.UTC))
	select {
	case ts := <-fired:
		t.Fatalf("fired after context cancel: %v", ts)
	case <-time.After(50 * time.Millisecond):
	}
}
