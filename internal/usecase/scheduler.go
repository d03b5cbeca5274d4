package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Aravinnthram/AINow/internal/domain"
	"github.com/Aravinnthram/AINow/internal/ports"
)

// Scheduler arms and disarms the daily delivery loop. It owns a
// background context so an armed loop outlives the HTTP request that
// configured it; the context is only cancelled by Close.
type Scheduler struct {
	pipeline *Pipeline
	logger   *slog.Logger
	newLoop  func(hour, minute int) ports.Scheduler

	mu    sync.Mutex
	loop  ports.Scheduler
	spec  domain.ScheduleSpec
	armed bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler returns a manager over daily digest deliveries. newLoop
// builds the timer driver for a given wall-clock time.
func NewScheduler(pipeline *Pipeline, logger *slog.Logger, newLoop func(hour, minute int) ports.Scheduler) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		pipeline: pipeline,
		logger:   logger,
		newLoop:  newLoop,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Arm validates the spec and schedules daily delivery, replacing any
// previously armed schedule.
func (s *Scheduler) Arm(spec domain.ScheduleSpec) error {
	if len(spec.Recipients) == 0 {
		return fmt.Errorf("no recipient emails provided")
	}
	if spec.Hour < 0 || spec.Hour > 23 {
		return fmt.Errorf("hour %d out of range", spec.Hour)
	}
	if spec.Minute < 0 || spec.Minute > 59 {
		return fmt.Errorf("minute %d out of range", spec.Minute)
	}
	if spec.MaxItems <= 0 {
		return fmt.Errorf("max items must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loop != nil {
		if err := s.loop.Stop(s.ctx); err != nil {
			return fmt.Errorf("stop previous schedule: %w", err)
		}
		s.loop = nil
		s.armed = false
	}

	loop := s.newLoop(spec.Hour, spec.Minute)
	captured := spec
	job := func(trigger time.Time) {
		s.pipeline.RunScheduled(s.ctx, captured, trigger)
	}
	if err := loop.Start(s.ctx, job); err != nil {
		return fmt.Errorf("start schedule: %w", err)
	}

	s.loop = loop
	s.spec = spec
	s.armed = true
	s.logger.Info("schedule armed", "at", spec.At(), "recipients", len(spec.Recipients))
	return nil
}

// Disarm stops the armed schedule, if any.
func (s *Scheduler) Disarm() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loop == nil {
		return nil
	}
	if err := s.loop.Stop(s.ctx); err != nil {
		return fmt.Errorf("stop schedule: %w", err)
	}
	s.loop = nil
	s.armed = false
	s.logger.Info("schedule disarmed")
	return nil
}

// Status reports the current schedule and whether it is armed.
func (s *Scheduler) Status() (domain.ScheduleSpec, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec, s.armed
}

// Close disarms any schedule and cancels the background context,
// aborting an in-flight scheduled run.
func (s *Scheduler) Close() {
	if err := s.Disarm(); err != nil {
		s.logger.Error("disarm on close", "error", err)
	}
	s.cancel()
}
