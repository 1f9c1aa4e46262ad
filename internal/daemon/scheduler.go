package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/shopplan/internal/errors"
	"git.home.luguber.info/inful/shopplan/internal/logfields"
)

// Regenerator rebuilds schedules for every known user.
type Regenerator interface {
	RegenerateAll(ctx context.Context)
}

// Scheduler wraps gocron for periodic schedule regeneration.
type Scheduler struct {
	scheduler   gocron.Scheduler
	regenerator Regenerator
	interval    time.Duration
	logger      *slog.Logger

	mu    sync.Mutex
	jobID string
}

// NewScheduler creates a scheduler that regenerates all schedules at the
// given interval.
func NewScheduler(regenerator Regenerator, interval time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryDaemon, "failed to create scheduler").Build()
	}
	return &Scheduler{
		scheduler:   s,
		regenerator: regenerator,
		interval:    interval,
		logger:      slog.Default(),
	}, nil
}

// Start registers the regeneration job and begins the scheduler.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.run, ctx),
		gocron.WithName("regenerate-schedules"),
	)
	if err != nil {
		s.logger.Error("failed to register regeneration job", logfields.Error(err))
		return
	}
	s.jobID = job.ID().String()

	s.scheduler.Start()
	s.logger.Info("scheduler started",
		logfields.JobID(s.jobID),
		slog.Duration("interval", s.interval))
}

// Reschedule replaces the regeneration job with a new interval.
func (s *Scheduler) Reschedule(ctx context.Context, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if interval == s.interval {
		return
	}

	for _, job := range s.scheduler.Jobs() {
		if job.ID().String() == s.jobID {
			if err := s.scheduler.RemoveJob(job.ID()); err != nil {
				s.logger.Error("failed to remove regeneration job", logfields.Error(err))
				return
			}
		}
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.run, ctx),
		gocron.WithName("regenerate-schedules"),
	)
	if err != nil {
		s.logger.Error("failed to reschedule regeneration job", logfields.Error(err))
		return
	}
	s.jobID = job.ID().String()
	s.interval = interval

	s.logger.Info("scheduler interval updated", slog.Duration("interval", interval))
}

// Stop shuts the scheduler down.
func (s *Scheduler) Stop(_ context.Context) error {
	s.logger.Info("stopping scheduler")
	if err := s.scheduler.Shutdown(); err != nil {
		return errors.WrapError(err, errors.CategoryDaemon, "scheduler shutdown failed").Build()
	}
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	s.logger.Info("running scheduled regeneration")
	s.regenerator.RegenerateAll(ctx)
}
