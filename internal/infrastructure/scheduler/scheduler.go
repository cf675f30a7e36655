// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingolive/internal/infrastructure/config"
)

const defaultInterval = 5 * time.Minute

// Flusher persists pending session changes and drops idle sessions.
type Flusher interface {
	Flush(ctx context.Context) error
	EvictIdle(ctx context.Context) (int, error)
}

// Scheduler flushes dirty learner sessions on a fixed interval and evicts
// the ones that went idle.
type Scheduler struct {
	cron     *gocron.Scheduler
	flusher  Flusher
	interval time.Duration
	timeout  time.Duration
	logger   *logrus.Logger
}

// New builds a scheduler for the configured sync interval.
func New(cfg *config.Config, flusher Flusher, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	interval := cfg.Sync.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	cron := gocron.NewScheduler(time.UTC)
	cron.SingletonModeAll()
	return &Scheduler{
		cron:     cron,
		flusher:  flusher,
		interval: interval,
		timeout:  interval,
		logger:   logger,
	}
}

// Start schedules the flush job and returns immediately. The first run
// happens one interval after start.
func (s *Scheduler) Start() error {
	_, err := s.cron.Every(s.interval).WaitForSchedule().Tag("session-flush").Do(s.flush)
	if err != nil {
		return err
	}
	s.cron.StartAsync()
	s.logger.WithField("interval", s.interval.String()).Info("session flush scheduled")
	return nil
}

// Stop halts the job and flushes one last time.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cron.Stop()
	return s.flusher.Flush(ctx)
}

func (s *Scheduler) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	start := time.Now()
	if err := s.flusher.Flush(ctx); err != nil {
		s.logger.WithError(err).Error("session flush failed")
	}
	evicted, err := s.flusher.EvictIdle(ctx)
	if err != nil {
		s.logger.WithError(err).Error("idle session eviction failed")
	}
	s.logger.WithFields(logrus.Fields{
		"duration": time.Since(start).String(),
		"evicted":  evicted,
	}).Debug("sessions flushed")
}
