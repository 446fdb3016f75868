package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/distributeaid/shipment-tracker/pkg/logger"
	"github.com/distributeaid/shipment-tracker/pkg/metrics"
)

const defaultInterval = 10 * time.Minute

type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	Interval time.Duration
}

// Service runs the registered maintenance jobs on a fixed cadence. Only the
// replica holding the lock does work in a given cycle.
type Service struct {
	ServiceParams
}

func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Logger == nil:
		return nil, errors.New("cron: logger required")
	case params.Lock == nil:
		return nil, errors.New("cron: lock required")
	}
	if params.Registry == nil {
		params.Registry = &Registry{}
	}
	if params.Interval <= 0 {
		params.Interval = defaultInterval
	}
	return &Service{ServiceParams: params}, nil
}

// Run starts a cycle right away, then one per Interval until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.Logger.Error(ctx, "cron.cycle_failed", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce runs every job under the lock. A failing job does not stop the
// ones after it; all failures come back combined.
func (s *Service) RunOnce(ctx context.Context) (err error) {
	held, err := s.Lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire cron lock: %w", err)
	}
	if !held {
		s.Logger.Info(ctx, "cron.cycle_skipped")
		return nil
	}
	defer func() {
		if relErr := s.Lock.Release(ctx); relErr != nil {
			s.Logger.Warn(s.Logger.WithField(ctx, "error", relErr.Error()), "cron.lock_release_failed")
		}
	}()

	jobs := s.Registry.Jobs()
	for _, job := range jobs {
		if jobErr := s.runJob(ctx, job); jobErr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", job.Name(), jobErr))
		}
	}
	s.Logger.Info(s.Logger.WithFields(ctx, map[string]any{
		"jobs":        len(jobs),
		"failed_jobs": len(multierr.Errors(err)),
	}), "cron.cycle_complete")
	return err
}

func (s *Service) runJob(ctx context.Context, job Job) error {
	ctx = s.Logger.WithField(ctx, "job", job.Name())

	start := time.Now()
	err := job.Run(ctx)
	took := time.Since(start)
	s.Metrics.Observe(job.Name(), took, err)

	ctx = s.Logger.WithField(ctx, "duration_ms", took.Milliseconds())
	if err != nil {
		s.Logger.Error(ctx, "cron.job_failed", err)
		return err
	}
	s.Logger.Info(ctx, "cron.job_complete")
	return nil
}
