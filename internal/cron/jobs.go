package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/distributeaid/shipment-tracker/pkg/logger"
)

// Pruner removes or retires rows older than cutoff and reports how many
// rows it touched. The token, export and outbox repositories all satisfy a
// variant of it.
type Pruner func(ctx context.Context, cutoff time.Time) (int64, error)

type ageJob struct {
	name string
	age  time.Duration
	run  Pruner
	logg *logger.Logger
	now  func() time.Time
}

func newAgeJob(name string, age time.Duration, run Pruner, logg *logger.Logger) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if run == nil {
		return nil, fmt.Errorf("%s: repository required", name)
	}
	if age <= 0 {
		return nil, fmt.Errorf("%s: age must be positive", name)
	}
	return &ageJob{
		name: name,
		age:  age,
		run:  run,
		logg: logg,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (j *ageJob) Name() string { return j.name }

func (j *ageJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.age)
	rows, err := j.run(ctx, cutoff)
	if err != nil {
		return err
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":        cutoff,
		"rows_affected": rows,
	}), "cleanup complete")
	return nil
}

// NewTokenExpiryJob marks unused verification tokens older than ttl as
// expired.
func NewTokenExpiryJob(logg *logger.Logger, expire Pruner, ttl time.Duration) (Job, error) {
	return newAgeJob("verification-token-expiry", ttl, expire, logg)
}

// NewExportRetentionJob deletes shipment exports older than retention.
func NewExportRetentionJob(logg *logger.Logger, prune Pruner, retention time.Duration) (Job, error) {
	return newAgeJob("export-retention", retention, prune, logg)
}

// NewOutboxRetentionJob deletes outbox rows published before retention.
func NewOutboxRetentionJob(logg *logger.Logger, prune Pruner, retention time.Duration) (Job, error) {
	return newAgeJob("outbox-retention", retention, prune, logg)
}
