package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/pkg/config"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
	"github.com/distributeaid/shipment-tracker/pkg/outbox/registry"
)

const (
	defaultBatchSize   = 50
	defaultPoll        = 500 * time.Millisecond
	defaultMaxAttempts = 10
	maxBackoff         = 10 * time.Second
	jitterWindow       = 250 * time.Millisecond
)

type dbClient interface {
	Ping(context.Context) error
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

type outboxRepository interface {
	FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error
	MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error) error
	MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error, terminalAttempts int) error
}

type registryResolver interface {
	Resolve(models.OutboxEvent) (*registry.ResolvedEvent, error)
}

type ServiceParams struct {
	Config     config.OutboxConfig
	Logger     *logger.Logger
	DB         dbClient
	PubSub     pubSubClient
	Repository outboxRepository
	Registry   registryResolver
	// PublisherFactory overrides the Pub/Sub backed publishers in tests.
	PublisherFactory publisherFactory
}

// Service relays committed outbox rows to Pub/Sub, oldest first. Rows that
// keep failing are parked once they reach the attempt limit.
type Service struct {
	logg        *logger.Logger
	db          dbClient
	pubsub      pubSubClient
	repo        outboxRepository
	registry    registryResolver
	publishers  publisherFactory
	batchSize   int
	maxAttempts int
	poll        time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	missing := map[string]bool{
		"logger":            params.Logger == nil,
		"database client":   params.DB == nil,
		"pubsub client":     params.PubSub == nil,
		"outbox repository": params.Repository == nil,
		"event registry":    params.Registry == nil,
	}
	for name, absent := range missing {
		if absent {
			return nil, fmt.Errorf("%s is required", name)
		}
	}

	s := &Service{
		logg:        params.Logger,
		db:          params.DB,
		pubsub:      params.PubSub,
		repo:        params.Repository,
		registry:    params.Registry,
		publishers:  params.PublisherFactory,
		batchSize:   orDefault(params.Config.BatchSize, defaultBatchSize),
		maxAttempts: orDefault(params.Config.MaxAttempts, defaultMaxAttempts),
		poll:        defaultPoll,
	}
	if ms := params.Config.PollIntervalMS; ms > 0 {
		s.poll = time.Duration(ms) * time.Millisecond
	}
	if s.publishers == nil {
		s.publishers = pubsubPublishers(params.PubSub)
	}
	return s, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// Run relays batches until ctx ends. A full batch is followed immediately by
// the next one; an empty poll waits one interval and a failing batch backs
// off exponentially.
func (s *Service) Run(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	if err := s.pubsub.Ping(ctx); err != nil {
		return fmt.Errorf("pubsub ping: %w", err)
	}

	wait := s.poll
	for ctx.Err() == nil {
		found, err := s.processBatch(ctx)
		switch {
		case err != nil && !errors.Is(err, context.Canceled):
			s.logg.Error(ctx, "outbox.batch_failed", err)
			wait = min(wait*2, maxBackoff)
		case found:
			wait = s.poll
			continue
		default:
			wait = s.poll
		}
		if err := pause(ctx, wait+rand.N(jitterWindow)); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
