package main

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/outbox/registry"
)

// processBatch locks and relays one batch in a single transaction. It
// reports whether any rows were due.
func (s *Service) processBatch(ctx context.Context) (found bool, err error) {
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := s.repo.FetchUnpublishedForPublish(tx, s.batchSize, s.maxAttempts)
		if err != nil {
			return err
		}
		found = len(rows) > 0
		for _, row := range rows {
			if err := s.relay(ctx, tx, row); err != nil {
				return err
			}
		}
		return nil
	})
	return found, err
}

// relay publishes one row and writes the outcome back onto it. Publish
// failures are recorded, not returned; only bookkeeping errors abort the
// batch.
func (s *Service) relay(ctx context.Context, tx *gorm.DB, row models.OutboxEvent) error {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"outbox_id":     row.ID.String(),
		"event_type":    string(row.EventType),
		"aggregate_id":  row.AggregateID.String(),
		"attempt_count": row.AttemptCount,
	})

	pubErr := s.resolveAndPublish(ctx, row)
	if pubErr == nil {
		if err := s.repo.MarkPublishedTx(tx, row.ID); err != nil {
			return fmt.Errorf("mark %s published: %w", row.ID, err)
		}
		s.logg.Info(ctx, "outbox.published")
		return nil
	}

	ctx = s.logg.WithField(ctx, "error", pubErr.Error())
	if s.isTerminal(row, pubErr) {
		s.logg.Warn(ctx, "outbox.parked")
		if err := s.repo.MarkTerminalTx(tx, row.ID, pubErr, s.maxAttempts); err != nil {
			return fmt.Errorf("park %s: %w", row.ID, err)
		}
		return nil
	}

	s.logg.Warn(ctx, "outbox.publish_failed")
	if err := s.repo.MarkFailedTx(tx, row.ID, pubErr); err != nil {
		return fmt.Errorf("record failure on %s: %w", row.ID, err)
	}
	return nil
}

// isTerminal is true for errors no retry can fix and for the attempt that
// reaches the limit.
func (s *Service) isTerminal(row models.OutboxEvent, err error) bool {
	var permanent registry.NonRetryableError
	return errors.As(err, &permanent) || row.AttemptCount+1 >= s.maxAttempts
}

func (s *Service) resolveAndPublish(ctx context.Context, row models.OutboxEvent) error {
	resolved, err := s.registry.Resolve(row)
	if err != nil {
		return err
	}
	topic := resolved.Descriptor.Topic
	pub := s.publishers(topic)
	if pub == nil {
		return registry.NewNonRetryableError(fmt.Errorf("no publisher for topic %s", topic))
	}
	return send(ctx, pub, messageFor(row, resolved.Envelope.EventID))
}
