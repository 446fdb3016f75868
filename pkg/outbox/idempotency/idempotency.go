package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/distributeaid/shipment-tracker/pkg/redis"
)

// Guard lets a Pub/Sub consumer process each event id at most once per TTL.
// Pub/Sub delivers at least once, so redeliveries of an event that has
// already been handled are acked without running the handler again.
//
// Keys look like st:idempotency:<consumer>:<event_id>.
type Guard struct {
	store    redis.IdempotencyStore
	consumer string
	ttl      time.Duration
}

func NewGuard(store redis.IdempotencyStore, consumer string, ttl time.Duration) (*Guard, error) {
	switch {
	case store == nil:
		return nil, errors.New("idempotency store is required")
	case consumer == "":
		return nil, errors.New("consumer name is required")
	case ttl < 0:
		return nil, errors.New("ttl must be non-negative")
	}
	return &Guard{store: store, consumer: consumer, ttl: ttl}, nil
}

// Claim reserves eventID for this consumer. It returns false when another
// delivery already claimed it.
func (g *Guard) Claim(ctx context.Context, eventID uuid.UUID) (bool, error) {
	if eventID == uuid.Nil {
		return false, errors.New("event id is required")
	}
	return g.store.SetNX(ctx, g.key(eventID), time.Now().UTC().Format(time.RFC3339), g.ttl)
}

// Release drops a claim so a failed event can be retried on redelivery.
func (g *Guard) Release(ctx context.Context, eventID uuid.UUID) error {
	if eventID == uuid.Nil {
		return errors.New("event id is required")
	}
	return g.store.Del(ctx, g.key(eventID))
}

func (g *Guard) key(eventID uuid.UUID) string {
	return g.store.IdempotencyKey(g.consumer, eventID.String())
}
