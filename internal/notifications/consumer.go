package notifications

import (
	"context"
	"errors"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/distributeaid/shipment-tracker/pkg/enums"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
	"github.com/distributeaid/shipment-tracker/pkg/outbox/payloads"
	"github.com/distributeaid/shipment-tracker/pkg/outbox/registry"
)

const (
	// ConsumerName scopes the idempotency keys of this consumer.
	ConsumerName = "captain-notifications"
	// DeliveryConsumerName scopes the per-recipient delivery keys.
	DeliveryConsumerName = ConsumerName + ":delivery"
)

type decoder interface {
	Decode(eventType enums.OutboxEventType, data []byte) (*registry.ResolvedEvent, error)
}

type deduper interface {
	Claim(ctx context.Context, eventID uuid.UUID) (bool, error)
	Release(ctx context.Context, eventID uuid.UUID) error
}

type handler interface {
	OfferStatusChanged(ctx context.Context, eventID uuid.UUID, event *payloads.OfferStatusChangedEvent) error
	ShipmentStatusChanged(ctx context.Context, eventID uuid.UUID, event *payloads.ShipmentStatusChangedEvent) error
}

// Consumer reads domain events from Pub/Sub and emails group captains.
type Consumer struct {
	subscription *pubsub.Subscriber
	registry     decoder
	idempotency  deduper
	handler      handler
	logg         *logger.Logger
}

// NewConsumer builds the captain notification consumer.
func NewConsumer(subscription *pubsub.Subscriber, reg decoder, dedupe deduper, h handler, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, fmt.Errorf("notification subscription required")
	}
	if reg == nil {
		return nil, fmt.Errorf("event registry required")
	}
	if dedupe == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if h == nil {
		return nil, fmt.Errorf("notification handler required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		subscription: subscription,
		registry:     reg,
		idempotency:  dedupe,
		handler:      h,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

// process handles one message and reports whether it should be acked.
func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) bool {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": string(eventType),
	})

	resolved, err := c.registry.Decode(eventType, msg.Data)
	if err != nil {
		var nonRetryable registry.NonRetryableError
		if errors.As(err, &nonRetryable) {
			c.logg.Warn(logCtx, "dropping undecodable event: "+err.Error())
			return true
		}
		c.logg.Error(logCtx, "failed to decode event", err)
		return false
	}

	eventID, err := uuid.Parse(resolved.Envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return true
	}
	logCtx = c.logg.WithField(logCtx, "event_id", eventID.String())

	claimed, err := c.idempotency.Claim(ctx, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return false
	}
	if !claimed {
		c.logg.Info(logCtx, "event already processed")
		return true
	}

	if err := c.dispatch(logCtx, eventID, resolved.Payload); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Release(ctx, eventID)
		return false
	}
	return true
}

func (c *Consumer) dispatch(ctx context.Context, eventID uuid.UUID, payload any) error {
	switch event := payload.(type) {
	case *payloads.OfferStatusChangedEvent:
		return c.handler.OfferStatusChanged(ctx, eventID, event)
	case *payloads.ShipmentStatusChangedEvent:
		return c.handler.ShipmentStatusChanged(ctx, eventID, event)
	default:
		c.logg.Info(ctx, "event not handled")
		return nil
	}
}
