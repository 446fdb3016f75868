package registry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/distributeaid/shipment-tracker/pkg/config"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	"github.com/distributeaid/shipment-tracker/pkg/outbox"
	"github.com/distributeaid/shipment-tracker/pkg/outbox/payloads"
)

func TestEventRegistryResolveSuccess(t *testing.T) {
	reg := newTestEventRegistry(t)

	offerID := uuid.New()
	event := models.OutboxEvent{
		EventType:     enums.EventOfferStatusChanged,
		AggregateType: enums.AggregateOffer,
		AggregateID:   offerID,
		Payload: mustEnvelope(t, payloads.OfferStatusChangedEvent{
			OfferID:        offerID,
			PreviousStatus: enums.OfferStatusDraft,
			Status:         enums.OfferStatusProposed,
		}),
	}

	resolved, err := reg.Resolve(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Descriptor.Topic != "domain-topic" {
		t.Fatalf("unexpected topic %q", resolved.Descriptor.Topic)
	}
	payload, ok := resolved.Payload.(*payloads.OfferStatusChangedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", resolved.Payload)
	}
	if payload.OfferID != offerID || payload.Status != enums.OfferStatusProposed {
		t.Fatalf("payload mismatch %+v", payload)
	}
	if resolved.Envelope.EventID == "" {
		t.Fatalf("envelope missing event id")
	}
}

func TestEventRegistryResolveRejectsBadRows(t *testing.T) {
	reg := newTestEventRegistry(t)
	valid := mustEnvelope(t, payloads.ShipmentStatusChangedEvent{Status: enums.ShipmentStatusOpen})

	cases := map[string]models.OutboxEvent{
		"unknown event": {
			EventType:     enums.OutboxEventType("group_deleted"),
			AggregateType: enums.AggregateShipment,
			AggregateID:   uuid.New(),
			Payload:       valid,
		},
		"aggregate mismatch": {
			EventType:     enums.EventShipmentStatusChanged,
			AggregateType: enums.AggregateOffer,
			AggregateID:   uuid.New(),
			Payload:       valid,
		},
		"missing aggregate id": {
			EventType:     enums.EventShipmentStatusChanged,
			AggregateType: enums.AggregateShipment,
			Payload:       valid,
		},
		"null data": {
			EventType:     enums.EventShipmentStatusChanged,
			AggregateType: enums.AggregateShipment,
			AggregateID:   uuid.New(),
			Payload:       mustEnvelope(t, nil),
		},
	}
	for name, event := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := reg.Resolve(event)
			var nonRetry NonRetryableError
			if !errors.As(err, &nonRetry) {
				t.Fatalf("expected non-retryable error, got %v", err)
			}
		})
	}
}

func TestEventRegistryDecodeMessage(t *testing.T) {
	reg := newTestEventRegistry(t)
	shipmentID := uuid.New()
	data := mustEnvelope(t, payloads.ShipmentStatusChangedEvent{ShipmentID: shipmentID, Status: enums.ShipmentStatusOpen})

	resolved, err := reg.Decode(enums.EventShipmentStatusChanged, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payload := resolved.Payload.(*payloads.ShipmentStatusChangedEvent)
	if payload.ShipmentID != shipmentID {
		t.Fatalf("expected shipment %s, got %s", shipmentID, payload.ShipmentID)
	}
}

func TestNewEventRegistryRequiresTopic(t *testing.T) {
	if _, err := NewEventRegistry(config.PubSubConfig{}); err == nil {
		t.Fatal("expected missing topic to fail")
	}
}

func newTestEventRegistry(t *testing.T) *EventRegistry {
	t.Helper()
	reg, err := NewEventRegistry(config.PubSubConfig{DomainTopic: "domain-topic"})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

func mustEnvelope(t *testing.T, data any) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	env, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       raw,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return env
}
