package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/distributeaid/shipment-tracker/pkg/config"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	"github.com/distributeaid/shipment-tracker/pkg/outbox"
	"github.com/distributeaid/shipment-tracker/pkg/outbox/payloads"
	"github.com/distributeaid/shipment-tracker/pkg/outbox/registry"
)

type stubDeduper struct {
	seen    map[uuid.UUID]bool
	err     error
	deleted []uuid.UUID
}

func (d *stubDeduper) Claim(_ context.Context, id uuid.UUID) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen == nil {
		d.seen = map[uuid.UUID]bool{}
	}
	already := d.seen[id]
	d.seen[id] = true
	return !already, nil
}

func (d *stubDeduper) Release(_ context.Context, id uuid.UUID) error {
	d.deleted = append(d.deleted, id)
	delete(d.seen, id)
	return nil
}

type stubHandler struct {
	offers    int
	shipments int
	err       error
}

func (h *stubHandler) OfferStatusChanged(context.Context, uuid.UUID, *payloads.OfferStatusChangedEvent) error {
	h.offers++
	return h.err
}

func (h *stubHandler) ShipmentStatusChanged(context.Context, uuid.UUID, *payloads.ShipmentStatusChangedEvent) error {
	h.shipments++
	return h.err
}

func newTestConsumer(t *testing.T, dedupe *stubDeduper, h *stubHandler) *Consumer {
	t.Helper()
	reg, err := registry.NewEventRegistry(config.PubSubConfig{DomainTopic: "domain-events"})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return &Consumer{registry: reg, idempotency: dedupe, handler: h, logg: testLogger()}
}

func message(t *testing.T, eventType enums.OutboxEventType, eventID string, data any) *pubsub.Message {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	body, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		OccurredAt: time.Now().UTC(),
		Data:       raw,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return &pubsub.Message{
		ID:         "msg-1",
		Data:       body,
		Attributes: map[string]string{"event_type": string(eventType)},
	}
}

func TestProcessDispatchesOncePerEvent(t *testing.T) {
	dedupe := &stubDeduper{}
	h := &stubHandler{}
	c := newTestConsumer(t, dedupe, h)

	msg := message(t, enums.EventOfferStatusChanged, uuid.NewString(), payloads.OfferStatusChangedEvent{
		OfferID: uuid.New(),
		Status:  enums.OfferStatusAccepted,
	})
	if !c.process(context.Background(), msg) {
		t.Fatal("expected first delivery to be acked")
	}
	if !c.process(context.Background(), msg) {
		t.Fatal("expected redelivery to be acked")
	}
	if h.offers != 1 {
		t.Fatalf("expected handler to run once, ran %d times", h.offers)
	}

	shipment := message(t, enums.EventShipmentStatusChanged, uuid.NewString(), payloads.ShipmentStatusChangedEvent{
		ShipmentID: uuid.New(),
		Status:     enums.ShipmentStatusOpen,
	})
	if !c.process(context.Background(), shipment) || h.shipments != 1 {
		t.Fatalf("expected shipment event to be handled, got %d", h.shipments)
	}
}

func TestProcessAcksUndecodableMessages(t *testing.T) {
	h := &stubHandler{}
	c := newTestConsumer(t, &stubDeduper{}, h)

	unknown := message(t, enums.OutboxEventType("something_else"), uuid.NewString(), map[string]string{})
	if !c.process(context.Background(), unknown) {
		t.Fatal("expected unknown event types to be acked")
	}
	garbage := &pubsub.Message{Data: []byte("{"), Attributes: map[string]string{"event_type": string(enums.EventOfferStatusChanged)}}
	if !c.process(context.Background(), garbage) {
		t.Fatal("expected malformed payloads to be acked")
	}
	badID := message(t, enums.EventOfferStatusChanged, "not-a-uuid", payloads.OfferStatusChangedEvent{OfferID: uuid.New()})
	if !c.process(context.Background(), badID) {
		t.Fatal("expected invalid event ids to be acked")
	}
	if h.offers != 0 {
		t.Fatalf("expected no handler calls, got %d", h.offers)
	}
}

func TestProcessNacksAndReleasesOnHandlerFailure(t *testing.T) {
	dedupe := &stubDeduper{}
	h := &stubHandler{err: errors.New("smtp down")}
	c := newTestConsumer(t, dedupe, h)

	eventID := uuid.New()
	msg := message(t, enums.EventOfferStatusChanged, eventID.String(), payloads.OfferStatusChangedEvent{OfferID: uuid.New()})
	if c.process(context.Background(), msg) {
		t.Fatal("expected handler failure to nack")
	}
	if len(dedupe.deleted) != 1 || dedupe.deleted[0] != eventID {
		t.Fatalf("expected idempotency key release, got %v", dedupe.deleted)
	}

	h.err = nil
	if !c.process(context.Background(), msg) || h.offers != 2 {
		t.Fatalf("expected retry to be handled, got %d calls", h.offers)
	}
}

func TestProcessNacksWhenIdempotencyStoreFails(t *testing.T) {
	h := &stubHandler{}
	c := newTestConsumer(t, &stubDeduper{err: errors.New("redis down")}, h)

	msg := message(t, enums.EventOfferStatusChanged, uuid.NewString(), payloads.OfferStatusChangedEvent{OfferID: uuid.New()})
	if c.process(context.Background(), msg) {
		t.Fatal("expected nack when idempotency cannot be checked")
	}
	if h.offers != 0 {
		t.Fatal("handler must not run without an idempotency check")
	}
}
