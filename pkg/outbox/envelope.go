package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnvelopeVersion is stamped on events that do not set their own version.
const EnvelopeVersion = 1

// ActorRef is the account that caused a shipment or offer change.
type ActorRef struct {
	UserID  uuid.UUID `json:"userId"`
	IsAdmin bool      `json:"isAdmin"`
}

// PayloadEnvelope is persisted in outbox_events.payload and published verbatim
// as the Pub/Sub message body. Consumers dedupe on EventID.
type PayloadEnvelope struct {
	EventID    string          `json:"eventId"`
	Version    int             `json:"version"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}

func envelopeFor(event DomainEvent, now time.Time) (PayloadEnvelope, error) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return PayloadEnvelope{}, fmt.Errorf("encode %s data: %w", event.EventType, err)
	}

	env := PayloadEnvelope{
		EventID:    uuid.NewString(),
		Version:    event.Version,
		OccurredAt: event.OccurredAt,
		Actor:      event.Actor,
		Data:       data,
	}
	if env.Version == 0 {
		env.Version = EnvelopeVersion
	}
	if env.OccurredAt.IsZero() {
		env.OccurredAt = now
	}
	return env, nil
}
