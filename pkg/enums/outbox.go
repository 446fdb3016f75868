package enums

import "fmt"

// OutboxAggregateType names the entity an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateShipment OutboxAggregateType = "shipment"
	AggregateOffer    OutboxAggregateType = "offer"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateShipment,
	AggregateOffer,
}

// String implements fmt.Stringer.
func (a OutboxAggregateType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known OutboxAggregateType.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into an OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType is the routing key carried by published domain events.
type OutboxEventType string

const (
	EventShipmentStatusChanged OutboxEventType = "shipment_status_changed"
	EventOfferStatusChanged    OutboxEventType = "offer_status_changed"
)

var validOutboxEventTypes = []OutboxEventType{
	EventShipmentStatusChanged,
	EventOfferStatusChanged,
}

// String implements fmt.Stringer.
func (e OutboxEventType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known OutboxEventType.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into an OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
