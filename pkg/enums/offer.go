package enums

import "fmt"

// OfferStatus tracks a sending group's offer through review.
type OfferStatus string

const (
	OfferStatusDraft         OfferStatus = "Draft"
	OfferStatusProposed      OfferStatus = "Proposed"
	OfferStatusBeingReviewed OfferStatus = "BeingReviewed"
	OfferStatusRejected      OfferStatus = "Rejected"
	OfferStatusAccepted      OfferStatus = "Accepted"
)

var validOfferStatuses = []OfferStatus{
	OfferStatusDraft,
	OfferStatusProposed,
	OfferStatusBeingReviewed,
	OfferStatusRejected,
	OfferStatusAccepted,
}

// String implements fmt.Stringer.
func (o OfferStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OfferStatus.
func (o OfferStatus) IsValid() bool {
	for _, candidate := range validOfferStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOfferStatus converts raw input into an OfferStatus.
func ParseOfferStatus(value string) (OfferStatus, error) {
	for _, candidate := range validOfferStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer status %q", value)
}
