package enums

import "fmt"

// VerificationTokenStatus is the lifecycle of an emailed confirmation code.
type VerificationTokenStatus string

const (
	VerificationTokenUnused  VerificationTokenStatus = "unused"
	VerificationTokenUsed    VerificationTokenStatus = "used"
	VerificationTokenExpired VerificationTokenStatus = "expired"
)

var validVerificationTokenStatuses = []VerificationTokenStatus{
	VerificationTokenUnused,
	VerificationTokenUsed,
	VerificationTokenExpired,
}

// String implements fmt.Stringer.
func (v VerificationTokenStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VerificationTokenStatus.
func (v VerificationTokenStatus) IsValid() bool {
	for _, candidate := range validVerificationTokenStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVerificationTokenStatus converts raw input into a VerificationTokenStatus.
func ParseVerificationTokenStatus(value string) (VerificationTokenStatus, error) {
	for _, candidate := range validVerificationTokenStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid verification token status %q", value)
}
