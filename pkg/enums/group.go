package enums

import "fmt"

// GroupType classifies a group's role in the supply chain.
type GroupType string

const (
	GroupTypeDaHub          GroupType = "DaHub"
	GroupTypeReceivingGroup GroupType = "ReceivingGroup"
	GroupTypeSendingGroup   GroupType = "SendingGroup"
)

var validGroupTypes = []GroupType{
	GroupTypeDaHub,
	GroupTypeReceivingGroup,
	GroupTypeSendingGroup,
}

// String implements fmt.Stringer.
func (g GroupType) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GroupType.
func (g GroupType) IsValid() bool {
	for _, candidate := range validGroupTypes {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGroupType converts raw input into a GroupType.
func ParseGroupType(value string) (GroupType, error) {
	for _, candidate := range validGroupTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid group type %q", value)
}
