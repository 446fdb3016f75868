package enums

import "fmt"

// PalletType is the physical pallet format.
type PalletType string

const (
	PalletTypeStandard PalletType = "Standard"
	PalletTypeEuro     PalletType = "Euro"
	PalletTypeCustom   PalletType = "Custom"
)

var validPalletTypes = []PalletType{
	PalletTypeStandard,
	PalletTypeEuro,
	PalletTypeCustom,
}

// String implements fmt.Stringer.
func (p PalletType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PalletType.
func (p PalletType) IsValid() bool {
	for _, candidate := range validPalletTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePalletType converts raw input into a PalletType.
func ParsePalletType(value string) (PalletType, error) {
	for _, candidate := range validPalletTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pallet type %q", value)
}

// PaymentStatus is maintained by administrators; no payments are processed.
type PaymentStatus string

const (
	PaymentStatusUninitiated PaymentStatus = "Uninitiated"
	PaymentStatusInvoiced    PaymentStatus = "Invoiced"
	PaymentStatusPaid        PaymentStatus = "Paid"
	PaymentStatusCancelled   PaymentStatus = "Cancelled"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusUninitiated,
	PaymentStatusInvoiced,
	PaymentStatusPaid,
	PaymentStatusCancelled,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
