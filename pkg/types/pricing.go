package types

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
)

// Money is an amount in a named currency. Amounts stay decimal end to end so
// pallet prices never pick up float rounding.
type Money struct {
	Currency string          `json:"currency" validate:"required,len=3"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ShipmentPricing lists the per pallet prices a shipment charges.
type ShipmentPricing struct {
	SinglePallet *Money `json:"singlePallet,omitempty"`
	HalfPallet   *Money `json:"halfPallet,omitempty"`
}

// HasNegative reports whether any price is below zero.
func (p ShipmentPricing) HasNegative() bool {
	for _, m := range []*Money{p.SinglePallet, p.HalfPallet} {
		if m != nil && m.Quantity.IsNegative() {
			return true
		}
	}
	return false
}

// IsZero reports whether no price has been set.
func (p ShipmentPricing) IsZero() bool {
	return p.SinglePallet == nil && p.HalfPallet == nil
}

func (p ShipmentPricing) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}
	return marshalJSONB(p)
}

func (p *ShipmentPricing) Scan(value interface{}) error {
	if value == nil {
		*p = ShipmentPricing{}
		return nil
	}
	var out ShipmentPricing
	if err := scanJSONB("pricing", value, &out); err != nil {
		return err
	}
	*p = out
	return nil
}
