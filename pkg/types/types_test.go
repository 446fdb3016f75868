package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShipmentPricingKeepsDecimalPrecision(t *testing.T) {
	pricing := ShipmentPricing{
		SinglePallet: &Money{Currency: "GBP", Quantity: decimal.RequireFromString("325.10")},
	}
	raw, err := pricing.Value()
	require.NoError(t, err)

	var scanned ShipmentPricing
	require.NoError(t, scanned.Scan(raw))
	require.NotNil(t, scanned.SinglePallet)
	assert.True(t, scanned.SinglePallet.Quantity.Equal(decimal.RequireFromString("325.1")))
	assert.Nil(t, scanned.HalfPallet)
}

func TestEmptyPricingIsStoredAsNull(t *testing.T) {
	raw, err := ShipmentPricing{}.Value()
	require.NoError(t, err)
	assert.Nil(t, raw)

	var scanned ShipmentPricing
	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())
}

func TestNullableContact(t *testing.T) {
	raw, err := NullableContact{}.Value()
	require.NoError(t, err)
	assert.Nil(t, raw)

	var c NullableContact
	require.NoError(t, c.Scan([]byte(`{"name":"Ada","signal":"+44 7700 900000"}`)))
	require.NotNil(t, c.Contact)
	assert.Equal(t, "Ada", c.Contact.Name)
	require.NotNil(t, c.Contact.Signal)

	assert.Error(t, c.Scan(42))
}
