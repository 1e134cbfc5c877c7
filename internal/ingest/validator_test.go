package ingest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transaction-reporting-backend/internal/currency"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func validFields() map[string]string {
	return map[string]string{
		"transaction_id": "f47ac10b-58cc-4372-a567-0e02b2c3d479",
		"timestamp":      "2024-01-15T10:30:00Z",
		"amount":         "99.99",
		"currency":       "PLN",
		"customer_id":    "550e8400-e29b-41d4-a716-446655440001",
		"product_id":     "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"quantity":       "2",
	}
}

func TestValidateRowValid(t *testing.T) {
	tx, rerr := ValidateRow(validFields())
	require.Nil(t, rerr)

	assert.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", tx.TransactionID.String())
	assert.Equal(t, "2024-01-15T10:30:00Z", tx.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"))
	assert.True(t, tx.Amount.Equal(dec("99.99")))
	assert.Equal(t, currency.PLN, tx.Currency)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440001", tx.CustomerID.String())
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", tx.ProductID.String())
	assert.Equal(t, 2, tx.Quantity)
}

func TestValidateRowNormalizesCurrency(t *testing.T) {
	fields := validFields()
	fields["currency"] = "eur"

	tx, rerr := ValidateRow(fields)
	require.Nil(t, rerr)
	assert.Equal(t, currency.EUR, tx.Currency)
}

func TestValidateRowTimestampFormats(t *testing.T) {
	valid := []string{
		"2024-01-15T10:30:00Z",
		"2024-01-15T10:30:00.123Z",
		"2024-01-15T10:30:00+02:00",
	}
	for _, ts := range valid {
		fields := validFields()
		fields["timestamp"] = ts
		_, rerr := ValidateRow(fields)
		assert.Nil(t, rerr, "timestamp %q should be accepted", ts)
	}

	invalid := []string{
		"2024-01-15 10:30:00", // space instead of T
		"2024/01/15T10:30:00Z",
		"2024-01-15T10:30:00", // no offset
		"invalid-date",
	}
	for _, ts := range invalid {
		fields := validFields()
		fields["timestamp"] = ts
		_, rerr := ValidateRow(fields)
		require.NotNil(t, rerr, "timestamp %q should be rejected", ts)
		assert.Equal(t, "timestamp", rerr.Field)
	}
}

func TestValidateRowFieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		message string
	}{
		{"bad transaction uuid", "transaction_id", "invalid-uuid", "Invalid UUID format for transaction_id: invalid-uuid"},
		{"missing transaction id", "transaction_id", "", "transaction_id is required"},
		{"missing timestamp", "timestamp", "", "timestamp is required"},
		{"non-numeric amount", "amount", "not-a-number", "Invalid amount format: not-a-number"},
		{"negative amount", "amount", "-10.00", "amount must be positive: -10.00"},
		{"zero amount", "amount", "0", "amount must be positive: 0"},
		{"missing amount", "amount", "", "amount is required"},
		{"unknown currency", "currency", "GBP", "Invalid currency: GBP. Must be one of [PLN EUR USD]"},
		{"missing currency", "currency", "", "currency is required"},
		{"bad customer uuid", "customer_id", "nope", "Invalid UUID format for customer_id: nope"},
		{"bad product uuid", "product_id", "nope", "Invalid UUID format for product_id: nope"},
		{"fractional quantity", "quantity", "1.5", "Invalid quantity format: 1.5"},
		{"non-numeric quantity", "quantity", "many", "Invalid quantity format: many"},
		{"negative quantity", "quantity", "-1", "quantity must be positive: -1"},
		{"zero quantity", "quantity", "0", "quantity must be positive: 0"},
		{"missing quantity", "quantity", "", "quantity is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			fields[tt.field] = tt.value

			tx, rerr := ValidateRow(fields)
			require.NotNil(t, rerr)
			assert.Nil(t, tx)
			assert.Equal(t, tt.field, rerr.Field)
			assert.Equal(t, tt.message, rerr.Message)
		})
	}
}

func TestValidateRowShortCircuitsInColumnOrder(t *testing.T) {
	// Several fields invalid at once: the error must name the first one in
	// column order.
	fields := validFields()
	fields["timestamp"] = "bad"
	fields["amount"] = "bad"
	fields["quantity"] = "bad"

	_, rerr := ValidateRow(fields)
	require.NotNil(t, rerr)
	assert.Equal(t, "timestamp", rerr.Field)
}
