package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transaction-reporting-backend/internal/currency"
)

func validTransaction() Transaction {
	return Transaction{
		TransactionID: uuid.New(),
		Timestamp:     time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Amount:        decimal.RequireFromString("99.99"),
		Currency:      currency.PLN,
		CustomerID:    uuid.New(),
		ProductID:     uuid.New(),
		Quantity:      2,
	}
}

func TestValidateAcceptsValidTransaction(t *testing.T) {
	tx := validTransaction()
	require.NoError(t, tx.Validate())

	tx.Amount = decimal.RequireFromString("99999999.99")
	assert.NoError(t, tx.Validate(), "maximum representable amount is valid")

	tx.Amount = decimal.RequireFromString("0.01")
	assert.NoError(t, tx.Validate())
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		message string
	}{
		{"nil transaction id", func(tx *Transaction) { tx.TransactionID = uuid.Nil }, "transaction_id is required"},
		{"zero timestamp", func(tx *Transaction) { tx.Timestamp = time.Time{} }, "timestamp is required"},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, "amount must be positive"},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.RequireFromString("-5.00") }, "amount must be positive"},
		{"amount too large", func(tx *Transaction) { tx.Amount = decimal.RequireFromString("100000000.00") }, "amount exceeds maximum"},
		{"three decimal places", func(tx *Transaction) { tx.Amount = decimal.RequireFromString("1.555") }, "more than 2 decimal places"},
		{"unknown currency", func(tx *Transaction) { tx.Currency = "GBP" }, "invalid currency"},
		{"lowercase currency", func(tx *Transaction) { tx.Currency = "pln" }, "invalid currency"},
		{"nil customer id", func(tx *Transaction) { tx.CustomerID = uuid.Nil }, "customer_id is required"},
		{"nil product id", func(tx *Transaction) { tx.ProductID = uuid.Nil }, "product_id is required"},
		{"zero quantity", func(tx *Transaction) { tx.Quantity = 0 }, "quantity must be positive"},
		{"negative quantity", func(tx *Transaction) { tx.Quantity = -1 }, "quantity must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			err := tx.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
