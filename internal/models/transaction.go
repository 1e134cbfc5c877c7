package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"transaction-reporting-backend/internal/currency"
)

// maxAmount bounds amounts to 10 digits total: 8 integer + 2 fraction.
var maxAmount = decimal.RequireFromString("99999999.99")

var hundred = decimal.NewFromInt(100)

// Transaction is a single financial transaction. Immutable once created;
// transaction_id is globally unique and never reused.
type Transaction struct {
	TransactionID uuid.UUID       `gorm:"type:uuid;primaryKey" json:"transaction_id"`
	Timestamp     time.Time       `gorm:"index" json:"timestamp"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2)" json:"amount"`
	Currency      currency.Code   `gorm:"type:varchar(3);index" json:"currency"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;index" json:"customer_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;index" json:"product_id"`
	Quantity      int             `json:"quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Validate enforces the data-model invariants. Every entry point (CSV
// ingestion and direct creation) goes through this, so the rules cannot
// drift between them.
func (t *Transaction) Validate() error {
	if t.TransactionID == uuid.Nil {
		return errors.New("transaction_id is required")
	}
	if t.Timestamp.IsZero() {
		return errors.New("timestamp is required")
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive: %s", t.Amount)
	}
	if t.Amount.GreaterThan(maxAmount) {
		return fmt.Errorf("amount exceeds maximum: %s", t.Amount)
	}
	if !t.Amount.Mul(hundred).Equal(t.Amount.Mul(hundred).Floor()) {
		return fmt.Errorf("amount %s has more than 2 decimal places", t.Amount)
	}
	if !t.Currency.Valid() {
		return fmt.Errorf("invalid currency: %s", t.Currency)
	}
	if t.CustomerID == uuid.Nil {
		return errors.New("customer_id is required")
	}
	if t.ProductID == uuid.Nil {
		return errors.New("product_id is required")
	}
	if t.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %d", t.Quantity)
	}
	return nil
}
