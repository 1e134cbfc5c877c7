package ingest

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"transaction-reporting-backend/internal/currency"
	"transaction-reporting-backend/internal/models"
)

// RequiredColumns is the exact column set a transaction CSV must carry.
// Extra columns are ignored; missing ones fail the whole batch.
var RequiredColumns = []string{
	"transaction_id", "timestamp", "amount", "currency",
	"customer_id", "product_id", "quantity",
}

// RowError is a field-level validation failure for one row. It is a value,
// not a panic: the pipeline records it and moves on.
type RowError struct {
	Field   string
	Value   string
	Message string
}

func (e *RowError) Error() string {
	return e.Message
}

func fieldErr(field, value, format string, args ...any) *RowError {
	return &RowError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)}
}

// ValidateRow validates and coerces one raw CSV row into a typed
// transaction. Fields are checked in column order and validation stops at
// the first failure. Pure function, no side effects.
func ValidateRow(fields map[string]string) (*models.Transaction, *RowError) {
	transactionID, rerr := validateUUID(fields["transaction_id"], "transaction_id")
	if rerr != nil {
		return nil, rerr
	}
	timestamp, rerr := validateTimestamp(fields["timestamp"])
	if rerr != nil {
		return nil, rerr
	}
	amount, rerr := validateAmount(fields["amount"])
	if rerr != nil {
		return nil, rerr
	}
	code, rerr := validateCurrency(fields["currency"])
	if rerr != nil {
		return nil, rerr
	}
	customerID, rerr := validateUUID(fields["customer_id"], "customer_id")
	if rerr != nil {
		return nil, rerr
	}
	productID, rerr := validateUUID(fields["product_id"], "product_id")
	if rerr != nil {
		return nil, rerr
	}
	quantity, rerr := validateQuantity(fields["quantity"])
	if rerr != nil {
		return nil, rerr
	}

	return &models.Transaction{
		TransactionID: transactionID,
		Timestamp:     timestamp,
		Amount:        amount,
		Currency:      code,
		CustomerID:    customerID,
		ProductID:     productID,
		Quantity:      quantity,
	}, nil
}

func validateUUID(value, field string) (uuid.UUID, *RowError) {
	if value == "" {
		return uuid.Nil, fieldErr(field, value, "%s is required", field)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fieldErr(field, value, "Invalid UUID format for %s: %s", field, value)
	}
	return id, nil
}

// validateTimestamp accepts strict ISO 8601 with a Z or numeric offset
// suffix and optional fractional seconds. Space-separated and other
// non-ISO date forms are rejected.
func validateTimestamp(value string) (time.Time, *RowError) {
	if value == "" {
		return time.Time{}, fieldErr("timestamp", value, "timestamp is required")
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fieldErr("timestamp", value, "Invalid timestamp format: %s", value)
	}
	return ts, nil
}

func validateAmount(value string) (decimal.Decimal, *RowError) {
	if value == "" {
		return decimal.Decimal{}, fieldErr("amount", value, "amount is required")
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fieldErr("amount", value, "Invalid amount format: %s", value)
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, fieldErr("amount", value, "amount must be positive: %s", value)
	}
	return amount, nil
}

func validateCurrency(value string) (currency.Code, *RowError) {
	if value == "" {
		return "", fieldErr("currency", value, "currency is required")
	}
	code, err := currency.Parse(value)
	if err != nil {
		return "", fieldErr("currency", value, "Invalid currency: %s. Must be one of %v", value, currency.Supported())
	}
	return code, nil
}

// validateQuantity requires an integer string; fractional strings such as
// "1.5" are format errors, not coerced.
func validateQuantity(value string) (int, *RowError) {
	if value == "" {
		return 0, fieldErr("quantity", value, "quantity is required")
	}
	quantity, err := strconv.Atoi(value)
	if err != nil {
		return 0, fieldErr("quantity", value, "Invalid quantity format: %s", value)
	}
	if quantity <= 0 {
		return 0, fieldErr("quantity", value, "quantity must be positive: %d", quantity)
	}
	return quantity, nil
}
