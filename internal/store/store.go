package store

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"transaction-reporting-backend/internal/models"
)

var (
	// ErrDuplicateTransaction signals a transaction_id collision on create.
	ErrDuplicateTransaction = errors.New("duplicate transaction_id")
	// ErrNotFound signals that no record matched a lookup.
	ErrNotFound = errors.New("record not found")
)

// Filter narrows a transaction query. Date bounds are inclusive and compared
// on the date component of the transaction timestamp (UTC).
type Filter struct {
	CustomerID *uuid.UUID
	ProductID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// TransactionStore is the persistence collaborator for the ingestion
// pipeline and the aggregation engine. Implementations must enforce
// transaction_id uniqueness atomically and be safe for concurrent use.
type TransactionStore interface {
	Create(tx *models.Transaction) error
	GetByID(id uuid.UUID) (*models.Transaction, error)
	List(f Filter) ([]models.Transaction, error)
	DistinctCustomerIDs(f Filter) ([]uuid.UUID, error)
	DistinctProductIDs(f Filter) ([]uuid.UUID, error)
}

// BatchStore persists upload batch records for the async upload flow.
type BatchStore interface {
	CreateBatch(b *models.UploadBatch) error
	GetBatch(id uuid.UUID) (*models.UploadBatch, error)
	UpdateBatch(b *models.UploadBatch) error
}

// dayStart truncates t to midnight UTC of its date component.
func dayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// withinRange reports whether the timestamp's date component falls inside
// the filter's inclusive date bounds.
func withinRange(ts time.Time, f Filter) bool {
	day := dayStart(ts)
	if f.StartDate != nil && day.Before(dayStart(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && !day.Before(dayStart(*f.EndDate).AddDate(0, 0, 1)) {
		return false
	}
	return true
}
