package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UploadBatch statuses.
const (
	BatchProcessing = "processing"
	BatchCompleted  = "completed"
	BatchFailed     = "failed"
)

// UploadBatch tracks one CSV upload processed out-of-band. The ingestion
// result (counts plus the ordered row error list) is persisted here so the
// client can poll for it after the 202 response.
type UploadBatch struct {
	ID                     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"batch_id"`
	Filename               string         `json:"filename"`
	Status                 string         `gorm:"index" json:"status"`
	TotalRows              int            `json:"total_rows"`
	SuccessfulTransactions int            `json:"successful_transactions"`
	FailedRows             int            `json:"failed_rows"`
	Errors                 datatypes.JSON `json:"errors,omitempty"`
	FailureReason          string         `json:"failure_reason,omitempty"`
	StartedAt              time.Time      `json:"started_at"`
	CompletedAt            *time.Time     `json:"completed_at,omitempty"`
	CreatedAt              time.Time      `json:"created_at"`
}

func (UploadBatch) TableName() string {
	return "upload_batches"
}
