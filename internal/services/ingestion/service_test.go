package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transaction-reporting-backend/internal/ingest"
	"transaction-reporting-backend/internal/models"
	"transaction-reporting-backend/internal/store"
)

const validCSV = "transaction_id,timestamp,amount,currency,customer_id,product_id,quantity\n" +
	"f47ac10b-58cc-4372-a567-0e02b2c3d479,2024-01-15T10:30:00Z,99.99,PLN,550e8400-e29b-41d4-a716-446655440001,6ba7b810-9dad-11d1-80b4-00c04fd430c8,2\n" +
	"invalid-uuid,2024-01-15T10:30:00Z,99.99,PLN,550e8400-e29b-41d4-a716-446655440001,6ba7b810-9dad-11d1-80b4-00c04fd430c8,2\n"

func newService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewService(ingest.NewPipeline(st), st), st
}

func waitForBatch(t *testing.T, svc *Service, batch *models.UploadBatch) {
	t.Helper()
	require.Eventually(t, func() bool {
		got, err := svc.Batch(batch.ID)
		if err != nil || got.Status == models.BatchProcessing {
			return false
		}
		*batch = *got
		return true
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartUploadProcessesInBackground(t *testing.T) {
	svc, st := newService(t)

	batch, err := svc.StartUpload("transactions.csv", []byte(validCSV))
	require.NoError(t, err)
	assert.Equal(t, models.BatchProcessing, batch.Status)

	waitForBatch(t, svc, batch)

	assert.Equal(t, models.BatchCompleted, batch.Status)
	assert.Equal(t, 2, batch.TotalRows)
	assert.Equal(t, 1, batch.SuccessfulTransactions)
	assert.Equal(t, 1, batch.FailedRows)
	require.NotNil(t, batch.CompletedAt)

	var errs []string
	require.NoError(t, json.Unmarshal(batch.Errors, &errs))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Row 2:")

	txs, err := st.List(store.Filter{})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestStartUploadStructuralFailure(t *testing.T) {
	svc, st := newService(t)

	batch, err := svc.StartUpload("broken.csv", []byte("transaction_id,amount\nabc,1\n"))
	require.NoError(t, err)

	waitForBatch(t, svc, batch)

	assert.Equal(t, models.BatchFailed, batch.Status)
	assert.Contains(t, batch.FailureReason, "missing required columns")
	assert.Equal(t, 0, batch.TotalRows)

	txs, err := st.List(store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, txs, "no rows persisted on structural failure")
}

func TestStartUploadEmptyFile(t *testing.T) {
	svc, _ := newService(t)

	batch, err := svc.StartUpload("empty.csv", nil)
	require.NoError(t, err)

	waitForBatch(t, svc, batch)

	assert.Equal(t, models.BatchFailed, batch.Status)
	assert.Contains(t, batch.FailureReason, "empty CSV file")
}

func TestBatchNotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Batch(uuid.Nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
