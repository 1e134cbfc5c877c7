package ingestion

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"transaction-reporting-backend/internal/ingest"
	"transaction-reporting-backend/internal/models"
	"transaction-reporting-backend/internal/store"
)

// Service owns the upload batch lifecycle: it records a batch, runs the
// ingestion pipeline out-of-band, and persists the result for polling.
// Processing a batch never rolls back rows that already made it in; on
// failure the caller re-uploads the same file.
type Service struct {
	pipeline *ingest.Pipeline
	batches  store.BatchStore
}

func NewService(pipeline *ingest.Pipeline, batches store.BatchStore) *Service {
	return &Service{pipeline: pipeline, batches: batches}
}

// StartUpload creates a processing batch record and kicks off the pipeline
// in the background. The returned batch carries the ID the client polls.
func (s *Service) StartUpload(filename string, data []byte) (*models.UploadBatch, error) {
	batch := &models.UploadBatch{
		ID:        uuid.New(),
		Filename:  filename,
		Status:    models.BatchProcessing,
		StartedAt: time.Now().UTC(),
	}
	if err := s.batches.CreateBatch(batch); err != nil {
		return nil, err
	}

	go s.run(batch.ID, data)

	return batch, nil
}

// Batch returns the current state of an upload batch.
func (s *Service) Batch(id uuid.UUID) (*models.UploadBatch, error) {
	return s.batches.GetBatch(id)
}

func (s *Service) run(batchID uuid.UUID, data []byte) {
	result, err := s.pipeline.Process(bytes.NewReader(data))

	batch, getErr := s.batches.GetBatch(batchID)
	if getErr != nil {
		logrus.WithField("batch_id", batchID).WithError(getErr).Error("upload batch disappeared mid-processing")
		return
	}

	now := time.Now().UTC()
	batch.CompletedAt = &now

	if err != nil {
		// Structural failure: no rows were processed.
		batch.Status = models.BatchFailed
		batch.FailureReason = err.Error()
		logrus.WithFields(logrus.Fields{
			"batch_id": batchID,
			"filename": batch.Filename,
		}).WithError(err).Warn("CSV upload rejected")
	} else {
		batch.Status = models.BatchCompleted
		batch.TotalRows = result.TotalRows
		batch.SuccessfulTransactions = result.SuccessfulTransactions
		batch.FailedRows = result.FailedRows
		if errJSON, jerr := json.Marshal(result.Errors); jerr == nil {
			batch.Errors = datatypes.JSON(errJSON)
		}
		logrus.WithFields(logrus.Fields{
			"batch_id":    batchID,
			"filename":    batch.Filename,
			"total_rows":  result.TotalRows,
			"successful":  result.SuccessfulTransactions,
			"failed_rows": result.FailedRows,
		}).Info("CSV upload completed")
	}

	if err := s.batches.UpdateBatch(batch); err != nil {
		logrus.WithField("batch_id", batchID).WithError(err).Error("failed to persist upload batch result")
	}
}
