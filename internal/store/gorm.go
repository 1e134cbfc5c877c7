package store

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transaction-reporting-backend/internal/models"
)

// GormStore is the Postgres-backed TransactionStore and BatchStore.
// Requires the DB to be opened with TranslateError enabled so unique
// violations surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(tx *models.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := s.db.Create(tx).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTransaction
		}
		return err
	}
	return nil
}

func (s *GormStore) GetByID(id uuid.UUID) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.First(&tx, "transaction_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (s *GormStore) List(f Filter) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.filtered(f).Order("timestamp DESC").Find(&txs).Error
	return txs, err
}

func (s *GormStore) DistinctCustomerIDs(f Filter) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.filtered(f).Distinct("customer_id").Order("customer_id ASC").Pluck("customer_id", &ids).Error
	return ids, err
}

func (s *GormStore) DistinctProductIDs(f Filter) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.filtered(f).Distinct("product_id").Order("product_id ASC").Pluck("product_id", &ids).Error
	return ids, err
}

func (s *GormStore) filtered(f Filter) *gorm.DB {
	query := s.db.Model(&models.Transaction{})
	if f.CustomerID != nil {
		query = query.Where("customer_id = ?", *f.CustomerID)
	}
	if f.ProductID != nil {
		query = query.Where("product_id = ?", *f.ProductID)
	}
	// Inclusive date bounds on the date component of timestamp.
	if f.StartDate != nil {
		query = query.Where("timestamp >= ?", dayStart(*f.StartDate))
	}
	if f.EndDate != nil {
		query = query.Where("timestamp < ?", dayStart(*f.EndDate).AddDate(0, 0, 1))
	}
	return query
}

func (s *GormStore) CreateBatch(b *models.UploadBatch) error {
	return s.db.Create(b).Error
}

func (s *GormStore) GetBatch(id uuid.UUID) (*models.UploadBatch, error) {
	var batch models.UploadBatch
	if err := s.db.First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

func (s *GormStore) UpdateBatch(b *models.UploadBatch) error {
	return s.db.Save(b).Error
}
