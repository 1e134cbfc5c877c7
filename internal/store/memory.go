package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"transaction-reporting-backend/internal/models"
)

// MemoryStore is an in-memory TransactionStore and BatchStore. It backs
// deterministic unit tests and keeps the interface honest without a
// database.
type MemoryStore struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]models.Transaction
	batches      map[uuid.UUID]models.UploadBatch
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[uuid.UUID]models.Transaction),
		batches:      make(map[uuid.UUID]models.UploadBatch),
	}
}

func (s *MemoryStore) Create(tx *models.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.transactions[tx.TransactionID]; exists {
		return ErrDuplicateTransaction
	}
	s.transactions[tx.TransactionID] = *tx
	return nil
}

func (s *MemoryStore) GetByID(id uuid.UUID) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &tx, nil
}

func (s *MemoryStore) List(f Filter) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Transaction
	for _, tx := range s.transactions {
		if matches(tx, f) {
			out = append(out, tx)
		}
	}
	// Newest first, matching the persistent store's ordering.
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *MemoryStore) DistinctCustomerIDs(f Filter) ([]uuid.UUID, error) {
	return s.distinct(f, func(tx models.Transaction) uuid.UUID { return tx.CustomerID })
}

func (s *MemoryStore) DistinctProductIDs(f Filter) ([]uuid.UUID, error) {
	return s.distinct(f, func(tx models.Transaction) uuid.UUID { return tx.ProductID })
}

func (s *MemoryStore) distinct(f Filter, key func(models.Transaction) uuid.UUID) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, tx := range s.transactions {
		if !matches(tx, f) {
			continue
		}
		id := key(tx)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func matches(tx models.Transaction, f Filter) bool {
	if f.CustomerID != nil && tx.CustomerID != *f.CustomerID {
		return false
	}
	if f.ProductID != nil && tx.ProductID != *f.ProductID {
		return false
	}
	return withinRange(tx.Timestamp, f)
}

func (s *MemoryStore) CreateBatch(b *models.UploadBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[b.ID] = *b
	return nil
}

func (s *MemoryStore) GetBatch(id uuid.UUID) (*models.UploadBatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.batches[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (s *MemoryStore) UpdateBatch(b *models.UploadBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.batches[b.ID]; !ok {
		return ErrNotFound
	}
	s.batches[b.ID] = *b
	return nil
}
