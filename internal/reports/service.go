package reports

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"transaction-reporting-backend/internal/currency"
	"transaction-reporting-backend/internal/store"
)

// DefaultLimit and MaxLimit bound top-N report sizes.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// DateRange is an optional inclusive filter on the date component of
// transaction timestamps.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// CustomerSummary aggregates one customer's transactions. SkippedCount is
// the number of rows excluded from the total because their currency could
// not be converted; a nonzero value marks the total as degraded.
type CustomerSummary struct {
	CustomerID          uuid.UUID       `json:"customer_id"`
	TotalSpentPLN       decimal.Decimal `json:"total_spent_pln"`
	UniqueProductsCount int             `json:"unique_products_count"`
	LastTransactionDate time.Time       `json:"last_transaction_date"`
	TotalTransactions   int             `json:"total_transactions"`
	SkippedCount        int             `json:"skipped_count"`
}

// ProductSummary aggregates one product's transactions.
type ProductSummary struct {
	ProductID            uuid.UUID       `json:"product_id"`
	TotalQuantitySold    int64           `json:"total_quantity_sold"`
	TotalRevenuePLN      decimal.Decimal `json:"total_revenue_pln"`
	UniqueCustomersCount int             `json:"unique_customers_count"`
	TotalTransactions    int             `json:"total_transactions"`
	SkippedCount         int             `json:"skipped_count"`
}

// Service is the aggregation engine. Stateless: every call recomputes from
// the current transaction set, so results track new arrivals with no cache
// to invalidate.
type Service struct {
	store     store.TransactionStore
	converter *currency.Converter
}

func NewService(st store.TransactionStore, converter *currency.Converter) *Service {
	return &Service{store: st, converter: converter}
}

// CustomerSummary reports a customer's spend within the optional date
// range. Returns nil with no error when the customer has no matching
// transactions.
func (s *Service) CustomerSummary(customerID uuid.UUID, dr DateRange) (*CustomerSummary, error) {
	txs, err := s.store.List(store.Filter{
		CustomerID: &customerID,
		StartDate:  dr.Start,
		EndDate:    dr.End,
	})
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, nil
	}

	total := decimal.Zero
	skipped := 0
	products := make(map[uuid.UUID]struct{})
	var lastDate time.Time

	for _, tx := range txs {
		converted, err := s.converter.ConvertToBase(tx.Amount, tx.Currency)
		if err != nil {
			skipped++
			logrus.WithFields(logrus.Fields{
				"transaction_id": tx.TransactionID,
				"currency":       tx.Currency,
			}).Warn("skipping unconvertible transaction in customer summary")
		} else {
			total = total.Add(converted)
		}
		products[tx.ProductID] = struct{}{}
		if tx.Timestamp.After(lastDate) {
			lastDate = tx.Timestamp
		}
	}

	return &CustomerSummary{
		CustomerID:          customerID,
		TotalSpentPLN:       total.Round(2),
		UniqueProductsCount: len(products),
		LastTransactionDate: lastDate,
		TotalTransactions:   len(txs),
		SkippedCount:        skipped,
	}, nil
}

// ProductSummary reports a product's revenue (amount × quantity, converted)
// and raw unit count within the optional date range. Returns nil with no
// error when the product has no matching transactions.
func (s *Service) ProductSummary(productID uuid.UUID, dr DateRange) (*ProductSummary, error) {
	txs, err := s.store.List(store.Filter{
		ProductID: &productID,
		StartDate: dr.Start,
		EndDate:   dr.End,
	})
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, nil
	}

	total := decimal.Zero
	skipped := 0
	var quantity int64
	customers := make(map[uuid.UUID]struct{})

	for _, tx := range txs {
		revenue := tx.Amount.Mul(decimal.NewFromInt(int64(tx.Quantity)))
		converted, err := s.converter.ConvertToBase(revenue, tx.Currency)
		if err != nil {
			skipped++
			logrus.WithFields(logrus.Fields{
				"transaction_id": tx.TransactionID,
				"currency":       tx.Currency,
			}).Warn("skipping unconvertible transaction in product summary")
		} else {
			total = total.Add(converted)
		}
		quantity += int64(tx.Quantity)
		customers[tx.CustomerID] = struct{}{}
	}

	return &ProductSummary{
		ProductID:            productID,
		TotalQuantitySold:    quantity,
		TotalRevenuePLN:      total.Round(2),
		UniqueCustomersCount: len(customers),
		TotalTransactions:    len(txs),
		SkippedCount:         skipped,
	}, nil
}

// TopCustomers ranks customers by converted spend, descending. Ties break
// on customer ID ascending so the order is deterministic.
func (s *Service) TopCustomers(limit int, dr DateRange) ([]CustomerSummary, error) {
	limit = clampLimit(limit)
	ids, err := s.store.DistinctCustomerIDs(store.Filter{StartDate: dr.Start, EndDate: dr.End})
	if err != nil {
		return nil, err
	}

	summaries := make([]CustomerSummary, 0, len(ids))
	for _, id := range ids {
		summary, err := s.CustomerSummary(id, dr)
		if err != nil {
			return nil, err
		}
		if summary != nil {
			summaries = append(summaries, *summary)
		}
	}

	sort.Slice(summaries, func(i, j int) bool {
		cmp := summaries[i].TotalSpentPLN.Cmp(summaries[j].TotalSpentPLN)
		if cmp != 0 {
			return cmp > 0
		}
		return lessUUID(summaries[i].CustomerID, summaries[j].CustomerID)
	})

	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// TopProducts ranks products by converted revenue, descending, with the
// same deterministic tie-break on product ID.
func (s *Service) TopProducts(limit int, dr DateRange) ([]ProductSummary, error) {
	limit = clampLimit(limit)
	ids, err := s.store.DistinctProductIDs(store.Filter{StartDate: dr.Start, EndDate: dr.End})
	if err != nil {
		return nil, err
	}

	summaries := make([]ProductSummary, 0, len(ids))
	for _, id := range ids {
		summary, err := s.ProductSummary(id, dr)
		if err != nil {
			return nil, err
		}
		if summary != nil {
			summaries = append(summaries, *summary)
		}
	}

	sort.Slice(summaries, func(i, j int) bool {
		cmp := summaries[i].TotalRevenuePLN.Cmp(summaries[j].TotalRevenuePLN)
		if cmp != 0 {
			return cmp > 0
		}
		return lessUUID(summaries[i].ProductID, summaries[j].ProductID)
	})

	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func lessUUID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
