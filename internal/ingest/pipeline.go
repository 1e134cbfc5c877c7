package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"transaction-reporting-backend/internal/store"
)

var (
	// ErrMissingColumns aborts a batch before any row is processed.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrEmptyFile aborts a batch with no header or no data rows.
	ErrEmptyFile = errors.New("empty CSV file")
)

// Result is the outcome of processing one upload. Errors are ordered by
// input row and prefixed with the 1-based row number.
type Result struct {
	TotalRows              int         `json:"total_rows"`
	SuccessfulTransactions int         `json:"successful_transactions"`
	FailedRows             int         `json:"failed_rows"`
	Errors                 []string    `json:"errors"`
	CreatedTransactions    []uuid.UUID `json:"created_transactions"`
}

// Pipeline drives row validation over a CSV batch and persists each valid
// row immediately. Rows are independent: a row failure never aborts the
// batch and successes are never rolled back.
type Pipeline struct {
	store store.TransactionStore
}

func NewPipeline(st store.TransactionStore) *Pipeline {
	return &Pipeline{store: st}
}

// Process reads a CSV batch and returns its ingestion result. Structural
// failures (missing columns, empty input) return an error and leave the
// store untouched; everything row-scoped lands in Result.Errors.
func (p *Pipeline) Process(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Errors:              []string{},
		CreatedTransactions: []uuid.UUID{},
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		result.TotalRows++
		row := result.TotalRows

		if err != nil {
			p.recordError(result, row, fmt.Sprintf("malformed CSV row: %v", err))
			continue
		}

		tx, rerr := ValidateRow(rowFields(record, columns))
		if rerr != nil {
			p.recordError(result, row, rerr.Message)
			continue
		}

		if err := p.store.Create(tx); err != nil {
			if errors.Is(err, store.ErrDuplicateTransaction) {
				p.recordError(result, row, fmt.Sprintf("duplicate transaction_id: %s", tx.TransactionID))
			} else {
				p.recordError(result, row, err.Error())
			}
			continue
		}

		result.SuccessfulTransactions++
		result.CreatedTransactions = append(result.CreatedTransactions, tx.TransactionID)
	}

	if result.TotalRows == 0 {
		return nil, ErrEmptyFile
	}

	logrus.WithFields(logrus.Fields{
		"total_rows":  result.TotalRows,
		"successful":  result.SuccessfulTransactions,
		"failed_rows": result.FailedRows,
	}).Info("CSV batch processed")

	return result, nil
}

func (p *Pipeline) recordError(result *Result, row int, message string) {
	msg := fmt.Sprintf("Row %d: %s", row, message)
	result.FailedRows++
	result.Errors = append(result.Errors, msg)
	logrus.Warn(msg)
}

// indexColumns maps required column names to their header positions.
// Extra columns are ignored; any missing required column is batch-fatal.
func indexColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	columns := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, name := range RequiredColumns {
		idx, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		columns[name] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return columns, nil
}

func rowFields(record []string, columns map[string]int) map[string]string {
	fields := make(map[string]string, len(columns))
	for name, idx := range columns {
		if idx < len(record) {
			fields[name] = strings.TrimSpace(record[idx])
		} else {
			fields[name] = ""
		}
	}
	return fields
}
