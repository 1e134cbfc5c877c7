package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"transaction-reporting-backend/internal/currency"
	"transaction-reporting-backend/internal/models"
	"transaction-reporting-backend/internal/services/ingestion"
	"transaction-reporting-backend/internal/store"
)

type TransactionHandler struct {
	ingestion *ingestion.Service
	store     store.TransactionStore
}

func NewTransactionHandler(svc *ingestion.Service, st store.TransactionStore) *TransactionHandler {
	return &TransactionHandler{ingestion: svc, store: st}
}

// Upload accepts a CSV file, registers a batch, and returns 202 with the
// batch ID while processing continues in the background.
func (h *TransactionHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only CSV files are allowed"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}

	batch, err := h.ingestion.StartUpload(header.Filename, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"batch_id": batch.ID.String(),
		"status":   batch.Status,
	})
}

// BatchStatus reports the state and, once completed, the ingestion result
// of an upload batch.
func (h *TransactionHandler) BatchStatus(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("batchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return
	}

	batch, err := h.ingestion.Batch(batchID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, batch)
}

type createTransactionPayload struct {
	TransactionID *uuid.UUID      `json:"transaction_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Quantity      int             `json:"quantity"`
}

// Create inserts a single transaction. The same model-level validation as
// CSV ingestion applies, so the two entry points cannot diverge.
func (h *TransactionHandler) Create(c *gin.Context) {
	var payload createTransactionPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	code, err := currency.Parse(payload.Currency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid currency: " + payload.Currency})
		return
	}

	transactionID := uuid.New()
	if payload.TransactionID != nil {
		transactionID = *payload.TransactionID
	}

	tx := &models.Transaction{
		TransactionID: transactionID,
		Timestamp:     payload.Timestamp,
		Amount:        payload.Amount,
		Currency:      code,
		CustomerID:    payload.CustomerID,
		ProductID:     payload.ProductID,
		Quantity:      payload.Quantity,
	}

	if err := tx.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Create(tx); err != nil {
		if errors.Is(err, store.ErrDuplicateTransaction) {
			c.JSON(http.StatusConflict, gin.H{"error": "transaction_id already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// List returns transactions, optionally filtered by customer_id and/or
// product_id.
func (h *TransactionHandler) List(c *gin.Context) {
	var filter store.Filter

	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
			return
		}
		filter.CustomerID = &id
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
			return
		}
		filter.ProductID = &id
	}

	txs, err := h.store.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(txs), "results": txs})
}

// Get returns a single transaction by ID.
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}

	tx, err := h.store.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tx)
}
