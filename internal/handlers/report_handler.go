package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"transaction-reporting-backend/internal/reports"
)

type ReportHandler struct {
	reports *reports.Service
}

func NewReportHandler(svc *reports.Service) *ReportHandler {
	return &ReportHandler{reports: svc}
}

// CustomerSummary serves GET /api/reports/customer-summary/:customerId.
func (h *ReportHandler) CustomerSummary(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer ID"})
		return
	}

	dr, ok := parseDateRange(c)
	if !ok {
		return
	}

	summary, err := h.reports.CustomerSummary(customerID, dr)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if summary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no transactions found for customer " + customerID.String()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ProductSummary serves GET /api/reports/product-summary/:productId.
func (h *ReportHandler) ProductSummary(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	dr, ok := parseDateRange(c)
	if !ok {
		return
	}

	summary, err := h.reports.ProductSummary(productID, dr)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if summary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no transactions found for product " + productID.String()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// TopCustomers serves GET /api/reports/top-customers.
func (h *ReportHandler) TopCustomers(c *gin.Context) {
	dr, ok := parseDateRange(c)
	if !ok {
		return
	}

	top, err := h.reports.TopCustomers(parseLimit(c), dr)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(top), "results": top})
}

// TopProducts serves GET /api/reports/top-products.
func (h *ReportHandler) TopProducts(c *gin.Context) {
	dr, ok := parseDateRange(c)
	if !ok {
		return
	}

	top, err := h.reports.TopProducts(parseLimit(c), dr)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(top), "results": top})
}

func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(reports.DefaultLimit)))
	if err != nil {
		return reports.DefaultLimit
	}
	return limit
}

// parseDateRange reads optional start_date/end_date query params
// (YYYY-MM-DD). Writes a 400 response and returns ok=false on bad input.
func parseDateRange(c *gin.Context) (reports.DateRange, bool) {
	var dr reports.DateRange
	for param, target := range map[string]**time.Time{
		"start_date": &dr.Start,
		"end_date":   &dr.End,
	} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param + ", expected YYYY-MM-DD"})
			return reports.DateRange{}, false
		}
		*target = &parsed
	}
	return dr, true
}
