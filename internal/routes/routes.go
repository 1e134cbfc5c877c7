package routes

import (
	"github.com/gin-gonic/gin"

	"transaction-reporting-backend/internal/currency"
	"transaction-reporting-backend/internal/handlers"
	"transaction-reporting-backend/internal/ingest"
	"transaction-reporting-backend/internal/reports"
	"transaction-reporting-backend/internal/services/ingestion"
	"transaction-reporting-backend/internal/store"
)

// Stores groups the persistence collaborators the routes need.
type Stores struct {
	Transactions store.TransactionStore
	Batches      store.BatchStore
}

func RegisterRoutes(r *gin.Engine, stores Stores, converter *currency.Converter) {
	pipeline := ingest.NewPipeline(stores.Transactions)
	ingestionService := ingestion.NewService(pipeline, stores.Batches)
	reportService := reports.NewService(stores.Transactions, converter)

	txHandler := handlers.NewTransactionHandler(ingestionService, stores.Transactions)
	reportHandler := handlers.NewReportHandler(reportService)

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	tx := api.Group("/transactions")
	{
		tx.POST("/upload", txHandler.Upload)
		tx.GET("/upload/:batchId", txHandler.BatchStatus)
		tx.POST("", txHandler.Create)
		tx.GET("", txHandler.List)
		tx.GET("/:id", txHandler.Get)
	}

	rep := api.Group("/reports")
	{
		rep.GET("/customer-summary/:customerId", reportHandler.CustomerSummary)
		rep.GET("/product-summary/:productId", reportHandler.ProductSummary)
		rep.GET("/top-customers", reportHandler.TopCustomers)
		rep.GET("/top-products", reportHandler.TopProducts)
	}
}
