package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tokenwise/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves the read-only query API over the monitor's tables.
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a handler over an open database handle.
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// rangeQuery applies the optional startDate/endDate filter (YYYY-MM-DD,
// endDate inclusive).
func (h *Handler) rangeQuery(c *gin.Context) (*gorm.DB, error) {
	query := h.db.Model(&models.Transaction{})

	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" || endDate == "" {
		return query, nil
	}

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %v", err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate: %v", err)
	}

	return query.Where("timestamp BETWEEN ? AND ?", start, end.AddDate(0, 0, 1)), nil
}

// ListTransactions returns stored transactions, newest first, optionally
// filtered by date range.
func (h *Handler) ListTransactions(c *gin.Context) {
	query, err := h.rangeQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var transactions []models.Transaction
	if err := query.Order("timestamp DESC").Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// ExportTransactions streams the filtered transactions as a CSV or JSON
// attachment.
func (h *Handler) ExportTransactions(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Invalid format. Must be either "csv" or "json".`})
		return
	}

	query, err := h.rangeQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var transactions []models.Transaction
	if err := query.Order("timestamp DESC").Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export data"})
		return
	}
	if len(transactions) == 0 {
		c.String(http.StatusNotFound, "No data found for the selected range.")
		return
	}

	if format == "json" {
		c.Header("Content-Disposition", `attachment; filename="tokenwise_export.json"`)
		c.JSON(http.StatusOK, transactions)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="tokenwise_export.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"signature", "timestamp", "wallet_address", "transaction_type", "protocol", "token_amount", "quote_amount"})
	for _, tx := range transactions {
		_ = w.Write([]string{
			tx.Signature,
			tx.Timestamp.Format(time.RFC3339),
			tx.WalletAddress,
			tx.TransactionType,
			tx.Protocol,
			strconv.FormatFloat(tx.TokenAmount, 'f', -1, 64),
			strconv.FormatFloat(tx.QuoteAmount, 'f', -1, 64),
		})
	}
	w.Flush()
}
