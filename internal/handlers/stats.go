package handlers

import (
	"net/http"

	"tokenwise/internal/models"

	"github.com/gin-gonic/gin"
)

// RepeatedActivityWallet is a wallet with more than one recorded transaction.
type RepeatedActivityWallet struct {
	WalletAddress string `json:"wallet_address"`
	ActivityCount int64  `json:"activity_count"`
}

// StatsResponse aggregates the monitor's stored transactions.
type StatsResponse struct {
	TotalBuys               int64                    `json:"total_buys"`
	TotalSells              int64                    `json:"total_sells"`
	ProtocolBreakdown       map[string]int64         `json:"protocol_breakdown"`
	RepeatedActivityWallets []RepeatedActivityWallet `json:"repeated_activity_wallets"`
}

// GetStats returns buy/sell totals, the per-protocol breakdown and wallets
// with repeated activity.
func (h *Handler) GetStats(c *gin.Context) {
	var stats StatsResponse

	if err := h.db.Model(&models.Transaction{}).
		Where("transaction_type = ?", "buy").Count(&stats.TotalBuys).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	if err := h.db.Model(&models.Transaction{}).
		Where("transaction_type = ?", "sell").Count(&stats.TotalSells).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	var protocolRows []struct {
		Protocol string
		TxCount  int64
	}
	if err := h.db.Model(&models.Transaction{}).
		Select("protocol, COUNT(*) as tx_count").
		Group("protocol").
		Order("tx_count DESC").
		Scan(&protocolRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	stats.ProtocolBreakdown = make(map[string]int64, len(protocolRows))
	for _, row := range protocolRows {
		stats.ProtocolBreakdown[row.Protocol] = row.TxCount
	}

	wallets, err := h.repeatedActivity(0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	stats.RepeatedActivityWallets = wallets

	c.JSON(http.StatusOK, stats)
}

// GetRepeatedActivity returns the top wallets by recorded transaction count.
func (h *Handler) GetRepeatedActivity(c *gin.Context) {
	wallets, err := h.repeatedActivity(20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch repeated activity wallets"})
		return
	}
	c.JSON(http.StatusOK, wallets)
}

func (h *Handler) repeatedActivity(limit int) ([]RepeatedActivityWallet, error) {
	query := h.db.Model(&models.Transaction{}).
		Select("wallet_address, COUNT(*) as activity_count").
		Group("wallet_address").
		Having("COUNT(*) > 1").
		Order("activity_count DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	wallets := make([]RepeatedActivityWallet, 0)
	if err := query.Scan(&wallets).Error; err != nil {
		return nil, err
	}
	return wallets, nil
}

// ListTopHolders returns the seeded holder set in rank order.
func (h *Handler) ListTopHolders(c *gin.Context) {
	var holders []models.TopHolder
	if err := h.db.Order("holder_rank").Find(&holders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top holders"})
		return
	}
	c.JSON(http.StatusOK, holders)
}
