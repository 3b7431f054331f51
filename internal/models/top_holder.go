package models

import "time"

// TopHolder represents a snapshot of a wallet's balance and rank in the
// monitored token. Written by the discovery job; the monitor reads it only to
// seed the set of tracked wallets.
type TopHolder struct {
	WalletAddress string    `json:"wallet_address" gorm:"type:varchar(100);primaryKey"`
	TokenBalance  float64   `json:"token_balance"`
	LastUpdated   time.Time `json:"last_updated" gorm:"autoUpdateTime"`
	HolderRank    int       `json:"holder_rank"`
}

// TableName specifies the table name for TopHolder
func (TopHolder) TableName() string {
	return "top_holders"
}
