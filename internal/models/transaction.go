package models

import "time"

// Transaction represents a classified buy/sell of the monitored token by a
// tracked wallet. Rows are written once by the monitor and never updated;
// inserts conflict-on-signature as a no-op.
type Transaction struct {
	Signature       string    `json:"signature" gorm:"type:varchar(100);primaryKey"`
	Timestamp       time.Time `json:"timestamp" gorm:"index"`
	WalletAddress   string    `json:"wallet_address" gorm:"type:varchar(100);index"`
	TransactionType string    `json:"transaction_type" gorm:"type:varchar(10)"`
	Protocol        string    `json:"protocol" gorm:"type:varchar(50)"`
	TokenAmount     float64   `json:"token_amount"`
	QuoteAmount     float64   `json:"quote_amount"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
