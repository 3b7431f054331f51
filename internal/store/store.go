package store

import (
	"fmt"
	"time"

	"tokenwise/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the gorm-backed persistence used by the monitor core.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// HolderAddresses returns every wallet address seeded by the discovery job.
func (s *Store) HolderAddresses() ([]string, error) {
	var addresses []string
	if err := s.db.Model(&models.TopHolder{}).
		Order("holder_rank").
		Pluck("wallet_address", &addresses).Error; err != nil {
		return nil, fmt.Errorf("error loading holder addresses: %w", err)
	}
	return addresses, nil
}

// CountTransactionsSince counts stored transactions for a wallet after the
// given instant.
func (s *Store) CountTransactionsSince(walletAddress string, since time.Time) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Transaction{}).
		Where("wallet_address = ? AND timestamp > ?", walletAddress, since).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting transactions: %w", err)
	}
	return count, nil
}

// InsertTransaction stores a classified transaction. A conflicting signature
// is a no-op: redundant delivery is expected, the first row wins.
func (s *Store) InsertTransaction(tx *models.Transaction) error {
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "signature"}},
		DoNothing: true,
	}).Create(tx).Error; err != nil {
		return fmt.Errorf("error inserting transaction: %w", err)
	}
	return nil
}

// UpsertTopHolder stores or refreshes one holder snapshot.
func (s *Store) UpsertTopHolder(holder *models.TopHolder) error {
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet_address"}},
		DoUpdates: clause.AssignmentColumns([]string{"token_balance", "last_updated", "holder_rank"}),
	}).Create(holder).Error; err != nil {
		return fmt.Errorf("error upserting top holder: %w", err)
	}
	return nil
}

// ClearTopHolders removes every holder snapshot before a fresh discovery run.
func (s *Store) ClearTopHolders() error {
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.TopHolder{}).Error; err != nil {
		return fmt.Errorf("error clearing top holders: %w", err)
	}
	return nil
}
