package main

import (
	"context"
	"time"

	"tokenwise/internal/models"
	"tokenwise/internal/store"
	"tokenwise/pkg/config"
	"tokenwise/pkg/solana"

	"github.com/sirupsen/logrus"
)

const topHoldersLimit = 60

// System accounts that hold supply but are not traders.
var burnAddresses = map[string]bool{
	"11111111111111111111111111111111": true,
	"1111111111111111111111111111111":  true,
}

// One-time job: resolve the largest token accounts of the monitored mint to
// their owner wallets and snapshot them into top_holders. The monitor seeds
// its tracked set from that table.
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		logrus.Fatal("Failed to initialize database: ", err)
	}
	st := store.NewStore(db)

	if err := st.ClearTopHolders(); err != nil {
		logrus.Fatal("Failed to clear existing holders: ", err)
	}
	logrus.Info("Cleared existing holder data")

	chain := solana.NewClient(cfg.RPCEndpoint)
	ctx := context.Background()

	logrus.Infof("Fetching top holders for token: %s", cfg.TokenMint)
	accounts, err := chain.TokenLargestAccounts(ctx, cfg.TokenMint)
	if err != nil {
		logrus.Fatal("Failed to fetch largest token accounts: ", err)
	}
	logrus.Infof("Found %d largest token accounts", len(accounts))

	rank := 0
	for _, account := range accounts {
		if rank >= topHoldersLimit {
			break
		}

		owner, err := chain.TokenAccountOwner(ctx, account.Address)
		if err != nil {
			logrus.Warnf("Skipping account %s: %v", account.Address, err)
			continue
		}

		// Invalid holder data is skipped per-record, never fatal.
		if owner == "" || account.Balance <= 0 || burnAddresses[owner] {
			logrus.Warnf("Skipping invalid holder: owner=%s, balance=%f", owner, account.Balance)
			continue
		}

		rank++
		holder := &models.TopHolder{
			WalletAddress: owner,
			TokenBalance:  account.Balance,
			LastUpdated:   time.Now(),
			HolderRank:    rank,
		}
		if err := st.UpsertTopHolder(holder); err != nil {
			logrus.Errorf("Failed to store holder %d (%s): %v", rank, owner, err)
			rank--
			continue
		}
		logrus.Infof("Stored holder %d: %s with balance %f", rank, owner, account.Balance)

		// Stay polite to the RPC node between account lookups.
		time.Sleep(100 * time.Millisecond)
	}

	logrus.Infof("Successfully discovered and stored %d top holders", rank)
}
