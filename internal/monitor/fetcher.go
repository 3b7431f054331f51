package monitor

import (
	"context"
	"sync"

	"tokenwise/pkg/solana"

	"github.com/sirupsen/logrus"
)

// ChainRPC is the chain surface the monitor consumes. Implemented by
// pkg/solana.Client; tests substitute fakes.
type ChainRPC interface {
	SignaturesForWallet(ctx context.Context, wallet string, until string, limit int) ([]solana.SignatureInfo, error)
	ParsedTransaction(ctx context.Context, signature string) (*solana.ParsedTransaction, error)
}

// Per-tier fetch page sizes.
var tierFetchLimit = map[ActivityLevel]int{
	ActivityActive:   50,
	ActivityModerate: 25,
	ActivityInactive: 10,
}

// Per-tier rate limiter priorities for the signature fetch itself.
var tierSubmitPriority = map[ActivityLevel]int{
	ActivityActive:   3,
	ActivityModerate: 2,
	ActivityInactive: 1,
}

// Per-tier base priority for the discovered signatures. The newest signature
// in a batch ranks highest: base + batch size.
var tierBasePriority = map[ActivityLevel]int{
	ActivityActive:   100,
	ActivityModerate: 50,
	ActivityInactive: 10,
}

// SignatureFetcher polls one wallet for signatures newer than the last seen
// one and feeds the queue. RPC failures are logged and isolated per wallet.
type SignatureFetcher struct {
	limiter *RateLimiter
	chain   ChainRPC
	tracker *ActivityTracker
	queue   *SignatureQueue

	mu             sync.Mutex
	lastSignatures map[string]string
}

// NewSignatureFetcher creates a fetcher.
func NewSignatureFetcher(limiter *RateLimiter, chain ChainRPC, tracker *ActivityTracker, queue *SignatureQueue) *SignatureFetcher {
	return &SignatureFetcher{
		limiter:        limiter,
		chain:          chain,
		tracker:        tracker,
		queue:          queue,
		lastSignatures: make(map[string]string),
	}
}

// Fetch requests new signatures for the wallet and enqueues them. An empty
// result counts toward tier demotion.
func (f *SignatureFetcher) Fetch(ctx context.Context, wallet string, level ActivityLevel) {
	until := f.lastSeen(wallet)
	limit := tierFetchLimit[level]

	result, err := f.limiter.Submit(ctx, tierSubmitPriority[level], func(ctx context.Context) (interface{}, error) {
		return f.chain.SignaturesForWallet(ctx, wallet, until, limit)
	})
	if err != nil {
		logrus.Errorf("Failed to fetch signatures for wallet %s: %v", wallet, err)
		return
	}

	sigs, _ := result.([]solana.SignatureInfo)
	if len(sigs) == 0 {
		if newLevel, demoted := f.tracker.RecordEmptyPoll(wallet); demoted {
			logrus.Infof("Demoted wallet %s to %s due to inactivity", shortAddr(wallet), newLevel)
		}
		return
	}

	base := tierBasePriority[level]
	for i, sig := range sigs {
		f.queue.Add(sig.Signature, base+len(sigs)-i, wallet)
	}

	f.setLastSeen(wallet, sigs[0].Signature)
	f.tracker.RecordBatch(wallet)

	logrus.Infof("Found %d new signature(s) for %s wallet %s, queue size: %d",
		len(sigs), level, shortAddr(wallet), f.queue.Size())
}

func (f *SignatureFetcher) lastSeen(wallet string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSignatures[wallet]
}

func (f *SignatureFetcher) setLastSeen(wallet, signature string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSignatures[wallet] = signature
}

func shortAddr(addr string) string {
	if len(addr) <= 4 {
		return addr
	}
	return addr[:4] + "..."
}
