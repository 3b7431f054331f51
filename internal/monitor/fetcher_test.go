package monitor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tokenwise/pkg/solana"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureFetcher(t *testing.T) {
	ctx := context.Background()

	t.Run("Enqueues Batch Newest First", func(t *testing.T) {
		chain := &fakeChain{signatures: []solana.SignatureInfo{
			{Signature: "newest"},
			{Signature: "middle"},
			{Signature: "oldest"},
		}}
		tracker := newTestTracker(t, testWallet)
		queue := NewSignatureQueue()
		fetcher := NewSignatureFetcher(startLimiter(t), chain, tracker, queue)

		fetcher.Fetch(ctx, testWallet, ActivityActive)

		require.Equal(t, 3, queue.Size())

		item, _ := queue.Next()
		assert.Equal(t, "newest", item.Signature)
		assert.Equal(t, 103, item.Priority)

		item, _ = queue.Next()
		assert.Equal(t, "middle", item.Signature)
		assert.Equal(t, 102, item.Priority)

		item, _ = queue.Next()
		assert.Equal(t, "oldest", item.Signature)
		assert.Equal(t, 101, item.Priority)
	})

	t.Run("Advances Cursor To Newest Signature", func(t *testing.T) {
		chain := &fakeChain{signatures: []solana.SignatureInfo{
			{Signature: "s2"},
			{Signature: "s1"},
		}}
		tracker := newTestTracker(t, testWallet)
		fetcher := NewSignatureFetcher(startLimiter(t), chain, tracker, NewSignatureQueue())

		fetcher.Fetch(ctx, testWallet, ActivityActive)
		fetcher.Fetch(ctx, testWallet, ActivityActive)

		require.Len(t, chain.untilSeen, 2)
		assert.Equal(t, "", chain.untilSeen[0], "first poll has no cursor")
		assert.Equal(t, "s2", chain.untilSeen[1], "second poll stops at the newest seen signature")
	})

	t.Run("Tier Controls Page Size", func(t *testing.T) {
		var sigs []solana.SignatureInfo
		for i := 0; i < 12; i++ {
			sigs = append(sigs, solana.SignatureInfo{Signature: fmt.Sprintf("sig%d", i)})
		}
		chain := &fakeChain{signatures: sigs}
		tracker := newTestTracker(t, testWallet)
		queue := NewSignatureQueue()
		fetcher := NewSignatureFetcher(startLimiter(t), chain, tracker, queue)

		fetcher.Fetch(ctx, testWallet, ActivityInactive)

		// Inactive wallets fetch at most 10 per poll.
		assert.Equal(t, 10, queue.Size())
	})

	t.Run("Empty Polls Feed The Demotion Streak", func(t *testing.T) {
		chain := &fakeChain{}
		store := &fakeActivityStore{
			hourCounts:    map[string]int64{testWallet: 9},
			sixHourCounts: map[string]int64{testWallet: 9},
		}
		tracker := NewActivityTracker(store, 5, 1)
		require.NoError(t, tracker.Initialize([]string{testWallet}))
		fetcher := NewSignatureFetcher(startLimiter(t), chain, tracker, NewSignatureQueue())

		for i := 0; i < 5; i++ {
			fetcher.Fetch(ctx, testWallet, ActivityActive)
		}

		level, ok := tracker.Level(testWallet)
		require.True(t, ok)
		assert.Equal(t, ActivityModerate, level)
	})

	t.Run("RPC Failure Changes Nothing", func(t *testing.T) {
		chain := &fakeChain{sigErr: errors.New("rpc down")}
		store := &fakeActivityStore{
			hourCounts:    map[string]int64{testWallet: 9},
			sixHourCounts: map[string]int64{testWallet: 9},
		}
		tracker := NewActivityTracker(store, 5, 1)
		require.NoError(t, tracker.Initialize([]string{testWallet}))
		queue := NewSignatureQueue()
		fetcher := NewSignatureFetcher(startLimiter(t), chain, tracker, queue)

		for i := 0; i < 10; i++ {
			fetcher.Fetch(ctx, testWallet, ActivityActive)
		}

		assert.Equal(t, 0, queue.Size())
		level, _ := tracker.Level(testWallet)
		assert.Equal(t, ActivityActive, level, "errors are not empty polls")
	})
}
