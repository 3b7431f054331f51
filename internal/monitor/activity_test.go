package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeActivityStore serves canned per-window transaction counts.
type fakeActivityStore struct {
	hourCounts    map[string]int64
	sixHourCounts map[string]int64
}

func (f *fakeActivityStore) CountTransactionsSince(walletAddress string, since time.Time) (int64, error) {
	if time.Since(since) < 2*time.Hour {
		return f.hourCounts[walletAddress], nil
	}
	return f.sixHourCounts[walletAddress], nil
}

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		name         string
		hourCount    int64
		sixHourCount int64
		want         ActivityLevel
	}{
		{"active at threshold", 5, 5, ActivityActive},
		{"active above threshold", 12, 12, ActivityActive},
		{"moderate with recent six hour activity", 0, 2, ActivityModerate},
		{"moderate at threshold", 0, 1, ActivityModerate},
		{"inactive with no activity", 0, 0, ActivityInactive},
		{"hour count below active stays on six hour window", 4, 4, ActivityModerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyTier(tt.hourCount, tt.sixHourCount, 5, 1))
		})
	}
}

func TestActivityTracker(t *testing.T) {
	t.Run("Initialize Seeds And Reclassifies", func(t *testing.T) {
		store := &fakeActivityStore{
			hourCounts:    map[string]int64{"hot": 7},
			sixHourCounts: map[string]int64{"hot": 7, "warm": 2},
		}
		tracker := NewActivityTracker(store, 5, 1)

		require.NoError(t, tracker.Initialize([]string{"hot", "warm", "cold"}))

		level, ok := tracker.Level("hot")
		require.True(t, ok)
		assert.Equal(t, ActivityActive, level)

		level, _ = tracker.Level("warm")
		assert.Equal(t, ActivityModerate, level)

		level, _ = tracker.Level("cold")
		assert.Equal(t, ActivityInactive, level)

		assert.True(t, tracker.Tracked("cold"))
		assert.False(t, tracker.Tracked("stranger"))
	})

	t.Run("Empty Polls Demote Down The Ladder", func(t *testing.T) {
		store := &fakeActivityStore{
			hourCounts:    map[string]int64{"w": 9},
			sixHourCounts: map[string]int64{"w": 9},
		}
		tracker := NewActivityTracker(store, 5, 1)
		require.NoError(t, tracker.Initialize([]string{"w"}))

		// 5 consecutive empty polls: active drops to moderate.
		var demoted bool
		var level ActivityLevel
		for i := 0; i < 5; i++ {
			level, demoted = tracker.RecordEmptyPoll("w")
		}
		assert.True(t, demoted)
		assert.Equal(t, ActivityModerate, level)

		// 10 consecutive empty polls: moderate drops to inactive.
		for i := 5; i < 10; i++ {
			level, demoted = tracker.RecordEmptyPoll("w")
		}
		assert.True(t, demoted)
		assert.Equal(t, ActivityInactive, level)

		// Inactive wallets are not demoted further, and no amount of
		// empty polls promotes.
		for i := 0; i < 50; i++ {
			level, demoted = tracker.RecordEmptyPoll("w")
			assert.False(t, demoted)
			assert.Equal(t, ActivityInactive, level)
		}
	})

	t.Run("Non Empty Batch Resets The Streak", func(t *testing.T) {
		store := &fakeActivityStore{
			hourCounts:    map[string]int64{"w": 9},
			sixHourCounts: map[string]int64{"w": 9},
		}
		tracker := NewActivityTracker(store, 5, 1)
		require.NoError(t, tracker.Initialize([]string{"w"}))

		for i := 0; i < 4; i++ {
			tracker.RecordEmptyPoll("w")
		}
		tracker.RecordBatch("w")
		level, demoted := tracker.RecordEmptyPoll("w")
		assert.False(t, demoted)
		assert.Equal(t, ActivityActive, level)
	})

	t.Run("Due Respects Tier Intervals", func(t *testing.T) {
		store := &fakeActivityStore{
			hourCounts:    map[string]int64{"active": 9},
			sixHourCounts: map[string]int64{"active": 9, "moderate": 2},
		}
		tracker := NewActivityTracker(store, 5, 1)
		require.NoError(t, tracker.Initialize([]string{"active", "moderate", "inactive"}))

		intervals := PollIntervals{
			Active:   30 * time.Second,
			Moderate: 2 * time.Minute,
			Inactive: 10 * time.Minute,
		}

		// Never polled: everything is due.
		assert.Len(t, tracker.Due(intervals), 3)

		// Freshly polled wallets are not due.
		tracker.RecordBatch("active")
		tracker.RecordEmptyPoll("moderate")
		tracker.RecordEmptyPoll("inactive")
		assert.Empty(t, tracker.Due(intervals))

		// Make the active wallet stale past its interval only.
		now := time.Now()
		tracker.now = func() time.Time { return now.Add(45 * time.Second) }
		due := tracker.Due(intervals)
		require.Len(t, due, 1)
		assert.Equal(t, "active", due[0].Address)
		assert.Equal(t, ActivityActive, due[0].Level)
	})

	t.Run("Distribution Counts Levels", func(t *testing.T) {
		store := &fakeActivityStore{
			hourCounts:    map[string]int64{},
			sixHourCounts: map[string]int64{"m1": 1, "m2": 3},
		}
		tracker := NewActivityTracker(store, 5, 1)
		require.NoError(t, tracker.Initialize([]string{"m1", "m2", "i1"}))

		dist := tracker.Distribution()
		assert.Equal(t, 2, dist[ActivityModerate])
		assert.Equal(t, 1, dist[ActivityInactive])
		assert.Equal(t, 0, dist[ActivityActive])
	})
}
