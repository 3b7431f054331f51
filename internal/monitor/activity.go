package monitor

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ActivityLevel classifies how often a wallet trades the monitored token.
// The level controls polling frequency and fetch priority.
type ActivityLevel string

const (
	ActivityActive   ActivityLevel = "active"
	ActivityModerate ActivityLevel = "moderate"
	ActivityInactive ActivityLevel = "inactive"
)

// Demotion thresholds: consecutive empty polls before a wallet drops a tier.
const (
	activeDemoteAfter   = 5
	moderateDemoteAfter = 10
)

// Trailing windows used by reclassification.
const (
	activeWindow   = time.Hour
	moderateWindow = 6 * time.Hour
)

// WalletActivity is the tracker's bookkeeping for one monitored wallet.
type WalletActivity struct {
	Address               string
	ActivityLevel         ActivityLevel
	RecentTransactions    int
	LastActivity          time.Time
	LastPolled            time.Time
	ConsecutiveEmptyPolls int
}

// ActivityStore counts persisted transactions for reclassification.
type ActivityStore interface {
	CountTransactionsSince(walletAddress string, since time.Time) (int64, error)
}

// ActivityTracker owns the wallet activity map. Levels move up only through
// Reclassify and down only through RecordEmptyPoll.
type ActivityTracker struct {
	mu      sync.Mutex
	wallets map[string]*WalletActivity

	store             ActivityStore
	activeThreshold   int
	moderateThreshold int

	now func() time.Time
}

// NewActivityTracker creates a tracker with the given reclassification
// thresholds.
func NewActivityTracker(store ActivityStore, activeThreshold, moderateThreshold int) *ActivityTracker {
	return &ActivityTracker{
		wallets:           make(map[string]*WalletActivity),
		store:             store,
		activeThreshold:   activeThreshold,
		moderateThreshold: moderateThreshold,
		now:               time.Now,
	}
}

// Initialize seeds one inactive record per address, then runs a full
// reclassification pass against stored history.
func (t *ActivityTracker) Initialize(addresses []string) error {
	t.mu.Lock()
	for _, addr := range addresses {
		if _, ok := t.wallets[addr]; ok {
			continue
		}
		t.wallets[addr] = &WalletActivity{
			Address:       addr,
			ActivityLevel: ActivityInactive,
		}
	}
	t.mu.Unlock()

	return t.Reclassify()
}

// Reclassify recomputes every wallet's level from its persisted transaction
// counts. This is the only path that can raise a level.
func (t *ActivityTracker) Reclassify() error {
	now := t.now()
	oneHourAgo := now.Add(-activeWindow)
	sixHoursAgo := now.Add(-moderateWindow)

	for _, addr := range t.Addresses() {
		hourCount, err := t.store.CountTransactionsSince(addr, oneHourAgo)
		if err != nil {
			logrus.Errorf("Error updating activity for wallet %s: %v", addr, err)
			continue
		}

		sixHourCount := hourCount
		if int(hourCount) < t.activeThreshold {
			sixHourCount, err = t.store.CountTransactionsSince(addr, sixHoursAgo)
			if err != nil {
				logrus.Errorf("Error updating activity for wallet %s: %v", addr, err)
				continue
			}
		}

		level := classifyTier(hourCount, sixHourCount, t.activeThreshold, t.moderateThreshold)

		t.mu.Lock()
		if w, ok := t.wallets[addr]; ok {
			w.ActivityLevel = level
			w.RecentTransactions = int(hourCount)
		}
		t.mu.Unlock()
	}

	return nil
}

// classifyTier maps trailing-window transaction counts to a level.
func classifyTier(hourCount, sixHourCount int64, activeThreshold, moderateThreshold int) ActivityLevel {
	if int(hourCount) >= activeThreshold {
		return ActivityActive
	}
	if int(sixHourCount) >= moderateThreshold {
		return ActivityModerate
	}
	return ActivityInactive
}

// Tracked reports whether an address belongs to the monitored set.
func (t *ActivityTracker) Tracked(address string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.wallets[address]
	return ok
}

// Addresses returns the monitored addresses.
func (t *ActivityTracker) Addresses() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.wallets))
	for addr := range t.wallets {
		out = append(out, addr)
	}
	return out
}

// Level returns the wallet's current activity level.
func (t *ActivityTracker) Level(address string) (ActivityLevel, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.wallets[address]
	if !ok {
		return "", false
	}
	return w.ActivityLevel, true
}

// RecordBatch notes a non-empty signature fetch: the wallet was polled just
// now and its empty-poll streak resets.
func (t *ActivityTracker) RecordBatch(address string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w, ok := t.wallets[address]; ok {
		w.LastPolled = t.now()
		w.ConsecutiveEmptyPolls = 0
	}
}

// RecordEmptyPoll notes an empty fetch and demotes the wallet once its streak
// crosses the tier's threshold. Demotion never promotes; inactive wallets
// stay inactive. Returns the (possibly new) level and whether a demotion
// happened.
func (t *ActivityTracker) RecordEmptyPoll(address string) (ActivityLevel, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, ok := t.wallets[address]
	if !ok {
		return "", false
	}

	w.LastPolled = t.now()
	w.ConsecutiveEmptyPolls++

	switch {
	case w.ConsecutiveEmptyPolls >= activeDemoteAfter && w.ActivityLevel == ActivityActive:
		w.ActivityLevel = ActivityModerate
		return w.ActivityLevel, true
	case w.ConsecutiveEmptyPolls >= moderateDemoteAfter && w.ActivityLevel == ActivityModerate:
		w.ActivityLevel = ActivityInactive
		return w.ActivityLevel, true
	}
	return w.ActivityLevel, false
}

// RecordTransaction notes that a stored transaction was attributed to the
// wallet.
func (t *ActivityTracker) RecordTransaction(address string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w, ok := t.wallets[address]; ok {
		w.LastActivity = t.now()
		w.RecentTransactions++
	}
}

// Distribution returns how many wallets sit in each level.
func (t *ActivityTracker) Distribution() map[ActivityLevel]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	dist := make(map[ActivityLevel]int, 3)
	for _, w := range t.wallets {
		dist[w.ActivityLevel]++
	}
	return dist
}

// DueWallet is a wallet the scheduler decided to poll this tick.
type DueWallet struct {
	Address string
	Level   ActivityLevel
}

// Due returns the wallets whose time since last poll meets their tier's
// interval.
func (t *ActivityTracker) Due(intervals PollIntervals) []DueWallet {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var due []DueWallet
	for _, w := range t.wallets {
		if now.Sub(w.LastPolled) >= intervals.forLevel(w.ActivityLevel) {
			due = append(due, DueWallet{Address: w.Address, Level: w.ActivityLevel})
		}
	}
	return due
}
