package monitor

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// PollIntervals is the minimum staleness per tier before a wallet is polled
// again.
type PollIntervals struct {
	Active   time.Duration
	Moderate time.Duration
	Inactive time.Duration
}

func (p PollIntervals) forLevel(level ActivityLevel) time.Duration {
	switch level {
	case ActivityActive:
		return p.Active
	case ActivityModerate:
		return p.Moderate
	default:
		return p.Inactive
	}
}

var tierRank = map[ActivityLevel]int{
	ActivityActive:   3,
	ActivityModerate: 2,
	ActivityInactive: 1,
}

// Scheduler decides on a fixed tick which wallets are due for a signature
// check and hands them to the fetcher, active tiers first. Fetches run
// sequentially: the shared rate limiter serializes the RPC calls anyway, and
// a sequential pass bounds tick latency by due-wallet count times fetch
// latency. A busy tick can push lower tiers past their nominal interval; the
// intervals are staleness floors, not deadlines.
type Scheduler struct {
	tracker   *ActivityTracker
	fetcher   *SignatureFetcher
	intervals PollIntervals
}

// NewScheduler creates a scheduler over the tracker and fetcher.
func NewScheduler(tracker *ActivityTracker, fetcher *SignatureFetcher, intervals PollIntervals) *Scheduler {
	return &Scheduler{
		tracker:   tracker,
		fetcher:   fetcher,
		intervals: intervals,
	}
}

// PollOnce runs a single scheduling pass.
func (s *Scheduler) PollOnce(ctx context.Context) {
	due := s.tracker.Due(s.intervals)
	if len(due) == 0 {
		return
	}

	sort.SliceStable(due, func(i, j int) bool {
		return tierRank[due[i].Level] > tierRank[due[j].Level]
	})

	logrus.Infof("Checking %d wallets due for polling", len(due))

	for _, w := range due {
		if ctx.Err() != nil {
			return
		}
		s.fetcher.Fetch(ctx, w.Address, w.Level)
	}
}

// Run polls on the given tick until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	s.PollOnce(ctx)
	for {
		select {
		case <-ticker.C:
			s.PollOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}
