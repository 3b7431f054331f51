package monitor

import (
	"context"
	"sync"
	"time"
)

// minSuspend bounds how tightly the dispatcher polls a saturated window.
const minSuspend = 100 * time.Millisecond

// Task is a unit of chain RPC work executed by the rate limiter.
type Task func(ctx context.Context) (interface{}, error)

type taskResult struct {
	value interface{}
	err   error
}

type pendingTask struct {
	fn       Task
	priority int
	seq      uint64
	ctx      context.Context
	reply    chan taskResult
}

// RateLimiter serializes all outbound chain RPC calls behind a single
// dispatcher, enforcing at most maxRequests dispatches per sliding window.
// Queued tasks run strictly by priority, submission order breaking ties.
// One request is in flight at a time, which keeps the window accounting
// exact no matter how many goroutines submit concurrently.
type RateLimiter struct {
	mu         sync.Mutex
	pending    []*pendingTask
	timestamps []time.Time
	seq        uint64

	maxRequests int
	window      time.Duration
	wake        chan struct{}

	now func() time.Time
}

// NewRateLimiter creates a limiter allowing maxRequests per window. Run must
// be started for submissions to make progress.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		wake:        make(chan struct{}, 1),
		now:         time.Now,
	}
}

// Submit queues fn with the given priority and blocks until its result is
// delivered or ctx is canceled. A canceled submission whose task already
// started still runs to completion; its result is discarded.
func (l *RateLimiter) Submit(ctx context.Context, priority int, fn Task) (interface{}, error) {
	task := &pendingTask{
		fn:       fn,
		priority: priority,
		ctx:      ctx,
		reply:    make(chan taskResult, 1),
	}

	l.mu.Lock()
	l.seq++
	task.seq = l.seq
	l.pending = append(l.pending, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}

	select {
	case res := <-task.reply:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run is the dispatch loop. It returns when ctx is canceled; tasks still
// pending at that point are answered with ctx's error.
func (l *RateLimiter) Run(ctx context.Context) {
	for {
		task := l.next()
		if task == nil {
			select {
			case <-l.wake:
				continue
			case <-ctx.Done():
				l.drain(ctx.Err())
				return
			}
		}

		if !l.waitForSlot(ctx) {
			task.reply <- taskResult{err: ctx.Err()}
			l.drain(ctx.Err())
			return
		}

		l.mu.Lock()
		l.timestamps = append(l.timestamps, l.now())
		l.mu.Unlock()

		value, err := task.fn(task.ctx)
		task.reply <- taskResult{value: value, err: err}
	}
}

// next pops the highest-priority pending task, earliest submission first on
// ties.
func (l *RateLimiter) next() *pendingTask {
	l.mu.Lock()
	defer l.mu.Unlock()

	best := -1
	for i, t := range l.pending {
		if best == -1 ||
			t.priority > l.pending[best].priority ||
			(t.priority == l.pending[best].priority && t.seq < l.pending[best].seq) {
			best = i
		}
	}
	if best == -1 {
		return nil
	}

	task := l.pending[best]
	l.pending = append(l.pending[:best], l.pending[best+1:]...)
	return task
}

// waitForSlot blocks until the sliding window has room for one more
// dispatch. Returns false when ctx is canceled first.
func (l *RateLimiter) waitForSlot(ctx context.Context) bool {
	for {
		l.mu.Lock()
		now := l.now()
		kept := l.timestamps[:0]
		for _, ts := range l.timestamps {
			if now.Sub(ts) < l.window {
				kept = append(kept, ts)
			}
		}
		l.timestamps = kept

		if len(l.timestamps) < l.maxRequests {
			l.mu.Unlock()
			return true
		}

		wait := l.timestamps[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		if wait < minSuspend {
			wait = minSuspend
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return false
		}
	}
}

// drain answers every still-pending submitter after shutdown.
func (l *RateLimiter) drain(err error) {
	l.mu.Lock()
	pending := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, t := range pending {
		t.reply <- taskResult{err: err}
	}
}
