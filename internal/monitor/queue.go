package monitor

import (
	"sort"
	"sync"
	"time"
)

// PendingSignature is a discovered signature waiting for its full fetch.
type PendingSignature struct {
	Signature     string
	Priority      int
	WalletAddress string
	DiscoveredAt  time.Time

	seq uint64
}

// SignatureQueue holds pending signatures ordered by priority (descending)
// and discovery order (ascending). A signature is marked processed the moment
// it is dequeued, before any processing attempt, and is never accepted again.
type SignatureQueue struct {
	mu        sync.Mutex
	items     []*PendingSignature
	queued    map[string]struct{}
	processed map[string]struct{}
	seq       uint64

	now func() time.Time
}

// NewSignatureQueue creates an empty queue.
func NewSignatureQueue() *SignatureQueue {
	return &SignatureQueue{
		queued:    make(map[string]struct{}),
		processed: make(map[string]struct{}),
		now:       time.Now,
	}
}

// Add enqueues a signature. Signatures already queued or already processed
// are ignored.
func (q *SignatureQueue) Add(signature string, priority int, walletAddress string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.processed[signature]; ok {
		return
	}
	if _, ok := q.queued[signature]; ok {
		return
	}

	q.seq++
	q.items = append(q.items, &PendingSignature{
		Signature:     signature,
		Priority:      priority,
		WalletAddress: walletAddress,
		DiscoveredAt:  q.now(),
		seq:           q.seq,
	})
	q.queued[signature] = struct{}{}

	sort.Slice(q.items, func(i, j int) bool {
		if q.items[i].Priority != q.items[j].Priority {
			return q.items[i].Priority > q.items[j].Priority
		}
		return q.items[i].seq < q.items[j].seq
	})
}

// Next pops the highest-priority item and permanently marks its signature as
// processed. The second return is false when the queue is empty.
func (q *SignatureQueue) Next() (*PendingSignature, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}

	item := q.items[0]
	q.items = q.items[1:]
	delete(q.queued, item.Signature)
	q.processed[item.Signature] = struct{}{}
	return item, true
}

// Size returns the number of pending items.
func (q *SignatureQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// HasProcessed reports whether a signature has ever been dequeued.
func (q *SignatureQueue) HasProcessed(signature string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.processed[signature]
	return ok
}
