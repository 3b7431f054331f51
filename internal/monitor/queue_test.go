package monitor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureQueue(t *testing.T) {
	t.Run("Deduplicates Queued Signatures", func(t *testing.T) {
		q := NewSignatureQueue()

		q.Add("sig1", 10, "walletA")
		q.Add("sig1", 50, "walletA")
		q.Add("sig1", 1, "walletB")

		assert.Equal(t, 1, q.Size())

		item, ok := q.Next()
		require.True(t, ok)
		assert.Equal(t, "sig1", item.Signature)
		assert.Equal(t, 10, item.Priority, "first add wins")

		_, ok = q.Next()
		assert.False(t, ok)
	})

	t.Run("Rejects Processed Signatures Forever", func(t *testing.T) {
		q := NewSignatureQueue()

		q.Add("sig1", 10, "walletA")
		_, ok := q.Next()
		require.True(t, ok)
		assert.True(t, q.HasProcessed("sig1"))

		// Re-discovery must not re-enqueue.
		q.Add("sig1", 100, "walletA")
		assert.Equal(t, 0, q.Size())
		assert.True(t, q.HasProcessed("sig1"))
	})

	t.Run("Pops By Priority Then Discovery Order", func(t *testing.T) {
		q := NewSignatureQueue()

		q.Add("low", 1, "walletA")
		q.Add("high", 100, "walletA")
		q.Add("mid-first", 50, "walletA")
		q.Add("mid-second", 50, "walletB")

		var order []string
		for {
			item, ok := q.Next()
			if !ok {
				break
			}
			order = append(order, item.Signature)
		}

		assert.Equal(t, []string{"high", "mid-first", "mid-second", "low"}, order)
	})

	t.Run("Processed Set Is Monotonic", func(t *testing.T) {
		q := NewSignatureQueue()

		for i := 0; i < 20; i++ {
			q.Add(fmt.Sprintf("sig%d", i), i, "walletA")
		}
		for i := 0; i < 20; i++ {
			_, ok := q.Next()
			require.True(t, ok)
		}
		for i := 0; i < 20; i++ {
			assert.True(t, q.HasProcessed(fmt.Sprintf("sig%d", i)))
		}
	})
}
