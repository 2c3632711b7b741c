// Package storetest holds behaviour tests shared by quotastore adapters.
package storetest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sidenotes/internal/quotastore"
)

// Factory opens a fresh empty store with the given limits.
type Factory func(t *testing.T, limits quotastore.Limits) quotastore.Store

// recorder collects change batches delivered by the feed.
type recorder struct {
	batches [][]quotastore.Change
	mu      sync.Mutex
}

func (r *recorder) record(batch []quotastore.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, batch)
}

func (r *recorder) all() [][]quotastore.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches
}

// Run executes the shared suite against stores produced by open.
func Run(t *testing.T, open Factory) {
	t.Run("set and get", func(t *testing.T) {
		ctx := context.Background()
		s := open(t, quotastore.DefaultLimits)

		require.NoError(t, s.Set(ctx, map[string][]byte{
			"note_a": []byte(`{"id":"a"}`),
			"note_b": []byte(`{"id":"b"}`),
			"_meta":  []byte(`{}`),
		}))

		got, err := s.Get(ctx, "note_a", "missing")
		require.NoError(t, err)
		assert.Equal(t, map[string][]byte{"note_a": []byte(`{"id":"a"}`)}, got)

		all, err := s.Get(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		ctx := context.Background()
		s := open(t, quotastore.DefaultLimits)

		require.NoError(t, s.Set(ctx, map[string][]byte{"note_a": []byte("1")}))
		require.NoError(t, s.Remove(ctx, "note_a"))
		require.NoError(t, s.Remove(ctx, "note_a"))
		require.NoError(t, s.Remove(ctx, "never"))

		all, err := s.Get(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("bytes in use", func(t *testing.T) {
		ctx := context.Background()
		s := open(t, quotastore.DefaultLimits)

		used, err := s.BytesInUse(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, used)

		require.NoError(t, s.Set(ctx, map[string][]byte{
			"k1": []byte("12345"),
			"k2": []byte("123"),
		}))

		used, err = s.BytesInUse(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2+5+2+3, used)

		used, err = s.BytesInUse(ctx, "k2", "missing")
		require.NoError(t, err)
		assert.Equal(t, 5, used)
	})

	t.Run("per item quota", func(t *testing.T) {
		ctx := context.Background()
		s := open(t, quotastore.Limits{QuotaBytesPerItem: 10})

		err := s.Set(ctx, map[string][]byte{"k": []byte(strings.Repeat("x", 10))})
		require.ErrorIs(t, err, quotastore.ErrQuotaBytesPerItem)

		all, err := s.Get(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("total quota rejects whole batch", func(t *testing.T) {
		ctx := context.Background()
		s := open(t, quotastore.Limits{QuotaBytes: 20})

		require.NoError(t, s.Set(ctx, map[string][]byte{"a": []byte("123456789")}))
		err := s.Set(ctx, map[string][]byte{
			"b": []byte("1"),
			"c": []byte("123456789"),
		})
		require.ErrorIs(t, err, quotastore.ErrQuotaBytes)

		all, err := s.Get(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("max items", func(t *testing.T) {
		ctx := context.Background()
		s := open(t, quotastore.Limits{MaxItems: 2})

		require.NoError(t, s.Set(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("1")}))
		require.ErrorIs(t, s.Set(ctx, map[string][]byte{"c": []byte("1")}), quotastore.ErrMaxItems)
		// перезапись существующего ключа не увеличивает число элементов
		require.NoError(t, s.Set(ctx, map[string][]byte{"a": []byte("2")}))
	})

	t.Run("change feed", func(t *testing.T) {
		ctx := context.Background()
		s := open(t, quotastore.DefaultLimits)

		rec := &recorder{}
		unsubscribe := s.Subscribe(rec.record)

		require.NoError(t, s.Set(ctx, map[string][]byte{"note_b": []byte("1"), "note_a": []byte("1")}))
		require.NoError(t, s.Set(ctx, map[string][]byte{"note_a": []byte("2")}))
		require.NoError(t, s.Set(ctx, map[string][]byte{"note_a": []byte("2")}))
		require.NoError(t, s.Remove(ctx, "note_b", "missing"))
		require.NoError(t, s.Remove(ctx, "missing"))

		batches := rec.all()
		require.Len(t, batches, 3)

		assert.Equal(t, []quotastore.Change{
			{Key: "note_a", NewValue: []byte("1")},
			{Key: "note_b", NewValue: []byte("1")},
		}, batches[0])
		assert.Equal(t, []quotastore.Change{
			{Key: "note_a", OldValue: []byte("1"), NewValue: []byte("2")},
		}, batches[1])
		assert.Equal(t, []quotastore.Change{
			{Key: "note_b", OldValue: []byte("1")},
		}, batches[2])

		unsubscribe()
		require.NoError(t, s.Set(ctx, map[string][]byte{"note_c": []byte("1")}))
		assert.Len(t, rec.all(), 3)
	})

	t.Run("feed follows commit order", func(t *testing.T) {
		ctx := context.Background()
		s := open(t, quotastore.DefaultLimits)

		rec := &recorder{}
		s.Subscribe(rec.record)

		const writers = 20
		var wg sync.WaitGroup
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.Set(ctx, map[string][]byte{"note_a": fmt.Appendf(nil, "w%d", i)}))
			}()
		}
		wg.Wait()

		batches := rec.all()
		require.Len(t, batches, writers)

		// каждое уведомление продолжает предыдущее: old = прошлый new
		var prev []byte
		for i, batch := range batches {
			require.Len(t, batch, 1)
			assert.Equal(t, prev, batch[0].OldValue, "batch %d", i)
			prev = batch[0].NewValue
		}

		stored, err := s.Get(ctx, "note_a")
		require.NoError(t, err)
		assert.Equal(t, stored["note_a"], prev, "last announced value is the stored one")
	})

	t.Run("failed write is not announced", func(t *testing.T) {
		ctx := context.Background()
		s := open(t, quotastore.Limits{QuotaBytesPerItem: 4})

		rec := &recorder{}
		s.Subscribe(rec.record)

		require.Error(t, s.Set(ctx, map[string][]byte{"key": []byte("xx")}))
		assert.Empty(t, rec.all())
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := open(t, quotastore.DefaultLimits)

		require.ErrorIs(t, s.Set(ctx, map[string][]byte{"k": []byte("1")}), context.Canceled)
		_, err := s.Get(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}
