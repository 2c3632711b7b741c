// Package quotastore describes the quota-constrained key/value store that
// notes are persisted in, together with helpers shared by its adapters.
package quotastore

import (
	"context"
	"fmt"
	"sort"
)

//go:generate moq -out store_mock.go . Store

// Store is a key/value store with a per-item size limit, a total size limit,
// an item count limit and a change feed.
type Store interface {
	// Get returns the values for keys. Missing keys are absent from the result.
	// Without keys every item is returned.
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)

	// Set writes all items atomically or none of them.
	Set(ctx context.Context, items map[string][]byte) error

	// Remove deletes keys. Missing keys are ignored.
	Remove(ctx context.Context, keys ...string) error

	// BytesInUse returns the size of keys, or of the whole store without keys.
	BytesInUse(ctx context.Context, keys ...string) (int, error)

	// Subscribe registers fn for every committed change batch.
	Subscribe(fn func([]Change)) (unsubscribe func())
}

// Change describes one key in a committed write.
// A nil value means the key was absent on that side of the write.
type Change struct {
	Key      string
	OldValue []byte
	NewValue []byte
}

// Limits are the quotas enforced by an adapter. Zero disables a limit.
type Limits struct {
	QuotaBytes        int
	QuotaBytesPerItem int
	MaxItems          int
}

// DefaultLimits mirror the browser synchronized storage area.
var DefaultLimits = Limits{
	QuotaBytes:        102400,
	QuotaBytesPerItem: 8192,
	MaxItems:          512,
}

// Occupancy is the current footprint of a store.
type Occupancy struct {
	Bytes int
	Items int
}

// ItemSize returns the quota footprint of one item.
func ItemSize(key string, value []byte) int {
	return len(key) + len(value)
}

// Add accounts an existing item.
func (o *Occupancy) Add(key string, value []byte) {
	o.Bytes += ItemSize(key, value)
	o.Items++
}

// CheckSet validates writing items over a store with occupancy current.
// lookup returns the value currently stored under a key.
func (l Limits) CheckSet(current Occupancy, items map[string][]byte, lookup func(key string) ([]byte, bool)) error {
	next := current
	for key, value := range items {
		size := ItemSize(key, value)
		if l.QuotaBytesPerItem > 0 && size > l.QuotaBytesPerItem {
			return fmt.Errorf("%w: %q is %d bytes, limit %d", ErrQuotaBytesPerItem, key, size, l.QuotaBytesPerItem)
		}

		if old, ok := lookup(key); ok {
			next.Bytes -= ItemSize(key, old)
		} else {
			next.Items++
		}
		next.Bytes += size
	}

	if l.MaxItems > 0 && next.Items > l.MaxItems {
		return fmt.Errorf("%w: %d items, limit %d", ErrMaxItems, next.Items, l.MaxItems)
	}
	if l.QuotaBytes > 0 && next.Bytes > l.QuotaBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrQuotaBytes, next.Bytes, l.QuotaBytes)
	}
	return nil
}

// SortChanges orders a batch by key.
func SortChanges(batch []Change) {
	sort.Slice(batch, func(i, j int) bool {
		return batch[i].Key < batch[j].Key
	})
}

// SortedKeys returns the keys of items in ascending order.
func SortedKeys(items map[string][]byte) []string {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
