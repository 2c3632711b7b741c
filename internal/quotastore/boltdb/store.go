// Package boltdb implements quotastore.Store on top of a bbolt file.
package boltdb

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"go.etcd.io/bbolt"

	"github.com/iudanet/sidenotes/internal/quotastore"
)

var bucketItems = []byte("items")

// Store represents BoltDB quota store implementation
type Store struct {
	db      *bbolt.DB
	feed    quotastore.Feed
	limits  quotastore.Limits
	mu      sync.RWMutex
	writeMu sync.Mutex // запись и уведомление feed под одним замком
}

var _ quotastore.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLimits overrides quotastore.DefaultLimits.
func WithLimits(limits quotastore.Limits) Option {
	return func(s *Store) {
		s.limits = limits
	}
}

// New creates a new BoltDB store instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string, opts ...Option) (*Store, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	store := &Store{
		db:     db,
		limits: quotastore.DefaultLimits,
	}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return store, nil
}

// Close closes the database connection. Repeated calls are no-ops.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает bucket для элементов если он не существует
func (s *Store) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketItems); err != nil {
			return fmt.Errorf("failed to create items bucket: %w", err)
		}
		return nil
	})
}

// Get returns the stored values for keys, or every item without keys.
func (s *Store) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, quotastore.ErrStoreClosed
	}

	result := make(map[string][]byte)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketItems)
		if bucket == nil {
			return fmt.Errorf("items bucket not found")
		}

		if len(keys) == 0 {
			return bucket.ForEach(func(k, v []byte) error {
				result[string(k)] = bytes.Clone(v)
				return nil
			})
		}

		for _, key := range keys {
			// значения bbolt валидны только внутри транзакции
			if v := bucket.Get([]byte(key)); v != nil {
				result[key] = bytes.Clone(v)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}

	return result, nil
}

// Set writes items in a single transaction after checking the quotas.
func (s *Store) Set(ctx context.Context, items map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	batch, err := s.set(items)
	if err != nil {
		return err
	}

	s.feed.Notify(batch)
	return nil
}

func (s *Store) set(items map[string][]byte) ([]quotastore.Change, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, quotastore.ErrStoreClosed
	}

	var batch []quotastore.Change
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketItems)
		if bucket == nil {
			return fmt.Errorf("items bucket not found")
		}

		var current quotastore.Occupancy
		if err := bucket.ForEach(func(k, v []byte) error {
			current.Add(string(k), v)
			return nil
		}); err != nil {
			return err
		}

		lookup := func(key string) ([]byte, bool) {
			v := bucket.Get([]byte(key))
			return v, v != nil
		}
		if err := s.limits.CheckSet(current, items, lookup); err != nil {
			return err
		}

		for _, key := range quotastore.SortedKeys(items) {
			value := items[key]
			old := bytes.Clone(bucket.Get([]byte(key)))
			if err := bucket.Put([]byte(key), value); err != nil {
				return fmt.Errorf("failed to put %q: %w", key, err)
			}
			// неизменные значения не попадают в change feed
			if old != nil && bytes.Equal(old, value) {
				continue
			}
			batch = append(batch, quotastore.Change{
				Key:      key,
				OldValue: old,
				NewValue: bytes.Clone(value),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set items: %w", err)
	}

	return batch, nil
}

// Remove deletes keys. Missing keys are ignored.
func (s *Store) Remove(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	batch, err := s.remove(keys)
	if err != nil {
		return err
	}

	s.feed.Notify(batch)
	return nil
}

func (s *Store) remove(keys []string) ([]quotastore.Change, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, quotastore.ErrStoreClosed
	}

	var batch []quotastore.Change
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketItems)
		if bucket == nil {
			return fmt.Errorf("items bucket not found")
		}

		for _, key := range keys {
			old := bucket.Get([]byte(key))
			if old == nil {
				continue
			}
			batch = append(batch, quotastore.Change{Key: key, OldValue: bytes.Clone(old)})
			if err := bucket.Delete([]byte(key)); err != nil {
				return fmt.Errorf("failed to delete %q: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove items: %w", err)
	}

	quotastore.SortChanges(batch)
	return batch, nil
}

// BytesInUse returns the quota footprint of keys, or of the whole store.
func (s *Store) BytesInUse(ctx context.Context, keys ...string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return 0, quotastore.ErrStoreClosed
	}

	var occupancy quotastore.Occupancy
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketItems)
		if bucket == nil {
			return fmt.Errorf("items bucket not found")
		}

		if len(keys) == 0 {
			return bucket.ForEach(func(k, v []byte) error {
				occupancy.Add(string(k), v)
				return nil
			})
		}

		for _, key := range keys {
			if v := bucket.Get([]byte(key)); v != nil {
				occupancy.Add(key, v)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to compute bytes in use: %w", err)
	}

	return occupancy.Bytes, nil
}

// Subscribe registers fn for committed change batches.
// Batches arrive in commit order; fn must not write to the store.
func (s *Store) Subscribe(fn func([]quotastore.Change)) func() {
	return s.feed.Subscribe(fn)
}
