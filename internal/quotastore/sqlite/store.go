// Package sqlite implements quotastore.Store on top of an SQLite database.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/iudanet/sidenotes/internal/quotastore"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store represents SQLite quota store implementation
type Store struct {
	db      *sql.DB
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

// New creates a new SQLite store instance
// Use ":memory:" for in-memory database (useful for testing)
func New(ctx context.Context, dbPath string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Один писатель: проверка квоты и запись должны идти последовательно
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := &Store{
		db:     db,
		limits: quotastore.DefaultLimits,
	}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
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

// runMigrations выполняет миграции из embedded FS
func (s *Store) runMigrations() error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetBaseFS(embedMigrations)

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}
	return nil
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

	query := `SELECT key, value FROM kv`
	var args []any
	if len(keys) > 0 {
		query += ` WHERE key IN (` + placeholders(len(keys)) + `)`
		args = keyArgs(keys)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return result, nil
}

// Set upserts items in one transaction after checking the quotas.
func (s *Store) Set(ctx context.Context, items map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	batch, err := s.set(ctx, items)
	if err != nil {
		return err
	}

	s.feed.Notify(batch)
	return nil
}

func (s *Store) set(ctx context.Context, items map[string][]byte) ([]quotastore.Change, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, quotastore.ErrStoreClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := loadAll(ctx, tx)
	if err != nil {
		return nil, err
	}

	var current quotastore.Occupancy
	for k, v := range existing {
		current.Add(k, v)
	}
	lookup := func(key string) ([]byte, bool) {
		v, ok := existing[key]
		return v, ok
	}
	if err := s.limits.CheckSet(current, items, lookup); err != nil {
		return nil, fmt.Errorf("failed to set items: %w", err)
	}

	const upsert = `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`

	var batch []quotastore.Change
	for _, key := range quotastore.SortedKeys(items) {
		value := items[key]
		if value == nil {
			value = []byte{}
		}
		if _, err := tx.ExecContext(ctx, upsert, key, value); err != nil {
			return nil, fmt.Errorf("failed to upsert %q: %w", key, err)
		}

		old, ok := existing[key]
		if ok && bytes.Equal(old, value) {
			continue
		}
		change := quotastore.Change{Key: key, NewValue: bytes.Clone(value)}
		if ok {
			change.OldValue = old
		}
		batch = append(batch, change)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
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

	batch, err := s.remove(ctx, keys)
	if err != nil {
		return err
	}

	s.feed.Notify(batch)
	return nil
}

func (s *Store) remove(ctx context.Context, keys []string) ([]quotastore.Change, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, quotastore.ErrStoreClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT key, value FROM kv WHERE key IN (`+placeholders(len(keys))+`) ORDER BY key`,
		keyArgs(keys)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}

	var batch []quotastore.Change
	for rows.Next() {
		var change quotastore.Change
		if err := rows.Scan(&change.Key, &change.OldValue); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		batch = append(batch, change)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM kv WHERE key IN (`+placeholders(len(keys))+`)`,
		keyArgs(keys)...,
	); err != nil {
		return nil, fmt.Errorf("failed to delete items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

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

	// length() для BLOB считает байты, ключ приводим к BLOB
	query := `SELECT COALESCE(SUM(length(CAST(key AS BLOB)) + length(value)), 0) FROM kv`
	var args []any
	if len(keys) > 0 {
		query += ` WHERE key IN (` + placeholders(len(keys)) + `)`
		args = keyArgs(keys)
	}

	var used int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&used); err != nil {
		return 0, fmt.Errorf("failed to compute bytes in use: %w", err)
	}
	return used, nil
}

// Subscribe registers fn for committed change batches.
// Batches arrive in commit order; fn must not write to the store.
func (s *Store) Subscribe(fn func([]quotastore.Change)) func() {
	return s.feed.Subscribe(fn)
}

// DB returns the underlying database connection for testing purposes
func (s *Store) DB() *sql.DB {
	return s.db
}

func loadAll(ctx context.Context, tx *sql.Tx) (map[string][]byte, error) {
	rows, err := tx.QueryContext(ctx, `SELECT key, value FROM kv`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func keyArgs(keys []string) []any {
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	return args
}
