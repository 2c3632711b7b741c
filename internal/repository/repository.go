// Package repository maps notes onto a quota-constrained key/value store.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/sidenotes/internal/codec"
	"github.com/iudanet/sidenotes/internal/models"
	"github.com/iudanet/sidenotes/internal/quotastore"
)

const (
	// DefaultMaxNoteSize is the largest serialized note accepted by Save.
	DefaultMaxNoteSize = 6144
	// DefaultTotalQuota is the total reported by Usage.
	DefaultTotalQuota = 102400
)

// Repository is a stateless facade over a quotastore.Store.
// Every call goes to the store; nothing is cached.
type Repository struct {
	store       quotastore.Store
	logger      *slog.Logger
	now         func() time.Time
	maxNoteSize int
	totalQuota  int
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger. A discarding logger is used by default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// WithMaxNoteSize overrides DefaultMaxNoteSize.
func WithMaxNoteSize(size int) Option {
	return func(r *Repository) {
		r.maxNoteSize = size
	}
}

// WithTotalQuota overrides DefaultTotalQuota.
func WithTotalQuota(total int) Option {
	return func(r *Repository) {
		r.totalQuota = total
	}
}

// New creates a repository over store.
func New(store quotastore.Store, opts ...Option) *Repository {
	r := &Repository{
		store:       store,
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
		maxNoteSize: DefaultMaxNoteSize,
		totalQuota:  DefaultTotalQuota,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadAll returns every stored note, newest first.
// Entries that cannot be decoded are skipped and logged.
// On a store failure it returns an empty slice and the error.
func (r *Repository) LoadAll(ctx context.Context) ([]models.Note, error) {
	items, err := r.store.Get(ctx)
	if err != nil {
		return []models.Note{}, fmt.Errorf("failed to load notes: %w", err)
	}

	now := r.now()
	notes := make([]models.Note, 0, len(items))
	skipped := 0

	for key, value := range items {
		if !codec.IsNoteKey(key) || len(value) == 0 {
			continue
		}

		note, err := codec.Decode(value, now)
		if err != nil {
			r.logger.Warn("Skipping malformed note", "key", key, "error", err)
			skipped++
			continue
		}
		if note.ID == "" {
			note.ID = codec.IDFromKey(key)
		}
		notes = append(notes, note)
	}

	if skipped > 0 {
		r.logger.Warn("Some stored notes could not be decoded", "skipped", skipped, "loaded", len(notes))
	}

	models.SortByLastModified(notes)
	return notes, nil
}

// Save validates the serialized size of note and writes it.
func (r *Repository) Save(ctx context.Context, note models.Note) error {
	if note.ID == "" {
		return ErrEmptyNoteID
	}

	size, err := codec.Size(note)
	if err != nil {
		return err
	}
	if size > r.maxNoteSize {
		return &NoteTooLargeError{Actual: size, Max: r.maxNoteSize}
	}

	data, err := codec.Encode(note)
	if err != nil {
		return err
	}

	if err := r.store.Set(ctx, map[string][]byte{codec.Key(note.ID): data}); err != nil {
		return mapStoreError(err)
	}

	r.logger.Debug("Note saved", "note_id", note.ID, "size", size)
	return nil
}

// Remove deletes the note with id. Removing a missing note is not an error.
func (r *Repository) Remove(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyNoteID
	}

	if err := r.store.Remove(ctx, codec.Key(id)); err != nil {
		return fmt.Errorf("failed to remove note: %w", err)
	}

	r.logger.Debug("Note removed", "note_id", id)
	return nil
}

// Usage reports how much of the quota the whole store occupies.
func (r *Repository) Usage(ctx context.Context) (models.UsageInfo, error) {
	used, err := r.store.BytesInUse(ctx)
	if err != nil {
		return models.UsageInfo{}, fmt.Errorf("failed to get bytes in use: %w", err)
	}

	usage := models.UsageInfo{
		Used:  used,
		Total: r.totalQuota,
	}
	if r.totalQuota > 0 {
		usage.Percentage = float64(used) / float64(r.totalQuota) * 100
	}
	return usage, nil
}

// mapStoreError переводит ошибки квоты хранилища в StorageLimitError
func mapStoreError(err error) error {
	if errors.Is(err, quotastore.ErrQuotaBytes) || errors.Is(err, quotastore.ErrMaxItems) {
		return &StorageLimitError{Err: err}
	}
	return fmt.Errorf("failed to save note: %w", err)
}
