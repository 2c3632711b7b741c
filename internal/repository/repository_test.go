package repository

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sidenotes/internal/codec"
	"github.com/iudanet/sidenotes/internal/models"
	"github.com/iudanet/sidenotes/internal/quotastore"
	"github.com/iudanet/sidenotes/internal/quotastore/boltdb"
)

var fixedNow = time.UnixMilli(1700000000000).UTC()

func fixedClock() time.Time { return fixedNow }

func setupRepository(t *testing.T, opts ...boltdb.Option) (*Repository, *boltdb.Store) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "notes.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return New(store, WithClock(fixedClock)), store
}

func newNote(content string, ms int64) models.Note {
	return models.Note{ID: uuid.NewString(), Content: content, LastModified: time.UnixMilli(ms).UTC()}
}

func TestRepository_SaveAndLoadAll(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t)

	older := newNote("<p>older</p>", 1000)
	newer := newNote("<p>newer</p>", 2000)
	zero := newNote("<p>epoch</p>", 0)

	for _, n := range []models.Note{older, zero, newer} {
		require.NoError(t, repo.Save(ctx, n))
	}

	notes, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Note{newer, older, zero}, notes)
}

func TestRepository_LoadAll_Empty(t *testing.T) {
	repo, _ := setupRepository(t)

	notes, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestRepository_LoadAll_SkipsForeignAndMalformed(t *testing.T) {
	ctx := context.Background()
	repo, store := setupRepository(t)

	good := newNote("<p>ok</p>", 5)
	require.NoError(t, repo.Save(ctx, good))
	require.NoError(t, store.Set(ctx, map[string][]byte{
		codec.MetaKey:  []byte(`{"lastSync":1}`),
		"theme":        []byte(`"dark"`),
		"note_broken":  []byte(`{not json`),
		"note_array":   []byte(`[1,2]`),
		"note_noid":    []byte(`{"content":"<p>x</p>","lastModified":7}`),
		"note_nodate":  []byte(`{"id":"nodate","content":"<p>y</p>"}`),
		"note_emptyid": []byte(`{"id":"","content":"z","lastModified":1}`),
	}))

	notes, err := repo.LoadAll(ctx)
	require.NoError(t, err)

	byID := map[string]models.Note{}
	for _, n := range notes {
		byID[n.ID] = n
	}
	assert.Len(t, notes, 4)
	assert.Equal(t, good, byID[good.ID])
	assert.Equal(t, "<p>x</p>", byID["noid"].Content)
	assert.Equal(t, fixedNow, byID["nodate"].LastModified)
	assert.Contains(t, byID, "emptyid")
}

func TestRepository_LoadAll_StoreFailure(t *testing.T) {
	store := &quotastore.StoreMock{
		GetFunc: func(ctx context.Context, keys ...string) (map[string][]byte, error) {
			return nil, errors.New("storage unavailable")
		},
	}
	repo := New(store)

	notes, err := repo.LoadAll(context.Background())
	require.Error(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
	assert.Contains(t, err.Error(), "storage unavailable")
}

func TestRepository_Save_TooLarge(t *testing.T) {
	ctx := context.Background()
	repo, store := setupRepository(t)

	note := newNote(strings.Repeat("a", DefaultMaxNoteSize), 1)

	err := repo.Save(ctx, note)
	require.Error(t, err)

	var tooLarge *NoteTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, DefaultMaxNoteSize, tooLarge.Max)
	size, sizeErr := codec.Size(note)
	require.NoError(t, sizeErr)
	assert.Equal(t, size, tooLarge.Actual)

	// ничего не записано
	items, err := store.Get(ctx, codec.Key(note.ID))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRepository_Save_SizeBoundary(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t)

	note := models.Note{ID: "n1", LastModified: time.UnixMilli(1).UTC()}
	base, err := codec.Size(note)
	require.NoError(t, err)

	note.Content = strings.Repeat("a", DefaultMaxNoteSize-base)
	require.NoError(t, repo.Save(ctx, note))

	note.Content += "a"
	var tooLarge *NoteTooLargeError
	require.ErrorAs(t, repo.Save(ctx, note), &tooLarge)
	assert.Equal(t, DefaultMaxNoteSize+1, tooLarge.Actual)
}

func TestRepository_Save_StorageLimit(t *testing.T) {
	ctx := context.Background()
	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "notes.db"), boltdb.WithLimits(quotastore.Limits{
		QuotaBytes:        300,
		QuotaBytesPerItem: 8192,
		MaxItems:          512,
	}))
	require.NoError(t, err)
	defer store.Close()
	repo := New(store)

	require.NoError(t, repo.Save(ctx, newNote(strings.Repeat("a", 100), 1)))

	err = repo.Save(ctx, newNote(strings.Repeat("b", 150), 2))
	require.Error(t, err)

	var limitErr *StorageLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.ErrorIs(t, err, quotastore.ErrQuotaBytes)
}

func TestRepository_Save_MaxItemsIsStorageLimit(t *testing.T) {
	store := &quotastore.StoreMock{
		SetFunc: func(ctx context.Context, items map[string][]byte) error {
			return quotastore.ErrMaxItems
		},
	}
	repo := New(store)

	var limitErr *StorageLimitError
	require.ErrorAs(t, repo.Save(context.Background(), newNote("x", 1)), &limitErr)
}

func TestRepository_Save_OtherErrorPropagates(t *testing.T) {
	cause := errors.New("disk on fire")
	store := &quotastore.StoreMock{
		SetFunc: func(ctx context.Context, items map[string][]byte) error {
			return cause
		},
	}
	repo := New(store)

	err := repo.Save(context.Background(), newNote("x", 1))
	require.ErrorIs(t, err, cause)

	var limitErr *StorageLimitError
	assert.False(t, errors.As(err, &limitErr))
	var tooLarge *NoteTooLargeError
	assert.False(t, errors.As(err, &tooLarge))
	// без повторных попыток
	assert.Len(t, store.SetCalls(), 1)
}

func TestRepository_EmptyID(t *testing.T) {
	repo := New(&quotastore.StoreMock{})
	ctx := context.Background()

	assert.ErrorIs(t, repo.Save(ctx, models.Note{Content: "x"}), ErrEmptyNoteID)
	assert.ErrorIs(t, repo.Remove(ctx, ""), ErrEmptyNoteID)
}

func TestRepository_Remove_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t)

	keep := newNote("<p>keep</p>", 2)
	drop := newNote("<p>drop</p>", 1)
	require.NoError(t, repo.Save(ctx, keep))
	require.NoError(t, repo.Save(ctx, drop))

	require.NoError(t, repo.Remove(ctx, drop.ID))
	first, err := repo.LoadAll(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Remove(ctx, drop.ID))
	second, err := repo.LoadAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, []models.Note{keep}, first)
	assert.Equal(t, first, second)
}

func TestRepository_Usage(t *testing.T) {
	ctx := context.Background()
	repo, store := setupRepository(t)

	usage, err := repo.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.UsageInfo{Used: 0, Total: 102400, Percentage: 0}, usage)

	note := newNote("<p>hi</p>", 1)
	require.NoError(t, repo.Save(ctx, note))

	used, err := store.BytesInUse(ctx)
	require.NoError(t, err)

	usage, err = repo.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, used, usage.Used)
	assert.InDelta(t, float64(used)/102400*100, usage.Percentage, 1e-9)
}

func TestRepository_Usage_StoreFailure(t *testing.T) {
	store := &quotastore.StoreMock{
		BytesInUseFunc: func(ctx context.Context, keys ...string) (int, error) {
			return 0, errors.New("boom")
		},
	}

	_, err := New(store, WithTotalQuota(10)).Usage(context.Background())
	require.Error(t, err)
}

func TestRepository_Options(t *testing.T) {
	repo := New(&quotastore.StoreMock{}, WithMaxNoteSize(10), WithTotalQuota(20))
	assert.Equal(t, 10, repo.maxNoteSize)
	assert.Equal(t, 20, repo.totalQuota)

	var tooLarge *NoteTooLargeError
	require.ErrorAs(t, repo.Save(context.Background(), newNote("x", 1)), &tooLarge)
	assert.Equal(t, 10, tooLarge.Max)
}
