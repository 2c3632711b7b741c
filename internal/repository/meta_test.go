package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sidenotes/internal/codec"
	"github.com/iudanet/sidenotes/internal/models"
	"github.com/iudanet/sidenotes/internal/quotastore"
)

func TestRepository_GetMeta_Empty(t *testing.T) {
	repo, _ := setupRepository(t)

	meta, err := repo.GetMeta(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Meta{}, meta)
}

func TestRepository_UpdateMeta_MergesAndStamps(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t)

	require.NoError(t, repo.UpdateMeta(ctx, models.Meta{"device": "laptop", "version": "1"}))
	require.NoError(t, repo.UpdateMeta(ctx, models.Meta{"version": "2"}))

	meta, err := repo.GetMeta(ctx)
	require.NoError(t, err)

	assert.Equal(t, "laptop", meta["device"])
	assert.Equal(t, "2", meta["version"])
	// числа из JSON декодируются как float64
	assert.Equal(t, float64(fixedNow.UnixMilli()), meta[models.MetaLastSync])
}

func TestRepository_UpdateMeta_LastSyncAlwaysWins(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t)

	require.NoError(t, repo.UpdateMeta(ctx, models.Meta{models.MetaLastSync: 1}))

	meta, err := repo.GetMeta(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(fixedNow.UnixMilli()), meta[models.MetaLastSync])
}

func TestRepository_GetMeta_Malformed(t *testing.T) {
	ctx := context.Background()
	repo, store := setupRepository(t)

	require.NoError(t, store.Set(ctx, map[string][]byte{codec.MetaKey: []byte(`[broken`)}))

	meta, err := repo.GetMeta(ctx)
	require.NoError(t, err)
	assert.Empty(t, meta)

	require.NoError(t, repo.UpdateMeta(ctx, models.Meta{"k": "v"}))
	meta, err = repo.GetMeta(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v", meta["k"])
}

func TestRepository_UpdateMeta_StoreFailure(t *testing.T) {
	store := &quotastore.StoreMock{
		GetFunc: func(ctx context.Context, keys ...string) (map[string][]byte, error) {
			return map[string][]byte{}, nil
		},
		SetFunc: func(ctx context.Context, items map[string][]byte) error {
			return errors.New("write failed")
		},
	}

	err := New(store).UpdateMeta(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write failed")
}

func TestRepository_IsSyncAvailable(t *testing.T) {
	repo, _ := setupRepository(t)
	assert.True(t, repo.IsSyncAvailable(context.Background()))

	broken := New(&quotastore.StoreMock{
		GetFunc: func(ctx context.Context, keys ...string) (map[string][]byte, error) {
			return nil, errors.New("unavailable")
		},
	})
	assert.False(t, broken.IsSyncAvailable(context.Background()))
}
