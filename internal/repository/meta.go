package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iudanet/sidenotes/internal/codec"
	"github.com/iudanet/sidenotes/internal/models"
)

// GetMeta returns the metadata record, or an empty one when none is stored.
func (r *Repository) GetMeta(ctx context.Context) (models.Meta, error) {
	items, err := r.store.Get(ctx, codec.MetaKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	meta := models.Meta{}
	raw, ok := items[codec.MetaKey]
	if !ok || len(raw) == 0 {
		return meta, nil
	}

	if err := json.Unmarshal(raw, &meta); err != nil {
		// повреждённые метаданные не должны блокировать запись
		r.logger.Warn("Stored metadata is malformed, starting over", "error", err)
		return models.Meta{}, nil
	}
	return meta, nil
}

// UpdateMeta merges patch over the stored record and stamps lastSync.
func (r *Repository) UpdateMeta(ctx context.Context, patch models.Meta) error {
	meta, err := r.GetMeta(ctx)
	if err != nil {
		return err
	}

	for k, v := range patch {
		meta[k] = v
	}
	meta[models.MetaLastSync] = r.now().UnixMilli()

	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	if err := r.store.Set(ctx, map[string][]byte{codec.MetaKey: data}); err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}
	return nil
}

// IsSyncAvailable probes the store by reading the metadata key.
func (r *Repository) IsSyncAvailable(ctx context.Context) bool {
	if _, err := r.store.Get(ctx, codec.MetaKey); err != nil {
		r.logger.Warn("Sync storage is not available", "error", err)
		return false
	}
	return true
}
