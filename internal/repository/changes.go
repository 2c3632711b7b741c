package repository

import (
	"github.com/iudanet/sidenotes/internal/codec"
	"github.com/iudanet/sidenotes/internal/models"
	"github.com/iudanet/sidenotes/internal/quotastore"
)

// OnRemoteChange subscribes handler to note changes from the store feed.
// Each store batch is filtered to note keys and classified; handler is called
// only for non-empty results, in batch order.
func (r *Repository) OnRemoteChange(handler func([]models.NoteChange)) (unsubscribe func()) {
	return r.store.Subscribe(func(batch []quotastore.Change) {
		changes := r.classify(batch)
		if len(changes) == 0 {
			return
		}
		handler(changes)
	})
}

func (r *Repository) classify(batch []quotastore.Change) []models.NoteChange {
	now := r.now()
	changes := make([]models.NoteChange, 0, len(batch))

	for _, c := range batch {
		if !codec.IsNoteKey(c.Key) {
			continue
		}

		id := codec.IDFromKey(c.Key)
		hasNew := len(c.NewValue) > 0
		hasOld := len(c.OldValue) > 0

		switch {
		case hasNew:
			note, err := codec.Decode(c.NewValue, now)
			if err != nil {
				r.logger.Warn("Skipping malformed note change", "key", c.Key, "error", err)
				continue
			}
			if note.ID == "" {
				note.ID = id
			}

			changeType := models.ChangeCreated
			if hasOld {
				changeType = models.ChangeUpdated
			}
			changes = append(changes, models.NoteChange{Type: changeType, ID: id, Note: &note})
		case hasOld:
			changes = append(changes, models.NoteChange{Type: models.ChangeDeleted, ID: id})
		}
	}

	return changes
}
