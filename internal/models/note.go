package models

import (
	"sort"
	"time"
)

// Note представляет заметку пользователя.
// Content хранит HTML фрагмент, LastModified обновляется при каждом изменении.
type Note struct {
	LastModified time.Time `json:"lastModified"` // LastModified время последнего изменения
	ID           string    `json:"id"`           // ID уникальный идентификатор (UUID)
	Content      string    `json:"content"`      // Content HTML фрагмент
}

// ChangeType описывает тип изменения заметки
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// NoteChange is a classified creation/update/deletion derived from a raw
// store change notification. Note is nil for deletions.
type NoteChange struct {
	Note *Note      `json:"note,omitempty"`
	Type ChangeType `json:"type"`
	ID   string     `json:"id"`
}

// UsageInfo описывает использование квоты хранилища.
// Вычисляется по запросу и никогда не кэшируется.
type UsageInfo struct {
	Used       int     `json:"used"`       // Used занято байт
	Total      int     `json:"total"`      // Total фиксированный лимит
	Percentage float64 `json:"percentage"` // Percentage процент использования
}

// Meta is the single metadata record stored under the reserved key.
type Meta map[string]any

// MetaLastSync is the metadata field stamped on every update.
const MetaLastSync = "lastSync"

// SortByLastModified sorts notes newest first.
// Ties are broken by ID so the order is deterministic.
func SortByLastModified(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return NewerFirst(notes[i], notes[j])
	})
}

// NewerFirst reports whether a sorts before b in a newest-first collection.
func NewerFirst(a, b Note) bool {
	if !a.LastModified.Equal(b.LastModified) {
		return a.LastModified.After(b.LastModified)
	}
	return a.ID < b.ID
}
