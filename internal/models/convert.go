package models

import (
	"time"

	"github.com/iudanet/sidenotes/pkg/api"
)

// NoteToAPI конвертирует заметку в wire-формат (lastModified в миллисекундах)
func NoteToAPI(n Note) api.Note {
	return api.Note{
		ID:           n.ID,
		Content:      n.Content,
		LastModified: n.LastModified.UnixMilli(),
	}
}

// NoteFromAPI конвертирует wire-заметку в модель
func NoteFromAPI(n api.Note) Note {
	return Note{
		ID:           n.ID,
		Content:      n.Content,
		LastModified: time.UnixMilli(n.LastModified).UTC(),
	}
}

// NotesToAPI converts a collection preserving its order.
func NotesToAPI(notes []Note) []api.Note {
	out := make([]api.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, NoteToAPI(n))
	}
	return out
}

// NotesFromAPI converts a wire collection preserving its order.
func NotesFromAPI(notes []api.Note) []Note {
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, NoteFromAPI(n))
	}
	return out
}

// ChangesToAPI converts a change batch preserving its order.
func ChangesToAPI(changes []NoteChange) []api.Change {
	out := make([]api.Change, 0, len(changes))
	for _, c := range changes {
		ac := api.Change{
			Type: string(c.Type),
			ID:   c.ID,
		}
		if c.Note != nil {
			note := NoteToAPI(*c.Note)
			ac.Note = &note
		}
		out = append(out, ac)
	}
	return out
}

// UsageToAPI конвертирует UsageInfo в wire-формат
func UsageToAPI(u UsageInfo) api.Usage {
	return api.Usage{
		Used:       u.Used,
		Total:      u.Total,
		Percentage: u.Percentage,
	}
}

// UsageFromAPI конвертирует wire-формат в UsageInfo
func UsageFromAPI(u api.Usage) UsageInfo {
	return UsageInfo{
		Used:       u.Used,
		Total:      u.Total,
		Percentage: u.Percentage,
	}
}
