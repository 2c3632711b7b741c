package api

import "encoding/json"

// Command actions (UI endpoint -> relay)
const (
	ActionLoad         = "load"
	ActionSync         = "sync"
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
	ActionGetUsage     = "get-usage"
	ActionDisconnected = "disconnected"
)

// Event actions (relay -> all UI endpoints)
const (
	EventLoaded       = "loaded"
	EventCreated      = "created"
	EventSyncing      = "syncing"
	EventSaved        = "saved"
	EventSynced       = "synced"
	EventDeleted      = "deleted"
	EventChanged      = "changed"
	EventError        = "error"
	EventUsage        = "usage"
	EventDisconnected = "disconnected"
)

// Note представляет заметку в wire-формате
// LastModified передается как epoch миллисекунды
type Note struct {
	ID           string `json:"id"`
	Content      string `json:"content"`
	LastModified int64  `json:"lastModified"`
}

// Change представляет одно классифицированное изменение из change feed
type Change struct {
	Note *Note  `json:"note,omitempty"`
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Usage представляет информацию об использовании хранилища
type Usage struct {
	Used       int     `json:"used"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Command is a request sent by a UI endpoint to the relay.
type Command struct {
	LastModified *int64 `json:"lastModified,omitempty"` // только для create
	Note         *Note  `json:"note,omitempty"`         // только для update
	Action       string `json:"action"`
	ID           string `json:"id,omitempty"`
	Content      string `json:"content,omitempty"`
	Origin       string `json:"origin,omitempty"` // идентификатор endpoint, выпустившего команду
}

// Event is a message broadcast by the relay to every connected UI endpoint.
type Event struct {
	Note     *Note    `json:"note,omitempty"`
	Usage    *Usage   `json:"usage,omitempty"`
	Action   string   `json:"action"`
	ID       string   `json:"id,omitempty"`
	From     string   `json:"from,omitempty"`
	Message  string   `json:"message,omitempty"`
	Notes    []Note   `json:"notes,omitempty"`
	Changes  []Change `json:"changes,omitempty"`
	Conflict bool     `json:"conflict,omitempty"`
}

// MarshalJSON всегда пишет notes для loaded (пустой массив, а не null)
// и conflict для synced, даже когда значение false.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	out := struct {
		plain
		Notes    *[]Note `json:"notes,omitempty"`
		Conflict *bool   `json:"conflict,omitempty"`
	}{plain: plain(e)}

	switch e.Action {
	case EventLoaded:
		notes := e.Notes
		if notes == nil {
			notes = []Note{}
		}
		out.Notes = &notes
	case EventSynced:
		out.Conflict = &e.Conflict
	}
	return json.Marshal(out)
}
