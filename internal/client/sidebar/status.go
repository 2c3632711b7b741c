package sidebar

import "time"

// StatusKind is the sync indicator shown by the sidebar.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusSyncing
	StatusSynced
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusIdle:
		return "idle"
	case StatusSyncing:
		return "syncing"
	case StatusSynced:
		return "synced"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Status is the current sync indicator.
// At is set for StatusSynced, Message for StatusError.
type Status struct {
	At      time.Time
	Message string
	Kind    StatusKind
}

func (s Status) String() string {
	switch s.Kind {
	case StatusSynced:
		return "synced at " + s.At.Local().Format(time.TimeOnly)
	case StatusError:
		return "error: " + s.Message
	default:
		return s.Kind.String()
	}
}
