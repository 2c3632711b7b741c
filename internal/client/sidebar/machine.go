// Package sidebar holds the UI-side note collection and the endpoint that
// keeps it in step with the relay.
package sidebar

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/iudanet/sidenotes/internal/models"
	"github.com/iudanet/sidenotes/pkg/api"
)

// Machine is the state of one UI endpoint: an ordered note collection, the
// sync status and the last reported usage. Relay events change it only
// through Apply.
type Machine struct {
	notes   *collection
	pending map[uint64]string // fingerprint -> note id
	usage   *models.UsageInfo
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
	status  Status
	origin  string
	mu      sync.RWMutex
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// WithIDGenerator replaces the UUID generator used by CreateNote.
func WithIDGenerator(newID func() string) Option {
	return func(m *Machine) {
		m.newID = newID
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// NewMachine creates an empty machine for the endpoint origin.
func NewMachine(origin string, opts ...Option) *Machine {
	m := &Machine{
		notes:   newCollection(),
		pending: make(map[uint64]string),
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
		newID:   uuid.NewString,
		origin:  origin,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Origin returns the endpoint id stamped on outgoing commands.
func (m *Machine) Origin() string {
	return m.origin
}

// Notes returns the collection newest first.
func (m *Machine) Notes() []models.Note {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notes.list()
}

// Note returns the note with id.
func (m *Machine) Note(id string) (models.Note, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notes.get(id)
}

// Status returns the sync indicator.
func (m *Machine) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Usage returns the last usage reported by the relay.
func (m *Machine) Usage() (models.UsageInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.usage == nil {
		return models.UsageInfo{}, false
	}
	return *m.usage, true
}

// Apply merges one relay event into the state.
func (m *Machine) Apply(ev api.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch ev.Action {
	case api.EventLoaded:
		m.notes.replace(models.NotesFromAPI(ev.Notes))
		clear(m.pending)
	case api.EventCreated:
		if ev.Note != nil {
			m.notes.insert(models.NoteFromAPI(*ev.Note))
		}
	case api.EventChanged:
		m.applyChanges(ev.Changes)
	case api.EventSaved:
		if ev.Note != nil {
			m.applyEcho(models.NoteFromAPI(*ev.Note), ev.From, false)
		}
	case api.EventSynced:
		if ev.Note != nil {
			m.applyEcho(models.NoteFromAPI(*ev.Note), ev.From, true)
		}
		m.status = Status{Kind: StatusSynced, At: m.now()}
	case api.EventDeleted:
		m.notes.remove(ev.ID)
	case api.EventSyncing:
		m.status = Status{Kind: StatusSyncing}
	case api.EventError:
		m.status = Status{Kind: StatusError, Message: ev.Message}
		m.forget(ev.ID)
	case api.EventDisconnected:
		m.status = Status{Kind: StatusIdle}
	case api.EventUsage:
		if ev.Usage != nil {
			usage := models.UsageFromAPI(*ev.Usage)
			m.usage = &usage
		}
	default:
		m.logger.Debug("Ignoring unknown event", "action", ev.Action)
	}
}

func (m *Machine) applyChanges(changes []api.Change) {
	for _, c := range changes {
		switch models.ChangeType(c.Type) {
		case models.ChangeCreated:
			if c.Note != nil {
				m.notes.insert(models.NoteFromAPI(*c.Note))
			}
		case models.ChangeUpdated:
			// обновление неизвестной заметки добавляет её
			if c.Note != nil {
				m.notes.upsert(models.NoteFromAPI(*c.Note))
			}
		case models.ChangeDeleted:
			m.notes.remove(c.ID)
		}
	}
}

// applyEcho upserts a saved/synced note unless it is this endpoint's own
// echo of a pending update or carries nothing new.
func (m *Machine) applyEcho(note models.Note, from string, final bool) {
	if from == m.origin {
		fp := fingerprint(note)
		if _, ok := m.pending[fp]; ok {
			if final {
				delete(m.pending, fp)
			}
			return
		}
		if local, ok := m.notes.get(note.ID); ok && sameNote(local, note) {
			return
		}
	}
	m.notes.upsert(note)
}

// forget drops pending fingerprints of a failed update.
func (m *Machine) forget(id string) {
	if id == "" {
		return
	}
	for fp, noteID := range m.pending {
		if noteID == id {
			delete(m.pending, fp)
		}
	}
}

// CreateNote adds a note locally and returns the command announcing it.
func (m *Machine) CreateNote(content string) api.Command {
	note := models.Note{
		ID:           m.newID(),
		Content:      content,
		LastModified: m.stamp(),
	}

	m.mu.Lock()
	m.notes.upsert(note)
	m.mu.Unlock()

	lastModified := note.LastModified.UnixMilli()
	return api.Command{
		Action:       api.ActionCreate,
		ID:           note.ID,
		Content:      content,
		LastModified: &lastModified,
		Origin:       m.origin,
	}
}

// UpdateNote replaces the content of id locally and returns the update command.
func (m *Machine) UpdateNote(id, content string) api.Command {
	note := models.Note{
		ID:           id,
		Content:      content,
		LastModified: m.stamp(),
	}

	m.mu.Lock()
	m.notes.upsert(note)
	m.pending[fingerprint(note)] = id
	m.mu.Unlock()

	wire := models.NoteToAPI(note)
	return api.Command{
		Action: api.ActionUpdate,
		ID:     id,
		Note:   &wire,
		Origin: m.origin,
	}
}

// DeleteNote removes id locally and returns the delete command.
func (m *Machine) DeleteNote(id string) api.Command {
	m.mu.Lock()
	m.notes.remove(id)
	m.forget(id)
	m.mu.Unlock()

	return api.Command{
		Action: api.ActionDelete,
		ID:     id,
		Origin: m.origin,
	}
}

// stamp returns now at the millisecond precision notes are stored with.
func (m *Machine) stamp() time.Time {
	return m.now().UTC().Truncate(time.Millisecond)
}

func sameNote(a, b models.Note) bool {
	return a.ID == b.ID && a.Content == b.Content && a.LastModified.Equal(b.LastModified)
}

func fingerprint(n models.Note) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(n.ID)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(n.Content)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(strconv.FormatInt(n.LastModified.UnixMilli(), 10))
	return d.Sum64()
}
