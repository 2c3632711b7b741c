// Package relay forwards note commands from UI endpoints to the repository
// and broadcasts the results to every connected endpoint.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/sidenotes/internal/models"
	"github.com/iudanet/sidenotes/internal/repository"
	"github.com/iudanet/sidenotes/pkg/api"
)

//go:generate moq -out repository_mock.go . Repository

// Repository is the note storage used by the relay.
type Repository interface {
	LoadAll(ctx context.Context) ([]models.Note, error)
	Save(ctx context.Context, note models.Note) error
	Remove(ctx context.Context, id string) error
	Usage(ctx context.Context) (models.UsageInfo, error)
	UpdateMeta(ctx context.Context, patch models.Meta) error
	OnRemoteChange(handler func([]models.NoteChange)) (unsubscribe func())
}

var (
	// ErrUnknownAction indicates a command with an unsupported action
	ErrUnknownAction = errors.New("unknown action")

	// ErrMissingNote indicates an update command without a note
	ErrMissingNote = errors.New("update requires a note")

	// ErrMissingID indicates a delete command without an id
	ErrMissingID = errors.New("delete requires an id")
)

// Relay executes commands against the repository. It holds no note state.
type Relay struct {
	repo        Repository
	bus         *Bus
	logger      *slog.Logger
	localizer   Localizer
	now         func() time.Time
	newID       func() string
	unsubscribe func()
	wg          sync.WaitGroup
}

// Option configures a Relay.
type Option func(*Relay)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

// WithLocalizer sets the message lookup used for error events.
func WithLocalizer(localizer Localizer) Option {
	return func(r *Relay) {
		r.localizer = localizer
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Relay) {
		r.now = now
	}
}

// WithIDGenerator replaces the UUID generator used for new notes.
func WithIDGenerator(newID func() string) Option {
	return func(r *Relay) {
		r.newID = newID
	}
}

// New creates the relay and subscribes it to remote changes of repo.
func New(repo Repository, bus *Bus, opts ...Option) *Relay {
	r := &Relay{
		repo:      repo,
		bus:       bus,
		logger:    slog.New(slog.DiscardHandler),
		localizer: NewLocalizer("en"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.unsubscribe = repo.OnRemoteChange(r.relayChanges)
	return r
}

// Close drops the change feed subscription and waits for dispatched commands.
func (r *Relay) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
	r.wg.Wait()
}

// Dispatch runs cmd in its own goroutine. The command is detached from ctx
// cancellation, so it completes even if the endpoint disconnects.
func (r *Relay) Dispatch(ctx context.Context, cmd api.Command) {
	detached := context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.Handle(detached, cmd); err != nil {
			r.logger.Warn("Command rejected", "action", cmd.Action, "origin", cmd.Origin, "error", err)
		}
	}()
}

// Handle executes one command and broadcasts its outcome.
// The returned error is non-nil only for unknown actions.
func (r *Relay) Handle(ctx context.Context, cmd api.Command) error {
	r.logger.Debug("Handling command", "action", cmd.Action, "origin", cmd.Origin)

	switch cmd.Action {
	case api.ActionLoad, api.ActionSync:
		r.handleLoad(ctx)
	case api.ActionCreate:
		r.handleCreate(ctx, cmd)
	case api.ActionUpdate:
		r.handleUpdate(ctx, cmd)
	case api.ActionDelete:
		r.handleDelete(ctx, cmd)
	case api.ActionGetUsage:
		r.handleUsage(ctx)
	case api.ActionDisconnected:
		r.bus.Publish(api.Event{Action: api.EventDisconnected, From: cmd.Origin})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}
	return nil
}

func (r *Relay) handleLoad(ctx context.Context) {
	notes, err := r.repo.LoadAll(ctx)
	if err != nil {
		r.logger.Error("Failed to load notes", "error", err)
		r.publishError(err, "")
		// UI должен выйти из состояния загрузки
		r.bus.Publish(api.Event{Action: api.EventLoaded, Notes: []api.Note{}})
		return
	}

	r.bus.Publish(api.Event{Action: api.EventLoaded, Notes: models.NotesToAPI(notes)})
}

func (r *Relay) handleCreate(ctx context.Context, cmd api.Command) {
	id := cmd.ID
	if id == "" {
		id = r.newID()
	}
	lastModified := r.now().UTC().Truncate(time.Millisecond)
	if cmd.LastModified != nil {
		lastModified = time.UnixMilli(*cmd.LastModified).UTC()
	}

	note := models.Note{ID: id, Content: cmd.Content, LastModified: lastModified}
	if err := r.repo.Save(ctx, note); err != nil {
		r.logger.Warn("Failed to create note", "note_id", id, "error", err)
		r.publishError(err, id)
		return
	}

	wire := models.NoteToAPI(note)
	r.bus.Publish(api.Event{Action: api.EventCreated, ID: id, Note: &wire, From: cmd.Origin})
}

func (r *Relay) handleUpdate(ctx context.Context, cmd api.Command) {
	if cmd.Note == nil {
		r.publishError(ErrMissingNote, cmd.ID)
		return
	}
	note := models.NoteFromAPI(*cmd.Note)

	r.bus.Publish(api.Event{Action: api.EventSyncing, ID: note.ID, From: cmd.Origin})

	if err := r.repo.Save(ctx, note); err != nil {
		r.logger.Warn("Failed to update note", "note_id", note.ID, "error", err)
		r.publishError(err, note.ID)
		return
	}

	wire := models.NoteToAPI(note)
	r.bus.Publish(api.Event{Action: api.EventSaved, ID: note.ID, Note: &wire, From: cmd.Origin})
	r.bus.Publish(api.Event{Action: api.EventSynced, ID: note.ID, Note: &wire, Conflict: false, From: cmd.Origin})

	// Ошибка записи метаданных не отменяет успешное сохранение
	if err := r.repo.UpdateMeta(ctx, nil); err != nil {
		r.logger.Warn("Failed to stamp sync metadata", "note_id", note.ID, "error", err)
	}
}

func (r *Relay) handleDelete(ctx context.Context, cmd api.Command) {
	if cmd.ID == "" {
		r.publishError(ErrMissingID, "")
		return
	}

	if err := r.repo.Remove(ctx, cmd.ID); err != nil {
		r.logger.Warn("Failed to delete note", "note_id", cmd.ID, "error", err)
		r.publishError(err, cmd.ID)
		return
	}

	r.bus.Publish(api.Event{Action: api.EventDeleted, ID: cmd.ID, From: cmd.Origin})
}

func (r *Relay) handleUsage(ctx context.Context) {
	usage, err := r.repo.Usage(ctx)
	if err != nil {
		r.logger.Warn("Failed to get usage", "error", err)
		r.publishError(err, "")
		return
	}

	wire := models.UsageToAPI(usage)
	r.bus.Publish(api.Event{Action: api.EventUsage, Usage: &wire})
}

func (r *Relay) relayChanges(changes []models.NoteChange) {
	delivered := r.bus.Publish(api.Event{Action: api.EventChanged, Changes: models.ChangesToAPI(changes)})
	r.logger.Debug("Relayed store changes", "changes", len(changes), "endpoints", delivered)
}

func (r *Relay) publishError(err error, id string) {
	r.bus.Publish(api.Event{Action: api.EventError, ID: id, Message: r.errorMessage(err)})
}

// errorMessage maps repository errors to user-facing text.
func (r *Relay) errorMessage(err error) string {
	var tooLarge *repository.NoteTooLargeError
	if errors.As(err, &tooLarge) {
		return r.localizer.Message(KeyNoteTooLarge)
	}

	var limit *repository.StorageLimitError
	if errors.As(err, &limit) {
		return r.localizer.Message(KeyInsufficientStorage)
	}

	return err.Error()
}
