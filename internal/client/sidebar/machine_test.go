package sidebar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sidenotes/internal/models"
	"github.com/iudanet/sidenotes/pkg/api"
)

var machineNow = time.UnixMilli(1700000000000).UTC()

func newTestMachine(origin string) *Machine {
	return NewMachine(origin,
		WithClock(func() time.Time { return machineNow }),
		WithIDGenerator(func() string { return "local-id" }),
	)
}

func wireNote(id, content string, ms int64) *api.Note {
	return &api.Note{ID: id, Content: content, LastModified: ms}
}

func ids(notes []models.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestMachine_Loaded(t *testing.T) {
	m := newTestMachine("A")
	m.Apply(api.Event{Action: api.EventCreated, Note: wireNote("stale", "x", 1)})

	m.Apply(api.Event{Action: api.EventLoaded, Notes: []api.Note{
		*wireNote("a", "1", 10),
		*wireNote("b", "2", 30),
		*wireNote("c", "3", 20),
	}})

	assert.Equal(t, []string{"b", "c", "a"}, ids(m.Notes()))

	m.Apply(api.Event{Action: api.EventLoaded})
	assert.Empty(t, m.Notes())
}

func TestMachine_Created(t *testing.T) {
	m := newTestMachine("A")

	m.Apply(api.Event{Action: api.EventCreated, ID: "n1", Note: wireNote("n1", "first", 1)})
	m.Apply(api.Event{Action: api.EventCreated, ID: "n1", Note: wireNote("n1", "duplicate", 2)})

	notes := m.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "first", notes[0].Content)
}

func TestMachine_Changed(t *testing.T) {
	m := newTestMachine("A")
	m.Apply(api.Event{Action: api.EventLoaded, Notes: []api.Note{
		*wireNote("keep", "k", 5),
		*wireNote("upd", "old", 6),
		*wireNote("del", "d", 7),
	}})

	m.Apply(api.Event{Action: api.EventChanged, Changes: []api.Change{
		{Type: "created", ID: "new", Note: wireNote("new", "n", 8)},
		{Type: "created", ID: "keep", Note: wireNote("keep", "ignored", 9)},
		{Type: "updated", ID: "upd", Note: wireNote("upd", "fresh", 10)},
		{Type: "updated", ID: "ghost", Note: wireNote("ghost", "g", 1)},
		{Type: "deleted", ID: "del"},
		{Type: "deleted", ID: "never"},
	}})

	assert.Equal(t, []string{"upd", "new", "keep", "ghost"}, ids(m.Notes()))

	keep, ok := m.Note("keep")
	require.True(t, ok)
	assert.Equal(t, "k", keep.Content)

	upd, ok := m.Note("upd")
	require.True(t, ok)
	assert.Equal(t, "fresh", upd.Content)
}

func TestMachine_ChangedFromSelfIsApplied(t *testing.T) {
	m := newTestMachine("A")
	cmd := m.UpdateNote("n1", "mine")

	// change feed не несёт источника и применяется всегда
	m.Apply(api.Event{Action: api.EventChanged, Changes: []api.Change{
		{Type: "updated", ID: "n1", Note: wireNote("n1", "other tab", cmd.Note.LastModified+1)},
	}})

	n, ok := m.Note("n1")
	require.True(t, ok)
	assert.Equal(t, "other tab", n.Content)
}

func TestMachine_Deleted(t *testing.T) {
	m := newTestMachine("A")
	m.Apply(api.Event{Action: api.EventLoaded, Notes: []api.Note{*wireNote("a", "1", 1)}})

	m.Apply(api.Event{Action: api.EventDeleted, ID: "missing"})
	assert.Len(t, m.Notes(), 1)

	m.Apply(api.Event{Action: api.EventDeleted, ID: "a"})
	assert.Empty(t, m.Notes())
}

func TestMachine_SelfEcho(t *testing.T) {
	a := newTestMachine("A")
	b := newTestMachine("B")
	for _, m := range []*Machine{a, b} {
		m.Apply(api.Event{Action: api.EventLoaded, Notes: []api.Note{*wireNote("n1", "v1", 1)}})
	}

	cmd := a.UpdateNote("n1", "v2")

	// пока эхо в пути, A продолжает печатать
	a.UpdateNote("n1", "v3")

	saved := api.Event{Action: api.EventSaved, ID: "n1", Note: cmd.Note, From: "A"}
	synced := api.Event{Action: api.EventSynced, ID: "n1", Note: cmd.Note, From: "A"}
	for _, m := range []*Machine{a, b} {
		m.Apply(saved)
		m.Apply(synced)
	}

	local, ok := a.Note("n1")
	require.True(t, ok)
	assert.Equal(t, "v3", local.Content, "own echo must not overwrite newer local text")

	remote, ok := b.Note("n1")
	require.True(t, ok)
	assert.Equal(t, "v2", remote.Content)

	assert.Equal(t, StatusSynced, a.Status().Kind)
	assert.Equal(t, machineNow, a.Status().At)
}

func TestMachine_SelfEchoWithNewContentIsApplied(t *testing.T) {
	m := newTestMachine("A")
	m.Apply(api.Event{Action: api.EventLoaded, Notes: []api.Note{*wireNote("n1", "v1", 1)}})

	// тот же origin, но не ожидаемое обновление (например, другой экземпляр с тем же id)
	m.Apply(api.Event{Action: api.EventSynced, Note: wireNote("n1", "elsewhere", 5), From: "A"})

	n, ok := m.Note("n1")
	require.True(t, ok)
	assert.Equal(t, "elsewhere", n.Content)
}

func TestMachine_ReverseCompletionLaterWins(t *testing.T) {
	m := newTestMachine("A")
	first := wireNote("n1", "first", 1)
	second := wireNote("n1", "second", 2)

	// события приходят в порядке завершения записей: second, затем first
	m.Apply(api.Event{Action: api.EventSaved, Note: second, From: "B"})
	m.Apply(api.Event{Action: api.EventSaved, Note: first, From: "B"})

	n, ok := m.Note("n1")
	require.True(t, ok)
	assert.Equal(t, "first", n.Content)
	assert.Len(t, m.Notes(), 1)
}

func TestMachine_Status(t *testing.T) {
	m := newTestMachine("A")
	assert.Equal(t, StatusIdle, m.Status().Kind)

	m.Apply(api.Event{Action: api.EventSyncing})
	assert.Equal(t, StatusSyncing, m.Status().Kind)

	m.Apply(api.Event{Action: api.EventError, Message: "Storage limit reached. Please delete some notes."})
	assert.Equal(t, Status{Kind: StatusError, Message: "Storage limit reached. Please delete some notes."}, m.Status())
	assert.Equal(t, "error: Storage limit reached. Please delete some notes.", m.Status().String())

	m.Apply(api.Event{Action: api.EventLoaded, Notes: []api.Note{*wireNote("a", "1", 1)}})
	m.Apply(api.Event{Action: api.EventDisconnected})
	assert.Equal(t, StatusIdle, m.Status().Kind)
	assert.Len(t, m.Notes(), 1, "disconnect keeps the collection")
}

func TestMachine_ErrorForgetsPendingUpdate(t *testing.T) {
	m := newTestMachine("A")
	cmd := m.UpdateNote("n1", "rejected")
	require.Len(t, m.pending, 1)

	m.Apply(api.Event{Action: api.EventError, ID: "n1", Message: "too large"})
	assert.Empty(t, m.pending)

	// повторное эхо того же содержимого совпадает с локальной копией
	m.Apply(api.Event{Action: api.EventSynced, Note: cmd.Note, From: "A"})
	n, ok := m.Note("n1")
	require.True(t, ok)
	assert.Equal(t, "rejected", n.Content)
}

func TestMachine_Usage(t *testing.T) {
	m := newTestMachine("A")
	_, ok := m.Usage()
	assert.False(t, ok)

	m.Apply(api.Event{Action: api.EventUsage, Usage: &api.Usage{Used: 10, Total: 100, Percentage: 10}})
	usage, ok := m.Usage()
	require.True(t, ok)
	assert.Equal(t, models.UsageInfo{Used: 10, Total: 100, Percentage: 10}, usage)
}

func TestMachine_LocalIntents(t *testing.T) {
	m := newTestMachine("A")

	create := m.CreateNote("<p>hi</p>")
	assert.Equal(t, api.ActionCreate, create.Action)
	assert.Equal(t, "local-id", create.ID)
	assert.Equal(t, "A", create.Origin)
	require.NotNil(t, create.LastModified)
	assert.Equal(t, machineNow.UnixMilli(), *create.LastModified)

	n, ok := m.Note("local-id")
	require.True(t, ok)
	assert.Equal(t, "<p>hi</p>", n.Content)

	// подтверждение создания не дублирует заметку
	m.Apply(api.Event{Action: api.EventCreated, ID: "local-id", Note: wireNote("local-id", "<p>hi</p>", machineNow.UnixMilli()), From: "A"})
	assert.Len(t, m.Notes(), 1)

	update := m.UpdateNote("local-id", "<p>bye</p>")
	assert.Equal(t, api.ActionUpdate, update.Action)
	assert.Equal(t, "A", update.Origin)
	assert.Equal(t, wireNote("local-id", "<p>bye</p>", machineNow.UnixMilli()), update.Note)

	del := m.DeleteNote("local-id")
	assert.Equal(t, api.Command{Action: api.ActionDelete, ID: "local-id", Origin: "A"}, del)
	assert.Empty(t, m.Notes())
	assert.Empty(t, m.pending)
}

func TestMachine_UnknownEventIgnored(t *testing.T) {
	m := newTestMachine("A")
	m.Apply(api.Event{Action: "mystery"})
	assert.Equal(t, StatusIdle, m.Status().Kind)
}
