package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_MarshalJSON(t *testing.T) {
	note := Note{ID: "n1", Content: "<p>hi</p>", LastModified: 1500}

	tests := []struct {
		name string
		want string
		ev   Event
	}{
		{
			name: "synced carries conflict false",
			ev:   Event{Action: EventSynced, Note: &note, From: "sidebar-a"},
			want: `{"note":{"id":"n1","content":"<p>hi</p>","lastModified":1500},"action":"synced","from":"sidebar-a","conflict":false}`,
		},
		{
			name: "empty loaded carries an empty array",
			ev:   Event{Action: EventLoaded},
			want: `{"action":"loaded","notes":[]}`,
		},
		{
			name: "loaded with notes",
			ev:   Event{Action: EventLoaded, Notes: []Note{note}},
			want: `{"action":"loaded","notes":[{"id":"n1","content":"<p>hi</p>","lastModified":1500}]}`,
		},
		{
			name: "other events omit both",
			ev:   Event{Action: EventDeleted, ID: "n1", From: "sidebar-b"},
			want: `{"action":"deleted","id":"n1","from":"sidebar-b"}`,
		},
		{
			name: "error event",
			ev:   Event{Action: EventError, ID: "n1", Message: "Note is too large to sync."},
			want: `{"action":"error","id":"n1","message":"Note is too large to sync."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ev)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestEvent_DecodesMarshaledForm(t *testing.T) {
	in := Event{Action: EventSynced, Note: &Note{ID: "n1", LastModified: 7}, From: "sidebar-a"}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Event
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	data, err = json.Marshal(Event{Action: EventLoaded})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &out))
	assert.NotNil(t, out.Notes)
	assert.Empty(t, out.Notes)
}
