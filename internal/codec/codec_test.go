package codec

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sidenotes/internal/models"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	fallback := time.UnixMilli(42).UTC()

	tests := []struct {
		name string
		note models.Note
	}{
		{
			name: "simple html",
			note: models.Note{ID: uuid.NewString(), Content: "<p>hi</p>", LastModified: time.UnixMilli(1700000000123).UTC()},
		},
		{
			name: "empty content at epoch zero",
			note: models.Note{ID: uuid.NewString(), Content: "", LastModified: time.UnixMilli(0).UTC()},
		},
		{
			name: "unicode and quotes",
			note: models.Note{ID: uuid.NewString(), Content: `<p>Привет, "мир" & 日本 🚀</p>`, LastModified: time.UnixMilli(1).UTC()},
		},
		{
			name: "control characters",
			note: models.Note{ID: uuid.NewString(), Content: "line1\nline2\t\\", LastModified: time.UnixMilli(253402300799999).UTC()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Encode(tt.note)
			require.NoError(t, err)

			decoded, err := Decode(raw, fallback)
			require.NoError(t, err)
			assert.Equal(t, tt.note, decoded)
		})
	}
}

func TestEncode_Format(t *testing.T) {
	note := models.Note{ID: "n1", Content: "<p>a&b</p>", LastModified: time.UnixMilli(1500).UTC()}

	raw, err := Encode(note)
	require.NoError(t, err)

	// HTML не экранируется, lastModified - целое число
	assert.Equal(t, `{"id":"n1","content":"<p>a&b</p>","lastModified":1500}`, string(raw))
}

func TestSize(t *testing.T) {
	note := models.Note{ID: "n1", Content: "<p>hi</p>", LastModified: time.UnixMilli(7).UTC()}

	raw, err := Encode(note)
	require.NoError(t, err)

	size, err := Size(note)
	require.NoError(t, err)

	expected := len(`{"note_n1":`) + len(raw) + len(`}`)
	assert.Equal(t, expected, size)
}

func TestSize_CountsUTF8Bytes(t *testing.T) {
	ascii := models.Note{ID: "n1", Content: strings.Repeat("a", 10), LastModified: time.UnixMilli(1).UTC()}
	cyrillic := models.Note{ID: "n1", Content: strings.Repeat("я", 10), LastModified: time.UnixMilli(1).UTC()}

	asciiSize, err := Size(ascii)
	require.NoError(t, err)
	cyrillicSize, err := Size(cyrillic)
	require.NoError(t, err)

	assert.Equal(t, asciiSize+10, cyrillicSize)
}

func TestDecode_LastModifiedFallback(t *testing.T) {
	fallback := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		want time.Time
		name string
		raw  string
	}{
		{name: "missing", raw: `{"id":"a","content":"x"}`, want: fallback},
		{name: "null", raw: `{"id":"a","content":"x","lastModified":null}`, want: fallback},
		{name: "negative", raw: `{"id":"a","content":"x","lastModified":-5}`, want: fallback},
		{name: "garbage string", raw: `{"id":"a","content":"x","lastModified":"yesterday"}`, want: fallback},
		{name: "boolean", raw: `{"id":"a","content":"x","lastModified":true}`, want: fallback},
		{name: "rfc3339 string", raw: `{"id":"a","content":"x","lastModified":"2023-05-06T07:08:09.123Z"}`, want: time.Date(2023, 5, 6, 7, 8, 9, 123000000, time.UTC)},
		{name: "epoch millis", raw: `{"id":"a","content":"x","lastModified":1000}`, want: time.UnixMilli(1000).UTC()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note, err := Decode([]byte(tt.raw), fallback)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(note.LastModified), "got %v, want %v", note.LastModified, tt.want)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `{id:`},
		{name: "array", raw: `["a","b"]`},
		{name: "string", raw: `"hello"`},
		{name: "content is object", raw: `{"id":"a","content":{"x":1}}`},
		{name: "empty", raw: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw), time.Now())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedNote)
		})
	}
}

func TestKeyHelpers(t *testing.T) {
	assert.Equal(t, "note_abc", Key("abc"))
	assert.True(t, IsNoteKey("note_abc"))
	assert.False(t, IsNoteKey(MetaKey))
	assert.False(t, IsNoteKey("theme"))
	assert.Equal(t, "abc", IDFromKey("note_abc"))
}
