// Package codec maps notes to the byte representation kept in the quota store.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/iudanet/sidenotes/internal/models"
)

const (
	// KeyPrefix is the namespace of note keys in the store.
	KeyPrefix = "note_"
	// MetaKey is the reserved key holding the metadata record.
	MetaKey = "_meta"
)

// ErrMalformedNote indicates that a stored value cannot be read as a note.
var ErrMalformedNote = errors.New("malformed note value")

// wireNote фиксирует порядок полей, чтобы размер был детерминированным
type wireNote struct {
	ID           string `json:"id"`
	Content      string `json:"content"`
	LastModified int64  `json:"lastModified"`
}

// Key returns the store key for a note id.
func Key(id string) string {
	return KeyPrefix + id
}

// IsNoteKey reports whether key belongs to the note namespace.
func IsNoteKey(key string) bool {
	return strings.HasPrefix(key, KeyPrefix)
}

// IDFromKey strips the note namespace from key.
func IDFromKey(key string) string {
	return strings.TrimPrefix(key, KeyPrefix)
}

// Encode serializes a note with lastModified as integer epoch milliseconds.
// HTML is not escaped, so the output matches what a browser would store.
func Encode(n models.Note) ([]byte, error) {
	data, err := marshal(wireNote{
		ID:           n.ID,
		Content:      n.Content,
		LastModified: n.LastModified.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode note: %w", err)
	}
	return data, nil
}

// Size returns the byte length of the encoded note wrapped under its key,
// i.e. len(`{"note_<id>":<encoded>}`).
func Size(n models.Note) (int, error) {
	encoded, err := Encode(n)
	if err != nil {
		return 0, err
	}

	wrapped, err := marshal(map[string]json.RawMessage{Key(n.ID): encoded})
	if err != nil {
		return 0, fmt.Errorf("failed to wrap note: %w", err)
	}

	return len(wrapped), nil
}

// Decode parses a stored value into a note.
// It fails only when raw is not a JSON object or content is not a string.
// A missing or unusable lastModified becomes fallback.
func Decode(raw []byte, fallback time.Time) (models.Note, error) {
	if !gjson.ValidBytes(raw) {
		return models.Note{}, fmt.Errorf("%w: invalid json", ErrMalformedNote)
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return models.Note{}, fmt.Errorf("%w: not an object", ErrMalformedNote)
	}

	content := doc.Get("content")
	if content.Exists() && content.Type != gjson.String && content.Type != gjson.Null {
		return models.Note{}, fmt.Errorf("%w: content is not a string", ErrMalformedNote)
	}

	return models.Note{
		ID:           doc.Get("id").String(),
		Content:      content.String(),
		LastModified: parseLastModified(doc.Get("lastModified"), fallback),
	}, nil
}

func parseLastModified(v gjson.Result, fallback time.Time) time.Time {
	switch v.Type {
	case gjson.Number:
		if v.Float() < 0 {
			return fallback
		}
		return time.UnixMilli(v.Int()).UTC()
	case gjson.String:
		// старые клиенты могли сохранить дату строкой
		if t, err := time.Parse(time.RFC3339Nano, v.Str); err == nil {
			return t.UTC().Truncate(time.Millisecond)
		}
	}
	return fallback
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
