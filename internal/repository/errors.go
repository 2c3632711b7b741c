package repository

import (
	"errors"
	"fmt"
)

// ErrEmptyNoteID indicates that a note operation was called without an id
var ErrEmptyNoteID = errors.New("note id is empty")

// NoteTooLargeError is returned by Save when the serialized note exceeds
// the per-note limit. Nothing is written in that case.
type NoteTooLargeError struct {
	Actual int // Actual размер сериализованной заметки
	Max    int // Max допустимый размер
}

func (e *NoteTooLargeError) Error() string {
	return fmt.Sprintf("note is too large: %d bytes, limit %d", e.Actual, e.Max)
}

// StorageLimitError is returned when the store rejects a write because the
// total byte quota or the item limit would be exceeded.
type StorageLimitError struct {
	Err error
}

func (e *StorageLimitError) Error() string {
	return fmt.Sprintf("storage limit reached: %v", e.Err)
}

func (e *StorageLimitError) Unwrap() error {
	return e.Err
}
