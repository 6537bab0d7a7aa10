package types

import (
	"encoding/json"
	"time"
)

// DefaultNoteTitle is assigned to freshly created notes before the user
// types anything.
const DefaultNoteTitle = "Untitled"

// Note is a titled document with opaque content. Content is whatever JSON
// value the editor produced; the server never interprets it.
type Note struct {
	ID         string          `json:"id"`
	NotebookID string          `json:"notebook_id"`
	Title      string          `json:"title"`
	Content    json.RawMessage `json:"content,omitempty"`
	Trashed    bool            `json:"is_trashed,omitempty"`
	TrashedAt  *time.Time      `json:"trashed_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NoteListEntry is the lightweight projection used by note listings. It is
// deliberately not a Note: listings never carry content.
type NoteListEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}
