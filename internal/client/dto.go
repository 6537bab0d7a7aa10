package client

import (
	"encoding/json"

	"quill/internal/types"
)

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
	PID     int    `json:"pid"`
}

type NotebooksResponse struct {
	Notebooks []*types.Notebook `json:"notebooks"`
}

type NotesResponse struct {
	Notes []*types.NoteListEntry `json:"notes"`
}

type CreateNotebookRequest struct {
	Name string `json:"name"`
}

type UpdateNotebookRequest struct {
	Name string `json:"name"`
}

// UpdateNoteRequest carries a partial note patch. Nil fields are left
// untouched by the daemon.
type UpdateNoteRequest struct {
	Title      *string         `json:"title,omitempty"`
	Content    json.RawMessage `json:"content,omitempty"`
	NotebookID *string         `json:"notebook_id,omitempty"`
}
