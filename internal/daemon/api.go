package daemon

import (
	"context"
	"encoding/json"

	"quill/internal/logging"
)

type API struct {
	Version  string
	Stores   *Stores
	Shutdown func(context.Context) error
	Logger   logging.Logger
}

type CreateNotebookRequest struct {
	Name string `json:"name"`
}

type UpdateNotebookRequest struct {
	Name string `json:"name"`
}

// UpdateNoteRequest is a partial note patch. Pointer and RawMessage fields
// distinguish "absent" from "set to zero"; a patch with no recognized field
// is rejected.
type UpdateNoteRequest struct {
	Title      *string         `json:"title"`
	Content    json.RawMessage `json:"content"`
	NotebookID *string         `json:"notebook_id"`
}

func (r *UpdateNoteRequest) empty() bool {
	return r == nil || (r.Title == nil && r.Content == nil && r.NotebookID == nil)
}
