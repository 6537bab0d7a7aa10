package daemon

import (
	"context"
	"errors"
	"strings"

	"quill/internal/store"
	"quill/internal/types"
)

type NoteService struct {
	notebooks NotebookStore
	notes     NoteStore
}

func NewNoteService(stores *Stores) *NoteService {
	if stores == nil {
		return &NoteService{}
	}
	return &NoteService{
		notebooks: stores.Notebooks,
		notes:     stores.Notes,
	}
}

func (s *NoteService) ListForNotebook(ctx context.Context, notebookID string) ([]*types.NoteListEntry, error) {
	if s.notes == nil {
		return nil, unavailableError("note store not available", nil)
	}
	notebookID = strings.TrimSpace(notebookID)
	if notebookID == "" {
		return nil, invalidError("notebook id is required", nil)
	}
	if err := s.ensureNotebookExists(ctx, notebookID); err != nil {
		return nil, err
	}
	entries, err := s.notes.ListEntries(ctx, notebookID)
	if err != nil {
		return nil, unavailableError(err.Error(), err)
	}
	return entries, nil
}

func (s *NoteService) Create(ctx context.Context, notebookID string) (*types.Note, error) {
	if s.notes == nil {
		return nil, unavailableError("note store not available", nil)
	}
	notebookID = strings.TrimSpace(notebookID)
	if notebookID == "" {
		return nil, invalidError("notebook id is required", nil)
	}
	if err := s.ensureNotebookExists(ctx, notebookID); err != nil {
		return nil, err
	}
	created, err := s.notes.Create(ctx, notebookID)
	if err != nil {
		return nil, unavailableError(err.Error(), err)
	}
	return created, nil
}

// Get returns a note by id. Trashed notes read as missing.
func (s *NoteService) Get(ctx context.Context, id string) (*types.Note, error) {
	if s.notes == nil {
		return nil, unavailableError("note store not available", nil)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalidError("note id is required", nil)
	}
	note, ok, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, unavailableError(err.Error(), err)
	}
	if !ok || note == nil || note.Trashed {
		return nil, notFoundError("note not found", store.ErrNoteNotFound)
	}
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, id string, patch *UpdateNoteRequest) (*types.Note, error) {
	if s.notes == nil {
		return nil, unavailableError("note store not available", nil)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalidError("note id is required", nil)
	}
	if patch.empty() {
		return nil, invalidError("no updatable fields in payload", nil)
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *existing
	if patch.Title != nil {
		merged.Title = strings.TrimSpace(*patch.Title)
		if merged.Title == "" {
			merged.Title = types.DefaultNoteTitle
		}
	}
	if patch.Content != nil {
		merged.Content = append([]byte(nil), patch.Content...)
	}
	if patch.NotebookID != nil {
		target := strings.TrimSpace(*patch.NotebookID)
		if target == "" {
			return nil, invalidError("notebook id is required", nil)
		}
		if err := s.ensureNotebookExists(ctx, target); err != nil {
			return nil, err
		}
		merged.NotebookID = target
	}

	updated, err := s.notes.Put(ctx, &merged)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return nil, notFoundError("note not found", err)
		}
		return nil, unavailableError(err.Error(), err)
	}
	return updated, nil
}

func (s *NoteService) Trash(ctx context.Context, id string) error {
	if s.notes == nil {
		return unavailableError("note store not available", nil)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return invalidError("note id is required", nil)
	}
	if err := s.notes.Trash(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return notFoundError("note not found", err)
		}
		return unavailableError(err.Error(), err)
	}
	return nil
}

func (s *NoteService) ensureNotebookExists(ctx context.Context, notebookID string) error {
	if s.notebooks == nil {
		return unavailableError("notebook store not available", nil)
	}
	if _, ok, err := s.notebooks.Get(ctx, notebookID); err != nil {
		return unavailableError(err.Error(), err)
	} else if !ok {
		return notFoundError("notebook not found", store.ErrNotebookNotFound)
	}
	return nil
}
