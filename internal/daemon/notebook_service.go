package daemon

import (
	"context"
	"errors"
	"strings"

	"quill/internal/store"
	"quill/internal/types"
)

type NotebookService struct {
	notebooks NotebookStore
	notes     NoteStore
}

func NewNotebookService(stores *Stores) *NotebookService {
	if stores == nil {
		return &NotebookService{}
	}
	return &NotebookService{
		notebooks: stores.Notebooks,
		notes:     stores.Notes,
	}
}

func (s *NotebookService) List(ctx context.Context) ([]*types.Notebook, error) {
	if s.notebooks == nil {
		return nil, unavailableError("notebook store not available", nil)
	}
	notebooks, err := s.notebooks.List(ctx)
	if err != nil {
		return nil, unavailableError(err.Error(), err)
	}
	return notebooks, nil
}

func (s *NotebookService) Create(ctx context.Context, name string) (*types.Notebook, error) {
	if s.notebooks == nil {
		return nil, unavailableError("notebook store not available", nil)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidError("notebook name is required", store.ErrNotebookName)
	}
	created, err := s.notebooks.Add(ctx, &types.Notebook{Name: name})
	if err != nil {
		if errors.Is(err, store.ErrNotebookName) {
			return nil, invalidError("notebook name is required", err)
		}
		return nil, unavailableError(err.Error(), err)
	}
	return created, nil
}

func (s *NotebookService) Rename(ctx context.Context, id, name string) (*types.Notebook, error) {
	if s.notebooks == nil {
		return nil, unavailableError("notebook store not available", nil)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalidError("notebook id is required", nil)
	}
	if strings.TrimSpace(name) == "" {
		return nil, invalidError("notebook name is required", store.ErrNotebookName)
	}
	renamed, err := s.notebooks.Rename(ctx, id, name)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotebookNotFound):
			return nil, notFoundError("notebook not found", err)
		case errors.Is(err, store.ErrNotebookName):
			return nil, invalidError("notebook name is required", err)
		default:
			return nil, unavailableError(err.Error(), err)
		}
	}
	return renamed, nil
}

// Delete removes an empty notebook. Notebooks that still hold active notes
// are refused with a conflict so the caller can surface the count.
func (s *NotebookService) Delete(ctx context.Context, id string) error {
	if s.notebooks == nil || s.notes == nil {
		return unavailableError("notebook store not available", nil)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return invalidError("notebook id is required", nil)
	}
	_, ok, err := s.notebooks.Get(ctx, id)
	if err != nil {
		return unavailableError(err.Error(), err)
	}
	if !ok {
		return notFoundError("notebook not found", store.ErrNotebookNotFound)
	}
	count, err := s.notes.CountActive(ctx, id)
	if err != nil {
		return unavailableError(err.Error(), err)
	}
	if count > 0 {
		return conflictError("notebook still contains notes", nil)
	}
	if err := s.notebooks.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotebookNotFound) {
			return notFoundError("notebook not found", err)
		}
		return unavailableError(err.Error(), err)
	}
	return nil
}
