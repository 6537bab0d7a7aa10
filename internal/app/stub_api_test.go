package app

import (
	"context"
	"errors"

	"quill/internal/client"
	"quill/internal/types"
)

type stubAPI struct {
	listNotebooks  func(ctx context.Context) ([]*types.Notebook, error)
	createNotebook func(ctx context.Context, name string) (*types.Notebook, error)
	renameNotebook func(ctx context.Context, id, name string) (*types.Notebook, error)
	deleteNotebook func(ctx context.Context, id string) error
	listNotes      func(ctx context.Context, notebookID string) ([]*types.NoteListEntry, error)
	createNote     func(ctx context.Context, notebookID string) (*types.Note, error)
	getNote        func(ctx context.Context, id string) (*types.Note, error)
	updateNote     func(ctx context.Context, id string, patch client.UpdateNoteRequest) (*types.Note, error)
	trashNote      func(ctx context.Context, id string) error
}

var errStubUnset = errors.New("stub not configured")

func (s *stubAPI) ListNotebooks(ctx context.Context) ([]*types.Notebook, error) {
	if s.listNotebooks == nil {
		return nil, errStubUnset
	}
	return s.listNotebooks(ctx)
}

func (s *stubAPI) CreateNotebook(ctx context.Context, name string) (*types.Notebook, error) {
	if s.createNotebook == nil {
		return nil, errStubUnset
	}
	return s.createNotebook(ctx, name)
}

func (s *stubAPI) RenameNotebook(ctx context.Context, id, name string) (*types.Notebook, error) {
	if s.renameNotebook == nil {
		return nil, errStubUnset
	}
	return s.renameNotebook(ctx, id, name)
}

func (s *stubAPI) DeleteNotebook(ctx context.Context, id string) error {
	if s.deleteNotebook == nil {
		return errStubUnset
	}
	return s.deleteNotebook(ctx, id)
}

func (s *stubAPI) ListNotes(ctx context.Context, notebookID string) ([]*types.NoteListEntry, error) {
	if s.listNotes == nil {
		return nil, errStubUnset
	}
	return s.listNotes(ctx, notebookID)
}

func (s *stubAPI) CreateNote(ctx context.Context, notebookID string) (*types.Note, error) {
	if s.createNote == nil {
		return nil, errStubUnset
	}
	return s.createNote(ctx, notebookID)
}

func (s *stubAPI) GetNote(ctx context.Context, id string) (*types.Note, error) {
	if s.getNote == nil {
		return nil, errStubUnset
	}
	return s.getNote(ctx, id)
}

func (s *stubAPI) UpdateNote(ctx context.Context, id string, patch client.UpdateNoteRequest) (*types.Note, error) {
	if s.updateNote == nil {
		return nil, errStubUnset
	}
	return s.updateNote(ctx, id, patch)
}

func (s *stubAPI) TrashNote(ctx context.Context, id string) error {
	if s.trashNote == nil {
		return errStubUnset
	}
	return s.trashNote(ctx, id)
}
