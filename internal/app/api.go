package app

import (
	"context"

	"quill/internal/client"
	"quill/internal/types"
)

type NotesAPI interface {
	ListNotebooks(ctx context.Context) ([]*types.Notebook, error)
	CreateNotebook(ctx context.Context, name string) (*types.Notebook, error)
	RenameNotebook(ctx context.Context, id, name string) (*types.Notebook, error)
	DeleteNotebook(ctx context.Context, id string) error
	ListNotes(ctx context.Context, notebookID string) ([]*types.NoteListEntry, error)
	CreateNote(ctx context.Context, notebookID string) (*types.Note, error)
	GetNote(ctx context.Context, id string) (*types.Note, error)
	UpdateNote(ctx context.Context, id string, patch client.UpdateNoteRequest) (*types.Note, error)
	TrashNote(ctx context.Context, id string) error
}

type ClientAPI struct {
	client *client.Client
}

func NewClientAPI(client *client.Client) *ClientAPI {
	return &ClientAPI{client: client}
}

func (a *ClientAPI) ListNotebooks(ctx context.Context) ([]*types.Notebook, error) {
	return a.client.ListNotebooks(ctx)
}

func (a *ClientAPI) CreateNotebook(ctx context.Context, name string) (*types.Notebook, error) {
	return a.client.CreateNotebook(ctx, name)
}

func (a *ClientAPI) RenameNotebook(ctx context.Context, id, name string) (*types.Notebook, error) {
	return a.client.RenameNotebook(ctx, id, name)
}

func (a *ClientAPI) DeleteNotebook(ctx context.Context, id string) error {
	return a.client.DeleteNotebook(ctx, id)
}

func (a *ClientAPI) ListNotes(ctx context.Context, notebookID string) ([]*types.NoteListEntry, error) {
	return a.client.ListNotes(ctx, notebookID)
}

func (a *ClientAPI) CreateNote(ctx context.Context, notebookID string) (*types.Note, error) {
	return a.client.CreateNote(ctx, notebookID)
}

func (a *ClientAPI) GetNote(ctx context.Context, id string) (*types.Note, error) {
	return a.client.GetNote(ctx, id)
}

func (a *ClientAPI) UpdateNote(ctx context.Context, id string, patch client.UpdateNoteRequest) (*types.Note, error) {
	return a.client.UpdateNote(ctx, id, patch)
}

func (a *ClientAPI) TrashNote(ctx context.Context, id string) error {
	return a.client.TrashNote(ctx, id)
}
