package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"quill/internal/types"
)

func fetchNotebooksCmd(api NotesAPI) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		notebooks, err := api.ListNotebooks(ctx)
		return notebooksMsg{notebooks: notebooks, err: err}
	}
}

func createNotebookCmd(api NotesAPI, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		notebook, err := api.CreateNotebook(ctx, name)
		return notebookCreatedMsg{notebook: notebook, err: err}
	}
}

func renameNotebookCmd(api NotesAPI, id, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		notebook, err := api.RenameNotebook(ctx, id, name)
		return notebookRenamedMsg{notebook: notebook, err: err}
	}
}

func deleteNotebookCmd(api NotesAPI, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		err := api.DeleteNotebook(ctx, id)
		return notebookDeletedMsg{id: id, err: err}
	}
}

func fetchNoteListCmd(api NotesAPI, cache *FetchCache, notebookID string, epoch int) tea.Cmd {
	return func() tea.Msg {
		entries, err := cache.NoteList(notebookID, epoch, func() ([]*types.NoteListEntry, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
			defer cancel()
			return api.ListNotes(ctx, notebookID)
		})
		return noteListMsg{notebookID: notebookID, epoch: epoch, entries: entries, err: err}
	}
}

func fetchNoteDetailCmd(api NotesAPI, cache *FetchCache, noteID string) tea.Cmd {
	return func() tea.Msg {
		note, err := cache.NoteDetail(noteID, func() (*types.Note, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
			defer cancel()
			return api.GetNote(ctx, noteID)
		})
		return noteDetailMsg{noteID: noteID, note: note, err: err}
	}
}

func createNoteCmd(api NotesAPI, notebookID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		note, err := api.CreateNote(ctx, notebookID)
		return noteCreatedMsg{notebookID: notebookID, note: note, err: err}
	}
}

func trashNoteCmd(api NotesAPI, noteID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		err := api.TrashNote(ctx, noteID)
		return noteTrashedMsg{noteID: noteID, err: err}
	}
}
