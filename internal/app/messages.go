package app

import "quill/internal/types"

type notebooksMsg struct {
	notebooks []*types.Notebook
	err       error
}

type notebookCreatedMsg struct {
	notebook *types.Notebook
	err      error
}

type notebookRenamedMsg struct {
	notebook *types.Notebook
	err      error
}

type notebookDeletedMsg struct {
	id  string
	err error
}

type noteListMsg struct {
	notebookID string
	epoch      int
	entries    []*types.NoteListEntry
	err        error
}

type noteDetailMsg struct {
	noteID string
	note   *types.Note
	err    error
}

type noteCreatedMsg struct {
	notebookID string
	note       *types.Note
	err        error
}

type noteTrashedMsg struct {
	noteID string
	err    error
}

// saveFlushMsg fires when an autosave quiet period elapses. seq identifies
// the scheduling generation; stale generations are dropped.
type saveFlushMsg struct {
	noteID string
	seq    int
}

type noteSavedMsg struct {
	noteID string
	seq    int
	note   *types.Note
	err    error
}

type copyStatusMsg struct {
	text string
	err  error
}
