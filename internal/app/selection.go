package app

import "quill/internal/types"

// Selection tracks which notebook and note the UI is focused on, plus the
// refresh epoch that keys note-list fetches. A note is only ever selected
// inside the currently selected notebook.
type Selection struct {
	notebookID   string
	noteID       string
	epoch        int
	autoSelected bool
}

func (s *Selection) NotebookID() string { return s.notebookID }
func (s *Selection) NoteID() string     { return s.noteID }
func (s *Selection) Epoch() int         { return s.epoch }

// SelectNotebook switches the notebook focus. The note selection always
// clears, even when reselecting the notebook that is already active.
func (s *Selection) SelectNotebook(id string) {
	s.notebookID = id
	s.noteID = ""
}

// SelectNote focuses a note. Without a notebook selected there is nothing
// to focus in, so the call is ignored.
func (s *Selection) SelectNote(id string) bool {
	if s.notebookID == "" {
		return false
	}
	s.noteID = id
	return true
}

// NoteCreated selects the newly created note and bumps the epoch in one
// transition, so the dependent list re-fetch sees the final state.
func (s *Selection) NoteCreated(id string) {
	if s.notebookID == "" {
		return
	}
	s.noteID = id
	s.epoch++
}

// BumpEpoch invalidates the note list for the current notebook.
func (s *Selection) BumpEpoch() {
	s.epoch++
}

// NotebookDeleted clears both selections when the deleted notebook was the
// active one. No replacement is auto-selected.
func (s *Selection) NotebookDeleted(id string) {
	if s.notebookID != id {
		return
	}
	s.notebookID = ""
	s.noteID = ""
}

// AutoSelectFirst picks the first notebook once per Selection lifetime, and
// only when nothing is selected yet. Returns the chosen id.
func (s *Selection) AutoSelectFirst(notebooks []*types.Notebook) (string, bool) {
	if s.autoSelected || s.notebookID != "" || len(notebooks) == 0 {
		return "", false
	}
	s.autoSelected = true
	first := notebooks[0]
	if first == nil || first.ID == "" {
		return "", false
	}
	s.SelectNotebook(first.ID)
	return first.ID, true
}
