package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"quill/internal/client"
	"quill/internal/types"
)

type SaveStatus string

const (
	SaveStatusIdle   SaveStatus = "idle"
	SaveStatusSaving SaveStatus = "saving"
	SaveStatusSaved  SaveStatus = "saved"
	SaveStatusError  SaveStatus = "error"
)

const defaultSaveDebounce = 500 * time.Millisecond

// SaveScheduler debounces note patches. Each Schedule buffers the latest
// payload and arms a timer; only the newest generation's flush dispatches,
// so a burst of edits produces exactly one PATCH carrying the final state.
type SaveScheduler struct {
	api      NotesAPI
	debounce time.Duration

	noteID  string
	seq     int
	pending *client.UpdateNoteRequest
	status  SaveStatus
}

func NewSaveScheduler(api NotesAPI, debounce time.Duration) *SaveScheduler {
	if debounce <= 0 {
		debounce = defaultSaveDebounce
	}
	return &SaveScheduler{
		api:      api,
		debounce: debounce,
		status:   SaveStatusIdle,
	}
}

// Bind points the scheduler at a note. Switching away from a note with a
// buffered update flushes it detached first, so the edit is not lost.
func (s *SaveScheduler) Bind(noteID string) {
	if s.noteID == noteID {
		return
	}
	s.FlushDetached()
	s.noteID = noteID
	s.seq = 0
	s.pending = nil
	s.status = SaveStatusIdle
}

func (s *SaveScheduler) NoteID() string     { return s.noteID }
func (s *SaveScheduler) Status() SaveStatus { return s.status }

// Schedule buffers update, replacing any prior unsent payload, and returns
// the timer command for this generation. Unbound schedulers are inert.
func (s *SaveScheduler) Schedule(update client.UpdateNoteRequest) tea.Cmd {
	if s.noteID == "" {
		return nil
	}
	s.pending = &update
	s.seq++
	noteID, seq := s.noteID, s.seq
	return tea.Tick(s.debounce, func(time.Time) tea.Msg {
		return saveFlushMsg{noteID: noteID, seq: seq}
	})
}

// HandleFlush reacts to a quiet-period expiry. Stale generations and flushes
// for a previously bound note are dropped; the newest one dispatches the
// buffered payload.
func (s *SaveScheduler) HandleFlush(msg saveFlushMsg) tea.Cmd {
	if msg.noteID != s.noteID || msg.seq != s.seq || s.pending == nil {
		return nil
	}
	update := *s.pending
	s.pending = nil
	s.status = SaveStatusSaving
	api := s.api
	noteID, seq := s.noteID, s.seq
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		note, err := api.UpdateNote(ctx, noteID, update)
		return noteSavedMsg{noteID: noteID, seq: seq, note: note, err: err}
	}
}

// HandleSaved records the outcome of a dispatched save. Completions from a
// superseded generation are ignored; a newer Schedule already owns the
// status.
func (s *SaveScheduler) HandleSaved(msg noteSavedMsg) *types.Note {
	if msg.noteID != s.noteID || msg.seq != s.seq {
		return nil
	}
	if msg.err != nil {
		s.status = SaveStatusError
		return nil
	}
	s.status = SaveStatusSaved
	return msg.note
}

// FlushDetached sends any buffered update best-effort in the background.
// Used on teardown and rebinding; the outcome is not observed.
func (s *SaveScheduler) FlushDetached() {
	if s.noteID == "" || s.pending == nil {
		return
	}
	update := *s.pending
	s.pending = nil
	api := s.api
	noteID := s.noteID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		_, _ = api.UpdateNote(ctx, noteID, update)
	}()
}

// Dirty reports whether an unsent payload is buffered.
func (s *SaveScheduler) Dirty() bool {
	return s.pending != nil
}
