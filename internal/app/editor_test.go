package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"quill/internal/client"
	"quill/internal/types"
)

func notFoundErr() error {
	return &client.APIError{StatusCode: http.StatusNotFound, Message: "note not found"}
}

func TestEditorPanelSeedsFromFetchedNote(t *testing.T) {
	panel := newEditorPanel()
	panel.BindNote("note_1")
	if !panel.Loading() {
		t.Fatalf("expected loading while fetch is in flight")
	}

	panel.HandleDetail(noteDetailMsg{
		noteID: "note_1",
		note: &types.Note{
			ID:      "note_1",
			Title:   "Trip plan",
			Content: json.RawMessage(`"pack light"`),
		},
	})

	if panel.Loading() {
		t.Fatalf("expected loading cleared")
	}
	if panel.TitleValue() != "Trip plan" {
		t.Fatalf("expected title seeded, got %q", panel.TitleValue())
	}
	if panel.ContentValue() != "pack light" {
		t.Fatalf("expected content text seeded, got %q", panel.ContentValue())
	}
}

func TestEditorPanelDropsStaleDetail(t *testing.T) {
	panel := newEditorPanel()
	panel.BindNote("note_2")

	panel.HandleDetail(noteDetailMsg{
		noteID: "note_1",
		note:   &types.Note{ID: "note_1", Title: "Old"},
	})

	if !panel.Loading() || panel.TitleValue() != "" {
		t.Fatalf("expected stale detail ignored")
	}
}

func TestEditorPanelNotFoundIsTerminal(t *testing.T) {
	panel := newEditorPanel()
	panel.BindNote("note_gone")

	panel.HandleDetail(noteDetailMsg{noteID: "note_gone", err: notFoundErr()})
	if !panel.NotFound() {
		t.Fatalf("expected not-found state")
	}

	// Keystrokes are inert in the terminal state.
	_, patch := panel.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if patch != nil {
		t.Fatalf("expected no patch after not-found")
	}
}

func TestEditorPanelLoadErrorIsNotNotFound(t *testing.T) {
	panel := newEditorPanel()
	panel.BindNote("note_1")

	panel.HandleDetail(noteDetailMsg{noteID: "note_1", err: errors.New("network down")})
	if panel.NotFound() {
		t.Fatalf("expected generic error, not not-found")
	}
	if panel.LoadErr() == nil {
		t.Fatalf("expected load error recorded")
	}
}

func TestEditorPanelTitleEditProducesPatch(t *testing.T) {
	panel := newEditorPanel()
	panel.BindNote("note_1")
	panel.HandleDetail(noteDetailMsg{
		noteID: "note_1",
		note:   &types.Note{ID: "note_1", Title: "T"},
	})

	_, patch := panel.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if patch == nil || patch.Title == nil {
		t.Fatalf("expected title patch")
	}
	if *patch.Title != "Tx" {
		t.Fatalf("expected appended rune, got %q", *patch.Title)
	}
}

func TestEditorPanelContentEditProducesPatch(t *testing.T) {
	panel := newEditorPanel()
	panel.BindNote("note_1")
	panel.HandleDetail(noteDetailMsg{
		noteID: "note_1",
		note:   &types.Note{ID: "note_1", Title: "T", Content: json.RawMessage(`"abc"`)},
	})

	// Tab moves focus to the content editor.
	_, patch := panel.Update(tea.KeyMsg{Type: tea.KeyTab})
	if patch != nil {
		t.Fatalf("focus toggle must not patch")
	}
	_, patch = panel.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	if patch == nil || patch.Content == nil {
		t.Fatalf("expected content patch")
	}
	var text string
	if err := json.Unmarshal(patch.Content, &text); err != nil {
		t.Fatalf("content must encode as a JSON string: %v", err)
	}
	if text != "abcd" {
		t.Fatalf("unexpected content %q", text)
	}
}

func TestEditorPanelOpaqueContentRoundTrips(t *testing.T) {
	panel := newEditorPanel()
	panel.BindNote("note_1")
	raw := json.RawMessage(`{"blocks":[{"type":"p","text":"hi"}]}`)
	panel.HandleDetail(noteDetailMsg{
		noteID: "note_1",
		note:   &types.Note{ID: "note_1", Title: "T", Content: raw},
	})

	if string(panel.ContentJSON()) != string(raw) {
		t.Fatalf("expected untouched opaque content, got %s", panel.ContentJSON())
	}
}

func TestEditorPanelRebindResetsState(t *testing.T) {
	panel := newEditorPanel()
	panel.BindNote("note_1")
	panel.HandleDetail(noteDetailMsg{
		noteID: "note_1",
		note:   &types.Note{ID: "note_1", Title: "Old title"},
	})

	panel.BindNote("note_2")
	if panel.TitleValue() != "" || !panel.Loading() {
		t.Fatalf("expected fresh panel after rebind")
	}
	if panel.NoteID() != "note_2" {
		t.Fatalf("expected new binding, got %q", panel.NoteID())
	}
}
