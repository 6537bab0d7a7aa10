package app

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quill/internal/client"
	"quill/internal/types"
)

type editorFocus int

const (
	editorFocusTitle editorFocus = iota
	editorFocusContent
)

// EditorPanel hosts the title input and content editor for the bound note.
// Binding a different note id rebuilds both inputs from scratch; stale
// keystrokes or fetch results for a previous note never leak through.
type EditorPanel struct {
	noteID   string
	title    textinput.Model
	content  textarea.Model
	focus    editorFocus
	loading  bool
	notFound bool
	loadErr  error

	// rawContent holds the note content verbatim when it is not a plain
	// JSON string; edits then re-encode from the textarea text.
	rawContent    json.RawMessage
	contentOpaque bool
}

func newEditorPanel() EditorPanel {
	title := textinput.New()
	title.Placeholder = "Untitled"
	title.CharLimit = 200
	title.Focus()

	content := textarea.New()
	content.Placeholder = "Start writing…"
	content.CharLimit = 0

	return EditorPanel{
		title:   title,
		content: content,
		focus:   editorFocusTitle,
	}
}

func (e *EditorPanel) NoteID() string { return e.noteID }
func (e *EditorPanel) Loading() bool  { return e.loading }
func (e *EditorPanel) NotFound() bool { return e.notFound }
func (e *EditorPanel) LoadErr() error { return e.loadErr }

// BindNote re-keys the panel to a note id. An empty id unbinds.
func (e *EditorPanel) BindNote(noteID string) {
	fresh := newEditorPanel()
	fresh.noteID = noteID
	fresh.loading = noteID != ""
	*e = fresh
}

// HandleDetail seeds the inputs from a fetched note. Results for a note
// other than the bound one are dropped.
func (e *EditorPanel) HandleDetail(msg noteDetailMsg) {
	if msg.noteID != e.noteID {
		return
	}
	e.loading = false
	if msg.err != nil {
		if client.IsNotFound(msg.err) {
			e.notFound = true
		} else {
			e.loadErr = msg.err
		}
		return
	}
	e.seed(msg.note)
}

func (e *EditorPanel) seed(note *types.Note) {
	if note == nil {
		e.notFound = true
		return
	}
	e.title.SetValue(note.Title)
	e.title.CursorEnd()

	text, plain := noteContentText(note.Content)
	if plain {
		e.content.SetValue(text)
		e.rawContent = nil
		e.contentOpaque = false
	} else {
		e.content.SetValue(text)
		e.rawContent = append(json.RawMessage(nil), note.Content...)
		e.contentOpaque = true
	}
}

// Update routes a message to the focused input and reports the resulting
// patch, if the edit changed anything worth saving.
func (e *EditorPanel) Update(msg tea.Msg) (tea.Cmd, *client.UpdateNoteRequest) {
	if e.noteID == "" || e.loading || e.notFound {
		return nil, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyTab {
		e.toggleFocus()
		return nil, nil
	}

	switch e.focus {
	case editorFocusTitle:
		before := e.title.Value()
		var cmd tea.Cmd
		e.title, cmd = e.title.Update(msg)
		if e.title.Value() != before {
			title := e.title.Value()
			return cmd, &client.UpdateNoteRequest{Title: &title}
		}
		return cmd, nil
	default:
		before := e.content.Value()
		var cmd tea.Cmd
		e.content, cmd = e.content.Update(msg)
		if e.content.Value() != before {
			e.contentOpaque = false
			e.rawContent = nil
			return cmd, &client.UpdateNoteRequest{Content: encodeContentText(e.content.Value())}
		}
		return cmd, nil
	}
}

func (e *EditorPanel) toggleFocus() {
	if e.focus == editorFocusTitle {
		e.focus = editorFocusContent
		e.title.Blur()
		e.content.Focus()
	} else {
		e.focus = editorFocusTitle
		e.content.Blur()
		e.title.Focus()
	}
}

func (e *EditorPanel) TitleValue() string { return e.title.Value() }

// ContentValue returns the text shown in the content editor.
func (e *EditorPanel) ContentValue() string { return e.content.Value() }

// ContentJSON returns the content as it would travel on the wire.
func (e *EditorPanel) ContentJSON() json.RawMessage {
	if e.contentOpaque {
		return e.rawContent
	}
	return encodeContentText(e.content.Value())
}

func (e *EditorPanel) SetSize(width, height int) {
	if width > 4 {
		e.title.Width = width - 4
		e.content.SetWidth(width)
	}
	if height > 4 {
		e.content.SetHeight(height - 3)
	}
}

// noteContentText extracts editable text from a content value. A JSON
// string decodes to its text; null and empty read as empty; any other
// shape renders as compact JSON and is flagged opaque.
func noteContentText(raw json.RawMessage) (string, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", true
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, true
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw), false
	}
	return buf.String(), false
}

func encodeContentText(text string) json.RawMessage {
	encoded, err := json.Marshal(text)
	if err != nil {
		return json.RawMessage(`""`)
	}
	return json.RawMessage(encoded)
}
