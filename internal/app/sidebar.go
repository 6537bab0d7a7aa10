package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	runewidth "github.com/mattn/go-runewidth"

	"quill/internal/types"
)

type sidebarMode int

const (
	sidebarModeList sidebarMode = iota
	sidebarModeCreate
	sidebarModeRename
	sidebarModeConfirmDelete
)

// notebookSidebar is the left pane: the notebook list plus inline create,
// rename, and delete-confirm states.
type notebookSidebar struct {
	notebooks []*types.Notebook
	cursor    int
	mode      sidebarMode
	input     textinput.Model
	loading   bool
	loadErr   error
	width     int
}

func newNotebookSidebar() notebookSidebar {
	input := textinput.New()
	input.Placeholder = "Notebook name"
	input.CharLimit = 100
	return notebookSidebar{
		input:   input,
		loading: true,
		width:   24,
	}
}

func (s *notebookSidebar) SetNotebooks(notebooks []*types.Notebook) {
	s.notebooks = notebooks
	s.loading = false
	s.loadErr = nil
	if s.cursor >= len(notebooks) {
		s.cursor = len(notebooks) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *notebookSidebar) SetError(err error) {
	s.loading = false
	s.loadErr = err
}

func (s *notebookSidebar) MoveCursor(delta int) {
	if len(s.notebooks) == 0 {
		return
	}
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor >= len(s.notebooks) {
		s.cursor = len(s.notebooks) - 1
	}
}

func (s *notebookSidebar) Current() *types.Notebook {
	if s.cursor < 0 || s.cursor >= len(s.notebooks) {
		return nil
	}
	return s.notebooks[s.cursor]
}

// CursorTo moves the cursor onto the notebook with the given id.
func (s *notebookSidebar) CursorTo(id string) {
	for i, nb := range s.notebooks {
		if nb != nil && nb.ID == id {
			s.cursor = i
			return
		}
	}
}

func (s *notebookSidebar) BeginCreate() {
	s.mode = sidebarModeCreate
	s.input.SetValue("")
	s.input.Focus()
}

func (s *notebookSidebar) BeginRename() bool {
	current := s.Current()
	if current == nil {
		return false
	}
	s.mode = sidebarModeRename
	s.input.SetValue(current.Name)
	s.input.CursorEnd()
	s.input.Focus()
	return true
}

func (s *notebookSidebar) BeginConfirmDelete() bool {
	if s.Current() == nil {
		return false
	}
	s.mode = sidebarModeConfirmDelete
	return true
}

func (s *notebookSidebar) CancelMode() {
	s.mode = sidebarModeList
	s.input.Blur()
}

func (s *notebookSidebar) Mode() sidebarMode { return s.mode }

// InputValue returns the trimmed inline input text.
func (s *notebookSidebar) InputValue() string {
	return strings.TrimSpace(s.input.Value())
}

func (s *notebookSidebar) View(selectedID string, focused bool) string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Notebooks"))
	b.WriteString("\n")

	switch {
	case s.loading:
		b.WriteString(dimStyle.Render("loading…"))
	case s.loadErr != nil:
		b.WriteString(errorStyle.Render("failed to load notebooks"))
	case len(s.notebooks) == 0 && s.mode != sidebarModeCreate:
		b.WriteString(dimStyle.Render("no notebooks — press n"))
	default:
		for i, nb := range s.notebooks {
			name := runewidth.Truncate(nb.Name, s.width-4, "…")
			if s.mode == sidebarModeRename && i == s.cursor {
				b.WriteString("> " + s.input.View())
				b.WriteString("\n")
				continue
			}
			marker := "  "
			if nb.ID == selectedID {
				marker = "* "
			}
			row := marker + name
			if focused && i == s.cursor && s.mode == sidebarModeList {
				row = selectedRowStyle.Render(row)
			} else if nb.ID == selectedID {
				row = paneTitleStyle.Render(row)
			}
			b.WriteString(row)
			b.WriteString("\n")
		}
	}

	switch s.mode {
	case sidebarModeCreate:
		b.WriteString("\n+ " + s.input.View())
	case sidebarModeConfirmDelete:
		if current := s.Current(); current != nil {
			b.WriteString("\n" + errorStyle.Render("delete "+current.Name+"? y/n"))
		}
	}
	return b.String()
}
