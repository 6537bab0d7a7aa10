package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"quill/internal/client"
	"quill/internal/logging"
)

type focusPane int

const (
	focusSidebar focusPane = iota
	focusNotes
	focusEditor
)

type Model struct {
	api       NotesAPI
	cache     *FetchCache
	selection Selection
	scheduler *SaveScheduler
	logger    logging.Logger

	sidebar notebookSidebar
	notes   noteList
	editor  EditorPanel

	focus      focusPane
	width      int
	height     int
	statusText string
	statusErr  bool
	preview    bool
}

type ModelOptions struct {
	API              NotesAPI
	Cache            *FetchCache
	Logger           logging.Logger
	AutosaveDebounce time.Duration
}

func NewModel(opts ModelOptions) *Model {
	cache := opts.Cache
	if cache == nil {
		cache = NewFetchCache()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Model{
		api:       opts.API,
		cache:     cache,
		scheduler: NewSaveScheduler(opts.API, opts.AutosaveDebounce),
		logger:    logger,
		sidebar:   newNotebookSidebar(),
		notes:     newNoteList(),
		editor:    newEditorPanel(),
		focus:     focusSidebar,
	}
}

// Run starts the terminal UI against a daemon client and blocks until the
// user quits. Any buffered edit is flushed on the way out.
func Run(c *client.Client, opts ModelOptions) error {
	if opts.API == nil {
		opts.API = NewClientAPI(c)
	}
	model := NewModel(opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	model.Teardown()
	return err
}

func (m *Model) Init() tea.Cmd {
	return fetchNotebooksCmd(m.api)
}

func (m *Model) Cache() *FetchCache { return m.cache }

// Teardown flushes any buffered edit before the program exits. The save is
// fire-and-forget; the UI does not wait for the outcome.
func (m *Model) Teardown() {
	m.scheduler.FlushDetached()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sidebar.width = msg.Width / 5
		m.notes.width = msg.Width / 4
		m.editor.SetSize(msg.Width-m.sidebar.width-m.notes.width-8, msg.Height-3)
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case notebooksMsg:
		return m.updateNotebooks(msg)

	case notebookCreatedMsg:
		if msg.err != nil {
			m.setStatusError("create notebook failed: " + msg.err.Error())
			return m, nil
		}
		m.selectNotebook(msg.notebook.ID)
		return m, tea.Batch(
			fetchNotebooksCmd(m.api),
			m.fetchSelectedList(),
		)

	case notebookRenamedMsg:
		if msg.err != nil {
			m.setStatusError("rename failed: " + msg.err.Error())
			return m, nil
		}
		return m, fetchNotebooksCmd(m.api)

	case notebookDeletedMsg:
		return m.updateNotebookDeleted(msg)

	case noteListMsg:
		if msg.notebookID == m.selection.NotebookID() && msg.epoch == m.selection.Epoch() {
			m.notes.HandleList(msg)
			if m.selection.NoteID() != "" {
				m.notes.CursorTo(m.selection.NoteID())
			}
		}
		return m, nil

	case noteDetailMsg:
		m.editor.HandleDetail(msg)
		return m, nil

	case noteCreatedMsg:
		return m.updateNoteCreated(msg)

	case noteTrashedMsg:
		return m.updateNoteTrashed(msg)

	case saveFlushMsg:
		return m, m.scheduler.HandleFlush(msg)

	case noteSavedMsg:
		m.scheduler.HandleSaved(msg)
		return m, nil

	case copyStatusMsg:
		if msg.err != nil {
			m.setStatusError("copy failed: " + msg.err.Error())
		} else {
			m.setStatusInfo(msg.text)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) updateNotebooks(msg notebooksMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.sidebar.SetError(msg.err)
		m.setStatusError("failed to load notebooks")
		return m, nil
	}
	m.sidebar.SetNotebooks(msg.notebooks)
	if id, ok := m.selection.AutoSelectFirst(msg.notebooks); ok {
		m.sidebar.CursorTo(id)
		m.notes.BindNotebook(id)
		return m, m.fetchSelectedList()
	}
	if m.selection.NotebookID() != "" {
		m.sidebar.CursorTo(m.selection.NotebookID())
	}
	return m, nil
}

func (m *Model) updateNotebookDeleted(msg notebookDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Deletion failures stay out of the foreground; the notebook simply
		// remains in the sidebar after the refresh.
		m.logger.Warn("notebook_delete_failed",
			logging.F("notebook_id", msg.id),
			logging.F("error", msg.err.Error()),
		)
		return m, fetchNotebooksCmd(m.api)
	}
	wasSelected := m.selection.NotebookID() == msg.id
	m.selection.NotebookDeleted(msg.id)
	if wasSelected {
		m.notes.BindNotebook("")
		m.bindEditor("")
		m.focus = focusSidebar
	}
	return m, fetchNotebooksCmd(m.api)
}

func (m *Model) updateNoteCreated(msg noteCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatusError("create note failed: " + msg.err.Error())
		return m, nil
	}
	if msg.notebookID != m.selection.NotebookID() {
		return m, nil
	}
	m.selection.NoteCreated(msg.note.ID)
	m.bindEditor(msg.note.ID)
	// The creation response carries the full note; no detail fetch needed.
	m.editor.HandleDetail(noteDetailMsg{noteID: msg.note.ID, note: msg.note})
	m.focus = focusEditor
	return m, m.fetchSelectedList()
}

func (m *Model) updateNoteTrashed(msg noteTrashedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatusError("delete note failed: " + msg.err.Error())
		return m, nil
	}
	if m.selection.NoteID() == msg.noteID {
		m.selection.SelectNote("")
		m.bindEditor("")
		m.focus = focusNotes
	}
	m.selection.BumpEpoch()
	return m, m.fetchSelectedList()
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.Teardown()
		return m, tea.Quit
	}

	if m.sidebar.Mode() == sidebarModeCreate || m.sidebar.Mode() == sidebarModeRename {
		return m.updateSidebarInput(msg)
	}
	if m.sidebar.Mode() == sidebarModeConfirmDelete {
		return m.updateSidebarConfirm(msg)
	}

	switch m.focus {
	case focusSidebar:
		return m.updateSidebarKeys(msg)
	case focusNotes:
		return m.updateNotesKeys(msg)
	default:
		return m.updateEditorKeys(msg)
	}
}

func (m *Model) updateSidebarInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.sidebar.CancelMode()
		return m, nil
	case tea.KeyEnter:
		name := m.sidebar.InputValue()
		mode := m.sidebar.Mode()
		m.sidebar.CancelMode()
		if name == "" {
			return m, nil
		}
		if mode == sidebarModeCreate {
			return m, createNotebookCmd(m.api, name)
		}
		if current := m.sidebar.Current(); current != nil {
			return m, renameNotebookCmd(m.api, current.ID, name)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.sidebar.input, cmd = m.sidebar.input.Update(msg)
	return m, cmd
}

func (m *Model) updateSidebarConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		current := m.sidebar.Current()
		m.sidebar.CancelMode()
		if current == nil {
			return m, nil
		}
		return m, deleteNotebookCmd(m.api, current.ID)
	default:
		m.sidebar.CancelMode()
		return m, nil
	}
}

func (m *Model) updateSidebarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.Teardown()
		return m, tea.Quit
	case "up", "k":
		m.sidebar.MoveCursor(-1)
	case "down", "j":
		m.sidebar.MoveCursor(1)
	case "enter":
		if current := m.sidebar.Current(); current != nil {
			m.selectNotebook(current.ID)
			m.focus = focusNotes
			return m, m.fetchSelectedList()
		}
	case "n":
		m.sidebar.BeginCreate()
	case "r":
		m.sidebar.BeginRename()
	case "d":
		m.sidebar.BeginConfirmDelete()
	case "right", "l", "tab":
		if m.selection.NotebookID() != "" {
			m.focus = focusNotes
		}
	}
	return m, nil
}

func (m *Model) updateNotesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.Teardown()
		return m, tea.Quit
	case "up", "k":
		m.notes.MoveCursor(-1)
	case "down", "j":
		m.notes.MoveCursor(1)
	case "enter":
		if current := m.notes.Current(); current != nil {
			return m, m.selectNote(current.ID)
		}
	case "n":
		if m.selection.NotebookID() != "" {
			return m, createNoteCmd(m.api, m.selection.NotebookID())
		}
	case "d":
		if current := m.notes.Current(); current != nil {
			return m, trashNoteCmd(m.api, current.ID)
		}
	case "left", "h":
		m.focus = focusSidebar
	case "right", "l", "tab":
		if m.selection.NoteID() != "" {
			m.focus = focusEditor
		}
	}
	return m, nil
}

func (m *Model) updateEditorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		if m.preview {
			m.preview = false
			return m, nil
		}
		m.focus = focusNotes
		return m, nil
	case tea.KeyCtrlP:
		m.preview = !m.preview
		return m, nil
	case tea.KeyCtrlY:
		text := m.editor.ContentValue()
		return m, func() tea.Msg {
			if err := copyTextToClipboard(text); err != nil {
				return copyStatusMsg{err: err}
			}
			return copyStatusMsg{text: "note copied"}
		}
	}
	if m.preview {
		return m, nil
	}

	cmd, patch := m.editor.Update(msg)
	if patch == nil {
		return m, cmd
	}
	if patch.Title != nil {
		m.updateListTitle(m.editor.NoteID(), *patch.Title)
	}
	return m, tea.Batch(cmd, m.scheduler.Schedule(*patch))
}

func (m *Model) updateListTitle(noteID, title string) {
	for _, entry := range m.notes.entries {
		if entry != nil && entry.ID == noteID {
			entry.Title = title
			return
		}
	}
}

func (m *Model) selectNotebook(id string) {
	m.selection.SelectNotebook(id)
	m.sidebar.CursorTo(id)
	m.notes.BindNotebook(id)
	m.bindEditor("")
}

func (m *Model) selectNote(id string) tea.Cmd {
	if !m.selection.SelectNote(id) {
		return nil
	}
	m.bindEditor(id)
	m.focus = focusEditor
	return fetchNoteDetailCmd(m.api, m.cache, id)
}

// bindEditor re-keys the editor and scheduler together. The scheduler
// flushes any pending edit for the previous note on the way out.
func (m *Model) bindEditor(noteID string) {
	m.scheduler.Bind(noteID)
	m.editor.BindNote(noteID)
	m.preview = false
}

func (m *Model) fetchSelectedList() tea.Cmd {
	notebookID := m.selection.NotebookID()
	if notebookID == "" {
		return nil
	}
	return fetchNoteListCmd(m.api, m.cache, notebookID, m.selection.Epoch())
}

func (m *Model) setStatusInfo(text string) {
	m.statusText = text
	m.statusErr = false
}

func (m *Model) setStatusError(text string) {
	m.statusText = text
	m.statusErr = true
}

func (m *Model) saveStatusLabel() string {
	switch m.scheduler.Status() {
	case SaveStatusSaving:
		return "Saving…"
	case SaveStatusSaved:
		return "Saved"
	case SaveStatusError:
		return "Error saving"
	default:
		return ""
	}
}

func (m *Model) View() string {
	sidebarView := m.paneStyle(focusSidebar).Width(m.sidebar.width).Render(
		m.sidebar.View(m.selection.NotebookID(), m.focus == focusSidebar),
	)
	notesView := m.paneStyle(focusNotes).Width(m.notes.width).Render(
		m.notes.View(m.selection.NoteID(), m.focus == focusNotes),
	)
	editorView := m.paneStyle(focusEditor).Render(m.editorView())

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebarView, notesView, editorView)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar())
}

func (m *Model) paneStyle(pane focusPane) lipgloss.Style {
	if m.focus == pane {
		return paneFocusedStyle
	}
	return paneStyle
}

func (m *Model) editorView() string {
	switch {
	case m.editor.NoteID() == "":
		return dimStyle.Render("select a note")
	case m.editor.Loading():
		return dimStyle.Render("loading note…")
	case m.editor.NotFound():
		return errorStyle.Render("note not found")
	case m.editor.LoadErr() != nil:
		return errorStyle.Render("failed to load note")
	}

	header := m.editor.title.View()
	if label := m.saveStatusLabel(); label != "" {
		style := saveStatusStyle
		if m.scheduler.Status() == SaveStatusError {
			style = saveErrorStyle
		}
		header += "  " + style.Render(label)
	}

	bodyWidth := m.width - m.sidebar.width - m.notes.width - 8
	if m.preview {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			renderMarkdownPreview(m.editor.ContentValue(), bodyWidth),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.editor.content.View())
}

func (m *Model) statusBar() string {
	text := m.statusText
	if text == "" {
		text = "n:new  r:rename  d:delete  enter:open  tab:focus  ctrl+p:preview  ctrl+y:copy  q:quit"
	}
	style := statusBarStyle
	if m.statusErr {
		style = style.Foreground(lipgloss.Color("203"))
	}
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return style.Render(text)
}
