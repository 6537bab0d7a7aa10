package app

import (
	"fmt"
	"strings"
	"time"

	runewidth "github.com/mattn/go-runewidth"

	"quill/internal/types"
)

// noteList is the middle pane: entries of the selected notebook, most
// recently updated first (ordering comes from the daemon).
type noteList struct {
	notebookID string
	entries    []*types.NoteListEntry
	cursor     int
	loading    bool
	loadErr    error
	width      int
}

func newNoteList() noteList {
	return noteList{width: 32}
}

// BindNotebook points the list at a notebook and marks it loading. An empty
// id empties the pane.
func (l *noteList) BindNotebook(notebookID string) {
	l.notebookID = notebookID
	l.entries = nil
	l.cursor = 0
	l.loadErr = nil
	l.loading = notebookID != ""
}

func (l *noteList) HandleList(msg noteListMsg) {
	if msg.notebookID != l.notebookID {
		return
	}
	l.loading = false
	if msg.err != nil {
		l.loadErr = msg.err
		return
	}
	l.loadErr = nil
	l.entries = msg.entries
	if l.cursor >= len(l.entries) {
		l.cursor = len(l.entries) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *noteList) MoveCursor(delta int) {
	if len(l.entries) == 0 {
		return
	}
	l.cursor += delta
	if l.cursor < 0 {
		l.cursor = 0
	}
	if l.cursor >= len(l.entries) {
		l.cursor = len(l.entries) - 1
	}
}

func (l *noteList) Current() *types.NoteListEntry {
	if l.cursor < 0 || l.cursor >= len(l.entries) {
		return nil
	}
	return l.entries[l.cursor]
}

func (l *noteList) CursorTo(id string) {
	for i, entry := range l.entries {
		if entry != nil && entry.ID == id {
			l.cursor = i
			return
		}
	}
}

func (l *noteList) Len() int { return len(l.entries) }

func (l *noteList) View(selectedID string, focused bool) string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Notes"))
	b.WriteString("\n")

	switch {
	case l.notebookID == "":
		b.WriteString(dimStyle.Render("select a notebook"))
	case l.loading:
		b.WriteString(dimStyle.Render("loading…"))
	case l.loadErr != nil:
		b.WriteString(errorStyle.Render("failed to load notes"))
	case len(l.entries) == 0:
		b.WriteString(dimStyle.Render("no notes — press n"))
	default:
		now := time.Now()
		for i, entry := range l.entries {
			title := entry.Title
			if title == "" {
				title = types.DefaultNoteTitle
			}
			age := relativeTime(entry.UpdatedAt, now)
			avail := l.width - runewidth.StringWidth(age) - 5
			if avail < 8 {
				avail = 8
			}
			row := fmt.Sprintf("%s %s",
				runewidth.FillRight(runewidth.Truncate(title, avail, "…"), avail),
				dimStyle.Render(age),
			)
			marker := "  "
			if entry.ID == selectedID {
				marker = "* "
			}
			row = marker + row
			if focused && i == l.cursor {
				row = selectedRowStyle.Render(marker+runewidth.FillRight(runewidth.Truncate(title, avail, "…"), avail)) + " " + dimStyle.Render(age)
			}
			b.WriteString(row)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func relativeTime(t time.Time, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
