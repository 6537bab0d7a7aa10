package app

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
)

// renderMarkdownPreview renders note text as terminal markdown. On renderer
// failure the raw text comes back unchanged.
func renderMarkdownPreview(text string, width int) string {
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}

// previewPlainText strips ANSI sequences from a rendered preview, for
// clipboard use.
func previewPlainText(rendered string) string {
	return ansi.Strip(rendered)
}
