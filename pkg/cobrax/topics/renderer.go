package topics

import (
	"github.com/charmbracelet/glamour"
)

// Renderer formats topic content for the terminal. format is the topic's
// file extension.
type Renderer interface {
	Render(content string, format string) string
}

// PlainRenderer returns content unchanged
type PlainRenderer struct{}

// Render returns the content unchanged
func (PlainRenderer) Render(content string, format string) string {
	return content
}

// GlamourRenderer renders markdown topics with glamour. Other formats and
// rendering failures fall back to the raw content.
type GlamourRenderer struct {
	// Width wraps output; 0 keeps glamour's default
	Width int
}

// Render converts markdown to styled terminal output
func (r GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if r.Width > 0 {
		opts = append(opts, glamour.WithWordWrap(r.Width))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
