package ui

import (
	"github.com/charmbracelet/glamour"
)

// Markdown writes a markdown document, rendered for the terminal when
// styling is on and verbatim otherwise.
func (p *Printer) Markdown(md string) error {
	if !p.styled {
		p.Printf("%s", md)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		p.Printf("%s", md)
		return nil
	}

	out, err := renderer.Render(md)
	if err != nil {
		return err
	}
	p.Printf("%s", out)
	return nil
}
