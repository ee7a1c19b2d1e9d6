// Package ui renders user-facing output and reads interactive answers.
//
// Diagnostics go to zerolog; everything the user is meant to read goes
// through a Printer so that terminal and plain-text output stay in one
// place.
package ui

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// Printer writes status lines to a single writer
type Printer struct {
	out    io.Writer
	styled bool
}

// NewPrinter creates a printer. FormatAuto is resolved against out.
func NewPrinter(out io.Writer, format Format) *Printer {
	return &Printer{
		out:    out,
		styled: Resolve(format, out) == FormatTerminal,
	}
}

// Styled reports whether the printer emits terminal styling
func (p *Printer) Styled() bool {
	return p.styled
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Println writes an unadorned line
func (p *Printer) Println(a ...interface{}) {
	fmt.Fprintln(p.out, a...)
}

// Printf writes unadorned formatted text
func (p *Printer) Printf(format string, a ...interface{}) {
	fmt.Fprintf(p.out, format, a...)
}

// Info writes an informational line
func (p *Printer) Info(format string, a ...interface{}) {
	p.prefixed(pterm.Info, format, a...)
}

// Success writes a success line
func (p *Printer) Success(format string, a ...interface{}) {
	p.prefixed(pterm.Success, format, a...)
}

// Warning writes a warning line
func (p *Printer) Warning(format string, a ...interface{}) {
	p.prefixed(pterm.Warning, format, a...)
}

// Error writes an error line
func (p *Printer) Error(format string, a ...interface{}) {
	p.prefixed(pterm.Error, format, a...)
}

// Heading writes a section heading
func (p *Printer) Heading(text string) {
	if p.styled {
		fmt.Fprintln(p.out, headingStyle.Render(text))
		return
	}
	fmt.Fprintf(p.out, "\n%s\n", text)
}

func (p *Printer) prefixed(printer pterm.PrefixPrinter, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	if !p.styled {
		fmt.Fprintln(p.out, msg)
		return
	}
	printer.WithWriter(p.out).Println(msg)
}

// Path highlights a filesystem path
func (p *Printer) Path(s string) string {
	if !p.styled {
		return s
	}
	return pathStyle.Render(s)
}

// Version highlights a version number
func (p *Printer) Version(s string) string {
	if !p.styled {
		return s
	}
	return versionStyle.Render(s)
}

// Accent highlights a keyword such as a bump level
func (p *Printer) Accent(s string) string {
	if !p.styled {
		return s
	}
	return accentStyle.Render(s)
}

// Muted dims secondary text
func (p *Printer) Muted(s string) string {
	if !p.styled {
		return s
	}
	return mutedStyle.Render(s)
}
