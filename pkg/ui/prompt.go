package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user one question at a time and blocks until a
// line of input arrives.
type Prompter interface {
	// Ask prints question and returns the trimmed answer line
	Ask(question string) (string, error)
	// Confirm asks a yes/no question; an empty answer selects defaultYes
	Confirm(question string, defaultYes bool) (bool, error)
}

// LinePrompter reads answers line by line from a reader
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a prompter reading from in and echoing questions to out
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask prints the question and reads one line. A closed input yields an
// empty answer rather than an error so defaults apply.
func (p *LinePrompter) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read user input: %w", err)
	}
	if errors.Is(err, io.EOF) {
		// keep the terminal tidy when input ends without a newline
		fmt.Fprintln(p.out)
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a y/n question
func (p *LinePrompter) Confirm(question string, defaultYes bool) (bool, error) {
	answer, err := p.Ask(question)
	if err != nil {
		return false, err
	}
	return ParseYes(answer, defaultYes), nil
}

// ParseYes interprets y/yes (any case) as yes, n/no as no and the empty
// answer as defaultYes. Anything else is a no.
func ParseYes(answer string, defaultYes bool) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return defaultYes
	case "y", "yes":
		return true
	default:
		return false
	}
}

// ScriptedPrompter answers from a fixed list, for tests and non-interactive use
type ScriptedPrompter struct {
	Answers   []string
	Questions []string
}

// Ask returns the next scripted answer, or "" once they run out
func (s *ScriptedPrompter) Ask(question string) (string, error) {
	s.Questions = append(s.Questions, question)
	if len(s.Answers) == 0 {
		return "", nil
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return strings.TrimSpace(answer), nil
}

// Confirm returns the next scripted answer as a yes/no
func (s *ScriptedPrompter) Confirm(question string, defaultYes bool) (bool, error) {
	answer, err := s.Ask(question)
	if err != nil {
		return false, err
	}
	return ParseYes(answer, defaultYes), nil
}
