// Package topics adds help topics to a Cobra application: documents that
// are not commands, read with `<app> help <topic>`.
//
// Topics come from any fs.FS, usually an embed.FS compiled into the
// binary, so they are available wherever the binary is installed.
package topics

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// ListKeyword lists all topics: `<app> help topics`
const ListKeyword = "topics"

// Topic is one help document
type Topic struct {
	Name    string
	Format  string
	Content string
}

// Options configures a Manager
type Options struct {
	// Extensions are the file extensions read as topics.
	// Defaults to .md and .txt.
	Extensions []string
	// Renderer formats topic content; defaults to PlainRenderer
	Renderer Renderer
}

// Manager holds the topics of an application
type Manager struct {
	topics   map[string]*Topic
	renderer Renderer
}

// Load reads every topic file below dir in fsys. A missing dir yields an
// empty Manager.
func Load(fsys fs.FS, dir string, opts Options) (*Manager, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{".md", ".txt"}
	}
	m := &Manager{topics: map[string]*Topic{}, renderer: opts.Renderer}
	if m.renderer == nil {
		m.renderer = PlainRenderer{}
	}

	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := path.Ext(p)
		if !contains(exts, ext) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), ext)
		m.topics[name] = &Topic{Name: name, Format: ext, Content: string(data)}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load help topics: %w", err)
	}
	return m, nil
}

// Get finds a topic. Flag-style names (--plugins-dir) also match
// option-plugins-dir.
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")
	if t, ok := m.topics[name]; ok {
		return t, true
	}
	t, ok := m.topics["option-"+name]
	return t, ok
}

// Names returns the sorted topic names
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render writes a topic through the configured renderer
func (m *Manager) Render(w io.Writer, t *Topic) {
	fmt.Fprint(w, m.renderer.Render(t.Content, t.Format))
}

// List writes the topic index
func (m *Manager) List(w io.Writer, app string) {
	names := m.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	var general, options []string
	for _, name := range names {
		if opt, ok := strings.CutPrefix(name, "option-"); ok {
			options = append(options, opt)
		} else {
			general = append(general, name)
		}
	}

	fmt.Fprintln(w, "Available help topics:")
	if len(general) > 0 {
		fmt.Fprintln(w, "\nGeneral topics:")
		for _, name := range general {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Fprintln(w, "\nOption topics:")
		for _, name := range options {
			fmt.Fprintf(w, "  --%s\n", name)
		}
	}
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", app)
}

// Install replaces the help command of root with one that also knows the
// topics, and makes `--help <topic>` print the topic.
func (m *Manager) Install(root *cobra.Command) {
	defaultHelp := root.HelpFunc()
	app := root.Name()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: "Help provides help for any command or topic in the application.\n" +
			"To see all available help topics:\n  " + app + " help " + ListKeyword,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{ListKeyword}
			for _, c := range root.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.Names()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			switch {
			case len(args) == 0:
				defaultHelp(root, args)
			case args[0] == ListKeyword:
				m.List(out, app)
			default:
				if t, ok := m.Get(args[0]); ok {
					m.Render(out, t)
					return
				}
				target, _, err := root.Find(args)
				if err != nil || target == nil {
					defaultHelp(root, args)
					return
				}
				defaultHelp(target, args)
			}
		},
	}

	for _, c := range root.Commands() {
		if c.Name() == "help" {
			root.RemoveCommand(c)
			break
		}
	}
	root.SetHelpCommand(helpCmd)

	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if t, ok := m.Get(args[0]); ok {
				m.Render(cmd.OutOrStdout(), t)
				return
			}
		}
		defaultHelp(cmd, args)
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
