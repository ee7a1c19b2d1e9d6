// Package scaffold creates a new plugin project from a git template.
package scaffold

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/filesystem"
	"github.com/frostime/siyuan-plugin-cli/pkg/install"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/frostime/siyuan-plugin-cli/pkg/manifest"
	"github.com/frostime/siyuan-plugin-cli/pkg/ui"
	"github.com/spf13/afero"
)

// DefaultVersion is offered when the user leaves the version empty
const DefaultVersion = "v0.1.0"

// Location is where the project is created
type Location int

const (
	// LocationAsk prompts for the location
	LocationAsk Location = iota
	// LocationNewFolder creates ./<name>
	LocationNewFolder
	// LocationCurrent uses the working directory
	LocationCurrent
)

// CloneFunc fetches a template repository into dest
type CloneFunc func(url, dest string) error

// Options are the answers already known from flags; empty fields are prompted for
type Options struct {
	Name     string
	Author   string
	Version  string
	Template int // 1-based, 0 asks
	Location Location
	// WorkDir is the current folder
	WorkDir string
	// AssumeYes accepts a non-empty current folder without asking
	AssumeYes bool
}

// Result describes the created project
type Result struct {
	Dir       string
	Name      string
	Author    string
	Version   string
	Template  Template
	Manifests []string
	// Cancelled is set when the user declined to use a non-empty folder
	Cancelled bool
}

// Scaffolder creates projects
type Scaffolder struct {
	fs       afero.Fs
	prompter ui.Prompter
	printer  *ui.Printer
	clone    CloneFunc
	catalog  []Template
}

// New creates a scaffolder
func New(fsys afero.Fs, prompter ui.Prompter, printer *ui.Printer, clone CloneFunc, catalog []Template) *Scaffolder {
	return &Scaffolder{fs: fsys, prompter: prompter, printer: printer, clone: clone, catalog: catalog}
}

// Create gathers the project details, clones the template and rewrites
// the manifests of the new project.
func (s *Scaffolder) Create(opts Options) (*Result, error) {
	logger := logging.GetLogger("scaffold")
	done := logging.LogOperationStart(logger, "create")
	defer done()

	res, err := s.gather(opts)
	if err != nil {
		return nil, err
	}

	location := opts.Location
	if location == LocationAsk {
		answer, err := s.prompter.Ask("📂 Create in:\n   1. New folder\n   2. Current folder\n👉 Enter your choice (1-2): ")
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to read location")
		}
		location = LocationCurrent
		if answer == "1" {
			location = LocationNewFolder
		}
	}

	switch location {
	case LocationNewFolder:
		res.Dir = filepath.Join(opts.WorkDir, res.Name)
		empty, err := s.isEmptyDir(res.Dir)
		if err != nil {
			return nil, err
		}
		if !empty {
			return nil, errors.Newf(errors.ErrValidation, "folder %s already exists and is not empty", res.Dir).
				WithDetail("path", res.Dir)
		}
	default:
		res.Dir = opts.WorkDir
		empty, err := s.isEmptyDir(res.Dir)
		if err != nil {
			return nil, err
		}
		if !empty && !opts.AssumeYes {
			ok, err := s.prompter.Confirm("⚠️ Current folder is not empty. Proceed? (y/N): ", false)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to read confirmation")
			}
			if !ok {
				res.Cancelled = true
				return res, nil
			}
		}
	}

	if err := s.fetch(res.Template, res.Dir); err != nil {
		return nil, err
	}
	if err := s.rewriteManifests(res); err != nil {
		return nil, err
	}

	logger.Info().Str("dir", res.Dir).Str("template", res.Template.Name).Msg("Project created")
	return res, nil
}

// gather fills in name, author, version and template
func (s *Scaffolder) gather(opts Options) (*Result, error) {
	res := &Result{Name: opts.Name, Author: opts.Author, Version: opts.Version}
	var err error

	if res.Name == "" {
		if res.Name, err = s.prompter.Ask("🔌 Plugin Name: "); err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to read plugin name")
		}
	}
	if err := manifest.ValidateName(res.Name); err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation, "invalid plugin name")
	}

	if res.Author == "" {
		if res.Author, err = s.prompter.Ask("👤 Author: "); err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to read author")
		}
	}
	if strings.TrimSpace(res.Author) == "" {
		return nil, errors.New(errors.ErrValidation, "author must not be empty")
	}

	if res.Version == "" {
		if res.Version, err = s.prompter.Ask(fmt.Sprintf("🏷️ Initial version (default %s): ", DefaultVersion)); err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to read version")
		}
		if res.Version == "" {
			res.Version = DefaultVersion
		}
	}
	v, err := manifest.ParseVersion(res.Version)
	if err != nil {
		return nil, err
	}
	res.Version = v.String()

	choice := opts.Template
	if choice == 0 {
		s.printer.Println("📚 Choose a template:")
		for i, t := range s.catalog {
			s.printer.Printf("   %d. %s\n", i+1, t.Name)
		}
		answer, err := s.prompter.Ask(fmt.Sprintf("👉 Enter your choice (1-%d): ", len(s.catalog)))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to read template choice")
		}
		choice, _ = strconv.Atoi(answer)
	}
	if choice < 1 || choice > len(s.catalog) {
		return nil, errors.Newf(errors.ErrValidation, "template choice must be between 1 and %d", len(s.catalog))
	}
	res.Template = s.catalog[choice-1]
	return res, nil
}

func (s *Scaffolder) isEmptyDir(dir string) (bool, error) {
	exists, err := afero.DirExists(s.fs, dir)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", dir)
	}
	if !exists {
		if _, statErr := s.fs.Stat(dir); statErr == nil {
			return false, nil
		}
		return true, nil
	}
	empty, err := afero.IsEmpty(s.fs, dir)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", dir)
	}
	return empty, nil
}

// fetch clones the template into a temp dir and copies it without .git
func (s *Scaffolder) fetch(t Template, dir string) error {
	tmp, err := afero.TempDir(s.fs, "", "syplug-template-")
	if err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "failed to create temp directory")
	}
	defer func() { _ = s.fs.RemoveAll(tmp) }()

	s.printer.Info("Cloning template %s", t.URL)
	checkout := filepath.Join(tmp, "template")
	if err := s.clone(t.URL, checkout); err != nil {
		return err
	}

	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
	}
	_, err = install.CopyTree(s.fs, checkout, dir, install.CopyOptions{Skip: install.SkipNames(".git")})
	return err
}

func (s *Scaffolder) rewriteManifests(res *Result) error {
	fsys := filesystem.NewAferoFS(s.fs)
	url := fmt.Sprintf("https://github.com/%s/%s", res.Author, res.Name)

	for _, name := range []string{manifest.PluginFile, manifest.PackageFile} {
		m, err := manifest.LoadOptional(fsys, filepath.Join(res.Dir, name))
		if err != nil {
			return err
		}
		if m == nil {
			continue
		}
		for _, kv := range [][2]string{
			{"name", res.Name},
			{"author", res.Author},
			{"version", res.Version},
			{"url", url},
		} {
			if err := m.Set(kv[0], kv[1]); err != nil {
				return err
			}
		}
		if err := m.Save(fsys); err != nil {
			return err
		}
		res.Manifests = append(res.Manifests, m.Path)
	}

	if len(res.Manifests) == 0 {
		s.printer.Warning("Template has no %s; manifests were not updated", manifest.PluginFile)
	}
	return nil
}
