// Package paths provides centralized path handling for syplug.
// It resolves XDG locations, expands home-relative paths and implements
// the separator and case insensitive path equality used to recognise
// link targets.
package paths

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/mitchellh/go-homedir"
)

// Environment variable names
const (
	// EnvPluginDir is the fallback plugins directory when no workspace is detected
	EnvPluginDir = "SIYUAN_PLUGIN_DIR"

	// EnvConfigDir overrides the XDG config directory for syplug
	EnvConfigDir = "SYPLUG_CONFIG_DIR"
)

// Default directories and files
const (
	// AppDirName is the directory name for syplug-specific files
	AppDirName = "syplug"

	// ConfigFileName is the user configuration file inside ConfigDir
	ConfigFileName = "config.toml"

	// ProjectConfigFile is the optional per-project configuration file
	ProjectConfigFile = ".syplug.toml"

	// CredentialsFileName stores the GitHub token
	CredentialsFileName = "credentials.toml"

	// DefaultDevDir and DefaultDistDir are the project's two build outputs
	DefaultDevDir  = "dev"
	DefaultDistDir = "dist"

	// SiYuanDirName is the desktop app's config directory name
	SiYuanDirName = "siyuan"

	// WorkspaceListFile lists the workspaces known to the desktop app
	WorkspaceListFile = "workspace.json"
)

// Normalize converts a path to forward slashes and cleans it, dropping
// trailing separators. It does not touch the filesystem.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return path.Clean(p)
}

// Equal reports whether two paths name the same location regardless of
// separator style, trailing separators or letter case.
func Equal(a, b string) bool {
	return strings.EqualFold(Normalize(a), Normalize(b))
}

// Expand expands a leading ~ to the user's home directory
func Expand(p string) string {
	if p == "" {
		return p
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		// ~otheruser is left untouched
		return p
	}
	return expanded
}

// Abs expands ~ and makes the path absolute and clean
func Abs(p string) (string, error) {
	if p == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}
	abs, err := filepath.Abs(Expand(p))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", p)
	}
	return filepath.Clean(abs), nil
}

// ConfigDir returns the syplug configuration directory
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return Expand(dir)
	}
	return filepath.Join(configHome(), AppDirName)
}

// ConfigFile returns the user configuration file path
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// CredentialsFile returns the default GitHub credentials file path
func CredentialsFile() string {
	return filepath.Join(ConfigDir(), CredentialsFileName)
}

// WorkspaceListCandidates returns the locations where the SiYuan desktop
// app may keep its workspace list, most specific first.
func WorkspaceListCandidates() []string {
	var candidates []string
	seen := map[string]bool{}
	add := func(dir string) {
		if dir == "" {
			return
		}
		p := filepath.Join(dir, SiYuanDirName, WorkspaceListFile)
		if !seen[p] {
			seen[p] = true
			candidates = append(candidates, p)
		}
	}

	add(configHome())
	if home, err := homedir.Dir(); err == nil {
		// SiYuan uses ~/.config on every platform
		add(filepath.Join(home, ".config"))
	}
	return candidates
}

// configHome honours XDG_CONFIG_HOME at call time so tests can redirect it
func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return xdg.ConfigHome
}

// Project describes a plugin project rooted at a directory
type Project struct {
	Root string
}

// NewProject returns a Project for root, or the working directory if root is empty
func NewProject(root string) (Project, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Project{}, errors.Wrap(err, errors.ErrFileAccess, "failed to get current directory")
		}
		root = cwd
	}
	abs, err := Abs(root)
	if err != nil {
		return Project{}, err
	}
	return Project{Root: abs}, nil
}

// Dir returns the absolute path of a project subdirectory. Trailing
// separators in name are ignored.
func (p Project) Dir(name string) string {
	name = strings.TrimRight(name, `/\`)
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(p.Root, name)
}

// DevDir returns the project's dev build output directory
func (p Project) DevDir() string {
	return p.Dir(DefaultDevDir)
}

// DistDir returns the project's dist build output directory
func (p Project) DistDir() string {
	return p.Dir(DefaultDistDir)
}

// File returns the absolute path of a file in the project root
func (p Project) File(name string) string {
	return filepath.Join(p.Root, name)
}
