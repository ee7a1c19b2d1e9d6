package testutil

import (
	"path/filepath"
	"testing"

	"github.com/frostime/siyuan-plugin-cli/pkg/paths"
	"github.com/mitchellh/go-homedir"
)

// DefaultPluginName is the manifest name written by NewProjectEnv
const DefaultPluginName = "demo-plugin"

// ProjectEnv is an isolated plugin project and plugins directory
type ProjectEnv struct {
	Name       string
	ProjectDir string
	PluginsDir string
	HomeDir    string
	Project    paths.Project
}

// NewProjectEnv creates <tmp>/project with plugin.json, dev/ and dist/,
// an empty <tmp>/plugins, and points SIYUAN_PLUGIN_DIR at it. The kernel
// probe is aimed at a closed port and the XDG dirs at temp locations so
// nothing outside the test directory is read or written.
func NewProjectEnv(t *testing.T) *ProjectEnv {
	t.Helper()

	root := t.TempDir()
	env := &ProjectEnv{
		Name:       DefaultPluginName,
		ProjectDir: CreateDir(t, root, "project"),
		PluginsDir: CreateDir(t, root, "plugins"),
		HomeDir:    CreateDir(t, root, "home"),
	}
	env.Project = paths.Project{Root: env.ProjectDir}

	CreateJSON(t, env.ProjectDir, "plugin.json", map[string]interface{}{
		"name":    env.Name,
		"author":  "tester",
		"version": "0.1.0",
	})
	CreateDir(t, env.ProjectDir, "dev")
	CreateDir(t, env.ProjectDir, "dist")

	// the home directory changes per test
	homedir.DisableCache = true

	t.Setenv(paths.EnvPluginDir, env.PluginsDir)
	t.Setenv("HOME", env.HomeDir)
	t.Setenv("USERPROFILE", env.HomeDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(env.HomeDir, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(env.HomeDir, ".local", "state"))
	t.Setenv(paths.EnvConfigDir, filepath.Join(env.HomeDir, ".config", "syplug"))
	t.Setenv("SIYUAN_API", "http://127.0.0.1:1")
	t.Setenv("SIYUAN_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	return env
}

// InstallPath returns <plugins>/<name>
func (e *ProjectEnv) InstallPath() string {
	return filepath.Join(e.PluginsDir, e.Name)
}

// DevDir returns the project's dev directory
func (e *ProjectEnv) DevDir() string {
	return e.Project.DevDir()
}

// DistDir returns the project's dist directory
func (e *ProjectEnv) DistDir() string {
	return e.Project.DistDir()
}
