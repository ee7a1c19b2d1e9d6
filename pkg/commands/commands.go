// Package commands provides the high-level command implementations for
// syplug.
//
// This package is the orchestration layer between the CLI and the
// domain packages: it turns configuration and flags into calls to
// workspace, link, install, manifest, scaffold and github, and returns
// results for the CLI to render.
//
// Every command takes an *Env holding its collaborators, so tests can
// swap the filesystem, the prompter and the external tools.
package commands

import (
	"context"
	"net/http"

	"github.com/frostime/siyuan-plugin-cli/pkg/config"
	"github.com/frostime/siyuan-plugin-cli/pkg/filesystem"
	"github.com/frostime/siyuan-plugin-cli/pkg/github"
	"github.com/frostime/siyuan-plugin-cli/pkg/gitutil"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/frostime/siyuan-plugin-cli/pkg/paths"
	"github.com/frostime/siyuan-plugin-cli/pkg/scaffold"
	"github.com/frostime/siyuan-plugin-cli/pkg/types"
	"github.com/frostime/siyuan-plugin-cli/pkg/ui"
	"github.com/frostime/siyuan-plugin-cli/pkg/workspace"
	"github.com/pkg/browser"
	"github.com/spf13/afero"
)

// Env carries everything a command needs
type Env struct {
	FS       afero.Fs
	Config   *config.Config
	Project  paths.Project
	Prompter ui.Prompter
	Printer  *ui.Printer

	// PluginsDir is an explicit plugins directory (--plugins-dir)
	PluginsDir string

	// External collaborators; nil selects the real implementation
	Clone       scaffold.CloneFunc
	Push        github.PushFunc
	OpenBrowser func(url string) error
	HTTPClient  *http.Client
}

// Files returns the Env filesystem as a types.FS
func (e *Env) Files() types.FS {
	return filesystem.NewAferoFS(e.FS)
}

func (e *Env) clone() scaffold.CloneFunc {
	if e.Clone != nil {
		return e.Clone
	}
	return gitutil.Clone
}

func (e *Env) push() github.PushFunc {
	if e.Push != nil {
		return e.Push
	}
	return github.GitPush
}

func (e *Env) openBrowser() func(string) error {
	if e.OpenBrowser != nil {
		return e.OpenBrowser
	}
	return browser.OpenURL
}

// ResolvePluginsDir finds the plugins directory for this invocation
func ResolvePluginsDir(ctx context.Context, env *Env) (string, error) {
	r := workspace.NewResolver(env.Files(), env.Prompter, env.Printer)
	dir, err := r.Resolve(ctx, workspace.Options{
		Explicit: env.PluginsDir,
		Fallback: env.Config.SiYuan.PluginsDir,
		Kernel: workspace.KernelProbe{
			API:     env.Config.SiYuan.API,
			Token:   env.Config.SiYuan.Token,
			Timeout: env.Config.SiYuan.ProbeTimeout,
			Client:  env.HTTPClient,
		},
		WorkspaceFiles: paths.WorkspaceListCandidates(),
	})
	if err != nil {
		return "", err
	}
	logger := logging.GetLogger("commands")
	logger.Info().Str("plugins_dir", dir).Msg("Resolved plugins directory")
	return dir, nil
}
