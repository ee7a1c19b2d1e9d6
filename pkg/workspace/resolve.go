package workspace

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/frostime/siyuan-plugin-cli/pkg/paths"
	"github.com/frostime/siyuan-plugin-cli/pkg/types"
	"github.com/frostime/siyuan-plugin-cli/pkg/ui"
)

// MaxChoiceAttempts is how often an invalid workspace selection is re-asked
const MaxChoiceAttempts = 3

// Options control a single resolution
type Options struct {
	// Explicit skips probing entirely
	Explicit string
	// Fallback is used when no workspace is found (SIYUAN_PLUGIN_DIR)
	Fallback string
	// Kernel probes the running SiYuan kernel
	Kernel KernelProbe
	// WorkspaceFiles are desktop workspace.json locations
	WorkspaceFiles []string
	// SkipKernel disables the kernel probe
	SkipKernel bool
}

// Resolver finds the plugins directory
type Resolver struct {
	fs       types.FS
	prompter ui.Prompter
	printer  *ui.Printer
}

// NewResolver creates a resolver. printer lists candidates when the user
// has to pick one; prompter reads the choice.
func NewResolver(fsys types.FS, prompter ui.Prompter, printer *ui.Printer) *Resolver {
	return &Resolver{fs: fsys, prompter: prompter, printer: printer}
}

// PluginsDir maps a workspace to its plugins directory
func PluginsDir(workspace string) string {
	return filepath.Join(workspace, "data", "plugins")
}

// Resolve returns an existing plugins directory or a RESOLUTION_FAILED error
func (r *Resolver) Resolve(ctx context.Context, opts Options) (string, error) {
	logger := logging.GetLogger("workspace")

	if opts.Explicit != "" {
		dir := paths.Expand(opts.Explicit)
		logger.Debug().Str("dir", dir).Msg("Using explicit plugins directory")
		return r.requireDir(dir)
	}

	candidates := r.Candidates(ctx, opts)
	logger.Debug().Strs("candidates", candidates).Msg("Workspace candidates")

	switch len(candidates) {
	case 0:
	case 1:
		logger.Info().Str("dir", candidates[0]).Msg("Auto-selected plugins directory")
		return r.requireDir(candidates[0])
	default:
		dir, err := r.choose(candidates)
		if err != nil {
			return "", err
		}
		return r.requireDir(dir)
	}

	if opts.Fallback != "" {
		dir := paths.Expand(opts.Fallback)
		logger.Debug().Str("dir", dir).Msg("Using fallback plugins directory")
		return r.requireDir(dir)
	}

	return "", errors.New(errors.ErrResolution,
		"cannot determine the SiYuan plugins directory; set "+paths.EnvPluginDir+
			" to <workspace>/data/plugins or pass --plugins-dir")
}

// Candidates returns the de-duplicated plugins directories of existing
// workspaces, kernel results first.
func (r *Resolver) Candidates(ctx context.Context, opts Options) []string {
	var workspaces []string
	if !opts.SkipKernel {
		workspaces = append(workspaces, opts.Kernel.Workspaces(ctx)...)
	}
	workspaces = append(workspaces, ListFileWorkspaces(r.fs, opts.WorkspaceFiles)...)

	var out []string
	for _, ws := range workspaces {
		if !r.isDir(ws) {
			continue
		}
		dir := PluginsDir(ws)
		if containsPath(out, dir) {
			continue
		}
		out = append(out, dir)
	}
	return out
}

func (r *Resolver) choose(candidates []string) (string, error) {
	r.printer.Info("Multiple SiYuan workspaces found:")
	for i, c := range candidates {
		r.printer.Printf("  [%d] %s\n", i+1, r.printer.Path(c))
	}

	for attempt := 0; attempt < MaxChoiceAttempts; attempt++ {
		answer, err := r.prompter.Ask("Select a workspace: ")
		if err != nil {
			return "", errors.Wrap(err, errors.ErrResolution, "failed to read workspace selection")
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(candidates) {
			return candidates[n-1], nil
		}
		r.printer.Warning("Invalid selection %q, enter a number between 1 and %d", answer, len(candidates))
	}
	return "", errors.Newf(errors.ErrResolution, "no workspace selected after %d attempts", MaxChoiceAttempts)
}

func (r *Resolver) requireDir(dir string) (string, error) {
	if !r.isDir(dir) {
		return "", errors.Newf(errors.ErrResolution, "plugin directory does not exist: %s", dir).
			WithDetail("path", dir)
	}
	return dir, nil
}

func (r *Resolver) isDir(dir string) bool {
	info, err := r.fs.Stat(dir)
	return err == nil && info.IsDir()
}

func containsPath(list []string, p string) bool {
	for _, item := range list {
		if paths.Equal(item, p) {
			return true
		}
	}
	return false
}
