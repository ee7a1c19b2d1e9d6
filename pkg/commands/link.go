package commands

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/frostime/siyuan-plugin-cli/pkg/link"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/frostime/siyuan-plugin-cli/pkg/manifest"
)

// LinkOptions select the directory to link
type LinkOptions struct {
	// Dir is the positional directory argument
	Dir  string
	Dev  bool
	Dist bool
	// Src is --src=<dir>
	Src       string
	AssumeYes bool
}

// LinkResult reports a link run
type LinkResult struct {
	PluginsDir  string
	InstallPath string
	link.Result
}

// SourceDir picks the directory name to link: --src, then --dist, then
// --dev, then the positional argument, then the configured dev dir.
func (o LinkOptions) SourceDir(devDir, distDir string) string {
	switch {
	case o.Src != "":
		return o.Src
	case o.Dist:
		return distDir
	case o.Dev:
		return devDir
	case o.Dir != "":
		return strings.TrimRight(o.Dir, `/\`)
	default:
		return devDir
	}
}

// Link points <plugins dir>/<plugin name> at the selected build output
func Link(ctx context.Context, env *Env, opts LinkOptions) (*LinkResult, error) {
	logger := logging.GetLogger("commands.link")

	pc := env.Config.Project
	sourceName := opts.SourceDir(pc.DevDir, pc.DistDir)
	source := env.Project.Dir(sourceName)
	logger.Debug().Str("source", source).Msg("Selected link source")

	pluginsDir, err := ResolvePluginsDir(ctx, env)
	if err != nil {
		return nil, err
	}

	name, err := manifest.ReadIdentity(env.Files(), env.Project, pc.PluginManifest)
	if err != nil {
		return nil, err
	}

	installPath := filepath.Join(pluginsDir, name)
	res, err := link.NewLinker(env.Files(), env.Prompter).Link(link.Request{
		InstallPath: installPath,
		Source:      source,
		Sources:     link.SourcesFor(env.Project, pc.DevDir, pc.DistDir),
		AssumeYes:   opts.AssumeYes,
	})
	if err != nil {
		return nil, err
	}

	return &LinkResult{PluginsDir: pluginsDir, InstallPath: installPath, Result: res}, nil
}
