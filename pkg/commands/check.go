package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/frostime/siyuan-plugin-cli/pkg/link"
	"github.com/frostime/siyuan-plugin-cli/pkg/manifest"
)

// CheckResult is the classified install path
type CheckResult struct {
	PluginsDir string
	link.Inspection
}

// Message describes the install state in one line
func (r *CheckResult) Message() string {
	switch r.State {
	case link.Absent:
		return fmt.Sprintf("Not linked or installed: %s does not exist.", r.Path)
	case link.RegularEntry:
		return "Exists but not a symlink. Likely installed via copy (syplug install)."
	}
	switch r.Kind {
	case link.Dev:
		return fmt.Sprintf("Linked: dev (symlink) -> %s", r.Target)
	case link.Dist:
		return fmt.Sprintf("Linked: dist (symlink) -> %s", r.Target)
	default:
		return fmt.Sprintf("Linked: symlink to another path -> %s", r.Target)
	}
}

// Check reports how the plugin is present in the plugins directory
func Check(ctx context.Context, env *Env) (*CheckResult, error) {
	pc := env.Config.Project

	pluginsDir, err := ResolvePluginsDir(ctx, env)
	if err != nil {
		return nil, err
	}
	name, err := manifest.ReadIdentity(env.Files(), env.Project, pc.PluginManifest)
	if err != nil {
		return nil, err
	}

	insp, err := link.Classify(env.Files(), filepath.Join(pluginsDir, name),
		link.SourcesFor(env.Project, pc.DevDir, pc.DistDir))
	if err != nil {
		return nil, err
	}
	return &CheckResult{PluginsDir: pluginsDir, Inspection: insp}, nil
}
