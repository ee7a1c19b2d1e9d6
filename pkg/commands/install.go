package commands

import (
	"context"
	"path/filepath"

	"github.com/frostime/siyuan-plugin-cli/pkg/install"
	"github.com/frostime/siyuan-plugin-cli/pkg/manifest"
)

// InstallOptions select the directory to install
type InstallOptions struct {
	// Dir defaults to the configured dist dir
	Dir string
}

// InstallResult reports an install
type InstallResult struct {
	PluginsDir  string
	InstallPath string
	Source      string
	*install.Result
}

// Install copies the build output into the plugins directory
func Install(ctx context.Context, env *Env, opts InstallOptions) (*InstallResult, error) {
	pc := env.Config.Project
	dir := opts.Dir
	if dir == "" {
		dir = pc.DistDir
	}
	source := env.Project.Dir(dir)

	pluginsDir, err := ResolvePluginsDir(ctx, env)
	if err != nil {
		return nil, err
	}
	name, err := manifest.ReadIdentity(env.Files(), env.Project, pc.PluginManifest)
	if err != nil {
		return nil, err
	}

	installPath := filepath.Join(pluginsDir, name)
	res, err := install.Install(env.FS, install.Options{Source: source, InstallPath: installPath})
	if err != nil {
		return nil, err
	}
	return &InstallResult{PluginsDir: pluginsDir, InstallPath: installPath, Source: source, Result: res}, nil
}
