package commands

import (
	"os"
	"path/filepath"

	"github.com/frostime/siyuan-plugin-cli/pkg/config"
	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/frostime/siyuan-plugin-cli/pkg/paths"
	"github.com/spf13/afero"
)

// GenConfigOptions holds options for the gen-config command
type GenConfigOptions struct {
	// Write stores the defaults in the user config file instead of returning them
	Write bool
	// Project writes <project>/.syplug.toml instead of the user file
	Project bool
}

// GenConfigResult carries the default configuration
type GenConfigResult struct {
	Content string
	// Path is the target file when writing
	Path string
	// Existed is set when the target already existed and was left alone
	Existed bool
}

// GenConfig outputs or writes the default configuration
func GenConfig(env *Env, opts GenConfigOptions) (*GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")
	result := &GenConfigResult{Content: config.DefaultContent()}
	if opts.Project {
		result.Content = config.ProjectDefaultContent()
	}
	if !opts.Write {
		return result, nil
	}

	target := paths.ConfigFile()
	if opts.Project {
		target = env.Project.File(paths.ProjectConfigFile)
	}

	exists, err := afero.Exists(env.FS, target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", target)
	}
	if exists {
		logger.Warn().Str("path", target).Msg("Config file already exists, skipping")
		result.Existed = true
		result.Path = target
		return result, nil
	}

	if err := env.FS.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(target))
	}
	if err := afero.WriteFile(env.FS, target, []byte(result.Content), os.FileMode(0644)); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", target)
	}
	logger.Info().Str("path", target).Msg("Written config file")
	result.Path = target
	return result, nil
}
