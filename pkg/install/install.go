// Package install copies a plugin's build output into the SiYuan plugins
// directory as a real directory, the way a released plugin is installed.
package install

import (
	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/filesystem"
	"github.com/frostime/siyuan-plugin-cli/pkg/link"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/spf13/afero"
)

// Options describe one install
type Options struct {
	// Source is the build output directory, created if missing
	Source string
	// InstallPath is <plugins dir>/<plugin name>
	InstallPath string
}

// Result reports what Install did
type Result struct {
	Previous link.Inspection
	// RemovedLink is the target of a development link that was replaced
	RemovedLink string
	Files       int
}

// Install copies opts.Source into opts.InstallPath. A development link at
// the install path is removed first (its target is left untouched); an
// existing directory is copied over.
func Install(fsys afero.Fs, opts Options) (*Result, error) {
	logger := logging.GetLogger("install")
	done := logging.LogOperationStart(logger, "install")
	defer done()

	if err := fsys.MkdirAll(opts.Source, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", opts.Source)
	}

	current, err := link.Classify(filesystem.NewAferoFS(fsys), opts.InstallPath, link.Sources{})
	if err != nil {
		return nil, err
	}
	result := &Result{Previous: current}

	if current.State == link.SymlinkTo {
		logger.Info().
			Str("path", opts.InstallPath).
			Str("target", current.Target).
			Msg("Removing development link before install")
		if err := fsys.Remove(opts.InstallPath); err != nil {
			return result, errors.Wrapf(err, errors.ErrFileWrite, "failed to remove link %s", opts.InstallPath)
		}
		result.RemovedLink = current.Target
	}

	result.Files, err = CopyTree(fsys, opts.Source, opts.InstallPath, CopyOptions{})
	if err != nil {
		return result, err
	}

	logger.Debug().Int("files", result.Files).Str("path", opts.InstallPath).Msg("Install complete")
	return result, nil
}
