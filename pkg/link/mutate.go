package link

import (
	"fmt"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/frostime/siyuan-plugin-cli/pkg/paths"
	"github.com/frostime/siyuan-plugin-cli/pkg/types"
	"github.com/frostime/siyuan-plugin-cli/pkg/ui"
)

// Decision is what the mutator will do for a given state and source
type Decision int

const (
	// Create a new link at an absent install path
	Create Decision = iota
	// Keep an existing link that already points at the source
	Keep
	// Confirm before replacing a dev link with a dist link or vice versa
	Confirm
	// Overwrite an existing link without asking
	Overwrite
	// Block because a real file or directory is in the way
	Block
)

func (d Decision) String() string {
	switch d {
	case Create:
		return "create"
	case Keep:
		return "keep"
	case Confirm:
		return "confirm"
	case Overwrite:
		return "overwrite"
	case Block:
		return "block"
	default:
		return "unknown"
	}
}

// Decide maps the current inspection and requested source to a decision.
// Only a switch between the project's own dev and dist outputs needs
// confirmation; every other retarget is silent.
func Decide(current Inspection, source string, sources Sources) Decision {
	switch current.State {
	case Absent:
		return Create
	case RegularEntry:
		return Block
	}

	if paths.Equal(current.Resolved, source) {
		return Keep
	}

	from, to := current.Kind, sources.KindOf(source)
	if (from == Dev && to == Dist) || (from == Dist && to == Dev) {
		return Confirm
	}
	return Overwrite
}

// Action is the outcome of a Link call
type Action int

const (
	// Created means a new link was written
	Created Action = iota + 1
	// AlreadyLinked means nothing was changed
	AlreadyLinked
	// Replaced means an existing link was retargeted
	Replaced
	// Declined means the user refused the dev/dist switch; nothing was changed
	Declined
)

func (a Action) String() string {
	switch a {
	case Created:
		return "created"
	case AlreadyLinked:
		return "already-linked"
	case Replaced:
		return "replaced"
	case Declined:
		return "declined"
	default:
		return "unknown"
	}
}

// Request describes the desired link
type Request struct {
	// InstallPath is <plugins dir>/<plugin name>
	InstallPath string
	// Source is the absolute directory the link should point at
	Source string
	// Sources are the project's dev and dist directories
	Sources Sources
	// AssumeYes answers the dev/dist confirmation with yes
	AssumeYes bool
}

// Result reports what Link did
type Result struct {
	Action   Action
	Previous Inspection
	Source   string
}

// Linker creates and retargets development links
type Linker struct {
	fs       types.FS
	prompter ui.Prompter
}

// NewLinker creates a linker. prompter is only consulted for dev/dist switches.
func NewLinker(fsys types.FS, prompter ui.Prompter) *Linker {
	return &Linker{fs: fsys, prompter: prompter}
}

// Link makes req.InstallPath a symlink to req.Source according to Decide
func (l *Linker) Link(req Request) (Result, error) {
	logger := logging.GetLogger("link")
	done := logging.LogOperationStart(logger, "link")
	defer done()

	current, err := Classify(l.fs, req.InstallPath, req.Sources)
	if err != nil {
		return Result{}, err
	}
	result := Result{Previous: current, Source: req.Source}

	decision := Decide(current, req.Source, req.Sources)
	logger.Debug().
		Str("installPath", req.InstallPath).
		Str("source", req.Source).
		Str("state", current.State.String()).
		Str("target", current.Target).
		Str("decision", decision.String()).
		Msg("Link decision")

	switch decision {
	case Keep:
		result.Action = AlreadyLinked
		return result, nil

	case Block:
		return result, errors.Newf(errors.ErrConflictBlocked,
			"%s already exists and is not a symbolic link; remove it manually and try again", req.InstallPath).
			WithDetail("path", req.InstallPath)

	case Confirm:
		if !req.AssumeYes {
			question := fmt.Sprintf(">>> Detected switching link from ./%s to ./%s. Overwrite? [y/N] ",
				current.Kind, req.Sources.KindOf(req.Source))
			ok, err := l.prompter.Confirm(question, false)
			if err != nil {
				return result, errors.Wrap(err, errors.ErrInvalidInput, "failed to read confirmation")
			}
			if !ok {
				logger.Info().Msg("User declined link switch")
				result.Action = Declined
				return result, nil
			}
		}
		fallthrough

	case Overwrite:
		if err := l.fs.Remove(req.InstallPath); err != nil {
			return result, errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to remove existing link %s", req.InstallPath)
		}
		if err := l.symlink(req); err != nil {
			return result, err
		}
		result.Action = Replaced
		return result, nil

	default:
		if err := l.symlink(req); err != nil {
			return result, err
		}
		result.Action = Created
		return result, nil
	}
}

func (l *Linker) symlink(req Request) error {
	if err := l.fs.MkdirAll(req.Source, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create source directory %s", req.Source)
	}
	if err := l.fs.Symlink(req.Source, req.InstallPath); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to create symlink %s -> %s", req.InstallPath, req.Source)
	}
	return nil
}
