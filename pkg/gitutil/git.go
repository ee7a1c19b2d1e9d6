// Package gitutil runs the git operations syplug needs: cloning plugin
// templates and pushing a new project to its remote.
package gitutil

import (
	"context"
	"os/exec"
	"strings"

	"github.com/Masterminds/vcs"
	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
)

// Available reports whether git can be run
func Available() error {
	if _, err := exec.LookPath("git"); err != nil {
		return errors.Wrap(err, errors.ErrExternalTool, "git is not installed or not on PATH")
	}
	return nil
}

// Clone clones url into dest, which must not exist yet
func Clone(url, dest string) error {
	logger := logging.GetLogger("git")
	logger.Debug().Str("url", url).Str("dest", dest).Msg("Cloning")

	repo, err := vcs.NewGitRepo(url, dest)
	if err != nil {
		return errors.Wrapf(err, errors.ErrExternalTool, "cannot clone %s", url)
	}
	if err := repo.Get(); err != nil {
		return errors.Wrapf(err, errors.ErrExternalTool, "failed to clone %s", url)
	}
	return nil
}

// Repo runs git commands inside a working tree. dir need not be a
// repository yet.
type Repo struct {
	Dir string
	// secrets are redacted from logs and errors
	secrets []string
}

// Open prepares dir for git commands
func Open(dir string) (*Repo, error) {
	if err := Available(); err != nil {
		return nil, err
	}
	return &Repo{Dir: dir}, nil
}

// Redact hides s in everything the repo logs or returns
func (r *Repo) Redact(s string) {
	if s != "" {
		r.secrets = append(r.secrets, s)
	}
}

// Run executes git with args in the working tree
func (r *Repo) Run(ctx context.Context, args ...string) (string, error) {
	logger := logging.GetLogger("git")
	shown := r.redact(strings.Join(args, " "))
	logger.Debug().Str("dir", r.Dir).Str("args", shown).Msg("Running git")

	out, err := r.output(ctx, args...)
	output := r.redact(strings.TrimSpace(string(out)))
	if err != nil {
		logger.Debug().Str("output", output).Msg("git failed")
		return output, errors.Newf(errors.ErrExternalTool, "git %s failed: %s", shown, lastLine(output, err)).
			WithDetail("dir", r.Dir)
	}
	logger.Trace().Str("output", output).Msg("git done")
	return output, nil
}

// IsRepo reports whether the working tree is already a git repository
func (r *Repo) IsRepo() bool {
	kind, err := vcs.DetectVcsFromFS(r.Dir)
	return err == nil && kind == vcs.Git
}

// HasRemote reports whether a remote with the given name exists
func (r *Repo) HasRemote(ctx context.Context, name string) bool {
	out, err := r.output(ctx, "remote")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) == name {
			return true
		}
	}
	return false
}

func (r *Repo) output(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	// never block on a credential prompt
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0")
	return cmd.CombinedOutput()
}

func (r *Repo) redact(s string) string {
	for _, secret := range r.secrets {
		s = strings.ReplaceAll(s, secret, "***")
	}
	return s
}

// lastLine picks the last non-blank line of git's output, which is where
// git puts its "fatal:" summary.
func lastLine(output string, err error) string {
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return err.Error()
}
