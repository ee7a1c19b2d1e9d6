package gitutil

import (
	"context"
	"net/url"
	"strings"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
)

// PushOptions describe the initial push of a project
type PushOptions struct {
	// RemoteURL is the clean https clone URL stored as origin
	RemoteURL string
	// Branch is the branch to create and push
	Branch string
	// Token authenticates the push; it never ends up in .git/config
	Token string
	// Message is the initial commit message
	Message string
}

// InitialPush turns the working tree into a repository and pushes it:
// init, add, commit, branch, set origin, push. Every step runs to
// completion before the next; the first failure stops the sequence.
// Each step is safe to rerun.
func (r *Repo) InitialPush(ctx context.Context, opts PushOptions) error {
	logger := logging.GetLogger("git.push")
	done := logging.LogOperationStart(logger, "initial push")
	defer done()

	if opts.Branch == "" {
		opts.Branch = "main"
	}
	if opts.Message == "" {
		opts.Message = "Initial commit"
	}
	pushURL, err := authenticatedURL(opts.RemoteURL, opts.Token)
	if err != nil {
		return err
	}
	r.Redact(opts.Token)

	if !r.IsRepo() {
		if _, err := r.Run(ctx, "init"); err != nil {
			return err
		}
	}
	if _, err := r.Run(ctx, "add", "."); err != nil {
		return err
	}
	if r.hasStaged(ctx) {
		if _, err := r.Run(ctx, "commit", "-m", opts.Message); err != nil {
			return err
		}
	}
	if _, err := r.Run(ctx, "branch", "-M", opts.Branch); err != nil {
		return err
	}

	verb := "add"
	if r.HasRemote(ctx, "origin") {
		verb = "set-url"
	}
	if _, err := r.Run(ctx, "remote", verb, "origin", pushURL); err != nil {
		return err
	}

	_, pushErr := r.Run(ctx, "push", "-u", "origin", opts.Branch)

	// always restore the clean URL, even when the push failed
	if _, err := r.Run(ctx, "remote", "set-url", "origin", opts.RemoteURL); err != nil && pushErr == nil {
		return err
	}
	return pushErr
}

// hasStaged reports whether anything is staged for commit
func (r *Repo) hasStaged(ctx context.Context) bool {
	_, err := r.output(ctx, "diff", "--cached", "--quiet")
	return err != nil
}

// authenticatedURL embeds token into an https remote URL
func authenticatedURL(remote, token string) (string, error) {
	if token == "" {
		return remote, nil
	}
	u, err := url.Parse(remote)
	if err != nil || !strings.HasPrefix(u.Scheme, "http") {
		return "", errors.Newf(errors.ErrInvalidInput, "cannot authenticate non-https remote %q", remote)
	}
	u.User = url.UserPassword("x-access-token", token)
	return u.String(), nil
}
