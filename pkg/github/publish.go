package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/gitutil"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/frostime/siyuan-plugin-cli/pkg/ui"
)

// PushFunc pushes the project directory to its new remote
type PushFunc func(ctx context.Context, dir string, opts gitutil.PushOptions) error

// GitPush is the PushFunc backed by the git binary
func GitPush(ctx context.Context, dir string, opts gitutil.PushOptions) error {
	repo, err := gitutil.Open(dir)
	if err != nil {
		return err
	}
	return repo.InitialPush(ctx, opts)
}

// PublishOptions describe the repository to publish to
type PublishOptions struct {
	// Dir is the project directory
	Dir string
	// Name is the repository name, normally the plugin name
	Name        string
	Description string
	Private     bool
	Branch      string
	// Web is the GitHub web base URL used for the clone URL
	Web string
}

// PublishResult reports what Publish did
type PublishResult struct {
	Owner      string
	Repository *Repository
	Created    bool
	// WorkflowWrite is false when workflow permissions could not be set
	WorkflowWrite bool
}

// Publisher creates the repository and pushes the project
type Publisher struct {
	Client  *Client
	Push    PushFunc
	Printer *ui.Printer
}

// Publish ensures owner/name exists, grants its workflows write access and
// pushes opts.Dir to it with token. Steps run in order; the first failure
// aborts the rest.
func (p *Publisher) Publish(ctx context.Context, token string, opts PublishOptions) (*PublishResult, error) {
	logger := logging.GetLogger("github.publish")
	done := logging.LogOperationStart(logger, "publish")
	defer done()

	owner, err := p.Client.User(ctx)
	if err != nil {
		return nil, err
	}
	result := &PublishResult{Owner: owner}

	repo, exists, err := p.Client.Repo(ctx, owner, opts.Name)
	if err != nil {
		return result, err
	}
	if exists {
		p.Printer.Info("Repository %s already exists, reusing it", p.Printer.Accent(repo.FullName))
	} else {
		repo, err = p.Client.CreateRepo(ctx, CreateRepoOptions{
			Name:        opts.Name,
			Description: opts.Description,
			Private:     opts.Private,
		})
		switch {
		case errors.IsErrorCode(err, errors.ErrRepoExists):
			// created concurrently between the lookup and the create
			repo, _, err = p.Client.Repo(ctx, owner, opts.Name)
			if err != nil {
				return result, err
			}
		case err != nil:
			return result, err
		default:
			result.Created = true
			p.Printer.Success("Created repository %s", p.Printer.Accent(repo.FullName))
		}
	}
	if repo == nil {
		return result, errors.Newf(errors.ErrExternalTool, "repository %s/%s is not accessible", owner, opts.Name)
	}
	result.Repository = repo

	if err := p.Client.EnableWorkflowWrite(ctx, owner, opts.Name); err != nil {
		logger.Warn().Err(err).Msg("Could not set workflow permissions")
		p.Printer.Warning("Could not grant workflows write access: %s", errors.UserMessage(err))
	} else {
		result.WorkflowWrite = true
	}

	remote := repo.CloneURL
	if remote == "" {
		remote = fmt.Sprintf("%s/%s/%s.git", strings.TrimRight(opts.Web, "/"), owner, opts.Name)
	}
	p.Printer.Info("Pushing %s to %s", p.Printer.Path(opts.Dir), remote)
	if err := p.Push(ctx, opts.Dir, gitutil.PushOptions{
		RemoteURL: remote,
		Branch:    opts.Branch,
		Token:     token,
	}); err != nil {
		return result, err
	}
	return result, nil
}
