package commands

import (
	"context"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/github"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/frostime/siyuan-plugin-cli/pkg/manifest"
)

// PublishOptions configure the GitHub repository
type PublishOptions struct {
	Private     bool
	Description string
	// Open opens the repository page when done
	Open bool
}

// PublishResult reports a publish run
type PublishResult struct {
	TokenSource string
	*github.PublishResult
}

// Publish creates the project's GitHub repository and pushes to it
func Publish(ctx context.Context, env *Env, opts PublishOptions) (*PublishResult, error) {
	logger := logging.GetLogger("commands.publish")
	gc := env.Config.GitHub

	name, err := manifest.ReadIdentity(env.Files(), env.Project, env.Config.Project.PluginManifest)
	if err != nil {
		return nil, err
	}

	auth := &github.Authenticator{
		FS:              env.Files(),
		Prompter:        env.Prompter,
		Printer:         env.Printer,
		OpenBrowser:     env.openBrowser(),
		Token:           gc.Token,
		CredentialsFile: gc.CredentialsFile,
		ClientID:        gc.ClientID,
		Web:             gc.Web,
		HTTPClient:      env.HTTPClient,
	}
	token, err := auth.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	publisher := &github.Publisher{
		Client:  github.NewClient(ctx, gc.API, token.Token),
		Push:    env.push(),
		Printer: env.Printer,
	}
	res, err := publisher.Publish(ctx, token.Token, github.PublishOptions{
		Dir:         env.Project.Root,
		Name:        name,
		Description: opts.Description,
		Private:     opts.Private,
		Branch:      gc.DefaultBranch,
		Web:         gc.Web,
	})
	if errors.IsErrorCode(err, errors.ErrUnauthorized) && token.Source == github.SourceStored {
		logger.Warn().Msg("Stored token was rejected, forgetting it")
		if ferr := auth.Forget(); ferr != nil {
			logger.Warn().Err(ferr).Msg("Could not remove stored token")
		}
		return nil, errors.Wrap(err, errors.ErrUnauthorized, "the stored GitHub token is no longer valid and was removed; run publish again")
	}
	if err != nil {
		return nil, err
	}

	if opts.Open && res.Repository.HTMLURL != "" {
		if err := env.openBrowser()(res.Repository.HTMLURL); err != nil {
			logger.Debug().Err(err).Msg("Could not open repository page")
		}
	}
	return &PublishResult{TokenSource: token.Source, PublishResult: res}, nil
}
