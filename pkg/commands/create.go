package commands

import (
	"context"

	"github.com/frostime/siyuan-plugin-cli/pkg/gitutil"
	"github.com/frostime/siyuan-plugin-cli/pkg/paths"
	"github.com/frostime/siyuan-plugin-cli/pkg/scaffold"
)

// CreateOptions are the create flags; empty values are prompted for
type CreateOptions struct {
	Name     string
	Author   string
	Version  string
	Template int
	// Here creates the project in the current folder
	Here      bool
	AssumeYes bool
	// GitHub publishes the new project afterwards
	GitHub  bool
	Private bool
}

// CreateResult reports a created project
type CreateResult struct {
	*scaffold.Result
	Published *PublishResult
}

// Create scaffolds a project in (or under) env.Project.Root
func Create(ctx context.Context, env *Env, opts CreateOptions) (*CreateResult, error) {
	if env.Clone == nil {
		if err := gitutil.Available(); err != nil {
			return nil, err
		}
	}

	catalog, err := scaffold.LoadCatalog(env.Files(), env.Config.Scaffold.TemplatesFile)
	if err != nil {
		return nil, err
	}

	location := scaffold.LocationAsk
	if opts.Here {
		location = scaffold.LocationCurrent
	}

	s := scaffold.New(env.FS, env.Prompter, env.Printer, env.clone(), catalog)
	res, err := s.Create(scaffold.Options{
		Name:      opts.Name,
		Author:    opts.Author,
		Version:   opts.Version,
		Template:  opts.Template,
		Location:  location,
		WorkDir:   env.Project.Root,
		AssumeYes: opts.AssumeYes,
	})
	if err != nil {
		return nil, err
	}
	result := &CreateResult{Result: res}
	if res.Cancelled || !opts.GitHub {
		return result, nil
	}

	projectEnv := *env
	projectEnv.Project = paths.Project{Root: res.Dir}
	result.Published, err = Publish(ctx, &projectEnv, PublishOptions{Private: opts.Private})
	if err != nil {
		return result, err
	}
	return result, nil
}
