package syplug

import (
	"fmt"

	"github.com/frostime/siyuan-plugin-cli/internal/version"
	"github.com/frostime/siyuan-plugin-cli/pkg/commands"
	"github.com/frostime/siyuan-plugin-cli/pkg/config"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/frostime/siyuan-plugin-cli/pkg/paths"
	"github.com/frostime/siyuan-plugin-cli/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	verbosity  int
	pluginsDir string
	project    string
	configFile string
	format     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "syplug",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVar(&g.pluginsDir, "plugins-dir", "", MsgFlagPluginsDir)
	pf.StringVarP(&g.project, "project", "C", "", MsgFlagProject)
	pf.StringVar(&g.configFile, "config", "", MsgFlagConfig)
	pf.StringVar(&g.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "dev", Title: "DEVELOPMENT:"})
	rootCmd.AddGroup(&cobra.Group{ID: "release", Title: "RELEASE:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)
	rootCmd.SetVersionTemplate(fmt.Sprintf(MsgVersionTemplate, version.Commit, version.Date))

	rootCmd.AddCommand(newLinkCmd(g))
	rootCmd.AddCommand(newCheckCmd(g))
	rootCmd.AddCommand(newInstallCmd(g))
	rootCmd.AddCommand(newBumpCmd(g))
	rootCmd.AddCommand(newCreateCmd(g))
	rootCmd.AddCommand(newPublishCmd(g))
	rootCmd.AddCommand(newGenConfigCmd(g))
	rootCmd.AddCommand(newCompletionCmd())

	initTopics(rootCmd)

	return rootCmd
}

// newEnv builds the command environment from the global flags
func newEnv(cmd *cobra.Command, g *globalFlags) (*commands.Env, error) {
	project, err := paths.NewProject(g.project)
	if err != nil {
		return nil, fmt.Errorf(MsgErrProject, err)
	}

	format, err := ui.ParseFormat(g.format)
	if err != nil {
		return nil, fmt.Errorf(MsgErrFormat, err)
	}
	out := cmd.OutOrStdout()

	cfg, err := config.Load(config.LoadOptions{
		ProjectRoot: project.Root,
		ExtraFile:   g.configFile,
	})
	if err != nil {
		return nil, err
	}

	pluginsDir := ""
	if g.pluginsDir != "" {
		pluginsDir = paths.Expand(g.pluginsDir)
	}

	return &commands.Env{
		FS:         afero.NewOsFs(),
		Config:     cfg,
		Project:    project,
		Prompter:   ui.NewLinePrompter(cmd.InOrStdin(), out),
		Printer:    ui.NewPrinter(out, ui.Resolve(format, out)),
		PluginsDir: pluginsDir,
	}, nil
}

func newLinkCmd(g *globalFlags) *cobra.Command {
	var opts commands.LinkOptions

	cmd := &cobra.Command{
		Use:     "link [dir]",
		Short:   MsgLinkShort,
		Long:    MsgLinkLong,
		Example: MsgLinkExample,
		GroupID: "dev",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, g)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.Dir = args[0]
			}

			res, err := commands.Link(cmd.Context(), env, opts)
			if err != nil {
				return err
			}
			renderLink(env.Printer, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Dev, "dev", false, MsgFlagDev)
	cmd.Flags().BoolVar(&opts.Dist, "dist", false, MsgFlagDist)
	cmd.Flags().StringVar(&opts.Src, "src", "", MsgFlagSrc)
	cmd.Flags().BoolVarP(&opts.AssumeYes, "yes", "y", false, MsgFlagYes)
	return cmd
}

func newCheckCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Short:   MsgCheckShort,
		GroupID: "dev",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, g)
			if err != nil {
				return err
			}
			res, err := commands.Check(cmd.Context(), env)
			if err != nil {
				return err
			}
			env.Printer.Println(res.Message())
			return nil
		},
	}
}

func newInstallCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "install [dir]",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		GroupID: "dev",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, g)
			if err != nil {
				return err
			}
			var opts commands.InstallOptions
			if len(args) == 1 {
				opts.Dir = args[0]
			}

			res, err := commands.Install(cmd.Context(), env, opts)
			if err != nil {
				return err
			}
			renderInstall(env.Printer, res)
			return nil
		},
	}
}

func newBumpCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "bump [major|minor|patch]",
		Short:     MsgBumpShort,
		Long:      MsgBumpLong,
		Example:   MsgBumpExample,
		GroupID:   "release",
		ValidArgs: []string{"major", "minor", "patch"},
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, g)
			if err != nil {
				return err
			}
			var opts commands.BumpOptions
			if len(args) == 1 {
				opts.Level = args[0]
			}

			res, err := commands.Bump(env, opts)
			if err != nil {
				return err
			}
			renderBump(env.Printer, res)
			return nil
		},
	}
}

func newCreateCmd(g *globalFlags) *cobra.Command {
	var opts commands.CreateOptions

	cmd := &cobra.Command{
		Use:     "create [name]",
		Short:   MsgCreateShort,
		Long:    MsgCreateLong,
		GroupID: "release",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, g)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.Name = args[0]
			}

			res, err := commands.Create(cmd.Context(), env, opts)
			if res != nil {
				if rerr := renderCreate(env.Printer, res); rerr != nil {
					log.Debug().Err(rerr).Msg("Could not render next steps")
				}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Author, "author", "", MsgFlagAuthor)
	cmd.Flags().StringVar(&opts.Version, "version", "", MsgFlagVersion)
	cmd.Flags().IntVarP(&opts.Template, "template", "t", 0, MsgFlagTemplate)
	cmd.Flags().BoolVar(&opts.Here, "here", false, MsgFlagHere)
	cmd.Flags().BoolVarP(&opts.AssumeYes, "yes", "y", false, MsgFlagYes)
	cmd.Flags().BoolVar(&opts.GitHub, "github", false, MsgFlagGitHub)
	cmd.Flags().BoolVar(&opts.Private, "private", false, MsgFlagPrivate)
	return cmd
}

func newPublishCmd(g *globalFlags) *cobra.Command {
	var opts commands.PublishOptions

	cmd := &cobra.Command{
		Use:     "publish",
		Short:   MsgPublishShort,
		Long:    MsgPublishLong,
		GroupID: "release",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, g)
			if err != nil {
				return err
			}
			res, err := commands.Publish(cmd.Context(), env, opts)
			if err != nil {
				return err
			}
			renderPublish(env.Printer, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Private, "private", false, MsgFlagPrivate)
	cmd.Flags().StringVar(&opts.Description, "description", "", MsgFlagDesc)
	cmd.Flags().BoolVar(&opts.Open, "open", false, MsgFlagOpen)
	return cmd
}

func newGenConfigCmd(g *globalFlags) *cobra.Command {
	var opts commands.GenConfigOptions

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, g)
			if err != nil {
				return err
			}
			res, err := commands.GenConfig(env, opts)
			if err != nil {
				return err
			}
			switch {
			case res.Path == "":
				env.Printer.Printf("%s", res.Content)
			case res.Existed:
				env.Printer.Warning(MsgConfigExists, res.Path)
			default:
				env.Printer.Success(MsgConfigWritten, res.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&opts.Project, "project-file", false, MsgFlagProjectCfg)
	return cmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
