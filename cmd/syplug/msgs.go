package syplug

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Develop, install and publish SiYuan plugins"
	MsgLinkShort       = "Link the build output into the SiYuan plugins directory"
	MsgCheckShort      = "Show how the plugin is present in the plugins directory"
	MsgInstallShort    = "Copy the build output into the plugins directory"
	MsgBumpShort       = "Update the version in plugin.json and package.json"
	MsgCreateShort     = "Create a new plugin project from a template"
	MsgPublishShort    = "Create a GitHub repository for the plugin and push to it"
	MsgGenConfigShort  = "Output or write the default configuration"
	MsgCompletionShort = "Generate shell completion script"

	MsgVersionTemplate = "syplug {{.Version}} (commit %s, built %s)\n"

	// Link results
	MsgLinkCreated  = "Done! Created symlink %s --> %s"
	MsgLinkKept     = "Good! %s is already linked to %s"
	MsgLinkAborted  = "Aborted. No changes made."
	MsgLinkReplaced = "Done! Updated symlink %s --> %s"
	MsgLinkPrevious = "Previous link pointed to %s"

	// Install results
	MsgInstallRemovedLink = "Removed development link to %s"
	MsgInstallDone        = "Done! Copied %d files from %s to %s"

	// Bump results
	MsgBumpDone = "Version updated: %s --> %s"
	MsgBumpFile = "  ✓ %s"

	// Create results
	MsgCreateCancelled = "Operation cancelled."
	MsgCreateDone      = "Created %s from template %s in %s"

	// Publish results
	MsgPublishDone       = "Published %s"
	MsgPublishNoWorkflow = "Enable read and write workflow permissions in the repository settings before releasing."

	// Config results
	MsgConfigWritten = "Written default configuration to %s"
	MsgConfigExists  = "%s already exists, left unchanged"

	// Error messages
	MsgErrProject = "failed to locate project: %w"
	MsgErrFormat  = "invalid --format: %w"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagPluginsDir = "SiYuan plugins directory (skips workspace detection)"
	MsgFlagProject    = "Plugin project directory (default: current directory)"
	MsgFlagConfig     = "Extra configuration file"
	MsgFlagFormat     = "Output format: auto, term or text"
	MsgFlagYes        = "Answer yes to confirmation prompts"
	MsgFlagDev        = "Link the dev directory"
	MsgFlagDist       = "Link the dist directory"
	MsgFlagSrc        = "Link a custom directory"
	MsgFlagAuthor     = "Plugin author (GitHub user name)"
	MsgFlagVersion    = "Initial version"
	MsgFlagTemplate   = "Template number from the template menu"
	MsgFlagHere       = "Create the project in the current folder"
	MsgFlagGitHub     = "Publish the new project to GitHub"
	MsgFlagPrivate    = "Create a private repository"
	MsgFlagDesc       = "Repository description"
	MsgFlagOpen       = "Open the repository page when done"
	MsgFlagWrite      = "Write the configuration instead of printing it"
	MsgFlagProjectCfg = "Write the project file (.syplug.toml) instead of the user file"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/link-long.txt
	msgLinkLongRaw string
	MsgLinkLong    = strings.TrimSpace(msgLinkLongRaw)

	//go:embed msgs/link-example.txt
	msgLinkExampleRaw string
	MsgLinkExample    = strings.TrimSpace(msgLinkExampleRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/bump-long.txt
	msgBumpLongRaw string
	MsgBumpLong    = strings.TrimSpace(msgBumpLongRaw)

	//go:embed msgs/bump-example.txt
	msgBumpExampleRaw string
	MsgBumpExample    = strings.TrimSpace(msgBumpExampleRaw)

	//go:embed msgs/create-long.txt
	msgCreateLongRaw string
	MsgCreateLong    = strings.TrimSpace(msgCreateLongRaw)

	//go:embed msgs/create-next.md
	msgCreateNextRaw string
	MsgCreateNext    = strings.TrimSpace(msgCreateNextRaw) + "\n"

	//go:embed msgs/publish-long.txt
	msgPublishLongRaw string
	MsgPublishLong    = strings.TrimSpace(msgPublishLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
