package commands

import (
	"github.com/Masterminds/semver/v3"
	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/frostime/siyuan-plugin-cli/pkg/manifest"
)

// BumpOptions select the new version. An empty Level shows a menu.
type BumpOptions struct {
	Level string
}

// BumpResult reports a version bump
type BumpResult struct {
	Previous string
	Version  string
	Files    []string
	// Changed is false when the user quit or picked an invalid option
	Changed bool
	// Skipped explains an unchanged result
	Skipped string
}

// Bump messages for unchanged results
const (
	BumpQuit    = "Skipping version update."
	BumpInvalid = "Invalid option, no version update."
)

// Bump updates the version in plugin.json and package.json
func Bump(env *Env, opts BumpOptions) (*BumpResult, error) {
	logger := logging.GetLogger("commands.bump")
	pc := env.Config.Project
	fsys := env.Files()

	set, err := manifest.LoadSet(fsys, env.Project, pc.PluginManifest, pc.PackageManifest)
	if err != nil {
		return nil, err
	}
	current, err := set.Version()
	if err != nil {
		return nil, err
	}
	raw, _ := set.RawVersion()
	result := &BumpResult{Previous: raw}

	var next string
	if opts.Level != "" {
		level, err := manifest.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		v := manifest.Bump(current, level)
		next = v.String()
	} else {
		env.Printer.Printf("\n🌟  Current version: %s\n\n", env.Printer.Version(raw))
		next, result.Skipped, err = chooseVersion(env, current)
		if err != nil {
			return nil, err
		}
		if next == "" {
			return result, nil
		}
	}

	if err := set.WriteVersion(next); err != nil {
		return nil, err
	}
	if err := set.Save(fsys); err != nil {
		return nil, err
	}
	for _, m := range set.Manifests() {
		result.Files = append(result.Files, m.Path)
	}
	result.Version = next
	result.Changed = true
	logger.Info().Str("from", raw).Str("to", next).Msg("Version updated")
	return result, nil
}

// chooseVersion runs the interactive menu. An empty version with a reason
// means nothing should change.
func chooseVersion(env *Env, v *semver.Version) (string, string, error) {
	patch := manifest.Bump(v, manifest.Patch)
	minor := manifest.Bump(v, manifest.Minor)
	major := manifest.Bump(v, manifest.Major)

	p := env.Printer
	p.Println("🔄  How would you like to update the version?")
	p.Println()
	p.Printf("   1. Auto update %s version   (new version: %s)\n", p.Accent("patch"), p.Version(patch.String()))
	p.Printf("   2. Auto update %s version   (new version: %s)\n", p.Accent("minor"), p.Version(minor.String()))
	p.Printf("   3. Auto update %s version   (new version: %s)\n", p.Accent("major"), p.Version(major.String()))
	p.Printf("   4. Input version %s\n", p.Accent("manually"))
	p.Println("   0. Quit without updating")
	p.Println()

	choice, err := env.Prompter.Ask("👉  Please choose (1/2/3/4): ")
	if err != nil {
		return "", "", errors.Wrap(err, errors.ErrInvalidInput, "failed to read choice")
	}

	switch choice {
	case "1":
		return patch.String(), "", nil
	case "2":
		return minor.String(), "", nil
	case "3":
		return major.String(), "", nil
	case "4":
		answer, err := env.Prompter.Ask("✍️  Please enter the new version (in a.b.c format): ")
		if err != nil {
			return "", "", errors.Wrap(err, errors.ErrInvalidInput, "failed to read version")
		}
		manual, err := manifest.ParseVersion(answer)
		if err != nil {
			return "", "", err
		}
		return manual.String(), "", nil
	case "0":
		return "", BumpQuit, nil
	default:
		return "", BumpInvalid, nil
	}
}
