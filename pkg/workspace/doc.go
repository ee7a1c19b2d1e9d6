// Package workspace resolves the SiYuan plugins directory that syplug
// links and installs into.
//
// Resolution order:
//   - an explicit directory (the --plugins-dir flag)
//   - workspaces reported by the running SiYuan kernel
//   - workspaces listed in the desktop app's workspace.json
//   - the configured fallback (SIYUAN_PLUGIN_DIR)
//
// Each workspace maps to <workspace>/data/plugins. When several
// workspaces are found the user picks one through a ui.Prompter.
package workspace
