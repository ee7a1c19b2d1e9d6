// pkg/commands/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp dirs), scripted prompter, fake externals
// PURPOSE: Verify each command end to end below the CLI layer

package commands_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frostime/siyuan-plugin-cli/pkg/commands"
	"github.com/frostime/siyuan-plugin-cli/pkg/config"
	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/gitutil"
	"github.com/frostime/siyuan-plugin-cli/pkg/link"
	"github.com/frostime/siyuan-plugin-cli/pkg/paths"
	"github.com/frostime/siyuan-plugin-cli/pkg/testutil"
	"github.com/frostime/siyuan-plugin-cli/pkg/ui"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newEnv(t *testing.T, pe *testutil.ProjectEnv, answers ...string) (*commands.Env, *ui.ScriptedPrompter, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Load(config.LoadOptions{ProjectRoot: pe.ProjectDir})
	require.NoError(t, err)

	prompter := &ui.ScriptedPrompter{Answers: answers}
	out := &bytes.Buffer{}
	return &commands.Env{
		FS:          afero.NewOsFs(),
		Config:      cfg,
		Project:     pe.Project,
		Prompter:    prompter,
		Printer:     ui.NewPrinter(out, ui.FormatText),
		OpenBrowser: func(string) error { return nil },
	}, prompter, out
}

func TestLinkOptions_SourceDir(t *testing.T) {
	tests := []struct {
		name string
		opts commands.LinkOptions
		want string
	}{
		{"default", commands.LinkOptions{}, "dev"},
		{"positional", commands.LinkOptions{Dir: "build/"}, "build"},
		{"dev flag beats positional", commands.LinkOptions{Dir: "build", Dev: true}, "dev"},
		{"dist beats dev", commands.LinkOptions{Dev: true, Dist: true}, "dist"},
		{"src beats everything", commands.LinkOptions{Dir: "a", Dev: true, Dist: true, Src: "custom"}, "custom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.SourceDir("dev", "dist"))
		})
	}
}

func TestLink_Lifecycle(t *testing.T) {
	testutil.RequireSymlinks(t)
	pe := testutil.NewProjectEnv(t)
	ctx := context.Background()

	env, _, _ := newEnv(t, pe)
	res, err := commands.Link(ctx, env, commands.LinkOptions{})
	require.NoError(t, err)
	assert.Equal(t, link.Created, res.Action)
	assert.Equal(t, pe.InstallPath(), res.InstallPath)
	assert.Equal(t, pe.DevDir(), testutil.ReadSymlink(t, pe.InstallPath()))

	res, err = commands.Link(ctx, env, commands.LinkOptions{})
	require.NoError(t, err)
	assert.Equal(t, link.AlreadyLinked, res.Action)

	env, prompter, _ := newEnv(t, pe, "")
	res, err = commands.Link(ctx, env, commands.LinkOptions{Dist: true})
	require.NoError(t, err)
	assert.Equal(t, link.Declined, res.Action)
	assert.Len(t, prompter.Questions, 1)
	assert.Equal(t, pe.DevDir(), testutil.ReadSymlink(t, pe.InstallPath()))

	env, _, _ = newEnv(t, pe)
	res, err = commands.Link(ctx, env, commands.LinkOptions{Dist: true, AssumeYes: true})
	require.NoError(t, err)
	assert.Equal(t, link.Replaced, res.Action)
	assert.Equal(t, pe.DistDir(), testutil.ReadSymlink(t, pe.InstallPath()))
}

func TestLink_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("no plugins directory", func(t *testing.T) {
		pe := testutil.NewProjectEnv(t)
		t.Setenv(paths.EnvPluginDir, "")
		env, _, _ := newEnv(t, pe)

		_, err := commands.Link(ctx, env, commands.LinkOptions{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrResolution))
	})

	t.Run("plugins directory missing", func(t *testing.T) {
		pe := testutil.NewProjectEnv(t)
		t.Setenv(paths.EnvPluginDir, filepath.Join(pe.PluginsDir, "nope"))
		env, _, _ := newEnv(t, pe)

		_, err := commands.Link(ctx, env, commands.LinkOptions{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrResolution))
	})

	t.Run("no manifest", func(t *testing.T) {
		pe := testutil.NewProjectEnv(t)
		require.NoError(t, os.Remove(filepath.Join(pe.ProjectDir, "plugin.json")))
		env, _, _ := newEnv(t, pe)

		_, err := commands.Link(ctx, env, commands.LinkOptions{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrManifestNotFound))
	})

	t.Run("blocked by installed copy", func(t *testing.T) {
		pe := testutil.NewProjectEnv(t)
		testutil.CreateFile(t, pe.InstallPath(), "index.js", "copy")
		env, _, _ := newEnv(t, pe)

		_, err := commands.Link(ctx, env, commands.LinkOptions{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConflictBlocked))
	})

	t.Run("explicit plugins dir wins", func(t *testing.T) {
		testutil.RequireSymlinks(t)
		pe := testutil.NewProjectEnv(t)
		other := testutil.CreateDir(t, filepath.Dir(pe.PluginsDir), "other-plugins")
		env, _, _ := newEnv(t, pe)
		env.PluginsDir = other

		res, err := commands.Link(ctx, env, commands.LinkOptions{})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(other, pe.Name), res.InstallPath)
	})
}

func TestCheck_Messages(t *testing.T) {
	ctx := context.Background()

	t.Run("absent", func(t *testing.T) {
		pe := testutil.NewProjectEnv(t)
		env, _, _ := newEnv(t, pe)
		res, err := commands.Check(ctx, env)
		require.NoError(t, err)
		assert.Equal(t, "Not linked or installed: "+pe.InstallPath()+" does not exist.", res.Message())
	})

	t.Run("copy", func(t *testing.T) {
		pe := testutil.NewProjectEnv(t)
		testutil.CreateDir(t, pe.PluginsDir, pe.Name)
		env, _, _ := newEnv(t, pe)
		res, err := commands.Check(ctx, env)
		require.NoError(t, err)
		assert.Equal(t, "Exists but not a symlink. Likely installed via copy (syplug install).", res.Message())
	})

	t.Run("links", func(t *testing.T) {
		testutil.RequireSymlinks(t)
		pe := testutil.NewProjectEnv(t)
		env, _, _ := newEnv(t, pe)

		testutil.CreateSymlink(t, pe.DevDir(), pe.InstallPath())
		res, err := commands.Check(ctx, env)
		require.NoError(t, err)
		assert.Equal(t, "Linked: dev (symlink) -> "+pe.DevDir(), res.Message())

		require.NoError(t, os.Remove(pe.InstallPath()))
		testutil.CreateSymlink(t, pe.DistDir(), pe.InstallPath())
		res, err = commands.Check(ctx, env)
		require.NoError(t, err)
		assert.Equal(t, "Linked: dist (symlink) -> "+pe.DistDir(), res.Message())

		require.NoError(t, os.Remove(pe.InstallPath()))
		elsewhere := testutil.CreateDir(t, pe.ProjectDir, "elsewhere")
		testutil.CreateSymlink(t, elsewhere, pe.InstallPath())
		res, err = commands.Check(ctx, env)
		require.NoError(t, err)
		assert.Equal(t, "Linked: symlink to another path -> "+elsewhere, res.Message())
	})
}

func TestInstall_CopiesDist(t *testing.T) {
	pe := testutil.NewProjectEnv(t)
	testutil.CreateFile(t, pe.DistDir(), "index.js", "dist")
	env, _, _ := newEnv(t, pe)

	res, err := commands.Install(context.Background(), env, commands.InstallOptions{})
	require.NoError(t, err)
	assert.Equal(t, pe.DistDir(), res.Source)
	assert.Equal(t, "dist", testutil.ReadFile(t, filepath.Join(pe.InstallPath(), "index.js")))
	assert.False(t, testutil.SymlinkExists(t, pe.InstallPath()))
}

func TestBump_Positional(t *testing.T) {
	pe := testutil.NewProjectEnv(t)
	testutil.CreateJSON(t, pe.ProjectDir, "package.json", map[string]string{"name": pe.Name, "version": "0.1.0"})
	env, prompter, _ := newEnv(t, pe)

	res, err := commands.Bump(env, commands.BumpOptions{Level: "minor"})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, "0.2.0", res.Version)
	assert.Empty(t, prompter.Questions)
	assert.Len(t, res.Files, 2)
	for _, f := range []string{"plugin.json", "package.json"} {
		data := testutil.ReadFile(t, filepath.Join(pe.ProjectDir, f))
		assert.Equal(t, "0.2.0", gjson.Get(data, "version").String(), f)
		assert.True(t, strings.HasSuffix(data, "\n"))
	}
}

func TestBump_Menu(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		changed bool
		version string
		skipped string
		wantErr bool
	}{
		{"patch", []string{"1"}, true, "0.1.1", "", false},
		{"minor", []string{"2"}, true, "0.2.0", "", false},
		{"major", []string{"3"}, true, "1.0.0", "", false},
		{"manual", []string{"4", "v3.4.5"}, true, "3.4.5", "", false},
		{"quit", []string{"0"}, false, "", commands.BumpQuit, false},
		{"invalid choice", []string{"7"}, false, "", commands.BumpInvalid, false},
		{"empty choice", []string{""}, false, "", commands.BumpInvalid, false},
		{"invalid manual", []string{"4", "not.a.version"}, false, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := testutil.NewProjectEnv(t)
			env, _, out := newEnv(t, pe, tt.answers...)

			res, err := commands.Bump(env, commands.BumpOptions{})
			got := gjson.Get(testutil.ReadFile(t, filepath.Join(pe.ProjectDir, "plugin.json")), "version").String()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrValidation))
				assert.Equal(t, "0.1.0", got)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), "(new version: 0.1.1)")
			assert.Equal(t, tt.changed, res.Changed)
			assert.Equal(t, tt.skipped, res.Skipped)
			if tt.changed {
				assert.Equal(t, tt.version, got)
			} else {
				assert.Equal(t, "0.1.0", got)
			}
		})
	}
}

func TestCreate_WithFakeClone(t *testing.T) {
	pe := testutil.NewProjectEnv(t)
	work := testutil.CreateDir(t, filepath.Dir(pe.ProjectDir), "work")
	env, _, _ := newEnv(t, pe)
	env.Project = paths.Project{Root: work}

	var cloned string
	env.Clone = func(url, dest string) error {
		cloned = url
		testutil.CreateFile(t, dest, "plugin.json", `{"name":"sample","version":"0.0.1"}`)
		testutil.CreateFile(t, dest, ".git/HEAD", "ref")
		return nil
	}

	env.Prompter = &ui.ScriptedPrompter{Answers: []string{"1"}}
	res, err := commands.Create(context.Background(), env, commands.CreateOptions{
		Name: "new-plugin", Author: "carol", Template: 3, Version: "1.2.3",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/frostime/plugin-sample-vite-solidjs", cloned)
	assert.Equal(t, filepath.Join(work, "new-plugin"), res.Dir)
	assert.Nil(t, res.Published)

	data := testutil.ReadFile(t, filepath.Join(work, "new-plugin", "plugin.json"))
	assert.Equal(t, "new-plugin", gjson.Get(data, "name").String())
	assert.Equal(t, "https://github.com/carol/new-plugin", gjson.Get(data, "url").String())
}

func TestPublish_EndToEnd(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch {
		case r.URL.Path == "/user":
			_, _ = io.WriteString(w, `{"login":"dave"}`)
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"full_name":"dave/demo-plugin","html_url":"https://github.com/dave/demo-plugin","clone_url":"https://github.com/dave/demo-plugin.git"}`)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	t.Cleanup(srv.Close)

	pe := testutil.NewProjectEnv(t)
	env, _, _ := newEnv(t, pe)
	env.Config.GitHub.API = srv.URL
	env.Config.GitHub.Token = "tok"

	var pushed gitutil.PushOptions
	env.Push = func(_ context.Context, dir string, opts gitutil.PushOptions) error {
		assert.Equal(t, pe.ProjectDir, dir)
		pushed = opts
		return nil
	}
	var opened []string
	env.OpenBrowser = func(url string) error {
		opened = append(opened, url)
		return nil
	}

	res, err := commands.Publish(context.Background(), env, commands.PublishOptions{Open: true})
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, "config", res.TokenSource)
	assert.Equal(t, "https://github.com/dave/demo-plugin.git", pushed.RemoteURL)
	assert.Equal(t, "main", pushed.Branch)
	assert.Equal(t, []string{"https://github.com/dave/demo-plugin"}, opened)
	assert.Contains(t, calls, "GET /repos/dave/demo-plugin")
}

func TestPublish_RejectedStoredTokenIsForgotten(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	pe := testutil.NewProjectEnv(t)
	env, _, _ := newEnv(t, pe)
	env.Config.GitHub.API = srv.URL
	testutil.CreateFile(t, filepath.Dir(env.Config.GitHub.CredentialsFile),
		filepath.Base(env.Config.GitHub.CredentialsFile), "token = \"stale\"\n")

	_, err := commands.Publish(context.Background(), env, commands.PublishOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnauthorized))

	_, statErr := os.Stat(env.Config.GitHub.CredentialsFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenConfig(t *testing.T) {
	pe := testutil.NewProjectEnv(t)
	env, _, _ := newEnv(t, pe)

	res, err := commands.GenConfig(env, commands.GenConfigOptions{})
	require.NoError(t, err)
	assert.Contains(t, res.Content, "[siyuan]")
	assert.Empty(t, res.Path)

	res, err = commands.GenConfig(env, commands.GenConfigOptions{Write: true, Project: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(pe.ProjectDir, ".syplug.toml"), res.Path)
	assert.False(t, res.Existed)
	assert.Equal(t, res.Content, testutil.ReadFile(t, res.Path))
	assert.NotContains(t, res.Content, "[github]")

	res, err = commands.GenConfig(env, commands.GenConfigOptions{Write: true, Project: true})
	require.NoError(t, err)
	assert.True(t, res.Existed)
}
