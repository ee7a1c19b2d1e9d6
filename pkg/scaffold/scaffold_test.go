// pkg/scaffold/scaffold_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero memory filesystem, fake clone, scripted prompter
// PURPOSE: Verify the create flow, folder handling and manifest rewriting

package scaffold_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/filesystem"
	"github.com/frostime/siyuan-plugin-cli/pkg/scaffold"
	"github.com/frostime/siyuan-plugin-cli/pkg/ui"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const workDir = "/work"

type fakeClone struct {
	fs     afero.Fs
	files  map[string]string
	cloned []string
}

func (f *fakeClone) clone(url, dest string) error {
	f.cloned = append(f.cloned, url)
	for name, content := range f.files {
		path := filepath.Join(dest, name)
		if err := f.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := afero.WriteFile(f.fs, path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func setup(t *testing.T, answers ...string) (afero.Fs, *fakeClone, *scaffold.Scaffolder, *ui.ScriptedPrompter) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(workDir, 0755))

	catalog, err := scaffold.LoadCatalog(filesystem.NewAferoFS(fsys), "")
	require.NoError(t, err)

	fc := &fakeClone{fs: fsys, files: map[string]string{
		".git/HEAD":    "ref: refs/heads/main",
		"plugin.json":  `{"name":"plugin-sample","author":"frostime","url":"x","version":"0.0.1","minAppVersion":"3.0.0"}`,
		"package.json": `{"name":"plugin-sample","version":"0.0.1","scripts":{"dev":"vite"}}`,
		"src/index.ts": "export default {}",
	}}
	prompter := &ui.ScriptedPrompter{Answers: answers}
	s := scaffold.New(fsys, prompter, ui.NewPrinter(&bytes.Buffer{}, ui.FormatText), fc.clone, catalog)
	return fsys, fc, s, prompter
}

func readJSON(t *testing.T, fsys afero.Fs, path string) gjson.Result {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	return gjson.ParseBytes(data)
}

func TestCreate_InteractiveNewFolder(t *testing.T) {
	fsys, fc, s, prompter := setup(t, "my-plugin", "alice", "", "2", "1")

	res, err := s.Create(scaffold.Options{WorkDir: workDir})
	require.NoError(t, err)
	require.False(t, res.Cancelled)

	assert.Len(t, prompter.Questions, 5)
	assert.Equal(t, filepath.Join(workDir, "my-plugin"), res.Dir)
	assert.Equal(t, "Vite", res.Template.Name)
	assert.Equal(t, []string{"https://github.com/frostime/plugin-sample-vite"}, fc.cloned)

	plugin := readJSON(t, fsys, filepath.Join(res.Dir, "plugin.json"))
	assert.Equal(t, "my-plugin", plugin.Get("name").String())
	assert.Equal(t, "alice", plugin.Get("author").String())
	assert.Equal(t, "0.1.0", plugin.Get("version").String())
	assert.Equal(t, "https://github.com/alice/my-plugin", plugin.Get("url").String())
	assert.Equal(t, "3.0.0", plugin.Get("minAppVersion").String())

	pkg := readJSON(t, fsys, filepath.Join(res.Dir, "package.json"))
	assert.Equal(t, "my-plugin", pkg.Get("name").String())
	assert.Equal(t, "vite", pkg.Get("scripts.dev").String())

	exists, err := afero.Exists(fsys, filepath.Join(res.Dir, ".git"))
	require.NoError(t, err)
	assert.False(t, exists, "template history must not be copied")
}

func TestCreate_FlagsSkipPrompts(t *testing.T) {
	fsys, fc, s, prompter := setup(t)

	res, err := s.Create(scaffold.Options{
		Name:     "flagged",
		Author:   "bob",
		Version:  "v2.0.0",
		Template: 4,
		Location: scaffold.LocationCurrent,
		WorkDir:  workDir,
	})
	require.NoError(t, err)

	assert.Empty(t, prompter.Questions)
	assert.Equal(t, workDir, res.Dir)
	assert.Equal(t, "2.0.0", res.Version)
	assert.Equal(t, []string{"https://github.com/frostime/plugin-sample-min"}, fc.cloned)
	assert.Equal(t, "2.0.0", readJSON(t, fsys, filepath.Join(workDir, "plugin.json")).Get("version").String())
}

func TestCreate_NonEmptyCurrentFolder(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		fsys, fc, s, _ := setup(t, "n")
		require.NoError(t, afero.WriteFile(fsys, filepath.Join(workDir, "notes.txt"), []byte("mine"), 0644))

		res, err := s.Create(scaffold.Options{
			Name: "demo", Author: "a", Version: "1.0.0", Template: 1,
			Location: scaffold.LocationCurrent, WorkDir: workDir,
		})
		require.NoError(t, err)
		assert.True(t, res.Cancelled)
		assert.Empty(t, fc.cloned)
	})

	t.Run("accepted", func(t *testing.T) {
		fsys, fc, s, _ := setup(t, "y")
		require.NoError(t, afero.WriteFile(fsys, filepath.Join(workDir, "notes.txt"), []byte("mine"), 0644))

		res, err := s.Create(scaffold.Options{
			Name: "demo", Author: "a", Version: "1.0.0", Template: 1,
			Location: scaffold.LocationCurrent, WorkDir: workDir,
		})
		require.NoError(t, err)
		assert.False(t, res.Cancelled)
		assert.Len(t, fc.cloned, 1)

		data, err := afero.ReadFile(fsys, filepath.Join(workDir, "notes.txt"))
		require.NoError(t, err)
		assert.Equal(t, "mine", string(data))
	})
}

func TestCreate_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		opts scaffold.Options
	}{
		{"bad name", scaffold.Options{Name: "../escape", Author: "a", Version: "1.0.0", Template: 1}},
		{"empty author", scaffold.Options{Name: "demo", Author: " ", Version: "1.0.0", Template: 1}},
		{"bad version", scaffold.Options{Name: "demo", Author: "a", Version: "one", Template: 1}},
		{"template out of range", scaffold.Options{Name: "demo", Author: "a", Version: "1.0.0", Template: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, fc, s, _ := setup(t, " ")
			tt.opts.WorkDir = workDir
			tt.opts.Location = scaffold.LocationNewFolder

			_, err := s.Create(tt.opts)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrValidation))
			assert.Empty(t, fc.cloned)
		})
	}
}

func TestCreate_ExistingNewFolder(t *testing.T) {
	fsys, fc, s, _ := setup(t)
	require.NoError(t, fsys.MkdirAll(filepath.Join(workDir, "demo"), 0755))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(workDir, "demo", "x"), []byte("x"), 0644))

	_, err := s.Create(scaffold.Options{
		Name: "demo", Author: "a", Version: "1.0.0", Template: 1,
		Location: scaffold.LocationNewFolder, WorkDir: workDir,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrValidation))
	assert.Empty(t, fc.cloned)
}

func TestLoadCatalog(t *testing.T) {
	fsys := filesystem.NewMemory()

	builtin, err := scaffold.LoadCatalog(fsys, "")
	require.NoError(t, err)
	require.Len(t, builtin, 4)
	assert.Equal(t, "Vite + Svelte", builtin[0].Name)
	assert.Equal(t, "https://github.com/siyuan-note/plugin-sample-vite-svelte", builtin[0].URL)

	require.NoError(t, fsys.WriteFile("/custom.yaml", []byte("templates:\n  - name: Mine\n    url: https://example.com/t.git\n"), 0644))
	custom, err := scaffold.LoadCatalog(fsys, "/custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, []scaffold.Template{{Name: "Mine", URL: "https://example.com/t.git"}}, custom)

	require.NoError(t, fsys.WriteFile("/empty.yaml", []byte("templates: []\n"), 0644))
	_, err = scaffold.LoadCatalog(fsys, "/empty.yaml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))

	_, err = scaffold.LoadCatalog(fsys, "/missing.yaml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}
