// pkg/link/mutate_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp dirs), symlink support, scripted prompter
// PURPOSE: Verify the link decision table and its side effects

package link_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/filesystem"
	"github.com/frostime/siyuan-plugin-cli/pkg/link"
	"github.com/frostime/siyuan-plugin-cli/pkg/testutil"
	"github.com/frostime/siyuan-plugin-cli/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDecide_Table(t *testing.T) {
	sources := link.Sources{Dev: "/p/dev", Dist: "/p/dist"}
	symlink := func(target string) link.Inspection {
		return link.Inspection{State: link.SymlinkTo, Target: target, Resolved: target, Kind: sources.KindOf(target)}
	}

	tests := []struct {
		name    string
		current link.Inspection
		source  string
		want    link.Decision
	}{
		{"absent to dev", link.Inspection{State: link.Absent}, "/p/dev", link.Create},
		{"absent to other", link.Inspection{State: link.Absent}, "/p/build", link.Create},
		{"regular entry", link.Inspection{State: link.RegularEntry}, "/p/dev", link.Block},
		{"dev to dev", symlink("/p/dev"), "/p/dev", link.Keep},
		{"dev to dev trailing slash", symlink("/p/dev/"), "/p/dev", link.Keep},
		{"dev to dist", symlink("/p/dev"), "/p/dist", link.Confirm},
		{"dist to dev", symlink("/p/dist"), "/p/dev", link.Confirm},
		{"other to dev", symlink("/elsewhere"), "/p/dev", link.Overwrite},
		{"dev to other", symlink("/p/dev"), "/p/build", link.Overwrite},
		{"dist to other", symlink("/p/dist"), "/p/build", link.Overwrite},
		{"other to other", symlink("/a"), "/b", link.Overwrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, link.Decide(tt.current, tt.source, sources))
		})
	}
}

func TestDecide_Properties(t *testing.T) {
	sources := link.Sources{Dev: "/p/dev", Dist: "/p/dist"}
	dirs := rapid.SampledFrom([]string{"/p/dev", "/p/dev/", "/P/DEV", `\p\dist`, "/p/dist", "/p/build", "/other"})

	rapid.Check(t, func(t *rapid.T) {
		target := dirs.Draw(t, "target")
		source := dirs.Draw(t, "source")
		current := link.Inspection{State: link.SymlinkTo, Target: target, Resolved: target, Kind: sources.KindOf(target)}

		got := link.Decide(current, source, sources)
		from, to := sources.KindOf(target), sources.KindOf(source)

		switch {
		case from == to && from != link.Other:
			if got != link.Keep {
				t.Fatalf("same build output %s -> %s: got %s", target, source, got)
			}
		case got == link.Confirm:
			if from == link.Other || to == link.Other {
				t.Fatalf("confirmation outside a dev/dist switch: %s -> %s", target, source)
			}
		case got == link.Create || got == link.Block:
			t.Fatalf("existing link decided %s", got)
		}

		if link.Decide(link.Inspection{State: link.RegularEntry}, source, sources) != link.Block {
			t.Fatal("regular entry must block")
		}
	})
}

func newRequest(env *testutil.ProjectEnv, source string) link.Request {
	return link.Request{
		InstallPath: env.InstallPath(),
		Source:      source,
		Sources:     sourcesOf(env),
	}
}

func TestEnumStrings(t *testing.T) {
	decisions := map[link.Decision]string{
		link.Create:    "create",
		link.Keep:      "keep",
		link.Confirm:   "confirm",
		link.Overwrite: "overwrite",
		link.Block:     "block",
	}
	for d, want := range decisions {
		assert.Equal(t, want, d.String())
	}

	assert.Equal(t, "unknown", link.Decision(99).String())
	assert.Equal(t, "unknown", link.Decision(-1).String())
	assert.Equal(t, "unknown", link.Action(99).String())
	assert.Equal(t, "unknown", link.State(99).String())
}

func TestLink_CreatesDevLink(t *testing.T) {
	testutil.RequireSymlinks(t)
	env := testutil.NewProjectEnv(t)
	prompter := &ui.ScriptedPrompter{}

	result, err := link.NewLinker(filesystem.NewOS(), prompter).Link(newRequest(env, env.DevDir()))
	require.NoError(t, err)

	assert.Equal(t, link.Created, result.Action)
	assert.Equal(t, env.DevDir(), testutil.ReadSymlink(t, env.InstallPath()))
	assert.Empty(t, prompter.Questions, "creating a link never prompts")
}

func TestLink_CreatesMissingSource(t *testing.T) {
	testutil.RequireSymlinks(t)
	env := testutil.NewProjectEnv(t)
	source := filepath.Join(env.ProjectDir, "build")

	result, err := link.NewLinker(filesystem.NewOS(), &ui.ScriptedPrompter{}).Link(newRequest(env, source))
	require.NoError(t, err)

	assert.Equal(t, link.Created, result.Action)
	info, err := os.Stat(source)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLink_IdempotentSecondRun(t *testing.T) {
	testutil.RequireSymlinks(t)
	env := testutil.NewProjectEnv(t)
	linker := link.NewLinker(filesystem.NewOS(), &ui.ScriptedPrompter{})

	_, err := linker.Link(newRequest(env, env.DevDir()))
	require.NoError(t, err)
	before := testutil.ModTime(t, env.InstallPath())

	result, err := linker.Link(newRequest(env, env.DevDir()))
	require.NoError(t, err)

	assert.Equal(t, link.AlreadyLinked, result.Action)
	assert.Equal(t, before, testutil.ModTime(t, env.InstallPath()), "second run must not touch the link")
}

func TestLink_DevToDistDeclined(t *testing.T) {
	testutil.RequireSymlinks(t)
	env := testutil.NewProjectEnv(t)
	testutil.CreateSymlink(t, env.DevDir(), env.InstallPath())

	for _, answer := range []string{"", "n", "no", "whatever"} {
		prompter := &ui.ScriptedPrompter{Answers: []string{answer}}
		result, err := link.NewLinker(filesystem.NewOS(), prompter).Link(newRequest(env, env.DistDir()))
		require.NoError(t, err)

		assert.Equal(t, link.Declined, result.Action, "answer %q", answer)
		assert.Equal(t, env.DevDir(), testutil.ReadSymlink(t, env.InstallPath()))
		require.Len(t, prompter.Questions, 1)
		assert.Contains(t, prompter.Questions[0], "from ./dev to ./dist")
	}
}

func TestLink_DevToDistAccepted(t *testing.T) {
	testutil.RequireSymlinks(t)
	env := testutil.NewProjectEnv(t)
	testutil.CreateSymlink(t, env.DevDir(), env.InstallPath())

	prompter := &ui.ScriptedPrompter{Answers: []string{"y"}}
	result, err := link.NewLinker(filesystem.NewOS(), prompter).Link(newRequest(env, env.DistDir()))
	require.NoError(t, err)

	assert.Equal(t, link.Replaced, result.Action)
	assert.Equal(t, link.Dev, result.Previous.Kind)
	assert.Equal(t, env.DistDir(), testutil.ReadSymlink(t, env.InstallPath()))
}

func TestLink_DistToDevAssumeYes(t *testing.T) {
	testutil.RequireSymlinks(t)
	env := testutil.NewProjectEnv(t)
	testutil.CreateSymlink(t, env.DistDir(), env.InstallPath())

	prompter := &ui.ScriptedPrompter{}
	req := newRequest(env, env.DevDir())
	req.AssumeYes = true

	result, err := link.NewLinker(filesystem.NewOS(), prompter).Link(req)
	require.NoError(t, err)

	assert.Equal(t, link.Replaced, result.Action)
	assert.Empty(t, prompter.Questions)
	assert.Equal(t, env.DevDir(), testutil.ReadSymlink(t, env.InstallPath()))
}

func TestLink_OtherTransitionsAreSilent(t *testing.T) {
	testutil.RequireSymlinks(t)

	t.Run("other to dev", func(t *testing.T) {
		env := testutil.NewProjectEnv(t)
		elsewhere := testutil.CreateDir(t, env.ProjectDir, "old-build")
		testutil.CreateSymlink(t, elsewhere, env.InstallPath())

		prompter := &ui.ScriptedPrompter{}
		result, err := link.NewLinker(filesystem.NewOS(), prompter).Link(newRequest(env, env.DevDir()))
		require.NoError(t, err)

		assert.Equal(t, link.Replaced, result.Action)
		assert.Empty(t, prompter.Questions)
		assert.Equal(t, env.DevDir(), testutil.ReadSymlink(t, env.InstallPath()))
	})

	t.Run("dev to other", func(t *testing.T) {
		env := testutil.NewProjectEnv(t)
		testutil.CreateSymlink(t, env.DevDir(), env.InstallPath())
		other := filepath.Join(env.ProjectDir, "preview")

		prompter := &ui.ScriptedPrompter{}
		result, err := link.NewLinker(filesystem.NewOS(), prompter).Link(newRequest(env, other))
		require.NoError(t, err)

		assert.Equal(t, link.Replaced, result.Action)
		assert.Empty(t, prompter.Questions)
		assert.Equal(t, other, testutil.ReadSymlink(t, env.InstallPath()))
	})
}

func TestLink_RegularEntryBlocked(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	testutil.CreateFile(t, env.InstallPath(), "index.js", "installed copy")

	_, err := link.NewLinker(filesystem.NewOS(), &ui.ScriptedPrompter{}).Link(newRequest(env, env.DevDir()))
	require.Error(t, err)

	assert.True(t, errors.IsErrorCode(err, errors.ErrConflictBlocked))
	assert.Contains(t, err.Error(), "remove it manually")
	assert.Equal(t, "installed copy", testutil.ReadFile(t, filepath.Join(env.InstallPath(), "index.js")))
	assert.False(t, testutil.SymlinkExists(t, env.InstallPath()))
}

func TestLink_MemoryFSReportsSymlinkFailure(t *testing.T) {
	fsys := filesystem.NewMemory()
	req := link.Request{
		InstallPath: "/plugins/demo",
		Source:      "/proj/dev",
		Sources:     link.Sources{Dev: "/proj/dev", Dist: "/proj/dist"},
	}
	require.NoError(t, fsys.MkdirAll("/plugins", 0755))

	_, err := link.NewLinker(fsys, &ui.ScriptedPrompter{}).Link(req)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSymlinkCreate))

	// the source directory is still created lazily before the attempt
	info, statErr := fsys.Stat("/proj/dev")
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}
