package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/promptshelf/internal/clipboard"
	apperrors "github.com/dpshade/promptshelf/internal/errors"
	"github.com/dpshade/promptshelf/internal/models"
	"github.com/dpshade/promptshelf/internal/service"
	"github.com/dpshade/promptshelf/internal/storage"
	"github.com/dpshade/promptshelf/internal/ui"
)

// funcEditor runs a Go function in place of an external editor
type funcEditor func(path string) error

func (f funcEditor) Run(path string) error { return f(path) }

type testEnv struct {
	t    *testing.T
	base string
	clip *clipboard.Memory
	opts Options
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{"PATH", "EDITOR", "WATCH", "LOG_LEVEL", "LOG_FILE"} {
		t.Setenv("PROMPTSHELF_"+key, "")
	}

	clip := &clipboard.Memory{}
	return &testEnv{
		t:    t,
		base: t.TempDir(),
		clip: clip,
		opts: Options{Clipboard: clip},
	}
}

func (e *testEnv) seed(file, display string, tags []string, body string) {
	e.t.Helper()
	text, err := storage.Serialize(display, tags, body)
	require.NoError(e.t, err)
	dir := filepath.Join(e.base, storage.PromptsDir)
	require.NoError(e.t, os.MkdirAll(dir, 0755))
	require.NoError(e.t, os.WriteFile(filepath.Join(dir, file), []byte(text), 0644))
}

func (e *testEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(e.opts)
	cmd.SetArgs(append([]string{"--path", e.base}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run("", args...)
	require.NoError(e.t, err)
	return out
}

func (e *testEnv) promptPath(name string) string {
	return filepath.Join(e.base, storage.PromptsDir, name+".md")
}

func TestListWithData(t *testing.T) {
	e := newTestEnv(t)
	e.seed("code-review.md", "Code Review", []string{"code", "review"}, "Review this code\n")
	e.seed("bug-report.md", "Bug Report", []string{"bug", "issue"}, "Describe the bug\n")

	out := e.mustRun("list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "bug-report   Bug Report   [bug, issue]", lines[0])
	assert.Equal(t, "code-review  Code Review  [code, review]", lines[1])

	out = e.mustRun("list", "--tag", "bug")
	assert.Contains(t, out, "Bug Report")
	assert.NotContains(t, out, "Code Review")
}

func TestListEmpty(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, "No prompts found.\n", e.mustRun("list"))
}

func TestCreateThenDuplicate(t *testing.T) {
	e := newTestEnv(t)

	out := e.mustRun("create", "test-prompt")
	assert.Equal(t, "Created prompt: test-prompt ("+e.promptPath("test-prompt")+")\n", out)

	content, err := os.ReadFile(e.promptPath("test-prompt"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `name: "test-prompt"`)

	_, err = e.run("", "create", "test-prompt")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAlreadyExists))

	var stderr bytes.Buffer
	printError(&stderr, err)
	assert.True(t, strings.HasPrefix(stderr.String(), "Error: Prompt already exists: test-prompt\n  "))
}

func TestCreateWithOptions(t *testing.T) {
	e := newTestEnv(t)

	e.mustRun("create", "Weekly Report", "--template", "basic", "--tag", "work,report")
	_, _, body, err := storage.ParsePrompt(mustRead(t, e.promptPath("weekly-report")))
	require.NoError(t, err)
	assert.Contains(t, body, "# Instruction")

	out, err := e.run("piped body\n", "create", "from-stdin", "--content", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Created prompt: from-stdin")
	assert.Equal(t, "piped body\n", e.mustRun("get", "from-stdin"))

	assert.Contains(t, e.mustRun("list", "--tag", "work"), "Weekly Report")
}

func TestCreateUnknownTemplate(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.run("", "create", "x", "--template", "fancy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown template: fancy")
	assert.NoFileExists(t, e.promptPath("x"))
}

func TestGet(t *testing.T) {
	e := newTestEnv(t)
	e.seed("greeting.md", "Greeting", nil, "Hello there\n")

	assert.Equal(t, "Hello there\n", e.mustRun("get", "Greeting"))

	_, err := e.run("", "get", "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestEditRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	e.seed("test.md", "test", []string{"test"}, "# Original\n")

	var edited string
	e.opts.Editor = funcEditor(func(path string) error {
		edited = path
		text, err := storage.Serialize("test", []string{"test", "edited"}, "# Edited\n")
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(text), 0644)
	})

	assert.Equal(t, "Saved prompt: test\n", e.mustRun("edit", "test"))
	assert.Equal(t, e.promptPath("test"), edited)

	assert.Equal(t, "# Edited\n", e.mustRun("get", "test"))
	assert.Contains(t, e.mustRun("list"), "[test, edited]")
}

func TestEditorFailure(t *testing.T) {
	e := newTestEnv(t)
	e.seed("test.md", "test", nil, "body\n")
	e.opts.Editor = funcEditor(func(string) error {
		return apperrors.EditorError("vi exited with status 1", nil)
	})

	_, err := e.run("", "edit", "test")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeEditor))
}

func TestDeleteRequiresForce(t *testing.T) {
	e := newTestEnv(t)
	e.seed("doomed.md", "doomed", nil, "bye\n")

	_, err := e.run("", "delete", "doomed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	assert.FileExists(t, e.promptPath("doomed"))

	assert.Equal(t, "Deleted prompt: doomed\n", e.mustRun("delete", "doomed", "--force"))
	assert.NoFileExists(t, e.promptPath("doomed"))
}

func TestCopy(t *testing.T) {
	e := newTestEnv(t)
	e.seed("code-review.md", "Code Review", nil, "Review this code\n")

	assert.Equal(t, "Copied to clipboard: Code Review\n", e.mustRun("copy", "code-review"))
	assert.Equal(t, "Review this code\n", e.clip.Text)

	e.clip.Err = errors.New("no display")
	_, err := e.run("", "copy", "code-review")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeClipboard))
}

func TestSearch(t *testing.T) {
	e := newTestEnv(t)
	e.seed("code-review.md", "Code Review", []string{"code"}, "Look for bugs\n")
	e.seed("bug-report.md", "Bug Report", []string{"issue"}, "Steps to reproduce\n")

	out := e.mustRun("search", "bug")
	assert.Contains(t, out, "Code Review")
	assert.Contains(t, out, "Bug Report")

	out = e.mustRun("search", "bug", "--kind", "name")
	assert.NotContains(t, out, "Code Review")
	assert.Contains(t, out, "Bug Report")

	out = e.mustRun("search", "steps", "to")
	assert.Contains(t, out, "Bug Report")

	assert.Equal(t, "No prompts found matching 'nothing'\n", e.mustRun("search", "nothing"))

	_, err := e.run("", "search", "x", "--kind", "everything")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
}

func TestTagsAndTemplates(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, "No tags found.\n", e.mustRun("tags"))

	e.seed("a.md", "a", []string{"go", "cli"}, "")
	e.seed("b.md", "b", []string{"go"}, "")
	assert.Equal(t, "cli  1\ngo   2\n", e.mustRun("tags"))

	out := e.mustRun("templates")
	assert.Contains(t, out, "none")
	assert.Contains(t, out, "basic")
}

func TestRename(t *testing.T) {
	e := newTestEnv(t)
	e.seed("old.md", "old", []string{"keep"}, "body\n")

	assert.Equal(t, "Renamed prompt: old -> new-name\n", e.mustRun("rename", "old", "New Name"))
	assert.NoFileExists(t, e.promptPath("old"))
	assert.Contains(t, e.mustRun("list"), "new-name  New Name  [keep]")
}

func TestInit(t *testing.T) {
	e := newTestEnv(t)

	out := e.mustRun("init")
	assert.Contains(t, out, "Initialized prompt library at")
	assert.DirExists(t, filepath.Join(e.base, storage.PromptsDir))
}

func TestVersion(t *testing.T) {
	e := newTestEnv(t)
	assert.Contains(t, e.mustRun("version"), "promptshelf version "+Version)
}

func TestInteractiveCommands(t *testing.T) {
	e := newTestEnv(t)
	e.seed("pick.md", "Pick Me", nil, "body\n")

	var modes []ui.Mode
	e.opts.Interactive = func(ctx context.Context, opts ui.Options, watch bool) (ui.Outcome, error) {
		modes = append(modes, opts.Mode)
		require.NotNil(t, opts.Service)
		meta, err := opts.Service.GetPrompt("pick")
		if err != nil {
			return ui.Outcome{}, err
		}
		if opts.Mode == ui.ModeQuickSelect {
			return ui.Outcome{Copied: &meta}, nil
		}
		return ui.Outcome{}, nil
	}

	assert.Equal(t, "Copied to clipboard: Pick Me\n", e.mustRun())
	assert.Empty(t, e.mustRun("manage"))
	assert.Equal(t, []ui.Mode{ui.ModeQuickSelect, ui.ModeManagement}, modes)
}

func TestInteractiveFatalError(t *testing.T) {
	e := newTestEnv(t)
	e.opts.Interactive = func(context.Context, ui.Options, bool) (ui.Outcome, error) {
		return ui.Outcome{}, apperrors.IOError("scan prompts directory", errors.New("permission denied"))
	}

	_, err := e.run("")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeIO))
}

func TestConfigFileAndEnvironment(t *testing.T) {
	e := newTestEnv(t)
	e.seed("from-config.md", "From Config", nil, "x\n")

	configFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("path = \""+filepath.ToSlash(e.base)+"\"\n"), 0644))

	var out bytes.Buffer
	cmd := NewRootCmd(e.opts)
	cmd.SetArgs([]string{"--config", configFile, "list"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "From Config")

	t.Setenv("PROMPTSHELF_PATH", e.base)
	out.Reset()
	cmd = NewRootCmd(e.opts)
	cmd.SetArgs([]string{"list"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "From Config")

	_, err := e.run("", "--config", filepath.Join(t.TempDir(), "missing.toml"), "list")
	assert.Error(t, err)
}

func TestServiceSeesCLIChanges(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("create", "shared", "--tag", "a")

	svc, err := service.NewService(e.base)
	require.NoError(t, err)
	meta, err := svc.GetPrompt("shared")
	require.NoError(t, err)
	assert.Equal(t, models.PromptMetadata{
		Name:        "shared",
		DisplayName: "shared",
		Tags:        []string{"a"},
		FilePath:    "shared.md",
	}, meta)
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
