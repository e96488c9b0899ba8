package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/promptshelf/internal/clipboard"
	apperrors "github.com/dpshade/promptshelf/internal/errors"
	"github.com/dpshade/promptshelf/internal/service"
)

type harness struct {
	t      *testing.T
	svc    *service.Service
	app    *App
	router *Router
	clip   *clipboard.Memory
}

func newHarness(t *testing.T, mode Mode) *harness {
	t.Helper()
	svc, err := service.NewService(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, svc.InitLibrary())

	seed := []struct {
		name string
		tags []string
		body string
	}{
		{"alpha", []string{"x"}, "alpha body\n"},
		{"beta", []string{"x", "y"}, "beta body\n"},
		{"gamma", []string{"y"}, "gamma body\n"},
	}
	for _, p := range seed {
		_, err := svc.CreatePrompt(p.name, service.CreateOptions{Content: p.body, Tags: p.tags})
		require.NoError(t, err)
	}

	app, err := NewApp(svc, mode)
	require.NoError(t, err)

	return &harness{t: t, svc: svc, app: app, router: NewRouter(), clip: &clipboard.Memory{}}
}

func (h *harness) press(msgs ...tea.KeyMsg) {
	for _, msg := range msgs {
		h.router.Route(h.app, msg, Collaborators{Clipboard: h.clip})
	}
}

func (h *harness) selected() string {
	h.t.Helper()
	p, ok := h.app.Index().Selected()
	require.True(h.t, ok)
	return p.Name
}

func (h *harness) exists(name string) bool {
	_, err := os.Stat(filepath.Join(h.svc.BaseDir(), "prompts", name+".md"))
	return err == nil
}

func TestQuickSelectEnterCopiesAndQuits(t *testing.T) {
	h := newHarness(t, ModeQuickSelect)

	h.press(runes("j"), special(tea.KeyEnter))

	assert.Equal(t, "beta body\n", h.clip.Text)
	assert.True(t, h.app.ShouldQuit())
	require.NotNil(t, h.app.Copied())
	assert.Equal(t, "beta", h.app.Copied().Name)
	assert.NoError(t, h.app.Fatal())
}

func TestManagementEnterIsIgnored(t *testing.T) {
	h := newHarness(t, ModeManagement)

	h.press(special(tea.KeyEnter))

	assert.False(t, h.app.ShouldQuit())
	assert.Zero(t, h.clip.Writes)
}

func TestEnterWithNothingVisibleShowsBanner(t *testing.T) {
	h := newHarness(t, ModeQuickSelect)

	h.press(runes("/"), runes("zzz"), special(tea.KeyEnter))

	assert.False(t, h.app.ShouldQuit())
	assert.Equal(t, "No prompt selected", h.app.Error())
	assert.Equal(t, "!", h.app.ErrorIcon())
	assert.Zero(t, h.clip.Writes)

	// The acknowledging key is consumed
	h.press(runes("q"))
	assert.Empty(t, h.app.Error())
	assert.Equal(t, "zzz", h.app.Index().Query())
	assert.False(t, h.app.ShouldQuit())
}

func TestClipboardFailureIsRecoverable(t *testing.T) {
	h := newHarness(t, ModeQuickSelect)
	h.clip.Err = errors.New("no display")

	h.press(special(tea.KeyEnter))

	assert.False(t, h.app.ShouldQuit())
	assert.Contains(t, h.app.Error(), "no display")
	assert.Equal(t, "✗", h.app.ErrorIcon())
	assert.NoError(t, h.app.Fatal())

	h.press(runes("j"))
	assert.Empty(t, h.app.Error())
	assert.Empty(t, h.app.ErrorIcon())
}

func TestBannerSwallowsExactlyOneKey(t *testing.T) {
	h := newHarness(t, ModeManagement)
	require.Equal(t, "alpha", h.selected())

	h.press(runes("n"), runes("beta"), special(tea.KeyEnter))
	require.NotEmpty(t, h.app.Error())
	assert.Nil(t, h.app.CreateDialog())

	h.press(runes("j"))
	assert.Empty(t, h.app.Error())
	assert.Equal(t, "alpha", h.selected())

	h.press(runes("j"))
	assert.Equal(t, "beta", h.selected())
}

func TestModeToggle(t *testing.T) {
	h := newHarness(t, ModeQuickSelect)
	h.press(runes("j"), runes("j"))
	require.Equal(t, "gamma", h.selected())

	h.press(runes("m"))
	assert.Equal(t, ModeManagement, h.app.Mode())
	assert.Equal(t, "gamma", h.selected())

	h.press(runes("m"))
	assert.Equal(t, ModeQuickSelect, h.app.Mode())
}

func TestManagementKeysNeedManagementMode(t *testing.T) {
	h := newHarness(t, ModeQuickSelect)

	h.press(runes("e"), runes("d"), runes("n"), runes("t"))

	assert.False(t, h.app.DialogActive())
	assert.Equal(t, PendingNone, h.app.TakePending())
}

func TestSearchEditsQuery(t *testing.T) {
	h := newHarness(t, ModeQuickSelect)

	h.press(runes("/"))
	require.True(t, h.app.SearchActive())

	// j and k are text while searching
	h.press(runes("k"), runes("a"))
	assert.Equal(t, "ka", h.app.Index().Query())
	assert.Empty(t, h.app.Index().Visible())

	h.press(special(tea.KeyBackspace), special(tea.KeyBackspace), runes("a"))
	assert.Equal(t, "a", h.app.Index().Query())
	assert.Len(t, h.app.Index().Visible(), 3)

	h.press(special(tea.KeyDown))
	assert.Equal(t, "beta", h.selected())

	h.press(special(tea.KeyEsc))
	assert.False(t, h.app.SearchActive())
	assert.Empty(t, h.app.Index().Query())
	assert.Equal(t, "beta", h.selected())
}

func TestTagFilterDialog(t *testing.T) {
	h := newHarness(t, ModeQuickSelect)
	h.press(runes("j"), runes("j"))
	require.Equal(t, "gamma", h.selected())

	h.press(runes("f"))
	require.NotNil(t, h.app.TagFilterDialog())

	// Keys go to the dialog, not the list
	h.press(runes("j"), special(tea.KeyEnter))
	assert.Nil(t, h.app.TagFilterDialog())
	assert.Equal(t, "y", h.app.Index().TagFilter())
	assert.Len(t, h.app.Index().Visible(), 2)
	assert.Equal(t, "gamma", h.selected())

	h.press(runes("f"), runes("c"))
	assert.Empty(t, h.app.Index().TagFilter())
	assert.Len(t, h.app.Index().Visible(), 3)
}

func TestDialogPrecedence(t *testing.T) {
	h := newHarness(t, ModeManagement)

	h.press(runes("f"))
	require.NotNil(t, h.app.TagFilterDialog())

	// Opening another dialog is not possible while one is active
	h.press(runes("n"), runes("d"))
	assert.Nil(t, h.app.CreateDialog())
	assert.Nil(t, h.app.Confirmation())

	// Force two dialogs to check ordering: confirmation wins over tag filter
	h.app.confirm = NewConfirmModal("Delete?", "alpha")
	h.app.SetError("boom")

	h.press(runes("y"))
	assert.Empty(t, h.app.Error())
	assert.True(t, h.exists("alpha"))
	require.NotNil(t, h.app.Confirmation())

	h.press(special(tea.KeyEsc))
	assert.Nil(t, h.app.Confirmation())
	assert.NotNil(t, h.app.TagFilterDialog())

	h.press(special(tea.KeyEsc))
	assert.Nil(t, h.app.TagFilterDialog())
	assert.False(t, h.app.ShouldQuit())
}

func TestConfirmDelete(t *testing.T) {
	h := newHarness(t, ModeManagement)
	h.press(runes("j"))

	h.press(runes("d"))
	require.NotNil(t, h.app.Confirmation())
	h.press(runes("n"))
	assert.Nil(t, h.app.Confirmation())
	assert.True(t, h.exists("beta"))

	h.press(runes("d"), runes("y"))
	assert.Nil(t, h.app.Confirmation())
	assert.False(t, h.exists("beta"))
	assert.Equal(t, 2, h.app.Index().Len())
	assert.Equal(t, "alpha", h.selected())
	assert.Equal(t, "Deleted beta", h.app.Status())
}

func TestDeleteSelectedRequiresForce(t *testing.T) {
	h := newHarness(t, ModeManagement)

	err := h.app.DeleteSelected(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	assert.True(t, h.exists("alpha"))

	require.NoError(t, h.app.DeleteSelected(true))
	assert.False(t, h.exists("alpha"))
}

func TestCreateDialogCreatesAndSelects(t *testing.T) {
	h := newHarness(t, ModeManagement)

	h.press(runes("n"), runes("Delta Notes"), special(tea.KeyTab), runes("l"), special(tea.KeyEnter))

	assert.Nil(t, h.app.CreateDialog())
	assert.Empty(t, h.app.Error())
	assert.True(t, h.exists("delta-notes"))
	assert.Equal(t, "delta-notes", h.selected())

	content, err := os.ReadFile(filepath.Join(h.svc.BaseDir(), "prompts", "delta-notes.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `name: "Delta Notes"`)
	assert.Contains(t, string(content), "# Delta Notes")
}

func TestTagEditThroughRouter(t *testing.T) {
	h := newHarness(t, ModeManagement)
	require.Equal(t, "alpha", h.selected())

	h.press(runes("t"))
	require.NotNil(t, h.app.TagEditDialog())

	h.press(runes("a"), runes("new"), special(tea.KeyEnter))
	assert.Equal(t, []string{"x", "new"}, h.app.TagEditTags())

	h.press(runes("r"), special(tea.KeyEnter))
	assert.Equal(t, []string{"new"}, h.app.TagEditTags())

	prompt, err := h.svc.GetPrompt("alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, prompt.Tags)

	h.press(special(tea.KeyEsc))
	assert.Nil(t, h.app.TagEditDialog())
}

func TestTagEditStaysOnItsPrompt(t *testing.T) {
	h := newHarness(t, ModeManagement)
	h.app.Index().SetTagFilter("x")
	require.True(t, h.app.Index().Select("beta"))

	h.press(runes("t"))
	require.NotNil(t, h.app.TagEditDialog())
	assert.Equal(t, "beta", h.app.TagEditDialog().Target)

	// Removing "x" drops beta out of the filtered list and the selection moves
	h.press(runes("r"), special(tea.KeyEnter))
	assert.Equal(t, "alpha", h.selected())
	require.NotNil(t, h.app.TagEditDialog())
	assert.Equal(t, []string{"y"}, h.app.TagEditTags())

	h.press(runes("a"), runes("z"), special(tea.KeyEnter))
	assert.Equal(t, []string{"y", "z"}, h.app.TagEditTags())

	beta, err := h.svc.GetPrompt("beta")
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z"}, beta.Tags)

	alpha, err := h.svc.GetPrompt("alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, alpha.Tags)
}

func TestTagEditClosesWhenPromptDisappears(t *testing.T) {
	h := newHarness(t, ModeManagement)

	h.press(runes("t"))
	require.NotNil(t, h.app.TagEditDialog())

	require.NoError(t, h.svc.DeletePrompt("alpha", true))
	h.app.Reload()

	assert.Nil(t, h.app.TagEditDialog())
	assert.Equal(t, "beta", h.selected())
}

func TestPendingEdit(t *testing.T) {
	h := newHarness(t, ModeManagement)

	h.press(runes("e"))
	require.Equal(t, PendingEdit, h.app.TakePending())
	assert.Equal(t, PendingNone, h.app.TakePending())

	path, err := h.app.EditTarget()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.True(t, strings.HasSuffix(path, "alpha.md"))

	// The editor rewrote the file while the UI was suspended
	require.NoError(t, os.WriteFile(path, []byte("---\nname: \"alpha\"\ntags: [\"x\", \"edited\"]\n---\n# Edited\n"), 0644))
	h.app.FinishEdit(nil)

	prompt, err := h.svc.GetPrompt("alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "edited"}, prompt.Tags)
	assert.Equal(t, "Saved alpha", h.app.Status())
	assert.Empty(t, h.app.Error())
}

func TestFinishEditErrors(t *testing.T) {
	h := newHarness(t, ModeManagement)

	h.press(runes("e"))
	h.app.TakePending()
	h.app.FinishEdit(apperrors.EditorError("vi exited with status 1", nil))
	assert.Equal(t, "Editor error: vi exited with status 1", h.app.Error())
	assert.False(t, h.app.ShouldQuit())

	h.press(runes("x"), runes("e"))
	h.app.TakePending()
	h.app.FinishEdit(apperrors.EditorError("failed to start nope", nil).Critical())
	assert.True(t, h.app.ShouldQuit())
	assert.Error(t, h.app.Fatal())
}
