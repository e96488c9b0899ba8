package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func seed(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, "prompts")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Code Review.md"), []byte("---\nname: \"Code Review\"\n---\nbody\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.md"), []byte("---\nname: \"ok\"\n---\nbody\n"), 0644))
	return base
}

func TestDryRunLeavesFiles(t *testing.T) {
	base := seed(t)

	out := execute(t, "", "--path", base, "--dry-run")
	assert.Contains(t, out, "Code Review.md -> code-review")
	assert.FileExists(t, filepath.Join(base, "prompts", "Code Review.md"))
}

func TestRenameAfterConfirmation(t *testing.T) {
	base := seed(t)

	out := execute(t, "n\n", "--path", base)
	assert.Contains(t, out, "Cancelled")
	assert.FileExists(t, filepath.Join(base, "prompts", "Code Review.md"))

	out = execute(t, "y\n", "--path", base)
	assert.Contains(t, out, "renamed 1 of 1")
	assert.FileExists(t, filepath.Join(base, "prompts", "code-review.md"))
	assert.NoFileExists(t, filepath.Join(base, "prompts", "Code Review.md"))

	out = execute(t, "", "--path", base, "--yes")
	assert.Contains(t, out, "already use normalized names")
}
