// Package editor launches the user's external editor on a prompt file.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	apperrors "github.com/dpshade/promptshelf/internal/errors"
	"github.com/dpshade/promptshelf/internal/logger"
)

// DefaultEditor is used when neither configuration nor environment names one
const DefaultEditor = "vi"

// Resolve picks the editor command: the configured value, then $VISUAL, then
// $EDITOR, then vi.
func Resolve(configured string) string {
	for _, candidate := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return strings.TrimSpace(candidate)
		}
	}
	return DefaultEditor
}

// Launcher runs an editor command line. The command is split like a shell
// would split it, so "code --wait" works, and the file path is appended as
// the last argument.
type Launcher struct {
	Editor string
}

// New returns a launcher for the resolved editor
func New(configured string) *Launcher {
	return &Launcher{Editor: Resolve(configured)}
}

// Command builds the editor process for path with the terminal's stdio
// attached. It does not start it.
func (l *Launcher) Command(path string) (*exec.Cmd, error) {
	args, err := shellquote.Split(l.Editor)
	if err != nil {
		return nil, apperrors.EditorError(fmt.Sprintf("cannot parse editor command %q", l.Editor), err).Critical()
	}
	if len(args) == 0 {
		return nil, apperrors.EditorError("no editor configured", nil).Critical()
	}

	cmd := exec.Command(args[0], append(args[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// Run opens path in the editor and waits for it to exit
func (l *Launcher) Run(path string) error {
	cmd, err := l.Command(path)
	if err != nil {
		return err
	}

	logger.Logger.Debugw("launching editor",
		logger.FieldEditor, l.Editor,
		logger.FieldPath, path,
	)
	return Classify(l.Editor, cmd.Run())
}

// Classify turns the result of running the editor into an application error.
// A non-zero exit is recoverable; an editor that could not be started is not.
func Classify(editor string, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return apperrors.EditorError(fmt.Sprintf("%s exited with status %d", editor, exitErr.ExitCode()), err)
	}
	return apperrors.EditorError(fmt.Sprintf("failed to start %s: %v", editor, err), err).Critical()
}
