package clipboard

import (
	"fmt"
	"io"
	"os"
	"runtime"

	sysclip "github.com/atotto/clipboard"
	"github.com/muesli/termenv"

	apperrors "github.com/dpshade/promptshelf/internal/errors"
	"github.com/dpshade/promptshelf/internal/logger"
)

// Writer places text on a clipboard
type Writer interface {
	WriteText(text string) error
}

// ClipboardError represents an error when no clipboard utility is available
type ClipboardError struct {
	OS      string
	Message string
}

func (e *ClipboardError) Error() string {
	return e.Message
}

// NewClipboardError creates a new ClipboardError for the current platform
func NewClipboardError() *ClipboardError {
	var msg string
	switch runtime.GOOS {
	case "linux":
		msg = "no clipboard utility found"
	case "darwin":
		msg = "pbcopy not available"
	case "windows":
		msg = "clip command not available"
	default:
		msg = fmt.Sprintf("clipboard not supported on %s", runtime.GOOS)
	}

	return &ClipboardError{
		OS:      runtime.GOOS,
		Message: msg,
	}
}

// System writes to the desktop clipboard. When no clipboard utility works and
// OSC52 is enabled, the text is sent to the terminal as an OSC 52 escape so
// terminals on the far side of an SSH session can pick it up.
type System struct {
	// OSC52 enables the terminal escape fallback
	OSC52 bool
	// Output receives the escape sequence, stdout when nil
	Output io.Writer

	writeAll func(string) error
}

// NewSystem returns a System clipboard. The OSC 52 fallback is enabled for
// SSH sessions.
func NewSystem() *System {
	return &System{
		OSC52:    os.Getenv("SSH_TTY") != "" || os.Getenv("SSH_CONNECTION") != "",
		writeAll: sysclip.WriteAll,
	}
}

// WriteText copies text to the clipboard
func (s *System) WriteText(text string) error {
	writeAll := s.writeAll
	if writeAll == nil {
		writeAll = sysclip.WriteAll
	}
	cause := writeAll(text)
	if cause == nil {
		return nil
	}
	if !Available() {
		cause = NewClipboardError()
	}

	if s.OSC52 {
		out := s.Output
		if out == nil {
			out = os.Stdout
		}
		termenv.NewOutput(out).Copy(text)
		logger.Logger.Debugw("clipboard written through terminal escape", logger.FieldError, cause)
		return nil
	}

	return apperrors.WithHint(apperrors.ClipboardError(cause), GetInstallInstructions())
}

// Available reports whether a native clipboard utility was found
func Available() bool {
	return !sysclip.Unsupported
}

// GetInstallInstructions returns installation instructions for clipboard utilities
func GetInstallInstructions() string {
	switch runtime.GOOS {
	case "linux":
		return "Install a clipboard utility:\n" +
			"  • Ubuntu/Debian: sudo apt install xclip\n" +
			"  • Fedora/RHEL: sudo dnf install xclip\n" +
			"  • Arch: sudo pacman -S xclip\n" +
			"  • For Wayland: install wl-clipboard"
	case "darwin":
		return "pbcopy should be available by default on macOS"
	case "windows":
		return "clip should be available by default on Windows"
	default:
		return fmt.Sprintf("Clipboard not supported on %s", runtime.GOOS)
	}
}

// Memory records the last text written instead of touching the system clipboard
type Memory struct {
	Text   string
	Writes int
	// Err, when set, is returned from every write
	Err error
}

// WriteText records text
func (m *Memory) WriteText(text string) error {
	if m.Err != nil {
		return apperrors.ClipboardError(m.Err)
	}
	m.Text = text
	m.Writes++
	return nil
}
