package errors

import (
	"fmt"
	"strings"

	"github.com/dpshade/promptshelf/internal/logger"
)

// ErrorHandler provides interface-specific error handling
type ErrorHandler interface {
	HandleError(err error) error
	FormatError(err error) string
}

// CLIErrorHandler handles errors for CLI interface
type CLIErrorHandler struct {
	Verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler(verbose bool) *CLIErrorHandler {
	return &CLIErrorHandler{
		Verbose: verbose,
	}
}

// HandleError logs the error and returns it unchanged so the caller can decide
// on the exit code.
func (h *CLIErrorHandler) HandleError(err error) error {
	if err == nil {
		return nil
	}
	appErr := GetAppError(err)

	if h.Verbose {
		logger.Logger.Debugw("command failed",
			logger.FieldErrorCode, appErr.Code,
			logger.FieldError, appErr.Error(),
		)
		if appErr.Cause != nil {
			logger.Logger.Debugw("caused by", logger.FieldError, appErr.Cause)
		}
	}
	return err
}

// FormatError formats an error for CLI display: the message on the first line,
// followed by any hints attached along the way.
func (h *CLIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s", appErr.Error())
	for _, hint := range GetAllHints(err) {
		for _, line := range strings.Split(hint, "\n") {
			fmt.Fprintf(&b, "\n  %s", line)
		}
	}
	return b.String()
}

// TUIErrorHandler formats errors for the interactive error banner
type TUIErrorHandler struct {
	ShowDetails bool
}

// NewTUIErrorHandler creates a new TUI error handler
func NewTUIErrorHandler(showDetails bool) *TUIErrorHandler {
	return &TUIErrorHandler{
		ShowDetails: showDetails,
	}
}

// HandleError records the error in the log file, if one is configured
func (h *TUIErrorHandler) HandleError(err error) error {
	if err == nil {
		return nil
	}
	appErr := GetAppError(err)
	logger.Logger.Warnw("operation failed",
		logger.FieldErrorCode, appErr.Code,
		logger.FieldError, appErr.Error(),
	)
	return err
}

// FormatError formats an error for TUI display. The banner is a single line
// so hints are only included when details are requested.
func (h *TUIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	message := appErr.Error()
	if h.ShowDetails {
		if hints := GetAllHints(err); len(hints) > 0 {
			message = fmt.Sprintf("%s (%s)", message, strings.ReplaceAll(hints[0], "\n", " "))
		}
	}
	return message
}

// Icon returns the banner prefix for the error severity
func (h *TUIErrorHandler) Icon(err error) string {
	switch GetAppError(err).Severity {
	case SeverityCritical:
		return "✗"
	case SeverityError:
		return "✗"
	case SeverityWarning:
		return "!"
	default:
		return "i"
	}
}
