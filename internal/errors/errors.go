// Package errors provides unified error handling across promptshelf.
//
// SYSTEM ARCHITECTURE ROLE:
// Every layer (storage, service, CLI, TUI) reports failures as an AppError carrying
// one of the codes below. The interfaces decide what to do with an error from its
// code alone: the CLI prints it and exits non-zero, the TUI either shows it in the
// error banner or tears the program down.
//
// KEY RESPONSIBILITIES:
//   - Define the error taxonomy (not found, conflicts, format, io, path, clipboard,
//     editor, validation)
//   - Classify errors as recoverable or fatal for the interactive surface
//   - Carry user-facing hints (cockroachdb/errors hints) next to the message
//
// USAGE PATTERNS:
// - Create errors: NotFoundError(), AlreadyExistsError(), InvalidInputError(), ...
// - Wrap errors: Wrap()/Wrapf() add context without losing the AppError
// - Check codes: HasCode(), IsRecoverable(), GetAppError()
package errors

import (
	"fmt"
	"time"

	crdb "github.com/cockroachdb/errors"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Prompt errors
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// Storage errors
	ErrCodeIO          ErrorCode = "IO_ERROR"
	ErrCodeInvalidPath ErrorCode = "INVALID_PATH"

	// External collaborator errors
	ErrCodeClipboard ErrorCode = "CLIPBOARD_ERROR"
	ErrCodeEditor    ErrorCode = "EDITOR_ERROR"

	// Validation errors
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeMissingRequired ErrorCode = "MISSING_REQUIRED"
	ErrCodeUnknownTemplate ErrorCode = "UNKNOWN_TEMPLATE"

	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryPrompt     ErrorCategory = "prompt"
	CategoryStorage    ErrorCategory = "storage"
	CategoryExternal   ErrorCategory = "external"
	CategoryValidation ErrorCategory = "validation"
	CategorySystem     ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Error implements the error interface. The message is what users see, so the
// code is left out of it.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Details)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// Critical marks the error as unrecoverable for the interactive surface.
func (e *AppError) Critical() *AppError {
	e.Severity = SeverityCritical
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// NewWithCause creates an application error that keeps err as its cause
func NewWithCause(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeNotFound:
		return CategoryPrompt, SeverityInfo
	case ErrCodeAlreadyExists, ErrCodeInvalidFormat:
		return CategoryPrompt, SeverityWarning

	case ErrCodeIO:
		return CategoryStorage, SeverityCritical
	case ErrCodeInvalidPath:
		return CategoryStorage, SeverityWarning

	case ErrCodeClipboard, ErrCodeEditor:
		return CategoryExternal, SeverityError

	case ErrCodeInvalidInput, ErrCodeMissingRequired, ErrCodeUnknownTemplate:
		return CategoryValidation, SeverityWarning

	default:
		return CategorySystem, SeverityCritical
	}
}

// GetAppError extracts an AppError from an error chain, or converts it to one
func GetAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if crdb.As(err, &appErr) {
		return appErr
	}
	return NewWithCause(err, ErrCodeInternalError, err.Error())
}

// HasCode reports whether the error chain holds an AppError with the given code
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if crdb.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsRecoverable reports whether the interactive surface can show the error and
// carry on. Storage failures and errors marked critical end the session.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}
	var appErr *AppError
	if !crdb.As(err, &appErr) {
		return false
	}
	if appErr.Severity == SeverityCritical {
		return false
	}
	switch appErr.Code {
	case ErrCodeNotFound, ErrCodeAlreadyExists, ErrCodeInvalidFormat, ErrCodeInvalidPath,
		ErrCodeClipboard, ErrCodeEditor,
		ErrCodeInvalidInput, ErrCodeMissingRequired, ErrCodeUnknownTemplate:
		return true
	default:
		return false
	}
}

// Common error constructors for frequently used errors

func NotFoundError(name string) error {
	return WithHintf(NewAppError(ErrCodeNotFound, fmt.Sprintf("Prompt not found: %s", name)),
		"Check the prompt name or run 'promptshelf list' to see available prompts.\nCreate it with 'promptshelf create %s'.", name)
}

func AlreadyExistsError(name string) error {
	return WithHintf(NewAppError(ErrCodeAlreadyExists, fmt.Sprintf("Prompt already exists: %s", name)),
		"Use a different name or edit the existing prompt with 'promptshelf edit %s'.", name)
}

func InvalidFormatError(detail string) *AppError {
	return NewAppError(ErrCodeInvalidFormat, fmt.Sprintf("Invalid prompt format: %s", detail))
}

func IOError(operation string, err error) *AppError {
	return NewWithCause(err, ErrCodeIO, fmt.Sprintf("IO error: %s: %v", operation, err))
}

func InvalidPathError(path string) *AppError {
	return NewAppError(ErrCodeInvalidPath, fmt.Sprintf("Invalid path: %s", path))
}

func ClipboardError(err error) *AppError {
	return NewWithCause(err, ErrCodeClipboard, fmt.Sprintf("Clipboard error: %v", err))
}

func EditorError(detail string, err error) *AppError {
	return NewWithCause(err, ErrCodeEditor, fmt.Sprintf("Editor error: %s", detail))
}

func InvalidInputError(field, detail string) *AppError {
	return NewAppError(ErrCodeInvalidInput, fmt.Sprintf("Invalid input for '%s': %s", field, detail))
}

func MissingRequiredError(field string) *AppError {
	return NewAppError(ErrCodeMissingRequired, fmt.Sprintf("Missing required field: %s", field))
}

func UnknownTemplateError(name string) error {
	return WithHint(NewAppError(ErrCodeUnknownTemplate, fmt.Sprintf("Unknown template: %s", name)),
		"Run 'promptshelf templates' to see the available templates.")
}
