package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", NotFoundError("code-review"), "Prompt not found: code-review"},
		{"already exists", AlreadyExistsError("test-prompt"), "Prompt already exists: test-prompt"},
		{"invalid format", InvalidFormatError("missing frontmatter delimiter"), "Invalid prompt format: missing frontmatter delimiter"},
		{"invalid path", InvalidPathError("../etc/passwd"), "Invalid path: ../etc/passwd"},
		{"invalid input", InvalidInputError("confirmation", "Deletion cancelled. Use --force to skip confirmation."), "Invalid input for 'confirmation': Deletion cancelled. Use --force to skip confirmation."},
		{"missing required", MissingRequiredError("filename"), "Missing required field: filename"},
		{"unknown template", UnknownTemplateError("fancy"), "Unknown template: fancy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestHasCodeThroughWrapping(t *testing.T) {
	err := Wrap(NotFoundError("x"), "loading prompt")

	assert.True(t, HasCode(err, ErrCodeNotFound))
	assert.False(t, HasCode(err, ErrCodeAlreadyExists))
	assert.False(t, HasCode(fmt.Errorf("plain"), ErrCodeNotFound))
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"not found", NotFoundError("x"), true},
		{"already exists", AlreadyExistsError("x"), true},
		{"validation", InvalidInputError("tag", "empty"), true},
		{"missing required", MissingRequiredError("filename"), true},
		{"parse error", InvalidFormatError("bad yaml"), true},
		{"clipboard", ClipboardError(fmt.Errorf("no xclip")), true},
		{"editor exit", EditorError("exit status 1", nil), true},
		{"editor start", EditorError("not found", nil).Critical(), false},
		{"io", IOError("write", fs.ErrPermission), false},
		{"plain error", fmt.Errorf("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRecoverable(tt.err))
		})
	}
}

func TestGetAppErrorWrapsPlainErrors(t *testing.T) {
	appErr := GetAppError(fmt.Errorf("boom"))

	assert.Equal(t, ErrCodeInternalError, appErr.Code)
	assert.Equal(t, SeverityCritical, appErr.Severity)
	assert.Equal(t, "boom", appErr.Error())
}

func TestCLIFormatIncludesHints(t *testing.T) {
	h := NewCLIErrorHandler(false)

	out := h.FormatError(NotFoundError("code-review"))

	assert.Contains(t, out, "Error: Prompt not found: code-review")
	assert.Contains(t, out, "promptshelf list")
	assert.Contains(t, out, "promptshelf create code-review")
}

func TestTUIFormatIsSingleLine(t *testing.T) {
	h := NewTUIErrorHandler(false)

	assert.Equal(t, "Prompt already exists: x", h.FormatError(AlreadyExistsError("x")))
	assert.Equal(t, "!", h.Icon(AlreadyExistsError("x")))
}
