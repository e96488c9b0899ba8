package clipboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dpshade/promptshelf/internal/errors"
)

func TestClipboardError(t *testing.T) {
	err := NewClipboardError()

	assert.Equal(t, runtime.GOOS, err.OS)
	assert.NotEmpty(t, err.Error())

	var clipErr *ClipboardError
	assert.True(t, errors.As(err, &clipErr))
}

func TestGetInstallInstructions(t *testing.T) {
	instructions := GetInstallInstructions()
	require.NotEmpty(t, instructions)

	switch runtime.GOOS {
	case "linux":
		assert.Contains(t, instructions, "xclip")
	case "darwin":
		assert.Contains(t, instructions, "pbcopy")
	case "windows":
		assert.Contains(t, instructions, "clip")
	}
}

func TestSystemWriteText(t *testing.T) {
	var got string
	s := &System{writeAll: func(text string) error {
		got = text
		return nil
	}}

	require.NoError(t, s.WriteText("hello"))
	assert.Equal(t, "hello", got)
}

func TestSystemFailureWithoutFallback(t *testing.T) {
	s := &System{writeAll: func(string) error { return errors.New("xclip failed") }}

	err := s.WriteText("hello")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeClipboard))
	assert.Contains(t, err.Error(), "Clipboard error")
	assert.NotEmpty(t, apperrors.GetAllHints(err))
}

func TestSystemFallsBackToOSC52(t *testing.T) {
	var buf bytes.Buffer
	s := &System{
		OSC52:    true,
		Output:   &buf,
		writeAll: func(string) error { return errors.New("no display") },
	}

	require.NoError(t, s.WriteText("hello"))
	assert.Contains(t, buf.String(), "\x1b]52;c;")
	assert.Contains(t, buf.String(), base64.StdEncoding.EncodeToString([]byte("hello")))
}

func TestMemory(t *testing.T) {
	m := &Memory{}
	require.NoError(t, m.WriteText("a"))
	require.NoError(t, m.WriteText("b"))
	assert.Equal(t, "b", m.Text)
	assert.Equal(t, 2, m.Writes)

	m.Err = errors.New("locked")
	err := m.WriteText("c")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeClipboard))
	assert.Equal(t, "b", m.Text)
}
