package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmAnswer is the result of a key press in the confirmation dialog
type ConfirmAnswer int

const (
	// ConfirmPending means the key was ignored
	ConfirmPending ConfirmAnswer = iota
	ConfirmYes
	ConfirmNo
)

// ConfirmModal asks a yes/no question about one prompt
type ConfirmModal struct {
	Message string
	// Target is the normalized name of the prompt the question is about
	Target string
}

// NewConfirmModal creates a confirmation dialog
func NewConfirmModal(message, target string) *ConfirmModal {
	return &ConfirmModal{Message: message, Target: target}
}

// HandleKey maps y/Y to yes and n/N/esc to no; everything else is ignored
func (m *ConfirmModal) HandleKey(msg tea.KeyMsg) ConfirmAnswer {
	switch {
	case key.Matches(msg, keyYes):
		return ConfirmYes
	case key.Matches(msg, keyNo):
		return ConfirmNo
	default:
		return ConfirmPending
	}
}

// View renders the dialog
func (m *ConfirmModal) View(theme Theme) string {
	var content []string
	content = append(content, theme.Error.Render("Confirm"))
	content = append(content, "")
	content = append(content, theme.Text.Render(m.Message))
	content = append(content, "")
	content = append(content, CreateHelp(theme, "y yes • n no"))
	return theme.DangerModal.Render(strings.Join(content, "\n"))
}
