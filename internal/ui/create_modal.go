package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/dpshade/promptshelf/internal/errors"
	"github.com/dpshade/promptshelf/internal/models"
	"github.com/dpshade/promptshelf/internal/renderer"
)

// CreateField identifies the active field of the create dialog
type CreateField int

const (
	FieldFilename CreateField = iota
	FieldTemplate
	fieldCount
)

// CreateAction is what the create dialog asks the application to do
type CreateAction int

const (
	CreateNone CreateAction = iota
	CreateSubmit
	CreateDismiss
)

// CreateResult is the outcome of one key press
type CreateResult struct {
	Action   CreateAction
	Name     string
	Template string
}

// CreateModal collects the file name and template for a new prompt
type CreateModal struct {
	field     CreateField
	filename  textinput.Model
	templates []renderer.Template
	template  int
	err       error
}

// NewCreateModal creates the dialog with the cursor on the file name
func NewCreateModal() *CreateModal {
	input := textinput.New()
	input.Placeholder = "my prompt"
	input.CharLimit = 128
	input.Width = 40
	input.Focus()

	return &CreateModal{
		filename:  input,
		templates: renderer.List(),
	}
}

// Field returns the active field
func (m *CreateModal) Field() CreateField {
	return m.field
}

// Filename returns the file name typed so far
func (m *CreateModal) Filename() string {
	return m.filename.Value()
}

// TemplateIndex returns the template cursor
func (m *CreateModal) TemplateIndex() int {
	return m.template
}

// Template returns the name of the selected template
func (m *CreateModal) Template() string {
	return m.templates[m.template].Name
}

// Valid reports whether the file name survives normalization
func (m *CreateModal) Valid() bool {
	return models.Normalize(m.filename.Value()) != ""
}

// Err returns the validation error of the last submit attempt
func (m *CreateModal) Err() error {
	return m.err
}

// HandleKey processes one key press
func (m *CreateModal) HandleKey(msg tea.KeyMsg) CreateResult {
	switch {
	case key.Matches(msg, keyEsc):
		return CreateResult{Action: CreateDismiss}
	case key.Matches(msg, keyTab):
		if msg.Type == tea.KeyShiftTab {
			m.focus((m.field + fieldCount - 1) % fieldCount)
		} else {
			m.focus((m.field + 1) % fieldCount)
		}
		return CreateResult{}
	case key.Matches(msg, keyEnter):
		if !m.Valid() {
			m.err = apperrors.MissingRequiredError("filename")
			return CreateResult{}
		}
		return CreateResult{
			Action:   CreateSubmit,
			Name:     strings.TrimSpace(m.filename.Value()),
			Template: m.Template(),
		}
	}

	m.err = nil
	if m.field == FieldFilename {
		m.filename, _ = m.filename.Update(msg)
		return CreateResult{}
	}

	switch {
	case key.Matches(msg, keyPrev):
		m.template = (m.template + len(m.templates) - 1) % len(m.templates)
	case key.Matches(msg, keyNext):
		m.template = (m.template + 1) % len(m.templates)
	}
	return CreateResult{}
}

func (m *CreateModal) focus(field CreateField) {
	m.field = field
	if field == FieldFilename {
		m.filename.Focus()
	} else {
		m.filename.Blur()
	}
}

// View renders the dialog
func (m *CreateModal) View(theme Theme) string {
	var content []string
	content = append(content, theme.Title.Render("New Prompt"))
	content = append(content, "")

	label := "Filename"
	if m.field == FieldFilename {
		label = "▶ " + label
	}
	content = append(content, theme.FormLabel.Render(label))
	content = append(content, m.filename.View())
	if name := models.Normalize(m.filename.Value()); name != "" {
		content = append(content, theme.TextDim.Render("  → "+name+".md"))
	}
	content = append(content, "")

	label = "Template"
	if m.field == FieldTemplate {
		label = "▶ " + label
	}
	content = append(content, theme.FormLabel.Render(label))
	var options []string
	for i, t := range m.templates {
		if i == m.template {
			options = append(options, theme.Focused.Render(" "+t.Name+" "))
		} else {
			options = append(options, theme.Unselected.Render(" "+t.Name+" "))
		}
	}
	content = append(content, strings.Join(options, " "))
	content = append(content, theme.TextDim.Render("  "+m.templates[m.template].Description))
	content = append(content, "")

	if m.err != nil {
		content = append(content, theme.Error.Render(m.err.Error()))
		content = append(content, "")
	}

	content = append(content, CreateHelp(theme, "tab switch field • ←/→ template • enter create • esc cancel"))
	return theme.Modal.Render(strings.Join(content, "\n"))
}
