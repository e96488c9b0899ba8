// Package renderer generates the initial body of a new prompt from one of the
// built-in templates.
package renderer

import (
	"bytes"
	"fmt"
	"text/template"

	apperrors "github.com/dpshade/promptshelf/internal/errors"
)

// Template is a named scaffold for new prompts
type Template struct {
	Name        string
	Description string
	Body        string
}

// templates is the fixed registry. The first entry is always "none" so the
// create dialog starts without a scaffold.
var templates = []Template{
	{
		Name:        "none",
		Description: "Empty prompt with a title",
		Body:        "# {{.Title}}\n",
	},
	{
		Name:        "default",
		Description: "Title and a short description section",
		Body: `# {{.Title}}

Describe what this prompt should accomplish.
`,
	},
	{
		Name:        "basic",
		Description: "Instruction, context, input data and output indicator sections",
		Body: `# Instruction

What should the model do?

# Context

Background information that helps the model respond well.

# Input Data

The input to work on.

# Output Indicator

The format and shape of the expected answer.
`,
	},
}

// Names returns the template names in registry order
func Names() []string {
	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = t.Name
	}
	return names
}

// List returns all templates in registry order
func List() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// Lookup finds a template by name. An empty name selects "none".
func Lookup(name string) (Template, error) {
	if name == "" {
		return templates[0], nil
	}
	for _, t := range templates {
		if t.Name == name {
			return t, nil
		}
	}
	return Template{}, apperrors.UnknownTemplateError(name)
}

// RenderBody renders the body of a new prompt titled title
func RenderBody(templateName, title string) (string, error) {
	t, err := Lookup(templateName)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(t.Name).Parse(t.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", t.Name, err)
	}

	data := struct{ Title string }{Title: title}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", t.Name, err)
	}
	return buf.String(), nil
}
