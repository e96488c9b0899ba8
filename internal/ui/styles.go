package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the colors for one terminal background
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	Text       lipgloss.Color
	TextMuted  lipgloss.Color
	TextDim    lipgloss.Color
	Border     lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
}

// darkPalette works well on dark backgrounds
var darkPalette = Palette{
	Primary:   lipgloss.Color("205"), // Bright magenta/pink
	Secondary: lipgloss.Color("33"),  // Bright cyan/blue
	Accent:    lipgloss.Color("214"), // Bright orange/yellow

	Success: lipgloss.Color("10"),
	Warning: lipgloss.Color("11"),
	Error:   lipgloss.Color("9"),
	Info:    lipgloss.Color("12"),

	Text:       lipgloss.Color("252"),
	TextMuted:  lipgloss.Color("244"),
	TextDim:    lipgloss.Color("240"),
	Border:     lipgloss.Color("238"),
	Background: lipgloss.Color("235"),
	Surface:    lipgloss.Color("236"),
}

// lightPalette uses darker tones for contrast on light backgrounds
var lightPalette = Palette{
	Primary:   lipgloss.Color("125"),
	Secondary: lipgloss.Color("24"),
	Accent:    lipgloss.Color("130"),

	Success: lipgloss.Color("22"),
	Warning: lipgloss.Color("136"),
	Error:   lipgloss.Color("160"),
	Info:    lipgloss.Color("24"),

	Text:       lipgloss.Color("232"),
	TextMuted:  lipgloss.Color("240"),
	TextDim:    lipgloss.Color("244"),
	Border:     lipgloss.Color("248"),
	Background: lipgloss.Color("255"),
	Surface:    lipgloss.Color("254"),
}

// detectPalette picks the palette for the terminal background.
// PROMPTSHELF_THEME=light|dark overrides detection.
func detectPalette() Palette {
	switch os.Getenv("PROMPTSHELF_THEME") {
	case "light":
		return lightPalette
	case "dark":
		return darkPalette
	}
	if lipgloss.HasDarkBackground() {
		return darkPalette
	}
	return lightPalette
}

// Theme is the set of component styles derived from a palette
type Theme struct {
	Palette Palette

	Title       lipgloss.Style
	Mode        lipgloss.Style
	Text        lipgloss.Style
	TextMuted   lipgloss.Style
	TextDim     lipgloss.Style
	Focused     lipgloss.Style
	Unselected  lipgloss.Style
	Tag         lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style
	Info        lipgloss.Style
	Modal       lipgloss.Style
	DangerModal lipgloss.Style
	Preview     lipgloss.Style
	FormLabel   lipgloss.Style
	FormHelp    lipgloss.Style
	Search      lipgloss.Style
	Banner      lipgloss.Style
}

// NewTheme builds the styles for the detected terminal background
func NewTheme() Theme {
	return newTheme(detectPalette())
}

func newTheme(p Palette) Theme {
	return Theme{
		Palette: p,

		Title: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			Padding(0, 1),
		Mode: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Bold(true),
		Text:      lipgloss.NewStyle().Foreground(p.Text),
		TextMuted: lipgloss.NewStyle().Foreground(p.TextMuted),
		TextDim:   lipgloss.NewStyle().Foreground(p.TextDim),
		Focused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(p.Secondary).
			Bold(true),
		Unselected: lipgloss.NewStyle().
			Foreground(p.TextMuted),
		Tag: lipgloss.NewStyle().
			Foreground(p.Accent),
		Success: lipgloss.NewStyle().
			Foreground(p.Success).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),
		Info: lipgloss.NewStyle().
			Foreground(p.Info).
			Bold(true),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(1, 2),
		DangerModal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Error).
			Padding(1, 2),
		Preview: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		FormLabel: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true),
		FormHelp: lipgloss.NewStyle().
			Foreground(p.TextDim).
			Italic(true),
		Search: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Banner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(p.Error).
			Bold(true).
			Padding(0, 1),
	}
}

// CreateOption renders one selectable row of a dialog list
func CreateOption(theme Theme, label string, isSelected bool) string {
	if isSelected {
		return theme.Focused.Render("▶ " + label)
	}
	return theme.Unselected.Render("  " + label)
}

// CreateHelp renders dialog key hints
func CreateHelp(theme Theme, text string) string {
	return theme.FormHelp.Render(text)
}

// CenterModal places content in the middle of the screen
func CenterModal(content string, width, height int) string {
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}
