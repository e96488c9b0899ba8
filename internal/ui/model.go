package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dpshade/promptshelf/internal/clipboard"
	"github.com/dpshade/promptshelf/internal/editor"
	"github.com/dpshade/promptshelf/internal/service"
)

// Options configures an interactive session
type Options struct {
	Service   *service.Service
	Mode      Mode
	Clipboard clipboard.Writer
	Editor    *editor.Launcher
	// Changes, when set, delivers a value whenever the library changes on disk
	Changes <-chan struct{}
}

// editorFinishedMsg is sent when the editor handed the terminal back
type editorFinishedMsg struct {
	err error
}

// libraryChangedMsg is sent when files changed underneath the session
type libraryChangedMsg struct{}

// waitForChange blocks until the library watcher fires
func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return libraryChangedMsg{}
	}
}

// Model is the bubbletea model for the interactive session
type Model struct {
	app    *App
	router *Router
	collab Collaborators
	editor *editor.Launcher

	theme   Theme
	help    help.Model
	preview viewport.Model

	// previewName is the prompt currently loaded into the preview
	previewName string

	changes <-chan struct{}

	width  int
	height int
}

// NewModel loads the library and builds the session model
func NewModel(opts Options) (Model, error) {
	app, err := NewApp(opts.Service, opts.Mode)
	if err != nil {
		return Model{}, err
	}

	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.NewSystem()
	}
	launcher := opts.Editor
	if launcher == nil {
		launcher = editor.New("")
	}

	vp := viewport.New(40, 20)
	vp.Style = lipgloss.NewStyle()

	m := Model{
		app:     app,
		router:  NewRouter(),
		collab:  Collaborators{Clipboard: clip},
		editor:  launcher,
		theme:   NewTheme(),
		help:    help.New(),
		preview: vp,
		changes: opts.Changes,
		width:   80,
		height:  24,
	}
	m.refreshPreview()
	return m, nil
}

// App returns the application state
func (m Model) App() *App {
	return m.app
}

// Init starts listening for library changes
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case libraryChangedMsg:
		m.app.Reload()
		m.refreshPreview()
		return m, tea.Batch(waitForChange(m.changes), m.quitIfDone())

	case editorFinishedMsg:
		m.app.FinishEdit(msg.err)
		m.refreshPreview()
		// Full repaint after the editor had the screen
		return m, tea.Batch(tea.ClearScreen, m.quitIfDone())

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			m.app.Quit()
			return m, tea.Quit
		}

		m.router.Route(m.app, msg, m.collab)
		m.refreshPreview()

		if m.app.TakePending() == PendingEdit {
			if cmd := m.startEditor(); cmd != nil {
				return m, cmd
			}
		}
		return m, m.quitIfDone()
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

// startEditor releases the terminal to the editor. Errors building the
// command are handled right away and nil is returned.
func (m *Model) startEditor() tea.Cmd {
	path, err := m.app.EditTarget()
	if err != nil {
		m.app.FinishEdit(err)
		return nil
	}
	cmd, err := m.editor.Command(path)
	if err != nil {
		m.app.FinishEdit(err)
		return nil
	}

	name := m.editor.Editor
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: editor.Classify(name, err)}
	})
}

func (m Model) quitIfDone() tea.Cmd {
	if m.app.ShouldQuit() {
		return tea.Quit
	}
	return nil
}

func (m *Model) resize() {
	m.help.Width = m.width
	w, h := m.previewSize()
	m.preview.Width = w
	m.preview.Height = h
}

// listWidth is the width of the prompt list column
func (m Model) listWidth() int {
	if m.width < 80 {
		return m.width
	}
	return m.width * 2 / 5
}

// bodyHeight is the number of rows available for the list and preview
func (m Model) bodyHeight() int {
	h := m.height - 5
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) previewSize() (int, int) {
	// Border and padding take two rows and four columns
	w := m.width - m.listWidth() - 5
	if w < 0 {
		w = 0
	}
	return w, m.bodyHeight() - 2
}

// refreshPreview loads the selected prompt's body when the selection changed
func (m *Model) refreshPreview() {
	p, ok := m.app.Index().Selected()
	if !ok {
		m.previewName = ""
		m.preview.SetContent("")
		return
	}
	if p.Name == m.previewName {
		return
	}

	m.previewName = p.Name
	_, body, err := m.app.svc.GetPromptContent(p.Name)
	if err != nil {
		m.preview.SetContent(m.theme.Error.Render(err.Error()))
	} else {
		m.preview.SetContent(body)
	}
	m.preview.GotoTop()
}

// View renders the screen
func (m Model) View() string {
	footer := m.renderFooter()

	if overlay := m.router.Overlay(m.app, m.theme, m.width); overlay != "" {
		height := m.height - lipgloss.Height(footer)
		return lipgloss.JoinVertical(lipgloss.Left, CenterModal(overlay, m.width, height), footer)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.renderBody(), footer)
}

func (m Model) renderHeader() string {
	idx := m.app.Index()

	parts := []string{
		m.theme.Title.Render("promptshelf"),
		m.theme.Mode.Render(m.app.Mode().String()),
		m.theme.TextMuted.Render(fmt.Sprintf("%d/%d", len(idx.Visible()), len(idx.All()))),
	}
	if tag := idx.TagFilter(); tag != "" {
		parts = append(parts, m.theme.Tag.Render("#"+tag))
	}
	if q := idx.Query(); q != "" && !m.app.SearchActive() {
		parts = append(parts, m.theme.Search.Render("/"+q))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderBody() string {
	list := m.renderList()
	if m.width < 80 {
		return list
	}
	w, h := m.previewSize()
	preview := m.theme.Preview.Width(w).Height(h).Render(m.preview.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, list, " ", preview)
}

// renderList draws the visible prompts, scrolled to keep the selection in view
func (m Model) renderList() string {
	idx := m.app.Index()
	visible := idx.Visible()
	height := m.bodyHeight()
	width := m.listWidth()

	if len(visible) == 0 {
		msg := "No prompts"
		if idx.Len() > 0 {
			msg = "No prompts match"
		}
		return lipgloss.NewStyle().Width(width).Height(height).Render(m.theme.TextMuted.Render(msg))
	}

	selected := idx.SelectedIndex()
	start := 0
	if selected >= height {
		start = selected - height + 1
	}
	end := start + height
	if end > len(visible) {
		end = len(visible)
	}

	var rows []string
	for i := start; i < end; i++ {
		p := visible[i]
		label := p.Title()
		if len(p.Tags) > 0 {
			label += "  [" + p.TagList() + "]"
		}
		rows = append(rows, CreateOption(m.theme, truncate(label, width-3), i == selected))
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(rows, "\n"))
}

func (m Model) renderFooter() string {
	lines := m.router.Footer(m.app, m.theme, m.width)
	if status := m.app.Status(); status != "" {
		lines = append(lines, m.theme.Success.Render("✓ "+status))
	}
	if m.app.Mode() == ModeManagement {
		lines = append(lines, m.help.View(managementHelp{keys}))
	} else {
		lines = append(lines, m.help.View(quickSelectHelp{keys}))
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to width terminal cells
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
