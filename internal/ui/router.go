package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dpshade/promptshelf/internal/clipboard"
)

// Collaborators are the external resources key handlers may touch. They are
// passed in per key press instead of living in App.
type Collaborators struct {
	Clipboard clipboard.Writer
}

// handler owns the keyboard while it is active
type handler interface {
	active(a *App) bool
	handleKey(a *App, msg tea.KeyMsg, c Collaborators) error
	view(a *App, theme Theme, width int) string
	// overlay handlers are drawn as a centered dialog over the list
	overlay() bool
}

// Router dispatches each key press to the first active handler
type Router struct {
	handlers []handler
}

// NewRouter returns a router with the fixed precedence: error banner,
// confirmation, tag filter, tag edit, create, search, top level
func NewRouter() *Router {
	return &Router{handlers: []handler{
		bannerHandler{},
		confirmHandler{},
		tagFilterHandler{},
		tagEditHandler{},
		createHandler{},
		searchHandler{},
		topLevelHandler{},
	}}
}

// Route handles one key press. Failures are reported through the banner or
// end the session, per App.HandleError.
func (r *Router) Route(a *App, msg tea.KeyMsg, c Collaborators) {
	h := r.activeHandler(a)
	if h == nil {
		return
	}
	if _, banner := h.(bannerHandler); !banner {
		a.ClearStatus()
	}
	a.HandleError(h.handleKey(a, msg, c))
}

// Overlay renders the active dialog, or "" when none is open
func (r *Router) Overlay(a *App, theme Theme, width int) string {
	for _, h := range r.handlers {
		if h.overlay() && h.active(a) {
			return h.view(a, theme, width)
		}
	}
	return ""
}

// Footer renders the active inline handlers in precedence order
func (r *Router) Footer(a *App, theme Theme, width int) []string {
	var lines []string
	for _, h := range r.handlers {
		if h.overlay() || !h.active(a) {
			continue
		}
		if line := h.view(a, theme, width); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (r *Router) activeHandler(a *App) handler {
	for _, h := range r.handlers {
		if h.active(a) {
			return h
		}
	}
	return nil
}

// bannerHandler swallows the key that acknowledges an error
type bannerHandler struct{}

func (bannerHandler) active(a *App) bool { return a.Error() != "" }
func (bannerHandler) overlay() bool      { return false }

func (bannerHandler) handleKey(a *App, _ tea.KeyMsg, _ Collaborators) error {
	a.ClearError()
	return nil
}

func (bannerHandler) view(a *App, theme Theme, width int) string {
	return theme.Banner.MaxWidth(width).Render(a.ErrorIcon() + " " + a.Error() + "  (press any key)")
}

type confirmHandler struct{}

func (confirmHandler) active(a *App) bool { return a.Confirmation() != nil }
func (confirmHandler) overlay() bool      { return true }

func (confirmHandler) handleKey(a *App, msg tea.KeyMsg, _ Collaborators) error {
	switch a.Confirmation().HandleKey(msg) {
	case ConfirmYes:
		return a.ConfirmAction()
	case ConfirmNo:
		a.CancelConfirmation()
	}
	return nil
}

func (confirmHandler) view(a *App, theme Theme, _ int) string {
	return a.Confirmation().View(theme)
}

type tagFilterHandler struct{}

func (tagFilterHandler) active(a *App) bool { return a.TagFilterDialog() != nil }
func (tagFilterHandler) overlay() bool      { return true }

func (tagFilterHandler) handleKey(a *App, msg tea.KeyMsg, _ Collaborators) error {
	result := a.TagFilterDialog().HandleKey(msg)
	switch result.Action {
	case TagFilterSelect:
		a.SetTagFilter(result.Tag)
	case TagFilterClear:
		a.ClearTagFilter()
	case TagFilterDismiss:
		a.CloseTagFilter()
	}
	return nil
}

func (tagFilterHandler) view(a *App, theme Theme, _ int) string {
	return a.TagFilterDialog().View(theme, a.Index().TagFilter())
}

type tagEditHandler struct{}

func (tagEditHandler) active(a *App) bool { return a.TagEditDialog() != nil }
func (tagEditHandler) overlay() bool      { return true }

func (tagEditHandler) handleKey(a *App, msg tea.KeyMsg, _ Collaborators) error {
	result := a.TagEditDialog().HandleKey(msg, a.TagEditTags())
	switch result.Action {
	case TagEditAdd:
		return a.AddTag(result.Tag)
	case TagEditRemove:
		return a.RemoveTag(result.Tag)
	case TagEditDismiss:
		a.CloseTagEdit()
	}
	return nil
}

func (tagEditHandler) view(a *App, theme Theme, _ int) string {
	return a.TagEditDialog().View(theme, a.TagEditTags())
}

type createHandler struct{}

func (createHandler) active(a *App) bool { return a.CreateDialog() != nil }
func (createHandler) overlay() bool      { return true }

func (createHandler) handleKey(a *App, msg tea.KeyMsg, _ Collaborators) error {
	result := a.CreateDialog().HandleKey(msg)
	switch result.Action {
	case CreateSubmit:
		return a.ConfirmCreate(result.Name, result.Template)
	case CreateDismiss:
		a.CloseCreate()
	}
	return nil
}

func (createHandler) view(a *App, theme Theme, _ int) string {
	return a.CreateDialog().View(theme)
}

// searchHandler edits the query. Arrow keys still move the selection since
// j and k are part of the query.
type searchHandler struct{}

func (searchHandler) active(a *App) bool { return a.SearchActive() }
func (searchHandler) overlay() bool      { return false }

func (searchHandler) handleKey(a *App, msg tea.KeyMsg, c Collaborators) error {
	query := a.Index().Query()

	switch {
	case key.Matches(msg, keyEsc):
		a.DeactivateSearch()
	case key.Matches(msg, keyEnter):
		if a.Mode() == ModeQuickSelect {
			return a.CopySelected(c.Clipboard)
		}
	case key.Matches(msg, keyArrowUp):
		a.Previous()
	case key.Matches(msg, keyArrowDown):
		a.Next()
	case key.Matches(msg, keyBackspace):
		if runes := []rune(query); len(runes) > 0 {
			a.SetSearchQuery(string(runes[:len(runes)-1]))
		}
	case (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) && !msg.Alt:
		a.SetSearchQuery(query + string(msg.Runes))
	}
	return nil
}

func (searchHandler) view(a *App, theme Theme, width int) string {
	return theme.Search.Render("/ ") + truncate(a.Index().Query(), width-4) + theme.TextDim.Render("█")
}

// topLevelHandler handles keys when nothing else is active
type topLevelHandler struct{}

func (topLevelHandler) active(*App) bool { return true }
func (topLevelHandler) overlay() bool    { return false }

func (topLevelHandler) handleKey(a *App, msg tea.KeyMsg, c Collaborators) error {
	switch {
	case key.Matches(msg, keys.Up):
		a.Previous()
	case key.Matches(msg, keys.Down):
		a.Next()
	case key.Matches(msg, keys.Quit):
		a.Quit()
	case key.Matches(msg, keys.Search):
		a.ActivateSearch()
	case key.Matches(msg, keys.Filter):
		a.OpenTagFilter()
	case key.Matches(msg, keys.ToggleMode):
		a.ToggleMode()
	case key.Matches(msg, keys.Select):
		if a.Mode() == ModeQuickSelect {
			return a.CopySelected(c.Clipboard)
		}
	}

	if a.Mode() != ModeManagement {
		return nil
	}

	switch {
	case key.Matches(msg, keys.Edit):
		a.QueueEdit()
	case key.Matches(msg, keys.Delete):
		a.OpenConfirmDelete()
	case key.Matches(msg, keys.New):
		a.OpenCreate()
	case key.Matches(msg, keys.Tags):
		a.OpenTagEdit()
	}
	return nil
}

func (topLevelHandler) view(*App, Theme, int) string { return "" }
