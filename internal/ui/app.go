package ui

import (
	"fmt"

	"github.com/dpshade/promptshelf/internal/clipboard"
	apperrors "github.com/dpshade/promptshelf/internal/errors"
	"github.com/dpshade/promptshelf/internal/index"
	"github.com/dpshade/promptshelf/internal/logger"
	"github.com/dpshade/promptshelf/internal/models"
	"github.com/dpshade/promptshelf/internal/service"
)

// Mode is the top-level interaction mode
type Mode int

const (
	// ModeQuickSelect copies the selected prompt on enter and quits
	ModeQuickSelect Mode = iota
	// ModeManagement enables edit, delete, create and tag operations
	ModeManagement
)

func (m Mode) String() string {
	if m == ModeManagement {
		return "Management"
	}
	return "Quick Select"
}

// PendingAction is work that cannot run while the full-screen UI owns the
// terminal
type PendingAction int

const (
	PendingNone PendingAction = iota
	PendingEdit
)

// App is the interactive application state. It is owned by the event loop and
// only mutated from there.
type App struct {
	svc   *service.Service
	index *index.Index
	mode  Mode

	searchActive bool

	confirm   *ConfirmModal
	tagFilter *TagFilterModal
	tagEdit   *TagEditModal
	create    *CreateModal

	pending       PendingAction
	pendingTarget string

	errMsg  string
	errIcon string
	status  string
	errors  *apperrors.TUIErrorHandler
	quit    bool
	fatal   error
	copied  *models.PromptMetadata
}

// NewApp loads the library and starts in mode
func NewApp(svc *service.Service, mode Mode) (*App, error) {
	a := &App{
		svc:    svc,
		index:  index.New(nil),
		mode:   mode,
		errors: apperrors.NewTUIErrorHandler(false),
	}
	if err := a.reload(); err != nil {
		return nil, err
	}
	return a, nil
}

// Mode returns the current mode
func (a *App) Mode() Mode {
	return a.mode
}

// Index returns the prompt index for rendering
func (a *App) Index() *index.Index {
	return a.index
}

// ToggleMode switches between QuickSelect and Management. The selection is
// kept.
func (a *App) ToggleMode() {
	if a.mode == ModeQuickSelect {
		a.mode = ModeManagement
	} else {
		a.mode = ModeQuickSelect
	}
}

// Reload rescans the library. The selection follows the previously selected
// prompt where possible.
func (a *App) Reload() {
	a.HandleError(a.reload())
}

func (a *App) reload() error {
	prompts, err := a.svc.ListPrompts()
	if err != nil {
		return err
	}
	a.index.SetAll(prompts)

	// A prompt removed underneath the tag-edit dialog cannot be edited further
	if a.tagEdit != nil {
		if _, ok := a.record(a.tagEdit.Target); !ok {
			a.tagEdit = nil
		}
	}
	return nil
}

// Next moves the selection down
func (a *App) Next() {
	a.index.Next()
}

// Previous moves the selection up
func (a *App) Previous() {
	a.index.Previous()
}

// SearchActive reports whether keys go to the search query
func (a *App) SearchActive() bool {
	return a.searchActive
}

// ActivateSearch starts capturing the search query
func (a *App) ActivateSearch() {
	a.searchActive = true
}

// DeactivateSearch stops search and clears the query
func (a *App) DeactivateSearch() {
	a.searchActive = false
	a.index.SetQuery("")
}

// SetSearchQuery replaces the query and recomputes the visible prompts
func (a *App) SetSearchQuery(query string) {
	a.index.SetQuery(query)
}

// DialogActive reports whether any dialog holds the keyboard
func (a *App) DialogActive() bool {
	return a.confirm != nil || a.tagFilter != nil || a.tagEdit != nil || a.create != nil
}

// OpenConfirmDelete asks for confirmation before deleting the selected prompt
func (a *App) OpenConfirmDelete() {
	if a.DialogActive() {
		return
	}
	p, ok := a.index.Selected()
	if !ok {
		a.SetError("No prompt selected")
		return
	}
	a.confirm = NewConfirmModal(fmt.Sprintf("Delete %q? This cannot be undone.", p.Title()), p.Name)
}

// Confirmation returns the open confirmation dialog, if any
func (a *App) Confirmation() *ConfirmModal {
	return a.confirm
}

// ConfirmAction closes the confirmation dialog and deletes its target
func (a *App) ConfirmAction() error {
	if a.confirm == nil {
		return nil
	}
	target := a.confirm.Target
	a.confirm = nil

	if err := a.svc.DeletePrompt(target, true); err != nil {
		return err
	}
	a.status = "Deleted " + target
	return a.reload()
}

// CancelConfirmation closes the confirmation dialog without acting
func (a *App) CancelConfirmation() {
	a.confirm = nil
}

// OpenTagFilter shows the tags present in the library
func (a *App) OpenTagFilter() {
	if a.DialogActive() {
		return
	}
	a.tagFilter = NewTagFilterModal(a.index.Tags(), a.index.TagFilter())
}

// TagFilterDialog returns the open tag-filter dialog, if any
func (a *App) TagFilterDialog() *TagFilterModal {
	return a.tagFilter
}

// SetTagFilter applies tag and closes the dialog
func (a *App) SetTagFilter(tag string) {
	a.index.SetTagFilter(tag)
	a.tagFilter = nil
}

// ClearTagFilter removes the filter and closes the dialog
func (a *App) ClearTagFilter() {
	a.index.ClearTagFilter()
	a.tagFilter = nil
}

// CloseTagFilter closes the dialog without changes
func (a *App) CloseTagFilter() {
	a.tagFilter = nil
}

// OpenTagEdit edits the tags of the selected prompt. The dialog stays bound
// to that prompt even if the selection moves while it is open.
func (a *App) OpenTagEdit() {
	if a.DialogActive() {
		return
	}
	p, ok := a.index.Selected()
	if !ok {
		a.SetError("No prompt selected")
		return
	}
	a.tagEdit = NewTagEditModal(p.Title(), p.Name, a.index.Tags())
}

// TagEditDialog returns the open tag-edit dialog, if any
func (a *App) TagEditDialog() *TagEditModal {
	return a.tagEdit
}

// CloseTagEdit closes the tag-edit dialog
func (a *App) CloseTagEdit() {
	a.tagEdit = nil
}

// TagEditTags returns the tags of the prompt the tag-edit dialog is bound to,
// as last scanned
func (a *App) TagEditTags() []string {
	if a.tagEdit == nil {
		return nil
	}
	p, ok := a.record(a.tagEdit.Target)
	if !ok {
		return nil
	}
	return p.Tags
}

// AddTag adds tag to the file of the prompt being tag-edited
func (a *App) AddTag(tag string) error {
	if a.tagEdit == nil {
		return nil
	}
	target := a.tagEdit.Target
	if _, err := a.svc.AddTag(target, tag); err != nil {
		return err
	}
	a.status = fmt.Sprintf("Tagged %s with %s", target, tag)
	return a.reload()
}

// RemoveTag removes tag from the file of the prompt being tag-edited
func (a *App) RemoveTag(tag string) error {
	if a.tagEdit == nil {
		return nil
	}
	target := a.tagEdit.Target
	if _, err := a.svc.RemoveTag(target, tag); err != nil {
		return err
	}
	a.status = fmt.Sprintf("Removed %s from %s", tag, target)
	return a.reload()
}

// record finds a prompt in the last scan by name, visible or not
func (a *App) record(name string) (models.PromptMetadata, bool) {
	for _, p := range a.index.All() {
		if p.Name == name {
			return p, true
		}
	}
	return models.PromptMetadata{}, false
}

// OpenCreate shows the create dialog
func (a *App) OpenCreate() {
	if a.DialogActive() {
		return
	}
	a.create = NewCreateModal()
}

// CreateDialog returns the open create dialog, if any
func (a *App) CreateDialog() *CreateModal {
	return a.create
}

// CloseCreate closes the create dialog
func (a *App) CloseCreate() {
	a.create = nil
}

// ConfirmCreate closes the create dialog and creates the prompt it describes
func (a *App) ConfirmCreate(name, template string) error {
	a.create = nil
	return a.Create(name, template)
}

// Create writes a new prompt from template and selects it
func (a *App) Create(name, template string) error {
	meta, err := a.svc.CreatePrompt(name, service.CreateOptions{Template: template})
	if err != nil {
		return err
	}
	if err := a.reload(); err != nil {
		return err
	}
	a.index.Select(meta.Name)
	a.status = "Created " + meta.Name
	return nil
}

// CopySelected puts the selected prompt's body on the clipboard and quits.
// With nothing selected the banner is shown and the session continues.
func (a *App) CopySelected(clip clipboard.Writer) error {
	p, ok := a.index.Selected()
	if !ok {
		a.SetError("No prompt selected")
		return nil
	}
	meta, err := a.svc.CopyPrompt(p.Name, clip)
	if err != nil {
		return err
	}
	a.copied = &meta
	a.quit = true
	return nil
}

// QueueEdit defers opening the selected prompt in the editor until the
// terminal has been released
func (a *App) QueueEdit() {
	p, ok := a.index.Selected()
	if !ok {
		a.SetError("No prompt selected")
		return
	}
	a.pending = PendingEdit
	a.pendingTarget = p.Name
}

// TakePending returns the queued action and clears it
func (a *App) TakePending() PendingAction {
	pending := a.pending
	a.pending = PendingNone
	return pending
}

// EditTarget returns the absolute path of the prompt queued for editing
func (a *App) EditTarget() (string, error) {
	return a.svc.PromptFilePath(a.pendingTarget)
}

// FinishEdit rescans the library after the editor returned err
func (a *App) FinishEdit(err error) {
	target := a.pendingTarget
	a.pendingTarget = ""
	if err != nil {
		a.HandleError(err)
		if a.quit {
			return
		}
	} else {
		a.status = "Saved " + target
	}
	a.Reload()
}

// DeleteSelected removes the selected prompt. Without force it fails and asks
// for confirmation.
func (a *App) DeleteSelected(force bool) error {
	p, ok := a.index.Selected()
	if !ok {
		return apperrors.InvalidInputError("selection", "no prompt selected")
	}
	if err := a.svc.DeletePrompt(p.Name, force); err != nil {
		return err
	}
	a.status = "Deleted " + p.Name
	return a.reload()
}

// SetError shows msg in the error banner
func (a *App) SetError(msg string) {
	a.errMsg = msg
	a.errIcon = "!"
}

// ClearError hides the error banner
func (a *App) ClearError() {
	a.errMsg = ""
	a.errIcon = ""
}

// Error returns the banner message
func (a *App) Error() string {
	return a.errMsg
}

// ErrorIcon returns the banner prefix matching the error's severity
func (a *App) ErrorIcon() string {
	return a.errIcon
}

// Status returns the last success message
func (a *App) Status() string {
	return a.status
}

// ClearStatus hides the success message
func (a *App) ClearStatus() {
	a.status = ""
}

// HandleError shows recoverable errors in the banner. Anything else ends the
// session and is reported by Fatal.
func (a *App) HandleError(err error) {
	if err == nil {
		return
	}
	a.errors.HandleError(err)

	if apperrors.IsRecoverable(err) {
		a.status = ""
		a.errMsg = a.errors.FormatError(err)
		a.errIcon = a.errors.Icon(err)
		return
	}

	logger.Logger.Errorw("fatal error in interactive session", logger.FieldError, err)
	a.fatal = err
	a.quit = true
}

// Quit ends the session
func (a *App) Quit() {
	a.quit = true
}

// ShouldQuit reports whether the event loop should stop
func (a *App) ShouldQuit() bool {
	return a.quit
}

// Fatal returns the error that ended the session, if any
func (a *App) Fatal() error {
	return a.fatal
}

// Copied returns the prompt copied on exit, if any
func (a *App) Copied() *models.PromptMetadata {
	return a.copied
}
