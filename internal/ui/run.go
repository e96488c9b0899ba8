package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/dpshade/promptshelf/internal/errors"
	"github.com/dpshade/promptshelf/internal/logger"
	"github.com/dpshade/promptshelf/internal/models"
)

// Outcome is what an interactive session leaves behind
type Outcome struct {
	// Copied is the prompt placed on the clipboard before quitting, if any
	Copied *models.PromptMetadata
}

// Run starts the full-screen session and blocks until it ends. The terminal
// is restored on every exit path, including panics. When watch is set the
// list follows changes made to the library outside the session.
func Run(ctx context.Context, opts Options, watch bool) (Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if watch && opts.Changes == nil {
		changes, err := opts.Service.Watch(ctx)
		if err != nil {
			logger.Logger.Warnw("library watch disabled", logger.FieldError, err)
		} else {
			opts.Changes = changes
		}
	}

	m, err := NewModel(opts)
	if err != nil {
		return Outcome{}, err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return Outcome{}, apperrors.Wrap(err, "interactive session failed")
	}

	fm, ok := final.(Model)
	if !ok {
		return Outcome{}, nil
	}
	if err := fm.App().Fatal(); err != nil {
		return Outcome{}, err
	}
	return Outcome{Copied: fm.App().Copied()}, nil
}
