package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dpshade/promptshelf/internal/editor"
	"github.com/dpshade/promptshelf/internal/ui"
)

func (c *CLI) newManageCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "manage",
		Short:       "Browse the library with edit, tag, create and delete enabled",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationInteractive: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInteractive(cmd, ui.ModeManagement)
		},
	}
}

// runInteractive hands the terminal to the UI and reports a copied prompt
// once the terminal is restored
func (c *CLI) runInteractive(cmd *cobra.Command, mode ui.Mode) error {
	outcome, err := c.opts.Interactive(cmd.Context(), ui.Options{
		Service:   c.service,
		Mode:      mode,
		Clipboard: c.opts.Clipboard,
		Editor:    editor.New(c.config.Editor),
	}, c.config.Watch)
	if err != nil {
		return err
	}

	if outcome.Copied != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Copied to clipboard: %s\n", outcome.Copied.Title())
	}
	return nil
}
