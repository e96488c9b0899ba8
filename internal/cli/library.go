package cli

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dpshade/promptshelf/internal/renderer"
)

func (c *CLI) newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List all tags with the number of prompts using them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := c.service.GetAllTags()
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags found.")
				return nil
			}

			width := 0
			for _, t := range tags {
				width = max(width, runewidth.StringWidth(t.Tag))
			}
			for _, t := range tags {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %d\n", runewidth.FillRight(t.Tag, width), t.Count)
			}
			return nil
		},
	}
}

func (c *CLI) newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the templates available to create",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := renderer.List()
			width := 0
			for _, t := range templates {
				width = max(width, len(t.Name))
			}
			for _, t := range templates {
				fmt.Fprintf(cmd.OutOrStdout(), "%-*s  %s\n", width, t.Name, t.Description)
			}
			return nil
		},
	}
}

func (c *CLI) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new prompt library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.service.InitLibrary(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized prompt library at %s\n", c.service.BaseDir())
			return nil
		},
	}
}
