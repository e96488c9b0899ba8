package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	apperrors "github.com/dpshade/promptshelf/internal/errors"
	"github.com/dpshade/promptshelf/internal/models"
	"github.com/dpshade/promptshelf/internal/renderer"
	"github.com/dpshade/promptshelf/internal/service"
)

func (c *CLI) newListCmd() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all prompts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts, err := c.service.FilterPromptsByTag(tags...)
			if err != nil {
				return err
			}
			if len(prompts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No prompts found.")
				return nil
			}
			printPrompts(cmd.OutOrStdout(), prompts)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "only prompts carrying any of these tags")
	return cmd
}

func (c *CLI) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <name>",
		Aliases: []string{"show"},
		Short:   "Print the body of a prompt",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, body, err := c.service.GetPromptContent(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), body)
			return nil
		},
	}
}

func (c *CLI) newCreateCmd() *cobra.Command {
	var opts service.CreateOptions

	cmd := &cobra.Command{
		Use:     "create <name>",
		Aliases: []string{"new"},
		Short:   "Create a new prompt",
		Long: fmt.Sprintf(`Create <normalized name>.md with the given display name.

The body comes from --content ("-" reads standard input) or from one of the
built-in templates: %s.`, strings.Join(renderer.Names(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Content == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return apperrors.IOError("read standard input", err)
				}
				opts.Content = string(data)
			}

			meta, err := c.service.CreatePrompt(args[0], opts)
			if err != nil {
				return err
			}
			path, err := c.service.PromptFilePath(meta.Name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created prompt: %s (%s)\n", meta.Name, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Template, "template", "T", "", "template for the body: "+strings.Join(renderer.Names(), ", "))
	cmd.Flags().StringVarP(&opts.Content, "content", "c", "", `body text, "-" for standard input`)
	cmd.Flags().StringSliceVarP(&opts.Tags, "tag", "t", nil, "tags for the new prompt")
	return cmd
}

func (c *CLI) newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <name>",
		Short: "Open a prompt in your editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.service.EditPrompt(args[0], c.editorRunner()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved prompt: %s\n", models.Normalize(args[0]))
			return nil
		},
	}
}

func (c *CLI) newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a prompt",
		Long:    "Delete a prompt file. Nothing is deleted unless --force is given.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.service.DeletePrompt(args[0], force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted prompt: %s\n", models.Normalize(args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")
	return cmd
}

func (c *CLI) newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <name>",
		Short: "Copy the body of a prompt to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := c.service.CopyPrompt(args[0], c.clipboardWriter())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied to clipboard: %s\n", meta.Title())
			return nil
		},
	}
}

func (c *CLI) newSearchCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search prompts",
		Long: `Search prompt names, tags and bodies for a case-insensitive substring.

Use --kind to restrict the search. The interactive search only matches names.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			searchKind, err := models.ParseSearchKind(kind)
			if err != nil {
				return apperrors.InvalidInputError("kind", err.Error())
			}

			query := strings.Join(args, " ")
			prompts, err := c.service.SearchPrompts(query, searchKind)
			if err != nil {
				return err
			}
			if len(prompts) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No prompts found matching '%s'\n", query)
				return nil
			}
			printPrompts(cmd.OutOrStdout(), prompts)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", string(models.SearchAll), "what to search: all, name, tag, content")
	return cmd
}

func (c *CLI) newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename a prompt and its file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := c.service.RenamePrompt(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed prompt: %s -> %s\n", models.Normalize(args[0]), meta.Name)
			return nil
		},
	}
}

// printPrompts writes one aligned line per prompt: name, display name, tags
func printPrompts(w io.Writer, prompts []models.PromptMetadata) {
	nameWidth, titleWidth := 0, 0
	for _, p := range prompts {
		nameWidth = max(nameWidth, runewidth.StringWidth(p.Name))
		titleWidth = max(titleWidth, runewidth.StringWidth(p.Title()))
	}

	for _, p := range prompts {
		line := runewidth.FillRight(p.Name, nameWidth) + "  " + runewidth.FillRight(p.Title(), titleWidth)
		if len(p.Tags) > 0 {
			line += "  [" + p.TagList() + "]"
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
