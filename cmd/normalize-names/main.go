// Command normalize-names renames prompt files whose names are not in normal
// form (lower case, whitespace runs replaced by "-") so that the file name
// matches the name prompts are addressed by.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dpshade/promptshelf/internal/config"
	"github.com/dpshade/promptshelf/internal/logger"
	"github.com/dpshade/promptshelf/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		path   string
		dryRun bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:           "normalize-names",
		Short:         "Rename prompt files to their normalized names",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.NewViper()
			if path != "" {
				v.Set("path", path)
			}
			if err := config.ReadConfigFile(v, ""); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if err := logger.Initialize(logger.Options{Level: cfg.Log.Level}); err != nil {
				return err
			}
			defer logger.Sync()

			svc, err := service.NewService(cfg.Path)
			if err != nil {
				return err
			}
			return run(cmd, svc, dryRun, yes)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "library base directory (default from config)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "only list the files that would be renamed")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "rename without asking")
	return cmd
}

func run(cmd *cobra.Command, svc *service.Service, dryRun, yes bool) error {
	out := cmd.OutOrStdout()

	misnamed, err := svc.MisnamedPrompts()
	if err != nil {
		return err
	}
	if len(misnamed) == 0 {
		fmt.Fprintln(out, "All prompt files already use normalized names")
		return nil
	}

	fmt.Fprintf(out, "Found %d prompt files to rename:\n", len(misnamed))
	for _, p := range misnamed {
		fmt.Fprintf(out, "  - %s -> %s\n", p.FilePath, p.Name)
	}
	if dryRun {
		return nil
	}

	if !yes {
		fmt.Fprint(out, "\nProceed? (y/N): ")
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if r := strings.ToLower(strings.TrimSpace(response)); r != "y" && r != "yes" {
			fmt.Fprintln(out, "Cancelled")
			return nil
		}
	}

	renamed := 0
	for _, p := range misnamed {
		newPath, err := svc.NormalizeFileName(p)
		if err != nil {
			fmt.Fprintf(out, "Skipping %s: %v\n", p.FilePath, err)
			continue
		}
		fmt.Fprintf(out, "Renamed %s to %s\n", p.FilePath, newPath)
		renamed++
	}

	fmt.Fprintf(out, "Done: renamed %d of %d files\n", renamed, len(misnamed))
	return nil
}
