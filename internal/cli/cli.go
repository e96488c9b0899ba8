// Package cli is the promptshelf command line. Every command goes through the
// service layer; the root command and manage start the interactive surface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dpshade/promptshelf/internal/clipboard"
	"github.com/dpshade/promptshelf/internal/config"
	"github.com/dpshade/promptshelf/internal/editor"
	apperrors "github.com/dpshade/promptshelf/internal/errors"
	"github.com/dpshade/promptshelf/internal/logger"
	"github.com/dpshade/promptshelf/internal/service"
	"github.com/dpshade/promptshelf/internal/ui"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "0.1.0"

// annotationInteractive marks commands that hand the terminal to the UI
const annotationInteractive = "interactive"

// InteractiveRunner starts a full-screen session
type InteractiveRunner func(ctx context.Context, opts ui.Options, watch bool) (ui.Outcome, error)

// Options replaces collaborators, mainly for tests. Zero values select the
// real clipboard, the configured editor and the bubbletea program.
type Options struct {
	Clipboard   clipboard.Writer
	Editor      service.EditorRunner
	Interactive InteractiveRunner
}

// CLI provides the command-line interface
type CLI struct {
	opts Options

	configFile string
	config     *config.Config
	service    *service.Service
}

// NewRootCmd builds the promptshelf command tree
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Interactive == nil {
		opts.Interactive = ui.Run
	}
	c := &CLI{opts: opts}

	root := &cobra.Command{
		Use:   "promptshelf",
		Short: "Terminal prompt library manager",
		Long: `promptshelf keeps a library of reusable prompts as markdown files with a
YAML header under <path>/prompts.

Run without a command to pick a prompt and copy it to the clipboard.
Use 'promptshelf manage' to edit, tag, create and delete prompts.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (PROMPTSHELF_* prefix, .env is loaded first)
3. Config file (~/.config/promptshelf/config.toml or --config)
4. Default values`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{annotationInteractive: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInteractive(cmd, ui.ModeQuickSelect)
		},
	}

	flags := root.PersistentFlags()
	flags.String("path", "", "library base directory (default ~/.promptshelf)")
	flags.String("editor", "", "editor command (default $VISUAL, then $EDITOR)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.Bool("watch", false, "rescan the library when files change while the UI runs")
	flags.StringVar(&c.configFile, "config", "", "config file (default ~/.config/promptshelf/config.toml)")

	root.AddCommand(
		c.newListCmd(),
		c.newGetCmd(),
		c.newCreateCmd(),
		c.newEditCmd(),
		c.newDeleteCmd(),
		c.newCopyCmd(),
		c.newSearchCmd(),
		c.newRenameCmd(),
		c.newTagsCmd(),
		c.newTemplatesCmd(),
		c.newInitCmd(),
		c.newManageCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and builds the service before any command runs
func (c *CLI) setup(cmd *cobra.Command) error {
	_ = godotenv.Load()

	v := config.NewViper()
	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"path":      "path",
		"editor":    "editor",
		"watch":     "watch",
		"log.level": "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return apperrors.Wrapf(err, "failed to bind flag %s", flag)
		}
	}

	if err := config.ReadConfigFile(v, c.configFile); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so it only logs to a file
	interactive := cmd.Annotations[annotationInteractive] == "true"
	if err := logger.Initialize(logger.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
		Quiet: interactive,
	}); err != nil {
		return apperrors.Wrap(err, "failed to initialize logger")
	}

	svc, err := service.NewService(cfg.Path)
	if err != nil {
		return err
	}

	c.config = cfg
	c.service = svc
	logger.Logger.Debugw("configuration loaded",
		logger.FieldPath, cfg.Path,
		logger.FieldEditor, cfg.Editor,
	)
	return nil
}

func (c *CLI) clipboardWriter() clipboard.Writer {
	if c.opts.Clipboard != nil {
		return c.opts.Clipboard
	}
	return clipboard.NewSystem()
}

func (c *CLI) editorRunner() service.EditorRunner {
	if c.opts.Editor != nil {
		return c.opts.Editor
	}
	return editor.New(c.config.Editor)
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd(Options{}).ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		printError(os.Stderr, err)
		return 1
	}
	return 0
}

func printError(w io.Writer, err error) {
	handler := apperrors.NewCLIErrorHandler(false)
	fmt.Fprintln(w, handler.FormatError(handler.HandleError(err)))
}
