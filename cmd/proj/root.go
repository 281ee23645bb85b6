package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"proj/internal/app"
	projerrors "proj/internal/errors"
	"proj/internal/scm"
	"proj/internal/settings"
	"proj/internal/ui"
	"proj/internal/workspace"
)

// Status is the result of one dispatched command.
type Status int

const (
	StatusOK Status = iota + 1
	StatusFail
)

// deps are the collaborators of the command tree.
type deps struct {
	out    io.Writer
	errOut io.Writer

	factory     app.Factory
	workspace   func() (*workspace.Workspace, error)
	handleError func(error)
}

func defaultDeps() deps {
	return deps{
		out:         os.Stdout,
		errOut:      os.Stderr,
		factory:     app.NewProviderFactory(),
		workspace:   workspace.Home,
		handleError: projerrors.HandleError,
	}
}

// run executes the command line args and reports the resulting status. Errors are
// passed to the error handler and turn the status into StatusFail.
func run(ctx context.Context, args []string, d deps) Status {
	status := StatusOK
	cmd := newRootCmd(d, &status)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		d.handleError(err)
		return StatusFail
	}
	return status
}

func newRootCmd(d deps, status *Status) *cobra.Command {
	var (
		settingsPath string
		verbose      bool
	)

	console := newConsole(d)

	newApp := func() (*app.App, error) {
		ws, err := d.workspace()
		if err != nil {
			return nil, projerrors.NewFileSystemError("Failed to locate the home directory", err.Error(), "Set HOME", err)
		}
		store := settings.NewStore(settings.ResolvePath(settingsPath))
		return app.New(store, d.factory, ws, console), nil
	}

	printHelp := func(*cobra.Command, []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.PrintHelp()
		*status = StatusFail
		return nil
	}

	rootCmd := &cobra.Command{
		Use:     "proj",
		Short:   "proj - create and manage GitLab and GitHub projects",
		Version: version,
		Long: `proj is a CLI tool that helps developers manage their projects on GitLab or GitHub:
switch between hosts, list owned projects, create a project with its local folder and
initial commit, and delete projects by ID.`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelInfo
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(d.errOut, &slog.HandlerOptions{Level: level})))
		},
		RunE: printHelp,
	}
	rootCmd.SetOut(d.out)
	rootCmd.SetErr(d.errOut)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "help",
		Hidden: true,
		RunE:   printHelp,
	})

	rootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", "",
		"Path to the settings file (default: $"+settings.PathEnvVar+", ./settings.json or the user config directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")

	for _, host := range []settings.Host{settings.HostGitLab, settings.HostGitHub} {
		rootCmd.AddCommand(&cobra.Command{
			Use:   string(host),
			Short: "Switch Git hosting to " + string(host),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp()
				if err != nil {
					return err
				}
				return a.SwitchHost(cmd.Name())
			},
		})
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show owned projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.Show(cmd.Context())
		},
	})

	createCmd := &cobra.Command{
		Use:   "create <name>...",
		Short: "Create new project",
		Long: `Create makes a folder named after the project in the home directory, creates the
project on the configured host and pushes an initial commit to it. The remaining
arguments are joined with spaces to form the project name.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return projerrors.NewArgumentError("Missing project name", "", "Usage: proj create <name>", errors.New("no project name given"))
			}

			rawVisibility, _ := cmd.Flags().GetString("visibility")
			visibility, err := scm.ParseVisibility(rawVisibility)
			if err != nil {
				return projerrors.NewArgumentError("Invalid visibility", err.Error(), "Use public, internal or private", err)
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			a, err := newApp()
			if err != nil {
				return err
			}
			return a.Create(cmd.Context(), strings.Join(args, " "), app.CreateOptions{
				Visibility: visibility,
				DryRun:     dryRun,
			})
		},
	}
	createCmd.Flags().String("visibility", string(scm.DefaultVisibility), "Project visibility: public, internal or private")
	createCmd.Flags().Bool("dry-run", false, "Print what would be done without making any changes")
	rootCmd.AddCommand(createCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete project",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return projerrors.NewArgumentError("Missing project ID", "", "Usage: proj delete <id>", errors.New("no project ID given"))
			}
			id, err := app.ParseProjectID(args[0])
			if err != nil {
				return err
			}
			purgeLocal, _ := cmd.Flags().GetBool("purge-local")

			a, err := newApp()
			if err != nil {
				return err
			}
			outcome, err := a.Delete(cmd.Context(), id, purgeLocal)
			slog.Info("Delete finished", "id", id, "outcome", outcome)
			return err
		},
	}
	deleteCmd.Flags().Bool("purge-local", false, "Also remove the local project folder")
	rootCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:    "test",
		Hidden: true,
		RunE:   func(*cobra.Command, []string) error { return nil },
	})

	return rootCmd
}

func newConsole(d deps) *ui.Console {
	if d.out == os.Stdout && d.errOut == os.Stderr {
		return ui.NewConsole()
	}
	return ui.NewConsoleWithWriters(d.out, d.errOut)
}
