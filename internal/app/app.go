// Package app implements the proj operations on top of the configured hosting provider.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	projerrors "proj/internal/errors"
	"proj/internal/scm"
	"proj/internal/settings"
	"proj/internal/ui"
	"proj/internal/workspace"
)

// App runs the user-facing operations. Settings are loaded on first use and kept for the process.
type App struct {
	store     *settings.Store
	factory   Factory
	workspace *workspace.Workspace
	console   *ui.Console

	settings *settings.Settings
}

// New returns an App reading settings from store and creating folders in ws.
func New(store *settings.Store, factory Factory, ws *workspace.Workspace, console *ui.Console) *App {
	return &App{
		store:     store,
		factory:   factory,
		workspace: ws,
		console:   console,
	}
}

func (a *App) loadSettings() (*settings.Settings, error) {
	if a.settings != nil {
		return a.settings, nil
	}

	s, err := a.store.Load()
	if err != nil {
		suggestion := fmt.Sprintf("Fix %s or point --settings at a valid file", a.store.Path())
		if errors.Is(err, settings.ErrNotFound) {
			suggestion = fmt.Sprintf("Create %s with git_host, gitlab.token, github.username and github.password", a.store.Path())
		}
		return nil, projerrors.NewSettingsError("Failed to load settings", err.Error(), suggestion, err)
	}

	a.settings = s
	return s, nil
}

func (a *App) provider() (scm.Provider, error) {
	s, err := a.loadSettings()
	if err != nil {
		return nil, err
	}
	return a.factory.GetScmProvider(s)
}

// SwitchHost persists host as the active provider.
func (a *App) SwitchHost(host string) error {
	h, err := settings.ParseHost(host)
	if err != nil {
		return projerrors.NewArgumentError("Invalid git host", err.Error(), "Use 'gitlab' or 'github'", err)
	}

	if err := a.store.SetGitHost(h); err != nil {
		return projerrors.NewSettingsError("Failed to switch git host", err.Error(),
			fmt.Sprintf("Check that %s exists and is writable", a.store.Path()), err)
	}

	a.settings = nil
	a.console.Println(fmt.Sprintf("Git hosting set to %s", h))
	return nil
}

// Show prints the table of projects owned by the user.
func (a *App) Show(ctx context.Context) error {
	provider, err := a.provider()
	if err != nil {
		return err
	}

	projects, err := provider.ListProjects(ctx)
	if err != nil {
		return remoteError(fmt.Sprintf("Failed to list %s owned projects", provider.Host()), err)
	}

	a.console.PrintProjects(projects)
	return nil
}

// Create runs the folder, remote and bootstrap stages in order. A failed stage stops the
// workflow and nothing done by earlier stages is undone.
func (a *App) Create(ctx context.Context, name string, opts CreateOptions) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return projerrors.NewArgumentError("Missing project name", "", "Usage: proj create <name>", errors.New("project name cannot be empty"))
	}

	visibility := opts.Visibility
	if visibility == "" {
		visibility = scm.DefaultVisibility
	}

	s, err := a.loadSettings()
	if err != nil {
		return err
	}
	provider, err := a.factory.GetScmProvider(s)
	if err != nil {
		return err
	}
	bootstrapper, err := a.factory.GetBootstrapper(s.Bootstrap)
	if err != nil {
		return err
	}

	if opts.DryRun {
		a.console.PrintWarning("DRY RUN MODE - No actual changes will be made")
	}

	run := &CreateRun{
		Name:       name,
		Visibility: visibility,
		DryRun:     opts.DryRun,
		Provider:   provider,
	}
	stages := []Stage{
		NewFolderStage(a.workspace, a.console),
		NewRemoteStage(a.console),
		NewBootstrapStage(bootstrapper, a.console),
	}

	slog.Info("Starting create workflow", "name", name, "provider", provider.Host(), "visibility", visibility, "dryRun", opts.DryRun)
	for _, stage := range stages {
		if err := stage.Execute(ctx, run); err != nil {
			slog.Info("Create workflow stopped", "stage", stage.Name(), "error", err)
			return err
		}
	}

	if opts.DryRun {
		a.console.PrintSuccess("DRY RUN COMPLETED - No actual resources were created or modified.")
	}
	return nil
}

// Delete removes the remote project with the given id. A missing project is reported as
// NotFound without an error. With purgeLocal the local folder of the deleted project is removed too.
func (a *App) Delete(ctx context.Context, id int64, purgeLocal bool) (DeleteOutcome, error) {
	provider, err := a.provider()
	if err != nil {
		return Failed, err
	}
	noun := provider.Noun()

	project, err := provider.DeleteProject(ctx, id)
	if errors.Is(err, scm.ErrNotFound) {
		slog.Info("Delete target not found", "provider", provider.Host(), "id", id, "error", err)
		a.console.PrintError(fmt.Sprintf("%s not found", noun))
		return NotFound, nil
	}
	if err != nil {
		return Failed, remoteError(fmt.Sprintf("Failed to delete %s %d", noun, id), err)
	}

	a.console.PrintSuccess(fmt.Sprintf("%s: %s deleted", noun, project.Name))

	if purgeLocal {
		deleted, err := a.workspace.DeleteFolder(project.Name)
		if err != nil {
			return Deleted, projerrors.NewFileSystemError(
				fmt.Sprintf("%s deleted but its folder could not be removed", noun),
				err.Error(),
				fmt.Sprintf("Remove %s by hand", a.workspace.Path(project.Name)),
				err,
			)
		}
		if deleted {
			a.console.PrintSuccess(fmt.Sprintf("Folder: %s deleted", project.Name))
		} else {
			a.console.PrintInfo(fmt.Sprintf("Folder: %s does not exist", project.Name))
		}
	}

	return Deleted, nil
}

// ParseProjectID parses a project id given on the command line.
func ParseProjectID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, projerrors.NewArgumentError(
			fmt.Sprintf("Invalid project ID '%s'", s),
			"the ID must be an integer",
			"Run 'proj show' to list project IDs",
			err,
		)
	}
	return id, nil
}

const (
	gitlabHelp = "proj (using GitLab)\n" +
		"    gitlab|github             Switch Git hosting\n" +
		"    show                      Show owned projects\n" +
		"    create <proj_name>        Create new project\n" +
		"    delete <proj_id>          Delete project\n"

	githubHelp = "proj (using GitHub)\n" +
		"    gitlab|github             Switch Git hosting\n" +
		"    show                      Show owned repositories\n" +
		"    create <repo_name>        Create new repository\n" +
		"    delete <repo_id>          Delete repository\n"
)

// Help returns the usage text for the configured host. GitLab is assumed when the
// settings cannot be read.
func (a *App) Help() string {
	s, err := a.loadSettings()
	if err == nil && s.GitHost == settings.HostGitHub {
		return githubHelp
	}
	return gitlabHelp
}

// PrintHelp writes Help to the console.
func (a *App) PrintHelp() {
	a.console.Println(a.Help())
}
