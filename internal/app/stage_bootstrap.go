package app

import (
	"context"
	"fmt"
	"log/slog"

	"proj/internal/bootstrap"
	projerrors "proj/internal/errors"
	"proj/internal/ui"
)

// BootstrapStage turns the folder into a repository and pushes the initial commit to the new remote.
type BootstrapStage struct {
	bootstrapper bootstrap.Bootstrapper
	console      *ui.Console
}

// NewBootstrapStage creates a new bootstrap stage instance
func NewBootstrapStage(b bootstrap.Bootstrapper, console *ui.Console) *BootstrapStage {
	return &BootstrapStage{
		bootstrapper: b,
		console:      console,
	}
}

// Name returns the name of the stage
func (s *BootstrapStage) Name() string {
	return "bootstrap"
}

// Execute performs the bootstrap stage logic
func (s *BootstrapStage) Execute(ctx context.Context, run *CreateRun) error {
	owner, err := run.Provider.Owner(ctx)
	if err != nil {
		return remoteError("Failed to resolve the account owner", err)
	}

	remoteURL := bootstrap.RemoteURL(run.Provider.WebURL(), owner, run.Name)

	if run.DryRun {
		s.console.PrintInfo(fmt.Sprintf("🔍 DRY RUN: Would initialise %s and push %s to %s", run.Dir, bootstrap.Branch, remoteURL))
		return nil
	}

	err = s.bootstrapper.Bootstrap(ctx, bootstrap.Request{
		Dir:         run.Dir,
		RemoteURL:   remoteURL,
		Credentials: run.Provider.GitCredentials(),
	})
	if err != nil {
		return projerrors.NewBootstrapError(
			fmt.Sprintf("Failed to push the initial commit to %s", remoteURL),
			err.Error(),
			fmt.Sprintf("The remote %s exists; fix the cause and push from %s by hand", run.Provider.Noun(), run.Dir),
			err,
		)
	}

	slog.Info("Bootstrap stage completed successfully", "dir", run.Dir, "remote", remoteURL)
	return nil
}
