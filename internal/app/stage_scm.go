package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	projerrors "proj/internal/errors"
	"proj/internal/ui"
)

// RemoteStage creates the project on the hosting provider.
type RemoteStage struct {
	console *ui.Console
}

// NewRemoteStage creates a new remote stage instance
func NewRemoteStage(console *ui.Console) *RemoteStage {
	return &RemoteStage{console: console}
}

// Name returns the name of the stage
func (s *RemoteStage) Name() string {
	return "remote"
}

// Execute performs the remote stage logic
func (s *RemoteStage) Execute(ctx context.Context, run *CreateRun) error {
	noun := run.Provider.Noun()

	if run.DryRun {
		s.console.PrintInfo(fmt.Sprintf("🔍 DRY RUN: Would create %s %s '%s' (%s)", run.Provider.Host(), noun, run.Name, run.Visibility))
		return nil
	}

	project, err := run.Provider.CreateProject(ctx, run.Name, run.Visibility)
	if err != nil {
		return remoteError(fmt.Sprintf("Failed to create %s '%s'", noun, run.Name), err)
	}
	run.Project = project

	s.console.PrintSuccess(fmt.Sprintf("%s: %s created", noun, project.Name))
	slog.Info("Remote stage completed successfully", "provider", run.Provider.Host(), "id", project.ID, "name", project.Name)
	return nil
}

// remoteError classifies a provider failure as a network or SCM error.
func remoteError(msg string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return projerrors.NewNetworkError(msg, urlErr.Err.Error(), "Check your network connection and the provider URL", err)
	}
	return projerrors.NewSCMError(msg, err.Error(), "Check your credentials and the provider's response", err)
}
