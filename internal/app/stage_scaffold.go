package app

import (
	"context"
	"fmt"
	"log/slog"

	projerrors "proj/internal/errors"
	"proj/internal/ui"
	"proj/internal/workspace"
)

// FolderStage creates the local project folder. An existing folder is reused.
type FolderStage struct {
	workspace *workspace.Workspace
	console   *ui.Console
}

// NewFolderStage creates a new folder stage instance
func NewFolderStage(ws *workspace.Workspace, console *ui.Console) *FolderStage {
	return &FolderStage{
		workspace: ws,
		console:   console,
	}
}

// Name returns the name of the stage
func (s *FolderStage) Name() string {
	return "folder"
}

// Execute performs the folder stage logic
func (s *FolderStage) Execute(_ context.Context, run *CreateRun) error {
	run.Dir = s.workspace.Path(run.Name)

	if run.DryRun {
		s.console.PrintInfo(fmt.Sprintf("🔍 DRY RUN: Would create folder %s", run.Dir))
		return nil
	}

	created, err := s.workspace.CreateFolder(run.Name)
	if err != nil {
		return projerrors.NewFileSystemError(
			fmt.Sprintf("Failed to create folder for '%s'", run.Name),
			err.Error(),
			fmt.Sprintf("Check that %s is writable and the name is a plain folder name", s.workspace.Root()),
			err,
		)
	}

	if created {
		s.console.PrintSuccess(fmt.Sprintf("Folder: %s created", run.Name))
	} else {
		s.console.PrintInfo(fmt.Sprintf("Folder: %s already exists", run.Name))
	}
	slog.Info("Folder stage completed successfully", "path", run.Dir, "created", created)
	return nil
}
