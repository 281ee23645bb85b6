package app

import (
	"context"

	"proj/internal/scm"
)

// Stage represents a single stage of the create workflow.
// Each stage implements this interface to provide a name and execution logic.
type Stage interface {
	Name() string
	Execute(ctx context.Context, run *CreateRun) error
}

// CreateRun carries the state of one create workflow between its stages.
type CreateRun struct {
	Name       string
	Visibility scm.Visibility
	DryRun     bool
	Provider   scm.Provider

	// Dir is the local project folder, set by the folder stage.
	Dir string
	// Project is the remote project, set by the remote stage. It stays nil on dry runs.
	Project *scm.Project
}

// CreateOptions tune a create call.
type CreateOptions struct {
	Visibility scm.Visibility
	DryRun     bool
}

// DeleteOutcome distinguishes the ways a delete can end.
type DeleteOutcome int

const (
	Deleted DeleteOutcome = iota
	NotFound
	Failed
)

func (o DeleteOutcome) String() string {
	switch o {
	case Deleted:
		return "deleted"
	case NotFound:
		return "not found"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
