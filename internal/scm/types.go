package scm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when the requested project does not exist on the provider.
	ErrNotFound = errors.New("project not found")

	// ErrMissingCredentials is returned by provider constructors when the settings lack credentials.
	ErrMissingCredentials = errors.New("missing credentials")
)

// Visibility is the access level of a remote project.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityInternal Visibility = "internal"
	VisibilityPrivate  Visibility = "private"

	DefaultVisibility = VisibilityPrivate
)

// ParseVisibility converts user input into a Visibility. Empty input yields the default.
func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return DefaultVisibility, nil
	case VisibilityPublic, VisibilityInternal, VisibilityPrivate:
		return v, nil
	default:
		return "", fmt.Errorf("unknown visibility %q (expected public, internal or private)", s)
	}
}

// Project is a remote project (GitLab) or repository (GitHub) owned by the user.
type Project struct {
	ID         int64
	Name       string
	Visibility Visibility
	CreatedAt  time.Time
}

// Credentials authenticate git pushes against the provider.
type Credentials struct {
	Username string
	Password string
}

// Provider defines the interface for source control management operations.
// This interface is provider-agnostic and is implemented once per hosting service.
type Provider interface {
	// Host returns the settings identifier of the provider ("gitlab" or "github").
	Host() string

	// Noun is the provider's word for a project, used in user-facing messages.
	Noun() string

	// WebURL is the base URL that git remotes are built from.
	WebURL() string

	// Owner returns the username that owns newly created projects.
	Owner(ctx context.Context) (string, error)

	// ListProjects returns every project owned by the authenticated user.
	ListProjects(ctx context.Context) ([]Project, error)

	// CreateProject creates an empty remote project.
	CreateProject(ctx context.Context, name string, visibility Visibility) (*Project, error)

	// DeleteProject deletes the project with the given id and returns what was deleted.
	// It returns an error wrapping ErrNotFound when no such project exists.
	DeleteProject(ctx context.Context, id int64) (*Project, error)

	// GitCredentials returns the credentials used to push to the provider over HTTPS.
	GitCredentials() Credentials
}

// Slug converts a project name to the path used in remote URLs.
func Slug(name string) string {
	return strings.ReplaceAll(name, " ", "-")
}
