package scm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	gitlab "github.com/xanzy/go-gitlab"
)

const (
	// DefaultGitLabURL is used when the settings do not name a GitLab instance.
	DefaultGitLabURL = "https://gitlab.com"

	listPageSize = 100
)

// GitLabConfig holds the settings needed to talk to a GitLab instance.
type GitLabConfig struct {
	// Token is a personal access token with the api scope.
	Token string
	// URL is the base URL of the instance, e.g. "https://gitlab.com".
	URL string
}

// GitLabProvider implements the Provider interface for GitLab.
type GitLabProvider struct {
	client *gitlab.Client
	token  string
	webURL string
}

// NewGitLabProvider creates a new GitLabProvider with authentication.
func NewGitLabProvider(cfg GitLabConfig) (*GitLabProvider, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("GitLab personal access token is not set: %w", ErrMissingCredentials)
	}

	webURL := strings.TrimSuffix(cfg.URL, "/")
	if webURL == "" {
		webURL = DefaultGitLabURL
	}

	client, err := gitlab.NewClient(cfg.Token, gitlab.WithBaseURL(webURL+"/api/v4"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &GitLabProvider{
		client: client,
		token:  cfg.Token,
		webURL: webURL,
	}, nil
}

func (g *GitLabProvider) Host() string   { return "gitlab" }
func (g *GitLabProvider) Noun() string   { return "Project" }
func (g *GitLabProvider) WebURL() string { return g.webURL }

// GitCredentials returns token credentials; GitLab accepts "oauth2" as the username for token auth.
func (g *GitLabProvider) GitCredentials() Credentials {
	return Credentials{Username: "oauth2", Password: g.token}
}

// Owner returns the username of the token's owner.
func (g *GitLabProvider) Owner(ctx context.Context) (string, error) {
	user, _, err := g.client.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to fetch current GitLab user: %w", err)
	}
	return user.Username, nil
}

// ListProjects returns all projects owned by the current user, following every page.
func (g *GitLabProvider) ListProjects(ctx context.Context) ([]Project, error) {
	opts := &gitlab.ListProjectsOptions{
		ListOptions: gitlab.ListOptions{PerPage: listPageSize, Page: 1},
		Owned:       gitlab.Bool(true),
	}

	var projects []Project
	for {
		page, resp, err := g.client.Projects.ListProjects(opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list GitLab projects: %w", err)
		}

		for _, p := range page {
			projects = append(projects, gitlabProject(p))
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	slog.Info("Listed GitLab projects", "count", len(projects))
	return projects, nil
}

// CreateProject creates an empty GitLab project. The path is the slug of the name so that
// the remote URL built for the initial push matches.
func (g *GitLabProvider) CreateProject(ctx context.Context, name string, visibility Visibility) (*Project, error) {
	slog.Info("Creating GitLab project", "name", name, "visibility", visibility)

	visibilityLevel := gitlabVisibility(visibility)
	path := Slug(name)
	createOpts := &gitlab.CreateProjectOptions{
		Name:                 &name,
		Path:                 &path,
		Visibility:           &visibilityLevel,
		InitializeWithReadme: gitlab.Bool(false),
	}

	project, _, err := g.client.Projects.CreateProject(createOpts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab project: %w", err)
	}

	slog.Info("GitLab project created successfully", "id", project.ID, "url", project.HTTPURLToRepo)
	p := gitlabProject(project)
	return &p, nil
}

// DeleteProject looks the project up by id and deletes it.
func (g *GitLabProvider) DeleteProject(ctx context.Context, id int64) (*Project, error) {
	project, resp, err := g.client.Projects.GetProject(int(id), nil, gitlab.WithContext(ctx))
	if err != nil {
		if gitlabNotFound(resp) {
			return nil, fmt.Errorf("GitLab project %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch GitLab project %d: %w", id, err)
	}

	resp, err = g.client.Projects.DeleteProject(project.ID, gitlab.WithContext(ctx))
	if err != nil {
		if gitlabNotFound(resp) {
			return nil, fmt.Errorf("GitLab project %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to delete GitLab project %d: %w", id, err)
	}

	slog.Info("GitLab project deleted", "id", project.ID, "name", project.Name)
	p := gitlabProject(project)
	return &p, nil
}

func gitlabVisibility(v Visibility) gitlab.VisibilityValue {
	switch v {
	case VisibilityPublic:
		return gitlab.PublicVisibility
	case VisibilityInternal:
		return gitlab.InternalVisibility
	default:
		return gitlab.PrivateVisibility
	}
}

func gitlabProject(p *gitlab.Project) Project {
	project := Project{
		ID:         int64(p.ID),
		Name:       p.Name,
		Visibility: Visibility(p.Visibility),
	}
	if p.CreatedAt != nil {
		project.CreatedAt = *p.CreatedAt
	}
	return project
}

func gitlabNotFound(resp *gitlab.Response) bool {
	return resp != nil && resp.Response != nil && resp.StatusCode == http.StatusNotFound
}
