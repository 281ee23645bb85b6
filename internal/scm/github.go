package scm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// DefaultGitHubURL is the web host remotes are built from when the settings do not name one.
const DefaultGitHubURL = "https://github.com"

// GitHubConfig holds the settings needed to talk to GitHub.
type GitHubConfig struct {
	// Username owns the repositories and is used in remote URLs.
	Username string
	// Password is a personal access token; it authenticates both API calls and pushes.
	Password string
	// URL is the web host used for remotes. Leave empty for github.com.
	URL string
	// APIURL overrides the REST endpoint, e.g. for GitHub Enterprise. Leave empty for api.github.com.
	APIURL string
}

// GitHubProvider implements the Provider interface for GitHub.
type GitHubProvider struct {
	client   *gh.Client
	username string
	password string
	webURL   string
}

// NewGitHubProvider validates cfg and returns a GitHubProvider.
func NewGitHubProvider(cfg GitHubConfig) (*GitHubProvider, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("GitHub username and password are not set: %w", ErrMissingCredentials)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Password})
	client := gh.NewClient(oauth2.NewClient(context.Background(), ts))

	if cfg.APIURL != "" {
		apiURL := cfg.APIURL
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		baseURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.APIURL, err)
		}
		client.BaseURL = baseURL
	}

	webURL := strings.TrimSuffix(cfg.URL, "/")
	if webURL == "" {
		webURL = DefaultGitHubURL
	}

	return &GitHubProvider{
		client:   client,
		username: cfg.Username,
		password: cfg.Password,
		webURL:   webURL,
	}, nil
}

func (g *GitHubProvider) Host() string   { return "github" }
func (g *GitHubProvider) Noun() string   { return "Repository" }
func (g *GitHubProvider) WebURL() string { return g.webURL }

func (g *GitHubProvider) GitCredentials() Credentials {
	return Credentials{Username: g.username, Password: g.password}
}

// Owner returns the configured username.
func (g *GitHubProvider) Owner(_ context.Context) (string, error) {
	return g.username, nil
}

// ListProjects returns all repositories owned by the authenticated user, following every page.
func (g *GitHubProvider) ListProjects(ctx context.Context) ([]Project, error) {
	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		Affiliation: "owner",
		ListOptions: gh.ListOptions{PerPage: listPageSize},
	}

	var projects []Project
	for {
		repos, resp, err := g.client.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list GitHub repositories: %w", err)
		}

		for _, r := range repos {
			projects = append(projects, githubProject(r))
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	slog.Info("Listed GitHub repositories", "count", len(projects))
	return projects, nil
}

// CreateProject creates an empty repository for the authenticated user. User repositories
// have no internal level; internal is created as private, the closest level that does not
// widen access, and a warning is logged.
func (g *GitHubProvider) CreateProject(ctx context.Context, name string, visibility Visibility) (*Project, error) {
	slog.Info("Creating GitHub repository", "name", name, "visibility", visibility)

	if visibility == VisibilityInternal {
		slog.Warn("GitHub user repositories cannot be internal, creating as private", "name", name)
	}

	repo, _, err := g.client.Repositories.Create(ctx, "", &gh.Repository{
		Name:    gh.Ptr(name),
		Private: gh.Ptr(visibility != VisibilityPublic),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub repository: %w", err)
	}

	slog.Info("GitHub repository created successfully", "id", repo.GetID(), "url", repo.GetCloneURL())
	p := githubProject(repo)
	return &p, nil
}

// DeleteProject resolves the repository by numeric id and deletes it.
func (g *GitHubProvider) DeleteProject(ctx context.Context, id int64) (*Project, error) {
	repo, resp, err := g.client.Repositories.GetByID(ctx, id)
	if err != nil {
		if githubNotFound(resp) {
			return nil, fmt.Errorf("GitHub repository %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch GitHub repository %d: %w", id, err)
	}

	resp, err = g.client.Repositories.Delete(ctx, repo.GetOwner().GetLogin(), repo.GetName())
	if err != nil {
		if githubNotFound(resp) {
			return nil, fmt.Errorf("GitHub repository %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to delete GitHub repository %d: %w", id, err)
	}

	slog.Info("GitHub repository deleted", "id", repo.GetID(), "name", repo.GetName())
	p := githubProject(repo)
	return &p, nil
}

func githubProject(r *gh.Repository) Project {
	visibility := VisibilityPublic
	if r.GetPrivate() {
		visibility = VisibilityPrivate
	}
	if v := r.GetVisibility(); v != "" {
		visibility = Visibility(v)
	}

	return Project{
		ID:         r.GetID(),
		Name:       r.GetName(),
		Visibility: visibility,
		CreatedAt:  r.GetCreatedAt().Time,
	}
}

func githubNotFound(resp *gh.Response) bool {
	return resp != nil && resp.Response != nil && resp.StatusCode == http.StatusNotFound
}
