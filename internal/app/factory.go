package app

import (
	"errors"
	"fmt"

	"proj/internal/bootstrap"
	projerrors "proj/internal/errors"
	"proj/internal/scm"
	"proj/internal/settings"
)

// Factory builds the provider and bootstrapper selected by the settings.
type Factory interface {
	GetScmProvider(s *settings.Settings) (scm.Provider, error)
	GetBootstrapper(mode string) (bootstrap.Bootstrapper, error)
}

// ProviderFactory creates the real GitLab and GitHub providers.
type ProviderFactory struct{}

// NewProviderFactory creates a new instance of ProviderFactory.
func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{}
}

// GetScmProvider returns the provider for the configured git host. Missing credentials
// are reported as a credentials error carrying the message shown to the user.
func (f *ProviderFactory) GetScmProvider(s *settings.Settings) (scm.Provider, error) {
	switch s.GitHost {
	case settings.HostGitLab:
		provider, err := scm.NewGitLabProvider(scm.GitLabConfig{
			Token: s.GitLab.Token,
			URL:   s.GitLab.URL,
		})
		if err != nil {
			return nil, providerError(err, "Please set GitLab Personal Access Token in settings file")
		}
		return provider, nil
	case settings.HostGitHub:
		provider, err := scm.NewGitHubProvider(scm.GitHubConfig{
			Username: s.GitHub.Username,
			Password: s.GitHub.Password,
			URL:      s.GitHub.URL,
			APIURL:   s.GitHub.APIURL,
		})
		if err != nil {
			return nil, providerError(err, "Please set GitHub username and password in settings file")
		}
		return provider, nil
	default:
		return nil, projerrors.NewSettingsError(
			"Unsupported git host in settings file",
			fmt.Sprintf("git_host is %q", s.GitHost),
			"Run 'proj gitlab' or 'proj github' to select a host",
			fmt.Errorf("unsupported SCM provider: %s", s.GitHost),
		)
	}
}

// GetBootstrapper returns the bootstrapper for mode. An empty mode selects go-git.
func (f *ProviderFactory) GetBootstrapper(mode string) (bootstrap.Bootstrapper, error) {
	switch mode {
	case "", settings.BootstrapGoGit:
		return bootstrap.NewGoGit(), nil
	case settings.BootstrapCLI:
		return bootstrap.NewShell(), nil
	default:
		return nil, projerrors.NewSettingsError(
			"Unsupported bootstrap mode in settings file",
			fmt.Sprintf("bootstrap is %q", mode),
			"Use \"go-git\" or \"cli\"",
			fmt.Errorf("unsupported bootstrap mode: %s", mode),
		)
	}
}

func providerError(err error, missingCredentials string) error {
	if errors.Is(err, scm.ErrMissingCredentials) {
		return projerrors.NewCredentialsError(missingCredentials, "", "", err)
	}
	return projerrors.NewSettingsError("Failed to initialise SCM provider", err.Error(), "Check the URLs in the settings file", err)
}
