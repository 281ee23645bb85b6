// Package settings loads and persists the proj settings document.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
)

// Host identifies a Git hosting provider.
type Host string

const (
	HostGitLab Host = "gitlab"
	HostGitHub Host = "github"
)

// ParseHost returns the Host named by s.
func ParseHost(s string) (Host, error) {
	switch h := Host(s); h {
	case HostGitLab, HostGitHub:
		return h, nil
	default:
		return "", fmt.Errorf("unknown git host %q (expected gitlab or github)", s)
	}
}

// Bootstrap modes select how the local repository is initialised.
const (
	BootstrapGoGit = "go-git"
	BootstrapCLI   = "cli"
)

// Settings is the root object of the settings file.
type Settings struct {
	GitHost   Host   `mapstructure:"git_host" validate:"required,oneof=gitlab github"`
	GitLab    GitLab `mapstructure:"gitlab"`
	GitHub    GitHub `mapstructure:"github"`
	Bootstrap string `mapstructure:"bootstrap" validate:"omitempty,oneof=go-git cli"`
}

// GitLab holds GitLab credentials.
type GitLab struct {
	Token string `mapstructure:"token"`
	URL   string `mapstructure:"url" validate:"omitempty,url"`
}

// GitHub holds GitHub credentials. Password is expected to be a personal access token.
type GitHub struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	URL      string `mapstructure:"url" validate:"omitempty,url"`
	APIURL   string `mapstructure:"api_url" validate:"omitempty,url"`
}

// requiredKeys must be present in every settings file, even when empty.
var requiredKeys = []string{"git_host", "gitlab.token", "github.username", "github.password"}

const (
	// FileName is the settings file looked up in the working directory.
	FileName = "settings.json"

	// PathEnvVar overrides the settings file location.
	PathEnvVar = "PROJ_SETTINGS"
)

// ResolvePath picks the settings file location: the explicit path if given, then
// $PROJ_SETTINGS, then ./settings.json when it exists, then the user config directory.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(PathEnvVar); env != "" {
		return env
	}
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configDir, err := configDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(configDir, FileName)
}

// configDir returns $XDG_CONFIG_HOME/proj or ~/.config/proj.
func configDir() (string, error) {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "proj"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "proj"), nil
}
