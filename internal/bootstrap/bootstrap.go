// Package bootstrap turns a local folder into a git repository wired to a freshly created
// remote: init, add origin, README, initial commit and first push.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"proj/internal/scm"
)

const (
	RemoteName    = "origin"
	Branch        = "master"
	CommitMessage = "Initial commit"
	ReadmeFile    = "README.md"
)

// Request describes one bootstrap run.
type Request struct {
	// Dir is the existing project folder.
	Dir string
	// RemoteURL is the URL registered as origin.
	RemoteURL string
	// Credentials authenticate the push over HTTPS.
	Credentials scm.Credentials
}

// Bootstrapper initialises a local repository and pushes its first commit.
type Bootstrapper interface {
	Bootstrap(ctx context.Context, req Request) error
}

// RemoteURL builds the origin URL for a project: {host}/{owner}/{slug}.git.
func RemoteURL(host, owner, name string) string {
	return fmt.Sprintf("%s/%s/%s.git", strings.TrimSuffix(host, "/"), owner, scm.Slug(name))
}

// touchReadme creates an empty README in dir if none exists.
func touchReadme(dir string) error {
	f, err := os.OpenFile(filepath.Join(dir, ReadmeFile), os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", ReadmeFile, err)
	}
	return f.Close()
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("project directory does not exist: %s", dir)
	}
	if err != nil {
		return fmt.Errorf("failed to inspect project directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project path is not a directory: %s", dir)
	}
	return nil
}
