// Package workspace manages local project folders under a root directory, normally the user's home.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Workspace is a directory holding one folder per project.
type Workspace struct {
	root string
}

// New returns a Workspace rooted at root.
func New(root string) *Workspace {
	return &Workspace{root: root}
}

// Home returns a Workspace rooted at the user's home directory.
func Home() (*Workspace, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return New(homeDir), nil
}

// Root returns the workspace directory.
func (w *Workspace) Root() string {
	return w.root
}

// Path returns the folder for the project called name.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.root, name)
}

// CreateFolder creates the folder for name. It reports false without error when the folder already exists.
func (w *Workspace) CreateFolder(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	dir := w.Path(name)
	if _, err := os.Stat(dir); err == nil {
		slog.Info("Project folder already exists", "path", dir)
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to inspect folder %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return false, fmt.Errorf("failed to create folder %s: %w", dir, err)
	}

	slog.Info("Project folder created", "path", dir)
	return true, nil
}

// DeleteFolder removes the folder for name and everything in it. It reports false when there was nothing to remove.
func (w *Workspace) DeleteFolder(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	dir := w.Path(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return false, nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("failed to delete folder %s: %w", dir, err)
	}

	slog.Info("Project folder deleted", "path", dir)
	return true, nil
}

// validateName keeps folders directly below the root.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid project name %q: must not contain path separators", name)
	}
	return nil
}
