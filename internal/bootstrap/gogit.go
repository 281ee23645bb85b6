package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

const (
	fallbackAuthorName  = "proj"
	fallbackAuthorEmail = "proj@localhost"
)

// GoGit bootstraps repositories in-process with go-git. It needs no git executable.
type GoGit struct{}

// NewGoGit returns a go-git backed Bootstrapper.
func NewGoGit() *GoGit {
	return &GoGit{}
}

// Bootstrap initializes a git repository in req.Dir, commits a README and pushes to origin.
func (b *GoGit) Bootstrap(ctx context.Context, req Request) error {
	if err := checkDir(req.Dir); err != nil {
		return err
	}

	slog.Info("Initializing git repository", "directory", req.Dir)

	repo, err := git.PlainInit(req.Dir, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		slog.Warn("Git repository already exists, reusing it", "directory", req.Dir)
		repo, err = git.PlainOpen(req.Dir)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize git repository: %w", err)
	}

	if err := setOrigin(repo, req.RemoteURL); err != nil {
		return err
	}

	if err := touchReadme(req.Dir); err != nil {
		return err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to add files to git: %w", err)
	}

	commit, err := worktree.Commit(CommitMessage, &git.CommitOptions{
		Author: commitAuthor(repo),
	})
	if err != nil {
		return fmt.Errorf("failed to create initial commit: %w", err)
	}

	slog.Info("Created initial commit", "hash", commit)

	branchRef := plumbing.NewBranchReferenceName(Branch)
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: RemoteName,
		RefSpecs:   []config.RefSpec{config.RefSpec(branchRef + ":" + branchRef)},
		Auth:       pushAuth(req),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push to remote repository: %w", err)
	}

	// Equivalent of push -u.
	err = repo.CreateBranch(&config.Branch{
		Name:   Branch,
		Remote: RemoteName,
		Merge:  branchRef,
	})
	if err != nil && !errors.Is(err, git.ErrBranchExists) {
		return fmt.Errorf("failed to set upstream for %s: %w", Branch, err)
	}

	slog.Info("Successfully pushed repository", "url", req.RemoteURL)
	return nil
}

// setOrigin points origin at url, replacing an origin left over from an earlier create.
func setOrigin(repo *git.Repository, url string) error {
	remote, err := repo.Remote(RemoteName)
	switch {
	case errors.Is(err, git.ErrRemoteNotFound):
	case err != nil:
		return fmt.Errorf("failed to read remote %s: %w", RemoteName, err)
	case len(remote.Config().URLs) == 1 && remote.Config().URLs[0] == url:
		return nil
	default:
		slog.Warn("Replacing existing remote", "remote", RemoteName, "old", remote.Config().URLs, "new", url)
		if err := repo.DeleteRemote(RemoteName); err != nil {
			return fmt.Errorf("failed to remove remote %s: %w", RemoteName, err)
		}
	}

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: RemoteName,
		URLs: []string{url},
	})
	if err != nil {
		return fmt.Errorf("failed to add remote %s: %w", RemoteName, err)
	}
	return nil
}

// commitAuthor uses the global git identity when there is one.
func commitAuthor(repo *git.Repository) *object.Signature {
	sig := &object.Signature{
		Name:  fallbackAuthorName,
		Email: fallbackAuthorEmail,
		When:  time.Now(),
	}

	cfg, err := repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		slog.Debug("No global git config, using fallback author", "error", err)
		return sig
	}
	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		sig.Email = cfg.User.Email
	}
	return sig
}

// pushAuth returns HTTP basic auth for http(s) remotes; other transports use their own mechanisms.
func pushAuth(req Request) transport.AuthMethod {
	if req.Credentials.Password == "" || !strings.HasPrefix(req.RemoteURL, "http") {
		return nil
	}
	return &githttp.BasicAuth{
		Username: req.Credentials.Username,
		Password: req.Credentials.Password,
	}
}
