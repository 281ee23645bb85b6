package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// CommandError reports a failed git invocation together with its output.
type CommandError struct {
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("command '%s' failed: %v\nOutput: %s", e.Command, e.Err, strings.TrimSpace(e.Output))
	}
	return fmt.Sprintf("command '%s' failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Shell bootstraps repositories by running the git executable, so the user's own
// credential helpers and SSH configuration apply to the push.
type Shell struct {
	gitBin string
}

// NewShell returns a Bootstrapper that runs "git" from PATH.
func NewShell() *Shell {
	return &Shell{gitBin: "git"}
}

// Bootstrap runs the init/remote/add/commit/push sequence in req.Dir, stopping at the first failure.
func (s *Shell) Bootstrap(ctx context.Context, req Request) error {
	if err := checkDir(req.Dir); err != nil {
		return err
	}

	if _, err := s.run(ctx, req.Dir, "init"); err != nil {
		return fmt.Errorf("failed to initialize git repository: %w", err)
	}
	// Pin the unborn branch so the push below does not depend on init.defaultBranch.
	if _, err := s.run(ctx, req.Dir, "symbolic-ref", "HEAD", "refs/heads/"+Branch); err != nil {
		return fmt.Errorf("failed to select branch %s: %w", Branch, err)
	}
	if err := s.setOrigin(ctx, req.Dir, req.RemoteURL); err != nil {
		return err
	}

	if err := touchReadme(req.Dir); err != nil {
		return err
	}

	steps := []struct {
		desc string
		args []string
	}{
		{"add files to git", []string{"add", "."}},
		{"create initial commit", []string{"commit", "-m", CommitMessage}},
		{"push to remote repository", []string{"push", "-u", RemoteName, Branch}},
	}

	for _, step := range steps {
		if _, err := s.run(ctx, req.Dir, step.args...); err != nil {
			return fmt.Errorf("failed to %s: %w", step.desc, err)
		}
	}

	slog.Info("Successfully pushed repository", "url", req.RemoteURL)
	return nil
}

// setOrigin adds origin, or repoints an origin left over from an earlier create.
func (s *Shell) setOrigin(ctx context.Context, dir, url string) error {
	current, err := s.run(ctx, dir, "remote", "get-url", RemoteName)
	if err != nil {
		if _, err := s.run(ctx, dir, "remote", "add", RemoteName, url); err != nil {
			return fmt.Errorf("failed to add remote %s: %w", RemoteName, err)
		}
		return nil
	}

	if strings.TrimSpace(current) == url {
		return nil
	}
	slog.Warn("Replacing existing remote", "remote", RemoteName, "old", strings.TrimSpace(current), "new", url)
	if _, err := s.run(ctx, dir, "remote", "set-url", RemoteName, url); err != nil {
		return fmt.Errorf("failed to update remote %s: %w", RemoteName, err)
	}
	return nil
}

func (s *Shell) run(ctx context.Context, dir string, args ...string) (string, error) {
	slog.Info("executing", "cmd", s.gitBin, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, s.gitBin, args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	slog.Debug("output", "result", string(out))

	if err != nil {
		return string(out), &CommandError{
			Command: s.gitBin + " " + strings.Join(args, " "),
			Output:  string(out),
			Err:     err,
		}
	}
	return string(out), nil
}
