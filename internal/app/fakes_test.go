package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"proj/internal/bootstrap"
	"proj/internal/scm"
	"proj/internal/settings"
	"proj/internal/ui"
	"proj/internal/workspace"
)

type fakeProvider struct {
	host     string
	noun     string
	owner    string
	projects []scm.Project

	listErr   error
	createErr error
	deleteErr error
	ownerErr  error

	created []string
	deleted []int64
	calls   []string
}

func newFakeGitLab() *fakeProvider {
	return &fakeProvider{host: "gitlab", noun: "Project", owner: "alice"}
}

func newFakeGitHub() *fakeProvider {
	return &fakeProvider{host: "github", noun: "Repository", owner: "alice"}
}

func (f *fakeProvider) Host() string { return f.host }
func (f *fakeProvider) Noun() string { return f.noun }
func (f *fakeProvider) WebURL() string {
	return "https://" + f.host + ".example.com"
}

func (f *fakeProvider) GitCredentials() scm.Credentials {
	return scm.Credentials{Username: "oauth2", Password: "secret"}
}

func (f *fakeProvider) Owner(_ context.Context) (string, error) {
	f.calls = append(f.calls, "owner")
	return f.owner, f.ownerErr
}

func (f *fakeProvider) ListProjects(_ context.Context) ([]scm.Project, error) {
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.projects, nil
}

func (f *fakeProvider) CreateProject(_ context.Context, name string, visibility scm.Visibility) (*scm.Project, error) {
	f.calls = append(f.calls, "create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, name)
	p := scm.Project{ID: int64(100 + len(f.projects)), Name: name, Visibility: visibility, CreatedAt: time.Now()}
	f.projects = append(f.projects, p)
	return &p, nil
}

func (f *fakeProvider) DeleteProject(_ context.Context, id int64) (*scm.Project, error) {
	f.calls = append(f.calls, "delete")
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	for i, p := range f.projects {
		if p.ID == id {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			f.deleted = append(f.deleted, id)
			return &p, nil
		}
	}
	return nil, fmt.Errorf("project %d: %w", id, scm.ErrNotFound)
}

type fakeBootstrapper struct {
	requests []bootstrap.Request
	err      error
}

func (b *fakeBootstrapper) Bootstrap(_ context.Context, req bootstrap.Request) error {
	b.requests = append(b.requests, req)
	return b.err
}

type fakeFactory struct {
	provider     scm.Provider
	providerErr  error
	bootstrapper *fakeBootstrapper
	hosts        []settings.Host
}

func (f *fakeFactory) GetScmProvider(s *settings.Settings) (scm.Provider, error) {
	f.hosts = append(f.hosts, s.GitHost)
	if f.providerErr != nil {
		return nil, f.providerErr
	}
	return f.provider, nil
}

func (f *fakeFactory) GetBootstrapper(_ string) (bootstrap.Bootstrapper, error) {
	return f.bootstrapper, nil
}

type testEnv struct {
	app       *App
	factory   *fakeFactory
	workspace *workspace.Workspace
	store     *settings.Store
	out       *bytes.Buffer
	errOut    *bytes.Buffer
}

func writeSettings(t *testing.T, host settings.Host) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.json")
	content := fmt.Sprintf(`{
	"git_host": %q,
	"gitlab": {"token": "glpat-test"},
	"github": {"username": "alice", "password": "ghp-test"}
}`, host)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}
	return path
}

func newTestEnv(t *testing.T, provider *fakeProvider, host settings.Host) *testEnv {
	t.Helper()
	t.Setenv("GITLAB_PRIVATE_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	store := settings.NewStore(writeSettings(t, host))
	factory := &fakeFactory{provider: provider, bootstrapper: &fakeBootstrapper{}}
	ws := workspace.New(t.TempDir())

	var out, errOut bytes.Buffer
	console := ui.NewConsoleWithWriters(&out, &errOut)

	return &testEnv{
		app:       New(store, factory, ws, console),
		factory:   factory,
		workspace: ws,
		store:     store,
		out:       &out,
		errOut:    &errOut,
	}
}
