package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"proj/internal/ui"
)

func newTestHandler(t *testing.T) (*ErrorHandler, string, *bytes.Buffer) {
	t.Helper()

	logDir := filepath.Join(t.TempDir(), "logs")
	t.Setenv(LogDirEnvVar, logDir)

	var out, errOut bytes.Buffer
	handler, err := NewErrorHandlerWithConsole(ui.NewConsoleWithWriters(&out, &errOut))
	if err != nil {
		t.Fatalf("NewErrorHandlerWithConsole() failed: %v", err)
	}
	return handler, filepath.Join(logDir, logFileName), &errOut
}

func readLogRecords(t *testing.T, path string) []map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("Log line is not JSON: %q: %v", line, err)
		}
		records = append(records, rec)
	}
	return records
}

func TestNewErrorHandler(t *testing.T) {
	t.Setenv(LogDirEnvVar, t.TempDir())

	handler, err := NewErrorHandler()
	if err != nil {
		t.Fatalf("NewErrorHandler() failed: %v", err)
	}

	if handler == nil {
		t.Fatal("NewErrorHandler() returned nil handler")
	}

	if handler.logger == nil {
		t.Error("ErrorHandler.logger is nil")
	}

	if handler.console == nil {
		t.Error("ErrorHandler.console is nil")
	}
}

func TestErrorHandler_Handle_ProjError(t *testing.T) {
	handler, logFile, errOut := newTestHandler(t)

	handler.Handle(NewSCMError(
		"Failed to create project",
		"name has already been taken",
		"Pick another project name",
		errors.New("POST /projects: 400"),
	))

	want := "Error: Failed to create project\nCause: name has already been taken\nSuggestion: Pick another project name\n"
	if got := errOut.String(); got != want {
		t.Errorf("Console output = %q, want %q", got, want)
	}

	records := readLogRecords(t, logFile)
	if len(records) != 1 {
		t.Fatalf("Expected 1 log record, got %d", len(records))
	}
	rec := records[0]
	if rec["type"] != "scm_failed" {
		t.Errorf("type = %v, want scm_failed", rec["type"])
	}
	if rec["error"] != "POST /projects: 400" {
		t.Errorf("error = %v", rec["error"])
	}
	if rec["suggestion"] != "Pick another project name" {
		t.Errorf("suggestion = %v", rec["suggestion"])
	}
	if id, ok := rec["invocation"].(string); !ok || id == "" {
		t.Errorf("Log record should carry an invocation id, got %v", rec["invocation"])
	}
}

func TestErrorHandler_Handle_WrappedProjError(t *testing.T) {
	handler, logFile, errOut := newTestHandler(t)

	inner := NewArgumentError("Invalid project ID", "", "", errors.New(`parse "abc"`))
	handler.Handle(fmt.Errorf("delete: %w", inner))

	if got := errOut.String(); got != "Error: Invalid project ID\n" {
		t.Errorf("Console output = %q", got)
	}
	records := readLogRecords(t, logFile)
	if len(records) != 1 || records[0]["type"] != "argument_invalid" {
		t.Errorf("Unexpected records: %v", records)
	}
	if _, ok := records[0]["cause"]; ok {
		t.Error("Empty cause should not be logged")
	}
}

func TestErrorHandler_Handle_GenericError(t *testing.T) {
	handler, logFile, errOut := newTestHandler(t)

	handler.Handle(errors.New("generic failure"))

	if got := errOut.String(); got != "Error: generic failure\n" {
		t.Errorf("Console output = %q", got)
	}
	records := readLogRecords(t, logFile)
	if len(records) != 1 || records[0]["type"] != "generic" {
		t.Errorf("Unexpected records: %v", records)
	}
}

func TestErrorHandler_Handle_Nil(t *testing.T) {
	handler, logFile, errOut := newTestHandler(t)

	handler.Handle(nil)

	if errOut.Len() != 0 {
		t.Errorf("Nil error should print nothing, got %q", errOut.String())
	}
	if info, err := os.Stat(logFile); err == nil && info.Size() != 0 {
		t.Error("Nil error should log nothing")
	}
}

func TestErrorHandler_InvocationIDStable(t *testing.T) {
	handler, logFile, _ := newTestHandler(t)

	handler.Handle(errors.New("first"))
	handler.Handle(errors.New("second"))

	records := readLogRecords(t, logFile)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0]["invocation"] != records[1]["invocation"] {
		t.Errorf("Records from one handler should share the invocation id: %v vs %v",
			records[0]["invocation"], records[1]["invocation"])
	}
}

func TestGetDefaultHandler(t *testing.T) {
	t.Setenv(LogDirEnvVar, t.TempDir())
	resetDefaultHandler()
	t.Cleanup(resetDefaultHandler)

	handler1, err1 := GetDefaultHandler()
	handler2, err2 := GetDefaultHandler()

	if err1 != nil || err2 != nil {
		t.Fatalf("GetDefaultHandler() failed: %v, %v", err1, err2)
	}
	if handler1 != handler2 {
		t.Error("GetDefaultHandler() should return the same instance")
	}
}

func TestHandleError(t *testing.T) {
	logDir := t.TempDir()
	t.Setenv(LogDirEnvVar, logDir)
	resetDefaultHandler()
	t.Cleanup(resetDefaultHandler)

	HandleError(nil)
	HandleError(NewSettingsError("Settings file is invalid", "missing required keys: git_host", "", errors.New("missing")))

	records := readLogRecords(t, filepath.Join(logDir, logFileName))
	if len(records) != 1 || records[0]["type"] != "settings_invalid" {
		t.Errorf("Unexpected records: %v", records)
	}
}

func TestErrorConstructors(t *testing.T) {
	original := errors.New("original")

	tests := []struct {
		name     string
		err      *ProjError
		wantType error
		typeName string
	}{
		{"settings", NewSettingsError("c", "a", "s", original), ErrSettingsInvalid, "settings_invalid"},
		{"credentials", NewCredentialsError("c", "a", "s", original), ErrCredentialsMissing, "credentials_missing"},
		{"argument", NewArgumentError("c", "a", "s", original), ErrArgumentInvalid, "argument_invalid"},
		{"scm", NewSCMError("c", "a", "s", original), ErrSCMFailed, "scm_failed"},
		{"bootstrap", NewBootstrapError("c", "a", "s", original), ErrBootstrapFailed, "bootstrap_failed"},
		{"filesystem", NewFileSystemError("c", "a", "s", original), ErrFileSystemFailed, "filesystem_failed"},
		{"network", NewNetworkError("c", "a", "s", original), ErrNetworkFailed, "network_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", tt.err.Type, tt.wantType)
			}
			if tt.err.Error() != "original" {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), "original")
			}
			if !errors.Is(tt.err, tt.wantType) {
				t.Error("errors.Is should match the error kind")
			}
			if !errors.Is(tt.err, original) {
				t.Error("errors.Is should match the wrapped error")
			}
			if got := getErrorTypeName(tt.err.Type); got != tt.typeName {
				t.Errorf("getErrorTypeName() = %q, want %q", got, tt.typeName)
			}
		})
	}

	if got := getErrorTypeName(errors.New("other")); got != "unknown" {
		t.Errorf("getErrorTypeName(other) = %q, want unknown", got)
	}
}

func TestLogDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv(LogDirEnvVar, "/custom/logs")

		got, err := logDir()
		if err != nil {
			t.Fatalf("logDir() failed: %v", err)
		}
		if got != "/custom/logs" {
			t.Errorf("logDir() = %q, want /custom/logs", got)
		}
	})

	t.Run("platform default", func(t *testing.T) {
		t.Setenv(LogDirEnvVar, "")
		t.Setenv("XDG_STATE_HOME", "")

		got, err := logDir()
		if err != nil {
			t.Fatalf("logDir() failed: %v", err)
		}

		want := filepath.Join(".local", "state", "proj")
		switch runtime.GOOS {
		case "darwin":
			want = filepath.Join("Library", "Logs", "proj")
		case "windows":
			want = filepath.Join("proj", "logs")
		}
		if !strings.HasSuffix(got, want) {
			t.Errorf("logDir() = %q, want suffix %q", got, want)
		}
	})

	t.Run("XDG state home", func(t *testing.T) {
		if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
			t.Skip("XDG_STATE_HOME is only read on Unix-like systems")
		}
		t.Setenv(LogDirEnvVar, "")
		t.Setenv("XDG_STATE_HOME", "/state")

		got, err := logDir()
		if err != nil {
			t.Fatalf("logDir() failed: %v", err)
		}
		if got != filepath.Join("/state", "proj") {
			t.Errorf("logDir() = %q, want /state/proj", got)
		}
	})
}

func TestOpenLogFile(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "nested", "logs")
	t.Setenv(LogDirEnvVar, logDir)

	f, err := openLogFile()
	if err != nil {
		t.Fatalf("openLogFile() failed: %v", err)
	}
	defer f.Close()

	if f.Name() != filepath.Join(logDir, logFileName) {
		t.Errorf("Log file = %q", f.Name())
	}
}

func TestOpenLogFile_FallsBackToWorkingDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a regular file blocking MkdirAll")
	}
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(LogDirEnvVar, filepath.Join(blocker, "logs"))
	wd := t.TempDir()
	chdir(t, wd)

	f, err := openLogFile()
	if err != nil {
		t.Fatalf("openLogFile() failed: %v", err)
	}
	defer f.Close()

	if _, err := os.Stat(filepath.Join(wd, logFileName)); err != nil {
		t.Errorf("Expected the log in the working directory: %v", err)
	}
}

func TestOpenLogFile_Rotation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(LogDirEnvVar, dir)
	logPath := filepath.Join(dir, logFileName)

	if err := os.WriteFile(logPath, []byte("small"), 0600); err != nil {
		t.Fatal(err)
	}
	f, err := openLogFile()
	if err != nil {
		t.Fatalf("openLogFile() failed: %v", err)
	}
	f.Close()
	if _, err := os.Stat(logPath + ".1"); !os.IsNotExist(err) {
		t.Error("Small log should not be rotated")
	}

	if err := os.WriteFile(logPath, make([]byte, maxLogSize), 0600); err != nil {
		t.Fatal(err)
	}
	f, err = openLogFile()
	if err != nil {
		t.Fatalf("openLogFile() failed: %v", err)
	}
	f.Close()

	info, err := os.Stat(logPath + ".1")
	if err != nil || info.Size() != maxLogSize {
		t.Errorf("Large log should be rotated to .1, got %v", err)
	}
	info, err = os.Stat(logPath)
	if err != nil || info.Size() != 0 {
		t.Errorf("A fresh log should be opened after rotation, got %v", err)
	}
}

func TestRotate(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, logFileName)

	files := map[string]string{
		logPath:        "current",
		logPath + ".1": "one",
		logPath + ".2": "two",
		logPath + ".3": "three",
		logPath + ".4": "four",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	if err := rotate(logPath); err != nil {
		t.Fatalf("rotate() failed: %v", err)
	}

	want := map[string]string{
		logPath + ".1": "current",
		logPath + ".2": "one",
		logPath + ".3": "two",
		logPath + ".4": "three",
	}
	for path, content := range want {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("Expected %s to exist: %v", filepath.Base(path), err)
			continue
		}
		if string(data) != content {
			t.Errorf("%s = %q, want %q", filepath.Base(path), data, content)
		}
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("Current log should have been rotated away")
	}
	if _, err := os.Stat(logPath + ".5"); !os.IsNotExist(err) {
		t.Errorf("Rotation should keep at most %d files", maxLogFiles)
	}
}

func TestRotate_Partial(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), logFileName)
	if err := os.WriteFile(logPath, []byte("current"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := rotate(logPath); err != nil {
		t.Fatalf("rotate() with missing backups failed: %v", err)
	}
	if data, err := os.ReadFile(logPath + ".1"); err != nil || string(data) != "current" {
		t.Errorf("%s.1 = %q, %v", logFileName, data, err)
	}
}
