package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

const (
	maxLogSize  = 10 << 20
	maxLogFiles = 5
)

// logDir is where proj.log lives: $PROJ_LOG_DIR, else the per-user state directory.
func logDir() (string, error) {
	if dir := os.Getenv(LogDirEnvVar); dir != "" {
		return dir, nil
	}

	switch runtime.GOOS {
	case "windows":
		cache, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cache, "proj", "logs"), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Logs", "proj"), nil
	}

	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "proj"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "proj"), nil
}

// openLogFile opens proj.log for appending. A log directory that cannot be created is
// replaced by the working directory so that errors are still recorded somewhere.
func openLogFile() (*os.File, error) {
	dir, err := logDir()
	if err == nil {
		err = os.MkdirAll(dir, 0750)
	}
	if err != nil {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, fmt.Errorf("no usable log directory: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: logging to %s: %v\n", wd, err)
		dir = wd
	}

	path := filepath.Join(dir, logFileName)
	if info, err := os.Stat(path); err == nil && info.Size() >= maxLogSize {
		if err := rotate(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to rotate %s: %v\n", path, err)
		}
	}

	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}

// rotate renames path to path.1, path.1 to path.2 and so on. The oldest copy is overwritten.
func rotate(path string) error {
	for i := maxLogFiles - 1; i > 0; i-- {
		from := fmt.Sprintf("%s.%d", path, i-1)
		if i == 1 {
			from = path
		}
		err := os.Rename(from, fmt.Sprintf("%s.%d", path, i))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
