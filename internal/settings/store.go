package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var validate = validator.New()

// Credential overrides read from the environment. They are applied on Load only and
// never written back to the file.
var envOverrides = map[string]string{
	"gitlab.token":    "GITLAB_PRIVATE_TOKEN",
	"github.password": "GITHUB_TOKEN",
}

// ErrNotFound is returned when the settings file does not exist.
var ErrNotFound = errors.New("settings file not found")

// Store reads and writes a JSON settings file.
type Store struct {
	path string
}

// NewStore returns a Store for the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the settings file, returning the parsed Settings or an error.
func (s *Store) Load() (*Settings, error) {
	v, err := s.read()
	if err != nil {
		return nil, err
	}

	for key, env := range envOverrides {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var missing []string
	for _, key := range requiredKeys {
		if !v.IsSet(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("settings file %s is missing required keys: %s", s.path, strings.Join(missing, ", "))
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file - malformed JSON: %w", err)
	}

	if err := validate.Struct(&settings); err != nil {
		return nil, formatValidationError(err)
	}

	slog.Info("Settings loaded", "path", s.path, "gitHost", settings.GitHost)
	return &settings, nil
}

// SetGitHost persists host as the active provider. Only git_host is replaced. Every other
// top-level value is written back as read, apart from indentation, so key case and large
// numbers survive.
func (s *Store) SetGitHost(host Host) error {
	if _, err := ParseHost(string(host)); err != nil {
		return err
	}

	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse settings file - malformed JSON: %w", err)
	}

	hostValue, err := json.Marshal(string(host))
	if err != nil {
		return err
	}
	doc["git_host"] = hostValue

	out, err := json.MarshalIndent(doc, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to encode settings file: %w", err)
	}
	if err := os.WriteFile(s.path, append(out, '\n'), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	slog.Info("Git host updated", "path", s.path, "gitHost", host)
	return nil
}

func (s *Store) read() (*viper.Viper, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	return v, nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validation failed: %w", err)
	}

	var errorMessages []string
	for _, e := range validationErrors {
		errorMessages = append(errorMessages, formatFieldError(e))
	}

	if len(errorMessages) == 1 {
		return fmt.Errorf("validation error: %s", errorMessages[0])
	}

	result := "validation errors:\n"
	for _, msg := range errorMessages {
		result += fmt.Sprintf("  - %s\n", msg)
	}
	return errors.New(result)
}

// formatFieldError formats a single validation error into a user-friendly message.
func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required but missing", field)
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("field '%s' must be a valid URL", field)
	default:
		return fmt.Sprintf("field '%s' failed validation (%s)", field, e.Tag())
	}
}
