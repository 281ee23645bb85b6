package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"proj/internal/ui"
)

const (
	// LogDirEnvVar overrides the log directory.
	LogDirEnvVar = "PROJ_LOG_DIR"

	logFileName = "proj.log"
)

// ErrorHandler reports errors on the console and records them in the log file.
type ErrorHandler struct {
	logger  *slog.Logger
	console *ui.Console
}

// NewErrorHandler returns a handler printing to the process console.
func NewErrorHandler() (*ErrorHandler, error) {
	return NewErrorHandlerWithConsole(ui.NewConsole())
}

// NewErrorHandlerWithConsole returns a handler printing to console. Every record it logs carries
// the same invocation id so one run can be picked out of the shared log file.
func NewErrorHandlerWithConsole(console *ui.Console) (*ErrorHandler, error) {
	logFile, err := openLogFile()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With("invocation", uuid.New().String())

	return &ErrorHandler{
		logger:  logger,
		console: console,
	}, nil
}

// Handle prints err for the user and logs it. Nil errors are ignored.
func (h *ErrorHandler) Handle(err error) {
	if err == nil {
		return
	}

	var projErr *ProjError
	if errors.As(err, &projErr) {
		h.handleProjError(projErr)
	} else {
		h.handleGenericError(err)
	}
}

func (h *ErrorHandler) handleProjError(err *ProjError) {
	h.logStructuredError(err)

	message := h.console.FormatErrorMessage(err.Context, err.Cause, err.Suggestion)
	h.console.PrintError(message)
}

func (h *ErrorHandler) handleGenericError(err error) {
	h.logger.Error("Unhandled error occurred",
		"error", err.Error(),
		"type", "generic",
	)

	h.console.PrintError(err.Error())
}

func (h *ErrorHandler) logStructuredError(err *ProjError) {
	logAttrs := []slog.Attr{
		slog.String("error", err.OriginalErr.Error()),
		slog.String("type", getErrorTypeName(err.Type)),
		slog.String("context", err.Context),
	}

	if err.Cause != "" {
		logAttrs = append(logAttrs, slog.String("cause", err.Cause))
	}

	if err.Suggestion != "" {
		logAttrs = append(logAttrs, slog.String("suggestion", err.Suggestion))
	}

	h.logger.LogAttrs(context.TODO(), slog.LevelError, "proj error occurred", logAttrs...)
}

func getErrorTypeName(errType error) string {
	switch errType {
	case ErrSettingsInvalid:
		return "settings_invalid"
	case ErrCredentialsMissing:
		return "credentials_missing"
	case ErrArgumentInvalid:
		return "argument_invalid"
	case ErrSCMFailed:
		return "scm_failed"
	case ErrBootstrapFailed:
		return "bootstrap_failed"
	case ErrFileSystemFailed:
		return "filesystem_failed"
	case ErrNetworkFailed:
		return "network_failed"
	default:
		return "unknown"
	}
}
