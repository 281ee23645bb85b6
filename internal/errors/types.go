package errors

import "errors"

var (
	ErrSettingsInvalid    = errors.New("settings invalid")
	ErrCredentialsMissing = errors.New("credentials missing")
	ErrArgumentInvalid    = errors.New("argument invalid")
	ErrSCMFailed          = errors.New("SCM operation failed")
	ErrBootstrapFailed    = errors.New("repository bootstrap failed")
	ErrFileSystemFailed   = errors.New("filesystem operation failed")
	ErrNetworkFailed      = errors.New("network operation failed")
)

// ProjError is an error annotated for the user: what was being done, why it failed and what to try next.
type ProjError struct {
	Type        error
	Context     string
	Cause       string
	Suggestion  string
	OriginalErr error
}

func (e *ProjError) Error() string {
	return e.OriginalErr.Error()
}

func (e *ProjError) Unwrap() error {
	return e.OriginalErr
}

// Is lets errors.Is match on the error kind as well as on the wrapped error.
func (e *ProjError) Is(target error) bool {
	return e.Type == target
}

func NewProjError(errorType error, context, cause, suggestion string, originalErr error) *ProjError {
	return &ProjError{
		Type:        errorType,
		Context:     context,
		Cause:       cause,
		Suggestion:  suggestion,
		OriginalErr: originalErr,
	}
}

func NewSettingsError(context, cause, suggestion string, originalErr error) *ProjError {
	return NewProjError(ErrSettingsInvalid, context, cause, suggestion, originalErr)
}

func NewCredentialsError(context, cause, suggestion string, originalErr error) *ProjError {
	return NewProjError(ErrCredentialsMissing, context, cause, suggestion, originalErr)
}

func NewArgumentError(context, cause, suggestion string, originalErr error) *ProjError {
	return NewProjError(ErrArgumentInvalid, context, cause, suggestion, originalErr)
}

func NewSCMError(context, cause, suggestion string, originalErr error) *ProjError {
	return NewProjError(ErrSCMFailed, context, cause, suggestion, originalErr)
}

func NewBootstrapError(context, cause, suggestion string, originalErr error) *ProjError {
	return NewProjError(ErrBootstrapFailed, context, cause, suggestion, originalErr)
}

func NewFileSystemError(context, cause, suggestion string, originalErr error) *ProjError {
	return NewProjError(ErrFileSystemFailed, context, cause, suggestion, originalErr)
}

func NewNetworkError(context, cause, suggestion string, originalErr error) *ProjError {
	return NewProjError(ErrNetworkFailed, context, cause, suggestion, originalErr)
}
