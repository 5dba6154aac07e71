package app

import "fmt"

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// SettingsLoadFailed indicates the settings or tool config could not be loaded.
	SettingsLoadFailed AppErrorType = iota
	// PluginInitFailed indicates the job descriptors could not be turned into hooks.
	PluginInitFailed
	// RunFailed indicates a hook failed while running.
	RunFailed
	// ValidationFailed indicates validation failed.
	ValidationFailed
	// InitFailed indicates scaffolding a settings file failed.
	InitFailed
)

// AppError represents an application-layer error.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Message is the error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewSettingsLoadError creates a settings load error.
func NewSettingsLoadError(message string, cause error) *AppError {
	return NewAppError(SettingsLoadFailed, message, cause)
}

// NewPluginInitError creates a plugin init error.
func NewPluginInitError(message string, cause error) *AppError {
	return NewAppError(PluginInitFailed, message, cause)
}

// NewRunError creates a run error.
func NewRunError(message string, cause error) *AppError {
	return NewAppError(RunFailed, message, cause)
}

// NewValidationError creates a validation error.
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ValidationFailed, message, cause)
}

// NewInitError creates an init error.
func NewInitError(message string, cause error) *AppError {
	return NewAppError(InitFailed, message, cause)
}
