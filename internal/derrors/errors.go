// Package derrors provides the typed errors used across termsuggest.
// Every error carries a stable code so callers can branch on the failure
// class without matching message text.
package derrors

import (
	"errors"
	"fmt"
)

// Error is implemented by every termsuggest error.
type Error interface {
	error
	// Code returns a stable identifier for the failure class.
	Code() string
}

// Error codes.
const (
	CodeProvider      = "PROVIDER_ERROR"
	CodeResolve       = "RESOLVE_ERROR"
	CodeConfiguration = "CONFIG_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
	CodeExecution     = "EXEC_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeAlreadyExists = "ALREADY_EXISTS"
)

type baseError struct {
	code    string
	message string
	cause   error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Code() string {
	return e.code
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ProviderError reports a completion provider that failed or panicked.
type ProviderError struct {
	baseError
	Namespace string
	Provider  string
}

// NewProviderError creates a provider error.
func NewProviderError(namespace, provider, message string, cause error) *ProviderError {
	return &ProviderError{
		baseError: baseError{code: CodeProvider, message: message, cause: cause},
		Namespace: namespace,
		Provider:  provider,
	}
}

// ResolveError reports a filesystem location that could not be listed.
type ResolveError struct {
	baseError
	Location string
}

// NewResolveError creates a resolve error.
func NewResolveError(location, message string, cause error) *ResolveError {
	return &ResolveError{
		baseError: baseError{code: CodeResolve, message: message, cause: cause},
		Location:  location,
	}
}

// ConfigurationError represents errors in configuration files.
type ConfigurationError struct {
	baseError
	Path string
}

// NewConfigurationError creates a configuration error.
func NewConfigurationError(path, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		baseError: baseError{code: CodeConfiguration, message: message, cause: cause},
		Path:      path,
	}
}

// ValidationError represents a semantic problem in a configuration value.
type ValidationError struct {
	baseError
	Field string
}

// NewValidationError creates a validation error.
func NewValidationError(field, message string, cause error) *ValidationError {
	return &ValidationError{
		baseError: baseError{code: CodeValidation, message: message, cause: cause},
		Field:     field,
	}
}

// ExecutionError represents a failed external completion command.
type ExecutionError struct {
	baseError
	Command string
}

// NewExecutionError creates an execution error.
func NewExecutionError(command, message string, cause error) *ExecutionError {
	return &ExecutionError{
		baseError: baseError{code: CodeExecution, message: message, cause: cause},
		Command:   command,
	}
}

// NotFoundError represents a missing resource.
type NotFoundError struct {
	baseError
	Resource string
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{code: CodeNotFound, message: message},
		Resource:  resource,
	}
}

// AlreadyExistsError represents a resource that would be overwritten.
type AlreadyExistsError struct {
	baseError
	Resource string
}

// NewAlreadyExistsError creates an already exists error.
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		baseError: baseError{code: CodeAlreadyExists, message: message},
		Resource:  resource,
	}
}

// CodeOf returns the code of the first termsuggest error in err's chain,
// or an empty string.
func CodeOf(err error) string {
	var e Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return ""
}
