package derrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderError(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := NewProviderError("tools", "kubectl", "provider failed", cause)

	assert.Equal(t, CodeProvider, err.Code())
	assert.Equal(t, "tools", err.Namespace)
	assert.Equal(t, "kubectl", err.Provider)
	assert.Equal(t, "provider failed: exit status 1", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestResolveError(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := NewResolveError("file:///root", "cannot list directory", cause)

	assert.Equal(t, CodeResolve, err.Code())
	assert.Equal(t, "file:///root", err.Location)
	assert.ErrorIs(t, err, cause)
}

func TestConfigurationError(t *testing.T) {
	cause := fmt.Errorf("invalid YAML")
	err := NewConfigurationError("/etc/termsuggest/config.yml", "failed to parse config", cause)

	assert.Equal(t, CodeConfiguration, err.Code())
	assert.Equal(t, "/etc/termsuggest/config.yml", err.Path)
	assert.Contains(t, err.Error(), "invalid YAML")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("tools[0].protocol", "unknown protocol", nil)

	assert.Equal(t, CodeValidation, err.Code())
	assert.Equal(t, "tools[0].protocol", err.Field)
	assert.Equal(t, "unknown protocol", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestExecutionError(t *testing.T) {
	err := NewExecutionError("kubectl", "command timed out", nil)

	assert.Equal(t, CodeExecution, err.Code())
	assert.Equal(t, "kubectl", err.Command)
}

func TestNotFoundAndAlreadyExists(t *testing.T) {
	nf := NewNotFoundError("config.yml", "config not found")
	assert.Equal(t, CodeNotFound, nf.Code())
	assert.Equal(t, "config.yml", nf.Resource)

	ae := NewAlreadyExistsError("config.yml", "config already exists")
	assert.Equal(t, CodeAlreadyExists, ae.Code())
	assert.Equal(t, "config.yml", ae.Resource)
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NewConfigurationError("x", "bad", nil))

	assert.Equal(t, CodeConfiguration, CodeOf(wrapped))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}

func TestErrorsAs(t *testing.T) {
	var err error = fmt.Errorf("wrap: %w", NewProviderError("builtin", "paths", "panic", nil))

	var pe *ProviderError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "paths", pe.Provider)
}
