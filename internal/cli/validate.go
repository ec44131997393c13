package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/termsuggest/internal/config"
	"github.com/NikitaCOEUR/termsuggest/internal/derrors"
)

// Validate validates a termsuggest configuration file. An empty path
// validates the file the other commands would load.
func Validate(configPath string, stdout io.Writer) error {
	if stdout == nil {
		stdout = os.Stdout
	}

	if configPath == "" {
		resolved, err := resolveConfigPath("")
		if err != nil {
			return err
		}
		if resolved == "" {
			return derrors.NewNotFoundError("config", "no config file found, run 'termsuggest init' to create one")
		}
		configPath = resolved
	}

	_, _ = fmt.Fprintf(stdout, "Validating: %s\n\n", configPath)

	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := config.ValidateWithSchema(configPath, content)
	if err != nil {
		return err
	}

	// Semantic checks only make sense on a structurally valid file
	if result.Valid {
		customResult, err := config.Validate(configPath)
		if err != nil {
			return err
		}
		if !customResult.Valid {
			result.Valid = false
			result.Errors = append(result.Errors, customResult.Errors...)
		}
	}

	if result.Valid {
		_, _ = fmt.Fprintln(stdout, "✅ Configuration is valid!")
		return nil
	}

	_, _ = fmt.Fprintln(stdout, "❌ Configuration has errors:")
	for i, validationErr := range result.Errors {
		_, _ = fmt.Fprintf(stdout, "%d. [%s] %s\n", i+1, validationErr.Field, validationErr.Message)
	}
	_, _ = fmt.Fprintf(stdout, "\nFound %d error(s)\n", len(result.Errors))

	return derrors.NewValidationError(configPath, "validation failed", nil)
}
