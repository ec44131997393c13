package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/termsuggest/internal/config"
)

// Schema displays or exports the JSON Schema for termsuggest configuration files
func Schema(outputPath string, stdout io.Writer) error {
	if stdout == nil {
		stdout = os.Stdout
	}

	schemaJSON, err := config.Schema()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, schemaJSON, 0644); err != nil {
			return fmt.Errorf("failed to write schema to %s: %w", outputPath, err)
		}
		_, _ = fmt.Fprintf(stdout, "JSON Schema written to: %s\n", outputPath)
		return nil
	}

	_, err = fmt.Fprintln(stdout, string(schemaJSON))
	return err
}
