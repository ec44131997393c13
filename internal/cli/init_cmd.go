package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/NikitaCOEUR/termsuggest/internal/config"
	"github.com/NikitaCOEUR/termsuggest/internal/derrors"
)

// Init writes the sample configuration to path, or to config.yml in the
// default config directory when path is empty
func Init(path string, stdout io.Writer) error {
	if stdout == nil {
		stdout = os.Stdout
	}

	if path == "" {
		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, config.SupportedConfigNames[0])
	}

	if _, err := os.Stat(path); err == nil {
		return derrors.NewAlreadyExistsError(path, "config file already exists: "+path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, config.Sample(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "Created config file: %s\n", path)
	_, _ = fmt.Fprintln(stdout, "Run 'termsuggest validate' after editing it.")
	return nil
}
