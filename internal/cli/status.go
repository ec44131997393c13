package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/termsuggest/internal/shell"
	"github.com/NikitaCOEUR/termsuggest/internal/status"
	"github.com/samber/lo"
)

// StatusParams contains parameters for the Status command
type StatusParams struct {
	ConfigPath string
	LogLevel   string
	Shell      string
	Stdout     io.Writer
}

// Status displays the configuration and the providers it registers. A
// broken config is reported rather than returned.
func Status(params StatusParams) error {
	if params.Stdout == nil {
		params.Stdout = os.Stdout
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	sh := shell.Detect(params.Shell)

	var data *status.Data
	c, err := initializeComponents(serviceParams{
		ConfigPath: params.ConfigPath,
		LogLevel:   params.LogLevel,
		Shell:      sh,
	})
	if err != nil {
		data = status.Collect(cwd, sh, nil, nil)
		data.ConfigError = err.Error()
	} else {
		defer c.close()
		data = status.Collect(cwd, sh, c.settings, c.service.Registry())
	}

	data.HookSupported = lo.Contains(shell.HookShells, sh)
	data.HookInstalled = data.HookSupported && hookInstalled(sh)

	_, err = fmt.Fprintln(params.Stdout, status.Render(data))
	return err
}
