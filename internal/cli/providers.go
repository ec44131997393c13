package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/termsuggest/internal/shell"
	"github.com/NikitaCOEUR/termsuggest/internal/status"
)

// ProvidersParams contains parameters for the Providers command
type ProvidersParams struct {
	ConfigPath string
	LogLevel   string
	Shell      string
	// JSON switches the listing to machine-readable output
	JSON   bool
	Stdout io.Writer
}

// Providers lists the providers the current configuration registers
func Providers(params ProvidersParams) error {
	if params.Stdout == nil {
		params.Stdout = os.Stdout
	}

	c, err := initializeComponents(serviceParams{
		ConfigPath: params.ConfigPath,
		LogLevel:   params.LogLevel,
		Shell:      shell.Detect(params.Shell),
	})
	if err != nil {
		return err
	}
	defer c.close()

	infos := status.ProvidersOf(c.service.Registry())
	if params.JSON {
		enc := json.NewEncoder(params.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	_, err = fmt.Fprintln(params.Stdout, status.RenderProviders(infos))
	return err
}
