// Package cli implements the termsuggest commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/termsuggest/internal/completion"
	"github.com/NikitaCOEUR/termsuggest/internal/config"
	"github.com/NikitaCOEUR/termsuggest/internal/fsys"
	"github.com/NikitaCOEUR/termsuggest/internal/logger"
	"github.com/NikitaCOEUR/termsuggest/internal/providers"
	"github.com/NikitaCOEUR/termsuggest/internal/shell"
	"github.com/spf13/afero"
)

// components holds an initialized completion service and what it was
// built from
type components struct {
	settings *config.Settings
	log      *logger.Logger
	service  *completion.Service
	handles  []completion.Disposable
}

// close disposes every provider and tears the service down
func (c *components) close() {
	for _, h := range c.handles {
		h.Dispose()
	}
	c.service.Close()
}

// resolveConfigPath returns path when set, else the first config file in
// the default config directory. An empty result means defaults only.
func resolveConfigPath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		return path, nil
	}

	dir, err := config.DefaultDir()
	if err != nil {
		return "", err
	}
	return config.FindConfigFile(dir), nil
}

// loadSettings resolves and loads the configuration
func loadSettings(path string) (*config.Settings, error) {
	resolved, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}
	return config.Load(resolved)
}

// newLogger picks the flag level over the configured one
func newLogger(flagLevel string, settings *config.Settings, output io.Writer) *logger.Logger {
	level := flagLevel
	if level == "" && settings != nil {
		level = settings.Config().LogLevel
	}
	return logger.New(level, output)
}

// serviceParams are the inputs of initializeComponents
type serviceParams struct {
	ConfigPath string
	LogLevel   string
	Shell      shell.Type
	CWD        string
	Fs         afero.Fs
	LogOutput  io.Writer
	Options    []completion.Option
}

// initializeComponents loads the config and builds a service with every
// configured provider registered
func initializeComponents(p serviceParams) (*components, error) {
	settings, err := loadSettings(p.ConfigPath)
	if err != nil {
		return nil, err
	}

	if p.LogOutput == nil {
		p.LogOutput = os.Stderr
	}
	log := newLogger(p.LogLevel, settings, p.LogOutput)

	opts := append([]completion.Option{completion.WithLogger(log)}, p.Options...)
	svc := completion.NewService(settings, fsys.NewLocal(p.Fs), opts...)

	workingDir := os.Getwd
	if p.CWD != "" {
		cwd := p.CWD
		workingDir = func() (string, error) { return cwd, nil }
	}

	handles, err := providers.Register(svc, settings.Config(), providers.Options{
		Shell:      p.Shell,
		WorkingDir: workingDir,
		Fs:         p.Fs,
		Log:        log,
	})
	if err != nil {
		svc.Close()
		return nil, err
	}

	log.Debug().
		Str("config", settings.Path()).
		Int("providers", svc.Registry().Len()).
		Msg("Providers registered")

	return &components{
		settings: settings,
		log:      log,
		service:  svc,
		handles:  handles,
	}, nil
}
