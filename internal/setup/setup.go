// Package setup installs the termsuggest shell hook into the user's shell
// startup files.
package setup

import (
	"fmt"
	"path/filepath"

	"github.com/NikitaCOEUR/termsuggest/internal/config"
	"github.com/NikitaCOEUR/termsuggest/internal/shell"
	"github.com/spf13/afero"
)

// Result represents the result of a setup operation
type Result struct {
	RCFile  string
	Updated bool
	Message string
}

// Env locates the files a strategy touches
type Env struct {
	Fs    afero.Fs
	Home  string
	Shell shell.Type
	// Hook is the integration script to install
	Hook string
}

// RCFile returns the startup file of the shell
func (e Env) RCFile() (string, error) {
	switch e.Shell {
	case shell.Bash:
		return filepath.Join(e.Home, ".bashrc"), nil
	case shell.Zsh:
		return filepath.Join(e.Home, ".zshrc"), nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (use bash or zsh)", e.Shell)
	}
}

func (e Env) dropInDir() string {
	return filepath.Join(e.Home, "."+string(e.Shell)+"rc.d")
}

func (e Env) hookFile() string {
	return filepath.Join(e.Home, ".config", config.AppName, "hook-"+string(e.Shell)+".sh")
}

// InstallHook installs or updates the hook using the best strategy
func InstallHook(env Env) (*Result, error) {
	strategy, err := SelectInstallStrategy(env)
	if err != nil {
		return nil, err
	}

	if strategy.IsInstalled() && !strategy.NeedsUpdate() {
		return &Result{
			RCFile:  strategy.RCFile(),
			Updated: false,
			Message: "✓ termsuggest hook is up to date",
		}, nil
	}

	if err := strategy.Install(); err != nil {
		return nil, fmt.Errorf("failed to install hook: %w", err)
	}

	return &Result{
		RCFile:  strategy.RCFile(),
		Updated: true,
		Message: strategy.Message(),
	}, nil
}

// IsHookInstalled checks if any strategy has the hook installed
func IsHookInstalled(env Env) (bool, error) {
	strategies, err := allStrategies(env)
	if err != nil {
		return false, err
	}
	for _, s := range strategies {
		if s.IsInstalled() {
			return true, nil
		}
	}
	return false, nil
}

// UninstallHook removes the hook from every place it was installed
func UninstallHook(env Env) (*Result, error) {
	rcFile, err := env.RCFile()
	if err != nil {
		return nil, err
	}

	strategies, err := allStrategies(env)
	if err != nil {
		return nil, err
	}

	result := &Result{RCFile: rcFile, Message: "✓ termsuggest is not installed"}
	var messages []string
	for _, s := range strategies {
		if !s.IsInstalled() {
			continue
		}
		if err := s.Uninstall(); err != nil {
			return nil, fmt.Errorf("failed to uninstall: %w", err)
		}
		messages = append(messages, s.Message())
	}

	if len(messages) > 0 {
		result.Updated = true
		result.Message = joinLines(messages)
	}
	return result, nil
}
