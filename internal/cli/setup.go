package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/termsuggest/internal/setup"
	"github.com/NikitaCOEUR/termsuggest/internal/shell"
	"github.com/spf13/afero"
)

// SetupParams contains parameters for the Setup command
type SetupParams struct {
	Shell     string
	Binary    string
	Uninstall bool
	Home      string
	Fs        afero.Fs
	Stdout    io.Writer
}

func (p SetupParams) env() (setup.Env, error) {
	if p.Fs == nil {
		p.Fs = afero.NewOsFs()
	}
	if p.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return setup.Env{}, fmt.Errorf("failed to get home directory: %w", err)
		}
		p.Home = home
	}

	sh := shell.Detect(p.Shell)
	hook, err := shell.Hook(sh, p.Binary)
	if err != nil {
		return setup.Env{}, err
	}
	return setup.Env{Fs: p.Fs, Home: p.Home, Shell: sh, Hook: hook}, nil
}

// Setup installs or removes the shell hook
func Setup(params SetupParams) error {
	if params.Stdout == nil {
		params.Stdout = os.Stdout
	}

	env, err := params.env()
	if err != nil {
		return err
	}

	var result *setup.Result
	if params.Uninstall {
		result, err = setup.UninstallHook(env)
	} else {
		result, err = setup.InstallHook(env)
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(params.Stdout, result.Message)
	if result.Updated && !params.Uninstall {
		_, _ = fmt.Fprintln(params.Stdout, "\nTo activate in current shell, run:")
		_, _ = fmt.Fprintf(params.Stdout, "  source %s\n", result.RCFile)
	}
	return nil
}

// hookInstalled reports whether the hook is installed for sh. Unsupported
// shells report false.
func hookInstalled(sh shell.Type) bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	ok, err := setup.IsHookInstalled(setup.Env{Fs: afero.NewOsFs(), Home: home, Shell: sh})
	return err == nil && ok
}
