// Package providers installs the builtin and configured completion
// providers into a completion service.
package providers

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/NikitaCOEUR/termsuggest/internal/completion"
	"github.com/NikitaCOEUR/termsuggest/internal/condition"
	"github.com/NikitaCOEUR/termsuggest/internal/config"
	"github.com/NikitaCOEUR/termsuggest/internal/derrors"
	"github.com/NikitaCOEUR/termsuggest/internal/logger"
	"github.com/NikitaCOEUR/termsuggest/internal/providers/paths"
	"github.com/NikitaCOEUR/termsuggest/internal/providers/tools"
	"github.com/NikitaCOEUR/termsuggest/internal/providers/words"
	"github.com/NikitaCOEUR/termsuggest/internal/shell"
)

// Provider namespaces.
const (
	NamespaceBuiltin = "builtin"
	NamespaceTools   = "tools"
)

// WordTrigger invokes the word provider when a word boundary is typed.
const WordTrigger = " "

// Options carries request-independent inputs of the providers.
type Options struct {
	Shell      shell.Type
	WorkingDir func() (string, error)
	// Fs is where when conditions look for files. Nil means the OS
	// filesystem.
	Fs afero.Fs
	// Log receives provider diagnostics. Nil discards them.
	Log *logger.Logger
}

// Register installs every provider described by cfg and returns their
// disposal handles in registration order. On error nothing stays
// registered.
func Register(svc *completion.Service, cfg *config.Config, opts Options) ([]completion.Disposable, error) {
	if opts.WorkingDir == nil {
		opts.WorkingDir = os.Getwd
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}

	var handles []completion.Disposable
	fail := func(err error) ([]completion.Disposable, error) {
		for _, h := range handles {
			h.Dispose()
		}
		return nil, err
	}

	if cfg.Paths.Enabled {
		handles = append(handles, svc.Register(NamespaceBuiltin, paths.ID, &completion.Provider{
			Builtin:   true,
			Completer: paths.New(opts.WorkingDir),
		}, cfg.Paths.Triggers...))
	}

	if len(cfg.Words) > 0 {
		wp, err := words.New(cfg.Words, opts.WorkingDir, opts.Shell, words.WithFs(opts.Fs), words.WithLogger(opts.Log))
		if err != nil {
			return fail(err)
		}
		handles = append(handles, svc.Register(NamespaceBuiltin, words.ID, &completion.Provider{
			Builtin:   true,
			Completer: wp,
		}, WordTrigger))
	}

	for i, tc := range cfg.Tools {
		p, err := toolProvider(tc, opts)
		if err != nil {
			return fail(fmt.Errorf("tools[%d]: %w", i, err))
		}
		handles = append(handles, svc.Register(NamespaceTools, tc.Command, p, tc.Triggers...))
	}

	return handles, nil
}

func toolProvider(tc config.Tool, opts Options) (*completion.Provider, error) {
	protocol, err := tools.ParseProtocol(tc.Protocol)
	if err != nil {
		return nil, derrors.NewValidationError("protocol", "invalid protocol", err)
	}

	shells := tools.DefaultShells(protocol)
	if len(tc.Shells) > 0 {
		shells = nil
		for _, name := range tc.Shells {
			t, err := shell.Parse(name)
			if err != nil {
				return nil, derrors.NewValidationError("shells", "invalid shell", err)
			}
			shells = append(shells, t)
		}
	}

	toolOpts := []tools.Option{tools.WithWorkingDir(opts.WorkingDir)}
	if tc.Timeout != "" {
		d, err := time.ParseDuration(tc.Timeout)
		if err != nil {
			return nil, derrors.NewValidationError("timeout", "invalid timeout", err)
		}
		toolOpts = append(toolOpts, tools.WithTimeout(d))
	}

	when, err := condition.Parse(tc.When)
	if err != nil {
		return nil, derrors.NewValidationError("when", "invalid condition", err)
	}
	if when != nil {
		toolOpts = append(toolOpts, tools.WithCondition(when, opts.Fs))
	}

	t, err := tools.New(tc.Command, protocol, toolOpts...)
	if err != nil {
		return nil, err
	}
	return &completion.Provider{ShellTypes: shells, Completer: t}, nil
}
