// Package tools completes command lines by asking the tool being typed for
// its own completions, over one of the protocols CLI frameworks expose.
package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/NikitaCOEUR/termsuggest/internal/completion"
	"github.com/NikitaCOEUR/termsuggest/internal/condition"
	"github.com/NikitaCOEUR/termsuggest/internal/derrors"
	"github.com/NikitaCOEUR/termsuggest/internal/fsys"
	"github.com/NikitaCOEUR/termsuggest/internal/shell"
)

// Protocol names a completion protocol.
type Protocol string

// Supported protocols.
const (
	ProtocolCobra  Protocol = "cobra"
	ProtocolUrfave Protocol = "urfave"
	ProtocolEnv    Protocol = "env"
)

// Protocols lists every supported protocol.
var Protocols = []Protocol{ProtocolCobra, ProtocolUrfave, ProtocolEnv}

// ParseProtocol validates a protocol name.
func ParseProtocol(name string) (Protocol, error) {
	p := Protocol(strings.ToLower(name))
	for _, known := range Protocols {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown completion protocol %q", name)
}

// DefaultShells returns the shells a protocol is meaningful for. Nil means
// every shell.
func DefaultShells(p Protocol) []shell.Type {
	if p == ProtocolEnv {
		return []shell.Type{shell.Bash, shell.Zsh}
	}
	return nil
}

// Tool completes arguments of a single command.
type Tool struct {
	command  string
	protocol Protocol
	timeout  time.Duration
	cwd      func() (string, error)
	run      runFunc
	when     condition.Condition
	fs       afero.Fs
}

// Option configures a Tool.
type Option func(*Tool)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(t *Tool) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithWorkingDir sets how the working directory for path completions is
// obtained.
func WithWorkingDir(fn func() (string, error)) Option {
	return func(t *Tool) { t.cwd = fn }
}

// WithCondition only queries the command when c holds in the working
// directory. Paths are checked on fs.
func WithCondition(c condition.Condition, fs afero.Fs) Option {
	return func(t *Tool) {
		t.when = c
		t.fs = fs
	}
}

// New creates a tool provider for command.
func New(command string, protocol Protocol, opts ...Option) (*Tool, error) {
	if strings.TrimSpace(command) == "" {
		return nil, derrors.NewValidationError("command", "tool command is empty", nil)
	}
	if _, err := ParseProtocol(string(protocol)); err != nil {
		return nil, derrors.NewValidationError("protocol", "invalid protocol", err)
	}

	t := &Tool{
		command:  command,
		protocol: protocol,
		timeout:  DefaultTimeout,
		cwd:      os.Getwd,
		run:      runCommand,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Command returns the command this tool completes.
func (t *Tool) Command() string { return t.command }

// Protocol returns the protocol used to query the command.
func (t *Tool) Protocol() Protocol { return t.protocol }

// Complete asks the command for completions when it is the command being
// typed. Other command lines yield no batch.
func (t *Tool) Complete(ctx context.Context, value string, cursor int) (completion.Batch, error) {
	cursor = max(0, min(cursor, len(value)))
	text := value[:cursor]
	line := shell.Split(text)
	if len(line.Words) == 0 || filepath.Base(line.Command()) != t.command {
		return nil, nil
	}
	if ok, err := t.enabled(); err != nil || !ok {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var (
		suggestions []suggestion
		directive   int
		err         error
	)
	switch t.protocol {
	case ProtocolCobra:
		suggestions, directive, err = completeCobra(ctx, t.run, line.Command(), line.Args())
	case ProtocolUrfave:
		suggestions, err = completeUrfave(ctx, t.run, line.Command(), line.Args())
		directive = ShellCompDirectiveNoFileComp
	case ProtocolEnv:
		suggestions, err = completeEnv(ctx, t.run, line.Command(), text)
		directive = ShellCompDirectiveNoFileComp
	}
	if err != nil {
		return nil, err
	}
	if directive&ShellCompDirectiveError != 0 {
		return nil, derrors.NewExecutionError(t.command, "completion command reported an error", nil)
	}
	if directive&(ShellCompDirectiveFilterFileExt|ShellCompDirectiveFilterDirs) != 0 {
		// extensions or a directory filter, not candidates
		suggestions = nil
	}

	replacementIndex := cursor - len(shell.LastToken(text))
	items := make([]*completion.Item, 0, len(suggestions))
	for _, s := range suggestions {
		items = append(items, &completion.Item{
			Label:             s.value,
			Detail:            s.description,
			Kind:              t.kindOf(s.value),
			ReplacementIndex:  replacementIndex,
			ReplacementLength: cursor - replacementIndex,
		})
	}

	resources := t.resourceRequest(directive, len(items))
	if resources == nil {
		return completion.Items(items), nil
	}
	return &completion.ItemsWithResources{Items: items, Resources: resources}, nil
}

func (t *Tool) enabled() (bool, error) {
	if t.when == nil {
		return true, nil
	}
	dir, err := t.cwd()
	if err != nil {
		return false, err
	}
	return condition.Holds(t.when, condition.Env{Fs: t.fs, WorkingDir: dir})
}

func (t *Tool) kindOf(value string) completion.Kind {
	switch {
	case strings.HasPrefix(value, "-"):
		return completion.KindFlag
	case t.protocol == ProtocolCobra || t.protocol == ProtocolUrfave:
		return completion.KindMethod
	default:
		return completion.KindArgument
	}
}

// resourceRequest maps cobra's file directives onto a path completion
// request. Extension filters are not supported, so FilterFileExt requests
// every file.
func (t *Tool) resourceRequest(directive, items int) *completion.ResourceRequest {
	req := &completion.ResourceRequest{PathSeparator: string(filepath.Separator)}
	switch {
	case directive&ShellCompDirectiveFilterDirs != 0:
		req.FoldersRequested = true
	case directive&ShellCompDirectiveFilterFileExt != 0:
		req.FilesRequested = true
		req.FoldersRequested = true
	case directive&ShellCompDirectiveNoFileComp == 0 && items == 0:
		req.FilesRequested = true
		req.FoldersRequested = true
	default:
		return nil
	}

	dir, err := t.cwd()
	if err != nil {
		return nil
	}
	loc := fsys.File(dir)
	req.CWD = &loc
	return req
}
