// Package words provides the builtin provider that offers static, per
// command word lists.
package words

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/NikitaCOEUR/termsuggest/internal/completion"
	"github.com/NikitaCOEUR/termsuggest/internal/condition"
	"github.com/NikitaCOEUR/termsuggest/internal/config"
	"github.com/NikitaCOEUR/termsuggest/internal/derrors"
	"github.com/NikitaCOEUR/termsuggest/internal/logger"
	"github.com/NikitaCOEUR/termsuggest/internal/shell"
)

// ID is the provider id within the builtin namespace.
const ID = "words"

// Data is the template context of a word value.
type Data struct {
	CWD     string
	Shell   string
	Command string
	Args    []string
}

type word struct {
	tmpl        *template.Template
	description string
	when        condition.Condition
}

type entry struct {
	pattern string
	words   []word
}

// Provider offers the words configured for the command being typed.
type Provider struct {
	entries []entry
	cwd     func() (string, error)
	shell   shell.Type
	fs      afero.Fs
	log     *logger.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithFs sets the filesystem when conditions are checked against.
func WithFs(fs afero.Fs) Option {
	return func(p *Provider) {
		p.fs = fs
	}
}

// WithLogger sets the logger word rendering failures are reported to.
func WithLogger(log *logger.Logger) Option {
	return func(p *Provider) {
		p.log = log
	}
}

// New compiles the configured word lists. Patterns are doublestar globs
// matched against the base name of the command; all matching lists are
// offered, in pattern order.
func New(lists map[string][]config.Word, cwd func() (string, error), sh shell.Type, opts ...Option) (*Provider, error) {
	patterns := make([]string, 0, len(lists))
	for pattern := range lists {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	p := &Provider{cwd: cwd, shell: sh, log: logger.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, derrors.NewValidationError("words/"+pattern, "invalid command pattern", nil)
		}
		e := entry{pattern: pattern}
		for i, w := range lists[pattern] {
			tmpl, err := config.ParseWordTemplate(w.Value)
			if err != nil {
				return nil, derrors.NewValidationError(fmt.Sprintf("words/%s/%d", pattern, i), "invalid word template", err)
			}
			when, err := condition.Parse(w.When)
			if err != nil {
				return nil, derrors.NewValidationError(fmt.Sprintf("words/%s/%d/when", pattern, i), "invalid condition", err)
			}
			e.words = append(e.words, word{tmpl: tmpl, description: w.Description, when: when})
		}
		p.entries = append(p.entries, e)
	}
	return p, nil
}

// Len returns the number of configured word lists.
func (p *Provider) Len() int {
	return len(p.entries)
}

// Complete renders the words of every list matching the command. Nothing
// is offered while the command itself is being typed.
func (p *Provider) Complete(_ context.Context, value string, cursor int) (completion.Batch, error) {
	cursor = max(0, min(cursor, len(value)))
	text := value[:cursor]
	line := shell.Split(text)
	if len(line.Words) == 0 {
		return nil, nil
	}
	command := filepath.Base(line.Command())

	data := Data{Shell: string(p.shell), Command: command, Args: line.Args()}
	if p.cwd != nil {
		dir, err := p.cwd()
		if err != nil {
			return nil, err
		}
		data.CWD = dir
	}

	env := condition.Env{Fs: p.fs, WorkingDir: data.CWD}
	token := shell.LastToken(text)
	var items completion.Items
	for _, e := range p.entries {
		if ok, _ := doublestar.Match(e.pattern, command); !ok {
			continue
		}
		for _, w := range e.words {
			ok, err := condition.Holds(w.when, env)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			label, err := render(w.tmpl, data)
			if err != nil {
				p.log.Debug().Str("pattern", e.pattern).Err(err).Msg("Word template failed to render")
				continue
			}
			if label == "" {
				continue
			}
			items = append(items, &completion.Item{
				Label:             label,
				Detail:            w.description,
				Kind:              kindOf(label),
				ReplacementIndex:  cursor - len(token),
				ReplacementLength: len(token),
			})
		}
	}

	if items == nil {
		return nil, nil
	}
	return items, nil
}

func render(tmpl *template.Template, data Data) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func kindOf(label string) completion.Kind {
	if strings.HasPrefix(label, "-") {
		return completion.KindFlag
	}
	return completion.KindArgument
}
