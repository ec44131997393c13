// Package completion aggregates terminal completion items from registered
// providers and synthesizes filesystem path completions.
package completion

import (
	"context"

	"github.com/NikitaCOEUR/termsuggest/internal/fsys"
	"github.com/NikitaCOEUR/termsuggest/internal/shell"
)

// Kind classifies a completion item.
type Kind int

// Item kinds. The zero value means the provider left the kind unset.
const (
	KindUnset Kind = iota
	KindFile
	KindFolder
	KindFlag
	KindMethod
	KindArgument
)

var kindNames = map[Kind]string{
	KindUnset:    "",
	KindFile:     "file",
	KindFolder:   "folder",
	KindFlag:     "flag",
	KindMethod:   "method",
	KindArgument: "argument",
}

func (k Kind) String() string {
	return kindNames[k]
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Item is a single completion candidate.
type Item struct {
	Label             string `json:"label" yaml:"label"`
	Detail            string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Kind              Kind   `json:"kind,omitempty" yaml:"kind,omitempty"`
	ReplacementIndex  int    `json:"replacementIndex" yaml:"replacementIndex"`
	ReplacementLength int    `json:"replacementLength" yaml:"replacementLength"`
	IsFile            bool   `json:"isFile,omitempty" yaml:"isFile,omitempty"`
	IsDirectory       bool   `json:"isDirectory,omitempty" yaml:"isDirectory,omitempty"`
}

// ResourceRequest asks the engine to add path completions for CWD and its
// parent.
type ResourceRequest struct {
	FilesRequested   bool
	FoldersRequested bool
	CWD              *fsys.Location
	PathSeparator    string
}

// Batch is what a provider returns: Items or ItemsWithResources. A nil
// Batch contributes nothing.
type Batch interface {
	items() []*Item
}

// Items is a plain sequence of completion items.
type Items []*Item

func (b Items) items() []*Item { return b }

// ItemsWithResources carries items plus an optional resource request.
type ItemsWithResources struct {
	Items     []*Item
	Resources *ResourceRequest
}

func (b *ItemsWithResources) items() []*Item { return b.Items }

// Completer produces completion items for the text in value with the cursor
// at byte offset cursor.
type Completer interface {
	Complete(ctx context.Context, value string, cursor int) (Batch, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, value string, cursor int) (Batch, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, value string, cursor int) (Batch, error) {
	return f(ctx, value, cursor)
}

// Provider is a registered source of completion items.
type Provider struct {
	// ID and TriggerCharacters are set by Register.
	ID                string
	TriggerCharacters []string
	// ShellTypes restricts the provider to some shells. Empty means all.
	ShellTypes []shell.Type
	// Builtin providers stay enabled when extension completions are off.
	Builtin bool
	Completer
}

// Request is a completion query.
type Request struct {
	Value            string
	Cursor           int
	Shell            shell.Type
	TriggerCharacter bool
}
