// Package paths provides the builtin path completion provider.
package paths

import (
	"context"
	"path/filepath"

	"github.com/NikitaCOEUR/termsuggest/internal/completion"
	"github.com/NikitaCOEUR/termsuggest/internal/fsys"
)

// ID is the provider id within the builtin namespace.
const ID = "paths"

// Provider asks for files and folders of its working directory. It has no
// items of its own.
type Provider struct {
	cwd func() (string, error)
}

// New creates a path provider resolving the working directory with cwd.
func New(cwd func() (string, error)) *Provider {
	return &Provider{cwd: cwd}
}

// Complete returns a resource request for the working directory.
func (p *Provider) Complete(_ context.Context, _ string, _ int) (completion.Batch, error) {
	dir, err := p.cwd()
	if err != nil {
		return nil, err
	}
	loc := fsys.File(dir)
	return &completion.ItemsWithResources{
		Resources: &completion.ResourceRequest{
			FilesRequested:   true,
			FoldersRequested: true,
			CWD:              &loc,
			PathSeparator:    string(filepath.Separator),
		},
	}, nil
}
