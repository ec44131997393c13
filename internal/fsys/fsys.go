// Package fsys is the filesystem collaborator used to list directory entries
// for path completion.
package fsys

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/NikitaCOEUR/termsuggest/internal/derrors"
)

// SchemeFile marks locations on the local filesystem.
const SchemeFile = "file"

// Location addresses a resource by scheme and path.
type Location struct {
	Scheme string `json:"scheme" yaml:"scheme"`
	Path   string `json:"path" yaml:"path"`
}

// File returns a local location for path.
func File(path string) Location {
	return Location{Scheme: SchemeFile, Path: path}
}

// IsLocal reports whether the location lives on the local filesystem.
func (l Location) IsLocal() bool {
	return l.Scheme == SchemeFile
}

func (l Location) String() string {
	return l.Scheme + "://" + l.Path
}

// FileStat describes a resolved resource and, for directories, its children.
type FileStat struct {
	Resource    Location
	IsDirectory bool
	IsFile      bool
	Children    []*FileStat
}

// ResolveOptions tunes Resolve.
type ResolveOptions struct {
	// ResolveSingleChildDescendants also lists a child directory when it is
	// the only entry of its parent, repeatedly.
	ResolveSingleChildDescendants bool
}

// Service resolves locations into file stats.
type Service interface {
	Resolve(ctx context.Context, loc Location, opts ResolveOptions) (*FileStat, error)
}

// Local resolves file locations on an afero filesystem.
type Local struct {
	fs afero.Fs
}

// NewLocal creates a Local service. A nil fs means the OS filesystem.
func NewLocal(fs afero.Fs) *Local {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Local{fs: fs}
}

// Resolve stats loc and lists its children when it is a directory.
func (l *Local) Resolve(ctx context.Context, loc Location, opts ResolveOptions) (*FileStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !loc.IsLocal() {
		return nil, derrors.NewResolveError(loc.String(), "unsupported scheme "+loc.Scheme, nil)
	}

	info, err := l.fs.Stat(loc.Path)
	if err != nil {
		return nil, derrors.NewResolveError(loc.String(), "failed to stat", err)
	}

	stat := &FileStat{
		Resource:    loc,
		IsDirectory: info.IsDir(),
		IsFile:      info.Mode().IsRegular(),
	}
	if !stat.IsDirectory {
		return stat, nil
	}

	if stat.Children, err = l.list(loc); err != nil {
		return nil, err
	}

	if opts.ResolveSingleChildDescendants {
		dir := stat
		for len(dir.Children) == 1 && dir.Children[0].IsDirectory {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			only := dir.Children[0]
			if only.Children, err = l.list(only.Resource); err != nil {
				break
			}
			dir = only
		}
	}

	return stat, nil
}

func (l *Local) list(loc Location) ([]*FileStat, error) {
	entries, err := afero.ReadDir(l.fs, loc.Path)
	if err != nil {
		return nil, derrors.NewResolveError(loc.String(), "failed to list directory", err)
	}

	children := make([]*FileStat, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(loc.Path, entry.Name())
		info := entry
		// Symlinks are classified by their target; a broken link keeps its
		// own mode.
		if entry.Mode()&os.ModeSymlink != 0 {
			if target, err := l.fs.Stat(path); err == nil {
				info = target
			}
		}
		children = append(children, &FileStat{
			Resource:    Location{Scheme: loc.Scheme, Path: path},
			IsDirectory: info.IsDir(),
			IsFile:      info.Mode().IsRegular(),
		})
	}
	return children, nil
}
