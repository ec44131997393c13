package completion

import (
	"context"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/NikitaCOEUR/termsuggest/internal/fsys"
	"github.com/NikitaCOEUR/termsuggest/internal/shell"
)

type resourceTarget struct {
	loc    fsys.Location
	prefix string
}

// ResolveResources lists the working directory of req (prefix ".") and its
// parent (prefix "..") and turns their entries into File and Folder items.
// It returns nil when nothing was requested, when any listing fails, or
// when no entry qualifies.
//
// Labels are built by removing the first occurrence of the working
// directory's path from each child path, so entries of the parent that do
// not live under the working directory keep their full path after "..".
func (s *Service) ResolveResources(ctx context.Context, req *ResourceRequest, value string, cursor int) []*Item {
	if req == nil || req.CWD == nil || (!req.FilesRequested && !req.FoldersRequested) {
		return nil
	}
	if s.files == nil {
		s.log.Debug().Msg("No filesystem service, skipping path completions")
		return nil
	}

	cwd := *req.CWD
	cursor = clampCursor(value, cursor)
	replacementIndex := cursor - len(shell.LastToken(value[:cursor]))

	targets := orderedmap.New[string, resourceTarget]()
	for _, t := range []resourceTarget{
		{loc: cwd, prefix: "."},
		{loc: parentOf(cwd, req.PathSeparator), prefix: ".."},
	} {
		if _, seen := targets.Get(t.loc.String()); !seen {
			targets.Set(t.loc.String(), t)
		}
	}

	var items []*Item
	for pair := targets.Oldest(); pair != nil; pair = pair.Next() {
		target := pair.Value
		stat, err := s.files.Resolve(ctx, target.loc, fsys.ResolveOptions{ResolveSingleChildDescendants: true})
		if err != nil || stat == nil || stat.Children == nil {
			s.log.Debug().Str("location", target.loc.String()).Err(err).Msg("Path completion listing failed")
			return nil
		}

		for _, child := range stat.Children {
			kind := classify(child, req)
			if kind == KindUnset {
				continue
			}
			label := target.prefix + strings.Replace(child.Resource.Path, cwd.Path, "", 1)
			items = append(items, &Item{
				Label:             label,
				Kind:              kind,
				IsFile:            kind == KindFile,
				IsDirectory:       kind == KindFolder,
				ReplacementIndex:  replacementIndex,
				ReplacementLength: len(label),
			})
		}
	}

	if len(items) == 0 {
		return nil
	}
	return items
}

func classify(child *fsys.FileStat, req *ResourceRequest) Kind {
	kind := KindUnset
	if req.FoldersRequested && child.IsDirectory {
		kind = KindFolder
	}
	if req.FilesRequested && !child.IsDirectory && (child.IsFile || child.Resource.IsLocal()) {
		kind = KindFile
	}
	return kind
}

// parentOf drops the last sep-delimited segment of loc's path. A path with
// no parent segment maps to the root, written as sep.
func parentOf(loc fsys.Location, sep string) fsys.Location {
	if sep == "" {
		sep = "/"
	}
	segments := strings.Split(loc.Path, sep)
	parent := strings.Join(segments[:len(segments)-1], sep)
	if parent == "" {
		parent = sep
	}
	return fsys.Location{Scheme: loc.Scheme, Path: parent}
}
