package memfs

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"

	"github.com/arthur-debert/memfs/pkg/memfs/core"
	"github.com/arthur-debert/memfs/pkg/memfs/tree"
	"github.com/arthur-debert/memfs/pkg/memfs/validation"
)

// Search returns the names of files in the current directory that contain
// pattern, case-sensitively, in name order. Subdirectories are not searched.
func (s *Session) Search(pattern string) []string {
	var matches []string
	for _, f := range s.cwd.Files() {
		if strings.Contains(f.Name(), pattern) {
			matches = append(matches, f.Name())
		}
	}
	return matches
}

// Glob matches file paths below the current directory, relative to it,
// against a doublestar pattern such as "**/*.txt".
func (s *Session) Glob(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, s.fail("glob", pattern, fmt.Errorf("%w: bad pattern", core.ErrInvalidInput))
	}

	var matches []string
	err := tree.Walk(s.cwd, func(n tree.Node, depth int) error {
		if n.Kind() != core.KindFile {
			return nil
		}
		rel := relativePath(s.cwd, n)
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, rel)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("glob", pattern, fmt.Errorf("%w: %w", core.ErrInvalidInput, err))
	}
	sort.Strings(matches)
	return matches, nil
}

func relativePath(base *tree.Directory, n tree.Node) string {
	segments := []string{n.Name()}
	for d := n.Parent(); d != nil && d != base; d = d.Parent() {
		segments = append(segments, d.Name())
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, tree.Separator)
}

// FileInfo is the metadata reported by Stat.
type FileInfo struct {
	Name       string
	ID         string
	Path       string
	Size       int
	CreatedAt  time.Time
	ModifiedAt time.Time
	MIMEType   string
	MD5        string
}

// Stat describes a file in the current directory.
func (s *Session) Stat(name string) (*FileInfo, error) {
	f, ok := s.cwd.File(name)
	if !ok {
		return nil, s.fail("stat", s.childPath(name), fmt.Errorf("file %q: %w", name, core.ErrNotFound))
	}
	sum := validation.ComputeFileChecksum(f)
	return &FileInfo{
		Name:       f.Name(),
		ID:         f.ID(),
		Path:       sum.Path,
		Size:       f.Size(),
		CreatedAt:  f.CreatedAt(),
		ModifiedAt: f.ModifiedAt(),
		MIMEType:   mimetype.Detect(f.Content()).String(),
		MD5:        sum.MD5,
	}, nil
}
