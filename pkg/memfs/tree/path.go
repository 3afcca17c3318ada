package tree

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/memfs/pkg/memfs/core"
)

// Separator joins path segments.
const Separator = "/"

// SplitPath returns the non-empty segments of a slash-separated path.
func SplitPath(p string) []string {
	parts := strings.Split(p, Separator)
	segments := parts[:0]
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// Resolve descends from root one segment at a time. Each segment must name
// an existing subdirectory exactly. An empty path or "/" yields root.
func Resolve(root *Directory, p string) (*Directory, error) {
	cur := root
	for _, segment := range SplitPath(p) {
		next, ok := cur.Dir(segment)
		if !ok {
			return nil, &PathNotFoundError{Path: p, Segment: segment}
		}
		cur = next
	}
	return cur, nil
}

// PathNotFoundError reports the first segment of a path that does not name
// a subdirectory.
type PathNotFoundError struct {
	Path    string
	Segment string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path %q: no directory %q", e.Path, e.Segment)
}

// Unwrap makes the error match core.ErrInvalidPath.
func (e *PathNotFoundError) Unwrap() error {
	return core.ErrInvalidPath
}

// EnsureDir walks p from root, reusing existing directories and creating
// missing ones. A segment held by a file fails with core.ErrNameCollision.
func EnsureDir(root *Directory, p string) (*Directory, error) {
	cur := root
	for _, segment := range SplitPath(p) {
		child, ok := cur.Child(segment)
		if !ok {
			sub := NewDirectory(segment)
			if err := cur.Attach(sub); err != nil {
				return nil, err
			}
			cur = sub
			continue
		}
		sub, isDir := child.(*Directory)
		if !isDir {
			return nil, fmt.Errorf("path %q: %q is a file: %w", p, segment, core.ErrNameCollision)
		}
		cur = sub
	}
	return cur, nil
}

// Path returns the full path of n from its root, e.g. "/docs/a.txt".
// The root itself is "/".
func Path(n Node) string {
	var segments []string
	for cur := n; cur != nil; {
		parent := cur.Parent()
		if parent == nil {
			break
		}
		segments = append(segments, cur.Name())
		cur = parent
	}
	if len(segments) == 0 {
		return Separator
	}
	var sb strings.Builder
	for i := len(segments) - 1; i >= 0; i-- {
		sb.WriteString(Separator)
		sb.WriteString(segments[i])
	}
	return sb.String()
}

// Join appends name to a full directory path.
func Join(dirPath, name string) string {
	if dirPath == Separator || dirPath == "" {
		return Separator + name
	}
	return dirPath + Separator + name
}

// ValidateName rejects names that cannot be addressed by a path or that
// would break the persisted record framing.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", core.ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q is reserved", core.ErrInvalidName, name)
	case strings.ContainsAny(name, "/|\n\r"):
		return fmt.Errorf("%w: %q contains one of '/', '|' or a line break", core.ErrInvalidName, name)
	}
	return nil
}
