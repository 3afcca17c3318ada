package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/memfs/pkg/memfs/tree"
)

// Violation is one broken tree invariant.
type Violation struct {
	Path   string
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Reason)
}

// ErrInvariant is matched by errors returned from Check.
var ErrInvariant = errors.New("tree invariant violated")

// InvariantError lists every violation found by Check.
type InvariantError struct {
	Violations []Violation
}

func (e *InvariantError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%d invariant violation(s): %s", len(e.Violations), strings.Join(parts, "; "))
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

// Check walks the tree under root and verifies that root has no parent,
// that every child points back at the directory holding it, that names are
// valid, that no directory is reachable twice, and that no file was
// modified before it was created. It returns nil or an *InvariantError.
func Check(root *tree.Directory) error {
	var violations []Violation
	add := func(p, reason string) {
		violations = append(violations, Violation{Path: p, Reason: reason})
	}

	if root.Parent() != nil {
		add(tree.Path(root), "root has a parent")
	}

	visited := make(map[*tree.Directory]bool)
	var visit func(dir *tree.Directory)
	visit = func(dir *tree.Directory) {
		if visited[dir] {
			add(tree.Path(dir), "directory reachable more than once")
			return
		}
		visited[dir] = true

		for _, child := range dir.Children() {
			p := tree.Join(tree.Path(dir), child.Name())
			if child.Parent() != dir {
				add(p, "parent link does not point at the owning directory")
			}
			if err := tree.ValidateName(child.Name()); err != nil {
				add(p, err.Error())
			}
			switch c := child.(type) {
			case *tree.File:
				if c.ModifiedAt().Before(c.CreatedAt()) {
					add(p, "modified before created")
				}
			case *tree.Directory:
				visit(c)
			}
		}
	}
	visit(root)

	if len(violations) > 0 {
		return &InvariantError{Violations: violations}
	}
	return nil
}
