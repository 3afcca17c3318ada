package codec

import (
	"fmt"
	"io"
	"strings"

	"github.com/gammazero/toposort"

	"github.com/arthur-debert/memfs/pkg/memfs/core"
	"github.com/arthur-debert/memfs/pkg/memfs/tree"
)

// Result is a tree materialized from records.
type Result struct {
	Root *tree.Directory
	// Duplicates lists file paths whose later records were discarded
	// because an earlier record already created the file.
	Duplicates []string
}

// Load decodes r and builds a new tree from it.
func Load(r io.Reader) (*Result, error) {
	records, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return Build(records)
}

// Build materializes records into a new root. Directory records and the
// implicit parents of every file record are created parents-first; file
// records are then inserted in record order and the first record for a
// path wins. A file whose modification time precedes its creation time is
// loaded with both set to the creation time.
func Build(records []Record) (*Result, error) {
	order, err := directoryOrder(records)
	if err != nil {
		return nil, err
	}

	// Each directory is attached to a parent that must already exist, so
	// the parents-first order is what makes this loop work.
	root := tree.NewRoot()
	for _, p := range order {
		segments := tree.SplitPath(p)
		parent, err := tree.Resolve(root, joinSegments(segments[:len(segments)-1]))
		if err != nil {
			return nil, fmt.Errorf("%w: directory %q: %w", core.ErrMalformedRecord, p, err)
		}
		if err := parent.Attach(tree.NewDirectory(segments[len(segments)-1])); err != nil {
			return nil, fmt.Errorf("%w: directory %q: %w", core.ErrMalformedRecord, p, err)
		}
	}

	res := &Result{Root: root}
	for i, rec := range records {
		if rec.Type != RecordFile {
			continue
		}
		segments := tree.SplitPath(rec.Path)
		// directoryOrder already rejected file records without a name
		dirPath, name := joinSegments(segments[:len(segments)-1]), segments[len(segments)-1]

		parent, err := tree.Resolve(root, dirPath)
		if err != nil {
			return nil, &core.RecordError{Record: i + 1, Reason: "unresolved parent", Cause: err}
		}
		existing, taken := parent.Child(name)
		if taken {
			if existing.Kind() == core.KindFile {
				res.Duplicates = append(res.Duplicates, rec.Path)
				continue
			}
			return nil, &core.RecordError{Record: i + 1, Reason: fmt.Sprintf("file %q collides with a directory", rec.Path)}
		}
		// Local wall-clock times can run backwards across a DST change, so a
		// modification stored as earlier than creation is clamped, not rejected.
		modifiedAt := rec.ModifiedAt
		if modifiedAt.Before(rec.CreatedAt) {
			modifiedAt = rec.CreatedAt
		}
		f := tree.RestoreFile(name, rec.Content, rec.CreatedAt, modifiedAt)
		if err := parent.Attach(f); err != nil {
			return nil, &core.RecordError{Record: i + 1, Reason: "attach failed", Cause: err}
		}
	}
	return res, nil
}

// directoryOrder collects every directory path the records need, explicit
// or implied by a file path, and sorts them so parents precede children.
func directoryOrder(records []Record) ([]string, error) {
	const rootKey = tree.Separator
	seen := map[string]bool{rootKey: true}
	var edges []toposort.Edge

	addDir := func(segments []string) {
		for i := 1; i <= len(segments); i++ {
			p := joinSegments(segments[:i])
			if seen[p] {
				continue
			}
			seen[p] = true
			edges = append(edges, toposort.Edge{joinSegments(segments[:i-1]), p})
		}
	}

	for i, rec := range records {
		segments := tree.SplitPath(rec.Path)
		for _, segment := range segments {
			if err := tree.ValidateName(segment); err != nil {
				return nil, &core.RecordError{Record: i + 1, Reason: fmt.Sprintf("path %q", rec.Path), Cause: err}
			}
		}
		switch rec.Type {
		case RecordDirectory:
			addDir(segments)
		case RecordFile:
			if len(segments) == 0 {
				return nil, &core.RecordError{Record: i + 1, Reason: "file record without a name"}
			}
			addDir(segments[:len(segments)-1])
		default:
			return nil, &core.RecordError{Record: i + 1, Reason: "unknown " + rec.Type.String()}
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("%w: directory order: %w", core.ErrMalformedRecord, err)
	}
	order := make([]string, 0, len(sorted))
	for _, v := range sorted {
		p, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected type in topological sort result: %T", v)
		}
		if p != rootKey {
			order = append(order, p)
		}
	}
	return order, nil
}

func joinSegments(segments []string) string {
	return tree.Separator + strings.Join(segments, tree.Separator)
}
