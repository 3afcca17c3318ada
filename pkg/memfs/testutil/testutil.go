// Package testutil provides helpers shared by memfs tests.
package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/memfs/pkg/memfs/core"
	"github.com/arthur-debert/memfs/pkg/memfs/tree"
)

// Epoch is the first instant handed out by a FakeClock.
var Epoch = time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)

// FakeClock returns a tree.Clock that starts at Epoch and advances one
// second on every call, so consecutive timestamps always differ.
func FakeClock() tree.Clock {
	next := Epoch
	return func() time.Time {
		now := next
		next = next.Add(time.Second)
		return now
	}
}

// FixedClock returns a tree.Clock that always reports t.
func FixedClock(t time.Time) tree.Clock {
	return func() time.Time { return t }
}

// BuildTree creates a tree from a map of paths. Keys ending in "/" are
// directories; other keys are files holding the mapped content. Every file
// is stamped with now.
func BuildTree(t testing.TB, now time.Time, entries map[string]string) *tree.Directory {
	t.Helper()
	root := tree.NewRoot()
	for p, content := range entries {
		if strings.HasSuffix(p, "/") {
			_, err := tree.EnsureDir(root, p)
			require.NoError(t, err, "mkdir %s", p)
			continue
		}
		segments := tree.SplitPath(p)
		require.NotEmpty(t, segments, "file path %q", p)
		parent, err := tree.EnsureDir(root, strings.Join(segments[:len(segments)-1], "/"))
		require.NoError(t, err, "mkdir parent of %s", p)
		f := tree.NewFile(segments[len(segments)-1], now)
		f.Write([]byte(content), core.WriteOverwrite, now)
		require.NoError(t, parent.Attach(f), "create %s", p)
	}
	return root
}

// Snapshot describes a tree by path: directories map to "<dir>", files to
// their content. It is convenient for whole-tree assertions.
func Snapshot(t testing.TB, root *tree.Directory) map[string]string {
	t.Helper()
	snap := make(map[string]string)
	err := tree.Walk(root, func(n tree.Node, depth int) error {
		if depth == 0 {
			return nil
		}
		switch v := n.(type) {
		case *tree.Directory:
			snap[tree.Path(v)] = "<dir>"
		case *tree.File:
			snap[tree.Path(v)] = string(v.Content())
		}
		return nil
	})
	require.NoError(t, err)
	return snap
}

// AssertTreesEqual checks that two trees have the same structure, file
// content and file timestamps. Node identities are not compared.
func AssertTreesEqual(t testing.TB, want, got *tree.Directory) {
	t.Helper()
	assert.Equal(t, Snapshot(t, want), Snapshot(t, got))

	_ = tree.Walk(want, func(n tree.Node, depth int) error {
		wf, ok := n.(*tree.File)
		if !ok {
			return nil
		}
		p := tree.Path(wf)
		segments := tree.SplitPath(p)
		dir, err := tree.Resolve(got, strings.Join(segments[:len(segments)-1], "/"))
		if !assert.NoError(t, err, p) {
			return nil
		}
		gf, ok := dir.File(wf.Name())
		if !assert.True(t, ok, "missing file %s", p) {
			return nil
		}
		assert.True(t, wf.CreatedAt().Equal(gf.CreatedAt()), "%s createdAt: want %v got %v", p, wf.CreatedAt(), gf.CreatedAt())
		assert.True(t, wf.ModifiedAt().Equal(gf.ModifiedAt()), "%s modifiedAt: want %v got %v", p, wf.ModifiedAt(), gf.ModifiedAt())
		return nil
	})
}
