package memfs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/memfs/pkg/memfs"
	"github.com/arthur-debert/memfs/pkg/memfs/core"
	"github.com/arthur-debert/memfs/pkg/memfs/filesystem"
	"github.com/arthur-debert/memfs/pkg/memfs/store"
	"github.com/arthur-debert/memfs/pkg/memfs/testutil"
	"github.com/arthur-debert/memfs/pkg/memfs/tree"
	"github.com/arthur-debert/memfs/pkg/memfs/validation"
)

func newSession(t *testing.T, entries map[string]string) *memfs.Session {
	t.Helper()
	var root *tree.Directory
	if entries != nil {
		// A day before anything the fake clock hands out.
		root = testutil.BuildTree(t, testutil.Epoch.Add(-24*time.Hour), entries)
	}
	return memfs.NewSession(root, memfs.WithClock(testutil.FakeClock()))
}

// assertConsistent checks the structural invariants after an operation.
func assertConsistent(t *testing.T, s *memfs.Session) {
	t.Helper()
	require.NoError(t, validation.Check(s.Root()))
	assert.Same(t, s.Root(), s.Cwd().Root(), "cursor must stay inside the tree")
}

func TestCreate(t *testing.T) {
	t.Run("directory and file", func(t *testing.T) {
		s := newSession(t, nil)
		require.NoError(t, s.CreateDirectory("docs"))
		require.NoError(t, s.CreateFile("a.txt"))

		assert.Equal(t, map[string]string{"/docs": "<dir>", "/a.txt": ""}, testutil.Snapshot(t, s.Root()))
		f, ok := s.Cwd().File("a.txt")
		require.True(t, ok)
		assert.Equal(t, testutil.Epoch, f.CreatedAt())
		assert.Equal(t, f.CreatedAt(), f.ModifiedAt())
		assertConsistent(t, s)
	})

	t.Run("names are shared between kinds", func(t *testing.T) {
		s := newSession(t, map[string]string{"docs/": "", "a.txt": "x"})

		err := s.CreateFile("docs")
		assert.ErrorIs(t, err, core.ErrNameCollision)
		err = s.CreateDirectory("a.txt")
		assert.ErrorIs(t, err, core.ErrNameCollision)
		err = s.CreateFile("a.txt")
		assert.ErrorIs(t, err, core.ErrNameCollision)

		assert.Equal(t, map[string]string{"/docs": "<dir>", "/a.txt": "x"}, testutil.Snapshot(t, s.Root()))
	})

	t.Run("invalid names", func(t *testing.T) {
		s := newSession(t, nil)
		for _, name := range []string{"", ".", "..", "a/b", "a|b", "a\nb"} {
			err := s.CreateFile(name)
			assert.ErrorIs(t, err, core.ErrInvalidName, "name %q", name)
			assert.ErrorIs(t, err, core.ErrInvalidInput, "name %q", name)
		}
		assert.Equal(t, 0, s.Root().Len())
	})

	t.Run("errors carry the operation", func(t *testing.T) {
		s := newSession(t, map[string]string{"docs/": ""})
		err := s.CreateDirectory("docs")

		var opErr *core.OperationError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "create_directory", opErr.Op)
		assert.Equal(t, "/docs", opErr.Path)
	})
}

func TestDelete(t *testing.T) {
	s := newSession(t, map[string]string{
		"docs/a.txt":  "a",
		"docs/sub/b":  "b",
		"keep.txt":    "k",
		"other/c.txt": "c",
	})

	require.NoError(t, s.DeleteDirectory("docs"))
	require.NoError(t, s.DeleteFile("keep.txt"))

	assert.ErrorIs(t, s.DeleteDirectory("docs"), core.ErrNotFound)
	assert.ErrorIs(t, s.DeleteFile("other"), core.ErrNotFound, "a directory is not a file")
	assert.ErrorIs(t, s.DeleteDirectory("missing"), core.ErrNotFound)

	assert.Equal(t, map[string]string{"/other": "<dir>", "/other/c.txt": "c"}, testutil.Snapshot(t, s.Root()))
	assertConsistent(t, s)
}

func TestRename(t *testing.T) {
	s := newSession(t, map[string]string{"a.txt": "hello", "docs/x": "", "b.txt": ""})
	before, _ := s.Cwd().File("a.txt")
	id := before.ID()

	require.NoError(t, s.Rename("a.txt", "c.txt", core.KindFile))
	after, ok := s.Cwd().File("c.txt")
	require.True(t, ok)
	assert.Equal(t, id, after.ID(), "rename keeps identity")
	assert.Equal(t, "hello", string(after.Content()))
	assert.False(t, s.Cwd().Has("a.txt"))

	require.NoError(t, s.Rename("docs", "papers", core.KindDirectory))
	assert.Equal(t, "/papers/x", tree.Path(mustFile(t, s, "papers", "x")))

	tests := []struct {
		name     string
		old, new string
		kind     core.Kind
		want     error
	}{
		{"missing", "nope", "z", core.KindFile, core.ErrNotFound},
		{"wrong kind", "papers", "z", core.KindFile, core.ErrNotFound},
		{"taken by file", "papers", "b.txt", core.KindDirectory, core.ErrNameCollision},
		{"taken by directory", "b.txt", "papers", core.KindFile, core.ErrNameCollision},
		{"same name", "b.txt", "b.txt", core.KindFile, core.ErrNameCollision},
		{"invalid", "b.txt", "..", core.KindFile, core.ErrInvalidName},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, s.Rename(tc.old, tc.new, tc.kind), tc.want)
		})
	}
	assert.Equal(t, map[string]string{
		"/b.txt": "", "/c.txt": "hello", "/papers": "<dir>", "/papers/x": "",
	}, testutil.Snapshot(t, s.Root()))
	assertConsistent(t, s)
}

func mustFile(t *testing.T, s *memfs.Session, dir, name string) *tree.File {
	t.Helper()
	d, err := tree.Resolve(s.Root(), dir)
	require.NoError(t, err)
	f, ok := d.File(name)
	require.True(t, ok, "%s/%s", dir, name)
	return f
}

func TestChangeDirectory(t *testing.T) {
	s := newSession(t, map[string]string{"b/": "", "a/inner/": "", "f.txt": ""})

	assert.Equal(t, []string{"a", "b"}, s.DirectoryChoices())
	err := s.ChangeDirectory("..")
	assert.ErrorIs(t, err, core.ErrInvalidSelection, "no parent at root")
	assert.ErrorIs(t, s.ChangeDirectory("f.txt"), core.ErrInvalidSelection)
	assert.ErrorIs(t, s.ChangeDirectory("zzz"), core.ErrInvalidSelection)
	assert.Equal(t, "/", s.CwdPath())

	require.NoError(t, s.ChangeDirectory("a"))
	require.NoError(t, s.ChangeDirectory("inner"))
	assert.Equal(t, "/a/inner", s.CwdPath())
	assert.Equal(t, []string{".."}, s.DirectoryChoices())

	require.NoError(t, s.ChangeDirectory(".."))
	assert.Equal(t, "/a", s.CwdPath())
	assert.Equal(t, []string{"inner", ".."}, s.DirectoryChoices())
}

func TestWriteRead(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.CreateFile("a.txt"))
	f, _ := s.Cwd().File("a.txt")
	created := f.CreatedAt()

	data := []byte("hello\n")
	require.NoError(t, s.Write("a.txt", data, core.WriteOverwrite))
	data[0] = 'J'
	firstWrite := f.ModifiedAt()
	assert.True(t, firstWrite.After(created))

	require.NoError(t, s.Write("a.txt", []byte("world\n"), core.WriteAppend))
	got, err := s.Read("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(got), "written content is copied in")
	assert.True(t, f.ModifiedAt().After(firstWrite))
	assert.Equal(t, created, f.CreatedAt())

	got[0] = 'X'
	again, _ := s.Read("a.txt")
	assert.Equal(t, "hello\nworld\n", string(again), "read returns a copy")

	require.NoError(t, s.Write("a.txt", nil, core.WriteOverwrite))
	empty, err := s.Read("a.txt")
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.ErrorIs(t, s.Write("nope", []byte("x"), core.WriteOverwrite), core.ErrNotFound)
	_, err = s.Read("nope")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMove(t *testing.T) {
	t.Run("file keeps content and createdAt", func(t *testing.T) {
		s := newSession(t, map[string]string{"a.txt": "payload", "dst/": ""})
		f, _ := s.Cwd().File("a.txt")
		id, created := f.ID(), f.CreatedAt()

		require.NoError(t, s.MoveTo("a.txt", core.KindFile, "/dst"))

		assert.False(t, s.Cwd().Has("a.txt"))
		moved := mustFile(t, s, "dst", "a.txt")
		assert.Equal(t, id, moved.ID())
		assert.Equal(t, created, moved.CreatedAt())
		assert.Equal(t, "payload", string(moved.Content()))
		assertConsistent(t, s)
	})

	t.Run("directory moves with its subtree", func(t *testing.T) {
		s := newSession(t, map[string]string{"src/deep/x": "1", "dst/": ""})
		require.NoError(t, s.MoveTo("src", core.KindDirectory, "dst"))
		assert.Equal(t, map[string]string{
			"/dst": "<dir>", "/dst/src": "<dir>", "/dst/src/deep": "<dir>", "/dst/src/deep/x": "1",
		}, testutil.Snapshot(t, s.Root()))
		assertConsistent(t, s)
	})

	t.Run("rejections leave the tree unchanged", func(t *testing.T) {
		entries := map[string]string{"a/b/": "", "a.txt": "", "dst/a.txt": "other", "dst/a/": ""}
		tests := []struct {
			name string
			src  string
			kind core.Kind
			path string
			want error
		}{
			{"missing source", "zzz", core.KindFile, "/dst", core.ErrNotFound},
			{"collision in target", "a.txt", core.KindFile, "/dst", core.ErrNameCollision},
			{"directory collision", "a", core.KindDirectory, "/dst", core.ErrNameCollision},
			{"same directory", "a.txt", core.KindFile, "/", core.ErrNameCollision},
			{"into itself", "a", core.KindDirectory, "/a", core.ErrInvalidPath},
			{"into descendant", "a", core.KindDirectory, "/a/b", core.ErrInvalidPath},
			{"unresolvable path", "a.txt", core.KindFile, "/nowhere/else", core.ErrInvalidPath},
			{"path through a file", "a.txt", core.KindFile, "/dst/a.txt", core.ErrInvalidPath},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				s := newSession(t, entries)
				want := testutil.Snapshot(t, s.Root())
				assert.ErrorIs(t, s.MoveTo(tc.src, tc.kind, tc.path), tc.want)
				assert.Equal(t, want, testutil.Snapshot(t, s.Root()))
				assertConsistent(t, s)
			})
		}
	})

	t.Run("target from another tree", func(t *testing.T) {
		s := newSession(t, map[string]string{"a.txt": ""})
		err := s.Move("a.txt", core.KindFile, tree.NewRoot())
		assert.ErrorIs(t, err, core.ErrInvalidPath)
		assert.True(t, s.Cwd().Has("a.txt"))
	})
}

func TestCopyDirectory(t *testing.T) {
	s := newSession(t, map[string]string{"src/a.txt": "orig", "src/sub/b.txt": "deep", "dst/": ""})
	require.NoError(t, s.CopyTo("src", core.KindDirectory, "/dst"))
	assertConsistent(t, s)

	orig := mustFile(t, s, "src/sub", "b.txt")
	clone := mustFile(t, s, "dst/src/sub", "b.txt")
	assert.NotEqual(t, orig.ID(), clone.ID(), "copies get fresh identity")
	assert.True(t, clone.CreatedAt().After(orig.CreatedAt()), "copies get fresh timestamps")
	assert.True(t, clone.ModifiedAt().After(orig.ModifiedAt()))
	assert.Equal(t, "deep", string(clone.Content()))

	cloneDir, err := tree.Resolve(s.Root(), "/dst/src")
	require.NoError(t, err)
	srcDir, err := tree.Resolve(s.Root(), "/src")
	require.NoError(t, err)
	assert.NotEqual(t, srcDir.ID(), cloneDir.ID())

	// Mutations on either side stay on that side.
	require.NoError(t, s.ChangeDirectory("src"))
	require.NoError(t, s.Write("a.txt", []byte("+changed"), core.WriteAppend))
	require.NoError(t, s.ChangeDirectory(".."))
	require.NoError(t, s.ChangeDirectory("dst"))
	require.NoError(t, s.ChangeDirectory("src"))
	require.NoError(t, s.Write("a.txt", []byte("clone only"), core.WriteOverwrite))

	assert.Equal(t, "orig+changed", string(mustFile(t, s, "src", "a.txt").Content()))
	assert.Equal(t, "clone only", string(mustFile(t, s, "dst/src", "a.txt").Content()))

	require.NoError(t, s.ChangeDirectory(".."))
	require.NoError(t, s.ChangeDirectory(".."))
	assert.ErrorIs(t, s.CopyTo("src", core.KindDirectory, "/dst"), core.ErrNameCollision)
}

func TestCopyDirectoryIntoItself(t *testing.T) {
	s := newSession(t, map[string]string{"a/b/f": "x"})

	require.NoError(t, s.CopyTo("a", core.KindDirectory, "/a/b"))
	assert.Equal(t, map[string]string{
		"/a":         "<dir>",
		"/a/b":       "<dir>",
		"/a/b/f":     "x",
		"/a/b/a":     "<dir>",
		"/a/b/a/b":   "<dir>",
		"/a/b/a/b/f": "x",
	}, testutil.Snapshot(t, s.Root()))
	assertConsistent(t, s)
}

func TestCopyFile(t *testing.T) {
	s := newSession(t, map[string]string{"a.txt": "data", "dst/": ""})
	dst, err := tree.Resolve(s.Root(), "dst")
	require.NoError(t, err)

	require.NoError(t, s.CopyFile("a.txt", dst))
	require.NoError(t, s.Write("a.txt", []byte("changed"), core.WriteOverwrite))

	clone := mustFile(t, s, "dst", "a.txt")
	assert.Equal(t, "data", string(clone.Content()))
	assert.NotEqual(t, mustFile(t, s, "/", "a.txt").ID(), clone.ID())
	assert.ErrorIs(t, s.CopyFile("a.txt", dst), core.ErrNameCollision)
	assert.ErrorIs(t, s.CopyFile("dst", dst), core.ErrNotFound, "a directory is not a file")
	assert.ErrorIs(t, s.CopyDirectory("a.txt", dst), core.ErrNotFound)
	assert.ErrorIs(t, s.CopyTo("a.txt", core.KindFile, "/missing"), core.ErrInvalidPath)
}

func TestDeleteAll(t *testing.T) {
	s := newSession(t, map[string]string{"a/b/c.txt": "x", "top.txt": "y"})
	require.NoError(t, s.ChangeDirectory("a"))
	want := testutil.Snapshot(t, s.Root())

	err := s.DeleteAll(false)
	assert.ErrorIs(t, err, core.ErrNotConfirmed)
	assert.Equal(t, want, testutil.Snapshot(t, s.Root()))
	assert.Equal(t, "/a", s.CwdPath())

	require.NoError(t, s.DeleteAll(true))
	dirs, files := s.Root().Counts()
	assert.Zero(t, dirs)
	assert.Zero(t, files)
	assert.Equal(t, "/", s.CwdPath())
	assertConsistent(t, s)
}

func TestBatchCreateFiles(t *testing.T) {
	s := newSession(t, map[string]string{"b.txt": ""})

	results := s.BatchCreateFiles("a.txt, b.txt,,c.txt,a.txt,bad|name")
	require.Len(t, results, 5)

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt", "a.txt", "bad|name"}, names)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, core.ErrNameCollision)
	assert.NoError(t, results[2].Err)
	assert.ErrorIs(t, results[3].Err, core.ErrNameCollision)
	assert.ErrorIs(t, results[4].Err, core.ErrInvalidName)

	assert.Empty(t, s.BatchCreateFiles(" , ,"))
	assert.Equal(t, map[string]string{"/a.txt": "", "/b.txt": "", "/c.txt": ""}, testutil.Snapshot(t, s.Root()))
}

func TestSaveReloadScenario(t *testing.T) {
	ctx := context.Background()
	st := store.New(filesystem.NewTestFileSystem(), "fs_data.txt")

	first := newSession(t, nil)
	require.NoError(t, first.CreateDirectory("docs"))
	require.NoError(t, first.ChangeDirectory("docs"))
	require.NoError(t, first.CreateFile("a.txt"))
	require.NoError(t, first.Write("a.txt", []byte("hello\n"), core.WriteOverwrite))
	require.NoError(t, st.Save(ctx, first.Root()))

	root, err := st.Load(ctx)
	require.NoError(t, err)
	second := memfs.NewSession(root, memfs.WithClock(testutil.FakeClock()))
	require.NoError(t, second.ChangeDirectory("docs"))

	got, err := second.Read("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))
	assert.ErrorIs(t, second.CreateFile("a.txt"), core.ErrNameCollision)
	testutil.AssertTreesEqual(t, first.Root(), second.Root())
}

func TestEvents(t *testing.T) {
	s := newSession(t, map[string]string{"dst/": ""})

	var seen []string
	var changes []core.NodeChange
	types := append([]string{core.EventTreeLoaded}, core.MutationEvents...)
	s.EventBus().SubscribeAll(types,
		core.EventHandlerFunc(func(ctx context.Context, event core.Event) error {
			seen = append(seen, event.Type())
			changes = append(changes, event.Data())
			return nil
		}))

	require.NoError(t, s.CreateDirectory("d"))
	require.NoError(t, s.CreateFile("f"))
	require.NoError(t, s.Write("f", []byte("x"), core.WriteOverwrite))
	require.NoError(t, s.Rename("f", "g", core.KindFile))
	require.NoError(t, s.CopyTo("g", core.KindFile, "/d"))
	require.NoError(t, s.MoveTo("g", core.KindFile, "/dst"))
	require.NoError(t, s.DeleteDirectory("d"))
	assert.Error(t, s.DeleteFile("missing"))
	require.NoError(t, s.DeleteAll(true))
	s.Replace(tree.NewRoot())

	assert.Equal(t, []string{
		core.EventDirectoryCreated,
		core.EventFileCreated,
		core.EventFileWritten,
		core.EventNodeRenamed,
		core.EventNodeCopied,
		core.EventNodeMoved,
		core.EventDirectoryDeleted,
		core.EventTreeCleared,
		core.EventTreeLoaded,
	}, seen, "failed operations publish nothing")
	assert.Equal(t, core.NodeChange{Kind: core.KindFile, Path: "/g", From: "/f"}, changes[3])
	assert.Equal(t, core.NodeChange{Kind: core.KindFile, Path: "/d/g", From: "/g"}, changes[4])
	assert.Equal(t, core.NodeChange{Kind: core.KindFile, Path: "/dst/g", From: "/g"}, changes[5])
}

func TestReplace(t *testing.T) {
	s := newSession(t, map[string]string{"a/": ""})
	require.NoError(t, s.ChangeDirectory("a"))

	fresh := testutil.BuildTree(t, testutil.Epoch, map[string]string{"z.txt": "z"})
	s.Replace(fresh)

	assert.Same(t, fresh, s.Root())
	assert.Same(t, fresh, s.Cwd())
	got, err := s.Read("z.txt")
	require.NoError(t, err)
	assert.Equal(t, "z", string(got))
}
