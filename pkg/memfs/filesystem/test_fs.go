package filesystem

import (
	"bytes"
	"io/fs"
	"testing/fstest"
)

// TestFileSystem extends fstest.MapFS to implement FileSystem in memory.
type TestFileSystem struct {
	fstest.MapFS

	// WriteErr, when set, is returned by every write operation.
	WriteErr error
}

// NewTestFileSystem creates a new test filesystem based on fstest.MapFS
func NewTestFileSystem() *TestFileSystem {
	return &TestFileSystem{
		MapFS: make(fstest.MapFS),
	}
}

// NewTestFileSystemFromMap creates a test filesystem from an existing map
func NewTestFileSystemFromMap(files map[string]*fstest.MapFile) *TestFileSystem {
	return &TestFileSystem{
		MapFS: files,
	}
}

// WriteFile implements WriteFS for testing
func (tfs *TestFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if tfs.WriteErr != nil {
		return &fs.PathError{Op: "writefile", Path: name, Err: tfs.WriteErr}
	}
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "writefile", Path: name, Err: fs.ErrInvalid}
	}
	tfs.MapFS[name] = &fstest.MapFile{
		Data: bytes.Clone(data),
		Mode: perm,
	}
	return nil
}

// MkdirAll implements WriteFS for testing
func (tfs *TestFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	if tfs.WriteErr != nil {
		return &fs.PathError{Op: "mkdirall", Path: path, Err: tfs.WriteErr}
	}
	if !fs.ValidPath(path) {
		return &fs.PathError{Op: "mkdirall", Path: path, Err: fs.ErrInvalid}
	}
	if path == "." {
		return nil
	}
	tfs.MapFS[path] = &fstest.MapFile{
		Mode: perm | fs.ModeDir,
	}
	return nil
}

// Remove implements WriteFS for testing
func (tfs *TestFileSystem) Remove(name string) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrInvalid}
	}
	if _, exists := tfs.MapFS[name]; !exists {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(tfs.MapFS, name)
	return nil
}

// Rename implements WriteFS for testing; an existing newpath is replaced.
func (tfs *TestFileSystem) Rename(oldpath, newpath string) error {
	if tfs.WriteErr != nil {
		return &fs.PathError{Op: "rename", Path: newpath, Err: tfs.WriteErr}
	}
	if !fs.ValidPath(oldpath) || !fs.ValidPath(newpath) {
		return &fs.PathError{Op: "rename", Path: newpath, Err: fs.ErrInvalid}
	}
	file, exists := tfs.MapFS[oldpath]
	if !exists {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	tfs.MapFS[newpath] = file
	delete(tfs.MapFS, oldpath)
	return nil
}
