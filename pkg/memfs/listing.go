package memfs

import (
	"fmt"
	"time"

	"github.com/arthur-debert/memfs/pkg/memfs/core"
	"github.com/arthur-debert/memfs/pkg/memfs/tree"
)

// DirEntry describes a subdirectory in a listing.
type DirEntry struct {
	Index int // 1-based
	Name  string
	Dirs  int
	Files int
}

// FileEntry describes a file in a listing.
type FileEntry struct {
	Index      int // 1-based
	Name       string
	CreatedAt  time.Time
	ModifiedAt time.Time
	Size       int
}

// Listing is the name-sorted content of one directory.
type Listing struct {
	Path  string
	Dirs  []DirEntry
	Files []FileEntry
}

// List enumerates the current directory.
func (s *Session) List() Listing {
	l := Listing{Path: s.CwdPath()}
	for i, d := range s.cwd.Dirs() {
		dirs, files := d.Counts()
		l.Dirs = append(l.Dirs, DirEntry{Index: i + 1, Name: d.Name(), Dirs: dirs, Files: files})
	}
	for i, f := range s.cwd.Files() {
		l.Files = append(l.Files, FileEntry{
			Index:      i + 1,
			Name:       f.Name(),
			CreatedAt:  f.CreatedAt(),
			ModifiedAt: f.ModifiedAt(),
			Size:       f.Size(),
		})
	}
	return l
}

// SelectDirectory maps a 1-based index onto a subdirectory name of the
// current directory.
func (s *Session) SelectDirectory(n int) (string, error) {
	dirs := s.cwd.Dirs()
	if n < 1 || n > len(dirs) {
		return "", selectionError(n, len(dirs), core.KindDirectory)
	}
	return dirs[n-1].Name(), nil
}

// SelectFile maps a 1-based index onto a file name of the current directory.
func (s *Session) SelectFile(n int) (string, error) {
	files := s.cwd.Files()
	if n < 1 || n > len(files) {
		return "", selectionError(n, len(files), core.KindFile)
	}
	return files[n-1].Name(), nil
}

// SelectChoice maps a 1-based index onto DirectoryChoices.
func (s *Session) SelectChoice(n int) (string, error) {
	choices := s.DirectoryChoices()
	if n < 1 || n > len(choices) {
		return "", selectionError(n, len(choices), core.KindDirectory)
	}
	return choices[n-1], nil
}

func selectionError(n, count int, kind core.Kind) error {
	if count == 0 {
		return fmt.Errorf("%w: no %s to select", core.ErrInvalidSelection, kind)
	}
	return fmt.Errorf("%w: %s %d out of range 1-%d", core.ErrInvalidSelection, kind, n, count)
}

// DirectoryInfo summarizes one directory.
type DirectoryInfo struct {
	Name  string
	Path  string
	Dirs  int
	Files int
}

// DirectoryInfo describes the current directory.
func (s *Session) DirectoryInfo() DirectoryInfo {
	dirs, files := s.cwd.Counts()
	return DirectoryInfo{
		Name:  s.cwd.Name(),
		Path:  tree.Path(s.cwd),
		Dirs:  dirs,
		Files: files,
	}
}
