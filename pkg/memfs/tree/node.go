// Package tree provides the in-memory directory tree: directories own their
// children through a single name space, files hold raw byte content.
package tree

import (
	"bytes"
	"time"

	"github.com/google/uuid"

	"github.com/arthur-debert/memfs/pkg/memfs/core"
)

// RootName is the display name of every tree root.
const RootName = "root"

// Node is either a *Directory or a *File.
type Node interface {
	// ID returns the node identity, unique per node instance
	ID() string
	// Name returns the node name within its parent
	Name() string
	// Parent returns the owning directory, nil for a root or a detached node
	Parent() *Directory
	// Kind reports whether the node is a directory or a file
	Kind() core.Kind

	base() *nodeBase
}

type nodeBase struct {
	id     string
	name   string
	parent *Directory
}

func newBase(name string) nodeBase {
	return nodeBase{id: uuid.NewString(), name: name}
}

func (b *nodeBase) ID() string         { return b.id }
func (b *nodeBase) Name() string       { return b.name }
func (b *nodeBase) Parent() *Directory { return b.parent }
func (b *nodeBase) base() *nodeBase    { return b }

// File is a named byte sequence with creation and modification times.
type File struct {
	nodeBase
	content    []byte
	createdAt  time.Time
	modifiedAt time.Time
}

// NewFile creates an empty file stamped with now.
func NewFile(name string, now time.Time) *File {
	return &File{
		nodeBase:   newBase(name),
		createdAt:  now,
		modifiedAt: now,
	}
}

// RestoreFile recreates a file with known content and timestamps, as read
// from a persisted store. The content slice is copied.
func RestoreFile(name string, content []byte, createdAt, modifiedAt time.Time) *File {
	return &File{
		nodeBase:   newBase(name),
		content:    bytes.Clone(content),
		createdAt:  createdAt,
		modifiedAt: modifiedAt,
	}
}

func (f *File) Kind() core.Kind { return core.KindFile }

// Content returns a copy of the file content.
func (f *File) Content() []byte {
	return bytes.Clone(f.content)
}

// Size returns the content length in bytes.
func (f *File) Size() int {
	return len(f.content)
}

func (f *File) CreatedAt() time.Time  { return f.createdAt }
func (f *File) ModifiedAt() time.Time { return f.modifiedAt }

// Write replaces or extends the content and stamps modifiedAt with now.
// A clock that runs backwards never moves modifiedAt before createdAt.
func (f *File) Write(data []byte, mode core.WriteMode, now time.Time) {
	switch mode {
	case core.WriteAppend:
		f.content = append(f.content, data...)
	default:
		f.content = bytes.Clone(data)
	}
	if now.Before(f.createdAt) {
		now = f.createdAt
	}
	f.modifiedAt = now
}

// Directory owns its subdirectories and files. Both kinds share one name space.
type Directory struct {
	nodeBase
	children map[string]Node
}

// NewRoot creates the root of an empty tree.
func NewRoot() *Directory {
	return NewDirectory(RootName)
}

// NewDirectory creates a detached, empty directory.
func NewDirectory(name string) *Directory {
	return &Directory{
		nodeBase: newBase(name),
		children: make(map[string]Node),
	}
}

func (d *Directory) Kind() core.Kind { return core.KindDirectory }

// IsRoot reports whether the directory has no parent.
func (d *Directory) IsRoot() bool {
	return d.parent == nil
}
