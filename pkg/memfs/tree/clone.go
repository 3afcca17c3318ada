package tree

import (
	"bytes"
	"time"
)

// CloneFile returns a detached copy of f with a fresh identity, cloned
// content and both timestamps set to now.
func CloneFile(f *File, now time.Time) *File {
	clone := NewFile(f.name, now)
	clone.content = bytes.Clone(f.content)
	return clone
}

// CloneDirectory deep-copies d and its whole subtree. Every node in the
// copy is new and stamped with now; nothing is shared with the original.
func CloneDirectory(d *Directory, now time.Time) *Directory {
	clone := NewDirectory(d.name)
	for name, n := range d.children {
		var child Node
		switch c := n.(type) {
		case *Directory:
			child = CloneDirectory(c, now)
		case *File:
			child = CloneFile(c, now)
		}
		child.base().parent = clone
		clone.children[name] = child
	}
	return clone
}
