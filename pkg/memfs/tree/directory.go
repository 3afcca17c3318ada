package tree

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/memfs/pkg/memfs/core"
)

// Has reports whether any child, file or directory, uses name.
func (d *Directory) Has(name string) bool {
	_, ok := d.children[name]
	return ok
}

// Child returns the child with the given name.
func (d *Directory) Child(name string) (Node, bool) {
	n, ok := d.children[name]
	return n, ok
}

// Dir returns the subdirectory with the given name.
func (d *Directory) Dir(name string) (*Directory, bool) {
	sub, ok := d.children[name].(*Directory)
	return sub, ok
}

// File returns the file with the given name.
func (d *Directory) File(name string) (*File, bool) {
	f, ok := d.children[name].(*File)
	return f, ok
}

// Lookup returns the child of the given kind.
func (d *Directory) Lookup(name string, kind core.Kind) (Node, bool) {
	n, ok := d.children[name]
	if !ok || n.Kind() != kind {
		return nil, false
	}
	return n, true
}

// Attach inserts a detached node. It fails with core.ErrNameCollision if the
// name is taken by either kind.
func (d *Directory) Attach(n Node) error {
	b := n.base()
	if b.parent != nil {
		return fmt.Errorf("attach %q: node still owned by %q", b.name, b.parent.name)
	}
	if d.Has(b.name) {
		return fmt.Errorf("attach %q: %w", b.name, core.ErrNameCollision)
	}
	d.children[b.name] = n
	b.parent = d
	return nil
}

// Detach removes the child of the given kind and returns it without a parent.
func (d *Directory) Detach(name string, kind core.Kind) (Node, error) {
	n, ok := d.Lookup(name, kind)
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", kind, name, core.ErrNotFound)
	}
	delete(d.children, name)
	n.base().parent = nil
	return n, nil
}

// Rekey renames the child of the given kind in place.
func (d *Directory) Rekey(oldName, newName string, kind core.Kind) error {
	n, ok := d.Lookup(oldName, kind)
	if !ok {
		return fmt.Errorf("%s %q: %w", kind, oldName, core.ErrNotFound)
	}
	if d.Has(newName) {
		return fmt.Errorf("%q: %w", newName, core.ErrNameCollision)
	}
	delete(d.children, oldName)
	n.base().name = newName
	d.children[newName] = n
	return nil
}

// Clear drops every child.
func (d *Directory) Clear() {
	for _, n := range d.children {
		n.base().parent = nil
	}
	d.children = make(map[string]Node)
}

// Dirs returns the subdirectories sorted by name.
func (d *Directory) Dirs() []*Directory {
	dirs := make([]*Directory, 0, len(d.children))
	for _, n := range d.children {
		if sub, ok := n.(*Directory); ok {
			dirs = append(dirs, sub)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].name < dirs[j].name })
	return dirs
}

// Files returns the files sorted by name.
func (d *Directory) Files() []*File {
	files := make([]*File, 0, len(d.children))
	for _, n := range d.children {
		if f, ok := n.(*File); ok {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files
}

// Children returns every child sorted by name.
func (d *Directory) Children() []Node {
	nodes := make([]Node, 0, len(d.children))
	for _, n := range d.children {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name() < nodes[j].Name() })
	return nodes
}

// Len returns the number of direct children.
func (d *Directory) Len() int {
	return len(d.children)
}

// Counts returns the number of direct subdirectories and files.
func (d *Directory) Counts() (dirs, files int) {
	for _, n := range d.children {
		if n.Kind() == core.KindDirectory {
			dirs++
		} else {
			files++
		}
	}
	return dirs, files
}

// IsAncestorOf reports whether d is other or one of other's ancestors.
func (d *Directory) IsAncestorOf(other *Directory) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == d {
			return true
		}
	}
	return false
}

// Root follows parent links up to the root.
func (d *Directory) Root() *Directory {
	cur := d
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}
