package memfs

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/memfs/pkg/memfs/tree"
)

const indent = "  "

// RenderTree prints the whole tree from the root, whatever the cursor. A
// directory prints as "+ name/" and a file as "- name", indented two spaces
// per level. Each directory lists its files before its subdirectories.
func (s *Session) RenderTree(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := renderDir(bw, s.root, 0); err != nil {
		return err
	}
	return bw.Flush()
}

func renderDir(w *bufio.Writer, dir *tree.Directory, depth int) error {
	if _, err := fmt.Fprintf(w, "%s+ %s/\n", strings.Repeat(indent, depth), dir.Name()); err != nil {
		return err
	}
	for _, f := range dir.Files() {
		if _, err := fmt.Fprintf(w, "%s- %s\n", strings.Repeat(indent, depth+1), f.Name()); err != nil {
			return err
		}
	}
	for _, sub := range dir.Dirs() {
		if err := renderDir(w, sub, depth+1); err != nil {
			return err
		}
	}
	return nil
}
