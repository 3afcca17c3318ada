package codec

import (
	"bufio"
	"fmt"
	"io"

	"github.com/arthur-debert/memfs/pkg/memfs/tree"
)

// Encode writes root breadth-first: at each directory, a record for every
// immediate subdirectory, then a record for every immediate file. The root
// itself is implicit and gets no record.
func Encode(w io.Writer, root *tree.Directory) error {
	bw := bufio.NewWriter(w)

	err := tree.BreadthFirst(root, func(dir *tree.Directory) error {
		for _, sub := range dir.Dirs() {
			if _, err := fmt.Fprintf(bw, "%s%s%c", dirPrefix, tree.Path(sub), Separator); err != nil {
				return err
			}
		}
		for _, f := range dir.Files() {
			if err := encodeFile(bw, f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	return nil
}

func encodeFile(bw *bufio.Writer, f *tree.File) error {
	content := f.Content()
	_, err := fmt.Fprintf(bw, "%s%s|%s|%s|%d%c",
		filePrefix, tree.Path(f), FormatTime(f.CreatedAt()), FormatTime(f.ModifiedAt()), len(content), Separator)
	if err != nil {
		return err
	}
	if _, err := bw.Write(content); err != nil {
		return err
	}
	return bw.WriteByte(Separator)
}
