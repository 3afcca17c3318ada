package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/arthur-debert/memfs/pkg/memfs"
	"github.com/arthur-debert/memfs/pkg/memfs/config"
	"github.com/arthur-debert/memfs/pkg/memfs/core"
	"github.com/arthur-debert/memfs/pkg/memfs/store"
)

// Example driving a session from code instead of the shell
func main() {
	ctx := context.Background()
	dir, err := os.MkdirTemp("", "memfs-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	logger := memfs.DefaultLogger()
	st := store.Open(filepath.Join(dir, "fs_data.zst"),
		store.WithCompression(config.CompressionZstd),
		store.WithLogger(logger))

	root, err := st.Load(ctx)
	if err != nil {
		log.Fatalf("load failed: %v", err)
	}
	s := memfs.NewSession(root, memfs.WithLogger(logger))

	fmt.Println("=== Building a tree ===")
	must(s.CreateDirectory("project"))
	must(s.ChangeDirectory("project"))
	for _, r := range s.BatchCreateFiles("README.md,main.go,config.yaml") {
		fmt.Printf("create %s: %v\n", r.Name, r.Err)
	}
	must(s.Write("config.yaml", []byte("version: 1.0\nname: my-app\n"), core.WriteOverwrite))
	must(s.ChangeDirectory(".."))
	must(s.CreateDirectory("backup"))
	must(s.CopyTo("project", core.KindDirectory, "/backup"))

	// Collisions are reported, never applied.
	if err := s.CreateDirectory("project"); err != nil {
		fmt.Printf("expected failure: %v\n", err)
	}

	fmt.Println("\n=== Tree ===")
	must(s.RenderTree(os.Stdout))

	matches, err := s.Glob("**/*.yaml")
	must(err)
	fmt.Printf("\nyaml files: %v\n", matches)

	must(st.Save(ctx, s.Root()))
	fmt.Println("saved to", st.Name())
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
