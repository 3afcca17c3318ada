package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/memfs/pkg/memfs/codec"
	"github.com/arthur-debert/memfs/pkg/memfs/tree"
	"github.com/arthur-debert/memfs/pkg/memfs/validation"
)

func newCheckCommand() *cobra.Command {
	var checksums bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the store",
		Long:  "Load the store, verify every tree invariant and report what it holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			root, err := openStore(cfg, newLogger(cmd, cfg)).Load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var dirs, files int
			var bytes int64
			err = tree.Walk(root, func(n tree.Node, depth int) error {
				switch v := n.(type) {
				case *tree.Directory:
					if depth > 0 {
						dirs++
					}
				case *tree.File:
					files++
					sum := validation.ComputeFileChecksum(v)
					bytes += sum.Size
					if checksums {
						fmt.Fprintf(out, "%s  %s  %s\n", sum.MD5, codec.FormatTime(sum.ModTime), sum.Path)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s: ok, %d directories, %d files, %d bytes\n", cfg.Store, dirs, files, bytes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&checksums, "checksums", false, "print an MD5 line per file")
	return cmd
}
