package main

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/memfs/pkg/memfs"
)

func newTreeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the stored tree",
		Long:  "Load the store and print the whole tree without starting the shell",
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
			return memfs.NewSession(root).RenderTree(cmd.OutOrStdout())
		},
	}
}
