package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/memfs/pkg/memfs"
	"github.com/arthur-debert/memfs/pkg/memfs/shell"
)

func newShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell (default)",
		Long:  "Load the store, run the interactive shell and save the tree on exit",
		Args:  cobra.NoArgs,
		RunE:  runShell,
	}
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)
	st := openStore(cfg, logger)

	root, err := st.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("cannot start: %w", err)
	}

	session := memfs.NewSession(root, memfs.WithLogger(logger))
	sh := shell.New(session, st, cmd.InOrStdin(), cmd.OutOrStdout(), shell.Options{
		EOFMarker: cfg.EOFMarker,
		Prompt:    cfg.Prompt,
		Logger:    logger,
	})
	return sh.Run(cmd.Context())
}
