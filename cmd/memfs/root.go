package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/memfs/pkg/memfs"
	"github.com/arthur-debert/memfs/pkg/memfs/config"
	"github.com/arthur-debert/memfs/pkg/memfs/store"
)

var flags struct {
	configFile  string
	store       string
	logLevel    string
	compression string
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memfs",
	Short: "An in-memory file tree with an interactive shell",
	Long: `memfs keeps a tree of directories and files in memory and lets you
create, move, copy, edit and search them from an interactive shell.
The whole tree is saved to a single store file on exit and restored on start.`,
	SilenceUsage: true,
	RunE:         runShell,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "YAML config file")
	pf.StringVar(&flags.store, "store", "", "store file (default fs_data.txt)")
	pf.StringVar(&flags.logLevel, "log-level", "", "trace, debug, info, warn or error (default warn)")
	pf.StringVar(&flags.compression, "compression", "", "store compression: none or zstd (default none)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newShellCommand())
	rootCmd.AddCommand(newTreeCommand())
	rootCmd.AddCommand(newCheckCommand())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the version number of memfs`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "memfs version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// loadConfig resolves settings from defaults, the config file, the
// environment and finally any flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return nil, err
	}
	pf := cmd.Flags()
	if pf.Changed("store") {
		cfg.Store = flags.store
	}
	if pf.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if pf.Changed("compression") {
		cfg.Compression = flags.compression
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = zerolog.WarnLevel
	}
	return memfs.NewLogger(cmd.ErrOrStderr(), level)
}

func openStore(cfg *config.Config, logger zerolog.Logger) *store.Store {
	return store.Open(cfg.Store,
		store.WithCompression(cfg.Compression),
		store.WithLogger(logger),
	)
}
