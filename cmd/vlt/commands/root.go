// Package commands implements the vlt CLI (D1): a cobra command tree over
// the Vault Manager (C9), grounded on jra3-linear-fuse's
// cmd/linear-fuse/commands layout (root command + persistent flags + one
// file per subcommand) and enriched with the teacher's own command
// surface (read/write/move/delete/search/links/stats) reimplemented
// against the Link Graph and Edit Engine instead of the original flat
// dispatch table. Profile/config loading (D2) is delegated to
// internal/config, which owns its own viper instance.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RamXX/vlt/internal/config"
	"github.com/RamXX/vlt/internal/logging"
	"github.com/RamXX/vlt/internal/vaultmgr"
)

var (
	cfgFile    string
	vaultFlag  string
	jsonOutput bool
	csvOutput  bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "vlt",
	Short: "vlt -- vault management CLI for Markdown note vaults",
	Long: `vlt operates directly on a vault of Markdown notes: parsing
frontmatter, wikilinks, tags, tasks, and callouts; maintaining the Link
Graph; and applying atomic, all-or-nothing edits and batches.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.config/vlt/vlt.yaml)")
	rootCmd.PersistentFlags().StringVarP(&vaultFlag, "vault", "C", "", "vault root directory (overrides the active config profile)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON output where supported")
	rootCmd.PersistentFlags().BoolVar(&csvOutput, "csv", false, "emit CSV output where supported")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "enable verbose structured logging")
}

// vaultRoot resolves the vault directory for the current invocation: the
// --vault flag, then the active config profile, then the working
// directory.
func vaultRoot() (string, error) {
	if vaultFlag != "" {
		return vaultFlag, nil
	}
	if cfgFile != "" || fileExists(defaultConfigPath()) {
		cfg, err := config.Load(cfgFile)
		if err == nil {
			if p, ok := cfg.Active(); ok && p.VaultRoot != "" {
				return p.VaultRoot, nil
			}
		}
	}
	return os.Getwd()
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "vlt", "vlt.yaml")
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// openVault constructs a Vault Manager rooted at the resolved vault
// directory, with the full-text index enabled at <root>/.vlt/fts.db.
func openVault() (*vaultmgr.Manager, error) {
	root, err := vaultRoot()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(verbose)
	if err != nil {
		return nil, err
	}

	ftsDir := filepath.Join(root, ".vlt")
	if err := os.MkdirAll(ftsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create fts index directory: %w", err)
	}

	return vaultmgr.New(root, vaultmgr.Options{
		Logger:  log,
		FTSPath: filepath.Join(ftsDir, "fts.db"),
	})
}
