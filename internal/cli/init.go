package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todo/internal/paths"
	"github.com/mesh-intelligence/todo/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize todo storage",
		Long:  "Create the configuration and data directories, write a default config.yaml,\nand initialize the storage backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

// initResult is the --json output of init.
type initResult struct {
	ConfigDir     string `json:"config_dir"`
	DataDir       string `json:"data_dir"`
	ConfigWritten bool   `json:"config_written"`
}

func (a *app) runInit(cmd *cobra.Command) error {
	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return systemError(fmt.Errorf("create config directory: %w", err))
	}

	// An explicit --data-dir is recorded so later commands find the same
	// data without repeating the flag.
	var recordedDataDir string
	if a.flags.dataDir != "" {
		abs, err := filepath.Abs(a.flags.dataDir)
		if err != nil {
			return systemError(fmt.Errorf("resolve data dir: %w", err))
		}
		recordedDataDir = abs
	}
	written, err := writeConfigIfMissing(paths.ConfigFile(a.configDir), recordedDataDir)
	if err != nil {
		return systemError(err)
	}

	cfg, err := a.storeConfig()
	if err != nil {
		return err
	}
	// Attaching creates the data directory and its empty JSONL files.
	if err := a.withStore(func(types.Store) error { return nil }); err != nil {
		return err
	}
	dataDir := cfg.DataDir

	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), initResult{
			ConfigDir:     a.configDir,
			DataDir:       dataDir,
			ConfigWritten: written,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "todo initialized in %s\n", dataDir)
	return nil
}
