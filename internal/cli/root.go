// Package cli implements the todo command-line interface. The root command
// owns the Store lifecycle: each subcommand attaches a backend, runs, and
// detaches before returning.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/todo/internal/paths"
	"github.com/mesh-intelligence/todo/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app carries the state of one invocation.
type app struct {
	flags     rootFlags
	configDir string
	config    *viper.Viper
	logger    *zap.Logger
}

// NewRootCmd creates the top-level "todo" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:     "todo",
		Short:   "Manage to-do lists from the command line",
		Long:    "todo keeps categories of to-do items in a local data directory.\nData is stored as JSONL files and queried through SQLite.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = newLogger(cmd.ErrOrStderr(), a.flags.verbose)

			configDir, err := paths.ResolveConfigDir(a.flags.configDir)
			if err != nil {
				return systemError(fmt.Errorf("resolve config dir: %w", err))
			}
			a.configDir = configDir

			v, err := loadConfig(configDir)
			if err != nil {
				return systemError(err)
			}
			a.config = v
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir, or $TODO_CONFIG_DIR)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.todo-db)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newCategoryCmd(a))
	root.AddCommand(newItemCmd(a))

	return root
}

// Execute runs the root command against the process arguments and exits
// with the matching code.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the CLI with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		return exitCode(err)
	}
	return exitSuccess
}

// newLogger builds a production JSON logger writing to w. Debug events are
// enabled when verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config.EncoderConfig),
		zapcore.AddSync(w),
		config.Level,
	)
	return zap.New(core)
}

// sysError marks an error as a system failure for exit code purposes.
type sysError struct {
	err error
}

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func systemError(err error) error {
	return &sysError{err: err}
}

// exitCode maps an error to the process exit code. Storage failures, a
// locked data directory, and errors marked with systemError are system
// errors; everything else is the user's to fix.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *sysError
	switch {
	case errors.As(err, &se),
		errors.Is(err, types.ErrStorage),
		errors.Is(err, types.ErrLocked):
		return exitSysError
	default:
		return exitUserError
	}
}
