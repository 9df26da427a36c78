package main

import (
	"fmt"
	"os"

	"github.com/hsaliak/lsgo/internal/config"
	"github.com/hsaliak/lsgo/internal/core"
	"github.com/hsaliak/lsgo/internal/identity"
	"github.com/hsaliak/lsgo/internal/terminal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", core.Program, err)
		os.Exit(1)
	}
}

// newRootCmd creates the ls command
func newRootCmd() *cobra.Command {
	var (
		flags      config.Flags
		verbose    bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:           "ls [flags] [path...]",
		Short:         "List directory contents",
		Long:          `List information about the given paths (the current directory by default), sorted by name unless another order is requested.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			defaults, err := config.LoadDefaults(configPath)
			if err != nil {
				logger.Error("Failed to load defaults", zap.Error(err))
				return err
			}

			opts, err := config.Resolve(flags, defaults)
			if err != nil {
				return err
			}

			logger.Debug("Resolved options",
				zap.Int("workers", opts.Workers),
				zap.Int("parallel_threshold", opts.ParallelThreshold),
				zap.Bool("long", opts.Long),
				zap.Bool("recursive", opts.Recursive))

			term := terminal.New(cmd.OutOrStdout(), defaults.Columns)
			names := identity.NewResolver(logger)
			lister := core.NewLister(opts, logger, names, term, cmd.OutOrStdout(), cmd.ErrOrStderr())

			return lister.Run(args)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&flags.All, "all", "a", false, "Include directory entries whose names begin with a dot")
	f.BoolVarP(&flags.AlmostAll, "almost-all", "A", false, "List all entries except . and ..")
	f.BoolVarP(&flags.Long, "long", "l", false, "List in long format")
	f.BoolVarP(&flags.One, "one", "1", false, "Force output to be one entry per line")
	f.BoolVarP(&flags.SortTime, "sort-time", "t", false, "Sort by time, newest first")
	f.BoolVarP(&flags.SortSize, "sort-size", "S", false, "Sort by file size, largest first")
	f.BoolVarP(&flags.Reverse, "reverse", "r", false, "Reverse sort order")
	f.BoolVarP(&flags.NoSort, "no-sort", "f", false, "Do not sort, list entries in directory order (implies -a)")
	f.BoolVarP(&flags.Classify, "classify", "F", false, "Append indicator (one of /*=@|) to entries")
	f.BoolVarP(&flags.Slash, "slash", "p", false, "Append / to directories")
	f.BoolVar(&flags.HumanReadable, "human-readable", false, "Print sizes like 1.0K 23M 2.0G")
	f.BoolVarP(&flags.ColorFlag, "colorize", "G", false, "Enable colorized output")
	f.StringVar(&flags.ColorWhen, "color", "", "Color mode: auto, always, never")
	f.BoolVarP(&flags.Inode, "inode", "i", false, "Print the inode number of each entry")
	f.BoolVarP(&flags.Blocks, "blocks", "s", false, "Print the allocated block count of each entry")
	f.BoolVarP(&flags.Recursive, "recursive", "R", false, "List subdirectories recursively")
	f.BoolVarP(&flags.FollowAll, "dereference", "L", false, "Follow all symlinks to their targets")
	f.BoolVarP(&flags.FollowNone, "no-dereference", "P", false, "Never follow symlinks")
	f.BoolVarP(&flags.FollowArgs, "dereference-command-line", "H", false, "Follow symlinks named on the command line")
	f.BoolVarP(&flags.CTime, "ctime", "c", false, "Use status change time for sorting and display")
	f.BoolVarP(&flags.ATime, "atime", "u", false, "Use access time for sorting and display")
	f.BoolVarP(&flags.BirthTime, "birthtime", "U", false, "Use creation time for sorting and display")
	f.BoolVarP(&flags.ColumnsDown, "columns-down", "C", false, "Force multi-column output, filled down columns")
	f.BoolVarP(&flags.ColumnsAcross, "columns-across", "x", false, "Force multi-column output, filled across rows")
	f.BoolVarP(&flags.Stream, "stream", "m", false, "Comma-separated stream output")
	f.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	f.StringVar(&configPath, "config", "", "Path to a YAML defaults file (default $LS_CONFIG)")

	return cmd
}

// newLogger returns a development logger when verbose, otherwise an
// error-only JSON logger on stderr
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	return cfg.Build()
}
