package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/hsaliak/lsgo/internal/config"
	"github.com/hsaliak/lsgo/internal/filesystem"
	"github.com/hsaliak/lsgo/internal/identity"
	"github.com/hsaliak/lsgo/internal/layout"
	"github.com/hsaliak/lsgo/internal/parallel"
	"github.com/hsaliak/lsgo/internal/sorting"
	"github.com/hsaliak/lsgo/internal/terminal"
	"go.uber.org/zap"
)

// Program is the name used as the prefix of diagnostic lines
const Program = "ls"

// Lister is the listing engine: it runs collect, sort and render for each
// requested path and recurses into subdirectories when asked to
type Lister struct {
	config     *config.Options
	logger     *zap.Logger
	collector  *filesystem.Collector
	comparator *sorting.Comparator
	renderer   *layout.Renderer
	strategy   parallel.Strategy
	out        *bufio.Writer
	errOut     io.Writer
}

// NewLister creates a new lister writing listings to out and diagnostics to errOut
func NewLister(cfg *config.Options, logger *zap.Logger, names *identity.Resolver, term terminal.Terminal, out, errOut io.Writer) *Lister {
	return &Lister{
		config:     cfg,
		logger:     logger,
		collector:  filesystem.NewCollector(cfg, logger),
		comparator: sorting.NewComparator(cfg),
		renderer:   layout.NewRenderer(cfg, logger, names, term, layout.ColorEnabled(cfg, term)),
		strategy: parallel.Strategy{
			Workers:   cfg.Workers,
			Threshold: cfg.ParallelThreshold,
		},
		out:    bufio.NewWriter(out),
		errOut: errOut,
	}
}

// Run lists every path, defaulting to the current directory. Unreadable paths
// are reported and skipped; only a failure to write output is returned.
func (l *Lister) Run(paths []string) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	l.logger.Debug("Starting listing",
		zap.Strings("paths", paths),
		zap.String("shape", l.renderer.Shape().String()))

	for i, path := range paths {
		if len(paths) > 1 {
			if i > 0 {
				if err := l.out.WriteByte('\n'); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(l.out, "%s:\n", path); err != nil {
				return err
			}
		}

		if err := l.list(path, true); err != nil {
			return err
		}
	}

	return l.out.Flush()
}

// list runs the pipeline for one path and then for each child directory
func (l *Lister) list(path string, commandLine bool) error {
	entries, err := l.collector.Collect(path, commandLine)
	if err != nil {
		return l.report(path, err)
	}

	l.comparator.Sort(l.strategy, entries)

	if err := l.renderer.Render(l.out, entries); err != nil {
		return fmt.Errorf("failed to write listing of %s: %w", path, err)
	}

	if !l.config.Recursive {
		return nil
	}

	for i := range entries {
		e := &entries[i]
		if !e.Metadata.IsDir() || e.Name == "." || e.Name == ".." {
			continue
		}
		if _, err := fmt.Fprintf(l.out, "\n%s:\n", e.Path); err != nil {
			return err
		}
		if err := l.list(e.Path, false); err != nil {
			return err
		}
	}

	return nil
}

// report writes a path-level diagnostic after flushing pending output so the
// two streams interleave in order. It only fails if the flush fails.
func (l *Lister) report(path string, err error) error {
	l.logger.Debug("Path failed", zap.String("path", path), zap.Error(err))

	if ferr := l.out.Flush(); ferr != nil {
		return ferr
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	fmt.Fprintf(l.errOut, "%s: %s: %v\n", Program, path, err)
	return nil
}
