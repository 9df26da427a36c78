// Package filesystem reads directories and captures per-entry metadata.
package filesystem

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hsaliak/lsgo/internal/config"
	"github.com/hsaliak/lsgo/internal/parallel"
	"github.com/hsaliak/lsgo/pkg/models"
	"go.uber.org/zap"
)

// Collector produces the entries of one directory or a single path
type Collector struct {
	config   *config.Options
	logger   *zap.Logger
	strategy parallel.Strategy
}

// NewCollector creates a new entry collector
func NewCollector(cfg *config.Options, logger *zap.Logger) *Collector {
	return &Collector{
		config: cfg,
		logger: logger,
		strategy: parallel.Strategy{
			Workers:   cfg.Workers,
			Threshold: cfg.ParallelThreshold,
		},
	}
}

// Collect returns the entries for path. A directory yields its filtered
// children in read order; any other file type yields a single entry for the
// path itself. commandLine marks paths named by the user, which matters for
// the symlink follow policy.
func (c *Collector) Collect(path string, commandLine bool) ([]models.Entry, error) {
	follow := c.followTopLevel(commandLine)

	top, err := c.capture(filepath.Base(path), path, follow)
	if err != nil {
		return nil, err
	}
	if !top.Metadata.IsDir() {
		return []models.Entry{top}, nil
	}

	names, err := readNames(path)
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0, len(names)+2)
	if c.config.ShowHidden == config.HiddenAll {
		candidates = append(candidates, ".", "..")
	}
	for _, name := range names {
		if c.visible(name) {
			candidates = append(candidates, name)
		}
	}

	followChildren := c.config.Follow == config.FollowAlways
	entries := parallel.Map(c.strategy, candidates, func(name string) (models.Entry, bool) {
		entry, err := c.capture(name, joinPath(path, name), followChildren)
		if err != nil {
			c.logger.Debug("Dropping entry", zap.String("path", joinPath(path, name)), zap.Error(err))
			return models.Entry{}, false
		}
		return entry, true
	})

	c.logger.Debug("Directory collected",
		zap.String("path", path),
		zap.Int("entries", len(entries)),
		zap.Bool("parallel", c.strategy.Enabled(len(candidates))))

	return entries, nil
}

// followTopLevel decides whether the named path itself is dereferenced
func (c *Collector) followTopLevel(commandLine bool) bool {
	switch c.config.Follow {
	case config.FollowAlways:
		return true
	case config.FollowCommandLine:
		return commandLine
	default:
		return false
	}
}

// visible applies the hidden-entry policy to a raw directory name
func (c *Collector) visible(name string) bool {
	if !strings.HasPrefix(name, ".") {
		return true
	}
	if c.config.ShowHidden == config.HiddenNone {
		return false
	}
	// "." and ".." are synthesized separately under HiddenAll
	return name != "." && name != ".."
}

// capture snapshots one entry. The symlink flag and target always describe
// the raw entry; with follow set the metadata comes from the link target,
// falling back to the link itself when the target is missing.
func (c *Collector) capture(name, path string, follow bool) (models.Entry, error) {
	meta, err := statPath(path, false)
	if err != nil {
		return models.Entry{}, err
	}

	entry := models.Entry{
		Name:     name,
		Path:     path,
		Metadata: meta,
	}

	if !meta.IsSymlink() {
		return entry, nil
	}

	entry.IsSymlink = true
	if target, err := os.Readlink(path); err == nil {
		entry.SymlinkTarget = target
	} else {
		c.logger.Debug("Failed to read link target", zap.String("path", path), zap.Error(err))
	}

	if follow {
		if resolved, err := statPath(path, true); err == nil {
			entry.Metadata = resolved
		} else {
			c.logger.Debug("Dangling symlink", zap.String("path", path), zap.Error(err))
		}
	}

	return entry, nil
}

// readNames lists the raw names of a directory in the order the OS returns
func readNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.Readdirnames(-1)
}

// joinPath appends a child name, keeping the parent spelling as given
func joinPath(parent, name string) string {
	if strings.HasSuffix(parent, "/") {
		return parent + name
	}
	return parent + "/" + name
}
