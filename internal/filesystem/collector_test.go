package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/hsaliak/lsgo/internal/config"
	"github.com/hsaliak/lsgo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

func newTestCollector(opts *config.Options) *Collector {
	if opts.Workers == 0 {
		opts.Workers = 1
	}
	if opts.ParallelThreshold == 0 {
		opts.ParallelThreshold = 1000
	}
	return NewCollector(opts, zap.NewNop())
}

func entryNames(entries []models.Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	sort.Strings(names)
	return names
}

func writeFile(t *testing.T, path string, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
}

func TestCollect_HiddenFiltering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".hidden"), "", 0644)
	writeFile(t, filepath.Join(dir, "visible"), "", 0644)

	tests := []struct {
		name     string
		hidden   config.ShowHidden
		expected []string
	}{
		{"Default hides dotfiles", config.HiddenNone, []string{"visible"}},
		{"All adds dot entries", config.HiddenAll, []string{".", "..", ".hidden", "visible"}},
		{"Almost all omits dot entries", config.HiddenAlmost, []string{".hidden", "visible"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCollector(&config.Options{ShowHidden: tt.hidden})
			entries, err := c.Collect(dir, true)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, entryNames(entries))
		})
	}
}

func TestCollect_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	writeFile(t, path, "hello", 0640)

	entries, err := newTestCollector(&config.Options{}).Collect(path, true)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "file.txt", e.Name)
	assert.Equal(t, path, e.Path)
	assert.Equal(t, int64(5), e.Metadata.Size)
	assert.Equal(t, models.TypeRegular, e.Metadata.Type())
	assert.Equal(t, uint32(0640), e.Metadata.Mode&0o777)
	assert.False(t, e.IsSymlink)
	assert.Empty(t, e.SymlinkTarget)
	assert.False(t, e.Metadata.ModTime.IsZero())
}

func TestCollect_Metadata(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "run.sh"), "#!/bin/sh\n", 0755)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, unix.Mkfifo(filepath.Join(dir, "pipe"), 0644))

	entries, err := newTestCollector(&config.Options{}).Collect(dir, true)
	require.NoError(t, err)

	byName := make(map[string]models.Entry)
	for _, e := range entries {
		byName[e.Name] = e
	}

	run := byName["run.sh"]
	assert.True(t, run.Metadata.IsExecutable())
	assert.Equal(t, filepath.Join(dir, "run.sh"), run.Path)
	assert.GreaterOrEqual(t, run.Metadata.Nlink, uint64(1))
	assert.NotZero(t, run.Metadata.Inode)

	sub := byName["sub"]
	assert.True(t, sub.Metadata.IsDir())

	pipe := byName["pipe"]
	assert.Equal(t, models.TypeFIFO, pipe.Metadata.Type())
}

func TestCollect_Symlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(target, 0755))
	writeFile(t, filepath.Join(target, "inner"), "", 0644)
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink("target", link))
	require.NoError(t, os.Symlink("missing", filepath.Join(dir, "dangling")))

	t.Run("Link is captured without following", func(t *testing.T) {
		entries, err := newTestCollector(&config.Options{}).Collect(dir, true)
		require.NoError(t, err)

		var found bool
		for _, e := range entries {
			if e.Name != "link" {
				continue
			}
			found = true
			assert.True(t, e.IsSymlink)
			assert.True(t, e.Metadata.IsSymlink())
			assert.Equal(t, "target", e.SymlinkTarget)
		}
		assert.True(t, found)
	})

	t.Run("Top-level link is a single entry by default", func(t *testing.T) {
		entries, err := newTestCollector(&config.Options{}).Collect(link, true)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "link", entries[0].Name)
		assert.True(t, entries[0].IsSymlink)
	})

	t.Run("Command-line follow lists the target directory", func(t *testing.T) {
		c := newTestCollector(&config.Options{Follow: config.FollowCommandLine})

		entries, err := c.Collect(link, true)
		require.NoError(t, err)
		assert.Equal(t, []string{"inner"}, entryNames(entries))

		entries, err = c.Collect(link, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"link"}, entryNames(entries))
	})

	t.Run("Always follow resolves children", func(t *testing.T) {
		entries, err := newTestCollector(&config.Options{Follow: config.FollowAlways}).Collect(dir, false)
		require.NoError(t, err)

		for _, e := range entries {
			switch e.Name {
			case "link":
				assert.True(t, e.IsSymlink)
				assert.True(t, e.Metadata.IsDir())
			case "dangling":
				assert.True(t, e.IsSymlink)
				assert.True(t, e.Metadata.IsSymlink(), "dangling link keeps its own metadata")
				assert.Equal(t, "missing", e.SymlinkTarget)
			}
		}
	})
}

func TestCollect_MissingPath(t *testing.T) {
	_, err := newTestCollector(&config.Options{}).Collect(filepath.Join(t.TempDir(), "nope"), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCollect_ParallelMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 50; i++ {
		writeFile(t, filepath.Join(dir, fmt.Sprintf("file%02d", i)), "", 0644)
	}

	seq, err := newTestCollector(&config.Options{Workers: 1}).Collect(dir, true)
	require.NoError(t, err)

	par, err := newTestCollector(&config.Options{Workers: 4, ParallelThreshold: 10}).Collect(dir, true)
	require.NoError(t, err)

	require.Len(t, par, 50)
	for i := range seq {
		assert.Equal(t, seq[i].Name, par[i].Name, "read order is preserved")
		assert.Equal(t, seq[i].Metadata.Inode, par[i].Metadata.Inode)
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		parent, name, expected string
	}{
		{".", "a", "./a"},
		{"/", "etc", "/etc"},
		{"dir/", "b", "dir/b"},
		{"/tmp/x", "y", "/tmp/x/y"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, joinPath(tt.parent, tt.name))
		})
	}
}
