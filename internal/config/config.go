package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/hsaliak/lsgo/pkg/models"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	minWorkers = 1
	maxWorkers = 64 // Keep goroutine fan-out bounded on very wide machines
)

// ShowHidden selects which dot-prefixed names survive collection
type ShowHidden int

const (
	HiddenNone   ShowHidden = iota // hide every dot-prefixed name
	HiddenAlmost                   // show dotfiles except "." and ".."
	HiddenAll                      // show dotfiles including "." and ".."
)

// SortBy selects the comparator
type SortBy int

const (
	SortName SortBy = iota
	SortTime
	SortSize
	SortUnsorted
)

// TimeField selects which timestamp is authoritative for sorting and display
type TimeField int

const (
	TimeModify TimeField = iota
	TimeChange
	TimeAccess
	TimeBirth
)

// FollowSymlinks selects when symlinks are resolved to their targets
type FollowSymlinks int

const (
	FollowNever FollowSymlinks = iota
	FollowCommandLine
	FollowAlways
)

// OutputFormat is the layout requested by -C, -x or -m
type OutputFormat int

const (
	FormatDefault OutputFormat = iota
	FormatColumnsDown
	FormatColumnsAcross
	FormatStream
)

// ColorMode decides when names are colorized
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// Pick returns the timestamp this field selects. Birth time falls back to
// change time when the filesystem does not record it.
func (f TimeField) Pick(m *models.Metadata) time.Time {
	switch f {
	case TimeChange:
		return m.ChangeTime
	case TimeAccess:
		return m.AccessTime
	case TimeBirth:
		if m.HasBirthTime {
			return m.BirthTime
		}
		return m.ChangeTime
	default:
		return m.ModTime
	}
}

// ParseColorMode parses a --color=WHEN value
func ParseColorMode(when string) (ColorMode, error) {
	switch strings.ToLower(when) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("--color must be one of: auto, always, never (got: %s)", when)
	}
}

// Options is the fully resolved listing configuration. It is never mutated
// after Resolve returns it.
type Options struct {
	ShowHidden    ShowHidden
	Long          bool
	OnePerLine    bool
	Sort          SortBy
	Reverse       bool
	Classify      bool
	Slash         bool
	HumanReadable bool
	Color         ColorMode
	Inode         bool
	Blocks        bool
	Recursive     bool
	Follow        FollowSymlinks
	TimeField     TimeField
	Format        OutputFormat

	// Concurrency settings
	Workers           int
	ParallelThreshold int
	PrewarmThreshold  int
}

// Defaults holds settings that come from the environment or a defaults file
// rather than from flags
type Defaults struct {
	Color             string `mapstructure:"color" yaml:"color"`                           // auto, always, never
	HumanReadable     bool   `mapstructure:"human_readable" yaml:"human_readable"`         // human-readable sizes
	Classify          bool   `mapstructure:"classify" yaml:"classify"`                     // append type indicators
	Workers           int    `mapstructure:"workers" yaml:"workers"`                       // worker pool size
	ParallelThreshold int    `mapstructure:"parallel_threshold" yaml:"parallel_threshold"` // entries before fan-out
	PrewarmThreshold  int    `mapstructure:"prewarm_threshold" yaml:"prewarm_threshold"`   // entries before name pre-warm
	Columns           int    `mapstructure:"columns" yaml:"columns"`                       // terminal width override
}

// LoadDefaults loads defaults from an optional YAML file and the environment.
// An empty path falls back to $LS_CONFIG.
func LoadDefaults(path string) (*Defaults, error) {
	v := viper.New()

	v.SetDefault("color", "auto")
	v.SetDefault("human_readable", false)
	v.SetDefault("classify", false)
	v.SetDefault("workers", runtime.NumCPU()*2)
	v.SetDefault("parallel_threshold", 1000)
	v.SetDefault("prewarm_threshold", 100)
	v.SetDefault("columns", 0)

	v.SetEnvPrefix("LS")
	v.AutomaticEnv()
	if err := v.BindEnv("columns", "COLUMNS"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("config", "LS_CONFIG"); err != nil {
		return nil, err
	}

	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		settings, err := readDefaultsFile(path)
		if err != nil {
			return nil, err
		}
		if err := v.MergeConfigMap(settings); err != nil {
			return nil, fmt.Errorf("failed to merge defaults file %s: %w", path, err)
		}
	}

	var d Defaults
	if err := v.Unmarshal(&d); err != nil {
		return nil, err
	}

	if d.Workers < minWorkers {
		d.Workers = minWorkers
	}
	if d.Workers > maxWorkers {
		d.Workers = maxWorkers
	}
	if d.Columns < 0 {
		d.Columns = 0
	}

	return &d, nil
}

// readDefaultsFile decodes a YAML defaults file into a settings map
func readDefaultsFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read defaults file: %w", err)
	}

	settings := make(map[string]any)
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse defaults file %s: %w", path, err)
	}
	return settings, nil
}

// Flags holds raw flag values as parsed from the command line
type Flags struct {
	All           bool
	AlmostAll     bool
	Long          bool
	One           bool
	SortTime      bool
	SortSize      bool
	Reverse       bool
	NoSort        bool
	Classify      bool
	Slash         bool
	HumanReadable bool
	ColorFlag     bool
	ColorWhen     string
	Inode         bool
	Blocks        bool
	Recursive     bool
	FollowAll     bool
	FollowNone    bool
	FollowArgs    bool
	CTime         bool
	ATime         bool
	BirthTime     bool
	ColumnsDown   bool
	ColumnsAcross bool
	Stream        bool
}

// Resolve collapses flags and defaults into one value per enumeration.
// Where several flags map to the same setting the most specific one wins.
func Resolve(f Flags, d *Defaults) (*Options, error) {
	if d == nil {
		d = &Defaults{Color: "auto", Workers: minWorkers, ParallelThreshold: 1000, PrewarmThreshold: 100}
	}

	color, err := resolveColor(f, d)
	if err != nil {
		return nil, err
	}

	opts := &Options{
		Long:              f.Long,
		OnePerLine:        f.One,
		Reverse:           f.Reverse,
		Classify:          f.Classify || d.Classify,
		Slash:             f.Slash,
		HumanReadable:     f.HumanReadable || d.HumanReadable,
		Color:             color,
		Inode:             f.Inode,
		Blocks:            f.Blocks,
		Recursive:         f.Recursive,
		Workers:           d.Workers,
		ParallelThreshold: d.ParallelThreshold,
		PrewarmThreshold:  d.PrewarmThreshold,
	}

	switch {
	case f.NoSort:
		opts.Sort = SortUnsorted
	case f.SortTime:
		opts.Sort = SortTime
	case f.SortSize:
		opts.Sort = SortSize
	default:
		opts.Sort = SortName
	}

	// -f historically implies -a
	switch {
	case f.All || f.NoSort:
		opts.ShowHidden = HiddenAll
	case f.AlmostAll:
		opts.ShowHidden = HiddenAlmost
	default:
		opts.ShowHidden = HiddenNone
	}

	switch {
	case f.FollowNone:
		opts.Follow = FollowNever
	case f.FollowAll:
		opts.Follow = FollowAlways
	case f.FollowArgs:
		opts.Follow = FollowCommandLine
	default:
		opts.Follow = FollowNever
	}

	switch {
	case f.CTime:
		opts.TimeField = TimeChange
	case f.ATime:
		opts.TimeField = TimeAccess
	case f.BirthTime:
		opts.TimeField = TimeBirth
	default:
		opts.TimeField = TimeModify
	}

	switch {
	case f.Stream:
		opts.Format = FormatStream
	case f.ColumnsAcross:
		opts.Format = FormatColumnsAcross
	case f.ColumnsDown:
		opts.Format = FormatColumnsDown
	default:
		opts.Format = FormatDefault
	}

	return opts, nil
}

// resolveColor applies --color=WHEN, then -G, then the configured default.
// An unrecognized WHEN is ignored; an invalid default is an error.
func resolveColor(f Flags, d *Defaults) (ColorMode, error) {
	if f.ColorWhen != "" {
		if mode, err := ParseColorMode(f.ColorWhen); err == nil {
			return mode, nil
		}
	}
	if f.ColorFlag {
		return ColorAlways, nil
	}
	return ParseColorMode(d.Color)
}
