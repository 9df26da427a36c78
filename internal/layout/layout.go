// Package layout renders ordered entries as columns, streams or long listings.
package layout

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/hsaliak/lsgo/internal/config"
	"github.com/hsaliak/lsgo/internal/identity"
	"github.com/hsaliak/lsgo/internal/parallel"
	"github.com/hsaliak/lsgo/internal/terminal"
	"github.com/hsaliak/lsgo/pkg/models"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

// gutter separates grid columns
const gutter = 2

// Shape is one of the mutually exclusive output layouts
type Shape int

const (
	ShapeSingle Shape = iota
	ShapeColumnsDown
	ShapeColumnsAcross
	ShapeStream
	ShapeLong
)

// String returns the flag-style name of the shape
func (s Shape) String() string {
	switch s {
	case ShapeColumnsDown:
		return "columns-down"
	case ShapeColumnsAcross:
		return "columns-across"
	case ShapeStream:
		return "stream"
	case ShapeLong:
		return "long"
	default:
		return "single"
	}
}

// decorated is a display name with the width it occupies in a grid
type decorated struct {
	text  string // name, indicator and color codes
	width int    // display width of the name plus the byte length of color codes
}

// Renderer writes entry sequences in the configured shape
type Renderer struct {
	config   *config.Options
	logger   *zap.Logger
	names    *identity.Resolver
	term     terminal.Terminal
	useColor bool
	now      func() time.Time

	dirColor  *color.Color
	linkColor *color.Color
	execColor *color.Color
}

// NewRenderer creates a renderer. names is only consulted for long listings.
func NewRenderer(cfg *config.Options, logger *zap.Logger, names *identity.Resolver, term terminal.Terminal, useColor bool) *Renderer {
	r := &Renderer{
		config:    cfg,
		logger:    logger,
		names:     names,
		term:      term,
		useColor:  useColor,
		now:       time.Now,
		dirColor:  color.New(color.FgBlue),
		linkColor: color.New(color.FgCyan),
		execColor: color.New(color.FgGreen),
	}

	// The color decision is made here, not by the library's own tty check
	for _, c := range []*color.Color{r.dirColor, r.linkColor, r.execColor} {
		c.EnableColor()
	}

	return r
}

// ColorEnabled resolves the color mode against the output device
func ColorEnabled(cfg *config.Options, term terminal.Terminal) bool {
	switch cfg.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return term.IsTerminal()
	}
}

// Shape picks the layout: long, then one per line, then the explicit format,
// then columns on a terminal and one per line elsewhere
func (r *Renderer) Shape() Shape {
	switch {
	case r.config.Long:
		return ShapeLong
	case r.config.OnePerLine:
		return ShapeSingle
	case r.config.Format == config.FormatStream:
		return ShapeStream
	case r.config.Format == config.FormatColumnsAcross:
		return ShapeColumnsAcross
	case r.config.Format == config.FormatColumnsDown:
		return ShapeColumnsDown
	case r.term.IsTerminal():
		return ShapeColumnsDown
	default:
		return ShapeSingle
	}
}

// Render writes entries to w in the selected shape
func (r *Renderer) Render(w io.Writer, entries []models.Entry) error {
	var sb strings.Builder

	switch r.Shape() {
	case ShapeLong:
		r.renderLong(&sb, entries)
	case ShapeStream:
		r.renderStream(&sb, entries)
	case ShapeColumnsAcross:
		r.renderAcross(&sb, entries)
	case ShapeColumnsDown:
		r.renderDown(&sb, entries)
	default:
		r.renderSingle(&sb, entries)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// decorate appends the indicator and wraps the name in its color
func (r *Renderer) decorate(e *models.Entry) decorated {
	name := e.Name
	if r.config.Classify || r.config.Slash {
		name += Indicator(&e.Metadata, r.config.Classify)
	}

	d := decorated{text: name, width: runewidth.StringWidth(name)}
	if r.useColor {
		if c := r.colorFor(&e.Metadata); c != nil {
			d.text = c.Sprint(name)
			d.width += len(d.text) - len(name)
		}
	}
	return d
}

// colorFor returns the color for an entry type, or nil for plain text
func (r *Renderer) colorFor(m *models.Metadata) *color.Color {
	switch {
	case m.IsDir():
		return r.dirColor
	case m.IsSymlink():
		return r.linkColor
	case m.IsExecutable():
		return r.execColor
	default:
		return nil
	}
}

func (r *Renderer) decorateAll(entries []models.Entry) ([]decorated, int) {
	names := make([]decorated, len(entries))
	widest := 0
	for i := range entries {
		names[i] = r.decorate(&entries[i])
		widest = max(widest, names[i].width)
	}
	return names, widest
}

// grid returns the column width and column count for names of the given width
func (r *Renderer) grid(widest int) (int, int) {
	colWidth := widest + gutter
	return colWidth, max(r.term.Width()/colWidth, 1)
}

// pad writes a grid cell padded to width
func pad(sb *strings.Builder, d decorated, width int) {
	sb.WriteString(d.text)
	if n := width - d.width; n > 0 {
		sb.WriteString(strings.Repeat(" ", n))
	}
}

func (r *Renderer) renderSingle(sb *strings.Builder, entries []models.Entry) {
	for i := range entries {
		sb.WriteString(r.decorate(&entries[i]).text)
		sb.WriteByte('\n')
	}
}

// renderDown lays entries out column-major so each column reads top to bottom
func (r *Renderer) renderDown(sb *strings.Builder, entries []models.Entry) {
	if len(entries) == 0 {
		return
	}

	names, widest := r.decorateAll(entries)
	colWidth, cols := r.grid(widest)
	rows := (len(names) + cols - 1) / cols

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			idx := col*rows + row
			if idx < len(names) {
				pad(sb, names[idx], colWidth)
			}
		}
		sb.WriteByte('\n')
	}
}

// renderAcross lays entries out row-major
func (r *Renderer) renderAcross(sb *strings.Builder, entries []models.Entry) {
	if len(entries) == 0 {
		return
	}

	names, widest := r.decorateAll(entries)
	colWidth, cols := r.grid(widest)

	for i, d := range names {
		pad(sb, d, colWidth)
		if (i+1)%cols == 0 {
			sb.WriteByte('\n')
		}
	}
	if len(names)%cols != 0 {
		sb.WriteByte('\n')
	}
}

func (r *Renderer) renderStream(sb *strings.Builder, entries []models.Entry) {
	for i := range entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.decorate(&entries[i]).text)
	}
	sb.WriteByte('\n')
}

// longWidths holds the right-alignment widths of the numeric long-format fields
type longWidths struct {
	inode, blocks, nlink, size int
}

// renderLong writes one detailed line per entry
func (r *Renderer) renderLong(sb *strings.Builder, entries []models.Entry) {
	if len(entries) > r.config.PrewarmThreshold {
		r.logger.Debug("Pre-warming name cache", zap.Int("entries", len(entries)))
		// The entry count already passed the gate, so fan out over every distinct ID
		r.names.Warm(parallel.Strategy{Workers: r.config.Workers, Threshold: 0}, entries)
	}

	sizes := make([]string, len(entries))
	var w longWidths
	for i := range entries {
		m := &entries[i].Metadata
		if m.IsDevice() {
			sizes[i] = deviceField(m)
		} else {
			sizes[i] = FormatSize(m.Size, r.config.HumanReadable)
		}

		w.size = max(w.size, len(sizes[i]))
		w.nlink = max(w.nlink, len(strconv.FormatUint(m.Nlink, 10)))
		if r.config.Inode {
			w.inode = max(w.inode, len(strconv.FormatUint(m.Inode, 10)))
		}
		if r.config.Blocks {
			w.blocks = max(w.blocks, len(strconv.FormatInt(m.Blocks, 10)))
		}
	}

	now := r.now()
	for i := range entries {
		e := &entries[i]
		m := &e.Metadata

		if r.config.Inode {
			fmt.Fprintf(sb, "%*d ", w.inode, m.Inode)
		}
		if r.config.Blocks {
			fmt.Fprintf(sb, "%*d ", w.blocks, m.Blocks)
		}

		fmt.Fprintf(sb, "%s %*d %8s %8s %*s %s ",
			ModeString(m.Mode),
			w.nlink, m.Nlink,
			r.names.User(m.UID),
			r.names.Group(m.GID),
			w.size, sizes[i],
			FormatTime(r.config.TimeField.Pick(m), now))

		sb.WriteString(r.decorate(e).text)
		if e.IsSymlink && e.SymlinkTarget != "" {
			sb.WriteString(" -> ")
			sb.WriteString(e.SymlinkTarget)
		}
		sb.WriteByte('\n')
	}
}
