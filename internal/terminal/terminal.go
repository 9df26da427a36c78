// Package terminal reports whether output goes to an interactive terminal
// and how wide that terminal is.
package terminal

import (
	"io"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// DefaultWidth is used when the width cannot be determined
const DefaultWidth = 80

// Terminal describes the output device
type Terminal interface {
	IsTerminal() bool
	Width() int
}

// fder is implemented by *os.File
type fder interface {
	Fd() uintptr
}

// Stdout probes a file descriptor for terminal capabilities
type Stdout struct {
	fd      uintptr
	columns int
}

// New returns a Terminal for w. Writers without a file descriptor are
// treated as non-interactive. A positive columns value overrides the
// detected width.
func New(w io.Writer, columns int) Terminal {
	if f, ok := w.(fder); ok {
		return &Stdout{fd: f.Fd(), columns: columns}
	}
	return &Fixed{Columns: columns}
}

// IsTerminal reports whether the descriptor is a tty
func (s *Stdout) IsTerminal() bool {
	return isatty.IsTerminal(s.fd) || isatty.IsCygwinTerminal(s.fd)
}

// Width returns the override, the terminal width, or DefaultWidth
func (s *Stdout) Width() int {
	if s.columns > 0 {
		return s.columns
	}
	if width, _, err := term.GetSize(int(s.fd)); err == nil && width > 0 {
		return width
	}
	return DefaultWidth
}

// Fixed is a Terminal with preset answers, used for pipes and tests
type Fixed struct {
	Interactive bool
	Columns     int
}

// IsTerminal reports the preset interactivity
func (f *Fixed) IsTerminal() bool {
	return f.Interactive
}

// Width returns the preset width, or DefaultWidth when unset
func (f *Fixed) Width() int {
	if f.Columns > 0 {
		return f.Columns
	}
	return DefaultWidth
}
