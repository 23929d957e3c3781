// Package terminal answers the two questions the renderer needs from the hosting
// terminal: how many columns and rows it has, and whether half-block output
// will display.
package terminal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// DefaultGeometry is used when no terminal size can be discovered.
var DefaultGeometry = Geometry{Columns: 80, Rows: 24}

// ErrNoTerminal is returned when neither a tty nor COLUMNS/LINES is available.
var ErrNoTerminal = errors.New("terminal size unavailable")

// Geometry is the character grid of the terminal.
type Geometry struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d", g.Columns, g.Rows)
}

// Size queries stdout, stderr and stdin in turn, then falls back to the
// COLUMNS and LINES environment variables.
func Size() (Geometry, error) {
	for _, f := range []*os.File{os.Stdout, os.Stderr, os.Stdin} {
		fd := int(f.Fd())
		if !term.IsTerminal(fd) {
			continue
		}
		w, h, err := term.GetSize(fd)
		if err == nil && w > 0 && h > 0 {
			return Geometry{Columns: w, Rows: h}, nil
		}
	}
	return sizeFromEnv(os.Getenv)
}

func sizeFromEnv(getenv func(string) string) (Geometry, error) {
	cols, err := strconv.Atoi(strings.TrimSpace(getenv("COLUMNS")))
	if err != nil || cols <= 0 {
		return Geometry{}, ErrNoTerminal
	}
	g := Geometry{Columns: cols, Rows: DefaultGeometry.Rows}
	if rows, err := strconv.Atoi(strings.TrimSpace(getenv("LINES"))); err == nil && rows > 0 {
		g.Rows = rows
	}
	return g, nil
}

// TrueColor reports whether COLORTERM advertises 24-bit colour. Output is
// always truecolor; this only feeds diagnostics.
func TrueColor() bool {
	ct := os.Getenv("COLORTERM")
	return strings.EqualFold(ct, "truecolor") || strings.EqualFold(ct, "24bit")
}
