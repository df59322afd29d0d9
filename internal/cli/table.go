package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

const defaultTermWidth = 80

// Confidence bands for suggestion coloring.
const (
	highConfidence   = 0.8
	mediumConfidence = 0.6
)

// getTermWidth returns the current terminal width, defaulting to 80.
func getTermWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultTermWidth
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func paint(s string, color bool, c ...text.Color) string {
	if !color {
		return s
	}
	return text.Colors(c).Sprint(s)
}

// truncate shortens a string to max characters, appending "..." if truncated.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max < 4 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// percent formats a similarity in [0,1] as a whole percentage.
func percent(sim float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(sim*100)))
}

// Table writes column-aligned output using text/tabwriter with consistent
// formatting across all commands. Headers are bold when output is a TTY.
type Table struct {
	tw    *tabwriter.Writer
	color bool
	width int
}

// NewTable creates a Table that writes to w. If headers are provided, they are
// written as a bold header row (bold only when w is a TTY).
func NewTable(w io.Writer, headers ...string) *Table {
	color := isTTY(w)
	width := defaultTermWidth
	if color {
		width = getTermWidth()
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	t := &Table{tw: tw, color: color, width: width}

	if len(headers) > 0 {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = t.Bold(h)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return t
}

// Row writes a data row with tab-separated values.
func (t *Table) Row(vals ...string) {
	fmt.Fprintln(t.tw, strings.Join(vals, "\t"))
}

// Flush flushes the underlying tabwriter.
func (t *Table) Flush() error {
	return t.tw.Flush()
}

// Bold renders s in bold if color is enabled for this table.
func (t *Table) Bold(s string) string {
	return paint(s, t.color, text.Bold)
}

// Dim renders s in gray if color is enabled for this table.
func (t *Table) Dim(s string) string {
	return paint(s, t.color, text.FgHiBlack)
}

// Confidence renders a similarity as a percentage colored by band:
// green from 80%, yellow from 60%, gray below.
func (t *Table) Confidence(sim float64) string {
	s := percent(sim)
	switch {
	case sim >= highConfidence:
		return paint(s, t.color, text.FgGreen)
	case sim >= mediumConfidence:
		return paint(s, t.color, text.FgYellow)
	default:
		return paint(s, t.color, text.FgHiBlack)
	}
}

// Color reports whether color output is enabled.
func (t *Table) Color() bool {
	return t.color
}

// Width returns the detected terminal width.
// Returns defaultTermWidth (80) when output is not a TTY.
func (t *Table) Width() int {
	return t.width
}
