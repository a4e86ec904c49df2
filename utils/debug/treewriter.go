// Package debug has helpers producing human readable dumps for debug logs
// and reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter accumulates an indented, line oriented tree dump.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

// Line writes formatted line at the given depth.
func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Node writes node header: kind followed by quoted non empty fields given as
// label, value pairs.
func (tw TreeWriter) Node(depth int, kind string, fields ...string) {
	tw.indent(depth)
	tw.w.WriteString(kind)
	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i+1] == "" {
			continue
		}
		tw.w.WriteByte(' ')
		tw.w.WriteString(fields[i])
		tw.w.WriteByte('=')
		tw.w.WriteString(strconv.Quote(fields[i+1]))
	}
	tw.w.WriteByte('\n')
}
