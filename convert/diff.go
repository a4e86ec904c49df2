package convert

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// printDiff writes line oriented difference between stylesheet before and
// after processing. Unchanged lines are omitted.
func printDiff(w io.Writer, name string, before, after []byte) error {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(before), string(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "--- %s\n+++ %s\n", name, name)
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+"
		case diffpatch.DiffDelete:
			prefix = "-"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if len(line) == 0 {
				continue
			}
			bw.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
		}
	}
	return bw.Flush()
}
