//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// CleanFileName replaces characters not allowed in file name.
func CleanFileName(in string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if sym == 0 || sym == os.PathSeparator || sym == os.PathListSeparator {
			return '_'
		}
		return sym
	}, in), ". ")
	if len(out) == 0 {
		out = badFileName
	}
	return out
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	if noColor() {
		return false
	}
	return term.IsTerminal(int(stream.Fd()))
}
