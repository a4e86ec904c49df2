//go:build windows

package config

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

// CleanFileName replaces characters not allowed in file name.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if sym < 0x20 || strings.ContainsRune(`<>":/\|?*`, sym) {
			return '_'
		}
		return sym
	}, in)
	// trailing dots and spaces are silently dropped by the system
	out = strings.TrimRight(strings.TrimLeft(out, ". "), ". ")
	if len(out) == 0 {
		out = badFileName
	}
	return out
}

// EnableColorOutput checks if colorized output is possible and
// enables proper VT100 sequence processing in Windows console.
func EnableColorOutput(stream *os.File) bool {
	if noColor() {
		return false
	}
	if windows.RtlGetVersion().MajorVersion < 10 {
		return false
	}
	if !term.IsTerminal(int(stream.Fd())) {
		return false
	}

	h := windows.Handle(stream.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
