package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// waitFor polls until cond is satisfied or timeout expires.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", what)
}

func contains(path, text string) func() bool {
	return func() bool {
		data, err := os.ReadFile(path)
		return err == nil && strings.Contains(string(data), text)
	}
}

func startWatch(t *testing.T, src, dst string) (*converter, func()) {
	t.Helper()
	ctx, c, _ := setupConverter(t)
	c.env.Overwrite = true
	ctx, cancel := context.WithCancel(ctx)

	done := make(chan error, 1)
	go func() { done <- c.watch(ctx, src, dst) }()

	return c, func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("watch() error = %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("watch() did not stop")
		}
	}
}

func TestWatch_Directory(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(src, "out")
	writeFile(t, filepath.Join(src, "a.css"), ".a { float: left }")

	_, stop := startWatch(t, src, dst)
	defer stop()

	waitFor(t, "initial processing", contains(filepath.Join(dst, "a.css"), "float: right"))

	writeFile(t, filepath.Join(src, "a.css"), ".a { text-align: left }")
	waitFor(t, "changed stylesheet", contains(filepath.Join(dst, "a.css"), "text-align: right"))

	// new subdirectory is picked up
	if err := os.Mkdir(filepath.Join(src, "sub"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	time.Sleep(2 * debounce)
	writeFile(t, filepath.Join(src, "sub", "b.css"), ".b { padding-left: 1px }")
	waitFor(t, "stylesheet in new directory", contains(filepath.Join(dst, "sub", "b.css"), "padding-right: 1px"))

	if _, err := os.Stat(filepath.Join(dst, "out")); err == nil {
		t.Error("destination directory was processed")
	}
}

func TestWatch_SingleFile(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "a.css"), ".a { float: left }")
	writeFile(t, filepath.Join(src, "b.css"), ".b { float: left }")

	_, stop := startWatch(t, filepath.Join(src, "a.css"), dst)
	defer stop()

	waitFor(t, "initial processing", contains(filepath.Join(dst, "a.css"), "float: right"))

	writeFile(t, filepath.Join(src, "b.css"), ".b { clear: left }")
	writeFile(t, filepath.Join(src, "a.css"), ".a { clear: left }")
	waitFor(t, "changed stylesheet", contains(filepath.Join(dst, "a.css"), "clear: right"))

	if _, err := os.Stat(filepath.Join(dst, "b.css")); err == nil {
		t.Error("only watched stylesheet must be processed")
	}
}

func TestWatch_Errors(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "text")
	createArchive(t, filepath.Join(src, "a.zip"), map[string]string{"a.css": sampleCSS})

	tests := []struct {
		name    string
		src     string
		dst     string
		errText string
	}{
		{"missing", filepath.Join(src, "none"), t.TempDir(), "unable to watch"},
		{"same directory", src, src, "must differ"},
		{"archive", filepath.Join(src, "a.zip"), t.TempDir(), "could be watched"},
		{"not stylesheet", filepath.Join(src, "a.txt"), t.TempDir(), "not recognized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, c, _ := setupConverter(t)
			err := c.watch(ctx, tt.src, tt.dst)
			if err == nil || !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("watch() error = %v, want it to contain %q", err, tt.errText)
			}
		})
	}
}
