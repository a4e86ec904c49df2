// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	"golang.org/x/text/encoding"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The name argument is entry name converted to UTF-8. If an
// error is returned, processing stops.
type WalkFunc func(archive, name string, file *zip.File) error

// Walk walks all files in the archive which names start with pattern, calling
// walkFn for each one in natural name order. Names of entries not flagged as
// UTF-8 are decoded with namesCP, when it is not nil. Archives with unsafe
// entries (absolute or containing "..") are rejected.
func Walk(archive, pattern string, namesCP encoding.Encoding, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	type item struct {
		name string
		file *zip.File
	}

	items := make([]item, 0, len(r.File))
	for _, f := range r.File {
		name := f.Name
		if f.NonUTF8 && namesCP != nil {
			if n, err := namesCP.NewDecoder().String(name); err == nil {
				name = n
			}
		}
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, pattern) {
			continue
		}
		items = append(items, item{name: name, file: f})
	}
	slices.SortStableFunc(items, func(a, b item) int {
		switch {
		case natural.Less(a.name, b.name):
			return -1
		case natural.Less(b.name, a.name):
			return 1
		}
		return 0
	})

	for _, it := range items {
		if err := walkFn(archive, it.name, it.file); err != nil {
			return err
		}
	}
	return nil
}

// IsZip checks file signature.
func IsZip(fname string) (bool, error) {
	f, err := os.Open(fname)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// 262 bytes is enough for any signature filetype knows about
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return false
		}
	}
	return true
}
