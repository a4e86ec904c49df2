package state

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"bidicss/rtl"
)

func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

// SetInputCodePage selects encoding for stylesheets without BOM. Empty name
// resets it to UTF-8.
func (e *LocalEnv) SetInputCodePage(name string) error {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		e.CodePage = nil
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return fmt.Errorf("unknown input code page %q: %w", name, err)
	}
	if enc == nil {
		return fmt.Errorf("input code page %q is not supported", name)
	}
	e.CodePage = enc
	return nil
}

// Decode converts stylesheet to UTF-8 dropping BOM. BOM, when present,
// always wins over selected code page.
func (e *LocalEnv) Decode(data []byte) ([]byte, error) {
	var enc encoding.Encoding = unicode.UTF8
	if e.CodePage != nil {
		enc = e.CodePage
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), data)
	if err != nil {
		return nil, fmt.Errorf("unable to decode stylesheet: %w", err)
	}
	return out, nil
}

// NewProcessor creates processor configured from the current configuration.
func (e *LocalEnv) NewProcessor() *rtl.Processor {
	return rtl.NewProcessor(e.Cfg.Processing.Options(), e.Log)
}
