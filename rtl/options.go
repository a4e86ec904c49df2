package rtl

import (
	"bidicss/common"
	"bidicss/flip"
)

// Options controls direction-aware processing of a stylesheet.
type Options struct {
	// Source is the direction the stylesheet is written for, it could be
	// overridden for parts of the stylesheet with "rtl:source" directives.
	Source common.Direction

	ProcessURLs bool
	UseCalc     bool
	// ProcessKeyframes enables renaming and duplication of @keyframes.
	ProcessKeyframes bool
	// StripDirectives removes directive comments from the output, comments
	// starting with "!" are always kept.
	StripDirectives bool

	LTRPrefix string
	RTLPrefix string

	StringMap []flip.StringMap
}

// DefaultOptions returns options for LTR source with keyframes processing.
func DefaultOptions() Options {
	return Options{
		Source:           common.DirectionLtr,
		ProcessKeyframes: true,
		LTRPrefix:        `[dir="ltr"]`,
		RTLPrefix:        `[dir="rtl"]`,
	}
}

func (o Options) prefix(dir common.Direction) string {
	if dir == common.DirectionRtl {
		return o.RTLPrefix
	}
	return o.LTRPrefix
}

func (o Options) flip() flip.Options {
	return flip.Options{
		ProcessURLs: o.ProcessURLs,
		UseCalc:     o.UseCalc,
		StringMap:   o.StringMap,
	}
}
