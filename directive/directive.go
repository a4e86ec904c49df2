// Package directive recognizes control directives embedded into stylesheet
// comments and keeps track of directives in force while walking a container.
//
// Recognized forms (leading "!" marks a directive comment kept in output):
//
//	/*rtl:ignore*/                 skip the next node
//	/*rtl:begin:ignore*/ ... /*rtl:end:ignore*/
//	/*rtl:source:rtl*/             the next node is authored right-to-left
//	/*rtl:begin:source:rtl*/ ... /*rtl:end:source*/
package directive

import (
	"regexp"
	"strings"

	"bidicss/common"
)

//go:generate go tool github.com/abice/go-enum --marshal --names

// Kind of control directive.
// ENUM(ignore, source)
type Kind int

// Scope of control directive: next node only, or block opening and closing.
// ENUM(next, begin, end)
type Scope int

// Directive is a single control instruction.
type Directive struct {
	Kind  Kind
	Scope Scope
	// Value is payload of source directives, meaningful only when HasValue.
	Value    common.Direction
	HasValue bool
	// Important directives ("/*!rtl:...*/") survive directive stripping.
	Important bool
}

var directivePattern = regexp.MustCompile(`^(!)?\s*rtl:(?:(begin|end):)?(ignore|source)(?::(ltr|rtl))?$`)

// Recognize classifies comment text. Text which is not a well formed
// directive yields false.
func Recognize(text string) (Directive, bool) {
	m := directivePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return Directive{}, false
	}

	d := Directive{Important: m[1] != ""}
	switch m[2] {
	case "begin":
		d.Scope = ScopeBegin
	case "end":
		d.Scope = ScopeEnd
	default:
		d.Scope = ScopeNext
	}
	d.Kind, _ = ParseKind(m[3])

	if m[4] != "" {
		if d.Kind != KindSource {
			return Directive{}, false
		}
		d.Value, _ = common.ParseDirection(m[4])
		d.HasValue = true
	} else if d.Kind == KindSource && d.Scope != ScopeEnd {
		// source override without direction means nothing
		return Directive{}, false
	}
	return d, true
}
