// Package flip mirrors CSS between left-to-right and right-to-left layouts.
package flip

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"bidicss/css"
	"bidicss/directive"
)

// StringMap describes strings swapped with each other in selectors and
// (optionally) urls. Every Search[i] becomes Replace[i] and vice versa.
type StringMap struct {
	Name    string   `yaml:"name"`
	Search  []string `yaml:"search" validate:"required,dive,required"`
	Replace []string `yaml:"replace" validate:"required,dive,required"`
}

// DefaultStringMap returns left/right and ltr/rtl swaps.
func DefaultStringMap() []StringMap {
	return []StringMap{
		{Name: "left-right", Search: []string{"left", "Left", "LEFT"}, Replace: []string{"right", "Right", "RIGHT"}},
		{Name: "ltr-rtl", Search: []string{"ltr", "Ltr", "LTR"}, Replace: []string{"rtl", "Rtl", "RTL"}},
	}
}

// Options controls mirroring.
type Options struct {
	// ProcessURLs applies string map to url() contents.
	ProcessURLs bool
	// UseCalc mirrors length based positions with calc(100% - length).
	UseCalc bool
	// StringMap defaults to DefaultStringMap when nil.
	StringMap []StringMap
}

// Engine mirrors declarations and whole stylesheets. It is stateless after
// creation and safe for concurrent use.
type Engine struct {
	opts   Options
	parser *css.Parser
	swap   *strings.Replacer
	log    *zap.Logger
}

// New creates mirroring engine.
func New(opts Options, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.StringMap == nil {
		opts.StringMap = DefaultStringMap()
	}
	var pairs []string
	for _, m := range opts.StringMap {
		for i := range min(len(m.Search), len(m.Replace)) {
			pairs = append(pairs, m.Search[i], m.Replace[i], m.Replace[i], m.Search[i])
		}
	}
	return &Engine{
		opts:   opts,
		parser: css.NewParser(log),
		swap:   strings.NewReplacer(pairs...),
		log:    log.Named("flip"),
	}
}

// Strings applies string map to s, all replacements are made in a single pass
// so mapped strings swap places.
func (e *Engine) Strings(s string) string {
	return e.swap.Replace(s)
}

// Flip mirrors CSS text. Nodes under "rtl:ignore" directives are left alone.
func (e *Engine) Flip(text string) (string, error) {
	root, err := e.parser.Parse([]byte(text))
	if err != nil {
		return "", fmt.Errorf("unable to parse css to flip: %w", err)
	}
	e.flip(root)
	return root.String(), nil
}

func (e *Engine) flip(c css.Container) {
	set := directive.NewSet()
	directive.Walk(c, set,
		[]css.NodeType{css.NodeRule, css.NodeAtRule, css.NodeDeclaration},
		set.OnComment,
		func(n css.Node) {
			if set.Active(directive.KindIgnore) {
				return
			}
			switch n := n.(type) {
			case *css.Declaration:
				n.Property, n.Value = e.Declaration(n.Property, n.Value)
			case *css.Rule:
				n.Selector = e.Strings(n.Selector)
				e.flip(n)
			case *css.AtRule:
				e.flip(n)
			}
		})
}

type valueFlipper func(e *Engine, value string) string

var valueFlippers = map[string]valueFlipper{
	"float":                  (*Engine).keywords,
	"clear":                  (*Engine).keywords,
	"text-align":             (*Engine).keywords,
	"text-align-last":        (*Engine).keywords,
	"caption-side":           (*Engine).keywords,
	"direction":              (*Engine).direction,
	"margin":                 (*Engine).quad,
	"padding":                (*Engine).quad,
	"border-width":           (*Engine).quad,
	"border-color":           (*Engine).quad,
	"border-style":           (*Engine).quad,
	"inset":                  (*Engine).quad,
	"scroll-margin":          (*Engine).quad,
	"scroll-padding":         (*Engine).quad,
	"border-radius":          (*Engine).radius,
	"box-shadow":             (*Engine).shadow,
	"text-shadow":            (*Engine).shadow,
	"transform":              (*Engine).transform,
	"background-position":    (*Engine).position,
	"background-position-x":  (*Engine).position,
	"object-position":        (*Engine).position,
	"transform-origin":       (*Engine).position,
	"perspective-origin":     (*Engine).position,
	"mask-position":          (*Engine).position,
	"cursor":                 (*Engine).cursor,
}

// Declaration returns mirrored property name and value. Custom properties
// are returned unchanged.
func (e *Engine) Declaration(property, value string) (string, string) {
	if strings.HasPrefix(property, "--") {
		return property, value
	}
	flipped := swapSides(property)
	if fn := valueFlippers[css.Unprefixed(property)]; fn != nil {
		value = fn(e, value)
	}
	if e.opts.ProcessURLs {
		value = e.urls(value)
	}
	return flipped, value
}

// swapSides swaps "left" and "right" parts of dash separated name keeping
// their case.
func swapSides(name string) string {
	parts := strings.Split(name, "-")
	changed := false
	for i, p := range parts {
		if s, ok := swapWord(p, "left", "right"); ok {
			parts[i], changed = s, true
		}
	}
	if !changed {
		return name
	}
	return strings.Join(parts, "-")
}

// swapWord returns b for a (and a for b) ignoring case, preserving all lower
// or all upper case of the input.
func swapWord(w, a, b string) (string, bool) {
	var out string
	switch {
	case strings.EqualFold(w, a):
		out = b
	case strings.EqualFold(w, b):
		out = a
	default:
		return w, false
	}
	if w == strings.ToUpper(w) {
		return strings.ToUpper(out), true
	}
	return out, true
}

func (e *Engine) keywords(value string) string {
	return swapIdents(value, "left", "right")
}

func (e *Engine) direction(value string) string {
	return swapIdents(value, "ltr", "rtl")
}

func swapIdents(value, a, b string) string {
	var sb strings.Builder
	for _, t := range lex(value) {
		if t.tt == cssIdent {
			if s, ok := swapWord(t.data, a, b); ok {
				sb.WriteString(s)
				continue
			}
		}
		sb.WriteString(t.data)
	}
	return sb.String()
}

// quad mirrors four value shorthand "top right bottom left".
func (e *Engine) quad(value string) string {
	comps := components(value)
	if len(comps) != 4 || len(groups(value)) != 1 {
		return value
	}
	comps[1], comps[3] = comps[3], comps[1]
	return strings.Join(comps, " ")
}

// radius mirrors border-radius, both sides of "/" are handled separately.
func (e *Engine) radius(value string) string {
	sides := split(value, cssDelim, "/")
	changed := false
	for i, side := range sides {
		c := components(side)
		switch {
		case len(c) == 2 && c[0] != c[1]:
			c = []string{c[1], c[0]}
		case len(c) == 3 && c[0] != c[1]:
			c = []string{c[1], c[0], c[1], c[2]}
		case len(c) == 4 && (c[0] != c[1] || c[2] != c[3]):
			c = []string{c[1], c[0], c[3], c[2]}
		default:
			continue
		}
		sides[i], changed = strings.Join(c, " "), true
	}
	if !changed {
		return value
	}
	return strings.Join(sides, " / ")
}

// shadow negates horizontal offset of every comma separated shadow.
func (e *Engine) shadow(value string) string {
	gs := groups(value)
	changed := false
	for i, g := range gs {
		c := components(g)
		for j, comp := range c {
			if isNumeric(comp) || isFunction(comp, "calc") || isFunction(comp, "var") {
				if c[j] = negate(comp); c[j] != comp {
					gs[i], changed = strings.Join(c, " "), true
				}
				break
			}
		}
	}
	if !changed {
		return value
	}
	return strings.Join(gs, ", ")
}

// transform mirrors horizontal translations, rotations and skews.
func (e *Engine) transform(value string) string {
	comps := components(value)
	changed := false
	for i, comp := range comps {
		name, args, ok := function(comp)
		if !ok || len(args) == 0 {
			continue
		}
		orig := slices.Clone(args)
		switch strings.ToLower(name) {
		case "translate", "translatex", "translate3d", "rotate", "rotatez", "rotatey", "skewx", "skewy":
			args[0] = negate(args[0])
		case "skew":
			for j := range args {
				args[j] = negate(args[j])
			}
		case "rotate3d":
			// mirrored axis is (x, -y, -z)
			if len(args) == 4 {
				args[1], args[2] = negate(args[1]), negate(args[2])
			}
		case "matrix":
			if len(args) == 6 {
				args[1], args[2], args[4] = negate(args[1]), negate(args[2]), negate(args[4])
			}
		default:
			continue
		}
		if !slices.Equal(orig, args) {
			comps[i], changed = name+"("+strings.Join(args, ", ")+")", true
		}
	}
	if !changed {
		return value
	}
	return strings.Join(comps, " ")
}

// position mirrors horizontal component of background-position like values.
func (e *Engine) position(value string) string {
	gs := groups(value)
	changed := false
	for i, g := range gs {
		c := components(g)
		if len(c) == 0 {
			continue
		}
		first := c[0]
		if s, ok := swapWord(first, "left", "right"); ok {
			c[0] = s
		} else if isNumeric(first) {
			c[0] = e.mirrorOffset(first)
		}
		if c[0] != first {
			gs[i], changed = strings.Join(c, " "), true
		}
	}
	if !changed {
		return value
	}
	return strings.Join(gs, ", ")
}

func (e *Engine) mirrorOffset(s string) string {
	v, unit, ok := number(s)
	if !ok {
		return s
	}
	switch {
	case unit == "%":
		return strconv.FormatFloat(100-v, 'f', -1, 64) + "%"
	case v == 0:
		return "100%"
	case e.opts.UseCalc:
		return "calc(100% - " + s + ")"
	}
	return s
}

var cursors = strings.NewReplacer(
	"nesw-resize", "nwse-resize",
	"nwse-resize", "nesw-resize",
	"ne-resize", "nw-resize",
	"nw-resize", "ne-resize",
	"se-resize", "sw-resize",
	"sw-resize", "se-resize",
	"e-resize", "w-resize",
	"w-resize", "e-resize",
)

func (e *Engine) cursor(value string) string {
	return cursors.Replace(value)
}

// urls applies string map to url() arguments.
func (e *Engine) urls(value string) string {
	var (
		sb    strings.Builder
		depth int
	)
	for _, t := range lex(value) {
		switch {
		case t.tt == cssURL:
			sb.WriteString(e.Strings(t.data))
			continue
		case t.tt == cssFunction && strings.EqualFold(t.data, "url("):
			depth = 1
		case depth > 0 && t.tt == cssFunction:
			depth++
		case depth > 0 && t.tt == cssRightParen:
			depth--
		case depth > 0:
			sb.WriteString(e.Strings(t.data))
			continue
		}
		sb.WriteString(t.data)
	}
	return sb.String()
}
