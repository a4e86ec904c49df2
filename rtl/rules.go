package rtl

import (
	"strings"

	"go.uber.org/zap"

	"bidicss/common"
	"bidicss/css"
	"bidicss/directive"
)

// splitRules moves directional declarations of every rule directly under c
// into a pair of direction prefixed rules inserted right after the original.
// Rules left without content are removed.
func (r *run) splitRules(c css.Container, override common.Direction, forced bool) {
	var emptied []css.Node

	set := directive.NewSet()
	directive.Walk(c, set, []css.NodeType{css.NodeRule, css.NodeAtRule}, set.OnComment, func(n css.Node) {
		if set.Active(directive.KindIgnore) {
			return
		}
		rule, ok := n.(*css.Rule)
		if !ok {
			return
		}
		if _, ok := r.generated[rule]; ok {
			return
		}
		if r.splitRule(c, rule, r.source(set, override, forced)) && isEmpty(rule) {
			emptied = append(emptied, rule)
		}
	})

	for _, n := range emptied {
		c.Remove(n)
	}
}

func (r *run) splitRule(c css.Container, rule *css.Rule, src common.Direction) bool {
	var (
		moved            []css.Node
		source, opposite []css.Node
	)

	set := directive.NewSet()
	directive.Walk(rule, set, []css.NodeType{css.NodeDeclaration}, set.OnComment, func(n css.Node) {
		if set.Active(directive.KindIgnore) {
			return
		}
		d := n.(*css.Declaration)

		prop, value := r.p.engine.Declaration(d.Property, d.Value)
		srcValue := d.Value
		if isAnimation(d.Property) {
			srcValue = rename(r.pattern, r.names, d.Value, false)
			value = rename(r.pattern, r.names, value, true)
		}
		if prop == d.Property && value == d.Value && srcValue == d.Value {
			return
		}
		moved = append(moved, d)
		source = append(source, &css.Declaration{Property: d.Property, Value: srcValue, Important: d.Important})
		opposite = append(opposite, &css.Declaration{Property: prop, Value: value, Important: d.Important})
	})
	if len(moved) == 0 {
		return false
	}

	for _, d := range moved {
		rule.Remove(d)
	}

	opts := r.p.opts
	srcRule := &css.Rule{Selector: prefixSelector(rule.Selector, opts.prefix(src))}
	srcRule.Append(source...)
	oppRule := &css.Rule{Selector: prefixSelector(rule.Selector, opts.prefix(src.Opposite()))}
	oppRule.Append(opposite...)

	ltr, rtl := srcRule, oppRule
	if src == common.DirectionRtl {
		ltr, rtl = oppRule, srcRule
	}
	c.InsertAfter(rule, ltr, rtl)
	r.generated[ltr] = struct{}{}
	r.generated[rtl] = struct{}{}

	r.log.Debug("Rule split",
		zap.String("selector", rule.Selector),
		zap.Stringer("source", src),
		zap.Int("declarations", len(moved)))
	return true
}

func isAnimation(property string) bool {
	switch css.Unprefixed(property) {
	case "animation", "animation-name":
		return true
	}
	return false
}

// isEmpty reports whether rule has nothing but comments.
func isEmpty(rule *css.Rule) bool {
	for _, n := range rule.Nodes() {
		if n.Type() != css.NodeComment {
			return false
		}
	}
	return true
}

// prefixSelector prepends prefix to every selector of comma separated list.
// Prefix is attached directly to leading "html" and ":root".
func prefixSelector(selector, prefix string) string {
	parts := splitSelector(selector)
	for i, part := range parts {
		parts[i] = prefixOne(part, prefix)
	}
	return strings.Join(parts, ", ")
}

func prefixOne(sel, prefix string) string {
	lower := strings.ToLower(sel)
	for _, root := range []string{"html", ":root"} {
		if !strings.HasPrefix(lower, root) {
			continue
		}
		rest := sel[len(root):]
		if rest == "" || !isNameChar(rest[0]) {
			return sel[:len(root)] + prefix + rest
		}
	}
	return prefix + " " + sel
}

func isNameChar(c byte) bool {
	return c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

// splitSelector splits selector list at commas outside of parentheses,
// brackets and strings.
func splitSelector(selector string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(selector); i++ {
		c := selector[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(selector[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(selector[start:]))
}
