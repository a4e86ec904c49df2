package rtl

import (
	"bidicss/css"
	"bidicss/directive"
)

// parseAtRules splits rules of every block at-rule under c, except keyframes.
// Source override in force for an at-rule applies to its direct rules only,
// every nested at-rule starts with a fresh directive scope.
func (r *run) parseAtRules(c css.Container) {
	set := directive.NewSet()
	directive.Walk(c, set, []css.NodeType{css.NodeAtRule, css.NodeRule}, set.OnComment, func(n css.Node) {
		if set.Active(directive.KindIgnore) {
			return
		}
		a, ok := n.(*css.AtRule)
		if !ok || !a.HasBlock || css.IsKeyframes(a) {
			return
		}
		dir, forced := set.Override()
		r.splitRules(a, dir, forced)
		r.parseAtRules(a)
	})
}
