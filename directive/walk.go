package directive

import (
	"slices"

	"bidicss/css"
)

// Walk visits children of c in document order. Directive comments are passed
// to onComment (which is expected to feed set), nodes of requested types are
// passed to onNode, other comments are skipped. After every non comment child,
// whether of interest or not, next-scoped directives in set expire.
//
// Container length is re-read on every step: callbacks may insert siblings
// after the current node and those are visited in the same pass. Callbacks
// must not remove or reorder nodes at or before the cursor.
func Walk(c css.Container, set *Set, types []css.NodeType, onComment func(*css.Comment, Directive), onNode func(css.Node)) {
	for i := 0; i < c.Len(); i++ {
		switch n := c.At(i).(type) {
		case *css.Comment:
			if d, ok := Recognize(n.Text); ok && onComment != nil {
				onComment(n, d)
			}
		default:
			if slices.Contains(types, n.Type()) {
				onNode(n)
			}
			set.Expire()
		}
	}
}
