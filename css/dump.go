package css

import (
	"bidicss/utils/debug"
)

// Dump returns indented tree representation of n for debug logging.
func Dump(n Node) string {
	tw := debug.NewTreeWriter()
	dump(tw, n, 0)
	return tw.String()
}

func dump(tw *debug.TreeWriter, n Node, depth int) {
	switch n := n.(type) {
	case *Root:
		tw.Line(depth, "%s", n.Type())
	case *AtRule:
		tw.Node(depth, n.Type().String(), "name", n.Name, "params", n.Params)
	case *Rule:
		tw.Node(depth, n.Type().String(), "selector", n.Selector)
	case *Declaration:
		important := ""
		if n.Important {
			important = "true"
		}
		tw.Node(depth, n.Type().String(), "property", n.Property, "value", n.Value, "important", important)
		return
	case *Comment:
		tw.Node(depth, n.Type().String(), "text", n.Text)
		return
	}
	for _, child := range n.(Container).Nodes() {
		dump(tw, child, depth+1)
	}
}
