package css

import (
	"fmt"
	"io"
	"strings"
)

// NodeType tags every node of a parsed stylesheet.
type NodeType int

const (
	NodeRoot NodeType = iota
	NodeAtRule
	NodeRule
	NodeDeclaration
	NodeComment
)

func (t NodeType) String() string {
	switch t {
	case NodeRoot:
		return "root"
	case NodeAtRule:
		return "at-rule"
	case NodeRule:
		return "rule"
	case NodeDeclaration:
		return "declaration"
	case NodeComment:
		return "comment"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// Node is a single element of a parsed stylesheet. The set of implementations
// is closed: *Root, *AtRule, *Rule, *Declaration and *Comment.
type Node interface {
	Type() NodeType
	// String returns CSS text of the node, the same text a root holding only
	// this node would produce.
	String() string

	print(p *printer, depth int)
}

// Container is a node with ordered children: *Root, *AtRule and *Rule.
type Container interface {
	Node
	Nodes() []Node
	Len() int
	At(i int) Node
	Append(nodes ...Node)
	InsertAfter(ref Node, nodes ...Node) bool
	Remove(n Node) bool
}

// children is the index addressed child list shared by all containers.
// Children are owned by their container, there are no parent links.
type children struct {
	nodes []Node
}

// Nodes returns live view of the children, callers must not keep it across
// mutations.
func (c *children) Nodes() []Node {
	return c.nodes
}

func (c *children) Len() int {
	return len(c.nodes)
}

func (c *children) At(i int) Node {
	return c.nodes[i]
}

func (c *children) Append(nodes ...Node) {
	c.nodes = append(c.nodes, nodes...)
}

func (c *children) index(n Node) int {
	for i, child := range c.nodes {
		if child == n {
			return i
		}
	}
	return -1
}

// InsertAfter puts nodes right after ref. It returns false if ref is not a
// child of this container.
func (c *children) InsertAfter(ref Node, nodes ...Node) bool {
	i := c.index(ref)
	if i < 0 {
		return false
	}
	tail := append(append(make([]Node, 0, len(nodes)+len(c.nodes)-i-1), nodes...), c.nodes[i+1:]...)
	c.nodes = append(c.nodes[:i+1], tail...)
	return true
}

// Remove deletes n from the children. It returns false if n is not a child.
func (c *children) Remove(n Node) bool {
	i := c.index(n)
	if i < 0 {
		return false
	}
	c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
	return true
}

// Root is the top level container of a stylesheet.
type Root struct {
	children
}

// AtRule represents "@name params;" or "@name params { ... }".
type AtRule struct {
	children
	Name     string // without "@", vendor prefix preserved
	Params   string
	HasBlock bool
}

// Rule represents "selector { ... }".
type Rule struct {
	children
	Selector string
}

// Declaration represents "property: value" with optional !important.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Comment keeps comment text without "/*" and "*/".
type Comment struct {
	Text string
}

func (*Root) Type() NodeType        { return NodeRoot }
func (*AtRule) Type() NodeType      { return NodeAtRule }
func (*Rule) Type() NodeType        { return NodeRule }
func (*Declaration) Type() NodeType { return NodeDeclaration }
func (*Comment) Type() NodeType     { return NodeComment }

// Declarations returns declarations of the container in source order.
func Declarations(c Container) []*Declaration {
	var decls []*Declaration
	for _, n := range c.Nodes() {
		if d, ok := n.(*Declaration); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

// HasDeclarations reports whether the container has at least one declaration.
func HasDeclarations(c Container) bool {
	for _, n := range c.Nodes() {
		if _, ok := n.(*Declaration); ok {
			return true
		}
	}
	return false
}

// printer writes CSS text keeping track of written bytes and the first error.
type printer struct {
	w   io.Writer
	n   int64
	err error
}

func (p *printer) printf(depth int, format string, args ...any) {
	if p.err != nil {
		return
	}
	n, err := io.WriteString(p.w, strings.Repeat("  ", depth))
	p.n += int64(n)
	if err != nil {
		p.err = err
		return
	}
	n, err = fmt.Fprintf(p.w, format, args...)
	p.n += int64(n)
	p.err = err
}

func (p *printer) list(nodes []Node, depth int, blankLines bool) {
	for i, n := range nodes {
		if blankLines && i > 0 {
			p.printf(0, "\n")
		}
		n.print(p, depth)
	}
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
// Top level nodes are separated by blank lines.
func (r *Root) WriteTo(w io.Writer) (int64, error) {
	p := &printer{w: w}
	r.print(p, 0)
	return p.n, p.err
}

func (r *Root) print(p *printer, depth int) {
	p.list(r.nodes, depth, true)
}

func (a *AtRule) print(p *printer, depth int) {
	head := "@" + a.Name
	if a.Params != "" {
		head += " " + a.Params
	}
	if !a.HasBlock {
		p.printf(depth, "%s;\n", head)
		return
	}
	p.printf(depth, "%s {\n", head)
	p.list(a.nodes, depth+1, false)
	p.printf(depth, "}\n")
}

func (r *Rule) print(p *printer, depth int) {
	p.printf(depth, "%s {\n", r.Selector)
	p.list(r.nodes, depth+1, false)
	p.printf(depth, "}\n")
}

func (d *Declaration) print(p *printer, depth int) {
	if d.Important {
		p.printf(depth, "%s: %s !important;\n", d.Property, d.Value)
		return
	}
	p.printf(depth, "%s: %s;\n", d.Property, d.Value)
}

func (c *Comment) print(p *printer, depth int) {
	p.printf(depth, "/*%s*/\n", c.Text)
}

func nodeString(n Node) string {
	var sb strings.Builder
	n.print(&printer{w: &sb}, 0)
	return sb.String()
}

func (r *Root) String() string        { return nodeString(r) }
func (a *AtRule) String() string      { return nodeString(a) }
func (r *Rule) String() string        { return nodeString(r) }
func (d *Declaration) String() string { return nodeString(d) }
func (c *Comment) String() string     { return nodeString(c) }

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch n := n.(type) {
	case *Root:
		return &Root{children: cloneChildren(n.children)}
	case *AtRule:
		c := *n
		c.children = cloneChildren(n.children)
		return &c
	case *Rule:
		c := *n
		c.children = cloneChildren(n.children)
		return &c
	case *Declaration:
		c := *n
		return &c
	case *Comment:
		c := *n
		return &c
	default:
		panic(fmt.Sprintf("unexpected node type %T", n))
	}
}

func cloneChildren(c children) children {
	if c.nodes == nil {
		return children{}
	}
	nodes := make([]Node, len(c.nodes))
	for i, n := range c.nodes {
		nodes[i] = Clone(n)
	}
	return children{nodes: nodes}
}

// Unprefixed strips vendor prefix from an at-rule or property name:
// "-webkit-keyframes" becomes "keyframes". Result is lower case.
func Unprefixed(name string) string {
	name = strings.ToLower(name)
	if len(name) < 2 || name[0] != '-' {
		return name
	}
	if i := strings.IndexByte(name[1:], '-'); i > 0 {
		return name[i+2:]
	}
	return name
}

// IsKeyframes reports whether the at-rule is @keyframes or one of its vendor
// prefixed variants.
func IsKeyframes(a *AtRule) bool {
	return Unprefixed(a.Name) == "keyframes"
}
