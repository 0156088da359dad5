package ast

// Node is the read-only view shared by every tree node. Trees are built once
// from the compiler's annotated-AST output and never mutated afterwards; all
// analyses treat nodes as immutable values.
type Node interface {
	Kind() NodeKind
	ID() int
	Pos() Position
	Parent() Node
	Children() []Node
}

// Position tracks source location as reported by the compiler: 1-based lines,
// 0-based columns.
type Position struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// base carries the fields common to every node variant. The decoder is the
// only writer; embedding keeps the variants themselves plain data.
type base struct {
	kind     NodeKind
	id       int
	pos      Position
	parent   Node
	children []Node
}

func (b *base) Kind() NodeKind   { return b.kind }
func (b *base) ID() int          { return b.id }
func (b *base) Pos() Position    { return b.pos }
func (b *base) Parent() Node     { return b.parent }
func (b *base) Children() []Node { return b.children }

// Walk visits n and then its descendants in pre-order, following the child
// order of the compiler output. Returning false stops descent below the
// current node; siblings are still visited.
func Walk(n Node, visit func(Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children() {
		Walk(child, visit)
	}
}

// Descendants returns every node strictly below n, in pre-order.
func Descendants(n Node) []Node {
	var out []Node
	for _, child := range n.Children() {
		Walk(child, func(d Node) bool {
			out = append(out, d)
			return true
		})
	}
	return out
}

// DescendantsOf returns the pre-order descendants of n whose kind matches.
func DescendantsOf(n Node, kind NodeKind) []Node {
	var out []Node
	for _, d := range Descendants(n) {
		if d.Kind() == kind {
			out = append(out, d)
		}
	}
	return out
}

// EnclosingModule walks parent links up to the module that contains n.
func EnclosingModule(n Node) *Module {
	for cur := n; cur != nil; cur = cur.Parent() {
		if m, ok := cur.(*Module); ok {
			return m
		}
	}
	return nil
}

// EnclosingFunction walks parent links up to the function definition that
// contains n, or nil when n sits outside any function body.
func EnclosingFunction(n Node) *FunctionDef {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if f, ok := cur.(*FunctionDef); ok {
			return f
		}
	}
	return nil
}
