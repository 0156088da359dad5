package analysis

import "vylint/internal/ast"

// AccessKind distinguishes storage reads from storage writes.
type AccessKind int

const (
	AccessRead AccessKind = iota
	AccessWrite
)

func (k AccessKind) String() string {
	if k == AccessWrite {
		return "write"
	}
	return "read"
}

// Access is one storage touch: the variable, the direction, and the node the
// touch happens at. Variables of imported modules are qualified with the
// module name.
type Access struct {
	Kind     AccessKind
	Variable string
	Decl     *ast.VariableDecl
	Node     ast.Node
}

// extractAccesses walks fn's body in pre-order and records every reference
// that resolves to a persistent-storage variable. Assignment targets resolve
// as writes, everything else as reads. Call designators (the self.f in
// self.f(...)) reference functions, not storage, and are skipped; argument
// expressions still count because the caller evaluates them. Effects inside
// callee bodies are never attributed here, they flow through the call graph.
func (a *Analysis) extractAccesses(fn *ast.FunctionDef) []Access {
	scope := ast.EnclosingModule(fn)
	var out []Access

	record := func(n ast.Node, kind AccessKind) bool {
		decl, name, ok := a.resolveStorage(scope, n)
		if !ok {
			return false
		}
		out = append(out, Access{Kind: kind, Variable: name, Decl: decl, Node: n})
		return true
	}

	var visit func(n ast.Node)
	var visitTarget func(n ast.Node)

	visit = func(n ast.Node) {
		if n == nil {
			return
		}
		switch t := n.(type) {
		case *ast.Assign:
			visitTarget(t.Target)
			visit(t.Value)
		case *ast.AugAssign:
			visitTarget(t.Target)
			visit(t.Value)
		case *ast.AnnAssign:
			visitTarget(t.Target)
			visit(t.Value)
		case *ast.Attribute:
			if !record(t, AccessRead) {
				visit(t.Value)
			}
		case *ast.Call:
			for _, child := range t.Children() {
				if child == t.Func {
					a.visitCallee(t.Func, scope, visit)
					continue
				}
				visit(child)
			}
		case *ast.ExtCall:
			visit(t.Value)
		case *ast.StaticCall:
			visit(t.Value)
		default:
			for _, child := range n.Children() {
				visit(child)
			}
		}
	}

	// Assignment targets: the spine of the target is the written variable,
	// index expressions inside it are still reads.
	visitTarget = func(n ast.Node) {
		switch t := n.(type) {
		case *ast.Tuple:
			for _, el := range t.Elements {
				visitTarget(el)
			}
		case *ast.Subscript:
			visitTarget(t.Value)
			visit(t.Index)
		case *ast.Attribute:
			if !record(t, AccessWrite) {
				visitTarget(t.Value)
			}
		case *ast.Name:
			// Locals and immutables are assigned by bare name; not storage.
		default:
			visit(n)
		}
	}

	for _, stmt := range fn.Body {
		visit(stmt)
	}
	return out
}

// visitCallee handles the function-designator position of a call. A pure
// designator (self.f, module.f, bare name) contributes no accesses. Anything
// else in that position, e.g. the interface cast in IERC20(self.token).f,
// is an expression the caller evaluates, so its reads count.
func (a *Analysis) visitCallee(callee ast.Node, scope *ast.Module, visit func(ast.Node)) {
	attr, ok := callee.(*ast.Attribute)
	if !ok {
		return
	}
	if base, ok := attr.Value.(*ast.Name); ok {
		if base.Ident == "self" || a.moduleByAlias(scope, base.Ident) != nil || a.isInterfaceName(scope, base.Ident) {
			return
		}
	}
	visit(attr.Value)
}

// resolveStorage resolves an attribute expression to the storage variable it
// touches: self.<name> against the scope module, alias.<name> against an
// imported module. References that name functions or transient locals do not
// resolve.
func (a *Analysis) resolveStorage(scope *ast.Module, n ast.Node) (*ast.VariableDecl, string, bool) {
	attr, ok := n.(*ast.Attribute)
	if !ok {
		return nil, "", false
	}
	base, ok := attr.Value.(*ast.Name)
	if !ok {
		return nil, "", false
	}
	if base.Ident == "self" {
		if decl, ok := a.storage[scope][attr.Attr]; ok {
			return decl, attr.Attr, true
		}
		return nil, "", false
	}
	if mod := a.moduleByAlias(scope, base.Ident); mod != nil {
		if decl, ok := a.storage[mod][attr.Attr]; ok {
			return decl, mod.Stem() + "." + attr.Attr, true
		}
	}
	return nil, "", false
}
