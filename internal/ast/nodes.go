package ast

import (
	"path"
	"strings"
)

// Module represents one compiled source unit: the linted contract itself or
// one of the modules the compiler inlined for its imports.
type Module struct {
	base
	Name string // module name when the compiler reports one
	Path string // source path, e.g. "contracts/ownable.vy"
	Body []Node
}

// Stem returns the module identifier derived from the source path, which is
// how imported functions and variables are qualified in diagnostics.
// Example: "contracts/ownable.vy" -> "ownable".
func (m *Module) Stem() string {
	if m.Path != "" {
		b := path.Base(m.Path)
		return strings.TrimSuffix(b, path.Ext(b))
	}
	return m.Name
}

// IsInterface reports whether the module is an interface file. Interface
// functions are declaration stubs with no analyzable body.
func (m *Module) IsInterface() bool {
	return strings.HasSuffix(m.Path, ".vyi")
}

// Functions returns the function definitions declared directly in the module
// body, in source order.
func (m *Module) Functions() []*FunctionDef {
	var out []*FunctionDef
	for _, item := range m.Body {
		if f, ok := item.(*FunctionDef); ok {
			out = append(out, f)
		}
	}
	return out
}

// Function looks up a module-level function definition by name.
func (m *Module) Function(name string) *FunctionDef {
	for _, f := range m.Functions() {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Variables returns the module-level variable declarations in source order.
func (m *Module) Variables() []*VariableDecl {
	var out []*VariableDecl
	for _, item := range m.Body {
		if v, ok := item.(*VariableDecl); ok {
			out = append(out, v)
		}
	}
	return out
}

// Interfaces returns the interface definitions declared inline in the module.
func (m *Module) Interfaces() []*InterfaceDef {
	var out []*InterfaceDef
	for _, item := range m.Body {
		if i, ok := item.(*InterfaceDef); ok {
			out = append(out, i)
		}
	}
	return out
}

// FunctionDef represents a function definition, including interface stubs.
type FunctionDef struct {
	base
	Name      string
	Modifiers []string // decorator names in source order, e.g. "external", "view"
	Body      []Node
}

// HasModifier reports whether the function declares the given decorator.
func (f *FunctionDef) HasModifier(name string) bool {
	for _, m := range f.Modifiers {
		if m == name {
			return true
		}
	}
	return false
}

// IsConstructor reports whether the function is the deployment constructor.
func (f *FunctionDef) IsConstructor() bool {
	return f.Name == "__init__" || f.HasModifier("deploy")
}

// IsExternal reports whether the function is part of the contract's external
// surface.
func (f *FunctionDef) IsExternal() bool {
	return f.HasModifier("external")
}

// IsFromInterface reports whether the function is an interface stub: declared
// inside an interface definition or in an interface module. Stubs carry a
// mutability marker but no analyzable body.
func (f *FunctionDef) IsFromInterface() bool {
	for cur := f.Parent(); cur != nil; cur = cur.Parent() {
		switch p := cur.(type) {
		case *InterfaceDef:
			return true
		case *Module:
			return p.IsInterface()
		}
	}
	return false
}

// InterfaceDef represents an inline interface declaration.
type InterfaceDef struct {
	base
	Name string
	Body []Node
}

// Functions returns the stub declarations of the interface.
func (i *InterfaceDef) Functions() []*FunctionDef {
	var out []*FunctionDef
	for _, item := range i.Body {
		if f, ok := item.(*FunctionDef); ok {
			out = append(out, f)
		}
	}
	return out
}

// VariableDecl represents a module-level variable declaration.
// Example: "owner: public(address)", "DECIMALS: constant(uint8) = 18"
type VariableDecl struct {
	base
	Target    *Name
	Public    bool
	Constant  bool
	Immutable bool
	Transient bool
}

// VarName returns the declared variable name.
func (v *VariableDecl) VarName() string { return v.Target.Ident }

// IsStorage reports whether the declaration occupies contract state.
// Constants are folded at compile time and immutables live in code, so
// neither is reachable through self; transient variables still count because
// writing them is a state mutation.
func (v *VariableDecl) IsStorage() bool {
	return !v.Constant && !v.Immutable
}

// Import represents "import x" or "import x as y".
type Import struct {
	base
	Name  string // dotted module path as written
	Alias string
}

// LocalName returns the identifier the import binds in the module namespace.
func (i *Import) LocalName() string {
	if i.Alias != "" {
		return i.Alias
	}
	if idx := strings.LastIndex(i.Name, "."); idx >= 0 {
		return i.Name[idx+1:]
	}
	return i.Name
}

// ImportFrom represents "from x import y" or "from x import y as z".
type ImportFrom struct {
	base
	Module string
	Name   string
	Alias  string
}

// LocalName returns the identifier the import binds in the module namespace.
func (i *ImportFrom) LocalName() string {
	if i.Alias != "" {
		return i.Alias
	}
	return i.Name
}

// Assign represents "target = value".
type Assign struct {
	base
	Target Node
	Value  Node
}

// AugAssign represents "target op= value".
type AugAssign struct {
	base
	Target Node
	Value  Node
}

// AnnAssign represents an annotated declaration, "target: type = value".
// Value is nil when the declaration has no initializer.
type AnnAssign struct {
	base
	Target Node
	Value  Node
}

// Expr represents an expression statement. Interface stubs use a bare Name
// expression as their mutability marker, e.g. "def owner() -> address: view".
type Expr struct {
	base
	Value Node
}

// Call represents a call expression. Internal calls go through self or an
// imported module; plain-name calls are builtins, struct constructors or
// interface casts.
type Call struct {
	base
	Func Node
	Args []Node
}

// ExtCall represents an "extcall" expression: an external message call that
// may mutate state on the callee side.
type ExtCall struct {
	base
	Value *Call
}

// StaticCall represents a "staticcall" expression: an external call the
// compiler guarantees cannot mutate state at the call site.
type StaticCall struct {
	base
	Value *Call
}

// Attribute represents "value.attr". Storage reads and writes surface as
// attribute access on self or on an imported module.
type Attribute struct {
	base
	Value Node
	Attr  string
}

// Name represents a bare identifier.
type Name struct {
	base
	Ident string
}

// Subscript represents "value[index]".
type Subscript struct {
	base
	Value Node
	Index Node
}

// Tuple represents a tuple expression, including multi-assignment targets.
type Tuple struct {
	base
	Elements []Node
}

// Generic covers every node kind the analyses have no dedicated variant for.
// Its children are still wired, so traversal sees through it.
type Generic struct {
	base
}
