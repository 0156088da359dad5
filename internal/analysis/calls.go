package analysis

import "vylint/internal/ast"

// CallKind classifies a call site by what the compiler guarantees about it.
type CallKind int

const (
	// CallInternal is a statically dispatched call inside the unit:
	// self.f() or module.f().
	CallInternal CallKind = iota
	// CallStatic is a staticcall expression: the call site cannot mutate
	// state, whatever the target turns out to be.
	CallStatic
	// CallExternal is an extcall expression: the callee may mutate state.
	CallExternal
	// CallIntrinsic is a plain-name call: a builtin, a struct constructor or
	// an interface cast. Its mutability comes from the builtin table.
	CallIntrinsic
)

func (k CallKind) String() string {
	switch k {
	case CallInternal:
		return "internal"
	case CallStatic:
		return "static"
	case CallExternal:
		return "external"
	default:
		return "intrinsic"
	}
}

// CallSite is one call found in a function body. Callee is the fully
// qualified target name ("f", "ownable.f", "IERC20.balanceOf"), empty when
// nothing about the target can be named. Target is the resolved definition
// inside the unit, nil for unresolved targets.
type CallSite struct {
	Kind      CallKind
	Callee    string
	Target    *ast.FunctionDef
	Node      ast.Node // the Call, ExtCall or StaticCall node
	intrinsic MutabilityClass
}

// collectCalls finds every call site in fn's body, in pre-order. Calls
// wrapped by extcall/staticcall report the wrapper's kind; the inner Call
// node and the interface cast forming its designator are not reported
// separately.
func (a *Analysis) collectCalls(fn *ast.FunctionDef) []CallSite {
	scope := ast.EnclosingModule(fn)
	var sites []CallSite
	for _, stmt := range fn.Body {
		ast.Walk(stmt, func(n ast.Node) bool {
			switch t := n.(type) {
			case *ast.ExtCall:
				sites = append(sites, a.resolveWrapped(scope, t, t.Value, CallExternal))
			case *ast.StaticCall:
				sites = append(sites, a.resolveWrapped(scope, t, t.Value, CallStatic))
			case *ast.Call:
				switch t.Parent().(type) {
				case *ast.ExtCall, *ast.StaticCall:
					// Reported through the wrapper.
				default:
					if !designatorCast(t) {
						sites = append(sites, a.resolveCall(scope, t))
					}
				}
			}
			return true
		})
	}
	return sites
}

// designatorCast reports whether call is the callee base of an enclosing
// call expression, the IERC20(x) in IERC20(x).transfer(y). Such a cast is
// part of the enclosing site, not a call of its own.
func designatorCast(call *ast.Call) bool {
	attr, ok := call.Parent().(*ast.Attribute)
	if !ok {
		return false
	}
	outer, ok := attr.Parent().(*ast.Call)
	return ok && outer.Func == attr
}

// resolveCall classifies an unwrapped call: internal dispatch through self or
// an imported module, or an intrinsic.
func (a *Analysis) resolveCall(scope *ast.Module, call *ast.Call) CallSite {
	// Event emission parses as a call wrapped in a Log statement. Appending
	// to the log is a state effect, whatever the event is named.
	if p := call.Parent(); p != nil && p.Kind() == ast.KindLog {
		site := CallSite{Kind: CallIntrinsic, Node: call, intrinsic: MutabilityNonpayable}
		if name, ok := call.Func.(*ast.Name); ok {
			site.Callee = name.Ident
		}
		return site
	}

	site := CallSite{Kind: CallInternal, Node: call}
	switch f := call.Func.(type) {
	case *ast.Name:
		site.Kind = CallIntrinsic
		site.Callee = f.Ident
		site.intrinsic = builtinMutability(f.Ident)
	case *ast.Attribute:
		base, ok := f.Value.(*ast.Name)
		if !ok {
			return site // unresolvable target
		}
		switch {
		case base.Ident == "self":
			site.Target = scope.Function(f.Attr)
			site.Callee = a.qualify(scope, f.Attr)
		default:
			if mod := a.moduleByAlias(scope, base.Ident); mod != nil && !mod.IsInterface() {
				site.Target = mod.Function(f.Attr)
				site.Callee = mod.Stem() + "." + f.Attr
			}
		}
	}
	return site
}

// resolveWrapped classifies an extcall/staticcall site. The target interface
// is only nameable when the callee expression is a direct interface cast,
// IERC20(x).f(...), or an interface-typed name; everything else stays
// unresolved and classifies as unknown.
func (a *Analysis) resolveWrapped(scope *ast.Module, wrapper ast.Node, call *ast.Call, kind CallKind) CallSite {
	site := CallSite{Kind: kind, Node: wrapper}
	if call == nil {
		return site
	}
	attr, ok := call.Func.(*ast.Attribute)
	if !ok {
		return site
	}
	iface := ""
	switch v := attr.Value.(type) {
	case *ast.Call:
		if name, ok := v.Func.(*ast.Name); ok && a.isInterfaceName(scope, name.Ident) {
			iface = name.Ident
		}
	case *ast.Name:
		if a.isInterfaceName(scope, v.Ident) {
			iface = v.Ident
		}
	}
	if iface == "" {
		site.Callee = attr.Attr
		return site
	}
	site.Callee = iface + "." + attr.Attr
	site.Target = a.interfaceFunction(scope, iface, attr.Attr)
	return site
}

// qualify prefixes a function name with its module stem, except for the
// contract module itself.
func (a *Analysis) qualify(scope *ast.Module, name string) string {
	if scope == a.unit.Module {
		return name
	}
	return scope.Stem() + "." + name
}

// calleeMutabilityLocked resolves the mutability class a call site's target
// contributes to its caller. Declared modifiers are trusted; undeclared
// internal targets are inferred recursively.
func (a *Analysis) calleeMutabilityLocked(site CallSite) MutabilityClass {
	switch site.Kind {
	case CallExternal:
		return MutabilityNonpayable
	case CallIntrinsic:
		return site.intrinsic
	case CallStatic:
		if site.Target == nil {
			return MutabilityUnknown
		}
		if m, ok := declaredMutability(site.Target); ok {
			return m
		}
		// Interface stubs default to nonpayable when no marker survives.
		return MutabilityNonpayable
	default: // CallInternal
		if site.Target == nil {
			return MutabilityUnknown
		}
		if m, ok := declaredMutability(site.Target); ok {
			return m
		}
		return a.effectiveMutabilityLocked(site.Target)
	}
}

// declaredMutability reads an explicit mutability declaration: a decorator on
// a concrete function, or the marker expression that forms an interface
// stub's body ("def f() -> x: view").
func declaredMutability(fn *ast.FunctionDef) (MutabilityClass, bool) {
	for _, m := range fn.Modifiers {
		switch m {
		case "pure":
			return MutabilityPure, true
		case "view":
			return MutabilityView, true
		case "payable", "nonpayable":
			return MutabilityNonpayable, true
		}
	}
	if fn.IsFromInterface() && len(fn.Body) == 1 {
		if expr, ok := fn.Body[0].(*ast.Expr); ok {
			if marker, ok := expr.Value.(*ast.Name); ok {
				switch marker.Ident {
				case "pure":
					return MutabilityPure, true
				case "view":
					return MutabilityView, true
				case "payable", "nonpayable":
					return MutabilityNonpayable, true
				}
			}
		}
	}
	return MutabilityUnknown, false
}
