// Package analysis derives semantic facts from a decoded source unit: which
// storage variables each function touches, which functions call which, and
// what mutability each function effectively has. All results are memoized;
// one Analysis value is safe for concurrent use.
package analysis

import (
	"sync"

	"vylint/internal/ast"
)

type Analysis struct {
	unit *ast.SourceUnit

	// Built once up front.
	storage    map[*ast.Module]map[string]*ast.VariableDecl
	aliases    map[*ast.Module]map[string]*ast.Module
	interfaces map[*ast.Module]map[string]*ast.InterfaceDef

	mu         sync.Mutex
	accesses   map[*ast.FunctionDef][]Access
	calls      map[*ast.FunctionDef][]CallSite
	mutability map[*ast.FunctionDef]MutabilityClass
	visiting   map[*ast.FunctionDef]bool

	graphOnce sync.Once
	graph     *CallGraph
}

// New indexes the source unit. The unit's tree is treated as immutable from
// here on.
func New(unit *ast.SourceUnit) *Analysis {
	a := &Analysis{
		unit:       unit,
		storage:    make(map[*ast.Module]map[string]*ast.VariableDecl),
		aliases:    make(map[*ast.Module]map[string]*ast.Module),
		interfaces: make(map[*ast.Module]map[string]*ast.InterfaceDef),
		accesses:   make(map[*ast.FunctionDef][]Access),
		calls:      make(map[*ast.FunctionDef][]CallSite),
		mutability: make(map[*ast.FunctionDef]MutabilityClass),
		visiting:   make(map[*ast.FunctionDef]bool),
	}
	for _, mod := range unit.AllModules() {
		a.indexModule(mod)
	}
	return a
}

// Unit returns the source unit under analysis.
func (a *Analysis) Unit() *ast.SourceUnit { return a.unit }

func (a *Analysis) indexModule(mod *ast.Module) {
	vars := make(map[string]*ast.VariableDecl)
	for _, v := range mod.Variables() {
		if v.IsStorage() {
			vars[v.VarName()] = v
		}
	}
	a.storage[mod] = vars

	ifaces := make(map[string]*ast.InterfaceDef)
	for _, i := range mod.Interfaces() {
		ifaces[i.Name] = i
	}
	a.interfaces[mod] = ifaces

	// Imported modules are addressable by the name their import statement
	// binds; the path stem doubles as a fallback when no statement survives
	// in the tree.
	names := make(map[string]*ast.Module)
	for _, imported := range a.unit.Imports {
		if imported == mod {
			continue
		}
		names[imported.Stem()] = imported
	}
	for _, item := range mod.Body {
		switch imp := item.(type) {
		case *ast.Import:
			if target := a.moduleByStem(lastSegment(imp.Name)); target != nil {
				names[imp.LocalName()] = target
			}
		case *ast.ImportFrom:
			if target := a.moduleByStem(imp.Name); target != nil {
				names[imp.LocalName()] = target
			}
		}
	}
	a.aliases[mod] = names
}

func (a *Analysis) moduleByStem(stem string) *ast.Module {
	for _, imported := range a.unit.Imports {
		if imported.Stem() == stem {
			return imported
		}
	}
	return nil
}

// moduleByAlias resolves an identifier used inside scope to the imported
// module it names, or nil.
func (a *Analysis) moduleByAlias(scope *ast.Module, name string) *ast.Module {
	return a.aliases[scope][name]
}

// interfaceFunction resolves iface.method to the declaring stub: an inline
// interface definition in scope, or an imported interface module.
func (a *Analysis) interfaceFunction(scope *ast.Module, iface, method string) *ast.FunctionDef {
	if def, ok := a.interfaces[scope][iface]; ok {
		for _, f := range def.Functions() {
			if f.Name == method {
				return f
			}
		}
		return nil
	}
	if mod := a.moduleByAlias(scope, iface); mod != nil && mod.IsInterface() {
		return mod.Function(method)
	}
	return nil
}

// isInterfaceName reports whether name denotes an interface in scope.
func (a *Analysis) isInterfaceName(scope *ast.Module, name string) bool {
	if _, ok := a.interfaces[scope][name]; ok {
		return true
	}
	mod := a.moduleByAlias(scope, name)
	return mod != nil && mod.IsInterface()
}

// Accesses returns the ordered storage touches of fn's body.
func (a *Analysis) Accesses(fn *ast.FunctionDef) []Access {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accessesLocked(fn)
}

func (a *Analysis) accessesLocked(fn *ast.FunctionDef) []Access {
	if got, ok := a.accesses[fn]; ok {
		return got
	}
	out := a.extractAccesses(fn)
	a.accesses[fn] = out
	return out
}

// Calls returns the ordered call sites of fn's body.
func (a *Analysis) Calls(fn *ast.FunctionDef) []CallSite {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.callsLocked(fn)
}

func (a *Analysis) callsLocked(fn *ast.FunctionDef) []CallSite {
	if got, ok := a.calls[fn]; ok {
		return got
	}
	out := a.collectCalls(fn)
	a.calls[fn] = out
	return out
}

// ExtCalls returns fn's external call sites.
func (a *Analysis) ExtCalls(fn *ast.FunctionDef) []CallSite {
	var out []CallSite
	for _, site := range a.Calls(fn) {
		if site.Kind == CallExternal {
			out = append(out, site)
		}
	}
	return out
}

// EffectiveMutability infers the mutability class of fn from its body,
// regardless of what the function declares.
func (a *Analysis) EffectiveMutability(fn *ast.FunctionDef) MutabilityClass {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.effectiveMutabilityLocked(fn)
}

// CalleeMutability resolves the mutability class of a call site's target,
// MutabilityUnknown when the target is outside the analyzed unit.
func (a *Analysis) CalleeMutability(site CallSite) MutabilityClass {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calleeMutabilityLocked(site)
}

// Graph returns the unit's call graph. Built once on first use.
func (a *Analysis) Graph() *CallGraph {
	a.graphOnce.Do(func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.graph = a.buildGraph()
	})
	return a.graph
}

func lastSegment(dotted string) string {
	for i := len(dotted) - 1; i >= 0; i-- {
		if dotted[i] == '.' {
			return dotted[i+1:]
		}
	}
	return dotted
}
