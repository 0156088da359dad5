package rules

import "vylint/internal/ast"

// UnusedFunction reports internal functions nothing in the contract calls.
// External functions and the constructor are entry points and never count
// as unused.
type UnusedFunction struct{}

func (UnusedFunction) Meta() Meta {
	return Meta{
		Code:     "VY001",
		Severity: SeverityWarning,
		Message:  "Internal function '%s' is never called.",
		Doc: "An internal function with no call sites is dead code: it still " +
			"costs deploy gas and review attention.",
	}
}

func (UnusedFunction) CheckFunction(pass *Pass, fn *ast.FunctionDef) {
	if fn.IsExternal() || fn.IsConstructor() || fn.IsFromInterface() {
		return
	}
	graph := pass.Analysis.Graph()
	for _, caller := range graph.Callers() {
		if caller == fn.Name {
			// Calling itself does not make a function reachable.
			continue
		}
		for _, callee := range graph.Callees(caller) {
			if callee == fn.Name {
				return
			}
		}
	}
	pass.Report(fn, fn.Name)
}
