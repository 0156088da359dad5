package rules

import (
	"vylint/internal/analysis"
	"vylint/internal/ast"
)

// ImplicitPure suggests the pure modifier for functions that touch no
// contract state at all. Over-declared view functions qualify too.
type ImplicitPure struct{}

func (ImplicitPure) Meta() Meta {
	return Meta{
		Code:     "VY004",
		Severity: SeverityStyle,
		Message:  "Function '%s' does not access state but is not marked as 'pure'.",
		Doc: "A function with no storage accesses, no external calls and only " +
			"pure callees can declare pure, the strongest mutability guarantee.",
	}
}

func (ImplicitPure) CheckFunction(pass *Pass, fn *ast.FunctionDef) {
	if fn.IsConstructor() || fn.IsFromInterface() || fn.HasModifier("pure") {
		return
	}
	a := pass.Analysis
	reads, writes := profile(a.Accesses(fn))
	if reads || writes {
		return
	}
	for _, site := range a.Calls(fn) {
		if site.Kind == analysis.CallExternal {
			return
		}
		if a.CalleeMutability(site) != analysis.MutabilityPure {
			return
		}
	}
	pass.Report(fn, fn.Name)
}
