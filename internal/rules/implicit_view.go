package rules

import (
	"vylint/internal/analysis"
	"vylint/internal/ast"
)

// ImplicitView suggests the view modifier for functions that read contract
// state without mutating it.
type ImplicitView struct{}

func (ImplicitView) Meta() Meta {
	return Meta{
		Code:     "VY003",
		Severity: SeverityStyle,
		Message:  "Function '%s' reads contract state but is not marked as 'view'.",
		Doc: "A function that only reads state can declare view, letting callers " +
			"use staticcall and documenting that it cannot mutate anything.",
	}
}

func (ImplicitView) CheckFunction(pass *Pass, fn *ast.FunctionDef) {
	if fn.IsConstructor() || fn.IsFromInterface() ||
		fn.HasModifier("view") || fn.HasModifier("pure") {
		return
	}
	a := pass.Analysis
	sites := a.Calls(fn)

	// When staticcalls are present and every one resolves pure, the function
	// may qualify for the stronger pure suggestion; that rule owns it.
	statics, pureStatics, viewStatics := 0, 0, 0
	for _, site := range sites {
		if site.Kind == analysis.CallStatic {
			statics++
			switch a.CalleeMutability(site) {
			case analysis.MutabilityPure:
				pureStatics++
			case analysis.MutabilityView:
				viewStatics++
			}
		}
	}
	if statics > 0 && statics == pureStatics {
		return
	}

	reads, writes := profile(a.Accesses(fn))
	if writes {
		return
	}
	for _, site := range sites {
		if site.Kind == analysis.CallExternal {
			return
		}
		// One callee that may mutate state invalidates the suggestion.
		if !a.CalleeMutability(site).AtMostView() {
			return
		}
	}
	// A direct read qualifies, and so does a staticcall whose target resolves
	// view: the call site proves a state read happens somewhere below it.
	if !reads && viewStatics == 0 {
		return
	}
	pass.Report(fn, fn.Name)
}
