package rules

import (
	"vylint/internal/analysis"
	"vylint/internal/ast"
)

// Engine runs a fixed rule set over one analyzed unit. Rules registered
// first report first; within a rule, issues follow traversal order.
type Engine struct {
	rules      []Rule
	severities map[string]Severity
	disabled   map[string]bool
}

func NewEngine(set []Rule) *Engine {
	return &Engine{
		rules:      set,
		severities: make(map[string]Severity),
		disabled:   make(map[string]bool),
	}
}

// Disable drops rules from the run by code.
func (e *Engine) Disable(codes ...string) {
	for _, code := range codes {
		e.disabled[code] = true
	}
}

// Override replaces a rule's default severity.
func (e *Engine) Override(code string, severity Severity) {
	e.severities[code] = severity
}

// Run applies every enabled rule to the unit's contract module. Imported
// modules are never inspected directly; their definitions matter only
// through the analysis the rules consult.
func (e *Engine) Run(a *analysis.Analysis) []Issue {
	var issues []Issue
	mod := a.Unit().Module
	for _, rule := range e.rules {
		meta := rule.Meta()
		if e.disabled[meta.Code] {
			continue
		}
		severity := meta.Severity
		if s, ok := e.severities[meta.Code]; ok {
			severity = s
		}
		pass := &Pass{Analysis: a, meta: meta, severity: severity, issues: &issues}
		if mr, ok := rule.(ModuleRule); ok {
			mr.CheckModule(pass, mod)
		}
		if fr, ok := rule.(FunctionRule); ok {
			ast.Walk(mod, func(n ast.Node) bool {
				if fn, ok := n.(*ast.FunctionDef); ok {
					fr.CheckFunction(pass, fn)
					return false // function bodies hold no nested definitions
				}
				return true
			})
		}
	}
	return issues
}
