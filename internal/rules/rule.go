package rules

import (
	"fmt"

	"vylint/internal/analysis"
	"vylint/internal/ast"
)

// Meta identifies a rule and carries its message template. The template is
// interpolated with fmt verbs when the rule reports.
type Meta struct {
	Code     string
	Severity Severity
	Message  string
	Doc      string
}

// Rule is a single lint check. Concrete rules additionally implement one or
// more of the visitor interfaces below; the engine dispatches on those.
type Rule interface {
	Meta() Meta
}

// FunctionRule inspects one function definition at a time.
type FunctionRule interface {
	Rule
	CheckFunction(pass *Pass, fn *ast.FunctionDef)
}

// ModuleRule inspects the contract module as a whole.
type ModuleRule interface {
	Rule
	CheckModule(pass *Pass, mod *ast.Module)
}

// Pass hands a rule the analysis of the unit under inspection and collects
// what it reports.
type Pass struct {
	Analysis *analysis.Analysis

	meta     Meta
	severity Severity
	issues   *[]Issue
}

// Report records an issue at n's position. args interpolate the rule's
// message template.
func (p *Pass) Report(n ast.Node, args ...any) {
	*p.issues = append(*p.issues, Issue{
		Code:     p.meta.Code,
		Severity: p.severity,
		Message:  fmt.Sprintf(p.meta.Message, args...),
		Node:     n,
		Position: n.Pos(),
	})
}
