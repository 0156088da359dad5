package rules

import (
	"vylint/internal/analysis"
	"vylint/internal/ast"
)

// Every storage read is a separate SLOAD; from the second read on, a local
// copy is cheaper. A write in between refreshes the slot and restarts the
// count.
const repeatedReadThreshold = 3

// RepeatedRead reports storage variables read repeatedly within one function
// body with no intervening write.
type RepeatedRead struct{}

func (RepeatedRead) Meta() Meta {
	return Meta{
		Code:     "VY002",
		Severity: SeverityStyle,
		Message:  "Storage variable '%s' is read %d times in '%s'; consider caching it in a local variable.",
		Doc: "Repeated reads of the same storage slot pay the SLOAD cost each " +
			"time; reading once into a local variable is cheaper.",
	}
}

func (RepeatedRead) CheckFunction(pass *Pass, fn *ast.FunctionDef) {
	if fn.IsFromInterface() {
		return
	}

	type run struct {
		count int
		first ast.Node
	}
	runs := make(map[string]*run)
	reported := make(map[string]bool)
	var order []string

	// A variable is reported at most once per function, at the first read of
	// the earliest qualifying run, with that run's full length.
	flush := func(name string) {
		r := runs[name]
		if r != nil && r.count >= repeatedReadThreshold && !reported[name] {
			reported[name] = true
			pass.Report(r.first, name, r.count, fn.Name)
		}
		delete(runs, name)
	}

	for _, acc := range pass.Analysis.Accesses(fn) {
		switch acc.Kind {
		case analysis.AccessWrite:
			flush(acc.Variable)
		case analysis.AccessRead:
			r := runs[acc.Variable]
			if r == nil {
				r = &run{first: acc.Node}
				runs[acc.Variable] = r
				order = append(order, acc.Variable)
			}
			r.count++
		}
	}
	for _, name := range order {
		flush(name)
	}
}
