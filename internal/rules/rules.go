// Package rules implements the lint checks and the engine that runs them.
//
// The registry is closed: DefaultRules returns the compiled-in set and
// callers hand it, possibly filtered, to NewEngine. Nothing registers
// itself at import time, so two engines never share state.
package rules

import "vylint/internal/analysis"

// DefaultRules returns every built-in rule, in reporting order.
func DefaultRules() []Rule {
	return []Rule{
		UnusedFunction{},
		RepeatedRead{},
		ImplicitView{},
		ImplicitPure{},
	}
}

// profile condenses an access list into its read/write footprint.
func profile(accesses []analysis.Access) (reads, writes bool) {
	for _, acc := range accesses {
		switch acc.Kind {
		case analysis.AccessRead:
			reads = true
		case analysis.AccessWrite:
			writes = true
		}
	}
	return reads, writes
}
