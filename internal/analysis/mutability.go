package analysis

import "vylint/internal/ast"

// MutabilityClass orders function mutability from most to least restrictive.
// Everything a pure function may do, a view function may do; everything a
// view function may do, a nonpayable function may do.
type MutabilityClass int

const (
	MutabilityPure MutabilityClass = iota
	MutabilityView
	MutabilityNonpayable
	// MutabilityUnknown marks targets outside the analyzed unit. Callers
	// must treat it as nonpayable.
	MutabilityUnknown
)

func (m MutabilityClass) String() string {
	switch m {
	case MutabilityPure:
		return "pure"
	case MutabilityView:
		return "view"
	case MutabilityNonpayable:
		return "nonpayable"
	default:
		return "unknown"
	}
}

// AtMostView reports whether the class is pure or view, i.e. the call cannot
// mutate state.
func (m MutabilityClass) AtMostView() bool {
	return m == MutabilityPure || m == MutabilityView
}

// effectiveMutabilityLocked infers fn's mutability with memoization. A
// function currently being resolved classifies as nonpayable on re-entry,
// which both terminates recursion cycles and settles every participant of
// the cycle on nonpayable.
func (a *Analysis) effectiveMutabilityLocked(fn *ast.FunctionDef) MutabilityClass {
	if m, ok := a.mutability[fn]; ok {
		return m
	}
	if a.visiting[fn] {
		return MutabilityNonpayable
	}
	a.visiting[fn] = true
	defer delete(a.visiting, fn)

	m := a.classify(fn)
	a.mutability[fn] = m
	return m
}

// classify computes the mutability class from the function's own profile,
// checking the most restrictive class first. Interface stubs have no body to
// classify; their declaration decides.
func (a *Analysis) classify(fn *ast.FunctionDef) MutabilityClass {
	if fn.IsFromInterface() {
		if m, ok := declaredMutability(fn); ok {
			return m
		}
		return MutabilityNonpayable
	}

	var reads, writes int
	for _, acc := range a.accessesLocked(fn) {
		if acc.Kind == AccessWrite {
			writes++
		} else {
			reads++
		}
	}

	sawView := false
	for _, site := range a.callsLocked(fn) {
		if site.Kind == CallExternal {
			return MutabilityNonpayable
		}
		switch m := a.calleeMutabilityLocked(site); m {
		case MutabilityPure:
		case MutabilityView:
			sawView = true
		default:
			return MutabilityNonpayable
		}
	}

	if writes > 0 {
		return MutabilityNonpayable
	}
	if reads > 0 || sawView {
		return MutabilityView
	}
	return MutabilityPure
}
