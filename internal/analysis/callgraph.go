package analysis

// CallGraph maps every function of the contract module to the distinct
// targets it calls, in first-occurrence order. Imported and interface
// functions appear on the callee side under their qualified names.
type CallGraph struct {
	callers []string
	edges   map[string][]string
}

// Callers returns the contract's function names in definition order.
func (g *CallGraph) Callers() []string { return g.callers }

// Callees returns the distinct targets name calls, in first-occurrence order.
func (g *CallGraph) Callees(name string) []string { return g.edges[name] }

// HasCaller reports whether name is a function of the contract module.
func (g *CallGraph) HasCaller(name string) bool {
	_, ok := g.edges[name]
	return ok
}

// Nodes returns every name appearing in the graph, callers first, each name
// once.
func (g *CallGraph) Nodes() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, caller := range g.callers {
		add(caller)
		for _, callee := range g.edges[caller] {
			add(callee)
		}
	}
	return out
}

// buildGraph assembles the call graph over the contract module's functions.
// Intrinsic sites are omitted; unresolvable targets have no name to draw.
func (a *Analysis) buildGraph() *CallGraph {
	g := &CallGraph{edges: make(map[string][]string)}
	for _, fn := range a.unit.Module.Functions() {
		name := fn.Name
		g.callers = append(g.callers, name)
		g.edges[name] = nil

		seen := make(map[string]bool)
		for _, site := range a.callsLocked(fn) {
			if site.Kind == CallIntrinsic || site.Callee == "" {
				continue
			}
			if seen[site.Callee] {
				continue
			}
			seen[site.Callee] = true
			g.edges[name] = append(g.edges[name], site.Callee)
		}
	}
	return g
}
