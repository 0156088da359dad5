package codegen

import (
	"fmt"
	"sort"
	"strings"

	"vylint/internal/analysis"
)

// UnknownFunctionError reports a call-graph focus that names no function of
// the contract module.
type UnknownFunctionError struct {
	Function string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("function %q is not defined in the contract", e.Function)
}

// GenerateCallGraph renders the call graph as a Mermaid flowchart. With a
// non-empty focus only the subgraph reachable from that function is drawn;
// an unknown focus is an error rather than an empty diagram.
func GenerateCallGraph(graph *analysis.CallGraph, focus string) (string, error) {
	callers := graph.Callers()
	if focus != "" {
		if !graph.HasCaller(focus) {
			return "", &UnknownFunctionError{Function: focus}
		}
		callers = reachableFrom(graph, focus)
	}

	// Qualified callee names (imported module functions, interface methods)
	// appear as leaf nodes.
	seen := make(map[string]bool)
	var nodes []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			nodes = append(nodes, name)
		}
	}
	for _, caller := range callers {
		add(caller)
		for _, callee := range graph.Callees(caller) {
			add(callee)
		}
	}
	sort.Strings(nodes)

	// Rank spacing grows with the graph so edges stay legible.
	rankSpacing := 150 + len(nodes)*10
	if rankSpacing > 800 {
		rankSpacing = 800
	}

	lines := []string{
		"%%{init: {",
		`  "flowchart": {`,
		`    "nodeSpacing": 100,`,
		fmt.Sprintf(`    "rankSpacing": %d`, rankSpacing),
		"  }",
		"}}%%",
		"flowchart TD",
	}

	ids := make(map[string]string, len(nodes))
	for i, node := range nodes {
		ids[node] = fmt.Sprintf("N%d", i)
		lines = append(lines, fmt.Sprintf(`    %s["%s"]`, ids[node], node))
	}
	for _, caller := range callers {
		for _, callee := range graph.Callees(caller) {
			lines = append(lines, fmt.Sprintf("    %s --> %s", ids[caller], ids[callee]))
		}
	}
	return strings.Join(lines, "\n"), nil
}

// reachableFrom walks the graph depth-first from start and returns the
// visited callers in visit order. Callee-only names terminate the walk.
func reachableFrom(graph *analysis.CallGraph, start string) []string {
	visited := make(map[string]bool)
	var order []string
	var walk func(name string)
	walk = func(name string) {
		if visited[name] || !graph.HasCaller(name) {
			return
		}
		visited[name] = true
		order = append(order, name)
		for _, callee := range graph.Callees(name) {
			walk(callee)
		}
	}
	walk(start)
	return order
}
