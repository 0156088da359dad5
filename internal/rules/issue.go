package rules

import "vylint/internal/ast"

// Issue is one finding, pinned to the node that triggered it. Position is
// the node's source span at the time of reporting.
type Issue struct {
	Code     string
	Severity Severity
	Message  string
	Node     ast.Node
	Position ast.Position
}
