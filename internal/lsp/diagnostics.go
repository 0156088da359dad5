package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"vylint/internal/ast"
	"vylint/internal/lint"
	"vylint/internal/rules"
)

// diagnosticSource labels published diagnostics in the editor.
const diagnosticSource = "vylint"

// toDiagnostics converts a lint result into LSP diagnostics. A pipeline
// failure becomes a single error diagnostic at the top of the file, so the
// editor shows why no findings could be produced.
func toDiagnostics(res lint.Result) []protocol.Diagnostic {
	if res.Err != nil {
		return []protocol.Diagnostic{{
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: 0, Character: 1},
			},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString(diagnosticSource),
			Message:  res.Err.Error(),
		}}
	}

	diagnostics := make([]protocol.Diagnostic, 0, len(res.Issues))
	for _, issue := range res.Issues {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    issueRange(issue.Position),
			Severity: ptrSeverity(mapSeverity(issue.Severity)),
			Code:     &protocol.IntegerOrString{Value: issue.Code},
			Source:   ptrString(diagnosticSource),
			Message:  issue.Message,
		})
	}
	return diagnostics
}

// mapSeverity translates lint severities to the LSP scale. Style findings
// map to Information so editors underline without alarming.
func mapSeverity(s rules.Severity) protocol.DiagnosticSeverity {
	switch s {
	case rules.SeverityError:
		return protocol.DiagnosticSeverityError
	case rules.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case rules.SeverityStyle:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityHint
	}
}

// issueRange converts a tree position (1-based lines, 0-based columns) to an
// LSP range (0-based both). A position without a usable end spans one
// character.
func issueRange(pos ast.Position) protocol.Range {
	startLine := pos.Line
	if startLine < 1 {
		startLine = 1
	}
	startCol := pos.Column
	if startCol < 0 {
		startCol = 0
	}

	start := protocol.Position{Line: uint32(startLine - 1), Character: uint32(startCol)}
	end := protocol.Position{Line: start.Line, Character: start.Character + 1}
	if pos.EndLine > startLine || (pos.EndLine == startLine && pos.EndColumn > startCol) {
		end = protocol.Position{Line: uint32(pos.EndLine - 1), Character: uint32(pos.EndColumn)}
	}

	return protocol.Range{Start: start, End: end}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
