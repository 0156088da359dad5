package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"vylint/internal/lint"
	"vylint/internal/rules"
)

// Text renders findings as terminal diagnostics: one header line per
// finding in path:line:col form, optionally followed by the offending
// source line with a caret marker under the finding's span.
type Text struct {
	// WithSource prints the source line each finding points at.
	WithSource bool
}

func (t Text) Render(w io.Writer, results []lint.Result) error {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, res := range results {
		if res.Err != nil {
			label := color.New(color.FgRed, color.Bold).Sprint("error:")
			if _, err := fmt.Fprintf(w, "%s: %s %v\n", bold(res.File), label, res.Err); err != nil {
				return err
			}
			continue
		}

		var lines []string
		if t.WithSource {
			lines = strings.Split(string(res.Source), "\n")
		}

		for _, issue := range displayOrder(res.Issues) {
			label := severityColor(issue.Severity).Sprint(issue.Severity.String())
			// Positions carry 0-based columns; editors count from 1.
			if _, err := fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
				bold(res.File), issue.Position.Line, issue.Position.Column+1,
				dim("["+issue.Code+"]"), label, issue.Message); err != nil {
				return err
			}
			if t.WithSource {
				if err := writeSourceBlock(w, lines, issue, dim); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// writeSourceBlock prints the finding's source line with a caret marker, in
// the shape compiler diagnostics use:
//
//	  4 │ def get_fee() -> uint256:
//	    │ ^^^
func writeSourceBlock(w io.Writer, lines []string, issue rules.Issue, dim func(...interface{}) string) error {
	pos := issue.Position
	if pos.Line < 1 || pos.Line > len(lines) {
		return nil
	}

	width := len(fmt.Sprint(pos.Line))
	if width < 3 {
		width = 3
	}
	gutter := strings.Repeat(" ", width)

	lineNo := color.New(color.Bold).Sprintf("%*d", width, pos.Line)
	if _, err := fmt.Fprintf(w, "%s %s %s\n", lineNo, dim("│"), lines[pos.Line-1]); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s %s %s\n", gutter, dim("│"), caret(issue))
	return err
}

// caret underlines the finding's span. The marker starts directly under the
// first offending character and covers the span when it ends on the same
// line, a single caret otherwise.
func caret(issue rules.Issue) string {
	pos := issue.Position
	length := 1
	if pos.EndLine == pos.Line && pos.EndColumn > pos.Column {
		length = pos.EndColumn - pos.Column
	}
	pad := pos.Column
	if pad < 0 {
		pad = 0
	}
	marker := severityColor(issue.Severity).Sprint(strings.Repeat("^", length))
	return strings.Repeat(" ", pad) + marker
}
