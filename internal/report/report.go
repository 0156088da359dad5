// Package report renders lint findings for people and machines: a colored
// text form for terminals and a stable JSON form for editors and CI.
package report

import (
	"io"
	"sort"

	"github.com/fatih/color"

	"vylint/internal/lint"
	"vylint/internal/rules"
)

// Renderer writes a lint run's results in one output format.
type Renderer interface {
	Render(w io.Writer, results []lint.Result) error
}

// displayOrder sorts findings for output: by line, then column, then code.
// The engine emits rule-major order, which is stable but scatters one
// line's findings across the output.
func displayOrder(issues []rules.Issue) []rules.Issue {
	sorted := append([]rules.Issue(nil), issues...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Position, sorted[j].Position
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return sorted[i].Code < sorted[j].Code
	})
	return sorted
}

// severityColor picks the terminal style for a severity label.
func severityColor(s rules.Severity) *color.Color {
	switch s {
	case rules.SeverityError:
		return color.New(color.FgRed, color.Bold)
	case rules.SeverityWarning:
		return color.New(color.FgYellow, color.Bold)
	case rules.SeverityStyle:
		return color.New(color.FgCyan, color.Bold)
	default:
		return color.New(color.FgBlue, color.Bold)
	}
}
