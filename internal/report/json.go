package report

import (
	"encoding/json"
	"io"

	"vylint/internal/lint"
)

// JSON renders results as one document with an entry per file, for editors
// and CI. Lines and columns are 1-based; the schema is append-only.
type JSON struct{}

type jsonIssue struct {
	Code      string `json:"code"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"endLine"`
	EndColumn int    `json:"endColumn"`
}

type jsonFile struct {
	File   string      `json:"file"`
	Issues []jsonIssue `json:"issues"`
	Error  string      `json:"error,omitempty"`
}

func (JSON) Render(w io.Writer, results []lint.Result) error {
	type document struct {
		Files []jsonFile `json:"files"`
	}

	doc := document{Files: make([]jsonFile, 0, len(results))}
	for _, res := range results {
		entry := jsonFile{File: res.File, Issues: make([]jsonIssue, 0, len(res.Issues))}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		for _, issue := range displayOrder(res.Issues) {
			entry.Issues = append(entry.Issues, jsonIssue{
				Code:      issue.Code,
				Severity:  issue.Severity.String(),
				Message:   issue.Message,
				Line:      issue.Position.Line,
				Column:    issue.Position.Column + 1,
				EndLine:   issue.Position.EndLine,
				EndColumn: issue.Position.EndColumn + 1,
			})
		}
		doc.Files = append(doc.Files, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
