package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vylint/internal/ast"
	"vylint/internal/lint"
	"vylint/internal/rules"
)

// plainColors disables ANSI styling so golden strings stay byte-exact.
func plainColors(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func issueAt(code string, severity rules.Severity, msg string, line, col, endLine, endCol int) rules.Issue {
	return rules.Issue{
		Code:     code,
		Severity: severity,
		Message:  msg,
		Position: ast.Position{Line: line, Column: col, EndLine: endLine, EndColumn: endCol},
	}
}

const vaultSource = `fee: uint256

@external
def get_fee() -> uint256:
    return self.fee
`

func TestTextHeaderFormat(t *testing.T) {
	plainColors(t)

	res := lint.Result{
		File:   "contracts/vault.vy",
		Source: []byte(vaultSource),
		Issues: []rules.Issue{
			issueAt("VY003", rules.SeverityStyle,
				"Function 'get_fee' reads contract state but is not marked as 'view'.",
				4, 0, 5, 19),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Text{}.Render(&buf, []lint.Result{res}))

	assert.Equal(t,
		"contracts/vault.vy:4:1: [VY003] style: Function 'get_fee' reads contract state but is not marked as 'view'.\n",
		buf.String(), "header is path:line:col with a 1-based column")
}

func TestTextSourceBlock(t *testing.T) {
	plainColors(t)

	res := lint.Result{
		File:   "contracts/vault.vy",
		Source: []byte(vaultSource),
		Issues: []rules.Issue{
			issueAt("VY003", rules.SeverityStyle,
				"Function 'get_fee' reads contract state but is not marked as 'view'.",
				4, 0, 4, 3),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Text{WithSource: true}.Render(&buf, []lint.Result{res}))

	want := "contracts/vault.vy:4:1: [VY003] style: Function 'get_fee' reads contract state but is not marked as 'view'.\n" +
		"  4 │ def get_fee() -> uint256:\n" +
		"    │ ^^^\n"
	assert.Equal(t, want, buf.String(), "source line and caret sit under the header")
}

func TestTextOrdersFindingsByPosition(t *testing.T) {
	plainColors(t)

	res := lint.Result{
		File:   "a.vy",
		Source: []byte(vaultSource),
		Issues: []rules.Issue{
			issueAt("VY001", rules.SeverityWarning, "Internal function '_x' is never called.", 9, 0, 9, 1),
			issueAt("VY004", rules.SeverityStyle, "Function 'b' does not access state but is not marked as 'pure'.", 2, 0, 2, 1),
			issueAt("VY002", rules.SeverityStyle, "Storage variable 'fee' is read 3 times in 'b'; consider caching it in a local variable.", 2, 0, 2, 1),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Text{}.Render(&buf, []lint.Result{res}))

	out := buf.String()
	first := strings.Index(out, "VY002")
	second := strings.Index(out, "VY004")
	third := strings.Index(out, "VY001")
	require.NotEqual(t, -1, first, "all findings should render")
	require.NotEqual(t, -1, second, "all findings should render")
	require.NotEqual(t, -1, third, "all findings should render")
	assert.Less(t, first, second, "same line sorts by code")
	assert.Less(t, second, third, "later lines render later")
}

func TestTextRendersFileErrors(t *testing.T) {
	plainColors(t)

	res := lint.Result{
		File: "contracts/broken.vy",
		Err:  errors.New("compiling contracts/broken.vy: exit status 1"),
	}

	var buf bytes.Buffer
	require.NoError(t, Text{WithSource: true}.Render(&buf, []lint.Result{res}))

	assert.Equal(t,
		"contracts/broken.vy: error: compiling contracts/broken.vy: exit status 1\n",
		buf.String(), "failed files render their error instead of findings")
}

func TestTextSkipsSourceBlockOutsideFile(t *testing.T) {
	plainColors(t)

	res := lint.Result{
		File:   "a.vy",
		Source: []byte("one line\n"),
		Issues: []rules.Issue{
			issueAt("VY001", rules.SeverityWarning, "Internal function '_x' is never called.", 99, 0, 99, 1),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Text{WithSource: true}.Render(&buf, []lint.Result{res}))

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"),
		"a position past the end of the source renders the header only")
}

func TestCaretCoversSameLineSpansOnly(t *testing.T) {
	plainColors(t)

	spanning := issueAt("VY003", rules.SeverityStyle, "m", 4, 0, 7, 2)
	assert.Equal(t, "^", caret(spanning), "multi-line spans get a single caret")

	inline := issueAt("VY003", rules.SeverityStyle, "m", 4, 4, 4, 9)
	assert.Equal(t, "    ^^^^^", caret(inline), "inline spans are underlined in full")
}

func TestJSONSchema(t *testing.T) {
	res := lint.Result{
		File:   "contracts/vault.vy",
		Source: []byte(vaultSource),
		Issues: []rules.Issue{
			issueAt("VY003", rules.SeverityStyle,
				"Function 'get_fee' reads contract state but is not marked as 'view'.",
				4, 0, 5, 19),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, JSON{}.Render(&buf, []lint.Result{res}))

	var doc struct {
		Files []struct {
			File   string `json:"file"`
			Error  string `json:"error"`
			Issues []struct {
				Code      string `json:"code"`
				Severity  string `json:"severity"`
				Message   string `json:"message"`
				Line      int    `json:"line"`
				Column    int    `json:"column"`
				EndLine   int    `json:"endLine"`
				EndColumn int    `json:"endColumn"`
			} `json:"issues"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc), "output should be valid JSON")

	require.Len(t, doc.Files, 1, "one entry per file")
	entry := doc.Files[0]
	assert.Equal(t, "contracts/vault.vy", entry.File)
	assert.Empty(t, entry.Error, "clean files carry no error")

	require.Len(t, entry.Issues, 1, "one entry per finding")
	issue := entry.Issues[0]
	assert.Equal(t, "VY003", issue.Code)
	assert.Equal(t, "style", issue.Severity)
	assert.Equal(t, 4, issue.Line)
	assert.Equal(t, 1, issue.Column, "columns are published 1-based")
	assert.Equal(t, 5, issue.EndLine)
	assert.Equal(t, 20, issue.EndColumn, "end columns are published 1-based")
}

func TestJSONEmitsEmptyIssuesArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON{}.Render(&buf, []lint.Result{{File: "clean.vy"}}))

	assert.Contains(t, buf.String(), `"issues": []`,
		"clean files report an empty array, not null")
}

func TestJSONCarriesFileError(t *testing.T) {
	res := lint.Result{
		File: "contracts/broken.vy",
		Err:  errors.New("compiling contracts/broken.vy: exit status 1"),
	}

	var buf bytes.Buffer
	require.NoError(t, JSON{}.Render(&buf, []lint.Result{res}))

	var doc struct {
		Files []struct {
			File  string `json:"file"`
			Error string `json:"error"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Files, 1)
	assert.Equal(t, "compiling contracts/broken.vy: exit status 1", doc.Files[0].Error,
		"the pipeline error is published verbatim")
}
