// Package lint drives the per-file pipeline: compile the contract to its
// annotated AST, build the tree model, run the rule engine over the
// analysis, then drop findings silenced by suppression directives in the
// source text.
package lint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"vylint/internal/analysis"
	"vylint/internal/ast"
	"vylint/internal/compiler"
	"vylint/internal/config"
	"vylint/internal/directive"
	"vylint/internal/rules"
)

// UnusedDirectiveCode marks a suppression comment that silenced nothing.
// Reported only in strict mode.
const UnusedDirectiveCode = "VY900"

// Result is the outcome for one file. Err is set when the pipeline could not
// produce findings; Source and Issues are populated otherwise.
type Result struct {
	File   string
	Source []byte
	Issues []rules.Issue
	Err    error
}

// Runner lints Vyper files with a shared compiler and rule engine. One
// runner is safe for concurrent use.
type Runner struct {
	vyper   *compiler.Vyper
	engine  *rules.Engine
	strict  bool
	workers int
}

// NewRunner wires a runner from configuration: the compiler binary and its
// search paths, disabled rules, and severity overrides. In strict mode,
// directives that suppressed nothing are reported as info findings.
func NewRunner(cfg *config.Config, strict bool) *Runner {
	engine := rules.NewEngine(rules.DefaultRules())
	engine.Disable(cfg.Disabled...)
	for code, severity := range cfg.SeverityOverrides() {
		engine.Override(code, severity)
	}
	return &Runner{
		vyper:   compiler.New(cfg.Vyper, cfg.Paths...),
		engine:  engine,
		strict:  strict,
		workers: runtime.NumCPU(),
	}
}

// Run lints every file and returns one Result per file, in input order
// regardless of completion order. A failing file never stops the others.
func (r *Runner) Run(ctx context.Context, files []string) []Result {
	results := make([]Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, file := range files {
		i, file := i, file // per-iteration copies: go directive is 1.21, pre-1.22 loopvar scoping
		g.Go(func() error {
			results[i] = r.File(ctx, file)
			return nil
		})
	}
	// Workers report per-file failures through their Result, never here.
	_ = g.Wait()

	return results
}

// File lints one file from disk.
func (r *Runner) File(ctx context.Context, file string) Result {
	res := Result{File: file}

	source, err := os.ReadFile(file)
	if err != nil {
		res.Err = fmt.Errorf("reading %s: %w", file, err)
		return res
	}
	res.Source = source

	doc, err := r.vyper.AnnotatedAST(ctx, file)
	if err != nil {
		res.Err = err
		return res
	}

	res.Issues, res.Err = r.evaluate(source, doc, file)
	return res
}

// Buffer lints unsaved content as if it lived at path. The content is
// compiled from a temporary file; the original file's directory joins the
// search paths so relative imports still resolve.
func (r *Runner) Buffer(ctx context.Context, path string, content []byte) Result {
	res := Result{File: path, Source: content}

	tmp, err := os.CreateTemp("", "vylint-*.vy")
	if err != nil {
		res.Err = fmt.Errorf("staging %s: %w", path, err)
		return res
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		res.Err = fmt.Errorf("staging %s: %w", path, err)
		return res
	}
	if err := tmp.Close(); err != nil {
		res.Err = fmt.Errorf("staging %s: %w", path, err)
		return res
	}

	doc, err := r.vyper.WithPaths(filepath.Dir(path)).AnnotatedAST(ctx, tmp.Name())
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}

	res.Issues, res.Err = r.evaluate(content, doc, path)
	return res
}

// evaluate runs the engine over a compiled document and filters the findings
// through the source's suppression directives.
func (r *Runner) evaluate(source, doc []byte, file string) ([]rules.Issue, error) {
	unit, err := ast.FromJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", file, err)
	}

	suppressions := directive.Parse(source)

	var kept []rules.Issue
	for _, issue := range r.engine.Run(analysis.New(unit)) {
		if suppressions.Suppressed(issue.Position.Line, issue.Code) {
			continue
		}
		kept = append(kept, issue)
	}

	if r.strict {
		for _, d := range suppressions.Unused() {
			kept = append(kept, unusedDirectiveIssue(d))
		}
	}
	return kept, nil
}

// ExceedsThreshold reports whether any finding reaches the given severity.
func ExceedsThreshold(results []Result, threshold rules.Severity) bool {
	for _, res := range results {
		for _, issue := range res.Issues {
			if issue.Severity >= threshold {
				return true
			}
		}
	}
	return false
}

// HasFailures reports whether any file could not be linted at all.
func HasFailures(results []Result) bool {
	for _, res := range results {
		if res.Err != nil {
			return true
		}
	}
	return false
}

func unusedDirectiveIssue(d *directive.Directive) rules.Issue {
	msg := "Suppression directive is never used."
	if len(d.Codes) > 0 {
		msg = fmt.Sprintf("Suppression directive for %s is never used.", strings.Join(d.Codes, ", "))
	}
	return rules.Issue{
		Code:     UnusedDirectiveCode,
		Severity: rules.SeverityInfo,
		Message:  msg,
		Position: ast.Position{Line: d.Line, EndLine: d.Line},
	}
}
