// Package compiler shells out to the Vyper compiler for the artifacts the
// linter consumes. The linter never parses Vyper source itself: the compiler
// produces the annotated AST and the contract ABI as JSON, and everything
// downstream works on those documents.
package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("vylint.compiler")

// DefaultBinary is used when no vyper path is configured. It is resolved
// through PATH at invocation time.
const DefaultBinary = "vyper"

// invokeTimeout bounds a single compiler run.
const invokeTimeout = 120 * time.Second

// Stderr excerpts longer than this are truncated in error messages.
const maxStderrExcerpt = 4096

// Vyper invokes a vyper binary. The zero value is not usable; construct
// with New.
type Vyper struct {
	binary string
	paths  []string
}

// New returns a runner for the given binary, falling back to DefaultBinary
// when binary is empty. Extra paths are passed to every compile invocation
// as -p flags so imports outside the contract's directory resolve.
func New(binary string, extraPaths ...string) *Vyper {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Vyper{binary: binary, paths: extraPaths}
}

// WithPaths returns a copy of the runner that searches additional paths.
func (v *Vyper) WithPaths(extra ...string) *Vyper {
	paths := append(append([]string(nil), v.paths...), extra...)
	return &Vyper{binary: v.binary, paths: paths}
}

// InvokeError describes a compiler run that could not produce output:
// the binary was missing, the process was killed, or vyper rejected the
// input and exited non-zero.
type InvokeError struct {
	Binary string
	Args   []string
	Stderr string
	Err    error
}

func (e *InvokeError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s %s: %v: %s", e.Binary, strings.Join(e.Args, " "), e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s %s: %v", e.Binary, strings.Join(e.Args, " "), e.Err)
}

func (e *InvokeError) Unwrap() error { return e.Err }

// AnnotatedAST compiles file and returns the annotated-AST JSON document.
func (v *Vyper) AnnotatedAST(ctx context.Context, file string) ([]byte, error) {
	return v.compile(ctx, "annotated_ast", file)
}

// ABI compiles file and returns its ABI JSON document.
func (v *Vyper) ABI(ctx context.Context, file string) ([]byte, error) {
	return v.compile(ctx, "abi", file)
}

// Version reports the compiler's version string, trimmed of surrounding
// whitespace.
func (v *Vyper) Version(ctx context.Context) (string, error) {
	out, err := v.run(ctx, []string{"--version"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (v *Vyper) compile(ctx context.Context, format, file string) ([]byte, error) {
	args := []string{"-f", format, file}
	for _, p := range v.paths {
		args = append(args, "-p", p)
	}

	out, err := v.run(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", file, err)
	}

	out = bytes.TrimSpace(out)
	if !json.Valid(out) {
		return nil, fmt.Errorf("compiling %s: vyper emitted malformed %s JSON", file, format)
	}
	return out, nil
}

func (v *Vyper) run(ctx context.Context, args []string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, invokeTimeout)
	defer cancel()

	log.Debugf("running %s %s", v.binary, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, v.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Vyper writes its diagnostics to stderr; some wrappers print
		// them to stdout instead, so fall back when stderr is empty.
		excerpt := stderr.String()
		if excerpt == "" {
			excerpt = stdout.String()
		}
		if len(excerpt) > maxStderrExcerpt {
			excerpt = excerpt[:maxStderrExcerpt] + "...(truncated)"
		}
		return nil, &InvokeError{
			Binary: v.binary,
			Args:   args,
			Stderr: strings.TrimSpace(excerpt),
			Err:    err,
		}
	}

	return stdout.Bytes(), nil
}
