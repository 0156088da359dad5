// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"vylint/internal/analysis"
	"vylint/internal/ast"
	"vylint/internal/codegen"
	"vylint/internal/compiler"
	"vylint/internal/config"
	"vylint/internal/lint"
	"vylint/internal/report"
	"vylint/internal/rules"
)

const toolVersion = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage(os.Stderr)
		return 2
	}
	switch args[0] {
	case "lint":
		return runLint(args[1:])
	case "exports":
		return runExports(args[1:])
	case "callgraph":
		return runCallGraph(args[1:])
	case "version":
		return runVersion()
	case "help", "-h", "--help":
		usage(os.Stdout)
		return 0
	default:
		// Bare files and flags belong to the default subcommand.
		return runLint(args)
	}
}

func runLint(args []string) int {
	fs := flag.NewFlagSet("vylint lint", flag.ContinueOnError)
	format := fs.String("format", "text", "output format: text or json")
	noColor := fs.Bool("no-color", false, "disable colored output")
	strict := fs.Bool("strict", false, "report suppression directives that never match")
	configPath := fs.String("config", "", "configuration file (default: nearest .vylint.yaml)")
	failOn := fs.String("fail-on", "", "lowest severity that fails the run: info, style, warning or error")
	verbose := fs.Bool("v", false, "log vyper invocations")
	var extra pathList
	fs.Var(&extra, "p", "extra import search path (repeatable)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: vylint lint [flags] <file.vy>...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	files := fs.Args()
	if len(files) == 0 {
		fs.Usage()
		return 2
	}
	if *noColor {
		color.NoColor = true
	}
	if *verbose {
		commonlog.Configure(2, nil)
	}

	cfg, err := loadConfig(*configPath, filepath.Dir(files[0]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "vylint: %v\n", err)
		return 2
	}
	cfg.Paths = append(cfg.Paths, extra...)

	threshold := cfg.FailOnSeverity()
	if *failOn != "" {
		s, err := rules.ParseSeverity(*failOn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vylint: -fail-on: %v\n", err)
			return 2
		}
		threshold = s
	}

	var renderer report.Renderer
	switch *format {
	case "text":
		renderer = report.Text{WithSource: true}
	case "json":
		renderer = report.JSON{}
	default:
		fmt.Fprintf(os.Stderr, "vylint: unknown format %q (want text or json)\n", *format)
		return 2
	}

	start := time.Now()
	results := lint.NewRunner(cfg, *strict).Run(context.Background(), files)
	if err := renderer.Render(os.Stdout, results); err != nil {
		fmt.Fprintf(os.Stderr, "vylint: %v\n", err)
		return 2
	}

	if *format == "text" {
		elapsed := formatDuration(time.Since(start))
		switch {
		case lint.HasFailures(results):
			color.Red("Lint failed after %s", elapsed)
		case countIssues(results) > 0:
			color.Yellow("Found %d issues in %s", countIssues(results), elapsed)
		default:
			color.Green("Checked %d files in %s", len(files), elapsed)
		}
	}

	switch {
	case lint.HasFailures(results):
		return 2
	case lint.ExceedsThreshold(results, threshold):
		return 1
	}
	return 0
}

func runExports(args []string) int {
	fs := flag.NewFlagSet("vylint exports", flag.ContinueOnError)
	modules := fs.Bool("modules", false, "annotate re-exported functions with their defining module")
	configPath := fs.String("config", "", "configuration file (default: nearest .vylint.yaml)")
	verbose := fs.Bool("v", false, "log vyper invocations")
	var extra pathList
	fs.Var(&extra, "p", "extra import search path (repeatable)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: vylint exports [flags] <file.vy>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	file := fs.Arg(0)
	if *verbose {
		commonlog.Configure(2, nil)
	}

	cfg, err := loadConfig(*configPath, filepath.Dir(file))
	if err != nil {
		fmt.Fprintf(os.Stderr, "vylint: %v\n", err)
		return 2
	}
	ctx := context.Background()
	vyper := compiler.New(cfg.Vyper, cfg.Paths...).WithPaths(extra...)

	abiJSON, err := vyper.ABI(ctx, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vylint: %v\n", err)
		return 2
	}
	unit, err := compileUnit(ctx, vyper, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vylint: %v\n", err)
		return 2
	}
	block, err := codegen.GenerateExports(unit, abiJSON, codegen.ExportsOptions{ModuleComments: *modules})
	if err != nil {
		fmt.Fprintf(os.Stderr, "vylint: %v\n", err)
		return 2
	}
	fmt.Println(block)
	return 0
}

func runCallGraph(args []string) int {
	fs := flag.NewFlagSet("vylint callgraph", flag.ContinueOnError)
	focus := fs.String("function", "", "only draw calls reachable from this function")
	outPath := fs.String("o", "", "write the diagram to a file instead of stdout")
	configPath := fs.String("config", "", "configuration file (default: nearest .vylint.yaml)")
	verbose := fs.Bool("v", false, "log vyper invocations")
	var extra pathList
	fs.Var(&extra, "p", "extra import search path (repeatable)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: vylint callgraph [flags] <file.vy>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	file := fs.Arg(0)
	if *verbose {
		commonlog.Configure(2, nil)
	}

	cfg, err := loadConfig(*configPath, filepath.Dir(file))
	if err != nil {
		fmt.Fprintf(os.Stderr, "vylint: %v\n", err)
		return 2
	}
	ctx := context.Background()
	vyper := compiler.New(cfg.Vyper, cfg.Paths...).WithPaths(extra...)

	unit, err := compileUnit(ctx, vyper, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vylint: %v\n", err)
		return 2
	}
	diagram, err := codegen.GenerateCallGraph(analysis.New(unit).Graph(), *focus)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vylint: %v\n", err)
		return 2
	}
	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(diagram+"\n"), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "vylint: %v\n", err)
			return 2
		}
		color.Green("Wrote call graph to %s", *outPath)
		return 0
	}
	fmt.Println(diagram)
	return 0
}

func runVersion() int {
	fmt.Printf("vylint %s\n", toolVersion)
	cfg, _, err := config.Discover(".")
	if err != nil {
		cfg = config.Default()
	}
	vyperVersion, err := compiler.New(cfg.Vyper).Version(context.Background())
	if err != nil {
		fmt.Println("vyper not found")
		return 0
	}
	fmt.Printf("vyper %s\n", vyperVersion)
	return 0
}

// compileUnit produces the decoded tree for one contract file.
func compileUnit(ctx context.Context, vyper *compiler.Vyper, file string) (*ast.SourceUnit, error) {
	doc, err := vyper.AnnotatedAST(ctx, file)
	if err != nil {
		return nil, err
	}
	unit, err := ast.FromJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", file, err)
	}
	return unit, nil
}

func loadConfig(explicit, dir string) (*config.Config, error) {
	if explicit != "" {
		return config.Load(explicit)
	}
	cfg, _, err := config.Discover(dir)
	return cfg, err
}

func countIssues(results []lint.Result) int {
	n := 0
	for _, res := range results {
		n += len(res.Issues)
	}
	return n
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: vylint <command> [flags] <file.vy>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  lint       check contracts and report issues (default)")
	fmt.Fprintln(w, "  exports    print the explicit exports block for a contract")
	fmt.Fprintln(w, "  callgraph  print the contract call graph as a Mermaid diagram")
	fmt.Fprintln(w, "  version    print tool and compiler versions")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'vylint <command> -h' for command flags.")
}

// pathList collects repeated -p flags.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ":") }

func (p *pathList) Set(value string) error {
	*p = append(*p, value)
	return nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
