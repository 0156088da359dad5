// Package codegen derives source artifacts from a compiled contract: the
// explicit exports block for re-exported module functions and a Mermaid
// rendering of the call graph.
package codegen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"vylint/internal/ast"
)

// ExportsOptions controls exports rendering.
type ExportsOptions struct {
	// ModuleComments annotates each re-exported function with the imported
	// module it was defined in.
	ModuleComments bool
}

// ExternalFunctions extracts the external function names from a contract
// ABI, deduplicated and sorted. Overloads collapse to one name.
func ExternalFunctions(abiJSON []byte) ([]string, error) {
	parsed, err := abi.JSON(bytes.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("parse contract ABI: %w", err)
	}
	seen := make(map[string]bool)
	var names []string
	for _, method := range parsed.Methods {
		if !seen[method.RawName] {
			seen[method.RawName] = true
			names = append(names, method.RawName)
		}
	}
	sort.Strings(names)
	return names, nil
}

// GenerateExports renders the explicit exports block for a contract: every
// external function from the ABI, qualified with the contract module's name.
// Contracts with no external surface yield a one-line comment instead.
func GenerateExports(unit *ast.SourceUnit, abiJSON []byte, opts ExportsOptions) (string, error) {
	moduleName := unit.Module.Stem()
	names, err := ExternalFunctions(abiJSON)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return fmt.Sprintf("# No external functions found in %s", moduleName), nil
	}

	sources := map[string]string{}
	if opts.ModuleComments {
		sources = functionSources(unit)
	}

	lines := []string{
		"# NOTE: Always double-check the generated exports",
		"exports: (",
	}
	for i, name := range names {
		line := fmt.Sprintf("    %s.%s", moduleName, name)
		if i < len(names)-1 {
			line += ","
		}
		if src, ok := sources[name]; ok {
			line += fmt.Sprintf("  # %s", src)
		}
		lines = append(lines, line)
	}
	lines = append(lines, ")")
	return strings.Join(lines, "\n"), nil
}

// functionSources maps function names to the imported module defining them.
// Public storage variables count: the compiler generates a getter per public
// variable. Later imports shadow earlier ones on name collisions.
func functionSources(unit *ast.SourceUnit) map[string]string {
	sources := make(map[string]string)
	for _, mod := range unit.Imports {
		for _, fn := range mod.Functions() {
			sources[fn.Name] = mod.Stem()
		}
		for _, v := range mod.Variables() {
			if v.Public {
				sources[v.VarName()] = mod.Stem()
			}
		}
	}
	return sources
}
