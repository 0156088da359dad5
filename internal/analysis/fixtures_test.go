package analysis

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"vylint/internal/ast"
)

// The fixtures below assemble annotated-AST documents as JSON text so that
// attribute order, and with it traversal order, stays explicit.

func nameJSON(id string) string {
	return fmt.Sprintf(`{"ast_type":"Name","id":%q}`, id)
}

func selfAttrJSON(attr string) string {
	return fmt.Sprintf(`{"ast_type":"Attribute","attr":%q,"value":{"ast_type":"Name","id":"self"}}`, attr)
}

func moduleAttrJSON(module, attr string) string {
	return fmt.Sprintf(`{"ast_type":"Attribute","attr":%q,"value":{"ast_type":"Name","id":%q}}`, attr, module)
}

func returnJSON(value string) string {
	return fmt.Sprintf(`{"ast_type":"Return","value":%s}`, value)
}

func assignJSON(target, value string) string {
	return fmt.Sprintf(`{"ast_type":"Assign","target":%s,"value":%s}`, target, value)
}

func augAssignJSON(target, value string) string {
	return fmt.Sprintf(`{"ast_type":"AugAssign","target":%s,"value":%s}`, target, value)
}

func callJSON(fn string, args ...string) string {
	return fmt.Sprintf(`{"ast_type":"Call","func":%s,"args":[%s]}`, fn, strings.Join(args, ","))
}

func exprJSON(value string) string {
	return fmt.Sprintf(`{"ast_type":"Expr","value":%s}`, value)
}

// selfCallJSON is an internal call statement: self.fn(args...).
func selfCallJSON(fn string, args ...string) string {
	return exprJSON(callJSON(selfAttrJSON(fn), args...))
}

// castCallJSON is iface(addr).method(args...), the callee shape of external
// and static calls.
func castCallJSON(iface, method string, args ...string) string {
	cast := callJSON(nameJSON(iface), nameJSON("addr"))
	designator := fmt.Sprintf(`{"ast_type":"Attribute","attr":%q,"value":%s}`, method, cast)
	return callJSON(designator, args...)
}

func staticCallJSON(iface, method string, args ...string) string {
	return exprJSON(fmt.Sprintf(`{"ast_type":"StaticCall","value":%s}`, castCallJSON(iface, method, args...)))
}

func extCallJSON(iface, method string, args ...string) string {
	return exprJSON(fmt.Sprintf(`{"ast_type":"ExtCall","value":%s}`, castCallJSON(iface, method, args...)))
}

func logJSON(event string, args ...string) string {
	return fmt.Sprintf(`{"ast_type":"Log","value":%s}`, callJSON(nameJSON(event), args...))
}

func varDeclJSON(name string, flags ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `{"ast_type":"VariableDecl"`)
	for _, f := range flags {
		fmt.Fprintf(&b, `,%q:true`, f)
	}
	fmt.Fprintf(&b, `,"target":{"ast_type":"Name","id":%q}`, name)
	fmt.Fprintf(&b, `,"annotation":{"ast_type":"Name","id":"uint256"}}`)
	return b.String()
}

func funcJSON(name string, decorators []string, body ...string) string {
	var decs []string
	for _, d := range decorators {
		decs = append(decs, nameJSON(d))
	}
	if len(body) == 0 {
		body = []string{`{"ast_type":"Pass"}`}
	}
	return fmt.Sprintf(`{"ast_type":"FunctionDef","name":%q,"decorator_list":[%s],"body":[%s]}`,
		name, strings.Join(decs, ","), strings.Join(body, ","))
}

func interfaceJSON(name string, stubs map[string]string) string {
	var fns []string
	for _, stub := range orderedKeys(stubs) {
		fns = append(fns, fmt.Sprintf(
			`{"ast_type":"FunctionDef","name":%q,"body":[{"ast_type":"Expr","value":{"ast_type":"Name","id":%q}}]}`,
			stub, stubs[stub]))
	}
	return fmt.Sprintf(`{"ast_type":"InterfaceDef","name":%q,"body":[%s]}`, name, strings.Join(fns, ","))
}

func orderedKeys(m map[string]string) []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	// Insertion order is not recoverable from a map; sort for stability.
	sort.Strings(keys)
	return keys
}

func moduleJSON(name string, body ...string) string {
	return fmt.Sprintf(`{"ast_type":"Module","name":%q,"path":"%s.vy","body":[%s]}`,
		name, name, strings.Join(body, ","))
}

func unitJSON(module string, imports ...string) string {
	return fmt.Sprintf(`{"contract_name":"test","ast":%s,"imports":[%s]}`,
		module, strings.Join(imports, ","))
}

func loadUnit(t *testing.T, doc string) *Analysis {
	t.Helper()
	unit, err := ast.FromJSON([]byte(doc))
	require.NoError(t, err)
	return New(unit)
}

// loadModule wraps a list of module-body fragments into a single-module unit.
func loadModule(t *testing.T, body ...string) *Analysis {
	t.Helper()
	return loadUnit(t, unitJSON(moduleJSON("test", body...)))
}

func fnOf(t *testing.T, a *Analysis, name string) *ast.FunctionDef {
	t.Helper()
	fn := a.Unit().Module.Function(name)
	require.NotNil(t, fn, "function %s not found", name)
	return fn
}
