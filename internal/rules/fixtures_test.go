package rules

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"vylint/internal/analysis"
	"vylint/internal/ast"
)

// Fixtures assemble annotated-AST documents as JSON text, the same shape the
// compiler emits.

func nameJSON(id string) string {
	return fmt.Sprintf(`{"ast_type":"Name","id":%q}`, id)
}

func selfAttrJSON(attr string) string {
	return fmt.Sprintf(`{"ast_type":"Attribute","attr":%q,"value":{"ast_type":"Name","id":"self"}}`, attr)
}

func returnJSON(value string) string {
	return fmt.Sprintf(`{"ast_type":"Return","value":%s}`, value)
}

func assignJSON(target, value string) string {
	return fmt.Sprintf(`{"ast_type":"Assign","target":%s,"value":%s}`, target, value)
}

func callJSON(fn string, args ...string) string {
	return fmt.Sprintf(`{"ast_type":"Call","func":%s,"args":[%s]}`, fn, strings.Join(args, ","))
}

func exprJSON(value string) string {
	return fmt.Sprintf(`{"ast_type":"Expr","value":%s}`, value)
}

func selfCallJSON(fn string, args ...string) string {
	return exprJSON(callJSON(selfAttrJSON(fn), args...))
}

func wrappedCallJSON(wrapper, iface, method string) string {
	cast := callJSON(nameJSON(iface), nameJSON("addr"))
	designator := fmt.Sprintf(`{"ast_type":"Attribute","attr":%q,"value":%s}`, method, cast)
	return exprJSON(fmt.Sprintf(`{"ast_type":%q,"value":%s}`, wrapper, callJSON(designator)))
}

func staticCallJSON(iface, method string) string {
	return wrappedCallJSON("StaticCall", iface, method)
}

func extCallJSON(iface, method string) string {
	return wrappedCallJSON("ExtCall", iface, method)
}

func logJSON(event string, args ...string) string {
	return fmt.Sprintf(`{"ast_type":"Log","value":%s}`, callJSON(nameJSON(event), args...))
}

func varDeclJSON(name string) string {
	return fmt.Sprintf(`{"ast_type":"VariableDecl","target":{"ast_type":"Name","id":%q},"annotation":{"ast_type":"Name","id":"uint256"}}`, name)
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

func interfaceJSON(name, stub, marker string) string {
	return fmt.Sprintf(
		`{"ast_type":"InterfaceDef","name":%q,"body":[{"ast_type":"FunctionDef","name":%q,"body":[{"ast_type":"Expr","value":{"ast_type":"Name","id":%q}}]}]}`,
		name, stub, marker)
}

func moduleJSON(name string, body ...string) string {
	return fmt.Sprintf(`{"ast_type":"Module","name":%q,"path":"%s.vy","body":[%s]}`,
		name, name, strings.Join(body, ","))
}

func unitJSON(module string, imports ...string) string {
	return fmt.Sprintf(`{"contract_name":"test","ast":%s,"imports":[%s]}`,
		module, strings.Join(imports, ","))
}

func analyze(t *testing.T, doc string) *analysis.Analysis {
	t.Helper()
	unit, err := ast.FromJSON([]byte(doc))
	require.NoError(t, err)
	return analysis.New(unit)
}

// lintModule runs the default rule set over a single-module unit.
func lintModule(t *testing.T, body ...string) []Issue {
	t.Helper()
	a := analyze(t, unitJSON(moduleJSON("test", body...)))
	return NewEngine(DefaultRules()).Run(a)
}

// messagesFor filters issues down to one code's messages, in report order.
func messagesFor(issues []Issue, code string) []string {
	var out []string
	for _, issue := range issues {
		if issue.Code == code {
			out = append(out, issue.Message)
		}
	}
	return out
}

func codesOf(issues []Issue) []string {
	var out []string
	for _, issue := range issues {
		out = append(out, issue.Code)
	}
	return out
}
