package codegen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"vylint/internal/analysis"
	"vylint/internal/ast"
)

func nameJSON(id string) string {
	return fmt.Sprintf(`{"ast_type":"Name","id":%q}`, id)
}

func selfAttrJSON(attr string) string {
	return fmt.Sprintf(`{"ast_type":"Attribute","attr":%q,"value":{"ast_type":"Name","id":"self"}}`, attr)
}

func selfCallJSON(fn string) string {
	call := fmt.Sprintf(`{"ast_type":"Call","func":%s,"args":[]}`, selfAttrJSON(fn))
	return fmt.Sprintf(`{"ast_type":"Expr","value":%s}`, call)
}

func extCallJSON(iface, method string) string {
	cast := fmt.Sprintf(`{"ast_type":"Call","func":%s,"args":[%s]}`, nameJSON(iface), nameJSON("addr"))
	designator := fmt.Sprintf(`{"ast_type":"Attribute","attr":%q,"value":%s}`, method, cast)
	call := fmt.Sprintf(`{"ast_type":"Call","func":%s,"args":[]}`, designator)
	return fmt.Sprintf(`{"ast_type":"Expr","value":{"ast_type":"ExtCall","value":%s}}`, call)
}

func funcJSON(name string, body ...string) string {
	if len(body) == 0 {
		body = []string{`{"ast_type":"Pass"}`}
	}
	return fmt.Sprintf(`{"ast_type":"FunctionDef","name":%q,"decorator_list":[],"body":[%s]}`,
		name, strings.Join(body, ","))
}

func interfaceJSON(name, stub, marker string) string {
	return fmt.Sprintf(
		`{"ast_type":"InterfaceDef","name":%q,"body":[{"ast_type":"FunctionDef","name":%q,"body":[{"ast_type":"Expr","value":{"ast_type":"Name","id":%q}}]}]}`,
		name, stub, marker)
}

func publicVarJSON(name string) string {
	return fmt.Sprintf(
		`{"ast_type":"VariableDecl","is_public":true,"target":{"ast_type":"Name","id":%q},"annotation":{"ast_type":"Name","id":"address"}}`,
		name)
}

func moduleJSON(name string, body ...string) string {
	return fmt.Sprintf(`{"ast_type":"Module","name":%q,"path":"%s.vy","body":[%s]}`,
		name, name, strings.Join(body, ","))
}

func unitJSON(module string, imports ...string) string {
	return fmt.Sprintf(`{"contract_name":"test","ast":%s,"imports":[%s]}`,
		module, strings.Join(imports, ","))
}

func loadUnit(t *testing.T, doc string) *ast.SourceUnit {
	t.Helper()
	unit, err := ast.FromJSON([]byte(doc))
	require.NoError(t, err)
	return unit
}

func graphOf(t *testing.T, doc string) *analysis.CallGraph {
	t.Helper()
	return analysis.New(loadUnit(t, doc)).Graph()
}
