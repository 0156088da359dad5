package ast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vaultDocument = `{
  "contract_name": "vault",
  "ast": {
    "ast_type": "Module",
    "node_id": 0,
    "name": "vault",
    "path": "contracts/vault.vy",
    "body": [
      {
        "ast_type": "VariableDecl",
        "node_id": 1,
        "lineno": 1,
        "col_offset": 0,
        "end_lineno": 1,
        "end_col_offset": 21,
        "is_public": true,
        "target": {"ast_type": "Name", "node_id": 2, "id": "owner"},
        "annotation": {"ast_type": "Name", "node_id": 3, "id": "address"}
      },
      {
        "ast_type": "VariableDecl",
        "node_id": 4,
        "lineno": 2,
        "is_constant": true,
        "target": {"ast_type": "Name", "node_id": 5, "id": "DECIMALS"},
        "annotation": {"ast_type": "Name", "node_id": 6, "id": "uint8"}
      },
      {
        "ast_type": "FunctionDef",
        "node_id": 7,
        "lineno": 4,
        "name": "set_owner",
        "decorator_list": [{"ast_type": "Name", "node_id": 8, "id": "external"}],
        "body": [
          {
            "ast_type": "Assign",
            "node_id": 9,
            "lineno": 5,
            "col_offset": 4,
            "target": {
              "ast_type": "Attribute",
              "node_id": 10,
              "attr": "owner",
              "value": {"ast_type": "Name", "node_id": 11, "id": "self"}
            },
            "value": {"ast_type": "Name", "node_id": 12, "id": "new_owner"}
          }
        ]
      }
    ]
  },
  "imports": []
}`

func TestFromJSONBuildsTypedTree(t *testing.T) {
	unit, err := FromJSON([]byte(vaultDocument))
	require.NoError(t, err)

	assert.Equal(t, "vault", unit.ContractName)
	assert.Equal(t, "vault", unit.ModuleName())
	require.NotNil(t, unit.Module)
	assert.Equal(t, KindModule, unit.Module.Kind())

	vars := unit.Module.Variables()
	require.Len(t, vars, 2)
	assert.Equal(t, "owner", vars[0].VarName())
	assert.True(t, vars[0].Public)
	assert.True(t, vars[0].IsStorage())
	assert.Equal(t, "DECIMALS", vars[1].VarName())
	assert.False(t, vars[1].IsStorage(), "constants do not occupy storage")

	funcs := unit.Module.Functions()
	require.Len(t, funcs, 1)
	fn := funcs[0]
	assert.Equal(t, "set_owner", fn.Name)
	assert.Equal(t, []string{"external"}, fn.Modifiers)
	assert.True(t, fn.IsExternal())
	assert.False(t, fn.IsConstructor())
	assert.Equal(t, 4, fn.Pos().Line)
}

func TestFromJSONWiresParentLinks(t *testing.T) {
	unit, err := FromJSON([]byte(vaultDocument))
	require.NoError(t, err)

	fn := unit.Module.Functions()[0]
	require.Len(t, fn.Body, 1)
	assign, ok := fn.Body[0].(*Assign)
	require.True(t, ok)

	attr, ok := assign.Target.(*Attribute)
	require.True(t, ok)
	assert.Equal(t, "owner", attr.Attr)
	assert.Same(t, Node(assign), attr.Parent())
	assert.Same(t, fn, EnclosingFunction(attr))
	assert.Same(t, unit.Module, EnclosingModule(attr))
}

func TestTraversalFollowsDocumentOrder(t *testing.T) {
	// Identical assignments, but the second document lists value before
	// target. Pre-order must follow the document, not a fixed field order.
	const targetFirst = `{
	  "ast_type": "Assign",
	  "target": {"ast_type": "Name", "id": "a"},
	  "value": {"ast_type": "Name", "id": "b"}
	}`
	const valueFirst = `{
	  "ast_type": "Assign",
	  "value": {"ast_type": "Name", "id": "b"},
	  "target": {"ast_type": "Name", "id": "a"}
	}`

	order := func(doc string) []string {
		obj, err := parseJSON([]byte(doc))
		require.NoError(t, err)
		node, err := buildNode(obj.(*jsonObject), nil)
		require.NoError(t, err)
		var ids []string
		for _, d := range Descendants(node) {
			ids = append(ids, d.(*Name).Ident)
		}
		return ids
	}

	assert.Equal(t, []string{"a", "b"}, order(targetFirst))
	assert.Equal(t, []string{"b", "a"}, order(valueFirst))
}

func TestDescendantsOfFiltersByKind(t *testing.T) {
	unit, err := FromJSON([]byte(vaultDocument))
	require.NoError(t, err)

	names := DescendantsOf(unit.Module, KindName)
	var idents []string
	for _, n := range names {
		idents = append(idents, n.(*Name).Ident)
	}
	assert.Equal(t, []string{"owner", "address", "DECIMALS", "uint8", "external", "self", "new_owner"}, idents)
}

func TestFromJSONDecodesImports(t *testing.T) {
	const doc = `{
	  "contract_name": "token",
	  "ast": {"ast_type": "Module", "path": "token.vy", "body": []},
	  "imports": [
	    {
	      "path": "interfaces/IERC20.vyi",
	      "body": [
	        {
	          "ast_type": "FunctionDef",
	          "name": "balanceOf",
	          "body": [{"ast_type": "Expr", "value": {"ast_type": "Name", "id": "view"}}]
	        }
	      ]
	    },
	    {
	      "ast_type": "Module",
	      "path": "ownable.vy",
	      "body": [
	        {
	          "ast_type": "VariableDecl",
	          "is_public": true,
	          "target": {"ast_type": "Name", "id": "owner"},
	          "annotation": {"ast_type": "Name", "id": "address"}
	        }
	      ]
	    }
	  ]
	}`

	unit, err := FromJSON([]byte(doc))
	require.NoError(t, err)
	require.Len(t, unit.Imports, 2)

	iface := unit.Imports[0]
	assert.Equal(t, "IERC20", iface.Stem())
	assert.True(t, iface.IsInterface())
	require.Len(t, iface.Functions(), 1)
	assert.True(t, iface.Functions()[0].IsFromInterface())

	ownable := unit.Imports[1]
	assert.Equal(t, "ownable", ownable.Stem())
	assert.False(t, ownable.IsInterface())
	require.Len(t, ownable.Variables(), 1)
	assert.True(t, ownable.Variables()[0].Public)
}

func TestFromJSONRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind NodeKind
		attr string
	}{
		{
			name: "missing discriminator",
			doc:  `{"body": []}`,
			attr: "ast_type",
		},
		{
			name: "function without name",
			doc:  `{"ast_type": "Module", "body": [{"ast_type": "FunctionDef", "body": []}]}`,
			kind: KindFunctionDef,
			attr: "name",
		},
		{
			name: "assign without target",
			doc: `{"ast_type": "Module", "body": [
				{"ast_type": "FunctionDef", "name": "f", "body": [
					{"ast_type": "Assign", "value": {"ast_type": "Name", "id": "x"}}
				]}
			]}`,
			kind: KindAssign,
			attr: "target",
		},
		{
			name: "attribute without attr",
			doc: `{"ast_type": "Module", "body": [
				{"ast_type": "Expr", "value": {"ast_type": "Attribute", "value": {"ast_type": "Name", "id": "self"}}}
			]}`,
			kind: KindAttribute,
			attr: "attr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.doc))
			require.Error(t, err)
			var malformed *MalformedTreeError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.kind, malformed.Kind)
			assert.Equal(t, tt.attr, malformed.Attr)
		})
	}
}

func TestFromJSONRejectsNonObjectDocument(t *testing.T) {
	_, err := FromJSON([]byte(`[1, 2, 3]`))
	var malformed *MalformedTreeError
	require.True(t, errors.As(err, &malformed))
}

func TestGenericNodesKeepChildrenReachable(t *testing.T) {
	// An if statement has no dedicated variant; the call inside its body must
	// still be reachable for descendant queries.
	const doc = `{"ast_type": "Module", "body": [
	  {"ast_type": "FunctionDef", "name": "f", "body": [
	    {"ast_type": "If",
	      "test": {"ast_type": "Name", "id": "cond"},
	      "body": [
	        {"ast_type": "Expr", "value": {
	          "ast_type": "ExtCall",
	          "value": {
	            "ast_type": "Call",
	            "func": {"ast_type": "Attribute", "attr": "poke", "value": {"ast_type": "Name", "id": "target"}},
	            "args": []
	          }
	        }}
	      ]
	    }
	  ]}
	]}`

	unit, err := FromJSON([]byte(doc))
	require.NoError(t, err)

	fn := unit.Module.Functions()[0]
	_, isGeneric := fn.Body[0].(*Generic)
	assert.True(t, isGeneric)
	assert.Len(t, DescendantsOf(fn, KindExtCall), 1)
}
