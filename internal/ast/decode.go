package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// SourceUnit is the decoded form of one annotated-AST document: the contract
// module plus the modules the compiler inlined for its imports.
type SourceUnit struct {
	ContractName string
	Module       *Module
	Imports      []*Module
}

// ModuleName returns the name the contract is referred to by in generated
// output, derived from the contract path.
func (u *SourceUnit) ModuleName() string {
	if s := u.Module.Stem(); s != "" {
		return s
	}
	return u.ContractName
}

// AllModules returns the contract module followed by the imported modules.
func (u *SourceUnit) AllModules() []*Module {
	out := make([]*Module, 0, len(u.Imports)+1)
	out = append(out, u.Module)
	out = append(out, u.Imports...)
	return out
}

// MalformedTreeError reports compiler output that cannot be shaped into a
// tree: a missing discriminator, a missing required attribute, or an
// attribute of the wrong shape. Analysis of the affected file aborts.
type MalformedTreeError struct {
	Kind NodeKind // kind being decoded, empty when the discriminator itself is missing
	Attr string   // offending attribute, empty for document-level problems
	Msg  string
}

func (e *MalformedTreeError) Error() string {
	switch {
	case e.Kind == "" && e.Attr == "":
		return fmt.Sprintf("malformed compiler output: %s", e.Msg)
	case e.Kind == "":
		return fmt.Sprintf("malformed compiler output: %s (attribute %q)", e.Msg, e.Attr)
	case e.Attr == "":
		return fmt.Sprintf("malformed %s node: %s", e.Kind, e.Msg)
	default:
		return fmt.Sprintf("malformed %s node: %s (attribute %q)", e.Kind, e.Msg, e.Attr)
	}
}

// FromJSON decodes an annotated-AST document into a SourceUnit. The document
// is either the module node itself or the compiler's envelope carrying it
// under "ast" next to "contract_name" and "imports".
func FromJSON(data []byte) (*SourceUnit, error) {
	doc, err := parseJSON(data)
	if err != nil {
		return nil, &MalformedTreeError{Msg: err.Error()}
	}
	envelope, ok := doc.(*jsonObject)
	if !ok {
		return nil, &MalformedTreeError{Msg: "document is not an object"}
	}

	unit := &SourceUnit{}
	unit.ContractName, _ = envelope.str("contract_name")

	moduleObj := envelope
	if inner, ok := envelope.object("ast"); ok {
		moduleObj = inner
	}
	root, err := buildNode(moduleObj, nil)
	if err != nil {
		return nil, err
	}
	module, ok := root.(*Module)
	if !ok {
		return nil, &MalformedTreeError{Kind: root.Kind(), Msg: "document root is not a Module"}
	}
	unit.Module = module

	if raw, ok := envelope.get("imports"); ok {
		arr, ok := raw.([]jsonValue)
		if !ok {
			return nil, &MalformedTreeError{Attr: "imports", Msg: "imports is not an array"}
		}
		for _, item := range arr {
			obj, ok := item.(*jsonObject)
			if !ok {
				return nil, &MalformedTreeError{Attr: "imports", Msg: "import entry is not an object"}
			}
			// Import entries are module documents keyed by path; older
			// compiler versions omit the discriminator on them.
			if _, ok := obj.str("ast_type"); !ok {
				obj.prepend("ast_type", "Module")
			}
			node, err := buildNode(obj, nil)
			if err != nil {
				return nil, err
			}
			imported, ok := node.(*Module)
			if !ok {
				return nil, &MalformedTreeError{Kind: node.Kind(), Attr: "imports", Msg: "import entry is not a Module"}
			}
			unit.Imports = append(unit.Imports, imported)
		}
	}
	return unit, nil
}

// buildNode shapes one object into its node variant, recursively building
// children in document order so traversal stays deterministic.
func buildNode(obj *jsonObject, parent Node) (Node, error) {
	kindStr, ok := obj.str("ast_type")
	if !ok {
		return nil, &MalformedTreeError{Attr: "ast_type", Msg: "node object missing discriminator"}
	}
	kind := NodeKind(kindStr)

	node := newShell(kind)
	b := nodeBase(node)
	b.kind = kind
	b.id, _ = obj.intAt("node_id")
	b.pos = positionOf(obj)
	b.parent = parent

	// Children are collected per attribute, in document order, before the
	// kind-specific wiring picks out the named ones.
	named := make(map[string]Node)
	namedList := make(map[string][]Node)
	for _, key := range obj.keys {
		switch v := obj.values[key].(type) {
		case *jsonObject:
			if !v.isNode() {
				continue
			}
			child, err := buildNode(v, node)
			if err != nil {
				return nil, err
			}
			b.children = append(b.children, child)
			if _, dup := named[key]; !dup {
				named[key] = child
			}
		case []jsonValue:
			for _, item := range v {
				elem, ok := item.(*jsonObject)
				if !ok || !elem.isNode() {
					continue
				}
				child, err := buildNode(elem, node)
				if err != nil {
					return nil, err
				}
				b.children = append(b.children, child)
				namedList[key] = append(namedList[key], child)
			}
		}
	}

	missing := func(attr string) error {
		return &MalformedTreeError{Kind: kind, Attr: attr, Msg: "required attribute missing"}
	}

	switch n := node.(type) {
	case *Module:
		if !obj.has("body") {
			return nil, missing("body")
		}
		n.Name, _ = obj.str("name")
		n.Path, _ = obj.str("path")
		n.Body = namedList["body"]

	case *FunctionDef:
		if n.Name, ok = obj.str("name"); !ok {
			return nil, missing("name")
		}
		if !obj.has("body") {
			return nil, missing("body")
		}
		n.Body = namedList["body"]
		for _, dec := range namedList["decorator_list"] {
			switch d := dec.(type) {
			case *Name:
				n.Modifiers = append(n.Modifiers, d.Ident)
			case *Call:
				if f, ok := d.Func.(*Name); ok {
					n.Modifiers = append(n.Modifiers, f.Ident)
				}
			}
		}

	case *InterfaceDef:
		if n.Name, ok = obj.str("name"); !ok {
			return nil, missing("name")
		}
		n.Body = namedList["body"]

	case *VariableDecl:
		target, ok := named["target"].(*Name)
		if !ok {
			return nil, missing("target")
		}
		n.Target = target
		n.Public, _ = obj.boolAt("is_public")
		n.Constant, _ = obj.boolAt("is_constant")
		n.Immutable, _ = obj.boolAt("is_immutable")
		n.Transient, _ = obj.boolAt("is_transient")

	case *Import:
		if n.Name, ok = obj.str("name"); !ok {
			return nil, missing("name")
		}
		n.Alias, _ = obj.str("alias")

	case *ImportFrom:
		if n.Name, ok = obj.str("name"); !ok {
			return nil, missing("name")
		}
		n.Module, _ = obj.str("module")
		n.Alias, _ = obj.str("alias")

	case *Assign:
		if n.Target = named["target"]; n.Target == nil {
			return nil, missing("target")
		}
		if n.Value = named["value"]; n.Value == nil {
			return nil, missing("value")
		}

	case *AugAssign:
		if n.Target = named["target"]; n.Target == nil {
			return nil, missing("target")
		}
		if n.Value = named["value"]; n.Value == nil {
			return nil, missing("value")
		}

	case *AnnAssign:
		if n.Target = named["target"]; n.Target == nil {
			return nil, missing("target")
		}
		n.Value = named["value"]

	case *Expr:
		if n.Value = named["value"]; n.Value == nil {
			return nil, missing("value")
		}

	case *Call:
		if n.Func = named["func"]; n.Func == nil {
			return nil, missing("func")
		}
		n.Args = namedList["args"]

	case *ExtCall:
		call, ok := named["value"].(*Call)
		if !ok {
			return nil, missing("value")
		}
		n.Value = call

	case *StaticCall:
		call, ok := named["value"].(*Call)
		if !ok {
			return nil, missing("value")
		}
		n.Value = call

	case *Attribute:
		if n.Value = named["value"]; n.Value == nil {
			return nil, missing("value")
		}
		if n.Attr, ok = obj.str("attr"); !ok {
			return nil, missing("attr")
		}

	case *Name:
		if n.Ident, ok = obj.str("id"); !ok {
			return nil, missing("id")
		}

	case *Subscript:
		if n.Value = named["value"]; n.Value == nil {
			return nil, missing("value")
		}
		if n.Index = named["slice"]; n.Index == nil {
			return nil, missing("slice")
		}

	case *Tuple:
		n.Elements = namedList["elements"]
	}

	return node, nil
}

func newShell(kind NodeKind) Node {
	switch kind {
	case KindModule:
		return &Module{}
	case KindFunctionDef:
		return &FunctionDef{}
	case KindInterfaceDef:
		return &InterfaceDef{}
	case KindVariableDecl:
		return &VariableDecl{}
	case KindImport:
		return &Import{}
	case KindImportFrom:
		return &ImportFrom{}
	case KindAssign:
		return &Assign{}
	case KindAugAssign:
		return &AugAssign{}
	case KindAnnAssign:
		return &AnnAssign{}
	case KindExpr:
		return &Expr{}
	case KindCall:
		return &Call{}
	case KindExtCall:
		return &ExtCall{}
	case KindStaticCall:
		return &StaticCall{}
	case KindAttribute:
		return &Attribute{}
	case KindName:
		return &Name{}
	case KindSubscript:
		return &Subscript{}
	case KindTuple:
		return &Tuple{}
	default:
		return &Generic{}
	}
}

func nodeBase(n Node) *base {
	switch v := n.(type) {
	case *Module:
		return &v.base
	case *FunctionDef:
		return &v.base
	case *InterfaceDef:
		return &v.base
	case *VariableDecl:
		return &v.base
	case *Import:
		return &v.base
	case *ImportFrom:
		return &v.base
	case *Assign:
		return &v.base
	case *AugAssign:
		return &v.base
	case *AnnAssign:
		return &v.base
	case *Expr:
		return &v.base
	case *Call:
		return &v.base
	case *ExtCall:
		return &v.base
	case *StaticCall:
		return &v.base
	case *Attribute:
		return &v.base
	case *Name:
		return &v.base
	case *Subscript:
		return &v.base
	case *Tuple:
		return &v.base
	default:
		return &n.(*Generic).base
	}
}

func positionOf(obj *jsonObject) Position {
	var p Position
	p.Line, _ = obj.intAt("lineno")
	p.Column, _ = obj.intAt("col_offset")
	p.EndLine, _ = obj.intAt("end_lineno")
	p.EndColumn, _ = obj.intAt("end_col_offset")
	return p
}

// jsonValue is one decoded JSON value: nil, bool, string, json.Number,
// *jsonObject or []jsonValue.
type jsonValue any

// jsonObject preserves document key order, which encoding/json's map decoding
// discards. Child order, and with it every traversal in the analyses, follows
// this order.
type jsonObject struct {
	keys   []string
	values map[string]jsonValue
}

func (o *jsonObject) has(key string) bool {
	_, ok := o.values[key]
	return ok
}

func (o *jsonObject) get(key string) (jsonValue, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *jsonObject) str(key string) (string, bool) {
	s, ok := o.values[key].(string)
	return s, ok
}

func (o *jsonObject) boolAt(key string) (bool, bool) {
	b, ok := o.values[key].(bool)
	return b, ok
}

func (o *jsonObject) intAt(key string) (int, bool) {
	num, ok := o.values[key].(json.Number)
	if !ok {
		return 0, false
	}
	i, err := num.Int64()
	if err != nil {
		return 0, false
	}
	return int(i), true
}

func (o *jsonObject) object(key string) (*jsonObject, bool) {
	v, ok := o.values[key].(*jsonObject)
	return v, ok
}

func (o *jsonObject) isNode() bool {
	_, ok := o.str("ast_type")
	return ok
}

func (o *jsonObject) prepend(key, value string) {
	if o.has(key) {
		return
	}
	o.keys = append([]string{key}, o.keys...)
	o.values[key] = value
}

func parseJSON(data []byte) (jsonValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after document")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (jsonValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (jsonValue, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := &jsonObject{values: make(map[string]jsonValue)}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string")
				}
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				if _, dup := obj.values[key]; !dup {
					obj.keys = append(obj.keys, key)
				}
				obj.values[key] = val
			}
			if _, err := dec.Token(); err != nil { // closing brace
				return nil, err
			}
			return obj, nil
		case '[':
			var arr []jsonValue
			for dec.More() {
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // closing bracket
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		// string, bool, json.Number or nil
		return jsonValue(t), nil
	}
}
