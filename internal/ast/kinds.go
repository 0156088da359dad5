package ast

// NodeKind is the ast_type discriminator the compiler writes on every node of
// the annotated AST. Kinds without a dedicated variant below decode as
// *Generic and still participate in traversal.
type NodeKind string

const (
	// Top-level constructs
	KindModule       NodeKind = "Module"
	KindFunctionDef  NodeKind = "FunctionDef"
	KindInterfaceDef NodeKind = "InterfaceDef"
	KindVariableDecl NodeKind = "VariableDecl"
	KindImport       NodeKind = "Import"
	KindImportFrom   NodeKind = "ImportFrom"

	// Statements
	KindAssign    NodeKind = "Assign"
	KindAugAssign NodeKind = "AugAssign"
	KindAnnAssign NodeKind = "AnnAssign"
	KindExpr      NodeKind = "Expr"
	KindLog       NodeKind = "Log"

	// Calls
	KindCall       NodeKind = "Call"
	KindExtCall    NodeKind = "ExtCall"
	KindStaticCall NodeKind = "StaticCall"

	// Expressions
	KindAttribute NodeKind = "Attribute"
	KindName      NodeKind = "Name"
	KindSubscript NodeKind = "Subscript"
	KindTuple     NodeKind = "Tuple"
)
