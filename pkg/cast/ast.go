// Package cast defines the C declaration abstract syntax tree produced by
// pkg/parser: typedefs, struct declarations, function definitions and
// extern declarations, statements, and expressions.
package cast

import "github.com/ccbind/cbind/pkg/csrc"

// Node is the base interface for every AST node.
type Node interface {
	implCastNode()
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	implCastExpr()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	implCastStmt()
}

// Decl is the interface for top-level and local declarations.
type Decl interface {
	Node
	implCastDecl()
}

// TypeRef is a named type reference: an optional `struct` prefix, the
// type name (builtin, typedef, or struct tag; `unsigned` qualifiers are
// fused into Name, e.g. "unsigned int"), and a pointer depth.
type TypeRef struct {
	IsStruct      bool
	Name          string
	PointerDepth  int
	Pos           csrc.Position
}

func (TypeRef) implCastNode() {}

// FuncPtrTypeRef is a function-pointer type: `ReturnType (*name)(Params)`
// with PointerDepthToFunction counting any further `*` applied to the
// function-pointer type itself.
type FuncPtrTypeRef struct {
	ReturnType             TypeRef
	Parameters             []ParamDecl
	PointerDepthToFunction int
	Pos                    csrc.Position
}

func (FuncPtrTypeRef) implCastNode() {}

// BinaryOp is the closed set of binary operators spec.md §4.4's
// precedence table names.
type BinaryOp int

const (
	OpOrOr BinaryOp = iota
	OpAndAnd
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpAdd
	OpSub
	OpMul
	OpDiv
)

func (op BinaryOp) String() string {
	names := []string{"||", "&&", "==", "!=", "<", ">", "<=", ">=", "+", "-", "*", "/"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// UnaryOp is the closed set of unary operators: prefix `++ -- + - ! & *`
// and postfix `++ --`. Pre- and post-fix increment/decrement are distinct
// tags because spec.md's AST distinguishes them by position.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPos
	OpNot
	OpAddress
	OpDeref
	OpPreInc
	OpPreDec
	OpPostInc
	OpPostDec
)

func (op UnaryOp) String() string {
	names := []string{"-", "+", "!", "&", "*", "++", "--", "++", "--"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// IntLiteral is a 64-bit integer constant.
type IntLiteral struct {
	Value int64
	Pos   csrc.Position
}

func (IntLiteral) implCastNode() {}
func (IntLiteral) implCastExpr() {}

// FloatLiteral is a double-precision constant (its optional `f`/`F`
// suffix is stripped at lex/parse time; it carries no distinct type tag).
type FloatLiteral struct {
	Value float64
	Pos   csrc.Position
}

func (FloatLiteral) implCastNode() {}
func (FloatLiteral) implCastExpr() {}

// StringLiteral is a cooked string (its surrounding quotes stripped;
// backslash escapes are not decoded, per spec.md §4.1).
type StringLiteral struct {
	Value string
	Pos   csrc.Position
}

func (StringLiteral) implCastNode() {}
func (StringLiteral) implCastExpr() {}

// NullLiteral is the `NULL` keyword used as a primary expression.
type NullLiteral struct {
	Pos csrc.Position
}

func (NullLiteral) implCastNode() {}
func (NullLiteral) implCastExpr() {}

// Ident is an identifier used as an expression.
type Ident struct {
	Name string
	Pos  csrc.Position
}

func (Ident) implCastNode() {}
func (Ident) implCastExpr() {}

// Unary is a unary expression: a prefix or postfix operator applied to
// Expr. Postfix distinguishes `x++`/`x--` from the prefix forms via the
// operator tag itself (OpPostInc/OpPostDec), not a separate flag.
type Unary struct {
	Op   UnaryOp
	Expr Expr
	Pos  csrc.Position
}

func (Unary) implCastNode() {}
func (Unary) implCastExpr() {}

// Binary is a binary expression built by the Pratt parser's precedence
// climb.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Pos   csrc.Position
}

func (Binary) implCastNode() {}
func (Binary) implCastExpr() {}

// Assign is `target = value`, right-associative and lower-binding than
// every infix operator.
type Assign struct {
	Target Expr
	Value  Expr
	Pos    csrc.Position
}

func (Assign) implCastNode() {}
func (Assign) implCastExpr() {}

// Call is a function call: `Func(Args...)`.
type Call struct {
	Func Expr
	Args []Expr
	Pos  csrc.Position
}

func (Call) implCastNode() {}
func (Call) implCastExpr() {}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Expr Expr
}

func (ExprStmt) implCastNode() {}
func (ExprStmt) implCastStmt() {}

// ReturnStmt is `return [Expr] ;`; Expr is nil for a bare return.
type ReturnStmt struct {
	Expr Expr
}

func (ReturnStmt) implCastNode() {}
func (ReturnStmt) implCastStmt() {}

// CompoundStmt is `{ ... }`: declarations and statements interleaved, in
// source order.
type CompoundStmt struct {
	Items []Node
}

func (CompoundStmt) implCastNode() {}
func (CompoundStmt) implCastStmt() {}

// IfStmt is `if (Cond) Then [else Else]`.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

func (IfStmt) implCastNode() {}
func (IfStmt) implCastStmt() {}

// WhileStmt is `while (Cond) Body`.
type WhileStmt struct {
	Cond Expr
	Body Stmt
}

func (WhileStmt) implCastNode() {}
func (WhileStmt) implCastStmt() {}

// ForStmt is `for (InitDecl|InitExpr; Cond; Post) Body`. Exactly one of
// InitDecl/InitExpr is non-nil, or neither (an empty init clause).
type ForStmt struct {
	InitDecl *VarDecl
	InitExpr Expr
	Cond     Expr
	Post     Expr
	Body     Stmt
}

func (ForStmt) implCastNode() {}
func (ForStmt) implCastStmt() {}

// BreakStmt is `break ;`.
type BreakStmt struct{}

func (BreakStmt) implCastNode() {}
func (BreakStmt) implCastStmt() {}

// ContinueStmt is `continue ;`.
type ContinueStmt struct{}

func (ContinueStmt) implCastNode() {}
func (ContinueStmt) implCastStmt() {}

// Attribute is the `{None, Import, Export}` tag derived from
// `__attribute__((dllimport|dllexport))`.
type Attribute int

const (
	AttrNone Attribute = iota
	AttrImport
	AttrExport
)

func (a Attribute) String() string {
	switch a {
	case AttrImport:
		return "dllimport"
	case AttrExport:
		return "dllexport"
	default:
		return "none"
	}
}

// VarDecl is `Type Name [= Init] ;`.
type VarDecl struct {
	Type TypeRef
	Name string
	Init Expr // nil when absent
	Pos  csrc.Position
}

func (VarDecl) implCastNode() {}
func (VarDecl) implCastDecl() {}
func (VarDecl) implCastStmt() {} // a local VarDecl is also a CompoundStmt item

// ParamDecl is one parameter of a function (definition, declaration, or
// function-pointer type).
type ParamDecl struct {
	Type TypeRef
	Name string
}

func (ParamDecl) implCastNode() {}
func (ParamDecl) implCastDecl() {}

// FuncDecl is a function definition or extern declaration. Body is nil
// for a declaration-only form (`Type Name(Params) ;`).
//
// Library is the supplemented library-qualified extern field (§4.4.1 of
// the design notes): populated from the innermost enclosing ExternBlock
// whose Language is neither "C" nor "C++"; empty otherwise.
type FuncDecl struct {
	Attribute  Attribute
	IsExtern   bool
	Library    string
	ReturnType TypeRef
	Name       string
	Params     []ParamDecl
	Body       *CompoundStmt // nil for a declaration
	Pos        csrc.Position
}

func (FuncDecl) implCastNode() {}
func (FuncDecl) implCastDecl() {}

// TypedefDecl is `typedef Type Name ;` or, when FuncPtr is non-nil, a
// function-pointer typedef `typedef RetType (*Name)(Params) ;`.
type TypedefDecl struct {
	Type    TypeRef
	FuncPtr *FuncPtrTypeRef // non-nil for a function-pointer typedef
	Name    string
	Pos     csrc.Position
}

func (TypedefDecl) implCastNode() {}
func (TypedefDecl) implCastDecl() {}

// StructField is one `TypeRef Name ;` member of a struct body.
type StructField struct {
	Type TypeRef
	Name string
}

// StructDecl is a struct forward declaration (`struct Tag ;`, Fields nil)
// or full declaration (`struct Tag { fields... } ;`).
type StructDecl struct {
	Attribute Attribute
	IsExtern  bool
	Name      string
	Name2     string // the optional second name in `struct Tag { ... } Name2;`
	Fields    []StructField
	Pos       csrc.Position
}

func (StructDecl) implCastNode() {}
func (StructDecl) implCastDecl() {}

// ExternBlock is the `extern "Language" { Decls... }` (or single-
// declaration) wrapper. Language is "C" or "C++" per spec.md §4.4, or any
// other string literal for the supplemented library-qualified form
// (§4.4.1) — in which case it also tags every FuncDecl inside with
// Library = Language.
type ExternBlock struct {
	Language string
	Decls    []Decl
}

func (ExternBlock) implCastNode() {}
func (ExternBlock) implCastDecl() {}

// TranslationUnit is the ordered top-level list of declarations parsed
// from one projected token stream.
type TranslationUnit struct {
	Decls []Decl
}

func (TranslationUnit) implCastNode() {}
