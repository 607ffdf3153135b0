// Package ast defines the abstract syntax tree produced by the parser's
// semantic actions: closed tagged variants for expressions, statements, and
// top-level declarations, plus the recursive VarType node used for type
// annotations. There is no open extension at runtime; every variant is
// listed here and dispatch is exhaustive type switches in the checker.
package ast

import "github.com/dekarrin/minnow/internal/ictiobus/types"

// Node is the base interface implemented by every AST node. Tok returns the
// token most representative of the node's source position, for diagnostics.
type Node interface {
	Tok() types.Token
}

// Expr is implemented by every expression variant.
type Expr interface {
	Node
	exprNode()
}

// StmtKind is implemented by every statement variant. A StmtKind is always
// held inside a Stmt wrapper in a statement list; nothing outside this
// package constructs a bare StmtKind in isolation.
type StmtKind interface {
	Node
	stmtNode()
}

// Decl is implemented by the two top-level forms, Function and Class.
type Decl interface {
	Node
	declNode()
}

// Program is the root of a parsed source file: an ordered list of top-level
// function and class declarations.
type Program struct {
	Decls []Decl
}

// Stmt wraps a single statement variant. Every statement in a body list is
// wrapped exactly once at this level so that position and (later) any
// statement-level annotation live in one place regardless of variant.
type Stmt struct {
	Inner StmtKind
}

func (s Stmt) Tok() types.Token { return s.Inner.Tok() }

// VarType is the recursive node for a type annotation: a bare name T, or a
// one- or two-argument parametric name list<T> / dict<K,V>.
type VarType struct {
	Name         types.Token
	Nested       *VarType
	SecondNested *VarType
}

func (t *VarType) Tok() types.Token { return t.Name }

// Param is one entry of a Function's parameter list.
type Param struct {
	Name types.Token
	Type *VarType
}

// ---- Expressions ----

// Literal is an int, float, string, bool, or null constant. Value holds the
// Go-native representation (int64, float64, string, bool, or nil).
type Literal struct {
	Token types.Token
	Value any
}

func (e *Literal) Tok() types.Token { return e.Token }
func (*Literal) exprNode()          {}

// Variable is a bare identifier reference.
type Variable struct {
	Name types.Token
}

func (e *Variable) Tok() types.Token { return e.Name }
func (*Variable) exprNode()          {}

// Self is the `self` receiver reference inside a method body.
type Self struct {
	Token types.Token
}

func (e *Self) Tok() types.Token { return e.Token }
func (*Self) exprNode()          {}

// Super is the `super` reference, only meaningful as the receiver of a Get
// or Call inside a method body.
type Super struct {
	Token types.Token
}

func (e *Super) Tok() types.Token { return e.Token }
func (*Super) exprNode()          {}

// Grouping is a parenthesized sub-expression, kept as its own node so error
// messages can point at the parens rather than collapsing into Inner.
type Grouping struct {
	Paren types.Token
	Inner Expr
}

func (e *Grouping) Tok() types.Token { return e.Paren }
func (*Grouping) exprNode()          {}

// Unary is a prefix operator applied to one operand (`-x`, `!x`).
type Unary struct {
	Op      types.Token
	Operand Expr
}

func (e *Unary) Tok() types.Token { return e.Op }
func (*Unary) exprNode()          {}

// Binary is an infix operator applied to two operands.
type Binary struct {
	Op    types.Token
	Left  Expr
	Right Expr
}

func (e *Binary) Tok() types.Token { return e.Op }
func (*Binary) exprNode()          {}

// Call is a function or method call. Line is recorded separately from
// Callee's token because the callee may itself be a multi-token expression
// (e.g. a Get).
type Call struct {
	Callee Expr
	Args   []Expr
	Paren  types.Token
	Line   int
}

func (e *Call) Tok() types.Token { return e.Paren }
func (*Call) exprNode()          {}

// Get is attribute/method access on a receiver (`receiver.name`).
type Get struct {
	Receiver Expr
	Name     types.Token
}

func (e *Get) Tok() types.Token { return e.Name }
func (*Get) exprNode()          {}

// Index is subscript access (`collection[index]`).
type Index struct {
	Collection Expr
	Idx        Expr
	Bracket    types.Token
}

func (e *Index) Tok() types.Token { return e.Bracket }
func (*Index) exprNode()          {}

// Array is an array literal.
type Array struct {
	Bracket  types.Token
	Elements []Expr
}

func (e *Array) Tok() types.Token { return e.Bracket }
func (*Array) exprNode()          {}

// Dictionary is a dict literal; Keys and Values are parallel slices.
type Dictionary struct {
	Brace  types.Token
	Keys   []Expr
	Values []Expr
}

func (e *Dictionary) Tok() types.Token { return e.Brace }
func (*Dictionary) exprNode()          {}

// ---- Statements ----

// ExpressionStatement evaluates an expression for its side effects.
type ExpressionStatement struct {
	Expr Expr
}

func (s *ExpressionStatement) Tok() types.Token { return s.Expr.Tok() }
func (*ExpressionStatement) stmtNode()          {}

// VarDeclaration is a local `var name [: type] = init` form. Type is nil
// when the annotation is omitted and the checker must infer it.
type VarDeclaration struct {
	Name types.Token
	Type *VarType
	Init Expr
}

func (s *VarDeclaration) Tok() types.Token { return s.Name }
func (*VarDeclaration) stmtNode()          {}

// AttrDeclaration is a field declaration, valid only inside a class's init.
type AttrDeclaration struct {
	Name types.Token
	Type *VarType
	Init Expr
}

func (s *AttrDeclaration) Tok() types.Token { return s.Name }
func (*AttrDeclaration) stmtNode()          {}

// Assignment is `lvalue = rhs`. Target is restricted by the checker to
// Variable, Get, and Index expressions.
type Assignment struct {
	Target Expr
	Value  Expr
	Eq     types.Token
	Line   int
}

func (s *Assignment) Tok() types.Token { return s.Eq }
func (*Assignment) stmtNode()          {}

// If is a conditional with an optional else body (nil when absent).
type If struct {
	Tok_ types.Token
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (s *If) Tok() types.Token { return s.Tok_ }
func (*If) stmtNode()          {}

// While is a condition-first loop.
type While struct {
	Tok_ types.Token
	Cond Expr
	Body []Stmt
}

func (s *While) Tok() types.Token { return s.Tok_ }
func (*While) stmtNode()          {}

// For is a `for var in iterable { body }` loop over a list or dict.
type For struct {
	Tok_     types.Token
	Var      types.Token
	Iterable Expr
	Body     []Stmt
}

func (s *For) Tok() types.Token { return s.Tok_ }
func (*For) stmtNode()          {}

// Return is a `return [expr]` statement; Value is nil for a bare return.
type Return struct {
	Tok_  types.Token
	Value Expr
}

func (s *Return) Tok() types.Token { return s.Tok_ }
func (*Return) stmtNode()          {}

// Break exits the nearest enclosing loop.
type Break struct {
	Tok_ types.Token
}

func (s *Break) Tok() types.Token { return s.Tok_ }
func (*Break) stmtNode()          {}

// Continue skips to the next iteration of the nearest enclosing loop.
type Continue struct {
	Tok_ types.Token
}

func (s *Continue) Tok() types.Token { return s.Tok_ }
func (*Continue) stmtNode()          {}

// SwitchCase is one `case TypeName { body }` arm of a Switch.
type SwitchCase struct {
	Type *VarType
	Body []Stmt
}

// Switch is a type-discriminated switch over Subject; Default is nil when
// no default arm is present.
type Switch struct {
	Tok_    types.Token
	Subject Expr
	Cases   []SwitchCase
	Default []Stmt
}

func (s *Switch) Tok() types.Token { return s.Tok_ }
func (*Switch) stmtNode()          {}

// Comment is a preserved standalone comment (§4.4's emission rule decides
// which comments reach the token stream at all; every one that does becomes
// one of these in the statement list it was found in).
type Comment struct {
	Token types.Token
	Text  string
}

func (s *Comment) Tok() types.Token { return s.Token }
func (*Comment) stmtNode()          {}

// ---- Top-level declarations ----

// Function is a top-level function or a class method.
type Function struct {
	Name       types.Token
	Params     []Param
	ReturnType *VarType
	Body       []Stmt
}

func (d *Function) Tok() types.Token { return d.Name }
func (*Function) declNode()          {}

// Class is a top-level class declaration. Superclass is nil when the class
// inherits from object implicitly.
type Class struct {
	Name       types.Token
	Superclass *types.Token
	Methods    []*Function
}

func (d *Class) Tok() types.Token { return d.Name }
func (*Class) declNode()          {}
