package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	ictiotypes "github.com/dekarrin/minnow/internal/ictiobus/types"
	"github.com/dekarrin/minnow/internal/lang/ast"
)

// testTok is a minimal types.Token for building AST fixtures by hand.
type testTok struct {
	lexeme string
	line   int
	col    int
}

func (t testTok) Class() ictiotypes.TokenClass { return ictiotypes.MakeDefaultClass(t.lexeme) }
func (t testTok) Lexeme() string               { return t.lexeme }
func (t testTok) LinePos() int                 { return t.col }
func (t testTok) Line() int                    { return t.line }
func (t testTok) FullLine() string             { return t.lexeme }
func (t testTok) String() string               { return t.lexeme }

func tok(lexeme string) ictiotypes.Token { return testTok{lexeme: lexeme, line: 1, col: 1} }

func namedType(name string) *ast.VarType { return &ast.VarType{Name: tok(name)} }

func mainFunc(body ...ast.Stmt) *ast.Function {
	return &ast.Function{
		Name:       tok("main"),
		ReturnType: namedType("void"),
		Body:       body,
	}
}

func stmt(k ast.StmtKind) ast.Stmt { return ast.Stmt{Inner: k} }

func Test_Check_MissingMain_Fails(t *testing.T) {
	assert := assert.New(t)

	prog := &ast.Program{Decls: []ast.Decl{
		&ast.Function{Name: tok("notMain"), ReturnType: namedType("void")},
	}}

	err := New().Check(prog)
	assert.Error(err)
}

func Test_Check_MinimalMain_Passes(t *testing.T) {
	assert := assert.New(t)

	prog := &ast.Program{Decls: []ast.Decl{mainFunc()}}

	err := New().Check(prog)
	assert.NoError(err)
}

func Test_Check_VarDeclaration_TypeMismatch_Fails(t *testing.T) {
	assert := assert.New(t)

	// var s: string = 3;
	badDecl := &ast.VarDeclaration{
		Name: tok("s"),
		Type: namedType("string"),
		Init: &ast.Literal{Token: tok("3"), Value: int64(3)},
	}

	prog := &ast.Program{Decls: []ast.Decl{
		mainFunc(stmt(badDecl)),
	}}

	err := New().Check(prog)
	assert.Error(err)
}

func Test_Check_VarDeclaration_Assignable_Passes(t *testing.T) {
	assert := assert.New(t)

	// var f: float = 3; (int assignable to float)
	decl := &ast.VarDeclaration{
		Name: tok("f"),
		Type: namedType("float"),
		Init: &ast.Literal{Token: tok("3"), Value: int64(3)},
	}

	prog := &ast.Program{Decls: []ast.Decl{
		mainFunc(stmt(decl)),
	}}

	err := New().Check(prog)
	assert.NoError(err)
}

func Test_Check_ReturnPath_IfWithoutElse_Fails(t *testing.T) {
	assert := assert.New(t)

	fn := &ast.Function{
		Name:       tok("f"),
		ReturnType: namedType("int"),
		Body: []ast.Stmt{
			stmt(&ast.If{
				Tok_: tok("if"),
				Cond: &ast.Literal{Token: tok("true"), Value: true},
				Then: []ast.Stmt{stmt(&ast.Return{Tok_: tok("return"), Value: &ast.Literal{Token: tok("1"), Value: int64(1)}})},
			}),
		},
	}

	prog := &ast.Program{Decls: []ast.Decl{mainFunc(), fn}}

	err := New().Check(prog)
	assert.Error(err)
}

func Test_Check_ReturnPath_IfElseBothReturn_Passes(t *testing.T) {
	assert := assert.New(t)

	fn := &ast.Function{
		Name:       tok("f"),
		ReturnType: namedType("int"),
		Body: []ast.Stmt{
			stmt(&ast.If{
				Tok_: tok("if"),
				Cond: &ast.Literal{Token: tok("true"), Value: true},
				Then: []ast.Stmt{stmt(&ast.Return{Tok_: tok("return"), Value: &ast.Literal{Token: tok("1"), Value: int64(1)}})},
				Else: []ast.Stmt{stmt(&ast.Return{Tok_: tok("return"), Value: &ast.Literal{Token: tok("2"), Value: int64(2)}})},
			}),
		},
	}

	prog := &ast.Program{Decls: []ast.Decl{mainFunc(), fn}}

	err := New().Check(prog)
	assert.NoError(err)
}

func Test_Check_BreakOutsideLoop_Fails(t *testing.T) {
	assert := assert.New(t)

	prog := &ast.Program{Decls: []ast.Decl{
		mainFunc(stmt(&ast.Break{Tok_: tok("break")})),
	}}

	err := New().Check(prog)
	assert.Error(err)
}

func Test_Check_BreakInsideWhile_Passes(t *testing.T) {
	assert := assert.New(t)

	w := &ast.While{
		Tok_: tok("while"),
		Cond: &ast.Literal{Token: tok("true"), Value: true},
		Body: []ast.Stmt{stmt(&ast.Break{Tok_: tok("break")})},
	}

	prog := &ast.Program{Decls: []ast.Decl{mainFunc(stmt(w))}}

	err := New().Check(prog)
	assert.NoError(err)
}

func Test_Check_ClassInheritance_OverrideWidensReturn_Fails(t *testing.T) {
	assert := assert.New(t)

	classA := &ast.Class{
		Name: tok("A"),
		Methods: []*ast.Function{
			{
				Name:       tok("f"),
				Params:     []ast.Param{{Name: tok("x"), Type: namedType("int")}},
				ReturnType: namedType("int"),
				Body:       []ast.Stmt{stmt(&ast.Return{Tok_: tok("return"), Value: &ast.Literal{Token: tok("1"), Value: int64(1)}})},
			},
		},
	}
	superTok := tok("A")
	classB := &ast.Class{
		Name:       tok("B"),
		Superclass: &superTok,
		Methods: []*ast.Function{
			{
				Name:       tok("f"),
				Params:     []ast.Param{{Name: tok("x"), Type: namedType("object")}},
				ReturnType: namedType("float"),
				Body:       []ast.Stmt{stmt(&ast.Return{Tok_: tok("return"), Value: &ast.Literal{Token: tok("1"), Value: int64(1)}})},
			},
		},
	}

	prog := &ast.Program{Decls: []ast.Decl{mainFunc(), classA, classB}}

	err := New().Check(prog)
	assert.Error(err)
}

func Test_Check_ClassInheritance_WidenParamSameReturn_Passes(t *testing.T) {
	assert := assert.New(t)

	classA := &ast.Class{
		Name: tok("A"),
		Methods: []*ast.Function{
			{
				Name:       tok("f"),
				Params:     []ast.Param{{Name: tok("x"), Type: namedType("int")}},
				ReturnType: namedType("int"),
				Body:       []ast.Stmt{stmt(&ast.Return{Tok_: tok("return"), Value: &ast.Literal{Token: tok("1"), Value: int64(1)}})},
			},
		},
	}
	superTok := tok("A")
	classB := &ast.Class{
		Name:       tok("B"),
		Superclass: &superTok,
		Methods: []*ast.Function{
			{
				Name:       tok("f"),
				Params:     []ast.Param{{Name: tok("x"), Type: namedType("object")}},
				ReturnType: namedType("int"),
				Body:       []ast.Stmt{stmt(&ast.Return{Tok_: tok("return"), Value: &ast.Literal{Token: tok("1"), Value: int64(1)}})},
			},
		},
	}

	prog := &ast.Program{Decls: []ast.Decl{mainFunc(), classA, classB}}

	err := New().Check(prog)
	assert.NoError(err)
}
