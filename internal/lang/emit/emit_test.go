package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	ictiotypes "github.com/dekarrin/minnow/internal/ictiobus/types"
	"github.com/dekarrin/minnow/internal/lang/ast"
)

// testTok is a minimal types.Token for building AST fixtures by hand, the
// same shape the checker package's tests use.
type testTok struct {
	lexeme string
}

func (t testTok) Class() ictiotypes.TokenClass { return ictiotypes.MakeDefaultClass(t.lexeme) }
func (t testTok) Lexeme() string               { return t.lexeme }
func (t testTok) LinePos() int                 { return 1 }
func (t testTok) Line() int                    { return 1 }
func (t testTok) FullLine() string             { return t.lexeme }
func (t testTok) String() string               { return t.lexeme }

func tok(lexeme string) ictiotypes.Token { return testTok{lexeme: lexeme} }

func namedType(name string) *ast.VarType { return &ast.VarType{Name: tok(name)} }

func wrapStmt(k ast.StmtKind) ast.Stmt { return ast.Stmt{Inner: k} }

func mainFunc(body ...ast.Stmt) *ast.Function {
	return &ast.Function{Name: tok("main"), ReturnType: namedType("void"), Body: body}
}

func litInt(n int64) *ast.Literal        { return &ast.Literal{Token: tok("n"), Value: n} }
func litStr(s string) *ast.Literal       { return &ast.Literal{Token: tok("s"), Value: s} }
func litBool(v bool) *ast.Literal        { return &ast.Literal{Token: tok("b"), Value: v} }
func litNull() *ast.Literal              { return &ast.Literal{Token: tok("null"), Value: nil} }
func variable(name string) *ast.Variable { return &ast.Variable{Name: tok(name)} }

func Test_Program_EmitsRuntimeImportAndBootstrap(t *testing.T) {
	assert := assert.New(t)

	prog := &ast.Program{Decls: []ast.Decl{mainFunc()}}

	out := Program(prog)
	assert.Contains(out, "from minnow_runtime import *")
	assert.Contains(out, "if __name__ == '__main__':\n\tmain()\n")
	assert.Contains(out, "def main():")
}

func Test_Function_TopLevel_NoImplicitSelf(t *testing.T) {
	assert := assert.New(t)

	fn := &ast.Function{
		Name:       tok("greet"),
		ReturnType: namedType("void"),
		Params:     []ast.Param{{Name: tok("name"), Type: namedType("string")}},
	}

	var b strings.Builder
	function(&b, fn, 0)
	assert.Equal("def greet(name):\n\tpass\n\n", b.String())
}

func Test_Function_Method_GetsImplicitSelf(t *testing.T) {
	assert := assert.New(t)

	fn := &ast.Function{Name: tok("bark"), ReturnType: namedType("void")}

	var b strings.Builder
	function(&b, fn, 1)
	assert.Equal("\tdef bark(self):\n\t\tpass\n\n", b.String())
}

func Test_Function_InitMethod_RenamedToDunderInit(t *testing.T) {
	assert := assert.New(t)

	fn := &ast.Function{Name: tok("init"), ReturnType: namedType("void")}

	var b strings.Builder
	function(&b, fn, 1)
	assert.Contains(b.String(), "def __init__(self):")
}

func Test_Class_NoSuperclass_NoMethods(t *testing.T) {
	assert := assert.New(t)

	cls := &ast.Class{Name: tok("Animal")}

	var b strings.Builder
	class(&b, cls, 0)
	assert.Equal("class Animal:\n\tpass\n", b.String())
}

func Test_Class_WithSuperclass(t *testing.T) {
	assert := assert.New(t)

	sup := tok("Animal")
	cls := &ast.Class{
		Name:       tok("Dog"),
		Superclass: &sup,
		Methods:    []*ast.Function{{Name: tok("init"), ReturnType: namedType("void")}},
	}

	var b strings.Builder
	class(&b, cls, 0)
	out := b.String()
	assert.Contains(out, "class Dog(Animal):\n")
	assert.Contains(out, "def __init__(self):")
}

func Test_Literal_Variants(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("None", literal(litNull()))
	assert.Equal("True", literal(litBool(true)))
	assert.Equal("False", literal(litBool(false)))
	assert.Equal("3", literal(litInt(3)))
	assert.Equal("\"hi\"", literal(litStr("hi")))
}

func Test_Binary_EqualityAgainstNull_RewrittenToIs(t *testing.T) {
	assert := assert.New(t)

	bin := &ast.Binary{Op: tok("=="), Left: variable("x"), Right: litNull()}
	assert.Equal("x is None", expr(bin))

	bin2 := &ast.Binary{Op: tok("!="), Left: litNull(), Right: variable("x")}
	assert.Equal("x is not None", expr(bin2))
}

func Test_Binary_OrdinaryOperator_Passthrough(t *testing.T) {
	assert := assert.New(t)

	bin := &ast.Binary{Op: tok("+"), Left: litInt(1), Right: litInt(2)}
	assert.Equal("1 + 2", expr(bin))
}

func Test_Unary_Not(t *testing.T) {
	assert := assert.New(t)

	un := &ast.Unary{Op: tok("!"), Operand: variable("ok")}
	assert.Equal("not ok", expr(un))
}

func Test_Call_InitRenamedToDunderInit(t *testing.T) {
	assert := assert.New(t)

	call := &ast.Call{
		Callee: &ast.Get{Receiver: &ast.Super{Token: tok("super")}, Name: tok("init")},
		Args:   []ast.Expr{litInt(1)},
		Paren:  tok("("),
	}
	assert.Equal("super().__init__(1)", expr(call))
}

func Test_Call_NonInitSuffix_Unchanged(t *testing.T) {
	assert := assert.New(t)

	call := &ast.Call{
		Callee: variable("reinit"),
		Paren:  tok("("),
	}
	assert.Equal("reinit()", expr(call))
}

func Test_If_WithoutElse_OmitsElseBlock(t *testing.T) {
	assert := assert.New(t)

	ifs := &ast.If{
		Tok_: tok("if"),
		Cond: variable("ok"),
		Then: []ast.Stmt{wrapStmt(&ast.Return{Tok_: tok("return")})},
		Else: nil,
	}

	var b strings.Builder
	ifStmt(&b, ifs, 0)
	out := b.String()
	assert.Contains(out, "if ok:\n")
	assert.NotContains(out, "else")
}

func Test_If_WithElse(t *testing.T) {
	assert := assert.New(t)

	ifs := &ast.If{
		Tok_: tok("if"),
		Cond: variable("ok"),
		Then: []ast.Stmt{wrapStmt(&ast.Return{Tok_: tok("return")})},
		Else: []ast.Stmt{wrapStmt(&ast.Break{Tok_: tok("break")})},
	}

	var b strings.Builder
	ifStmt(&b, ifs, 0)
	out := b.String()
	assert.Contains(out, "else:\n")
	assert.Contains(out, "break\n")
}

func Test_Switch_RendersMatchCaseArms(t *testing.T) {
	assert := assert.New(t)

	sw := &ast.Switch{
		Tok_:    tok("switch"),
		Subject: variable("x"),
		Cases: []ast.SwitchCase{
			{Type: namedType("Cat"), Body: []ast.Stmt{wrapStmt(&ast.Break{Tok_: tok("break")})}},
		},
		Default: []ast.Stmt{wrapStmt(&ast.Break{Tok_: tok("break")})},
	}

	var b strings.Builder
	switchStmt(&b, sw, 0)
	out := b.String()
	assert.Contains(out, "match x:\n")
	assert.Contains(out, "case Cat():\n")
	assert.Contains(out, "case _:\n")
}

func Test_Array_And_Dictionary(t *testing.T) {
	assert := assert.New(t)

	arr := &ast.Array{Elements: []ast.Expr{litInt(1), litInt(2)}}
	assert.Equal("[1, 2]", expr(arr))

	dict := &ast.Dictionary{
		Keys:   []ast.Expr{litStr("a")},
		Values: []ast.Expr{litInt(1)},
	}
	assert.Equal("{\"a\": 1}", expr(dict))
}

func Test_AttrDeclaration_PrefixedWithSelf(t *testing.T) {
	assert := assert.New(t)

	var b strings.Builder
	stmt(&b, &ast.AttrDeclaration{Name: tok("name"), Init: litStr("fido")}, 1)
	assert.Equal("\tself.name = \"fido\"\n", b.String())
}

func Test_Comment_StripsLeadingSlashes(t *testing.T) {
	assert := assert.New(t)

	var b strings.Builder
	stmt(&b, &ast.Comment{Token: tok("//"), Text: "// hello"}, 0)
	assert.Equal("# hello\n", b.String())
}
