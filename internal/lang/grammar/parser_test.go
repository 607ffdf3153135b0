package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/minnow/internal/lang/ast"
)

func parseOK(t *testing.T, source string) *ast.Program {
	fe, err := NewFrontend()
	if err != nil {
		t.Fatalf("NewFrontend: %v", err)
	}
	prog, err := fe.Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}
	return prog
}

func Test_NewFrontend_BuildsWithoutConflict(t *testing.T) {
	assert := assert.New(t)

	_, err := NewFrontend()
	assert.NoError(err)
}

func Test_Parse_EmptyMainFunction(t *testing.T) {
	assert := assert.New(t)

	prog := parseOK(t, "fun main() {}")
	assert.Len(prog.Decls, 1)

	fn, ok := prog.Decls[0].(*ast.Function)
	assert.True(ok)
	assert.Equal("main", fn.Name.Lexeme())
	assert.Empty(fn.Body)
}

func Test_Parse_VarDeclarationWithTypeAndInit(t *testing.T) {
	assert := assert.New(t)

	prog := parseOK(t, `fun main() { var x: int = 3; }`)
	fn := prog.Decls[0].(*ast.Function)
	assert.Len(fn.Body, 1)

	decl, ok := fn.Body[0].Inner.(*ast.VarDeclaration)
	assert.True(ok)
	assert.Equal("x", decl.Name.Lexeme())
	assert.Equal("int", decl.Type.Name.Lexeme())

	lit, ok := decl.Init.(*ast.Literal)
	assert.True(ok)
	assert.Equal(int64(3), lit.Value)
}

func Test_Parse_IfElse(t *testing.T) {
	assert := assert.New(t)

	prog := parseOK(t, `fun main() { if (true) { return; } else { return; } }`)
	fn := prog.Decls[0].(*ast.Function)

	ifs, ok := fn.Body[0].Inner.(*ast.If)
	assert.True(ok)
	assert.Len(ifs.Then, 1)
	assert.Len(ifs.Else, 1)
}

func Test_Parse_IfWithoutElse_HasNilElse(t *testing.T) {
	assert := assert.New(t)

	prog := parseOK(t, `fun main() { if (true) { return; } }`)
	fn := prog.Decls[0].(*ast.Function)

	ifs, ok := fn.Body[0].Inner.(*ast.If)
	assert.True(ok)
	assert.Nil(ifs.Else)
}

func Test_Parse_WhileLoop(t *testing.T) {
	assert := assert.New(t)

	prog := parseOK(t, `fun main() { while (true) { break; } }`)
	fn := prog.Decls[0].(*ast.Function)

	_, ok := fn.Body[0].Inner.(*ast.While)
	assert.True(ok)
}

func Test_Parse_ClassWithSuperclassAndMethod(t *testing.T) {
	assert := assert.New(t)

	prog := parseOK(t, `
class Animal {
	fun speak() {}
}

class Dog : Animal {
	fun init() {
		self.name = "fido";
	}
}

fun main() {}
`)
	assert.Len(prog.Decls, 3)

	animal := prog.Decls[0].(*ast.Class)
	assert.Equal("Animal", animal.Name.Lexeme())
	assert.Nil(animal.Superclass)
	assert.Len(animal.Methods, 1)

	dog := prog.Decls[1].(*ast.Class)
	assert.Equal("Dog", dog.Name.Lexeme())
	assert.NotNil(dog.Superclass)
	assert.Equal("Animal", (*dog.Superclass).Lexeme())
}

func Test_Parse_BinaryExpressionPrecedence(t *testing.T) {
	assert := assert.New(t)

	prog := parseOK(t, `fun main() { var x: int = 1 + 2 * 3; }`)
	fn := prog.Decls[0].(*ast.Function)
	decl := fn.Body[0].Inner.(*ast.VarDeclaration)

	bin, ok := decl.Init.(*ast.Binary)
	assert.True(ok)
	assert.Equal("+", bin.Op.Lexeme())

	// right side should be the higher-precedence 2 * 3 sub-expression
	rhs, ok := bin.Right.(*ast.Binary)
	assert.True(ok)
	assert.Equal("*", rhs.Op.Lexeme())
}

func Test_Parse_StandaloneCommentIsPreserved(t *testing.T) {
	assert := assert.New(t)

	prog := parseOK(t, "fun main() {\n// a standalone comment\nreturn;\n}")
	fn := prog.Decls[0].(*ast.Function)

	assert.Len(fn.Body, 2)
	_, ok := fn.Body[0].Inner.(*ast.Comment)
	assert.True(ok)
}

func Test_Parse_CommentAfterSemicolonIsKept(t *testing.T) {
	assert := assert.New(t)

	// the emission rule (§4.4) keys off the immediately preceding emitted
	// token's kind, not actual line breaks: a comment right after a
	// semicolon is kept the same as one right after an open brace.
	prog := parseOK(t, "fun main() {\nreturn; // kept, follows a semicolon\n}")
	fn := prog.Decls[0].(*ast.Function)

	assert.Len(fn.Body, 2)
	_, ok := fn.Body[0].Inner.(*ast.Return)
	assert.True(ok)
	_, ok = fn.Body[1].Inner.(*ast.Comment)
	assert.True(ok)
}

func Test_Parse_CommentAfterOtherTokenIsDropped(t *testing.T) {
	assert := assert.New(t)

	// a comment following e.g. an identifier (not comment/semi/lbrace) is
	// dropped entirely rather than becoming a COMMENT-STMT.
	prog := parseOK(t, "fun main() {\nvar x: int = 3 // dropped, follows intnum\n;\n}")
	fn := prog.Decls[0].(*ast.Function)

	assert.Len(fn.Body, 1)
	_, ok := fn.Body[0].Inner.(*ast.VarDeclaration)
	assert.True(ok)
}
