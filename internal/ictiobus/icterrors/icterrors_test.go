package icterrors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/minnow/internal/ictiobus/types"
)

type testTok struct {
	lexeme     string
	line, col  int
	sourceLine string
}

func (t testTok) Class() types.TokenClass { return types.MakeDefaultClass(t.lexeme) }
func (t testTok) Lexeme() string          { return t.lexeme }
func (t testTok) LinePos() int            { return t.col }
func (t testTok) Line() int               { return t.line }
func (t testTok) FullLine() string        { return t.sourceLine }
func (t testTok) String() string          { return t.lexeme }

func Test_NewSyntaxError_NoTokenContext_ErrorHasNoLinePrefix(t *testing.T) {
	assert := assert.New(t)

	err := NewSyntaxError("unexpected end of input")
	assert.Equal("syntax error: unexpected end of input", err.Error())
	assert.Equal(0, err.Line())
	assert.Equal(0, err.Position())
}

func Test_NewParseErrorFromToken_ErrorIncludesLineAndChar(t *testing.T) {
	assert := assert.New(t)

	tok := testTok{lexeme: "}", line: 4, col: 7, sourceLine: "  return }"}
	err := NewParseErrorFromToken("unexpected token", tok, 12)

	assert.Equal("parse error: around line 4, char 7: unexpected token", err.Error())
	assert.Equal(4, err.Line())
	assert.Equal(7, err.Position())
	assert.Equal(tok, err.Token)
	assert.Equal(12, err.TokenIndex)
}

func Test_FullMessage_RendersCaretUnderToken(t *testing.T) {
	assert := assert.New(t)

	tok := testTok{lexeme: "bad", line: 2, col: 5, sourceLine: "var x = bad"}
	err := NewTypeErrorFromToken("undefined reference", tok)

	full := err.FullMessage()
	assert.Contains(full, "var x = bad")
	assert.Contains(full, "    ^^^")
	assert.Contains(full, "type error: around line 2, char 5: undefined reference")
}

func Test_FullMessage_NoLine_IsJustTheSummary(t *testing.T) {
	assert := assert.New(t)

	err := NewGrammarBuildError("shift-reduce conflict in state 3")
	assert.Equal(err.Error(), err.FullMessage())
}

func Test_AllDiagnosticKinds_ImplementDiagnosticInterface(t *testing.T) {
	assert := assert.New(t)

	tok := testTok{lexeme: "x", line: 1, col: 1, sourceLine: "x"}

	var diags []Diagnostic = []Diagnostic{
		NewLexErrorFromToken("m", tok),
		NewParseErrorFromToken("m", tok, 0),
		NewSyntaxErrorFromToken("m", tok),
		NewGrammarBuildError("m"),
		NewNameErrorFromToken("m", tok),
		NewTypeErrorFromToken("m", tok),
		NewClassErrorFromToken("m", tok),
		NewControlFlowErrorFromToken("m", tok),
		NewProgramShapeError("m"),
	}

	for _, d := range diags {
		assert.NotEmpty(d.Error())
		assert.NotEmpty(d.FullMessage())
	}
}
