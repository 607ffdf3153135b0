package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func lexAll(t *testing.T, source string) []string {
	lx := NewLexer()
	stream, err := lx.Lex(strings.NewReader(source))
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	var ids []string
	for stream.HasNext() {
		tok := stream.Next()
		ids = append(ids, tok.Class().ID())
	}
	return ids
}

func Test_Lexer_KeywordWinsTieAgainstIdentifier(t *testing.T) {
	assert := assert.New(t)

	// "if" matches both the kwif pattern and the id pattern at the same
	// length; declaration order in allTerminals puts keywords first, so
	// the keyword class must win.
	ids := lexAll(t, "if")
	assert.Equal([]string{"kwif"}, ids)
}

func Test_Lexer_LongestMatchPrefersIdentifierOverKeywordPrefix(t *testing.T) {
	assert := assert.New(t)

	// "ifx" is longer than any keyword match on this input, so the
	// identifier pattern's longer match must win regardless of declaration
	// order.
	ids := lexAll(t, "ifx")
	assert.Equal([]string{"id"}, ids)
}

func Test_Lexer_DiscardsWhitespace(t *testing.T) {
	assert := assert.New(t)

	ids := lexAll(t, "a   \t\n  b")
	assert.Equal([]string{"id", "id"}, ids)
}

func Test_Lexer_Literals(t *testing.T) {
	assert := assert.New(t)

	ids := lexAll(t, `3 3.5 "hi" true false null`)
	assert.Equal([]string{"intnum", "floatnum", "strlit", "kwtrue", "kwfalse", "kwnull"}, ids)
}

func Test_Lexer_Punctuation(t *testing.T) {
	assert := assert.New(t)

	ids := lexAll(t, "( ) { } [ ] ; : . == != <= >= < > + - * / % !")
	assert.Equal([]string{
		"lparen", "rparen", "lbrace", "rbrace", "lbracket", "rbracket",
		"semi", "colon", "dot", "eqeq", "bangeq", "le", "ge", "lt", "gt",
		"plus", "minus", "star", "slash", "percent", "bang",
	}, ids)
}

func Test_Lexer_Comment_IsItsOwnTokenClass(t *testing.T) {
	assert := assert.New(t)

	ids := lexAll(t, "a // trailing comment\n")
	assert.Equal([]string{"id", "comment"}, ids)
}

func Test_MatcherListSignature_StableAndNonEmpty(t *testing.T) {
	assert := assert.New(t)

	sig1 := MatcherListSignature()
	sig2 := MatcherListSignature()
	assert.Equal(sig1, sig2)
	assert.Contains(sig1, "kwfun\tfun\n")
	assert.Contains(sig1, "<whitespace>\t")
}
