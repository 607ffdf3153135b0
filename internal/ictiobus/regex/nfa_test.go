package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ConcatFragment_RecognizesMultiCharLiteral(t *testing.T) {
	assert := assert.New(t)

	pat, err := Compile("var")
	assert.NoError(err)
	pat = pat.AddType(Tag{Kind: "kwvar", Priority: 0})
	dfa := pat.ToDFA()

	m := Recognize(dfa, "var x", 0)
	assert.True(m.Ok)
	assert.Equal(3, m.Length)
	assert.Equal("kwvar", m.Tag.Kind)
}

func Test_ConcatFragment_PartialPrefixIsNotAMatch(t *testing.T) {
	assert := assert.New(t)

	pat, err := Compile("var")
	assert.NoError(err)
	pat = pat.AddType(Tag{Kind: "kwvar", Priority: 0})
	dfa := pat.ToDFA()

	m := Recognize(dfa, "va;", 0)
	assert.False(m.Ok)
}

func Test_PlusFragment_RecognizesOneOrMoreRepetitions(t *testing.T) {
	assert := assert.New(t)

	pat, err := Compile(`[0-9]+`)
	assert.NoError(err)
	pat = pat.AddType(Tag{Kind: "intnum", Priority: 0})
	dfa := pat.ToDFA()

	one := Recognize(dfa, "1,", 0)
	assert.True(one.Ok)
	assert.Equal(1, one.Length)

	many := Recognize(dfa, "1234,", 0)
	assert.True(many.Ok)
	assert.Equal(4, many.Length)
	assert.Equal("intnum", many.Tag.Kind)
}

func Test_AddType_ColorsTheDesignatedAcceptState(t *testing.T) {
	assert := assert.New(t)

	pat, err := Compile("ab")
	assert.NoError(err)
	assert.Empty(pat.frag.NFA.GetValue(pat.frag.Accept))

	tagged := pat.AddType(Tag{Kind: "ab", Priority: 0})
	val := tagged.NFA().GetValue(tagged.frag.Accept)
	assert.Len(val, 1)
	assert.Equal("ab", val[0].Kind)
}

func Test_UnionAll_PicksEarliestDeclaredMatcherOnTie(t *testing.T) {
	assert := assert.New(t)

	kw, err := Compile("if")
	assert.NoError(err)
	kw = kw.AddType(Tag{Kind: "kwif", Priority: 0})

	id, err := Compile(`[a-z]+`)
	assert.NoError(err)
	id = id.AddType(Tag{Kind: "id", Priority: 1})

	combined := UnionAll([]*Pattern{kw, id})
	dfa := combined.ToDFA()

	m := Recognize(dfa, "if", 0)
	assert.True(m.Ok)
	assert.Equal(2, m.Length)
	assert.Equal("kwif", m.Tag.Kind)

	longer := Recognize(dfa, "ifx", 0)
	assert.True(longer.Ok)
	assert.Equal(3, longer.Length)
	assert.Equal("id", longer.Tag.Kind)
}

func Test_Negate_MatchesTabInsideNegatedClass(t *testing.T) {
	assert := assert.New(t)

	pat, err := Compile(`"[^"]*"`)
	assert.NoError(err)
	pat = pat.AddType(Tag{Kind: "strlit", Priority: 0})
	dfa := pat.ToDFA()

	m := Recognize(dfa, "\"a\tb\" rest", 0)
	assert.True(m.Ok)
	assert.Equal(5, m.Length)
}
