package grammar

import (
	"github.com/dekarrin/minnow/internal/ictiobus"
	"github.com/dekarrin/minnow/internal/ictiobus/lex"
	"github.com/dekarrin/minnow/internal/ictiobus/types"
)

// stateDefault is the lexer's (only) state; the language has no lexical
// modes (no string interpolation, no nested-comment states), so every
// matcher lives in one state.
const stateDefault = ""

// NewLexer builds the combined-DFA lexer for the source language (§4.2,
// §4.4, §6.2): one token class and one matcher per terminalSpec, in
// declaration order, plus a discarded whitespace matcher.
//
// The Lexer returned is immediate: Lex scans the whole input up front and
// reports the first bad character as a lex error rather than handing an
// error token down the pipeline. filterComments and the parser both consume
// the resulting TokenStream one token at a time regardless.
func NewLexer() ictiobus.Lexer {
	lx := ictiobus.NewLexer()
	lx.SetStartingState(stateDefault)

	for _, t := range allTerminals() {
		cl := lex.NewTokenClass(t.id, t.human)
		lx.RegisterClass(cl, stateDefault)
		if err := lx.AddPattern(t.pattern, lex.LexAs(t.id), stateDefault); err != nil {
			panic("minnow/internal/lang/grammar: bad terminal pattern for " + t.id + ": " + err.Error())
		}
	}

	if err := lx.AddPattern(whitespacePattern, lex.Discard(), stateDefault); err != nil {
		panic("minnow/internal/lang/grammar: bad whitespace pattern: " + err.Error())
	}

	return lx
}

// classFor returns the registered types.TokenClass for a terminalSpec's ID,
// for use by NewGrammar when registering each terminal with AddTerm.
func classFor(id string) types.TokenClass {
	for _, t := range allTerminals() {
		if t.id == id {
			return lex.NewTokenClass(t.id, t.human)
		}
	}
	return types.TokenUndefined
}
