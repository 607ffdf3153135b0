// Package grammar assembles the concrete lexer and context-free grammar for
// the source language (§4.2-§4.4, §6.2) on top of the ictiobus parser
// generator, and wires the semantic actions (§4.3 "Semantic evaluation")
// that turn a parse into an *ast.Program.
package grammar

import "strings"

// terminalSpec is one lexical token kind: the grammar symbol it is known as
// (lower-case per the grammar package's naming convention), a human-readable
// name for diagnostics, and the regex pattern (§4.2/§6.2 surface) that
// recognizes it. Patterns are tried in this declaration order; on a
// longest-match tie the earlier one wins (§4.1 tag_of, demonstrated by S6).
type terminalSpec struct {
	id      string
	human   string
	pattern string
}

// keywords must be declared before the identifier pattern: "if" and "ifx"
// both start matching the id pattern, but only "if" also matches the
// keyword pattern, and the two matches tie in length only when the input is
// exactly "if" -- at that point declaration order decides the winner (S6).
var keywordSpecs = []terminalSpec{
	{"kwfun", "'fun'", "fun"},
	{"kwclass", "'class'", "class"},
	{"kwvar", "'var'", "var"},
	{"kwattr", "'attr'", "attr"},
	{"kwif", "'if'", "if"},
	{"kwelse", "'else'", "else"},
	{"kwwhile", "'while'", "while"},
	{"kwfor", "'for'", "for"},
	{"kwin", "'in'", "in"},
	{"kwreturn", "'return'", "return"},
	{"kwbreak", "'break'", "break"},
	{"kwcontinue", "'continue'", "continue"},
	{"kwswitch", "'switch'", "switch"},
	{"kwcase", "'case'", "case"},
	{"kwdefault", "'default'", "default"},
	{"kwself", "'self'", "self"},
	{"kwsuper", "'super'", "super"},
	{"kwand", "'and'", "and"},
	{"kwor", "'or'", "or"},
	{"kwtrue", "'true'", "true"},
	{"kwfalse", "'false'", "false"},
	{"kwnull", "'null'", "null"},
}

// literalSpecs are the variable-text token kinds: identifiers and the
// int/float/string literal forms.
var literalSpecs = []terminalSpec{
	{"id", "identifier", `[a-zA-Z_][a-zA-Z0-9_]*`},
	{"floatnum", "float literal", `\d+\.\d+`},
	{"intnum", "integer literal", `\d+`},
	{"strlit", "string literal", `"[^"]*"`},
}

// commentSpec is handled on its own: every comment is lexed as a token, and
// §4.4's emission rule (keep a comment only when the previously emitted
// token is a comment, semicolon, or open brace) is applied afterward by
// filterComments, not by the lexer itself.
var commentSpec = terminalSpec{"comment", "comment", "//[^" + "\n" + "]*"}

// punctSpecs are the fixed single- and multi-character operator/punctuation
// tokens. Characters that double as regex metacharacters ( ) [ ] * + . are
// escaped in their patterns; the rest are not metacharacters in this
// engine's surface grammar (§6.2) and need no escaping.
var punctSpecs = []terminalSpec{
	{"lparen", "'('", `\(`},
	{"rparen", "')'", `\)`},
	{"lbrace", "'{'", "{"},
	{"rbrace", "'}'", "}"},
	{"lbracket", "'['", `\[`},
	{"rbracket", "']'", `\]`},
	{"comma", "','", ","},
	{"semi", "';'", ";"},
	{"colon", "':'", ":"},
	{"dot", "'.'", `\.`},
	{"eqeq", "'=='", "=="},
	{"bangeq", "'!='", "!="},
	{"le", "'<='", "<="},
	{"ge", "'>='", ">="},
	{"eq", "'='", "="},
	{"lt", "'<'", "<"},
	{"gt", "'>'", ">"},
	{"plus", "'+'", `\+`},
	{"minus", "'-'", "-"},
	{"star", "'*'", `\*`},
	{"slash", "'/'", "/"},
	{"percent", "'%'", "%"},
	{"bang", "'!'", "!"},
}

// whitespaceSpec is discarded by the lexer; the advance-position logic in
// the ictiobus lex package handles line/column bookkeeping for any matched
// lexeme, including runs of whitespace, so no separate newline matcher is
// needed (contrast with §4.1's NFA-level newline/whitespace distinction).
const whitespacePattern = "[ \t\r\n]+"

// allTerminals returns every terminalSpec in lexer declaration order:
// keywords first (so they win ties against the identifier pattern), then
// identifiers and literals, then the comment, then punctuation.
func allTerminals() []terminalSpec {
	all := make([]terminalSpec, 0, len(keywordSpecs)+len(literalSpecs)+1+len(punctSpecs))
	all = append(all, keywordSpecs...)
	all = append(all, literalSpecs...)
	all = append(all, commentSpec)
	all = append(all, punctSpecs...)
	return all
}

// MatcherListSignature returns the canonical textual form of the lexer's
// matcher list (§6.3's "matcher-list signature"): one line per terminalSpec
// in declaration order, plus the discarded whitespace matcher. internal/cache
// hashes this to decide whether a persisted tokenizer DFA is still valid for
// the matcher list that built it.
func MatcherListSignature() string {
	var b strings.Builder
	for _, t := range allTerminals() {
		b.WriteString(t.id)
		b.WriteString("\t")
		b.WriteString(t.pattern)
		b.WriteString("\n")
	}
	b.WriteString("<whitespace>\t")
	b.WriteString(whitespacePattern)
	b.WriteString("\n")
	return b.String()
}
