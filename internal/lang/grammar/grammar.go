package grammar

import (
	gr "github.com/dekarrin/minnow/internal/ictiobus/grammar"
)

// NewGrammar builds the context-free grammar for the source language
// (§4.2 "Grammar", §6.2's surface forms S1-S6). Binary-operator
// non-terminals are left-recursive, which an LR parser consumes directly
// and which produces left-associative trees without any extra rewriting.
//
// Terminal symbols reuse their terminalSpec.id as the grammar symbol name,
// so AddTerm's "must be a-z/_/- only" restriction is already satisfied by
// every entry in terminals.go.
func NewGrammar() gr.Grammar {
	var g gr.Grammar
	g.Start = "PROGRAM"

	for _, t := range allTerminals() {
		g.AddTerm(t.id, classFor(t.id))
	}

	// ---- top level ----

	g.AddRule("PROGRAM", []string{"DECL-LIST"})

	g.AddRule("DECL-LIST", []string{"DECL-LIST", "DECL"})
	g.AddRule("DECL-LIST", []string{""})

	g.AddRule("DECL", []string{"FUN-DECL"})
	g.AddRule("DECL", []string{"CLASS-DECL"})

	g.AddRule("FUN-DECL", []string{"kwfun", "id", "lparen", "PARAM-LIST-OPT", "rparen", "RETURN-TYPE-OPT", "BLOCK"})

	g.AddRule("PARAM-LIST-OPT", []string{"PARAM-LIST"})
	g.AddRule("PARAM-LIST-OPT", []string{""})

	g.AddRule("PARAM-LIST", []string{"PARAM-LIST", "comma", "PARAM"})
	g.AddRule("PARAM-LIST", []string{"PARAM"})

	g.AddRule("PARAM", []string{"id", "colon", "VAR-TYPE"})

	g.AddRule("RETURN-TYPE-OPT", []string{"colon", "VAR-TYPE"})
	g.AddRule("RETURN-TYPE-OPT", []string{""})

	g.AddRule("VAR-TYPE", []string{"id"})
	g.AddRule("VAR-TYPE", []string{"id", "lt", "VAR-TYPE", "gt"})
	g.AddRule("VAR-TYPE", []string{"id", "lt", "VAR-TYPE", "comma", "VAR-TYPE", "gt"})

	g.AddRule("CLASS-DECL", []string{"kwclass", "id", "SUPER-OPT", "lbrace", "METHOD-LIST", "rbrace"})

	g.AddRule("SUPER-OPT", []string{"colon", "id"})
	g.AddRule("SUPER-OPT", []string{""})

	g.AddRule("METHOD-LIST", []string{"METHOD-LIST", "FUN-DECL"})
	g.AddRule("METHOD-LIST", []string{""})

	// ---- statements ----

	g.AddRule("BLOCK", []string{"lbrace", "STMT-LIST", "rbrace"})

	g.AddRule("STMT-LIST", []string{"STMT-LIST", "STMT"})
	g.AddRule("STMT-LIST", []string{""})

	g.AddRule("STMT", []string{"EXPR-STMT"})
	g.AddRule("STMT", []string{"ASSIGN-STMT"})
	g.AddRule("STMT", []string{"VAR-DECL"})
	g.AddRule("STMT", []string{"ATTR-DECL"})
	g.AddRule("STMT", []string{"IF-STMT"})
	g.AddRule("STMT", []string{"WHILE-STMT"})
	g.AddRule("STMT", []string{"FOR-STMT"})
	g.AddRule("STMT", []string{"RETURN-STMT"})
	g.AddRule("STMT", []string{"BREAK-STMT"})
	g.AddRule("STMT", []string{"CONTINUE-STMT"})
	g.AddRule("STMT", []string{"SWITCH-STMT"})
	g.AddRule("STMT", []string{"COMMENT-STMT"})

	g.AddRule("EXPR-STMT", []string{"EXPR", "semi"})
	g.AddRule("ASSIGN-STMT", []string{"EXPR", "eq", "EXPR", "semi"})

	g.AddRule("VAR-DECL", []string{"kwvar", "id", "VAR-TYPE-OPT", "eq", "EXPR", "semi"})
	g.AddRule("ATTR-DECL", []string{"kwattr", "id", "VAR-TYPE-OPT", "eq", "EXPR", "semi"})

	g.AddRule("VAR-TYPE-OPT", []string{"colon", "VAR-TYPE"})
	g.AddRule("VAR-TYPE-OPT", []string{""})

	g.AddRule("IF-STMT", []string{"kwif", "lparen", "EXPR", "rparen", "BLOCK", "ELSE-OPT"})

	g.AddRule("ELSE-OPT", []string{"kwelse", "BLOCK"})
	g.AddRule("ELSE-OPT", []string{"kwelse", "IF-STMT"})
	g.AddRule("ELSE-OPT", []string{""})

	g.AddRule("WHILE-STMT", []string{"kwwhile", "lparen", "EXPR", "rparen", "BLOCK"})

	g.AddRule("FOR-STMT", []string{"kwfor", "lparen", "id", "kwin", "EXPR", "rparen", "BLOCK"})

	g.AddRule("RETURN-STMT", []string{"kwreturn", "RETURN-VALUE-OPT", "semi"})
	g.AddRule("RETURN-VALUE-OPT", []string{"EXPR"})
	g.AddRule("RETURN-VALUE-OPT", []string{""})

	g.AddRule("BREAK-STMT", []string{"kwbreak", "semi"})
	g.AddRule("CONTINUE-STMT", []string{"kwcontinue", "semi"})

	g.AddRule("SWITCH-STMT", []string{"kwswitch", "lparen", "EXPR", "rparen", "lbrace", "CASE-LIST", "DEFAULT-OPT", "rbrace"})

	g.AddRule("CASE-LIST", []string{"CASE-LIST", "CASE"})
	g.AddRule("CASE-LIST", []string{""})

	g.AddRule("CASE", []string{"kwcase", "VAR-TYPE", "BLOCK"})

	g.AddRule("DEFAULT-OPT", []string{"kwdefault", "BLOCK"})
	g.AddRule("DEFAULT-OPT", []string{""})

	g.AddRule("COMMENT-STMT", []string{"comment"})

	// ---- expressions, lowest to highest precedence ----

	g.AddRule("EXPR", []string{"OR-EXPR"})

	g.AddRule("OR-EXPR", []string{"OR-EXPR", "kwor", "AND-EXPR"})
	g.AddRule("OR-EXPR", []string{"AND-EXPR"})

	g.AddRule("AND-EXPR", []string{"AND-EXPR", "kwand", "EQ-EXPR"})
	g.AddRule("AND-EXPR", []string{"EQ-EXPR"})

	g.AddRule("EQ-EXPR", []string{"EQ-EXPR", "eqeq", "REL-EXPR"})
	g.AddRule("EQ-EXPR", []string{"EQ-EXPR", "bangeq", "REL-EXPR"})
	g.AddRule("EQ-EXPR", []string{"REL-EXPR"})

	g.AddRule("REL-EXPR", []string{"REL-EXPR", "lt", "ADD-EXPR"})
	g.AddRule("REL-EXPR", []string{"REL-EXPR", "le", "ADD-EXPR"})
	g.AddRule("REL-EXPR", []string{"REL-EXPR", "gt", "ADD-EXPR"})
	g.AddRule("REL-EXPR", []string{"REL-EXPR", "ge", "ADD-EXPR"})
	g.AddRule("REL-EXPR", []string{"ADD-EXPR"})

	g.AddRule("ADD-EXPR", []string{"ADD-EXPR", "plus", "MUL-EXPR"})
	g.AddRule("ADD-EXPR", []string{"ADD-EXPR", "minus", "MUL-EXPR"})
	g.AddRule("ADD-EXPR", []string{"MUL-EXPR"})

	g.AddRule("MUL-EXPR", []string{"MUL-EXPR", "star", "UNARY-EXPR"})
	g.AddRule("MUL-EXPR", []string{"MUL-EXPR", "slash", "UNARY-EXPR"})
	g.AddRule("MUL-EXPR", []string{"MUL-EXPR", "percent", "UNARY-EXPR"})
	g.AddRule("MUL-EXPR", []string{"UNARY-EXPR"})

	g.AddRule("UNARY-EXPR", []string{"minus", "UNARY-EXPR"})
	g.AddRule("UNARY-EXPR", []string{"bang", "UNARY-EXPR"})
	g.AddRule("UNARY-EXPR", []string{"CALL-EXPR"})

	g.AddRule("CALL-EXPR", []string{"CALL-EXPR", "lparen", "ARGS-OPT", "rparen"})
	g.AddRule("CALL-EXPR", []string{"CALL-EXPR", "dot", "id"})
	g.AddRule("CALL-EXPR", []string{"CALL-EXPR", "lbracket", "EXPR", "rbracket"})
	g.AddRule("CALL-EXPR", []string{"PRIMARY"})

	g.AddRule("ARGS-OPT", []string{"ARGS"})
	g.AddRule("ARGS-OPT", []string{""})

	g.AddRule("ARGS", []string{"ARGS", "comma", "EXPR"})
	g.AddRule("ARGS", []string{"EXPR"})

	g.AddRule("PRIMARY", []string{"intnum"})
	g.AddRule("PRIMARY", []string{"floatnum"})
	g.AddRule("PRIMARY", []string{"strlit"})
	g.AddRule("PRIMARY", []string{"kwtrue"})
	g.AddRule("PRIMARY", []string{"kwfalse"})
	g.AddRule("PRIMARY", []string{"kwnull"})
	g.AddRule("PRIMARY", []string{"id"})
	g.AddRule("PRIMARY", []string{"kwself"})
	g.AddRule("PRIMARY", []string{"kwsuper"})
	g.AddRule("PRIMARY", []string{"lparen", "EXPR", "rparen"})
	g.AddRule("PRIMARY", []string{"lbracket", "ARRAY-ELEMS-OPT", "rbracket"})
	g.AddRule("PRIMARY", []string{"lbrace", "DICT-ENTRIES-OPT", "rbrace"})

	g.AddRule("ARRAY-ELEMS-OPT", []string{"ARRAY-ELEMS"})
	g.AddRule("ARRAY-ELEMS-OPT", []string{""})

	g.AddRule("ARRAY-ELEMS", []string{"ARRAY-ELEMS", "comma", "EXPR"})
	g.AddRule("ARRAY-ELEMS", []string{"EXPR"})

	g.AddRule("DICT-ENTRIES-OPT", []string{"DICT-ENTRIES"})
	g.AddRule("DICT-ENTRIES-OPT", []string{""})

	g.AddRule("DICT-ENTRIES", []string{"DICT-ENTRIES", "comma", "DICT-ENTRY"})
	g.AddRule("DICT-ENTRIES", []string{"DICT-ENTRY"})

	g.AddRule("DICT-ENTRY", []string{"EXPR", "colon", "EXPR"})

	return g
}
