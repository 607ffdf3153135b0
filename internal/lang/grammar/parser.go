package grammar

import (
	"strings"

	"github.com/dekarrin/minnow/internal/ictiobus"
	"github.com/dekarrin/minnow/internal/ictiobus/icterrors"
	"github.com/dekarrin/minnow/internal/lang/ast"
)

// Frontend bundles the lexer, LALR(1) parser, and SDD that together turn
// source text into an *ast.Program (§4.2-§4.4).
type Frontend struct {
	lx  ictiobus.Lexer
	p   ictiobus.Parser
	sdd ictiobus.SDD
}

// NewFrontend builds the frontend for the source language. The only error
// it can return is a GrammarBuildError from the LALR(1) table generator,
// which would mean grammar.go itself has a shift-reduce or reduce-reduce
// conflict -- a programming mistake in this package, not something any
// particular source file can trigger.
func NewFrontend() (*Frontend, error) {
	p, err := ictiobus.NewLALR1Parser(NewGrammar())
	if err != nil {
		return nil, icterrors.NewGrammarBuildError(err.Error())
	}
	return &Frontend{lx: NewLexer(), p: p, sdd: NewSDD()}, nil
}

// Parse lexes, parses, and evaluates source into an *ast.Program.
//
// The comment-filtering stream (§4.4) is spliced in between lexing and
// parsing here rather than from within NewLexer, since ictiobus.Lexer's Lex
// method returns a raw types.TokenStream with no hook for post-processing
// it, and ictiobus.Frontend's Analyze has no such hook either.
func (fe *Frontend) Parse(source string) (*ast.Program, error) {
	tokStream, err := fe.lx.Lex(strings.NewReader(source))
	if err != nil {
		return nil, err
	}

	tree, err := fe.p.Parse(filterComments(tokStream))
	if err != nil {
		return nil, err
	}

	vals, err := fe.sdd.Evaluate(tree, astAttr)
	if err != nil {
		return nil, err
	}
	if len(vals) != 1 {
		return nil, icterrors.NewSyntaxError("internal error: expected exactly one ast attribute at program root")
	}

	prog, ok := vals[0].(*ast.Program)
	if !ok {
		return nil, icterrors.NewSyntaxError("internal error: root ast attribute was not an *ast.Program")
	}
	return prog, nil
}
