// Package lex implements the DFA-based longest-match tokenizer of §4.4: a
// lexer is built from an ordered list of (pattern, action) matchers per
// state. Each matcher's pattern is compiled and tagged with its state-local
// declaration index, all of a state's tagged patterns are unioned into one
// NFA and determinized, and scanning drives that single combined DFA
// (§4.4 "Each token matcher is a (regex, token-kind)... unions all of them
// into a single NFA, then determinizes").
package lex

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dekarrin/minnow/internal/ictiobus/automaton"
	"github.com/dekarrin/minnow/internal/ictiobus/icterrors"
	"github.com/dekarrin/minnow/internal/ictiobus/regex"
	"github.com/dekarrin/minnow/internal/ictiobus/types"
)

type matcherEntry struct {
	src     string
	pattern *regex.Pattern
	act     Action
}

// Lexer is a template for a tokenizer: the matcher lists and token classes
// are registered once, then Lex is called (possibly many times, against
// different input) to get a TokenStream.
type Lexer interface {
	// Lex returns a token stream. The tokens may be lexed in a lazy or an
	// immediate fashion depending on which constructor built the Lexer.
	Lex(input io.Reader) (types.TokenStream, error)

	// RegisterClass makes a token class available for use in the Action of
	// an AddPattern call for the given state.
	RegisterClass(cl types.TokenClass, forState string)

	// AddPattern adds a matcher to the given state's matcher list. Matchers
	// for a state are tried in declaration order; on a longest-match tie
	// between two matchers, the earlier-declared one wins (§4.1 "tag_of").
	AddPattern(pat string, action Action, forState string) error

	// SetStartingState sets the lexer state scanning begins in.
	SetStartingState(s string)

	// StartingState returns the state scanning begins in.
	StartingState() string
}

type lexerTemplate struct {
	lazy          bool
	startState    string
	patterns      map[string][]matcherEntry
	classes       map[string]map[string]types.TokenClass
	builtDFA      map[string]automaton.DFA[regex.TagList]
	builtMatchers map[string][]matcherEntry
}

// NewLexer returns a Lexer. If lazy is true, the TokenStream returned by Lex
// scans on demand (one token per call to Next); otherwise Lex scans the
// entire input up front and returns an error immediately on the first
// lexical error.
func NewLexer(lazy bool) Lexer {
	return &lexerTemplate{
		lazy:     lazy,
		patterns: map[string][]matcherEntry{},
		classes:  map[string]map[string]types.TokenClass{},
	}
}

func (lx *lexerTemplate) RegisterClass(cl types.TokenClass, forState string) {
	stateClasses, ok := lx.classes[forState]
	if !ok {
		stateClasses = map[string]types.TokenClass{}
	}
	stateClasses[cl.ID()] = cl
	lx.classes[forState] = stateClasses
}

func (lx *lexerTemplate) AddPattern(pat string, action Action, forState string) error {
	stateClasses := lx.classes[forState]

	if action.Type == ActionScan || action.Type == ActionScanAndState {
		if _, ok := stateClasses[action.ClassID]; !ok {
			return fmt.Errorf("%q is not a defined token class on this lexer; add it with RegisterClass first", action.ClassID)
		}
	}
	if action.Type == ActionState || action.Type == ActionScanAndState {
		if action.State == "" {
			return fmt.Errorf("action includes state shift but does not define state to shift to (cannot shift to empty state)")
		}
	}

	existing := lx.patterns[forState]
	idx := len(existing)

	compiled, err := regex.Compile(pat)
	if err != nil {
		return fmt.Errorf("cannot compile regex %q: %w", pat, err)
	}
	tagged := compiled.AddType(regex.Tag{Kind: strconv.Itoa(idx), Priority: idx})

	lx.patterns[forState] = append(existing, matcherEntry{src: pat, pattern: tagged, act: action})
	return nil
}

func (lx *lexerTemplate) SetStartingState(s string) { lx.startState = s }
func (lx *lexerTemplate) StartingState() string     { return lx.startState }

// dfaFor lazily builds (once) and caches the combined DFA for a lexer state,
// per §5's "their initialization is idempotent: they build... tables once
// and then are immutable."
func (lx *lexerTemplate) dfaFor(state string) automaton.DFA[regex.TagList] {
	if lx.builtDFA == nil {
		lx.builtDFA = map[string]automaton.DFA[regex.TagList]{}
		lx.builtMatchers = map[string][]matcherEntry{}
	}
	if dfa, ok := lx.builtDFA[state]; ok {
		return dfa
	}

	entries := lx.patterns[state]
	patterns := make([]*regex.Pattern, len(entries))
	for i, e := range entries {
		patterns[i] = e.pattern
	}
	combined := regex.UnionAll(patterns)
	dfa := combined.ToDFA()

	lx.builtDFA[state] = dfa
	lx.builtMatchers[state] = entries
	return dfa
}

func (lx *lexerTemplate) Lex(input io.Reader) (types.TokenStream, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("reading lexer input: %w", err)
	}

	active := &dfaLex{
		lx:      lx,
		input:   string(data),
		state:   lx.startState,
		curLine: 1,
		curPos:  1,
	}
	active.curFullLine = active.lineAt(0)

	if lx.lazy {
		return active, nil
	}

	var tokens []types.Token
	for {
		tok := active.Next()
		if tok.Class().Equal(types.TokenError) {
			return nil, icterrors.NewLexErrorFromToken(tok.Lexeme(), tok)
		}
		tokens = append(tokens, tok)
		if tok.Class().Equal(types.TokenEndOfText) {
			break
		}
	}
	return &immediateTokenStream{tokens: tokens}, nil
}

// lineAt returns the full source line containing byte offset pos, used to
// populate a token's FullLine() for diagnostic rendering.
func (lx *dfaLex) lineAt(pos int) string {
	s := lx.input
	start := strings.LastIndexByte(s[:pos], '\n') + 1
	end := strings.IndexByte(s[pos:], '\n')
	if end == -1 {
		return s[start:]
	}
	return s[start : pos+end]
}
