package lex

import (
	"strconv"

	"github.com/dekarrin/minnow/internal/ictiobus/regex"
	"github.com/dekarrin/minnow/internal/ictiobus/types"
)

// dfaLex is a lazily-scanning TokenStream driven by the combined DFA for
// whatever lexer state it is currently in (§4.4).
type dfaLex struct {
	lx    *lexerTemplate
	input string
	pos   int
	state string

	curLine     int
	curPos      int
	curFullLine string

	done bool

	peeked    *types.Token
	peekState string
	peekPos   int
	peekLine  int
	peekCol   int
	peekFull  string
}

// Next returns the next token in the stream and advances the stream by one
// token (§4.4). On zero-length recognition it returns an error token for
// "unexpected character at line L column C"; at end of input it returns an
// EOF token.
func (lx *dfaLex) Next() types.Token {
	if lx.peeked != nil {
		tok := *lx.peeked
		lx.peeked = nil
		lx.pos, lx.state, lx.curLine, lx.curPos, lx.curFullLine =
			lx.peekPos, lx.peekState, lx.peekLine, lx.peekCol, lx.peekFull
		return tok
	}
	return lx.scan()
}

func (lx *dfaLex) scan() types.Token {
	for {
		if lx.done {
			return lx.makeToken(types.TokenEndOfText, "")
		}
		if lx.pos >= len(lx.input) {
			lx.done = true
			return lx.makeToken(types.TokenEndOfText, "")
		}

		dfa := lx.lx.dfaFor(lx.state)
		m := regex.Recognize(dfa, lx.input, lx.pos)
		if !m.Ok || m.Length == 0 {
			lx.done = true
			return lx.makeToken(types.TokenError, "unexpected character at line "+
				strconv.Itoa(lx.curLine)+" column "+strconv.Itoa(lx.curPos))
		}

		entries := lx.lx.builtMatchers[lx.state]
		idx, err := strconv.Atoi(m.Tag.Kind)
		if err != nil || idx < 0 || idx >= len(entries) {
			lx.done = true
			return lx.makeToken(types.TokenError, "internal lexer error: bad matcher tag")
		}
		entry := entries[idx]
		lexeme := lx.input[lx.pos : lx.pos+m.Length]

		// record position at the start of the lexeme; advancePosition moves
		// curLine/curPos/curFullLine past it, so the token must be built from
		// a snapshot taken here.
		startLine, startPos, startFull := lx.curLine, lx.curPos, lx.curFullLine

		lx.advancePosition(lexeme)

		switch entry.act.Type {
		case ActionNone:
			continue
		case ActionScan:
			class := lx.lx.classes[lx.state][entry.act.ClassID]
			return lx.makeTokenAt(class, lexeme, startLine, startPos, startFull)
		case ActionState:
			lx.state = entry.act.State
			continue
		case ActionScanAndState:
			class := lx.lx.classes[lx.state][entry.act.ClassID]
			tok := lx.makeTokenAt(class, lexeme, startLine, startPos, startFull)
			lx.state = entry.act.State
			return tok
		}
	}
}

// advancePosition updates line/column tracking as lexeme is consumed. Tabs
// advance the column by 4 and newlines reset it, per §6.4.
func (lx *dfaLex) advancePosition(lexeme string) {
	for i := 0; i < len(lexeme); i++ {
		switch lexeme[i] {
		case '\n':
			lx.curLine++
			lx.curPos = 1
		case '\t':
			lx.curPos += 4
		default:
			lx.curPos++
		}
		lx.pos++
	}
	lx.curFullLine = lx.lineAt(lx.linestart())
}

// linestart returns the byte offset of the start of the current line.
func (lx *dfaLex) linestart() int {
	for i := lx.pos - 1; i >= 0; i-- {
		if lx.input[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

// Peek returns the next token without advancing the stream.
func (lx *dfaLex) Peek() types.Token {
	if lx.peeked != nil {
		return *lx.peeked
	}

	savedPos, savedState := lx.pos, lx.state
	savedLine, savedCol, savedFull := lx.curLine, lx.curPos, lx.curFullLine
	savedDone := lx.done

	tok := lx.scan()

	lx.peeked = &tok
	lx.peekPos, lx.peekState = lx.pos, lx.state
	lx.peekLine, lx.peekCol, lx.peekFull = lx.curLine, lx.curPos, lx.curFullLine

	lx.pos, lx.state = savedPos, savedState
	lx.curLine, lx.curPos, lx.curFullLine = savedLine, savedCol, savedFull
	lx.done = savedDone

	return tok
}

// HasNext returns whether the stream has any additional tokens.
func (lx *dfaLex) HasNext() bool {
	if lx.peeked != nil {
		return true
	}
	return !lx.done
}

func (lx *dfaLex) makeToken(class types.TokenClass, lexeme string) types.Token {
	return lx.makeTokenAt(class, lexeme, lx.curLine, lx.curPos, lx.curFullLine)
}

// makeTokenAt builds a token whose reported position is the given
// line/column/full-line snapshot rather than the lexer's current (possibly
// already-advanced) position.
func (lx *dfaLex) makeTokenAt(class types.TokenClass, lexeme string, line, col int, fullLine string) types.Token {
	return lexerToken{
		class:   class,
		lexed:   lexeme,
		line:    fullLine,
		linePos: col,
		lineNum: line,
	}
}

// immediateTokenStream is a fully pre-scanned TokenStream, returned when the
// Lexer was built with NewLexer(false).
type immediateTokenStream struct {
	tokens []types.Token
	cur    int
}

func (ts *immediateTokenStream) Next() types.Token {
	tok := ts.tokens[ts.cur]
	if ts.cur < len(ts.tokens)-1 {
		ts.cur++
	}
	return tok
}

func (ts *immediateTokenStream) Peek() types.Token {
	return ts.tokens[ts.cur]
}

func (ts *immediateTokenStream) HasNext() bool {
	if ts.cur >= len(ts.tokens) {
		return false
	}
	return !ts.tokens[ts.cur].Class().Equal(types.TokenEndOfText)
}
