package grammar

import "github.com/dekarrin/minnow/internal/ictiobus/types"

// commentFilterStream wraps a raw token stream and applies §4.4's comment
// emission rule: a comment token is kept only if the previously *emitted*
// token's kind is comment, semicolon, or open-brace, whether or not a line
// break separates them (so a comment after `;` on the same line is kept);
// any other comment, including one with no token emitted before it at all,
// is dropped. This is deliberately the literal rule as observed
// rather than a "keep comments preceding a statement" heuristic -- see the
// open question this resolves.
type commentFilterStream struct {
	raw      types.TokenStream
	lastKind string
	peeked   *types.Token
}

// filterComments returns a TokenStream equivalent to raw but with comment
// tokens dropped according to the emission rule above.
func filterComments(raw types.TokenStream) types.TokenStream {
	return &commentFilterStream{raw: raw}
}

func (s *commentFilterStream) fetchNext() types.Token {
	for {
		tok := s.raw.Next()
		kind := tok.Class().ID()
		if kind == commentSpec.id {
			if s.lastKind == commentSpec.id || s.lastKind == "semi" || s.lastKind == "lbrace" {
				s.lastKind = kind
				return tok
			}
			continue
		}
		s.lastKind = kind
		return tok
	}
}

func (s *commentFilterStream) Next() types.Token {
	if s.peeked != nil {
		tok := *s.peeked
		s.peeked = nil
		return tok
	}
	return s.fetchNext()
}

func (s *commentFilterStream) Peek() types.Token {
	if s.peeked == nil {
		tok := s.fetchNext()
		s.peeked = &tok
	}
	return *s.peeked
}

func (s *commentFilterStream) HasNext() bool {
	return !s.Peek().Class().Equal(types.TokenEndOfText)
}
