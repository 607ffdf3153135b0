// Package cache persists the hashed grammar and matcher-list signatures
// (§4.3/§4.4/§6.3) to a flat file, so a second compiler run can tell whether
// the grammar and matcher list changed since the last run. The generated
// grammar/DFA tables themselves are not persisted.
package cache

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	gr "github.com/dekarrin/minnow/internal/ictiobus/grammar"
)

// GrammarSignature returns the canonical textual form of g described in
// §6.3: an ordered list of terminals, an ordered list of non-terminals, and
// an ordered list of productions L -> R, with an explicit marker for the
// epsilon production and for the augmented start symbol.
//
// Order matters here the same way it matters in grammar.go: two grammars
// with identical rules in a different declaration order are, for caching
// purposes, different grammars, since the LALR(1) construction a cache hit
// is meant to let us skip is itself sensitive to declaration order (e.g.
// which rule wins a reduce/reduce tie during conflict resolution).
func GrammarSignature(g gr.Grammar) string {
	var b strings.Builder

	b.WriteString("start:")
	b.WriteString(g.StartSymbol())
	b.WriteString("\n")

	b.WriteString("augmented:")
	b.WriteString(g.Augmented().StartSymbol())
	b.WriteString(" -> ")
	b.WriteString(g.StartSymbol())
	b.WriteString("\n")

	b.WriteString("terminals:")
	b.WriteString(strings.Join(g.Terminals(), ","))
	b.WriteString("\n")

	nts := g.NonTerminals()
	b.WriteString("nonterminals:")
	b.WriteString(strings.Join(nts, ","))
	b.WriteString("\n")

	for _, nt := range nts {
		rule := g.Rule(nt)
		for _, prod := range rule.Productions {
			b.WriteString(nt)
			b.WriteString(" -> ")
			if len(prod) == 0 || (len(prod) == 1 && prod[0] == "") {
				b.WriteString("<eps>")
			} else {
				b.WriteString(strings.Join(prod, " "))
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// HashSignature returns the blake2b-256 digest of sig as a hex string, used
// as the cache key compared by Record.Fresh rather than the (potentially
// large) signature text itself.
func HashSignature(sig string) (string, error) {
	sum := blake2b.Sum256([]byte(sig))
	return fmt.Sprintf("%x", sum), nil
}
