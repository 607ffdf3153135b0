package cache

import (
	gr "github.com/dekarrin/minnow/internal/ictiobus/grammar"
)

// Status is the outcome of a Check call: whether a previously cached
// Record for this grammar/matcher-list pair was still valid, i.e. whether
// the (comparatively expensive, for a hand-generated LALR(1) table and
// tokenizer DFA) construction step could have been skipped.
type Status struct {
	Hit    bool
	Record Record
}

// Check loads dir's cache file, if any, and reports whether it is fresh for
// the given grammar and the current matcher-list signature
// (grammar.MatcherListSignature()). Callers that get a miss are expected to
// rebuild the lexer/parser/SDD as usual and then call Save with a fresh
// Record to update the cache for next time.
//
// The LALR(1) table and tokenizer DFA themselves are not persisted across
// runs -- the opaque per-state item sets internal/ictiobus/parse builds
// them from have no exported serializable form, and regenerating them for
// this one fixed grammar is a sub-second operation regardless. What Check
// provides is exactly what §6.3 describes: deciding, from a signature
// comparison, whether regeneration is even necessary. The grammar's full
// canonical text is derived and hashed on every call.
func Check(dir string, g gr.Grammar, matcherSignature string) (Status, error) {
	grammarText := GrammarSignature(g)
	grammarHash, err := HashSignature(grammarText)
	if err != nil {
		return Status{}, err
	}
	matcherHash, err := HashSignature(matcherSignature)
	if err != nil {
		return Status{}, err
	}

	rec, ok, err := Load(dir)
	if err != nil {
		return Status{}, err
	}
	if !ok {
		return Status{Hit: false, Record: Record{
			GrammarHash: grammarHash, MatcherHash: matcherHash,
			GrammarText: grammarText, MatcherText: matcherSignature,
		}}, nil
	}

	fresh := rec.Fresh(grammarHash, matcherHash)
	if !fresh {
		rec = Record{
			GrammarHash: grammarHash, MatcherHash: matcherHash,
			GrammarText: grammarText, MatcherText: matcherSignature,
		}
	}
	return Status{Hit: fresh, Record: rec}, nil
}
