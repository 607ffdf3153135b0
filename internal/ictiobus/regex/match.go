package regex

import "github.com/dekarrin/minnow/internal/ictiobus/automaton"

// Match is the result of a longest-match scan: how much of the input was
// consumed, the winning tag (per tag_of's priority tie-break), and whether
// any accepting state was reached at all.
type Match struct {
	Length int
	Tag    Tag
	Ok     bool
}

// Recognize steps dfa across input starting at byte offset start, consuming
// the longest prefix for which every position had a defined transition
// (§4.1 "recognize"), and resolves the tag of the longest accepted prefix
// via tag_of (§4.1). On the first missing transition, recognition stops and
// whatever was the longest accepting prefix scanned so far (possibly none)
// is returned.
func Recognize(dfa automaton.DFA[TagList], input string, start int) Match {
	state := dfa.Start
	var best Match

	if dfa.IsAccepting(state) {
		if tag, ok := TagOf(dfa, state); ok {
			best = Match{Length: 0, Tag: tag, Ok: true}
		}
	}

	pos := start
	for pos < len(input) {
		sym := string(input[pos])
		next := dfa.Next(state, sym)
		if next == "" {
			break
		}
		state = next
		pos++

		if dfa.IsAccepting(state) {
			if tag, ok := TagOf(dfa, state); ok {
				best = Match{Length: pos - start, Tag: tag, Ok: true}
			}
		}
	}

	return best
}

// TagOf returns the tag with minimum priority among the tags live at state
// (ties broken by registration order, since Priority already encodes it),
// which is how longest-match ambiguity between two token matchers accepting
// the same prefix is resolved in favor of the earliest-declared matcher
// (§4.1 "tag_of").
func TagOf(dfa automaton.DFA[TagList], state string) (Tag, bool) {
	return dfa.GetValue(state).Best()
}
