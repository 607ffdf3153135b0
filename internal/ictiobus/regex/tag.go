// Package regex implements the regular-expression compiler described by the
// tokenizer's surface syntax: parsing a pattern into a syntax tree (§4.2),
// evaluating that tree to a tagged NFA by Thompson construction, and
// determinizing it with automaton.NFA.ToDFA so the tokenizer can drive a
// single combined DFA across the input.
package regex

import "sort"

// Tag marks a final state of an automaton with the token kind it completes a
// match for and the priority (declaration order in the matcher list) used to
// break longest-match ties in favor of the earliest-declared matcher.
type Tag struct {
	Kind     string
	Priority int
}

// TagList is the value type carried by every NFA/DFA state built by this
// package: the (possibly empty) set of tags a state accepts for.
type TagList []Tag

// Add returns a copy of the list with tag appended.
func (tl TagList) Add(tag Tag) TagList {
	out := make(TagList, len(tl)+1)
	copy(out, tl)
	out[len(tl)] = tag
	return out
}

// Best returns the tag with the minimum Priority in the list, which is how
// longest-match ambiguity between two matchers accepting the same prefix is
// resolved: the earliest-declared matcher (lowest priority index) wins. Ok is
// false if the list is empty.
func (tl TagList) Best() (tag Tag, ok bool) {
	if len(tl) == 0 {
		return Tag{}, false
	}
	best := tl[0]
	for _, t := range tl[1:] {
		if t.Priority < best.Priority {
			best = t
		}
	}
	return best, true
}

// UnionTags returns the set-union of tags across the lists, sorted by priority.
// Duplicate (Kind, Priority) pairs are kept only once.
func UnionTags(lists ...TagList) TagList {
	seen := map[Tag]bool{}
	var out TagList
	for _, l := range lists {
		for _, t := range l {
			if seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}
