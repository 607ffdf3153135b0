package regex

import (
	"fmt"

	"github.com/dekarrin/minnow/internal/ictiobus/automaton"
)

// Fragment is an in-progress NFA[TagList] maintained under the Thompson
// construction invariant of exactly one start state and exactly one
// accepting state, which is what lets every combinator below join two
// fragments by adding a handful of epsilon edges instead of a general
// many-to-many merge (§4.1 concat/union/star).
type Fragment struct {
	NFA    automaton.NFA[TagList]
	Accept string
}

var stateCounter int

func freshState(f *automaton.NFA[TagList], accepting bool) string {
	stateCounter++
	name := fmt.Sprintf("s%d", stateCounter)
	f.AddState(name, accepting)
	return name
}

func epsilonFragment() Fragment {
	var nfa automaton.NFA[TagList]
	start := freshState(&nfa, false)
	accept := freshState(&nfa, true)
	nfa.Start = start
	nfa.AddTransition(start, "", accept)
	return Fragment{NFA: nfa, Accept: accept}
}

// single(char, tags): two-state NFA 0 --char--> 1, final = {1} (§4.1).
func singleSymbolFragment(sym string) Fragment {
	var nfa automaton.NFA[TagList]
	start := freshState(&nfa, false)
	accept := freshState(&nfa, true)
	nfa.Start = start
	nfa.AddTransition(start, sym, accept)
	return Fragment{NFA: nfa, Accept: accept}
}

// classFragment builds the union of single-symbol fragments for every rune
// in chars: the evaluation of a CharClass/NegCharClass (§4.2 "[abc-z] yields
// the union of...").
func classFragment(chars []rune) Fragment {
	if len(chars) == 0 {
		// an empty class matches nothing; model as a fragment with no
		// transition out of its start state.
		var nfa automaton.NFA[TagList]
		start := freshState(&nfa, false)
		accept := freshState(&nfa, true)
		nfa.Start = start
		return Fragment{NFA: nfa, Accept: accept}
	}

	frag := singleSymbolFragment(string(chars[0]))
	for _, c := range chars[1:] {
		frag = unionFragment(frag, singleSymbolFragment(string(c)))
	}
	return frag
}

// disjointCopy copies a and b's states into one fresh NFA under "1:"/"2:"
// name prefixes with no transitions linking them yet, mirroring what
// automaton.NFA.Join does internally, but without forcing a particular
// cross-automaton edge on the caller: each combinator below adds exactly
// the epsilon edges its construction calls for.
func disjointCopy(a, b automaton.NFA[TagList]) (out automaton.NFA[TagList]) {
	out.Start = "1:" + a.Start

	for _, name := range a.States().Elements() {
		newName := "1:" + name
		out.AddState(newName, false)
		out.SetValue(newName, a.GetValue(name))
	}
	for _, name := range a.States().Elements() {
		for sym, dests := range a.Transitions(name) {
			for _, to := range dests {
				out.AddTransition("1:"+name, sym, "1:"+to)
			}
		}
	}

	for _, name := range b.States().Elements() {
		newName := "2:" + name
		out.AddState(newName, false)
		out.SetValue(newName, b.GetValue(name))
	}
	for _, name := range b.States().Elements() {
		for sym, dests := range b.Transitions(name) {
			for _, to := range dests {
				out.AddTransition("2:"+name, sym, "2:"+to)
			}
		}
	}

	return out
}

// concat(A, B): place B after A; add an ε-edge from A's final to B's
// initial; final set = B's final (§4.1). Uses automaton.NFA.Join rather than
// disjointCopy so A's old final can be explicitly un-accepted and B's final
// explicitly accepted -- disjointCopy always copies states as non-accepting,
// which would leave the joined NFA with no accepting state at all.
func concatFragment(a, b Fragment) Fragment {
	joined, err := a.NFA.Join(b.NFA,
		[][3]string{{a.Accept, "", b.NFA.Start}},
		nil,
		[]string{"2:" + b.Accept},
		[]string{"1:" + a.Accept},
	)
	if err != nil {
		panic("regex: concatFragment: " + err.Error())
	}
	return Fragment{NFA: joined, Accept: "2:" + b.Accept}
}

// union(A, B): introduce a new initial with ε-edges to A's and B's
// initials; finals are the union (§4.1). The two original accepts are both
// routed to one shared new accept state so the one-accept invariant holds
// for further composition.
func unionFragment(a, b Fragment) Fragment {
	joined := disjointCopy(a.NFA, b.NFA)

	newStart := freshState(&joined, false)
	newAccept := freshState(&joined, true)
	joined.AddTransition(newStart, "", "1:"+a.NFA.Start)
	joined.AddTransition(newStart, "", "2:"+b.NFA.Start)
	joined.AddTransition("1:"+a.Accept, "", newAccept)
	joined.AddTransition("2:"+b.Accept, "", newAccept)
	joined.Start = newStart

	return Fragment{NFA: joined, Accept: newAccept}
}

// star(A): add an ε-edge from A's final back to A's initial, and make A's
// initial final (§4.1).
func starFragment(a Fragment) Fragment {
	nfa := a.NFA.Copy()
	newStart := freshState(&nfa, true)
	nfa.AddTransition(newStart, "", a.NFA.Start)
	nfa.AddTransition(a.Accept, "", newStart)
	nfa.Start = newStart
	return Fragment{NFA: nfa, Accept: newStart}
}

// plusFragment is x+ ≡ x x*, built directly from concat+star rather than
// reusing the AST node recursively so Eval stays a single pass per node.
func plusFragment(a Fragment) Fragment {
	return concatFragment(a, starFragment(copyFragment(a)))
}

func maybeFragment(a Fragment) Fragment {
	return unionFragment(a, epsilonFragment())
}

// copyFragment deep-copies a fragment's automaton so it can be consumed a
// second time (plusFragment needs the original x unconsumed by Concat and
// an independent copy to build x*).
func copyFragment(a Fragment) Fragment {
	return Fragment{NFA: a.NFA.Copy(), Accept: a.Accept}
}

// AddType returns a copy of the fragment where tag has been appended to the
// tag list of its designated accepting state (§4.1 "add_type"), used by the
// tokenizer to color a matcher's sub-automaton with its token kind and
// declaration-order priority before unioning all matchers together. Any
// other accepting state a sub-construction (e.g. star) may have left inside
// the fragment always has an ε-path forward to f.Accept, so tagging only
// f.Accept is enough for the tag to reach every DFA state built from it.
func (f Fragment) AddType(tag Tag) Fragment {
	nfa := f.NFA.Copy()
	nfa.SetValue(f.Accept, nfa.GetValue(f.Accept).Add(tag))
	return Fragment{NFA: nfa, Accept: f.Accept}
}
