package regex

import (
	"github.com/dekarrin/minnow/internal/ictiobus/automaton"
	"github.com/dekarrin/minnow/internal/util"
)

// Pattern is a compiled regular expression: its syntax tree plus the NFA
// that tree evaluates to (§4.2 "Evaluation of the resulting regex AST
// yields an NFA").
type Pattern struct {
	Source string
	Tree   Node
	frag   Fragment
}

// Compile parses src per the surface grammar of §4.2/§6.2 and evaluates the
// resulting tree to an NFA.
func Compile(src string) (*Pattern, error) {
	tree, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return &Pattern{Source: src, Tree: tree, frag: tree.Eval()}, nil
}

// AddType returns a new Pattern whose designated accepting state additionally
// carries tag, leaving the receiver unmodified (§4.1 "add_type"); see
// Fragment.AddType for why tagging that one state is enough.
func (p *Pattern) AddType(tag Tag) *Pattern {
	return &Pattern{Source: p.Source, Tree: p.Tree, frag: p.frag.AddType(tag)}
}

// NFA returns the tagged NFA this pattern evaluates to.
func (p *Pattern) NFA() automaton.NFA[TagList] {
	return p.frag.NFA
}

// ToDFA determinizes the pattern's NFA via subset construction (§4.1
// "to_dfa"), producing a DFA whose states carry the union of the tag lists
// of every NFA state they represent.
func (p *Pattern) ToDFA() automaton.DFA[TagList] {
	return ToDFA(p.frag.NFA)
}

// UnionAll unions the NFAs of every pattern in patterns into one combined
// NFA, preserving whatever tags AddType has attached to each. This is how
// the tokenizer builds its single combined DFA from a matcher list (§4.4:
// "unions all of them into a single NFA, then determinizes").
func UnionAll(patterns []*Pattern) *Pattern {
	if len(patterns) == 0 {
		return &Pattern{frag: epsilonFragment()}
	}
	combined := patterns[0].frag
	for _, p := range patterns[1:] {
		combined = unionFragment(combined, p.frag)
	}
	return &Pattern{Source: "(combined)", frag: combined}
}

// ToDFA runs subset construction (Thompson/McNaughton-Yamada-Thompson,
// algorithm 3.20) over nfa and collapses each resulting DFA state's set of
// represented NFA states down to the union of their tag lists, per §4.1's
// invariant "the set of accepting tags of a DFA state equals the union of
// accepting tags of the NFA states it represents".
func ToDFA(nfa automaton.NFA[TagList]) automaton.DFA[TagList] {
	subsetDFA := nfa.ToDFA()
	return automaton.TransformDFA(subsetDFA, func(stateValues util.SVSet[TagList]) TagList {
		lists := make([]TagList, 0, len(stateValues))
		for _, nfaStateName := range stateValues.Elements() {
			lists = append(lists, stateValues.Get(nfaStateName))
		}
		return UnionTags(lists...)
	})
}
