package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/minnow/internal/util"
)

// FATransition is a single edge in a finite automaton, labeled with the
// input symbol that triggers it (empty string for an epsilon transition)
// and the name of the state it leads to.
type FATransition struct {
	input string
	next  string
}

func (t FATransition) String() string {
	inp := t.input
	if inp == "" {
		inp = "ε"
	}
	return fmt.Sprintf("=(%s)=> %s", inp, t.next)
}

func mustParseFATransition(s string) FATransition {
	t, err := parseFATransition(s)
	if err != nil {
		panic(err.Error())
	}
	return t
}

func parseFATransition(s string) (FATransition, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, " ", 2)

	left, right := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	if len(left) < 3 {
		return FATransition{}, fmt.Errorf("not a valid FATransition: left len < 3: %q", left)
	}

	if left[0] != '=' {
		return FATransition{}, fmt.Errorf("not a valid FATransition: left[0] != '=': %q", left)
	}
	if left[1] != '(' {
		return FATransition{}, fmt.Errorf("not a valid FATransition: left[1] != '(': %q", left)
	}
	left = left[2:]
	// also chop off the ending arrow
	if len(left) < 4 {
		return FATransition{}, fmt.Errorf("not a valid left: len(chopped) < 4: %q", left)
	}
	if left[len(left)-1] != '>' {
		return FATransition{}, fmt.Errorf("not a valid left: chopped[-1] != '>': %q", left)
	}
	if left[len(left)-2] != '=' {
		return FATransition{}, fmt.Errorf("not a valid left: chopped[-2] != '=': %q", left)
	}
	if left[len(left)-3] != ')' {
		return FATransition{}, fmt.Errorf("not a valid left: chopped[-3] != ')': %q", left)
	}
	left = left[:len(left)-3]

	input := left
	if input == "ε" {
		input = ""
	}

	next := right

	return FATransition{
		input: input,
		next:  next,
	}, nil
}

// DFAState is one state of a DFA[E], carrying an arbitrary value of type E
// (used by the parser generator to store item sets, and by the tokenizer's
// tagged DFAs to store the matcher tags live at that state).
type DFAState[E any] struct {
	ordering    uint64
	name        string
	value       E
	transitions map[string]FATransition
	accepting   bool
}

func (ns DFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)

	for i, input := range inputs {
		moves.WriteString(ns.transitions[input].String())
		if i+1 < len(inputs) {
			moves.WriteRune(',')
			moves.WriteRune(' ')
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())

	if ns.accepting {
		str = "(" + str + ")"
	}

	return str
}

// Copy returns a duplicate of this state. The transitions map is copied
// shallowly; FATransition values are themselves immutable.
func (ns DFAState[E]) Copy() DFAState[E] {
	copied := DFAState[E]{
		ordering:    ns.ordering,
		name:        ns.name,
		value:       ns.value,
		transitions: make(map[string]FATransition, len(ns.transitions)),
		accepting:   ns.accepting,
	}
	for k, v := range ns.transitions {
		copied.transitions[k] = v
	}
	return copied
}

// NFAState is one state of an NFA[E], carrying an arbitrary value of type
// E and allowing multiple transitions (including epsilon transitions) per
// input symbol.
type NFAState[E any] struct {
	ordering    uint64
	name        string
	value       E
	transitions map[string][]FATransition
	accepting   bool
}

func (ns NFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)

	for i, input := range inputs {
		var tStrings []string

		for _, t := range ns.transitions[input] {
			tStrings = append(tStrings, t.String())
		}

		sort.Strings(tStrings)

		for tIdx, t := range tStrings {
			moves.WriteString(t)
			if tIdx+1 < len(tStrings) || i+1 < len(inputs) {
				moves.WriteRune(',')
				moves.WriteRune(' ')
			}
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())

	if ns.accepting {
		str = "(" + str + ")"
	}

	return str
}

// Copy returns a duplicate of this state. The transitions map and its
// slices are copied so that mutating the copy never affects the original.
func (ns NFAState[E]) Copy() NFAState[E] {
	copied := NFAState[E]{
		name:        ns.name,
		value:       ns.value,
		transitions: make(map[string][]FATransition, len(ns.transitions)),
		accepting:   ns.accepting,
	}
	for k, v := range ns.transitions {
		cp := make([]FATransition, len(v))
		copy(cp, v)
		copied.transitions[k] = cp
	}
	return copied
}
