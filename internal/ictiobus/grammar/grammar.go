// Package grammar holds the representation of a context-free grammar used to
// drive both the LL(1) and LR family of parser generators, along with the
// classic textbook algorithms (FIRST/FOLLOW, epsilon removal, left-recursion
// removal, left-factoring, canonical collections of LR items) needed to turn
// one into a parse table.
package grammar

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/minnow/internal/ictiobus/types"
	"github.com/dekarrin/minnow/internal/util"
)

// Production is a single right-hand side of a grammar rule; a sequence of
// terminal and non-terminal symbols. Terminals are written in lower-case,
// non-terminals in upper-case, matching the convention used throughout the
// parser generator.
type Production []string

var (
	// Epsilon is the production consisting of only the empty string.
	Epsilon = Production{""}

	// Error is returned from table lookups that have no valid production.
	Error = Production{}
)

// Copy returns a deep-copied duplicate of this production.
func (p Production) Copy() Production {
	p2 := make(Production, len(p))
	copy(p2, p)
	return p2
}

// AllItems returns all LR0 items of the production, with the NonTerminal
// field left blank (a Production does not know what non-terminal produces
// it).
func (p Production) AllItems() []LR0Item {
	if p.Equal(Epsilon) {
		return []LR0Item{}
	}

	items := []LR0Item{}
	for dot := 0; dot < len(p); dot++ {
		items = append(items, LR0Item{
			Left:  p[:dot],
			Right: p[dot:],
		})
	}
	items = append(items, LR0Item{Left: p})

	return items
}

// Equal returns whether p is equal to another value. It will not be equal if
// the other value cannot be cast to a Production, []string, or a pointer to
// either.
func (p Production) Equal(o any) bool {
	other, ok := o.(Production)
	if !ok {
		otherPtr, ok := o.(*Production)
		if !ok {
			otherSlice, ok := o.([]string)
			if !ok {
				otherSlicePtr, ok := o.(*[]string)
				if !ok {
					return false
				} else if otherSlicePtr == nil {
					return false
				} else {
					other = Production(*otherSlicePtr)
				}
			} else {
				other = Production(otherSlice)
			}
		} else if otherPtr == nil {
			return false
		} else {
			other = *otherPtr
		}
	}

	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

func (p Production) String() string {
	if p.Equal(Epsilon) {
		return "ε"
	}

	var sb strings.Builder
	for i := range p {
		sb.WriteString(p[i])
		if i+1 < len(p) {
			sb.WriteRune(' ')
		}
	}
	return sb.String()
}

// IsUnit returns whether this production is a unit production, of the form
// A -> B where B is a non-terminal.
func (p Production) IsUnit() bool {
	return len(p) == 1 && !p.Equal(Epsilon) && strings.ToUpper(p[0]) == p[0]
}

// HasSymbol returns whether the production has the given symbol in it.
func (p Production) HasSymbol(sym string) bool {
	return util.InSlice(sym, p)
}

// Rule is a named collection of alternative Productions for a single
// non-terminal. By convention non-terminals are upper-case.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// LRItems returns all LR0 items in the Rule with their NonTerminal field
// properly set.
func (r Rule) LRItems() []LR0Item {
	items := []LR0Item{}
	for _, p := range r.Productions {
		prodItems := p.AllItems()
		for i := range prodItems {
			item := prodItems[i]
			item.NonTerminal = r.NonTerminal
			prodItems[i] = item
		}
		items = append(items, prodItems...)
	}
	return items
}

// Copy returns a deep-copy duplicate of the given Rule.
func (r Rule) Copy() Rule {
	r2 := Rule{
		NonTerminal: r.NonTerminal,
		Productions: make([]Production, len(r.Productions)),
	}
	for i := range r.Productions {
		r2.Productions[i] = r.Productions[i].Copy()
	}
	return r2
}

func (r Rule) String() string {
	var sb strings.Builder
	sb.WriteString(r.NonTerminal)
	sb.WriteString(" -> ")
	for i := range r.Productions {
		sb.WriteString(r.Productions[i].String())
		if i+1 < len(r.Productions) {
			sb.WriteString(" | ")
		}
	}
	return sb.String()
}

// ReplaceProduction returns a rule that does not include the given production
// and substitutes the given replacement(s) for it. If no replacements are
// given the production is simply removed. If the production does not exist,
// the replacements are appended to the end of the rule.
func (r Rule) ReplaceProduction(p Production, replacements ...Production) Rule {
	var addedReplacements bool
	newProds := []Production{}
	for i := range r.Productions {
		if !r.Productions[i].Equal(p) {
			newProds = append(newProds, r.Productions[i])
		} else if len(replacements) > 0 {
			newProds = append(newProds, replacements...)
			addedReplacements = true
		}
	}
	if !addedReplacements {
		newProds = append(newProds, replacements...)
	}

	r.Productions = newProds
	return r
}

// Equal returns whether r is equal to another value.
func (r Rule) Equal(o any) bool {
	other, ok := o.(Rule)
	if !ok {
		otherPtr, ok := o.(*Rule)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if r.NonTerminal != other.NonTerminal {
		return false
	} else if len(r.Productions) != len(other.Productions) {
		return false
	}
	for i := range r.Productions {
		if !r.Productions[i].Equal(other.Productions[i]) {
			return false
		}
	}

	return true
}

// CanProduce returns whether this rule can produce the given Production.
func (r Rule) CanProduce(p Production) bool {
	for _, alt := range r.Productions {
		if alt.Equal(p) {
			return true
		}
	}
	return false
}

// CanProduceSymbol returns whether any alternative in Productions produces
// the given term/non-terminal.
func (r Rule) CanProduceSymbol(termOrNonTerm string) bool {
	for _, alt := range r.Productions {
		for _, sym := range alt {
			if sym == termOrNonTerm {
				return true
			}
		}
	}
	return false
}

// HasProduction returns whether the rule has a production of the exact
// sequence of symbols given.
func (r Rule) HasProduction(prod Production) bool {
	for _, alt := range r.Productions {
		if len(alt) != len(prod) {
			continue
		}
		eq := true
		for i := range alt {
			if alt[i] != prod[i] {
				eq = false
				break
			}
		}
		if eq {
			return true
		}
	}
	return false
}

// UnitProductions returns all productions from the Rule that are unit
// productions; i.e. of the form A -> B where both A and B are non-terminals.
func (r Rule) UnitProductions() []Production {
	prods := []Production{}
	for _, alt := range r.Productions {
		if alt.IsUnit() {
			prods = append(prods, alt)
		}
	}
	return prods
}

// Grammar is a context-free grammar: a collection of rules over
// non-terminals, a set of terminals each mapped to the lexer token class that
// produces it, and a designated start symbol.
type Grammar struct {
	rulesByName map[string]int

	// main rule store; kept as a slice rather than just a map because order
	// matters to several of the transform algorithms (left recursion
	// removal, left factoring) and to keep output deterministic.
	rules     []Rule
	terminals map[string]types.TokenClass

	// Start names the start symbol. If empty, "S" is assumed.
	Start string
}

// LR0Items returns all LR0 items in the grammar (the union of every Rule's
// LRItems).
func (g Grammar) LR0Items() []LR0Item {
	items := []LR0Item{}
	for _, nt := range g.NonTerminals() {
		items = append(items, g.Rule(nt).LRItems()...)
	}
	return items
}

// Copy makes a duplicate deep copy of the grammar.
func (g Grammar) Copy() Grammar {
	g2 := Grammar{
		rulesByName: make(map[string]int, len(g.rulesByName)),
		rules:       make([]Rule, len(g.rules)),
		terminals:   make(map[string]types.TokenClass, len(g.terminals)),
		Start:       g.Start,
	}
	for k := range g.rulesByName {
		g2.rulesByName[k] = g.rulesByName[k]
	}
	for i := range g.rules {
		g2.rules[i] = g.rules[i].Copy()
	}
	for k := range g.terminals {
		g2.terminals[k] = g.terminals[k]
	}
	return g2
}

// StartSymbol returns the name of the grammar's start symbol, defaulting to
// "S" if none was set.
func (g Grammar) StartSymbol() string {
	if g.Start == "" {
		return "S"
	}
	return g.Start
}

func (g Grammar) String() string {
	return fmt.Sprintf("(%q, R=%q)", util.OrderedKeys(g.terminals), g.rules)
}

// Rule returns the grammar rule for the given non-terminal. If none is
// defined, a Rule with an empty NonTerminal field is returned.
func (g Grammar) Rule(nonterminal string) Rule {
	if g.rulesByName == nil {
		return Rule{}
	}
	if curIdx, ok := g.rulesByName[nonterminal]; !ok {
		return Rule{}
	} else {
		return g.rules[curIdx]
	}
}

// Term returns the TokenClass that the given terminal symbol maps to. If the
// terminal is not defined in this grammar, types.TokenUndefined is returned.
func (g Grammar) Term(terminal string) types.TokenClass {
	if g.terminals == nil {
		return types.TokenUndefined
	}
	if class, ok := g.terminals[terminal]; !ok {
		return types.TokenUndefined
	} else {
		return class
	}
}

// TermFor returns the terminal symbol that maps to the given token class, or
// "" if none does. The special lexer end-of-text class maps to "$".
func (g Grammar) TermFor(tc types.TokenClass) string {
	if tc.Equal(types.TokenEndOfText) {
		return "$"
	}
	for k := range g.terminals {
		if g.terminals[k].Equal(tc) {
			return k
		}
	}
	return ""
}

// IsTerminal returns whether sym is a defined terminal of the grammar.
func (g Grammar) IsTerminal(sym string) bool {
	if g.terminals == nil {
		return false
	}
	_, ok := g.terminals[sym]
	return ok
}

// AddTerm adds the given terminal along with the TokenClass that corresponds
// to it; tokens must be of that class in order to match the terminal.
//
// The mapping of terminal symbol IDs to TokenClasses must be 1-to-1; see
// Validate. It is an error to map a terminal to types.TokenEndOfText, and
// doing so panics immediately, as does giving an empty or malformed terminal
// name (terminal names may only contain 'a'-'z', '_', and '-').
func (g *Grammar) AddTerm(terminal string, class types.TokenClass) {
	if terminal == "" {
		panic("empty terminal not allowed")
	}
	if class.Equal(types.TokenEndOfText) {
		panic("can't add out-of-band signal token-end-of-text as defined terminal")
	}

	for _, ch := range terminal {
		if ('a' > ch || ch > 'z') && ch != '_' && ch != '-' {
			panic(fmt.Sprintf("invalid terminal name %q; must only be chars a-z, \"_\", or \"-\"", terminal))
		}
	}

	if class.Equal(types.TokenUndefined) {
		panic("cannot explicitly map a terminal to the undefined token class")
	}

	if g.terminals == nil {
		g.terminals = map[string]types.TokenClass{}
	}

	g.terminals[terminal] = class
}

// GenerateUniqueTerminal returns a terminal name guaranteed not to collide
// with any terminal currently defined in the grammar, based on original.
func (g Grammar) GenerateUniqueTerminal(original string) string {
	base := strings.ToLower(original)
	cleaned := strings.Builder{}
	for _, ch := range base {
		if ('a' <= ch && ch <= 'z') || ch == '_' || ch == '-' {
			cleaned.WriteRune(ch)
		} else {
			cleaned.WriteRune('-')
		}
	}
	newName := cleaned.String()
	if newName == "" {
		newName = "unnamed-term"
	}
	for g.IsTerminal(newName) {
		newName += "-p"
	}
	return newName
}

// RemoveRule eliminates all productions of the given non-terminal from the
// grammar. No-op if the non-terminal is not present.
func (g *Grammar) RemoveRule(nonterminal string) {
	ruleIdx, ok := g.rulesByName[nonterminal]
	if !ok {
		return
	}

	delete(g.rulesByName, nonterminal)

	if ruleIdx+1 < len(g.rules) {
		g.rules = append(g.rules[:ruleIdx], g.rules[ruleIdx+1:]...)
		for i := ruleIdx; i < len(g.rules); i++ {
			g.rulesByName[g.rules[i].NonTerminal] = i
		}
	} else {
		g.rules = g.rules[:ruleIdx]
	}
}

// AddRule adds the given production as an alternative for nonterminal. If the
// non-terminal has already been given productions, this one is appended with
// lower priority than all others already added.
//
// All rules require at least one symbol in the production; for an epsilon
// production, give only the empty string.
func (g *Grammar) AddRule(nonterminal string, production []string) {
	if nonterminal == "" {
		panic("empty nonterminal name not allowed for production rule")
	}

	for _, ch := range nonterminal {
		if ('A' > ch || ch > 'Z') && ch != '_' && ch != '-' {
			panic(fmt.Sprintf("invalid nonterminal name %q; must only be chars A-Z, \"_\", or \"-\"", nonterminal))
		}
	}

	if len(production) < 1 {
		panic("for epsilon production give empty string; all rules must have productions")
	}

	if len(production) != 1 {
		for _, sym := range production {
			if sym == "" {
				panic("epsilon production only allowed as sole production of an alternative")
			}
		}
	}

	if g.rulesByName == nil {
		g.rulesByName = map[string]int{}
	}

	curIdx, ok := g.rulesByName[nonterminal]
	if !ok {
		g.rules = append(g.rules, Rule{NonTerminal: nonterminal})
		curIdx = len(g.rules) - 1
		g.rulesByName[nonterminal] = curIdx
	}

	curRule := g.rules[curIdx]
	curRule.Productions = append(curRule.Productions, production)
	g.rules[curIdx] = curRule
}

// NonTerminals returns all non-terminal symbols defined in the grammar, in
// the order they were first added.
func (g Grammar) NonTerminals() []string {
	names := make([]string, len(g.rules))
	for i, r := range g.rules {
		names[i] = r.NonTerminal
	}
	return names
}

// Terminals returns all terminal symbols defined in the grammar, sorted.
func (g Grammar) Terminals() []string {
	return util.OrderedKeys(g.terminals)
}

// ReversePriorityNonTerminals returns all non-terminal symbols in reverse
// order from the order they were defined in.
func (g Grammar) ReversePriorityNonTerminals() []string {
	termNames := []string{}
	for _, r := range g.rules {
		termNames = append([]string{r.NonTerminal}, termNames...)
	}
	return termNames
}

// UnitProductions returns all rules, restricted to only their unit
// productions, for every non-terminal that has at least one.
func (g Grammar) UnitProductions() []Rule {
	allUnitProductions := []Rule{}
	for _, nonTerm := range g.NonTerminals() {
		rule := g.Rule(nonTerm)
		ruleUnitProds := rule.UnitProductions()
		if len(ruleUnitProds) > 0 {
			allUnitProductions = append(allUnitProductions, Rule{NonTerminal: nonTerm, Productions: ruleUnitProds})
		}
	}
	return allUnitProductions
}

// HasUnreachableNonTerminals returns whether the grammar currently has
// non-terminals (other than the start symbol) that no rule produces.
func (g Grammar) HasUnreachableNonTerminals() bool {
	return len(g.UnreachableNonTerminals()) > 0
}

// UnreachableNonTerminals returns all non-terminals (excluding the start
// symbol) that are not produced by any rule in the grammar.
func (g Grammar) UnreachableNonTerminals() []string {
	unreachables := []string{}
	for _, nonTerm := range g.NonTerminals() {
		if nonTerm == g.StartSymbol() {
			continue
		}

		reachable := false
		for _, otherNonTerm := range g.NonTerminals() {
			if otherNonTerm == nonTerm {
				continue
			}
			if g.Rule(otherNonTerm).CanProduceSymbol(nonTerm) {
				reachable = true
				break
			}
		}
		if !reachable {
			unreachables = append(unreachables, nonTerm)
		}
	}
	return unreachables
}

// RemoveUnitProductions returns a Grammar that derives equivalent strings to
// this one but with all unit production rules removed.
func (g Grammar) RemoveUnitProductions() Grammar {
	for _, nt := range g.NonTerminals() {
		rule := g.Rule(nt)
		resolvedSymbols := map[string]bool{}
		for len(rule.UnitProductions()) > 0 {
			newProds := []Production{}
			for _, p := range rule.Productions {
				if p.IsUnit() && p[0] != nt {
					hoistedRule := g.Rule(p[0])
					includedHoistedProds := []Production{}
					for _, hoistedProd := range hoistedRule.Productions {
						if len(hoistedProd) == 1 && hoistedProd[0] == nt {
							// skip; would re-introduce a cycle
						} else if rule.CanProduce(hoistedProd) {
							// already present
						} else if _, ok := resolvedSymbols[p[0]]; ok {
							// already resolved
						} else {
							includedHoistedProds = append(includedHoistedProds, hoistedProd)
						}
					}
					newProds = append(newProds, includedHoistedProds...)
					resolvedSymbols[p[0]] = true
				} else {
					newProds = append(newProds, p)
				}
			}
			rule.Productions = newProds
		}
		g.rules[g.rulesByName[rule.NonTerminal]] = rule
	}

	g = g.RemoveUnreachableNonTerminals()

	return g
}

// RemoveUnreachableNonTerminals returns a grammar with all unreachable
// non-terminals removed.
func (g Grammar) RemoveUnreachableNonTerminals() Grammar {
	for g.HasUnreachableNonTerminals() {
		for _, nt := range g.UnreachableNonTerminals() {
			g.RemoveRule(nt)
		}
	}
	return g
}

// RemoveEpsilons returns a grammar that derives equivalent strings to this
// one (with the exception of the empty string) but with all epsilon
// productions eliminated.
//
// Call Validate before this or it may go poorly.
func (g Grammar) RemoveEpsilons() Grammar {
	propagated := map[string]bool{}

	for {
		toPropagate := ""
		for _, A := range g.NonTerminals() {
			rule := g.rules[g.rulesByName[A]]
			if rule.HasProduction(Epsilon) {
				toPropagate = A
				break
			}
		}

		if toPropagate == "" {
			break
		}

		A := toPropagate
		producesA := map[string]bool{}

		ruleA := g.Rule(A)
		for _, B := range g.NonTerminals() {
			rule := g.rules[g.rulesByName[B]]
			if rule.CanProduceSymbol(A) {
				producesA[B] = true
			}
		}

		for B := range producesA {
			ruleB := g.Rule(B)

			if len(ruleA.Productions) == 1 {
				for i, bProd := range ruleB.Productions {
					var newProd Production
					if len(bProd) == 1 && bProd[0] == A {
						newProd = Epsilon
					} else {
						for _, sym := range bProd {
							if sym != A {
								newProd = append(newProd, sym)
							}
						}
					}
					ruleB.Productions[i] = newProd
				}
			} else {
				var newProds []Production
				for _, bProd := range ruleB.Productions {
					if util.InSlice(A, bProd) {
						newProds = append(newProds, getEpsilonRewrites(A, bProd)...)
					} else {
						newProds = append(newProds, bProd)
					}
				}

				if _, propagatedEpsilons := propagated[B]; propagatedEpsilons {
					newProds = removeEpsilons(newProds)
				}

				ruleB.Productions = newProds
			}

			if A == B {
				ruleA = ruleB
			}

			g.rules[g.rulesByName[B]] = ruleB
		}

		propagated[A] = true
		ruleA.Productions = removeEpsilons(ruleA.Productions)
		g.rules[g.rulesByName[A]] = ruleA
	}

	return g
}

// RemoveLeftRecursion returns a grammar with no left recursion, suitable for
// use by a top-down parsing method.
//
// This forces immediate removal of epsilon productions and unit productions,
// as this algorithm only works on CFGs without those.
//
// This is an implementation of Algorithm 4.19 from the purple dragon book,
// "Eliminating left recursion".
func (g Grammar) RemoveLeftRecursion() Grammar {
	g = g.RemoveEpsilons().RemoveUnitProductions()

	grammarUpdated := true
	for grammarUpdated {
		grammarUpdated = false

		A := g.ReversePriorityNonTerminals()
		for i := range A {
			AiRule := g.Rule(A[i])
			for j := 0; j < i; j++ {
				AjRule := g.Rule(A[j])

				newProds := []Production{}
				for k := range AiRule.Productions {
					if AiRule.Productions[k][0] == A[j] {
						grammarUpdated = true
						gamma := AiRule.Productions[k][1:]
						deltas := AjRule.Productions

						for d := range deltas {
							deltaProd := deltas[d]
							newProds = append(newProds, append(append(Production{}, deltaProd...), gamma...))
						}
					} else {
						newProds = append(newProds, AiRule.Productions[k])
					}
				}

				AiRule.Productions = newProds
				g.rules[g.rulesByName[A[i]]] = AiRule
			}

			alphas := []Production{}
			betas := []Production{}
			for k := range AiRule.Productions {
				if AiRule.Productions[k][0] == AiRule.NonTerminal {
					alphas = append(alphas, AiRule.Productions[k][1:])
				} else {
					betas = append(betas, AiRule.Productions[k])
				}
			}

			if len(alphas) > 0 {
				grammarUpdated = true

				if len(betas) < 1 {
					newARule := Rule{NonTerminal: AiRule.NonTerminal}
					for _, a := range alphas {
						newARule.Productions = append(newARule.Productions, append(append(Production{}, a...), AiRule.NonTerminal))
					}
					newARule.Productions = append(newARule.Productions, Epsilon)

					AiRule = newARule
					g.rules[g.rulesByName[A[i]]] = AiRule
				} else {
					APrime := g.GenerateUniqueName(AiRule.NonTerminal)
					newARule := Rule{NonTerminal: AiRule.NonTerminal}
					newAprimeRule := Rule{NonTerminal: APrime}

					for _, b := range betas {
						newARule.Productions = append(newARule.Productions, append(append(Production{}, b...), APrime))
					}
					for _, a := range alphas {
						newAprimeRule.Productions = append(newAprimeRule.Productions, append(append(Production{}, a...), APrime))
					}
					newAprimeRule.Productions = append(newAprimeRule.Productions, Epsilon)

					AiRule = newARule
					g.rules[g.rulesByName[A[i]]] = AiRule

					AiIndex := g.rulesByName[A[i]]
					g.insertRule(newAprimeRule, AiIndex)
				}
			}
		}
	}

	g = g.RemoveUnreachableNonTerminals()

	return g
}

func (g *Grammar) insertRule(r Rule, idx int) {
	var postList []Rule = make([]Rule, len(g.rules)-(idx+1))
	copy(postList, g.rules[idx+1:])
	g.rules = append(g.rules[:idx+1], r)
	g.rules = append(g.rules, postList...)

	for i := idx + 1; i < len(g.rules); i++ {
		g.rulesByName[g.rules[i].NonTerminal] = i
	}
}

// LeftFactor returns a new Grammar equivalent to this one but with all
// ambiguous alternative choices left factored into equivalent pairs of
// productions, suitable for a top-down parser.
//
// This is an implementation of Algorithm 4.21 from the purple dragon book,
// "Left factoring a grammar".
func (g Grammar) LeftFactor() Grammar {
	changes := true
	for changes {
		changes = false
		A := g.NonTerminals()
		for i := range A {
			AiRule := g.Rule(A[i])

			alpha := []string{}
			for j := range AiRule.Productions {
				checkingAlt := AiRule.Productions[j]
				for k := j + 1; k < len(AiRule.Productions); k++ {
					againstAlt := AiRule.Productions[k]
					longestPref := util.LongestCommonPrefix(checkingAlt, againstAlt)
					if len(longestPref) > len(alpha) {
						alpha = longestPref
					}
				}
			}

			if len(alpha) > 0 && !Epsilon.Equal(alpha) {
				changes = true

				gamma := []Production{}
				betas := []Production{}

				for _, alt := range AiRule.Productions {
					if util.HasPrefix(alt, alpha) {
						beta := alt[len(alpha):]
						if len(beta) == 0 {
							beta = Epsilon
						}
						betas = append(betas, beta)
					} else {
						gamma = append(gamma, alt)
					}
				}

				APrime := g.GenerateUniqueName(AiRule.NonTerminal)
				APrimeRule := Rule{NonTerminal: APrime, Productions: betas}

				AiRule.Productions = append([]Production{append(Production(alpha), APrime)}, gamma...)
				g.rules[g.rulesByName[A[i]]] = AiRule

				AiIndex := g.rulesByName[A[i]]
				g.insertRule(APrimeRule, AiIndex)
			}
		}
	}

	return g
}

func (g Grammar) recursiveFindFollowSet(X string, prevFollowChecks map[string]bool) map[string]bool {
	if X == "" {
		return nil
	}
	followSet := map[string]bool{}
	if X == g.StartSymbol() {
		followSet["$"] = true
	}

	A := g.NonTerminals()
	for i := range A {
		AiRule := g.Rule(A[i])

		for _, prod := range AiRule.Productions {
			if !prod.HasSymbol(X) {
				continue
			}

			var Xcount int
			for k := range prod {
				if prod[k] == X {
					Xcount++
				}
			}

			for Xoccurance := 0; Xoccurance < Xcount; Xoccurance++ {
				alpha := []string{}
				beta := []string{}
				var doneWithAlpha bool
				var Xencounter int
				for k := range prod {
					if prod[k] == X {
						Xencounter++
						if Xencounter > Xoccurance && !doneWithAlpha {
							doneWithAlpha = true
							continue
						}
					}
					if !doneWithAlpha {
						alpha = append(alpha, prod[k])
					} else {
						beta = append(beta, prod[k])
					}
				}
				_ = alpha

				for b := range beta {
					betaFirst := g.FIRST(beta[b])
					_, epsilonPresent := betaFirst[Epsilon[0]]

					for k := range betaFirst {
						if k != Epsilon[0] {
							followSet[k] = true
						}
					}

					if !epsilonPresent {
						break
					}
				}

				canBeAtEnd := true
				for b := range beta {
					betaFirst := g.FIRST(beta[b])
					if _, ok := betaFirst[Epsilon[0]]; !ok {
						canBeAtEnd = false
						break
					}
				}
				if canBeAtEnd {
					if _, ok := prevFollowChecks[A[i]]; A[i] != X && !ok {
						prevFollowChecks[X] = true
						followA := g.recursiveFindFollowSet(A[i], prevFollowChecks)
						for k := range followA {
							followSet[k] = true
						}
					}
				}
			}
		}
	}

	return followSet
}

// FOLLOW computes the FOLLOW set of symbol X.
func (g Grammar) FOLLOW(X string) map[string]bool {
	return g.recursiveFindFollowSet(X, map[string]bool{})
}

// FIRST computes the FIRST set of symbol X.
func (g Grammar) FIRST(X string) map[string]bool {
	if strings.ToLower(X) == X {
		return map[string]bool{X: true}
	}

	firsts := map[string]bool{}
	r := g.Rule(X)

	for ntIdx := range r.Productions {
		Y := r.Productions[ntIdx]
		var gotToEnd bool
		for k := 0; k < len(Y); k++ {
			firstY := g.FIRST(Y[k])
			for str := range firstY {
				if str != "" {
					firsts[str] = true
				}
			}
			if len(firstY) == 1 && util.OrderedKeys(firstY)[0] == "" {
				firsts[""] = true
			}
			if _, ok := firstY[Epsilon[0]]; !ok {
				break
			}
			if k+1 >= len(Y) {
				gotToEnd = true
			}
		}
		if gotToEnd {
			firsts[Epsilon[0]] = true
		}
	}
	return firsts
}

// LL1Table is a predictive parsing table, mapping (non-terminal, terminal)
// pairs to the production that should be applied.
type LL1Table util.Matrix2[string, string, Production]

// Set assigns the production to apply at (A, a).
func (M LL1Table) Set(A string, a string, alpha Production) {
	util.Matrix2[string, string, Production](M).Set(A, a, alpha)
}

// Get returns Error if no production is assigned at (A, a).
func (M LL1Table) Get(A string, a string) Production {
	v := util.Matrix2[string, string, Production](M).Get(A, a)
	if v == nil {
		return Error
	}
	return *v
}

// NonTerminals returns all non-terminals used as row keys in this table.
func (M LL1Table) NonTerminals() []string {
	return util.OrderedKeys(M)
}

// Terminals returns all terminals used as column keys in this table. Note
// that "$" is expected to be present in all LL1 prediction tables.
func (M LL1Table) Terminals() []string {
	termSet := map[string]bool{}
	for k := range M {
		subMap := map[string]map[string]Production(M)[k]
		for term := range subMap {
			termSet[term] = true
		}
	}
	return util.OrderedKeys(termSet)
}

func (M LL1Table) String() string {
	data := [][]string{}

	terms := M.Terminals()
	nts := M.NonTerminals()

	topRow := []string{""}
	topRow = append(topRow, terms...)
	data = append(data, topRow)

	for i := range nts {
		dataRow := []string{nts[i]}
		for j := range terms {
			prod := M.Get(nts[i], terms[j])
			dataRow = append(dataRow, prod.String())
		}
		data = append(data, dataRow)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 80, rosed.Options{
			TableBorders: true,
		}).
		String()
}

// NewLL1Table returns an empty LL1Table.
func NewLL1Table() LL1Table {
	return LL1Table(util.NewMatrix2[string, string, Production]())
}

// LLParseTable builds and returns the LL(1) parsing table for the grammar. If
// the grammar is not LL(1), an error is returned.
//
// This is an implementation of Algorithm 4.31, "Construction of a predictive
// parsing table", from the purple dragon book.
func (g Grammar) LLParseTable() (M LL1Table, err error) {
	if !g.IsLL1() {
		return nil, fmt.Errorf("not an LL(1) grammar")
	}

	nts := g.NonTerminals()
	M = NewLL1Table()

	for _, A := range nts {
		ARule := g.Rule(A)
		for _, alpha := range ARule.Productions {
			FIRSTalpha := util.Set[string](g.FIRST(alpha[0]))

			for a := range FIRSTalpha {
				if a != Epsilon[0] {
					M.Set(A, a, alpha)
				}
			}

			if FIRSTalpha.Has(Epsilon[0]) {
				for b := range g.FOLLOW(A) {
					M.Set(A, b, alpha)
				}
			}
		}
	}

	return M, nil
}

// IsLL1 returns whether the grammar satisfies the conditions for LL(1)
// parsing.
func (g Grammar) IsLL1() bool {
	nts := g.NonTerminals()
	for _, A := range nts {
		AiRule := g.Rule(A)

		followSetA := util.Set[string](g.FOLLOW(A))

		for i := range AiRule.Productions {
			for j := i + 1; j < len(AiRule.Productions); j++ {
				alphaFIRST := g.FIRST(AiRule.Productions[i][0])
				betaFIRST := g.FIRST(AiRule.Productions[j][0])

				aFSet := util.Set[string](alphaFIRST)
				bFSet := util.Set[string](betaFIRST)

				if !aFSet.DisjointWith(bFSet) {
					return false
				}

				if bFSet.Has(Epsilon[0]) {
					if !followSetA.DisjointWith(aFSet) {
						return false
					}
				}
				if aFSet.Has(Epsilon[0]) {
					if !followSetA.DisjointWith(bFSet) {
						return false
					}
				}
			}
		}
	}

	return true
}

// GenerateUniqueName generates a name for a non-terminal guaranteed to be
// unique within the grammar, based on original.
func (g Grammar) GenerateUniqueName(original string) string {
	newName := original + "-P"
	existingRule := g.Rule(newName)
	for existingRule.NonTerminal != "" {
		newName += "P"
		existingRule = g.Rule(newName)
	}
	return newName
}

// Augmented returns a copy of the grammar with a new start symbol S' and a
// single production S' -> S added, where S is the prior start symbol. This is
// the standard first step of canonical LR(0)/LR(1) item-set construction.
func (g Grammar) Augmented() Grammar {
	gPrime := g.Copy()

	oldStart := gPrime.StartSymbol()
	newStart := gPrime.GenerateUniqueName(oldStart)
	// conventionally the augmenting symbol is the old start with a prime
	// suffix; reuse GenerateUniqueName's "-P" scheme but anchor it to a
	// recognizable name.
	newStart = oldStart + "-P"
	for gPrime.Rule(newStart).NonTerminal != "" {
		newStart += "P"
	}

	gPrime.AddRule(newStart, []string{oldStart})
	gPrime.Start = newStart

	return gPrime
}

// LR0_CLOSURE computes the closure of a set of LR(0) items: repeatedly adds,
// for every item A -> α.Xβ where X is a non-terminal, the initial items
// X -> .γ for every production γ of X, until no more items can be added.
func (g Grammar) LR0_CLOSURE(I util.SVSet[LR0Item]) util.SVSet[LR0Item] {
	closure := util.NewSVSet(map[string]LR0Item(I))

	updated := true
	for updated {
		updated = false
		for _, itemName := range closure.Elements() {
			item := closure.Get(itemName)
			if len(item.Right) == 0 {
				continue
			}
			X := item.Right[0]
			if strings.ToUpper(X) != X {
				continue
			}

			for _, gamma := range g.Rule(X).Productions {
				newItem := LR0Item{NonTerminal: X, Right: gamma}
				if gamma.Equal(Epsilon) {
					newItem.Right = nil
				}
				if !closure.Has(newItem.String()) {
					closure.Set(newItem.String(), newItem)
					updated = true
				}
			}
		}
	}

	return closure
}

// LR0_GOTO computes GOTO(I, X): the closure of the set of items
// [A -> αX.β] such that [A -> α.Xβ] is in I.
func (g Grammar) LR0_GOTO(I util.SVSet[LR0Item], X string) util.SVSet[LR0Item] {
	moved := util.NewSVSet[LR0Item]()

	for _, itemName := range I.Elements() {
		item := I.Get(itemName)
		if len(item.Right) == 0 || item.Right[0] != X {
			continue
		}

		newLeft := make([]string, len(item.Left)+1)
		copy(newLeft, item.Left)
		newLeft[len(item.Left)] = X

		newRight := make([]string, len(item.Right)-1)
		copy(newRight, item.Right[1:])

		newItem := LR0Item{NonTerminal: item.NonTerminal, Left: newLeft, Right: newRight}
		moved.Set(newItem.String(), newItem)
	}

	return g.LR0_CLOSURE(moved)
}

// CanonicalLR0Items computes the canonical collection of sets of LR(0) items
// for the (already augmented) grammar g, keyed by the StringOrdered() of
// each item set.
func (g Grammar) CanonicalLR0Items() util.SVSet[util.SVSet[LR0Item]] {
	startItem := LR0Item{NonTerminal: g.StartSymbol(), Right: []string{g.Rule(g.StartSymbol()).Productions[0][0]}}
	start := g.LR0_CLOSURE(util.SVSet[LR0Item]{startItem.String(): startItem})

	collection := util.NewSVSet[util.SVSet[LR0Item]]()
	collection.Set(start.StringOrdered(), start)

	allSymbols := append(append([]string{}, g.Terminals()...), g.NonTerminals()...)

	updated := true
	for updated {
		updated = false
		for _, setName := range collection.Elements() {
			I := collection.Get(setName)
			for _, X := range allSymbols {
				goTo := g.LR0_GOTO(I, X)
				if goTo.Empty() {
					continue
				}
				if !collection.Has(goTo.StringOrdered()) {
					collection.Set(goTo.StringOrdered(), goTo)
					updated = true
				}
			}
		}
	}

	return collection
}

// LR1_CLOSURE computes the closure of a set of LR(1) items: for every item
// [A -> α.Xβ, a] with X a non-terminal, adds [X -> .γ, b] for every
// production γ of X and every terminal b in FIRST(βa), until no more items
// can be added.
func (g Grammar) LR1_CLOSURE(I util.SVSet[LR1Item]) util.SVSet[LR1Item] {
	closure := util.NewSVSet(map[string]LR1Item(I))

	updated := true
	for updated {
		updated = false
		for _, itemName := range closure.Elements() {
			item := closure.Get(itemName)
			if len(item.Right) == 0 {
				continue
			}
			X := item.Right[0]
			if strings.ToUpper(X) != X {
				continue
			}
			beta := item.Right[1:]

			lookaheads := map[string]bool{}
			if len(beta) == 0 {
				lookaheads[item.Lookahead] = true
			} else {
				betaA := append(append([]string{}, beta...), item.Lookahead)
				var allEpsilon = true
				for _, sym := range betaA {
					firstSym := g.FIRST(sym)
					for s := range firstSym {
						if s != Epsilon[0] {
							lookaheads[s] = true
						}
					}
					if _, ok := firstSym[Epsilon[0]]; !ok {
						allEpsilon = false
						break
					}
				}
				if allEpsilon {
					lookaheads[item.Lookahead] = true
				}
			}

			for _, gamma := range g.Rule(X).Productions {
				right := []string(gamma)
				if gamma.Equal(Epsilon) {
					right = nil
				}
				for b := range lookaheads {
					newItem := LR1Item{LR0Item: LR0Item{NonTerminal: X, Right: right}, Lookahead: b}
					if !closure.Has(newItem.String()) {
						closure.Set(newItem.String(), newItem)
						updated = true
					}
				}
			}
		}
	}

	return closure
}

// LR1_GOTO computes GOTO(I, X) for a set of LR(1) items.
func (g Grammar) LR1_GOTO(I util.SVSet[LR1Item], X string) util.SVSet[LR1Item] {
	moved := util.NewSVSet[LR1Item]()

	for _, itemName := range I.Elements() {
		item := I.Get(itemName)
		if len(item.Right) == 0 || item.Right[0] != X {
			continue
		}

		newLeft := make([]string, len(item.Left)+1)
		copy(newLeft, item.Left)
		newLeft[len(item.Left)] = X

		newRight := make([]string, len(item.Right)-1)
		copy(newRight, item.Right[1:])

		newItem := LR1Item{
			LR0Item:   LR0Item{NonTerminal: item.NonTerminal, Left: newLeft, Right: newRight},
			Lookahead: item.Lookahead,
		}
		moved.Set(newItem.String(), newItem)
	}

	return g.LR1_CLOSURE(moved)
}

func mustParseGrammar(gr string) Grammar {
	g, err := parseGrammar(gr)
	if err != nil {
		panic(err.Error())
	}
	return g
}

func mustParseRule(r string) Rule {
	rule, err := parseRule(r)
	if err != nil {
		panic(err.Error())
	}
	return rule
}

// MustParse parses a textual grammar description such as
// "S -> A B; A -> a | ε; B -> b" (';'-separated rules, each terminal used in
// a production is auto-registered via a default token class) and panics on
// error. Intended for use in tests and bootstrap fixtures.
func MustParse(gr string) Grammar {
	return mustParseGrammar(gr)
}

func parseGrammar(gr string) (Grammar, error) {
	lines := strings.Split(gr, ";")

	var g Grammar
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		rule, err := parseRule(line)
		if err != nil {
			return Grammar{}, err
		}

		for _, p := range rule.Productions {
			for _, sym := range p {
				if strings.ToLower(sym) == sym && sym != "" && !g.IsTerminal(sym) {
					g.AddTerm(sym, types.MakeDefaultClass(sym))
				}
			}
			g.AddRule(rule.NonTerminal, p)
		}
	}

	return g, nil
}

// parseRule parses a Rule from a string like "S -> X | Y".
func parseRule(r string) (Rule, error) {
	sides := strings.Split(r, "->")
	if len(sides) != 2 {
		return Rule{}, fmt.Errorf("not a rule of form 'NONTERM -> SYMBOL SYMBOL | SYMBOL ...': %q", r)
	}
	nonTerminal := strings.TrimSpace(sides[0])

	if nonTerminal == "" {
		return Rule{}, fmt.Errorf("empty nonterminal name not allowed for production rule")
	}

	for _, ch := range nonTerminal {
		if ('A' > ch || ch > 'Z') && ch != '_' && ch != '-' {
			return Rule{}, fmt.Errorf("invalid nonterminal name %q; must only be chars A-Z, \"_\", or \"-\"", nonTerminal)
		}
	}

	parsedRule := Rule{NonTerminal: nonTerminal}

	productionsString := strings.TrimSpace(sides[1])
	prodStrings := strings.Split(productionsString, "|")
	for _, p := range prodStrings {
		parsedProd := Production{}
		p = strings.TrimSpace(p)
		symbols := strings.Split(p, " ")
		for _, sym := range symbols {
			sym = strings.TrimSpace(sym)

			if sym == "" {
				return Rule{}, fmt.Errorf("empty symbol not allowed")
			}

			if strings.ToLower(sym) == "ε" {
				parsedProd = Epsilon
				continue
			}

			isTerm := strings.ToLower(sym) == sym
			isNonTerm := strings.ToUpper(sym) == sym

			if !isTerm && !isNonTerm {
				return Rule{}, fmt.Errorf("cannot tell if symbol is a terminal or non-terminal: %q", sym)
			}

			for _, ch := range strings.ToLower(sym) {
				if ('a' > ch || ch > 'z') && ch != '_' && ch != '-' {
					return Rule{}, fmt.Errorf("invalid symbol: %q", sym)
				}
			}

			parsedProd = append(parsedProd, sym)
		}

		parsedRule.Productions = append(parsedRule.Productions, parsedProd)
	}

	return parsedRule, nil
}

// removeEpsilons removes all epsilon-only productions from a list of
// productions and returns the result.
func removeEpsilons(from []Production) []Production {
	newProds := []Production{}
	for i := range from {
		if !from[i].Equal(Epsilon) {
			newProds = append(newProds, from[i])
		}
	}
	return newProds
}

func getEpsilonRewrites(epsilonableNonterm string, prod Production) []Production {
	var numOccurances int
	for i := range prod {
		if prod[i] == epsilonableNonterm {
			numOccurances++
		}
	}

	if numOccurances == 0 {
		return []Production{prod}
	}

	perms := int(math.Pow(2, float64(numOccurances)))

	newProds := []Production{}

	epsilonablePositions := make([]string, numOccurances)
	for i := perms - 1; i >= 0; i-- {
		for j := range epsilonablePositions {
			if ((i >> j) & 1) > 0 {
				epsilonablePositions[j] = epsilonableNonterm
			} else {
				epsilonablePositions[j] = ""
			}
		}

		newProd := Production{}
		var curEpsilonable int
		for j := range prod {
			if prod[j] == epsilonableNonterm {
				pos := epsilonablePositions[curEpsilonable]
				if pos != "" {
					newProd = append(newProd, pos)
				}
				curEpsilonable++
			} else {
				newProd = append(newProd, prod[j])
			}
		}
		if len(newProd) == 0 {
			newProd = Epsilon
		}
		newProds = append(newProds, newProd)
	}

	uniqueNewProds := []Production{}
	seenProductions := map[string]bool{}
	for i := range newProds {
		str := strings.Join(newProds[i], " ")
		if _, alreadySeen := seenProductions[str]; alreadySeen {
			continue
		}
		uniqueNewProds = append(uniqueNewProds, newProds[i])
		seenProductions[str] = true
	}

	return uniqueNewProds
}

// Validate checks that the current rules form a complete grammar with no
// missing definitions: every symbol produced is either a defined terminal or
// a defined non-terminal, every terminal is produced by some rule and maps to
// a distinct token class, every non-terminal (besides the start symbol) is
// produced by some rule, and the start symbol has at least one rule.
func (g Grammar) Validate() error {
	if g.rulesByName == nil {
		g.rulesByName = map[string]int{}
	}

	if len(g.rules) < 1 {
		return fmt.Errorf("no rules defined in grammar")
	} else if len(g.terminals) < 1 {
		return fmt.Errorf("no terminals defined in grammar")
	}

	producedNonTerms := map[string]bool{}
	producedTerms := map[string]bool{}

	orderedTermKeys := util.OrderedKeys(g.terminals)

	var errLines []string

	for i := range g.rules {
		rule := g.rules[i]
		for _, alt := range rule.Productions {
			for _, sym := range alt {
				if sym == "" {
					continue
				}
				if strings.ToUpper(sym) == sym {
					if _, ok := g.rulesByName[sym]; !ok {
						errLines = append(errLines, fmt.Sprintf("no production defined for nonterminal %q produced by %q", sym, rule.NonTerminal))
					}
					producedNonTerms[sym] = true
				} else {
					if _, ok := g.terminals[sym]; !ok {
						errLines = append(errLines, fmt.Sprintf("undefined terminal %q produced by %q", sym, rule.NonTerminal))
					}
					producedTerms[sym] = true
				}
			}
		}
	}

	seenClasses := map[string]string{}
	for _, term := range orderedTermKeys {
		if _, ok := producedTerms[term]; !ok {
			errLines = append(errLines, fmt.Sprintf("terminal %q is not produced by any rule", term))
		}

		cl := g.terminals[term]
		if mappedBy, alreadySeen := seenClasses[cl.ID()]; alreadySeen {
			errLines = append(errLines, fmt.Sprintf("terminal %q maps to same class %q as terminal %q", term, cl.Human(), mappedBy))
		}
		seenClasses[cl.ID()] = term
	}

	for _, r := range g.rules {
		if r.NonTerminal == g.StartSymbol() {
			continue
		}
		if _, ok := producedNonTerms[r.NonTerminal]; !ok {
			errLines = append(errLines, fmt.Sprintf("non-terminal %q not produced by any rule", r.NonTerminal))
		}
	}

	if _, ok := g.rulesByName[g.StartSymbol()]; !ok {
		errLines = append(errLines, fmt.Sprintf("no rules defined for productions of start symbol %q", g.StartSymbol()))
	}

	if len(errLines) > 0 {
		sort.Strings(errLines)
		return fmt.Errorf(strings.Join(errLines, "\n"))
	}

	return nil
}
