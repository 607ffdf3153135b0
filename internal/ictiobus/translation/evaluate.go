package translation

import (
	"fmt"

	"github.com/dekarrin/minnow/internal/ictiobus/types"
)

// BindingsFor returns the bindings defined for the given rule that target
// dest specifically, in declaration order.
func (sdd *sddImpl) BindingsFor(head string, prod []string, dest AttrRef) []SDDBinding {
	all := sdd.Bindings(head, prod)
	var out []SDDBinding
	for _, b := range all {
		if b.Dest == dest {
			out = append(out, b)
		}
	}
	return out
}

// pendingEval is one not-yet-invoked binding discovered while scanning the
// annotated parse tree, paired with the node it applies to.
type pendingEval struct {
	node *AnnotatedParseTree
	bind SDDBinding
}

// Evaluate annotates tree and resolves every SDD binding applicable to it,
// then returns the values of attributes as found on the root node.
//
// Evaluation order is not required to be worked out ahead of time into a
// single static pass (the SDD need not be S-attributed or L-attributed):
// instead, every binding in the tree is treated as a pending unit of work
// and repeatedly retried until all of the attributes it depends on
// (its Requirements) have been set, at which point it is invoked and its
// own Dest attribute becomes available to whatever else depends on it. This
// converges for any acyclic attribute dependency graph; a dependency cycle
// (or a binding that depends on an attribute no rule ever sets) leaves the
// binding permanently unresolvable, which is reported as an error rather
// than looped on forever.
func (sdd *sddImpl) Evaluate(tree types.ParseTree, attributes ...NodeAttrName) ([]NodeAttrValue, error) {
	root := AddAttributes(tree)

	var work []pendingEval
	for _, node := range flattenTree(&root) {
		if node.Terminal {
			continue
		}
		head, prod := node.Rule()
		for _, bind := range sdd.Bindings(head, prod) {
			work = append(work, pendingEval{node: node, bind: bind})
		}
	}

	for progress := true; len(work) > 0 && progress; {
		progress = false
		remaining := make([]pendingEval, 0, len(work))
		for _, pend := range work {
			if !bindingIsReady(pend.node, pend.bind) {
				remaining = append(remaining, pend)
				continue
			}

			val := pend.bind.Invoke(*pend.node)
			setAttribute(pend.node, pend.bind.Dest, val)
			progress = true
		}
		work = remaining
	}

	if len(work) > 0 {
		return nil, fmt.Errorf("translation: %d SDD binding(s) could not be resolved; check for a dependency cycle or an attribute that no rule sets", len(work))
	}

	vals := make([]NodeAttrValue, len(attributes))
	for i, attrName := range attributes {
		v, ok := root.Attributes[attrName]
		if !ok {
			return nil, fmt.Errorf("translation: requested attribute %q was never set on the root node", attrName)
		}
		vals[i] = v
	}
	return vals, nil
}

func bindingIsReady(node *AnnotatedParseTree, bind SDDBinding) bool {
	for _, req := range bind.Requirements {
		if _, ok := node.AttributeValueOf(req); !ok {
			return false
		}
	}
	return true
}

func setAttribute(node *AnnotatedParseTree, dest AttrRef, val NodeAttrValue) {
	if dest.Relation.Type == RelHead {
		node.Attributes[dest.Name] = val
		return
	}
	target, ok := node.RelativeNode(dest.Relation)
	if !ok {
		return
	}
	target.Attributes[dest.Name] = val
}

func flattenTree(root *AnnotatedParseTree) []*AnnotatedParseTree {
	var all []*AnnotatedParseTree
	stack := []*AnnotatedParseTree{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		all = append(all, n)
		stack = append(stack, n.Children...)
	}
	return all
}
