// Package scope implements the lexically nested symbol table of §4.5: a
// map from identifier to binding plus a parent link. Scope holds bindings
// as any rather than a concrete type so that this package has no
// dependency on internal/lang/types; callers (internal/lang/checker) type-
// assert what they get back. Grounded on the parent-chain scope/symbol
// table split in npillmayer-gorgo's runtime/symtable.go, collapsed into one
// type since this language's checker never needs a table separate from its
// owning scope.
package scope

import "fmt"

// Scope is one lexical level of the symbol table tree.
type Scope struct {
	parent *Scope
	vars   map[string]any
}

// New returns an empty scope whose parent is parent (nil for the global
// scope).
func New(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: make(map[string]any)}
}

// Parent returns the enclosing scope, or nil if s is the global scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Declare binds name to v in s. It fails if name is already bound locally
// in s; shadowing a binding in an ancestor scope is allowed.
func (s *Scope) Declare(name string, v any) error {
	if _, ok := s.vars[name]; ok {
		return fmt.Errorf("%q is already declared in this scope", name)
	}
	s.vars[name] = v
	return nil
}

// Get returns the binding for name, searching s and then each ancestor in
// turn. ok is false if no scope in the chain has the name.
func (s *Scope) Get(name string) (v any, ok bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok = cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign overwrites the binding for name in whichever scope in the chain
// (starting at s) declared it. It fails if no scope in the chain has the
// name.
func (s *Scope) Assign(name string, v any) error {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return nil
		}
	}
	return fmt.Errorf("%q is not declared", name)
}

// Exists reports whether name is bound in s or any ancestor.
func (s *Scope) Exists(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// DeclaredLocally reports whether name is bound directly in s, ignoring
// ancestors.
func (s *Scope) DeclaredLocally(name string) bool {
	_, ok := s.vars[name]
	return ok
}
