// Package types implements the structural type system of §4.6: the atomic
// built-ins, parametric list<T>/dict<K,V>, function signatures, and user
// classes, plus the subtype lattice and assignability rules the checker
// consults. Grounded on the recursive-tagged-variant approach §9 prescribes
// for "recursive type records": List and Dict hold owned Type handles
// rather than back-pointers, and Class is addressed by a stable *Class
// pointer rather than participating in the spec's "cyclic graph" concern
// (a class's Super field simply points at another already-constructed
// *Class, since this checker builds the class table once up front and
// never mutates it concurrently).
package types

import (
	"fmt"
	"strings"

	"github.com/dekarrin/minnow/internal/lang/scope"
)

// Type is implemented by every type-system variant: Atomic, *List, *Dict,
// *Function, and *Class.
type Type interface {
	String() string
	Equal(other Type) bool
}

// Kind enumerates the atomic built-ins plus two internal sentinels:
// Unknown (the element type of an empty array literal) and Meta (the
// "type" pseudo-type accepted by isinstance-style parameters).
type Kind int

const (
	Object Kind = iota
	Int
	Float
	Bool
	String
	Null
	Unknown
	Meta
)

func (k Kind) String() string {
	switch k {
	case Object:
		return "object"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Null:
		return "null"
	case Unknown:
		return "unknown"
	case Meta:
		return "type"
	default:
		return "?"
	}
}

// Atomic is one of the built-in scalar kinds.
type Atomic struct {
	Kind Kind
}

func (a Atomic) String() string { return a.Kind.String() }

func (a Atomic) Equal(other Type) bool {
	o, ok := other.(Atomic)
	return ok && o.Kind == a.Kind
}

var (
	TObject  = Atomic{Object}
	TInt     = Atomic{Int}
	TFloat   = Atomic{Float}
	TBool    = Atomic{Bool}
	TString  = Atomic{String}
	TNull    = Atomic{Null}
	TUnknown = Atomic{Unknown}
	TMeta    = Atomic{Meta}
)

// List is the covariant list<Elem> parametric type.
type List struct {
	Elem Type
}

func (l *List) String() string { return "list<" + l.Elem.String() + ">" }

func (l *List) Equal(other Type) bool {
	o, ok := other.(*List)
	return ok && l.Elem.Equal(o.Elem)
}

// Dict is the dict<Key,Value> parametric type, invariant in both
// parameters for assignment purposes.
type Dict struct {
	Key   Type
	Value Type
}

func (d *Dict) String() string {
	return "dict<" + d.Key.String() + "," + d.Value.String() + ">"
}

func (d *Dict) Equal(other Type) bool {
	o, ok := other.(*Dict)
	return ok && d.Key.Equal(o.Key) && d.Value.Equal(o.Value)
}

// Function is a callable signature: a top-level function, a method, or a
// synthesized class constructor.
type Function struct {
	Name     string
	Params   []Type
	Return   Type
	DeclLine int
}

func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("fun %s(%s):%s", f.Name, strings.Join(parts, ","), f.Return.String())
}

func (f *Function) Equal(other Type) bool {
	o, ok := other.(*Function)
	if !ok || len(o.Params) != len(f.Params) || !f.Return.Equal(o.Return) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	return true
}

// Class is a user-defined type: a name, an optional explicit superclass
// (nil means the implicit superclass is object), and a member scope
// holding the class's methods (as *Function bindings) and fields (as Type
// bindings).
type Class struct {
	Name    string
	Super   *Class
	Members *scope.Scope
}

func (c *Class) String() string { return c.Name }

func (c *Class) Equal(other Type) bool {
	o, ok := other.(*Class)
	return ok && o == c
}

// SuperOf returns the immediate supertype of t one step up the lattice, and
// false if t is already object (the top).
func SuperOf(t Type) (Type, bool) {
	switch v := t.(type) {
	case Atomic:
		switch v.Kind {
		case Int:
			return TFloat, true
		case Float, Bool, String, Null, Unknown:
			return TObject, true
		default:
			return nil, false
		}
	case *List:
		return TObject, true
	case *Dict:
		return TObject, true
	case *Class:
		if v.Super != nil {
			return v.Super, true
		}
		return TObject, true
	default:
		return nil, false
	}
}

// IsSubtype reports whether a is a subtype of b per §4.6/§9: int <: float
// <: object; every class ultimately reaches object; list<S> <: list<T> iff
// S <: T; dict is invariant (subtype only when both parameters match
// exactly); a Function is a subtype only of an equal Function, never of
// object or anything else.
func IsSubtype(a, b Type) bool {
	if a.Equal(b) {
		return true
	}
	// Unknown is the bottom of the lattice, not object's child: it's the
	// element type of an empty array literal (§4.7), which must be
	// assignable to list<T> for every T, not just list<object>.
	if aAtomic, ok := a.(Atomic); ok && aAtomic.Kind == Unknown {
		return true
	}
	if _, ok := a.(*Function); ok {
		return false
	}
	if bAtomic, ok := b.(Atomic); ok && bAtomic.Kind == Object {
		return true
	}
	if aList, ok := a.(*List); ok {
		if bList, ok := b.(*List); ok {
			return IsSubtype(aList.Elem, bList.Elem)
		}
	}
	for cur, ok := SuperOf(a); ok; cur, ok = SuperOf(cur) {
		if cur.Equal(b) {
			return true
		}
	}
	return false
}

// Assignable reports whether a value of type from may be assigned to a
// location of type to: the subtype relation plus the special case that
// null is assignable to any user class.
func Assignable(from, to Type) bool {
	if IsSubtype(from, to) {
		return true
	}
	if _, isClass := to.(*Class); isClass {
		if fromAtomic, ok := from.(Atomic); ok && fromAtomic.Kind == Null {
			return true
		}
	}
	return false
}

// AssignableToParam is Assignable, plus the call-argument special case of
// §4.7: a parameter declared with the Meta sentinel accepts any Function
// argument (this is what lets the built-in isinstance(obj, T) be type
// checked like any other call, passing a class's constructor function as
// the "type" argument).
func AssignableToParam(argType, paramType Type) bool {
	if paramAtomic, ok := paramType.(Atomic); ok && paramAtomic.Kind == Meta {
		if _, ok := argType.(*Function); ok {
			return true
		}
	}
	return Assignable(argType, paramType)
}

// CommonType finds the narrowest type assignable from both a and b,
// climbing the supertype chain of a until an ancestor both share is found;
// this always terminates at object (§9's glossary entry for "Common
// type").
func CommonType(a, b Type) Type {
	if Assignable(a, b) {
		return b
	}
	if Assignable(b, a) {
		return a
	}
	cur := a
	for {
		next, ok := SuperOf(cur)
		if !ok {
			return TObject
		}
		cur = next
		if Assignable(b, cur) {
			return cur
		}
	}
}

// NumericLUB returns the least-upper-bound numeric type of two numeric
// operand types per the §4.6 operator table: int+int=int, any mix with
// float yields float. ok is false if either operand is not numeric.
func NumericLUB(a, b Type) (Type, bool) {
	aAtomic, aok := a.(Atomic)
	bAtomic, bok := b.(Atomic)
	if !aok || !bok {
		return nil, false
	}
	isNumeric := func(k Kind) bool { return k == Int || k == Float }
	if !isNumeric(aAtomic.Kind) || !isNumeric(bAtomic.Kind) {
		return nil, false
	}
	if aAtomic.Kind == Float || bAtomic.Kind == Float {
		return TFloat, true
	}
	return TInt, true
}
