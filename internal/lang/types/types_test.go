package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/minnow/internal/lang/scope"
)

func Test_IsSubtype_AtomicLattice(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsSubtype(TInt, TFloat))
	assert.True(IsSubtype(TFloat, TObject))
	assert.True(IsSubtype(TInt, TObject))
	assert.False(IsSubtype(TFloat, TInt))
	assert.False(IsSubtype(TString, TInt))
}

func Test_IsSubtype_ClassChain(t *testing.T) {
	assert := assert.New(t)

	a := &Class{Name: "A", Members: scope.New(nil)}
	b := &Class{Name: "B", Super: a, Members: scope.New(nil)}

	assert.True(IsSubtype(b, a))
	assert.True(IsSubtype(b, TObject))
	assert.True(IsSubtype(a, TObject))
	assert.False(IsSubtype(a, b))
}

func Test_IsSubtype_ListCovariant(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsSubtype(&List{Elem: TInt}, &List{Elem: TFloat}))
	assert.False(IsSubtype(&List{Elem: TFloat}, &List{Elem: TInt}))
}

func Test_IsSubtype_DictInvariant(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsSubtype(&Dict{Key: TString, Value: TInt}, &Dict{Key: TString, Value: TInt}))
	assert.False(IsSubtype(&Dict{Key: TString, Value: TInt}, &Dict{Key: TString, Value: TFloat}))
}

func Test_IsSubtype_FunctionNeverSubtypesNonFunction(t *testing.T) {
	assert := assert.New(t)

	f := &Function{Name: "f", Params: nil, Return: TNull}
	assert.False(IsSubtype(f, TObject))
}

func Test_Assignable_NullToClass(t *testing.T) {
	assert := assert.New(t)

	c := &Class{Name: "C", Members: scope.New(nil)}
	assert.True(Assignable(TNull, c))
	assert.False(Assignable(TNull, TInt))
}

func Test_AssignableToParam_MetaAcceptsFunction(t *testing.T) {
	assert := assert.New(t)

	f := &Function{Name: "C", Return: &Class{Name: "C", Members: scope.New(nil)}}
	assert.True(AssignableToParam(f, TMeta))
	assert.False(AssignableToParam(TInt, TMeta))
}

func Test_CommonType(t *testing.T) {
	assert := assert.New(t)

	assert.True(CommonType(TInt, TFloat).Equal(TFloat))

	a := &Class{Name: "A", Members: scope.New(nil)}
	b := &Class{Name: "B", Super: a, Members: scope.New(nil)}
	c := &Class{Name: "C", Super: a, Members: scope.New(nil)}
	assert.True(CommonType(b, c).Equal(a))
}

func Test_NumericLUB(t *testing.T) {
	assert := assert.New(t)

	lub, ok := NumericLUB(TInt, TInt)
	assert.True(ok)
	assert.True(lub.Equal(TInt))

	lub, ok = NumericLUB(TInt, TFloat)
	assert.True(ok)
	assert.True(lub.Equal(TFloat))

	_, ok = NumericLUB(TInt, TString)
	assert.False(ok)
}
