package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Scope_DeclareGet(t *testing.T) {
	assert := assert.New(t)

	s := New(nil)
	assert.NoError(s.Declare("x", 42))

	v, ok := s.Get("x")
	assert.True(ok)
	assert.Equal(42, v)
}

func Test_Scope_DeclareTwice_Fails(t *testing.T) {
	assert := assert.New(t)

	s := New(nil)
	assert.NoError(s.Declare("x", 1))
	assert.Error(s.Declare("x", 2))
}

func Test_Scope_ChildShadows_NotVisibleInParent(t *testing.T) {
	assert := assert.New(t)

	parent := New(nil)
	assert.NoError(parent.Declare("x", "outer"))

	child := New(parent)
	assert.NoError(child.Declare("x", "inner"))

	childVal, ok := child.Get("x")
	assert.True(ok)
	assert.Equal("inner", childVal)

	parentVal, ok := parent.Get("x")
	assert.True(ok)
	assert.Equal("outer", parentVal)
}

func Test_Scope_Get_WalksAncestors(t *testing.T) {
	assert := assert.New(t)

	grandparent := New(nil)
	assert.NoError(grandparent.Declare("g", 1))

	parent := New(grandparent)
	child := New(parent)

	v, ok := child.Get("g")
	assert.True(ok)
	assert.Equal(1, v)
}

func Test_Scope_Get_Missing(t *testing.T) {
	assert := assert.New(t)

	s := New(nil)
	_, ok := s.Get("nope")
	assert.False(ok)
}

func Test_Scope_Assign_WalksToDeclaringScope(t *testing.T) {
	assert := assert.New(t)

	parent := New(nil)
	assert.NoError(parent.Declare("x", 1))
	child := New(parent)

	assert.NoError(child.Assign("x", 2))

	v, ok := parent.Get("x")
	assert.True(ok)
	assert.Equal(2, v)

	_, declaredLocally := child.vars["x"]
	assert.False(declaredLocally)
}

func Test_Scope_Assign_Undeclared_Fails(t *testing.T) {
	assert := assert.New(t)

	s := New(nil)
	assert.Error(s.Assign("x", 1))
}

func Test_Scope_Exists(t *testing.T) {
	assert := assert.New(t)

	parent := New(nil)
	assert.NoError(parent.Declare("x", 1))
	child := New(parent)

	assert.True(child.Exists("x"))
	assert.False(child.Exists("y"))
}
