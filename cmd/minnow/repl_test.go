package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_IsTopLevel(t *testing.T) {
	assert := assert.New(t)

	assert.True(isTopLevel("fun greet() {}"))
	assert.True(isTopLevel("  fun greet() {}"))
	assert.True(isTopLevel("class Dog {}"))
	assert.False(isTopLevel("var x: int = 3;"))
	assert.False(isTopLevel("x = 3;"))
}

func Test_ReplSession_Source_WrapsMainStmtsInSyntheticMain(t *testing.T) {
	assert := assert.New(t)

	s := &replSession{mainStmts: []string{"var x: int = 3;"}}
	src := s.source()

	assert.Contains(src, "fun main() {\n")
	assert.Contains(src, "var x: int = 3;\n")
	assert.Contains(src, "}\n")
}

func Test_ReplSession_Source_PlacesTopDeclsBeforeMain(t *testing.T) {
	assert := assert.New(t)

	s := &replSession{
		topDecls:  []string{"class Dog {}"},
		mainStmts: []string{"var d: Dog = Dog();"},
	}
	src := s.source()

	declIdx := strings.Index(src, "class Dog {}")
	mainIdx := strings.Index(src, "fun main() {")
	assert.True(declIdx >= 0 && mainIdx >= 0)
	assert.Less(declIdx, mainIdx)
}

func Test_Rollback_RemovesLastTopDecl(t *testing.T) {
	assert := assert.New(t)

	s := &replSession{topDecls: []string{"class A {}", "class B {}"}}
	rollback(s, "class B {}")
	assert.Equal([]string{"class A {}"}, s.topDecls)
}

func Test_Rollback_RemovesLastMainStmt(t *testing.T) {
	assert := assert.New(t)

	s := &replSession{mainStmts: []string{"var x: int = 1;", "var y: int = 2;"}}
	rollback(s, "var y: int = 2;")
	assert.Equal([]string{"var x: int = 1;"}, s.mainStmts)
}

