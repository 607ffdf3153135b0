// Package emit walks a checked *ast.Program and renders it as the target
// surface's source text. The language described by spec.md is deliberately
// silent on what that target surface is (§5: "a target surface," "a handful
// of renames, e.g., init -> constructor name") -- this package follows the
// one worked example available, the original transpiler this language was
// distilled from, which emits Python. A program is rendered one top-level
// declaration at a time, in order, with a fixed bootstrap line appended.
package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/minnow/internal/lang/ast"
	"github.com/dekarrin/minnow/internal/lang/runtime"
)

// indentUnit is one level of Python block indentation.
const indentUnit = "\t"

// Program renders prog's declarations as Python source text: an import of
// the runtime support bundle, each declaration in order, and finally the
// `if __name__ == '__main__'` bootstrap that invokes a top-level main().
func Program(prog *ast.Program) string {
	var b strings.Builder
	b.WriteString("from ")
	b.WriteString(runtime.ModuleName)
	b.WriteString(" import *\n\n\n")
	for _, d := range prog.Decls {
		decl(&b, d, 0)
	}
	b.WriteString("if __name__ == '__main__':\n\tmain()\n")
	return b.String()
}

func indent(b *strings.Builder, tabs int) {
	for i := 0; i < tabs; i++ {
		b.WriteString(indentUnit)
	}
}

func decl(b *strings.Builder, d ast.Decl, tabs int) {
	switch d := d.(type) {
	case *ast.Function:
		function(b, d, tabs)
	case *ast.Class:
		class(b, d, tabs)
	default:
		panic(fmt.Sprintf("emit: unhandled decl type %T", d))
	}
}

// function renders a function or method declaration. A method (tabs > 0)
// gets an implicit leading self parameter, and a method literally named
// init is renamed to Python's __init__, matching the source constructor
// convention the checker also special-cases.
func function(b *strings.Builder, fn *ast.Function, tabs int) {
	name := fn.Name.Lexeme()
	params := make([]string, 0, len(fn.Params)+1)
	if tabs > 0 {
		params = append(params, "self")
		if name == "init" {
			name = "__init__"
		}
	}
	for _, p := range fn.Params {
		params = append(params, p.Name.Lexeme())
	}

	indent(b, tabs)
	b.WriteString("def ")
	b.WriteString(name)
	b.WriteString("(")
	b.WriteString(strings.Join(params, ", "))
	b.WriteString("):\n")

	if len(fn.Body) == 0 {
		indent(b, tabs+1)
		b.WriteString("pass\n")
	} else {
		block(b, fn.Body, tabs+1)
	}
	b.WriteString("\n")
}

// class renders a class declaration, with an explicit base-class list when
// Superclass is present, and `pass` as the sole body when it has no methods.
func class(b *strings.Builder, cls *ast.Class, tabs int) {
	indent(b, tabs)
	b.WriteString("class ")
	b.WriteString(cls.Name.Lexeme())
	if cls.Superclass != nil {
		b.WriteString("(")
		b.WriteString((*cls.Superclass).Lexeme())
		b.WriteString(")")
	}
	b.WriteString(":\n")

	if len(cls.Methods) == 0 {
		indent(b, tabs+1)
		b.WriteString("pass\n")
		return
	}
	for _, m := range cls.Methods {
		function(b, m, tabs+1)
	}
}

func block(b *strings.Builder, stmts []ast.Stmt, tabs int) {
	for _, s := range stmts {
		stmt(b, s.Inner, tabs)
	}
}

func stmt(b *strings.Builder, s ast.StmtKind, tabs int) {
	switch s := s.(type) {
	case *ast.ExpressionStatement:
		indent(b, tabs)
		b.WriteString(expr(s.Expr))
		b.WriteString("\n")
	case *ast.VarDeclaration:
		indent(b, tabs)
		b.WriteString(s.Name.Lexeme())
		b.WriteString(" = ")
		b.WriteString(expr(s.Init))
		b.WriteString("\n")
	case *ast.AttrDeclaration:
		indent(b, tabs)
		b.WriteString("self.")
		b.WriteString(s.Name.Lexeme())
		b.WriteString(" = ")
		b.WriteString(expr(s.Init))
		b.WriteString("\n")
	case *ast.Assignment:
		indent(b, tabs)
		b.WriteString(expr(s.Target))
		b.WriteString(" = ")
		b.WriteString(expr(s.Value))
		b.WriteString("\n")
	case *ast.If:
		ifStmt(b, s, tabs)
	case *ast.While:
		indent(b, tabs)
		b.WriteString("while ")
		b.WriteString(expr(s.Cond))
		b.WriteString(":\n")
		bodyOrPass(b, s.Body, tabs+1)
	case *ast.For:
		indent(b, tabs)
		b.WriteString("for ")
		b.WriteString(s.Var.Lexeme())
		b.WriteString(" in ")
		b.WriteString(expr(s.Iterable))
		b.WriteString(":\n")
		bodyOrPass(b, s.Body, tabs+1)
	case *ast.Return:
		indent(b, tabs)
		b.WriteString("return ")
		if s.Value == nil {
			b.WriteString("None")
		} else {
			b.WriteString(expr(s.Value))
		}
		b.WriteString("\n")
	case *ast.Break:
		indent(b, tabs)
		b.WriteString("break\n")
	case *ast.Continue:
		indent(b, tabs)
		b.WriteString("continue\n")
	case *ast.Switch:
		switchStmt(b, s, tabs)
	case *ast.Comment:
		indent(b, tabs)
		b.WriteString("#")
		b.WriteString(strings.TrimPrefix(s.Text, "//"))
		b.WriteString("\n")
	default:
		panic(fmt.Sprintf("emit: unhandled stmt type %T", s))
	}
}

func bodyOrPass(b *strings.Builder, stmts []ast.Stmt, tabs int) {
	if len(stmts) == 0 {
		indent(b, tabs)
		b.WriteString("pass\n")
		return
	}
	block(b, stmts, tabs)
}

func ifStmt(b *strings.Builder, s *ast.If, tabs int) {
	indent(b, tabs)
	b.WriteString("if ")
	b.WriteString(expr(s.Cond))
	b.WriteString(":\n")
	bodyOrPass(b, s.Then, tabs+1)

	if s.Else != nil {
		indent(b, tabs)
		b.WriteString("else:\n")
		bodyOrPass(b, s.Else, tabs+1)
	}
}

// switchStmt renders the type-discriminated switch of §4/§8 as a Python
// structural-pattern match, one `case TypeName():` arm per ast.SwitchCase
// and `case _:` for the default arm.
func switchStmt(b *strings.Builder, s *ast.Switch, tabs int) {
	indent(b, tabs)
	b.WriteString("match ")
	b.WriteString(expr(s.Subject))
	b.WriteString(":\n")

	for _, c := range s.Cases {
		indent(b, tabs+1)
		b.WriteString("case ")
		b.WriteString(c.Type.Name.Lexeme())
		b.WriteString("():\n")
		bodyOrPass(b, c.Body, tabs+2)
	}

	if s.Default != nil {
		indent(b, tabs+1)
		b.WriteString("case _:\n")
		bodyOrPass(b, s.Default, tabs+2)
	}
}

// expr renders an expression as a single line of Python. There is no
// operator-precedence-aware omission of parentheses: Grouping nodes are the
// only source of parens in the output, and every Grouping from the source
// survives into the rendered text verbatim, so output precedence always
// matches source precedence.
func expr(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Literal:
		return literal(e)
	case *ast.Variable:
		return e.Name.Lexeme()
	case *ast.Self:
		return "self"
	case *ast.Super:
		return "super()"
	case *ast.Grouping:
		return "(" + expr(e.Inner) + ")"
	case *ast.Unary:
		return unary(e)
	case *ast.Binary:
		return binary(e)
	case *ast.Call:
		return call(e)
	case *ast.Get:
		return expr(e.Receiver) + "." + e.Name.Lexeme()
	case *ast.Index:
		return expr(e.Collection) + "[" + expr(e.Idx) + "]"
	case *ast.Array:
		parts := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			parts[i] = expr(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.Dictionary:
		parts := make([]string, len(e.Keys))
		for i := range e.Keys {
			parts[i] = expr(e.Keys[i]) + ": " + expr(e.Values[i])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		panic(fmt.Sprintf("emit: unhandled expr type %T", e))
	}
}

// literal renders an int, float, string, bool, or null constant as Python
// source, using the parsed Value rather than re-emitting the source lexeme
// verbatim: a string is written between double quotes, and a float uses
// Go's shortest 'g' formatting.
func literal(e *ast.Literal) string {
	switch v := e.Value.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return "\"" + v + "\""
	default:
		panic(fmt.Sprintf("emit: unhandled literal value type %T", v))
	}
}

func unary(e *ast.Unary) string {
	switch e.Op.Lexeme() {
	case "!":
		return "not " + expr(e.Operand)
	default:
		return e.Op.Lexeme() + expr(e.Operand)
	}
}

// binary renders an infix expression. An equality/inequality comparison
// against the null literal is rewritten to Python's is/is not, the way the
// original transpiler special-cases None comparisons, since Python's ==
// on None works but is/is not is the idiomatic form and is what the
// original emits.
func binary(e *ast.Binary) string {
	op := e.Op.Lexeme()

	if op == "==" || op == "!=" {
		pyOp := "is"
		if op == "!=" {
			pyOp = "is not"
		}
		if isNullLiteral(e.Right) {
			return expr(e.Left) + " " + pyOp + " " + expr(e.Right)
		}
		if isNullLiteral(e.Left) {
			return expr(e.Right) + " " + pyOp + " " + expr(e.Left)
		}
	}

	pyOp := op
	switch op {
	case "and":
		pyOp = "and"
	case "or":
		pyOp = "or"
	}
	return expr(e.Left) + " " + pyOp + " " + expr(e.Right)
}

func isNullLiteral(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit.Value == nil
}

// call renders a function/method call. A callee whose final segment is
// "init" -- the source constructor-naming convention -- is rewritten to
// Python's __init__ the same way function() renames a method declaration
// named init, so a class's explicit `self.init(...)`-style super call still
// resolves once emitted.
func call(e *ast.Call) string {
	callee := expr(e.Callee)
	if strings.HasSuffix(callee, ".init") {
		callee = strings.TrimSuffix(callee, "init") + "__init__"
	}

	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = expr(a)
	}
	return callee + "(" + strings.Join(args, ", ") + ")"
}
