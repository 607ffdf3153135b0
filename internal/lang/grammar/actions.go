package grammar

import (
	"strconv"
	"strings"

	"github.com/dekarrin/minnow/internal/ictiobus"
	"github.com/dekarrin/minnow/internal/ictiobus/translation"
	"github.com/dekarrin/minnow/internal/ictiobus/types"
	"github.com/dekarrin/minnow/internal/lang/ast"
)

// astAttr is the synthesized attribute every production below sets: the
// AST fragment (or an intermediate slice/struct feeding one) built from
// that production's children.
const astAttr = translation.NodeAttrName("ast")

// sym refers to the "ast" attribute of the i-th symbol (0-based) of the
// production a binding is registered for.
func sym(i int) translation.AttrRef {
	return translation.AttrRef{Relation: translation.NodeRelation{Type: translation.RelSymbol, Index: i}, Name: astAttr}
}

// tok refers to the $token auto-attribute (the types.Token) of the i-th
// symbol, which must be a terminal.
func tok(i int) translation.AttrRef {
	return translation.AttrRef{Relation: translation.NodeRelation{Type: translation.RelSymbol, Index: i}, Name: translation.NodeAttrName("$token")}
}

// text refers to the $text auto-attribute (the raw lexeme) of the i-th
// symbol, which must be a terminal.
func text(i int) translation.AttrRef {
	return translation.AttrRef{Relation: translation.NodeRelation{Type: translation.RelSymbol, Index: i}, Name: translation.NodeAttrName("$text")}
}

// set registers a synthesized-attribute binding for head -> prod, computing
// the "ast" attribute from the referenced arguments. Binding errors (bad
// symbol index, malformed args) are programmer mistakes in this file, not
// something a caller can recover from, so they panic rather than being
// threaded back through NewSDD's caller.
func set(sdd ictiobus.SDD, head string, prod []string, args []translation.AttrRef, fn func(args []translation.NodeAttrValue) translation.NodeAttrValue) {
	setter := func(_ string, _ translation.NodeAttrName, args []translation.NodeAttrValue) translation.NodeAttrValue {
		return fn(args)
	}
	if err := sdd.BindSynthesizedAttribute(head, prod, astAttr, setter, "", args); err != nil {
		panic("minnow/internal/lang/grammar: bind " + head + " -> [" + strings.Join(prod, " ") + "]: " + err.Error())
	}
}

// dictEntry is an intermediate value threaded through DICT-ENTRY/DICT-ENTRIES
// before PRIMARY's dict-literal action splits it into the parallel
// Keys/Values slices ast.Dictionary stores.
type dictEntry struct {
	Key   ast.Expr
	Value ast.Expr
}

// NewSDD registers every semantic action of §4.3 against a fresh SDD,
// building an *ast.Program out of the "ast" attribute of PROGRAM.
func NewSDD() ictiobus.SDD {
	sdd := ictiobus.NewSDD()

	// ---- top level ----

	set(sdd, "PROGRAM", []string{"DECL-LIST"}, []translation.AttrRef{sym(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return &ast.Program{Decls: a[0].([]ast.Decl)}
	})

	set(sdd, "DECL-LIST", []string{"DECL-LIST", "DECL"}, []translation.AttrRef{sym(0), sym(1)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return append(a[0].([]ast.Decl), a[1].(ast.Decl))
	})
	set(sdd, "DECL-LIST", []string{""}, nil, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []ast.Decl{}
	})

	set(sdd, "DECL", []string{"FUN-DECL"}, []translation.AttrRef{sym(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Decl(a[0].(*ast.Function))
	})
	set(sdd, "DECL", []string{"CLASS-DECL"}, []translation.AttrRef{sym(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Decl(a[0].(*ast.Class))
	})

	set(sdd, "FUN-DECL", []string{"kwfun", "id", "lparen", "PARAM-LIST-OPT", "rparen", "RETURN-TYPE-OPT", "BLOCK"},
		[]translation.AttrRef{tok(1), sym(3), sym(5), sym(6)},
		func(a []translation.NodeAttrValue) translation.NodeAttrValue {
			var rt *ast.VarType
			if a[2] != nil {
				rt = a[2].(*ast.VarType)
			}
			return &ast.Function{
				Name:       a[0].(types.Token),
				Params:     a[1].([]ast.Param),
				ReturnType: rt,
				Body:       a[3].([]ast.Stmt),
			}
		})

	set(sdd, "PARAM-LIST-OPT", []string{"PARAM-LIST"}, []translation.AttrRef{sym(0)}, passthrough)
	set(sdd, "PARAM-LIST-OPT", []string{""}, nil, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []ast.Param{}
	})

	set(sdd, "PARAM-LIST", []string{"PARAM-LIST", "comma", "PARAM"}, []translation.AttrRef{sym(0), sym(2)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return append(a[0].([]ast.Param), a[1].(ast.Param))
	})
	set(sdd, "PARAM-LIST", []string{"PARAM"}, []translation.AttrRef{sym(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []ast.Param{a[0].(ast.Param)}
	})

	set(sdd, "PARAM", []string{"id", "colon", "VAR-TYPE"}, []translation.AttrRef{tok(0), sym(2)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Param{Name: a[0].(types.Token), Type: a[1].(*ast.VarType)}
	})

	set(sdd, "RETURN-TYPE-OPT", []string{"colon", "VAR-TYPE"}, []translation.AttrRef{sym(1)}, passthrough)
	set(sdd, "RETURN-TYPE-OPT", []string{""}, nil, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return (*ast.VarType)(nil)
	})

	set(sdd, "VAR-TYPE", []string{"id"}, []translation.AttrRef{tok(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return &ast.VarType{Name: a[0].(types.Token)}
	})
	set(sdd, "VAR-TYPE", []string{"id", "lt", "VAR-TYPE", "gt"}, []translation.AttrRef{tok(0), sym(2)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return &ast.VarType{Name: a[0].(types.Token), Nested: a[1].(*ast.VarType)}
	})
	set(sdd, "VAR-TYPE", []string{"id", "lt", "VAR-TYPE", "comma", "VAR-TYPE", "gt"}, []translation.AttrRef{tok(0), sym(2), sym(4)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return &ast.VarType{Name: a[0].(types.Token), Nested: a[1].(*ast.VarType), SecondNested: a[2].(*ast.VarType)}
	})

	set(sdd, "CLASS-DECL", []string{"kwclass", "id", "SUPER-OPT", "lbrace", "METHOD-LIST", "rbrace"},
		[]translation.AttrRef{tok(1), sym(2), sym(4)},
		func(a []translation.NodeAttrValue) translation.NodeAttrValue {
			return &ast.Class{
				Name:       a[0].(types.Token),
				Superclass: a[1].(*types.Token),
				Methods:    a[2].([]*ast.Function),
			}
		})

	set(sdd, "SUPER-OPT", []string{"colon", "id"}, []translation.AttrRef{tok(1)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		t := a[0].(types.Token)
		return &t
	})
	set(sdd, "SUPER-OPT", []string{""}, nil, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return (*types.Token)(nil)
	})

	set(sdd, "METHOD-LIST", []string{"METHOD-LIST", "FUN-DECL"}, []translation.AttrRef{sym(0), sym(1)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return append(a[0].([]*ast.Function), a[1].(*ast.Function))
	})
	set(sdd, "METHOD-LIST", []string{""}, nil, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []*ast.Function{}
	})

	registerStatements(sdd)
	registerExpressions(sdd)

	return sdd
}

// passthrough is used for unit-production rules (A -> B) where the child's
// "ast" attribute is exactly the parent's.
func passthrough(a []translation.NodeAttrValue) translation.NodeAttrValue {
	return a[0]
}

func registerStatements(sdd ictiobus.SDD) {
	set(sdd, "BLOCK", []string{"lbrace", "STMT-LIST", "rbrace"}, []translation.AttrRef{sym(1)}, passthrough)

	set(sdd, "STMT-LIST", []string{"STMT-LIST", "STMT"}, []translation.AttrRef{sym(0), sym(1)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return append(a[0].([]ast.Stmt), a[1].(ast.Stmt))
	})
	set(sdd, "STMT-LIST", []string{""}, nil, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []ast.Stmt{}
	})

	wrapStmt := func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Stmt{Inner: a[0].(ast.StmtKind)}
	}
	for _, kind := range []string{
		"EXPR-STMT", "ASSIGN-STMT", "VAR-DECL", "ATTR-DECL", "IF-STMT", "WHILE-STMT",
		"FOR-STMT", "RETURN-STMT", "BREAK-STMT", "CONTINUE-STMT", "SWITCH-STMT", "COMMENT-STMT",
	} {
		set(sdd, "STMT", []string{kind}, []translation.AttrRef{sym(0)}, wrapStmt)
	}

	set(sdd, "EXPR-STMT", []string{"EXPR", "semi"}, []translation.AttrRef{sym(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.StmtKind(&ast.ExpressionStatement{Expr: a[0].(ast.Expr)})
	})

	set(sdd, "ASSIGN-STMT", []string{"EXPR", "eq", "EXPR", "semi"}, []translation.AttrRef{sym(0), tok(1), sym(2)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		eqTok := a[1].(types.Token)
		return ast.StmtKind(&ast.Assignment{Target: a[0].(ast.Expr), Value: a[2].(ast.Expr), Eq: eqTok, Line: eqTok.Line()})
	})

	set(sdd, "VAR-DECL", []string{"kwvar", "id", "VAR-TYPE-OPT", "eq", "EXPR", "semi"},
		[]translation.AttrRef{tok(1), sym(2), sym(4)},
		func(a []translation.NodeAttrValue) translation.NodeAttrValue {
			var vt *ast.VarType
			if a[1] != nil {
				vt = a[1].(*ast.VarType)
			}
			return ast.StmtKind(&ast.VarDeclaration{Name: a[0].(types.Token), Type: vt, Init: a[2].(ast.Expr)})
		})

	set(sdd, "ATTR-DECL", []string{"kwattr", "id", "VAR-TYPE-OPT", "eq", "EXPR", "semi"},
		[]translation.AttrRef{tok(1), sym(2), sym(4)},
		func(a []translation.NodeAttrValue) translation.NodeAttrValue {
			var vt *ast.VarType
			if a[1] != nil {
				vt = a[1].(*ast.VarType)
			}
			return ast.StmtKind(&ast.AttrDeclaration{Name: a[0].(types.Token), Type: vt, Init: a[2].(ast.Expr)})
		})

	set(sdd, "VAR-TYPE-OPT", []string{"colon", "VAR-TYPE"}, []translation.AttrRef{sym(1)}, passthrough)
	set(sdd, "VAR-TYPE-OPT", []string{""}, nil, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return (*ast.VarType)(nil)
	})

	set(sdd, "IF-STMT", []string{"kwif", "lparen", "EXPR", "rparen", "BLOCK", "ELSE-OPT"},
		[]translation.AttrRef{tok(0), sym(2), sym(4), sym(5)},
		func(a []translation.NodeAttrValue) translation.NodeAttrValue {
			return ast.StmtKind(&ast.If{Tok_: a[0].(types.Token), Cond: a[1].(ast.Expr), Then: a[2].([]ast.Stmt), Else: a[3].([]ast.Stmt)})
		})

	set(sdd, "ELSE-OPT", []string{"kwelse", "BLOCK"}, []translation.AttrRef{sym(1)}, passthrough)
	set(sdd, "ELSE-OPT", []string{"kwelse", "IF-STMT"}, []translation.AttrRef{sym(1)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []ast.Stmt{{Inner: a[0].(ast.StmtKind)}}
	})
	set(sdd, "ELSE-OPT", []string{""}, nil, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []ast.Stmt(nil)
	})

	set(sdd, "WHILE-STMT", []string{"kwwhile", "lparen", "EXPR", "rparen", "BLOCK"},
		[]translation.AttrRef{tok(0), sym(2), sym(4)},
		func(a []translation.NodeAttrValue) translation.NodeAttrValue {
			return ast.StmtKind(&ast.While{Tok_: a[0].(types.Token), Cond: a[1].(ast.Expr), Body: a[2].([]ast.Stmt)})
		})

	set(sdd, "FOR-STMT", []string{"kwfor", "lparen", "id", "kwin", "EXPR", "rparen", "BLOCK"},
		[]translation.AttrRef{tok(0), tok(2), sym(4), sym(6)},
		func(a []translation.NodeAttrValue) translation.NodeAttrValue {
			return ast.StmtKind(&ast.For{Tok_: a[0].(types.Token), Var: a[1].(types.Token), Iterable: a[2].(ast.Expr), Body: a[3].([]ast.Stmt)})
		})

	set(sdd, "RETURN-STMT", []string{"kwreturn", "RETURN-VALUE-OPT", "semi"},
		[]translation.AttrRef{tok(0), sym(1)},
		func(a []translation.NodeAttrValue) translation.NodeAttrValue {
			var v ast.Expr
			if a[1] != nil {
				v = a[1].(ast.Expr)
			}
			return ast.StmtKind(&ast.Return{Tok_: a[0].(types.Token), Value: v})
		})
	set(sdd, "RETURN-VALUE-OPT", []string{"EXPR"}, []translation.AttrRef{sym(0)}, passthrough)
	set(sdd, "RETURN-VALUE-OPT", []string{""}, nil, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Expr(nil)
	})

	set(sdd, "BREAK-STMT", []string{"kwbreak", "semi"}, []translation.AttrRef{tok(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.StmtKind(&ast.Break{Tok_: a[0].(types.Token)})
	})
	set(sdd, "CONTINUE-STMT", []string{"kwcontinue", "semi"}, []translation.AttrRef{tok(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.StmtKind(&ast.Continue{Tok_: a[0].(types.Token)})
	})

	set(sdd, "SWITCH-STMT", []string{"kwswitch", "lparen", "EXPR", "rparen", "lbrace", "CASE-LIST", "DEFAULT-OPT", "rbrace"},
		[]translation.AttrRef{tok(0), sym(2), sym(5), sym(6)},
		func(a []translation.NodeAttrValue) translation.NodeAttrValue {
			var def []ast.Stmt
			if a[3] != nil {
				def = a[3].([]ast.Stmt)
			}
			return ast.StmtKind(&ast.Switch{Tok_: a[0].(types.Token), Subject: a[1].(ast.Expr), Cases: a[2].([]ast.SwitchCase), Default: def})
		})

	set(sdd, "CASE-LIST", []string{"CASE-LIST", "CASE"}, []translation.AttrRef{sym(0), sym(1)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return append(a[0].([]ast.SwitchCase), a[1].(ast.SwitchCase))
	})
	set(sdd, "CASE-LIST", []string{""}, nil, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []ast.SwitchCase{}
	})

	set(sdd, "CASE", []string{"kwcase", "VAR-TYPE", "BLOCK"}, []translation.AttrRef{sym(1), sym(2)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.SwitchCase{Type: a[0].(*ast.VarType), Body: a[1].([]ast.Stmt)}
	})

	set(sdd, "DEFAULT-OPT", []string{"kwdefault", "BLOCK"}, []translation.AttrRef{sym(1)}, passthrough)
	set(sdd, "DEFAULT-OPT", []string{""}, nil, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []ast.Stmt(nil)
	})

	set(sdd, "COMMENT-STMT", []string{"comment"}, []translation.AttrRef{tok(0), text(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.StmtKind(&ast.Comment{Token: a[0].(types.Token), Text: a[1].(string)})
	})
}

func registerExpressions(sdd ictiobus.SDD) {
	set(sdd, "EXPR", []string{"OR-EXPR"}, []translation.AttrRef{sym(0)}, passthrough)

	binary := func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Expr(&ast.Binary{Op: a[1].(types.Token), Left: a[0].(ast.Expr), Right: a[2].(ast.Expr)})
	}
	binLevel := func(head, lower, op string) {
		set(sdd, head, []string{head, op, lower}, []translation.AttrRef{sym(0), tok(1), sym(2)}, binary)
	}

	set(sdd, "OR-EXPR", []string{"AND-EXPR"}, []translation.AttrRef{sym(0)}, passthrough)
	binLevel("OR-EXPR", "AND-EXPR", "kwor")

	set(sdd, "AND-EXPR", []string{"EQ-EXPR"}, []translation.AttrRef{sym(0)}, passthrough)
	binLevel("AND-EXPR", "EQ-EXPR", "kwand")

	set(sdd, "EQ-EXPR", []string{"REL-EXPR"}, []translation.AttrRef{sym(0)}, passthrough)
	binLevel("EQ-EXPR", "REL-EXPR", "eqeq")
	binLevel("EQ-EXPR", "REL-EXPR", "bangeq")

	set(sdd, "REL-EXPR", []string{"ADD-EXPR"}, []translation.AttrRef{sym(0)}, passthrough)
	binLevel("REL-EXPR", "ADD-EXPR", "lt")
	binLevel("REL-EXPR", "ADD-EXPR", "le")
	binLevel("REL-EXPR", "ADD-EXPR", "gt")
	binLevel("REL-EXPR", "ADD-EXPR", "ge")

	set(sdd, "ADD-EXPR", []string{"MUL-EXPR"}, []translation.AttrRef{sym(0)}, passthrough)
	binLevel("ADD-EXPR", "MUL-EXPR", "plus")
	binLevel("ADD-EXPR", "MUL-EXPR", "minus")

	set(sdd, "MUL-EXPR", []string{"UNARY-EXPR"}, []translation.AttrRef{sym(0)}, passthrough)
	binLevel("MUL-EXPR", "UNARY-EXPR", "star")
	binLevel("MUL-EXPR", "UNARY-EXPR", "slash")
	binLevel("MUL-EXPR", "UNARY-EXPR", "percent")

	unary := func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Expr(&ast.Unary{Op: a[0].(types.Token), Operand: a[1].(ast.Expr)})
	}
	set(sdd, "UNARY-EXPR", []string{"minus", "UNARY-EXPR"}, []translation.AttrRef{tok(0), sym(1)}, unary)
	set(sdd, "UNARY-EXPR", []string{"bang", "UNARY-EXPR"}, []translation.AttrRef{tok(0), sym(1)}, unary)
	set(sdd, "UNARY-EXPR", []string{"CALL-EXPR"}, []translation.AttrRef{sym(0)}, passthrough)

	set(sdd, "CALL-EXPR", []string{"CALL-EXPR", "lparen", "ARGS-OPT", "rparen"},
		[]translation.AttrRef{sym(0), tok(1), sym(2)},
		func(a []translation.NodeAttrValue) translation.NodeAttrValue {
			parenTok := a[1].(types.Token)
			return ast.Expr(&ast.Call{Callee: a[0].(ast.Expr), Args: a[2].([]ast.Expr), Paren: parenTok, Line: parenTok.Line()})
		})
	set(sdd, "CALL-EXPR", []string{"CALL-EXPR", "dot", "id"}, []translation.AttrRef{sym(0), tok(2)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Expr(&ast.Get{Receiver: a[0].(ast.Expr), Name: a[1].(types.Token)})
	})
	set(sdd, "CALL-EXPR", []string{"CALL-EXPR", "lbracket", "EXPR", "rbracket"},
		[]translation.AttrRef{sym(0), tok(1), sym(2)},
		func(a []translation.NodeAttrValue) translation.NodeAttrValue {
			return ast.Expr(&ast.Index{Collection: a[0].(ast.Expr), Idx: a[2].(ast.Expr), Bracket: a[1].(types.Token)})
		})
	set(sdd, "CALL-EXPR", []string{"PRIMARY"}, []translation.AttrRef{sym(0)}, passthrough)

	set(sdd, "ARGS-OPT", []string{"ARGS"}, []translation.AttrRef{sym(0)}, passthrough)
	set(sdd, "ARGS-OPT", []string{""}, nil, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []ast.Expr{}
	})
	set(sdd, "ARGS", []string{"ARGS", "comma", "EXPR"}, []translation.AttrRef{sym(0), sym(2)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return append(a[0].([]ast.Expr), a[1].(ast.Expr))
	})
	set(sdd, "ARGS", []string{"EXPR"}, []translation.AttrRef{sym(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []ast.Expr{a[0].(ast.Expr)}
	})

	set(sdd, "PRIMARY", []string{"intnum"}, []translation.AttrRef{tok(0), text(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		v, _ := strconv.ParseInt(a[1].(string), 10, 64)
		return ast.Expr(&ast.Literal{Token: a[0].(types.Token), Value: v})
	})
	set(sdd, "PRIMARY", []string{"floatnum"}, []translation.AttrRef{tok(0), text(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		v, _ := strconv.ParseFloat(a[1].(string), 64)
		return ast.Expr(&ast.Literal{Token: a[0].(types.Token), Value: v})
	})
	set(sdd, "PRIMARY", []string{"strlit"}, []translation.AttrRef{tok(0), text(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		raw := a[1].(string)
		return ast.Expr(&ast.Literal{Token: a[0].(types.Token), Value: strings.Trim(raw, `"`)})
	})
	set(sdd, "PRIMARY", []string{"kwtrue"}, []translation.AttrRef{tok(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Expr(&ast.Literal{Token: a[0].(types.Token), Value: true})
	})
	set(sdd, "PRIMARY", []string{"kwfalse"}, []translation.AttrRef{tok(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Expr(&ast.Literal{Token: a[0].(types.Token), Value: false})
	})
	set(sdd, "PRIMARY", []string{"kwnull"}, []translation.AttrRef{tok(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Expr(&ast.Literal{Token: a[0].(types.Token), Value: nil})
	})
	set(sdd, "PRIMARY", []string{"id"}, []translation.AttrRef{tok(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Expr(&ast.Variable{Name: a[0].(types.Token)})
	})
	set(sdd, "PRIMARY", []string{"kwself"}, []translation.AttrRef{tok(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Expr(&ast.Self{Token: a[0].(types.Token)})
	})
	set(sdd, "PRIMARY", []string{"kwsuper"}, []translation.AttrRef{tok(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Expr(&ast.Super{Token: a[0].(types.Token)})
	})
	set(sdd, "PRIMARY", []string{"lparen", "EXPR", "rparen"}, []translation.AttrRef{tok(0), sym(1)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Expr(&ast.Grouping{Paren: a[0].(types.Token), Inner: a[1].(ast.Expr)})
	})
	set(sdd, "PRIMARY", []string{"lbracket", "ARRAY-ELEMS-OPT", "rbracket"}, []translation.AttrRef{tok(0), sym(1)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return ast.Expr(&ast.Array{Bracket: a[0].(types.Token), Elements: a[1].([]ast.Expr)})
	})
	set(sdd, "PRIMARY", []string{"lbrace", "DICT-ENTRIES-OPT", "rbrace"}, []translation.AttrRef{tok(0), sym(1)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		entries := a[1].([]dictEntry)
		keys := make([]ast.Expr, len(entries))
		values := make([]ast.Expr, len(entries))
		for i, e := range entries {
			keys[i] = e.Key
			values[i] = e.Value
		}
		return ast.Expr(&ast.Dictionary{Brace: a[0].(types.Token), Keys: keys, Values: values})
	})

	set(sdd, "ARRAY-ELEMS-OPT", []string{"ARRAY-ELEMS"}, []translation.AttrRef{sym(0)}, passthrough)
	set(sdd, "ARRAY-ELEMS-OPT", []string{""}, nil, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []ast.Expr{}
	})
	set(sdd, "ARRAY-ELEMS", []string{"ARRAY-ELEMS", "comma", "EXPR"}, []translation.AttrRef{sym(0), sym(2)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return append(a[0].([]ast.Expr), a[1].(ast.Expr))
	})
	set(sdd, "ARRAY-ELEMS", []string{"EXPR"}, []translation.AttrRef{sym(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []ast.Expr{a[0].(ast.Expr)}
	})

	set(sdd, "DICT-ENTRIES-OPT", []string{"DICT-ENTRIES"}, []translation.AttrRef{sym(0)}, passthrough)
	set(sdd, "DICT-ENTRIES-OPT", []string{""}, nil, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []dictEntry{}
	})
	set(sdd, "DICT-ENTRIES", []string{"DICT-ENTRIES", "comma", "DICT-ENTRY"}, []translation.AttrRef{sym(0), sym(2)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return append(a[0].([]dictEntry), a[1].(dictEntry))
	})
	set(sdd, "DICT-ENTRIES", []string{"DICT-ENTRY"}, []translation.AttrRef{sym(0)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return []dictEntry{a[0].(dictEntry)}
	})
	set(sdd, "DICT-ENTRY", []string{"EXPR", "colon", "EXPR"}, []translation.AttrRef{sym(0), sym(2)}, func(a []translation.NodeAttrValue) translation.NodeAttrValue {
		return dictEntry{Key: a[0].(ast.Expr), Value: a[1].(ast.Expr)}
	})
}
