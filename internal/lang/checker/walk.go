package checker

import (
	"github.com/dekarrin/minnow/internal/ictiobus/icterrors"
	"github.com/dekarrin/minnow/internal/lang/ast"
	"github.com/dekarrin/minnow/internal/lang/scope"
	"github.com/dekarrin/minnow/internal/lang/types"
)

func (c *Checker) checkBlock(body []ast.Stmt, sc *scope.Scope) error {
	for _, s := range body {
		if err := c.checkStmt(s.Inner, sc); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkStmt(s ast.StmtKind, sc *scope.Scope) error {
	switch st := s.(type) {
	case *ast.Comment:
		return nil
	case *ast.ExpressionStatement:
		_, err := c.checkExpr(st.Expr, sc)
		return err
	case *ast.VarDeclaration:
		return c.checkVarDeclaration(st, sc)
	case *ast.AttrDeclaration:
		return c.checkAttrDeclaration(st, sc)
	case *ast.Assignment:
		return c.checkAssignment(st, sc)
	case *ast.If:
		return c.checkIf(st, sc)
	case *ast.While:
		return c.checkWhile(st, sc)
	case *ast.For:
		return c.checkFor(st, sc)
	case *ast.Return:
		return c.checkReturn(st, sc)
	case *ast.Break:
		if c.loopDepth == 0 {
			return icterrors.NewControlFlowErrorFromToken("break outside of a loop", st.Tok())
		}
		return nil
	case *ast.Continue:
		if c.loopDepth == 0 {
			return icterrors.NewControlFlowErrorFromToken("continue outside of a loop", st.Tok())
		}
		return nil
	case *ast.Switch:
		return c.checkSwitch(st, sc)
	default:
		return nil
	}
}

func (c *Checker) checkVarDeclaration(st *ast.VarDeclaration, sc *scope.Scope) error {
	var declType types.Type
	if st.Type != nil {
		t, err := c.resolveVarType(st.Type)
		if err != nil {
			return err
		}
		declType = t
		if st.Init != nil {
			initType, err := c.checkExpr(st.Init, sc)
			if err != nil {
				return err
			}
			if !types.Assignable(initType, declType) {
				return icterrors.NewTypeErrorFromToken("cannot assign "+initType.String()+" to "+declType.String(), st.Name)
			}
		}
	} else {
		if st.Init == nil {
			return icterrors.NewTypeErrorFromToken("variable "+st.Name.Lexeme()+" needs a type annotation or an initializer", st.Name)
		}
		initType, err := c.checkExpr(st.Init, sc)
		if err != nil {
			return err
		}
		if initType.Equal(types.TNull) {
			return icterrors.NewTypeErrorFromToken("cannot infer type of "+st.Name.Lexeme()+" from null", st.Name)
		}
		if _, isFn := initType.(*types.Function); isFn {
			return icterrors.NewTypeErrorFromToken("cannot infer type of "+st.Name.Lexeme()+" from a function value", st.Name)
		}
		declType = initType
	}
	if err := sc.Declare(st.Name.Lexeme(), declType); err != nil {
		return icterrors.NewNameErrorFromToken(err.Error(), st.Name)
	}
	return nil
}

func (c *Checker) checkAttrDeclaration(st *ast.AttrDeclaration, sc *scope.Scope) error {
	if c.currentClass == nil || !c.inInit {
		return icterrors.NewClassErrorFromToken("attribute declarations are only allowed in init", st.Name)
	}
	declType, err := c.resolveVarType(st.Type)
	if err != nil {
		return err
	}
	if st.Init != nil {
		initType, err := c.checkExpr(st.Init, sc)
		if err != nil {
			return err
		}
		if !types.Assignable(initType, declType) {
			return icterrors.NewTypeErrorFromToken("cannot assign "+initType.String()+" to "+declType.String(), st.Name)
		}
	}
	if err := c.currentClass.Members.Declare(st.Name.Lexeme(), declType); err != nil {
		return icterrors.NewNameErrorFromToken(err.Error(), st.Name)
	}
	return nil
}

func (c *Checker) checkAssignment(st *ast.Assignment, sc *scope.Scope) error {
	targetType, err := c.checkExpr(st.Target, sc)
	if err != nil {
		return err
	}
	valueType, err := c.checkExpr(st.Value, sc)
	if err != nil {
		return err
	}
	if !types.Assignable(valueType, targetType) {
		return icterrors.NewTypeErrorFromToken("cannot assign "+valueType.String()+" to "+targetType.String(), st.Eq)
	}
	return nil
}

func (c *Checker) checkIf(st *ast.If, sc *scope.Scope) error {
	condType, err := c.checkExpr(st.Cond, sc)
	if err != nil {
		return err
	}
	if !condType.Equal(types.TBool) {
		return icterrors.NewTypeErrorFromToken("if condition must be bool", st.Tok())
	}
	if err := c.checkBlock(st.Then, scope.New(sc)); err != nil {
		return err
	}
	if st.Else != nil {
		if err := c.checkBlock(st.Else, scope.New(sc)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkWhile(st *ast.While, sc *scope.Scope) error {
	condType, err := c.checkExpr(st.Cond, sc)
	if err != nil {
		return err
	}
	if !condType.Equal(types.TBool) {
		return icterrors.NewTypeErrorFromToken("while condition must be bool", st.Tok())
	}
	c.loopDepth++
	defer func() { c.loopDepth-- }()
	return c.checkBlock(st.Body, scope.New(sc))
}

func (c *Checker) checkFor(st *ast.For, sc *scope.Scope) error {
	iterType, err := c.checkExpr(st.Iterable, sc)
	if err != nil {
		return err
	}
	var bindType types.Type
	switch it := iterType.(type) {
	case *types.List:
		bindType = it.Elem
	case *types.Dict:
		bindType = it.Key
	default:
		return icterrors.NewTypeErrorFromToken("for loop requires a list or dict, got "+iterType.String(), st.Tok())
	}
	bodyScope := scope.New(sc)
	if err := bodyScope.Declare(st.Var.Lexeme(), bindType); err != nil {
		return icterrors.NewNameErrorFromToken(err.Error(), st.Var)
	}
	c.loopDepth++
	defer func() { c.loopDepth-- }()
	return c.checkBlock(st.Body, bodyScope)
}

func (c *Checker) checkReturn(st *ast.Return, sc *scope.Scope) error {
	if c.currentFunction == nil {
		return icterrors.NewControlFlowErrorFromToken("return outside of a function", st.Tok())
	}
	var exprType types.Type = types.TNull
	if st.Value != nil {
		t, err := c.checkExpr(st.Value, sc)
		if err != nil {
			return err
		}
		exprType = t
	}
	if !types.Assignable(exprType, c.currentFunction.Return) {
		return icterrors.NewTypeErrorFromToken("cannot return "+exprType.String()+" from a function declared to return "+c.currentFunction.Return.String(), st.Tok())
	}
	return nil
}

func (c *Checker) checkSwitch(st *ast.Switch, sc *scope.Scope) error {
	subjectType, err := c.checkExpr(st.Subject, sc)
	if err != nil {
		return err
	}
	subjectVar, isVar := st.Subject.(*ast.Variable)

	for _, arm := range st.Cases {
		caseType, err := c.resolveVarType(arm.Type)
		if err != nil {
			return err
		}
		if !types.IsSubtype(subjectType, caseType) && !types.IsSubtype(caseType, subjectType) {
			return icterrors.NewTypeErrorFromToken("case type "+caseType.String()+" is not compatible with "+subjectType.String(), arm.Type.Tok())
		}
		caseScope := scope.New(sc)
		if isVar {
			if err := caseScope.Declare(subjectVar.Name.Lexeme(), caseType); err != nil {
				return icterrors.NewNameErrorFromToken(err.Error(), subjectVar.Name)
			}
		}
		if err := c.checkBlock(arm.Body, caseScope); err != nil {
			return err
		}
	}
	if st.Default != nil {
		if err := c.checkBlock(st.Default, scope.New(sc)); err != nil {
			return err
		}
	}
	return nil
}

// allPathsReturn is the conservative return-path analysis of §4.7: a block
// returns if it ends with Return, or with an If whose both branches
// (non-empty else required) return.
func allPathsReturn(body []ast.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	last := body[len(body)-1].Inner
	switch s := last.(type) {
	case *ast.Return:
		return true
	case *ast.If:
		return len(s.Else) > 0 && allPathsReturn(s.Then) && allPathsReturn(s.Else)
	default:
		return false
	}
}
