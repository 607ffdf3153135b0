package checker

import (
	"github.com/dekarrin/minnow/internal/ictiobus/icterrors"
	"github.com/dekarrin/minnow/internal/lang/ast"
	"github.com/dekarrin/minnow/internal/lang/scope"
	"github.com/dekarrin/minnow/internal/lang/types"
)

func (c *Checker) checkExpr(e ast.Expr, sc *scope.Scope) (types.Type, error) {
	switch ex := e.(type) {
	case *ast.Literal:
		return literalType(ex), nil
	case *ast.Variable:
		v, ok := sc.Get(ex.Name.Lexeme())
		if !ok {
			return nil, icterrors.NewNameErrorFromToken("undeclared identifier "+ex.Name.Lexeme(), ex.Name)
		}
		t, ok := v.(types.Type)
		if !ok {
			return nil, icterrors.NewNameErrorFromToken(ex.Name.Lexeme()+" does not name a value", ex.Name)
		}
		return t, nil
	case *ast.Self:
		if c.currentClass == nil {
			return nil, icterrors.NewNameErrorFromToken("self used outside of a method", ex.Token)
		}
		return c.currentClass, nil
	case *ast.Super:
		if c.currentClass == nil || c.currentClass.Super == nil {
			return nil, icterrors.NewNameErrorFromToken("super used outside of a subclass method", ex.Token)
		}
		return c.currentClass.Super, nil
	case *ast.Grouping:
		return c.checkExpr(ex.Inner, sc)
	case *ast.Unary:
		return c.checkUnary(ex, sc)
	case *ast.Binary:
		return c.checkBinary(ex, sc)
	case *ast.Call:
		return c.checkCall(ex, sc)
	case *ast.Get:
		return c.checkGet(ex, sc)
	case *ast.Index:
		return c.checkIndex(ex, sc)
	case *ast.Array:
		return c.checkArray(ex, sc)
	case *ast.Dictionary:
		return c.checkDictionary(ex, sc)
	default:
		return nil, icterrors.NewTypeErrorFromToken("unsupported expression", e.Tok())
	}
}

func literalType(lit *ast.Literal) types.Type {
	switch lit.Value.(type) {
	case int64:
		return types.TInt
	case float64:
		return types.TFloat
	case string:
		return types.TString
	case bool:
		return types.TBool
	default:
		return types.TNull
	}
}

func (c *Checker) checkUnary(ex *ast.Unary, sc *scope.Scope) (types.Type, error) {
	operandType, err := c.checkExpr(ex.Operand, sc)
	if err != nil {
		return nil, err
	}
	switch ex.Op.Lexeme() {
	case "-":
		if _, ok := operandType.(types.Atomic); !ok || !(operandType.Equal(types.TInt) || operandType.Equal(types.TFloat)) {
			return nil, icterrors.NewTypeErrorFromToken("unary - requires a numeric operand, got "+operandType.String(), ex.Op)
		}
		return operandType, nil
	case "!":
		if !operandType.Equal(types.TBool) {
			return nil, icterrors.NewTypeErrorFromToken("unary ! requires a bool operand, got "+operandType.String(), ex.Op)
		}
		return types.TBool, nil
	default:
		return nil, icterrors.NewTypeErrorFromToken("unknown unary operator "+ex.Op.Lexeme(), ex.Op)
	}
}

func (c *Checker) checkBinary(ex *ast.Binary, sc *scope.Scope) (types.Type, error) {
	leftType, err := c.checkExpr(ex.Left, sc)
	if err != nil {
		return nil, err
	}
	rightType, err := c.checkExpr(ex.Right, sc)
	if err != nil {
		return nil, err
	}

	switch ex.Op.Lexeme() {
	case "+", "-", "*", "/", "%":
		if ex.Op.Lexeme() == "+" && leftType.Equal(types.TString) && rightType.Equal(types.TString) {
			return types.TString, nil
		}
		lub, ok := types.NumericLUB(leftType, rightType)
		if !ok {
			return nil, icterrors.NewTypeErrorFromToken("operator "+ex.Op.Lexeme()+" requires numeric operands, got "+leftType.String()+" and "+rightType.String(), ex.Op)
		}
		return lub, nil
	case "==", "!=":
		return types.TBool, nil
	case "<", "<=", ">", ">=":
		if _, ok := types.NumericLUB(leftType, rightType); ok {
			return types.TBool, nil
		}
		if leftType.Equal(types.TString) && rightType.Equal(types.TString) {
			return types.TBool, nil
		}
		return nil, icterrors.NewTypeErrorFromToken("operator "+ex.Op.Lexeme()+" requires two numerics or two strings", ex.Op)
	case "and", "or":
		if !leftType.Equal(types.TBool) || !rightType.Equal(types.TBool) {
			return nil, icterrors.NewTypeErrorFromToken("operator "+ex.Op.Lexeme()+" requires two bool operands", ex.Op)
		}
		return types.TBool, nil
	default:
		return nil, icterrors.NewTypeErrorFromToken("unknown binary operator "+ex.Op.Lexeme(), ex.Op)
	}
}

func (c *Checker) checkCall(ex *ast.Call, sc *scope.Scope) (types.Type, error) {
	calleeType, err := c.checkExpr(ex.Callee, sc)
	if err != nil {
		return nil, err
	}
	fn, ok := calleeType.(*types.Function)
	if !ok {
		return nil, icterrors.NewTypeErrorFromToken("cannot call a value of type "+calleeType.String(), ex.Paren)
	}
	if len(ex.Args) != len(fn.Params) {
		return nil, icterrors.NewTypeErrorFromToken("wrong number of arguments to "+fn.Name, ex.Paren)
	}
	for i, arg := range ex.Args {
		argType, err := c.checkExpr(arg, sc)
		if err != nil {
			return nil, err
		}
		if !types.AssignableToParam(argType, fn.Params[i]) {
			return nil, icterrors.NewTypeErrorFromToken("argument type "+argType.String()+" does not match parameter type "+fn.Params[i].String(), ex.Paren)
		}
	}
	return fn.Return, nil
}

func (c *Checker) checkGet(ex *ast.Get, sc *scope.Scope) (types.Type, error) {
	receiverType, err := c.checkExpr(ex.Receiver, sc)
	if err != nil {
		return nil, err
	}
	class, ok := receiverType.(*types.Class)
	if !ok {
		// §9 open question: reject getattr-style access on a Function (or
		// any other non-class) binding rather than returning a zero value.
		return nil, icterrors.NewClassErrorFromToken("invalid attribute access on "+receiverType.String(), ex.Name)
	}
	v, found := lookupMember(class, ex.Name.Lexeme())
	if !found {
		return nil, icterrors.NewNameErrorFromToken("undeclared attribute "+ex.Name.Lexeme()+" on "+class.Name, ex.Name)
	}
	t, ok := v.(types.Type)
	if !ok {
		return nil, icterrors.NewClassErrorFromToken("invalid attribute access on "+class.Name, ex.Name)
	}
	return t, nil
}

func (c *Checker) checkIndex(ex *ast.Index, sc *scope.Scope) (types.Type, error) {
	collType, err := c.checkExpr(ex.Collection, sc)
	if err != nil {
		return nil, err
	}
	idxType, err := c.checkExpr(ex.Idx, sc)
	if err != nil {
		return nil, err
	}
	switch coll := collType.(type) {
	case *types.List:
		if !idxType.Equal(types.TInt) {
			return nil, icterrors.NewTypeErrorFromToken("list index must be int, got "+idxType.String(), ex.Bracket)
		}
		return coll.Elem, nil
	case *types.Dict:
		if !types.Assignable(idxType, coll.Key) {
			return nil, icterrors.NewTypeErrorFromToken("dict index must be "+coll.Key.String()+", got "+idxType.String(), ex.Bracket)
		}
		return coll.Value, nil
	default:
		return nil, icterrors.NewTypeErrorFromToken("cannot index a value of type "+collType.String(), ex.Bracket)
	}
}

func (c *Checker) checkArray(ex *ast.Array, sc *scope.Scope) (types.Type, error) {
	if len(ex.Elements) == 0 {
		return &types.List{Elem: types.TUnknown}, nil
	}
	common, err := c.commonTypeOf(ex.Elements, sc)
	if err != nil {
		return nil, err
	}
	return &types.List{Elem: common}, nil
}

func (c *Checker) checkDictionary(ex *ast.Dictionary, sc *scope.Scope) (types.Type, error) {
	if len(ex.Keys) == 0 {
		return &types.Dict{Key: types.TUnknown, Value: types.TUnknown}, nil
	}
	keyTypes := make([]types.Type, len(ex.Keys))
	for i, k := range ex.Keys {
		kt, err := c.checkExpr(k, sc)
		if err != nil {
			return nil, err
		}
		if !types.IsSubtype(kt, types.TFloat) && !kt.Equal(types.TString) {
			return nil, icterrors.NewTypeErrorFromToken("dict keys must be float-or-below or string, got "+kt.String(), k.Tok())
		}
		keyTypes[i] = kt
	}
	commonKey := keyTypes[0]
	for _, kt := range keyTypes[1:] {
		commonKey = types.CommonType(commonKey, kt)
	}
	commonValue, err := c.commonTypeOf(ex.Values, sc)
	if err != nil {
		return nil, err
	}
	return &types.Dict{Key: commonKey, Value: commonValue}, nil
}

func (c *Checker) commonTypeOf(exprs []ast.Expr, sc *scope.Scope) (types.Type, error) {
	common, err := c.checkExpr(exprs[0], sc)
	if err != nil {
		return nil, err
	}
	for _, e := range exprs[1:] {
		t, err := c.checkExpr(e, sc)
		if err != nil {
			return nil, err
		}
		common = types.CommonType(common, t)
	}
	return common, nil
}
