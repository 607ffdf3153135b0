// Package checker implements the single-pass pre-registration plus tree-
// walk type checker of §4.7: it resolves names against internal/lang/scope,
// checks structural types from internal/lang/types, and raises the
// eight §7 diagnostic kinds (internal/ictiobus/icterrors) on the first
// violation it finds. There is no error recovery: Check returns the first
// diagnostic it hits, matching §7's "no errors are recovered from" policy.
package checker

import (
	"github.com/dekarrin/minnow/internal/ictiobus/icterrors"
	ictiotypes "github.com/dekarrin/minnow/internal/ictiobus/types"
	"github.com/dekarrin/minnow/internal/lang/ast"
	"github.com/dekarrin/minnow/internal/lang/scope"
	"github.com/dekarrin/minnow/internal/lang/types"
)

// Checker holds the state of one checking pass: the global scope, the
// table of declared classes (for type-name resolution), and the
// call-scoped "current function / current class / loop depth" the spec's
// concurrency model calls out as owned, not shared, state (§5).
type Checker struct {
	global  *scope.Scope
	classes map[string]*types.Class

	currentFunction *types.Function
	currentClass    *types.Class
	inInit          bool
	loopDepth       int
}

// New returns an empty Checker ready for one call to Check.
func New() *Checker {
	return &Checker{
		global:  scope.New(nil),
		classes: map[string]*types.Class{},
	}
}

// Check runs pre-registration and then walks every top-level declaration.
// It returns the first diagnostic encountered, or nil if the program is
// well-typed.
func (c *Checker) Check(prog *ast.Program) error {
	if err := c.preRegister(prog); err != nil {
		return err
	}

	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.Function:
			if err := c.checkFunction(d, nil); err != nil {
				return err
			}
		case *ast.Class:
			if err := c.checkClassBody(d); err != nil {
				return err
			}
		}
	}
	return nil
}

// ---- pre-registration (§4.7 steps 1-5) ----

func (c *Checker) preRegister(prog *ast.Program) error {
	// Step 1: create a class value per Class decl, empty member scope
	// parented at global.
	for _, decl := range prog.Decls {
		cd, ok := decl.(*ast.Class)
		if !ok {
			continue
		}
		if _, exists := c.classes[cd.Name.Lexeme()]; exists {
			return icterrors.NewNameErrorFromToken("duplicate class "+cd.Name.Lexeme(), cd.Name)
		}
		c.classes[cd.Name.Lexeme()] = &types.Class{
			Name:    cd.Name.Lexeme(),
			Members: scope.New(c.global),
		}
	}
	// Hook superclasses now that every class stub exists.
	for _, decl := range prog.Decls {
		cd, ok := decl.(*ast.Class)
		if !ok || cd.Superclass == nil {
			continue
		}
		superName := (*cd.Superclass).Lexeme()
		super, ok := c.classes[superName]
		if !ok {
			return icterrors.NewNameErrorFromToken("unknown superclass "+superName, *cd.Superclass)
		}
		c.classes[cd.Name.Lexeme()].Super = super
	}

	// Step 2: register methods, synthesize constructors.
	for _, decl := range prog.Decls {
		cd, ok := decl.(*ast.Class)
		if !ok {
			continue
		}
		class := c.classes[cd.Name.Lexeme()]
		var initFn *ast.Function
		for _, m := range cd.Methods {
			sig, err := c.resolveFunctionSig(m)
			if err != nil {
				return err
			}
			if err := class.Members.Declare(m.Name.Lexeme(), sig); err != nil {
				return icterrors.NewNameErrorFromToken(err.Error(), m.Name)
			}
			if m.Name.Lexeme() == "init" {
				initFn = m
			}
		}
		var ctor *types.Function
		if initFn != nil {
			sig, err := c.resolveFunctionSig(initFn)
			if err != nil {
				return err
			}
			ctor = &types.Function{Name: class.Name, Params: sig.Params, Return: class, DeclLine: initFn.Name.Line()}
		} else {
			ctor = &types.Function{Name: class.Name, Params: nil, Return: class}
		}
		if err := c.global.Declare(class.Name, ctor); err != nil {
			return icterrors.NewNameErrorFromToken(err.Error(), cd.Name)
		}
	}

	// Step 3: inheritance checks.
	for _, decl := range prog.Decls {
		cd, ok := decl.(*ast.Class)
		if !ok {
			continue
		}
		class := c.classes[cd.Name.Lexeme()]
		if class.Super == nil {
			continue
		}
		if err := c.checkOverrides(cd, class); err != nil {
			return err
		}
	}

	// Step 4: register top-level functions.
	for _, decl := range prog.Decls {
		fd, ok := decl.(*ast.Function)
		if !ok {
			continue
		}
		sig, err := c.resolveFunctionSig(fd)
		if err != nil {
			return err
		}
		if err := c.global.Declare(fd.Name.Lexeme(), sig); err != nil {
			return icterrors.NewNameErrorFromToken(err.Error(), fd.Name)
		}
	}

	// Step 5: require main.
	mainBinding, ok := c.global.Get("main")
	mainFn, isFn := mainBinding.(*types.Function)
	if !ok || !isFn || len(mainFn.Params) != 0 || !mainFn.Return.Equal(types.TNull) {
		return icterrors.NewProgramShapeError("program must contain a main method")
	}
	return nil
}

func (c *Checker) resolveFunctionSig(fn *ast.Function) (*types.Function, error) {
	params := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		t, err := c.resolveVarType(p.Type)
		if err != nil {
			return nil, err
		}
		params[i] = t
	}
	ret, err := c.resolveReturnType(fn.ReturnType)
	if err != nil {
		return nil, err
	}
	return &types.Function{Name: fn.Name.Lexeme(), Params: params, Return: ret, DeclLine: fn.Name.Line()}, nil
}

func (c *Checker) checkOverrides(cd *ast.Class, class *types.Class) error {
	for _, m := range cd.Methods {
		name := m.Name.Lexeme()
		if name == "init" {
			sig, err := c.resolveFunctionSig(m)
			if err != nil {
				return err
			}
			if !sig.Return.Equal(types.TNull) {
				return icterrors.NewClassErrorFromToken("init must return void", m.Name)
			}
			continue
		}
		parentBinding, found := lookupMember(class.Super, name)
		if !found {
			continue
		}
		parentFn, ok := parentBinding.(*types.Function)
		if !ok {
			continue
		}
		childFn, err := c.resolveFunctionSig(m)
		if err != nil {
			return err
		}
		if len(childFn.Params) != len(parentFn.Params) {
			return icterrors.NewClassErrorFromToken("override "+name+" must have the same arity as the overridden method", m.Name)
		}
		for i := range childFn.Params {
			if !types.IsSubtype(parentFn.Params[i], childFn.Params[i]) {
				return icterrors.NewClassErrorFromToken("override "+name+" narrows parameter type", m.Name)
			}
		}
		if !types.IsSubtype(childFn.Return, parentFn.Return) {
			return icterrors.NewClassErrorFromToken("override "+name+" widens return type", m.Name)
		}
	}
	return nil
}

// lookupMember climbs a class's superclass chain (not its member scope's
// parent chain, which points at global per step 1) looking for name.
func lookupMember(class *types.Class, name string) (any, bool) {
	for cur := class; cur != nil; cur = cur.Super {
		if cur.Members.DeclaredLocally(name) {
			v, _ := cur.Members.Get(name)
			return v, true
		}
	}
	return nil, false
}

// ---- type annotation resolution ----

func (c *Checker) resolveVarType(vt *ast.VarType) (types.Type, error) {
	if vt == nil {
		return types.TObject, nil
	}
	name := vt.Name.Lexeme()
	switch name {
	case "int":
		return types.TInt, nil
	case "float":
		return types.TFloat, nil
	case "bool":
		return types.TBool, nil
	case "string":
		return types.TString, nil
	case "object":
		return types.TObject, nil
	case "null":
		return types.TNull, nil
	case "type":
		return types.TMeta, nil
	case "list":
		if vt.Nested == nil {
			return nil, icterrors.NewTypeErrorFromToken("list requires a type argument", vt.Name)
		}
		elem, err := c.resolveVarType(vt.Nested)
		if err != nil {
			return nil, err
		}
		return &types.List{Elem: elem}, nil
	case "dict":
		if vt.Nested == nil || vt.SecondNested == nil {
			return nil, icterrors.NewTypeErrorFromToken("dict requires two type arguments", vt.Name)
		}
		key, err := c.resolveVarType(vt.Nested)
		if err != nil {
			return nil, err
		}
		val, err := c.resolveVarType(vt.SecondNested)
		if err != nil {
			return nil, err
		}
		return &types.Dict{Key: key, Value: val}, nil
	default:
		if class, ok := c.classes[name]; ok {
			return class, nil
		}
		return nil, icterrors.NewNameErrorFromToken("unknown type "+name, vt.Name)
	}
}

func (c *Checker) resolveReturnType(vt *ast.VarType) (types.Type, error) {
	if vt == nil {
		return types.TNull, nil
	}
	if vt.Name.Lexeme() == "void" {
		return types.TNull, nil
	}
	return c.resolveVarType(vt)
}

// ---- top-level walk ----

func (c *Checker) checkFunction(fn *ast.Function, class *types.Class) error {
	sig, err := c.resolveFunctionSig(fn)
	if err != nil {
		return err
	}

	fnScope := scope.New(c.global)
	for i, p := range fn.Params {
		if err := fnScope.Declare(p.Name.Lexeme(), sig.Params[i]); err != nil {
			return icterrors.NewNameErrorFromToken(err.Error(), p.Name)
		}
	}
	if class != nil {
		if err := fnScope.Declare("self", class); err != nil {
			return icterrors.NewNameErrorFromToken(err.Error(), fn.Name)
		}
	}

	prevFn, prevClass, prevInit := c.currentFunction, c.currentClass, c.inInit
	c.currentFunction, c.currentClass, c.inInit = sig, class, class != nil && fn.Name.Lexeme() == "init"
	defer func() { c.currentFunction, c.currentClass, c.inInit = prevFn, prevClass, prevInit }()

	if c.inInit && class.Super != nil {
		if err := checkSuperInitFirst(fn.Body, fn.Name); err != nil {
			return err
		}
	}

	if err := c.checkBlock(fn.Body, fnScope); err != nil {
		return err
	}

	if !sig.Return.Equal(types.TNull) && !allPathsReturn(fn.Body) {
		return icterrors.NewControlFlowErrorFromToken("not all code paths of "+fn.Name.Lexeme()+" return a value", fn.Name)
	}
	return nil
}

func checkSuperInitFirst(body []ast.Stmt, fallback ictiotypes.Token) error {
	for _, s := range body {
		if _, isComment := s.Inner.(*ast.Comment); isComment {
			continue
		}
		es, ok := s.Inner.(*ast.ExpressionStatement)
		if !ok {
			return icterrors.NewClassErrorFromToken("first statement of init must be a call to super.init", s.Tok())
		}
		call, ok := es.Expr.(*ast.Call)
		if !ok {
			return icterrors.NewClassErrorFromToken("first statement of init must be a call to super.init", s.Tok())
		}
		get, ok := call.Callee.(*ast.Get)
		if !ok || get.Name.Lexeme() != "init" {
			return icterrors.NewClassErrorFromToken("first statement of init must be a call to super.init", s.Tok())
		}
		if _, ok := get.Receiver.(*ast.Super); !ok {
			return icterrors.NewClassErrorFromToken("first statement of init must be a call to super.init", s.Tok())
		}
		return nil
	}
	return icterrors.NewClassErrorFromToken("init must call super.init", fallback)
}

func (c *Checker) checkClassBody(cd *ast.Class) error {
	class := c.classes[cd.Name.Lexeme()]

	sorted := make([]*ast.Function, len(cd.Methods))
	copy(sorted, cd.Methods)
	for i := range sorted {
		if sorted[i].Name.Lexeme() == "init" {
			sorted[0], sorted[i] = sorted[i], sorted[0]
			break
		}
	}

	for _, m := range sorted {
		if err := c.checkFunction(m, class); err != nil {
			return err
		}
	}
	return nil
}
