package visit

import (
	"fmt"

	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/context"
	"github.com/jdm64/saphyr/internal/instructions"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/internal/value"
)

// Eval resolves any Expression node to its rvalue, matching CGNExpression's
// visit table. Every Variable-implementing node is routed through
// EvalVariable and then read through with loadVariable, so this is the one
// place the addressable-vs-final-value distinction documented on
// EvalVariable gets resolved into a plain value.
func Eval(c *context.CodeContext, e ast.Expression) value.RValue {
	switch n := e.(type) {
	case ast.Variable:
		return loadVariable(c, n)
	case *ast.NullPointer:
		return evalNullPointer(c, n)
	case *ast.StringLiteral:
		return evalStringLiteral(c, n)
	case *ast.BoolConst:
		return evalBoolConst(c, n)
	case *ast.CharConst:
		return evalCharConst(c, n)
	case *ast.IntConst:
		return evalIntConst(c, n)
	case *ast.FloatConst:
		return evalFloatConst(c, n)
	case *ast.Assignment:
		return evalAssignment(c, n)
	case *ast.TernaryOperator:
		return evalTernary(c, n)
	case *ast.NewExpression:
		return evalNewExpression(c, n)
	case *ast.LogicalOperator:
		return evalLogical(c, n)
	case *ast.CompareOperator:
		return evalCompare(c, n)
	case *ast.BinaryMathOperator:
		return evalBinaryMath(c, n)
	case *ast.NullCoalescing:
		return evalNullCoalescing(c, n)
	case *ast.UnaryMathOperator:
		return evalUnary(c, n)
	case *ast.Increment:
		return evalIncrement(c, n)
	default:
		c.Global.AddError(e.Tok(), "unrecognized expression")
		return value.Undef()
	}
}

func evalNullPointer(c *context.CodeContext, n *ast.NullPointer) value.RValue {
	voidPtr := c.Global.Types.Pointer(c.Global.Types.Void())
	return value.New(c.Builder().ConstNull(c.Global.BackendType(voidPtr)), voidPtr)
}

// stringLiteralSeq numbers each string constant's backing global uniquely.
// Codegen for one compilation unit runs on a single goroutine (the visitors
// thread a single CodeContext through a depth-first AST walk), so this
// needs no synchronization.
var stringLiteralSeq int

func evalStringLiteral(c *context.CodeContext, n *ast.StringLiteral) value.RValue {
	charTy := c.Global.Types.Int(8)
	arrTy := c.Global.Types.Array(charTy, uint64(len(n.Value)+1))
	name := fmt.Sprintf(".str.%d", stringLiteralSeq)
	stringLiteralSeq++
	g, ok := c.Global.Module.GetGlobal(name)
	if !ok {
		g = c.Global.Module.DeclareGlobal(name, c.Global.BackendType(arrTy))
	}
	b := c.Builder()
	i32 := c.Global.Types.Int(32)
	zero := b.ConstInt(c.Global.BackendType(i32), 0)
	ptr := b.GEP(g, []backend.Value{zero, zero}, "")
	return value.New(ptr, c.Global.Types.Pointer(charTy))
}

func evalBoolConst(c *context.CodeContext, n *ast.BoolConst) value.RValue {
	ty := c.Global.Types.Bool()
	var v int64
	if n.Value {
		v = 1
	}
	return value.New(c.Builder().ConstInt(c.Global.BackendType(ty), v), ty)
}

func evalCharConst(c *context.CodeContext, n *ast.CharConst) value.RValue {
	ty := c.Global.Types.Int(8)
	return value.New(c.Builder().ConstInt(c.Global.BackendType(ty), int64(n.Value)), ty)
}

func evalIntConst(c *context.CodeContext, n *ast.IntConst) value.RValue {
	ty := c.Global.Types.Int(32)
	return value.New(c.Builder().ConstInt(c.Global.BackendType(ty), n.Value), ty)
}

func evalFloatConst(c *context.CodeContext, n *ast.FloatConst) value.RValue {
	ty := c.Global.Types.Double()
	return value.New(c.Builder().ConstFloat(c.Global.BackendType(ty), n.Value), ty)
}

// evalAssignment stores rhs (cast to the lhs's declared type) through the
// lhs's address, matching CGNExpression's NAssignment handling. A compound
// form (`+=`, ...) loads the current value first and folds the operator in
// via instructions.BinaryOp before the store.
func evalAssignment(c *context.CodeContext, n *ast.Assignment) value.RValue {
	addr, elemTy := addressOf(c, n.Lhs)
	if !addr.IsValid() || elemTy == nil {
		return value.Undef()
	}
	rhs := Eval(c, n.Rhs)
	if !rhs.IsValid() {
		return value.Undef()
	}
	if n.Op != ast.OpAssign {
		op, ok := mapOp(n.Op)
		if !ok {
			c.Global.AddError(n.Tok(), "unrecognized compound-assignment operator")
			return value.Undef()
		}
		cur := instructions.Load(c, value.New(addr.Val, elemTy))
		rhs = instructions.BinaryOp(c, op, n.Tok(), cur, rhs)
		if !rhs.IsValid() {
			return value.Undef()
		}
	}
	instructions.CastTo(c, n.Tok(), &rhs, elemTy, false)
	c.Builder().Store(rhs.Val, addr.Val)
	return value.New(rhs.Val, elemTy)
}

// evalTernary builds the diamond-shaped control flow `cond ? t : f` needs:
// both arms run in their own block so only the taken side's side effects
// fire, joined by a phi carrying whichever arm executed.
func evalTernary(c *context.CodeContext, n *ast.TernaryOperator) value.RValue {
	cond := Eval(c, n.Cond)
	if !cond.IsValid() {
		return value.Undef()
	}
	boolTy := c.Global.Types.Bool()
	instructions.CastTo(c, n.Tok(), &cond, boolTy, false)

	b := c.Builder()
	trueBlock := c.CreateBlock("ternary.true")
	falseBlock := c.CreateBlock("ternary.false")
	doneBlock := c.CreateBlock("ternary.done")
	b.CondBr(cond.Val, trueBlock, falseBlock)

	c.PushBlock(trueBlock)
	tv := Eval(c, n.TrueVal)
	trueEnd := c.CurrBlock()
	b.Br(doneBlock)

	c.PushBlock(falseBlock)
	fv := Eval(c, n.FalseVal)
	falseEnd := c.CurrBlock()
	b.Br(doneBlock)

	c.PushBlock(doneBlock)
	if !tv.IsValid() || !fv.IsValid() {
		return value.Undef()
	}
	instructions.CastMatch(c, n.Tok(), &tv, &fv, true)

	phi := b.Phi(c.Global.BackendType(tv.Ty), "")
	b.AddIncoming(phi, tv.Val, trueEnd)
	b.AddIncoming(phi, fv.Val, falseEnd)
	return value.New(phi, tv.Ty)
}

// evalLogical short-circuits `&&`/`||` with a branch-and-phi, the same
// technique instructions.CallConstructor uses for its array-loop counter:
// the rhs only evaluates on the side where it can change the answer.
func evalLogical(c *context.CodeContext, n *ast.LogicalOperator) value.RValue {
	lhs := Eval(c, n.Lhs)
	if !lhs.IsValid() {
		return value.Undef()
	}
	boolTy := c.Global.Types.Bool()
	instructions.CastTo(c, n.Tok(), &lhs, boolTy, false)

	b := c.Builder()
	startBlock := c.CurrBlock()
	rhsBlock := c.CreateBlock("logic.rhs")
	doneBlock := c.CreateBlock("logic.done")
	if n.Op == ast.OpLogAnd {
		b.CondBr(lhs.Val, rhsBlock, doneBlock)
	} else {
		b.CondBr(lhs.Val, doneBlock, rhsBlock)
	}

	c.PushBlock(rhsBlock)
	rhs := Eval(c, n.Rhs)
	if !rhs.IsValid() {
		return value.Undef()
	}
	instructions.CastTo(c, n.Tok(), &rhs, boolTy, false)
	rhsEnd := c.CurrBlock()
	b.Br(doneBlock)

	c.PushBlock(doneBlock)
	phi := b.Phi(c.Global.BackendType(boolTy), "")
	b.AddIncoming(phi, lhs.Val, startBlock)
	b.AddIncoming(phi, rhs.Val, rhsEnd)
	return value.New(phi, boolTy)
}

func evalCompare(c *context.CodeContext, n *ast.CompareOperator) value.RValue {
	lhs := Eval(c, n.Lhs)
	rhs := Eval(c, n.Rhs)
	if !lhs.IsValid() || !rhs.IsValid() {
		return value.Undef()
	}
	cmp, ok := mapCmp(n.Op)
	if !ok {
		c.Global.AddError(n.Tok(), "unrecognized comparison operator")
		return value.Undef()
	}
	return instructions.Cmp(c, cmp, n.Tok(), lhs, rhs)
}

func evalBinaryMath(c *context.CodeContext, n *ast.BinaryMathOperator) value.RValue {
	lhs := Eval(c, n.Lhs)
	rhs := Eval(c, n.Rhs)
	if !lhs.IsValid() || !rhs.IsValid() {
		return value.Undef()
	}
	op, ok := mapOp(n.Op)
	if !ok {
		c.Global.AddError(n.Tok(), "unrecognized binary operator")
		return value.Undef()
	}
	return instructions.BinaryOp(c, op, n.Tok(), lhs, rhs)
}

// evalNullCoalescing is `lhs ?? rhs`: lhs if it is a non-null pointer,
// rhs otherwise. Built the same branch-and-phi way as evalTernary, testing
// lhs against its own null constant rather than casting it to bool.
func evalNullCoalescing(c *context.CodeContext, n *ast.NullCoalescing) value.RValue {
	lhs := Eval(c, n.Lhs)
	if !lhs.IsValid() {
		return value.Undef()
	}
	b := c.Builder()
	isNull := b.ICmp(backend.IntNE, lhs.Val, b.ConstNull(c.Global.BackendType(lhs.Ty)), "")

	startBlock := c.CurrBlock()
	rhsBlock := c.CreateBlock("coalesce.rhs")
	doneBlock := c.CreateBlock("coalesce.done")
	b.CondBr(isNull, doneBlock, rhsBlock)

	c.PushBlock(rhsBlock)
	rhs := Eval(c, n.Rhs)
	if !rhs.IsValid() {
		return value.Undef()
	}
	instructions.CastTo(c, n.Tok(), &rhs, lhs.Ty, false)
	rhsEnd := c.CurrBlock()
	b.Br(doneBlock)

	c.PushBlock(doneBlock)
	phi := b.Phi(c.Global.BackendType(lhs.Ty), "")
	b.AddIncoming(phi, lhs.Val, startBlock)
	b.AddIncoming(phi, rhs.Val, rhsEnd)
	return value.New(phi, lhs.Ty)
}

func evalUnary(c *context.CodeContext, n *ast.UnaryMathOperator) value.RValue {
	v := Eval(c, n.Expr)
	if !v.IsValid() {
		return value.Undef()
	}
	b := c.Builder()
	switch n.Op {
	case ast.OpNeg:
		zero := value.New(zeroValue(c, v.Ty), v.Ty)
		return instructions.BinaryOp(c, instructions.Sub, n.Tok(), zero, v)
	case ast.OpPos:
		return v
	case ast.OpNot:
		boolTy := c.Global.Types.Bool()
		instructions.CastTo(c, n.Tok(), &v, boolTy, false)
		one := b.ConstInt(c.Global.BackendType(boolTy), 1)
		return value.New(b.Xor(v.Val, one, ""), boolTy)
	case ast.OpBitNot:
		allOnes := b.ConstInt(c.Global.BackendType(v.Ty), -1)
		return value.New(b.Xor(v.Val, allOnes, ""), v.Ty)
	default:
		c.Global.AddError(n.Tok(), "unrecognized unary operator")
		return value.Undef()
	}
}

func zeroValue(c *context.CodeContext, ty types.Type) backend.Value {
	if ty.IsFloating() {
		return c.Builder().ConstFloat(c.Global.BackendType(ty), 0)
	}
	return c.Builder().ConstInt(c.Global.BackendType(ty), 0)
}

// evalIncrement loads, steps by one, stores back, and returns whichever of
// the old/new value `++`/`--` reports for its prefix/postfix form, matching
// CGNExpression's NIncrement handling.
func evalIncrement(c *context.CodeContext, n *ast.Increment) value.RValue {
	addr, elemTy := addressOf(c, n.Var)
	if !addr.IsValid() || elemTy == nil {
		return value.Undef()
	}
	cur := instructions.Load(c, value.New(addr.Val, elemTy))
	one := value.New(zeroValue(c, elemTy), elemTy)
	if elemTy.IsFloating() {
		one = value.New(c.Builder().ConstFloat(c.Global.BackendType(elemTy), 1), elemTy)
	} else {
		one = value.New(c.Builder().ConstInt(c.Global.BackendType(elemTy), 1), elemTy)
	}
	op := instructions.Add
	if n.Op == ast.OpDec {
		op = instructions.Sub
	}
	next := instructions.BinaryOp(c, op, n.Tok(), cur, one)
	if !next.IsValid() {
		return value.Undef()
	}
	instructions.CastTo(c, n.Tok(), &next, elemTy, false)
	c.Builder().Store(next.Val, addr.Val)
	if n.Postfix {
		return cur
	}
	return next
}

// evalNewExpression allocates storage for a `new` expression via the
// lazily-declared malloc external, then runs constructor synthesis or
// InitVariable's zero/copy-init fallback over it, matching Instructions.h's
// documented new/delete protocol (§4.10).
func evalNewExpression(c *context.CodeContext, n *ast.NewExpression) value.RValue {
	ty, count, hasCount := ResolveNewType(c, n.Type)
	if ty == nil {
		return value.Undef()
	}
	args, ok := evalArgs(c, n.Args)
	if !ok {
		return value.Undef()
	}

	i64 := c.Global.Types.Int(64)
	sizeVal := value.New(c.Builder().ConstInt(c.Global.BackendType(i64), int64(ty.AllocSize())), i64)
	malloc := mallocFunc(c)
	raw := instructions.CallFunction(c, []value.SFunction{malloc}, n.Tok(), []value.RValue{sizeVal})
	if !raw.IsValid() {
		return value.Undef()
	}

	ptrTy := c.Global.Types.Pointer(ty)
	cast := c.Builder().BitCast(raw.Val, c.Global.BackendType(ptrTy), "")
	target := value.New(cast, ty)

	var arrSize value.RValue
	if hasCount {
		arrSize = value.New(c.Builder().ConstInt(c.Global.BackendType(i64), int64(count)), i64)
	}
	if !instructions.CallConstructor(c, target, arrSize, args, n.Tok()) {
		instructions.InitVariable(c, target, arrSize, args, n.Tok())
	}
	return value.New(cast, ptrTy)
}

func evalFunctionCall(c *context.CodeContext, n *ast.FunctionCall) value.RValue {
	args, ok := evalArgs(c, n.Arguments)
	if !ok {
		return value.Undef()
	}
	sym, ok := c.LoadSymbol(n.Name)
	if !ok {
		c.Global.AddError(n.Tok(), "function %s was not declared in this scope", n.Name)
		return value.Undef()
	}
	funcs, ok := sym.Value.([]value.SFunction)
	if !ok {
		c.Global.AddError(n.Tok(), "%s is not callable", n.Name)
		return value.Undef()
	}
	return instructions.CallFunction(c, funcs, n.Tok(), args)
}

// evalMemberFunctionCall resolves baseVar.name(args...) against the base's
// class type, prepending the base's address as the implicit `this`
// argument ahead of the user-written ones. Static member functions
// (#[static], value.SFunction.IsStatic) are a known simplification here:
// every candidate in the overload set is called with `this` prepended, so
// a class overloading the same name between a static and non-static form
// is not handled (see DESIGN.md).
func evalMemberFunctionCall(c *context.CodeContext, n *ast.MemberFunctionCall) value.RValue {
	base := EvalVariable(c, n.BaseVar)
	if !base.IsValid() {
		return value.Undef()
	}
	if _, isVar := n.BaseVar.(*ast.BaseVariable); isVar && base.Ty.IsPointer() {
		loaded := instructions.Load(c, base)
		base = value.New(loaded.Val, loaded.Ty.Subtype())
	}
	ct, ok := base.Ty.(*types.ClassType)
	if !ok {
		c.Global.AddError(n.Tok(), "%s is not a class type", base.Ty.String())
		return value.Undef()
	}
	methods := ct.FindMethod(n.Name)
	if len(methods) == 0 {
		c.Global.AddError(n.Tok(), "class %s has no member function %s", ct.Name(), n.Name)
		return value.Undef()
	}
	funcs := make([]value.SFunction, 0, len(methods))
	for i := range methods {
		if fn, ok := instructions.MethodFunction(c, &methods[i]); ok {
			funcs = append(funcs, fn)
		}
	}

	args, ok := evalArgs(c, n.Arguments)
	if !ok {
		return value.Undef()
	}
	thisPtr := value.New(base.Val, c.Global.Types.Pointer(base.Ty))
	callArgs := make([]value.RValue, 0, len(args)+1)
	callArgs = append(callArgs, thisPtr)
	callArgs = append(callArgs, args...)
	return instructions.CallFunction(c, funcs, n.Tok(), callArgs)
}

func evalArgs(c *context.CodeContext, list *ast.List[ast.Expression]) ([]value.RValue, bool) {
	if list == nil {
		return nil, true
	}
	args := make([]value.RValue, 0, len(list.Items))
	for _, e := range list.Items {
		v := Eval(c, e)
		if !v.IsValid() {
			return nil, false
		}
		args = append(args, v)
	}
	return args, true
}

func mapOp(op ast.OpCode) (instructions.Op, bool) {
	switch op {
	case ast.OpAdd:
		return instructions.Add, true
	case ast.OpSub:
		return instructions.Sub, true
	case ast.OpMul:
		return instructions.Mul, true
	case ast.OpDiv:
		return instructions.Div, true
	case ast.OpMod:
		return instructions.Mod, true
	case ast.OpLShift:
		return instructions.LShift, true
	case ast.OpRShift:
		return instructions.RShift, true
	case ast.OpBitAnd:
		return instructions.BitAnd, true
	case ast.OpBitOr:
		return instructions.BitOr, true
	case ast.OpBitXor:
		return instructions.BitXor, true
	default:
		return 0, false
	}
}

func mapCmp(op ast.OpCode) (instructions.CmpOp, bool) {
	switch op {
	case ast.OpEq:
		return instructions.Eq, true
	case ast.OpNeq:
		return instructions.Neq, true
	case ast.OpLt:
		return instructions.Lt, true
	case ast.OpGt:
		return instructions.Gt, true
	case ast.OpLeq:
		return instructions.Leq, true
	case ast.OpGeq:
		return instructions.Geq, true
	default:
		return 0, false
	}
}

// mallocFunc lazily declares the `malloc` external the first time a `new`
// expression needs it, matching §4.15's builtin-externals contract: the
// declaration pass (internal/builder) predeclares it up front for a full
// compilation, but the visitor layer declares on demand too so this
// package's own tests don't need a builder pass in front of them.
func mallocFunc(c *context.CodeContext) value.SFunction {
	i64 := c.Global.Types.Int(64)
	voidPtr := c.Global.Types.Pointer(c.Global.Types.Void())
	fn, ok := c.Global.Module.GetFunction("malloc")
	if !ok {
		fn = c.Global.Module.DeclareFunction("malloc",
			[]backend.Type{c.Global.BackendType(i64)}, c.Global.BackendType(voidPtr), false)
	}
	fnTy := c.Global.Types.Function(voidPtr, []types.Type{i64}, false)
	return value.NewFunction(fn, fnTy, nil)
}

// freeFunc is the `delete` statement's counterpart to mallocFunc, declared
// here alongside it since both are the same builtin-externals concern;
// internal/visit's Statement Visitor calls this for DeleteStatement.
func freeFunc(c *context.CodeContext) value.SFunction {
	voidTy := c.Global.Types.Void()
	voidPtr := c.Global.Types.Pointer(voidTy)
	fn, ok := c.Global.Module.GetFunction("free")
	if !ok {
		fn = c.Global.Module.DeclareFunction("free",
			[]backend.Type{c.Global.BackendType(voidPtr)}, c.Global.BackendType(voidTy), false)
	}
	fnTy := c.Global.Types.Function(voidTy, []types.Type{voidPtr}, false)
	return value.NewFunction(fn, fnTy, nil)
}
