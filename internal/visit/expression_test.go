package visit

import (
	"testing"

	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/symtab"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/internal/value"
)

// TestEvalIntConst tests that an integer literal resolves to a plain
// 32-bit constant, matching the language's default int width.
func TestEvalIntConst(t *testing.T) {
	c := newTestContext(t)
	out := Eval(c, ast.NewIntConst(tok("5"), 5, 10))
	if out.Ty != c.Global.Types.Int(32) {
		t.Errorf("Eval(5) type = %v, want int32", out.Ty)
	}
}

// TestEvalBoolConst tests that a boolean literal resolves to the shared
// bool singleton.
func TestEvalBoolConst(t *testing.T) {
	c := newTestContext(t)
	out := Eval(c, ast.NewBoolConst(tok("true"), true))
	if !c.Global.Types.IsBool(out.Ty) {
		t.Errorf("Eval(true) type = %v, want bool", out.Ty)
	}
}

// TestEvalStringLiteral tests that a string literal materializes a
// pointer-to-char rvalue.
func TestEvalStringLiteral(t *testing.T) {
	c := newTestContext(t)
	out := Eval(c, ast.NewStringLiteral(tok(`"hi"`), "hi"))
	if !out.IsValid() {
		t.Fatal("Eval(string literal) should produce a valid RValue")
	}
	want := c.Global.Types.Pointer(c.Global.Types.Int(8))
	if out.Ty != want {
		t.Errorf("Eval(string literal) type = %v, want %v", out.Ty, want)
	}
}

// TestEvalBaseVariableLoadsThroughStorage tests that Eval on a plain
// local reads through its alloca with a Load rather than returning the
// address itself.
func TestEvalBaseVariableLoadsThroughStorage(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	slot := c.Builder().Alloca(c.Global.BackendType(i32), "x")
	c.Builder().Store(c.Builder().ConstInt(c.Global.BackendType(i32), 7), slot)
	declareLocal(c, "x", i32, value.New(slot, i32))

	out := Eval(c, ast.NewBaseVariable(tok("x")))
	if out.Ty != i32 {
		t.Errorf("Eval(x) type = %v, want %v", out.Ty, i32)
	}
	if out.Val == slot {
		t.Error("Eval(x) should load through the storage address, not return it unchanged")
	}
}

// TestEvalAssignmentPlain tests that a plain `x = rhs` stores the cast
// rhs through x's address and returns it at x's declared type.
func TestEvalAssignmentPlain(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	slot := c.Builder().Alloca(c.Global.BackendType(i32), "x")
	declareLocal(c, "x", i32, value.New(slot, i32))

	rhs := ast.NewIntConst(tok("1"), 1, 10)
	asn := ast.NewAssignment(ast.OpAssign, tok("="), ast.NewBaseVariable(tok("x")), rhs)
	out := Eval(c, asn)
	if !out.IsValid() {
		t.Fatal("Eval(x = 1) should produce a valid RValue")
	}
	if out.Ty != i32 {
		t.Errorf("Eval(x = 1) type = %v, want %v", out.Ty, i32)
	}
}

// TestEvalAssignmentCompoundFoldsOperator tests that `x += rhs` loads the
// current value, folds the binary operator, and stores the result back.
func TestEvalAssignmentCompoundFoldsOperator(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	slot := c.Builder().Alloca(c.Global.BackendType(i32), "x")
	c.Builder().Store(c.Builder().ConstInt(c.Global.BackendType(i32), 1), slot)
	declareLocal(c, "x", i32, value.New(slot, i32))

	asn := ast.NewAssignment(ast.OpAdd, tok("+="), ast.NewBaseVariable(tok("x")), ast.NewIntConst(tok("2"), 2, 10))
	out := Eval(c, asn)
	if !out.IsValid() {
		t.Fatal("Eval(x += 2) should produce a valid RValue")
	}
	if out.Ty != i32 {
		t.Errorf("Eval(x += 2) type = %v, want %v", out.Ty, i32)
	}
}

// TestEvalTernary tests that cond ? a : b produces a value typed like its
// unified arms.
func TestEvalTernary(t *testing.T) {
	c := newTestContext(t)
	cond := ast.NewBoolConst(tok("true"), true)
	tv := ast.NewIntConst(tok("1"), 1, 10)
	fv := ast.NewIntConst(tok("2"), 2, 10)
	out := Eval(c, ast.NewTernaryOperator(cond, tv, tok(":"), fv))
	if !out.IsValid() {
		t.Fatal("Eval(true ? 1 : 2) should produce a valid RValue")
	}
	if out.Ty != c.Global.Types.Int(32) {
		t.Errorf("Eval(ternary) type = %v, want int32", out.Ty)
	}
}

// TestEvalLogicalAnd tests that `a && b` produces a bool result without
// recording an error for two already-bool operands.
func TestEvalLogicalAnd(t *testing.T) {
	c := newTestContext(t)
	lhs := ast.NewBoolConst(tok("true"), true)
	rhs := ast.NewBoolConst(tok("false"), false)
	out := Eval(c, ast.NewLogicalOperator(ast.OpLogAnd, tok("&&"), lhs, rhs))
	if !c.Global.Types.IsBool(out.Ty) {
		t.Errorf("Eval(true && false) type = %v, want bool", out.Ty)
	}
	if c.Global.HasErrors() {
		t.Error("Eval(true && false) should not record a diagnostic")
	}
}

// TestEvalCompareLt tests that a `<` comparison yields bool.
func TestEvalCompareLt(t *testing.T) {
	c := newTestContext(t)
	lhs := ast.NewIntConst(tok("1"), 1, 10)
	rhs := ast.NewIntConst(tok("2"), 2, 10)
	out := Eval(c, ast.NewCompareOperator(ast.OpLt, tok("<"), lhs, rhs))
	if !c.Global.Types.IsBool(out.Ty) {
		t.Errorf("Eval(1 < 2) type = %v, want bool", out.Ty)
	}
}

// TestEvalBinaryMathAdd tests that `a + b` dispatches through
// instructions.BinaryOp and returns the unified operand type.
func TestEvalBinaryMathAdd(t *testing.T) {
	c := newTestContext(t)
	lhs := ast.NewIntConst(tok("1"), 1, 10)
	rhs := ast.NewIntConst(tok("2"), 2, 10)
	out := Eval(c, ast.NewBinaryMathOperator(ast.OpAdd, tok("+"), lhs, rhs))
	if !out.IsValid() {
		t.Fatal("Eval(1 + 2) should produce a valid RValue")
	}
}

// TestEvalNullCoalescingNonNullSkipsRhs tests that `p ?? q` on a non-null
// lhs still builds valid control flow and resolves to lhs's type.
func TestEvalNullCoalescingNonNullSkipsRhs(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	ptrTy := c.Global.Types.Pointer(i32)
	slot := c.Builder().Alloca(c.Global.BackendType(i32), "x")
	ptrSlot := c.Builder().Alloca(c.Global.BackendType(ptrTy), "p")
	c.Builder().Store(slot, ptrSlot)
	declareLocal(c, "p", ptrTy, value.New(ptrSlot, ptrTy))
	declareLocal(c, "q", ptrTy, value.New(ptrSlot, ptrTy))

	lhs := ast.NewBaseVariable(tok("p"))
	rhs := ast.NewBaseVariable(tok("q"))
	out := Eval(c, ast.NewNullCoalescing(tok("??"), lhs, rhs))
	if !out.IsValid() {
		t.Fatal("Eval(p ?? q) should produce a valid RValue")
	}
	if out.Ty != ptrTy {
		t.Errorf("Eval(p ?? q) type = %v, want %v", out.Ty, ptrTy)
	}
}

// TestEvalUnaryNot tests that `!x` on a bool flips it via xor with 1.
func TestEvalUnaryNot(t *testing.T) {
	c := newTestContext(t)
	out := Eval(c, ast.NewUnaryMathOperator(ast.OpNot, tok("!"), ast.NewBoolConst(tok("true"), true)))
	if !c.Global.Types.IsBool(out.Ty) {
		t.Errorf("Eval(!true) type = %v, want bool", out.Ty)
	}
}

// TestEvalUnaryNeg tests that `-x` folds to 0 - x via BinaryOp(Sub).
func TestEvalUnaryNeg(t *testing.T) {
	c := newTestContext(t)
	out := Eval(c, ast.NewUnaryMathOperator(ast.OpNeg, tok("-"), ast.NewIntConst(tok("5"), 5, 10)))
	if !out.IsValid() {
		t.Fatal("Eval(-5) should produce a valid RValue")
	}
	if out.Ty != c.Global.Types.Int(32) {
		t.Errorf("Eval(-5) type = %v, want int32", out.Ty)
	}
}

// TestEvalIncrementPrefixReturnsNewValue tests that prefix `++x` returns
// the incremented value, not the pre-increment one.
func TestEvalIncrementPrefixReturnsNewValue(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	slot := c.Builder().Alloca(c.Global.BackendType(i32), "x")
	c.Builder().Store(c.Builder().ConstInt(c.Global.BackendType(i32), 1), slot)
	declareLocal(c, "x", i32, value.New(slot, i32))

	inc := ast.NewIncrement(ast.OpInc, tok("++"), ast.NewBaseVariable(tok("x")), false)
	out := Eval(c, inc)
	if !out.IsValid() {
		t.Fatal("Eval(++x) should produce a valid RValue")
	}
	if out.Ty != i32 {
		t.Errorf("Eval(++x) type = %v, want %v", out.Ty, i32)
	}
}

// TestEvalIncrementPostfixReturnsOldValue tests that postfix `x++`
// evaluates to the pre-increment value.
func TestEvalIncrementPostfixReturnsOldValue(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	slot := c.Builder().Alloca(c.Global.BackendType(i32), "x")
	c.Builder().Store(c.Builder().ConstInt(c.Global.BackendType(i32), 1), slot)
	declareLocal(c, "x", i32, value.New(slot, i32))

	inc := ast.NewIncrement(ast.OpInc, tok("++"), ast.NewBaseVariable(tok("x")), true)
	out := Eval(c, inc)
	if !out.IsValid() {
		t.Fatal("Eval(x++) should produce a valid RValue")
	}
}

// TestEvalNewExpressionAllocatesAndInitializes tests that `new int` lazily
// declares malloc and returns a pointer to the allocated type.
func TestEvalNewExpressionAllocatesAndInitializes(t *testing.T) {
	c := newTestContext(t)
	intType := ast.NewBaseType(tok("int"), ast.KindInt)
	out := Eval(c, ast.NewNewExpression(tok("new"), intType, nil))
	if !out.IsValid() {
		t.Fatal("Eval(new int) should produce a valid RValue")
	}
	want := c.Global.Types.Pointer(c.Global.Types.Int(32))
	if out.Ty != want {
		t.Errorf("Eval(new int) type = %v, want %v", out.Ty, want)
	}
	if _, ok := c.Global.Module.GetFunction("malloc"); !ok {
		t.Error("Eval(new int) should lazily declare malloc")
	}
}

// TestEvalFunctionCallResolvesOverloadSet tests that a free-function call
// looks up its symbol's []value.SFunction overload set and dispatches
// through instructions.CallFunction.
func TestEvalFunctionCallResolvesOverloadSet(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	fnTy := c.Global.Types.Function(i32, []types.Type{i32}, false)
	fnVal := c.Global.Module.DeclareFunction("double",
		[]backend.Type{c.Global.BackendType(i32)}, c.Global.BackendType(i32), false)
	fn := value.NewFunction(fnVal, fnTy, nil)
	c.Global.StoreGlobalSymbol(&symtab.Symbol{Name: "double", Value: []value.SFunction{fn}, Type: fnTy})

	call := ast.NewFunctionCall(tok("double"), ast.NewList[ast.Expression](ast.NewIntConst(tok("3"), 3, 10)))
	out := Eval(c, call)
	if !out.IsValid() {
		t.Fatal("Eval(double(3)) should resolve the stored overload set")
	}
	if out.Ty != i32 {
		t.Errorf("Eval(double(3)) type = %v, want %v", out.Ty, i32)
	}
}

// TestEvalFunctionCallUndeclaredErrors tests that calling an unbound name
// is reported rather than silently returning the undef sentinel without
// a diagnostic.
func TestEvalFunctionCallUndeclaredErrors(t *testing.T) {
	c := newTestContext(t)
	call := ast.NewFunctionCall(tok("missing"), nil)
	out := Eval(c, call)
	if out.IsValid() {
		t.Error("Eval(missing()) should return the undef sentinel")
	}
	if !c.Global.HasErrors() {
		t.Error("Eval(missing()) should record a diagnostic")
	}
}

// TestEvalMemberFunctionCallPrependsThis tests that a member call resolves
// the class's overload set and prepends the base's address as the
// implicit `this` argument.
func TestEvalMemberFunctionCallPrependsThis(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	st, err := c.Global.Types.DeclareOpaque("Counter", types.CLASS)
	if err != nil {
		t.Fatal(err)
	}
	classTy := st.(*types.ClassType)
	c.Global.Types.SetStructBody(&classTy.StructType, nil)

	thisTy := c.Global.Types.Pointer(classTy)
	methodTy := c.Global.Types.Function(i32, []types.Type{thisTy}, false)
	c.Global.Module.DeclareFunction("Counter__get",
		[]backend.Type{c.Global.BackendType(thisTy)}, c.Global.BackendType(i32), false)
	classTy.Methods = append(classTy.Methods, types.Method{
		Name:        "get",
		MangledName: "Counter__get",
		Type:        methodTy,
	})

	slot := c.Builder().Alloca(c.Global.BackendType(classTy), "c")
	declareLocal(c, "c", classTy, value.New(slot, classTy))

	call := ast.NewMemberFunctionCall(ast.NewBaseVariable(tok("c")), tok("get"), nil)
	out := Eval(c, call)
	if !out.IsValid() {
		t.Fatal("Eval(c.get()) should resolve the class's method")
	}
	if out.Ty != i32 {
		t.Errorf("Eval(c.get()) type = %v, want %v", out.Ty, i32)
	}
}

// TestEvalMemberFunctionCallUnknownMethodErrors tests that calling an
// undeclared method name on a class value is reported.
func TestEvalMemberFunctionCallUnknownMethodErrors(t *testing.T) {
	c := newTestContext(t)
	st, _ := c.Global.Types.DeclareOpaque("Empty", types.CLASS)
	classTy := st.(*types.ClassType)
	c.Global.Types.SetStructBody(&classTy.StructType, nil)

	slot := c.Builder().Alloca(c.Global.BackendType(classTy), "e")
	declareLocal(c, "e", classTy, value.New(slot, classTy))

	call := ast.NewMemberFunctionCall(ast.NewBaseVariable(tok("e")), tok("missing"), nil)
	out := Eval(c, call)
	if out.IsValid() {
		t.Error("Eval(e.missing()) should return the undef sentinel")
	}
	if !c.Global.HasErrors() {
		t.Error("Eval(e.missing()) should record a diagnostic")
	}
}
