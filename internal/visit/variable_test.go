package visit

import (
	"testing"

	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/context"
	"github.com/jdm64/saphyr/internal/symtab"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/internal/value"
)

func declareLocal(c *context.CodeContext, name string, ty types.Type, val interface{}) {
	c.StoreLocalSymbol(&symtab.Symbol{Name: name, Value: val, Type: ty})
}

// TestEvalVariableBaseVariable tests that a declared local name resolves
// to its stored RValue unchanged.
func TestEvalVariableBaseVariable(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	slot := c.Builder().Alloca(c.Global.BackendType(i32), "x")
	declareLocal(c, "x", i32, value.New(slot, i32))

	out := EvalVariable(c, ast.NewBaseVariable(tok("x")))
	if !out.IsValid() {
		t.Fatal("EvalVariable(x) should resolve the declared local")
	}
	if out.Ty != i32 {
		t.Errorf("EvalVariable(x) type = %v, want %v", out.Ty, i32)
	}
}

// TestEvalVariableUndeclaredErrors tests that a bare name with no local,
// global, or user-type binding is reported.
func TestEvalVariableUndeclaredErrors(t *testing.T) {
	c := newTestContext(t)
	out := EvalVariable(c, ast.NewBaseVariable(tok("missing")))
	if out.IsValid() {
		t.Error("EvalVariable(missing) should return the undef sentinel")
	}
	if !c.Global.HasErrors() {
		t.Error("EvalVariable(missing) should record a diagnostic")
	}
}

// TestEvalVariableEnumNameIsValid tests that a bare name referring to an
// enum type (for `Color.Red`-style access) resolves to a non-nil
// placeholder rather than tripping the undeclared-variable error — a
// regression test for the IsValid() sentinel collision this session found
// and fixed.
func TestEvalVariableEnumNameIsValid(t *testing.T) {
	c := newTestContext(t)
	if _, err := c.Global.Types.DeclareEnum("Color", nil, []types.EnumMember{
		{Name: "Red", Value: 0},
		{Name: "Blue", Value: 1},
	}); err != nil {
		t.Fatal(err)
	}

	out := EvalVariable(c, ast.NewBaseVariable(tok("Color")))
	if !out.IsValid() {
		t.Fatal("EvalVariable(Color) naming an enum type should be valid, not the undef sentinel")
	}
}

// TestEvalVariableMemberVariableStruct tests that base.field on a plain
// (non-pointer) struct local resolves through LoadMemberVar with no
// auto-dereference.
func TestEvalVariableMemberVariableStruct(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	st, err := c.Global.Types.DeclareOpaque("Point", types.STRUCT)
	if err != nil {
		t.Fatal(err)
	}
	structTy := st.(*types.StructType)
	c.Global.Types.SetStructBody(structTy, []types.Field{{Name: "x", Type: i32}})

	slot := c.Builder().Alloca(c.Global.BackendType(structTy), "p")
	declareLocal(c, "p", structTy, value.New(slot, structTy))

	mv := ast.NewMemberVariable(ast.NewBaseVariable(tok("p")), tok("x"))
	out := EvalVariable(c, mv)
	if !out.IsValid() {
		t.Fatal("EvalVariable(p.x) should resolve the field")
	}
	want := c.Global.Types.Pointer(i32)
	if out.Ty != want {
		t.Errorf("EvalVariable(p.x) type = %v, want %v", out.Ty, want)
	}
}

// TestEvalVariableMemberVariableAutoDereferences tests that p.field
// auto-dereferences one level when p's own storage type is a pointer to
// the struct.
func TestEvalVariableMemberVariableAutoDereferences(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	st, _ := c.Global.Types.DeclareOpaque("Point", types.STRUCT)
	structTy := st.(*types.StructType)
	c.Global.Types.SetStructBody(structTy, []types.Field{{Name: "x", Type: i32}})
	ptrTy := c.Global.Types.Pointer(structTy)

	structSlot := c.Builder().Alloca(c.Global.BackendType(structTy), "s")
	ptrSlot := c.Builder().Alloca(c.Global.BackendType(ptrTy), "p")
	c.Builder().Store(structSlot, ptrSlot)
	declareLocal(c, "p", ptrTy, value.New(ptrSlot, ptrTy))

	mv := ast.NewMemberVariable(ast.NewBaseVariable(tok("p")), tok("x"))
	out := EvalVariable(c, mv)
	if !out.IsValid() {
		t.Fatal("EvalVariable(p.x) through a pointer local should resolve the field")
	}
}

// TestEvalVariableArrayVariableArray tests that indexing a fixed-size
// array local produces a pointer-to-element GEP.
func TestEvalVariableArrayVariableArray(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	arrTy := c.Global.Types.Array(i32, 4)
	slot := c.Builder().Alloca(c.Global.BackendType(arrTy), "a")
	declareLocal(c, "a", arrTy, value.New(slot, arrTy))

	av := ast.NewArrayVariable(tok("["), ast.NewBaseVariable(tok("a")), ast.NewIntConst(tok("1"), 1, 10))
	out := EvalVariable(c, av)
	if !out.IsValid() {
		t.Fatal("EvalVariable(a[1]) should resolve an element address")
	}
	want := c.Global.Types.Pointer(i32)
	if out.Ty != want {
		t.Errorf("EvalVariable(a[1]) type = %v, want %v", out.Ty, want)
	}
}

// TestEvalVariableArrayVariableNonArrayErrors tests that indexing a
// scalar local is rejected.
func TestEvalVariableArrayVariableNonArrayErrors(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	slot := c.Builder().Alloca(c.Global.BackendType(i32), "x")
	declareLocal(c, "x", i32, value.New(slot, i32))

	av := ast.NewArrayVariable(tok("["), ast.NewBaseVariable(tok("x")), ast.NewIntConst(tok("0"), 0, 10))
	out := EvalVariable(c, av)
	if out.IsValid() {
		t.Error("EvalVariable(x[0]) on a scalar local should return the undef sentinel")
	}
	if !c.Global.HasErrors() {
		t.Error("EvalVariable(x[0]) on a scalar local should record a diagnostic")
	}
}

// TestEvalVariableDereference tests that *p on a pointer local resolves
// to the pointee's own addressable form.
func TestEvalVariableDereference(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	ptrTy := c.Global.Types.Pointer(i32)
	target := c.Builder().Alloca(c.Global.BackendType(i32), "x")
	ptrSlot := c.Builder().Alloca(c.Global.BackendType(ptrTy), "p")
	c.Builder().Store(target, ptrSlot)
	declareLocal(c, "p", ptrTy, value.New(ptrSlot, ptrTy))

	deref := ast.NewDereference(tok("*"), ast.NewBaseVariable(tok("p")))
	out := EvalVariable(c, deref)
	if !out.IsValid() {
		t.Fatal("EvalVariable(*p) should resolve")
	}
	if out.Ty != i32 {
		t.Errorf("EvalVariable(*p) type = %v, want %v", out.Ty, i32)
	}
}

// TestEvalVariableDereferenceNonPointerErrors tests that dereferencing a
// non-pointer local is rejected.
func TestEvalVariableDereferenceNonPointerErrors(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	slot := c.Builder().Alloca(c.Global.BackendType(i32), "x")
	declareLocal(c, "x", i32, value.New(slot, i32))

	deref := ast.NewDereference(tok("*"), ast.NewBaseVariable(tok("x")))
	out := EvalVariable(c, deref)
	if out.IsValid() {
		t.Error("EvalVariable(*x) on a non-pointer local should return the undef sentinel")
	}
}

// TestEvalVariableAddressOf tests that &x wraps the local's own storage
// address as a pointer-to-declared-type rvalue.
func TestEvalVariableAddressOf(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	slot := c.Builder().Alloca(c.Global.BackendType(i32), "x")
	declareLocal(c, "x", i32, value.New(slot, i32))

	addr := ast.NewAddressOf(tok("&"), ast.NewBaseVariable(tok("x")))
	out := EvalVariable(c, addr)
	want := c.Global.Types.Pointer(i32)
	if out.Ty != want {
		t.Errorf("EvalVariable(&x) type = %v, want %v", out.Ty, want)
	}
}

// TestEvalVariableArrowOperatorSize tests that T->size resolves via
// instructions.SizeOf for a named data type.
func TestEvalVariableArrowOperatorSize(t *testing.T) {
	c := newTestContext(t)
	intType := ast.NewBaseType(tok("int"), ast.KindInt)
	arrow := ast.NewArrowOperatorOnType(intType, tok("size"), nil)
	out := EvalVariable(c, arrow)
	if !out.IsValid() {
		t.Fatal("EvalVariable(int->size) should resolve")
	}
	if out.Ty != c.Global.Types.Int(64) {
		t.Errorf("EvalVariable(int->size) type = %v, want i64", out.Ty)
	}
}

// TestEvalVariableExprVariableWrapsDereference tests that (*p).field
// reaches the field through a parenthesized dereference without losing
// addressability, a regression test for the lvalue-preservation fix this
// session made to evalExprVariable.
func TestEvalVariableExprVariableWrapsDereference(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	st, _ := c.Global.Types.DeclareOpaque("Point", types.STRUCT)
	structTy := st.(*types.StructType)
	c.Global.Types.SetStructBody(structTy, []types.Field{{Name: "x", Type: i32}})
	ptrTy := c.Global.Types.Pointer(structTy)

	structSlot := c.Builder().Alloca(c.Global.BackendType(structTy), "s")
	ptrSlot := c.Builder().Alloca(c.Global.BackendType(ptrTy), "p")
	c.Builder().Store(structSlot, ptrSlot)
	declareLocal(c, "p", ptrTy, value.New(ptrSlot, ptrTy))

	deref := ast.NewDereference(tok("*"), ast.NewBaseVariable(tok("p")))
	exprVar := ast.NewExprVariable(deref)
	mv := ast.NewMemberVariable(exprVar, tok("x"))

	out := EvalVariable(c, mv)
	if !out.IsValid() {
		t.Fatal("EvalVariable((*p).x) should resolve the field")
	}
}
