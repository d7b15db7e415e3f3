package value

import (
	"testing"

	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/backend/mockbackend"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/pkg/token"
)

// TestUndefIsInvalid tests that the zero-value sentinel is reported as
// invalid, the check every visitor runs after a recoverable error.
func TestUndefIsInvalid(t *testing.T) {
	if Undef().IsValid() {
		t.Error("Undef() should not be IsValid()")
	}
}

// TestNewIsValid tests that a value built from a real back-end value is
// reported as valid.
func TestNewIsValid(t *testing.T) {
	m := types.New()
	be := mockbackend.New()
	mod := be.NewModule("test")
	i32 := mod.IntType(32)
	g := mod.DeclareGlobal("x", i32)

	rv := New(g, m.Int(32))
	if !rv.IsValid() {
		t.Error("New() from a real back-end value should be IsValid()")
	}
}

// TestCastToSubtypeUnwrapsEnum tests that an enum-typed RValue unwraps to
// its base type's representation, used wherever an enum constant must
// behave as its underlying integer.
func TestCastToSubtypeUnwrapsEnum(t *testing.T) {
	m := types.New()
	et, err := m.DeclareEnum("Color", nil, []types.EnumMember{{Name: "Red", Value: 0}})
	if err != nil {
		t.Fatalf("DeclareEnum() error: %v", err)
	}

	be := mockbackend.New()
	mod := be.NewModule("test")
	cv := be.NewBuilder().ConstInt(mod.IntType(32), 0)

	rv := New(cv, et)
	unwrapped := rv.CastToSubtype()
	if unwrapped.Ty != et.Base {
		t.Errorf("CastToSubtype().Ty = %v, want the enum's base type", unwrapped.Ty)
	}
}

// TestCastToSubtypeNonEnumIsNoop tests that CastToSubtype leaves a
// non-enum value untouched.
func TestCastToSubtypeNonEnumIsNoop(t *testing.T) {
	m := types.New()
	be := mockbackend.New()
	mod := be.NewModule("test")
	cv := be.NewBuilder().ConstInt(mod.IntType(32), 0)

	rv := New(cv, m.Int(32))
	if rv.CastToSubtype().Ty != m.Int(32) {
		t.Error("CastToSubtype() on a non-enum value should be a no-op")
	}
}

// TestFunctionIsStatic tests that IsStatic reflects the `#[static]`
// declaration attribute carried on the SFunction.
func TestFunctionIsStatic(t *testing.T) {
	m := types.New()
	be := mockbackend.New()
	mod := be.NewModule("test")
	fnTy := m.Function(m.Void(), nil, false)
	fnVal := mod.DeclareFunction("f", nil, mod.VoidType(), false)

	noAttrs := NewFunction(fnVal, fnTy, nil)
	if noAttrs.IsStatic() {
		t.Error("a function with no attributes should not be IsStatic()")
	}

	attrs := ast.NewList(ast.NewAttribute(token.New("static", "a.syp", 1, 1), nil))
	withAttr := NewFunction(fnVal, fnTy, attrs)
	if !withAttr.IsStatic() {
		t.Error("a function with a #[static] attribute should be IsStatic()")
	}
}

// TestFunctionParamAccessors tests NumParams/Param/ReturnType against
// the function's declared signature.
func TestFunctionParamAccessors(t *testing.T) {
	m := types.New()
	be := mockbackend.New()
	mod := be.NewModule("test")
	i32, f64 := m.Int(32), m.Double()
	paramTypes := []types.Type{i32, f64}
	fnTy := m.Function(i32, paramTypes, false)
	fnVal := mod.DeclareFunction("f", []backend.Type{mod.IntType(32), mod.DoubleType()}, mod.IntType(32), false)

	fn := NewFunction(fnVal, fnTy, nil)
	if fn.NumParams() != 2 {
		t.Fatalf("NumParams() = %d, want 2", fn.NumParams())
	}
	if fn.Param(0) != i32 || fn.Param(1) != f64 {
		t.Error("Param() did not return the declared parameter types in order")
	}
	if fn.ReturnType() != i32 {
		t.Error("ReturnType() should return the declared return type")
	}
}
