// Package value implements the core's value model: RValue, the pairing of
// a back-end SSA value with its source-level type, and SFunction, the
// specialization used for callables.
package value

import (
	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/types"
)

// RValue pairs a back-end value with the source type it was produced as.
// The zero RValue (Val == nil) is the sentinel for "no value" returned by
// visitors on a recoverable error, checked via IsValid before use.
type RValue struct {
	Val   backend.Value
	Ty    types.Type
	Attrs *ast.List[*ast.Attribute]
}

// New builds an RValue from a back-end value and its source type.
func New(val backend.Value, ty types.Type) RValue {
	return RValue{Val: val, Ty: ty}
}

// NewWithAttrs builds an RValue carrying the declaration attributes of the
// symbol it was loaded from (used by SFunction and by static-attribute
// lookups such as Inst.IsStatic).
func NewWithAttrs(val backend.Value, ty types.Type, attrs *ast.List[*ast.Attribute]) RValue {
	return RValue{Val: val, Ty: ty, Attrs: attrs}
}

// Undef returns the sentinel RValue reported by a visitor after it has
// already emitted a diagnostic for the expression in hand.
func Undef() RValue { return RValue{} }

// IsValid reports whether r carries a usable back-end value.
func (r RValue) IsValid() bool { return r.Val != nil }

// IsFunction reports whether r names a callable (see SFunction).
func (r RValue) IsFunction() bool { return r.Ty != nil && r.Ty.IsFunction() }

// IsNullPtr reports whether r is the typed null-pointer constant.
func (r RValue) IsNullPtr() bool { return r.Val != nil && r.Val.IsNull() }

// IsConst reports whether the underlying back-end value is a compile-time
// constant, used to validate global-initializer and enum-value expressions.
func (r RValue) IsConst() bool { return r.Val != nil && r.Val.IsConstant() }

// IsUndef reports whether the underlying back-end value is the backend's
// own undef sentinel (distinct from the Go zero-value Undef() above).
func (r RValue) IsUndef() bool { return r.Val != nil && r.Val.IsUndef() }

// CastToSubtype unwraps an enum-typed RValue to its underlying integer
// representation, used wherever an enum constant needs to behave as its
// base type (arithmetic, comparisons, switch values).
func (r RValue) CastToSubtype() RValue {
	enumTy, ok := r.Ty.(*types.EnumType)
	if !ok {
		return r
	}
	return RValue{Val: r.Val, Ty: enumTy.Base, Attrs: r.Attrs}
}

// SFunction is the RValue specialization for a named callable: a function
// pointer value plus its declared SFunctionType.
type SFunction struct {
	RValue
}

// NewFunction builds an SFunction from a back-end function value and its
// SFunctionType, carrying the declaration's attributes for IsStatic.
func NewFunction(fn backend.Value, ty *types.FunctionType, attrs *ast.List[*ast.Attribute]) SFunction {
	return SFunction{RValue{Val: fn, Ty: ty, Attrs: attrs}}
}

// FuncType returns the function's declared type.
func (f SFunction) FuncType() *types.FunctionType {
	return f.Ty.(*types.FunctionType)
}

// IsStatic reports whether the function carries a `#[static]` attribute —
// a class member function with no implicit `this` parameter.
func (f SFunction) IsStatic() bool {
	return ast.FindAttribute(f.Attrs, "static") != nil
}

// Name returns the function's back-end symbol name.
func (f SFunction) Name() string { return f.Val.Name() }

// ReturnType returns the function's declared return type.
func (f SFunction) ReturnType() types.Type { return f.FuncType().Return }

// NumParams returns the number of formal parameters.
func (f SFunction) NumParams() int { return len(f.FuncType().Params) }

// Param returns the type of the i'th formal parameter.
func (f SFunction) Param(i int) types.Type { return f.FuncType().Params[i] }
