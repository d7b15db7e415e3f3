// Package visit implements the Data-Type, Variable, Expression, and
// Statement Visitors: the tree-walking passes that turn a function or
// global initializer's AST into instructions against a CodeContext,
// grounded directly on original_source/src/CGNDataType.cpp,
// CGNVariable.cpp, CGNExpression.cpp, and CGNStatement.cpp.
package visit

import (
	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/context"
	"github.com/jdm64/saphyr/internal/types"
)

// ResolveType resolves a parsed data-type expression to a source-level
// Type, matching CGNDataType's plain (non-sizing) visit table. Errors are
// recorded on the Global Context and reported as the nil Type.
func ResolveType(c *context.CodeContext, dt ast.DataType) types.Type {
	ty, _, _ := resolve(c, dt, false)
	return ty
}

// ResolveNewType resolves dt the way a `new` expression does
// (CGNDataTypeNew): in addition to the element type, it returns the
// constant element count of an array form, for
// internal/instructions.CallConstructor's arrSize looping. hasCount is
// false when dt is not a sized array; a size that does not fold to a
// constant is reported as an error and yields a nil type.
func ResolveNewType(c *context.CodeContext, dt ast.DataType) (ty types.Type, count uint64, hasCount bool) {
	return resolve(c, dt, true)
}

func resolve(c *context.CodeContext, dt ast.DataType, newSize bool) (types.Type, uint64, bool) {
	switch n := dt.(type) {
	case *ast.BaseType:
		return resolveBase(c, n), 0, false
	case *ast.ConstType:
		base, count, ok := resolve(c, n.Type, newSize)
		if base == nil {
			return nil, 0, false
		}
		return c.Global.Types.Const(base), count, ok
	case *ast.ThisType:
		if this := c.GetThis(); this != nil {
			return this, 0, false
		}
		c.Global.AddError(n.Tok(), "this type used outside of a class member function")
		return nil, 0, false
	case *ast.UserType:
		return resolveUser(c, n), 0, false
	case *ast.PointerType:
		base := ResolveType(c, n.Base)
		if base == nil {
			return nil, 0, false
		}
		if base.IsAuto() {
			c.Global.AddError(n.Tok(), "can not declare a pointer to auto type")
			return nil, 0, false
		}
		return c.Global.Types.Pointer(base), 0, false
	case *ast.ReferenceType:
		base := ResolveType(c, n.Base)
		if base == nil {
			return nil, 0, false
		}
		if base.IsVoid() {
			c.Global.AddError(n.Tok(), "can not declare a reference to void")
			return nil, 0, false
		}
		return c.Global.Types.Reference(base), 0, false
	case *ast.CopyReferenceType:
		base := ResolveType(c, n.Base)
		if base == nil {
			return nil, 0, false
		}
		if base.IsVoid() {
			c.Global.AddError(n.Tok(), "can not declare a copy-reference to void")
			return nil, 0, false
		}
		return c.Global.Types.CopyRef(base), 0, false
	case *ast.ArrayType:
		return resolveArray(c, n, newSize)
	case *ast.VecType:
		return resolveVec(c, n), 0, false
	case *ast.FuncPointerType:
		return resolveFuncPointer(c, n), 0, false
	default:
		c.Global.AddError(dt.Tok(), "unrecognized data type")
		return nil, 0, false
	}
}

// resolveBase maps a BaseKind keyword to its TypeManager singleton,
// matching CGNDataType.cpp's visitNBaseType switch over ParserBase::TT_*.
func resolveBase(c *context.CodeContext, n *ast.BaseType) types.Type {
	m := c.Global.Types
	switch n.Kind {
	case ast.KindVoid:
		return m.Void()
	case ast.KindAuto:
		return m.Auto()
	case ast.KindBool:
		return m.Bool()
	case ast.KindInt8, ast.KindInt16, ast.KindInt, ast.KindInt32, ast.KindInt64:
		return m.Int(baseBits(n.Kind))
	case ast.KindUInt8, ast.KindUInt16, ast.KindUInt, ast.KindUInt32, ast.KindUInt64:
		return m.UInt(baseBits(n.Kind))
	case ast.KindFloat:
		return m.Float()
	case ast.KindDouble:
		return m.Double()
	default:
		c.Global.AddError(n.Tok(), "unrecognized builtin type")
		return nil
	}
}

func baseBits(kind ast.BaseKind) uint64 {
	switch kind {
	case ast.KindInt8, ast.KindUInt8:
		return 8
	case ast.KindInt16, ast.KindUInt16:
		return 16
	case ast.KindInt64, ast.KindUInt64:
		return 64
	default:
		// `int`/`uint` with no explicit width default to 32 bits, matching
		// the original's TT_INT/TT_UINT mapping.
		return 32
	}
}

// resolveUser looks up a previously declared struct/union/class/enum/
// alias by name, checking the active template-argument bindings first so
// a template body's own type parameters shadow any identically-named
// user type.
func resolveUser(c *context.CodeContext, n *ast.UserType) types.Type {
	if ty, ok := c.TemplateArg(n.Name); ok {
		return ty
	}
	ut, ok := c.Global.Types.LookupUser(n.Name)
	if !ok {
		c.Global.AddError(n.Tok(), "type %s was not declared in this scope", n.Name)
		return nil
	}
	// aliases resolve transparently to their target, matching the
	// original's unwrap-on-return for NUserType.
	if alias, ok := ut.(*types.AliasType); ok {
		return alias.Target
	}
	return ut
}

func resolveArray(c *context.CodeContext, n *ast.ArrayType, newSize bool) (types.Type, uint64, bool) {
	base := ResolveType(c, n.Base)
	if base == nil {
		return nil, 0, false
	}
	if base.IsVoid() || base.IsAuto() {
		c.Global.AddError(n.Tok(), "can not declare an array of %s", base.String())
		return nil, 0, false
	}
	if n.Size == nil {
		// unsized array parameter: decays to a pointer, per
		// visitNArrayType's isUnsized() branch.
		return c.Global.Types.Pointer(base), 0, false
	}
	count, ok := foldConstUint(n.Size)
	if !ok {
		c.Global.AddError(n.Tok(), "array size must be a compile-time constant")
		return nil, 0, false
	}
	arrTy := c.Global.Types.Array(base, count)
	return arrTy, count, newSize
}

func resolveVec(c *context.CodeContext, n *ast.VecType) types.Type {
	base := ResolveType(c, n.Base)
	if base == nil {
		return nil
	}
	if !base.IsNumeric() && !base.IsPointer() {
		c.Global.AddError(n.Tok(), "vec base type must be numeric or a pointer")
		return nil
	}
	count, ok := foldConstUint(n.Size)
	if !ok || count == 0 {
		c.Global.AddError(n.Tok(), "vec size must be a positive compile-time constant")
		return nil
	}
	return c.Global.Types.Vec(base, count)
}

func resolveFuncPointer(c *context.CodeContext, n *ast.FuncPointerType) types.Type {
	ret := ResolveType(c, n.ReturnType)
	if ret == nil {
		return nil
	}
	params := make([]types.Type, 0, n.Params.Len())
	for _, p := range n.Params.Items {
		pt := ResolveType(c, p)
		if pt == nil {
			return nil
		}
		params = append(params, pt)
	}
	return c.Global.Types.Pointer(c.Global.Types.Function(ret, params, false))
}

// foldConstUint folds an array/vec size expression to a non-negative
// constant, matching the narrow set the original accepts for a
// compile-time array bound: integer literals and +/-/*  combinations of
// them. A general runtime expression is rejected here rather than routed
// through the Expression Visitor, since the opaque backend.Value this
// module programs against (internal/backend) exposes no way to read a
// constant's value back out once built — only the AST itself can be
// inspected for this purpose (see DESIGN.md).
func foldConstUint(e ast.Expression) (uint64, bool) {
	v, ok := foldConstInt(e)
	if !ok || v < 0 {
		return 0, false
	}
	return uint64(v), true
}

func foldConstInt(e ast.Expression) (int64, bool) {
	switch n := e.(type) {
	case *ast.IntConst:
		return n.Value, true
	case *ast.UnaryMathOperator:
		v, ok := foldConstInt(n.Expr)
		if !ok {
			return 0, false
		}
		switch n.Op {
		case ast.OpNeg:
			return -v, true
		case ast.OpPos:
			return v, true
		case ast.OpBitNot:
			return ^v, true
		default:
			return 0, false
		}
	case *ast.BinaryMathOperator:
		lhs, ok := foldConstInt(n.Lhs)
		if !ok {
			return 0, false
		}
		rhs, ok := foldConstInt(n.Rhs)
		if !ok {
			return 0, false
		}
		switch n.Op {
		case ast.OpAdd:
			return lhs + rhs, true
		case ast.OpSub:
			return lhs - rhs, true
		case ast.OpMul:
			return lhs * rhs, true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}
