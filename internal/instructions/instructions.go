// Package instructions is the Instructions Helper: the one place the
// visitors reach through to the back end for casts, binary operators,
// comparisons, calls, member access, and constructor/destructor
// synthesis. Grounded directly on original_source/src/Instructions.h and
// Instructions.cpp's Inst class — every exported function here is that
// class's equivalent static method, generalized off the AST-node
// parameters the out-of-scope parser collaborator owns (callers resolve
// a name or expression to an RValue/Type themselves before calling in).
package instructions

import (
	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/context"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/internal/value"
	"github.com/jdm64/saphyr/pkg/token"
)

// Op identifies a binary arithmetic/bitwise operator, replacing the
// parser's token-kind constants the original switches on directly.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Mod
	LShift
	RShift
	BitAnd
	BitOr
	BitXor
)

// CmpOp identifies a comparison operator.
type CmpOp int

const (
	Lt CmpOp = iota
	Gt
	Leq
	Geq
	Neq
	Eq
)

func castErr(c *context.CodeContext, tok token.Token, msg string, from, to types.Type) {
	c.Global.AddError(tok, "%s ( %s to %s )", msg, from.String(), to.String())
}

// CastMatch unifies lhs and rhs onto a common numeric type ahead of a
// binary operator or comparison, matching Inst::CastMatch. Pointer
// operands are left alone — BinaryOp handles pointer arithmetic itself —
// and two already-identical types are a no-op. Returns true if either
// cast failed (an error was already recorded).
func CastMatch(c *context.CodeContext, optTok token.Token, lhs, rhs *value.RValue, upcast bool) bool {
	if !lhs.IsValid() || !rhs.IsValid() {
		return true
	}
	lt, rt := lhs.Ty, rhs.Ty
	if lt == rt {
		return false
	}
	if isComplex(lt) || isComplex(rt) {
		c.Global.AddError(optTok, "can not cast between %s and %s types", lt.String(), rt.String())
		return true
	}
	if lt.IsPointer() || rt.IsPointer() {
		// different pointer types can't be cast automatically; the
		// caller (BinaryOp) handles pointer arithmetic specially.
		return false
	}
	if lv, ok := lt.(*types.VecType); ok {
		if rv, ok := rt.(*types.VecType); ok && lv.Count != rv.Count {
			c.Global.AddError(optTok, "can not cast vec types of different sizes")
			return true
		}
	}
	to := c.Global.Types.NumericConv(lt, rt, upcast)
	lhsFail := CastTo(c, optTok, lhs, to, upcast)
	rhsFail := CastTo(c, optTok, rhs, to, upcast)
	return lhsFail || rhsFail
}

// isComplex mirrors SType::isComplex: array/struct/union/function types
// cannot be cast automatically and require explicit per-operation
// handling (the original's not-a-single-value-type check).
func isComplex(t types.Type) bool {
	return t.IsArray() || t.IsStruct() || t.IsUnion() || t.IsFunction()
}

// CastTo casts *val in place to type ty, recording a diagnostic and
// returning true on any incompatible cast. upcast additionally unwraps
// an enum operand to its base type, the rule every non-assignment,
// non-comparison use of an enum value requires (CastTo(..., upcast:
// true) keeps the result unconstrained by the enum's declared range).
func CastTo(c *context.CodeContext, tok token.Token, val *value.RValue, ty types.Type, upcast bool) bool {
	if !val.IsValid() {
		return true
	}
	valueType := val.Ty
	b := c.Builder()

	if ty == valueType {
		if upcast && valueType.IsEnum() {
			*val = val.CastToSubtype()
		}
		return false
	}
	if isComplex(ty) || isComplex(valueType) {
		castErr(c, tok, "Cannot cast complex types", valueType, ty)
		return true
	}
	if ty.IsPointer() {
		return castToPointer(c, tok, val, ty)
	}
	if ty.IsVec() {
		return castToVec(c, tok, val, ty)
	}
	if ty.IsEnum() {
		castErr(c, tok, "Cannot cast to enum", valueType, ty)
		return true
	}
	if c.Global.Types.IsBool(ty) {
		if valueType.IsVec() {
			castErr(c, tok, "Cannot cast vec to bool", valueType, ty)
			return true
		}
		if valueType.IsEnum() {
			*val = val.CastToSubtype()
			valueType = val.Ty
		}
		pred := boolPredicate()
		var cmp backend.Value
		if valueType.IsFloating() {
			cmp = b.FCmp(pred.f, val.Val, b.ConstFloat(c.Global.BackendType(valueType), 0))
		} else {
			cmp = b.ICmp(pred.i, val.Val, b.ConstInt(c.Global.BackendType(valueType), 0))
		}
		*val = value.New(cmp, ty)
		return false
	}

	if valueType.IsPointer() {
		castErr(c, tok, "Cannot cast pointer", valueType, ty)
		return true
	}
	if valueType.IsEnum() {
		*val = val.CastToSubtype()
		valueType = val.Ty
	}
	numericCast(c, val, valueType, ty, ty)
	return false
}

func castToPointer(c *context.CodeContext, tok token.Token, val *value.RValue, ty types.Type) bool {
	valueType := val.Ty
	b := c.Builder()
	if !valueType.IsPointer() {
		c.Global.AddError(tok, "Cannot cast non-pointer to pointer")
		return true
	}
	toSub, valSub := ty.Subtype(), valueType.Subtype()
	if toSub.IsArray() && valSub.IsArray() {
		toArr, valArr := toSub.(*types.ArrayType), valSub.(*types.ArrayType)
		if toArr.Base != valArr.Base {
			castErr(c, tok, "Cannot cast array pointers of different types", valueType, ty)
			return true
		}
		if toArr.Count > valArr.Count {
			c.Global.AddError(tok, "Pointers to arrays only allowed to cast to smaller arrays")
			return true
		}
		*val = value.New(b.BitCast(val.Val, c.Global.BackendType(ty), ""), ty)
		return false
	}
	if val.IsNullPtr() {
		*val = value.New(b.ConstNull(c.Global.BackendType(ty)), ty)
		return false
	}
	if toSub.IsVoid() {
		*val = value.New(b.BitCast(val.Val, c.Global.BackendType(ty), ""), ty)
		return false
	}
	castErr(c, tok, "Cannot cast type to pointer", valueType, ty)
	return true
}

func castToVec(c *context.CodeContext, tok token.Token, val *value.RValue, ty types.Type) bool {
	valueType := val.Ty
	vt := ty.(*types.VecType)
	b := c.Builder()
	if valueType.IsEnum() {
		*val = val.CastToSubtype()
		valueType = val.Ty
	}
	if valueType.IsNumeric() {
		CastTo(c, tok, val, vt.Base, true)
		splat := b.Undef(c.Global.BackendType(ty))
		*val = value.New(splat, ty)
		return false
	}
	if valueType.IsPointer() {
		castErr(c, tok, "Cannot cast vec to pointer", valueType, ty)
		return true
	}
	vvt, ok := valueType.(*types.VecType)
	if !ok || vt.Count != vvt.Count {
		c.Global.AddError(tok, "can not cast vec types of different sizes")
		return true
	}
	if c.Global.Types.IsBool(vt.Base) {
		pred := boolPredicate()
		var cmp backend.Value
		zero := zeroOf(c, vvt.Base)
		if vvt.Base.IsFloating() {
			cmp = b.FCmp(pred.f, val.Val, zero)
		} else {
			cmp = b.ICmp(pred.i, val.Val, zero)
		}
		*val = value.New(cmp, ty)
		return false
	}
	numericCast(c, val, vvt.Base, vt.Base, ty)
	return false
}

type predPair struct {
	i backend.IntPredicate
	f backend.FloatPredicate
}

// boolPredicate is always "!= 0" — casting any numeric value to bool is
// a not-equal-zero comparison regardless of the source type.
func boolPredicate() predPair {
	return predPair{i: backend.IntNE, f: backend.FloatONE}
}

func zeroOf(c *context.CodeContext, t types.Type) backend.Value {
	b := c.Builder()
	bt := c.Global.BackendType(t)
	if t.IsFloating() {
		return b.ConstFloat(bt, 0)
	}
	return b.ConstInt(bt, 0)
}

// numericCast emits the int/float conversion instruction between from
// and to, tagging the result with actual (the vec element's containing
// vec type, or simply to for a scalar cast) — mirrors Inst::NumericCast's
// 2-bit (fromFloating, toFloating) dispatch table exactly.
func numericCast(c *context.CodeContext, val *value.RValue, from, to, actual types.Type) {
	b := c.Builder()
	bt := c.Global.BackendType(actual)
	fromF, toF := from.IsFloating(), to.IsFloating()
	var out backend.Value
	switch {
	case !fromF && !toF:
		if to.AllocSize() > from.AllocSize() {
			if from.IsUnsigned() {
				out = b.ZExt(val.Val, bt, "")
			} else {
				out = b.SExt(val.Val, bt, "")
			}
		} else if to.AllocSize() < from.AllocSize() {
			out = b.Trunc(val.Val, bt, "")
		} else {
			*val = value.New(val.Val, actual)
			return
		}
	case fromF && !toF:
		if to.IsUnsigned() {
			out = b.FPToUI(val.Val, bt, "")
		} else {
			out = b.FPToSI(val.Val, bt, "")
		}
	case !fromF && toF:
		if from.IsUnsigned() {
			out = b.UIToFP(val.Val, bt, "")
		} else {
			out = b.SIToFP(val.Val, bt, "")
		}
	default:
		if to.IsDouble() {
			out = b.FPExt(val.Val, bt, "")
		} else {
			out = b.FPTrunc(val.Val, bt, "")
		}
	}
	*val = value.New(out, actual)
}

// intPredicate and floatPredicate map a CmpOp plus signedness to the
// back end's predicate enum, matching Inst::getPredicate's lookup table.
func intPredicate(cmp CmpOp, unsigned bool) backend.IntPredicate {
	if unsigned {
		switch cmp {
		case Lt:
			return backend.IntULT
		case Gt:
			return backend.IntUGT
		case Leq:
			return backend.IntULE
		case Geq:
			return backend.IntUGE
		case Neq:
			return backend.IntNE
		default:
			return backend.IntEQ
		}
	}
	switch cmp {
	case Lt:
		return backend.IntSLT
	case Gt:
		return backend.IntSGT
	case Leq:
		return backend.IntSLE
	case Geq:
		return backend.IntSGE
	case Neq:
		return backend.IntNE
	default:
		return backend.IntEQ
	}
}

func floatPredicate(cmp CmpOp) backend.FloatPredicate {
	switch cmp {
	case Lt:
		return backend.FloatOLT
	case Gt:
		return backend.FloatOGT
	case Leq:
		return backend.FloatOLE
	case Geq:
		return backend.FloatOGE
	case Neq:
		return backend.FloatONE
	default:
		return backend.FloatOEQ
	}
}

// BinaryOp evaluates a `+ - * / % << >> & | ^` between two already
// type-unified-or-unifiable operands, routing to pointer arithmetic
// when exactly one side is a pointer, matching Inst::BinaryOp.
func BinaryOp(c *context.CodeContext, op Op, optTok token.Token, lhs, rhs value.RValue) value.RValue {
	if CastMatch(c, optTok, &lhs, &rhs, true) {
		return value.Undef()
	}
	lp, rp := lhs.Ty.IsPointer(), rhs.Ty.IsPointer()
	switch {
	case lp && rp:
		c.Global.AddError(optTok, "can't perform operation with two pointers")
		return lhs
	case rp && !lp:
		return pointerMath(c, op, optTok, rhs, lhs)
	case lp && !rp:
		return pointerMath(c, op, optTok, lhs, rhs)
	default:
		return arith(c, op, optTok, lhs, rhs)
	}
}

// pointerMath is restricted to +/- of an integer index, matching the
// original's ++/-- pointer-arithmetic restriction — every other operator
// on a pointer operand is a compiler error.
func pointerMath(c *context.CodeContext, op Op, optTok token.Token, ptr, idx value.RValue) value.RValue {
	if op != Add && op != Sub {
		c.Global.AddError(optTok, "pointer arithmetic only valid using +/- operators")
		return ptr
	}
	offset := idx
	if op == Sub {
		b := c.Builder()
		zero := b.ConstInt(c.Global.BackendType(idx.Ty), 0)
		offset = value.New(b.Sub(zero, idx.Val, ""), idx.Ty)
	}
	return GetElementPtr(c, ptr, []backend.Value{offset.Val}, ptr.Ty)
}

func arith(c *context.CodeContext, op Op, optTok token.Token, lhs, rhs value.RValue) value.RValue {
	ty := lhs.Ty
	elemTy := ty
	if ty.IsVec() {
		elemTy = ty.Subtype()
	} else if isComplex(ty) {
		c.Global.AddError(optTok, "can not perform operation on composite types")
		return value.Undef()
	}
	b := c.Builder()
	floating := elemTy.IsFloating()
	unsigned := elemTy.IsUnsigned()
	var out backend.Value
	switch op {
	case Mul:
		if floating {
			out = b.FMul(lhs.Val, rhs.Val, "")
		} else {
			out = b.Mul(lhs.Val, rhs.Val, "")
		}
	case Div:
		switch {
		case floating:
			out = b.FDiv(lhs.Val, rhs.Val, "")
		case unsigned:
			out = b.UDiv(lhs.Val, rhs.Val, "")
		default:
			out = b.SDiv(lhs.Val, rhs.Val, "")
		}
	case Mod:
		switch {
		case floating:
			c.Global.AddError(optTok, "modulo operator invalid for float types")
			return value.Undef()
		case unsigned:
			out = b.URem(lhs.Val, rhs.Val, "")
		default:
			out = b.SRem(lhs.Val, rhs.Val, "")
		}
	case Add:
		if floating {
			out = b.FAdd(lhs.Val, rhs.Val, "")
		} else {
			out = b.Add(lhs.Val, rhs.Val, "")
		}
	case Sub:
		if floating {
			out = b.FSub(lhs.Val, rhs.Val, "")
		} else {
			out = b.Sub(lhs.Val, rhs.Val, "")
		}
	case LShift:
		if floating {
			c.Global.AddError(optTok, "shift operator invalid for float types")
			return value.Undef()
		}
		out = b.Shl(lhs.Val, rhs.Val, "")
	case RShift:
		if floating {
			c.Global.AddError(optTok, "shift operator invalid for float types")
			return value.Undef()
		}
		if unsigned {
			out = b.LShr(lhs.Val, rhs.Val, "")
		} else {
			out = b.AShr(lhs.Val, rhs.Val, "")
		}
	case BitAnd:
		if floating {
			c.Global.AddError(optTok, "AND operator invalid for float types")
			return value.Undef()
		}
		out = b.And(lhs.Val, rhs.Val, "")
	case BitOr:
		if floating {
			c.Global.AddError(optTok, "OR operator invalid for float types")
			return value.Undef()
		}
		out = b.Or(lhs.Val, rhs.Val, "")
	case BitXor:
		if floating {
			c.Global.AddError(optTok, "XOR operator invalid for float types")
			return value.Undef()
		}
		out = b.Xor(lhs.Val, rhs.Val, "")
	default:
		c.Global.AddError(optTok, "unrecognized operator")
		return value.Undef()
	}
	return value.New(out, ty)
}

// Branch emits a conditional branch on cond (or an unconditional true
// branch when cond is the zero RValue, for a bare `loop {}`), matching
// Inst::Branch.
func Branch(c *context.CodeContext, tok token.Token, trueBlock, falseBlock backend.Block, cond value.RValue) value.RValue {
	b := c.Builder()
	if !cond.IsValid() {
		cond = value.New(b.ConstInt(c.Global.BackendType(c.Global.Types.Bool()), 1), c.Global.Types.Bool())
	} else {
		CastTo(c, tok, &cond, c.Global.Types.Bool(), false)
	}
	b.CondBr(cond.Val, trueBlock, falseBlock)
	return cond
}

// Cmp evaluates a `< > <= >= != ==` comparison, matching Inst::Cmp.
func Cmp(c *context.CodeContext, cmp CmpOp, optTok token.Token, lhs, rhs value.RValue) value.RValue {
	if CastMatch(c, optTok, &lhs, &rhs, false) {
		return value.Undef()
	}
	elemTy := lhs.Ty
	retTy := c.Global.Types.Bool()
	if lhs.Ty.IsVec() {
		elemTy = lhs.Ty.Subtype()
		retTy = c.Global.Types.Vec(retTy, lhs.Ty.(*types.VecType).Count)
	}
	b := c.Builder()
	var out backend.Value
	if elemTy.IsFloating() {
		out = b.FCmp(floatPredicate(cmp), lhs.Val, rhs.Val, "")
	} else {
		out = b.ICmp(intPredicate(cmp, elemTy.IsUnsigned()), lhs.Val, rhs.Val, "")
	}
	return value.New(out, retTy)
}

// Load reads the value stored at v's storage slot, matching Inst::Load.
// A function value instead becomes a function pointer without requiring
// an explicit address-of, and an undef v is returned as is; every other
// v is treated as a storage slot and loaded.
func Load(c *context.CodeContext, v value.RValue) value.RValue {
	if !v.IsValid() {
		return v
	}
	if v.IsFunction() {
		return value.New(v.Val, c.Global.Types.Pointer(v.Ty))
	}
	return value.New(c.Builder().Load(v.Val, ""), v.Ty)
}

// Deref follows one pointer indirection (recursive unwraps every level),
// matching Inst::Deref.
func Deref(c *context.CodeContext, v value.RValue, recursive bool) value.RValue {
	ret := v
	for ret.Ty.IsPointer() {
		ret = value.New(c.Builder().Load(ret.Val, ""), ret.Ty.Subtype())
		if !recursive {
			break
		}
	}
	return ret
}

// SizeOf resolves the `size(type)` operator to a compile-time constant,
// matching the SType-overload of Inst::SizeOf (the name- and
// expression-based overloads are resolved one layer up, in
// internal/visit, where the AST the out-of-scope parser hands back is
// actually available).
func SizeOf(c *context.CodeContext, ty types.Type, tok token.Token) value.RValue {
	if ty == nil {
		return value.Undef()
	}
	if ty.IsAuto() || ty.IsVoid() || ty.IsOpaque() {
		c.Global.AddError(tok, "size of %s is invalid", ty.String())
		return value.Undef()
	}
	b := c.Builder()
	i64 := c.Global.Types.Int(64)
	return value.New(b.ConstInt(c.Global.BackendType(i64), int64(ty.AllocSize())), i64)
}

// LenOp resolves the `len(type)` operator — valid only for array and
// enum types, matching Inst::LenOp.
func LenOp(c *context.CodeContext, ty types.Type, tok token.Token) value.RValue {
	if ty == nil {
		return value.Undef()
	}
	if !ty.IsArray() && !ty.IsEnum() {
		c.Global.AddError(tok, "len operator invalid for %s type", ty.String())
		return value.Undef()
	}
	b := c.Builder()
	i32 := c.Global.Types.Int(32)
	var count uint64
	if at, ok := ty.(*types.ArrayType); ok {
		count = at.Count
	} else {
		count = uint64(len(ty.(*types.EnumType).Members))
	}
	return value.New(b.ConstInt(c.Global.BackendType(i32), int64(count)), i32)
}

// GetElementPtr issues a GEP off ptr, matching Inst::GetElementPtr.
func GetElementPtr(c *context.CodeContext, ptr value.RValue, idxs []backend.Value, ty types.Type) value.RValue {
	return value.New(c.Builder().GEP(ptr.Val, idxs, ""), ty)
}

// MethodFunction resolves a ClassType method to its already-declared
// backend function, for callers outside this package building a
// []value.SFunction overload set for CallFunction (e.g. the Expression
// Visitor resolving a MemberFunctionCall).
func MethodFunction(c *context.CodeContext, m *types.Method) (value.SFunction, bool) {
	return methodFunction(c, m)
}

func methodFunction(c *context.CodeContext, m *types.Method) (value.SFunction, bool) {
	fn, ok := c.Global.Module.GetFunction(m.MangledName)
	if !ok {
		return value.SFunction{}, false
	}
	return value.NewFunction(fn, m.Type, nil), true
}

// CallFunction resolves the best-matching overload in funcs by argument
// count then by per-parameter type match, casts each argument to its
// formal parameter type, and emits the call. Matches Inst::CallFunction.
func CallFunction(c *context.CodeContext, funcs []value.SFunction, name token.Token, args []value.RValue) value.RValue {
	var sizeMatch []value.SFunction
	for _, f := range funcs {
		if f.NumParams() == len(args) {
			sizeMatch = append(sizeMatch, f)
		}
	}
	if len(sizeMatch) == 0 {
		if len(funcs) > 0 {
			c.Global.AddError(name, "argument count for %s function invalid, %d arguments given, but %d required.",
				name.Text, len(args), funcs[0].NumParams())
		}
		return value.Undef()
	}

	fn := sizeMatch[0]
	if len(sizeMatch) > 1 {
		var paramMatch []value.SFunction
		bestCount := 0
		for _, mf := range sizeMatch {
			matchCount := 0
			for i := range args {
				if mf.Param(i) == args[i].Ty {
					matchCount++
				}
			}
			switch {
			case matchCount == bestCount:
				paramMatch = append(paramMatch, mf)
			case matchCount > bestCount:
				bestCount = matchCount
				paramMatch = []value.SFunction{mf}
			}
		}
		if len(paramMatch) != 1 {
			c.Global.AddError(name, "arguments ambiguous for overloaded function %s", name.Text)
			return value.Undef()
		}
		fn = paramMatch[0]
	}

	for i := 0; i < fn.NumParams(); i++ {
		CastTo(c, name, &args[i], fn.Param(i), false)
	}
	values := make([]backend.Value, len(args))
	for i, a := range args {
		values[i] = a.Val
	}
	call := c.Builder().Call(fn.Val.(backend.Function), values, "")
	return value.New(call, fn.ReturnType())
}

// CallConstructor synthesizes the constructor call for a newly allocated
// variable (or, for an array of class instances, a loop calling the
// constructor once per element), matching Inst::CallConstructor. Returns
// false (doing nothing) when varType has no user-defined constructor —
// the caller falls back to InitVariable's zero/copy initialization.
func CallConstructor(c *context.CodeContext, v, arrSize value.RValue, initList []value.RValue, tok token.Token) bool {
	varType := v.Ty
	var ct *types.ClassType
	isArr := false
	switch t := varType.(type) {
	case *types.ClassType:
		ct = t
	case *types.ArrayType:
		if cls, ok := t.Base.(*types.ClassType); ok {
			isArr = true
			ct = cls
		}
	}
	if ct == nil || ct.Constructor == nil {
		return false
	}
	fn, ok := methodFunction(c, ct.Constructor)
	if !ok {
		return false
	}

	target := v
	var endPtr, nextPtr backend.Value
	if isArr {
		b := c.Builder()
		startBlock := c.CurrBlock()
		i32 := c.Global.Types.Int(32)
		zero := b.ConstInt(c.Global.BackendType(i32), 0)
		startPtr := b.GEP(v.Val, []backend.Value{zero, zero}, "")

		size := arrSize
		if !size.IsValid() {
			size = value.New(b.ConstInt(c.Global.BackendType(c.Global.Types.Int(64)), int64(varType.AllocSize())), c.Global.Types.Int(64))
		}
		endPtr = b.GEP(startPtr, []backend.Value{size.Val}, "")

		loop := c.CreateBlock("ctor.loop")
		b.Br(loop)
		c.PushBlock(loop)

		elemPtrTy := c.Global.Types.Pointer(ct)
		phi := b.Phi(c.Global.BackendType(elemPtrTy), "")
		one := b.ConstInt(c.Global.BackendType(c.Global.Types.Int(64)), 1)
		nextPtr = b.GEP(phi, []backend.Value{one}, "")
		b.AddIncoming(phi, startPtr, startBlock)
		b.AddIncoming(phi, nextPtr, loop)
		target = value.New(phi, ct)
	}

	args := make([]value.RValue, 0, len(initList)+1)
	args = append(args, value.New(target.Val, c.Global.Types.Pointer(target.Ty)))
	args = append(args, initList...)
	callConstructorFunc(c, fn, tok, args)

	if isArr {
		b := c.Builder()
		cmp := b.ICmp(backend.IntEQ, nextPtr, endPtr, "")
		after := c.CreateBlock("ctor.done")
		b.CondBr(cmp, after, c.CurrBlock())
		c.PushBlock(after)
	}
	return true
}

func callConstructorFunc(c *context.CodeContext, fn value.SFunction, tok token.Token, args []value.RValue) {
	for i := 0; i < fn.NumParams() && i < len(args); i++ {
		CastTo(c, tok, &args[i], fn.Param(i), false)
	}
	values := make([]backend.Value, len(args))
	for i, a := range args {
		values[i] = a.Val
	}
	c.Builder().Call(fn.Val.(backend.Function), values, "")
}

// CallDestructor emits the destructor call for a single class-typed
// pointer value, a no-op if the class declares none. Matches
// Inst::CallDestructor.
func CallDestructor(c *context.CodeContext, v value.RValue, tok token.Token) {
	pt, ok := v.Ty.(*types.PointerType)
	if !ok {
		return
	}
	ct, ok := pt.Base.(*types.ClassType)
	if !ok || ct.Destructor == nil {
		return
	}
	fn, ok := methodFunction(c, ct.Destructor)
	if !ok {
		return
	}
	c.Builder().Call(fn.Val.(backend.Function), []backend.Value{v.Val}, "")
}

// CallDestructables emits a destructor call for every destructable
// symbol tracked by the code context's local scopes from fromLevel up to
// the innermost, innermost first — the scope-exit and early-return
// cleanup the Symbol Table's destructor tracking exists for. Matches
// Inst::CallDestructables(context, retAlloc, token, level): a `return`
// passes fromLevel 0 to unwind every open scope; `break`/`continue`/
// `redo` pass the scope depth their target loop's block was registered
// at (CodeContext.GetBreakBlock/GetContinueBlock/GetRedoBlock's second
// result), so a local declared before the loop is left for its own real
// scope exit instead of being destructed a second time here.
func CallDestructables(c *context.CodeContext, tok token.Token, fromLevel int) {
	for _, sym := range c.Destructables(fromLevel) {
		v, ok := sym.Value.(value.RValue)
		if !ok {
			continue
		}
		CallDestructor(c, value.New(v.Val, c.Global.Types.Pointer(v.Ty)), tok)
	}
}

// LoadMemberVar resolves `base.member` for a struct, union, or enum base
// type, matching Inst::LoadMemberVar. Struct members become a GEP, union
// members a bitcast (all union members overlap byte 0 — see
// GlobalContext.BackendType's union layout), and enum members the
// member's constant value.
func LoadMemberVar(c *context.CodeContext, baseVar value.RValue, baseTok, memberTok token.Token) value.RValue {
	varType := baseVar.Ty
	member := memberTok.Text
	baseName := varType.String()

	switch st := varType.(type) {
	case *types.StructType:
		idx := st.FieldIndex(member)
		if idx < 0 {
			c.Global.AddError(memberTok, "%s doesn't have member %s", baseName, member)
			return value.Undef()
		}
		field := st.Fields[idx]
		i32 := c.Global.Types.Int(32)
		zero := c.Builder().ConstInt(c.Global.BackendType(i32), 0)
		fieldIdx := c.Builder().ConstInt(c.Global.BackendType(i32), int64(idx))
		return GetElementPtr(c, baseVar, []backend.Value{zero, fieldIdx}, c.Global.Types.Pointer(field.Type))
	case *types.ClassType:
		idx := st.FieldIndex(member)
		if idx < 0 {
			c.Global.AddError(memberTok, "%s doesn't have member %s", baseName, member)
			return value.Undef()
		}
		field := st.Fields[idx]
		i32 := c.Global.Types.Int(32)
		zero := c.Builder().ConstInt(c.Global.BackendType(i32), 0)
		fieldIdx := c.Builder().ConstInt(c.Global.BackendType(i32), int64(idx))
		return GetElementPtr(c, baseVar, []backend.Value{zero, fieldIdx}, c.Global.Types.Pointer(field.Type))
	case *types.UnionType:
		idx := st.FieldIndex(member)
		if idx < 0 {
			c.Global.AddError(memberTok, "%s doesn't have member %s", baseName, member)
			return value.Undef()
		}
		field := st.Fields[idx]
		ptrTy := c.Global.Types.Pointer(field.Type)
		cast := c.Builder().BitCast(baseVar.Val, c.Global.BackendType(ptrTy), "")
		return value.New(cast, ptrTy)
	case *types.EnumType:
		v, ok := st.MemberValue(member)
		if !ok {
			c.Global.AddError(memberTok, "%s doesn't have member %s", baseName, member)
			return value.Undef()
		}
		cst := c.Builder().ConstInt(c.Global.BackendType(st.Base), v)
		return value.New(cst, st)
	}

	c.Global.AddError(baseTok, "%s is not a struct/union/enum", varType.String())
	return value.Undef()
}

// InitVariable runs constructor synthesis for a newly declared variable,
// falling back to zero-initialization (empty initializer) or a single
// cast-and-store (one-value initializer) when the variable's type has no
// constructor. Matches Inst::InitVariable.
func InitVariable(c *context.CodeContext, v, arrSize value.RValue, initList []value.RValue, tok token.Token) {
	if CallConstructor(c, v, arrSize, initList, tok) {
		return
	}
	if initList == nil {
		return
	}
	b := c.Builder()
	switch len(initList) {
	case 0:
		b.Store(b.ConstNull(c.Global.BackendType(v.Ty)), v.Val)
	case 1:
		initVal := initList[0]
		if initVal.IsValid() {
			CastTo(c, tok, &initVal, v.Ty, false)
			b.Store(initVal.Val, v.Val)
		}
	default:
		c.Global.AddError(tok, "invalid variable initializer")
	}
}

// StoreTemporary spills value onto the stack (an alloca + store),
// producing an addressable RValue for operations that require a pointer
// (e.g. taking the address of a cast result). Matches Inst::StoreTemporary.
func StoreTemporary(c *context.CodeContext, v value.RValue) value.RValue {
	b := c.Builder()
	alloc := b.Alloca(c.Global.BackendType(v.Ty), "")
	b.Store(v.Val, alloc)
	return value.New(alloc, v.Ty)
}
