package visit

import (
	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/context"
	"github.com/jdm64/saphyr/internal/instructions"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/internal/value"
)

// EvalVariable resolves a Variable node to an addressable RValue, matching
// CGNVariable's visit table. Two representations flow through this
// function, mirroring what internal/instructions already expects:
//
//   - a plain variable's own storage: Ty is its declared type exactly
//     (not wrapped in a pointer), Val is the backing alloca/global —
//     the form internal/instructions.Load/InitVariable/CallConstructor
//     take directly (see their tests in internal/instructions).
//   - a computed member/element address (LoadMemberVar, array indexing):
//     Ty is Pointer(elementType), Val is the GEP result — the form
//     internal/instructions.Deref reads through.
//
// Callers that need the loaded value rather than the address call
// instructions.Load (first form) or instructions.Deref (second form) on
// the result; Eval in expression.go does this uniformly via loadVariable.
func EvalVariable(c *context.CodeContext, v ast.Variable) value.RValue {
	switch n := v.(type) {
	case *ast.BaseVariable:
		return evalBaseVariable(c, n)
	case *ast.ArrayVariable:
		return evalArrayVariable(c, n)
	case *ast.MemberVariable:
		return evalMemberVariable(c, n)
	case *ast.ExprVariable:
		return evalExprVariable(c, n)
	case *ast.Dereference:
		return evalDereference(c, n)
	case *ast.AddressOf:
		return evalAddressOf(c, n)
	case *ast.ArrowOperator:
		return evalArrowOperator(c, n)
	case *ast.FunctionCall:
		return evalFunctionCall(c, n)
	case *ast.MemberFunctionCall:
		return evalMemberFunctionCall(c, n)
	default:
		c.Global.AddError(v.Tok(), "unrecognized variable expression")
		return value.Undef()
	}
}

func evalBaseVariable(c *context.CodeContext, n *ast.BaseVariable) value.RValue {
	if sym, ok := c.LoadSymbol(n.Name); ok {
		if rv, ok := sym.Value.(value.RValue); ok {
			return rv
		}
		if fn, ok := sym.Value.(value.SFunction); ok {
			return fn.RValue
		}
	}
	// a bare name can also denote an enum type used for `.Member` access
	// (`Color.Red`), since the grammar parses that the same as a variable
	// reference followed by a MemberVariable. LoadMemberVar's enum branch
	// never reads this Val, but it must be non-nil so IsValid() doesn't
	// reject this as a failed lookup.
	if ut, ok := c.Global.Types.LookupUser(n.Name); ok {
		if et, ok := ut.(*types.EnumType); ok {
			placeholder := c.Builder().ConstInt(c.Global.BackendType(et.Base), 0)
			return value.New(placeholder, et)
		}
	}
	c.Global.AddError(n.Tok(), "variable %s was not declared in this scope", n.Name)
	return value.Undef()
}

// evalExprVariable resolves a parenthesized expression used in lvalue
// position, e.g. `(*p).field`. The wrapped expression must itself be a
// Variable (almost always a Dereference); evaluating it through
// EvalVariable rather than Eval keeps the result an address instead of a
// fully loaded rvalue, so a chained MemberVariable/ArrayVariable sees the
// same addressable shape it would for any other BaseVar.
func evalExprVariable(c *context.CodeContext, n *ast.ExprVariable) value.RValue {
	if v, ok := n.Expr.(ast.Variable); ok {
		return EvalVariable(c, v)
	}
	c.Global.AddError(n.Tok(), "expression is not usable as an lvalue")
	return value.Undef()
}

func evalArrayVariable(c *context.CodeContext, n *ast.ArrayVariable) value.RValue {
	base := EvalVariable(c, n.ArrVar)
	if !base.IsValid() {
		return value.Undef()
	}
	idx := loadExpr(c, n.Index)
	if !idx.IsValid() {
		return value.Undef()
	}
	i32 := c.Global.Types.Int(32)
	instructions.CastTo(c, n.Index.Tok(), &idx, i32, true)

	switch {
	case base.Ty.IsArray():
		zero := c.Builder().ConstInt(c.Global.BackendType(i32), 0)
		elemTy := base.Ty.Subtype()
		return instructions.GetElementPtr(c, base, []backend.Value{zero, idx.Val}, c.Global.Types.Pointer(elemTy))
	case base.Ty.IsPointer():
		loaded := instructions.Load(c, base)
		elemTy := loaded.Ty.Subtype()
		return instructions.GetElementPtr(c, loaded, []backend.Value{idx.Val}, c.Global.Types.Pointer(elemTy))
	default:
		c.Global.AddError(n.Tok(), "%s is not an array or pointer type", base.Ty.String())
		return value.Undef()
	}
}

func evalMemberVariable(c *context.CodeContext, n *ast.MemberVariable) value.RValue {
	base := EvalVariable(c, n.BaseVar)
	if !base.IsValid() {
		return value.Undef()
	}
	// `.` auto-dereferences exactly one level when the base names a
	// pointer-typed variable directly (`p.field` where p: T@); a chained
	// member/array access that already produced an embedded-struct
	// address is used as-is (see the doc comment on EvalVariable).
	if _, isVar := n.BaseVar.(*ast.BaseVariable); isVar && base.Ty.IsPointer() {
		loaded := instructions.Load(c, base)
		base = value.New(loaded.Val, loaded.Ty.Subtype())
	}
	return instructions.LoadMemberVar(c, base, n.BaseVar.Tok(), n.Tok())
}

func evalDereference(c *context.CodeContext, n *ast.Dereference) value.RValue {
	base := EvalVariable(c, n.Var)
	if !base.IsValid() {
		return value.Undef()
	}
	loaded := instructions.Load(c, base)
	if !loaded.Ty.IsPointer() {
		c.Global.AddError(n.Tok(), "can not dereference a non-pointer type %s", loaded.Ty.String())
		return value.Undef()
	}
	return value.New(loaded.Val, loaded.Ty.Subtype())
}

func evalAddressOf(c *context.CodeContext, n *ast.AddressOf) value.RValue {
	base := EvalVariable(c, n.Var)
	if !base.IsValid() {
		return value.Undef()
	}
	return value.New(base.Val, c.Global.Types.Pointer(base.Ty))
}

// evalArrowOperator handles the compile-time introspection builtins
// (`T->size`, `exp->size`, ...), matching CGNExpression.cpp's
// NArrowOperator handling plus Instructions.cpp's SizeOf/LenOp name- and
// expression-based overloads, resolved here where the AST is available.
func evalArrowOperator(c *context.CodeContext, n *ast.ArrowOperator) value.RValue {
	var ty types.Type
	switch {
	case n.DataType != nil:
		ty = ResolveType(c, n.DataType)
	case n.Expr != nil:
		v := loadExpr(c, n.Expr)
		if !v.IsValid() {
			return value.Undef()
		}
		ty = v.Ty
	}
	if ty == nil {
		return value.Undef()
	}
	switch n.Name {
	case "size":
		return instructions.SizeOf(c, ty, n.Tok())
	case "len":
		return instructions.LenOp(c, ty, n.Tok())
	default:
		c.Global.AddError(n.Tok(), "unrecognized arrow operator %s", n.Name)
		return value.Undef()
	}
}

func loadExpr(c *context.CodeContext, e ast.Expression) value.RValue {
	return Eval(c, e)
}

// addressOf evaluates v to its storage address plus the type stored there,
// for an assignment's or increment's lhs: the same two EvalVariable
// conventions loadVariable reads through, but stopping one step short of
// the final Load/Deref so the caller can Store back into addr.Val.
func addressOf(c *context.CodeContext, v ast.Variable) (value.RValue, types.Type) {
	addr := EvalVariable(c, v)
	if !addr.IsValid() {
		return addr, nil
	}
	return addr, elemTypeOf(v, addr)
}

func elemTypeOf(v ast.Variable, addr value.RValue) types.Type {
	switch n := v.(type) {
	case *ast.ExprVariable:
		if inner, ok := n.Expr.(ast.Variable); ok {
			return elemTypeOf(inner, addr)
		}
		return addr.Ty
	case *ast.ArrayVariable:
		return addr.Ty.Subtype()
	case *ast.MemberVariable:
		if addr.Ty.IsPointer() {
			return addr.Ty.Subtype()
		}
		return addr.Ty
	default:
		return addr.Ty
	}
}

// loadVariable evaluates v to its address via EvalVariable and reads
// through it to a final rvalue, choosing Load vs. Deref per node kind
// since the two addressable conventions documented on EvalVariable can't
// be told apart from the resulting Ty alone in every case.
func loadVariable(c *context.CodeContext, v ast.Variable) value.RValue {
	addr := EvalVariable(c, v)
	if !addr.IsValid() {
		return addr
	}
	switch n := v.(type) {
	case *ast.BaseVariable, *ast.Dereference:
		// plain storage (BaseVariable) or a dereferenced pointer's own
		// addressable form (evalDereference already returns Ty=pointee,
		// Val=its address) — both read with a plain Load.
		return instructions.Load(c, addr)
	case *ast.ExprVariable:
		if inner, ok := n.Expr.(ast.Variable); ok {
			return loadVariable(c, inner)
		}
		return addr
	case *ast.AddressOf, *ast.ArrowOperator, *ast.FunctionCall, *ast.MemberFunctionCall:
		// already a final value, no separate storage to read through
		return addr
	default:
		// ArrayVariable and MemberVariable: computed addresses are tagged
		// Pointer(element) and need one Deref; MemberVariable's enum
		// branch is already final (Ty left bare, not pointer-wrapped).
		if addr.Ty.IsPointer() {
			return instructions.Deref(c, addr, false)
		}
		return addr
	}
}
