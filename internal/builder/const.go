package builder

import (
	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/value"
	"github.com/jdm64/saphyr/internal/visit"
)

// foldConstExpr evaluates e through the full Expression Visitor and
// reports whether the result is a compile-time constant, the mechanism
// CreateGlobalVar and CreateEnum both rely on (CGNExpression::run plus an
// isa<Constant> check) rather than a separate AST-level fold. Evaluation
// runs against a single never-finalized scratch function+block, created
// lazily, so a global initializer can use the same instruction-emitting
// visitors a function body does without ever being linked into the
// module's real output.
//
// A global initializer that is constant in spirit but whose back end
// representation isn't flagged IsConstant (e.g. a GEP into a string
// literal under the recording mock back end) legitimately fails this
// check; see DESIGN.md.
func (b *Builder) foldConstExpr(e ast.Expression) (value.RValue, bool) {
	b.ensureScratch()
	rv := visit.Eval(b.code, e)
	if !rv.IsValid() {
		return value.Undef(), false
	}
	return rv, rv.IsConst()
}

// ensureScratch lazily creates the scratch function+block foldConstExpr
// issues instructions against.
func (b *Builder) ensureScratch() {
	if b.scratch.Val != nil {
		return
	}
	voidTy := b.global.Types.Void()
	fnTy := b.global.Types.Function(voidTy, nil, false)
	fn := b.global.Module.DeclareFunction("$const.init", nil, b.global.BackendType(voidTy), false)
	b.scratch = value.NewFunction(fn, fnTy, nil)
	entry := fn.CreateBlock("entry")
	b.code.StartFuncBlock(b.scratch, entry)
}
