package builder

import (
	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/symtab"
	"github.com/jdm64/saphyr/internal/value"
)

// createGlobalVar resolves a module-scope variable's type and (if
// present) its constant initializer, matching Builder::CreateGlobalVar.
// Unlike a local variable, the declared type and the initializer's type
// must match exactly — no implicit numeric widening — since there is no
// per-use cast site to fold into at module scope.
func (b *Builder) createGlobalVar(n *ast.GlobalVariableDecl) {
	var initVal value.RValue
	haveInit := n.InitExp != nil
	if haveInit {
		rv, ok := b.foldConstExpr(n.InitExp)
		if !ok {
			b.global.AddError(n.Tok(), "global variable %s initializer must be a compile-time constant", n.Name)
			return
		}
		initVal = rv
	}

	declTy := resolveDataType(b, n.Type)
	if declTy == nil {
		return
	}
	if declTy.IsAuto() {
		if !haveInit {
			b.global.AddError(n.Tok(), "global variable %s declared auto requires an initializer", n.Name)
			return
		}
		declTy = initVal.Ty
	} else if err := b.global.Types.Validate(declTy); err != nil {
		b.global.AddError(n.Tok(), "%s", err.Error())
		return
	}
	if declTy.IsVoid() {
		b.global.AddError(n.Tok(), "global variable %s can not have type void", n.Name)
		return
	}

	if haveInit && declTy != initVal.Ty {
		if initVal.IsNullPtr() && declTy.IsPointer() {
			initVal = value.New(initVal.Val, declTy)
		} else {
			b.global.AddError(n.Tok(), "global variable %s initializer type %s does not match declared type %s",
				n.Name, initVal.Ty.String(), declTy.String())
			return
		}
	}
	if declTy.IsConst() && !haveInit {
		b.global.AddError(n.Tok(), "const global variable %s requires an initializer", n.Name)
		return
	}

	if _, ok := b.global.LoadGlobalSymbol(n.Name); ok {
		b.global.AddError(n.Tok(), "variable %s already declared", n.Name)
		return
	}

	gv := b.global.Module.DeclareGlobal(n.Name, b.global.BackendType(declTy))
	sym := &symtab.Symbol{Name: n.Name, Value: value.New(gv, declTy), Type: declTy}
	b.global.StoreGlobalSymbol(sym)
}
