package builder

import (
	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/symtab"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/internal/value"
)

// createFunction resolves a free function's prototype and, if it carries
// a body, queues it for Phase C. A repeated prototype with the exact
// same signature is accepted idempotently (the original source lets a
// function be forward-declared, then defined, without complaint); a
// redeclaration with the same parameter types but a different return type
// is an error unless #[mangle] gives it its own symbol name; anything
// else bound to the same display name is an overload, stored
// alongside the others in a single []value.SFunction vector the way
// evalFunctionCall expects to find it at module scope, matching
// Builder::CreateFunction/getFuncPrototype.
func (b *Builder) createFunction(n *ast.FunctionDeclaration) {
	retTy := resolveDataType(b, n.RType)
	if retTy == nil {
		return
	}
	paramTys := make([]types.Type, 0, n.Params.Len())
	for _, p := range n.Params.Items {
		pt := resolveDataType(b, p.Type)
		if pt == nil {
			return
		}
		paramTys = append(paramTys, pt)
	}
	fnTy := b.global.Types.Function(retTy, paramTys, false)

	rawName := n.Name
	if attr := ast.FindAttribute(n.Attrs, "mangle"); attr != nil {
		if v := attr.ValueAt(0); v != nil {
			rawName = v.Value
		}
	}
	isOverride := rawName != n.Name

	if sym, ok := b.global.LoadGlobalSymbol(n.Name); ok {
		funcs, _ := sym.Value.([]value.SFunction)
		for _, f := range funcs {
			if f.FuncType().Equal(fnTy) {
				b.queueFreeFunctionBody(f, n)
				return
			}
		}
		if !isOverride {
			for _, f := range funcs {
				same := f.NumParams() == len(paramTys)
				for i := 0; same && i < len(paramTys); i++ {
					same = f.Param(i) == paramTys[i]
				}
				if same {
					b.global.AddError(n.Tok(), "function %s already declared with a different signature", n.Name)
					return
				}
			}
			rawName = rawName + "$" + fnTy.String()
		}
		sfn := b.declareFreeFunction(rawName, fnTy, paramTys, retTy, n)
		sym.Value = append(funcs, sfn)
		return
	}

	if isOverride {
		if _, exists := b.global.Module.GetFunction(rawName); exists {
			b.global.AddError(n.Tok(), "function name %s is already in use", rawName)
			return
		}
	}
	sfn := b.declareFreeFunction(rawName, fnTy, paramTys, retTy, n)
	b.global.StoreGlobalSymbol(&symtab.Symbol{Name: n.Name, Value: []value.SFunction{sfn}, Type: fnTy})
}

func (b *Builder) declareFreeFunction(rawName string, fnTy *types.FunctionType, paramTys []types.Type, retTy types.Type, n *ast.FunctionDeclaration) value.SFunction {
	backendParams := make([]backend.Type, len(paramTys))
	for i, p := range paramTys {
		backendParams[i] = b.global.BackendType(p)
	}
	fn := b.global.Module.DeclareFunction(rawName, backendParams, b.global.BackendType(retTy), false)
	sfn := value.NewFunction(fn, fnTy, n.Attrs)
	b.queueFreeFunctionBody(sfn, n)
	return sfn
}

func (b *Builder) queueFreeFunctionBody(fn value.SFunction, n *ast.FunctionDeclaration) {
	if n.Body == nil {
		return
	}
	b.pending = append(b.pending, pendingBody{fn: fn, params: n.Params, body: n.Body, tok: n.Tok(), code: b.code})
}

// predeclareBuiltins declares the handful of externals every compilation
// may call without a user-written prototype: malloc/free back the `new`/
// `delete` expressions (internal/visit also declares them on demand, so
// its own tests run without a builder pass in front of them), and printf
// is bound at module scope so it resolves through evalFunctionCall like
// any other free function, matching getBuiltinFunc's
// BuiltinFuncType::Printf special case.
func (b *Builder) predeclareBuiltins() {
	i64 := b.global.Types.Int(64)
	voidTy := b.global.Types.Void()
	voidPtr := b.global.Types.Pointer(voidTy)
	if _, ok := b.global.Module.GetFunction("malloc"); !ok {
		b.global.Module.DeclareFunction("malloc", []backend.Type{b.global.BackendType(i64)}, b.global.BackendType(voidPtr), false)
	}
	if _, ok := b.global.Module.GetFunction("free"); !ok {
		b.global.Module.DeclareFunction("free", []backend.Type{b.global.BackendType(voidPtr)}, b.global.BackendType(voidTy), false)
	}

	i32 := b.global.Types.Int(32)
	charPtr := b.global.Types.Pointer(b.global.Types.Int(8))
	printfTy := b.global.Types.Function(i32, []types.Type{charPtr}, true)
	fn := b.global.Module.DeclareFunction("printf", []backend.Type{b.global.BackendType(charPtr)}, b.global.BackendType(i32), true)
	sfn := value.NewFunction(fn, printfTy, nil)
	b.global.StoreGlobalSymbol(&symtab.Symbol{Name: "printf", Value: []value.SFunction{sfn}, Type: printfTy})
}
