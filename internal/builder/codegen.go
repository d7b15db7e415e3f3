package builder

import (
	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/context"
	"github.com/jdm64/saphyr/internal/instructions"
	"github.com/jdm64/saphyr/internal/symtab"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/internal/value"
	"github.com/jdm64/saphyr/internal/visit"
)

// codegenPending runs Phase C: every function or method body queued
// during declaration completion is generated now that every type and
// prototype in the compilation is known, matching Builder.cpp's
// per-function CGNStatement::run pass — deferred to its own phase here
// rather than interleaved with registration, since a body may call a
// function declared later in the same file (see package doc).
func (b *Builder) codegenPending() {
	for _, pb := range b.pending {
		b.codegenOne(pb)
	}
}

// codegenOne generates pb against pb.code: b.code for an ordinary
// declaration, or the forked template-argument-bound context Instantiate
// created for a template member, so a generic member body resolves its
// own type parameters the same way its signature did at registration time.
func (b *Builder) codegenOne(pb pendingBody) {
	code := pb.code
	fn := pb.fn.Val.(backend.Function)
	entry := fn.CreateBlock("entry")
	code.StartFuncBlock(pb.fn, entry)
	if pb.class != nil {
		code.SetClass(pb.class)
	}

	idx := 0
	if pb.class != nil && !pb.isStatic {
		thisTy := b.global.Types.Pointer(pb.class)
		bindParam(code, b.global, fn, idx, "this", thisTy)
		code.SetThis(thisTy)
		idx++
	}
	for _, p := range pb.params.Items {
		pt := visit.ResolveType(code, p.Type)
		if pt == nil {
			continue
		}
		bindParam(code, b.global, fn, idx, p.Name, pt)
		idx++
	}

	b.codegenBody(pb)

	if !ast.StatementListTerminates(pb.body) {
		retTy := pb.fn.ReturnType()
		if !retTy.IsVoid() {
			b.global.AddError(pb.tok, "function %s declared non-void, but no return found on all paths", pb.fn.Name())
		}
		instructions.CallDestructables(code, pb.tok, 0)
		code.Builder().RetVoid()
	}

	for _, d := range code.EndFuncBlock() {
		b.global.AddError(d.Tok, "%s", d.Message)
	}
}

// bindParam allocas storage for one incoming parameter and stores it as a
// local symbol, matching visitVariableDecl's local-storage shape so every
// later reference through the parameter's name behaves exactly like a
// declared local.
func bindParam(code *context.CodeContext, g *context.GlobalContext, fn backend.Function, idx int, name string, ty types.Type) {
	bldr := code.Builder()
	slot := bldr.Alloca(g.BackendType(ty), name)
	bldr.Store(fn.Param(idx), slot)
	sym := &symtab.Symbol{Name: name, Value: value.New(slot, ty), Type: ty}
	if ct, ok := ty.(*types.ClassType); ok && ct.Destructor != nil {
		sym.Destructable = true
	}
	code.StoreLocalSymbol(sym)
}

// codegenBody walks pb's statements, special-casing a constructor's
// prepended MemberInitializer entries (setupConstructor in struct.go):
// internal/visit's Statement Visitor has no case for them since a member
// initializer list is this package's concern, not a function body's —
// everything else delegates straight to visit.Visit.
func (b *Builder) codegenBody(pb pendingBody) {
	for _, s := range pb.body.Items {
		if mi, ok := s.(*ast.MemberInitializer); ok && pb.class != nil {
			codegenMemberInit(pb.code, b.global, pb.class, mi)
			continue
		}
		visit.Visit(pb.code, s)
	}
}

// codegenMemberInit runs one `name(args...)` constructor-initializer
// entry: resolves the field's storage address off the implicit `this`
// and runs InitVariable over it exactly as a local declaration's own
// initializer would, matching Builder.cpp's member-initializer lowering.
func codegenMemberInit(code *context.CodeContext, g *context.GlobalContext, ct *types.ClassType, mi *ast.MemberInitializer) {
	thisTok := synthTok(mi.Tok(), "this")
	member := ast.NewMemberVariable(ast.NewBaseVariable(thisTok), synthTok(mi.Tok(), mi.Name))
	addr := visit.EvalVariable(code, member)
	if !addr.IsValid() || !addr.Ty.IsPointer() {
		g.AddError(mi.Tok(), "class %s has no member %s", ct.Name(), mi.Name)
		return
	}
	target := value.New(addr.Val, addr.Ty.Subtype())

	args, ok := evalInitArgs(code, mi.Args)
	if !ok {
		return
	}
	instructions.InitVariable(code, target, value.Undef(), args, mi.Tok())
}

func evalInitArgs(code *context.CodeContext, list *ast.List[ast.Expression]) ([]value.RValue, bool) {
	if list == nil {
		return nil, true
	}
	args := make([]value.RValue, 0, list.Len())
	for _, e := range list.Items {
		v := visit.Eval(code, e)
		if !v.IsValid() {
			return nil, false
		}
		args = append(args, v)
	}
	return args, true
}
