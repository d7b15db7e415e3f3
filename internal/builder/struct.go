package builder

import (
	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/internal/value"
	"github.com/jdm64/saphyr/internal/visit"
	"github.com/jdm64/saphyr/pkg/token"
)

// completeStruct fills in a previously opaque struct/union's field list,
// matching Builder::CreateStruct minus the class path (classes parse as
// ClassDeclaration and go through completeClass instead).
func (b *Builder) completeStruct(n *ast.StructDeclaration) {
	if n.IsTemplate() {
		return
	}
	ut, ok := b.global.Types.LookupUser(n.Name)
	if !ok {
		return
	}
	fields, ok := b.collectFields(n.Vars, false)
	if !ok {
		return
	}
	switch st := ut.(type) {
	case *types.StructType:
		b.global.Types.SetStructBody(st, fields)
	case *types.UnionType:
		b.global.Types.SetUnionBody(st, fields)
	}
}

// collectFields resolves every VariableDeclGroup in vars to a Field,
// rejecting the shapes addMembers rejects: an unresolvable type, void or
// auto, an incomplete (still-opaque) user type, a struct-member
// initializer, and (for a plain struct/union, allowClass false) a
// class-typed field — a class field may need a constructor/destructor
// call, and a plain struct never runs that machinery; the
// original's more permissive isConstructable()/isDestructable() ordering
// check collapses to this simpler reject here.
func (b *Builder) collectFields(vars *ast.List[*ast.VariableDeclGroup], allowClass bool) ([]types.Field, bool) {
	var fields []types.Field
	seen := map[string]bool{}
	ok := true
	for _, group := range vars.Items {
		ty := visit.ResolveType(b.code, group.Type)
		if ty == nil {
			ok = false
			continue
		}
		if ty.IsVoid() || ty.IsAuto() {
			b.global.AddError(group.Tok(), "member can not have type %s", ty.String())
			ok = false
			continue
		}
		if ty.IsOpaque() {
			b.global.AddError(group.Tok(), "member type %s is not fully declared", ty.String())
			ok = false
			continue
		}
		if !allowClass {
			if _, isClass := ty.(*types.ClassType); isClass {
				b.global.AddError(group.Tok(), "class type %s not allowed as a struct/union member", ty.String())
				ok = false
				continue
			}
		}
		for _, v := range group.Vars.Items {
			if v.HasInit() {
				b.global.AddError(v.Tok(), "struct member %s can not have an initializer", v.Name)
				ok = false
				continue
			}
			if seen[v.Name] {
				b.global.AddError(v.Tok(), "member %s already declared", v.Name)
				ok = false
				continue
			}
			seen[v.Name] = true
			fields = append(fields, types.Field{Name: v.Name, Type: ty})
		}
	}
	if !ok {
		return nil, false
	}
	return fields, true
}

// completeClass fills in a class's field list and synthesizes its
// members, matching Builder::CreateClass/SetupClassConstructor/
// SetupClassDestructor: at most one explicit struct-field group, one
// constructor and one destructor are allowed; a missing struct member,
// constructor, or destructor is synthesized empty, and setupConstructor/
// setupDestructor leave ct.Constructor/ct.Destructor nil when there is
// nothing for them to do.
func (b *Builder) completeClass(n *ast.ClassDeclaration) {
	if n.IsTemplate() {
		return
	}
	ut, ok := b.global.Types.LookupUser(n.Name)
	if !ok {
		return
	}
	ct := ut.(*types.ClassType)

	var structDecl *ast.ClassStructDecl
	var dtor *ast.ClassDestructor
	var ctors []*ast.ClassConstructor
	var methods []*ast.ClassFunctionDecl

	for _, m := range n.Members.Items {
		switch v := m.(type) {
		case *ast.ClassStructDecl:
			if structDecl != nil {
				b.global.AddError(v.Tok(), "class %s has more than one struct member", n.Name)
				return
			}
			structDecl = v
		case *ast.ClassDestructor:
			if dtor != nil {
				b.global.AddError(v.Tok(), "class %s has more than one destructor", n.Name)
				return
			}
			dtor = v
		case *ast.ClassConstructor:
			ctors = append(ctors, v)
		case *ast.ClassFunctionDecl:
			methods = append(methods, v)
		}
	}

	var vars *ast.List[*ast.VariableDeclGroup]
	if structDecl != nil {
		vars = structDecl.Vars
	} else {
		vars = ast.NewList[*ast.VariableDeclGroup]()
	}
	fields, ok := b.collectFields(vars, true)
	if !ok {
		return
	}
	if len(fields) == 0 {
		fields = []types.Field{{Name: "$pad", Type: b.global.Types.UInt(8)}}
	}
	b.global.Types.SetStructBody(&ct.StructType, fields)

	if len(ctors) > 1 {
		b.global.AddError(ctors[1].Tok(), "class %s has more than one constructor; overloaded constructors are not supported", n.Name)
		return
	}
	var ctor *ast.ClassConstructor
	if len(ctors) == 1 {
		ctor = ctors[0]
	} else {
		ctor = ast.NewClassConstructor(n.Tok(), ast.NewList[*ast.Parameter](), ast.NewList[*ast.MemberInitializer](), ast.NewList[ast.Statement]())
	}
	b.setupConstructor(ct, ctor)

	if dtor == nil {
		dtor = ast.NewClassDestructor(n.Tok(), ast.NewList[ast.Statement]())
	}
	b.setupDestructor(ct, dtor)

	for _, m := range methods {
		b.registerClassFunction(ct, m.Tok(), m.Name, m.RType, m.Params, m.Attrs, m.Body)
	}
}

// setupConstructor prepends a synthesized MemberInitializer statement for
// every field that is itself class-typed (or an array of class-typed
// elements) and not already named in n's explicit initializer list, then
// registers the constructor only if it ends up with something to do —
// matching SetupClassConstructor's emptiness gate, which leaves
// ct.Constructor nil for a class with no fields needing construction and
// an empty user body.
func (b *Builder) setupConstructor(ct *types.ClassType, n *ast.ClassConstructor) {
	named := map[string]bool{}
	for _, mi := range n.InitList.Items {
		if named[mi.Name] {
			b.global.AddError(mi.Tok(), "member %s already initialized", mi.Name)
			return
		}
		named[mi.Name] = true
	}

	var prelude []ast.Statement
	for _, mi := range n.InitList.Items {
		prelude = append(prelude, mi)
	}
	for _, f := range ct.Fields {
		if named[f.Name] {
			continue
		}
		fieldClassType, ok := classOf(f.Type)
		if !ok || fieldClassType.Constructor == nil {
			continue
		}
		prelude = append(prelude, ast.NewMemberInitializer(synthTok(n.Tok(), f.Name), ast.NewList[ast.Expression]()))
	}
	if len(prelude) == 0 && n.Body.Len() == 0 {
		return
	}

	body := ast.NewList[ast.Statement](append(append([]ast.Statement{}, prelude...), n.Body.Items...)...)
	ct.Constructor = b.registerClassFunction(ct, n.Tok(), "new", nil, n.Params, n.Attrs, body)
}

// setupDestructor appends a synthesized DestructorCall statement for
// every class-typed field with a non-nil destructor, matching
// SetupClassDestructor; the destructor is only registered when there is
// at least one field to destruct or a user-written body.
func (b *Builder) setupDestructor(ct *types.ClassType, n *ast.ClassDestructor) {
	var trailer []ast.Statement
	thisTok := n.Tok()
	for _, f := range ct.Fields {
		fieldClassType, ok := classOf(f.Type)
		if !ok || fieldClassType.Destructor == nil {
			continue
		}
		member := ast.NewMemberVariable(ast.NewBaseVariable(synthTok(thisTok, "this")), synthTok(thisTok, f.Name))
		trailer = append(trailer, ast.NewDestructorCall(member, thisTok))
	}
	if len(trailer) == 0 && n.Body.Len() == 0 {
		return
	}
	body := ast.NewList[ast.Statement](append(append([]ast.Statement{}, n.Body.Items...), trailer...)...)
	ct.Destructor = b.registerClassFunction(ct, n.Tok(), "delete", nil, ast.NewList[*ast.Parameter](), nil, body)
}

func classOf(t types.Type) (*types.ClassType, bool) {
	switch v := t.(type) {
	case *types.ClassType:
		return v, true
	case *types.ArrayType:
		return classOf(v.Base)
	default:
		return nil, false
	}
}

func synthTok(tok token.Token, text string) token.Token {
	tok.Text = text
	return tok
}

// registerClassFunction resolves a member function's signature, prepends
// the implicit `this` pointer parameter unless the function is
// `#[static]`, declares it on the back end under a class-qualified
// mangled name, and queues its body for Phase C. Matches
// CreateClassFunction's shape minus the synthetic-AST-parameter
// bookkeeping the original needs only to undo (this Go port tracks
// isStatic on pendingBody instead of mutating the AST).
func (b *Builder) registerClassFunction(ct *types.ClassType, tok token.Token, name string, rtypeNode ast.DataType, params *ast.List[*ast.Parameter], attrs *ast.List[*ast.Attribute], body *ast.StatementList) *types.Method {
	isStatic := ast.FindAttribute(attrs, "static") != nil

	var retTy types.Type
	if rtypeNode == nil {
		retTy = b.global.Types.Void()
	} else {
		retTy = visit.ResolveType(b.code, rtypeNode)
	}
	if retTy == nil {
		return nil
	}

	paramTys := make([]types.Type, 0, params.Len()+1)
	if !isStatic {
		paramTys = append(paramTys, b.global.Types.Pointer(ct))
	}
	for _, p := range params.Items {
		pt := visit.ResolveType(b.code, p.Type)
		if pt == nil {
			return nil
		}
		paramTys = append(paramTys, pt)
	}
	fnTy := b.global.Types.Function(retTy, paramTys, false)

	rawName := ct.Name() + "_" + name
	if attr := ast.FindAttribute(attrs, "mangle"); attr != nil {
		if v := attr.ValueAt(0); v != nil {
			rawName = v.Value
		}
	}
	if _, exists := b.global.Module.GetFunction(rawName); exists {
		rawName = rawName + "$" + fnTy.String()
	}

	backendParams := make([]backend.Type, len(paramTys))
	for i, p := range paramTys {
		backendParams[i] = b.global.BackendType(p)
	}
	fn := b.global.Module.DeclareFunction(rawName, backendParams, b.global.BackendType(retTy), false)
	sfn := value.NewFunction(fn, fnTy, attrs)

	m := &types.Method{Name: name, MangledName: rawName, Type: fnTy, IsStatic: isStatic}
	if name != "new" && name != "delete" {
		ct.AddMethod(*m)
	}

	b.pending = append(b.pending, pendingBody{fn: sfn, params: params, body: body, class: ct, isStatic: isStatic, tok: tok, code: b.code})
	return m
}
