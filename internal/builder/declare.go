package builder

import (
	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/pkg/token"
)

// registerStruct opaque-registers a struct/union, or stores it in the
// template registry instead if it carries template parameters — matching
// Builder::StoreTemplate's gate, run here rather than in completeStruct
// so a template is never given a Type Manager entry at all (an
// instantiation creates its own, per name-mangled instance).
func (b *Builder) registerStruct(n *ast.StructDeclaration) {
	if n.IsTemplate() {
		b.storeTemplate(n.Name, n.TemplateParams, n)
		return
	}
	if b.isDeclared(n.Tok(), n.Name) {
		return
	}
	kind := types.STRUCT
	if n.Kind == ast.StructKindUnion {
		kind = types.UNION
	}
	if _, err := b.global.Types.DeclareOpaque(n.Name, kind); err != nil {
		b.global.AddError(n.Tok(), "%s", err.Error())
	}
}

// registerClass opaque-registers a class the same way, or stores it as a
// template.
func (b *Builder) registerClass(n *ast.ClassDeclaration) {
	if n.IsTemplate() {
		b.storeTemplate(n.Name, n.TemplateParams, n)
		return
	}
	if b.isDeclared(n.Tok(), n.Name) {
		return
	}
	if _, err := b.global.Types.DeclareOpaque(n.Name, types.CLASS); err != nil {
		b.global.AddError(n.Tok(), "%s", err.Error())
	}
}

func (b *Builder) storeTemplate(name string, params []string, decl ast.Declaration) {
	if b.isDeclared(decl.Tok(), name) {
		return
	}
	b.templates[name] = &templateDecl{params: params, decl: decl}
}

// isDeclared reports (and, on a hit, records) whether name already names
// a user type or a stored template, matching Builder::isDeclared.
func (b *Builder) isDeclared(tok token.Token, name string) bool {
	if _, ok := b.global.Types.LookupUser(name); ok {
		b.global.AddError(tok, "type with name %s already declared", name)
		return true
	}
	if _, ok := b.templates[name]; ok {
		b.global.AddError(tok, "type with name %s already declared", name)
		return true
	}
	return false
}
