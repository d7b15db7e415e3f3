package builder

import (
	"fmt"
	"strings"

	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/context"
	"github.com/jdm64/saphyr/internal/types"
)

// Instantiate builds (or returns the cached) concrete user type for the
// template named name applied to args, matching Builder::getTemplateType:
// the template's stored declaration (storeTemplate in declare.go) is
// cloned, renamed to a mangled per-instantiation name, and pushed through
// the normal struct/class completion path with args bound as its active
// template-argument scope.
//
// This is an explicit entry point rather than a transparent hook inside
// internal/visit's Data-Type Visitor (which resolves a plain UserType
// name against the Type Manager directly, see resolveUser in
// datatype.go): having the visitor instantiate an unseen template itself
// would need it to call back into this package, and this package already
// imports internal/visit, so that direction would be a cycle. The
// frontend collaborator is expected to route a parsed generic
// instantiation through this entry point directly rather than through a
// plain UserType reference.
func (b *Builder) Instantiate(name string, args []types.Type) (types.UserType, error) {
	mangled := mangleTemplateName(name, args)
	if ut, ok := b.global.Types.LookupUser(mangled); ok {
		return ut, nil
	}

	tmpl, ok := b.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %s was not declared", name)
	}
	if len(args) != len(tmpl.params) {
		return nil, fmt.Errorf("template %s requires %d arguments, %d given", name, len(tmpl.params), len(args))
	}

	tmplArgs := make([]context.TemplateArg, len(args))
	for i, a := range args {
		tmplArgs[i] = context.TemplateArg{Name: tmpl.params[i], Type: a}
	}

	prevCode := b.code
	b.code = context.NewForTemplate(b.global, prevCode.Builder(), tmplArgs)
	defer func() { b.code = prevCode }()

	cloned := tmpl.decl.Clone()
	switch n := cloned.(type) {
	case *ast.StructDeclaration:
		n.Name = mangled
		n.TemplateParams = nil
		kind := types.STRUCT
		if n.Kind == ast.StructKindUnion {
			kind = types.UNION
		}
		if _, err := b.global.Types.DeclareOpaque(mangled, kind); err != nil {
			return nil, err
		}
		b.completeStruct(n)
	case *ast.ClassDeclaration:
		n.Name = mangled
		n.TemplateParams = nil
		if _, err := b.global.Types.DeclareOpaque(mangled, types.CLASS); err != nil {
			return nil, err
		}
		b.completeClass(n)
	default:
		return nil, fmt.Errorf("template %s is not a struct or class declaration", name)
	}

	ut, ok := b.global.Types.LookupUser(mangled)
	if !ok {
		return nil, fmt.Errorf("instantiating template %s failed", name)
	}
	return ut, nil
}

func mangleTemplateName(name string, args []types.Type) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return name + "<" + strings.Join(parts, ",") + ">"
}
