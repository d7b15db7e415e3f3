package builder

import (
	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/types"
)

// createEnum resolves the (optional) base type and each member's value,
// auto-incrementing from the previous member when no initializer is
// given, matching Builder::CreateEnum. A member initializer is folded
// through foldConstExpr exactly like a global variable's — CreateEnum
// runs the same CGNExpression::run plus isa<Constant> check CreateGlobalVar
// does, not a separate lightweight fold.
func (b *Builder) createEnum(n *ast.EnumDeclaration) {
	baseTy := b.global.Types.Int(32)
	if n.BaseType != nil {
		ty := resolveEnumBase(b, n.BaseType)
		if ty == nil {
			return
		}
		baseTy = ty
	}

	var members []types.EnumMember
	seen := map[string]bool{}
	var next int64
	for _, v := range n.Vars.Items {
		if seen[v.Name] {
			b.global.AddError(v.Tok(), "enum member %s already declared", v.Name)
			return
		}
		seen[v.Name] = true

		val := next
		if v.InitExp != nil {
			rv, ok := b.foldConstExpr(v.InitExp)
			if !ok {
				b.global.AddError(v.Tok(), "enum member %s must be a compile-time constant", v.Name)
				return
			}
			iv, ok := constIntValue(rv)
			if !ok {
				b.global.AddError(v.Tok(), "enum member %s must be an integer constant", v.Name)
				return
			}
			val = iv
		}
		members = append(members, types.EnumMember{Name: v.Name, Value: val})
		next = val + 1
	}

	if _, err := b.global.Types.DeclareEnum(n.Name, baseTy, members); err != nil {
		b.global.AddError(n.Tok(), "%s", err.Error())
	}
}

func resolveEnumBase(b *Builder, dt ast.DataType) types.Type {
	ty := resolveDataType(b, dt)
	if ty == nil {
		return nil
	}
	if !ty.IsInteger() {
		b.global.AddError(dt.Tok(), "enum base type must be an integer type")
		return nil
	}
	return ty
}
