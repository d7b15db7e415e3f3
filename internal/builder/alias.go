package builder

import "github.com/jdm64/saphyr/internal/ast"

// createAlias resolves the target type and registers the alias, matching
// Builder::CreateAlias. An alias to auto is rejected since the alias
// would have no concrete representation until some later use site fixed
// one, which this port's single-pass type resolution can't defer.
func (b *Builder) createAlias(n *ast.AliasDeclaration) {
	ty := resolveDataType(b, n.Type)
	if ty == nil {
		return
	}
	if ty.IsAuto() {
		b.global.AddError(n.Tok(), "can not alias the auto type")
		return
	}
	if _, err := b.global.Types.DeclareAlias(n.Name, ty); err != nil {
		b.global.AddError(n.Tok(), "%s", err.Error())
	}
}
