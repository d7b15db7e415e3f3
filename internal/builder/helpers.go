package builder

import (
	"strconv"

	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/internal/value"
	"github.com/jdm64/saphyr/internal/visit"
)

// resolveDataType runs the Data-Type Visitor against b's own CodeContext,
// the shared entry point every declaration-completion step in this
// package resolves a parsed type expression through.
func resolveDataType(b *Builder, dt ast.DataType) types.Type {
	return visit.ResolveType(b.code, dt)
}

// constIntValue recovers the integer value of a folded compile-time
// constant. The back end (internal/backend) is an intentionally opaque
// interface with no typed constant accessor (§6): the recording mock
// back end renders a ConstInt's value as its decimal text via Value.Name,
// so that rendering is parsed back here rather than adding a
// backend-specific accessor to the shared interface. A production back
// end would need a real constant-folding query instead of this string
// round-trip; see DESIGN.md.
func constIntValue(rv value.RValue) (int64, bool) {
	if !rv.IsValid() || !rv.Ty.IsInteger() {
		return 0, false
	}
	n, err := strconv.ParseInt(rv.Val.Name(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
