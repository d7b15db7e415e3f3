package ast

import (
	"testing"

	"github.com/jdm64/saphyr/pkg/token"
)

func tok(text string) token.Token { return token.New(text, "a.syp", 1, 1) }

// TestListCloneDeepCopies tests that List.Clone produces independent
// copies of every element, the mechanism template instantiation relies
// on to re-run the visitors over an untouched tree.
func TestListCloneDeepCopies(t *testing.T) {
	orig := NewList[DataType](NewBaseType(tok("int"), 1))
	clone := orig.Clone()

	if clone.Len() != 1 {
		t.Fatalf("Clone().Len() = %d, want 1", clone.Len())
	}
	if clone.Items[0] == orig.Items[0] {
		t.Error("Clone() should allocate new node values, not share pointers")
	}

	origBT := orig.Items[0].(*BaseType)
	cloneBT := clone.Items[0].(*BaseType)
	origBT.Kind = 99
	if cloneBT.Kind == 99 {
		t.Error("mutating the original after Clone() should not affect the clone")
	}
}

// TestListCloneNil tests that cloning a nil List is itself a no-op nil,
// so call sites don't need to special-case an absent optional list.
func TestListCloneNil(t *testing.T) {
	var l *List[Statement]
	if l.Clone() != nil {
		t.Error("Clone() of a nil List should return nil")
	}
	if l.Len() != 0 {
		t.Error("Len() of a nil List should be 0")
	}
}

// TestArrayTypeCloneDeep tests that ArrayType.Clone deep-copies both its
// Base and Size subtrees independently.
func TestArrayTypeCloneDeep(t *testing.T) {
	at := NewArrayType(tok("[10]"), NewBaseType(tok("int"), 1), NewIntConst(tok("10"), 10, 10))
	clone := at.Clone().(*ArrayType)

	if clone.Base == at.Base {
		t.Error("Clone() should not share the Base subtree")
	}
	if clone.Size == at.Size {
		t.Error("Clone() should not share the Size subtree")
	}
}

// TestFindAttributeByName tests looking up a declaration attribute by
// name, and that a missing name or a nil list both report absent.
func TestFindAttributeByName(t *testing.T) {
	list := NewList(
		NewAttribute(tok("mangle"), NewList(NewAttrValue(tok("puts"), "puts"))),
		NewAttribute(tok("static"), nil),
	)

	if FindAttribute(list, "static") == nil {
		t.Error("FindAttribute(static) should find the attribute")
	}
	if FindAttribute(list, "extern") != nil {
		t.Error("FindAttribute(extern) should return nil for an absent name")
	}
	if FindAttribute(nil, "static") != nil {
		t.Error("FindAttribute(nil, ...) should return nil")
	}

	mangle := FindAttribute(list, "mangle")
	if got := mangle.ValueAt(0); got == nil || got.Value != "puts" {
		t.Errorf("ValueAt(0) = %v, want AttrValue{Value: puts}", got)
	}
	if mangle.ValueAt(5) != nil {
		t.Error("ValueAt() past the end should return nil")
	}
}

// TestSwitchCaseIsLastStmBranch tests that a case block ending in a
// terminator (return/goto/break/continue/redo) is recognized as not
// needing an implicit fallthrough branch to the next case.
func TestSwitchCaseIsLastStmBranch(t *testing.T) {
	withReturn := NewSwitchCase(tok("case"),
		NewList[Statement](NewReturnStatement(tok("return"), nil)),
		NewIntConst(tok("1"), 1, 10))
	if !withReturn.IsLastStmBranch() {
		t.Error("a case ending in return should IsLastStmBranch()")
	}

	withoutTerminator := NewSwitchCase(tok("case"),
		NewList[Statement](NewExpressionStm(NewIntConst(tok("2"), 2, 10))),
		NewIntConst(tok("2"), 2, 10))
	if withoutTerminator.IsLastStmBranch() {
		t.Error("a case with no terminating statement should not IsLastStmBranch()")
	}
}

// TestSwitchCaseIsValueCase tests distinguishing a value case from the
// default case (Value == nil).
func TestSwitchCaseIsValueCase(t *testing.T) {
	value := NewSwitchCase(tok("case"), NewList[Statement](), NewIntConst(tok("1"), 1, 10))
	if !value.IsValueCase() {
		t.Error("a SwitchCase with a Value should IsValueCase()")
	}

	dflt := NewSwitchCase(tok("default"), NewList[Statement](), nil)
	if dflt.IsValueCase() {
		t.Error("a SwitchCase with no Value (default:) should not IsValueCase()")
	}
}
