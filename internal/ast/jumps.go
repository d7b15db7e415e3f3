package ast

import "github.com/jdm64/saphyr/pkg/token"

// BranchKind identifies which of break/continue/redo an NLoopBranch names.
type BranchKind int

const (
	BranchBreak BranchKind = 1 << iota
	BranchContinue
	BranchRedo
)

// ReturnStatement is `return [value];`.
type ReturnStatement struct {
	base
	Value Expression
}

func NewReturnStatement(tok token.Token, value Expression) *ReturnStatement {
	return &ReturnStatement{base{tok}, value}
}
func (n *ReturnStatement) ID() ID            { return NReturnStatement }
func (n *ReturnStatement) isStatement()      {}
func (n *ReturnStatement) isTerminator() bool { return true }
func (n *ReturnStatement) Clone() Node {
	c := *n
	if n.Value != nil {
		c.Value = n.Value.Clone().(Expression)
	}
	return &c
}

// GotoStatement is `goto label;`.
type GotoStatement struct {
	base
	Label string
}

func NewGotoStatement(nameTok token.Token) *GotoStatement {
	return &GotoStatement{base{nameTok}, nameTok.Text}
}
func (n *GotoStatement) ID() ID            { return NGotoStatement }
func (n *GotoStatement) isStatement()      {}
func (n *GotoStatement) isTerminator() bool { return true }
func (n *GotoStatement) Clone() Node       { c := *n; return &c }

// LoopBranch is `break [level];`, `continue [level];`, or `redo [level];`.
// Level selects which enclosing loop to target when nested (1 = innermost);
// nil means level 1.
type LoopBranch struct {
	base
	Kind  BranchKind
	Level *IntConst
}

func NewLoopBranch(tok token.Token, kind BranchKind, level *IntConst) *LoopBranch {
	return &LoopBranch{base{tok}, kind, level}
}
func (n *LoopBranch) ID() ID            { return NLoopBranch }
func (n *LoopBranch) isStatement()      {}
func (n *LoopBranch) isTerminator() bool { return true }
func (n *LoopBranch) Clone() Node {
	c := *n
	if n.Level != nil {
		c.Level = n.Level.Clone().(*IntConst)
	}
	return &c
}

// LabelStatement declares a goto target: `label:`.
type LabelStatement struct {
	base
	Name string
}

func NewLabelStatement(nameTok token.Token) *LabelStatement {
	return &LabelStatement{base{nameTok}, nameTok.Text}
}
func (n *LabelStatement) ID() ID         { return NLabelStatement }
func (n *LabelStatement) isStatement()   {}
func (n *LabelStatement) isDeclaration() {}
func (n *LabelStatement) Clone() Node    { c := *n; return &c }

// DeleteStatement is `delete var;`, freeing heap memory obtained via `new`.
type DeleteStatement struct {
	base
	Var Variable
}

func NewDeleteStatement(v Variable) *DeleteStatement { return &DeleteStatement{base{v.Tok()}, v} }
func (n *DeleteStatement) ID() ID       { return NDeleteStatement }
func (n *DeleteStatement) isStatement() {}
func (n *DeleteStatement) Clone() Node {
	c := *n
	c.Var = n.Var.Clone().(Variable)
	return &c
}

// DestructorCall is the compiler-synthesized `var.~this();` that a
// class's generated destructor body runs for each class-typed field with
// a destructor (see setupDestructor in internal/builder).
type DestructorCall struct {
	base
	Var Variable
}

func NewDestructorCall(v Variable, thisTok token.Token) *DestructorCall {
	return &DestructorCall{base{thisTok}, v}
}
func (n *DestructorCall) ID() ID       { return NDestructorCall }
func (n *DestructorCall) isStatement() {}
func (n *DestructorCall) Clone() Node {
	c := *n
	c.Var = n.Var.Clone().(Variable)
	return &c
}
