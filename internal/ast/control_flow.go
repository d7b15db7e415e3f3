package ast

import "github.com/jdm64/saphyr/pkg/token"

// ExpressionStm is an expression used as a statement, e.g. a bare function
// call or assignment followed by `;`.
type ExpressionStm struct {
	base
	Expr Expression
}

func NewExpressionStm(e Expression) *ExpressionStm { return &ExpressionStm{base{e.Tok()}, e} }
func (n *ExpressionStm) ID() ID                    { return NExpressionStm }
func (n *ExpressionStm) isStatement()              {}
func (n *ExpressionStm) Clone() Node {
	c := *n
	c.Expr = n.Expr.Clone().(Expression)
	return &c
}

// ConditionStmt is the shared shape of every conditionally-entered block:
// an optional condition expression plus a body. Cond is nil for a bare
// LoopStatement (`loop { ... }`).
type ConditionStmt struct {
	base
	Cond Expression
	Body *StatementList
}

func (n *ConditionStmt) ID() ID      { return NConditionStmt }
func (n *ConditionStmt) isStatement() {}
func (n *ConditionStmt) Clone() Node {
	c := *n
	if n.Cond != nil {
		c.Cond = n.Cond.Clone().(Expression)
	}
	c.Body = n.Body.Clone()
	return &c
}

// LoopStatement is an unconditional `loop { body }`, exited only via
// break/goto.
type LoopStatement struct{ ConditionStmt }

func NewLoopStatement(tok token.Token, body *StatementList) *LoopStatement {
	return &LoopStatement{ConditionStmt{base{tok}, nil, body}}
}
func (n *LoopStatement) ID() ID { return NLoopStatement }
func (n *LoopStatement) Clone() Node {
	inner := n.ConditionStmt.Clone().(*ConditionStmt)
	return &LoopStatement{*inner}
}

// WhileStatement is `while`, `do...while`, or their `until` negations.
type WhileStatement struct {
	ConditionStmt
	DoWhile bool
	Until   bool
}

func NewWhileStatement(tok token.Token, cond Expression, body *StatementList, doWhile, until bool) *WhileStatement {
	return &WhileStatement{ConditionStmt{base{tok}, cond, body}, doWhile, until}
}
func (n *WhileStatement) ID() ID { return NWhileStatement }
func (n *WhileStatement) Clone() Node {
	inner := n.ConditionStmt.Clone().(*ConditionStmt)
	return &WhileStatement{*inner, n.DoWhile, n.Until}
}

// ForStatement is `for (preStm; cond; postExp) { body }`.
type ForStatement struct {
	ConditionStmt
	PreStm  *StatementList
	PostExp *List[Expression]
}

func NewForStatement(tok token.Token, preStm *StatementList, cond Expression, postExp *List[Expression], body *StatementList) *ForStatement {
	return &ForStatement{ConditionStmt{base{tok}, cond, body}, preStm, postExp}
}
func (n *ForStatement) ID() ID { return NForStatement }
func (n *ForStatement) Clone() Node {
	inner := n.ConditionStmt.Clone().(*ConditionStmt)
	return &ForStatement{*inner, n.PreStm.Clone(), n.PostExp.Clone()}
}

// IfStatement is `if (cond) { body } [else { elseBody }]`; ElseBody is nil
// when there is no else clause.
type IfStatement struct {
	ConditionStmt
	ElseBody *StatementList
}

func NewIfStatement(tok token.Token, cond Expression, body, elseBody *StatementList) *IfStatement {
	return &IfStatement{ConditionStmt{base{tok}, cond, body}, elseBody}
}
func (n *IfStatement) ID() ID { return NIfStatement }
func (n *IfStatement) Clone() Node {
	inner := n.ConditionStmt.Clone().(*ConditionStmt)
	var elseBody *StatementList
	if n.ElseBody != nil {
		elseBody = n.ElseBody.Clone()
	}
	return &IfStatement{*inner, elseBody}
}

// SwitchCase is one `case value: body` or `default: body` arm.
type SwitchCase struct {
	base
	Value *IntConst
	Body  *StatementList
}

func NewSwitchCase(tok token.Token, body *StatementList, value *IntConst) *SwitchCase {
	return &SwitchCase{base{tok}, value, body}
}
func (n *SwitchCase) ID() ID          { return NSwitchCase }
func (n *SwitchCase) isStatement()    {}
func (n *SwitchCase) IsValueCase() bool { return n.Value != nil }

// IsLastStmBranch reports whether the case's last statement already
// transfers control (return/goto/break/...), so the builder should not
// fall through to the next case.
func (n *SwitchCase) IsLastStmBranch() bool {
	if n.Body.Len() == 0 {
		return false
	}
	_, ok := n.Body.Items[len(n.Body.Items)-1].(terminator)
	return ok
}
func (n *SwitchCase) Clone() Node {
	c := *n
	if n.Value != nil {
		c.Value = n.Value.Clone().(*IntConst)
	}
	c.Body = n.Body.Clone()
	return &c
}

// terminator is implemented by statements that unconditionally transfer
// control out of the block they end (return, goto, break/continue/redo).
type terminator interface {
	isTerminator() bool
}

// StatementListTerminates reports whether list's last statement already
// transfers control, the same check SwitchCase.IsLastStmBranch runs for a
// case body — used by internal/builder to decide whether a function needs
// a synthesized trailing `return;`.
func StatementListTerminates(list *StatementList) bool {
	if list.Len() == 0 {
		return false
	}
	_, ok := list.Items[len(list.Items)-1].(terminator)
	return ok
}

// SwitchStatement is `switch (value) { cases... }`.
type SwitchStatement struct {
	base
	Value Expression
	Cases *List[*SwitchCase]
}

func NewSwitchStatement(tok token.Token, value Expression, cases *List[*SwitchCase]) *SwitchStatement {
	return &SwitchStatement{base{tok}, value, cases}
}
func (n *SwitchStatement) ID() ID       { return NSwitchStatement }
func (n *SwitchStatement) isStatement() {}
func (n *SwitchStatement) Clone() Node {
	c := *n
	c.Value = n.Value.Clone().(Expression)
	c.Cases = n.Cases.Clone()
	return &c
}
