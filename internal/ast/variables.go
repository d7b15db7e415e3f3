package ast

import "github.com/jdm64/saphyr/pkg/token"

// BaseVariable is a bare identifier reference.
type BaseVariable struct {
	base
	Name string
}

func NewBaseVariable(tok token.Token) *BaseVariable { return &BaseVariable{base{tok}, tok.Text} }
func (n *BaseVariable) ID() ID                      { return NBaseVariable }
func (n *BaseVariable) isExpression()               {}
func (n *BaseVariable) isVariable()                 {}
func (n *BaseVariable) Clone() Node                 { c := *n; return &c }

// ArrayVariable is `arrVar[index]`.
type ArrayVariable struct {
	base
	ArrVar Variable
	Index  Expression
}

func NewArrayVariable(tok token.Token, arrVar Variable, index Expression) *ArrayVariable {
	return &ArrayVariable{base{tok}, arrVar, index}
}
func (n *ArrayVariable) ID() ID        { return NArrayVariable }
func (n *ArrayVariable) isExpression() {}
func (n *ArrayVariable) isVariable()   {}
func (n *ArrayVariable) Clone() Node {
	c := *n
	c.ArrVar = n.ArrVar.Clone().(Variable)
	c.Index = n.Index.Clone().(Expression)
	return &c
}

// MemberVariable is `baseVar.memberName`.
type MemberVariable struct {
	base
	BaseVar    Variable
	MemberName string
}

func NewMemberVariable(baseVar Variable, memberTok token.Token) *MemberVariable {
	return &MemberVariable{base{memberTok}, baseVar, memberTok.Text}
}
func (n *MemberVariable) ID() ID        { return NMemberVariable }
func (n *MemberVariable) isExpression() {}
func (n *MemberVariable) isVariable()   {}
func (n *MemberVariable) Clone() Node {
	c := *n
	c.BaseVar = n.BaseVar.Clone().(Variable)
	return &c
}

// ExprVariable wraps a parenthesized expression used in lvalue position,
// e.g. `(*p).field`.
type ExprVariable struct {
	base
	Expr Expression
}

func NewExprVariable(e Expression) *ExprVariable { return &ExprVariable{base{e.Tok()}, e} }
func (n *ExprVariable) ID() ID                   { return NExprVariable }
func (n *ExprVariable) isExpression()            {}
func (n *ExprVariable) isVariable()              {}
func (n *ExprVariable) Clone() Node {
	c := *n
	c.Expr = n.Expr.Clone().(Expression)
	return &c
}

// Dereference is `var@`.
type Dereference struct {
	base
	Var Variable
}

func NewDereference(tok token.Token, v Variable) *Dereference { return &Dereference{base{tok}, v} }
func (n *Dereference) ID() ID                                 { return NDereference }
func (n *Dereference) isExpression()                          {}
func (n *Dereference) isVariable()                            {}
func (n *Dereference) Clone() Node {
	c := *n
	c.Var = n.Var.Clone().(Variable)
	return &c
}

// AddressOf is `&var`.
type AddressOf struct {
	base
	Var Variable
}

func NewAddressOf(tok token.Token, v Variable) *AddressOf { return &AddressOf{base{tok}, v} }
func (n *AddressOf) ID() ID                               { return NAddressOf }
func (n *AddressOf) isExpression()                        {}
func (n *AddressOf) isVariable()                          {}
func (n *AddressOf) Clone() Node {
	c := *n
	c.Var = n.Var.Clone().(Variable)
	return &c
}

// ArrowOperator is `dataType->name<arg>` or `exp->name<arg>`: a compile-time
// introspection query (sizeof/typeof-style builtin dispatched by name).
type ArrowOperator struct {
	base
	DataType DataType
	Expr     Expression
	Name     string
	Arg      DataType
}

func NewArrowOperatorOnType(dt DataType, name token.Token, arg DataType) *ArrowOperator {
	return &ArrowOperator{base{name}, dt, nil, name.Text, arg}
}
func NewArrowOperatorOnExpr(e Expression, name token.Token, arg DataType) *ArrowOperator {
	return &ArrowOperator{base{name}, nil, e, name.Text, arg}
}
func (n *ArrowOperator) ID() ID        { return NArrowOperator }
func (n *ArrowOperator) isExpression() {}
func (n *ArrowOperator) isVariable()   {}
func (n *ArrowOperator) Clone() Node {
	c := *n
	if n.DataType != nil {
		c.DataType = n.DataType.Clone().(DataType)
	}
	if n.Expr != nil {
		c.Expr = n.Expr.Clone().(Expression)
	}
	if n.Arg != nil {
		c.Arg = n.Arg.Clone().(DataType)
	}
	return &c
}

// FunctionCall is `name(arguments...)`.
type FunctionCall struct {
	base
	Name      string
	Arguments *List[Expression]
}

func NewFunctionCall(tok token.Token, args *List[Expression]) *FunctionCall {
	return &FunctionCall{base{tok}, tok.Text, args}
}
func (n *FunctionCall) ID() ID        { return NFunctionCall }
func (n *FunctionCall) isExpression() {}
func (n *FunctionCall) isVariable()   {}
func (n *FunctionCall) Clone() Node {
	c := *n
	c.Arguments = n.Arguments.Clone()
	return &c
}

// MemberFunctionCall is `baseVar.funcName(arguments...)`.
type MemberFunctionCall struct {
	base
	BaseVar   Variable
	Name      string
	Arguments *List[Expression]
}

func NewMemberFunctionCall(baseVar Variable, nameTok token.Token, args *List[Expression]) *MemberFunctionCall {
	return &MemberFunctionCall{base{nameTok}, baseVar, nameTok.Text, args}
}
func (n *MemberFunctionCall) ID() ID        { return NMemberFunctionCall }
func (n *MemberFunctionCall) isExpression() {}
func (n *MemberFunctionCall) isVariable()   {}
func (n *MemberFunctionCall) Clone() Node {
	c := *n
	c.BaseVar = n.BaseVar.Clone().(Variable)
	c.Arguments = n.Arguments.Clone()
	return &c
}
