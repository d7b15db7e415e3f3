package ast

import "github.com/jdm64/saphyr/pkg/token"

// NullPointer is the `null` literal.
type NullPointer struct{ base }

func NewNullPointer(tok token.Token) *NullPointer { return &NullPointer{base{tok}} }
func (n *NullPointer) ID() ID                     { return NNullPointer }
func (n *NullPointer) isExpression()              {}
func (n *NullPointer) Clone() Node                { c := *n; return &c }

// StringLiteral is a quoted string constant; Value has escapes resolved.
type StringLiteral struct {
	base
	Value string
}

func NewStringLiteral(tok token.Token, value string) *StringLiteral {
	return &StringLiteral{base{tok}, value}
}
func (n *StringLiteral) ID() ID        { return NStringLiteral }
func (n *StringLiteral) isExpression() {}
func (n *StringLiteral) Clone() Node   { c := *n; return &c }

// BoolConst is `true` or `false`.
type BoolConst struct {
	base
	Value bool
}

func NewBoolConst(tok token.Token, value bool) *BoolConst { return &BoolConst{base{tok}, value} }
func (n *BoolConst) ID() ID                               { return NBoolConst }
func (n *BoolConst) isExpression()                        {}
func (n *BoolConst) Clone() Node                          { c := *n; return &c }

// CharConst is a single-quoted character constant.
type CharConst struct {
	base
	Value byte
}

func NewCharConst(tok token.Token, value byte) *CharConst { return &CharConst{base{tok}, value} }
func (n *CharConst) ID() ID                                { return NCharConst }
func (n *CharConst) isExpression()                         {}
func (n *CharConst) Clone() Node                           { c := *n; return &c }

// IntConst is an integer literal; Base is 10, 8, or 16 per the lexed prefix.
type IntConst struct {
	base
	Value int64
	Base  int
}

func NewIntConst(tok token.Token, value int64, base_ int) *IntConst {
	return &IntConst{base{tok}, value, base_}
}
func (n *IntConst) ID() ID        { return NIntConst }
func (n *IntConst) isExpression() {}
func (n *IntConst) Clone() Node   { c := *n; return &c }

// FloatConst is a floating-point literal.
type FloatConst struct {
	base
	Value float64
}

func NewFloatConst(tok token.Token, value float64) *FloatConst {
	return &FloatConst{base{tok}, value}
}
func (n *FloatConst) ID() ID        { return NFloatConst }
func (n *FloatConst) isExpression() {}
func (n *FloatConst) Clone() Node   { c := *n; return &c }
