package ast

import "github.com/jdm64/saphyr/pkg/token"

// Assignment is `lhs op= rhs` (Op is OpAssign for plain `=`, or the
// arithmetic/bitwise OpCode for a compound form like `+=`).
type Assignment struct {
	base
	Op  OpCode
	Lhs Variable
	Rhs Expression
}

func NewAssignment(op OpCode, opTok token.Token, lhs Variable, rhs Expression) *Assignment {
	return &Assignment{base{opTok}, op, lhs, rhs}
}
func (n *Assignment) ID() ID        { return NAssignment }
func (n *Assignment) isExpression() {}
func (n *Assignment) Clone() Node {
	c := *n
	c.Lhs = n.Lhs.Clone().(Variable)
	c.Rhs = n.Rhs.Clone().(Expression)
	return &c
}

// TernaryOperator is `cond ? trueVal : falseVal`.
type TernaryOperator struct {
	base
	Cond     Expression
	TrueVal  Expression
	FalseVal Expression
}

func NewTernaryOperator(cond, trueVal Expression, colon token.Token, falseVal Expression) *TernaryOperator {
	return &TernaryOperator{base{colon}, cond, trueVal, falseVal}
}
func (n *TernaryOperator) ID() ID        { return NTernaryOperator }
func (n *TernaryOperator) isExpression() {}
func (n *TernaryOperator) Clone() Node {
	c := *n
	c.Cond = n.Cond.Clone().(Expression)
	c.TrueVal = n.TrueVal.Clone().(Expression)
	c.FalseVal = n.FalseVal.Clone().(Expression)
	return &c
}

// NewExpression is `new Type(args...)`.
type NewExpression struct {
	base
	Type DataType
	Args *List[Expression]
}

func NewNewExpression(tok token.Token, t DataType, args *List[Expression]) *NewExpression {
	return &NewExpression{base{tok}, t, args}
}
func (n *NewExpression) ID() ID        { return NNewExpression }
func (n *NewExpression) isExpression() {}
func (n *NewExpression) Clone() Node {
	c := *n
	c.Type = n.Type.Clone().(DataType)
	if n.Args != nil {
		c.Args = n.Args.Clone()
	}
	return &c
}

// binOp is the shared shape of every two-operand operator expression.
type binOp struct {
	base
	Op  OpCode
	Lhs Expression
	Rhs Expression
}

func (n *binOp) clone() binOp {
	c := *n
	c.Lhs = n.Lhs.Clone().(Expression)
	c.Rhs = n.Rhs.Clone().(Expression)
	return c
}

// LogicalOperator is `&&` or `||`.
type LogicalOperator struct{ binOp }

func NewLogicalOperator(op OpCode, opTok token.Token, lhs, rhs Expression) *LogicalOperator {
	return &LogicalOperator{binOp{base{opTok}, op, lhs, rhs}}
}
func (n *LogicalOperator) ID() ID        { return NLogicalOperator }
func (n *LogicalOperator) isExpression() {}
func (n *LogicalOperator) Clone() Node   { c := n.clone(); return &LogicalOperator{c} }

// CompareOperator is `==`, `!=`, `<`, `>`, `<=`, `>=`.
type CompareOperator struct{ binOp }

func NewCompareOperator(op OpCode, opTok token.Token, lhs, rhs Expression) *CompareOperator {
	return &CompareOperator{binOp{base{opTok}, op, lhs, rhs}}
}
func (n *CompareOperator) ID() ID        { return NCompareOperator }
func (n *CompareOperator) isExpression() {}
func (n *CompareOperator) Clone() Node   { c := n.clone(); return &CompareOperator{c} }

// BinaryMathOperator is `+ - * / % & | ^ << >>`.
type BinaryMathOperator struct{ binOp }

func NewBinaryMathOperator(op OpCode, opTok token.Token, lhs, rhs Expression) *BinaryMathOperator {
	return &BinaryMathOperator{binOp{base{opTok}, op, lhs, rhs}}
}
func (n *BinaryMathOperator) ID() ID        { return NBinaryMathOperator }
func (n *BinaryMathOperator) isExpression() {}
func (n *BinaryMathOperator) Clone() Node   { c := n.clone(); return &BinaryMathOperator{c} }

// NullCoalescing is `lhs ?? rhs`.
type NullCoalescing struct{ binOp }

func NewNullCoalescing(opTok token.Token, lhs, rhs Expression) *NullCoalescing {
	return &NullCoalescing{binOp{base{opTok}, OpAssign, lhs, rhs}}
}
func (n *NullCoalescing) ID() ID        { return NNullCoalescing }
func (n *NullCoalescing) isExpression() {}
func (n *NullCoalescing) Clone() Node   { c := n.clone(); return &NullCoalescing{c} }

// UnaryMathOperator is unary `- + ~ !`.
type UnaryMathOperator struct {
	base
	Op   OpCode
	Expr Expression
}

func NewUnaryMathOperator(op OpCode, opTok token.Token, e Expression) *UnaryMathOperator {
	return &UnaryMathOperator{base{opTok}, op, e}
}
func (n *UnaryMathOperator) ID() ID        { return NUnaryMathOperator }
func (n *UnaryMathOperator) isExpression() {}
func (n *UnaryMathOperator) Clone() Node {
	c := *n
	c.Expr = n.Expr.Clone().(Expression)
	return &c
}

// Increment is prefix or postfix `++`/`--` on a variable.
type Increment struct {
	base
	Op      OpCode
	Var     Variable
	Postfix bool
}

func NewIncrement(op OpCode, opTok token.Token, v Variable, postfix bool) *Increment {
	return &Increment{base{opTok}, op, v, postfix}
}
func (n *Increment) ID() ID        { return NIncrement }
func (n *Increment) isExpression() {}
func (n *Increment) Clone() Node {
	c := *n
	c.Var = n.Var.Clone().(Variable)
	return &c
}
