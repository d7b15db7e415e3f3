package ast

// OpCode names the operator a binary/unary/assignment/increment node
// carries, the vocabulary the external parser collaborator assigns in
// place of its own internal token-kind constants (ParserBase::TT_*).
// Grounded on original_source/src/CGNExpression.cpp's getOperator/
// getPredicate dispatch tables, the same way BaseKind was grounded on
// CGNDataType.cpp's visitNBaseType switch.
type OpCode int

const (
	OpAssign OpCode = iota // plain `=`; also the zero value for a non-compound Assignment

	// arithmetic / bitwise, shared by BinaryMathOperator and the
	// compound-assignment forms (`+=`, `-=`, ...)
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLShift
	OpRShift
	OpBitAnd
	OpBitOr
	OpBitXor

	// unary
	OpNeg // unary `-`
	OpPos // unary `+`
	OpNot // logical `!`
	OpBitNot

	// logical
	OpLogAnd
	OpLogOr

	// comparison
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLeq
	OpGeq

	// increment/decrement
	OpInc
	OpDec
)
