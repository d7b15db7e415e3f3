// Package ast defines the abstract syntax tree handed to the core by the
// parser collaborator: a discriminated variant over node kinds, each
// carrying the Token that best identifies it for diagnostics.
package ast

import "github.com/jdm64/saphyr/pkg/token"

// ID tags the concrete kind of a Node, used for exhaustive dispatch in the
// visitors instead of virtual method dispatch through a base class.
type ID int

const (
	// attributes
	NAttribute ID = iota
	NAttrValue

	// data types
	NArrayType
	NBaseType
	NConstType
	NFuncPointerType
	NPointerType
	NReferenceType
	NCopyReferenceType
	NThisType
	NUserType
	NVecType

	// constants
	NNullPointer
	NStringLiteral
	NBoolConst
	NCharConst
	NIntConst
	NFloatConst

	// variables (lvalue-producing expressions)
	NBaseVariable
	NArrayVariable
	NMemberVariable
	NExprVariable
	NDereference
	NAddressOf
	NArrowOperator
	NFunctionCall
	NMemberFunctionCall

	// other expressions
	NAssignment
	NTernaryOperator
	NNewExpression
	NLogicalOperator
	NCompareOperator
	NBinaryMathOperator
	NNullCoalescing
	NUnaryMathOperator
	NIncrement

	// declarations
	NVariableDecl
	NGlobalVariableDecl
	NVariableDeclGroup
	NParameter
	NAliasDeclaration
	NStructDeclaration
	NEnumDeclaration
	NFunctionDeclaration
	NClassDeclaration
	NClassStructDecl
	NClassFunctionDecl
	NClassConstructor
	NClassDestructor
	NMemberInitializer

	// statements
	NExpressionStm
	NConditionStmt
	NLoopStatement
	NWhileStatement
	NForStatement
	NSwitchCase
	NSwitchStatement
	NIfStatement
	NLabelStatement
	NReturnStatement
	NGotoStatement
	NLoopBranch
	NDeleteStatement
	NDestructorCall

	// imports
	NImportFileStm
	NImportPkgStm
)

var idNames = map[ID]string{
	NAttribute: "NAttribute", NAttrValue: "NAttrValue",
	NArrayType: "NArrayType", NBaseType: "NBaseType", NConstType: "NConstType",
	NFuncPointerType: "NFuncPointerType", NPointerType: "NPointerType",
	NReferenceType: "NReferenceType", NCopyReferenceType: "NCopyReferenceType",
	NThisType: "NThisType", NUserType: "NUserType", NVecType: "NVecType",
	NNullPointer: "NNullPointer", NStringLiteral: "NStringLiteral",
	NBoolConst: "NBoolConst", NCharConst: "NCharConst", NIntConst: "NIntConst",
	NFloatConst: "NFloatConst", NBaseVariable: "NBaseVariable",
	NArrayVariable: "NArrayVariable", NMemberVariable: "NMemberVariable",
	NExprVariable: "NExprVariable", NDereference: "NDereference",
	NAddressOf: "NAddressOf", NArrowOperator: "NArrowOperator",
	NFunctionCall: "NFunctionCall", NMemberFunctionCall: "NMemberFunctionCall",
	NAssignment: "NAssignment", NTernaryOperator: "NTernaryOperator",
	NNewExpression: "NNewExpression", NLogicalOperator: "NLogicalOperator",
	NCompareOperator: "NCompareOperator", NBinaryMathOperator: "NBinaryMathOperator",
	NNullCoalescing: "NNullCoalescing", NUnaryMathOperator: "NUnaryMathOperator",
	NIncrement: "NIncrement", NVariableDecl: "NVariableDecl",
	NGlobalVariableDecl: "NGlobalVariableDecl", NVariableDeclGroup: "NVariableDeclGroup",
	NParameter: "NParameter", NAliasDeclaration: "NAliasDeclaration",
	NStructDeclaration: "NStructDeclaration", NEnumDeclaration: "NEnumDeclaration",
	NFunctionDeclaration: "NFunctionDeclaration", NClassDeclaration: "NClassDeclaration",
	NClassStructDecl: "NClassStructDecl", NClassFunctionDecl: "NClassFunctionDecl",
	NClassConstructor: "NClassConstructor", NClassDestructor: "NClassDestructor",
	NMemberInitializer: "NMemberInitializer", NExpressionStm: "NExpressionStm",
	NConditionStmt: "NConditionStmt", NLoopStatement: "NLoopStatement",
	NWhileStatement: "NWhileStatement", NForStatement: "NForStatement",
	NSwitchCase: "NSwitchCase", NSwitchStatement: "NSwitchStatement",
	NIfStatement: "NIfStatement", NLabelStatement: "NLabelStatement",
	NReturnStatement: "NReturnStatement", NGotoStatement: "NGotoStatement",
	NLoopBranch: "NLoopBranch", NDeleteStatement: "NDeleteStatement",
	NDestructorCall: "NDestructorCall", NImportFileStm: "NImportFileStm",
	NImportPkgStm: "NImportPkgStm",
}

func (id ID) String() string {
	if name, ok := idNames[id]; ok {
		return name
	}
	return "NodeID(?)"
}

// Node is the base interface every AST node satisfies.
type Node interface {
	ID() ID
	Tok() token.Token
	// Clone returns a deep copy, used by template instantiation to re-run
	// the Statement Visitor over an independent tree.
	Clone() Node
}

// DataType is a node describing a type expression (array/vec/pointer/
// user-type/etc.), resolved to a types.Type by the Data-Type Visitor.
type DataType interface {
	Node
	isDataType()
}

// Expression is any node that produces an rvalue.
type Expression interface {
	Node
	isExpression()
}

// Variable is an Expression that can additionally produce an lvalue.
type Variable interface {
	Expression
	isVariable()
}

// Statement is any node usable directly inside a statement list.
type Statement interface {
	Node
	isStatement()
}

// Declaration is a Statement that introduces a name into scope.
type Declaration interface {
	Statement
	isDeclaration()
}

// List is an ordered sequence of nodes of a single kind.
type List[T Node] struct {
	Items []T
}

// NewList builds a List from the given items.
func NewList[T Node](items ...T) *List[T] {
	return &List[T]{Items: items}
}

// Add appends an item.
func (l *List[T]) Add(item T) {
	l.Items = append(l.Items, item)
}

// Len reports the number of items; nil-safe.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// Clone deep-copies every element via its own Clone method.
func (l *List[T]) Clone() *List[T] {
	if l == nil {
		return nil
	}
	out := &List[T]{Items: make([]T, len(l.Items))}
	for i, item := range l.Items {
		out.Items[i] = item.Clone().(T)
	}
	return out
}

// StatementList is the root AST produced by the parser collaborator (§6).
type StatementList = List[Statement]

// base embeds the Token every node carries, plus the common accessor.
type base struct {
	Token token.Token
}

func (b base) Tok() token.Token { return b.Token }
