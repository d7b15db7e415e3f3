package ast

import "github.com/jdm64/saphyr/pkg/token"

// BaseKind names a builtin scalar keyword, the vocabulary the external
// parser collaborator assigns to BaseType.Kind. Grounded on
// original_source/src/CGNDataType.cpp's visitNBaseType switch over
// ParserBase::TT_* — the lexer/grammar that owns those token constants
// is out of scope, but the set of builtin type keywords it recognizes
// is not, so the Data-Type Visitor needs its own name for each.
type BaseKind int

const (
	KindVoid BaseKind = iota
	KindAuto
	KindBool
	KindInt8
	KindInt16
	KindInt
	KindInt32
	KindInt64
	KindUInt8
	KindUInt16
	KindUInt
	KindUInt32
	KindUInt64
	KindFloat
	KindDouble
)

// BaseType is a builtin scalar type name (int, float, bool, void, ...).
// Kind holds the builtin keyword, resolved to a concrete types.Type by
// the Data-Type Visitor.
type BaseType struct {
	base
	Kind BaseKind
}

func NewBaseType(tok token.Token, kind BaseKind) *BaseType { return &BaseType{base{tok}, kind} }
func (n *BaseType) ID() ID                            { return NBaseType }
func (n *BaseType) isDataType()                       {}
func (n *BaseType) Clone() Node                       { c := *n; return &c }

// UserType names a previously declared struct/union/class/enum/alias.
type UserType struct {
	base
	Name string
}

func NewUserType(tok token.Token) *UserType { return &UserType{base{tok}, tok.Text} }
func (n *UserType) ID() ID                  { return NUserType }
func (n *UserType) isDataType()             {}
func (n *UserType) Clone() Node             { c := *n; return &c }

// ThisType is the implicit `this` parameter type inside a class member.
type ThisType struct{ base }

func NewThisType(tok token.Token) *ThisType { return &ThisType{base{tok}} }
func (n *ThisType) ID() ID                  { return NThisType }
func (n *ThisType) isDataType()             {}
func (n *ThisType) Clone() Node             { c := *n; return &c }

// ConstType wraps a base type with a const qualifier.
type ConstType struct {
	base
	Type DataType
}

func NewConstType(tok token.Token, t DataType) *ConstType { return &ConstType{base{tok}, t} }
func (n *ConstType) ID() ID                               { return NConstType }
func (n *ConstType) isDataType()                          {}
func (n *ConstType) Clone() Node {
	c := *n
	c.Type = n.Type.Clone().(DataType)
	return &c
}

// PointerType is `baseType@`.
type PointerType struct {
	base
	Base DataType
}

func NewPointerType(tok token.Token, b DataType) *PointerType { return &PointerType{base{tok}, b} }
func (n *PointerType) ID() ID                                 { return NPointerType }
func (n *PointerType) isDataType()                            {}
func (n *PointerType) Clone() Node {
	c := *n
	c.Base = n.Base.Clone().(DataType)
	return &c
}

// ReferenceType is `baseType&`, a binding reference.
type ReferenceType struct {
	base
	Base DataType
}

func NewReferenceType(tok token.Token, b DataType) *ReferenceType { return &ReferenceType{base{tok}, b} }
func (n *ReferenceType) ID() ID                                   { return NReferenceType }
func (n *ReferenceType) isDataType()                              {}
func (n *ReferenceType) Clone() Node {
	c := *n
	c.Base = n.Base.Clone().(DataType)
	return &c
}

// CopyReferenceType is `baseType&&`, a by-value copying reference.
type CopyReferenceType struct {
	base
	Base DataType
}

func NewCopyReferenceType(tok token.Token, b DataType) *CopyReferenceType {
	return &CopyReferenceType{base{tok}, b}
}
func (n *CopyReferenceType) ID() ID      { return NCopyReferenceType }
func (n *CopyReferenceType) isDataType() {}
func (n *CopyReferenceType) Clone() Node {
	c := *n
	c.Base = n.Base.Clone().(DataType)
	return &c
}

// ArrayType is `baseType[size]`; Size is nil for an unsized array parameter.
type ArrayType struct {
	base
	Base DataType
	Size Expression
}

func NewArrayType(tok token.Token, b DataType, size Expression) *ArrayType {
	return &ArrayType{base{tok}, b, size}
}
func (n *ArrayType) ID() ID      { return NArrayType }
func (n *ArrayType) isDataType() {}
func (n *ArrayType) Clone() Node {
	c := *n
	c.Base = n.Base.Clone().(DataType)
	if n.Size != nil {
		c.Size = n.Size.Clone().(Expression)
	}
	return &c
}

// VecType is a fixed-width SIMD vector, `baseType<size>`.
type VecType struct {
	base
	Base DataType
	Size *IntConst
}

func NewVecType(tok token.Token, b DataType, size *IntConst) *VecType {
	return &VecType{base{tok}, b, size}
}
func (n *VecType) ID() ID      { return NVecType }
func (n *VecType) isDataType() {}
func (n *VecType) Clone() Node {
	c := *n
	c.Base = n.Base.Clone().(DataType)
	c.Size = n.Size.Clone().(*IntConst)
	return &c
}

// FuncPointerType is `@(paramTypes...) returnType`.
type FuncPointerType struct {
	base
	ReturnType DataType
	Params     *List[DataType]
}

func NewFuncPointerType(tok token.Token, ret DataType, params *List[DataType]) *FuncPointerType {
	return &FuncPointerType{base{tok}, ret, params}
}
func (n *FuncPointerType) ID() ID      { return NFuncPointerType }
func (n *FuncPointerType) isDataType() {}
func (n *FuncPointerType) Clone() Node {
	c := *n
	c.ReturnType = n.ReturnType.Clone().(DataType)
	c.Params = n.Params.Clone()
	return &c
}
