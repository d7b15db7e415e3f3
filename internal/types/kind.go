// Package types implements the Type Manager: the source-level type system,
// its interning tables, and the user-type registry (struct/union/class/
// enum/alias). Grounded directly on original_source/src/Type.h and
// Type.cpp — the C++ implementation spec.md itself distills from.
package types

// Kind is the SType kind-flag bitmask. A single Type's Kind may combine
// several bits (e.g. INTEGER|UNSIGNED|CONST for a `const uint`).
type Kind uint32

const (
	INTEGER Kind = 1 << iota
	UNSIGNED
	FLOATING
	DOUBLE
	POINTER
	REFERENCE
	COPYREF
	VEC
	ARRAY
	ENUM
	STRUCT
	UNION
	FUNCTION
	VOID
	AUTO
	ALIAS
	CLASS
	OPAQUE
	CONST
)

func (k Kind) Has(bits Kind) bool { return k&bits != 0 }

// Type is the interface every source-level type satisfies. Concrete types
// are interned by TypeManager, so two Types describing the same thing are
// always the same Go value (pointer identity implies type identity, as in
// the original's map-based interning).
type Type interface {
	Kind() Kind
	String() string
	AllocSize() uint64

	IsInteger() bool
	IsUnsigned() bool
	IsFloating() bool
	IsDouble() bool
	IsNumeric() bool
	IsPointer() bool
	IsReference() bool
	IsCopyRef() bool
	IsVec() bool
	IsArray() bool
	IsEnum() bool
	IsStruct() bool
	IsUnion() bool
	IsFunction() bool
	IsVoid() bool
	IsAuto() bool
	IsAlias() bool
	IsClass() bool
	IsOpaque() bool
	IsConst() bool

	// Subtype returns the pointee/element/return type for pointer, array,
	// vec, reference, and function types; nil otherwise.
	Subtype() Type
}

// base implements the Kind-derived predicates shared by every Type, so
// concrete types only need to supply Kind/String/AllocSize/Subtype.
type base struct {
	kind Kind
}

func (b base) Kind() Kind         { return b.kind }
func (b base) IsInteger() bool    { return b.kind.Has(INTEGER) }
func (b base) IsUnsigned() bool   { return b.kind.Has(UNSIGNED) }
func (b base) IsFloating() bool   { return b.kind.Has(FLOATING) }
func (b base) IsDouble() bool     { return b.kind.Has(DOUBLE) }
func (b base) IsNumeric() bool    { return b.kind.Has(INTEGER | FLOATING) }
func (b base) IsPointer() bool    { return b.kind.Has(POINTER) }
func (b base) IsReference() bool  { return b.kind.Has(REFERENCE) }
func (b base) IsCopyRef() bool    { return b.kind.Has(COPYREF) }
func (b base) IsVec() bool        { return b.kind.Has(VEC) }
func (b base) IsArray() bool      { return b.kind.Has(ARRAY) }
func (b base) IsEnum() bool       { return b.kind.Has(ENUM) }
func (b base) IsStruct() bool     { return b.kind.Has(STRUCT) }
func (b base) IsUnion() bool      { return b.kind.Has(UNION) }
func (b base) IsFunction() bool   { return b.kind.Has(FUNCTION) }
func (b base) IsVoid() bool       { return b.kind.Has(VOID) }
func (b base) IsAuto() bool       { return b.kind.Has(AUTO) }
func (b base) IsAlias() bool      { return b.kind.Has(ALIAS) }
func (b base) IsClass() bool      { return b.kind.Has(CLASS) }
func (b base) IsOpaque() bool     { return b.kind.Has(OPAQUE) }
func (b base) IsConst() bool      { return b.kind.Has(CONST) }
