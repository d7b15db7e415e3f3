package types

import "fmt"

// BasicType covers every scalar type that carries no substructure: the
// integer family (by bit width and signedness), float, double, bool, void,
// and auto. Interned by bit width + Kind in TypeManager.basicMap.
type BasicType struct {
	base
	bits uint64
	name string
}

func newBasic(kind Kind, bits uint64, name string) *BasicType {
	return &BasicType{base: base{kind}, bits: bits, name: name}
}

func (t *BasicType) String() string   { return t.name }
func (t *BasicType) AllocSize() uint64 { return (t.bits + 7) / 8 }
func (t *BasicType) Subtype() Type    { return nil }

// PointerType is `baseType@`.
type PointerType struct {
	base
	Base Type
}

func (t *PointerType) String() string    { return t.Base.String() + "@" }
func (t *PointerType) AllocSize() uint64 { return 8 }
func (t *PointerType) Subtype() Type     { return t.Base }

// RefType is a reference (bound once, transparently dereferenced) or a
// copy-reference (pass-by-value alias semantics); Kind distinguishes the
// two via REFERENCE vs COPYREF.
type RefType struct {
	base
	Base Type
}

func (t *RefType) String() string {
	if t.IsCopyRef() {
		return t.Base.String() + "&&"
	}
	return t.Base.String() + "&"
}
func (t *RefType) AllocSize() uint64 { return 8 }
func (t *RefType) Subtype() Type     { return t.Base }

// ArrayType is `baseType[Count]`; Count is 0 for an unsized array
// parameter type (decays to a pointer at the call boundary).
type ArrayType struct {
	base
	Base  Type
	Count uint64
}

func (t *ArrayType) String() string    { return fmt.Sprintf("%s[%d]", t.Base.String(), t.Count) }
func (t *ArrayType) AllocSize() uint64 { return t.Base.AllocSize() * t.Count }
func (t *ArrayType) Subtype() Type     { return t.Base }

// VecType is a fixed-width SIMD vector, `baseType<Count>`; Base is a
// numeric or pointer type (resolveVec in internal/visit rejects any other
// element type).
type VecType struct {
	base
	Base  Type
	Count uint64
}

func (t *VecType) String() string    { return fmt.Sprintf("%s<%d>", t.Base.String(), t.Count) }
func (t *VecType) AllocSize() uint64 { return t.Base.AllocSize() * t.Count }
func (t *VecType) Subtype() Type     { return t.Base }

// FunctionType is a callable signature: Params -> Return. VarArg marks a
// C-style `...` trailing parameter (used only by externs, per spec.md
// §4.15's builtin externals).
type FunctionType struct {
	base
	Return Type
	Params []Type
	VarArg bool
}

func (t *FunctionType) String() string {
	s := "("
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	if t.VarArg {
		s += ", ..."
	}
	return s + ") " + t.Return.String()
}
func (t *FunctionType) AllocSize() uint64 { return 8 }
func (t *FunctionType) Subtype() Type     { return t.Return }

// Equal reports whether two function types have identical signatures,
// the test createFunction's redefinition check in internal/builder uses.
func (t *FunctionType) Equal(other *FunctionType) bool {
	if other == nil || t.Return != other.Return || t.VarArg != other.VarArg || len(t.Params) != len(other.Params) {
		return false
	}
	for i, p := range t.Params {
		if p != other.Params[i] {
			return false
		}
	}
	return true
}
