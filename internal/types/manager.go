package types

import "fmt"

// TypeManager owns every interned Type and the user-type registry. All
// construction goes through its methods so that structurally identical
// types are always the same Go value — Equal is pointer equality.
// Grounded on Type.h/Type.cpp's TypeManager (basicMap/constMap/arrMap/
// vecMap/ptrMap/refMap/cpyRefMap/usrMap/funcMap interning maps).
type TypeManager struct {
	basic map[basicKey]*BasicType
	ptr   map[Type]*PointerType
	ref   map[Type]*RefType
	cpref map[Type]*RefType
	arr   map[arrKey]*ArrayType
	vec   map[arrKey]*VecType
	fn    map[string]*FunctionType
	users map[string]UserType

	voidTy *BasicType
	autoTy *BasicType
	boolTy *BasicType
}

type basicKey struct {
	kind Kind
	bits uint64
}

type arrKey struct {
	base  Type
	count uint64
}

// New builds a TypeManager preloaded with the builtin scalar types.
func New() *TypeManager {
	m := &TypeManager{
		basic: map[basicKey]*BasicType{},
		ptr:   map[Type]*PointerType{},
		ref:   map[Type]*RefType{},
		cpref: map[Type]*RefType{},
		arr:   map[arrKey]*ArrayType{},
		vec:   map[arrKey]*VecType{},
		fn:    map[string]*FunctionType{},
		users: map[string]UserType{},
	}
	m.voidTy = m.internBasic(VOID, 0, "void")
	m.autoTy = m.internBasic(AUTO, 0, "auto")
	// bool is kept out of the basic-interning map: its (kind, bits) pair
	// would otherwise collide with UInt(1) even though the two must stay
	// distinct singleton types, exactly as Type.cpp keeps boolTy as its
	// own member rather than folding it into the generic int/uint tables.
	m.boolTy = newBasic(INTEGER|UNSIGNED, 1, "bool")
	return m
}

func (m *TypeManager) internBasic(kind Kind, bits uint64, name string) *BasicType {
	key := basicKey{kind, bits}
	if t, ok := m.basic[key]; ok {
		return t
	}
	t := newBasic(kind, bits, name)
	m.basic[key] = t
	return t
}

// Void, Auto, Bool return the singleton builtin scalar types.
func (m *TypeManager) Void() Type { return m.voidTy }
func (m *TypeManager) Auto() Type { return m.autoTy }
func (m *TypeManager) Bool() Type { return m.boolTy }

// IsBool reports whether t is the bool singleton, the check CastTo and
// the vec-to-bool comparison path run before picking a cast strategy.
func (m *TypeManager) IsBool(t Type) bool { return t == Type(m.boolTy) }

// Int returns the signed integer type of the given bit width (8/16/32/64).
func (m *TypeManager) Int(bits uint64) Type {
	return m.internBasic(INTEGER, bits, fmt.Sprintf("i%d", bits))
}

// UInt returns the unsigned integer type of the given bit width.
func (m *TypeManager) UInt(bits uint64) Type {
	return m.internBasic(INTEGER|UNSIGNED, bits, fmt.Sprintf("u%d", bits))
}

// Float returns the single-precision float type.
func (m *TypeManager) Float() Type { return m.internBasic(FLOATING, 32, "float") }

// Double returns the double-precision float type.
func (m *TypeManager) Double() Type { return m.internBasic(FLOATING|DOUBLE, 64, "double") }

// Const returns the const-qualified variant of t, interned alongside t's
// own family map (CONST is OR'd onto the same underlying kind bits).
func (m *TypeManager) Const(t Type) Type {
	if t.IsConst() {
		return t
	}
	switch v := t.(type) {
	case *BasicType:
		return m.internBasic(v.kind|CONST, v.bits, v.name)
	default:
		// Composite types (pointer/array/struct/...) carry const at the
		// point of use (the Variable Visitor's symbol-table entry), not
		// as a distinct interned type, matching Type.cpp's setConst
		// which mutates tclass on the existing SType rather than
		// re-interning a new one for non-basic kinds.
		return t
	}
}

// Mutable strips CONST from t, used when binding a non-const reference.
func (m *TypeManager) Mutable(t Type) Type {
	if bt, ok := t.(*BasicType); ok && bt.IsConst() {
		return m.internBasic(bt.kind&^CONST, bt.bits, bt.name)
	}
	return t
}

// Pointer returns `base@`, interned by base.
func (m *TypeManager) Pointer(base Type) Type {
	if t, ok := m.ptr[base]; ok {
		return t
	}
	t := &PointerType{base: newBaseKind(POINTER), Base: base}
	m.ptr[base] = t
	return t
}

// Reference returns `base&`, interned by base.
func (m *TypeManager) Reference(base Type) Type {
	if t, ok := m.ref[base]; ok {
		return t
	}
	t := &RefType{base: newBaseKind(REFERENCE), Base: base}
	m.ref[base] = t
	return t
}

// CopyRef returns `base&&`, interned by base.
func (m *TypeManager) CopyRef(base Type) Type {
	if t, ok := m.cpref[base]; ok {
		return t
	}
	t := &RefType{base: newBaseKind(REFERENCE | COPYREF), Base: base}
	m.cpref[base] = t
	return t
}

// Array returns `base[count]`, interned by (base, count).
func (m *TypeManager) Array(base Type, count uint64) Type {
	key := arrKey{base, count}
	if t, ok := m.arr[key]; ok {
		return t
	}
	t := &ArrayType{base: newBaseKind(ARRAY), Base: base, Count: count}
	m.arr[key] = t
	return t
}

// Vec returns `base<count>`, interned by (base, count).
func (m *TypeManager) Vec(base Type, count uint64) Type {
	key := arrKey{base, count}
	if t, ok := m.vec[key]; ok {
		return t
	}
	t := &VecType{base: newBaseKind(VEC), Base: base, Count: count}
	m.vec[key] = t
	return t
}

// Function returns a FunctionType, interned by its String() signature so
// structurally-equal signatures always share one Type value.
func (m *TypeManager) Function(ret Type, params []Type, varArg bool) *FunctionType {
	probe := &FunctionType{base: newBaseKind(FUNCTION), Return: ret, Params: params, VarArg: varArg}
	key := probe.String()
	if t, ok := m.fn[key]; ok {
		return t
	}
	m.fn[key] = probe
	return probe
}

func newBaseKind(kind Kind) base { return base{kind} }

// --- user-type registry ---

// LookupUser returns the previously declared user type by name, or
// (nil, false) if no such name has been declared.
func (m *TypeManager) LookupUser(name string) (UserType, bool) {
	t, ok := m.users[name]
	return t, ok
}

// DeclareOpaque registers name as a struct/union/class user type with no
// body yet (kind carries OPAQUE until SetStructBody or SetUnionBody
// completes it), supporting
// forward references and mutually-recursive user types. Returns an error
// if name is already declared.
func (m *TypeManager) DeclareOpaque(name string, kind Kind) (UserType, error) {
	if _, ok := m.users[name]; ok {
		return nil, fmt.Errorf("type %q already declared", name)
	}
	var t UserType
	switch {
	case kind.Has(CLASS):
		// CLASS always carries STRUCT too (spec.md §3): a class is a
		// struct with methods and synthesized ctor/dtor, and isComplex()
		// / field-layout code throughout internal/instructions keys off
		// the STRUCT bit rather than re-checking IsClass() everywhere.
		t = &ClassType{StructType: StructType{userBase: userBase{base{kind | STRUCT | OPAQUE}, name}}}
	case kind.Has(UNION):
		t = &UnionType{userBase: userBase{base{kind | OPAQUE}, name}}
	default:
		t = &StructType{userBase: userBase{base{kind | OPAQUE}, name}}
	}
	m.users[name] = t
	return t, nil
}

// SetStructBody completes a previously-opaque struct/class, clearing the
// OPAQUE bit. Must be called at most once per type (panics on a second
// call, matching the original's single-pass Builder invariant).
func (m *TypeManager) SetStructBody(t *StructType, fields []Field) {
	if !t.IsOpaque() {
		panic("types: SetStructBody called twice for " + t.name)
	}
	t.Fields = fields
	t.base.kind &^= OPAQUE
}

func (m *TypeManager) SetUnionBody(t *UnionType, fields []Field) {
	if !t.IsOpaque() {
		panic("types: SetUnionBody called twice for " + t.name)
	}
	t.Fields = fields
	t.base.kind &^= OPAQUE
}

// DeclareAlias registers `alias name = target;`, returning an error if
// name is already declared.
func (m *TypeManager) DeclareAlias(name string, target Type) (*AliasType, error) {
	if _, ok := m.users[name]; ok {
		return nil, fmt.Errorf("type %q already declared", name)
	}
	t := &AliasType{userBase: userBase{base{ALIAS}, name}, Target: target}
	m.users[name] = t
	return t, nil
}

// DeclareEnum registers `enum name [: base] { members... };`, returning an
// error if name is already declared.
func (m *TypeManager) DeclareEnum(name string, baseTy Type, members []EnumMember) (*EnumType, error) {
	if _, ok := m.users[name]; ok {
		return nil, fmt.Errorf("type %q already declared", name)
	}
	if baseTy == nil {
		baseTy = m.Int(32)
	}
	t := &EnumType{userBase: userBase{base{ENUM}, name}, Base: baseTy, Members: members}
	m.users[name] = t
	return t, nil
}

// NumericConv picks the common type for a binary operation between two
// operands, matching Type.cpp's numericConv exactly (including its vec
// handling, which this port previously lacked). Vec operands short-circuit
// first: two vecs of equal count recurse on their element types and
// re-wrap in a vec of that width; a lone vec operand always wins outright
// (the scalar side broadcasts into it, see CastTo's castToVec); mismatched
// vec counts are rejected by the caller (CastMatch) before this is ever
// reached. Otherwise floating beats integer, then wider beats narrower
// using a signed-penalized bit count: a signed type's effective width is
// one less than its declared size, so on an exact same-width tie the
// unsigned type wins (e.g. i32/u32 ties to u32) — Type.cpp computes this
// via `size() - !isUnsigned()` rather than a separate tie-break branch.
// int32min additionally widens a sub-31-effective-bit scalar winner to
// i32, the rule BinaryOp requests through CastMatch's upcast flag (spec.md
// §3); comparisons never set it.
func (m *TypeManager) NumericConv(lhs, rhs Type, int32min bool) Type {
	lvec, lIsVec := lhs.(*VecType)
	rvec, rIsVec := rhs.(*VecType)
	switch {
	case lIsVec && rIsVec:
		if lvec.Count != rvec.Count {
			return lhs
		}
		sub := m.NumericConv(lvec.Base, rvec.Base, false)
		return m.Vec(sub, lvec.Count)
	case rIsVec:
		return rhs
	case lIsVec:
		return lhs
	}

	lb, rb := lhs.(*BasicType), rhs.(*BasicType)
	if lb.IsFloating() != rb.IsFloating() {
		if lb.IsFloating() {
			return lhs
		}
		return rhs
	}
	if lb.IsFloating() {
		if lb.bits >= rb.bits {
			return lhs
		}
		return rhs
	}

	lbits, rbits := lb.bits, rb.bits
	if !lb.IsUnsigned() {
		lbits--
	}
	if !rb.IsUnsigned() {
		rbits--
	}
	if lbits > rbits {
		if int32min && lbits < 31 {
			return m.Int(32)
		}
		return lhs
	}
	if int32min && rbits < 31 {
		return m.Int(32)
	}
	return rhs
}

// AllocSize computes the storage size of t in bytes. Since the back end
// is an opaque interface (§6) rather than a concrete target module, this
// cannot consult a real llvm::DataLayout — it uses the fixed width table
// documented in DESIGN.md's Open Questions instead.
func (m *TypeManager) AllocSize(t Type) uint64 { return t.AllocSize() }

// Validate reports whether t may legally appear in the position it was
// resolved for — currently just the zero-size-stack-array check the
// original performs in SType::validate.
func (m *TypeManager) Validate(t Type) error {
	if arr, ok := t.(*ArrayType); ok && arr.Count == 0 {
		return fmt.Errorf("array type %s has zero size", arr.String())
	}
	return nil
}
