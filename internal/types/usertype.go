package types

// UserType is any named type introduced by a declaration: alias, struct,
// class, union, or enum. Structs, classes and unions are constructed
// opaque (no body) by DeclareOpaque and completed later via SetStructBody
// or SetUnionBody, so that mutually-recursive user types (a struct holding
// a pointer to itself, two classes referencing each other) can be
// registered before either body is resolved; aliases and enums are
// complete when declared.
type UserType interface {
	Type
	Name() string
}

type userBase struct {
	base
	name string
}

func (t *userBase) Name() string { return t.name }

// AliasType is `alias Name = Target;` — transparent everywhere except
// diagnostics, which report the alias name.
type AliasType struct {
	userBase
	Target Type
}

func (t *AliasType) String() string    { return t.name }
func (t *AliasType) AllocSize() uint64 { return t.Target.AllocSize() }
func (t *AliasType) Subtype() Type     { return t.Target }

// Field is one member of a struct/union/class body, in declaration order
// (declaration order is significant: it fixes both field offsets and
// member-initializer default ordering in constructors).
type Field struct {
	Name string
	Type Type
}

// StructType is `struct Name { fields... }`. Fields is nil until
// SetStructBody completes the type (Kind already carries OPAQUE until then).
type StructType struct {
	userBase
	Fields []Field
}

func (t *StructType) String() string { return t.name }
func (t *StructType) AllocSize() uint64 {
	var sz uint64
	for _, f := range t.Fields {
		sz += f.Type.AllocSize()
	}
	return sz
}
func (t *StructType) Subtype() Type { return nil }

// FieldIndex returns the index of the named field, or -1 if absent.
func (t *StructType) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// UnionType is `union Name { fields... }` — all fields share byte 0,
// AllocSize is the size of its largest field.
type UnionType struct {
	userBase
	Fields []Field
}

func (t *UnionType) String() string { return t.name }
func (t *UnionType) AllocSize() uint64 {
	var max uint64
	for _, f := range t.Fields {
		if sz := f.Type.AllocSize(); sz > max {
			max = sz
		}
	}
	return max
}
func (t *UnionType) Subtype() Type { return nil }

func (t *UnionType) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Method is one member function of a ClassType. Name is the unqualified,
// unmangled member name; several Methods may share a Name (overloads),
// distinguished by Type.
type Method struct {
	Name        string
	MangledName string
	Type        *FunctionType
	IsStatic    bool
}

// ClassType is `class Name { members... }`: a StructType (CLASS implies
// STRUCT per spec.md §3) with methods, a synthesized or user constructor,
// and an optional destructor.
type ClassType struct {
	StructType
	Methods     []Method
	Constructor *Method
	Destructor  *Method
}

func (t *ClassType) String() string { return t.name }

// AddMethod registers m as one of the class's member functions, appending
// rather than replacing so a repeated name becomes an overload set —
// matches SClassType::addFunction, which never deduplicates by name alone.
// Nothing rejects a duplicate same-signature member: the builder's
// registerClassFunction gives a clashing symbol a "$"+signature suffix and
// still calls AddMethod.
func (t *ClassType) AddMethod(m Method) {
	t.Methods = append(t.Methods, m)
}

// FindMethod returns every overload registered under name, for the
// overload-resolution pass in internal/instructions.CallFunction.
func (t *ClassType) FindMethod(name string) []Method {
	var out []Method
	for _, m := range t.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// EnumType is `enum Name [: BaseType] { members... }`; its runtime
// representation is always BaseType (int32 by default), per spec.md
// §4.2's CastToSubtype rule.
type EnumType struct {
	userBase
	Base    Type
	Members []EnumMember
}

// EnumMember is one `Name = Value` entry; Value is always a compile-time
// constant in BaseType's representation.
type EnumMember struct {
	Name  string
	Value int64
}

func (t *EnumType) String() string    { return t.name }
func (t *EnumType) AllocSize() uint64 { return t.Base.AllocSize() }
func (t *EnumType) Subtype() Type     { return t.Base }

func (t *EnumType) MemberValue(name string) (int64, bool) {
	for _, m := range t.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}
