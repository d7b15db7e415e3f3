package ast

import "github.com/jdm64/saphyr/pkg/token"

// ClassMemberKind discriminates the four NClassMember::MemberType variants.
type ClassMemberKind int

const (
	ClassMemberConstructor ClassMemberKind = iota
	ClassMemberDestructor
	ClassMemberStruct
	ClassMemberFunction
)

// ClassMember is any Declaration that can live inside a ClassDeclaration's
// body; the concrete kind is reported by MemberKind for the Statement
// Visitor's class pass.
type ClassMember interface {
	Declaration
	MemberKind() ClassMemberKind
}

// ClassStructDecl is the class-body field-group form of StructDeclaration:
// `Type field1, field2;` inside a class.
type ClassStructDecl struct {
	base
	Name string
	Vars *List[*VariableDeclGroup]
}

func NewClassStructDecl(nameTok token.Token, vars *List[*VariableDeclGroup]) *ClassStructDecl {
	return &ClassStructDecl{base{nameTok}, nameTok.Text, vars}
}
func (n *ClassStructDecl) ID() ID                       { return NClassStructDecl }
func (n *ClassStructDecl) isStatement()                 {}
func (n *ClassStructDecl) isDeclaration()                {}
func (n *ClassStructDecl) MemberKind() ClassMemberKind { return ClassMemberStruct }
func (n *ClassStructDecl) Clone() Node {
	c := *n
	c.Vars = n.Vars.Clone()
	return &c
}

// ClassFunctionDecl is a method declaration inside a class body.
type ClassFunctionDecl struct {
	base
	Name   string
	RType  DataType
	Params *List[*Parameter]
	Body   *StatementList
	Attrs  *List[*Attribute]
}

func NewClassFunctionDecl(nameTok token.Token, rtype DataType, params *List[*Parameter], body *StatementList, attrs *List[*Attribute]) *ClassFunctionDecl {
	return &ClassFunctionDecl{base{nameTok}, nameTok.Text, rtype, params, body, attrs}
}
func (n *ClassFunctionDecl) ID() ID                       { return NClassFunctionDecl }
func (n *ClassFunctionDecl) isStatement()                 {}
func (n *ClassFunctionDecl) isDeclaration()                {}
func (n *ClassFunctionDecl) MemberKind() ClassMemberKind { return ClassMemberFunction }
func (n *ClassFunctionDecl) Clone() Node {
	c := *n
	if n.RType != nil {
		c.RType = n.RType.Clone().(DataType)
	}
	c.Params = n.Params.Clone()
	if n.Body != nil {
		c.Body = n.Body.Clone()
	}
	if n.Attrs != nil {
		c.Attrs = n.Attrs.Clone()
	}
	return &c
}

// MemberInitializer is one `name(args...)` entry in a constructor's
// initializer list, run before the constructor body per spec §4.10.
type MemberInitializer struct {
	base
	Name string
	Args *List[Expression]
}

func NewMemberInitializer(nameTok token.Token, args *List[Expression]) *MemberInitializer {
	return &MemberInitializer{base{nameTok}, nameTok.Text, args}
}
func (n *MemberInitializer) ID() ID       { return NMemberInitializer }
func (n *MemberInitializer) isStatement() {}
func (n *MemberInitializer) Clone() Node {
	c := *n
	c.Args = n.Args.Clone()
	return &c
}

// ClassConstructor is a class's constructor: an initializer list followed
// by a body. RType is always nil (constructors have no return type).
type ClassConstructor struct {
	ClassFunctionDecl
	InitList *List[*MemberInitializer]
}

func NewClassConstructor(nameTok token.Token, params *List[*Parameter], initList *List[*MemberInitializer], body *StatementList) *ClassConstructor {
	return &ClassConstructor{ClassFunctionDecl{base{nameTok}, nameTok.Text, nil, params, body, nil}, initList}
}
func (n *ClassConstructor) ID() ID                       { return NClassConstructor }
func (n *ClassConstructor) MemberKind() ClassMemberKind { return ClassMemberConstructor }
func (n *ClassConstructor) Clone() Node {
	inner := n.ClassFunctionDecl.Clone().(*ClassFunctionDecl)
	return &ClassConstructor{*inner, n.InitList.Clone()}
}

// ClassDestructor is a class's destructor; it takes no parameters.
type ClassDestructor struct {
	ClassFunctionDecl
}

func NewClassDestructor(nameTok token.Token, body *StatementList) *ClassDestructor {
	return &ClassDestructor{ClassFunctionDecl{base{nameTok}, nameTok.Text, nil, NewList[*Parameter](), body, nil}}
}
func (n *ClassDestructor) ID() ID                       { return NClassDestructor }
func (n *ClassDestructor) MemberKind() ClassMemberKind { return ClassMemberDestructor }
func (n *ClassDestructor) Clone() Node {
	inner := n.ClassFunctionDecl.Clone().(*ClassFunctionDecl)
	return &ClassDestructor{*inner}
}

// ClassDeclaration is `class Name { members... } [#(attrs)];`. Members
// hold no back-reference to the owning class; code that needs the class
// for a member gets it from the enclosing ClassDeclaration.
type ClassDeclaration struct {
	base
	Name    string
	Members *List[ClassMember]
	Attrs   *List[*Attribute]

	// TemplateParams holds the `<T, U>`-style parameter names when this
	// class is a template; nil for a plain class. See
	// StructDeclaration.TemplateParams for why this is a backfilled field
	// rather than a constructor argument.
	TemplateParams []string
}

func NewClassDeclaration(nameTok token.Token, members *List[ClassMember], attrs *List[*Attribute]) *ClassDeclaration {
	return &ClassDeclaration{base{nameTok}, nameTok.Text, members, attrs, nil}
}
func (n *ClassDeclaration) ID() ID         { return NClassDeclaration }
func (n *ClassDeclaration) isStatement()   {}
func (n *ClassDeclaration) isDeclaration() {}

// IsTemplate reports whether this declaration carries template
// parameters, the condition Builder.cpp's StoreTemplate gates on.
func (n *ClassDeclaration) IsTemplate() bool { return len(n.TemplateParams) > 0 }

func (n *ClassDeclaration) Clone() Node {
	c := *n
	c.Members = n.Members.Clone()
	if n.Attrs != nil {
		c.Attrs = n.Attrs.Clone()
	}
	if n.TemplateParams != nil {
		c.TemplateParams = append([]string(nil), n.TemplateParams...)
	}
	return &c
}
