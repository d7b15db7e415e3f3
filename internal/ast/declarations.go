package ast

import "github.com/jdm64/saphyr/pkg/token"

// VariableDecl is a single `name = initExp` or `name = {initList}` entry
// inside a VariableDeclGroup; Type is filled in by the parser collaborator
// once the group's shared type is known (must be set before the Variable
// Visitor walks it).
type VariableDecl struct {
	base
	Name     string
	Type     DataType
	InitExp  Expression
	InitList *List[Expression]
}

func NewVariableDecl(nameTok token.Token, initExp Expression) *VariableDecl {
	return &VariableDecl{base{nameTok}, nameTok.Text, nil, initExp, nil}
}
func NewVariableDeclList(nameTok token.Token, initList *List[Expression]) *VariableDecl {
	return &VariableDecl{base{nameTok}, nameTok.Text, nil, nil, initList}
}
func (n *VariableDecl) ID() ID         { return NVariableDecl }
func (n *VariableDecl) isStatement()   {}
func (n *VariableDecl) isDeclaration() {}
func (n *VariableDecl) HasInit() bool  { return n.InitExp != nil || n.InitList != nil }
func (n *VariableDecl) Clone() Node {
	c := *n
	if n.Type != nil {
		c.Type = n.Type.Clone().(DataType)
	}
	if n.InitExp != nil {
		c.InitExp = n.InitExp.Clone().(Expression)
	}
	if n.InitList != nil {
		c.InitList = n.InitList.Clone()
	}
	return &c
}

// GlobalVariableDecl is a VariableDecl at module scope; its initializer
// must be a compile-time constant.
type GlobalVariableDecl struct{ VariableDecl }

func NewGlobalVariableDecl(nameTok token.Token, initExp Expression) *GlobalVariableDecl {
	return &GlobalVariableDecl{VariableDecl{base{nameTok}, nameTok.Text, nil, initExp, nil}}
}
func (n *GlobalVariableDecl) ID() ID { return NGlobalVariableDecl }
func (n *GlobalVariableDecl) Clone() Node {
	inner := n.VariableDecl.Clone().(*VariableDecl)
	return &GlobalVariableDecl{*inner}
}

// Parameter is one entry in a function's parameter list.
type Parameter struct {
	base
	Name string
	Type DataType
}

func NewParameter(t DataType, nameTok token.Token) *Parameter {
	return &Parameter{base{nameTok}, nameTok.Text, t}
}
func (n *Parameter) ID() ID         { return NParameter }
func (n *Parameter) isStatement()   {}
func (n *Parameter) isDeclaration() {}
func (n *Parameter) Clone() Node {
	c := *n
	c.Type = n.Type.Clone().(DataType)
	return &c
}

// VariableDeclGroup is `Type name1 = a, name2 = b;` — one shared type over
// several VariableDecl entries.
type VariableDeclGroup struct {
	base
	Type DataType
	Vars *List[*VariableDecl]
}

func NewVariableDeclGroup(t DataType, vars *List[*VariableDecl]) *VariableDeclGroup {
	for _, v := range vars.Items {
		v.Type = t
	}
	return &VariableDeclGroup{base{t.Tok()}, t, vars}
}
func (n *VariableDeclGroup) ID() ID       { return NVariableDeclGroup }
func (n *VariableDeclGroup) isStatement() {}
func (n *VariableDeclGroup) Clone() Node {
	c := *n
	c.Type = n.Type.Clone().(DataType)
	c.Vars = n.Vars.Clone()
	return &c
}

// AliasDeclaration is `alias Name = Type;`.
type AliasDeclaration struct {
	base
	Name string
	Type DataType
}

func NewAliasDeclaration(nameTok token.Token, t DataType) *AliasDeclaration {
	return &AliasDeclaration{base{nameTok}, nameTok.Text, t}
}
func (n *AliasDeclaration) ID() ID         { return NAliasDeclaration }
func (n *AliasDeclaration) isStatement()   {}
func (n *AliasDeclaration) isDeclaration() {}
func (n *AliasDeclaration) Clone() Node {
	c := *n
	c.Type = n.Type.Clone().(DataType)
	return &c
}

// StructKind discriminates the three flavors NStructDeclaration.CreateType
// names in the original grammar.
type StructKind int

const (
	StructKindStruct StructKind = iota
	StructKindUnion
	StructKindClass
)

// StructDeclaration is `struct|union Name { fields... } [#(attrs)];`.
// A CLASS-kind StructDeclaration does not occur — classes parse as
// ClassDeclaration instead; StructKind distinguishes struct from union.
//
// TemplateParams holds the `<T, U>`-style parameter names when this
// declaration is a template; nil for a plain (non-templated) struct or
// union. The parser collaborator backfills it the same way it backfills
// VariableDecl.Type on a VariableDeclGroup — there is no dedicated
// constructor argument for it because a bare StructDeclaration and a
// template of one otherwise share every other field.
type StructDeclaration struct {
	base
	Name           string
	Kind           StructKind
	Vars           *List[*VariableDeclGroup]
	Attrs          *List[*Attribute]
	TemplateParams []string
}

func NewStructDeclaration(nameTok token.Token, vars *List[*VariableDeclGroup], attrs *List[*Attribute], kind StructKind) *StructDeclaration {
	return &StructDeclaration{base{nameTok}, nameTok.Text, kind, vars, attrs, nil}
}
func (n *StructDeclaration) ID() ID         { return NStructDeclaration }
func (n *StructDeclaration) isStatement()   {}
func (n *StructDeclaration) isDeclaration() {}

// IsTemplate reports whether this declaration carries template
// parameters, the condition Builder.cpp's StoreTemplate gates on.
func (n *StructDeclaration) IsTemplate() bool { return len(n.TemplateParams) > 0 }

func (n *StructDeclaration) Clone() Node {
	c := *n
	c.Vars = n.Vars.Clone()
	if n.Attrs != nil {
		c.Attrs = n.Attrs.Clone()
	}
	if n.TemplateParams != nil {
		c.TemplateParams = append([]string(nil), n.TemplateParams...)
	}
	return &c
}

// EnumDeclaration is `enum Name [: BaseType] { members... };`.
type EnumDeclaration struct {
	base
	Name     string
	Vars     *List[*VariableDecl]
	BaseType DataType
}

func NewEnumDeclaration(nameTok token.Token, vars *List[*VariableDecl], baseType DataType) *EnumDeclaration {
	return &EnumDeclaration{base{nameTok}, nameTok.Text, vars, baseType}
}
func (n *EnumDeclaration) ID() ID         { return NEnumDeclaration }
func (n *EnumDeclaration) isStatement()   {}
func (n *EnumDeclaration) isDeclaration() {}
func (n *EnumDeclaration) Clone() Node {
	c := *n
	c.Vars = n.Vars.Clone()
	if n.BaseType != nil {
		c.BaseType = n.BaseType.Clone().(DataType)
	}
	return &c
}

// FunctionDeclaration is a free function: `RType name(params...) { body }
// [#(attrs)];` — Body is nil for a prototype-only declaration.
type FunctionDeclaration struct {
	base
	Name    string
	RType   DataType
	Params  *List[*Parameter]
	Body    *StatementList
	Attrs   *List[*Attribute]
}

func NewFunctionDeclaration(nameTok token.Token, rtype DataType, params *List[*Parameter], body *StatementList, attrs *List[*Attribute]) *FunctionDeclaration {
	return &FunctionDeclaration{base{nameTok}, nameTok.Text, rtype, params, body, attrs}
}
func (n *FunctionDeclaration) ID() ID         { return NFunctionDeclaration }
func (n *FunctionDeclaration) isStatement()   {}
func (n *FunctionDeclaration) isDeclaration() {}
func (n *FunctionDeclaration) Clone() Node {
	c := *n
	c.RType = n.RType.Clone().(DataType)
	c.Params = n.Params.Clone()
	if n.Body != nil {
		c.Body = n.Body.Clone()
	}
	if n.Attrs != nil {
		c.Attrs = n.Attrs.Clone()
	}
	return &c
}
