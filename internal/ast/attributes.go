package ast

import "github.com/jdm64/saphyr/pkg/token"

// AttrValue is one literal argument to an attribute, e.g. the `"puts"`
// in `#[mangle("puts")]`.
type AttrValue struct {
	base
	Value string
}

func NewAttrValue(tok token.Token, value string) *AttrValue { return &AttrValue{base{tok}, value} }
func (n *AttrValue) ID() ID      { return NAttrValue }
func (n *AttrValue) isExpression() {}
func (n *AttrValue) Clone() Node  { c := *n; return &c }

// Attribute is one `#[name(values...)]` entry attached to a declaration.
// Used for `mangle`, `static`, `extern`, and any other compiler directive
// recognized by name rather than syntax — see FindAttribute.
type Attribute struct {
	base
	Name   string
	Values *List[*AttrValue]
}

func NewAttribute(nameTok token.Token, values *List[*AttrValue]) *Attribute {
	return &Attribute{base{nameTok}, nameTok.Text, values}
}
func (n *Attribute) ID() ID      { return NAttribute }
func (n *Attribute) isExpression() {}
func (n *Attribute) Clone() Node {
	c := *n
	if n.Values != nil {
		c.Values = n.Values.Clone()
	}
	return &c
}

// ValueAt returns the attribute's i'th value, or nil if there are fewer
// than i+1 values (mirrors the original NAttribute::find helper).
func (n *Attribute) ValueAt(i int) *AttrValue {
	if n.Values == nil || i >= len(n.Values.Items) {
		return nil
	}
	return n.Values.Items[i]
}

// FindAttribute looks up an attribute by name in a declaration's attribute
// list, returning nil if absent or if list is nil.
func FindAttribute(list *List[*Attribute], name string) *Attribute {
	if list == nil {
		return nil
	}
	for _, attr := range list.Items {
		if attr.Name == name {
			return attr
		}
	}
	return nil
}
