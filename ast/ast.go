// Package ast defines the template syntax tree consumed by the linker.
//
// The shapes follow the usual handlebars-with-elements layout: a template is
// a list of content nodes (text, mustaches, blocks, elements, comments);
// call-shaped nodes carry a path, positional params, and a hash of named
// arguments; expressions are paths, literals, and sub-expressions. Every
// node records its source span.
//
// Nodes are mutable on purpose: the linker rewrites call targets and value
// expressions in place.
package ast

import "strings"

// Span is a half-open source region, 1-based lines and columns.
type Span struct {
	Line, Col       int
	EndLine, EndCol int
}

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Span
}

// Expression is a node that can appear in value position.
type Expression interface {
	Node
	expression()
}

// Template is one parsed document.
type Template struct {
	Body []Node

	// Locals are identifiers bound at module scope and visible to the
	// template, such as identifiers introduced by an import binder. A name
	// present here is lexically bound everywhere in the document.
	Locals []string

	Loc Span
}

func (t *Template) Pos() Span { return t.Loc }

// TextNode is literal content.
type TextNode struct {
	Value string
	Loc   Span
}

func (n *TextNode) Pos() Span { return n.Loc }

// CommentStatement is a template comment; it renders nothing.
type CommentStatement struct {
	Value string
	Loc   Span
}

func (n *CommentStatement) Pos() Span { return n.Loc }

// MustacheStatement renders a value, optionally invoked with arguments.
type MustacheStatement struct {
	Path   Expression
	Params []Expression
	Hash   Hash

	// Trusted marks triple-stache output.
	Trusted bool

	Loc Span
}

func (n *MustacheStatement) Pos() Span { return n.Loc }

// BlockStatement invokes a target that guards a nested body.
type BlockStatement struct {
	Path    Expression
	Params  []Expression
	Hash    Hash
	Program *Block
	Inverse *Block

	Loc Span
}

func (n *BlockStatement) Pos() Span { return n.Loc }

// Block is a guarded body together with the block parameters its invoker
// yields into it.
type Block struct {
	BlockParams []string
	Body        []Node
	Loc         Span
}

func (n *Block) Pos() Span { return n.Loc }

// ElementNode is an element tag with attributes, element modifiers, and
// children. Component-style elements may introduce block params.
type ElementNode struct {
	Tag         string
	Attributes  []*AttrNode
	Modifiers   []*ElementModifierStatement
	BlockParams []string
	Children    []Node
	SelfClosing bool

	Loc Span
}

func (n *ElementNode) Pos() Span { return n.Loc }

// TagHead returns the leading segment of the tag name, before any dot.
func (n *ElementNode) TagHead() string {
	if i := strings.IndexByte(n.Tag, '.'); i >= 0 {
		return n.Tag[:i]
	}
	return n.Tag
}

// AttrNode is one element attribute. Value is a *TextNode,
// *MustacheStatement, or *ConcatStatement; it is nil for bare attributes
// such as "...attributes" or boolean attributes.
type AttrNode struct {
	Name  string
	Value Node
	Loc   Span
}

func (n *AttrNode) Pos() Span { return n.Loc }

// ArgName returns the attribute name without a leading '@', and whether the
// attribute is a named component argument.
func (n *AttrNode) ArgName() (string, bool) {
	if strings.HasPrefix(n.Name, "@") {
		return n.Name[1:], true
	}
	return n.Name, false
}

// ConcatStatement is a quoted attribute value interleaving text and
// mustaches.
type ConcatStatement struct {
	Parts []Node // *TextNode or *MustacheStatement
	Loc   Span
}

func (n *ConcatStatement) Pos() Span { return n.Loc }

// ElementModifierStatement invokes a modifier on its enclosing element.
type ElementModifierStatement struct {
	Path   Expression
	Params []Expression
	Hash   Hash
	Loc    Span
}

func (n *ElementModifierStatement) Pos() Span { return n.Loc }

// SubExpression is a parenthesized invocation in value position.
type SubExpression struct {
	Path   Expression
	Params []Expression
	Hash   Hash
	Loc    Span
}

func (n *SubExpression) Pos() Span { return n.Loc }

// PathExpression is a dotted reference. Head is the root segment; Tail holds
// the remaining segments. Data marks @-prefixed argument paths and This
// marks paths rooted in the rendering context.
type PathExpression struct {
	Head string
	Tail []string
	Data bool
	This bool
	Loc  Span
}

func (n *PathExpression) Pos() Span { return n.Loc }

// Parts returns all segments, head first. The receiver's This flag is not a
// segment.
func (n *PathExpression) Parts() []string {
	parts := make([]string, 0, 1+len(n.Tail))
	parts = append(parts, n.Head)
	return append(parts, n.Tail...)
}

// String renders the path as written in source.
func (n *PathExpression) String() string {
	var b strings.Builder
	if n.This {
		b.WriteString("this")
		if n.Head != "" {
			b.WriteByte('.')
		}
	}
	if n.Data {
		b.WriteByte('@')
	}
	b.WriteString(n.Head)
	for _, seg := range n.Tail {
		b.WriteByte('.')
		b.WriteString(seg)
	}
	return b.String()
}

// StringLiteral is a quoted string constant.
type StringLiteral struct {
	Value string
	Loc   Span
}

func (n *StringLiteral) Pos() Span { return n.Loc }

// NumberLiteral keeps both the parsed value and the source text so printing
// round-trips.
type NumberLiteral struct {
	Value float64
	Text  string
	Loc   Span
}

func (n *NumberLiteral) Pos() Span { return n.Loc }

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Value bool
	Loc   Span
}

func (n *BooleanLiteral) Pos() Span { return n.Loc }

// NullLiteral is the null constant.
type NullLiteral struct {
	Loc Span
}

func (n *NullLiteral) Pos() Span { return n.Loc }

// UndefinedLiteral is the undefined constant.
type UndefinedLiteral struct {
	Loc Span
}

func (n *UndefinedLiteral) Pos() Span { return n.Loc }

// Hash is an ordered set of named arguments.
type Hash struct {
	Pairs []*HashPair
}

// IsEmpty reports whether the hash carries no pairs.
func (h Hash) IsEmpty() bool { return len(h.Pairs) == 0 }

// HashPair is one named argument.
type HashPair struct {
	Key   string
	Value Expression
	Loc   Span
}

func (n *HashPair) Pos() Span { return n.Loc }

func (*PathExpression) expression()   {}
func (*StringLiteral) expression()    {}
func (*NumberLiteral) expression()    {}
func (*BooleanLiteral) expression()   {}
func (*NullLiteral) expression()      {}
func (*UndefinedLiteral) expression() {}
func (*SubExpression) expression()    {}
