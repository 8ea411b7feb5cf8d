package ast

import (
	"fmt"
	"strings"
)

// Print re-serializes a template. The output is semantically equivalent to
// the document, not byte-identical to the original source: whitespace inside
// call braces is normalized.
func Print(t *Template) string {
	var p printer
	p.body(t.Body)
	return p.b.String()
}

// PrintNode renders a single node.
func PrintNode(n Node) string {
	var p printer
	p.node(n)
	return p.b.String()
}

type printer struct {
	b strings.Builder
}

// Void elements take no closing tag.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func (p *printer) body(nodes []Node) {
	for _, n := range nodes {
		p.node(n)
	}
}

func (p *printer) node(n Node) {
	switch v := n.(type) {
	case *TextNode:
		p.b.WriteString(v.Value)
	case *CommentStatement:
		p.b.WriteString("{{!--")
		p.b.WriteString(v.Value)
		p.b.WriteString("--}}")
	case *MustacheStatement:
		p.mustache(v)
	case *BlockStatement:
		p.block(v)
	case *ElementNode:
		p.element(v)
	case *ConcatStatement:
		for _, part := range v.Parts {
			p.node(part)
		}
	default:
		if expr, ok := n.(Expression); ok {
			p.expr(expr)
			return
		}
		panic(fmt.Sprintf("ast: cannot print node %T", n))
	}
}

func (p *printer) mustache(m *MustacheStatement) {
	open, shut := "{{", "}}"
	if m.Trusted {
		open, shut = "{{{", "}}}"
	}
	p.b.WriteString(open)
	p.call(m.Path, m.Params, m.Hash)
	p.b.WriteString(shut)
}

func (p *printer) block(b *BlockStatement) {
	p.b.WriteString("{{#")
	p.call(b.Path, b.Params, b.Hash)
	p.blockParams(b.Program.BlockParams)
	p.b.WriteString("}}")
	p.body(b.Program.Body)
	if b.Inverse != nil {
		p.b.WriteString("{{else}}")
		p.body(b.Inverse.Body)
	}
	p.b.WriteString("{{/")
	p.expr(b.Path)
	p.b.WriteString("}}")
}

func (p *printer) element(e *ElementNode) {
	p.b.WriteByte('<')
	p.b.WriteString(e.Tag)
	for _, a := range e.Attributes {
		p.b.WriteByte(' ')
		p.b.WriteString(a.Name)
		if a.Value == nil {
			continue
		}
		p.b.WriteByte('=')
		switch v := a.Value.(type) {
		case *TextNode:
			fmt.Fprintf(&p.b, "%q", v.Value)
		case *MustacheStatement:
			p.mustache(v)
		case *ConcatStatement:
			p.b.WriteByte('"')
			for _, part := range v.Parts {
				p.node(part)
			}
			p.b.WriteByte('"')
		}
	}
	for _, m := range e.Modifiers {
		p.b.WriteString(" {{")
		p.call(m.Path, m.Params, m.Hash)
		p.b.WriteString("}}")
	}
	p.blockParams(e.BlockParams)
	if e.SelfClosing {
		p.b.WriteString(" />")
		return
	}
	p.b.WriteByte('>')
	if voidTags[e.Tag] && len(e.Children) == 0 {
		return
	}
	p.body(e.Children)
	p.b.WriteString("</")
	p.b.WriteString(e.Tag)
	p.b.WriteByte('>')
}

func (p *printer) call(path Expression, params []Expression, hash Hash) {
	p.expr(path)
	for _, param := range params {
		p.b.WriteByte(' ')
		p.expr(param)
	}
	for _, pair := range hash.Pairs {
		p.b.WriteByte(' ')
		p.b.WriteString(pair.Key)
		p.b.WriteByte('=')
		p.expr(pair.Value)
	}
}

func (p *printer) blockParams(params []string) {
	if len(params) == 0 {
		return
	}
	p.b.WriteString(" as |")
	p.b.WriteString(strings.Join(params, " "))
	p.b.WriteByte('|')
}

func (p *printer) expr(e Expression) {
	switch v := e.(type) {
	case *PathExpression:
		p.b.WriteString(v.String())
	case *StringLiteral:
		fmt.Fprintf(&p.b, "%q", v.Value)
	case *NumberLiteral:
		if v.Text != "" {
			p.b.WriteString(v.Text)
		} else {
			fmt.Fprintf(&p.b, "%g", v.Value)
		}
	case *BooleanLiteral:
		fmt.Fprintf(&p.b, "%t", v.Value)
	case *NullLiteral:
		p.b.WriteString("null")
	case *UndefinedLiteral:
		p.b.WriteString("undefined")
	case *SubExpression:
		p.b.WriteByte('(')
		p.call(v.Path, v.Params, v.Hash)
		p.b.WriteByte(')')
	default:
		panic(fmt.Sprintf("ast: cannot print expression %T", e))
	}
}
