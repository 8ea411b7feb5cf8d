package parser

import (
	"github.com/wippyai/template-linker/ast"
)

// Void elements never take children or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func (p *Parser) parseElement() (*ast.ElementNode, error) {
	start := p.mark()
	p.consume("<")
	tag := p.scanTagName()
	if tag == "" {
		return nil, p.errf("invalid element tag")
	}

	e := &ast.ElementNode{Tag: tag}

	// Tag interior: attributes, element modifiers, block params.
	for {
		p.skipWS()
		if p.eof() {
			return nil, p.errf("unterminated element <%s>", tag)
		}
		if p.startsWith("/>") {
			p.consume("/>")
			e.SelfClosing = true
			e.Loc = p.spanFrom(start)
			return e, nil
		}
		if p.peek() == '>' {
			p.bump()
			break
		}
		if p.startsWith("{{") {
			mod, err := p.parseElementModifier()
			if err != nil {
				return nil, err
			}
			e.Modifiers = append(e.Modifiers, mod)
			continue
		}
		if m := p.mark(); p.startsWith("as") {
			p.consume("as")
			p.skipWS()
			if p.peek() == '|' {
				bp, err := p.parseBlockParams()
				if err != nil {
					return nil, err
				}
				e.BlockParams = bp
				continue
			}
			p.reset(m)
		}
		attr, err := p.parseAttribute()
		if err != nil {
			return nil, err
		}
		e.Attributes = append(e.Attributes, attr)
	}

	if voidElements[tag] {
		e.Loc = p.spanFrom(start)
		return e, nil
	}

	children, term, err := p.parseBody(stopTag)
	if err != nil {
		return nil, err
	}
	if term != termTag {
		return nil, p.errf("unclosed element <%s>", tag)
	}
	p.consume("</")
	closeTag := p.scanTagName()
	p.skipWS()
	if err := p.expect(">"); err != nil {
		return nil, err
	}
	if closeTag != tag {
		return nil, p.errf("mismatched closing tag: opened <%s>, closed </%s>", tag, closeTag)
	}
	e.Children = children
	e.Loc = p.spanFrom(start)
	return e, nil
}

func (p *Parser) parseElementModifier() (*ast.ElementModifierStatement, error) {
	start := p.mark()
	p.consume("{{")
	path, params, hash, blockParams, err := p.parseCall(false)
	if err != nil {
		return nil, err
	}
	if blockParams != nil {
		return nil, p.errf("block params are only valid on block invocations")
	}
	if err := p.expect("}}"); err != nil {
		return nil, err
	}
	return &ast.ElementModifierStatement{Path: path, Params: params, Hash: hash, Loc: p.spanFrom(start)}, nil
}

func (p *Parser) parseAttribute() (*ast.AttrNode, error) {
	start := p.mark()
	name := p.scanAttrName()
	if name == "" {
		return nil, p.errf("invalid attribute name")
	}
	attr := &ast.AttrNode{Name: name}
	if p.peek() != '=' {
		attr.Loc = p.spanFrom(start)
		return attr, nil
	}
	p.bump()

	switch c := p.peek(); {
	case c == '"' || c == '\'':
		value, err := p.parseQuotedAttrValue(c)
		if err != nil {
			return nil, err
		}
		attr.Value = value
	case p.startsWith("{{"):
		m, err := p.parseMustache()
		if err != nil {
			return nil, err
		}
		attr.Value = m
	default:
		text := p.mark()
		for !p.eof() {
			c := p.peek()
			if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '>' || p.startsWith("/>") {
				break
			}
			p.bump()
		}
		if p.pos == text.pos {
			return nil, p.errf("missing attribute value")
		}
		attr.Value = &ast.TextNode{Value: p.src[text.pos:p.pos], Loc: p.spanFrom(text)}
	}
	attr.Loc = p.spanFrom(start)
	return attr, nil
}

// parseQuotedAttrValue reads a quoted value that may interleave text and
// mustaches. A single uniform part collapses to that part; mixed content
// becomes a ConcatStatement.
func (p *Parser) parseQuotedAttrValue(quote byte) (ast.Node, error) {
	start := p.mark()
	p.bump()
	var parts []ast.Node
	text := p.mark()
	flush := func() {
		if p.pos > text.pos {
			parts = append(parts, &ast.TextNode{Value: p.src[text.pos:p.pos], Loc: p.spanFrom(text)})
		}
	}
	for {
		if p.eof() {
			return nil, p.errf("unterminated attribute value")
		}
		if p.peek() == quote {
			flush()
			p.bump()
			break
		}
		if p.startsWith("{{") {
			flush()
			m, err := p.parseMustache()
			if err != nil {
				return nil, err
			}
			parts = append(parts, m)
			text = p.mark()
			continue
		}
		p.bump()
	}
	switch len(parts) {
	case 0:
		return &ast.TextNode{Value: "", Loc: p.spanFrom(start)}, nil
	case 1:
		return parts[0], nil
	default:
		return &ast.ConcatStatement{Parts: parts, Loc: p.spanFrom(start)}, nil
	}
}

func (p *Parser) scanTagName() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if isIdentPart(c) || c == '.' || c == ':' {
			p.bump()
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *Parser) scanAttrName() string {
	start := p.pos
	if p.startsWith("...") {
		p.consume("...")
	}
	if p.peek() == '@' {
		p.bump()
	}
	for !p.eof() {
		c := p.peek()
		if isIdentPart(c) || c == ':' || c == '.' {
			p.bump()
			continue
		}
		break
	}
	return p.src[start:p.pos]
}
