package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/template-linker/ast"
)

// Parser turns template source into an ast.Template. It is a single-pass
// recursive-descent parser; template syntax is mode-sensitive (content, call
// interior, tag interior), so scanning lives alongside the grammar instead
// of in a separate token stream.
type Parser struct {
	src  string
	pos  int
	line int
	col  int
}

func New(src string) *Parser {
	return &Parser{src: src, line: 1, col: 1}
}

func (p *Parser) Parse() (*ast.Template, error) {
	start := p.mark()
	body, term, err := p.parseBody(stopNone)
	if err != nil {
		return nil, err
	}
	if term != termEOF {
		return nil, p.errf("unexpected %s at top level", term)
	}
	return &ast.Template{Body: body, Loc: p.spanFrom(start)}, nil
}

type position struct {
	pos, line, col int
}

func (p *Parser) mark() position {
	return position{p.pos, p.line, p.col}
}

func (p *Parser) reset(m position) {
	p.pos, p.line, p.col = m.pos, m.line, m.col
}

func (p *Parser) spanFrom(m position) ast.Span {
	return ast.Span{Line: m.line, Col: m.col, EndLine: p.line, EndCol: p.col}
}

func (p *Parser) errf(format string, args ...any) error {
	return fmt.Errorf("line %d, col %d: %s", p.line, p.col, fmt.Sprintf(format, args...))
}

func (p *Parser) eof() bool { return p.pos >= len(p.src) }

func (p *Parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *Parser) rest() string { return p.src[p.pos:] }

func (p *Parser) startsWith(s string) bool {
	return strings.HasPrefix(p.rest(), s)
}

// bump advances one byte, tracking line and column.
func (p *Parser) bump() {
	if p.eof() {
		return
	}
	if p.src[p.pos] == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	p.pos++
}

func (p *Parser) advance(n int) {
	for i := 0; i < n; i++ {
		p.bump()
	}
}

func (p *Parser) skipWS() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\r', '\n':
			p.bump()
		default:
			return
		}
	}
}

// consume eats s, which the caller has already matched.
func (p *Parser) consume(s string) {
	p.advance(len(s))
}

func (p *Parser) expect(s string) error {
	if !p.startsWith(s) {
		got := p.rest()
		if len(got) > 12 {
			got = got[:12]
		}
		return p.errf("expected %q, found %q", s, got)
	}
	p.consume(s)
	return nil
}

// stop flags tell parseBody which constructs end the current body.
type stopSet int

const (
	stopNone  stopSet = 0
	stopBlock stopSet = 1 << iota
	stopElse
	stopTag
)

type terminator string

const (
	termEOF   terminator = "end of input"
	termBlock terminator = "{{/"
	termElse  terminator = "{{else}}"
	termTag   terminator = "closing tag"
)

func (p *Parser) parseBody(stop stopSet) ([]ast.Node, terminator, error) {
	var body []ast.Node
	for {
		if p.eof() {
			return body, termEOF, nil
		}
		switch {
		case p.startsWith("{{!"):
			if err := p.parseComment(&body); err != nil {
				return nil, "", err
			}
		case p.startsWith("{{else"):
			if stop&stopElse == 0 {
				return nil, "", p.errf("{{else}} outside of a block")
			}
			return body, termElse, nil
		case p.startsWith("{{/"):
			if stop&stopBlock == 0 {
				return nil, "", p.errf("unexpected closing block")
			}
			return body, termBlock, nil
		case p.startsWith("{{#"):
			n, err := p.parseBlock()
			if err != nil {
				return nil, "", err
			}
			body = append(body, n)
		case p.startsWith("{{"):
			n, err := p.parseMustache()
			if err != nil {
				return nil, "", err
			}
			body = append(body, n)
		case p.startsWith("</"):
			if stop&stopTag == 0 {
				return nil, "", p.errf("unexpected closing tag")
			}
			return body, termTag, nil
		case p.peek() == '<' && p.tagFollows():
			n, err := p.parseElement()
			if err != nil {
				return nil, "", err
			}
			body = append(body, n)
		default:
			body = append(body, p.parseText())
		}
	}
}

// tagFollows reports whether '<' starts an element rather than literal text.
func (p *Parser) tagFollows() bool {
	if p.pos+1 >= len(p.src) {
		return false
	}
	c := p.src[p.pos+1]
	return isAlpha(c) || c == '_' || c == ':'
}

func (p *Parser) parseText() *ast.TextNode {
	start := p.mark()
	for !p.eof() {
		if p.startsWith("{{") || p.startsWith("</") {
			break
		}
		if p.peek() == '<' && p.tagFollows() {
			break
		}
		p.bump()
	}
	return &ast.TextNode{Value: p.src[start.pos:p.pos], Loc: p.spanFrom(start)}
}

func (p *Parser) parseComment(body *[]ast.Node) error {
	start := p.mark()
	var open, shut string
	if p.startsWith("{{!--") {
		open, shut = "{{!--", "--}}"
	} else {
		open, shut = "{{!", "}}"
	}
	p.consume(open)
	end := strings.Index(p.rest(), shut)
	if end < 0 {
		return p.errf("unterminated comment")
	}
	value := p.rest()[:end]
	p.advance(end)
	p.consume(shut)
	*body = append(*body, &ast.CommentStatement{Value: value, Loc: p.spanFrom(start)})
	return nil
}

func (p *Parser) parseMustache() (*ast.MustacheStatement, error) {
	start := p.mark()
	trusted := p.startsWith("{{{")
	if trusted {
		p.consume("{{{")
	} else {
		p.consume("{{")
	}
	path, params, hash, blockParams, err := p.parseCall(false)
	if err != nil {
		return nil, err
	}
	if blockParams != nil {
		return nil, p.errf("block params are only valid on block invocations")
	}
	shut := "}}"
	if trusted {
		shut = "}}}"
	}
	if err := p.expect(shut); err != nil {
		return nil, err
	}
	return &ast.MustacheStatement{
		Path:    path,
		Params:  params,
		Hash:    hash,
		Trusted: trusted,
		Loc:     p.spanFrom(start),
	}, nil
}

func (p *Parser) parseBlock() (*ast.BlockStatement, error) {
	start := p.mark()
	p.consume("{{#")
	path, params, hash, blockParams, err := p.parseCall(true)
	if err != nil {
		return nil, err
	}
	if err := p.expect("}}"); err != nil {
		return nil, err
	}

	bodyStart := p.mark()
	body, term, err := p.parseBody(stopBlock | stopElse)
	if err != nil {
		return nil, err
	}
	program := &ast.Block{BlockParams: blockParams, Body: body, Loc: p.spanFrom(bodyStart)}

	var inverse *ast.Block
	if term == termElse {
		p.consume("{{else")
		p.skipWS()
		if err := p.expect("}}"); err != nil {
			return nil, p.errf("else-if chains are not supported")
		}
		invStart := p.mark()
		invBody, invTerm, err := p.parseBody(stopBlock)
		if err != nil {
			return nil, err
		}
		term = invTerm
		inverse = &ast.Block{Body: invBody, Loc: p.spanFrom(invStart)}
	}
	if term != termBlock {
		return nil, p.errf("unclosed block %q", callName(path))
	}

	p.consume("{{/")
	p.skipWS()
	closeName := p.scanPathText()
	p.skipWS()
	if err := p.expect("}}"); err != nil {
		return nil, err
	}
	if want := callName(path); closeName != want {
		return nil, p.errf("mismatched closing block: opened %q, closed %q", want, closeName)
	}

	return &ast.BlockStatement{
		Path:    path,
		Params:  params,
		Hash:    hash,
		Program: program,
		Inverse: inverse,
		Loc:     p.spanFrom(start),
	}, nil
}

func callName(path ast.Expression) string {
	if pe, ok := path.(*ast.PathExpression); ok {
		return pe.String()
	}
	return ""
}

// parseCall parses a call interior: target expression, positional params,
// hash pairs, and (when allowBlockParams) an "as |a b|" clause. It stops at
// the closing braces or paren without consuming them.
func (p *Parser) parseCall(allowBlockParams bool) (ast.Expression, []ast.Expression, ast.Hash, []string, error) {
	p.skipWS()
	path, err := p.parseExpr()
	if err != nil {
		return nil, nil, ast.Hash{}, nil, err
	}

	var params []ast.Expression
	var hash ast.Hash
	var blockParams []string

	for {
		p.skipWS()
		if p.eof() {
			return nil, nil, ast.Hash{}, nil, p.errf("unterminated invocation")
		}
		if c := p.peek(); c == ')' || p.startsWith("}}") {
			break
		}

		// "as |a b|" ends the argument list.
		if m := p.mark(); p.startsWith("as") {
			p.consume("as")
			p.skipWS()
			if p.peek() == '|' {
				if !allowBlockParams {
					return nil, nil, ast.Hash{}, nil, p.errf("block params are only valid on block invocations")
				}
				bp, err := p.parseBlockParams()
				if err != nil {
					return nil, nil, ast.Hash{}, nil, err
				}
				blockParams = bp
				continue
			}
			p.reset(m)
		}

		// A hash pair is an identifier directly followed by '='.
		if m := p.mark(); isIdentStart(p.peek()) || p.peek() == '@' {
			key := p.scanIdent()
			if key != "" && p.peek() == '=' {
				p.bump()
				value, err := p.parseExpr()
				if err != nil {
					return nil, nil, ast.Hash{}, nil, err
				}
				hash.Pairs = append(hash.Pairs, &ast.HashPair{Key: key, Value: value, Loc: p.spanFrom(m)})
				continue
			}
			p.reset(m)
		}

		param, err := p.parseExpr()
		if err != nil {
			return nil, nil, ast.Hash{}, nil, err
		}
		params = append(params, param)
	}

	return path, params, hash, blockParams, nil
}

func (p *Parser) parseBlockParams() ([]string, error) {
	p.consume("|")
	var names []string
	for {
		p.skipWS()
		if p.eof() {
			return nil, p.errf("unterminated block params")
		}
		if p.peek() == '|' {
			p.bump()
			if len(names) == 0 {
				return nil, p.errf("empty block params")
			}
			return names, nil
		}
		name := p.scanIdent()
		if name == "" {
			return nil, p.errf("invalid block param")
		}
		names = append(names, name)
	}
}

func (p *Parser) parseExpr() (ast.Expression, error) {
	p.skipWS()
	start := p.mark()
	switch c := p.peek(); {
	case c == '(':
		p.bump()
		path, params, hash, blockParams, err := p.parseCall(false)
		if err != nil {
			return nil, err
		}
		if blockParams != nil {
			return nil, p.errf("block params are only valid on block invocations")
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return &ast.SubExpression{Path: path, Params: params, Hash: hash, Loc: p.spanFrom(start)}, nil
	case c == '"' || c == '\'':
		return p.parseString(c)
	case isDigit(c) || (c == '-' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1])):
		return p.parseNumber()
	case isIdentStart(c) || c == '@':
		return p.parsePath()
	default:
		return nil, p.errf("unexpected character %q in expression", string(rune(c)))
	}
}

func (p *Parser) parseString(quote byte) (*ast.StringLiteral, error) {
	start := p.mark()
	p.bump()
	var b strings.Builder
	for {
		if p.eof() {
			return nil, p.errf("unterminated string literal")
		}
		c := p.peek()
		if c == quote {
			p.bump()
			return &ast.StringLiteral{Value: b.String(), Loc: p.spanFrom(start)}, nil
		}
		if c == '\\' {
			p.bump()
			if p.eof() {
				return nil, p.errf("unterminated string literal")
			}
			c = p.peek()
		}
		b.WriteByte(c)
		p.bump()
	}
}

func (p *Parser) parseNumber() (*ast.NumberLiteral, error) {
	start := p.mark()
	for !p.eof() {
		c := p.peek()
		if isDigit(c) || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' {
			p.bump()
			continue
		}
		break
	}
	text := p.src[start.pos:p.pos]
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errf("invalid number %q", text)
	}
	return &ast.NumberLiteral{Value: value, Text: text, Loc: p.spanFrom(start)}, nil
}

func (p *Parser) parsePath() (ast.Expression, error) {
	start := p.mark()
	text := p.scanPathText()
	if text == "" {
		return nil, p.errf("expected a path")
	}

	switch text {
	case "true", "false":
		return &ast.BooleanLiteral{Value: text == "true", Loc: p.spanFrom(start)}, nil
	case "null":
		return &ast.NullLiteral{Loc: p.spanFrom(start)}, nil
	case "undefined":
		return &ast.UndefinedLiteral{Loc: p.spanFrom(start)}, nil
	}

	path := &ast.PathExpression{Loc: p.spanFrom(start)}
	if strings.HasPrefix(text, "@") {
		path.Data = true
		text = text[1:]
	}
	parts := strings.Split(text, ".")
	if parts[0] == "this" {
		path.This = true
		parts = parts[1:]
	}
	if len(parts) > 0 {
		path.Head = parts[0]
		path.Tail = parts[1:]
	}
	if path.Head == "" && !path.This {
		return nil, p.errf("invalid path %q", text)
	}
	return path, nil
}

// scanPathText eats a dotted path as raw text, including a leading '@'.
func (p *Parser) scanPathText() string {
	start := p.pos
	if p.peek() == '@' {
		p.bump()
	}
	for !p.eof() {
		c := p.peek()
		if isIdentPart(c) || c == '.' || c == '/' {
			p.bump()
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *Parser) scanIdent() string {
	start := p.pos
	if p.peek() == '@' {
		p.bump()
	}
	for !p.eof() && isIdentPart(p.peek()) {
		p.bump()
	}
	return p.src[start:p.pos]
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return isAlpha(c) || c == '_' || c == '$'
}

func isIdentPart(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_' || c == '-' || c == '$'
}
