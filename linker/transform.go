package linker

import (
	"slices"

	"go.uber.org/zap"

	templatelinker "github.com/wippyai/template-linker"
	"github.com/wippyai/template-linker/ast"
)

// TemplateLinker rewrites name references in template documents into
// statically bound imports, falling back to deferred runtime registration
// where a static import cannot capture the needed association.
//
// A TemplateLinker holds no per-document state; Transform may be called
// concurrently for independent documents as long as the resolver and binder
// support it.
type TemplateLinker struct {
	resolver      templatelinker.Resolver
	binder        templatelinker.ImportBinder
	compatHelpers bool
}

// Option configures a TemplateLinker.
type Option func(*TemplateLinker)

// WithCompatHelperRegistration routes helper resolutions through the
// deferred-registration path instead of static binding. Needed only for
// runtimes carrying the historical defect where statically bound helpers
// lose their injection context.
func WithCompatHelperRegistration() Option {
	return func(l *TemplateLinker) { l.compatHelpers = true }
}

// New creates a TemplateLinker resolving through resolver and binding
// imports through binder.
func New(resolver templatelinker.Resolver, binder templatelinker.ImportBinder, opts ...Option) *TemplateLinker {
	l := &TemplateLinker{resolver: resolver, binder: binder}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Transform resolves and rewrites doc in place. file names the document for
// the resolver and diagnostics; source is the original text, used only for
// error excerpts.
//
// The traversal always runs to completion: unresolvable references are
// reported through the resolver's error channel and leave their nodes
// unchanged. Only an internal-consistency failure (an unhandled resolution
// kind) aborts, by panicking.
func (l *TemplateLinker) Transform(doc *ast.Template, file, source string) {
	t := &transform{
		linker:     l,
		doc:        doc,
		file:       file,
		source:     source,
		scope:      &ScopeStack{},
		bound:      make(map[string]templatelinker.Resolution),
		registered: make(map[string]bool),
	}
	Logger().Debug("transforming template", zap.String("file", file))
	t.walkBody(doc.Body)
	Logger().Debug("transform complete",
		zap.String("file", file),
		zap.Int("bindings", len(t.bound)),
		zap.Int("registrations", len(t.registered)))
}

// transform owns all traversal state for one document. Nothing here crosses
// documents.
type transform struct {
	linker *TemplateLinker
	doc    *ast.Template
	file   string
	source string

	scope *ScopeStack

	// bound maps each freshly bound local identifier to the resolution it
	// represents, so repeated invocations of the identifier inherit the
	// original resolution's yield metadata. Grows monotonically.
	bound map[string]templatelinker.Resolution

	// registered tracks logical names already emitted through the
	// deferred-registration path, so repeated dynamic references register
	// once.
	registered map[string]bool
}

func (t *transform) resolver() templatelinker.Resolver { return t.linker.resolver }

// inScope reports whether name is lexically bound at the current position,
// either as a block param or at module scope.
func (t *transform) inScope(name string) bool {
	return t.scope.IsBound(name) || slices.Contains(t.doc.Locals, name)
}

func (t *transform) walkBody(nodes []ast.Node) {
	for _, n := range nodes {
		t.walkNode(n)
	}
}

func (t *transform) walkNode(n ast.Node) {
	switch v := n.(type) {
	case *ast.TextNode, *ast.CommentStatement:
	case *ast.MustacheStatement:
		t.walkMustache(v)
	case *ast.BlockStatement:
		t.walkBlockStatement(v)
	case *ast.ElementNode:
		t.walkElement(v)
	case *ast.ConcatStatement:
		for _, part := range v.Parts {
			t.walkNode(part)
		}
	}
}

// walkBlockStatement handles a block invocation: a target guarding a nested
// body, optionally yielding block params.
func (t *transform) walkBlockStatement(b *ast.BlockStatement) {
	var comp *templatelinker.ComponentResolution

	if name, ok := bareName(b.Path); ok {
		switch {
		case t.inScope(name):
			// Already lexically bound; a previously emitted binding still
			// carries the component's yield metadata.
			comp, _ = t.bound[name].(*templatelinker.ComponentResolution)
		case name == dynamicComponent:
			if len(b.Params) > 0 {
				res := t.handleComponentHelper(b.Params[0], exprSlot(&b.Params[0]), nil)
				comp, _ = res.(*templatelinker.ComponentResolution)
			}
		default:
			// Block targets always need component semantics; only
			// components can guard a block body.
			res := t.resolver().ResolveBlockInvocation(name, t.file, b.Pos())
			t.emit(res, exprSlot(&b.Path))
			comp, _ = res.(*templatelinker.ComponentResolution)
		}
	}

	seen := make(map[string]bool)
	if comp != nil {
		t.scanHashArguments(b.Hash, comp, comp.ArgumentsAreComponents, seen)
	}

	t.walkExpressions(b.Params, b.Hash)

	t.scope.Push(b.Program.BlockParams)
	if comp != nil {
		hash := b.Hash
		from := comp
		t.scope.MarkComponentBlock(comp, func(argumentNames []string) {
			t.scanHashArguments(hash, from, argumentNames, seen)
		})
	}
	t.walkBody(b.Program.Body)
	t.scope.Pop()

	if b.Inverse != nil {
		t.scope.Push(b.Inverse.BlockParams)
		t.walkBody(b.Inverse.Body)
		t.scope.Pop()
	}
}

// walkMustache handles an output statement.
func (t *transform) walkMustache(m *ast.MustacheStatement) {
	t.handleMustache(m)
	t.walkExpressions(m.Params, m.Hash)
}

func (t *transform) handleMustache(m *ast.MustacheStatement) {
	name, ok := bareName(m.Path)
	if !ok {
		return
	}
	switch name {
	case dynamicComponent:
		if len(m.Params) > 0 {
			t.handleComponentHelper(m.Params[0], exprSlot(&m.Params[0]), nil)
		}
		return
	case dynamicHelper:
		if len(m.Params) > 0 {
			t.handleDynamicHelper(m.Params[0])
		}
		return
	case dynamicModifier:
		if len(m.Params) > 0 {
			t.handleDynamicModifier(m.Params[0])
		}
		return
	case ensureSafeComponent:
		if len(m.Params) > 0 {
			t.handleComponentHelper(m.Params[0], exprSlot(&m.Params[0]), nil)
		}
		return
	}

	if t.inScope(name) {
		if comp, ok := t.bound[name].(*templatelinker.ComponentResolution); ok {
			t.scanHashArguments(m.Hash, comp, comp.ArgumentsAreComponents, make(map[string]bool))
		}
		return
	}

	hasArgs := len(m.Params) > 0 || !m.Hash.IsEmpty()
	res := t.resolver().ResolveValueReference(name, hasArgs, t.file, m.Pos())
	t.emit(res, exprSlot(&m.Path))
	if comp, ok := res.(*templatelinker.ComponentResolution); ok {
		t.scanHashArguments(m.Hash, comp, comp.ArgumentsAreComponents, make(map[string]bool))
	}
}

// walkSubExpression handles a nested invocation in value position.
func (t *transform) walkSubExpression(s *ast.SubExpression) {
	t.handleSubExpression(s)
	t.walkExpressions(s.Params, s.Hash)
}

func (t *transform) handleSubExpression(s *ast.SubExpression) {
	name, ok := bareName(s.Path)
	if !ok {
		return
	}
	switch name {
	case dynamicComponent, ensureSafeComponent:
		if len(s.Params) > 0 {
			t.handleComponentHelper(s.Params[0], exprSlot(&s.Params[0]), nil)
		}
		return
	case dynamicHelper:
		if len(s.Params) > 0 {
			t.handleDynamicHelper(s.Params[0])
		}
		return
	case dynamicModifier:
		if len(s.Params) > 0 {
			t.handleDynamicModifier(s.Params[0])
		}
		return
	}
	if t.inScope(name) {
		return
	}
	res := t.resolver().ResolveSubInvocation(name, t.file, s.Pos())
	t.emit(res, exprSlot(&s.Path))
}

// walkModifier handles an element-modifier invocation. Scoped names,
// rendering-context references, and multi-segment paths are already-resolved
// contextual references and are skipped.
func (t *transform) walkModifier(m *ast.ElementModifierStatement) {
	defer t.walkExpressions(m.Params, m.Hash)

	name, ok := bareName(m.Path)
	if !ok {
		return
	}
	if name == dynamicModifier {
		if len(m.Params) > 0 {
			t.handleDynamicModifier(m.Params[0])
		}
		return
	}
	if t.inScope(name) {
		return
	}
	res := t.resolver().ResolveModifierReference(name, t.file, m.Pos())
	t.emit(res, exprSlot(&m.Path))
}

// walkElement handles an element node: the tag is checked against scope and
// otherwise resolved as an element reference; component-valued arguments are
// scanned both at entry and, via the marker's exit callback, for facts
// discovered while walking the children.
func (t *transform) walkElement(e *ast.ElementNode) {
	var comp *templatelinker.ComponentResolution

	head := e.TagHead()
	if t.inScope(head) {
		if head == e.Tag {
			comp, _ = t.bound[head].(*templatelinker.ComponentResolution)
		}
	} else {
		res := t.resolver().ResolveElementReference(e.Tag, t.file, e.Pos())
		t.emit(res, tagSlot(e))
		comp, _ = res.(*templatelinker.ComponentResolution)
	}

	seen := make(map[string]bool)
	if comp != nil {
		t.scanAttributeArguments(e, comp, comp.ArgumentsAreComponents, seen)
	}

	for _, attr := range e.Attributes {
		t.walkAttrValue(attr.Value)
	}
	for _, mod := range e.Modifiers {
		t.walkModifier(mod)
	}

	t.scope.Push(e.BlockParams)
	if comp != nil {
		from := comp
		t.scope.MarkComponentBlock(comp, func(argumentNames []string) {
			t.scanAttributeArguments(e, from, argumentNames, seen)
		})
	}
	t.walkBody(e.Children)
	t.scope.Pop()
}

func (t *transform) walkAttrValue(value ast.Node) {
	switch v := value.(type) {
	case *ast.MustacheStatement:
		t.walkMustache(v)
	case *ast.ConcatStatement:
		for _, part := range v.Parts {
			t.walkNode(part)
		}
	}
}

func (t *transform) walkExpressions(params []ast.Expression, hash ast.Hash) {
	for _, p := range params {
		t.walkExpression(p)
	}
	for _, pair := range hash.Pairs {
		t.walkExpression(pair.Value)
	}
}

func (t *transform) walkExpression(e ast.Expression) {
	if s, ok := e.(*ast.SubExpression); ok {
		t.walkSubExpression(s)
	}
}

// scanHashArguments resolves hash-style arguments whose names are flagged as
// carrying component values. seen persists across the entry scan and the
// marker exit re-scan so each argument resolves at most once.
func (t *transform) scanHashArguments(hash ast.Hash, comp *templatelinker.ComponentResolution, names []string, seen map[string]bool) {
	for _, pair := range hash.Pairs {
		if seen[pair.Key] || !slices.Contains(names, pair.Key) {
			continue
		}
		seen[pair.Key] = true
		from := &templatelinker.Provenance{Component: comp.NameHint, Argument: pair.Key}
		t.handleComponentHelper(pair.Value, exprSlot(&pair.Value), from)
	}
}

// scanAttributeArguments is scanHashArguments for element attributes, where
// component arguments are written with a leading '@'.
func (t *transform) scanAttributeArguments(e *ast.ElementNode, comp *templatelinker.ComponentResolution, names []string, seen map[string]bool) {
	for _, attr := range e.Attributes {
		name, isArg := attr.ArgName()
		if !isArg || attr.Value == nil {
			continue
		}
		if seen[name] || !slices.Contains(names, name) {
			continue
		}
		seen[name] = true
		from := &templatelinker.Provenance{Component: comp.NameHint, Argument: name}
		t.handleComponentHelper(attr.Value, attrSlot(attr), from)
	}
}

// handleComponentHelper classifies the value of a dynamic-component
// construct and resolves it unless it is already provably safe. The returned
// resolution is whatever the resolver produced, after emission.
func (t *transform) handleComponentHelper(value ast.Node, site rewriteSite, from *templatelinker.Provenance) templatelinker.Resolution {
	locator, outcome, inner := classifyComponentValue(value)
	switch outcome {
	case alreadySafe:
		return nil
	case unwrap:
		if m, ok := value.(*ast.MustacheStatement); ok {
			return t.handleComponentHelper(inner, exprSlot(&m.Path), from)
		}
		return t.handleComponentHelper(inner, site, from)
	}

	if locator.Kind == templatelinker.LocatorPath {
		if t.scope.IsSafeComponentPath(pathSegments(locator.Path)) {
			// Lexically proven to carry a component already.
			return nil
		}
	}

	res := t.resolver().ResolveComponentValue(locator, t.file, value.Pos(), from)
	t.emit(res, site)
	return res
}

// handleDynamicHelper resolves the value of a dynamic-helper construct. Only
// literal values are ever resolved; anything else is assumed to already be a
// valid reference and is left untouched.
func (t *transform) handleDynamicHelper(value ast.Expression) {
	lit, ok := value.(*ast.StringLiteral)
	if !ok {
		return
	}
	locator := templatelinker.Locator{Kind: templatelinker.LocatorLiteral, Literal: lit.Value}
	res := t.resolver().ResolveDynamicHelperValue(locator, t.file, lit.Pos())
	t.emit(res, nil)
}

// handleDynamicModifier is handleDynamicHelper for dynamic modifiers.
func (t *transform) handleDynamicModifier(value ast.Expression) {
	lit, ok := value.(*ast.StringLiteral)
	if !ok {
		return
	}
	locator := templatelinker.Locator{Kind: templatelinker.LocatorLiteral, Literal: lit.Value}
	res := t.resolver().ResolveDynamicModifierValue(locator, t.file, lit.Pos())
	t.emit(res, nil)
}
