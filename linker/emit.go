package linker

import (
	"fmt"

	"go.uber.org/zap"

	templatelinker "github.com/wippyai/template-linker"
	"github.com/wippyai/template-linker/ast"
)

// rewriteSite installs a freshly bound identifier at one call site. A nil
// site means the node cannot be rewritten (dynamic name lookups stay
// string-keyed) and emission must go through deferred registration.
type rewriteSite func(*ast.PathExpression)

// exprSlot rewrites an expression field in place.
func exprSlot(slot *ast.Expression) rewriteSite {
	return func(p *ast.PathExpression) { *slot = p }
}

// attrSlot rewrites an attribute value, wrapping the identifier in an output
// statement since attribute values are content nodes.
func attrSlot(attr *ast.AttrNode) rewriteSite {
	return func(p *ast.PathExpression) {
		attr.Value = &ast.MustacheStatement{Path: p, Loc: p.Loc}
	}
}

// tagSlot rewrites an element's tag name.
func tagSlot(e *ast.ElementNode) rewriteSite {
	return func(p *ast.PathExpression) { e.Tag = p.Head }
}

// emit applies the binding rewrite policy for one resolution. Resolution
// kinds are a closed set; an unhandled kind reaching this switch means the
// kind set and the emitter are out of sync, which aborts the whole pass.
func (t *transform) emit(res templatelinker.Resolution, site rewriteSite) {
	switch r := res.(type) {
	case nil:
		// Nothing to rewire.
	case *templatelinker.ErrorResolution:
		// The node stays unmodified so the document remains structurally
		// valid; the reference will fail at runtime instead.
		t.resolver().ReportError(r, t.file, t.source)
	case *templatelinker.HelperResolution:
		if t.linker.compatHelpers || site == nil {
			t.register(r.NameHint, artifact{kind: "helper", module: r.Module})
			return
		}
		t.bindAndRewrite(r.Module, r.NameHint, r, site)
	case *templatelinker.ModifierResolution:
		if site == nil {
			t.register(r.NameHint, artifact{kind: "modifier", module: r.Module})
			return
		}
		t.bindAndRewrite(r.Module, r.NameHint, r, site)
	case *templatelinker.ComponentResolution:
		t.emitComponent(r, site)
	default:
		panic(fmt.Sprintf("templatelinker: unhandled resolution kind %T", res))
	}
}

func (t *transform) emitComponent(r *templatelinker.ComponentResolution, site rewriteSite) {
	// Co-located definitions compile to a single behavioral module; that is
	// the common case and binds statically. A split definition (separate
	// structural and behavioral artifacts) or a lone structural artifact
	// needs the runtime loader to associate the pieces under a shared
	// logical name, which only a name-keyed registration can express.
	if r.Behavioral != nil && r.Structural == nil && site != nil {
		t.bindAndRewrite(*r.Behavioral, r.NameHint, r, site)
		return
	}

	var artifacts []artifact
	if r.Structural != nil {
		artifacts = append(artifacts, artifact{kind: "template", module: *r.Structural})
	}
	if r.Behavioral != nil {
		artifacts = append(artifacts, artifact{kind: "component", module: *r.Behavioral})
	}
	t.register(r.NameHint, artifacts...)
}

// bindAndRewrite binds a static import, records the identifier in the
// emitted-bindings ledger, and rewrites the call site to it.
func (t *transform) bindAndRewrite(module templatelinker.ModuleRef, hint string, res templatelinker.Resolution, site rewriteSite) {
	id := t.linker.binder.BindImport(module.Path, module.Export, templatelinker.BindOptions{NameHint: hint})
	t.bound[id] = res
	site(&ast.PathExpression{Head: id})
	Logger().Debug("bound static import",
		zap.String("file", t.file),
		zap.String("module", module.Path),
		zap.String("identifier", id))
}

type artifact struct {
	kind   string
	module templatelinker.ModuleRef
}

// register emits the deferred-registration path for each artifact: one
// static import plus one module-scope statement binding the import under its
// logical runtime name. Repeated dynamic references to the same name
// register only once per document.
func (t *transform) register(name string, artifacts ...artifact) {
	for _, a := range artifacts {
		key := a.kind + ":" + name
		if t.registered[key] {
			continue
		}
		t.registered[key] = true
		id := t.linker.binder.BindImport(a.module.Path, a.module.Export, templatelinker.BindOptions{NameHint: name})
		t.linker.binder.EmitModuleSideEffect(func() string {
			return fmt.Sprintf("window.define(%q, function() { return %s; });", key, id)
		})
		Logger().Debug("registered runtime artifact",
			zap.String("file", t.file),
			zap.String("name", key),
			zap.String("module", a.module.Path))
	}
}
