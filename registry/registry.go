package registry

import (
	"fmt"
	"strings"
	"sync"

	templatelinker "github.com/wippyai/template-linker"
	"github.com/wippyai/template-linker/ast"
	"github.com/wippyai/template-linker/errors"
)

// Registry is a rule-backed Resolver. Components, helpers, and modifiers are
// registered under their runtime names; resolution is a map lookup plus the
// strictness policy.
//
// Registry is thread-safe.
type Registry struct {
	mu         sync.RWMutex
	components map[string]*ComponentRule
	helpers    map[string]templatelinker.ModuleRef
	modifiers  map[string]templatelinker.ModuleRef

	strict        bool
	strictDynamic bool

	dmu         sync.Mutex
	diagnostics []Diagnostic
}

// ComponentRule describes one component: its artifacts and what it is known
// to yield into block parameters.
type ComponentRule struct {
	Structural *templatelinker.ModuleRef
	Behavioral *templatelinker.ModuleRef

	YieldsComponents       []templatelinker.ComponentYield
	YieldsArguments        []templatelinker.ArgumentYield
	ArgumentsAreComponents []string
}

// Diagnostic is one reported resolution failure.
type Diagnostic struct {
	File    string
	Message string
	Line    int
	Col     int
	Excerpt string
}

func (d Diagnostic) String() string {
	if d.Excerpt == "" {
		return fmt.Sprintf("%s:%d:%d: %s", d.File, d.Line, d.Col, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s\n\t%s", d.File, d.Line, d.Col, d.Message, d.Excerpt)
}

// Option configures a Registry.
type Option func(*Registry)

// WithStrict makes unresolvable names errors instead of permitted
// passthroughs.
func WithStrict() Option {
	return func(r *Registry) { r.strict = true }
}

// WithStrictDynamic makes dynamic component values that cannot be statically
// classified (bare paths, computed expressions) errors rather than permitted
// runtime fallbacks.
func WithStrictDynamic() Option {
	return func(r *Registry) { r.strictDynamic = true }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		components: make(map[string]*ComponentRule),
		helpers:    make(map[string]templatelinker.ModuleRef),
		modifiers:  make(map[string]templatelinker.ModuleRef),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterComponent adds or replaces a component rule. The rule must carry
// at least one artifact.
func (r *Registry) RegisterComponent(name string, rule ComponentRule) error {
	if rule.Structural == nil && rule.Behavioral == nil {
		return errors.InvalidRule(name, "component needs a template or a behavior module")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[name] = &rule
	return nil
}

// RegisterHelper adds or replaces a helper rule.
func (r *Registry) RegisterHelper(name string, module templatelinker.ModuleRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.helpers[name] = module
}

// RegisterModifier adds or replaces a modifier rule.
func (r *Registry) RegisterModifier(name string, module templatelinker.ModuleRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modifiers[name] = module
}

// Builtins are resolved by the runtime itself, never by modules.
var builtins = map[string]bool{
	"if": true, "unless": true, "each": true, "each-in": true, "let": true,
	"yield": true, "outlet": true, "in-element": true, "debugger": true,
	"log": true, "concat": true, "fn": true, "on": true, "get": true,
	"array": true, "hash": true, "action": true, "mount": true,
	"has-block": true, "has-block-params": true, "unbound": true,
	"input": true, "textarea": true, "link-to": true,
}

func (r *Registry) componentFor(name string) *templatelinker.ComponentResolution {
	r.mu.RLock()
	rule := r.components[name]
	r.mu.RUnlock()
	if rule == nil {
		return nil
	}
	return &templatelinker.ComponentResolution{
		Structural:             rule.Structural,
		Behavioral:             rule.Behavioral,
		NameHint:               name,
		YieldsComponents:       rule.YieldsComponents,
		YieldsArguments:        rule.YieldsArguments,
		ArgumentsAreComponents: rule.ArgumentsAreComponents,
	}
}

func (r *Registry) helperFor(name string) *templatelinker.HelperResolution {
	r.mu.RLock()
	module, ok := r.helpers[name]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return &templatelinker.HelperResolution{Module: module, NameHint: name}
}

func (r *Registry) modifierFor(name string) *templatelinker.ModifierResolution {
	r.mu.RLock()
	module, ok := r.modifiers[name]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return &templatelinker.ModifierResolution{Module: module, NameHint: name}
}

func unresolved(file, name, siteKind string, loc ast.Span) *templatelinker.ErrorResolution {
	return &templatelinker.ErrorResolution{
		Message: errors.Unresolved(file, name, siteKind, loc.Line, loc.Col).Error(),
		Loc:     loc,
	}
}

// ResolveBlockInvocation implements templatelinker.Resolver. Block targets
// are only ever components.
func (r *Registry) ResolveBlockInvocation(name, file string, loc ast.Span) templatelinker.Resolution {
	if builtins[name] {
		return nil
	}
	if comp := r.componentFor(name); comp != nil {
		return comp
	}
	if r.strict {
		return unresolved(file, name, "component", loc)
	}
	return nil
}

// ResolveSubInvocation implements templatelinker.Resolver.
func (r *Registry) ResolveSubInvocation(name, file string, loc ast.Span) templatelinker.Resolution {
	if builtins[name] {
		return nil
	}
	if helper := r.helperFor(name); helper != nil {
		return helper
	}
	if comp := r.componentFor(name); comp != nil {
		return comp
	}
	if r.strict {
		return unresolved(file, name, "helper", loc)
	}
	return nil
}

// ResolveValueReference implements templatelinker.Resolver. A bare reference
// with no arguments may legitimately be a property lookup, so unknown
// argument-less names pass through even in strict mode.
func (r *Registry) ResolveValueReference(name string, hasArgs bool, file string, loc ast.Span) templatelinker.Resolution {
	if builtins[name] {
		return nil
	}
	if helper := r.helperFor(name); helper != nil {
		return helper
	}
	if comp := r.componentFor(name); comp != nil {
		return comp
	}
	if r.strict && hasArgs {
		return unresolved(file, name, "helper or component", loc)
	}
	return nil
}

// ResolveModifierReference implements templatelinker.Resolver.
func (r *Registry) ResolveModifierReference(name, file string, loc ast.Span) templatelinker.Resolution {
	if mod := r.modifierFor(name); mod != nil {
		return mod
	}
	if r.strict {
		return unresolved(file, name, "modifier", loc)
	}
	return nil
}

// ResolveElementReference implements templatelinker.Resolver. Native
// lowercase tags and dotted lexical tags resolve to nil; component-style
// tags are matched against the rule set under their dasherized names.
func (r *Registry) ResolveElementReference(tag, file string, loc ast.Span) templatelinker.Resolution {
	if tag == "" || strings.Contains(tag, ".") {
		return nil
	}
	first := tag[0]
	if first < 'A' || first > 'Z' {
		return nil
	}
	name := DasherizeTag(tag)
	if comp := r.componentFor(name); comp != nil {
		return comp
	}
	if comp := r.componentFor(tag); comp != nil {
		return comp
	}
	if r.strict {
		return unresolved(file, tag, "component", loc)
	}
	return nil
}

// ResolveComponentValue implements templatelinker.Resolver. Whether an
// opaque dynamic value is an error or a permitted runtime fallback is policy
// that lives here, not in the pass.
func (r *Registry) ResolveComponentValue(locator templatelinker.Locator, file string, loc ast.Span, from *templatelinker.Provenance) templatelinker.Resolution {
	switch locator.Kind {
	case templatelinker.LocatorLiteral:
		if comp := r.componentFor(locator.Literal); comp != nil {
			return comp
		}
		if r.strict {
			return unresolved(file, locator.Literal, "component", loc)
		}
		return nil
	default:
		if !r.strictDynamic {
			return nil
		}
		detail := errors.AmbiguousDynamic(file, "component", loc.Line, loc.Col).Error()
		if from != nil {
			detail = fmt.Sprintf("%s (passed as argument %q of %q)", detail, from.Argument, from.Component)
		}
		return &templatelinker.ErrorResolution{Message: detail, Loc: loc}
	}
}

// ResolveDynamicHelperValue implements templatelinker.Resolver.
func (r *Registry) ResolveDynamicHelperValue(locator templatelinker.Locator, file string, loc ast.Span) templatelinker.Resolution {
	if locator.Kind != templatelinker.LocatorLiteral {
		return nil
	}
	if helper := r.helperFor(locator.Literal); helper != nil {
		return helper
	}
	if r.strict {
		return unresolved(file, locator.Literal, "helper", loc)
	}
	return nil
}

// ResolveDynamicModifierValue implements templatelinker.Resolver.
func (r *Registry) ResolveDynamicModifierValue(locator templatelinker.Locator, file string, loc ast.Span) templatelinker.Resolution {
	if locator.Kind != templatelinker.LocatorLiteral {
		return nil
	}
	if mod := r.modifierFor(locator.Literal); mod != nil {
		return mod
	}
	if r.strict {
		return unresolved(file, locator.Literal, "modifier", loc)
	}
	return nil
}

// ReportError implements templatelinker.Resolver. Diagnostics accumulate on
// the registry; reporting never fails and never aborts a traversal.
func (r *Registry) ReportError(err *templatelinker.ErrorResolution, file string, source string) {
	d := Diagnostic{
		File:    file,
		Message: err.Message,
		Line:    err.Loc.Line,
		Col:     err.Loc.Col,
		Excerpt: excerpt(source, err.Loc.Line),
	}
	r.dmu.Lock()
	r.diagnostics = append(r.diagnostics, d)
	r.dmu.Unlock()
}

// Diagnostics returns a copy of all reported failures so far.
func (r *Registry) Diagnostics() []Diagnostic {
	r.dmu.Lock()
	defer r.dmu.Unlock()
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// DasherizeTag converts an angle-bracket tag to its runtime name:
// "FancyList" becomes "fancy-list", "Ui::Button" becomes "ui/button".
func DasherizeTag(tag string) string {
	var b strings.Builder
	for _, segment := range strings.Split(tag, "::") {
		if b.Len() > 0 {
			b.WriteByte('/')
		}
		for i, r := range segment {
			if r >= 'A' && r <= 'Z' {
				if i > 0 {
					b.WriteByte('-')
				}
				b.WriteRune(r - 'A' + 'a')
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// excerpt returns the 1-based line of source, trimmed, for diagnostics.
func excerpt(source string, line int) string {
	if line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[line-1])
}

var _ templatelinker.Resolver = (*Registry)(nil)
