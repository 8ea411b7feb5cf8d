package templatelinker

import (
	"github.com/wippyai/template-linker/ast"
)

// Resolver decides which module, if any, implements a bare name seen at a
// particular kind of call site. Implementations own the search strategy
// (package layout, addon ordering, strictness policy); the linker only
// classifies sites and rewires bindings.
//
// Every method is a pure function of its arguments: re-invoking with the
// same (name, file, location) yields the same result, so the linker never
// retries. A nil Resolution means "nothing to do", not failure; failures are
// ErrorResolution values.
type Resolver interface {
	// ResolveBlockInvocation resolves the target of a block invocation.
	// Block targets always require component semantics, never helper
	// semantics, since only components can guard a block body.
	ResolveBlockInvocation(name, file string, loc ast.Span) Resolution

	// ResolveSubInvocation resolves a nested invocation in value position.
	ResolveSubInvocation(name, file string, loc ast.Span) Resolution

	// ResolveValueReference resolves an output statement's target. hasArgs
	// reports whether the statement carried positional or named arguments.
	ResolveValueReference(name string, hasArgs bool, file string, loc ast.Span) Resolution

	// ResolveModifierReference resolves an element-modifier invocation.
	ResolveModifierReference(name, file string, loc ast.Span) Resolution

	// ResolveElementReference resolves an element tag. Plain native tags
	// resolve to nil.
	ResolveElementReference(tag, file string, loc ast.Span) Resolution

	// ResolveComponentValue resolves the classified value of a dynamic
	// component construct. from carries diagnostic provenance when the
	// value arrived through a component argument; it may be nil.
	ResolveComponentValue(locator Locator, file string, loc ast.Span, from *Provenance) Resolution

	// ResolveDynamicHelperValue resolves the classified value of a dynamic
	// helper construct. Only literal locators are ever passed; the result
	// is either nil, a HelperResolution destined for deferred
	// registration, or an ErrorResolution.
	ResolveDynamicHelperValue(locator Locator, file string, loc ast.Span) Resolution

	// ResolveDynamicModifierValue is ResolveDynamicHelperValue for dynamic
	// modifier constructs.
	ResolveDynamicModifierValue(locator Locator, file string, loc ast.Span) Resolution

	// ReportError emits a diagnostic for a failed resolution. It never
	// returns an error and never aborts the traversal; source is the full
	// document text for excerpting.
	ReportError(err *ErrorResolution, file string, source string)
}

// BindOptions configures one BindImport call.
type BindOptions struct {
	// NameHint suggests a base for the bound identifier; the binder may
	// rename to avoid collisions.
	NameHint string
}

// ImportBinder binds module imports into the document being transformed and
// appends module-scope statements. Implementations own identifier hygiene:
// BindImport is deterministic per (modulePath, exportName) up to
// collision-avoidance renaming, and returns the same identifier for repeated
// binds of the same export.
type ImportBinder interface {
	// BindImport ensures modulePath's exportName is imported and returns a
	// lexically valid identifier for it.
	BindImport(modulePath, exportName string, opts BindOptions) string

	// EmitModuleSideEffect appends one module-scope statement. The builder
	// runs when the module is rendered, after all imports are settled.
	EmitModuleSideEffect(build func() string)
}
