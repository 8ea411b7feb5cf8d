package templatelinker

import (
	"github.com/wippyai/template-linker/ast"
)

// ModuleRef identifies one exported value of one module.
type ModuleRef struct {
	Path   string // module specifier, e.g. "my-app/helpers/titleize.js"
	Export string // export name, "default" for the default export
}

// Resolution is the resolver's verdict for one reference. The concrete types
// form a closed set: ComponentResolution, HelperResolution,
// ModifierResolution, and ErrorResolution. A nil Resolution means the
// reference is not something to be rewired at all.
//
// The binding emitter switches over this set exhaustively; an unknown
// concrete type reaching it is a programming error and panics.
type Resolution interface {
	resolution()
}

// ComponentYield describes what one positional block-param slot of a
// component yields. Either the slot itself is a component, or the slot is an
// object whose named fields may be components.
type ComponentYield struct {
	Component bool
	Fields    map[string]bool
}

// ArgumentYield describes a positional block-param slot that forwards one of
// the component's own named arguments. Either the slot forwards a single
// argument, or the slot is an object whose named fields each forward one.
type ArgumentYield struct {
	Argument string
	Fields   map[string]string
}

// ComponentResolution resolves a name to a component. At least one of
// Structural (the template artifact) and Behavioral (the class artifact) is
// present.
//
// YieldsComponents and YieldsArguments are parallel per-positional-slot
// tables describing what the component yields into its block parameters.
// ArgumentsAreComponents names the component's own arguments that are
// themselves expected to carry component values.
type ComponentResolution struct {
	Structural *ModuleRef
	Behavioral *ModuleRef

	// NameHint is the human-readable logical name, used both for derived
	// import identifiers and as the runtime registration key.
	NameHint string

	YieldsComponents       []ComponentYield
	YieldsArguments        []ArgumentYield
	ArgumentsAreComponents []string
}

// HelperResolution resolves a name to a helper module.
type HelperResolution struct {
	Module   ModuleRef
	NameHint string
}

// ModifierResolution resolves a name to an element-modifier module.
type ModifierResolution struct {
	Module   ModuleRef
	NameHint string
}

// ErrorResolution reports that a reference cannot be resolved. The node it
// was attached to is left unmodified; the failure is routed through the
// Resolver's error channel.
type ErrorResolution struct {
	Message string
	Loc     ast.Span
}

func (e *ErrorResolution) Error() string { return e.Message }

func (*ComponentResolution) resolution() {}
func (*HelperResolution) resolution()    {}
func (*ModifierResolution) resolution()  {}
func (*ErrorResolution) resolution()     {}

// LocatorKind classifies how a dynamically-supplied value names its target.
type LocatorKind int

const (
	// LocatorLiteral is a string constant naming the target.
	LocatorLiteral LocatorKind = iota
	// LocatorPath is a bare lexical reference.
	LocatorPath
	// LocatorOther is an opaque expression that cannot be statically
	// resolved and must stay a runtime-classified dynamic invocation.
	LocatorOther
)

func (k LocatorKind) String() string {
	switch k {
	case LocatorLiteral:
		return "literal"
	case LocatorPath:
		return "path"
	case LocatorOther:
		return "other"
	}
	return "unknown"
}

// Locator is the classification of a value passed to a dynamic component,
// helper, or modifier construct.
type Locator struct {
	Kind    LocatorKind
	Literal string // set when Kind == LocatorLiteral
	Path    string // dotted path text, set when Kind == LocatorPath
}

// Provenance records where a dynamic component value came from: the
// enclosing component invocation and the argument it was passed through.
// Used for diagnostics only.
type Provenance struct {
	Component string
	Argument  string
}
