// Package registry provides a rule-backed Resolver implementation.
//
// Names are registered under their runtime identities (dasherized component
// names, helper and modifier names) together with the modules implementing
// them and, for components, the yield tables the linker's safety analysis
// consumes. Rules can be registered programmatically or loaded from a YAML
// file.
//
// Strictness is policy, not mechanism: by default unknown names and opaque
// dynamic values pass through untouched, matching a runtime with a global
// resolver; WithStrict and WithStrictDynamic turn them into reported errors.
package registry
