// Package templatelinker provides build-time name resolution for
// component-template documents.
//
// Templates reference components, helpers, and modifiers by bare name and
// rely on a runtime, string-keyed registry to find the implementing module.
// This library replaces that lookup with a compile-time dependency edge: a
// single pass walks each template, classifies every invocation site, asks a
// resolver which module backs each name, and rewrites the reference into a
// statically bound import. Where a static import cannot capture the needed
// runtime association (split component definitions, dynamically named
// helpers), the pass falls back to a module-scope registration statement
// instead.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	templatelinker/      Root package with the Resolver and ImportBinder contracts
//	├── ast/             Template syntax tree and printer
//	├── hbs/             Template text to AST parser
//	├── linker/          The resolution pass: scope tracking, classification, rewriting
//	├── registry/        Rule-backed Resolver implementation (YAML-configurable)
//	├── binder/          JS-module ImportBinder implementation
//	└── errors/          Structured error types for diagnostics
//
// # Quick Start
//
// Parse a template, link it against a rule set, and render the result:
//
//	doc, err := hbs.Parse(source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rules := registry.New()
//	rules.RegisterHelper("titleize", templatelinker.ModuleRef{
//	    Path: "my-app/helpers/titleize.js", Export: "default",
//	})
//
//	mod := binder.NewModule(doc)
//	linker.New(rules, mod).Transform(doc, "components/page.hbs", source)
//
//	fmt.Println(mod.Render())      // import preamble + registrations
//	fmt.Println(ast.Print(doc))    // rewritten template
//
// # Resolution Contract
//
// The Resolver decides which module (if any) implements a name; the pass only
// classifies call sites and rewires bindings. Unresolvable references are
// reported through the Resolver's error channel and leave the document
// untouched, so one bad name never prevents resolving the rest of a file.
//
// # Thread Safety
//
// A TemplateLinker holds no per-document state and may be shared; each
// Transform call owns all traversal state for its document. Documents can be
// processed concurrently as long as the Resolver and ImportBinder given to
// each call are themselves safe for it.
package templatelinker
