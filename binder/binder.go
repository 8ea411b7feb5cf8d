package binder

import (
	"fmt"
	"strings"

	templatelinker "github.com/wippyai/template-linker"
	"github.com/wippyai/template-linker/ast"
)

// Module is a JS-module flavored ImportBinder for one template document.
// Bound identifiers are appended to the template's Locals, so the document
// itself records what is now lexically bound at module scope.
//
// Module is not thread-safe; use one per document, like the traversal that
// feeds it.
type Module struct {
	doc     *ast.Template
	imports []Import
	byKey   map[string]string
	taken   map[string]bool
	effects []func() string
}

// Import is one emitted import statement.
type Import struct {
	Path       string
	Export     string
	Identifier string
}

// NewModule creates a binder writing into doc. Identifiers already present
// in doc.Locals are reserved and never reused.
func NewModule(doc *ast.Template) *Module {
	m := &Module{
		doc:   doc,
		byKey: make(map[string]string),
		taken: make(map[string]bool),
	}
	for _, name := range doc.Locals {
		m.taken[name] = true
	}
	return m
}

// BindImport implements templatelinker.ImportBinder. Binding the same
// (modulePath, exportName) again returns the previously chosen identifier.
func (m *Module) BindImport(modulePath, exportName string, opts templatelinker.BindOptions) string {
	key := modulePath + "#" + exportName
	if id, ok := m.byKey[key]; ok {
		return id
	}

	id := m.claim(identifierBase(opts.NameHint, exportName, modulePath))
	m.byKey[key] = id
	m.imports = append(m.imports, Import{Path: modulePath, Export: exportName, Identifier: id})
	m.doc.Locals = append(m.doc.Locals, id)
	return id
}

// EmitModuleSideEffect implements templatelinker.ImportBinder. Builders run
// at Render time, after all imports are settled.
func (m *Module) EmitModuleSideEffect(build func() string) {
	m.effects = append(m.effects, build)
}

// Imports returns the emitted imports in bind order.
func (m *Module) Imports() []Import {
	out := make([]Import, len(m.imports))
	copy(out, m.imports)
	return out
}

// SideEffectCount returns the number of module-scope statements emitted.
func (m *Module) SideEffectCount() int { return len(m.effects) }

// Render produces the module preamble: import statements followed by
// module-scope side effects.
func (m *Module) Render() string {
	var b strings.Builder
	for _, imp := range m.imports {
		if imp.Export == "default" {
			fmt.Fprintf(&b, "import %s from %q;\n", imp.Identifier, imp.Path)
		} else {
			fmt.Fprintf(&b, "import { %s as %s } from %q;\n", imp.Export, imp.Identifier, imp.Path)
		}
	}
	for _, build := range m.effects {
		b.WriteString(build())
		b.WriteByte('\n')
	}
	return b.String()
}

// claim reserves base, renaming with a numeric suffix on collision.
func (m *Module) claim(base string) string {
	id := base
	for n := 0; m.taken[id]; n++ {
		id = fmt.Sprintf("%s%d", base, n)
	}
	m.taken[id] = true
	return id
}

// identifierBase derives a camelCase identifier from the name hint, falling
// back to the export name, then the module path's basename.
func identifierBase(hint, export, path string) string {
	for _, candidate := range []string{hint, export, basename(path)} {
		if candidate == "" || candidate == "default" {
			continue
		}
		if id := camelize(candidate); id != "" {
			return id
		}
	}
	return "binding"
}

func basename(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[:i]
	}
	return path
}

// camelize turns an arbitrary name into a valid identifier: word characters
// survive, everything else starts a new word.
func camelize(name string) string {
	var b strings.Builder
	upper := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '$':
			if upper && b.Len() > 0 {
				b.WriteString(strings.ToUpper(string(r)))
			} else {
				b.WriteRune(r)
			}
			upper = false
		case r >= '0' && r <= '9':
			if b.Len() == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			upper = false
		default:
			upper = true
		}
	}
	return b.String()
}

var _ templatelinker.ImportBinder = (*Module)(nil)
