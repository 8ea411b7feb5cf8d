package binder

import (
	"strings"
	"testing"

	templatelinker "github.com/wippyai/template-linker"
	"github.com/wippyai/template-linker/ast"
)

func TestBindImportDedupes(t *testing.T) {
	m := NewModule(&ast.Template{})

	first := m.BindImport("my-app/helpers/titleize.js", "default", templatelinker.BindOptions{NameHint: "titleize"})
	second := m.BindImport("my-app/helpers/titleize.js", "default", templatelinker.BindOptions{NameHint: "titleize"})

	if first != second {
		t.Errorf("same export bound twice: %q vs %q", first, second)
	}
	if n := len(m.Imports()); n != 1 {
		t.Errorf("imports = %d, want 1", n)
	}
}

func TestBindImportCollisionRenames(t *testing.T) {
	m := NewModule(&ast.Template{})

	a := m.BindImport("addon-a/components/button.js", "default", templatelinker.BindOptions{NameHint: "fancy-button"})
	b := m.BindImport("addon-b/components/button.js", "default", templatelinker.BindOptions{NameHint: "fancy-button"})

	if a != "fancyButton" {
		t.Errorf("first identifier = %q, want fancyButton", a)
	}
	if b == a {
		t.Errorf("colliding exports share identifier %q", a)
	}
	if b != "fancyButton0" {
		t.Errorf("second identifier = %q, want fancyButton0", b)
	}
}

func TestBindImportReservesExistingLocals(t *testing.T) {
	doc := &ast.Template{Locals: []string{"titleize"}}
	m := NewModule(doc)

	id := m.BindImport("my-app/helpers/titleize.js", "default", templatelinker.BindOptions{NameHint: "titleize"})
	if id == "titleize" {
		t.Error("binder reused an identifier already at module scope")
	}
	if got := doc.Locals; len(got) != 2 || got[1] != id {
		t.Errorf("Locals = %v, want the new identifier appended", got)
	}
}

func TestIdentifierBaseFallbacks(t *testing.T) {
	tests := []struct {
		hint, export, path string
		want               string
	}{
		{"fancy-button", "default", "x.js", "fancyButton"},
		{"", "FancyButton", "x.js", "FancyButton"},
		{"", "default", "my-app/components/drop-down.js", "dropDown"},
		{"", "default", "", "binding"},
		{"123", "default", "x.js", "_123"},
	}
	for _, tt := range tests {
		if got := identifierBase(tt.hint, tt.export, tt.path); got != tt.want {
			t.Errorf("identifierBase(%q, %q, %q) = %q, want %q", tt.hint, tt.export, tt.path, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	m := NewModule(&ast.Template{})
	m.BindImport("my-app/components/fancy-button.js", "default", templatelinker.BindOptions{NameHint: "fancy-button"})
	m.BindImport("my-app/utils/format.js", "shortDate", templatelinker.BindOptions{})
	m.EmitModuleSideEffect(func() string {
		return `window.define("component:fancy-button", function() { return fancyButton; });`
	})

	got := m.Render()
	want := strings.Join([]string{
		`import fancyButton from "my-app/components/fancy-button.js";`,
		`import { shortDate as shortDate } from "my-app/utils/format.js";`,
		`window.define("component:fancy-button", function() { return fancyButton; });`,
		``,
	}, "\n")
	if got != want {
		t.Errorf("Render =\n%s\nwant\n%s", got, want)
	}
	if m.SideEffectCount() != 1 {
		t.Errorf("SideEffectCount = %d, want 1", m.SideEffectCount())
	}
}

func TestSideEffectSeesLateBindings(t *testing.T) {
	m := NewModule(&ast.Template{})
	var id string
	m.EmitModuleSideEffect(func() string { return "registered " + id })
	id = m.BindImport("my-app/helpers/titleize.js", "default", templatelinker.BindOptions{NameHint: "titleize"})

	if got := m.Render(); !strings.Contains(got, "registered titleize") {
		t.Errorf("builder ran before bindings settled:\n%s", got)
	}
}
