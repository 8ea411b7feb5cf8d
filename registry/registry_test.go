package registry

import (
	"strings"
	"testing"

	templatelinker "github.com/wippyai/template-linker"
	"github.com/wippyai/template-linker/ast"
)

func testModule(path string) templatelinker.ModuleRef {
	return templatelinker.ModuleRef{Path: path, Export: "default"}
}

func registerComponent(t *testing.T, r *Registry, name string) {
	t.Helper()
	err := r.RegisterComponent(name, ComponentRule{
		Behavioral: &templatelinker.ModuleRef{Path: "my-app/components/" + name + ".js", Export: "default"},
	})
	if err != nil {
		t.Fatalf("RegisterComponent(%s): %v", name, err)
	}
}

func TestDasherizeTag(t *testing.T) {
	tests := []struct{ tag, want string }{
		{"FancyList", "fancy-list"},
		{"Button", "button"},
		{"XIcon", "x-icon"},
		{"Ui::Button", "ui/button"},
		{"Admin::UserList", "admin/user-list"},
		{"already-dashed", "already-dashed"},
	}
	for _, tt := range tests {
		if got := DasherizeTag(tt.tag); got != tt.want {
			t.Errorf("DasherizeTag(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestResolveBlockInvocation(t *testing.T) {
	r := New(WithStrict())
	registerComponent(t, r, "fancy-list")

	if res := r.ResolveBlockInvocation("if", "t.hbs", ast.Span{}); res != nil {
		t.Errorf("builtin resolved to %+v, want nil", res)
	}

	res := r.ResolveBlockInvocation("fancy-list", "t.hbs", ast.Span{})
	comp, ok := res.(*templatelinker.ComponentResolution)
	if !ok {
		t.Fatalf("resolved to %T, want component", res)
	}
	if comp.NameHint != "fancy-list" || comp.Behavioral == nil {
		t.Errorf("unexpected resolution %+v", comp)
	}

	if _, ok := r.ResolveBlockInvocation("nope", "t.hbs", ast.Span{}).(*templatelinker.ErrorResolution); !ok {
		t.Error("strict registry permitted an unknown block target")
	}

	lax := New()
	if res := lax.ResolveBlockInvocation("nope", "t.hbs", ast.Span{}); res != nil {
		t.Errorf("lax registry resolved unknown name to %+v, want nil", res)
	}
}

func TestResolveValueReferencePolicy(t *testing.T) {
	r := New(WithStrict())
	r.RegisterHelper("titleize", testModule("my-app/helpers/titleize.js"))

	if _, ok := r.ResolveValueReference("titleize", true, "t.hbs", ast.Span{}).(*templatelinker.HelperResolution); !ok {
		t.Error("registered helper did not resolve")
	}

	// An argument-less unknown name may be a property lookup, so it passes
	// even under strict policy; with arguments it must be known.
	if res := r.ResolveValueReference("maybe-prop", false, "t.hbs", ast.Span{}); res != nil {
		t.Errorf("argument-less unknown resolved to %+v, want nil", res)
	}
	if _, ok := r.ResolveValueReference("maybe-prop", true, "t.hbs", ast.Span{}).(*templatelinker.ErrorResolution); !ok {
		t.Error("unknown invocation with arguments passed strict policy")
	}
}

func TestHelperShadowsComponent(t *testing.T) {
	r := New()
	registerComponent(t, r, "badge")
	r.RegisterHelper("badge", testModule("my-app/helpers/badge.js"))

	if _, ok := r.ResolveValueReference("badge", true, "t.hbs", ast.Span{}).(*templatelinker.HelperResolution); !ok {
		t.Error("helper should win over a component of the same name in value position")
	}
	if _, ok := r.ResolveBlockInvocation("badge", "t.hbs", ast.Span{}).(*templatelinker.ComponentResolution); !ok {
		t.Error("block position should still resolve the component")
	}
}

func TestResolveElementReference(t *testing.T) {
	r := New(WithStrict())
	registerComponent(t, r, "fancy-list")
	registerComponent(t, r, "ui/button")

	if res := r.ResolveElementReference("div", "t.hbs", ast.Span{}); res != nil {
		t.Errorf("native tag resolved to %+v, want nil", res)
	}
	if res := r.ResolveElementReference("row.cell", "t.hbs", ast.Span{}); res != nil {
		t.Errorf("dotted tag resolved to %+v, want nil", res)
	}

	for tag, want := range map[string]string{
		"FancyList":  "fancy-list",
		"Ui::Button": "ui/button",
	} {
		res := r.ResolveElementReference(tag, "t.hbs", ast.Span{})
		comp, ok := res.(*templatelinker.ComponentResolution)
		if !ok || comp.NameHint != want {
			t.Errorf("ResolveElementReference(%s) = %+v, want component %s", tag, res, want)
		}
	}

	if _, ok := r.ResolveElementReference("Unknown", "t.hbs", ast.Span{}).(*templatelinker.ErrorResolution); !ok {
		t.Error("strict registry permitted an unknown component tag")
	}
}

func TestResolveComponentValuePolicy(t *testing.T) {
	known := templatelinker.Locator{Kind: templatelinker.LocatorLiteral, Literal: "fancy-button"}
	opaque := templatelinker.Locator{Kind: templatelinker.LocatorOther}

	r := New()
	registerComponent(t, r, "fancy-button")
	if _, ok := r.ResolveComponentValue(known, "t.hbs", ast.Span{}, nil).(*templatelinker.ComponentResolution); !ok {
		t.Error("known literal did not resolve")
	}
	if res := r.ResolveComponentValue(opaque, "t.hbs", ast.Span{}, nil); res != nil {
		t.Errorf("opaque value resolved to %+v, want nil", res)
	}

	strict := New(WithStrictDynamic())
	res := strict.ResolveComponentValue(opaque, "t.hbs", ast.Span{Line: 3, Col: 7}, &templatelinker.Provenance{
		Component: "form-for",
		Argument:  "target",
	})
	fail, ok := res.(*templatelinker.ErrorResolution)
	if !ok {
		t.Fatalf("strict-dynamic registry returned %T, want error", res)
	}
	for _, part := range []string{"form-for", "target"} {
		if !strings.Contains(fail.Message, part) {
			t.Errorf("error %q does not mention %q", fail.Message, part)
		}
	}
}

func TestResolveDynamicValues(t *testing.T) {
	r := New(WithStrict())
	r.RegisterHelper("titleize", testModule("my-app/helpers/titleize.js"))
	r.RegisterModifier("tooltip", testModule("my-app/modifiers/tooltip.js"))

	literal := func(name string) templatelinker.Locator {
		return templatelinker.Locator{Kind: templatelinker.LocatorLiteral, Literal: name}
	}

	if _, ok := r.ResolveDynamicHelperValue(literal("titleize"), "t.hbs", ast.Span{}).(*templatelinker.HelperResolution); !ok {
		t.Error("known dynamic helper did not resolve")
	}
	if _, ok := r.ResolveDynamicModifierValue(literal("tooltip"), "t.hbs", ast.Span{}).(*templatelinker.ModifierResolution); !ok {
		t.Error("known dynamic modifier did not resolve")
	}
	if _, ok := r.ResolveDynamicHelperValue(literal("nope"), "t.hbs", ast.Span{}).(*templatelinker.ErrorResolution); !ok {
		t.Error("strict registry permitted an unknown dynamic helper")
	}

	// Non-literal values never reach resolution here.
	path := templatelinker.Locator{Kind: templatelinker.LocatorPath, Path: "this.h"}
	if res := r.ResolveDynamicHelperValue(path, "t.hbs", ast.Span{}); res != nil {
		t.Errorf("path locator resolved to %+v, want nil", res)
	}
}

func TestRegisterComponentNeedsArtifact(t *testing.T) {
	r := New()
	if err := r.RegisterComponent("empty", ComponentRule{}); err == nil {
		t.Fatal("component with no artifacts registered")
	}
}

func TestReportErrorDiagnostics(t *testing.T) {
	r := New()
	source := "line one\n  {{broken-ref}}\nline three"
	r.ReportError(&templatelinker.ErrorResolution{
		Message: "cannot resolve broken-ref",
		Loc:     ast.Span{Line: 2, Col: 3},
	}, "app/templates/index.hbs", source)

	ds := r.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("diagnostics = %d, want 1", len(ds))
	}
	d := ds[0]
	if d.File != "app/templates/index.hbs" || d.Line != 2 || d.Col != 3 {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	if d.Excerpt != "{{broken-ref}}" {
		t.Errorf("excerpt = %q", d.Excerpt)
	}
	if got := d.String(); !strings.Contains(got, "index.hbs:2:3") {
		t.Errorf("String() = %q", got)
	}
}
