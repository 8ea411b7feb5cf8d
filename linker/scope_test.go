package linker

import (
	"testing"

	templatelinker "github.com/wippyai/template-linker"
)

func yieldsComponents(slots ...templatelinker.ComponentYield) *templatelinker.ComponentResolution {
	return &templatelinker.ComponentResolution{
		Behavioral:       &templatelinker.ModuleRef{Path: "app/components/x.js", Export: "default"},
		NameHint:         "x",
		YieldsComponents: slots,
	}
}

func TestScopeStackIsBound(t *testing.T) {
	var s ScopeStack
	s.Push([]string{"a", "b"})
	s.Push(nil)
	s.Push([]string{"c"})

	for _, name := range []string{"a", "b", "c"} {
		if !s.IsBound(name) {
			t.Errorf("IsBound(%q) = false, want true", name)
		}
	}
	if s.IsBound("d") {
		t.Error("IsBound(d) = true, want false")
	}

	s.Pop()
	if s.IsBound("c") {
		t.Error("c still bound after pop")
	}
	if !s.IsBound("a") {
		t.Error("a not bound after inner pop")
	}
}

func TestScopeStackSafeComponentSlot(t *testing.T) {
	var s ScopeStack
	s.Push([]string{"child", "other"})
	s.MarkComponentBlock(yieldsComponents(templatelinker.ComponentYield{Component: true}), nil)

	if !s.IsSafeComponentPath([]string{"child"}) {
		t.Error("slot 0 flagged as component should be safe")
	}
	if s.IsSafeComponentPath([]string{"other"}) {
		t.Error("slot 1 has no yield entry, should be unsafe")
	}
}

func TestScopeStackSafeComponentField(t *testing.T) {
	var s ScopeStack
	s.Push([]string{"row"})
	s.MarkComponentBlock(yieldsComponents(
		templatelinker.ComponentYield{Fields: map[string]bool{"cell": true}},
	), nil)

	if !s.IsSafeComponentPath([]string{"row", "cell"}) {
		t.Error("row.cell should be safe")
	}
	if s.IsSafeComponentPath([]string{"row", "header"}) {
		t.Error("row.header is not in the yield map")
	}
	if s.IsSafeComponentPath([]string{"row"}) {
		t.Error("row itself is not a component, only its cell field")
	}
}

func TestScopeStackForwardedArgument(t *testing.T) {
	var s ScopeStack
	var exited []string
	res := &templatelinker.ComponentResolution{
		NameHint:        "form",
		Behavioral:      &templatelinker.ModuleRef{Path: "app/components/form.js", Export: "default"},
		YieldsArguments: []templatelinker.ArgumentYield{{Argument: "target"}},
	}
	s.Push([]string{"f"})
	s.MarkComponentBlock(res, func(argumentNames []string) {
		exited = append(exited, argumentNames...)
	})

	if !s.IsSafeComponentPath([]string{"f"}) {
		t.Fatal("forwarded slot should be safe")
	}
	// Repeat checks must not duplicate the forwarded name.
	if !s.IsSafeComponentPath([]string{"f"}) {
		t.Fatal("second check should still be safe")
	}

	s.Pop()
	if len(exited) != 1 || exited[0] != "target" {
		t.Fatalf("exit callback got %v, want [target]", exited)
	}
}

func TestScopeStackOriginStopsSearch(t *testing.T) {
	var s ScopeStack
	// Outer frame yields a component under the name "item".
	s.Push([]string{"item"})
	s.MarkComponentBlock(yieldsComponents(templatelinker.ComponentYield{Component: true}), nil)
	// Inner frame rebinds "item" with no marker.
	s.Push([]string{"item"})

	if s.IsSafeComponentPath([]string{"item"}) {
		t.Error("inner binding is the origin and has no marker; must not fall through to the outer frame")
	}

	s.Pop()
	if !s.IsSafeComponentPath([]string{"item"}) {
		t.Error("after the inner frame pops, the outer marker applies again")
	}
}

func TestScopeStackDeepPathsNeverSafe(t *testing.T) {
	var s ScopeStack
	s.Push([]string{"a"})
	s.MarkComponentBlock(yieldsComponents(templatelinker.ComponentYield{Component: true}), nil)

	if s.IsSafeComponentPath([]string{"a", "b", "c"}) {
		t.Error("paths deeper than one object hop are never safe")
	}
}

func TestScopeStackExitCallbackFiresOnce(t *testing.T) {
	var s ScopeStack
	count := 0
	s.Push([]string{"f"})
	s.MarkComponentBlock(yieldsComponents(), func([]string) { count++ })
	s.Pop()
	if count != 1 {
		t.Fatalf("exit callback fired %d times, want 1", count)
	}
}

func TestScopeStackPopWithoutMarker(t *testing.T) {
	var s ScopeStack
	s.Push([]string{"a"})
	s.Push([]string{"b"})
	s.Pop()
	s.Pop()
	if s.Depth() != 0 {
		t.Fatalf("depth = %d after balanced pops, want 0", s.Depth())
	}
}
