package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseResolve,
				Kind:   KindUnresolved,
				File:   "app/templates/index.hbs",
				Name:   "fancy-button",
				Detail: "no module implements this component",
				Line:   4,
				Col:    12,
			},
			contains: []string{"[resolve]", "unresolved_reference", "index.hbs", "line 4, col 12", `"fancy-button"`, "no module implements"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseParse,
				Kind:  KindSyntax,
			},
			contains: []string{"[parse]", "syntax"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseRules,
				Kind:   KindInvalidRule,
				Detail: "malformed rule file",
				Cause:  errors.New("yaml: line 2: mapping values"),
			},
			contains: []string{"[rules]", "invalid_rule", "malformed rule file", "caused by", "yaml: line 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseRules,
		Kind:  KindInvalidRule,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseResolve,
		Kind:  KindUnresolved,
		Name:  "foo",
	}

	if !err.Is(&Error{Phase: PhaseResolve, Kind: KindUnresolved}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseBind, Kind: KindUnresolved}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseResolve, Kind: KindAmbiguousDynamic}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseResolve, Kind: KindUnresolved}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseResolve, KindUnresolved).
		File("app/templates/post.hbs").
		At(7, 3).
		Name("share-button").
		Cause(cause).
		Detail("no %s rule matches", "component").
		Build()

	if err.Phase != PhaseResolve {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseResolve)
	}
	if err.Kind != KindUnresolved {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnresolved)
	}
	if err.File != "app/templates/post.hbs" {
		t.Errorf("File = %v", err.File)
	}
	if err.Line != 7 || err.Col != 3 {
		t.Errorf("position = %d:%d, want 7:3", err.Line, err.Col)
	}
	if err.Name != "share-button" {
		t.Errorf("Name = %v, want 'share-button'", err.Name)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "no component rule matches" {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("Unresolved", func(t *testing.T) {
		err := Unresolved("t.hbs", "fancy-button", "component", 2, 5)
		if err.Kind != KindUnresolved || err.Phase != PhaseResolve {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
		if err.Name != "fancy-button" || err.Line != 2 || err.Col != 5 {
			t.Errorf("Name=%v at %d:%d", err.Name, err.Line, err.Col)
		}
		if !strings.Contains(err.Detail, "component") {
			t.Errorf("Detail = %v, should name the site kind", err.Detail)
		}
	})

	t.Run("AmbiguousDynamic", func(t *testing.T) {
		err := AmbiguousDynamic("t.hbs", "component", 3, 1)
		if err.Kind != KindAmbiguousDynamic {
			t.Errorf("Kind = %v, want %v", err.Kind, KindAmbiguousDynamic)
		}
		if !strings.Contains(err.Detail, "statically") {
			t.Errorf("Detail = %v", err.Detail)
		}
	})

	t.Run("InvalidRule", func(t *testing.T) {
		err := InvalidRule("ghost", "component needs a template or a behavior module")
		if err.Kind != KindInvalidRule || err.Phase != PhaseRules {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
		if err.Name != "ghost" {
			t.Errorf("Name = %v, want 'ghost'", err.Name)
		}
	})

	t.Run("Internal", func(t *testing.T) {
		err := Internal("unhandled resolution kind %q", "mystery")
		if err.Kind != KindInternal {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInternal)
		}
		if !strings.Contains(err.Detail, "mystery") {
			t.Errorf("Detail = %v", err.Detail)
		}
	})
}
