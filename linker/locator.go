package linker

import (
	"strings"

	templatelinker "github.com/wippyai/template-linker"
	"github.com/wippyai/template-linker/ast"
)

// Names of the constructs that defer resolution of their single argument to
// a value computed or named at that point.
const (
	dynamicComponent = "component"
	dynamicHelper    = "helper"
	dynamicModifier  = "modifier"

	// ensureSafeComponent is the trust-escape construct: a value wrapped
	// in it is declared safe by the author and resolves itself when the
	// traversal reaches it.
	ensureSafeComponent = "ensure-safe-component"
)

// classification is the outcome of inspecting a dynamically-supplied value.
type classification int

const (
	// classified means the locator field is meaningful and the value needs
	// resolution.
	classified classification = iota
	// alreadySafe means the value is (or wraps) a construct that resolves
	// itself independently; no resolution is requested here.
	alreadySafe
	// unwrap means the value is a bare output statement around a single
	// path; the caller reclassifies the inner path.
	unwrap
)

// classifyComponentValue reduces the AST node passed as the value of a
// dynamic-component construct to a locator shape.
//
// Rules, in order: a string literal is a literal locator; a bare lexical
// reference is a path locator; a bare output statement wrapping a single
// path unwraps to that path; an output statement or sub-invocation whose own
// target is the dynamic-component construct or the trust-escape construct is
// already safe; anything else is opaque.
func classifyComponentValue(value ast.Node) (templatelinker.Locator, classification, ast.Node) {
	switch v := value.(type) {
	case *ast.StringLiteral:
		return templatelinker.Locator{Kind: templatelinker.LocatorLiteral, Literal: v.Value}, classified, nil
	case *ast.TextNode:
		// Attribute position: a plain quoted value is a literal name.
		return templatelinker.Locator{Kind: templatelinker.LocatorLiteral, Literal: v.Value}, classified, nil
	case *ast.PathExpression:
		return templatelinker.Locator{Kind: templatelinker.LocatorPath, Path: v.String()}, classified, nil
	case *ast.MustacheStatement:
		if isSelfResolvingTarget(v.Path) {
			return templatelinker.Locator{}, alreadySafe, nil
		}
		if len(v.Params) == 0 && v.Hash.IsEmpty() {
			if inner, ok := v.Path.(*ast.PathExpression); ok {
				return templatelinker.Locator{}, unwrap, inner
			}
		}
		return templatelinker.Locator{Kind: templatelinker.LocatorOther}, classified, nil
	case *ast.SubExpression:
		if isSelfResolvingTarget(v.Path) {
			return templatelinker.Locator{}, alreadySafe, nil
		}
		return templatelinker.Locator{Kind: templatelinker.LocatorOther}, classified, nil
	default:
		return templatelinker.Locator{Kind: templatelinker.LocatorOther}, classified, nil
	}
}

func isSelfResolvingTarget(path ast.Expression) bool {
	name, ok := bareName(path)
	return ok && (name == dynamicComponent || name == ensureSafeComponent)
}

// bareName extracts a single-segment, non-this, non-argument path name.
func bareName(e ast.Expression) (string, bool) {
	p, ok := e.(*ast.PathExpression)
	if !ok || p.This || p.Data || len(p.Tail) > 0 {
		return "", false
	}
	return p.Head, true
}

// pathSegments splits a dotted locator path back into its segments.
func pathSegments(path string) []string {
	return strings.Split(path, ".")
}
