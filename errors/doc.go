// Package errors provides structured error types for the template linker.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes file, source location, and the
// offending name, plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindUnresolved).
//		File("components/page.hbs").
//		At(12, 4).
//		Name("fancy-list").
//		Detail("no module implements this component").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unresolved(file, "fancy-list", "component", 12, 4)
//	err := errors.AmbiguousDynamic(file, "component", 3, 9)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
