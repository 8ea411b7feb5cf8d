// Package binder provides a JS-module ImportBinder implementation.
//
// One Module wraps one template document: it deduplicates imports per
// (module path, export name), derives readable camelCase identifiers from
// name hints with collision-avoidance renaming, orders module-scope side
// effects after imports, and records every bound identifier in the
// template's Locals so later passes see it as lexically bound.
package binder
