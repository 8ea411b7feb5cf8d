// Package linker implements the template resolution pass.
//
// One depth-first traversal per document visits every syntactic invocation
// site: block invocations, nested sub-invocations, output statements,
// element modifiers, and element tags. At each site the pass either
// recognizes the call as already lexically bound, asks the Resolver to
// resolve it, or classifies it as dynamic and reduces the supplied value to
// a locator shape. Resolution results feed the binding emitter, which
// mutates the tree in place: static imports where possible, module-scope
// runtime registrations where a name-keyed association is required.
//
// The ScopeStack is the pass's one nontrivial data structure. Templates can
// yield a component handle through a block parameter and later pass the
// handle onward as a named argument to another call; proving such a value
// safe links the yield table of one call site, through a block-param name,
// to a forwarded argument name at another. Component-block markers persist
// across a whole nested block body and accumulate these forwarded-argument
// facts mutably, finalizing them in a one-shot callback as the block closes.
//
// Everything the pass emits goes through the ImportBinder; everything it
// cannot resolve goes through the Resolver's error channel. The traversal
// itself always runs to completion.
package linker
