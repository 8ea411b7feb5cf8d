// Package hbs provides template text parsing.
//
// This package parses handlebars-style component templates into the ast
// package's syntax tree, enabling source-level test fixtures and the
// command-line tool.
//
// Basic usage:
//
//	doc, err := hbs.Parse(`{{#fancy-list @items as |item|}}
//		<item.cell />
//	{{/fancy-list}}`)
//
// Supported syntax:
//   - Text, comments ({{! }} and {{!-- --}}), and trusted {{{ }}} output
//   - Mustache statements with positional params and hash arguments
//   - Block statements with "as |a b|" block params and a plain {{else}}
//   - Sub-expressions, string/number/boolean/null/undefined literals
//   - @argument and this-rooted paths, dotted paths, slashed names
//   - Elements with attributes, @-argument attributes, "...attributes",
//     element modifiers, "as |a b|" block params, and void/self-closing tags
//   - Quoted attribute values interleaving text and mustaches
//
// Not supported: else-if chains, partials, raw blocks, and whitespace
// control. The grammar covers what the resolution pass operates on, not the
// full template language.
package hbs
