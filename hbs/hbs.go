package hbs

import (
	"github.com/wippyai/template-linker/ast"
	"github.com/wippyai/template-linker/hbs/internal/parser"
)

// Parse turns template source into a syntax tree.
func Parse(source string) (*ast.Template, error) {
	return parser.New(source).Parse()
}
