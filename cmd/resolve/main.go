package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/template-linker/ast"
	"github.com/wippyai/template-linker/binder"
	"github.com/wippyai/template-linker/hbs"
	"github.com/wippyai/template-linker/linker"
	"github.com/wippyai/template-linker/registry"
)

func main() {
	var (
		templateFile  = flag.String("template", "", "Path to template file")
		rulesFile     = flag.String("rules", "", "Path to YAML rule file")
		strict        = flag.Bool("strict", false, "Report unresolvable names as errors")
		strictDynamic = flag.Bool("strict-dynamic", false, "Report opaque dynamic component values as errors")
		compatHelpers = flag.Bool("compat-helpers", false, "Use legacy deferred registration for helpers")
		list          = flag.Bool("list", false, "List emitted bindings and exit")
		verbose       = flag.Bool("v", false, "Verbose logging")
		interactive   = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *templateFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: resolve -template <file.hbs> [-rules rules.yaml] [-strict] [-list]")
		fmt.Fprintln(os.Stderr, "       resolve -template <file.hbs> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		linker.SetLogger(logger)
	}

	if *interactive {
		if err := runInteractive(*templateFile, *rulesFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*templateFile, *rulesFile, *strict, *strictDynamic, *compatHelpers, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type linkResult struct {
	doc         *ast.Template
	mod         *binder.Module
	reg         *registry.Registry
	source      string
	diagnostics []registry.Diagnostic
}

func link(templateFile, rulesFile string, strict, strictDynamic, compatHelpers bool) (*linkResult, error) {
	data, err := os.ReadFile(templateFile)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	source := string(data)

	doc, err := hbs.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", templateFile, err)
	}

	var regOpts []registry.Option
	if strict {
		regOpts = append(regOpts, registry.WithStrict())
	}
	if strictDynamic {
		regOpts = append(regOpts, registry.WithStrictDynamic())
	}
	reg := registry.New(regOpts...)
	if rulesFile != "" {
		if err := reg.LoadRules(rulesFile); err != nil {
			return nil, err
		}
	}

	mod := binder.NewModule(doc)
	var linkOpts []linker.Option
	if compatHelpers {
		linkOpts = append(linkOpts, linker.WithCompatHelperRegistration())
	}
	linker.New(reg, mod, linkOpts...).Transform(doc, templateFile, source)

	return &linkResult{
		doc:         doc,
		mod:         mod,
		reg:         reg,
		source:      source,
		diagnostics: reg.Diagnostics(),
	}, nil
}

func run(templateFile, rulesFile string, strict, strictDynamic, compatHelpers, listOnly bool) error {
	res, err := link(templateFile, rulesFile, strict, strictDynamic, compatHelpers)
	if err != nil {
		return err
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	header := func(s string) string { return s }
	bad := func(s string) string { return s }
	if styled {
		headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
		header = func(s string) string { return headerStyle.Render(s) }
		bad = func(s string) string { return errStyle.Render(s) }
	}

	if listOnly {
		fmt.Println(header(fmt.Sprintf("Bindings for %s", templateFile)))
		for _, imp := range res.mod.Imports() {
			fmt.Printf("  %s <- %s # %s\n", imp.Identifier, imp.Path, imp.Export)
		}
		fmt.Printf("Module side effects: %d\n", res.mod.SideEffectCount())
		for _, d := range res.diagnostics {
			fmt.Println(bad("  " + d.String()))
		}
		return nil
	}

	fmt.Println(header(fmt.Sprintf("// %s", templateFile)))
	if preamble := res.mod.Render(); preamble != "" {
		fmt.Print(preamble)
		fmt.Println()
	}
	fmt.Println(ast.Print(res.doc))

	if len(res.diagnostics) > 0 {
		fmt.Println()
		fmt.Println(bad(fmt.Sprintf("%d unresolved reference(s):", len(res.diagnostics))))
		for _, d := range res.diagnostics {
			fmt.Println(bad("  " + d.String()))
		}
	}
	return nil
}
