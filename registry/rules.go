package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	templatelinker "github.com/wippyai/template-linker"
	"github.com/wippyai/template-linker/errors"
)

// Rule file layout:
//
//	components:
//	  fancy-list:
//	    behavior: my-app/components/fancy-list.js
//	    template: my-app/templates/components/fancy-list.hbs
//	    yields:
//	      - component: true
//	      - argument: header
//	      - fields:
//	          cell: {component: true}
//	          title: {argument: titleBar}
//	    component-arguments: [header]
//	helpers:
//	  titleize: my-app/helpers/titleize.js
//	  compound: {module: my-app/helpers/util.js, export: compound}
//	modifiers:
//	  autofocus: my-app/modifiers/autofocus.js
type ruleFile struct {
	Components map[string]componentRuleYAML `yaml:"components"`
	Helpers    map[string]moduleRefYAML     `yaml:"helpers"`
	Modifiers  map[string]moduleRefYAML     `yaml:"modifiers"`
}

type componentRuleYAML struct {
	Behavior           *moduleRefYAML `yaml:"behavior"`
	Template           *moduleRefYAML `yaml:"template"`
	Yields             []yieldYAML    `yaml:"yields"`
	ComponentArguments []string       `yaml:"component-arguments"`
}

type yieldYAML struct {
	Component bool                      `yaml:"component"`
	Argument  string                    `yaml:"argument"`
	Fields    map[string]yieldFieldYAML `yaml:"fields"`
}

type yieldFieldYAML struct {
	Component bool   `yaml:"component"`
	Argument  string `yaml:"argument"`
}

// moduleRefYAML accepts either a bare module path or {module, export}.
type moduleRefYAML struct {
	Module string
	Export string
}

func (m *moduleRefYAML) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&m.Module)
	}
	var full struct {
		Module string `yaml:"module"`
		Export string `yaml:"export"`
	}
	if err := node.Decode(&full); err != nil {
		return err
	}
	m.Module = full.Module
	m.Export = full.Export
	return nil
}

func (m *moduleRefYAML) ref() *templatelinker.ModuleRef {
	if m == nil || m.Module == "" {
		return nil
	}
	export := m.Export
	if export == "" {
		export = "default"
	}
	return &templatelinker.ModuleRef{Path: m.Module, Export: export}
}

// LoadRules reads a YAML rule file into the registry.
func (r *Registry) LoadRules(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rules: %w", err)
	}
	if err := r.ParseRules(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ParseRules applies YAML rule data to the registry.
func (r *Registry) ParseRules(data []byte) error {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errors.New(errors.PhaseRules, errors.KindInvalidRule).
			Detail("malformed rule file").
			Cause(err).
			Build()
	}

	for name, raw := range file.Components {
		rule, err := raw.rule(name)
		if err != nil {
			return err
		}
		if err := r.RegisterComponent(name, rule); err != nil {
			return err
		}
	}
	for name, raw := range file.Helpers {
		ref := raw.ref()
		if ref == nil {
			return errors.InvalidRule(name, "helper needs a module path")
		}
		r.RegisterHelper(name, *ref)
	}
	for name, raw := range file.Modifiers {
		ref := raw.ref()
		if ref == nil {
			return errors.InvalidRule(name, "modifier needs a module path")
		}
		r.RegisterModifier(name, *ref)
	}
	return nil
}

func (c componentRuleYAML) rule(name string) (ComponentRule, error) {
	rule := ComponentRule{
		Behavioral:             c.Behavior.ref(),
		Structural:             c.Template.ref(),
		ArgumentsAreComponents: c.ComponentArguments,
	}
	if rule.Behavioral == nil && rule.Structural == nil {
		return rule, errors.InvalidRule(name, "component needs a template or a behavior module")
	}

	for i, y := range c.Yields {
		if y.Component && y.Argument != "" {
			return rule, errors.InvalidRule(name,
				fmt.Sprintf("yield slot %d sets both component and argument", i))
		}
		if (y.Component || y.Argument != "") && len(y.Fields) > 0 {
			return rule, errors.InvalidRule(name,
				fmt.Sprintf("yield slot %d mixes scalar and field form", i))
		}

		comp := templatelinker.ComponentYield{Component: y.Component}
		arg := templatelinker.ArgumentYield{Argument: y.Argument}
		for field, f := range y.Fields {
			if f.Component && f.Argument != "" {
				return rule, errors.InvalidRule(name,
					fmt.Sprintf("yield slot %d field %q sets both component and argument", i, field))
			}
			if f.Component {
				if comp.Fields == nil {
					comp.Fields = make(map[string]bool)
				}
				comp.Fields[field] = true
			}
			if f.Argument != "" {
				if arg.Fields == nil {
					arg.Fields = make(map[string]string)
				}
				arg.Fields[field] = f.Argument
			}
		}
		rule.YieldsComponents = append(rule.YieldsComponents, comp)
		rule.YieldsArguments = append(rule.YieldsArguments, arg)
	}
	return rule, nil
}
