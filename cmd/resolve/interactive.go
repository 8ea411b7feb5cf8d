package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/template-linker/ast"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	bindingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	moduleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateRulesInput modelState = iota
	stateBrowse
	stateOutput
)

type entry struct {
	label  string
	detail string
	isErr  bool
}

type interactiveModel struct {
	err          error
	templateFile string
	rulesFile    string
	rulesInput   textinput.Model
	entries      []entry
	output       string
	selected     int
	state        modelState
}

type linkedMsg struct {
	err     error
	entries []entry
	output  string
}

func newInteractiveModel(templateFile, rulesFile string) *interactiveModel {
	input := textinput.New()
	input.Placeholder = "rules.yaml (empty for none)"
	input.SetValue(rulesFile)
	input.Focus()
	return &interactiveModel{
		templateFile: templateFile,
		rulesFile:    rulesFile,
		rulesInput:   input,
		state:        stateRulesInput,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) relink() tea.Msg {
	res, err := link(m.templateFile, m.rulesFile, false, false, false)
	if err != nil {
		return linkedMsg{err: err}
	}

	var entries []entry
	for _, imp := range res.mod.Imports() {
		entries = append(entries, entry{
			label:  imp.Identifier,
			detail: fmt.Sprintf("import %s from %s (export %s)", imp.Identifier, imp.Path, imp.Export),
		})
	}
	if n := res.mod.SideEffectCount(); n > 0 {
		entries = append(entries, entry{
			label:  fmt.Sprintf("%d module side effect(s)", n),
			detail: strings.TrimRight(res.mod.Render(), "\n"),
		})
	}
	for _, d := range res.diagnostics {
		entries = append(entries, entry{label: d.Message, detail: d.String(), isErr: true})
	}
	if len(entries) == 0 {
		entries = append(entries, entry{label: "no references to rewire", detail: "the document resolved to itself"})
	}

	var out strings.Builder
	out.WriteString(res.mod.Render())
	out.WriteByte('\n')
	out.WriteString(ast.Print(res.doc))
	return linkedMsg{entries: entries, output: out.String()}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case linkedMsg:
		m.err = msg.err
		m.entries = msg.entries
		m.output = msg.output
		m.selected = 0
		if m.err == nil {
			m.state = stateBrowse
		}
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateRulesInput:
			switch msg.String() {
			case "ctrl+c", "esc":
				return m, tea.Quit
			case "enter":
				m.rulesFile = strings.TrimSpace(m.rulesInput.Value())
				return m, m.relink
			}
			var cmd tea.Cmd
			m.rulesInput, cmd = m.rulesInput.Update(msg)
			return m, cmd

		case stateBrowse:
			switch msg.String() {
			case "ctrl+c", "q", "esc":
				return m, tea.Quit
			case "up", "k":
				if m.selected > 0 {
					m.selected--
				}
			case "down", "j":
				if m.selected < len(m.entries)-1 {
					m.selected++
				}
			case "o":
				m.state = stateOutput
			case "r":
				m.state = stateRulesInput
				m.rulesInput.Focus()
				return m, textinput.Blink
			}
			return m, nil

		case stateOutput:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "o":
				m.state = stateBrowse
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("template-linker: " + m.templateFile))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n\n")
	}

	switch m.state {
	case stateRulesInput:
		b.WriteString("Rule file:\n")
		b.WriteString(m.rulesInput.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter: link  esc: quit"))

	case stateBrowse:
		for i, e := range m.entries {
			line := e.label
			style := bindingStyle
			if e.isErr {
				style = errorStyle
			}
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + style.Render(line))
			}
			b.WriteByte('\n')
		}
		if m.selected < len(m.entries) {
			b.WriteByte('\n')
			b.WriteString(moduleStyle.Render(m.entries[m.selected].detail))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
		b.WriteString(helpStyle.Render("up/down: select  o: output  r: rules  q: quit"))

	case stateOutput:
		b.WriteString(m.output)
		b.WriteByte('\n')
		b.WriteString(helpStyle.Render("esc: back  q: quit"))
	}

	b.WriteByte('\n')
	return b.String()
}

func runInteractive(templateFile, rulesFile string) error {
	p := tea.NewProgram(newInteractiveModel(templateFile, rulesFile), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
