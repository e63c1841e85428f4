// Package tui provides an interactive plan generation flow using Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joss/opius/internal/pipeline"
	"github.com/joss/opius/internal/plan"
	"github.com/joss/opius/internal/task"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// step tracks where the user is in the flow.
type step int

const (
	stepDescribe step = iota
	stepCategory
	stepComplexity
	stepGenerating
	stepResult
)

// Both pickers offer "auto" first, meaning the analyzer decides.
var (
	categoryChoices   = append([]string{"auto"}, categoryNames()...)
	complexityChoices = []string{"auto", "simple", "moderate", "complex", "expert"}
)

func categoryNames() []string {
	cats := task.Categories()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

type generatedMsg struct {
	result *pipeline.Result
	err    error
}

// Model drives the interactive flow.
type Model struct {
	gen *pipeline.Generator

	step          step
	input         textinput.Model
	spinner       spinner.Model
	viewport      viewport.Model
	categoryIdx   int
	complexityIdx int

	description string
	result      *pipeline.Result
	markdown    string
	err         error
	width       int
	height      int
	ready       bool
	quitting    bool
}

// New builds the model around a configured generator.
func New(gen *pipeline.Generator) Model {
	ti := textinput.New()
	ti.Placeholder = "Describe the task, e.g. Build a React portfolio website"
	ti.CharLimit = 500
	ti.Width = 72
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{gen: gen, input: ti, spinner: s}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(msg.Width-4, msg.Height-6)
		if m.markdown != "" {
			m.viewport.SetContent(m.markdown)
		}
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generatedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = stepDescribe
			m.input.Focus()
			return m, nil
		}
		m.result = msg.result
		md, err := plan.Markdown(msg.result.Plan, plan.MarkdownOptions{})
		if err != nil {
			m.err = err
			m.step = stepDescribe
			return m, nil
		}
		m.markdown = md
		if m.ready {
			m.viewport.SetContent(md)
			m.viewport.GotoTop()
		}
		m.step = stepResult
		return m, nil
	}

	if m.step == stepDescribe {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	if m.step == stepResult {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "q":
		if m.step == stepResult || m.step == stepCategory || m.step == stepComplexity {
			m.quitting = true
			return m, tea.Quit
		}

	case "esc":
		switch m.step {
		case stepCategory:
			m.step = stepDescribe
			m.input.Focus()
			return m, nil
		case stepComplexity:
			m.step = stepCategory
			return m, nil
		case stepResult:
			m = m.reset()
			return m, textinput.Blink
		}

	case "up", "k":
		if m.step == stepCategory && m.categoryIdx > 0 {
			m.categoryIdx--
			return m, nil
		}
		if m.step == stepComplexity && m.complexityIdx > 0 {
			m.complexityIdx--
			return m, nil
		}

	case "down", "j":
		if m.step == stepCategory && m.categoryIdx < len(categoryChoices)-1 {
			m.categoryIdx++
			return m, nil
		}
		if m.step == stepComplexity && m.complexityIdx < len(complexityChoices)-1 {
			m.complexityIdx++
			return m, nil
		}

	case "enter":
		switch m.step {
		case stepDescribe:
			desc := strings.TrimSpace(m.input.Value())
			if desc == "" {
				return m, nil
			}
			m.description = desc
			m.err = nil
			m.input.Blur()
			m.step = stepCategory
			return m, nil

		case stepCategory:
			m.step = stepComplexity
			return m, nil

		case stepComplexity:
			m.step = stepGenerating
			return m, tea.Batch(m.spinner.Tick, m.generateCmd())

		case stepResult:
			m = m.reset()
			return m, textinput.Blink
		}
	}

	if m.step == stepDescribe {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	if m.step == stepResult {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) reset() Model {
	m.step = stepDescribe
	m.description = ""
	m.result = nil
	m.markdown = ""
	m.err = nil
	m.categoryIdx = 0
	m.complexityIdx = 0
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m Model) generateCmd() tea.Cmd {
	desc := m.description
	opts := pipeline.Options{}
	if choice := categoryChoices[m.categoryIdx]; choice != "auto" {
		cat := task.Category(choice)
		opts.Category = &cat
	}
	if choice := complexityChoices[m.complexityIdx]; choice != "auto" {
		if cx, ok := task.ParseComplexity(choice); ok {
			opts.Complexity = &cx
		}
	}
	return func() tea.Msg {
		res, err := m.gen.Generate(context.Background(), desc, opts)
		return generatedMsg{result: res, err: err}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("opius · plan generator") + "\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n\n")
	}

	switch m.step {
	case stepDescribe:
		b.WriteString(boxStyle.Render(m.input.View()) + "\n")
		b.WriteString(helpStyle.Render("enter: continue · ctrl+c: quit"))

	case stepCategory:
		b.WriteString(infoStyle.Render("category for: "+m.description) + "\n\n")
		b.WriteString(renderChoices(categoryChoices, m.categoryIdx))
		b.WriteString(helpStyle.Render("enter: next · esc: back · q: quit"))

	case stepComplexity:
		b.WriteString(infoStyle.Render("complexity for: "+m.description) + "\n\n")
		b.WriteString(renderChoices(complexityChoices, m.complexityIdx))
		b.WriteString(helpStyle.Render("enter: generate · esc: back · q: quit"))

	case stepGenerating:
		fmt.Fprintf(&b, "  %s generating plan...\n", m.spinner.View())

	case stepResult:
		b.WriteString(m.statusLine() + "\n")
		if m.ready {
			b.WriteString(m.viewport.View() + "\n")
		} else {
			b.WriteString(m.markdown + "\n")
		}
		b.WriteString(helpStyle.Render("enter/esc: new plan · q: quit"))
	}

	return b.String() + "\n"
}

func renderChoices(choices []string, selected int) string {
	var b strings.Builder
	for i, choice := range choices {
		if i == selected {
			b.WriteString("> " + selectedStyle.Render(choice) + "\n")
		} else {
			b.WriteString("  " + choice + "\n")
		}
	}
	return b.String()
}

func (m Model) statusLine() string {
	if m.result == nil {
		return ""
	}
	meta := m.result.Plan.Metadata
	status := fmt.Sprintf("template %s · %s/%s · tier %s · attempt %d",
		meta.TemplateID, meta.Category, meta.Complexity, meta.Tier, meta.Attempts)
	if !m.result.Report.Passed {
		return errorStyle.Render("validation failed · " + status)
	}
	return infoStyle.Render(status)
}

// Run starts the interactive program.
func Run(gen *pipeline.Generator) error {
	p := tea.NewProgram(New(gen), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
