package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/structlayout/record"
	"github.com/wippyai/structlayout/schema"
	"github.com/wippyai/structlayout/witabi"
)

type interactiveModel struct {
	err      error
	input    textinput.Model
	result   string
	paths    []string
	recs     []*record.Record
	selected int
	state    modelState
	loaded   bool
}

type modelState int

const (
	stateSelectRecord modelState = iota
	stateShowLayout
	stateShowWIT
)

func newInteractiveModel(paths []string) *interactiveModel {
	return &interactiveModel{
		paths: paths,
		state: stateSelectRecord,
	}
}

type loadedMsg struct {
	err  error
	recs []*record.Record
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadSchemas
}

func (m *interactiveModel) loadSchemas() tea.Msg {
	schemas, err := schema.LoadFiles(context.Background(), m.paths)
	if err != nil {
		return loadedMsg{err: err}
	}
	recs, err := selectRecords(schemas, "")
	return loadedMsg{recs: recs, err: err}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateShowLayout {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectRecord && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectRecord && m.selected < len(m.recs)-1 {
				m.selected++
			}

		case "w":
			if m.state == stateSelectRecord && len(m.recs) > 0 {
				m.state = stateShowWIT
				return m, nil
			}

		case "enter":
			switch m.state {
			case stateSelectRecord:
				if len(m.recs) > 0 {
					m.prepareInput()
					m.state = stateShowLayout
				}
				return m, nil

			case stateShowLayout:
				m.query()
				m.input.SetValue("")
				return m, nil
			}

		case "esc":
			if m.state != stateSelectRecord {
				m.state = stateSelectRecord
				m.result = ""
				m.err = nil
			}
			return m, nil
		}

	case loadedMsg:
		m.loaded = true
		m.err = msg.err
		m.recs = msg.recs
		return m, nil
	}

	if m.state == stateShowLayout {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = "field name"
	ti.Prompt = "offsetof: "
	ti.Width = 40
	ti.Focus()
	m.input = ti
	m.result = ""
	m.err = nil
}

// query answers an offset query for the field typed into the input.
func (m *interactiveModel) query() {
	name := strings.TrimSpace(m.input.Value())
	if name == "" {
		return
	}
	bits, err := record.Offsetof(m.recs[m.selected], name)
	if err != nil {
		m.err = err
		m.result = ""
		return
	}
	m.err = nil
	m.result = fmt.Sprintf("%s: %s", name, describeOffset(bits))
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state == stateSelectRecord {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.loaded {
		return "Loading schema..."
	}
	if len(m.recs) == 0 {
		return "No records declared.\n\nPress q to quit."
	}

	p := newPrinter(true)
	var b strings.Builder

	b.WriteString(titleStyle.Render("Record Layouts"))
	b.WriteString(" ")
	b.WriteString(strings.Join(m.paths, ", "))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectRecord:
		b.WriteString("Select a record:\n\n")
		for i, rec := range m.recs {
			line := fmt.Sprintf("%s (size %d, align %d)", rec.Name(), rec.Size(), rec.Align())
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter layout • w wit • q quit"))

	case stateShowLayout:
		b.WriteString(p.layout(m.recs[m.selected]))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else if m.result != "" {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter query • esc back"))

	case stateShowWIT:
		rec := m.recs[m.selected]
		proj := witabi.NewProjector()
		if _, err := proj.Project(rec); err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		} else {
			b.WriteString(typeStyle.Render(witabi.Render(proj.Defs()...)))
			if err := witabi.Check(rec); err != nil {
				b.WriteString(errorStyle.Render(err.Error()))
			}
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("esc back • q quit"))
	}

	return b.String()
}

func runInteractive(paths []string) error {
	p := tea.NewProgram(newInteractiveModel(paths), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
