package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/astviz/pkg/ast"
	"github.com/matzehuels/astviz/pkg/statemachine"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// historyLimit bounds the transitions shown under the tables.
const historyLimit = 8

// =============================================================================
// SimulatorModel - Interactive state-machine stepping
// =============================================================================

// SimulatorModel is the bubbletea model for stepping through a state machine.
// The cursor moves over the machine's events; enter fires the selected one.
type SimulatorModel struct {
	Machine *statemachine.Machine
	Cursor  int
	History []string
	Status  string

	initial *ast.Node
}

// NewSimulatorModel creates a simulator positioned at the machine's current
// state, which reset returns to.
func NewSimulatorModel(m *statemachine.Machine) SimulatorModel {
	return SimulatorModel{Machine: m, initial: m.CurrentState()}
}

func (m SimulatorModel) Init() tea.Cmd {
	return nil
}

func (m SimulatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	events := m.Machine.Events()

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(events)-1 {
			m.Cursor++
		}
	case "r":
		m.Machine.SetState(m.initial)
		m.History = nil
		m.Status = "reset to " + statemachine.Name(m.initial)
	case "enter", " ":
		if len(events) == 0 {
			return m, nil
		}
		m = m.fire(events[m.Cursor])
	}
	return m, nil
}

// fire follows the transition on event and records it.
func (m SimulatorModel) fire(event *ast.Node) SimulatorModel {
	from := statemachine.Name(m.Machine.CurrentState())
	ev := statemachine.Name(event)
	if !m.Machine.ChangeState(event) {
		m.Status = fmt.Sprintf("%s has no transition on %s", from, ev)
		return m
	}
	to := statemachine.Name(m.Machine.CurrentState())
	m.History = append(m.History, fmt.Sprintf("%s %s %s", from, StyleDim.Render("--"+ev+"-->"), to))
	if len(m.History) > historyLimit {
		m.History = m.History[len(m.History)-historyLimit:]
	}
	m.Status = ""
	return m
}

func (m SimulatorModel) View() string {
	var b strings.Builder

	title := "statemachine"
	if name, ok := m.Machine.Root().String("name"); ok {
		title += " " + name
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select event  ⏎ fire  r reset  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.statesTable())
	b.WriteString("\n\n")

	for i, ev := range m.Machine.Events() {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := cursor + statemachine.Name(ev)
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.Machine.IsEventEnabled(ev):
			b.WriteString(listNormalStyle.Render(line))
		default:
			b.WriteString(listDimStyle.Render(line))
		}
		if next := m.Machine.NextState(ev); next != nil {
			b.WriteString(listDimStyle.Render(" " + iconArrow + " " + statemachine.Name(next)))
		}
		b.WriteString("\n")
	}

	if len(m.History) > 0 {
		b.WriteString("\n")
		for _, h := range m.History {
			b.WriteString("  " + h + "\n")
		}
	}
	if m.Status != "" {
		b.WriteString("\n" + StyleWarning.Render(m.Status) + "\n")
	}
	return b.String()
}

// statesTable renders every state with its transitions, marking the
// current one.
func (m SimulatorModel) statesTable() string {
	states := m.Machine.States()
	rows := make([][]string, 0, len(states))
	for _, s := range states {
		marker := ""
		if m.Machine.IsCurrentState(s) {
			marker = "●"
		}
		rows = append(rows, []string{marker, statemachine.Name(s), transitions(s)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "State", "Transitions").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < len(states) && m.Machine.IsCurrentState(states[row]) {
				return base.Foreground(colorGreen).Bold(true)
			}
			if col == 2 {
				return base.Foreground(colorDim)
			}
			return base
		})
	return t.Render()
}

// transitions lists a state's transitions as "event → target".
func transitions(state *ast.Node) string {
	var parts []string
	for _, t := range state.Children("transitions") {
		ev, target := t.Reference("event"), t.Reference("state")
		if ev == nil || target == nil {
			continue
		}
		parts = append(parts, refName(ev)+" "+iconArrow+" "+refName(target))
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}

// refName names a reference's target, falling back to its text.
func refName(r *ast.Reference) string {
	if r.Ref != nil {
		if n := statemachine.Name(r.Ref); n != "" {
			return n
		}
	}
	return r.Text()
}
