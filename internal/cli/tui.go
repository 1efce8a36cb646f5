package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/placerlab/placer/pkg/solver"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SolverPickerModel - Interactive solver selection
// =============================================================================

// SolverEntry is one row of the solver picker.
type SolverEntry struct {
	Name   string
	Params []solver.Field
	Source string // "builtin" or the executable path
}

// solverEntries lists the solvers of reg in registration order.
func solverEntries(reg *solver.Registry) []SolverEntry {
	names := reg.Names()
	entries := make([]SolverEntry, 0, len(names))
	for _, name := range names {
		s, err := reg.Get(name)
		if err != nil {
			continue
		}
		e := SolverEntry{Name: name, Params: s.Params(), Source: "builtin"}
		if ex, ok := s.(*solver.Exec); ok {
			e.Source = ex.Path()
		}
		entries = append(entries, e)
	}
	return entries
}

// SolverPickerModel is the bubbletea model for choosing a solver.
type SolverPickerModel struct {
	Solvers  []SolverEntry
	Cursor   int
	Selected *SolverEntry
	Height   int
	Offset   int
}

// NewSolverPickerModel creates a picker over entries, with the cursor on
// preselect when it is listed.
func NewSolverPickerModel(entries []SolverEntry, preselect string) SolverPickerModel {
	m := SolverPickerModel{Solvers: entries, Height: 10}
	for i, e := range entries {
		if e.Name == preselect {
			m.Cursor = i
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	}
	return m
}

func (m SolverPickerModel) Init() tea.Cmd {
	return nil
}

func (m SolverPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Solvers)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Solvers) == 0 {
				return m, tea.Quit
			}
			e := m.Solvers[m.Cursor]
			m.Selected = &e
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 3)
	}
	return m, nil
}

func (m SolverPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Solver"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Solvers))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Solvers[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, e.Name, paramSummary(e.Params), e.Source})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Solver", "Params", "Source").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			if m.Offset+row == m.Cursor {
				if col == 3 {
					return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
				}
				return listSelectedStyle
			}
			if col == 3 {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Solvers))))

	return b.String()
}

// paramSummary renders e.g. "rows, cols, seed?" where ? marks optional
// parameters.
func paramSummary(fields []solver.Field) string {
	if len(fields) == 0 {
		return "—"
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Key
		if f.Optional {
			names[i] += "?"
		}
	}
	return strings.Join(names, ", ")
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
