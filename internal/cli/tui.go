package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mubarakmarafa/studio-style-creator/pkg/store"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SpecListModel - Interactive spec selection
// =============================================================================

// SpecListModel is the bubbletea model for browsing stored specs.
type SpecListModel struct {
	Records  []*store.Record
	Cursor   int
	Selected *store.Record
	Height   int
	Offset   int
}

// NewSpecListModel creates a new spec list model.
func NewSpecListModel(records []*store.Record) SpecListModel {
	return SpecListModel{
		Records: records,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m SpecListModel) Init() tea.Cmd {
	return nil
}

func (m SpecListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Records)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Records[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m SpecListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Spec"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Records) {
		end = len(m.Records)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Records[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		elements := fmt.Sprintf("%d", len(r.Spec.Elements))
		updated := formatRelativeTime(r.UpdatedAt)
		rows = append(rows, []string{cursor, r.Name, string(r.Kind), elements, updated})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Kind", "Elements", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Records) {
				return lipgloss.NewStyle()
			}
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col == 4 {
				base = base.Foreground(colorDim)
			}
			if isCurrent {
				if col != 4 {
					return base.Foreground(colorCyan).Bold(true)
				}
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Records))))

	return b.String()
}

// pickSpec runs the interactive spec picker and returns the chosen record,
// or nil when the user quits without selecting.
func pickSpec(records []*store.Record) (*store.Record, error) {
	if len(records) == 0 {
		return nil, nil
	}
	p := tea.NewProgram(NewSpecListModel(records))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	model, ok := final.(SpecListModel)
	if !ok {
		return nil, nil
	}
	return model.Selected, nil
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	diff := time.Since(t)
	switch {
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
