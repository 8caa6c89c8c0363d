package review

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/crucible/internal/vault"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 0, 2)

	pickerCategoryStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(1, 0, 0, 2)

	pickerRowStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerCursorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// topicRow is one picker entry with the counts shown next to the name.
type topicRow struct {
	topic   vault.Topic
	notes   int
	missing int // index links whose file is gone
}

func newTopicRows(topics []vault.Topic) []topicRow {
	rows := make([]topicRow, 0, len(topics))
	for _, t := range topics {
		row := topicRow{topic: t, notes: len(t.Links)}
		for _, link := range t.Links {
			if _, err := os.Stat(filepath.Join(t.Dir, linkFileName(link))); err != nil {
				row.missing++
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (r topicRow) label() string {
	s := fmt.Sprintf("%-28s %3d notes", r.topic.Name, r.notes)
	if r.missing > 0 {
		s += "  " + pickerWarnStyle.Render(fmt.Sprintf("⚠ %d missing", r.missing))
	}
	return s
}

type pickerModel struct {
	rows   []topicRow
	cursor int
	chosen int // -1 = no choice yet, -2 = quit
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.chosen = -2
		return m, tea.Quit
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, max(len(m.rows)-1, 0))
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, max(len(m.rows)-1, 0))
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.rows)-1, 0)
	case "enter":
		if len(m.rows) > 0 {
			m.chosen = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

// View groups topics under their category folder, in the order Topics returns them.
func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render(fmt.Sprintf("Vault review · %d topics", len(m.rows))))
	b.WriteByte('\n')

	lastRoot := ""
	for i, r := range m.rows {
		if root := r.topic.Category.Root(); root != lastRoot {
			b.WriteString(pickerCategoryStyle.Render(root))
			b.WriteByte('\n')
			lastRoot = root
		}
		if i == m.cursor {
			b.WriteString(pickerCursorStyle.Render("> " + r.label()))
		} else {
			b.WriteString(pickerRowStyle.Render(r.label()))
		}
		b.WriteByte('\n')
	}

	b.WriteString(pickerHintStyle.Render("↑/↓ move  g/G first/last  enter open  q quit"))
	return b.String()
}

// RunTopicPicker shows an interactive topic selector.
// Returns the index of the chosen topic, or -1 if the user quit.
func RunTopicPicker(topics []vault.Topic) (int, error) {
	p := tea.NewProgram(pickerModel{rows: newTopicRows(topics), chosen: -1})
	result, err := p.Run()
	if err != nil {
		return -1, err
	}
	if chosen := result.(pickerModel).chosen; chosen >= 0 {
		return chosen, nil
	}
	return -1, nil
}
