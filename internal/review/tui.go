// Package review is a terminal browser for the vault's topic folders: pick a
// topic, walk the notes its index links to, and read them.
package review

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/crucible/internal/vault"
)

type viewState int

const (
	viewList viewState = iota
	viewReader
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	noteStyle = lipgloss.NewStyle()

	selectedNoteStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	missingNoteStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// note is one index entry resolved to a file inside the topic folder.
type note struct {
	Name    string
	Path    string
	Content string
	Missing bool
}

// loadNotes resolves each "- [[<topic>/<file>]]" link to <dir>/<file> and
// reads it. Links whose file is gone are kept and marked missing.
func loadNotes(t vault.Topic) []note {
	notes := make([]note, 0, len(t.Links))
	for _, link := range t.Links {
		name := linkFileName(link)
		n := note{Name: name, Path: filepath.Join(t.Dir, name)}
		data, err := os.ReadFile(n.Path)
		if err != nil {
			n.Missing = true
		} else {
			n.Content = string(data)
		}
		notes = append(notes, n)
	}
	return notes
}

// linkFileName extracts <file> from an index line "- [[<topic>/<file>]]".
func linkFileName(link string) string {
	target := strings.TrimSuffix(strings.TrimPrefix(link, "- [["), "]]")
	if i := strings.LastIndex(target, "/"); i >= 0 {
		return target[i+1:]
	}
	return target
}

type reviewModel struct {
	topic  vault.Topic
	notes  []note
	cursor int

	listViewport    viewport.Model
	previewViewport viewport.Model
	readerViewport  viewport.Model
	width           int
	height          int
	ready           bool
	view            viewState
	status          string

	wantQuit bool
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		if m.view == viewReader {
			return m.updateReader(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m reviewModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, max(len(m.notes)-1, 0))
		m.recalcContent()
		return m, nil
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, max(len(m.notes)-1, 0))
		m.recalcContent()
		return m, nil
	case "enter":
		if len(m.notes) == 0 || m.notes[m.cursor].Missing {
			return m, nil
		}
		m.view = viewReader
		m.readerViewport = viewport.New(max(m.width-4, 20), max(m.height-4, 5))
		m.readerViewport.SetContent(wordWrap(m.notes[m.cursor].Content, max(m.width-6, 20)))
		return m, nil
	case "o":
		m.status = m.openSelected()
		return m, nil
	}

	var cmd tea.Cmd
	m.previewViewport, cmd = m.previewViewport.Update(msg)
	return m, cmd
}

func (m reviewModel) updateReader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		m.status = m.openSelected()
		return m, nil
	}

	var cmd tea.Cmd
	m.readerViewport, cmd = m.readerViewport.Update(msg)
	return m, cmd
}

func (m reviewModel) openSelected() string {
	if len(m.notes) == 0 || m.notes[m.cursor].Missing {
		return ""
	}
	if err := openPath(m.notes[m.cursor].Path); err != nil {
		return fmt.Sprintf("open failed: %v", err)
	}
	return "opened " + m.notes[m.cursor].Name
}

func (m *reviewModel) recalcLayout() {
	// List pane takes a third of the width; 2 border chars per pane + 1 gap.
	listWidth := max((m.width-5)/3, 20)
	previewWidth := max(m.width-5-listWidth, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.listViewport = viewport.New(listWidth, paneHeight)
		m.previewViewport = viewport.New(previewWidth, paneHeight)
		m.ready = true
	} else {
		m.listViewport.Width = listWidth
		m.listViewport.Height = paneHeight
		m.previewViewport.Width = previewWidth
		m.previewViewport.Height = paneHeight
	}
	if m.view == viewReader {
		m.readerViewport.Width = max(m.width-4, 20)
		m.readerViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *reviewModel) recalcContent() {
	m.listViewport.SetContent(renderNotes(m.notes, m.cursor))
	m.previewViewport.SetContent(m.renderPreview())
	m.previewViewport.SetYOffset(0)

	if m.cursor >= m.listViewport.YOffset+m.listViewport.Height {
		m.listViewport.SetYOffset(m.cursor - m.listViewport.Height + 1)
	} else if m.cursor < m.listViewport.YOffset {
		m.listViewport.SetYOffset(m.cursor)
	}
}

func (m reviewModel) renderPreview() string {
	if len(m.notes) == 0 {
		return "  (index lists no notes)"
	}
	n := m.notes[m.cursor]
	if n.Missing {
		return errorStyle.Render("⚠ " + n.Name + " is listed in the index but not on disk")
	}
	return highlightSummary(wordWrap(n.Content, max(m.previewViewport.Width-2, 20)))
}

func (m reviewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewReader {
		return m.viewReader()
	}
	return m.viewList()
}

func (m reviewModel) viewList() string {
	listPane := activeBorderStyle.Width(m.listViewport.Width).Render(m.listViewport.View())
	previewPane := inactiveBorderStyle.Width(m.previewViewport.Width).Render(m.previewViewport.View())

	header := headerStyle.Render(fmt.Sprintf("%s / %s (%d)", m.topic.Category.Root(), m.topic.Name, len(m.notes)))
	panes := lipgloss.JoinHorizontal(lipgloss.Top, listPane, " ", previewPane)

	statusText := " ↑/↓ select  Enter read  o open  pgup/pgdn scroll preview  Esc back  q quit"
	if m.status != "" {
		statusText = " " + m.status + "  ·" + statusText
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + panes + "\n" + statusBar
}

func (m reviewModel) viewReader() string {
	title := headerStyle.Render(m.notes[m.cursor].Name)
	content := activeBorderStyle.Width(m.width - 2).Render(m.readerViewport.View())
	statusBar := statusBarStyle.Width(m.width).Render(" o open  esc/backspace back  ↑/↓ scroll  q quit")
	return title + "\n" + content + "\n" + statusBar
}

func renderNotes(notes []note, cursor int) string {
	if len(notes) == 0 {
		return "  (no notes)"
	}
	var b strings.Builder
	for i, n := range notes {
		st := noteStyle
		prefix := "  "
		switch {
		case i == cursor:
			st = selectedNoteStyle
			prefix = "> "
		case n.Missing:
			st = missingNoteStyle
		}
		b.WriteString(prefix)
		b.WriteString(st.Render(n.Name))
		if i < len(notes)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// highlightSummary colors the "## AI Summary" block the classifier prepends.
func highlightSummary(text string) string {
	const header = "## AI Summary\n\n"
	if !strings.HasPrefix(text, header) {
		return text
	}
	summary, body, found := strings.Cut(text[len(header):], "\n\n")
	if !found {
		return summaryStyle.Render(text)
	}
	return summaryStyle.Render(header+summary) + "\n\n" + body
}

func wordWrap(text string, width int) string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) <= width {
				line += " " + w
			} else {
				out = append(out, line)
				line = w
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openPath opens a file with the system's default application, fire-and-forget.
func openPath(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
	return cmd.Start()
}

// RunReviewTUI browses one topic in the alt screen.
// Returns wantQuit=true if the user pressed q/ctrl+c, false if they pressed
// esc to return to the picker.
func RunReviewTUI(topic vault.Topic) (bool, error) {
	m := reviewModel{
		topic: topic,
		notes: loadNotes(topic),
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(reviewModel)
	return final.wantQuit, nil
}
