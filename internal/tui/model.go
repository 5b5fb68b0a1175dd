// Package tui is an interactive terminal client for the checker API. The
// user types a comma-separated symptom list, and the ranked matches are
// shown one at a time with their symptoms and precautions.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1shammah/symptom-checker/internal/checker"
)

// CheckerPort is the TUI-facing subset of the API client.
type CheckerPort interface {
	Check(symptoms []string, topK int) (*checker.CheckResponse, error)
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	client   CheckerPort
	input    textinput.Model
	viewport viewport.Model
	results  []checker.RankedDisease
	summary  string
	status   string
	cursor   int
	ready    bool
	topK     int
}

// New creates a new TUI model instance.
func New(client CheckerPort, summary string, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "e.g. fever, cough, headache"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		client:   client,
		input:    ti,
		viewport: vp,
		summary:  summary,
		status:   "Enter symptoms separated by commas.",
		topK:     topK,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2 // header + summary
		totalFooterLines := 1 // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			symptoms := splitSymptoms(m.input.Value())
			if len(symptoms) > 0 {
				resp, err := m.client.Check(symptoms, m.topK)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.results = nil
				} else if resp.ZeroMatch {
					m.status = "No matching diseases for those symptoms."
					m.results = resp.Results
					m.cursor = 0
				} else {
					m.status = fmt.Sprintf("%d matches in %dms", resp.Returned, resp.TookMs)
					m.results = resp.Results
					m.cursor = 0
				}
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Symptom Checker")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	title := fmt.Sprintf("Match %d/%d  %s  score=%.4f",
		m.cursor+1, len(m.results), diseaseStyle.Render(r.Disease), r.Score)

	var b strings.Builder
	b.WriteString(title)
	if len(r.Symptoms) > 0 {
		b.WriteString("\n\n" + sectionStyle.Render("Symptoms") + "\n")
		b.WriteString("  " + strings.Join(r.Symptoms, ", "))
	}
	if len(r.Precautions) > 0 {
		b.WriteString("\n\n" + sectionStyle.Render("Precautions") + "\n")
		for _, p := range r.Precautions {
			b.WriteString("  - " + p + "\n")
		}
	}
	return b.String()
}

// splitSymptoms splits comma-separated input, dropping empty entries.
func splitSymptoms(raw string) []string {
	parts := strings.Split(raw, ",")
	symptoms := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			symptoms = append(symptoms, s)
		}
	}
	return symptoms
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	diseaseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sectionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
