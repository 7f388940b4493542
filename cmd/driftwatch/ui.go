// # cmd/driftwatch/ui.go
package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"driftwatch/internal/drift"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	criticalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	severity    drift.Severity
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	summary    map[string]int
	lastUpdate time.Time
}

type resultMsg struct {
	result *drift.ComparisonResult
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case resultMsg:
		m.summary = msg.result.Summary()
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, issue := range msg.result.Issues {
			desc := issue.Message
			if issue.CodeLocation != "" {
				desc = fmt.Sprintf("%s (%s:%d)", issue.Message, issue.CodeLocation, issue.CodeLine)
			} else if issue.DocLocation != "" {
				desc = fmt.Sprintf("%s (%s:%d)", issue.Message, issue.DocLocation, issue.DocLine)
			}
			items = append(items, item{
				title:    fmt.Sprintf("%s %s", severityBadge(issue.Severity), issue.ItemName),
				desc:     desc,
				severity: issue.Severity,
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func severityBadge(severity drift.Severity) string {
	switch severity {
	case drift.SeverityCritical:
		return criticalStyle.Render("CRITICAL")
	case drift.SeverityWarning:
		return warningStyle.Render("WARNING")
	default:
		return statusStyle.Render("INFO")
	}
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last scan: %v", m.lastUpdate.Format("15:04:05")))

	var summary string
	if m.summary == nil || m.summary["total"] == 0 {
		summary = successStyle.Render("✅ Docs In Sync")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s | %d info",
			criticalStyle.Render(fmt.Sprintf("%d Critical", m.summary["critical"])),
			warningStyle.Render(fmt.Sprintf("%d Warnings", m.summary["warning"])),
			m.summary["info"])
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Documentation Drift Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Drift Issues"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
