// Package tui provides an interactive dashboard over a computed analytics
// result. The result is fully materialized before the program starts; the
// dashboard is a read-only viewer.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hpowernl/weblytics/pkg/models"
)

// View represents the dashboard tabs.
type View int

const (
	ViewOverview View = iota
	ViewPages
	ViewReferrers
	ViewClients
	ViewTimeline

	viewCount
)

// Model is the TUI application state.
type Model struct {
	result *models.AnalyticsResult

	currentView View
	width       int
	height      int

	keys keyMap
}

type keyMap struct {
	Left  key.Binding
	Right key.Binding
	Tab   key.Binding
	Quit  key.Binding
	View1 key.Binding
	View2 key.Binding
	View3 key.Binding
	View4 key.Binding
	View5 key.Binding
}

var keys = keyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "previous view"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next view"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	View1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "overview")),
	View2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "pages")),
	View3: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "referrers")),
	View4: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "clients")),
	View5: key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "timeline")),
}

var (
	headerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("6")).
			Foreground(lipgloss.Color("0")).
			Bold(true).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(1, 2)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)

	tabStyle = lipgloss.NewStyle().
			Border(lipgloss.Border{Top: " ", Bottom: " ", Left: " ", Right: "│"}, false, true, false, false).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Border(lipgloss.Border{Top: " ", Bottom: "─", Left: " ", Right: "│"}, false, true, true, false).
			BorderForeground(lipgloss.Color("6")).
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 2)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(0, 1)
)

// NewModel creates a dashboard over a computed result.
func NewModel(result *models.AnalyticsResult) Model {
	return Model{
		result:      result,
		currentView: ViewOverview,
		keys:        keys,
	}
}

// Run starts the dashboard and blocks until the user quits.
func Run(result *models.AnalyticsResult) error {
	p := tea.NewProgram(NewModel(result), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
			m.currentView = (m.currentView + 1) % viewCount
		case key.Matches(msg, m.keys.Left):
			m.currentView = (m.currentView - 1 + viewCount) % viewCount
		case key.Matches(msg, m.keys.View1):
			m.currentView = ViewOverview
		case key.Matches(msg, m.keys.View2):
			m.currentView = ViewPages
		case key.Matches(msg, m.keys.View3):
			m.currentView = ViewReferrers
		case key.Matches(msg, m.keys.View4):
			m.currentView = ViewClients
		case key.Matches(msg, m.keys.View5):
			m.currentView = ViewTimeline
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m Model) View() string {
	header := m.renderHeader()
	tabs := m.renderTabs()
	footer := m.renderFooter()

	var content string
	switch m.currentView {
	case ViewPages:
		content = m.renderPages()
	case ViewReferrers:
		content = m.renderReferrers()
	case ViewClients:
		content = m.renderClients()
	case ViewTimeline:
		content = m.renderTimeline()
	default:
		content = m.renderOverview()
	}

	availableHeight := m.height - lipgloss.Height(header) - lipgloss.Height(tabs) - lipgloss.Height(footer) - 2
	contentStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(availableHeight)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		tabs,
		contentStyle.Render(content),
		footer,
	)
}

func (m Model) renderHeader() string {
	title := headerStyle.Render(" WEBLYTICS ")
	line := lipgloss.NewStyle().
		Width(m.width).
		Foreground(lipgloss.Color("8")).
		Render(strings.Repeat("─", max(m.width, 1)))

	return lipgloss.JoinVertical(lipgloss.Left, title, line)
}

func (m Model) renderTabs() string {
	views := []struct {
		name string
		view View
	}{
		{"1 Overview", ViewOverview},
		{"2 Pages", ViewPages},
		{"3 Referrers", ViewReferrers},
		{"4 Clients", ViewClients},
		{"5 Timeline", ViewTimeline},
	}

	tabs := make([]string, 0, len(views))
	for _, v := range views {
		if m.currentView == v.view {
			tabs = append(tabs, activeTabStyle.Render(v.name))
		} else {
			tabs = append(tabs, tabStyle.Render(v.name))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderFooter() string {
	help := helpStyle.Render("q: quit │ ←/→ or tab: switch view │ 1-5: jump to view")
	line := lipgloss.NewStyle().
		Width(m.width).
		Foreground(lipgloss.Color("8")).
		Render(strings.Repeat("─", max(m.width, 1)))

	return lipgloss.JoinVertical(lipgloss.Left, line, help)
}

func (m Model) renderPanel(title, content string) string {
	return panelStyle.Render(panelTitleStyle.Render(title) + "\n\n" + content)
}

func (m Model) renderOverview() string {
	r := m.result

	traffic := fmt.Sprintf(
		"%s %d\n%s %d (%.2f%%)\n%s %d\n%s %d",
		keyStyle.Render("Total Requests:"), r.Overview.TotalRequests,
		keyStyle.Render("Bots Filtered:"), r.Overview.TotalBots, r.Overview.BotPercentage,
		keyStyle.Render("Unique Visitors:"), r.Visitors.Recommended,
		keyStyle.Render("Impressions:"), r.Impressions.Total,
	)

	sessionsPanel := fmt.Sprintf(
		"%s %d\n%s %.2f ms\n%s %.2f\n%s %.2f%%",
		keyStyle.Render("Sessions:"), r.Sessions.TotalSessions,
		keyStyle.Render("Avg Duration:"), r.Sessions.AvgDurationMs,
		keyStyle.Render("Avg Pages:"), r.Sessions.AvgPagesPerSession,
		keyStyle.Render("Bounce Rate:"), r.Sessions.BounceRate,
	)

	panels := []string{
		m.renderPanel("Traffic", traffic),
		m.renderPanel("Sessions", sessionsPanel),
	}

	if r.Overview.DateRange != nil {
		span := fmt.Sprintf(
			"%s %s\n%s %s",
			keyStyle.Render("From:"), r.Overview.DateRange.Start.Format("2006-01-02 15:04:05"),
			keyStyle.Render("To:"), r.Overview.DateRange.End.Format("2006-01-02 15:04:05"),
		)
		panels = append(panels, m.renderPanel("Date Range", span))
	}

	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (m Model) renderPages() string {
	if len(m.result.Pages) == 0 {
		return m.renderPanel("Top Pages", "No data")
	}

	var b strings.Builder
	for _, page := range m.result.Pages {
		fmt.Fprintf(&b, "%s %d views, %d visitors\n",
			keyStyle.Render(fmt.Sprintf("%-40s", truncate(page.Path, 40))),
			page.Views, page.UniqueVisitors)
	}
	return m.renderPanel("Top Pages", strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderReferrers() string {
	return m.renderPanel("Referrers", renderCounts(m.result.Referrers, 15))
}

func (m Model) renderClients() string {
	devices := m.renderPanel("Devices", renderCounts(m.result.Devices, 6))
	browsers := m.renderPanel("Browsers", renderCounts(m.result.Browsers, 10))
	return lipgloss.JoinHorizontal(lipgloss.Top, devices, browsers)
}

func (m Model) renderTimeline() string {
	if len(m.result.Timeline.ByDate) == 0 {
		return m.renderPanel("Timeline", "No data")
	}

	maxCount := 0
	for _, day := range m.result.Timeline.ByDate {
		if day.Count > maxCount {
			maxCount = day.Count
		}
	}

	var b strings.Builder
	for _, day := range m.result.Timeline.ByDate {
		width := 0
		if maxCount > 0 {
			width = day.Count * 40 / maxCount
		}
		fmt.Fprintf(&b, "%s %s %d\n",
			keyStyle.Render(day.Name),
			strings.Repeat("█", width),
			day.Count)
	}
	return m.renderPanel("Requests by Day", strings.TrimRight(b.String(), "\n"))
}

func renderCounts(stats []models.CountStat, limit int) string {
	if len(stats) == 0 {
		return "No data"
	}
	if len(stats) > limit {
		stats = stats[:limit]
	}

	var b strings.Builder
	for _, stat := range stats {
		fmt.Fprintf(&b, "%s %d\n",
			keyStyle.Render(fmt.Sprintf("%-30s", truncate(stat.Name, 30))),
			stat.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
