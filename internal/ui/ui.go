package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/hpowernl/weblytics/internal/partition"
	"github.com/hpowernl/weblytics/pkg/models"
)

// ConsoleUI renders analytics reports on the terminal.
type ConsoleUI struct {
	writer io.Writer
	colors bool
}

// NewConsoleUI creates a new console UI.
func NewConsoleUI(enableColors bool) *ConsoleUI {
	return &ConsoleUI{
		writer: os.Stdout,
		colors: enableColors,
	}
}

// DisplayAnalytics renders the full analytics result.
func (u *ConsoleUI) DisplayAnalytics(result *models.AnalyticsResult) {
	u.printHeader("📊 TRAFFIC ANALYTICS")

	u.printSection("Overview")
	u.printKeyValue("Total Requests", fmt.Sprintf("%d", result.Overview.TotalRequests))
	u.printKeyValue("Bots Filtered", fmt.Sprintf("%d (%.2f%%)", result.Overview.TotalBots, result.Overview.BotPercentage))
	if result.Overview.DateRange != nil {
		u.printKeyValue("Date Range", fmt.Sprintf("%s — %s",
			result.Overview.DateRange.Start.Format("2006-01-02 15:04"),
			result.Overview.DateRange.End.Format("2006-01-02 15:04")))
	}
	u.printKeyValue("Unique Visitors", fmt.Sprintf("%d", result.Visitors.Recommended))
	u.printKeyValue("Unique IPs", fmt.Sprintf("%d", result.Visitors.UniqueByIP))
	u.printKeyValue("Impressions", fmt.Sprintf("%d", result.Impressions.Total))

	u.printSection("Sessions")
	u.printKeyValue("Sessions", fmt.Sprintf("%d", result.Sessions.TotalSessions))
	u.printKeyValue("Avg Duration", fmt.Sprintf("%.2f ms", result.Sessions.AvgDurationMs))
	u.printKeyValue("Avg Pages/Session", fmt.Sprintf("%.2f", result.Sessions.AvgPagesPerSession))
	u.printKeyValue("Bounce Rate", fmt.Sprintf("%.2f%%", result.Sessions.BounceRate))

	if len(result.Pages) > 0 {
		u.printSection("Top Pages")
		u.printPagesTable(result.Pages)
	}
	if len(result.Referrers) > 0 {
		u.printSection("Referrers")
		u.printCountsTable("Referrer", result.Referrers[:min(10, len(result.Referrers))])
	}
	if len(result.Devices) > 0 {
		u.printSection("Devices")
		u.printCountsTable("Device", result.Devices)
	}
	if len(result.Browsers) > 0 {
		u.printSection("Browsers")
		u.printCountsTable("Browser", result.Browsers[:min(10, len(result.Browsers))])
	}
	if len(result.Geography.Countries) > 0 {
		u.printSection("Countries")
		u.printCountsTable("Country", result.Geography.Countries[:min(10, len(result.Geography.Countries))])
	}
	if len(result.Timeline.ByDate) > 0 {
		u.printSection("Timeline")
		u.printCountsTable("Day", result.Timeline.ByDate)
	}
}

// DisplaySessionReport renders per-visitor session details.
func (u *ConsoleUI) DisplaySessionReport(report *models.SessionReport) {
	u.printHeader("🕒 SESSION REPORT")

	u.printSection("Summary")
	u.printKeyValue("Sessions", fmt.Sprintf("%d", report.Stats.TotalSessions))
	u.printKeyValue("Visitors", fmt.Sprintf("%d", len(report.ByVisitor)))
	u.printKeyValue("Avg Duration", fmt.Sprintf("%.2f ms", report.Stats.AvgDurationMs))
	u.printKeyValue("Avg Pages/Session", fmt.Sprintf("%.2f", report.Stats.AvgPagesPerSession))
	u.printKeyValue("Bounce Rate", fmt.Sprintf("%.2f%%", report.Stats.BounceRate))

	if len(report.Sessions) > 0 {
		u.printSection("Sessions")
		table := tablewriter.NewWriter(u.writer)
		table.SetHeader([]string{"Visitor", "Start", "Duration", "Pages"})
		for _, sess := range report.Sessions[:min(20, len(report.Sessions))] {
			table.Append([]string{
				truncate(sess.Visitor, 12),
				sess.Start.Format("2006-01-02 15:04:05"),
				sess.Duration.String(),
				fmt.Sprintf("%d", sess.PageCount),
			})
		}
		table.Render()
	}
}

// DisplayBotReport renders the partition outcome with verdict causes.
func (u *ConsoleUI) DisplayBotReport(result partition.Result) {
	u.printHeader("🤖 BOT TRAFFIC REPORT")

	u.printSection("Filtering Summary")
	u.printKeyValue("Total Entries", fmt.Sprintf("%d", result.Stats.Total))
	u.printKeyValue("Legitimate", fmt.Sprintf("%d", result.Stats.Legitimate))
	u.printKeyValue("Bots", fmt.Sprintf("%d (%.2f%%)", result.Stats.Bots, result.Stats.BotPercentage))

	if len(result.Stats.DetectionMethods) > 0 {
		u.printSection("Detection Methods")
		for method, count := range result.Stats.DetectionMethods {
			u.printKeyValue(method, fmt.Sprintf("%d", count))
		}
	}

	if len(result.Bots) > 0 {
		u.printSection("Flagged Entries")
		table := tablewriter.NewWriter(u.writer)
		table.SetHeader([]string{"User Agent", "IP", "Method", "Confidence", "Reason"})
		for _, bot := range result.Bots[:min(20, len(result.Bots))] {
			reason := ""
			if len(bot.Verdict.Reasons) > 0 {
				reason = bot.Verdict.Reasons[0]
			}
			table.Append([]string{
				truncate(bot.UserAgent, 40),
				bot.IP,
				bot.Verdict.Method,
				fmt.Sprintf("%d", bot.Verdict.Confidence),
				truncate(reason, 40),
			})
		}
		table.Render()
	}
}

// DisplayVerdict renders a single ad hoc classification.
func (u *ConsoleUI) DisplayVerdict(verdict models.Verdict) {
	u.printHeader("🔎 CLASSIFICATION")

	u.printKeyValue("Bot", fmt.Sprintf("%t", verdict.IsBot))
	u.printKeyValue("Confidence", fmt.Sprintf("%d", verdict.Confidence))
	if verdict.Method != "" {
		u.printKeyValue("Method", verdict.Method)
	}
	for _, reason := range verdict.Reasons {
		u.printKeyValue("Reason", reason)
	}
}

func (u *ConsoleUI) printHeader(title string) {
	if u.colors {
		color.New(color.FgCyan, color.Bold).Fprintf(u.writer, "\n%s\n", title)
		color.New(color.FgCyan).Fprintf(u.writer, "%s\n\n", strings.Repeat("═", len(title)))
	} else {
		fmt.Fprintf(u.writer, "\n%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	}
}

func (u *ConsoleUI) printSection(title string) {
	if u.colors {
		color.New(color.FgYellow, color.Bold).Fprintf(u.writer, "\n%s\n", title)
		color.New(color.FgYellow).Fprintf(u.writer, "%s\n", strings.Repeat("─", len(title)))
	} else {
		fmt.Fprintf(u.writer, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
	}
}

func (u *ConsoleUI) printKeyValue(key, value string) {
	if u.colors {
		color.New(color.FgWhite, color.Bold).Fprintf(u.writer, "%-25s", key+":")
		color.New(color.FgGreen).Fprintf(u.writer, "%s\n", value)
	} else {
		fmt.Fprintf(u.writer, "%-25s %s\n", key+":", value)
	}
}

func (u *ConsoleUI) printPagesTable(pages []models.PathStat) {
	table := tablewriter.NewWriter(u.writer)
	table.SetHeader([]string{"Path", "Views", "Unique Visitors", "Views/Visitor"})

	for _, page := range pages {
		table.Append([]string{
			truncate(page.Path, 50),
			fmt.Sprintf("%d", page.Views),
			fmt.Sprintf("%d", page.UniqueVisitors),
			fmt.Sprintf("%.2f", page.ViewsPerVisitor),
		})
	}

	table.Render()
}

func (u *ConsoleUI) printCountsTable(label string, stats []models.CountStat) {
	table := tablewriter.NewWriter(u.writer)
	table.SetHeader([]string{label, "Count"})

	for _, stat := range stats {
		table.Append([]string{truncate(stat.Name, 50), fmt.Sprintf("%d", stat.Count)})
	}

	table.Render()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
