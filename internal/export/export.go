// Package export renders analytics results to files. Writers read the result
// fields as-is and recompute nothing.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hpowernl/weblytics/internal/partition"
	"github.com/hpowernl/weblytics/pkg/models"
)

// DataExporter provides report export functionality.
type DataExporter struct{}

// NewDataExporter creates a new data exporter.
func NewDataExporter() *DataExporter {
	return &DataExporter{}
}

// ExportJSON writes the full analytics result as indented JSON.
func (e *DataExporter) ExportJSON(result *models.AnalyticsResult, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ExportBotReportJSON writes the partition result with per-entry verdicts.
func (e *DataExporter) ExportBotReportJSON(result partition.Result, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(struct {
		Stats models.FilterStats `json:"stats"`
		Bots  []models.BotEntry  `json:"bots"`
	}{Stats: result.Stats, Bots: result.Bots}); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ExportCSV writes the overview plus the top-N breakdowns as CSV sections.
func (e *DataExporter) ExportCSV(result *models.AnalyticsResult, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	records := [][]string{
		{"Metric", "Value"},
		{"Total Requests", fmt.Sprintf("%d", result.Overview.TotalRequests)},
		{"Total Bots", fmt.Sprintf("%d", result.Overview.TotalBots)},
		{"Bot Percentage", fmt.Sprintf("%.2f", result.Overview.BotPercentage)},
		{"Unique Visitors", fmt.Sprintf("%d", result.Visitors.Recommended)},
		{"Unique IPs", fmt.Sprintf("%d", result.Visitors.UniqueByIP)},
		{"Impressions", fmt.Sprintf("%d", result.Impressions.Total)},
		{"Sessions", fmt.Sprintf("%d", result.Sessions.TotalSessions)},
		{"Avg Session Duration (ms)", fmt.Sprintf("%.2f", result.Sessions.AvgDurationMs)},
		{"Avg Pages / Session", fmt.Sprintf("%.2f", result.Sessions.AvgPagesPerSession)},
		{"Bounce Rate", fmt.Sprintf("%.2f", result.Sessions.BounceRate)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	sections := []struct {
		name  string
		stats []models.CountStat
	}{
		{"Referrer", result.Referrers},
		{"Device", result.Devices},
		{"Browser", result.Browsers},
		{"Country", result.Geography.Countries},
	}
	for _, section := range sections {
		if err := writer.Write([]string{}); err != nil {
			return err
		}
		if err := writer.Write([]string{section.name, "Count"}); err != nil {
			return err
		}
		for _, stat := range section.stats {
			if err := writer.Write([]string{stat.Name, fmt.Sprintf("%d", stat.Count)}); err != nil {
				return err
			}
		}
	}

	if err := writer.Write([]string{}); err != nil {
		return err
	}
	if err := writer.Write([]string{"Path", "Views", "Unique Visitors", "Views/Visitor"}); err != nil {
		return err
	}
	for _, page := range result.Pages {
		record := []string{
			page.Path,
			fmt.Sprintf("%d", page.Views),
			fmt.Sprintf("%d", page.UniqueVisitors),
			fmt.Sprintf("%.2f", page.ViewsPerVisitor),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

// ExportMarkdown writes a human-readable report document.
func (e *DataExporter) ExportMarkdown(result *models.AnalyticsResult, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return writeMarkdown(file, result)
}

func writeMarkdown(w io.Writer, result *models.AnalyticsResult) error {
	var b strings.Builder

	b.WriteString("# Traffic Report\n\n")
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- Total requests: %d\n", result.Overview.TotalRequests)
	fmt.Fprintf(&b, "- Bot requests filtered: %d (%.2f%%)\n", result.Overview.TotalBots, result.Overview.BotPercentage)
	if result.Overview.DateRange != nil {
		fmt.Fprintf(&b, "- Date range: %s — %s\n",
			result.Overview.DateRange.Start.Format("2006-01-02 15:04:05"),
			result.Overview.DateRange.End.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(&b, "- Unique visitors: %d\n", result.Visitors.Recommended)
	fmt.Fprintf(&b, "- Impressions: %d\n", result.Impressions.Total)
	b.WriteString("\n## Sessions\n\n")
	fmt.Fprintf(&b, "- Sessions: %d\n", result.Sessions.TotalSessions)
	fmt.Fprintf(&b, "- Avg duration: %.2f ms\n", result.Sessions.AvgDurationMs)
	fmt.Fprintf(&b, "- Avg pages/session: %.2f\n", result.Sessions.AvgPagesPerSession)
	fmt.Fprintf(&b, "- Bounce rate: %.2f%%\n", result.Sessions.BounceRate)

	b.WriteString("\n## Top Pages\n\n")
	b.WriteString("| Path | Views | Unique Visitors | Views/Visitor |\n")
	b.WriteString("|------|-------|-----------------|---------------|\n")
	for _, page := range result.Pages {
		fmt.Fprintf(&b, "| %s | %d | %d | %.2f |\n",
			page.Path, page.Views, page.UniqueVisitors, page.ViewsPerVisitor)
	}

	mdSections := []struct {
		name  string
		stats []models.CountStat
	}{
		{"Referrers", result.Referrers},
		{"Devices", result.Devices},
		{"Browsers", result.Browsers},
		{"Countries", result.Geography.Countries},
	}
	for _, section := range mdSections {
		fmt.Fprintf(&b, "\n## %s\n\n", section.name)
		b.WriteString("| Name | Count |\n|------|-------|\n")
		for _, stat := range section.stats {
			fmt.Fprintf(&b, "| %s | %d |\n", stat.Name, stat.Count)
		}
	}

	b.WriteString("\n## Timeline\n\n")
	b.WriteString("| Day | Requests |\n|-----|----------|\n")
	for _, day := range result.Timeline.ByDate {
		fmt.Fprintf(&b, "| %s | %d |\n", day.Name, day.Count)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
