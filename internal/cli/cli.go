package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/hpowernl/weblytics/internal/analytics"
	"github.com/hpowernl/weblytics/internal/classifier"
	"github.com/hpowernl/weblytics/internal/export"
	"github.com/hpowernl/weblytics/internal/filters"
	"github.com/hpowernl/weblytics/internal/logger"
	"github.com/hpowernl/weblytics/internal/logreader"
	"github.com/hpowernl/weblytics/internal/tui"
	"github.com/hpowernl/weblytics/internal/ui"
	"github.com/hpowernl/weblytics/pkg/models"
)

var (
	// Global flags
	logFile      string
	exportFormat string
	exportFile   string
	noColor      bool
	verbose      bool
	logOutput    string
	sinceFlag    string
	untilFlag    string
	pathPattern  string
	countryFlag  string
)

// RootCmd is the root command.
var RootCmd = &cobra.Command{
	Use:   "weblytics",
	Short: "Reconstruct web analytics from access logs",
	Long: `Weblytics reconstructs web-analytics metrics from raw access logs.

Bot traffic is filtered with signature, IP-range and behavioral checks;
the remaining entries are grouped into visitor sessions and aggregated
into visitors, impressions, referrers, devices, browsers and timelines.`,
	Version: "1.0.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Initialize(logger.Config{Verbose: verbose, FilePath: logOutput})
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&logFile, "file", "f", "", "Log file to analyze (JSON array or NDJSON, .gz supported)")
	RootCmd.PersistentFlags().StringVar(&exportFormat, "export", "", "Export format (json, csv, markdown)")
	RootCmd.PersistentFlags().StringVarP(&exportFile, "output", "o", "", "Output file for export")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	RootCmd.PersistentFlags().StringVar(&logOutput, "log-file", "", "Mirror logs to a rotating file")
	RootCmd.PersistentFlags().StringVar(&sinceFlag, "since", "", "Only analyze entries at or after this time (RFC3339)")
	RootCmd.PersistentFlags().StringVar(&untilFlag, "until", "", "Only analyze entries at or before this time (RFC3339)")
	RootCmd.PersistentFlags().StringVar(&pathPattern, "path-filter", "", "Only analyze entries whose path matches this regex")
	RootCmd.PersistentFlags().StringVar(&countryFlag, "country", "", "Only analyze entries from this country code")

	RootCmd.AddCommand(analyzeCmd)
	RootCmd.AddCommand(botsCmd)
	RootCmd.AddCommand(sessionsCmd)
	RootCmd.AddCommand(classifyCmd)
}

// Execute runs the CLI.
func Execute() error {
	return RootCmd.Execute()
}

var useTUI bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Full traffic analysis",
	Long:  "Filter bot traffic and compute visitors, sessions, impressions, referrers, clients and timelines",
	RunE:  runAnalyze,
}

var botsCmd = &cobra.Command{
	Use:   "bots",
	Short: "Bot filtering report",
	Long:  "Show which entries were flagged as bots, by which method and why",
	RunE:  runBots,
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Session reconstruction report",
	Long:  "Group legitimate traffic into visitor sessions and show session statistics",
	RunE:  runSessions,
}

var (
	classifyUA string
	classifyIP string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a single request",
	Long:  "Run the bot classifier against an ad hoc user agent and IP",
	RunE:  runClassify,
}

func init() {
	analyzeCmd.Flags().BoolVar(&useTUI, "tui", false, "Open the interactive dashboard")
	classifyCmd.Flags().StringVar(&classifyUA, "ua", "", "User agent to classify")
	classifyCmd.Flags().StringVar(&classifyIP, "ip", "", "IP address to classify")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	entries, err := loadEntries()
	if err != nil {
		return err
	}

	analyzer := analytics.NewDefault()
	result := analyzer.ProcessLogs(entries)

	if useTUI {
		return tui.Run(result)
	}

	console := ui.NewConsoleUI(!noColor)
	console.DisplayAnalytics(result)

	if exportFormat == "" {
		return nil
	}
	exporter := export.NewDataExporter()
	target := exportTarget("analytics")
	switch exportFormat {
	case "json":
		err = exporter.ExportJSON(result, target)
	case "csv":
		err = exporter.ExportCSV(result, target)
	case "markdown":
		err = exporter.ExportMarkdown(result, target)
	default:
		return fmt.Errorf("unknown export format: %s", exportFormat)
	}
	if err != nil {
		return err
	}
	slog.Info("report exported", "format", exportFormat, "file", target)
	return nil
}

func runBots(cmd *cobra.Command, args []string) error {
	entries, err := loadEntries()
	if err != nil {
		return err
	}

	analyzer := analytics.NewDefault()
	result := analyzer.Partition(entries)

	console := ui.NewConsoleUI(!noColor)
	console.DisplayBotReport(result)

	if exportFormat == "json" {
		exporter := export.NewDataExporter()
		target := exportTarget("bots")
		if err := exporter.ExportBotReportJSON(result, target); err != nil {
			return err
		}
		slog.Info("bot report exported", "file", target)
	}
	return nil
}

func runSessions(cmd *cobra.Command, args []string) error {
	entries, err := loadEntries()
	if err != nil {
		return err
	}

	analyzer := analytics.NewDefault()
	report := analyzer.Sessions(entries)

	console := ui.NewConsoleUI(!noColor)
	console.DisplaySessionReport(report)
	return nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	c := classifier.NewDefault()
	verdict := c.Classify(classifier.Request{UserAgent: classifyUA, IP: classifyIP})

	console := ui.NewConsoleUI(!noColor)
	console.DisplayVerdict(verdict)
	return nil
}

// loadEntries reads the input file and applies the optional pre-filters.
func loadEntries() ([]models.LogEntry, error) {
	if logFile == "" {
		return nil, fmt.Errorf("no log file specified, use --file")
	}

	reader := logreader.NewLogReader()
	entries, err := reader.ReadFile(logFile)
	if err != nil {
		return nil, err
	}
	if skipped := reader.Skipped(); skipped > 0 {
		slog.Warn("skipped malformed log lines", "count", skipped)
	}
	slog.Debug("log file loaded", "file", logFile, "entries", len(entries))

	filter, active, err := buildFilter()
	if err != nil {
		return nil, err
	}
	if active {
		before := len(entries)
		entries = filter.Apply(entries)
		slog.Debug("pre-filter applied", "before", before, "after", len(entries))
	}

	return entries, nil
}

func buildFilter() (*filters.LogFilter, bool, error) {
	filter := filters.NewLogFilter()
	active := false

	if sinceFlag != "" || untilFlag != "" {
		tr := &models.TimeRange{Start: time.Time{}, End: time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)}
		if sinceFlag != "" {
			t, err := time.Parse(time.RFC3339, sinceFlag)
			if err != nil {
				return nil, false, fmt.Errorf("invalid --since value: %w", err)
			}
			tr.Start = t
		}
		if untilFlag != "" {
			t, err := time.Parse(time.RFC3339, untilFlag)
			if err != nil {
				return nil, false, fmt.Errorf("invalid --until value: %w", err)
			}
			tr.End = t
		}
		filter.SetTimeRange(tr)
		active = true
	}

	if pathPattern != "" {
		if err := filter.AddPathPattern(pathPattern); err != nil {
			return nil, false, fmt.Errorf("invalid --path-filter value: %w", err)
		}
		active = true
	}

	if countryFlag != "" {
		filter.AddCountry(countryFlag)
		active = true
	}

	return filter, active, nil
}

func exportTarget(base string) string {
	if exportFile != "" {
		return exportFile
	}
	switch exportFormat {
	case "csv":
		return base + ".csv"
	case "markdown":
		return base + ".md"
	default:
		return base + ".json"
	}
}
