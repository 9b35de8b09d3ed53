package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpowernl/weblytics/internal/partition"
	"github.com/hpowernl/weblytics/pkg/models"
)

func sampleResult() *models.AnalyticsResult {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	return &models.AnalyticsResult{
		Overview: models.Overview{
			TotalRequests: 2,
			TotalBots:     1,
			BotPercentage: 33.33,
			DateRange:     &models.TimeRange{Start: start, End: start.Add(time.Minute)},
		},
		Visitors:    models.VisitorStats{UniqueByIP: 1, UniqueByFingerprint: 1, Recommended: 1},
		Impressions: models.ImpressionStats{Total: 2},
		Sessions:    models.SessionStats{TotalSessions: 1, AvgDurationMs: 60000, AvgPagesPerSession: 2, BounceRate: 0},
		Pages: []models.PathStat{
			{Path: "/", Views: 1, UniqueVisitors: 1, ViewsPerVisitor: 1},
			{Path: "/about", Views: 1, UniqueVisitors: 1, ViewsPerVisitor: 1},
		},
		Referrers: []models.CountStat{{Name: "Direct", Count: 2}},
		Devices:   []models.CountStat{{Name: "desktop", Count: 2}},
		Browsers:  []models.CountStat{{Name: "Chrome", Count: 2}},
		Geography: models.Geography{Countries: []models.CountStat{{Name: "Unknown", Count: 2}}},
		Timeline: models.Timeline{
			ByDate: []models.CountStat{{Name: "2024-01-15", Count: 2}},
		},
		DetectionMethods: map[string]int{models.MethodUserAgent: 1},
	}
}

func TestExportJSON(t *testing.T) {
	e := NewDataExporter()
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, e.ExportJSON(sampleResult(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `"totalRequests": 2`)
	assert.Contains(t, content, `"bounceRate": 0`)
	assert.Contains(t, content, `"/about"`)
}

func TestExportBotReportJSON(t *testing.T) {
	e := NewDataExporter()
	path := filepath.Join(t.TempDir(), "bots.json")

	result := partition.Result{
		Bots: []models.BotEntry{
			{
				LogEntry: models.LogEntry{IP: "66.249.64.1", UserAgent: "Googlebot/2.1"},
				Verdict:  models.Verdict{IsBot: true, Confidence: 95, Method: models.MethodUserAgent, Reasons: []string{"known bot signature: googlebot"}},
			},
		},
		Stats: models.FilterStats{Total: 3, Legitimate: 2, Bots: 1, BotPercentage: 33.33},
	}
	require.NoError(t, e.ExportBotReportJSON(result, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `"confidence": 95`)
	assert.Contains(t, content, `"method": "user-agent"`)
	assert.Contains(t, content, `"botPercentage": 33.33`)
}

func TestExportCSV(t *testing.T) {
	e := NewDataExporter()
	path := filepath.Join(t.TempDir(), "report.csv")

	require.NoError(t, e.ExportCSV(sampleResult(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "Metric,Value\n"))
	assert.Contains(t, content, "Total Requests,2\n")
	assert.Contains(t, content, "Bounce Rate,0.00\n")
	assert.Contains(t, content, "Direct,2\n")
	assert.Contains(t, content, "/about,1,1,1.00\n")
}

func TestExportMarkdown(t *testing.T) {
	e := NewDataExporter()
	path := filepath.Join(t.TempDir(), "report.md")

	require.NoError(t, e.ExportMarkdown(sampleResult(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "# Traffic Report\n"))
	assert.Contains(t, content, "- Total requests: 2\n")
	assert.Contains(t, content, "| /about | 1 | 1 | 1.00 |")
	assert.Contains(t, content, "| 2024-01-15 | 2 |")
}
