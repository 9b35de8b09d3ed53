package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpowernl/weblytics/pkg/models"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

func TestAggregatorVisitors(t *testing.T) {
	agg := New()
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T10:00:00Z", IP: "10.0.0.1", UserAgent: chromeUA})
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T10:01:00Z", IP: "10.0.0.1", UserAgent: chromeUA})
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T10:02:00Z", IP: "10.0.0.1", UserAgent: iphoneUA})

	s := agg.Summarize()

	assert.Equal(t, 1, s.Visitors.UniqueByIP)
	// Same IP but two user agents: two fingerprints.
	assert.Equal(t, 2, s.Visitors.UniqueByFingerprint)
	assert.Equal(t, s.Visitors.UniqueByFingerprint, s.Visitors.Recommended)
}

func TestAggregatorImpressions(t *testing.T) {
	agg := New()
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T10:00:00Z", IP: "10.0.0.1", UserAgent: chromeUA, Path: "/about?ref=nav"})
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T10:01:00Z", IP: "10.0.0.2", UserAgent: chromeUA, Path: "https://example.com/about"})
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T10:02:00Z", IP: "10.0.0.1", UserAgent: chromeUA, Path: ""})

	s := agg.Summarize()

	assert.Equal(t, 3, s.Impressions.Total)
	require.Len(t, s.Impressions.ByPath, 2)

	about := s.Impressions.ByPath[0]
	assert.Equal(t, "/about", about.Path)
	assert.Equal(t, 2, about.Views)
	assert.Equal(t, 2, about.UniqueVisitors)
	assert.Equal(t, 1.0, about.ViewsPerVisitor)

	assert.Equal(t, "/", s.Impressions.ByPath[1].Path)
}

func TestAggregatorReferrers(t *testing.T) {
	agg := New()
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T10:00:00Z", UserAgent: chromeUA, Referer: "https://www.google.com/search?q=x"})
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T10:01:00Z", UserAgent: chromeUA, Referer: ""})
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T10:02:00Z", UserAgent: chromeUA, Referer: "::bad url::"})

	s := agg.Summarize()

	counts := make(map[string]int)
	for _, stat := range s.Referrers {
		counts[stat.Name] = stat.Count
	}
	assert.Equal(t, 1, counts["www.google.com"])
	assert.Equal(t, 2, counts[DirectBucket])
}

func TestAggregatorDevicesAndBrowsers(t *testing.T) {
	agg := New()
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T10:00:00Z", UserAgent: chromeUA})
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T10:01:00Z", UserAgent: iphoneUA})

	s := agg.Summarize()

	devices := make(map[string]int)
	for _, stat := range s.Devices {
		devices[stat.Name] = stat.Count
	}
	assert.Equal(t, 1, devices["desktop"])
	assert.Equal(t, 1, devices["mobile"])

	assert.NotEmpty(t, s.Browsers)
}

func TestAggregatorTimeline(t *testing.T) {
	agg := New()
	// Monday 2024-01-15 10:00 UTC and 23:30 UTC, Tuesday 2024-01-16 10:00.
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T10:00:00Z", UserAgent: chromeUA})
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T23:30:00Z", UserAgent: chromeUA})
	agg.Add(models.LogEntry{Timestamp: "2024-01-16T10:00:00Z", UserAgent: chromeUA})

	s := agg.Summarize()

	require.Len(t, s.Timeline.ByDate, 2)
	assert.Equal(t, models.CountStat{Name: "2024-01-15", Count: 2}, s.Timeline.ByDate[0])
	assert.Equal(t, models.CountStat{Name: "2024-01-16", Count: 1}, s.Timeline.ByDate[1])

	assert.Equal(t, 2, s.Timeline.ByHour[10])
	assert.Equal(t, 1, s.Timeline.ByHour[23])

	// Monday is weekday index 1, Tuesday 2.
	assert.Equal(t, 2, s.Timeline.ByWeekday[1])
	assert.Equal(t, 1, s.Timeline.ByWeekday[2])

	require.NotNil(t, s.DateRange)
	assert.Equal(t, "2024-01-15", s.DateRange.Start.Format("2006-01-02"))
	assert.Equal(t, "2024-01-16", s.DateRange.End.Format("2006-01-02"))
}

func TestAggregatorGeography(t *testing.T) {
	agg := New()
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T10:00:00Z", UserAgent: chromeUA, Country: "NL", City: "Amsterdam"})
	agg.Add(models.LogEntry{Timestamp: "2024-01-15T10:01:00Z", UserAgent: chromeUA})

	s := agg.Summarize()

	countries := make(map[string]int)
	for _, stat := range s.Geography.Countries {
		countries[stat.Name] = stat.Count
	}
	assert.Equal(t, 1, countries["NL"])
	assert.Equal(t, 1, countries[UnknownBucket])
}

func TestAggregatorMalformedTimestampDegrades(t *testing.T) {
	agg := New()
	agg.Add(models.LogEntry{Timestamp: "garbage", UserAgent: chromeUA, Path: "/x"})

	s := agg.Summarize()

	// The entry still counts as an impression but is absent from the
	// timeline and date range.
	assert.Equal(t, 1, s.Impressions.Total)
	assert.Empty(t, s.Timeline.ByDate)
	assert.Nil(t, s.DateRange)
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "/"},
		{"/about", "/about"},
		{"/about?ref=nav", "/about"},
		{"https://example.com/pricing?plan=pro", "/pricing"},
		{"example.com/about", "/about"},
		{"example.com", "/"},
		{"%zz", "/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePath(tt.raw), "raw=%q", tt.raw)
	}
}
