// Package filters narrows an entry batch before analysis.
package filters

import (
	"regexp"

	"github.com/hpowernl/weblytics/pkg/models"
)

// LogFilter selects which log entries take part in an analysis.
type LogFilter struct {
	countries    map[string]bool
	timeRange    *models.TimeRange
	pathPatterns []*regexp.Regexp
}

// NewLogFilter creates an empty filter that includes everything.
func NewLogFilter() *LogFilter {
	return &LogFilter{
		countries:    make(map[string]bool),
		pathPatterns: make([]*regexp.Regexp, 0),
	}
}

// AddCountry restricts the batch to the given countries.
func (f *LogFilter) AddCountry(country string) {
	f.countries[country] = true
}

// SetTimeRange restricts the batch to entries inside the range. Entries with
// unparseable timestamps are excluded once a range is set.
func (f *LogFilter) SetTimeRange(tr *models.TimeRange) {
	f.timeRange = tr
}

// AddPathPattern restricts the batch to paths matching the pattern.
func (f *LogFilter) AddPathPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	f.pathPatterns = append(f.pathPatterns, re)
	return nil
}

// ShouldInclude checks a single entry against all configured filters.
func (f *LogFilter) ShouldInclude(entry models.LogEntry) bool {
	if len(f.countries) > 0 && !f.countries[entry.Country] {
		return false
	}

	if f.timeRange != nil {
		at, ok := models.ParseTimestamp(entry.Timestamp)
		if !ok {
			return false
		}
		if at.Before(f.timeRange.Start) || at.After(f.timeRange.End) {
			return false
		}
	}

	if len(f.pathPatterns) > 0 {
		matched := false
		for _, re := range f.pathPatterns {
			if re.MatchString(entry.Path) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply filters a batch, preserving input order.
func (f *LogFilter) Apply(entries []models.LogEntry) []models.LogEntry {
	out := make([]models.LogEntry, 0, len(entries))
	for _, entry := range entries {
		if f.ShouldInclude(entry) {
			out = append(out, entry)
		}
	}
	return out
}
