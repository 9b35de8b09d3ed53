// Package analytics ties the pipeline together: partition the batch with the
// bot classifier, then reconstruct sessions and aggregate metrics over the
// legitimate subset.
package analytics

import (
	"github.com/hpowernl/weblytics/internal/classifier"
	"github.com/hpowernl/weblytics/internal/metrics"
	"github.com/hpowernl/weblytics/internal/partition"
	"github.com/hpowernl/weblytics/internal/sessions"
	"github.com/hpowernl/weblytics/pkg/models"
)

// Analyzer runs the full analytics pipeline over entry batches. Each
// ProcessLogs call is independent; no state survives between calls.
type Analyzer struct {
	partitioner   *partition.Partitioner
	reconstructor *sessions.Reconstructor
}

// New creates an analyzer using the given classifier. A nil classifier is a
// valid configuration: every entry is treated as legitimate.
func New(c *classifier.Classifier) *Analyzer {
	return &Analyzer{
		partitioner:   partition.New(c),
		reconstructor: sessions.New(),
	}
}

// NewDefault creates an analyzer with the built-in pattern catalog.
func NewDefault() *Analyzer {
	return New(classifier.NewDefault())
}

// Partition exposes the bot/legitimate split for bot-focused reporting.
func (a *Analyzer) Partition(entries []models.LogEntry) partition.Result {
	return a.partitioner.Partition(entries)
}

// Sessions reconstructs sessions over the legitimate subset only.
func (a *Analyzer) Sessions(entries []models.LogEntry) *models.SessionReport {
	part := a.partitioner.Partition(entries)
	return a.reconstructor.Reconstruct(part.Legitimate)
}

// ProcessLogs computes the complete analytics result for a batch. It never
// fails: malformed records degrade to defaults and an empty batch yields a
// well-formed zero result.
func (a *Analyzer) ProcessLogs(entries []models.LogEntry) *models.AnalyticsResult {
	part := a.partitioner.Partition(entries)

	report := a.reconstructor.Reconstruct(part.Legitimate)

	agg := metrics.New()
	for _, entry := range part.Legitimate {
		agg.Add(entry)
	}
	summary := agg.Summarize()

	return &models.AnalyticsResult{
		Overview: models.Overview{
			TotalRequests: part.Stats.Legitimate,
			TotalBots:     part.Stats.Bots,
			BotPercentage: part.Stats.BotPercentage,
			DateRange:     summary.DateRange,
		},
		Visitors:         summary.Visitors,
		Impressions:      summary.Impressions,
		Sessions:         report.Stats,
		Pages:            summary.Pages,
		Referrers:        summary.Referrers,
		Devices:          summary.Devices,
		Browsers:         summary.Browsers,
		Geography:        summary.Geography,
		Timeline:         summary.Timeline,
		DetectionMethods: part.Stats.DetectionMethods,
	}
}
