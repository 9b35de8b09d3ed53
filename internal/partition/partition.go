// Package partition splits a batch of log entries into legitimate traffic and
// bot traffic using a classifier.
package partition

import (
	"github.com/hpowernl/weblytics/internal/classifier"
	"github.com/hpowernl/weblytics/pkg/models"
	"github.com/hpowernl/weblytics/pkg/numbers"
)

// Result holds the outcome of one partitioning pass. Entry order within each
// subset matches the input order.
type Result struct {
	Legitimate []models.LogEntry
	Bots       []models.BotEntry
	Stats      models.FilterStats
}

// Partitioner runs a classifier over entry batches.
type Partitioner struct {
	classifier *classifier.Classifier
}

// New creates a partitioner. A nil classifier is a valid configuration
// meaning every entry is treated as legitimate.
func New(c *classifier.Classifier) *Partitioner {
	return &Partitioner{classifier: c}
}

// Partition classifies every entry and splits the batch. Bot entries carry
// the verdict that flagged them; legitimate entries pass through unmodified.
func (p *Partitioner) Partition(entries []models.LogEntry) Result {
	result := Result{
		Legitimate: make([]models.LogEntry, 0, len(entries)),
		Bots:       make([]models.BotEntry, 0),
		Stats: models.FilterStats{
			Total:            len(entries),
			DetectionMethods: make(map[string]int),
		},
	}

	for _, entry := range entries {
		if p.classifier == nil {
			result.Legitimate = append(result.Legitimate, entry)
			continue
		}

		verdict := p.classifier.Classify(classifier.Request{
			UserAgent: entry.UserAgent,
			IP:        entry.IP,
		})
		if !verdict.IsBot {
			result.Legitimate = append(result.Legitimate, entry)
			continue
		}

		result.Bots = append(result.Bots, models.BotEntry{LogEntry: entry, Verdict: verdict})
		method := verdict.Method
		if method == "" {
			method = "unknown"
		}
		result.Stats.DetectionMethods[method]++
	}

	result.Stats.Legitimate = len(result.Legitimate)
	result.Stats.Bots = len(result.Bots)
	result.Stats.BotPercentage = numbers.Percentage(result.Stats.Bots, result.Stats.Total)

	return result
}
