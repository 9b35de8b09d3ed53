// Package sessions reconstructs visitor sessions from filtered log entries.
//
// Entries are grouped by visitor fingerprint and sorted by timestamp; a gap
// strictly greater than the session timeout closes the current session and
// opens the next one. Sessions only exist for the duration of one analytics
// run, nothing is persisted.
package sessions

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/hpowernl/weblytics/internal/config"
	"github.com/hpowernl/weblytics/pkg/models"
	"github.com/hpowernl/weblytics/pkg/numbers"
	"github.com/hpowernl/weblytics/pkg/visitor"
)

// Reconstructor groups log entries into time-bounded visitor sessions.
type Reconstructor struct {
	timeout time.Duration
}

// New creates a reconstructor with the standard 30 minute timeout.
func New() *Reconstructor {
	return &Reconstructor{timeout: config.SessionTimeout}
}

// NewWithTimeout creates a reconstructor with a custom timeout.
func NewWithTimeout(timeout time.Duration) *Reconstructor {
	return &Reconstructor{timeout: timeout}
}

type event struct {
	at time.Time
}

// Reconstruct builds sessions for every visitor in the batch. Entries whose
// timestamps cannot be parsed are skipped; they still count elsewhere, but
// session math needs an instant.
func (r *Reconstructor) Reconstruct(entries []models.LogEntry) *models.SessionReport {
	groups := make(map[string][]event)
	order := make([]string, 0)

	for _, entry := range entries {
		at, ok := models.ParseTimestamp(entry.Timestamp)
		if !ok {
			continue
		}
		fp := visitor.Fingerprint(entry.IP, entry.UserAgent)
		if _, seen := groups[fp]; !seen {
			order = append(order, fp)
		}
		groups[fp] = append(groups[fp], event{at: at})
	}

	report := &models.SessionReport{
		Sessions:  make([]models.Session, 0),
		ByVisitor: make(map[string][]models.Session),
	}

	for _, fp := range order {
		events := groups[fp]
		sort.Slice(events, func(i, j int) bool {
			return events[i].at.Before(events[j].at)
		})

		sess := r.walk(fp, events)
		report.ByVisitor[fp] = sess
		report.Sessions = append(report.Sessions, sess...)
	}

	report.Stats = summarize(report.Sessions)
	return report
}

// walk splits one visitor's sorted events on gaps exceeding the timeout.
func (r *Reconstructor) walk(fp string, events []event) []models.Session {
	sessions := make([]models.Session, 0, 1)

	var start, last time.Time
	pages := 0

	flush := func() {
		sessions = append(sessions, models.Session{
			Visitor:   fp,
			Start:     start,
			End:       last,
			Duration:  last.Sub(start),
			PageCount: pages,
		})
	}

	for i, ev := range events {
		if i == 0 || ev.at.Sub(last) > r.timeout {
			if i > 0 {
				flush()
			}
			start = ev.at
			pages = 0
		}
		last = ev.at
		pages++
	}
	if pages > 0 {
		flush()
	}

	return sessions
}

func summarize(sessions []models.Session) models.SessionStats {
	s := models.SessionStats{TotalSessions: len(sessions)}
	if len(sessions) == 0 {
		return s
	}

	durations := make([]float64, 0, len(sessions))
	pages := make([]float64, 0, len(sessions))
	bounces := 0
	for _, sess := range sessions {
		durations = append(durations, float64(sess.Duration.Milliseconds()))
		pages = append(pages, float64(sess.PageCount))
		if sess.PageCount == 1 {
			bounces++
		}
	}

	if mean, err := stats.Mean(durations); err == nil {
		s.AvgDurationMs = numbers.Round2(mean)
	}
	if mean, err := stats.Mean(pages); err == nil {
		s.AvgPagesPerSession = numbers.Round2(mean)
	}
	s.BounceRate = numbers.Percentage(bounces, len(sessions))

	return s
}
